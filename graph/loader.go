package graph

import (
	"context"
	"sync"

	"blogql/database/model"
)

// Loader batches foreign-key lookups of one relation type within a single
// GraphQL execution. Load registers a key and returns a thunk; the first
// thunk that is forced resolves every key registered so far with one
// fetch, and the results are handed back to all waiting thunks. Keys
// registered after a flush start a fresh batch.
type Loader[K comparable, V any] struct {
	fetch func(ctx context.Context, keys []K) (map[K]V, error)

	mu      sync.Mutex
	pending *batch[K, V]
}

type batch[K comparable, V any] struct {
	keys    []K
	seen    map[K]struct{}
	once    sync.Once
	done    chan struct{}
	results map[K]V
	err     error
}

func NewLoader[K comparable, V any](fetch func(ctx context.Context, keys []K) (map[K]V, error)) *Loader[K, V] {
	return &Loader[K, V]{fetch: fetch}
}

// Load registers key in the current batch. The returned thunk blocks
// until the batch is resolved; ok is false when the store has no row for
// the key.
func (l *Loader[K, V]) Load(ctx context.Context, key K) func() (V, bool, error) {
	l.mu.Lock()
	b := l.pending
	if b == nil {
		b = &batch[K, V]{
			seen: make(map[K]struct{}),
			done: make(chan struct{}),
		}
		l.pending = b
	}
	if _, dup := b.seen[key]; !dup {
		b.seen[key] = struct{}{}
		b.keys = append(b.keys, key)
	}
	l.mu.Unlock()

	return func() (V, bool, error) {
		l.resolve(ctx, b)
		if b.err != nil {
			var zero V
			return zero, false, b.err
		}
		v, ok := b.results[key]
		return v, ok, nil
	}
}

func (l *Loader[K, V]) resolve(ctx context.Context, b *batch[K, V]) {
	b.once.Do(func() {
		// Detach first so keys arriving during the fetch get a new batch.
		l.mu.Lock()
		if l.pending == b {
			l.pending = nil
		}
		l.mu.Unlock()

		b.results, b.err = l.fetch(ctx, b.keys)
		close(b.done)
	})
	<-b.done
}

// Loaders bundles the per-request batching contexts for every deferred
// relation in the schema. A fresh bundle is attached to each request's
// context before execution; loaders are never shared across requests.
type Loaders struct {
	Users          *Loader[int, model.User]
	Posts          *Loader[int, model.Post]
	PostsByUser    *Loader[int, []model.Post]
	CommentsByPost *Loader[int, []model.Comment]
}

func NewLoaders() *Loaders {
	return &Loaders{
		Users:          NewLoader(userService.GetUsersByIds),
		Posts:          NewLoader(postService.GetPostsByIds),
		PostsByUser:    NewLoader(postService.GetPostsByUserIds),
		CommentsByPost: NewLoader(commentService.GetCommentsByPostIds),
	}
}

type loadersKey struct{}

// WithLoaders returns a copy of ctx carrying a loader bundle.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey{}, l)
}

// loadersFrom returns the request's loader bundle, or a throwaway bundle
// for contexts that never went through the transport (tests, tooling).
func loadersFrom(ctx context.Context) *Loaders {
	if l, ok := ctx.Value(loadersKey{}).(*Loaders); ok {
		return l
	}
	return NewLoaders()
}
