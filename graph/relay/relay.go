// Package relay implements cursor-based connection pagination over a
// sequence ordered by ascending primary key, following the Relay
// connection convention (edges, opaque cursors, page info, total count).
package relay

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxPageSize is the hard server-side cap on first/last. Requests above
// the cap are clamped, not rejected.
const MaxPageSize = 100

const cursorPrefix = "key:"

var (
	ErrNonPositiveFirst = errors.New("'first' must be greater than zero")
	ErrNonPositiveLast  = errors.New("'last' must be greater than zero")
)

// EncodeCursor encodes an ordering key as an opaque cursor. The encoding
// round-trips exactly: DecodeCursor(EncodeCursor(k)) == k for every key.
func EncodeCursor(key int) string {
	return base64.StdEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(key)))
}

// DecodeCursor decodes a cursor back to its ordering key. Malformed
// cursors fail with a client error.
func DecodeCursor(cursor string) (int, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("invalid cursor %q", cursor)
	}
	payload, ok := strings.CutPrefix(string(raw), cursorPrefix)
	if !ok {
		return 0, fmt.Errorf("invalid cursor %q", cursor)
	}
	key, err := strconv.Atoi(payload)
	if err != nil {
		return 0, fmt.Errorf("invalid cursor %q", cursor)
	}
	return key, nil
}

// Args are the standard connection pagination arguments.
type Args struct {
	First  *int
	Last   *int
	After  *string
	Before *string
}

// Edge pairs an entity with the cursor encoding its position.
type Edge[T any] struct {
	Node   T
	Cursor string
}

type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     *string
	EndCursor       *string
}

// Connection is one page of an ordered sequence. Items and Edges hold the
// same entities in the same ascending-key order; TotalCount counts the
// whole sequence regardless of pagination arguments.
type Connection[T any] struct {
	Items      []T
	Edges      []Edge[T]
	PageInfo   PageInfo
	TotalCount int
}

// Paginate produces one page from items, which must already be sorted by
// ascending key. After/before trims are exclusive. When both first and
// last are given, first trims the front of the filtered sequence and last
// then trims the back of that window. Results stay in ascending order
// even for last-anchored pages.
func Paginate[T any](items []T, key func(T) int, args Args) (*Connection[T], error) {
	if args.First != nil && *args.First <= 0 {
		return nil, ErrNonPositiveFirst
	}
	if args.Last != nil && *args.Last <= 0 {
		return nil, ErrNonPositiveLast
	}

	total := len(items)
	window := items

	if args.After != nil {
		afterKey, err := DecodeCursor(*args.After)
		if err != nil {
			return nil, err
		}
		for len(window) > 0 && key(window[0]) <= afterKey {
			window = window[1:]
		}
	}
	if args.Before != nil {
		beforeKey, err := DecodeCursor(*args.Before)
		if err != nil {
			return nil, err
		}
		for len(window) > 0 && key(window[len(window)-1]) >= beforeKey {
			window = window[:len(window)-1]
		}
	}

	hasNext := false
	hasPrevious := false
	if args.First != nil {
		n := min(*args.First, MaxPageSize)
		if len(window) > n {
			window = window[:n]
			hasNext = true
		}
	}
	if args.Last != nil {
		n := min(*args.Last, MaxPageSize)
		if len(window) > n {
			window = window[len(window)-n:]
			hasPrevious = true
		}
	}

	conn := &Connection[T]{
		Items:      window,
		Edges:      make([]Edge[T], 0, len(window)),
		TotalCount: total,
		PageInfo: PageInfo{
			HasNextPage:     hasNext,
			HasPreviousPage: hasPrevious,
		},
	}
	for _, item := range window {
		conn.Edges = append(conn.Edges, Edge[T]{Node: item, Cursor: EncodeCursor(key(item))})
	}
	if len(conn.Edges) > 0 {
		conn.PageInfo.StartCursor = &conn.Edges[0].Cursor
		conn.PageInfo.EndCursor = &conn.Edges[len(conn.Edges)-1].Cursor
	}
	return conn, nil
}
