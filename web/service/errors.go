package service

import "errors"

// Client-visible entity errors. The GraphQL layer maps these onto the
// NOT_FOUND / BAD_REQUEST error codes; the exact messages are part of the
// API surface.
var (
	ErrUserNotFound    = errors.New("User not found")
	ErrPostNotFound    = errors.New("Post not found")
	ErrCommentNotFound = errors.New("Comment not found")

	// ErrUserReferenced signals a delete blocked by the restrict
	// constraint on posts/comments that still reference the user.
	ErrUserReferenced = errors.New("User still has posts or comments")

	// ErrNoSubject fails the login bridge when a validated token
	// carries no subject claim.
	ErrNoSubject = errors.New("no JWT subject found in claims")
)
