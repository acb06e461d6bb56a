// Package session carries the authenticated request principal. The
// principal is rebuilt on every request from the validated token and the
// user row, never from claims supplied by the client.
package session

import (
	"context"

	"github.com/gin-gonic/gin"
)

// Principal is the identity attached to an authenticated request.
type Principal struct {
	UserId  int
	Subject string
	Name    string
	Roles   []string
}

// HasRole reports whether the principal carries the named role claim.
func (p *Principal) HasRole(name string) bool {
	for _, r := range p.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the principal carries at least one of the
// named role claims.
func (p *Principal) HasAnyRole(names ...string) bool {
	for _, n := range names {
		if p.HasRole(n) {
			return true
		}
	}
	return false
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the request principal, or nil for anonymous contexts.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// SetPrincipal stores p on the gin request so downstream handlers and the
// GraphQL executor (which only sees the request context) both observe it.
func SetPrincipal(c *gin.Context, p *Principal) {
	c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
}
