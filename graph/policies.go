package graph

import (
	"context"

	"blogql/web/session"

	"github.com/graphql-go/graphql"
)

// Named authorization policies evaluated against the request principal.
// The transport enforces the viewer policy before execution; schema
// fields declare the rest.
const (
	PolicyViewer   = "viewer"
	PolicyOperator = "operator"
	PolicyAdmin    = "admin"
	PolicySysAdmin = "sysadmin"
	PolicyQuery    = "query"
	PolicyMutation = "mutation"
)

var policies = map[string]func(p *session.Principal) bool{
	PolicyViewer:   func(p *session.Principal) bool { return true },
	PolicyQuery:    func(p *session.Principal) bool { return true },
	PolicyMutation: func(p *session.Principal) bool { return true },
	PolicyOperator: func(p *session.Principal) bool { return p.HasAnyRole("Operator", "Admin", "SysAdmin") },
	PolicyAdmin:    func(p *session.Principal) bool { return p.HasAnyRole("Admin", "SysAdmin") },
	PolicySysAdmin: func(p *session.Principal) bool { return p.HasRole("SysAdmin") },
}

// Authorize evaluates the named policy against the principal attached to
// ctx. Anonymous contexts fail every policy.
func Authorize(ctx context.Context, policy string) error {
	check, ok := policies[policy]
	if !ok {
		return NewForbidden("unknown policy: " + policy)
	}
	p := session.FromContext(ctx)
	if p == nil {
		return NewUnauthenticated("authentication required")
	}
	if !check(p) {
		return NewForbidden("missing role required by policy: " + policy)
	}
	return nil
}

// withPolicy wraps a resolver so the policy is checked before the field
// resolves.
func withPolicy(policy string, resolve graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		if err := Authorize(p.Context, policy); err != nil {
			return nil, err
		}
		return resolve(p)
	}
}
