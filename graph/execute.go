package graph

import (
	"context"
	"fmt"
	"strings"

	"blogql/config"
	"blogql/logger"

	"github.com/graphql-go/graphql"
)

// Execute runs one GraphQL operation with a fresh loader bundle attached
// to ctx. Errors without a client-facing code are unhandled resolver
// failures: they are logged with their response path and, outside debug
// mode, replaced with a generic message so internals never leak.
func Execute(ctx context.Context, schema graphql.Schema, query string, operationName string, variables map[string]any) *graphql.Result {
	ctx = WithLoaders(ctx, NewLoaders())

	result := graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		OperationName:  operationName,
		VariableValues: variables,
		Context:        ctx,
	})

	for i, gqlErr := range result.Errors {
		if _, ok := gqlErr.Extensions["code"]; ok {
			continue
		}
		location := pathString(gqlErr.Path)
		if location == "" {
			logger.Errorf("unhandled exception in GraphQL execution: %s", gqlErr.Message)
		} else {
			logger.Errorf("unhandled exception in GraphQL execution at %s: %s", location, gqlErr.Message)
		}
		if !config.IsDebug() {
			result.Errors[i].Message = "internal server error"
		}
	}
	return result
}

func pathString(path []any) string {
	if len(path) == 0 {
		return ""
	}
	parts := make([]string, 0, len(path))
	for _, p := range path {
		parts = append(parts, fmt.Sprint(p))
	}
	return strings.Join(parts, ".")
}
