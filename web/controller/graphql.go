// Package controller provides the HTTP handlers for the blogql API:
// the GraphQL endpoint, the GraphiQL page, and the health probe.
package controller

import (
	_ "embed"
	"net/http"

	"blogql/graph"
	"blogql/logger"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/graphql-go/graphql"
)

//go:embed graphiql.html
var graphiqlPage []byte

type gqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
	DocumentId    string         `json:"documentId"`
}

// GraphQLController serves GraphQL over HTTP: POST only (GET execution is
// disabled), one operation per request (no batching), bearer auth only so
// CSRF protection is unnecessary.
type GraphQLController struct {
	schema graphql.Schema
	docs   *graph.DocumentStore
}

func NewGraphQLController(g *gin.RouterGroup, schema graphql.Schema, docs *graph.DocumentStore) *GraphQLController {
	a := &GraphQLController{
		schema: schema,
		docs:   docs,
	}
	a.initRouter(g)
	return a
}

func (a *GraphQLController) initRouter(g *gin.RouterGroup) {
	g.POST("/graphql", a.postGraphQL)
}

func (a *GraphQLController) postGraphQL(c *gin.Context) {
	// Viewer gate: nothing executes for anonymous requests. Field-level
	// policies still run during execution.
	if err := graph.Authorize(c.Request.Context(), graph.PolicyViewer); err != nil {
		if ce, ok := err.(*graph.ClientError); ok {
			a.respondErrors(c, ce)
			return
		}
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req gqlRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		a.respondErrors(c, graph.NewBadRequest("malformed request body"))
		return
	}

	// The document id may also ride the query string so persisted
	// operations show up in access logs.
	if req.DocumentId == "" {
		req.DocumentId = c.Query("documentId")
	}
	if req.DocumentId != "" {
		query, ok := a.docs.Get(req.DocumentId)
		if !ok {
			a.respondErrors(c, graph.NewBadRequest("document not found: "+req.DocumentId))
			return
		}
		req.Query = query
		logger.Debugf("executing persisted document %s", req.DocumentId)
	}
	if req.Query == "" {
		a.respondErrors(c, graph.NewBadRequest("no query document supplied"))
		return
	}

	result := graph.Execute(c.Request.Context(), a.schema, req.Query, req.OperationName, req.Variables)
	a.respond(c, http.StatusOK, result)
}

// respond serializes via goccy and bypasses gin's JSON renderer.
func (a *GraphQLController) respond(c *gin.Context, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("marshal graphql response:", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(status, "application/json; charset=utf-8", body)
}

// respondErrors returns a GraphQL error response. Validation-class
// failures still answer 200 so clients process the error list instead of
// the transport status.
func (a *GraphQLController) respondErrors(c *gin.Context, errs ...*graph.ClientError) {
	type gqlError struct {
		Message    string         `json:"message"`
		Extensions map[string]any `json:"extensions,omitempty"`
	}
	out := struct {
		Errors []gqlError `json:"errors"`
	}{}
	for _, e := range errs {
		out.Errors = append(out.Errors, gqlError{Message: e.Message, Extensions: e.Extensions()})
	}
	a.respond(c, http.StatusOK, out)
}

// GraphiQLController serves the embedded GraphiQL page.
type GraphiQLController struct{}

func NewGraphiQLController(g *gin.RouterGroup) *GraphiQLController {
	a := &GraphiQLController{}
	g.GET("/graphiql", a.getGraphiQL)
	return a
}

func (a *GraphiQLController) getGraphiQL(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", graphiqlPage)
}
