package middleware

import (
	"net/http"
	"strings"

	"blogql/logger"
	"blogql/web/service"
	"blogql/web/session"

	"github.com/gin-gonic/gin"
)

// BearerAuth validates the Authorization header and attaches the resulting
// principal to the request context. Requests without a bearer token pass
// through anonymously; the authorization policies reject them per field.
// A token that is present but invalid fails the whole request.
func BearerAuth(validator *service.TokenValidator) gin.HandlerFunc {
	authService := service.AuthService{}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abortUnauthorized(c, "malformed Authorization header")
			return
		}

		claims, err := validator.Validate(strings.TrimSpace(token))
		if err != nil {
			logger.Debug("rejected bearer token:", err)
			abortUnauthorized(c, "invalid token")
			return
		}

		principal, err := authService.SyncUser(c.Request.Context(), claims)
		if err != nil {
			logger.Warning("failed to map token to local user:", err)
			abortUnauthorized(c, "invalid token")
			return
		}

		session.SetPrincipal(c, principal)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="blogql"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
