package service

import (
	"context"

	"blogql/config"
	"blogql/util/common"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// TokenValidator checks bearer tokens cryptographically. Signature keys
// come from the identity provider's JWKS endpoint; when no JWKS URL is
// configured an HS256 shared secret is accepted instead (development and
// tests only).
type TokenValidator struct {
	keyfunc  jwt.Keyfunc
	methods  []string
	issuer   string
	audience string
}

// NewTokenValidator builds a validator from the environment. The JWKS key
// set refreshes itself in the background for the lifetime of ctx.
func NewTokenValidator(ctx context.Context) (*TokenValidator, error) {
	v := &TokenValidator{
		issuer:   config.GetJwtIssuer(),
		audience: config.GetJwtAudience(),
	}

	if jwksURL := config.GetJwksURL(); jwksURL != "" {
		k, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
		if err != nil {
			return nil, common.NewErrorf("fetch JWKS from %s: %v", jwksURL, err)
		}
		v.keyfunc = k.Keyfunc
		v.methods = []string{"RS256", "RS384", "RS512", "ES256", "ES384", "ES512"}
		return v, nil
	}

	if secret := config.GetJwtSecret(); secret != "" {
		key := []byte(secret)
		v.keyfunc = func(token *jwt.Token) (any, error) {
			return key, nil
		}
		v.methods = []string{"HS256"}
		return v, nil
	}

	return nil, common.NewError("token validation is not configured: set BLOGQL_JWKS_URL or BLOGQL_JWT_SECRET")
}

// Validate parses and verifies a compact JWT and returns its claim set.
func (v *TokenValidator) Validate(tokenString string) (jwt.MapClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods(v.methods)}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.Parse(tokenString, v.keyfunc, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, common.NewError("unexpected claims type")
	}
	return claims, nil
}
