package auth

import (
	"context"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/wgparish/buy-it-for-life-tracker/app/common"
)

const (
	ScopeReadItems   = "read:items"
	ScopeWriteItems  = "write:items"
	ScopeReadAlerts  = "read:alerts"
	ScopeWriteAlerts = "write:alerts"
	ScopeReadAdmin   = "read:admin"
)

// Claims carries the subset of Auth0 access token claims the service reads.
type Claims struct {
	Scope         string `json:"scope"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	EmailVerified bool   `json:"email_verified"`

	jwt.RegisteredClaims
}

func (c *Claims) UserID() string {
	return c.Subject
}

func (c *Claims) Scopes() []string {
	return strings.Fields(c.Scope)
}

func (c *Claims) HasScope(requiredScope string) bool {
	for _, scope := range c.Scopes() {
		if scope == requiredScope {
			return true
		}
	}

	return false
}

// KeySource abstracts where verification keys come from, so that tests can
// sign tokens with a locally generated key instead of the tenant JWKS.
type KeySource interface {
	Keyfunc() jwt.Keyfunc
}

type jwksKeySource struct {
	jwks keyfunc.Keyfunc
}

func NewJWKSKeySource(ctx context.Context, jwksURL string) (KeySource, error) {
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, errors.Wrap(err, "error occurred while fetching JWKS of the Auth0 tenant")
	}

	return &jwksKeySource{jwks: jwks}, nil
}

func (ks *jwksKeySource) Keyfunc() jwt.Keyfunc {
	return ks.jwks.Keyfunc
}

// Verifier validates RS256 access tokens issued by the Auth0 tenant.
type Verifier struct {
	keySource KeySource
	issuer    string
	audience  string
}

func NewVerifier(keySource KeySource, issuer, audience string) *Verifier {
	return &Verifier{
		keySource: keySource,
		issuer:    issuer,
		audience:  audience,
	}
}

func (v *Verifier) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		v.keySource.Keyfunc(),
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
	)
	if err != nil {
		log.Debug().Err(err).Msg("jwt validation error (access token)")
		return nil, common.NewUnauthorizedError("Invalid token: authentication failed")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, common.NewUnauthorizedError("Invalid token: authentication failed")
	}

	return claims, nil
}
