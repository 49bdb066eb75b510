package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/wgparish/buy-it-for-life-tracker/app/common"
	"github.com/wgparish/buy-it-for-life-tracker/app/common/rest/auth"
)

func IsJSONMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		rBody, err := io.ReadAll(r.Body)
		if err != nil {
			WriteErrorResponse(r.Context(), err, w, nil)
			return
		}

		// Endpoints like POST /api/items/refresh-reddit take no body at all.
		if len(rBody) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		if !json.Valid(rBody) {
			err = common.NewClientSideError("request body is not a valid JSON")
			WriteErrorResponse(r.Context(), err, w, nil)
			return
		}

		buffer := bytes.NewBuffer(rBody)
		r.Body = io.NopCloser(buffer)

		next.ServeHTTP(w, r)
	})
}

type UserCtx struct{}

// TokenVerifier is implemented by auth.Verifier; kept as an interface so
// middleware tests can stub token validation.
type TokenVerifier interface {
	ValidateAccessToken(tokenString string) (*auth.Claims, error)
}

func AccessTokenMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, err := extractToken(r)
			if err != nil {
				WriteErrorResponse(ctx, err, w, nil)
				return
			}

			claims, err := verifier.ValidateAccessToken(token)
			if err != nil {
				WriteErrorResponse(ctx, err, w, nil)
				return
			}

			newCtx := context.WithValue(ctx, UserCtx{}, claims)
			next.ServeHTTP(w, r.WithContext(newCtx))
		})
	}
}

// OptionalAccessTokenMiddleware attaches claims when a valid token is
// present and lets the request through anonymously otherwise. Used by the
// affiliate redirect, which tracks the user when it can.
func OptionalAccessTokenMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := extractToken(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.ValidateAccessToken(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			newCtx := context.WithValue(r.Context(), UserCtx{}, claims)
			next.ServeHTTP(w, r.WithContext(newCtx))
		})
	}
}

func RequireScope(requiredScope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			claims, ok := ClaimsFromContext(ctx)
			if !ok {
				err := common.NewUnauthorizedError("Not authenticated")
				WriteErrorResponse(ctx, err, w, nil)
				return
			}

			if !claims.HasScope(requiredScope) {
				err := common.NewForbiddenError("Missing required scope: " + requiredScope)
				WriteErrorResponse(ctx, err, w, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(UserCtx{}).(*auth.Claims)
	return claims, ok
}

func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	authHeaderContent := strings.Split(authHeader, " ")

	if len(authHeaderContent) != 2 {
		return "", common.NewUnauthorizedError("Token not provided or malformed")
	}

	return authHeaderContent[1], nil
}
