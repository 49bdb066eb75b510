package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const (
	testIssuer   = "https://dev-tenant.us.auth0.com/"
	testAudience = "https://api.buyitforlife-tracker.com"
	testSubject  = "auth0|650c1efc4071f50c9018e8a1"
)

type mockKeySource struct {
	key *rsa.PrivateKey
}

func newMockKeySource(t *testing.T) *mockKeySource {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NoError(t, err)

	return &mockKeySource{key: key}
}

func (ks *mockKeySource) Keyfunc() jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		return &ks.key.PublicKey, nil
	}
}

func (ks *mockKeySource) signToken(t *testing.T, claims *Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)

	signed, err := token.SignedString(ks.key)
	assert.NoError(t, err)

	return signed
}

func getTestClaims() *Claims {
	return &Claims{
		Scope: "read:items write:items read:alerts",
		Email: "buyer@mail.com",

		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   testSubject,
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func Test_ValidateAccessToken(t *testing.T) {
	keySource := newMockKeySource(t)
	verifier := NewVerifier(keySource, testIssuer, testAudience)

	testCases := []struct {
		name string

		getToken     func(t *testing.T) string
		shouldGetErr bool
	}{
		{
			name: "valid access token",

			getToken: func(t *testing.T) string {
				return keySource.signToken(t, getTestClaims())
			},
			shouldGetErr: false,
		},
		{
			name: "wrong audience",

			getToken: func(t *testing.T) string {
				claims := getTestClaims()
				claims.Audience = jwt.ClaimStrings{"https://some-other-api.example.com"}

				return keySource.signToken(t, claims)
			},
			shouldGetErr: true,
		},
		{
			name: "wrong issuer",

			getToken: func(t *testing.T) string {
				claims := getTestClaims()
				claims.Issuer = "https://evil-tenant.us.auth0.com/"

				return keySource.signToken(t, claims)
			},
			shouldGetErr: true,
		},
		{
			name: "expired token",

			getToken: func(t *testing.T) string {
				claims := getTestClaims()
				claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

				return keySource.signToken(t, claims)
			},
			shouldGetErr: true,
		},
		{
			name: "empty subject",

			getToken: func(t *testing.T) string {
				claims := getTestClaims()
				claims.Subject = ""

				return keySource.signToken(t, claims)
			},
			shouldGetErr: true,
		},
		{
			name: "token signed with a symmetric key",

			getToken: func(t *testing.T) string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, getTestClaims())

				signed, err := token.SignedString([]byte("not-a-tenant-key"))
				assert.NoError(t, err)

				return signed
			},
			shouldGetErr: true,
		},
		{
			name: "malformed token",

			getToken: func(t *testing.T) string {
				return "not.a.jwt"
			},
			shouldGetErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := verifier.ValidateAccessToken(tc.getToken(t))

			if tc.shouldGetErr {
				assert.Nil(t, claims)
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, testSubject, claims.UserID())
			assert.Equal(t, "buyer@mail.com", claims.Email)
		})
	}
}

func Test_ClaimsScopes(t *testing.T) {
	claims := getTestClaims()

	assert.Equal(t, []string{"read:items", "write:items", "read:alerts"}, claims.Scopes())

	assert.True(t, claims.HasScope(ScopeReadItems))
	assert.True(t, claims.HasScope(ScopeWriteItems))
	assert.False(t, claims.HasScope(ScopeWriteAlerts))
	assert.False(t, claims.HasScope(ScopeReadAdmin))
}

func Test_ClaimsScopesEmpty(t *testing.T) {
	claims := &Claims{}

	assert.Empty(t, claims.Scopes())
	assert.False(t, claims.HasScope(ScopeReadItems))
}
