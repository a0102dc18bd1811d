package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetgov/pkg/domain"
)

var (
	jwtService = NewJWTService("test-signing-key", "test-issuer", "test-audience")
	principal  = domain.NamedAddress("admin")
	expiresIn  = time.Hour
)

func Test_GenerateAccessToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(principal, expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, principal, principalOf(claims))
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(expiresIn), claims.ExpiresAt.Time, time.Minute)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(principal, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func Test_ValidateToken_WrongAudience(t *testing.T) {
	other := NewJWTService("test-signing-key", "test-issuer", "other-audience")
	token, err := other.GenerateAccessToken(principal, expiresIn)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewJWTService("another-key", "test-issuer", "test-audience")
	token, err := other.GenerateAccessToken(principal, expiresIn)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func Test_Adapter(t *testing.T) {
	adapter := NewJWTServiceAdapter(jwtService)

	t.Run("principal from subject", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(principal, expiresIn)
		require.NoError(t, err)

		claims, err := adapter.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, principal, claims.Principal)
		assert.NotEmpty(t, claims.TokenID)
	})

	t.Run("subject must be an address", func(t *testing.T) {
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    "test-issuer",
			Audience:  []string{"test-audience"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}})
		token, err := raw.SignedString([]byte("test-signing-key"))
		require.NoError(t, err)

		_, err = adapter.ValidateToken(token)
		require.ErrorIs(t, err, ErrInvalidPrincipal)
	})
}

func principalOf(c *Claims) domain.Address {
	p, _ := c.Principal()
	return p
}
