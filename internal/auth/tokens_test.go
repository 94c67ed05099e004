package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senyehor/yamdb/internal/config"
	"github.com/senyehor/yamdb/internal/domain"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:  "0123456789abcdef0123456789abcdef",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())
	user := domain.User{ID: "user-123"}

	pair, err := issuer.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	userID, err := issuer.ParseAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	userID, err = issuer.ParseRefresh(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestTokenIssuerRejectsWrongType(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())

	pair, err := issuer.Issue(domain.User{ID: "user-123"})
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ParseRefresh(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuerRejectsForeignSecret(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())
	other := NewTokenIssuer(config.AuthConfig{
		JWTSecret:  "ffffffffffffffffffffffffffffffff",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})

	pair, err := other.Issue(domain.User{ID: "user-123"})
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuerRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())

	for _, tokenString := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.ParseAccess(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tokenString)
	}
}

func TestTokenIssuerRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer(config.AuthConfig{
		JWTSecret:  "0123456789abcdef0123456789abcdef",
		AccessTTL:  -time.Minute,
		RefreshTTL: -time.Minute,
	})

	pair, err := issuer.Issue(domain.User{ID: "user-123"})
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
