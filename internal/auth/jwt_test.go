package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuerForTest() *TokenIssuer {
	return NewTokenIssuer("test-secret", "cafehub", "cafehub-api", 15*time.Minute, 24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := newIssuerForTest()

	token, exp, err := issuer.GenerateAccessToken("usr_1", "operator")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	claims, err := issuer.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr_1", claims.UserID)
	assert.Equal(t, "operator", claims.Role)
	assert.Empty(t, claims.Type)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	issuer := newIssuerForTest()

	token, _, err := issuer.GenerateRefreshToken("usr_1", "operator")
	require.NoError(t, err)

	claims, err := issuer.ParseRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr_1", claims.UserID)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	issuer := newIssuerForTest()

	refresh, _, err := issuer.GenerateRefreshToken("usr_1", "operator")
	require.NoError(t, err)
	_, err = issuer.ParseAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	access, _, err := issuer.GenerateAccessToken("usr_1", "operator")
	require.NoError(t, err)
	_, err = issuer.ParseRefreshToken(access)
	assert.ErrorIs(t, err, ErrNotRefresh)
}

func TestParseRejectsForeignTokens(t *testing.T) {
	issuer := newIssuerForTest()
	other := NewTokenIssuer("other-secret", "cafehub", "cafehub-api", 15*time.Minute, 24*time.Hour)

	token, _, err := other.GenerateAccessToken("usr_1", "operator")
	require.NoError(t, err)
	_, err = issuer.ParseAccessToken(token)
	assert.Error(t, err)

	wrongIssuer := NewTokenIssuer("test-secret", "someone-else", "cafehub-api", 15*time.Minute, 24*time.Hour)
	token, _, err = wrongIssuer.GenerateAccessToken("usr_1", "operator")
	require.NoError(t, err)
	_, err = issuer.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongAudience := NewTokenIssuer("test-secret", "cafehub", "someone-else-api", 15*time.Minute, 24*time.Hour)
	token, _, err = wrongAudience.GenerateAccessToken("usr_1", "operator")
	require.NoError(t, err)
	_, err = issuer.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ParseAccessToken("not-a-token")
	assert.Error(t, err)
}
