package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-jwt-secret")

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	exp := time.Now().Add(15 * time.Minute).UTC()

	tok, err := NewAccessToken(secret, userID, "HOST", exp)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, "HOST", claims.Role)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken(secret, "u", "HOST", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, secret)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken(secret, "u", "HOST", time.Now().Add(time.Minute))
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, []byte("other"))
	assert.Error(t, err)
}

func TestSignupToken_NotAcceptedAsAccess(t *testing.T) {
	t.Parallel()

	tok, err := NewSignupToken(secret, "12345", "nanum", time.Now().Add(10*time.Minute))
	require.NoError(t, err)

	claims, err := SignupClaimsFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "12345", claims.Subject)
	assert.Equal(t, "nanum", claims.Name)

	_, err = AccessClaimsFromToken(tok, secret)
	assert.Error(t, err)
}

func TestRefreshToken_CarriesJTI(t *testing.T) {
	t.Parallel()

	jti := NewJTI()
	tok, err := NewRefreshToken(secret, "u", "SELLER", jti, time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := RefreshClaimsFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, "SELLER", claims.Role)
}

func TestSha256Hex_Stable(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Sha256Hex("abc"), Sha256Hex("abc"))
	assert.Len(t, Sha256Hex("abc"), 64)
}
