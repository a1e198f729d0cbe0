package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/pkg/oauth"
	"github.com/nanum-market/nanum/pkg/tokens"
)

func TestAuthService_Login_UnknownSubjectGetsSignupToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.OAuth.profiles["code-1"] = &oauth.RemoteProfile{SubjectID: "1001", DisplayName: "Kim"}

	res, err := env.Auth.Login(context.Background(), "code-1")
	require.NoError(t, err)
	assert.False(t, res.Registered)
	assert.Nil(t, res.Tokens)
	require.NotEmpty(t, res.SignupToken)
	assert.WithinDuration(t, time.Now().Add(DefaultSignupTTL), res.SignupExp, 5*time.Second)

	id, err := env.Auth.SignupIdentity(res.SignupToken)
	require.NoError(t, err)
	assert.Equal(t, Identity{SubjectID: "1001", DisplayName: "Kim"}, id)

	_, err = tokens.AccessClaimsFromToken(res.SignupToken, env.Auth.AccessSecret)
	assert.Error(t, err)
}

func TestAuthService_Login_KnownSubjectGetsTokens(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	env.OAuth.profiles["code-1"] = &oauth.RemoteProfile{SubjectID: "1001", DisplayName: "Kim"}

	host, err := env.Users.CreateHost(ctx, Identity{SubjectID: "1001", DisplayName: "Kim"})
	require.NoError(t, err)

	res, err := env.Auth.Login(ctx, "code-1")
	require.NoError(t, err)
	assert.True(t, res.Registered)
	assert.Equal(t, host.ID, res.User.ID)
	require.NotNil(t, res.Tokens)

	claims, err := tokens.AccessClaimsFromToken(res.Tokens.AccessToken, env.Auth.AccessSecret)
	require.NoError(t, err)
	assert.Equal(t, host.ID.String(), claims.Subject)
	assert.Equal(t, string(domain.RoleHost), claims.Role)
}

func TestAuthService_Login_ProviderFailure(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.Auth.Login(context.Background(), "unknown-code")
	assert.ErrorIs(t, err, oauth.ErrIdentityProvider)
}

func TestAuthService_RefreshRotatesAndLogOutRevokes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	pair, err := env.Auth.IssueTokens(ctx, "subject-1", string(domain.RoleParticipant))
	require.NoError(t, err)

	next, err := env.Auth.RefreshTokens(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	claims, err := tokens.AccessClaimsFromToken(next.AccessToken, env.Auth.AccessSecret)
	require.NoError(t, err)
	assert.Equal(t, "subject-1", claims.Subject)
	assert.Equal(t, string(domain.RoleParticipant), claims.Role)

	_, err = env.Auth.RefreshTokens(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, env.Auth.LogOut(ctx, next.RefreshToken))
	_, err = env.Auth.RefreshTokens(ctx, next.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.Auth.RefreshTokens(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_SignupIdentity_Expired(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tok, err := tokens.NewSignupToken(env.Auth.AccessSecret, "1001", "Kim", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = env.Auth.SignupIdentity(tok)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSellerService_SignupAndLogin(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	in := SellerSignup{
		Username:    "farm",
		Email:       "farm@example.com",
		Password:    "s3cret-pass",
		PhoneNumber: "010-9876-5432",
		Address:     domain.Address{ZipCode: "12345", DefaultAddress: "Jeju", DetailAddress: "1"},
	}
	seller, err := env.Sellers.Signup(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, in.Password, seller.PasswordHash)

	_, err = env.Sellers.Signup(ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)

	bad := in
	bad.Username = "other"
	bad.PhoneNumber = "0109876"
	_, err = env.Sellers.Signup(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, pair, err := env.Sellers.Login(ctx, "farm", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, seller.ID, got.ID)
	claims, err := tokens.AccessClaimsFromToken(pair.AccessToken, env.Auth.AccessSecret)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleSeller), claims.Role)

	_, _, err = env.Sellers.Login(ctx, "farm", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = env.Sellers.Login(ctx, "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
