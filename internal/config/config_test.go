package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://nanum@localhost/nanum")
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv("OAUTH_TOKEN_URI", "https://kauth.example/oauth/token")
	t.Setenv("OAUTH_PROFILE_URI", "https://kapi.example/v2/user/me")
	t.Setenv("OAUTH_CLIENT_ID", "client")
}

func TestLoad(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REWARD_RATE", "0.1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.EqualValues(t, 100, cfg.Reward(1000))
	assert.Equal(t, "client", cfg.OAuth().ClientID)
	assert.Equal(t, "authorization_code", cfg.OAuth().GrantType)
}

func TestLoad_ReportsEveryMissingSetting(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("OAUTH_CLIENT_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "OAUTH_CLIENT_ID")
}

func TestLoad_BadRewardRate(t *testing.T) {
	setRequired(t)
	t.Setenv("REWARD_RATE", "1.5")

	_, err := Load()
	assert.Error(t, err)
}
