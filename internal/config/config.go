package config

import (
	"fmt"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/pkg/config"
	"github.com/nanum-market/nanum/pkg/oauth"
)

type ServiceConfig struct {
	config.Config

	Reward domain.RewardPolicy
}

// Load reads the environment and fails when a setting the server cannot run without is missing.
func Load() (ServiceConfig, error) {
	cfg := config.Load()

	var req config.Required
	req.NonEmpty(cfg.DatabaseURL, "DATABASE_URL").
		NonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET").
		NonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET").
		NonEmpty(cfg.OAuthTokenURI, "OAUTH_TOKEN_URI").
		NonEmpty(cfg.OAuthProfileURI, "OAUTH_PROFILE_URI").
		NonEmpty(cfg.OAuthClientID, "OAUTH_CLIENT_ID")
	if err := req.Err(); err != nil {
		return ServiceConfig{}, err
	}

	reward, err := domain.ParseRewardPolicy(cfg.RewardRate, cfg.RewardRounding)
	if err != nil {
		return ServiceConfig{}, fmt.Errorf("reward policy: %w", err)
	}
	return ServiceConfig{Config: cfg, Reward: reward}, nil
}

func (c ServiceConfig) OAuth() oauth.Config {
	return oauth.Config{
		TokenURI:    c.OAuthTokenURI,
		ProfileURI:  c.OAuthProfileURI,
		ClientID:    c.OAuthClientID,
		GrantType:   c.OAuthGrantType,
		RedirectURI: c.OAuthRedirectURI,
		Timeout:     c.OAuthTimeout,
	}
}

func (c ServiceConfig) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
