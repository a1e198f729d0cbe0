package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/models"
	"github.com/nanum-market/nanum/internal/repo"
	"github.com/nanum-market/nanum/pkg/logging"
	"github.com/nanum-market/nanum/pkg/oauth"
	"github.com/nanum-market/nanum/pkg/tokens"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
	DefaultSignupTTL  = 10 * time.Minute
)

var ErrUnauthorized = errors.New("unauthorized")

type Authenticator interface {
	Authenticate(ctx context.Context, authCode string) (*oauth.RemoteProfile, error)
}

type AuthService struct {
	Repo          *repo.GormRepo
	OAuth         Authenticator
	AccessSecret  []byte
	RefreshSecret []byte
	Metrics       Recorder

	AccessTTL  time.Duration
	RefreshTTL time.Duration
	SignupTTL  time.Duration
}

// LoginResult is either a token pair for a known member or a signup token for a new one.
type LoginResult struct {
	Registered  bool
	User        *models.User
	Tokens      *tokens.Pair
	SignupToken string
	SignupExp   time.Time
}

func (s *AuthService) ttl(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}

func (s *AuthService) record(outcome string) {
	if s.Metrics != nil {
		s.Metrics.LoginResult(outcome)
	}
}

// Login exchanges a provider authorization code for a session.
func (s *AuthService) Login(ctx context.Context, authCode string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	profile, err := s.OAuth.Authenticate(ctx, authCode)
	if err != nil {
		s.record("provider_error")
		l.Warn("login_error", "status", 502, "reason", "identity provider", "error", err)
		return nil, err
	}

	user, err := s.Repo.GetUserByUID(ctx, profile.SubjectID)
	if errors.Is(err, domain.ErrNotFound) {
		exp := time.Now().Add(s.ttl(s.SignupTTL, DefaultSignupTTL))
		tok, err := tokens.NewSignupToken(s.AccessSecret, profile.SubjectID, profile.DisplayName, exp)
		if err != nil {
			return nil, fmt.Errorf("sign signup token: %w", err)
		}
		s.record("signup_required")
		l.Info("login_signup_required", "uid", profile.SubjectID)
		return &LoginResult{SignupToken: tok, SignupExp: exp}, nil
	}
	if err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return nil, err
	}

	pair, err := s.IssueTokens(ctx, user.ID.String(), user.Role)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot issue tokens", "error", err)
		return nil, err
	}
	s.record("success")
	l.Info("login_success", "user_id", user.ID)
	return &LoginResult{Registered: true, User: user, Tokens: pair}, nil
}

// IssueTokens signs a new access/refresh pair and remembers the refresh token.
func (s *AuthService) IssueTokens(ctx context.Context, subject, role string) (*tokens.Pair, error) {
	pair, row, err := s.newPair(subject, role)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefreshToken(ctx, row); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *AuthService) newPair(subject, role string) (*tokens.Pair, *models.RefreshToken, error) {
	now := time.Now()
	accessExp := now.Add(s.ttl(s.AccessTTL, DefaultAccessTTL))
	refreshExp := now.Add(s.ttl(s.RefreshTTL, DefaultRefreshTTL))

	access, err := tokens.NewAccessToken(s.AccessSecret, subject, role, accessExp)
	if err != nil {
		return nil, nil, fmt.Errorf("sign access token: %w", err)
	}
	jti := tokens.NewJTI()
	refresh, err := tokens.NewRefreshToken(s.RefreshSecret, subject, role, jti, refreshExp)
	if err != nil {
		return nil, nil, fmt.Errorf("sign refresh token: %w", err)
	}

	row := &models.RefreshToken{
		Subject:   subject,
		Role:      role,
		TokenHash: tokens.Sha256Hex(refresh),
		JTI:       jti,
		ExpiresAt: refreshExp.UTC(),
	}
	pair := &tokens.Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}
	return pair, row, nil
}

// RefreshTokens rotates a refresh token. The old one stops working.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		l.Warn("refresh_error", "status", 401, "reason", "invalid refresh token", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	pair, row, err := s.newPair(claims.Subject, claims.Role)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, refreshToken, row); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.Warn("refresh_error", "status", 401, "reason", "revoked or unknown", "jti", claims.ID)
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return nil, err
	}
	return pair, nil
}

func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

// SignupIdentity reads the identity carried by a token handed out by Login.
func (s *AuthService) SignupIdentity(signupToken string) (Identity, error) {
	claims, err := tokens.SignupClaimsFromToken(signupToken, s.AccessSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("%w: signup token expired, log in again", ErrUnauthorized)
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return Identity{SubjectID: claims.Subject, DisplayName: claims.Name}, nil
}
