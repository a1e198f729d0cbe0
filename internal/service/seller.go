package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/models"
	"github.com/nanum-market/nanum/internal/repo"
	"github.com/nanum-market/nanum/pkg/hash"
	"github.com/nanum-market/nanum/pkg/logging"
	"github.com/nanum-market/nanum/pkg/tokens"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type SellerService struct {
	Repo *repo.GormRepo
	Auth *AuthService
}

type SellerSignup struct {
	Username    string
	Email       string
	Password    string
	PhoneNumber string
	Address     domain.Address
}

func (in SellerSignup) validate() error {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return fmt.Errorf("%w: username and password required", domain.ErrValidation)
	}
	if len(in.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: email %q", domain.ErrValidation, in.Email)
	}
	if !domain.ValidPhoneNumber(in.PhoneNumber) {
		return fmt.Errorf("%w: phone_number %q", domain.ErrValidation, in.PhoneNumber)
	}
	return nil
}

func (s *SellerService) Signup(ctx context.Context, in SellerSignup) (*models.Seller, error) {
	l := logging.FromContext(ctx).With("svc", "seller.signup", "username", in.Username)

	if err := in.validate(); err != nil {
		return nil, err
	}
	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("signup_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	seller := &models.Seller{
		Username:     strings.TrimSpace(in.Username),
		Email:        in.Email,
		PasswordHash: pwHash,
		PhoneNumber:  in.PhoneNumber,
		Address:      in.Address,
	}
	if err := s.Repo.CreateSeller(ctx, seller); err != nil {
		l.Warn("signup_error", "error", err)
		return nil, err
	}
	l.Info("signup_success", "seller_id", seller.ID)
	return seller, nil
}

func (s *SellerService) Login(ctx context.Context, username, password string) (*models.Seller, *tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "seller.login", "username", username)

	if username == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: username and password required", domain.ErrValidation)
	}
	seller, err := s.Repo.GetSellerByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.Warn("login failed", "status", 401, "reason", "unknown username")
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !hash.CheckPassword(seller.PasswordHash, password) {
		l.Warn("login failed", "status", 401, "reason", "wrong password")
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.Auth.IssueTokens(ctx, seller.ID.String(), string(domain.RoleSeller))
	if err != nil {
		return nil, nil, err
	}
	return seller, pair, nil
}
