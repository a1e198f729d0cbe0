package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/models"
	"github.com/nanum-market/nanum/internal/repo"
	"github.com/nanum-market/nanum/pkg/logging"
)

type UserService struct {
	Repo   *repo.GormRepo
	Events EventPublisher

	// NewInviteCode defaults to domain.NewInviteCode.
	NewInviteCode func() (string, error)
}

type provisioner func(ctx context.Context, s *UserService, user *models.User, inviteCode string) (*models.UserGroup, error)

var provisioners = map[domain.Role]provisioner{
	domain.RoleHost:        provisionHost,
	domain.RoleParticipant: provisionParticipant,
}

func provisionHost(ctx context.Context, s *UserService, user *models.User, _ string) (*models.UserGroup, error) {
	gen := s.NewInviteCode
	if gen == nil {
		gen = domain.NewInviteCode
	}
	return s.Repo.CreateHost(ctx, user, gen)
}

func provisionParticipant(ctx context.Context, s *UserService, user *models.User, inviteCode string) (*models.UserGroup, error) {
	code := domain.NormalizeInviteCode(inviteCode)
	if code == "" {
		return nil, fmt.Errorf("%w: invite_code required", domain.ErrValidation)
	}
	host, err := s.Repo.JoinGroup(ctx, user, code)
	if err != nil {
		return nil, err
	}
	return &models.UserGroup{ID: host.UserGroupID}, nil
}

// Provision registers id under role. inviteCode is only read for participants.
func (s *UserService) Provision(ctx context.Context, role domain.Role, id Identity, inviteCode string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.provision", "role", role, "uid", id.SubjectID)

	p, ok := provisioners[role]
	if !ok {
		return nil, fmt.Errorf("%w: cannot register as %q", domain.ErrValidation, role)
	}
	if strings.TrimSpace(id.SubjectID) == "" {
		return nil, fmt.Errorf("%w: subject id required", domain.ErrValidation)
	}

	user := &models.User{UID: id.SubjectID, Name: id.DisplayName}
	group, err := p(ctx, s, user, inviteCode)
	if err != nil {
		l.Warn("provision_error", "error", err)
		return nil, err
	}

	eventType := "host_registered"
	if role == domain.RoleParticipant {
		eventType = "participant_joined"
	}
	publish(ctx, s.Events, TopicUserEvents, user.ID.String(), UserEvent{
		Type:        eventType,
		UserID:      user.ID,
		UserGroupID: group.ID,
		Role:        user.Role,
	})
	l.Info("provision_success", "user_id", user.ID, "user_group_id", group.ID)
	return user, nil
}

func (s *UserService) CreateHost(ctx context.Context, id Identity) (*models.User, error) {
	return s.Provision(ctx, domain.RoleHost, id, "")
}

func (s *UserService) JoinAsParticipant(ctx context.Context, id Identity, inviteCode string) (*models.User, error) {
	return s.Provision(ctx, domain.RoleParticipant, id, inviteCode)
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.Repo.GetUserByID(ctx, userID)
}

// GetGroupPoints returns the balance of the group the user belongs to.
func (s *UserService) GetGroupPoints(ctx context.Context, userID uuid.UUID) (int64, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	group, err := s.Repo.GetGroup(ctx, user.UserGroupID)
	if err != nil {
		return 0, err
	}
	return group.Point, nil
}
