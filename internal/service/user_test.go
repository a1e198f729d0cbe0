package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanum-market/nanum/internal/domain"
)

func TestUserService_CreateHost(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	host, err := env.Users.CreateHost(ctx, Identity{SubjectID: "1001", DisplayName: "Host"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleHost), host.Role)
	require.NotNil(t, host.InviteCode)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), *host.InviteCode)

	_, err = env.Users.CreateHost(ctx, Identity{SubjectID: "1001", DisplayName: "Host"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = env.Users.JoinAsParticipant(ctx, Identity{SubjectID: "1001", DisplayName: "Host"}, *host.InviteCode)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserService_Provision_Validation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		role domain.Role
		id   Identity
		code string
	}{
		{name: "seller is not a member role", role: domain.RoleSeller, id: Identity{SubjectID: "1"}},
		{name: "empty subject", role: domain.RoleHost, id: Identity{SubjectID: " "}},
		{name: "participant without code", role: domain.RoleParticipant, id: Identity{SubjectID: "2"}, code: "  "},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Users.Provision(ctx, tt.role, tt.id, tt.code)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestUserService_InviteCodeGeneratorFailure(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	boom := errors.New("entropy exhausted")
	env.Users.NewInviteCode = func() (string, error) { return "", boom }

	_, err := env.Users.CreateHost(context.Background(), Identity{SubjectID: "1001"})
	assert.ErrorIs(t, err, boom)

	_, err = env.Repo.GetUserByUID(context.Background(), "1001")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_GetGroupPoints_UnknownUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.Users.GetGroupPoints(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_PublishFailureDoesNotFailProvisioning(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.Events.err = errors.New("broker down")

	host, err := env.Users.CreateHost(context.Background(), Identity{SubjectID: "1001"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, host.ID)
}
