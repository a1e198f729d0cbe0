package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/models"
)

const maxInviteCodeAttempts = 5

// CreateHost stores a fresh group and its HOST user in one transaction.
// newCode is called until it yields a code no other host holds.
func (r *GormRepo) CreateHost(ctx context.Context, user *models.User, newCode func() (string, error)) (*models.UserGroup, error) {
	group := &models.UserGroup{Point: 0}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if taken, err := exists(tx, &models.User{}, "uid = ?", user.UID); err != nil {
			return err
		} else if taken {
			return fmt.Errorf("%w: subject %s already registered", domain.ErrConflict, user.UID)
		}

		code, err := uniqueInviteCode(tx, newCode)
		if err != nil {
			return err
		}

		if err := tx.Create(group).Error; err != nil {
			return translate(err, "user group")
		}

		user.Role = string(domain.RoleHost)
		user.InviteCode = &code
		user.UserGroupID = group.ID
		return translate(tx.Create(user).Error, "user")
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

func uniqueInviteCode(tx *gorm.DB, newCode func() (string, error)) (string, error) {
	for i := 0; i < maxInviteCodeAttempts; i++ {
		code, err := newCode()
		if err != nil {
			return "", err
		}
		taken, err := exists(tx, &models.User{}, "invite_code = ?", code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: no free invite code after %d attempts", domain.ErrConflict, maxInviteCodeAttempts)
}

// JoinGroup binds user as a PARTICIPANT of the group whose host holds inviteCode.
func (r *GormRepo) JoinGroup(ctx context.Context, user *models.User, inviteCode string) (*models.User, error) {
	var host models.User

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invite_code = ? AND role = ?", inviteCode, string(domain.RoleHost)).
			First(&host).Error; err != nil {
			return translate(err, "invite code "+inviteCode)
		}

		if taken, err := exists(tx, &models.User{}, "uid = ?", user.UID); err != nil {
			return err
		} else if taken {
			return fmt.Errorf("%w: subject %s already registered", domain.ErrConflict, user.UID)
		}

		user.Role = string(domain.RoleParticipant)
		user.InviteCode = nil
		user.UserGroupID = host.UserGroupID
		return translate(tx.Create(user).Error, "user")
	})
	if err != nil {
		return nil, err
	}
	return &host, nil
}

func (r *GormRepo) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("uid = ?", uid).First(&user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *GormRepo) GetGroup(ctx context.Context, id uuid.UUID) (*models.UserGroup, error) {
	var group models.UserGroup
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&group).Error; err != nil {
		return nil, translate(err, "user group")
	}
	return &group, nil
}

// creditGroup adds points to the group the user belongs to. Must run inside tx.
func creditGroup(tx *gorm.DB, userID uuid.UUID, points int64) error {
	var user models.User
	if err := tx.Select("id", "user_group_id").Where("id = ?", userID).First(&user).Error; err != nil {
		return translate(err, "order owner")
	}
	res := tx.Model(&models.UserGroup{}).
		Where("id = ?", user.UserGroupID).
		UpdateColumn("point", gorm.Expr("point + ?", points))
	if res.Error != nil {
		return translate(res.Error, "user group")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user group %s", domain.ErrNotFound, user.UserGroupID)
	}
	return nil
}
