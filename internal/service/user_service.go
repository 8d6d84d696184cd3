package service

import (
	"github.com/google/uuid"
	"github.com/inkwell-hq/inkwell/internal/apperrors"
	"github.com/inkwell-hq/inkwell/internal/models"
	"github.com/inkwell-hq/inkwell/internal/repository"
	"github.com/inkwell-hq/inkwell/pkg/logger"
	"go.uber.org/zap"
)

type UserService struct {
	users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetByID returns a user or NotFound. The password hash never leaves
// the model's JSON representation.
func (s *UserService) GetByID(id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		logger.Log.Error("Failed to load user",
			zap.String("user_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

// UserListParams are the admin listing inputs.
type UserListParams struct {
	Page     int
	Limit    int
	Role     string
	IsActive *bool
	Search   string
}

// UserPage is one page of users plus its metadata.
type UserPage struct {
	Users      []models.User `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

// List returns a filtered page of users, newest first.
func (s *UserService) List(params UserListParams) (*UserPage, error) {
	page, limit := normalizePage(params.Page, params.Limit)

	users, total, err := s.users.List(
		repository.UserFilter{
			Role:     params.Role,
			IsActive: params.IsActive,
			Search:   params.Search,
		},
		page, limit,
	)
	if err != nil {
		logger.Log.Error("Failed to list users", zap.Error(err))
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}

	return &UserPage{
		Users:      users,
		Pagination: paginate(page, limit, total),
	}, nil
}

// ProfilePatch applies provided fields only; nil means "leave as is".
type ProfilePatch struct {
	FullName *string
	Email    *string
}

// UpdateProfile lets a user change their own contact fields.
func (s *UserService) UpdateProfile(id uuid.UUID, patch ProfilePatch) (*models.User, error) {
	fields := map[string]interface{}{}
	if patch.FullName != nil {
		fields["full_name"] = *patch.FullName
	}
	if patch.Email != nil {
		fields["email"] = *patch.Email
	}

	if len(fields) == 0 {
		return nil, apperrors.Validation("no updatable fields provided")
	}

	user, err := s.users.UpdateFields(id, fields)
	if err != nil {
		logger.Log.Error("Failed to update profile",
			zap.String("user_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	return user, nil
}

// SetActive toggles another account's active flag. Admins cannot
// deactivate themselves.
func (s *UserService) SetActive(admin *models.User, targetID uuid.UUID, active bool) (*models.User, error) {
	if admin.ID == targetID && !active {
		return nil, apperrors.Validation("cannot deactivate your own account")
	}

	user, err := s.users.GetByID(targetID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	if err := s.users.SetActive(targetID, active); err != nil {
		logger.Log.Error("Failed to update user status",
			zap.String("user_id", targetID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	user.IsActive = active

	logger.Log.Info("User status changed",
		zap.String("admin", admin.Username),
		zap.String("user_id", targetID.String()),
		zap.Bool("is_active", active),
	)

	return user, nil
}

// Stats returns aggregate account counts, including signups within the
// trailing 30 days.
func (s *UserService) Stats() (*repository.UserStats, error) {
	stats, err := s.users.Stats()
	if err != nil {
		logger.Log.Error("Failed to compute user stats", zap.Error(err))
		return nil, err
	}
	return stats, nil
}
