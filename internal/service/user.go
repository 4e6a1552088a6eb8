package service

import (
	"context"
	"errors"

	"github.com/devhub-platform/portal/internal/constants"
	"github.com/devhub-platform/portal/internal/dto"
	apperrors "github.com/devhub-platform/portal/internal/errors"
	"github.com/devhub-platform/portal/internal/model"
	ctxutil "github.com/devhub-platform/portal/pkg/context"
	"github.com/devhub-platform/portal/pkg/logger"
	"gorm.io/gorm"
)

// UserAdminStore extends the user surface with administrative operations
type UserAdminStore interface {
	UserStore
	GetAll(ctx context.Context, filter dto.UserFilter, limit, offset int) ([]model.User, int64, error)
	SetActive(ctx context.Context, id uint, active bool) error
	UpdateRole(ctx context.Context, id uint, role string) error
	Delete(ctx context.Context, id uint) error
}

// UserService covers admin-only user management
type UserService struct {
	users    UserAdminStore
	sessions SessionStore
}

func NewUserService(users UserAdminStore, sessions SessionStore) *UserService {
	return &UserService{users: users, sessions: sessions}
}

// List returns users matching the filter, paginated
func (s *UserService) List(ctx context.Context, filter dto.UserFilter, page constants.PaginationParams) ([]dto.UserResponse, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ListUsers")

	users, total, err := s.users.GetAll(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.NewUserResponse(&users[i]))
	}

	return responses, total, nil
}

// Get returns one user by ID
func (s *UserService) Get(ctx context.Context, id uint) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetUser")

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// UpdateRole changes a user's role
func (s *UserService) UpdateRole(ctx context.Context, id uint, role string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateUserRole")

	if !constants.IsValidRole(role) {
		return nil, apperrors.ErrInvalidInput
	}

	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Role assigned").
		Uint("target_user_id", id).
		String("role", role).
		Log()

	return s.Get(ctx, id)
}

// UpdateStatus activates or deactivates an account. Deactivation also
// revokes every session so the account is locked out immediately.
func (s *UserService) UpdateStatus(ctx context.Context, id uint, active bool) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateUserStatus")

	if err := s.users.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !active {
		if revoked, err := s.sessions.DeleteByUser(ctx, id); err != nil {
			logger.WarnWithContext(ctx, "Failed to revoke sessions on deactivation").
				Uint("target_user_id", id).
				Err(err).
				Log()
		} else {
			logger.InfoWithContext(ctx, "Account deactivated, sessions revoked").
				Uint("target_user_id", id).
				Int64("revoked_count", revoked).
				Log()
		}
	}

	return s.Get(ctx, id)
}

// Delete removes a user permanently. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actorID, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "DeleteUser")

	if actorID == id {
		return apperrors.ErrSelfDeletion
	}

	if _, err := s.sessions.DeleteByUser(ctx, id); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User deleted").
		Uint("target_user_id", id).
		Uint("actor_user_id", actorID).
		Log()

	return nil
}
