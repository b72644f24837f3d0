package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/repositories"
	"github.com/examhub/exam-service/internal/utils"
)

type CreateUserRequest struct {
	Username string          `json:"username" validate:"required,min=3,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6,max=72"`
	FullName string          `json:"full_name" validate:"required,max=100"`
	Role     models.UserRole `json:"role" validate:"required,user_role"`
}

type UpdateUserRequest struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	FullName    *string `json:"full_name" validate:"omitempty,max=100"`
	Avatar      *string `json:"avatar" validate:"omitempty,max=500"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=20"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

type ChangeRoleRequest struct {
	Role models.UserRole `json:"role" validate:"required,user_role"`
}

// UserService covers profile access plus the admin-only account
// management operations.
type UserService interface {
	Create(ctx context.Context, actor Actor, req *CreateUserRequest) (*models.User, error)
	GetByID(ctx context.Context, actor Actor, id uint) (*models.User, error)
	List(ctx context.Context, actor Actor, filters repositories.UserFilters) ([]*models.User, int64, error)
	Update(ctx context.Context, actor Actor, id uint, req *UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, actor Actor, id uint) error

	ResetPassword(ctx context.Context, actor Actor, id uint, req *ResetPasswordRequest) error
	ChangeRole(ctx context.Context, actor Actor, id uint, req *ChangeRoleRequest) (*models.User, error)
	ToggleActive(ctx context.Context, actor Actor, id uint) (*models.User, error)
}

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
	policy    policy
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) UserService {
	return &userService{repo: repo, logger: logger, validator: validator}
}

func (s *userService) Create(ctx context.Context, actor Actor, req *CreateUserRequest) (*models.User, error) {
	if err := s.policy.Can(actor, ActionManageUsers, 0); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.User().GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.repo.User().GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: true,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "role", user.Role, "created_by", actor.UserID)
	return user, nil
}

// GetByID returns a user. Non-admins may only read their own profile.
func (s *userService) GetByID(ctx context.Context, actor Actor, id uint) (*models.User, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, NewPermissionError(actor.UserID, "view this user")
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, actor Actor, filters repositories.UserFilters) ([]*models.User, int64, error) {
	if err := s.policy.Can(actor, ActionManageUsers, 0); err != nil {
		return nil, 0, err
	}
	return s.repo.User().List(ctx, filters)
}

func (s *userService) Update(ctx context.Context, actor Actor, id uint, req *UpdateUserRequest) (*models.User, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, NewPermissionError(actor.UserID, "update this user")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.repo.User().GetByEmail(ctx, *req.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := s.policy.Can(actor, ActionManageUsers, 0); err != nil {
		return err
	}
	if actor.UserID == id {
		return NewBusinessRuleError("self_delete", "cannot delete your own account")
	}

	if _, err := s.repo.User().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.repo.User().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", id, "deleted_by", actor.UserID)
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, actor Actor, id uint, req *ResetPasswordRequest) error {
	if err := s.policy.Can(actor, ActionManageUsers, 0); err != nil {
		return err
	}
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)

	if err := s.repo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("password reset", "user_id", id, "reset_by", actor.UserID)
	return nil
}

func (s *userService) ChangeRole(ctx context.Context, actor Actor, id uint, req *ChangeRoleRequest) (*models.User, error) {
	if err := s.policy.Can(actor, ActionManageUsers, 0); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if actor.UserID == id {
		return nil, NewBusinessRuleError("self_demote", "cannot change your own role")
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	user.Role = req.Role
	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("role changed", "user_id", id, "role", req.Role, "changed_by", actor.UserID)
	return user, nil
}

func (s *userService) ToggleActive(ctx context.Context, actor Actor, id uint) (*models.User, error) {
	if err := s.policy.Can(actor, ActionManageUsers, 0); err != nil {
		return nil, err
	}
	if actor.UserID == id {
		return nil, NewBusinessRuleError("self_deactivate", "cannot deactivate your own account")
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	user.IsActive = !user.IsActive
	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("user active state toggled", "user_id", id, "is_active", user.IsActive, "changed_by", actor.UserID)
	return user, nil
}
