package repositories

import (
	"context"

	"github.com/examhub/exam-service/internal/models"
)

// UserRepository interface for user operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	GetByRole(ctx context.Context, role models.UserRole) ([]*models.User, error)
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
}
