package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/repositories"
)

// SeedService bootstraps the default admin account on startup so a fresh
// deployment is usable without manual database surgery.
type SeedService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewSeedService(repo repositories.Repository, logger *slog.Logger) *SeedService {
	return &SeedService{repo: repo, logger: logger}
}

// EnsureDefaultAdmin creates the admin account if no admin exists yet.
func (s *SeedService) EnsureDefaultAdmin(ctx context.Context, username, password, email string) error {
	count, err := s.repo.User().CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		FullName: "Administrator",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := s.repo.User().Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("default admin created", "username", username)
	return nil
}
