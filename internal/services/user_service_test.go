package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/utils"
)

func newUserFixture() (*mockRepository, UserService) {
	repo := newMockRepository()
	svc := NewUserService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)), utils.NewValidator())
	return repo, svc
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	admin := Actor{UserID: 1, Role: models.RoleAdmin}

	t.Run("admin creates a teacher", func(t *testing.T) {
		repo, svc := newUserFixture()
		repo.user.On("GetByUsername", ctx, "teach").Return(nil, gorm.ErrRecordNotFound)
		repo.user.On("GetByEmail", ctx, "teach@example.com").Return(nil, gorm.ErrRecordNotFound)
		repo.user.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Role == models.RoleTeacher && u.IsActive
		})).Return(nil)

		user, err := svc.Create(ctx, admin, &CreateUserRequest{
			Username: "teach",
			Email:    "teach@example.com",
			Password: "secret123",
			FullName: "Teacher",
			Role:     models.RoleTeacher,
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleTeacher, user.Role)
	})

	t.Run("teacher cannot create users", func(t *testing.T) {
		_, svc := newUserFixture()
		teacher := Actor{UserID: 10, Role: models.RoleTeacher}
		_, err := svc.Create(ctx, teacher, &CreateUserRequest{
			Username: "x", Email: "x@example.com", Password: "secret123",
			FullName: "X", Role: models.RoleStudent,
		})
		assert.True(t, IsForbidden(err))
	})
}

func TestUserService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("user reads own profile", func(t *testing.T) {
		repo, svc := newUserFixture()
		repo.user.On("GetByID", ctx, uint(5)).Return(&models.User{ID: 5}, nil)

		actor := Actor{UserID: 5, Role: models.RoleStudent}
		user, err := svc.GetByID(ctx, actor, 5)
		require.NoError(t, err)
		assert.Equal(t, uint(5), user.ID)
	})

	t.Run("user cannot read others", func(t *testing.T) {
		_, svc := newUserFixture()
		actor := Actor{UserID: 5, Role: models.RoleStudent}
		_, err := svc.GetByID(ctx, actor, 6)
		assert.True(t, IsForbidden(err))
	})

	t.Run("admin reads anyone", func(t *testing.T) {
		repo, svc := newUserFixture()
		repo.user.On("GetByID", ctx, uint(6)).Return(&models.User{ID: 6}, nil)

		admin := Actor{UserID: 1, Role: models.RoleAdmin}
		_, err := svc.GetByID(ctx, admin, 6)
		assert.NoError(t, err)
	})
}

func TestUserService_AdminGuards(t *testing.T) {
	ctx := context.Background()
	admin := Actor{UserID: 1, Role: models.RoleAdmin}

	t.Run("cannot delete own account", func(t *testing.T) {
		_, svc := newUserFixture()
		err := svc.Delete(ctx, admin, 1)
		require.Error(t, err)
		assert.True(t, IsBusinessRule(err))
	})

	t.Run("cannot change own role", func(t *testing.T) {
		_, svc := newUserFixture()
		_, err := svc.ChangeRole(ctx, admin, 1, &ChangeRoleRequest{Role: models.RoleStudent})
		require.Error(t, err)
		assert.True(t, IsBusinessRule(err))
	})

	t.Run("toggle active flips the flag", func(t *testing.T) {
		repo, svc := newUserFixture()
		user := &models.User{ID: 5, IsActive: true}
		repo.user.On("GetByID", ctx, uint(5)).Return(user, nil)
		repo.user.On("Update", ctx, user).Return(nil)

		result, err := svc.ToggleActive(ctx, admin, 5)
		require.NoError(t, err)
		assert.False(t, result.IsActive)
	})
}
