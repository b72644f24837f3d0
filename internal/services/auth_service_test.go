package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/utils"
)

func newAuthFixture() (*mockRepository, AuthService) {
	repo := newMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewAuthService(repo, logger, utils.NewValidator(), "test-secret", time.Hour)
	return repo, svc
}

func hashedUser(id uint, username, password string, role models.UserRole) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &models.User{
		ID:       id,
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		FullName: "Test User",
		Role:     role,
		IsActive: true,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a student account", func(t *testing.T) {
		repo, svc := newAuthFixture()
		repo.user.On("GetByUsername", ctx, "alice").Return(nil, gorm.ErrRecordNotFound)
		repo.user.On("GetByEmail", ctx, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
		repo.user.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Username == "alice" && u.Role == models.RoleStudent && u.Password != "secret123"
		})).Return(nil)

		user, err := svc.Register(ctx, &RegisterRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "secret123",
			FullName: "Alice",
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleStudent, user.Role)
	})

	t.Run("self-registration cannot claim admin", func(t *testing.T) {
		repo, svc := newAuthFixture()
		repo.user.On("GetByUsername", ctx, "mallory").Return(nil, gorm.ErrRecordNotFound)
		repo.user.On("GetByEmail", ctx, "mallory@example.com").Return(nil, gorm.ErrRecordNotFound)
		repo.user.On("Create", ctx, mock.Anything).Return(nil)

		user, err := svc.Register(ctx, &RegisterRequest{
			Username: "mallory",
			Email:    "mallory@example.com",
			Password: "secret123",
			FullName: "Mallory",
			Role:     models.RoleAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleStudent, user.Role)
	})

	t.Run("rejects taken username", func(t *testing.T) {
		repo, svc := newAuthFixture()
		repo.user.On("GetByUsername", ctx, "alice").Return(hashedUser(1, "alice", "x", models.RoleStudent), nil)

		_, err := svc.Register(ctx, &RegisterRequest{
			Username: "alice",
			Email:    "other@example.com",
			Password: "secret123",
			FullName: "Alice",
		})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a parseable token", func(t *testing.T) {
		repo, svc := newAuthFixture()
		user := hashedUser(7, "bob", "secret123", models.RoleTeacher)
		repo.user.On("GetByUsername", ctx, "bob").Return(user, nil)
		repo.user.On("Update", ctx, user).Return(nil)

		resp, err := svc.Login(ctx, &LoginRequest{Username: "bob", Password: "secret123"})
		require.NoError(t, err)
		require.NotEmpty(t, resp.AccessToken)
		assert.NotNil(t, user.LastLoginAt)

		claims, err := svc.ParseToken(resp.AccessToken)
		require.NoError(t, err)
		userID, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, uint(7), userID)
		assert.Equal(t, "bob", claims.Username)
		assert.Equal(t, models.RoleTeacher, claims.Role)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		repo, svc := newAuthFixture()
		repo.user.On("GetByUsername", ctx, "bob").Return(hashedUser(7, "bob", "secret123", models.RoleTeacher), nil)

		_, err := svc.Login(ctx, &LoginRequest{Username: "bob", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("rejects unknown username with the same error", func(t *testing.T) {
		repo, svc := newAuthFixture()
		repo.user.On("GetByUsername", ctx, "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Login(ctx, &LoginRequest{Username: "ghost", Password: "whatever"})
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("rejects deactivated account", func(t *testing.T) {
		repo, svc := newAuthFixture()
		user := hashedUser(7, "bob", "secret123", models.RoleTeacher)
		user.IsActive = false
		repo.user.On("GetByUsername", ctx, "bob").Return(user, nil)

		_, err := svc.Login(ctx, &LoginRequest{Username: "bob", Password: "secret123"})
		assert.ErrorIs(t, err, ErrUserInactive)
	})
}

func TestAuthService_ParseToken(t *testing.T) {
	_, svc := newAuthFixture()

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ParseToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		repo := newMockRepository()
		other := NewAuthService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)), utils.NewValidator(), "other-secret", time.Hour)

		user := hashedUser(7, "bob", "secret123", models.RoleTeacher)
		repo.user.On("GetByUsername", context.Background(), "bob").Return(user, nil)
		repo.user.On("Update", context.Background(), user).Return(nil)

		resp, err := other.Login(context.Background(), &LoginRequest{Username: "bob", Password: "secret123"})
		require.NoError(t, err)

		_, err = svc.ParseToken(resp.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	actor := Actor{UserID: 7, Role: models.RoleStudent}

	t.Run("updates the hash", func(t *testing.T) {
		repo, svc := newAuthFixture()
		user := hashedUser(7, "bob", "secret123", models.RoleStudent)
		oldHash := user.Password
		repo.user.On("GetByID", ctx, uint(7)).Return(user, nil)
		repo.user.On("Update", ctx, user).Return(nil)

		err := svc.ChangePassword(ctx, actor, &ChangePasswordRequest{
			CurrentPassword: "secret123",
			NewPassword:     "evenbetter",
		})
		require.NoError(t, err)
		assert.NotEqual(t, oldHash, user.Password)
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		repo, svc := newAuthFixture()
		repo.user.On("GetByID", ctx, uint(7)).Return(hashedUser(7, "bob", "secret123", models.RoleStudent), nil)

		err := svc.ChangePassword(ctx, actor, &ChangePasswordRequest{
			CurrentPassword: "wrong",
			NewPassword:     "evenbetter",
		})
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})
}
