package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/repositories"
	"github.com/examhub/exam-service/internal/utils"
)

const bcryptCost = 10

// Claims carried inside an access token.
type Claims struct {
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim back into the user's id.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject claim: %w", err)
	}
	return uint(id), nil
}

type RegisterRequest struct {
	Username string          `json:"username" validate:"required,min=3,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6,max=72"`
	FullName string          `json:"full_name" validate:"required,max=100"`
	Role     models.UserRole `json:"role" validate:"omitempty,user_role"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *models.User `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

// AuthService handles registration, login and token issuing.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	ChangePassword(ctx context.Context, actor Actor, req *ChangePasswordRequest) error
	ParseToken(tokenString string) (*Claims, error)
}

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator

	jwtSecret []byte
	jwtExpiry time.Duration
}

func NewAuthService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator, jwtSecret string, jwtExpiry time.Duration) AuthService {
	return &authService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		jwtSecret: []byte(jwtSecret),
		jwtExpiry: jwtExpiry,
	}
}

// Register creates a new account. The role defaults to student and an
// admin role can never be claimed here; admins are made through the
// user management endpoints.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
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

	role := req.Role
	if role == "" || role == models.RoleAdmin {
		role = models.RoleStudent
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
		FullName: req.FullName,
		Role:     role,
		IsActive: true,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByUsername(ctx, req.Username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredential
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredential
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.repo.User().Update(ctx, user); err != nil {
		// Login still succeeds if only the timestamp update fails.
		s.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID, "username", user.Username)
	return &LoginResponse{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) ChangePassword(ctx context.Context, actor Actor, req *ChangePasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	user, err := s.repo.User().GetByID(ctx, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredential
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.Password = string(hash)
	if err := s.repo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("password changed", "user_id", user.ID)
	return nil
}

func (s *authService) generateToken(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.jwtExpiry)

	claims := &Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
