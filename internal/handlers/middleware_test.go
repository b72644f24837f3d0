package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/services"
)

// stubAuthService returns a fixed claims result for any token.
type stubAuthService struct {
	claims *services.Claims
	err    error
}

func (s *stubAuthService) Register(ctx context.Context, req *services.RegisterRequest) (*models.User, error) {
	return nil, nil
}

func (s *stubAuthService) Login(ctx context.Context, req *services.LoginRequest) (*services.LoginResponse, error) {
	return nil, nil
}

func (s *stubAuthService) ChangePassword(ctx context.Context, actor services.Actor, req *services.ChangePasswordRequest) error {
	return nil
}

func (s *stubAuthService) ParseToken(tokenString string) (*services.Claims, error) {
	return s.claims, s.err
}

func teacherClaims() *services.Claims {
	return &services.Claims{
		Username: "teach",
		Role:     models.RoleTeacher,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "10",
		},
	}
}

func authTestRouter(auth services.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	chain := append([]gin.HandlerFunc{AuthMiddleware(auth)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		actor, _ := getActor(c)
		c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID})
	})
	router.GET("/protected", chain...)
	return router
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("rejects missing header", func(t *testing.T) {
		router := authTestRouter(&stubAuthService{claims: teacherClaims()})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		router := authTestRouter(&stubAuthService{err: services.ErrInvalidToken})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer bad")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("passes valid token and sets actor", func(t *testing.T) {
		router := authTestRouter(&stubAuthService{claims: teacherClaims()})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer good")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":10`)
	})
}

func TestRequireRoles(t *testing.T) {
	t.Run("allows listed role", func(t *testing.T) {
		router := authTestRouter(&stubAuthService{claims: teacherClaims()},
			RequireRoles(models.RoleAdmin, models.RoleTeacher))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer good")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects unlisted role", func(t *testing.T) {
		router := authTestRouter(&stubAuthService{claims: teacherClaims()},
			RequireRoles(models.RoleAdmin))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer good")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
