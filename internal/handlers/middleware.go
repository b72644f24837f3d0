package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/services"
)

const actorContextKey = "actor"

// AuthMiddleware validates the bearer token and stores the actor on the
// request context.
func AuthMiddleware(auth services.AuthService) gin.HandlerFunc {
	base := &BaseHandler{}
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			base.RespondWithError(c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			base.RespondWithError(c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			base.RespondWithError(c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}

		c.Set(actorContextKey, services.Actor{
			UserID:   userID,
			Username: claims.Username,
			Role:     claims.Role,
		})
		c.Next()
	}
}

// RequireRoles rejects requests whose actor role is not in the allow list.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	base := &BaseHandler{}
	allowed := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		actor, ok := getActor(c)
		if !ok || !allowed[actor.Role] {
			base.RespondWithError(c, http.StatusForbidden, "insufficient role", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func getActor(c *gin.Context) (services.Actor, bool) {
	value, exists := c.Get(actorContextKey)
	if !exists {
		return services.Actor{}, false
	}
	actor, ok := value.(services.Actor)
	return actor, ok
}

// mustActor is used below routes guarded by AuthMiddleware.
func (h *BaseHandler) mustActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := getActor(c)
	if !ok {
		h.RespondWithError(c, http.StatusUnauthorized, "missing authentication", nil)
		return services.Actor{}, false
	}
	return actor, true
}

// CORSMiddleware sets the CORS headers for the configured origin.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
