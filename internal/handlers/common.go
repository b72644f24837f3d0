package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/examhub/exam-service/internal/errors"
	"github.com/examhub/exam-service/internal/services"
)

// SuccessResponse is the envelope for every successful response.
type SuccessResponse struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope for every error response.
type ErrorResponse struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Path       string      `json:"path"`
	Timestamp  string      `json:"timestamp"`
	Details    interface{} `json:"details,omitempty"`
}

// BaseHandler provides the response helpers shared by all handlers.
type BaseHandler struct{}

func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, SuccessResponse{
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	})
}

func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
		Path:       c.Request.URL.Path,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Details:    details,
	})
}

// handleServiceError maps service-layer errors to HTTP status codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs apperrors.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.RespondWithError(c, http.StatusBadRequest, "validation failed", validationErrs)
		return
	}

	switch {
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, err.Error(), nil)
	case services.IsUnauthorized(err):
		h.RespondWithError(c, http.StatusUnauthorized, err.Error(), nil)
	case services.IsForbidden(err):
		h.RespondWithError(c, http.StatusForbidden, err.Error(), nil)
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, err.Error(), nil)
	case services.IsBusinessRule(err):
		h.RespondWithError(c, http.StatusBadRequest, err.Error(), nil)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// parseIDParam reads a positive integer path parameter.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		h.RespondWithError(c, http.StatusBadRequest, "invalid "+name+" parameter", nil)
		return 0, false
	}
	return uint(id), true
}

func (h *BaseHandler) parsePagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
