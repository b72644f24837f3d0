package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examhub/exam-service/internal/services"
)

type AuthHandler struct {
	BaseHandler
	auth services.AuthService
	user services.UserService
}

func NewAuthHandler(auth services.AuthService, user services.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, user: user}
}

// Register creates a new student account.
// Register godoc
// @Summary Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.RegisterRequest true "request body"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "registered", user)
}

// Login exchanges credentials for an access token.
// Login godoc
// @Summary Log in and receive a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.LoginRequest true "request body"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "logged in", resp)
}

// Profile returns the authenticated user.
// Profile godoc
// @Summary Get the caller's profile
// @Tags auth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}

	user, err := h.user.GetByID(c.Request.Context(), actor, actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "profile", user)
}

// ChangePassword updates the authenticated user's password.
// ChangePassword godoc
// @Summary Change the caller's password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.ChangePasswordRequest true "request body"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}

	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), actor, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "password changed", nil)
}
