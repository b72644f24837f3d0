package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examhub/exam-service/internal/repositories"
	"github.com/examhub/exam-service/internal/services"
)

type NotificationHandler struct {
	BaseHandler
	notifications services.NotificationService
}

func NewNotificationHandler(notifications services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// Create godoc
// @Summary Send a notification
// @Tags notifications
// @Accept json
// @Produce json
// @Param body body services.CreateNotificationRequest true "request body"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}

	var req services.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	notification, err := h.notifications.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "notification created", notification)
}

// GetMine godoc
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) GetMine(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}

	var filters repositories.NotificationFilters
	if unread := c.Query("unread"); unread == "true" {
		isRead := false
		filters.IsRead = &isRead
	}

	notifications, err := h.notifications.GetMine(c.Request.Context(), actor, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "notifications", notifications)
}

// List godoc
// @Summary List every notification
// @Tags notifications
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/all [get]
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}

	var filters repositories.NotificationFilters
	filters.Limit, filters.Offset = h.parsePagination(c)

	notifications, total, err := h.notifications.List(c.Request.Context(), actor, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "notifications", gin.H{
		"notifications": notifications,
		"total":         total,
	})
}

// GetByUser godoc
// @Summary List a user's notifications
// @Tags notifications
// @Produce json
// @Param userId path int true "user id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/user/{userId} [get]
func (h *NotificationHandler) GetByUser(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	userID, ok := h.parseIDParam(c, "userId")
	if !ok {
		return
	}

	var filters repositories.NotificationFilters
	if unread := c.Query("unread"); unread == "true" {
		isRead := false
		filters.IsRead = &isRead
	}

	notifications, err := h.notifications.GetByUser(c.Request.Context(), actor, userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "notifications", notifications)
}

// Update godoc
// @Summary Update a notification
// @Tags notifications
// @Accept json
// @Produce json
// @Param id path int true "resource id"
// @Param body body services.UpdateNotificationRequest true "request body"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id} [patch]
func (h *NotificationHandler) Update(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	notification, err := h.notifications.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "notification updated", notification)
}

// GetByID godoc
// @Summary Get a notification by id
// @Tags notifications
// @Produce json
// @Param id path int true "resource id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id} [get]
func (h *NotificationHandler) GetByID(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	notification, err := h.notifications.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "notification", notification)
}

// GetUnread godoc
// @Summary List the caller's unread notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/unread [get]
func (h *NotificationHandler) GetUnread(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}

	notifications, err := h.notifications.GetUnread(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "unread notifications", notifications)
}

// MarkRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Param id path int true "resource id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "notification marked read", nil)
}

// MarkAllRead godoc
// @Summary Mark all the caller's notifications read
// @Tags notifications
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkAllRead(c.Request.Context(), actor); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "all notifications marked read", nil)
}

// Delete godoc
// @Summary Delete a notification
// @Tags notifications
// @Produce json
// @Param id path int true "resource id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.Delete(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "notification deleted", nil)
}
