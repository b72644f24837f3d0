package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/repositories"
	"github.com/examhub/exam-service/internal/services"
)

type SubmissionHandler struct {
	BaseHandler
	submissions services.SubmissionService
}

func NewSubmissionHandler(submissions services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// Start godoc
// @Summary Start an exam attempt
// @Tags submissions
// @Accept json
// @Produce json
// @Param body body services.StartSubmissionRequest true "request body"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /submissions [post]
func (h *SubmissionHandler) Start(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}

	var req services.StartSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	submission, err := h.submissions.Start(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "submission started", submission)
}

// SaveAnswers godoc
// @Summary Save answers on a running attempt
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path int true "resource id"
// @Param body body services.SaveAnswersRequest true "request body"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /submissions/{id}/answers [put]
func (h *SubmissionHandler) SaveAnswers(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.SaveAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	submission, err := h.submissions.SaveAnswers(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "answers saved", submission)
}

// Complete godoc
// @Summary Complete an attempt and auto-grade it
// @Tags submissions
// @Produce json
// @Param id path int true "resource id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /submissions/{id}/complete [post]
func (h *SubmissionHandler) Complete(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	submission, err := h.submissions.Complete(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "submission completed", submission)
}

// Grade godoc
// @Summary Apply manual grades to a submission
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path int true "resource id"
// @Param body body services.GradeSubmissionRequest true "request body"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /submissions/{id}/grade [post]
func (h *SubmissionHandler) Grade(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.GradeSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	submission, err := h.submissions.Grade(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "submission graded", submission)
}

// GetByID godoc
// @Summary Get a submission by id
// @Tags submissions
// @Produce json
// @Param id path int true "resource id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /submissions/{id} [get]
func (h *SubmissionHandler) GetByID(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	submission, err := h.submissions.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "submission", submission)
}

// Delete godoc
// @Summary Delete a submission
// @Tags submissions
// @Produce json
// @Param id path int true "resource id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /submissions/{id} [delete]
func (h *SubmissionHandler) Delete(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.submissions.Delete(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "submission deleted", nil)
}

// List godoc
// @Summary List all submissions
// @Tags submissions
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}

	limit, offset := h.parsePagination(c)
	filters := repositories.SubmissionFilters{Limit: limit, Offset: offset}
	if status := c.Query("status"); status != "" {
		s := models.SubmissionStatus(status)
		filters.Status = &s
	}

	submissions, total, err := h.submissions.List(c.Request.Context(), actor, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "submissions", gin.H{"submissions": submissions, "total": total})
}

// GetMine godoc
// @Summary List the caller's submissions
// @Tags submissions
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /submissions/mine [get]
func (h *SubmissionHandler) GetMine(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}

	submissions, err := h.submissions.GetMine(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "my submissions", submissions)
}

// GetByExam godoc
// @Summary List an exam's submissions
// @Tags submissions
// @Produce json
// @Param id path int true "resource id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /exams/{id}/submissions [get]
func (h *SubmissionHandler) GetByExam(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	examID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	submissions, err := h.submissions.GetByExam(c.Request.Context(), actor, examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "exam submissions", submissions)
}
