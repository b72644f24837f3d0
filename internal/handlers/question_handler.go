package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examhub/exam-service/internal/services"
)

type QuestionHandler struct {
	BaseHandler
	questions services.QuestionService
}

func NewQuestionHandler(questions services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// Create godoc
// @Summary Add a question to an exam
// @Tags questions
// @Accept json
// @Produce json
// @Param id path int true "resource id"
// @Param body body services.CreateQuestionRequest true "request body"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /exams/{id}/questions [post]
func (h *QuestionHandler) Create(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	examID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	question, err := h.questions.Create(c.Request.Context(), actor, examID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "question created", question)
}

// GetByExam godoc
// @Summary List an exam's questions in order
// @Tags questions
// @Produce json
// @Param id path int true "resource id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /exams/{id}/questions [get]
func (h *QuestionHandler) GetByExam(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	examID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	questions, err := h.questions.GetByExam(c.Request.Context(), actor, examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "questions", questions)
}

// Reorder godoc
// @Summary Reorder an exam's questions
// @Tags questions
// @Accept json
// @Produce json
// @Param id path int true "resource id"
// @Param body body services.ReorderQuestionsRequest true "request body"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /exams/{id}/questions/order [put]
func (h *QuestionHandler) Reorder(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	examID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ReorderQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := h.questions.Reorder(c.Request.Context(), actor, examID, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "questions reordered", nil)
}

// GetByID godoc
// @Summary Get a question by id
// @Tags questions
// @Produce json
// @Param id path int true "resource id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /questions/{id} [get]
func (h *QuestionHandler) GetByID(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	question, err := h.questions.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "question", question)
}

// Update godoc
// @Summary Update a question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path int true "resource id"
// @Param body body services.UpdateQuestionRequest true "request body"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /questions/{id} [patch]
func (h *QuestionHandler) Update(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	question, err := h.questions.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "question updated", question)
}

// Delete godoc
// @Summary Delete a question
// @Tags questions
// @Produce json
// @Param id path int true "resource id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /questions/{id} [delete]
func (h *QuestionHandler) Delete(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.questions.Delete(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "question deleted", nil)
}
