package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/repositories"
	"github.com/examhub/exam-service/internal/services"
)

type ExamHandler struct {
	BaseHandler
	exams  services.ExamService
	export services.ExportService
}

func NewExamHandler(exams services.ExamService, export services.ExportService) *ExamHandler {
	return &ExamHandler{exams: exams, export: export}
}

// Create godoc
// @Summary Create an exam
// @Tags exams
// @Accept json
// @Produce json
// @Param body body services.CreateExamRequest true "request body"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /exams [post]
func (h *ExamHandler) Create(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}

	var req services.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	exam, err := h.exams.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "exam created", exam)
}

// List godoc
// @Summary List exams
// @Tags exams
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /exams [get]
func (h *ExamHandler) List(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}

	limit, offset := h.parsePagination(c)
	filters := repositories.ExamFilters{
		Limit:     limit,
		Offset:    offset,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if status := c.Query("status"); status != "" {
		s := models.ExamStatus(status)
		filters.Status = &s
	}
	if examType := c.Query("type"); examType != "" {
		t := models.ExamType(examType)
		filters.Type = &t
	}

	exams, total, err := h.exams.List(c.Request.Context(), actor, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "exams", gin.H{"exams": exams, "total": total})
}

// GetActive godoc
// @Summary List exams open right now
// @Tags exams
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /exams/active [get]
func (h *ExamHandler) GetActive(c *gin.Context) {
	exams, err := h.exams.GetActive(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "active exams", exams)
}

// GetUpcoming godoc
// @Summary List upcoming exams
// @Tags exams
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /exams/upcoming [get]
func (h *ExamHandler) GetUpcoming(c *gin.Context) {
	exams, err := h.exams.GetUpcoming(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "upcoming exams", exams)
}

// GetMine godoc
// @Summary List the caller's exams
// @Tags exams
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /exams/mine [get]
func (h *ExamHandler) GetMine(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}

	exams, err := h.exams.GetMyExams(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "my exams", exams)
}

// GetByCreator godoc
// @Summary List exams by creator
// @Tags exams
// @Produce json
// @Param creatorId path int true "creator user id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /exams/creator/{creatorId} [get]
func (h *ExamHandler) GetByCreator(c *gin.Context) {
	creatorID, ok := h.parseIDParam(c, "creatorId")
	if !ok {
		return
	}

	exams, err := h.exams.GetByCreator(c.Request.Context(), creatorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "exams by creator", exams)
}

// GetByID godoc
// @Summary Get an exam by id
// @Tags exams
// @Produce json
// @Param id path int true "resource id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /exams/{id} [get]
func (h *ExamHandler) GetByID(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	exam, err := h.exams.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "exam", exam)
}

// Update godoc
// @Summary Update an exam
// @Tags exams
// @Accept json
// @Produce json
// @Param id path int true "resource id"
// @Param body body services.UpdateExamRequest true "request body"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /exams/{id} [patch]
func (h *ExamHandler) Update(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	exam, err := h.exams.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "exam updated", exam)
}

// Delete godoc
// @Summary Delete an exam
// @Tags exams
// @Produce json
// @Param id path int true "resource id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /exams/{id} [delete]
func (h *ExamHandler) Delete(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.exams.Delete(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "exam deleted", nil)
}

// Publish godoc
// @Summary Publish a draft exam
// @Tags exams
// @Produce json
// @Param id path int true "resource id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /exams/{id}/publish [post]
func (h *ExamHandler) Publish(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	exam, err := h.exams.Publish(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "exam published", exam)
}

// ExportResults godoc
// @Summary Export exam results as xlsx
// @Tags exams
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "resource id"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /exams/{id}/export [get]
func (h *ExamHandler) ExportResults(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	payload, filename, err := h.export.ExportResults(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
}
