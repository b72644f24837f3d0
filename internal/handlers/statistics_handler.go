package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examhub/exam-service/internal/services"
)

type StatisticsHandler struct {
	BaseHandler
	statistics services.StatisticsService
}

func NewStatisticsHandler(statistics services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statistics: statistics}
}

// GetByExam godoc
// @Summary Get an exam's statistics
// @Tags statistics
// @Produce json
// @Param id path int true "resource id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /exams/{id}/statistics [get]
func (h *StatisticsHandler) GetByExam(c *gin.Context) {
	actor, ok := h.mustActor(c)
	if !ok {
		return
	}
	examID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.statistics.GetByExam(c.Request.Context(), actor, examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "exam statistics", stats)
}
