package repositories

import (
	"context"

	"github.com/examhub/exam-service/internal/models"
)

// StatisticsRepository interface for per-exam statistics records
type StatisticsRepository interface {
	Create(ctx context.Context, stats *models.ExamStatistics) error
	GetByExam(ctx context.Context, examID uint) (*models.ExamStatistics, error)
	Update(ctx context.Context, stats *models.ExamStatistics) error
}
