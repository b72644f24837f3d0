package repositories

import (
	"context"
	"time"

	"github.com/examhub/exam-service/internal/models"
)

// ExamRepository interface for exam operations
type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id uint) (*models.Exam, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Exam, error)
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters ExamFilters) ([]*models.Exam, int64, error)
	GetByCreator(ctx context.Context, creatorID uint) ([]*models.Exam, error)
	GetByStatus(ctx context.Context, status models.ExamStatus) ([]*models.Exam, error)

	// Published exams whose window covers now / starts after now.
	GetActive(ctx context.Context, now time.Time) ([]*models.Exam, error)
	GetUpcoming(ctx context.Context, now time.Time) ([]*models.Exam, error)
}
