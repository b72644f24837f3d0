package repositories

import (
	"context"

	"github.com/examhub/exam-service/internal/models"
)

// QuestionRepository interface for question operations
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context) ([]*models.Question, error)
	GetByExam(ctx context.Context, examID uint) ([]*models.Question, error) // ordered by question order
	GetByType(ctx context.Context, questionType models.QuestionType) ([]*models.Question, error)
	CountByExam(ctx context.Context, examID uint) (int64, error)

	UpdateOrder(ctx context.Context, id uint, order int) error
}
