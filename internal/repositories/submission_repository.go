package repositories

import (
	"context"

	"github.com/examhub/exam-service/internal/models"
)

// SubmissionRepository interface for submission operations
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uint) (*models.Submission, error)
	Update(ctx context.Context, submission *models.Submission) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters SubmissionFilters) ([]*models.Submission, int64, error)
	GetByExam(ctx context.Context, examID uint) ([]*models.Submission, error)
	GetByStudent(ctx context.Context, studentID uint) ([]*models.Submission, error)
	GetByExamAndStudent(ctx context.Context, examID, studentID uint) ([]*models.Submission, error)

	// CountByExamAndStudent counts prior attempts for the attempt-limit check.
	CountByExamAndStudent(ctx context.Context, examID, studentID uint) (int64, error)
}
