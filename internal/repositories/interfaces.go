package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/examhub/exam-service/internal/models"
	"gorm.io/gorm"
)

// Repository aggregates all per-entity repositories. WithTx runs fn against
// a repository bound to one database transaction; returning an error rolls
// the transaction back.
type Repository interface {
	User() UserRepository
	Exam() ExamRepository
	Question() QuestionRepository
	Submission() SubmissionRepository
	Statistics() StatisticsRepository
	Notification() NotificationRepository

	WithTx(ctx context.Context, fn func(Repository) error) error
}

// IsNotFoundError reports whether err is the store's record-not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err is a unique-constraint violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role      *models.UserRole `json:"role"`
	IsActive  *bool            `json:"is_active"`
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
	SortBy    string           `json:"sort_by"`
	SortOrder string           `json:"sort_order"`
}

type ExamFilters struct {
	Status    *models.ExamStatus `json:"status"`
	Type      *models.ExamType   `json:"type"`
	CreatedBy *uint              `json:"created_by"`
	DateFrom  *time.Time         `json:"date_from"`
	DateTo    *time.Time         `json:"date_to"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	SortBy    string             `json:"sort_by"`    // "created_at", "title", "start_date"
	SortOrder string             `json:"sort_order"` // "asc", "desc"
}

type SubmissionFilters struct {
	Status    *models.SubmissionStatus `json:"status"`
	ExamID    *uint                    `json:"exam_id"`
	StudentID *uint                    `json:"student_id"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
	SortBy    string                   `json:"sort_by"`
	SortOrder string                   `json:"sort_order"`
}

type NotificationFilters struct {
	Type   *models.NotificationType `json:"type"`
	IsRead *bool                    `json:"is_read"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}
