package postgres

import (
	"context"

	"github.com/examhub/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB

	user         repositories.UserRepository
	exam         repositories.ExamRepository
	question     repositories.QuestionRepository
	submission   repositories.SubmissionRepository
	statistics   repositories.StatisticsRepository
	notification repositories.NotificationRepository
}

// NewRepository creates the gorm-backed repository aggregate.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		db:           db,
		user:         NewUserPostgreSQL(db),
		exam:         NewExamPostgreSQL(db),
		question:     NewQuestionPostgreSQL(db),
		submission:   NewSubmissionPostgreSQL(db),
		statistics:   NewStatisticsPostgreSQL(db),
		notification: NewNotificationPostgreSQL(db),
	}
}

func (r *gormRepository) User() repositories.UserRepository                 { return r.user }
func (r *gormRepository) Exam() repositories.ExamRepository                 { return r.exam }
func (r *gormRepository) Question() repositories.QuestionRepository         { return r.question }
func (r *gormRepository) Submission() repositories.SubmissionRepository     { return r.submission }
func (r *gormRepository) Statistics() repositories.StatisticsRepository     { return r.statistics }
func (r *gormRepository) Notification() repositories.NotificationRepository { return r.notification }

func (r *gormRepository) WithTx(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
