package postgres

import (
	"context"
	"time"

	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type ExamPostgreSQL struct {
	db *gorm.DB
}

func NewExamPostgreSQL(db *gorm.DB) repositories.ExamRepository {
	return &ExamPostgreSQL{db: db}
}

func (e *ExamPostgreSQL) Create(ctx context.Context, exam *models.Exam) error {
	return e.db.WithContext(ctx).Create(exam).Error
}

func (e *ExamPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	var exam models.Exam
	if err := e.db.WithContext(ctx).First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (e *ExamPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Exam, error) {
	var exam models.Exam
	if err := e.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order(`questions."order" asc`)
		}).
		Preload("Creator").
		First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (e *ExamPostgreSQL) Update(ctx context.Context, exam *models.Exam) error {
	return e.db.WithContext(ctx).Save(exam).Error
}

func (e *ExamPostgreSQL) Delete(ctx context.Context, id uint) error {
	return e.db.WithContext(ctx).Delete(&models.Exam{}, id).Error
}

func (e *ExamPostgreSQL) List(ctx context.Context, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	var exams []*models.Exam
	var total int64

	// apply filters first
	query := e.db.WithContext(ctx).Model(&models.Exam{})
	query = e.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then pagination and sorting
	query = applyPaginationAndSort(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder)

	if err := query.Find(&exams).Error; err != nil {
		return nil, 0, err
	}

	return exams, total, nil
}

func (e *ExamPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ExamFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.DateFrom != nil {
		query = query.Where("start_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("end_date <= ?", *filters.DateTo)
	}
	return query
}

func (e *ExamPostgreSQL) GetByCreator(ctx context.Context, creatorID uint) ([]*models.Exam, error) {
	var exams []*models.Exam
	if err := e.db.WithContext(ctx).Where("created_by = ?", creatorID).Find(&exams).Error; err != nil {
		return nil, err
	}
	return exams, nil
}

func (e *ExamPostgreSQL) GetByStatus(ctx context.Context, status models.ExamStatus) ([]*models.Exam, error) {
	var exams []*models.Exam
	if err := e.db.WithContext(ctx).Where("status = ?", status).Find(&exams).Error; err != nil {
		return nil, err
	}
	return exams, nil
}

func (e *ExamPostgreSQL) GetActive(ctx context.Context, now time.Time) ([]*models.Exam, error) {
	var exams []*models.Exam
	if err := e.db.WithContext(ctx).
		Where("status = ?", models.ExamStatusPublished).
		Where("start_date <= ? AND end_date >= ?", now, now).
		Find(&exams).Error; err != nil {
		return nil, err
	}
	return exams, nil
}

func (e *ExamPostgreSQL) GetUpcoming(ctx context.Context, now time.Time) ([]*models.Exam, error) {
	var exams []*models.Exam
	if err := e.db.WithContext(ctx).
		Where("status = ?", models.ExamStatusPublished).
		Where("start_date > ?", now).
		Find(&exams).Error; err != nil {
		return nil, err
	}
	return exams, nil
}
