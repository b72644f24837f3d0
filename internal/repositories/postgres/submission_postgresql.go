package postgres

import (
	"context"

	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

func (s *SubmissionPostgreSQL) Create(ctx context.Context, submission *models.Submission) error {
	return s.db.WithContext(ctx).Create(submission).Error
}

func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) Update(ctx context.Context, submission *models.Submission) error {
	return s.db.WithContext(ctx).Save(submission).Error
}

func (s *SubmissionPostgreSQL) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Submission{}, id).Error
}

func (s *SubmissionPostgreSQL) List(ctx context.Context, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	var submissions []*models.Submission
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Submission{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.ExamID != nil {
		query = query.Where("exam_id = ?", *filters.ExamID)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder)

	if err := query.Preload("Student").Preload("Exam").Find(&submissions).Error; err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (s *SubmissionPostgreSQL) GetByExam(ctx context.Context, examID uint) ([]*models.Submission, error) {
	var submissions []*models.Submission
	if err := s.db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Preload("Student").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s *SubmissionPostgreSQL) GetByStudent(ctx context.Context, studentID uint) ([]*models.Submission, error) {
	var submissions []*models.Submission
	if err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Preload("Exam").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s *SubmissionPostgreSQL) GetByExamAndStudent(ctx context.Context, examID, studentID uint) ([]*models.Submission, error) {
	var submissions []*models.Submission
	if err := s.db.WithContext(ctx).
		Where("exam_id = ? AND student_id = ?", examID, studentID).
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s *SubmissionPostgreSQL) CountByExamAndStudent(ctx context.Context, examID, studentID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("exam_id = ? AND student_id = ?", examID, studentID).
		Count(&count).Error
	return count, err
}
