package postgres

import (
	"context"

	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Create(question).Error
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Save(question).Error
}

func (q *QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	return q.db.WithContext(ctx).Delete(&models.Question{}, id).Error
}

func (q *QuestionPostgreSQL) List(ctx context.Context) ([]*models.Question, error) {
	var questions []*models.Question
	if err := q.db.WithContext(ctx).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) GetByExam(ctx context.Context, examID uint) ([]*models.Question, error) {
	var questions []*models.Question
	if err := q.db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order(`"order" asc`).
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) GetByType(ctx context.Context, questionType models.QuestionType) ([]*models.Question, error) {
	var questions []*models.Question
	if err := q.db.WithContext(ctx).Where("type = ?", questionType).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) CountByExam(ctx context.Context, examID uint) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).Model(&models.Question{}).Where("exam_id = ?", examID).Count(&count).Error
	return count, err
}

func (q *QuestionPostgreSQL) UpdateOrder(ctx context.Context, id uint, order int) error {
	return q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", id).
		Update("order", order).Error
}
