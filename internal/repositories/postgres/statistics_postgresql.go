package postgres

import (
	"context"

	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type StatisticsPostgreSQL struct {
	db *gorm.DB
}

func NewStatisticsPostgreSQL(db *gorm.DB) repositories.StatisticsRepository {
	return &StatisticsPostgreSQL{db: db}
}

func (s *StatisticsPostgreSQL) Create(ctx context.Context, stats *models.ExamStatistics) error {
	return s.db.WithContext(ctx).Create(stats).Error
}

func (s *StatisticsPostgreSQL) GetByExam(ctx context.Context, examID uint) (*models.ExamStatistics, error) {
	var stats models.ExamStatistics
	if err := s.db.WithContext(ctx).Where("exam_id = ?", examID).First(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *StatisticsPostgreSQL) Update(ctx context.Context, stats *models.ExamStatistics) error {
	return s.db.WithContext(ctx).Save(stats).Error
}
