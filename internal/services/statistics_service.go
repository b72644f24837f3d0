package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/examhub/exam-service/internal/cache"
	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/repositories"
)

const statisticsCacheTTL = 5 * time.Minute

// StatisticsService maintains the per-exam aggregate record. The Record*
// methods are incremental: each one folds a single observation into the
// stored aggregate without rescanning submissions.
type StatisticsService interface {
	GetByExam(ctx context.Context, actor Actor, examID uint) (*models.ExamStatistics, error)

	RecordParticipant(ctx context.Context, examID uint) error
	RecordScore(ctx context.Context, examID uint, score float64) error
	RecordCompletion(ctx context.Context, examID uint) error
	RecordTimeSpent(ctx context.Context, examID uint, minutes float64) error
}

type statisticsService struct {
	repo   repositories.Repository
	logger *slog.Logger
	cache  cache.CacheService
	policy policy
}

func NewStatisticsService(repo repositories.Repository, logger *slog.Logger, cacheService cache.CacheService) StatisticsService {
	return &statisticsService{repo: repo, logger: logger, cache: cacheService}
}

func statisticsCacheKey(examID uint) string {
	return fmt.Sprintf("exam:stats:%d", examID)
}

// GetByExam serves statistics from the cache when possible and falls back
// to the database on a miss.
func (s *statisticsService) GetByExam(ctx context.Context, actor Actor, examID uint) (*models.ExamStatistics, error) {
	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}
	if err := s.policy.Can(actor, ActionViewStatistics, exam.CreatedBy); err != nil {
		return nil, err
	}

	key := statisticsCacheKey(examID)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var stats models.ExamStatistics
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
		// Corrupt entry; drop it and fall through to the database.
		_ = s.cache.Delete(ctx, key)
	}

	stats, err := s.getOrCreate(ctx, examID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, key, payload, statisticsCacheTTL); err != nil {
			s.logger.Warn("failed to cache statistics", "exam_id", examID, "error", err)
		}
	}

	return stats, nil
}

// getOrCreate lazily creates a zeroed record the first time an exam's
// statistics are touched.
func (s *statisticsService) getOrCreate(ctx context.Context, examID uint) (*models.ExamStatistics, error) {
	stats, err := s.repo.Statistics().GetByExam(ctx, examID)
	if err == nil {
		return stats, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load statistics: %w", err)
	}

	stats = &models.ExamStatistics{
		ExamID:            examID,
		ScoreDistribution: datatypes.NewJSONType(models.ScoreDistribution{}),
	}
	if err := s.repo.Statistics().Create(ctx, stats); err != nil {
		if repositories.IsDuplicateError(err) {
			return s.repo.Statistics().GetByExam(ctx, examID)
		}
		return nil, fmt.Errorf("failed to create statistics: %w", err)
	}
	return stats, nil
}

func (s *statisticsService) invalidate(ctx context.Context, examID uint) {
	if err := s.cache.Delete(ctx, statisticsCacheKey(examID)); err != nil {
		s.logger.Warn("failed to invalidate statistics cache", "exam_id", examID, "error", err)
	}
}

// RecordParticipant counts a new attempt and refreshes the completion rate.
func (s *statisticsService) RecordParticipant(ctx context.Context, examID uint) error {
	stats, err := s.getOrCreate(ctx, examID)
	if err != nil {
		return err
	}

	stats.ParticipantCount++
	stats.CompletionRate = completionRate(stats.CompletedCount, stats.ParticipantCount)

	if err := s.repo.Statistics().Update(ctx, stats); err != nil {
		return fmt.Errorf("failed to update statistics: %w", err)
	}
	s.invalidate(ctx, examID)
	return nil
}

// RecordScore buckets the score and recomputes the average from bucket
// midpoints (20, 50, 70, 90).
func (s *statisticsService) RecordScore(ctx context.Context, examID uint, score float64) error {
	stats, err := s.getOrCreate(ctx, examID)
	if err != nil {
		return err
	}

	dist := stats.ScoreDistribution.Data()
	switch {
	case score < 40:
		dist.Below40++
	case score < 60:
		dist.Between40And60++
	case score < 80:
		dist.Between60And80++
	default:
		dist.Above80++
	}
	stats.ScoreDistribution = datatypes.NewJSONType(dist)
	stats.AverageScore = averageFromDistribution(dist)

	if err := s.repo.Statistics().Update(ctx, stats); err != nil {
		return fmt.Errorf("failed to update statistics: %w", err)
	}
	s.invalidate(ctx, examID)
	return nil
}

// RecordCompletion counts a finished attempt and refreshes the completion rate.
func (s *statisticsService) RecordCompletion(ctx context.Context, examID uint) error {
	stats, err := s.getOrCreate(ctx, examID)
	if err != nil {
		return err
	}

	stats.CompletedCount++
	stats.CompletionRate = completionRate(stats.CompletedCount, stats.ParticipantCount)

	if err := s.repo.Statistics().Update(ctx, stats); err != nil {
		return fmt.Errorf("failed to update statistics: %w", err)
	}
	s.invalidate(ctx, examID)
	return nil
}

// RecordTimeSpent folds one attempt duration into the running average.
func (s *statisticsService) RecordTimeSpent(ctx context.Context, examID uint, minutes float64) error {
	stats, err := s.getOrCreate(ctx, examID)
	if err != nil {
		return err
	}

	n := float64(stats.CompletedCount)
	stats.AverageTimeInMinutes = (stats.AverageTimeInMinutes*n + minutes) / (n + 1)

	if err := s.repo.Statistics().Update(ctx, stats); err != nil {
		return fmt.Errorf("failed to update statistics: %w", err)
	}
	s.invalidate(ctx, examID)
	return nil
}

func completionRate(completed, participants int) float64 {
	if participants == 0 {
		return 0
	}
	return float64(completed) / float64(participants) * 100
}

// averageFromDistribution estimates the mean score from bucket counts
// using each bucket's midpoint.
func averageFromDistribution(dist models.ScoreDistribution) float64 {
	total := dist.Total()
	if total == 0 {
		return 0
	}
	sum := float64(dist.Below40)*20 +
		float64(dist.Between40And60)*50 +
		float64(dist.Between60And80)*70 +
		float64(dist.Above80)*90
	return sum / float64(total)
}
