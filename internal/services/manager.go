package services

import (
	"log/slog"
	"time"

	"github.com/examhub/exam-service/internal/cache"
	"github.com/examhub/exam-service/internal/events"
	"github.com/examhub/exam-service/internal/repositories"
	"github.com/examhub/exam-service/internal/utils"
)

// ServiceManager wires all services against one repository, publisher
// and cache.
type ServiceManager struct {
	Auth         AuthService
	User         UserService
	Exam         ExamService
	Question     QuestionService
	Submission   SubmissionService
	Statistics   StatisticsService
	Notification NotificationService
	Export       ExportService
	Seed         *SeedService
}

type ManagerConfig struct {
	JWTSecret string
	JWTExpiry time.Duration
}

func NewServiceManager(
	repo repositories.Repository,
	logger *slog.Logger,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
	cfg ManagerConfig,
) *ServiceManager {
	validator := utils.NewValidator()

	statistics := NewStatisticsService(repo, logger, cacheService)
	notifications := NewNotificationService(repo, logger, validator, publisher)

	return &ServiceManager{
		Auth:         NewAuthService(repo, logger, validator, cfg.JWTSecret, cfg.JWTExpiry),
		User:         NewUserService(repo, logger, validator),
		Exam:         NewExamService(repo, logger, validator, publisher),
		Question:     NewQuestionService(repo, logger, validator),
		Submission:   NewSubmissionService(repo, logger, validator, publisher, statistics, notifications),
		Statistics:   statistics,
		Notification: notifications,
		Export:       NewExportService(repo, logger),
		Seed:         NewSeedService(repo, logger),
	}
}
