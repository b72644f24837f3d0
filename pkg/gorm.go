package pkg

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/examhub/exam-service/internal/config"
	"github.com/examhub/exam-service/internal/models"
)

// InitDatabase opens the postgres connection. TranslateError is on so
// unique constraint violations surface as gorm.ErrDuplicatedKey.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Migrate runs the schema migration for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Exam{},
		&models.Question{},
		&models.Submission{},
		&models.ExamStatistics{},
		&models.Notification{},
	)
}
