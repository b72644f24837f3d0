package models

import (
	"time"

	"gorm.io/gorm"
)

type ExamStatus string

const (
	ExamStatusDraft     ExamStatus = "draft"
	ExamStatusPublished ExamStatus = "published"
	ExamStatusActive    ExamStatus = "active"
	ExamStatusCompleted ExamStatus = "completed"
	ExamStatusArchived  ExamStatus = "archived"
)

type ExamType string

const (
	ExamTypeQuiz ExamType = "quiz"
	ExamTypeTest ExamType = "test"
	ExamTypeExam ExamType = "exam"
)

type Exam struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string    `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Duration    int        `json:"duration" gorm:"not null" validate:"required,min=1"` // minutes
	StartDate   time.Time  `json:"start_date" gorm:"not null" validate:"required"`
	EndDate     time.Time  `json:"end_date" gorm:"not null" validate:"required"`
	Status      ExamStatus `json:"status" gorm:"default:draft;index" validate:"omitempty,exam_status"`
	Type        ExamType   `json:"type" gorm:"default:quiz" validate:"omitempty,exam_type"`
	MaxAttempts int        `json:"max_attempts" gorm:"default:1" validate:"min=1,max=10"`

	// Result settings
	PassingScore       float64 `json:"passing_score" gorm:"default:0" validate:"min=0,max=100"`
	ShuffleQuestions   bool    `json:"shuffle_questions" gorm:"default:false"`
	ShuffleOptions     bool    `json:"shuffle_options" gorm:"default:false"`
	ShowResults        bool    `json:"show_results" gorm:"default:false"`
	ShowCorrectAnswers bool    `json:"show_correct_answers" gorm:"default:false"`

	// Metadata
	CreatedBy uint           `json:"created_by" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Creator   User       `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:ExamID"`
}

func (Exam) TableName() string {
	return "exams"
}

// IsOpenAt reports whether the exam window covers the given instant.
func (e *Exam) IsOpenAt(t time.Time) bool {
	return !t.Before(e.StartDate) && !t.After(e.EndDate)
}
