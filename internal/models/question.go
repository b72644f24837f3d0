package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	SingleChoice   QuestionType = "single_choice"
	TrueFalse      QuestionType = "true_false"
	Essay          QuestionType = "essay"
	Matching       QuestionType = "matching"
	FillInBlank    QuestionType = "fill_in_blank"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// Option is one answer choice of an option-based question. The ID is
// generated server-side and is what submissions reference when answering.
type Option struct {
	ID          string `json:"id"`
	Text        string `json:"text" validate:"required"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation,omitempty"`
}

type Question struct {
	ID     uint         `json:"id" gorm:"primaryKey"`
	ExamID uint         `json:"exam_id" gorm:"not null;index"`
	Text   string       `json:"text" gorm:"type:text;not null" validate:"required"`
	Type   QuestionType `json:"type" gorm:"not null;index" validate:"required,question_type"`

	// Options for option-based types; CorrectAnswer for free-text types.
	Options       datatypes.JSONSlice[Option] `json:"options" gorm:"type:jsonb"`
	CorrectAnswer *string                     `json:"correct_answer,omitempty" gorm:"type:text"`

	Difficulty  DifficultyLevel              `json:"difficulty" gorm:"default:medium"`
	Points      int                          `json:"points" gorm:"default:1" validate:"min=1,max=100"`
	Explanation *string                      `json:"explanation,omitempty" gorm:"type:text"`
	Tags        datatypes.JSONSlice[string]  `json:"tags" gorm:"type:jsonb"`
	Order       int                          `json:"order" gorm:"default:1;index"`
	Image       *string                      `json:"image,omitempty" gorm:"size:500"`

	CreatedBy uint           `json:"created_by" gorm:"index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectOptionIDs returns the ids of all options flagged correct.
func (q *Question) CorrectOptionIDs() []string {
	var ids []string
	for _, opt := range q.Options {
		if opt.IsCorrect {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

// IsAutoGradable reports whether the grading rule-set can score this
// question without a teacher. Essay and matching always need manual grading.
func (q *Question) IsAutoGradable() bool {
	switch q.Type {
	case MultipleChoice, SingleChoice, TrueFalse, FillInBlank:
		return true
	default:
		return false
	}
}
