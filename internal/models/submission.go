package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	SubmissionInProgress SubmissionStatus = "in_progress"
	SubmissionSubmitted  SubmissionStatus = "submitted"
	SubmissionGraded     SubmissionStatus = "graded"
	SubmissionCompleted  SubmissionStatus = "completed"
)

// Answer is a student's answer to one question, embedded in the submission
// document. Option-based answers carry selected option ids; free-text
// answers carry the text. IsCorrect and Score are filled by grading.
type Answer struct {
	QuestionID      uint     `json:"question_id" validate:"required"`
	SelectedOptions []string `json:"selected_options,omitempty"`
	TextAnswer      *string  `json:"text_answer,omitempty"`
	IsCorrect       *bool    `json:"is_correct,omitempty"`
	Score           float64  `json:"score"`
	Feedback        *string  `json:"feedback,omitempty"`
}

type Submission struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	StudentID uint             `json:"student_id" gorm:"not null;index:idx_submissions_exam_student"`
	ExamID    uint             `json:"exam_id" gorm:"not null;index:idx_submissions_exam_student"`
	Status    SubmissionStatus `json:"status" gorm:"default:in_progress;index"`

	Answers datatypes.JSONSlice[Answer] `json:"answers" gorm:"type:jsonb"`

	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`

	// Score is the final percentage (0-100) after grading.
	Score    float64 `json:"score" gorm:"default:0"`
	IsPassed bool    `json:"is_passed" gorm:"default:false"`

	GradedBy *uint      `json:"graded_by,omitempty"`
	GradedAt *time.Time `json:"graded_at,omitempty"`
	Feedback *string    `json:"feedback,omitempty" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Student User `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Exam    Exam `json:"exam,omitempty" gorm:"foreignKey:ExamID"`
}

func (Submission) TableName() string {
	return "submissions"
}

// TimeSpentMinutes returns the wall-clock duration of the attempt, or 0 if
// the attempt has not ended.
func (s *Submission) TimeSpentMinutes() float64 {
	if s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(s.StartTime).Minutes()
}
