package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of domain events
type EventType string

const (
	// Exam events
	EventExamPublished EventType = "exam.published"

	// Submission events
	EventSubmissionStarted   EventType = "submission.started"
	EventSubmissionCompleted EventType = "submission.completed"
	EventSubmissionGraded    EventType = "submission.graded"

	// Notification events
	EventNotificationCreated EventType = "notification.created"
)

const eventSource = "exam-service"

// Event is the base structure for all domain events
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type ExamPublishedEvent struct {
	ExamID    uint      `json:"exam_id"`
	ExamTitle string    `json:"exam_title"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Duration  int       `json:"duration"` // minutes
	CreatorID uint      `json:"creator_id"`
}

type SubmissionStartedEvent struct {
	SubmissionID uint      `json:"submission_id"`
	ExamID       uint      `json:"exam_id"`
	StudentID    uint      `json:"student_id"`
	StartedAt    time.Time `json:"started_at"`
}

type SubmissionCompletedEvent struct {
	SubmissionID uint      `json:"submission_id"`
	ExamID       uint      `json:"exam_id"`
	StudentID    uint      `json:"student_id"`
	CompletedAt  time.Time `json:"completed_at"`
	Score        float64   `json:"score"`
	Passed       bool      `json:"passed"`
}

type SubmissionGradedEvent struct {
	SubmissionID uint      `json:"submission_id"`
	ExamID       uint      `json:"exam_id"`
	StudentID    uint      `json:"student_id"`
	GradedAt     time.Time `json:"graded_at"`
	Score        float64   `json:"score"`
	Passed       bool      `json:"passed"`
}

type NotificationCreatedEvent struct {
	NotificationID uint   `json:"notification_id"`
	RecipientID    uint   `json:"recipient_id"`
	Type           string `json:"type"`
	Title          string `json:"title"`
}

// Event factory functions

func NewExamPublishedEvent(examID uint, title string, startDate, endDate time.Time, duration int, creatorID uint) *Event {
	return newEvent(EventExamPublished, ExamPublishedEvent{
		ExamID:    examID,
		ExamTitle: title,
		StartDate: startDate,
		EndDate:   endDate,
		Duration:  duration,
		CreatorID: creatorID,
	})
}

func NewSubmissionStartedEvent(submissionID, examID, studentID uint, startedAt time.Time) *Event {
	return newEvent(EventSubmissionStarted, SubmissionStartedEvent{
		SubmissionID: submissionID,
		ExamID:       examID,
		StudentID:    studentID,
		StartedAt:    startedAt,
	})
}

func NewSubmissionCompletedEvent(submissionID, examID, studentID uint, completedAt time.Time, score float64, passed bool) *Event {
	return newEvent(EventSubmissionCompleted, SubmissionCompletedEvent{
		SubmissionID: submissionID,
		ExamID:       examID,
		StudentID:    studentID,
		CompletedAt:  completedAt,
		Score:        score,
		Passed:       passed,
	})
}

func NewSubmissionGradedEvent(submissionID, examID, studentID uint, gradedAt time.Time, score float64, passed bool) *Event {
	return newEvent(EventSubmissionGraded, SubmissionGradedEvent{
		SubmissionID: submissionID,
		ExamID:       examID,
		StudentID:    studentID,
		GradedAt:     gradedAt,
		Score:        score,
		Passed:       passed,
	})
}

func NewNotificationCreatedEvent(notificationID, recipientID uint, notificationType, title string) *Event {
	return newEvent(EventNotificationCreated, NotificationCreatedEvent{
		NotificationID: notificationID,
		RecipientID:    recipientID,
		Type:           notificationType,
		Title:          title,
	})
}

func newEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data:      data,
	}
}
