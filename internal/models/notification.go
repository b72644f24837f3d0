package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationExamScheduled NotificationType = "exam_scheduled"
	NotificationExamReminder  NotificationType = "exam_reminder"
	NotificationExamResult    NotificationType = "exam_result"
	NotificationSystem        NotificationType = "system"
	NotificationCustom        NotificationType = "custom"
	NotificationExam          NotificationType = "exam"
	NotificationSubmission    NotificationType = "submission"
)

type Notification struct {
	ID      uint             `json:"id" gorm:"primaryKey"`
	Title   string           `json:"title" gorm:"not null;size:255" validate:"required,max=255"`
	Message string           `json:"message" gorm:"type:text;not null" validate:"required"`
	Type    NotificationType `json:"type" gorm:"default:system;index"`

	RecipientID uint `json:"recipient_id" gorm:"not null;index"`

	IsRead bool           `json:"is_read" gorm:"default:false;index"`
	Link   *string        `json:"link,omitempty" gorm:"size:500"`
	Data   datatypes.JSON `json:"data,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Recipient User `json:"recipient,omitempty" gorm:"foreignKey:RecipientID"`
}

func (Notification) TableName() string {
	return "notifications"
}
