package repositories

import (
	"context"

	"github.com/examhub/exam-service/internal/models"
)

// NotificationRepository interface for notification operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	Update(ctx context.Context, notification *models.Notification) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters NotificationFilters) ([]*models.Notification, int64, error)
	GetByRecipient(ctx context.Context, recipientID uint, filters NotificationFilters) ([]*models.Notification, error)
	GetUnreadByRecipient(ctx context.Context, recipientID uint) ([]*models.Notification, error)

	MarkRead(ctx context.Context, id uint) error
	MarkAllRead(ctx context.Context, recipientID uint) error
}
