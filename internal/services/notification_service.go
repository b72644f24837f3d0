package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/examhub/exam-service/internal/events"
	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/repositories"
	"github.com/examhub/exam-service/internal/utils"
)

type CreateNotificationRequest struct {
	Title       string                  `json:"title" validate:"required,max=255"`
	Message     string                  `json:"message" validate:"required"`
	Type        models.NotificationType `json:"type"`
	RecipientID uint                    `json:"recipient_id" validate:"required"`
	Link        *string                 `json:"link" validate:"omitempty,max=500"`
	Data        datatypes.JSON          `json:"data"`
}

type UpdateNotificationRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=255"`
	Message *string `json:"message"`
	IsRead  *bool   `json:"is_read"`
}

// NotificationService delivers in-app notifications and mirrors each
// creation onto the event bus.
type NotificationService interface {
	Create(ctx context.Context, actor Actor, req *CreateNotificationRequest) (*models.Notification, error)
	GetByID(ctx context.Context, actor Actor, id uint) (*models.Notification, error)
	List(ctx context.Context, actor Actor, filters repositories.NotificationFilters) ([]*models.Notification, int64, error)
	GetByUser(ctx context.Context, actor Actor, userID uint, filters repositories.NotificationFilters) ([]*models.Notification, error)
	GetMine(ctx context.Context, actor Actor, filters repositories.NotificationFilters) ([]*models.Notification, error)
	Update(ctx context.Context, actor Actor, id uint, req *UpdateNotificationRequest) (*models.Notification, error)
	GetUnread(ctx context.Context, actor Actor) ([]*models.Notification, error)
	MarkRead(ctx context.Context, actor Actor, id uint) error
	MarkAllRead(ctx context.Context, actor Actor) error
	Delete(ctx context.Context, actor Actor, id uint) error

	// Notify is the internal entry point used by other services.
	Notify(ctx context.Context, notification *models.Notification) error
}

type notificationService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
	publisher events.EventPublisher
	policy    policy
}

func NewNotificationService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator, publisher events.EventPublisher) NotificationService {
	return &notificationService{repo: repo, logger: logger, validator: validator, publisher: publisher}
}

func (s *notificationService) Create(ctx context.Context, actor Actor, req *CreateNotificationRequest) (*models.Notification, error) {
	if err := s.policy.Can(actor, ActionSendNotification, 0); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.User().GetByID(ctx, req.RecipientID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load recipient: %w", err)
	}

	notificationType := req.Type
	if notificationType == "" {
		notificationType = models.NotificationCustom
	}

	notification := &models.Notification{
		Title:       req.Title,
		Message:     req.Message,
		Type:        notificationType,
		RecipientID: req.RecipientID,
		Link:        req.Link,
		Data:        req.Data,
	}

	if err := s.Notify(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// Notify persists the notification and announces it. Event publishing is
// best effort; the stored notification is the source of truth.
func (s *notificationService) Notify(ctx context.Context, notification *models.Notification) error {
	if err := s.repo.Notification().Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	event := events.NewNotificationCreatedEvent(notification.ID, notification.RecipientID, string(notification.Type), notification.Title)
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish notification event", "notification_id", notification.ID, "error", err)
	}

	s.logger.Info("notification created", "notification_id", notification.ID, "recipient_id", notification.RecipientID, "type", notification.Type)
	return nil
}

func (s *notificationService) GetByID(ctx context.Context, actor Actor, id uint) (*models.Notification, error) {
	notification, err := s.repo.Notification().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}
	if notification.RecipientID != actor.UserID && !actor.IsAdmin() {
		return nil, NewPermissionError(actor.UserID, "view this notification")
	}
	return notification, nil
}

// List returns every notification in the system. Admin only.
func (s *notificationService) List(ctx context.Context, actor Actor, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, NewPermissionError(actor.UserID, "list all notifications")
	}
	return s.repo.Notification().List(ctx, filters)
}

// GetByUser returns a user's notifications. Admins may read anyone's.
func (s *notificationService) GetByUser(ctx context.Context, actor Actor, userID uint, filters repositories.NotificationFilters) ([]*models.Notification, error) {
	if userID != actor.UserID && !actor.IsAdmin() {
		return nil, NewPermissionError(actor.UserID, "read this user's notifications")
	}
	return s.repo.Notification().GetByRecipient(ctx, userID, filters)
}

func (s *notificationService) GetMine(ctx context.Context, actor Actor, filters repositories.NotificationFilters) ([]*models.Notification, error) {
	return s.repo.Notification().GetByRecipient(ctx, actor.UserID, filters)
}

// Update edits a stored notification. Admin only; recipients flip the
// read flag through MarkRead instead.
func (s *notificationService) Update(ctx context.Context, actor Actor, id uint, req *UpdateNotificationRequest) (*models.Notification, error) {
	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.UserID, "update this notification")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	notification, err := s.repo.Notification().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}

	if req.Title != nil {
		notification.Title = *req.Title
	}
	if req.Message != nil {
		notification.Message = *req.Message
	}
	if req.IsRead != nil {
		notification.IsRead = *req.IsRead
	}

	if err := s.repo.Notification().Update(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}
	return notification, nil
}

func (s *notificationService) GetUnread(ctx context.Context, actor Actor) ([]*models.Notification, error) {
	return s.repo.Notification().GetUnreadByRecipient(ctx, actor.UserID)
}

func (s *notificationService) MarkRead(ctx context.Context, actor Actor, id uint) error {
	notification, err := s.repo.Notification().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to load notification: %w", err)
	}
	if notification.RecipientID != actor.UserID {
		return NewPermissionError(actor.UserID, "read this notification")
	}
	return s.repo.Notification().MarkRead(ctx, id)
}

func (s *notificationService) MarkAllRead(ctx context.Context, actor Actor) error {
	return s.repo.Notification().MarkAllRead(ctx, actor.UserID)
}

func (s *notificationService) Delete(ctx context.Context, actor Actor, id uint) error {
	notification, err := s.repo.Notification().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to load notification: %w", err)
	}
	if notification.RecipientID != actor.UserID && !actor.IsAdmin() {
		return NewPermissionError(actor.UserID, "delete this notification")
	}
	return s.repo.Notification().Delete(ctx, id)
}
