package postgres

import (
	"context"

	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type NotificationPostgreSQL struct {
	db *gorm.DB
}

func NewNotificationPostgreSQL(db *gorm.DB) repositories.NotificationRepository {
	return &NotificationPostgreSQL{db: db}
}

func (n *NotificationPostgreSQL) Create(ctx context.Context, notification *models.Notification) error {
	return n.db.WithContext(ctx).Create(notification).Error
}

func (n *NotificationPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := n.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (n *NotificationPostgreSQL) Update(ctx context.Context, notification *models.Notification) error {
	return n.db.WithContext(ctx).Save(notification).Error
}

func (n *NotificationPostgreSQL) Delete(ctx context.Context, id uint) error {
	return n.db.WithContext(ctx).Delete(&models.Notification{}, id).Error
}

func (n *NotificationPostgreSQL) List(ctx context.Context, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	var notifications []*models.Notification
	var total int64

	query := n.db.WithContext(ctx).Model(&models.Notification{})
	query = n.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, filters.Limit, filters.Offset, "", "")

	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (n *NotificationPostgreSQL) applyFilters(query *gorm.DB, filters repositories.NotificationFilters) *gorm.DB {
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.IsRead != nil {
		query = query.Where("is_read = ?", *filters.IsRead)
	}
	return query
}

func (n *NotificationPostgreSQL) GetByRecipient(ctx context.Context, recipientID uint, filters repositories.NotificationFilters) ([]*models.Notification, error) {
	var notifications []*models.Notification
	query := n.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	query = n.applyFilters(query, filters)
	if err := query.Order("created_at desc").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (n *NotificationPostgreSQL) GetUnreadByRecipient(ctx context.Context, recipientID uint) ([]*models.Notification, error) {
	var notifications []*models.Notification
	if err := n.db.WithContext(ctx).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Order("created_at desc").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (n *NotificationPostgreSQL) MarkRead(ctx context.Context, id uint) error {
	return n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (n *NotificationPostgreSQL) MarkAllRead(ctx context.Context, recipientID uint) error {
	return n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error
}
