package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/examhub/exam-service/internal/events"
	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/repositories"
	"github.com/examhub/exam-service/internal/utils"
)

func newNotificationFixture() (*mockRepository, *events.MockEventPublisher, NotificationService) {
	repo := newMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(logger)
	svc := NewNotificationService(repo, logger, utils.NewValidator(), publisher)
	return repo, publisher, svc
}

func TestNotificationService_Create(t *testing.T) {
	ctx := context.Background()
	teacher := Actor{UserID: 10, Role: models.RoleTeacher}

	t.Run("creates and emits event", func(t *testing.T) {
		repo, publisher, svc := newNotificationFixture()
		repo.user.On("GetByID", ctx, uint(5)).Return(&models.User{ID: 5}, nil)
		repo.notification.On("Create", ctx, mock.MatchedBy(func(n *models.Notification) bool {
			return n.RecipientID == 5 && n.Type == models.NotificationCustom
		})).Return(nil)

		notification, err := svc.Create(ctx, teacher, &CreateNotificationRequest{
			Title:       "Reminder",
			Message:     "Exam tomorrow",
			RecipientID: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, models.NotificationCustom, notification.Type)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventNotificationCreated, published[0].Type)
	})

	t.Run("students cannot send", func(t *testing.T) {
		_, _, svc := newNotificationFixture()
		student := Actor{UserID: 20, Role: models.RoleStudent}
		_, err := svc.Create(ctx, student, &CreateNotificationRequest{
			Title: "Hi", Message: "msg", RecipientID: 5,
		})
		assert.True(t, IsForbidden(err))
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	student := Actor{UserID: 5, Role: models.RoleStudent}

	t.Run("recipient marks read", func(t *testing.T) {
		repo, _, svc := newNotificationFixture()
		repo.notification.On("GetByID", ctx, uint(1)).Return(&models.Notification{ID: 1, RecipientID: 5}, nil)
		repo.notification.On("MarkRead", ctx, uint(1)).Return(nil)

		assert.NoError(t, svc.MarkRead(ctx, student, 1))
	})

	t.Run("others may not", func(t *testing.T) {
		repo, _, svc := newNotificationFixture()
		repo.notification.On("GetByID", ctx, uint(1)).Return(&models.Notification{ID: 1, RecipientID: 99}, nil)

		err := svc.MarkRead(ctx, student, 1)
		assert.True(t, IsForbidden(err))
	})
}

func TestNotificationService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("recipient reads own notification", func(t *testing.T) {
		repo, _, svc := newNotificationFixture()
		student := Actor{UserID: 5, Role: models.RoleStudent}

		repo.notification.On("GetByID", ctx, uint(4)).Return(&models.Notification{ID: 4, RecipientID: 5}, nil)

		notification, err := svc.GetByID(ctx, student, 4)
		require.NoError(t, err)
		assert.Equal(t, uint(4), notification.ID)
	})

	t.Run("denies other recipient", func(t *testing.T) {
		repo, _, svc := newNotificationFixture()
		other := Actor{UserID: 6, Role: models.RoleStudent}

		repo.notification.On("GetByID", ctx, uint(4)).Return(&models.Notification{ID: 4, RecipientID: 5}, nil)

		_, err := svc.GetByID(ctx, other, 4)
		assert.True(t, IsForbidden(err))
	})
}

func TestNotificationService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("admin lists all", func(t *testing.T) {
		repo, _, svc := newNotificationFixture()
		admin := Actor{UserID: 1, Role: models.RoleAdmin}

		repo.notification.On("List", ctx, mock.Anything).Return([]*models.Notification{
			{ID: 1, RecipientID: 5},
			{ID: 2, RecipientID: 6},
		}, int64(2), nil)

		notifications, total, err := svc.List(ctx, admin, repositories.NotificationFilters{})
		require.NoError(t, err)
		assert.Len(t, notifications, 2)
		assert.Equal(t, int64(2), total)
	})

	t.Run("denies non-admin", func(t *testing.T) {
		repo, _, svc := newNotificationFixture()
		teacher := Actor{UserID: 10, Role: models.RoleTeacher}

		_, _, err := svc.List(ctx, teacher, repositories.NotificationFilters{})
		assert.True(t, IsForbidden(err))
		repo.notification.AssertNotCalled(t, "List", ctx, mock.Anything)
	})
}

func TestNotificationService_GetByUser(t *testing.T) {
	ctx := context.Background()

	t.Run("admin reads another user's notifications", func(t *testing.T) {
		repo, _, svc := newNotificationFixture()
		admin := Actor{UserID: 1, Role: models.RoleAdmin}

		repo.notification.On("GetByRecipient", ctx, uint(5), mock.Anything).Return([]*models.Notification{
			{ID: 1, RecipientID: 5},
		}, nil)

		notifications, err := svc.GetByUser(ctx, admin, 5, repositories.NotificationFilters{})
		require.NoError(t, err)
		assert.Len(t, notifications, 1)
	})

	t.Run("user reads own", func(t *testing.T) {
		repo, _, svc := newNotificationFixture()
		student := Actor{UserID: 5, Role: models.RoleStudent}

		repo.notification.On("GetByRecipient", ctx, uint(5), mock.Anything).Return([]*models.Notification{}, nil)

		_, err := svc.GetByUser(ctx, student, 5, repositories.NotificationFilters{})
		require.NoError(t, err)
	})

	t.Run("denies reading another user's notifications", func(t *testing.T) {
		_, _, svc := newNotificationFixture()
		student := Actor{UserID: 5, Role: models.RoleStudent}

		_, err := svc.GetByUser(ctx, student, 6, repositories.NotificationFilters{})
		assert.True(t, IsForbidden(err))
	})
}

func TestNotificationService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("admin edits title and read flag", func(t *testing.T) {
		repo, _, svc := newNotificationFixture()
		admin := Actor{UserID: 1, Role: models.RoleAdmin}

		repo.notification.On("GetByID", ctx, uint(4)).Return(&models.Notification{
			ID:          4,
			RecipientID: 5,
			Title:       "Old title",
		}, nil)
		repo.notification.On("Update", ctx, mock.MatchedBy(func(n *models.Notification) bool {
			return n.Title == "New title" && n.IsRead
		})).Return(nil)

		title := "New title"
		isRead := true
		notification, err := svc.Update(ctx, admin, 4, &UpdateNotificationRequest{Title: &title, IsRead: &isRead})
		require.NoError(t, err)
		assert.Equal(t, "New title", notification.Title)
		assert.True(t, notification.IsRead)
		repo.assertExpectations(t)
	})

	t.Run("denies non-admin", func(t *testing.T) {
		repo, _, svc := newNotificationFixture()
		student := Actor{UserID: 5, Role: models.RoleStudent}

		title := "New title"
		_, err := svc.Update(ctx, student, 4, &UpdateNotificationRequest{Title: &title})
		assert.True(t, IsForbidden(err))
		repo.notification.AssertNotCalled(t, "Update", ctx, mock.Anything)
	})
}
