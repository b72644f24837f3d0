package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/examhub/exam-service/internal/events"
	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/repositories"
	"github.com/examhub/exam-service/internal/utils"
)

func newExamFixture() (*mockRepository, *events.MockEventPublisher, ExamService) {
	repo := newMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(logger)
	svc := NewExamService(repo, logger, utils.NewValidator(), publisher)
	return repo, publisher, svc
}

func TestExamService_Create(t *testing.T) {
	teacher := Actor{UserID: 10, Role: models.RoleTeacher}
	ctx := context.Background()
	now := time.Now()

	t.Run("creates a draft", func(t *testing.T) {
		repo, _, svc := newExamFixture()
		repo.exam.On("Create", ctx, mock.MatchedBy(func(e *models.Exam) bool {
			return e.Status == models.ExamStatusDraft && e.CreatedBy == 10 && e.MaxAttempts == 1
		})).Return(nil)

		exam, err := svc.Create(ctx, teacher, &CreateExamRequest{
			Title:     "Final",
			Duration:  90,
			StartDate: now.Add(time.Hour),
			EndDate:   now.Add(3 * time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, models.ExamStatusDraft, exam.Status)
		assert.Equal(t, models.ExamTypeQuiz, exam.Type)
	})

	t.Run("rejects start after end", func(t *testing.T) {
		_, _, svc := newExamFixture()
		_, err := svc.Create(ctx, teacher, &CreateExamRequest{
			Title:     "Final",
			Duration:  90,
			StartDate: now.Add(3 * time.Hour),
			EndDate:   now.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrExamDateInvalid)
	})

	t.Run("students cannot create exams", func(t *testing.T) {
		_, _, svc := newExamFixture()
		student := Actor{UserID: 20, Role: models.RoleStudent}
		_, err := svc.Create(ctx, student, &CreateExamRequest{
			Title:     "Final",
			Duration:  90,
			StartDate: now.Add(time.Hour),
			EndDate:   now.Add(3 * time.Hour),
		})
		assert.True(t, IsForbidden(err))
	})
}

func TestExamService_Publish(t *testing.T) {
	teacher := Actor{UserID: 10, Role: models.RoleTeacher}
	ctx := context.Background()
	now := time.Now()

	draft := func() *models.Exam {
		return &models.Exam{
			ID:        1,
			Title:     "Final",
			Status:    models.ExamStatusDraft,
			StartDate: now.Add(time.Hour),
			EndDate:   now.Add(3 * time.Hour),
			CreatedBy: 10,
		}
	}

	t.Run("publishes and emits event", func(t *testing.T) {
		repo, publisher, svc := newExamFixture()
		repo.exam.On("GetByID", ctx, uint(1)).Return(draft(), nil)
		repo.question.On("CountByExam", ctx, uint(1)).Return(int64(5), nil)
		repo.exam.On("Update", ctx, mock.MatchedBy(func(e *models.Exam) bool {
			return e.Status == models.ExamStatusPublished
		})).Return(nil)

		exam, err := svc.Publish(ctx, teacher, 1)
		require.NoError(t, err)
		assert.Equal(t, models.ExamStatusPublished, exam.Status)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventExamPublished, published[0].Type)
	})

	t.Run("rejects exam without questions", func(t *testing.T) {
		repo, _, svc := newExamFixture()
		repo.exam.On("GetByID", ctx, uint(1)).Return(draft(), nil)
		repo.question.On("CountByExam", ctx, uint(1)).Return(int64(0), nil)

		_, err := svc.Publish(ctx, teacher, 1)
		require.Error(t, err)
		assert.True(t, IsBusinessRule(err))
	})

	t.Run("rejects republish", func(t *testing.T) {
		repo, _, svc := newExamFixture()
		exam := draft()
		exam.Status = models.ExamStatusPublished
		repo.exam.On("GetByID", ctx, uint(1)).Return(exam, nil)

		_, err := svc.Publish(ctx, teacher, 1)
		require.Error(t, err)
		assert.True(t, IsBusinessRule(err))
	})

	t.Run("denies foreign teacher", func(t *testing.T) {
		repo, _, svc := newExamFixture()
		repo.exam.On("GetByID", ctx, uint(1)).Return(draft(), nil)

		other := Actor{UserID: 42, Role: models.RoleTeacher}
		_, err := svc.Publish(ctx, other, 1)
		assert.True(t, IsForbidden(err))
	})
}

func TestExamService_GetByID_StudentView(t *testing.T) {
	ctx := context.Background()
	student := Actor{UserID: 20, Role: models.RoleStudent}

	t.Run("hides grading data from students", func(t *testing.T) {
		repo, _, svc := newExamFixture()
		answer := "Paris"
		exam := &models.Exam{
			ID:     1,
			Status: models.ExamStatusPublished,
			Questions: []models.Question{
				{
					ID:   1,
					Type: models.SingleChoice,
					Options: []models.Option{
						{ID: "a", Text: "A", IsCorrect: true, Explanation: "because"},
						{ID: "b", Text: "B"},
					},
				},
				{ID: 2, Type: models.FillInBlank, CorrectAnswer: &answer},
			},
		}
		repo.exam.On("GetByIDWithQuestions", ctx, uint(1)).Return(exam, nil)

		result, err := svc.GetByID(ctx, student, 1)
		require.NoError(t, err)
		assert.False(t, result.Questions[0].Options[0].IsCorrect)
		assert.Empty(t, result.Questions[0].Options[0].Explanation)
		assert.Nil(t, result.Questions[1].CorrectAnswer)
	})

	t.Run("hides drafts from students", func(t *testing.T) {
		repo, _, svc := newExamFixture()
		repo.exam.On("GetByIDWithQuestions", ctx, uint(1)).Return(&models.Exam{ID: 1, Status: models.ExamStatusDraft}, nil)

		_, err := svc.GetByID(ctx, student, 1)
		assert.ErrorIs(t, err, ErrExamNotFound)
	})
}

func TestExamService_List_StudentForcedToPublished(t *testing.T) {
	ctx := context.Background()
	repo, _, svc := newExamFixture()
	student := Actor{UserID: 20, Role: models.RoleStudent}

	repo.exam.On("List", ctx, mock.MatchedBy(func(f repositories.ExamFilters) bool {
		return f.Status != nil && *f.Status == models.ExamStatusPublished
	})).Return([]*models.Exam{}, int64(0), nil)

	_, _, err := svc.List(ctx, student, repositories.ExamFilters{})
	require.NoError(t, err)
	repo.assertExpectations(t)
}
