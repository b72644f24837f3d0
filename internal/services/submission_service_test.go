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

	"github.com/examhub/exam-service/internal/cache"
	"github.com/examhub/exam-service/internal/events"
	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/utils"
)

func newSubmissionFixture() (*mockRepository, *events.MockEventPublisher, SubmissionService) {
	repo := newMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(logger)
	validator := utils.NewValidator()

	statistics := NewStatisticsService(repo, logger, cache.NewNoopCacheService())
	notifications := NewNotificationService(repo, logger, validator, publisher)
	svc := NewSubmissionService(repo, logger, validator, publisher, statistics, notifications)
	return repo, publisher, svc
}

func openExam(id, creator uint) *models.Exam {
	now := time.Now()
	return &models.Exam{
		ID:           id,
		Title:        "Midterm",
		Status:       models.ExamStatusPublished,
		StartDate:    now.Add(-time.Hour),
		EndDate:      now.Add(time.Hour),
		MaxAttempts:  1,
		PassingScore: 60,
		CreatedBy:    creator,
	}
}

func TestSubmissionService_Start(t *testing.T) {
	student := Actor{UserID: 5, Role: models.RoleStudent}
	ctx := context.Background()

	t.Run("creates submission within window", func(t *testing.T) {
		repo, publisher, svc := newSubmissionFixture()
		exam := openExam(1, 10)

		repo.exam.On("GetByID", ctx, uint(1)).Return(exam, nil)
		repo.submission.On("CountByExamAndStudent", ctx, uint(1), uint(5)).Return(int64(0), nil)
		repo.submission.On("Create", ctx, mock.MatchedBy(func(s *models.Submission) bool {
			return s.ExamID == 1 && s.StudentID == 5 && s.Status == models.SubmissionInProgress
		})).Return(nil)
		repo.statistics.On("GetByExam", ctx, uint(1)).Return(existingStats(1), nil)
		repo.statistics.On("Update", ctx, mock.Anything).Return(nil)

		submission, err := svc.Start(ctx, student, &StartSubmissionRequest{ExamID: 1})
		require.NoError(t, err)
		assert.Equal(t, models.SubmissionInProgress, submission.Status)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventSubmissionStarted, published[0].Type)
		repo.assertExpectations(t)
	})

	t.Run("rejects second attempt when limit is one", func(t *testing.T) {
		repo, _, svc := newSubmissionFixture()
		repo.exam.On("GetByID", ctx, uint(1)).Return(openExam(1, 10), nil)
		repo.submission.On("CountByExamAndStudent", ctx, uint(1), uint(5)).Return(int64(1), nil)

		_, err := svc.Start(ctx, student, &StartSubmissionRequest{ExamID: 1})
		assert.ErrorIs(t, err, ErrAttemptLimitReached)
	})

	t.Run("rejects closed window", func(t *testing.T) {
		repo, _, svc := newSubmissionFixture()
		exam := openExam(1, 10)
		exam.StartDate = time.Now().Add(-2 * time.Hour)
		exam.EndDate = time.Now().Add(-time.Hour)
		repo.exam.On("GetByID", ctx, uint(1)).Return(exam, nil)

		_, err := svc.Start(ctx, student, &StartSubmissionRequest{ExamID: 1})
		assert.ErrorIs(t, err, ErrExamWindowClosed)
	})

	t.Run("rejects draft exam", func(t *testing.T) {
		repo, _, svc := newSubmissionFixture()
		exam := openExam(1, 10)
		exam.Status = models.ExamStatusDraft
		repo.exam.On("GetByID", ctx, uint(1)).Return(exam, nil)

		_, err := svc.Start(ctx, student, &StartSubmissionRequest{ExamID: 1})
		assert.ErrorIs(t, err, ErrExamNotPublished)
	})
}

func TestSubmissionService_Complete(t *testing.T) {
	student := Actor{UserID: 5, Role: models.RoleStudent}
	ctx := context.Background()

	t.Run("grades answers and records statistics", func(t *testing.T) {
		repo, publisher, svc := newSubmissionFixture()

		exam := openExam(1, 10)
		exam.Questions = []models.Question{*multipleChoiceQuestion(1, 1, "a")}

		submission := &models.Submission{
			ID:        3,
			StudentID: 5,
			ExamID:    1,
			Status:    models.SubmissionInProgress,
			StartTime: time.Now().Add(-10 * time.Minute),
			Answers:   []models.Answer{{QuestionID: 1, SelectedOptions: []string{"a"}}},
		}

		repo.submission.On("GetByID", ctx, uint(3)).Return(submission, nil)
		repo.exam.On("GetByIDWithQuestions", ctx, uint(1)).Return(exam, nil)
		repo.submission.On("Update", ctx, submission).Return(nil)
		repo.statistics.On("GetByExam", ctx, uint(1)).Return(existingStats(1), nil)
		repo.statistics.On("Update", ctx, mock.Anything).Return(nil)

		result, err := svc.Complete(ctx, student, 3)
		require.NoError(t, err)

		assert.Equal(t, models.SubmissionCompleted, result.Status)
		assert.Equal(t, float64(100), result.Score)
		assert.True(t, result.IsPassed)
		require.NotNil(t, result.EndTime)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventSubmissionCompleted, published[0].Type)
	})

	t.Run("rejects completion after the window ends", func(t *testing.T) {
		repo, _, svc := newSubmissionFixture()

		exam := openExam(1, 10)
		exam.EndDate = time.Now().Add(-time.Minute)

		submission := &models.Submission{ID: 3, StudentID: 5, ExamID: 1, Status: models.SubmissionInProgress}
		repo.submission.On("GetByID", ctx, uint(3)).Return(submission, nil)
		repo.exam.On("GetByIDWithQuestions", ctx, uint(1)).Return(exam, nil)

		_, err := svc.Complete(ctx, student, 3)
		assert.ErrorIs(t, err, ErrExamWindowClosed)
	})

	t.Run("rejects already finalized submission", func(t *testing.T) {
		repo, _, svc := newSubmissionFixture()

		submission := &models.Submission{ID: 3, StudentID: 5, ExamID: 1, Status: models.SubmissionCompleted}
		repo.submission.On("GetByID", ctx, uint(3)).Return(submission, nil)

		_, err := svc.Complete(ctx, student, 3)
		assert.ErrorIs(t, err, ErrSubmissionFinalized)
	})

	t.Run("rejects another student's submission", func(t *testing.T) {
		repo, _, svc := newSubmissionFixture()

		submission := &models.Submission{ID: 3, StudentID: 99, ExamID: 1, Status: models.SubmissionInProgress}
		repo.submission.On("GetByID", ctx, uint(3)).Return(submission, nil)

		_, err := svc.Complete(ctx, student, 3)
		assert.True(t, IsForbidden(err))
	})
}

func TestSubmissionService_Grade(t *testing.T) {
	teacher := Actor{UserID: 10, Role: models.RoleTeacher}
	ctx := context.Background()

	setup := func() (*mockRepository, SubmissionService, *models.Submission, *models.Exam) {
		repo, _, svc := newSubmissionFixture()

		essay := models.Question{ID: 1, Type: models.Essay, Points: 5}
		mc := *multipleChoiceQuestion(2, 5, "a")
		exam := openExam(1, 10)
		exam.Questions = []models.Question{essay, mc}

		correct := true
		endTime := time.Now()
		submission := &models.Submission{
			ID:        3,
			StudentID: 5,
			ExamID:    1,
			Status:    models.SubmissionCompleted,
			EndTime:   &endTime,
			Answers: []models.Answer{
				{QuestionID: 1, TextAnswer: strPtr("essay text")},
				{QuestionID: 2, SelectedOptions: []string{"a"}, IsCorrect: &correct, Score: 5},
			},
		}

		repo.submission.On("GetByID", ctx, uint(3)).Return(submission, nil)
		repo.exam.On("GetByIDWithQuestions", ctx, uint(1)).Return(exam, nil)
		return repo, svc, submission, exam
	}

	t.Run("manual grade recomputes the final score", func(t *testing.T) {
		repo, svc, _, _ := setup()
		repo.submission.On("Update", ctx, mock.Anything).Return(nil)
		repo.notification.On("Create", ctx, mock.Anything).Return(nil)

		result, err := svc.Grade(ctx, teacher, 3, &GradeSubmissionRequest{
			Grades: []ManualGradeInput{{QuestionID: 1, Score: 3}},
		})
		require.NoError(t, err)

		// 3 + 5 of 10 points.
		assert.InDelta(t, 80.0, result.Score, 0.001)
		assert.Equal(t, models.SubmissionGraded, result.Status)
		require.NotNil(t, result.GradedBy)
		assert.Equal(t, uint(10), *result.GradedBy)
	})

	t.Run("rejects manual grade on auto-graded question", func(t *testing.T) {
		_, svc, _, _ := setup()
		_, err := svc.Grade(ctx, teacher, 3, &GradeSubmissionRequest{
			Grades: []ManualGradeInput{{QuestionID: 2, Score: 1}},
		})
		require.Error(t, err)
		assert.True(t, IsBusinessRule(err))
	})

	t.Run("rejects score above the question's points", func(t *testing.T) {
		_, svc, _, _ := setup()
		_, err := svc.Grade(ctx, teacher, 3, &GradeSubmissionRequest{
			Grades: []ManualGradeInput{{QuestionID: 1, Score: 10}},
		})
		require.Error(t, err)
		assert.True(t, IsBusinessRule(err))
	})

	t.Run("denies teacher who does not own the exam", func(t *testing.T) {
		_, svc, _, _ := setup()
		other := Actor{UserID: 42, Role: models.RoleTeacher}
		_, err := svc.Grade(ctx, other, 3, &GradeSubmissionRequest{})
		assert.True(t, IsForbidden(err))
	})
}

func TestSubmissionService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner teacher deletes", func(t *testing.T) {
		repo, _, svc := newSubmissionFixture()
		teacher := Actor{UserID: 10, Role: models.RoleTeacher}

		repo.submission.On("GetByID", ctx, uint(3)).Return(&models.Submission{ID: 3, ExamID: 1, StudentID: 5}, nil)
		repo.exam.On("GetByID", ctx, uint(1)).Return(openExam(1, 10), nil)
		repo.submission.On("Delete", ctx, uint(3)).Return(nil)

		require.NoError(t, svc.Delete(ctx, teacher, 3))
		repo.assertExpectations(t)
	})

	t.Run("denies teacher who does not own the exam", func(t *testing.T) {
		repo, _, svc := newSubmissionFixture()
		other := Actor{UserID: 99, Role: models.RoleTeacher}

		repo.submission.On("GetByID", ctx, uint(3)).Return(&models.Submission{ID: 3, ExamID: 1, StudentID: 5}, nil)
		repo.exam.On("GetByID", ctx, uint(1)).Return(openExam(1, 10), nil)

		err := svc.Delete(ctx, other, 3)
		assert.True(t, IsForbidden(err))
		repo.submission.AssertNotCalled(t, "Delete", ctx, uint(3))
	})
}
