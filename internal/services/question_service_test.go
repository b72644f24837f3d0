package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/utils"
)

func newQuestionFixture() (*mockRepository, QuestionService) {
	repo := newMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewQuestionService(repo, logger, utils.NewValidator())
	return repo, svc
}

func examQuestions(examID uint, ids ...uint) []*models.Question {
	questions := make([]*models.Question, len(ids))
	for i, id := range ids {
		questions[i] = &models.Question{ID: id, ExamID: examID, Order: i + 1}
	}
	return questions
}

func TestQuestionService_Create(t *testing.T) {
	teacher := Actor{UserID: 10, Role: models.RoleTeacher}
	ctx := context.Background()

	t.Run("assigns option ids and next order", func(t *testing.T) {
		repo, svc := newQuestionFixture()
		repo.exam.On("GetByID", ctx, uint(1)).Return(&models.Exam{ID: 1, CreatedBy: 10}, nil)
		repo.question.On("CountByExam", ctx, uint(1)).Return(int64(2), nil)
		repo.question.On("Create", ctx, mock.MatchedBy(func(q *models.Question) bool {
			return q.Order == 3 && len(q.Options) == 2 &&
				q.Options[0].ID != "" && q.Options[0].ID != q.Options[1].ID
		})).Return(nil)

		question, err := svc.Create(ctx, teacher, 1, &CreateQuestionRequest{
			Text: "2+2?",
			Type: models.SingleChoice,
			Options: []OptionInput{
				{Text: "4", IsCorrect: true},
				{Text: "5"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, question.Order)
		assert.Equal(t, 1, question.Points)
		repo.assertExpectations(t)
	})

	t.Run("rejects single choice without a correct option", func(t *testing.T) {
		repo, svc := newQuestionFixture()
		repo.exam.On("GetByID", ctx, uint(1)).Return(&models.Exam{ID: 1, CreatedBy: 10}, nil)

		_, err := svc.Create(ctx, teacher, 1, &CreateQuestionRequest{
			Text:    "2+2?",
			Type:    models.SingleChoice,
			Options: []OptionInput{{Text: "4"}, {Text: "5"}},
		})
		require.Error(t, err)
		assert.True(t, IsBusinessRule(err))
	})

	t.Run("rejects fill in blank without answer", func(t *testing.T) {
		repo, svc := newQuestionFixture()
		repo.exam.On("GetByID", ctx, uint(1)).Return(&models.Exam{ID: 1, CreatedBy: 10}, nil)

		_, err := svc.Create(ctx, teacher, 1, &CreateQuestionRequest{
			Text: "Capital of France?",
			Type: models.FillInBlank,
		})
		require.Error(t, err)
		assert.True(t, IsBusinessRule(err))
	})

	t.Run("denies teacher who does not own the exam", func(t *testing.T) {
		repo, svc := newQuestionFixture()
		repo.exam.On("GetByID", ctx, uint(1)).Return(&models.Exam{ID: 1, CreatedBy: 99}, nil)

		_, err := svc.Create(ctx, teacher, 1, &CreateQuestionRequest{
			Text: "2+2?",
			Type: models.Essay,
		})
		assert.True(t, IsForbidden(err))
	})
}

func TestQuestionService_Reorder(t *testing.T) {
	teacher := Actor{UserID: 10, Role: models.RoleTeacher}
	ctx := context.Background()

	t.Run("applies new order transactionally", func(t *testing.T) {
		repo, svc := newQuestionFixture()
		repo.exam.On("GetByID", ctx, uint(1)).Return(&models.Exam{ID: 1, CreatedBy: 10}, nil)
		repo.question.On("GetByExam", ctx, uint(1)).Return(examQuestions(1, 7, 8, 9), nil)
		repo.question.On("UpdateOrder", ctx, uint(9), 1).Return(nil)
		repo.question.On("UpdateOrder", ctx, uint(7), 2).Return(nil)
		repo.question.On("UpdateOrder", ctx, uint(8), 3).Return(nil)

		err := svc.Reorder(ctx, teacher, 1, &ReorderQuestionsRequest{QuestionIDs: []uint{9, 7, 8}})
		require.NoError(t, err)
		repo.assertExpectations(t)
	})

	t.Run("rejects missing question id", func(t *testing.T) {
		repo, svc := newQuestionFixture()
		repo.exam.On("GetByID", ctx, uint(1)).Return(&models.Exam{ID: 1, CreatedBy: 10}, nil)
		repo.question.On("GetByExam", ctx, uint(1)).Return(examQuestions(1, 7, 8, 9), nil)

		err := svc.Reorder(ctx, teacher, 1, &ReorderQuestionsRequest{QuestionIDs: []uint{9, 7}})
		assert.ErrorIs(t, err, ErrQuestionSetInvalid)
		repo.question.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects foreign question id", func(t *testing.T) {
		repo, svc := newQuestionFixture()
		repo.exam.On("GetByID", ctx, uint(1)).Return(&models.Exam{ID: 1, CreatedBy: 10}, nil)
		repo.question.On("GetByExam", ctx, uint(1)).Return(examQuestions(1, 7, 8, 9), nil)

		err := svc.Reorder(ctx, teacher, 1, &ReorderQuestionsRequest{QuestionIDs: []uint{9, 7, 42}})
		assert.ErrorIs(t, err, ErrQuestionSetInvalid)
		repo.question.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects duplicate question id", func(t *testing.T) {
		repo, svc := newQuestionFixture()
		repo.exam.On("GetByID", ctx, uint(1)).Return(&models.Exam{ID: 1, CreatedBy: 10}, nil)
		repo.question.On("GetByExam", ctx, uint(1)).Return(examQuestions(1, 7, 8, 9), nil)

		err := svc.Reorder(ctx, teacher, 1, &ReorderQuestionsRequest{QuestionIDs: []uint{9, 9, 7}})
		assert.ErrorIs(t, err, ErrQuestionSetInvalid)
		repo.question.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything, mock.Anything)
	})
}
