package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/repositories"
	"github.com/examhub/exam-service/internal/utils"
)

type OptionInput struct {
	Text        string `json:"text" validate:"required"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation"`
}

type CreateQuestionRequest struct {
	Text          string                 `json:"text" validate:"required"`
	Type          models.QuestionType    `json:"type" validate:"required,question_type"`
	Options       []OptionInput          `json:"options" validate:"omitempty,dive"`
	CorrectAnswer *string                `json:"correct_answer"`
	Difficulty    models.DifficultyLevel `json:"difficulty"`
	Points        int                    `json:"points" validate:"omitempty,min=1,max=100"`
	Explanation   *string                `json:"explanation"`
	Tags          []string               `json:"tags"`
	Image         *string                `json:"image" validate:"omitempty,max=500"`
}

type UpdateQuestionRequest struct {
	Text          *string                 `json:"text"`
	Options       []OptionInput           `json:"options" validate:"omitempty,dive"`
	CorrectAnswer *string                 `json:"correct_answer"`
	Difficulty    *models.DifficultyLevel `json:"difficulty"`
	Points        *int                    `json:"points" validate:"omitempty,min=1,max=100"`
	Explanation   *string                 `json:"explanation"`
	Tags          []string                `json:"tags"`
	Image         *string                 `json:"image" validate:"omitempty,max=500"`
}

type ReorderQuestionsRequest struct {
	QuestionIDs []uint `json:"question_ids" validate:"required,min=1"`
}

// QuestionService manages an exam's question set.
type QuestionService interface {
	Create(ctx context.Context, actor Actor, examID uint, req *CreateQuestionRequest) (*models.Question, error)
	GetByID(ctx context.Context, actor Actor, id uint) (*models.Question, error)
	GetByExam(ctx context.Context, actor Actor, examID uint) ([]*models.Question, error)
	Update(ctx context.Context, actor Actor, id uint, req *UpdateQuestionRequest) (*models.Question, error)
	Delete(ctx context.Context, actor Actor, id uint) error

	Reorder(ctx context.Context, actor Actor, examID uint, req *ReorderQuestionsRequest) error
}

type questionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
	policy    policy
}

func NewQuestionService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) QuestionService {
	return &questionService{repo: repo, logger: logger, validator: validator}
}

func (s *questionService) loadOwnedExam(ctx context.Context, actor Actor, examID uint) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}
	if err := s.policy.Can(actor, ActionManageQuestions, exam.CreatedBy); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *questionService) Create(ctx context.Context, actor Actor, examID uint, req *CreateQuestionRequest) (*models.Question, error) {
	if _, err := s.loadOwnedExam(ctx, actor, examID); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := validateQuestionContent(req.Type, req.Options, req.CorrectAnswer); err != nil {
		return nil, err
	}

	count, err := s.repo.Question().CountByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	points := req.Points
	if points == 0 {
		points = 1
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	question := &models.Question{
		ExamID:        examID,
		Text:          req.Text,
		Type:          req.Type,
		Options:       buildOptions(req.Options),
		CorrectAnswer: req.CorrectAnswer,
		Difficulty:    difficulty,
		Points:        points,
		Explanation:   req.Explanation,
		Tags:          req.Tags,
		Order:         int(count) + 1,
		Image:         req.Image,
		CreatedBy:     actor.UserID,
	}

	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("question created", "question_id", question.ID, "exam_id", examID, "type", question.Type)
	return question, nil
}

// buildOptions assigns server-side ids; submissions reference options by
// these ids, never by position.
func buildOptions(inputs []OptionInput) []models.Option {
	if len(inputs) == 0 {
		return nil
	}
	options := make([]models.Option, len(inputs))
	for i, in := range inputs {
		options[i] = models.Option{
			ID:          uuid.NewString(),
			Text:        in.Text,
			IsCorrect:   in.IsCorrect,
			Explanation: in.Explanation,
		}
	}
	return options
}

// validateQuestionContent enforces per-type shape rules.
func validateQuestionContent(qType models.QuestionType, options []OptionInput, correctAnswer *string) error {
	correct := 0
	for _, o := range options {
		if o.IsCorrect {
			correct++
		}
	}

	switch qType {
	case models.MultipleChoice:
		if len(options) < 2 || correct == 0 {
			return NewBusinessRuleError("question_options", "multiple choice questions need at least two options and one correct option")
		}
	case models.SingleChoice:
		if len(options) < 2 || correct != 1 {
			return NewBusinessRuleError("question_options", "single choice questions need at least two options and exactly one correct option")
		}
	case models.TrueFalse:
		if len(options) != 2 || correct != 1 {
			return NewBusinessRuleError("question_options", "true/false questions need exactly two options and one correct option")
		}
	case models.FillInBlank:
		if correctAnswer == nil || *correctAnswer == "" {
			return NewBusinessRuleError("question_answer", "fill in blank questions need a correct answer")
		}
	}
	return nil
}

func (s *questionService) GetByID(ctx context.Context, actor Actor, id uint) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to load question: %w", err)
	}

	if _, err := s.loadOwnedExam(ctx, actor, question.ExamID); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *questionService) GetByExam(ctx context.Context, actor Actor, examID uint) ([]*models.Question, error) {
	if _, err := s.loadOwnedExam(ctx, actor, examID); err != nil {
		return nil, err
	}
	return s.repo.Question().GetByExam(ctx, examID)
}

func (s *questionService) Update(ctx context.Context, actor Actor, id uint, req *UpdateQuestionRequest) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to load question: %w", err)
	}

	if _, err := s.loadOwnedExam(ctx, actor, question.ExamID); err != nil {
		return nil, err
	}

	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.Options != nil {
		question.Options = buildOptions(req.Options)
	}
	if req.CorrectAnswer != nil {
		question.CorrectAnswer = req.CorrectAnswer
	}
	if req.Difficulty != nil {
		question.Difficulty = *req.Difficulty
	}
	if req.Points != nil {
		question.Points = *req.Points
	}
	if req.Explanation != nil {
		question.Explanation = req.Explanation
	}
	if req.Tags != nil {
		question.Tags = req.Tags
	}
	if req.Image != nil {
		question.Image = req.Image
	}

	var optionInputs []OptionInput
	for _, o := range question.Options {
		optionInputs = append(optionInputs, OptionInput{Text: o.Text, IsCorrect: o.IsCorrect, Explanation: o.Explanation})
	}
	if err := validateQuestionContent(question.Type, optionInputs, question.CorrectAnswer); err != nil {
		return nil, err
	}

	if err := s.repo.Question().Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return question, nil
}

func (s *questionService) Delete(ctx context.Context, actor Actor, id uint) error {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to load question: %w", err)
	}

	if _, err := s.loadOwnedExam(ctx, actor, question.ExamID); err != nil {
		return err
	}

	if err := s.repo.Question().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	s.logger.Info("question deleted", "question_id", id, "exam_id", question.ExamID)
	return nil
}

// Reorder replaces the exam's question ordering. The supplied ids must be
// exactly the exam's question set; anything else rejects the whole request
// and leaves the ordering untouched.
func (s *questionService) Reorder(ctx context.Context, actor Actor, examID uint, req *ReorderQuestionsRequest) error {
	if _, err := s.loadOwnedExam(ctx, actor, examID); err != nil {
		return err
	}
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	existing, err := s.repo.Question().GetByExam(ctx, examID)
	if err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}

	if len(req.QuestionIDs) != len(existing) {
		return ErrQuestionSetInvalid
	}
	known := make(map[uint]bool, len(existing))
	for _, q := range existing {
		known[q.ID] = true
	}
	seen := make(map[uint]bool, len(req.QuestionIDs))
	for _, id := range req.QuestionIDs {
		if !known[id] || seen[id] {
			return ErrQuestionSetInvalid
		}
		seen[id] = true
	}

	err = s.repo.WithTx(ctx, func(tx repositories.Repository) error {
		for i, id := range req.QuestionIDs {
			if err := tx.Question().UpdateOrder(ctx, id, i+1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reorder questions: %w", err)
	}

	s.logger.Info("questions reordered", "exam_id", examID, "count", len(req.QuestionIDs))
	return nil
}
