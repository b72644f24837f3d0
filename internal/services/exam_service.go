package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/examhub/exam-service/internal/events"
	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/repositories"
	"github.com/examhub/exam-service/internal/utils"
)

type CreateExamRequest struct {
	Title       string           `json:"title" validate:"required,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Duration    int              `json:"duration" validate:"required,min=1"`
	StartDate   time.Time        `json:"start_date" validate:"required"`
	EndDate     time.Time        `json:"end_date" validate:"required"`
	Type        models.ExamType  `json:"type" validate:"omitempty,exam_type"`
	MaxAttempts int              `json:"max_attempts" validate:"omitempty,min=1,max=10"`

	PassingScore       float64 `json:"passing_score" validate:"min=0,max=100"`
	ShuffleQuestions   bool    `json:"shuffle_questions"`
	ShuffleOptions     bool    `json:"shuffle_options"`
	ShowResults        bool    `json:"show_results"`
	ShowCorrectAnswers bool    `json:"show_correct_answers"`
}

type UpdateExamRequest struct {
	Title       *string            `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string            `json:"description" validate:"omitempty,max=1000"`
	Duration    *int               `json:"duration" validate:"omitempty,min=1"`
	StartDate   *time.Time         `json:"start_date"`
	EndDate     *time.Time         `json:"end_date"`
	Status      *models.ExamStatus `json:"status" validate:"omitempty,exam_status"`
	Type        *models.ExamType   `json:"type" validate:"omitempty,exam_type"`
	MaxAttempts *int               `json:"max_attempts" validate:"omitempty,min=1,max=10"`

	PassingScore       *float64 `json:"passing_score" validate:"omitempty,min=0,max=100"`
	ShuffleQuestions   *bool    `json:"shuffle_questions"`
	ShuffleOptions     *bool    `json:"shuffle_options"`
	ShowResults        *bool    `json:"show_results"`
	ShowCorrectAnswers *bool    `json:"show_correct_answers"`
}

// ExamService manages the exam lifecycle from draft to archive.
type ExamService interface {
	Create(ctx context.Context, actor Actor, req *CreateExamRequest) (*models.Exam, error)
	GetByID(ctx context.Context, actor Actor, id uint) (*models.Exam, error)
	List(ctx context.Context, actor Actor, filters repositories.ExamFilters) ([]*models.Exam, int64, error)
	Update(ctx context.Context, actor Actor, id uint, req *UpdateExamRequest) (*models.Exam, error)
	Delete(ctx context.Context, actor Actor, id uint) error

	Publish(ctx context.Context, actor Actor, id uint) (*models.Exam, error)
	GetActive(ctx context.Context) ([]*models.Exam, error)
	GetUpcoming(ctx context.Context) ([]*models.Exam, error)
	GetMyExams(ctx context.Context, actor Actor) ([]*models.Exam, error)
	GetByCreator(ctx context.Context, creatorID uint) ([]*models.Exam, error)
}

type examService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
	publisher events.EventPublisher
	policy    policy
}

func NewExamService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator, publisher events.EventPublisher) ExamService {
	return &examService{repo: repo, logger: logger, validator: validator, publisher: publisher}
}

func (s *examService) Create(ctx context.Context, actor Actor, req *CreateExamRequest) (*models.Exam, error) {
	if err := s.policy.Can(actor, ActionCreateExam, 0); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, ErrExamDateInvalid
	}

	examType := req.Type
	if examType == "" {
		examType = models.ExamTypeQuiz
	}
	maxAttempts := req.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 1
	}

	exam := &models.Exam{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      models.ExamStatusDraft,
		Type:        examType,
		MaxAttempts: maxAttempts,

		PassingScore:       req.PassingScore,
		ShuffleQuestions:   req.ShuffleQuestions,
		ShuffleOptions:     req.ShuffleOptions,
		ShowResults:        req.ShowResults,
		ShowCorrectAnswers: req.ShowCorrectAnswers,

		CreatedBy: actor.UserID,
	}

	if err := s.repo.Exam().Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}

	s.logger.Info("exam created", "exam_id", exam.ID, "title", exam.Title, "created_by", actor.UserID)
	return exam, nil
}

// GetByID loads an exam with its questions. Students only see published
// exams, and never the correct-answer flags.
func (s *examService) GetByID(ctx context.Context, actor Actor, id uint) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByIDWithQuestions(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}

	if actor.IsStudent() {
		if exam.Status == models.ExamStatusDraft || exam.Status == models.ExamStatusArchived {
			return nil, ErrExamNotFound
		}
		sanitizeExamForStudent(exam)
	}

	return exam, nil
}

// sanitizeExamForStudent strips grading data from the question set before
// it is handed to a student.
func sanitizeExamForStudent(exam *models.Exam) {
	for i := range exam.Questions {
		q := &exam.Questions[i]
		q.CorrectAnswer = nil
		q.Explanation = nil
		for j := range q.Options {
			q.Options[j].IsCorrect = false
			q.Options[j].Explanation = ""
		}
	}
}

func (s *examService) List(ctx context.Context, actor Actor, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	// Students only ever list published exams.
	if actor.IsStudent() {
		published := models.ExamStatusPublished
		filters.Status = &published
	}
	return s.repo.Exam().List(ctx, filters)
}

func (s *examService) Update(ctx context.Context, actor Actor, id uint, req *UpdateExamRequest) (*models.Exam, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exam, err := s.repo.Exam().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}

	if err := s.policy.Can(actor, ActionEditExam, exam.CreatedBy); err != nil {
		return nil, err
	}

	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.Description != nil {
		exam.Description = req.Description
	}
	if req.Duration != nil {
		exam.Duration = *req.Duration
	}
	if req.StartDate != nil {
		exam.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		exam.EndDate = *req.EndDate
	}
	if req.Status != nil {
		exam.Status = *req.Status
	}
	if req.Type != nil {
		exam.Type = *req.Type
	}
	if req.MaxAttempts != nil {
		exam.MaxAttempts = *req.MaxAttempts
	}
	if req.PassingScore != nil {
		exam.PassingScore = *req.PassingScore
	}
	if req.ShuffleQuestions != nil {
		exam.ShuffleQuestions = *req.ShuffleQuestions
	}
	if req.ShuffleOptions != nil {
		exam.ShuffleOptions = *req.ShuffleOptions
	}
	if req.ShowResults != nil {
		exam.ShowResults = *req.ShowResults
	}
	if req.ShowCorrectAnswers != nil {
		exam.ShowCorrectAnswers = *req.ShowCorrectAnswers
	}

	if !exam.StartDate.Before(exam.EndDate) {
		return nil, ErrExamDateInvalid
	}

	if err := s.repo.Exam().Update(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to update exam: %w", err)
	}
	return exam, nil
}

func (s *examService) Delete(ctx context.Context, actor Actor, id uint) error {
	exam, err := s.repo.Exam().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrExamNotFound
		}
		return fmt.Errorf("failed to load exam: %w", err)
	}

	if err := s.policy.Can(actor, ActionDeleteExam, exam.CreatedBy); err != nil {
		return err
	}

	if err := s.repo.Exam().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}

	s.logger.Info("exam deleted", "exam_id", id, "deleted_by", actor.UserID)
	return nil
}

// Publish moves a draft exam to published and announces it on the event bus.
func (s *examService) Publish(ctx context.Context, actor Actor, id uint) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}

	if err := s.policy.Can(actor, ActionPublishExam, exam.CreatedBy); err != nil {
		return nil, err
	}

	if exam.Status != models.ExamStatusDraft {
		return nil, NewBusinessRuleError("publish_state", "only draft exams can be published")
	}

	count, err := s.repo.Question().CountByExam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	if count == 0 {
		return nil, NewBusinessRuleError("publish_empty", "exam has no questions")
	}

	exam.Status = models.ExamStatusPublished
	if err := s.repo.Exam().Update(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to publish exam: %w", err)
	}

	event := events.NewExamPublishedEvent(exam.ID, exam.Title, exam.StartDate, exam.EndDate, exam.Duration, exam.CreatedBy)
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish exam event", "exam_id", exam.ID, "error", err)
	}

	s.logger.Info("exam published", "exam_id", exam.ID, "published_by", actor.UserID)
	return exam, nil
}

func (s *examService) GetActive(ctx context.Context) ([]*models.Exam, error) {
	return s.repo.Exam().GetActive(ctx, time.Now())
}

func (s *examService) GetUpcoming(ctx context.Context) ([]*models.Exam, error) {
	return s.repo.Exam().GetUpcoming(ctx, time.Now())
}

func (s *examService) GetMyExams(ctx context.Context, actor Actor) ([]*models.Exam, error) {
	return s.repo.Exam().GetByCreator(ctx, actor.UserID)
}

func (s *examService) GetByCreator(ctx context.Context, creatorID uint) ([]*models.Exam, error) {
	return s.repo.Exam().GetByCreator(ctx, creatorID)
}
