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

type StartSubmissionRequest struct {
	ExamID uint `json:"exam_id" validate:"required"`
}

type SaveAnswersRequest struct {
	Answers []models.Answer `json:"answers" validate:"required,dive"`
}

type ManualGradeInput struct {
	QuestionID uint    `json:"question_id" validate:"required"`
	Score      float64 `json:"score" validate:"min=0"`
	Feedback   *string `json:"feedback"`
}

type GradeSubmissionRequest struct {
	Grades   []ManualGradeInput `json:"grades" validate:"omitempty,dive"`
	Feedback *string            `json:"feedback"`
}

// SubmissionService runs the attempt lifecycle: a student starts an
// attempt, saves answers while the window is open, then completes it,
// which triggers auto-grading. Teachers grade the manual questions
// afterwards.
type SubmissionService interface {
	Start(ctx context.Context, actor Actor, req *StartSubmissionRequest) (*models.Submission, error)
	SaveAnswers(ctx context.Context, actor Actor, id uint, req *SaveAnswersRequest) (*models.Submission, error)
	Complete(ctx context.Context, actor Actor, id uint) (*models.Submission, error)
	Grade(ctx context.Context, actor Actor, id uint, req *GradeSubmissionRequest) (*models.Submission, error)

	GetByID(ctx context.Context, actor Actor, id uint) (*models.Submission, error)
	List(ctx context.Context, actor Actor, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error)
	GetByExam(ctx context.Context, actor Actor, examID uint) ([]*models.Submission, error)
	GetMine(ctx context.Context, actor Actor) ([]*models.Submission, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type submissionService struct {
	repo          repositories.Repository
	logger        *slog.Logger
	validator     *utils.Validator
	publisher     events.EventPublisher
	statistics    StatisticsService
	notifications NotificationService
	policy        policy
}

func NewSubmissionService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *utils.Validator,
	publisher events.EventPublisher,
	statistics StatisticsService,
	notifications NotificationService,
) SubmissionService {
	return &submissionService{
		repo:          repo,
		logger:        logger,
		validator:     validator,
		publisher:     publisher,
		statistics:    statistics,
		notifications: notifications,
	}
}

// Start opens a new attempt. The exam must be published, its window must
// cover now, and the student must have attempts left.
func (s *submissionService) Start(ctx context.Context, actor Actor, req *StartSubmissionRequest) (*models.Submission, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exam, err := s.repo.Exam().GetByID(ctx, req.ExamID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}

	if exam.Status != models.ExamStatusPublished && exam.Status != models.ExamStatusActive {
		return nil, ErrExamNotPublished
	}

	now := time.Now()
	if !exam.IsOpenAt(now) {
		return nil, ErrExamWindowClosed
	}

	attempts, err := s.repo.Submission().CountByExamAndStudent(ctx, exam.ID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}
	if attempts >= int64(exam.MaxAttempts) {
		return nil, ErrAttemptLimitReached
	}

	submission := &models.Submission{
		StudentID: actor.UserID,
		ExamID:    exam.ID,
		Status:    models.SubmissionInProgress,
		StartTime: now,
	}
	if err := s.repo.Submission().Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	if err := s.statistics.RecordParticipant(ctx, exam.ID); err != nil {
		s.logger.Warn("failed to record participant", "exam_id", exam.ID, "error", err)
	}

	event := events.NewSubmissionStartedEvent(submission.ID, exam.ID, actor.UserID, now)
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish submission started event", "submission_id", submission.ID, "error", err)
	}

	s.logger.Info("submission started", "submission_id", submission.ID, "exam_id", exam.ID, "student_id", actor.UserID)
	return submission, nil
}

func (s *submissionService) loadOwn(ctx context.Context, actor Actor, id uint) (*models.Submission, error) {
	submission, err := s.repo.Submission().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	if submission.StudentID != actor.UserID {
		return nil, NewPermissionError(actor.UserID, "access this submission")
	}
	return submission, nil
}

// SaveAnswers replaces the answer set of a running attempt.
func (s *submissionService) SaveAnswers(ctx context.Context, actor Actor, id uint, req *SaveAnswersRequest) (*models.Submission, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	submission, err := s.loadOwn(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if submission.Status != models.SubmissionInProgress {
		return nil, ErrSubmissionFinalized
	}

	submission.Answers = req.Answers
	if err := s.repo.Submission().Update(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to save answers: %w", err)
	}
	return submission, nil
}

// Complete finalizes a running attempt: the exam window is rechecked, the
// end time recorded, and auto-grading runs over the saved answers.
func (s *submissionService) Complete(ctx context.Context, actor Actor, id uint) (*models.Submission, error) {
	submission, err := s.loadOwn(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if submission.Status != models.SubmissionInProgress {
		return nil, ErrSubmissionFinalized
	}

	exam, err := s.repo.Exam().GetByIDWithQuestions(ctx, submission.ExamID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}

	now := time.Now()
	if now.After(exam.EndDate) {
		return nil, ErrExamWindowClosed
	}

	questions := make([]*models.Question, len(exam.Questions))
	for i := range exam.Questions {
		questions[i] = &exam.Questions[i]
	}
	graded, score := gradeAnswers(questions, submission.Answers)

	submission.Answers = graded
	submission.Score = score
	submission.IsPassed = score >= exam.PassingScore
	submission.EndTime = &now
	submission.Status = models.SubmissionCompleted

	if err := s.repo.Submission().Update(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to complete submission: %w", err)
	}

	s.recordCompletionStats(ctx, submission)

	event := events.NewSubmissionCompletedEvent(submission.ID, exam.ID, actor.UserID, now, score, submission.IsPassed)
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish submission completed event", "submission_id", submission.ID, "error", err)
	}

	if exam.ShowResults {
		s.notifyResult(ctx, submission, exam)
	}

	s.logger.Info("submission completed",
		"submission_id", submission.ID,
		"exam_id", exam.ID,
		"student_id", actor.UserID,
		"score", score,
		"passed", submission.IsPassed)
	return submission, nil
}

func (s *submissionService) recordCompletionStats(ctx context.Context, submission *models.Submission) {
	if err := s.statistics.RecordScore(ctx, submission.ExamID, submission.Score); err != nil {
		s.logger.Warn("failed to record score", "exam_id", submission.ExamID, "error", err)
	}
	if err := s.statistics.RecordTimeSpent(ctx, submission.ExamID, submission.TimeSpentMinutes()); err != nil {
		s.logger.Warn("failed to record time spent", "exam_id", submission.ExamID, "error", err)
	}
	if err := s.statistics.RecordCompletion(ctx, submission.ExamID); err != nil {
		s.logger.Warn("failed to record completion", "exam_id", submission.ExamID, "error", err)
	}
}

func (s *submissionService) notifyResult(ctx context.Context, submission *models.Submission, exam *models.Exam) {
	link := fmt.Sprintf("/exams/%d/submissions/%d", exam.ID, submission.ID)
	notification := &models.Notification{
		Title:       fmt.Sprintf("Results for %s", exam.Title),
		Message:     fmt.Sprintf("You scored %.1f%% on %s.", submission.Score, exam.Title),
		Type:        models.NotificationExamResult,
		RecipientID: submission.StudentID,
		Link:        &link,
	}
	if err := s.notifications.Notify(ctx, notification); err != nil {
		s.logger.Warn("failed to send result notification", "submission_id", submission.ID, "error", err)
	}
}

// Grade applies a teacher's manual scores to essay and matching answers
// and recomputes the final score over the full question set.
func (s *submissionService) Grade(ctx context.Context, actor Actor, id uint, req *GradeSubmissionRequest) (*models.Submission, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	submission, err := s.repo.Submission().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	if submission.Status == models.SubmissionInProgress {
		return nil, NewBusinessRuleError("grade_in_progress", "submission has not been completed yet")
	}

	exam, err := s.repo.Exam().GetByIDWithQuestions(ctx, submission.ExamID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}

	if err := s.policy.Can(actor, ActionGradeSubmission, exam.CreatedBy); err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.Question, len(exam.Questions))
	available := 0
	for i := range exam.Questions {
		byID[exam.Questions[i].ID] = &exam.Questions[i]
		available += exam.Questions[i].Points
	}

	grades := make(map[uint]ManualGradeInput, len(req.Grades))
	for _, g := range req.Grades {
		question, ok := byID[g.QuestionID]
		if !ok {
			return nil, ErrQuestionNotFound
		}
		if question.IsAutoGradable() {
			return nil, NewBusinessRuleError("grade_auto", "auto-graded questions cannot be graded manually")
		}
		if g.Score > float64(question.Points) {
			return nil, NewBusinessRuleError("grade_points", "score exceeds the question's points")
		}
		grades[g.QuestionID] = g
	}

	awarded := 0.0
	for i := range submission.Answers {
		answer := &submission.Answers[i]
		if g, ok := grades[answer.QuestionID]; ok {
			correct := g.Score > 0
			answer.Score = g.Score
			answer.IsCorrect = &correct
			answer.Feedback = g.Feedback
		}
		awarded += answer.Score
	}

	if available > 0 {
		submission.Score = awarded / float64(available) * 100
	}
	submission.IsPassed = submission.Score >= exam.PassingScore
	submission.Status = models.SubmissionGraded
	now := time.Now()
	submission.GradedBy = &actor.UserID
	submission.GradedAt = &now
	submission.Feedback = req.Feedback

	if err := s.repo.Submission().Update(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to grade submission: %w", err)
	}

	event := events.NewSubmissionGradedEvent(submission.ID, exam.ID, submission.StudentID, now, submission.Score, submission.IsPassed)
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish submission graded event", "submission_id", submission.ID, "error", err)
	}

	s.notifyResult(ctx, submission, exam)

	s.logger.Info("submission graded", "submission_id", submission.ID, "graded_by", actor.UserID, "score", submission.Score)
	return submission, nil
}

func (s *submissionService) GetByID(ctx context.Context, actor Actor, id uint) (*models.Submission, error) {
	submission, err := s.repo.Submission().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}

	if submission.StudentID == actor.UserID || actor.IsAdmin() {
		return submission, nil
	}

	exam, err := s.repo.Exam().GetByID(ctx, submission.ExamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}
	if err := s.policy.Can(actor, ActionViewSubmissions, exam.CreatedBy); err != nil {
		return nil, err
	}
	return submission, nil
}

func (s *submissionService) List(ctx context.Context, actor Actor, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, NewPermissionError(actor.UserID, "list all submissions")
	}
	return s.repo.Submission().List(ctx, filters)
}

func (s *submissionService) GetByExam(ctx context.Context, actor Actor, examID uint) ([]*models.Submission, error) {
	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}
	if err := s.policy.Can(actor, ActionViewSubmissions, exam.CreatedBy); err != nil {
		return nil, err
	}
	return s.repo.Submission().GetByExam(ctx, examID)
}

func (s *submissionService) GetMine(ctx context.Context, actor Actor) ([]*models.Submission, error) {
	return s.repo.Submission().GetByStudent(ctx, actor.UserID)
}

// Delete removes a submission. Admins may delete any; teachers only those
// belonging to their own exams.
func (s *submissionService) Delete(ctx context.Context, actor Actor, id uint) error {
	submission, err := s.repo.Submission().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSubmissionNotFound
		}
		return fmt.Errorf("failed to load submission: %w", err)
	}

	exam, err := s.repo.Exam().GetByID(ctx, submission.ExamID)
	if err != nil {
		return fmt.Errorf("failed to load exam: %w", err)
	}
	if err := s.policy.Can(actor, ActionViewSubmissions, exam.CreatedBy); err != nil {
		return err
	}

	if err := s.repo.Submission().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	s.logger.Info("submission deleted", "submission_id", id, "deleted_by", actor.UserID)
	return nil
}
