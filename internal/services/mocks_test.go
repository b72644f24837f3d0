package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/repositories"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) GetByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

type MockExamRepository struct {
	mock.Mock
}

func (m *MockExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	return m.Called(ctx, exam).Error(0)
}

func (m *MockExamRepository) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamRepository) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamRepository) Update(ctx context.Context, exam *models.Exam) error {
	return m.Called(ctx, exam).Error(0)
}

func (m *MockExamRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockExamRepository) List(ctx context.Context, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Exam), args.Get(1).(int64), args.Error(2)
}

func (m *MockExamRepository) GetByCreator(ctx context.Context, creatorID uint) ([]*models.Exam, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Exam), args.Error(1)
}

func (m *MockExamRepository) GetByStatus(ctx context.Context, status models.ExamStatus) ([]*models.Exam, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Exam), args.Error(1)
}

func (m *MockExamRepository) GetActive(ctx context.Context, now time.Time) ([]*models.Exam, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Exam), args.Error(1)
}

func (m *MockExamRepository) GetUpcoming(ctx context.Context, now time.Time) ([]*models.Exam, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Exam), args.Error(1)
}

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	return m.Called(ctx, question).Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	return m.Called(ctx, question).Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockQuestionRepository) List(ctx context.Context) ([]*models.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByExam(ctx context.Context, examID uint) ([]*models.Question, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByType(ctx context.Context, questionType models.QuestionType) ([]*models.Question, error) {
	args := m.Called(ctx, questionType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) CountByExam(ctx context.Context, examID uint) (int64, error) {
	args := m.Called(ctx, examID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) UpdateOrder(ctx context.Context, id uint, order int) error {
	return m.Called(ctx, id, order).Error(0)
}

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return m.Called(ctx, submission).Error(0)
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return m.Called(ctx, submission).Error(0)
}

func (m *MockSubmissionRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSubmissionRepository) List(ctx context.Context, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Submission), args.Get(1).(int64), args.Error(2)
}

func (m *MockSubmissionRepository) GetByExam(ctx context.Context, examID uint) ([]*models.Submission, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) GetByStudent(ctx context.Context, studentID uint) ([]*models.Submission, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) GetByExamAndStudent(ctx context.Context, examID, studentID uint) ([]*models.Submission, error) {
	args := m.Called(ctx, examID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) CountByExamAndStudent(ctx context.Context, examID, studentID uint) (int64, error) {
	args := m.Called(ctx, examID, studentID)
	return args.Get(0).(int64), args.Error(1)
}

type MockStatisticsRepository struct {
	mock.Mock
}

func (m *MockStatisticsRepository) Create(ctx context.Context, stats *models.ExamStatistics) error {
	return m.Called(ctx, stats).Error(0)
}

func (m *MockStatisticsRepository) GetByExam(ctx context.Context, examID uint) (*models.ExamStatistics, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamStatistics), args.Error(1)
}

func (m *MockStatisticsRepository) Update(ctx context.Context, stats *models.ExamStatistics) error {
	return m.Called(ctx, stats).Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return m.Called(ctx, notification).Error(0)
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) Update(ctx context.Context, notification *models.Notification) error {
	return m.Called(ctx, notification).Error(0)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockNotificationRepository) List(ctx context.Context, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) GetByRecipient(ctx context.Context, recipientID uint, filters repositories.NotificationFilters) ([]*models.Notification, error) {
	args := m.Called(ctx, recipientID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) GetUnreadByRecipient(ctx context.Context, recipientID uint) ([]*models.Notification, error) {
	args := m.Called(ctx, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, recipientID uint) error {
	return m.Called(ctx, recipientID).Error(0)
}

// mockRepository bundles the per-entity mocks. WithTx runs fn against the
// same mocks, which is enough to test transactional call sequences.
type mockRepository struct {
	user         *MockUserRepository
	exam         *MockExamRepository
	question     *MockQuestionRepository
	submission   *MockSubmissionRepository
	statistics   *MockStatisticsRepository
	notification *MockNotificationRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		user:         new(MockUserRepository),
		exam:         new(MockExamRepository),
		question:     new(MockQuestionRepository),
		submission:   new(MockSubmissionRepository),
		statistics:   new(MockStatisticsRepository),
		notification: new(MockNotificationRepository),
	}
}

func (m *mockRepository) User() repositories.UserRepository                 { return m.user }
func (m *mockRepository) Exam() repositories.ExamRepository                 { return m.exam }
func (m *mockRepository) Question() repositories.QuestionRepository         { return m.question }
func (m *mockRepository) Submission() repositories.SubmissionRepository     { return m.submission }
func (m *mockRepository) Statistics() repositories.StatisticsRepository     { return m.statistics }
func (m *mockRepository) Notification() repositories.NotificationRepository { return m.notification }

func (m *mockRepository) WithTx(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) assertExpectations(t mock.TestingT) {
	m.user.AssertExpectations(t)
	m.exam.AssertExpectations(t)
	m.question.AssertExpectations(t)
	m.submission.AssertExpectations(t)
	m.statistics.AssertExpectations(t)
	m.notification.AssertExpectations(t)
}
