package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the service layer. Handlers map these to
// HTTP status codes.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrUserInactive      = errors.New("user account is deactivated")
	ErrInvalidToken      = errors.New("invalid or expired token")

	ErrExamNotFound     = errors.New("exam not found")
	ErrExamNotEditable  = errors.New("exam can no longer be edited")
	ErrExamDateInvalid  = errors.New("exam start date must be before end date")
	ErrExamNotPublished = errors.New("exam is not published")

	ErrQuestionNotFound   = errors.New("question not found")
	ErrQuestionSetInvalid = errors.New("question ids do not match the exam's question set")

	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrExamWindowClosed    = errors.New("exam is not open for submissions")
	ErrAttemptLimitReached = errors.New("maximum number of attempts reached")
	ErrSubmissionFinalized = errors.New("submission has already been finalized")

	ErrStatisticsNotFound   = errors.New("statistics not found for exam")
	ErrNotificationNotFound = errors.New("notification not found")
)

// PermissionError is returned when the actor is authenticated but not
// allowed to perform the operation.
type PermissionError struct {
	UserID uint
	Action string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d is not allowed to %s", e.UserID, e.Action)
}

func NewPermissionError(userID uint, action string) *PermissionError {
	return &PermissionError{UserID: userID, Action: action}
}

// BusinessRuleError is returned when an operation violates a domain rule
// that does not fit any sentinel error.
type BusinessRuleError struct {
	Rule    string
	Message string
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message}
}

// IsNotFound reports whether err means the requested resource is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrExamNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrSubmissionNotFound) ||
		errors.Is(err, ErrStatisticsNotFound) ||
		errors.Is(err, ErrNotificationNotFound)
}

// IsConflict reports whether err is a uniqueness conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrEmailTaken)
}

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrInvalidCredential) ||
		errors.Is(err, ErrUserInactive) ||
		errors.Is(err, ErrInvalidToken)
}

// IsForbidden reports whether err is a permission failure.
func IsForbidden(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsBusinessRule reports whether err is a domain-rule violation.
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	if errors.As(err, &bre) {
		return true
	}
	return errors.Is(err, ErrExamNotEditable) ||
		errors.Is(err, ErrExamDateInvalid) ||
		errors.Is(err, ErrExamNotPublished) ||
		errors.Is(err, ErrQuestionSetInvalid) ||
		errors.Is(err, ErrExamWindowClosed) ||
		errors.Is(err, ErrAttemptLimitReached) ||
		errors.Is(err, ErrSubmissionFinalized)
}
