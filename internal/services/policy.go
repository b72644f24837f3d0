package services

import "github.com/examhub/exam-service/internal/models"

// Actor is the authenticated principal performing an operation.
type Actor struct {
	UserID   uint
	Username string
	Role     models.UserRole
}

func (a Actor) IsAdmin() bool   { return a.Role == models.RoleAdmin }
func (a Actor) IsTeacher() bool { return a.Role == models.RoleTeacher }
func (a Actor) IsStudent() bool { return a.Role == models.RoleStudent }

// Action names an operation checked against the policy table.
type Action string

const (
	ActionManageUsers      Action = "manage users"
	ActionCreateExam       Action = "create exams"
	ActionEditExam         Action = "edit this exam"
	ActionDeleteExam       Action = "delete this exam"
	ActionPublishExam      Action = "publish this exam"
	ActionManageQuestions  Action = "manage questions for this exam"
	ActionViewSubmissions  Action = "view submissions for this exam"
	ActionGradeSubmission  Action = "grade this submission"
	ActionViewStatistics   Action = "view statistics for this exam"
	ActionExportResults    Action = "export results for this exam"
	ActionSendNotification Action = "send notifications"
)

// policy resolves whether an actor may perform an action, optionally
// scoped to the resource owner. Admins may do everything; teachers may
// manage their own resources; students none of the above.
type policy struct{}

// Can returns nil when the action is allowed, or a PermissionError.
// ownerID is the creating user of the target resource; pass 0 for
// actions without a resource owner.
func (policy) Can(actor Actor, action Action, ownerID uint) error {
	if actor.IsAdmin() {
		return nil
	}

	switch action {
	case ActionManageUsers:
		// admin only
	case ActionCreateExam, ActionSendNotification:
		if actor.IsTeacher() {
			return nil
		}
	case ActionEditExam, ActionDeleteExam, ActionPublishExam,
		ActionManageQuestions, ActionViewSubmissions, ActionGradeSubmission,
		ActionViewStatistics, ActionExportResults:
		if actor.IsTeacher() && actor.UserID == ownerID {
			return nil
		}
	}

	return NewPermissionError(actor.UserID, string(action))
}
