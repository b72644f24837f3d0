package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/examhub/exam-service/internal/models"
)

func TestPolicy_Can(t *testing.T) {
	var p policy

	admin := Actor{UserID: 1, Role: models.RoleAdmin}
	teacher := Actor{UserID: 10, Role: models.RoleTeacher}
	student := Actor{UserID: 20, Role: models.RoleStudent}

	tests := []struct {
		name    string
		actor   Actor
		action  Action
		ownerID uint
		allowed bool
	}{
		{"admin can manage users", admin, ActionManageUsers, 0, true},
		{"teacher cannot manage users", teacher, ActionManageUsers, 0, false},
		{"student cannot manage users", student, ActionManageUsers, 0, false},

		{"teacher can create exams", teacher, ActionCreateExam, 0, true},
		{"student cannot create exams", student, ActionCreateExam, 0, false},

		{"teacher can edit own exam", teacher, ActionEditExam, 10, true},
		{"teacher cannot edit foreign exam", teacher, ActionEditExam, 99, false},
		{"admin can edit any exam", admin, ActionEditExam, 99, true},

		{"teacher can grade own exam's submissions", teacher, ActionGradeSubmission, 10, true},
		{"teacher cannot grade foreign submissions", teacher, ActionGradeSubmission, 99, false},
		{"student cannot grade", student, ActionGradeSubmission, 20, false},

		{"teacher can view own statistics", teacher, ActionViewStatistics, 10, true},
		{"teacher cannot view foreign statistics", teacher, ActionViewStatistics, 99, false},

		{"teacher can export own results", teacher, ActionExportResults, 10, true},
		{"teacher can send notifications", teacher, ActionSendNotification, 0, true},
		{"student cannot send notifications", student, ActionSendNotification, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Can(tt.actor, tt.action, tt.ownerID)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, IsForbidden(err))
			}
		})
	}
}
