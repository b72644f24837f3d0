package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/examhub/exam-service/internal/errors"
	"github.com/examhub/exam-service/internal/models"
)

// Validator wraps a configured go-playground validator instance with the
// service's custom validation rules registered.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with all custom validators registered.
func NewValidator() *Validator {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return &Validator{validate: validate}
}

// Validate validates struct tags on the given value. Tag failures are
// converted to field-level ValidationErrors for the HTTP layer.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
		return converted
	}
	return err
}

// Custom validation functions

func ValidateQuestionType(fl validator.FieldLevel) bool {
	validTypes := []models.QuestionType{
		models.MultipleChoice,
		models.SingleChoice,
		models.TrueFalse,
		models.Essay,
		models.Matching,
		models.FillInBlank,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func ValidateUserRole(fl validator.FieldLevel) bool {
	validRoles := []models.UserRole{
		models.RoleAdmin,
		models.RoleTeacher,
		models.RoleStudent,
	}

	value := fl.Field().String()
	for _, validRole := range validRoles {
		if string(validRole) == value {
			return true
		}
	}
	return false
}

func ValidateExamStatus(fl validator.FieldLevel) bool {
	validStatuses := []models.ExamStatus{
		models.ExamStatusDraft,
		models.ExamStatusPublished,
		models.ExamStatusActive,
		models.ExamStatusCompleted,
		models.ExamStatusArchived,
	}

	value := fl.Field().String()
	for _, validStatus := range validStatuses {
		if string(validStatus) == value {
			return true
		}
	}
	return false
}

func ValidateExamType(fl validator.FieldLevel) bool {
	validTypes := []models.ExamType{
		models.ExamTypeQuiz,
		models.ExamTypeTest,
		models.ExamTypeExam,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", ValidateQuestionType)
	validate.RegisterValidation("user_role", ValidateUserRole)
	validate.RegisterValidation("exam_status", ValidateExamStatus)
	validate.RegisterValidation("exam_type", ValidateExamType)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
