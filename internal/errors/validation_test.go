package errors

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var ve ValidationErrors
		assert.Equal(t, "validation failed", ve.Error())
	})

	t.Run("single error", func(t *testing.T) {
		ve := ValidationErrors{{Field: "username", Message: "is required"}}
		assert.Equal(t, "validation failed: username is required", ve.Error())
	})

	t.Run("multiple errors", func(t *testing.T) {
		ve := ValidationErrors{
			{Field: "username", Message: "is required"},
			{Field: "email", Message: "must be a valid email address"},
		}
		assert.Equal(t, "validation failed: 2 field errors", ve.Error())
	})
}

func TestToValidationErrors(t *testing.T) {
	type loginRequest struct {
		Username string `validate:"required"`
		Email    string `validate:"required,email"`
	}

	validate := validator.New()
	err := validate.Struct(loginRequest{Email: "not-an-email"})
	assert.Error(t, err)

	ve := ToValidationErrors(err)
	assert.Len(t, ve, 2)
	assert.Equal(t, "Username", ve[0].Field)
	assert.Equal(t, "is required", ve[0].Message)
	assert.Equal(t, "must be a valid email address", ve[1].Message)
}

func TestToValidationErrors_NonValidatorError(t *testing.T) {
	ve := ToValidationErrors(assert.AnError)
	assert.Empty(t, ve)
}
