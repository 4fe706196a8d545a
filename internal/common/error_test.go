package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_IsErrValidation(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{{Field: "email", Message: "must be a valid email"}}}

	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", err), ErrValidation))
	assert.False(t, errors.Is(err, ErrDuplicateUser))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "email", Message: "is required"},
		{Field: "password", Message: "must be at least 6 characters"},
	}}
	assert.Equal(t, "validation failed: email: is required; password: must be at least 6 characters", err.Error())

	empty := &ValidationError{}
	assert.Equal(t, "validation failed", empty.Error())
}

func TestValidationError_As(t *testing.T) {
	var target *ValidationError
	err := fmt.Errorf("signup: %w", &ValidationError{Fields: []FieldError{{Field: "name", Message: "is required"}}})

	if assert.True(t, errors.As(err, &target)) {
		assert.Len(t, target.Fields, 1)
		assert.Equal(t, "name", target.Fields[0].Field)
	}
}
