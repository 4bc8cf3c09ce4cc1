package dtos

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type sampleGuest struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
}

func TestFromValidationErrors(t *testing.T) {
	err := validator.New().Struct(sampleGuest{Email: "nope"})
	require.Error(t, err)

	details := FromValidationErrors(err.(validator.ValidationErrors))
	require.Len(t, details, 2)
	require.Equal(t, "Name", details[0].Field)
	require.Equal(t, "validation_required", details[0].Code)
	require.Equal(t, "Email", details[1].Field)
	require.Equal(t, "validation_email", details[1].Code)
	require.Contains(t, details[1].Message, "valid email")
}
