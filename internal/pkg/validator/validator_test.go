package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsEmpty(c.input), "IsEmpty(%q)", c.input)
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // not v7
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"",
	}
	for _, id := range valid {
		assert.True(t, IsValidUUID(id), id)
	}
	for _, id := range invalid {
		assert.False(t, IsValidUUID(id), id)
	}
}

func TestIsValidDateAndMonth(t *testing.T) {
	_, ok := IsValidDate("2025-02-28")
	assert.True(t, ok)
	_, ok = IsValidDate("2025-02-30")
	assert.False(t, ok)
	_, ok = IsValidDate("2025-02")
	assert.False(t, ok)

	assert.True(t, IsValidMonth("2025-12"))
	assert.False(t, IsValidMonth("2025-13"))
	assert.False(t, IsValidMonth("2025-12-01"))
}

type sampleRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Month    string `json:"month" validate:"required,month"`
	Day      string `json:"day" validate:"omitempty,day"`
	Decision string `json:"decision" validate:"omitempty,oneof=APPROVED DENIED"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(&sampleRequest{UserID: "u1", Month: "2025-01"}))

	err := Struct(&sampleRequest{Month: "2025/01", Day: "yesterday", Decision: "MAYBE"})
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	m := verrs.ToMap()
	assert.Equal(t, "user_id is required", m["user_id"])
	assert.Equal(t, "must be a month in YYYY-MM format", m["month"])
	assert.Equal(t, "must be a date in YYYY-MM-DD format", m["day"])
	assert.Equal(t, "must be one of: APPROVED, DENIED", m["decision"])
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "name", Message: "is required"},
		{Field: "email", Message: "is invalid"},
	}
	assert.Equal(t, "name: is required; email: is invalid", errs.Error())
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "name", Message: "is required"},
		{Field: "email", Message: "is invalid"},
	}
	assert.Equal(t, map[string]string{"name": "is required", "email": "is invalid"}, errs.ToMap())
}
