package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	BookingDate string  `json:"booking_date" validate:"required,date"`
	StartTime   string  `json:"start_time" validate:"required,clock"`
	Duration    float64 `json:"duration_hours" validate:"gt=0,lte=24"`
	Type        string  `json:"export_type" validate:"omitempty,oneof=full bookings consents"`
}

func TestStructValid(t *testing.T) {
	err := Struct(sampleRequest{
		Email:       "parent@example.com",
		BookingDate: "2026-11-02",
		StartTime:   "18:30",
		Duration:    3,
	})
	assert.NoError(t, err)
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(sampleRequest{
		Email:       "nope",
		BookingDate: "02/11/2026",
		StartTime:   "25:00",
		Duration:    0,
		Type:        "partial",
	})
	require.Error(t, err)

	fields, ok := err.(FieldErrors)
	require.True(t, ok)
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be a date (YYYY-MM-DD)", fields["booking_date"])
	assert.Equal(t, "must be a time (HH:MM)", fields["start_time"])
	assert.Equal(t, "must be greater than 0", fields["duration_hours"])
	assert.Contains(t, fields["export_type"], "full bookings consents")
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("parent@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("Sam Parent <parent@example.com>"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@example.com"))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"long enough", "correct horse battery", false},
		{"too short", "short", true},
		{"common pattern", "mypassword12345", true},
		{"site name", "LittleSteps2026!", true},
		{"over bcrypt limit", strings.Repeat("x", 73), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName(" Sam Parent "))
	assert.Error(t, ValidateName("   "))
}
