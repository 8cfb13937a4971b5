package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTimeOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"10:00", "10:00:00", true},
		{"09:05", "09:05:00", true},
		{"10:00:30", "10:00:30", true},
		{"00:00", "00:00:00", true},
		{"23:59", "23:59:00", true},
		{"24:00", "", false},
		{"10:60", "", false},
		{"10", "", false},
		{"10:0", "", false},
		{"", "", false},
		{"ten o'clock", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeTimeOfDay(tt.in)
		assert.Equalf(t, tt.ok, ok, "input %q", tt.in)
		assert.Equalf(t, tt.want, got, "input %q", tt.in)
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "booking_date", Message: "is required"},
		{Field: "end_time", Message: "must be after start_time"},
	}
	assert.Equal(t, "validation failed: booking_date: is required; end_time: must be after start_time", errs.Error())
	assert.Equal(t, "validation failed", ValidationErrors{}.Error())
}

func TestValidatorUsesJSONFieldNames(t *testing.T) {
	v := NewValidator()
	errs := v.Struct(CreateBookingInput{})
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	assert.True(t, fields["booking_date"])
	assert.True(t, fields["start_time"])
	assert.False(t, fields["BookingDate"])
}
