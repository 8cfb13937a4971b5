package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"identical intervals", "10:00:00", "11:00:00", "10:00:00", "11:00:00", true},
		{"contained", "10:15:00", "10:45:00", "10:00:00", "11:00:00", true},
		{"partial left", "09:30:00", "10:30:00", "10:00:00", "11:00:00", true},
		{"partial right", "10:30:00", "11:30:00", "10:00:00", "11:00:00", true},
		{"touching end-to-start", "09:00:00", "10:00:00", "10:00:00", "11:00:00", false},
		{"touching start-to-end", "11:00:00", "12:00:00", "10:00:00", "11:00:00", false},
		{"disjoint before", "08:00:00", "09:00:00", "10:00:00", "11:00:00", false},
		{"disjoint after", "12:00:00", "13:00:00", "10:00:00", "11:00:00", false},
		{"one minute overlap", "10:59:00", "12:00:00", "10:00:00", "11:00:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]string]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCompleted}: true,
		{StatusConfirmed, StatusCancelled}: true,
	}
	statuses := []string{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}
	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]string{from, to}]
			assert.Equalf(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionTerminalStates(t *testing.T) {
	for _, from := range []string{StatusCompleted, StatusCancelled} {
		for _, to := range []string{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled} {
			assert.Falsef(t, CanTransition(from, to), "%s must be terminal", from)
		}
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusCancelled))
	assert.False(t, ValidStatus("deleted"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("Pending"))
}
