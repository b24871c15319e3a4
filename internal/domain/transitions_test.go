package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{StatusScheduled, StatusConfirmed, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusNoShow, true},
		{StatusScheduled, StatusInProgress, false},
		{StatusScheduled, StatusCompleted, false},

		{StatusConfirmed, StatusInProgress, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusCompleted, false},
		{StatusConfirmed, StatusScheduled, false},

		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusNoShow, false},
		{StatusInProgress, StatusScheduled, false},

		// Терминальные статусы: никаких исходящих переходов
		{StatusCompleted, StatusScheduled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusScheduled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusNoShow, StatusScheduled, false},
		{StatusRescheduled, StatusScheduled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanTransition_SameStatus(t *testing.T) {
	statuses := []AppointmentStatus{
		StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow, StatusRescheduled,
	}

	for _, s := range statuses {
		assert.True(t, CanTransition(s, s), "transition %s -> %s must be a no-op", s, s)
	}
}

func TestValidateTransition(t *testing.T) {
	assert.NoError(t, ValidateTransition(StatusScheduled, StatusConfirmed))

	err := ValidateTransition(StatusCompleted, StatusScheduled)
	require.Error(t, err)

	var transitionErr *IllegalTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, StatusCompleted, transitionErr.From)
	assert.Equal(t, StatusScheduled, transitionErr.To)
	assert.Contains(t, err.Error(), "completed")
	assert.Contains(t, err.Error(), "scheduled")
}
