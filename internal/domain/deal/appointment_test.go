package deal

import (
	"testing"
	"time"

	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppointment(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	visit := now.AddDate(0, 0, 2)

	t.Run("schedules future visit", func(t *testing.T) {
		appointment, err := NewAppointment("prop-1", "1234567", "adv-1", visit, "Front office", now)
		require.NoError(t, err)
		require.NotNil(t, appointment)

		assert.Equal(t, AppointmentStateScheduled, appointment.State)
		assert.Equal(t, "prop-1", appointment.PropertyID)
		assert.Equal(t, "1234567", appointment.ClientCI)
		assert.Equal(t, "adv-1", appointment.AdvisorID)
		assert.True(t, appointment.VisitAt.Equal(visit))
		assert.Equal(t, "Front office", appointment.Place)
		assert.NotEmpty(t, appointment.ID)
	})

	t.Run("rejects visit in the past", func(t *testing.T) {
		_, err := NewAppointment("prop-1", "1234567", "adv-1", now.Add(-time.Hour), "Front office", now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be scheduled in the past")
	})

	t.Run("accepts visit exactly at now", func(t *testing.T) {
		_, err := NewAppointment("prop-1", "1234567", "adv-1", now, "Front office", now)
		require.NoError(t, err)
	})

	t.Run("rejects empty references", func(t *testing.T) {
		_, err := NewAppointment("", "1234567", "adv-1", visit, "", now)
		require.Error(t, err)

		_, err = NewAppointment("prop-1", "", "adv-1", visit, "", now)
		require.Error(t, err)

		_, err = NewAppointment("prop-1", "1234567", "", visit, "", now)
		require.Error(t, err)
	})
}

func TestAppointmentStateTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    AppointmentState
		to      AppointmentState
		allowed bool
	}{
		{"scheduled to confirmed", AppointmentStateScheduled, AppointmentStateConfirmed, true},
		{"scheduled to completed", AppointmentStateScheduled, AppointmentStateCompleted, true},
		{"scheduled to cancelled", AppointmentStateScheduled, AppointmentStateCancelled, true},
		{"scheduled to no-show", AppointmentStateScheduled, AppointmentStateNoShow, true},
		{"confirmed to completed", AppointmentStateConfirmed, AppointmentStateCompleted, true},
		{"confirmed to cancelled", AppointmentStateConfirmed, AppointmentStateCancelled, true},
		{"confirmed to no-show", AppointmentStateConfirmed, AppointmentStateNoShow, true},
		{"confirmed to scheduled", AppointmentStateConfirmed, AppointmentStateScheduled, false},
		{"completed to cancelled", AppointmentStateCompleted, AppointmentStateCancelled, false},
		{"cancelled to confirmed", AppointmentStateCancelled, AppointmentStateConfirmed, false},
		{"no-show to completed", AppointmentStateNoShow, AppointmentStateCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestAppointmentTransitionTo(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	newScheduled := func(t *testing.T) *Appointment {
		appointment, err := NewAppointment("prop-1", "1234567", "adv-1", now.AddDate(0, 0, 1), "", now)
		require.NoError(t, err)
		return appointment
	}

	t.Run("confirms then completes", func(t *testing.T) {
		appointment := newScheduled(t)
		require.NoError(t, appointment.TransitionTo(AppointmentStateConfirmed))
		require.NoError(t, appointment.TransitionTo(AppointmentStateCompleted))
		assert.Equal(t, AppointmentStateCompleted, appointment.State)
	})

	t.Run("rejects transition from terminal state", func(t *testing.T) {
		appointment := newScheduled(t)
		require.NoError(t, appointment.TransitionTo(AppointmentStateCancelled))

		err := appointment.TransitionTo(AppointmentStateConfirmed)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeStateViolation))
	})

	t.Run("rejects unknown target state", func(t *testing.T) {
		appointment := newScheduled(t)
		err := appointment.TransitionTo(AppointmentState("POSTPONED"))
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
	})

	t.Run("modify window closes on terminal states", func(t *testing.T) {
		appointment := newScheduled(t)
		assert.True(t, appointment.CanModify())

		require.NoError(t, appointment.TransitionTo(AppointmentStateConfirmed))
		assert.True(t, appointment.CanModify())

		require.NoError(t, appointment.TransitionTo(AppointmentStateNoShow))
		assert.False(t, appointment.CanModify())
	})
}

func TestAppointmentIsOnDay(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	appointment, err := NewAppointment("prop-1", "1234567", "adv-1", time.Date(2026, 5, 12, 16, 30, 0, 0, time.UTC), "", now)
	require.NoError(t, err)

	assert.True(t, appointment.IsOnDay(time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)))
	assert.True(t, appointment.IsOnDay(time.Date(2026, 5, 12, 23, 59, 0, 0, time.UTC)))
	assert.False(t, appointment.IsOnDay(time.Date(2026, 5, 11, 23, 59, 0, 0, time.UTC)))
}
