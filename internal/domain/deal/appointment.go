package deal

import (
	"time"

	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AppointmentState represents the lifecycle state of a property visit
type AppointmentState string

const (
	AppointmentStateScheduled AppointmentState = "SCHEDULED"
	AppointmentStateConfirmed AppointmentState = "CONFIRMED"
	AppointmentStateCompleted AppointmentState = "COMPLETED"
	AppointmentStateCancelled AppointmentState = "CANCELLED"
	AppointmentStateNoShow    AppointmentState = "NO_SHOW"
)

// IsValid checks if the state is a valid AppointmentState
func (s AppointmentState) IsValid() bool {
	switch s {
	case AppointmentStateScheduled, AppointmentStateConfirmed, AppointmentStateCompleted,
		AppointmentStateCancelled, AppointmentStateNoShow:
		return true
	}
	return false
}

// String returns the string representation of AppointmentState
func (s AppointmentState) String() string {
	return string(s)
}

// CanTransitionTo checks if the state can transition to the target state
func (s AppointmentState) CanTransitionTo(target AppointmentState) bool {
	switch s {
	case AppointmentStateScheduled:
		return target == AppointmentStateConfirmed || target == AppointmentStateCompleted ||
			target == AppointmentStateCancelled || target == AppointmentStateNoShow
	case AppointmentStateConfirmed:
		return target == AppointmentStateCompleted || target == AppointmentStateCancelled ||
			target == AppointmentStateNoShow
	case AppointmentStateCompleted, AppointmentStateCancelled, AppointmentStateNoShow:
		return false // Terminal states
	}
	return false
}

// Appointment represents a scheduled property visit between a client and an
// advisor
type Appointment struct {
	ID         string
	PropertyID string
	ClientCI   string
	AdvisorID  string
	VisitAt    time.Time
	Place      string
	Note       string
	Reminder   bool
	State      AppointmentState
	CreatedAt  time.Time
}

// NewAppointment schedules a new visit. The visit time must not be in the
// past relative to the given clock reading (UTC).
func NewAppointment(propertyID, clientCI, advisorID string, visitAt time.Time, place string, now time.Time) (*Appointment, error) {
	if propertyID == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Property ID cannot be empty")
	}
	if clientCI == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Client CI cannot be empty")
	}
	if advisorID == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Advisor ID cannot be empty")
	}
	if visitAt.Before(now) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Appointments cannot be scheduled in the past")
	}

	return &Appointment{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		ClientCI:   clientCI,
		AdvisorID:  advisorID,
		VisitAt:    visitAt,
		Place:      place,
		State:      AppointmentStateScheduled,
		CreatedAt:  now,
	}, nil
}

// TransitionTo moves the appointment to the target state
func (a *Appointment) TransitionTo(target AppointmentState) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Unknown appointment state "+target.String())
	}
	if !a.State.CanTransitionTo(target) {
		return shared.NewStateViolation("appointment", a.State.String(), target.String())
	}

	a.State = target
	return nil
}

// CanModify returns true if the visit details may still be edited
func (a *Appointment) CanModify() bool {
	return a.State == AppointmentStateScheduled || a.State == AppointmentStateConfirmed
}

// IsOnDay reports whether the visit falls on the given calendar day (UTC)
func (a *Appointment) IsOnDay(day time.Time) bool {
	y1, m1, d1 := a.VisitAt.UTC().Date()
	y2, m2, d2 := day.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
