package deal

import (
	"time"

	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentState represents the lifecycle state of a contract payment
type PaymentState string

const (
	PaymentStatePending   PaymentState = "PENDING"
	PaymentStatePaid      PaymentState = "PAID"
	PaymentStateLate      PaymentState = "LATE"
	PaymentStateCancelled PaymentState = "CANCELLED"
)

// IsValid checks if the state is a valid PaymentState
func (s PaymentState) IsValid() bool {
	switch s {
	case PaymentStatePending, PaymentStatePaid, PaymentStateLate, PaymentStateCancelled:
		return true
	}
	return false
}

// String returns the string representation of PaymentState
func (s PaymentState) String() string {
	return string(s)
}

// CanTransitionTo checks if the state can transition to the target state.
// Late payments can still be settled or cancelled; Paid and Cancelled are
// terminal.
func (s PaymentState) CanTransitionTo(target PaymentState) bool {
	switch s {
	case PaymentStatePending:
		return target == PaymentStatePaid || target == PaymentStateLate || target == PaymentStateCancelled
	case PaymentStateLate:
		return target == PaymentStatePaid || target == PaymentStateCancelled
	case PaymentStatePaid, PaymentStateCancelled:
		return false // Terminal states
	}
	return false
}

// Payment represents a scheduled or settled payment under a contract
type Payment struct {
	ID          string
	ContractID  string
	Amount      decimal.Decimal
	DueDate     time.Time
	State       PaymentState
	Installment *int
	PaidAt      *time.Time
	Notes       string
}

// NewPayment creates a new pending payment under the given contract
func NewPayment(contractID string, amount decimal.Decimal, dueDate time.Time, installment *int) (*Payment, error) {
	if contractID == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Contract ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Payment amount must be positive")
	}
	if installment != nil && *installment <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Payment installment must be positive")
	}

	return &Payment{
		ID:          uuid.NewString(),
		ContractID:  contractID,
		Amount:      amount,
		DueDate:     dueDate,
		State:       PaymentStatePending,
		Installment: installment,
	}, nil
}

// TransitionTo moves the payment to the target state, stamping the settlement
// time on Paid
func (p *Payment) TransitionTo(target PaymentState, now time.Time) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Unknown payment state "+target.String())
	}
	if !p.State.CanTransitionTo(target) {
		return shared.NewStateViolation("payment", p.State.String(), target.String())
	}

	p.State = target
	if target == PaymentStatePaid {
		p.PaidAt = &now
	}
	return nil
}

// IsLateAsOf reports whether the payment reads as late at the given date: it
// is still pending and its due date has passed. Lateness is a read-time view,
// never written back automatically.
func (p *Payment) IsLateAsOf(today time.Time) bool {
	return p.State == PaymentStatePending && p.DueDate.Before(today)
}

// CountsTowardLedger reports whether the payment amount counts against the
// contract's closing price. Cancelled payments do not.
func (p *Payment) CountsTowardLedger() bool {
	return p.State != PaymentStateCancelled
}

// CanDelete returns true if the payment may be deleted. Settled payments are
// part of the financial record and stay.
func (p *Payment) CanDelete() bool {
	return p.State != PaymentStatePaid
}
