package deal

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ContractFilter narrows contract listings
type ContractFilter struct {
	State         *ContractState
	OperationType *string
	PropertyID    *string
	ClientCI      *string
	PlacedBy      *string
	Offset        int
	Limit         int
}

// ContractPatch carries editable contract fields; nil fields are left
// untouched. State transitions go through dedicated operations, never a patch.
type ContractPatch struct {
	StartDate    *time.Time
	EndDate      *time.Time
	PaymentMode  *string
	ClosingPrice *decimal.Decimal
	Notes        *string
}

// IsEmpty reports whether the patch carries no fields
func (p ContractPatch) IsEmpty() bool {
	return p.StartDate == nil && p.EndDate == nil && p.PaymentMode == nil &&
		p.ClosingPrice == nil && p.Notes == nil
}

// ContractRepository provides access to contract rows
type ContractRepository interface {
	FindByID(ctx context.Context, id string) (*Contract, error)
	List(ctx context.Context, filter ContractFilter) ([]Contract, error)
	Insert(ctx context.Context, contract *Contract) error
	Save(ctx context.Context, contract *Contract) error
	Update(ctx context.Context, id string, patch ContractPatch) (*Contract, error)
	Delete(ctx context.Context, id string) error
	CountByProperty(ctx context.Context, propertyID string) (int64, error)
	CountByClient(ctx context.Context, clientCI string) (int64, error)
}

// PaymentPatch carries editable payment fields; nil fields are left untouched
type PaymentPatch struct {
	Amount      *decimal.Decimal
	DueDate     *time.Time
	Installment *int
	Notes       *string
}

// IsEmpty reports whether the patch carries no fields
func (p PaymentPatch) IsEmpty() bool {
	return p.Amount == nil && p.DueDate == nil && p.Installment == nil && p.Notes == nil
}

// PaymentRepository provides access to payment rows
type PaymentRepository interface {
	FindByID(ctx context.Context, id string) (*Payment, error)
	ListByContract(ctx context.Context, contractID string) ([]Payment, error)
	Insert(ctx context.Context, payment *Payment) error
	Save(ctx context.Context, payment *Payment) error
	Update(ctx context.Context, id string, patch PaymentPatch) (*Payment, error)
	Delete(ctx context.Context, id string) error
	DeleteByContract(ctx context.Context, contractID string) error
	// ListLate returns pending payments whose due date precedes asOf
	ListLate(ctx context.Context, asOf time.Time) ([]Payment, error)
}

// AppointmentFilter narrows appointment listings
type AppointmentFilter struct {
	State      *AppointmentState
	PropertyID *string
	ClientCI   *string
	AdvisorID  *string
	From       *time.Time
	To         *time.Time
	Offset     int
	Limit      int
}

// AppointmentPatch carries editable visit fields; nil fields are left
// untouched
type AppointmentPatch struct {
	VisitAt  *time.Time
	Place    *string
	Note     *string
	Reminder *bool
}

// IsEmpty reports whether the patch carries no fields
func (p AppointmentPatch) IsEmpty() bool {
	return p.VisitAt == nil && p.Place == nil && p.Note == nil && p.Reminder == nil
}

// AppointmentRepository provides access to appointment rows
type AppointmentRepository interface {
	FindByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, filter AppointmentFilter) ([]Appointment, error)
	Insert(ctx context.Context, appointment *Appointment) error
	Save(ctx context.Context, appointment *Appointment) error
	Update(ctx context.Context, id string, patch AppointmentPatch) (*Appointment, error)
	Delete(ctx context.Context, id string) error
	CountByProperty(ctx context.Context, propertyID string) (int64, error)
	CountByClient(ctx context.Context, clientCI string) (int64, error)
}
