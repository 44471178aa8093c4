package deal

import (
	"time"

	"github.com/brokerage/backend/internal/domain/deal"
	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateContractRequest opens a draft contract over a property
type CreateContractRequest struct {
	PropertyID   string           `json:"property_id" binding:"required"`
	ClientCI     string           `json:"client_ci" binding:"required"`
	StartDate    string           `json:"start_date" binding:"required,dateonly"` // 2006-01-02
	EndDate      *string          `json:"end_date"`
	PaymentMode  string           `json:"payment_mode"`
	ClosingPrice decimal.Decimal  `json:"closing_price" binding:"required"`
	Notes        string           `json:"notes"`
}

// UpdateContractRequest carries the patchable contract fields
type UpdateContractRequest struct {
	StartDate    *string          `json:"start_date"`
	EndDate      *string          `json:"end_date"`
	PaymentMode  *string          `json:"payment_mode"`
	ClosingPrice *decimal.Decimal `json:"closing_price"`
	Notes        *string          `json:"notes"`
}

// ListContractsRequest narrows the contract listing
type ListContractsRequest struct {
	State         *string `form:"state"`
	OperationType *string `form:"operation_type"`
	PropertyID    *string `form:"property_id"`
	ClientCI      *string `form:"client_ci"`
	PlacedBy      *string `form:"placed_by"`
	Offset        int     `form:"offset"`
	Limit         int     `form:"limit"`
}

// ContractResponse is the outward shape of a contract
type ContractResponse struct {
	ID            string          `json:"id"`
	PropertyID    string          `json:"property_id"`
	ClientCI      string          `json:"client_ci"`
	PlacedBy      string          `json:"placed_by"`
	OperationType string          `json:"operation_type"`
	State         string          `json:"state"`
	StartDate     string          `json:"start_date"`
	EndDate       *string         `json:"end_date,omitempty"`
	PaymentMode   string          `json:"payment_mode,omitempty"`
	ClosingPrice  decimal.Decimal `json:"closing_price"`
	ClosingDate   *string         `json:"closing_date,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// ContractSummaryResponse carries a contract with its payment ledger totals
type ContractSummaryResponse struct {
	Contract      ContractResponse  `json:"contract"`
	PropertyTitle string            `json:"property_title"`
	ClientName    string            `json:"client_name"`
	Payments      []PaymentResponse `json:"payments"`
	TotalDue      decimal.Decimal   `json:"total_due"`
	TotalPaid     decimal.Decimal   `json:"total_paid"`
	TotalPending  decimal.Decimal   `json:"total_pending"`
	Balance       decimal.Decimal   `json:"balance"` // closing price minus ledger total
	PercentPaid   decimal.Decimal   `json:"percent_paid"`
}

// RegisterPaymentRequest schedules a payment under a contract
type RegisterPaymentRequest struct {
	ContractID  string          `json:"contract_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	DueDate     string          `json:"due_date" binding:"required,dateonly"` // 2006-01-02
	Installment *int            `json:"installment"`
	Notes       string          `json:"notes"`
}

// UpdatePaymentRequest carries the patchable payment fields
type UpdatePaymentRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	DueDate     *string          `json:"due_date"`
	Installment *int             `json:"installment"`
	Notes       *string          `json:"notes"`
}

// TransitionPaymentRequest moves a payment to a new state
type TransitionPaymentRequest struct {
	State string `json:"state" binding:"required"`
}

// PaymentResponse is the outward shape of a payment
type PaymentResponse struct {
	ID          string          `json:"id"`
	ContractID  string          `json:"contract_id"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date"`
	State       string          `json:"state"`
	Installment *int            `json:"installment,omitempty"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Late        bool            `json:"late"`
}

// CreateAppointmentRequest schedules a property visit
type CreateAppointmentRequest struct {
	PropertyID string    `json:"property_id" binding:"required"`
	ClientCI   string    `json:"client_ci" binding:"required"`
	VisitAt    time.Time `json:"visit_at" binding:"required"`
	Place      string    `json:"place"`
	Note       string    `json:"note"`
	Reminder   bool      `json:"reminder"`
}

// UpdateAppointmentRequest carries the patchable visit fields
type UpdateAppointmentRequest struct {
	VisitAt  *time.Time `json:"visit_at"`
	Place    *string    `json:"place"`
	Note     *string    `json:"note"`
	Reminder *bool      `json:"reminder"`
}

// TransitionAppointmentRequest moves an appointment to a new state
type TransitionAppointmentRequest struct {
	State string `json:"state" binding:"required"`
}

// ListAppointmentsRequest narrows the appointment listing
type ListAppointmentsRequest struct {
	State      *string    `form:"state"`
	PropertyID *string    `form:"property_id"`
	ClientCI   *string    `form:"client_ci"`
	AdvisorID  *string    `form:"advisor_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To         *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Offset     int        `form:"offset"`
	Limit      int        `form:"limit"`
}

// AppointmentResponse is the outward shape of an appointment
type AppointmentResponse struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	ClientCI   string    `json:"client_ci"`
	AdvisorID  string    `json:"advisor_id"`
	VisitAt    time.Time `json:"visit_at"`
	Place      string    `json:"place,omitempty"`
	Note       string    `json:"note,omitempty"`
	Reminder   bool      `json:"reminder"`
	State      string    `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
}

// TodayDigestResponse is an advisor's agenda for the current day
type TodayDigestResponse struct {
	Total        int                   `json:"total"`
	ByState      map[string]int        `json:"by_state"`
	Appointments []AppointmentResponse `json:"appointments"`
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(shared.DateLayout, value)
	if err != nil {
		return time.Time{}, shared.NewDomainError(shared.CodeInvalidInput, "Dates must use the YYYY-MM-DD format")
	}
	return t, nil
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseDate(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t time.Time) string {
	return t.Format(shared.DateLayout)
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(shared.DateLayout)
	return &s
}

func toContractResponse(c *deal.Contract) *ContractResponse {
	return &ContractResponse{
		ID:            c.ID,
		PropertyID:    c.PropertyID,
		ClientCI:      c.ClientCI,
		PlacedBy:      c.PlacedBy,
		OperationType: c.OperationType.String(),
		State:         c.State.String(),
		StartDate:     formatDate(c.StartDate),
		EndDate:       formatOptionalDate(c.EndDate),
		PaymentMode:   c.PaymentMode,
		ClosingPrice:  c.ClosingPrice,
		ClosingDate:   formatOptionalDate(c.ClosingDate),
		Notes:         c.Notes,
	}
}

func toPaymentResponse(p *deal.Payment, asOf time.Time) *PaymentResponse {
	return &PaymentResponse{
		ID:          p.ID,
		ContractID:  p.ContractID,
		Amount:      p.Amount,
		DueDate:     formatDate(p.DueDate),
		State:       p.State.String(),
		Installment: p.Installment,
		PaidAt:      p.PaidAt,
		Notes:       p.Notes,
		Late:        p.IsLateAsOf(asOf),
	}
}

func toAppointmentResponse(a *deal.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:         a.ID,
		PropertyID: a.PropertyID,
		ClientCI:   a.ClientCI,
		AdvisorID:  a.AdvisorID,
		VisitAt:    a.VisitAt,
		Place:      a.Place,
		Note:       a.Note,
		Reminder:   a.Reminder,
		State:      a.State.String(),
		CreatedAt:  a.CreatedAt,
	}
}
