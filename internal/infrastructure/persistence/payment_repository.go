package persistence

import (
	"context"
	"time"

	"github.com/brokerage/backend/internal/domain/deal"
	"github.com/brokerage/backend/internal/domain/shared"
)

// PaymentRepository persists payments through the store gateway
type PaymentRepository struct {
	gateway shared.Gateway
}

// NewPaymentRepository creates a gateway-backed payment repository
func NewPaymentRepository(gateway shared.Gateway) *PaymentRepository {
	return &PaymentRepository{gateway: gateway}
}

func decodePayment(row shared.Row) (*deal.Payment, error) {
	p := &deal.Payment{}
	var err error

	if p.ID, err = row.String("id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.ContractID, err = row.String("contract_id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.Amount, err = row.Decimal("amount"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.DueDate, err = row.Date("due_date"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	state, err := row.String("state")
	if err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	p.State = deal.PaymentState(state)

	if p.Installment, err = row.OptInt("installment"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.PaidAt, err = row.OptTime("paid_at"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if row.Has("notes") {
		if p.Notes, err = row.String("notes"); err != nil {
			return nil, shared.NewUpstreamFailure(err)
		}
	}
	return p, nil
}

func encodePayment(p *deal.Payment) shared.Row {
	row := shared.Row{
		"id":          p.ID,
		"contract_id": p.ContractID,
		"amount":      shared.EncodeDecimal(p.Amount),
		"due_date":    shared.EncodeDate(p.DueDate),
		"state":       p.State.String(),
		"notes":       p.Notes,
	}
	if p.Installment != nil {
		row["installment"] = *p.Installment
	}
	if p.PaidAt != nil {
		row["paid_at"] = shared.EncodeTime(*p.PaidAt)
	}
	return row
}

// FindByID returns the payment, or nil when it does not exist
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*deal.Payment, error) {
	row, err := r.gateway.GetByKey(ctx, collectionPayments, "id", id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodePayment(row)
}

// ListByContract returns all payments of a contract ordered by due date
func (r *PaymentRepository) ListByContract(ctx context.Context, contractID string) ([]deal.Payment, error) {
	rows, err := r.gateway.Filter(ctx, collectionPayments, shared.Query{
		Predicates: []shared.Predicate{shared.Eq("contract_id", contractID)},
		Order:      []shared.Order{{Field: "due_date"}},
	})
	if err != nil {
		return nil, err
	}
	return decodePayments(rows)
}

func decodePayments(rows []shared.Row) ([]deal.Payment, error) {
	payments := make([]deal.Payment, 0, len(rows))
	for _, row := range rows {
		p, err := decodePayment(row)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, nil
}

// Insert writes a new payment row
func (r *PaymentRepository) Insert(ctx context.Context, payment *deal.Payment) error {
	_, err := r.gateway.Insert(ctx, collectionPayments, encodePayment(payment))
	return err
}

// Save writes the full payment state back to its row
func (r *PaymentRepository) Save(ctx context.Context, payment *deal.Payment) error {
	row := encodePayment(payment)
	delete(row, "id")

	updated, err := r.gateway.Update(ctx, collectionPayments, "id", payment.ID, row)
	if err != nil {
		return err
	}
	if updated == nil {
		return shared.NewNotFound("payment", payment.ID)
	}
	return nil
}

// Update patches the editable fields of a payment and returns its new state,
// or nil when the payment does not exist
func (r *PaymentRepository) Update(ctx context.Context, id string, patch deal.PaymentPatch) (*deal.Payment, error) {
	fields := shared.Row{}
	if patch.Amount != nil {
		fields["amount"] = shared.EncodeDecimal(*patch.Amount)
	}
	if patch.DueDate != nil {
		fields["due_date"] = shared.EncodeDate(*patch.DueDate)
	}
	if patch.Installment != nil {
		fields["installment"] = *patch.Installment
	}
	if patch.Notes != nil {
		fields["notes"] = *patch.Notes
	}

	row, err := r.gateway.Update(ctx, collectionPayments, "id", id, fields)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodePayment(row)
}

// Delete removes the payment row
func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	row, err := r.gateway.Delete(ctx, collectionPayments, "id", id)
	if err != nil {
		return err
	}
	if row == nil {
		return shared.NewNotFound("payment", id)
	}
	return nil
}

// DeleteByContract removes every payment of a contract, one row at a time
func (r *PaymentRepository) DeleteByContract(ctx context.Context, contractID string) error {
	rows, err := r.gateway.Filter(ctx, collectionPayments, shared.Query{
		Predicates: []shared.Predicate{shared.Eq("contract_id", contractID)},
	})
	if err != nil {
		return err
	}

	for _, row := range rows {
		id, err := row.String("id")
		if err != nil {
			return shared.NewUpstreamFailure(err)
		}
		if _, err := r.gateway.Delete(ctx, collectionPayments, "id", id); err != nil {
			return err
		}
	}
	return nil
}

// ListLate returns pending payments whose due date precedes asOf. Lateness
// is computed at read time; the stored state stays Pending.
func (r *PaymentRepository) ListLate(ctx context.Context, asOf time.Time) ([]deal.Payment, error) {
	rows, err := r.gateway.Filter(ctx, collectionPayments, shared.Query{
		Predicates: []shared.Predicate{
			shared.Eq("state", deal.PaymentStatePending.String()),
			shared.Lt("due_date", shared.EncodeDate(asOf)),
		},
		Order: []shared.Order{{Field: "due_date"}},
	})
	if err != nil {
		return nil, err
	}
	return decodePayments(rows)
}
