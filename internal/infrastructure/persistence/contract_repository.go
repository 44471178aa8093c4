package persistence

import (
	"context"

	"github.com/brokerage/backend/internal/domain/deal"
	"github.com/brokerage/backend/internal/domain/listing"
	"github.com/brokerage/backend/internal/domain/shared"
)

// ContractRepository persists contracts through the store gateway
type ContractRepository struct {
	gateway shared.Gateway
}

// NewContractRepository creates a gateway-backed contract repository
func NewContractRepository(gateway shared.Gateway) *ContractRepository {
	return &ContractRepository{gateway: gateway}
}

func decodeContract(row shared.Row) (*deal.Contract, error) {
	c := &deal.Contract{}
	var err error

	if c.ID, err = row.String("id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if c.PropertyID, err = row.String("property_id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if c.ClientCI, err = row.String("client_ci"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if c.PlacedBy, err = row.String("placed_by"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	operation, err := row.String("operation_type")
	if err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	c.OperationType = listing.OperationType(operation)

	state, err := row.String("state")
	if err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	c.State = deal.ContractState(state)

	if c.StartDate, err = row.Date("start_date"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if c.EndDate, err = row.OptDate("end_date"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if row.Has("payment_mode") {
		if c.PaymentMode, err = row.String("payment_mode"); err != nil {
			return nil, shared.NewUpstreamFailure(err)
		}
	}
	if c.ClosingPrice, err = row.Decimal("closing_price"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if c.ClosingDate, err = row.OptDate("closing_date"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if row.Has("notes") {
		if c.Notes, err = row.String("notes"); err != nil {
			return nil, shared.NewUpstreamFailure(err)
		}
	}
	return c, nil
}

func encodeContract(c *deal.Contract) shared.Row {
	row := shared.Row{
		"id":             c.ID,
		"property_id":    c.PropertyID,
		"client_ci":      c.ClientCI,
		"placed_by":      c.PlacedBy,
		"operation_type": c.OperationType.String(),
		"state":          c.State.String(),
		"start_date":     shared.EncodeDate(c.StartDate),
		"payment_mode":   c.PaymentMode,
		"closing_price":  shared.EncodeDecimal(c.ClosingPrice),
		"notes":          c.Notes,
	}
	if c.EndDate != nil {
		row["end_date"] = shared.EncodeDate(*c.EndDate)
	}
	if c.ClosingDate != nil {
		row["closing_date"] = shared.EncodeDate(*c.ClosingDate)
	}
	return row
}

// FindByID returns the contract, or nil when it does not exist
func (r *ContractRepository) FindByID(ctx context.Context, id string) (*deal.Contract, error) {
	row, err := r.gateway.GetByKey(ctx, collectionContracts, "id", id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodeContract(row)
}

// List returns contracts matching the filter, newest start dates first
func (r *ContractRepository) List(ctx context.Context, filter deal.ContractFilter) ([]deal.Contract, error) {
	q := shared.Query{
		Order:  []shared.Order{{Field: "start_date", Desc: true}},
		Offset: filter.Offset,
		Limit:  filter.Limit,
	}
	if filter.State != nil {
		q.Predicates = append(q.Predicates, shared.Eq("state", filter.State.String()))
	}
	if filter.OperationType != nil {
		q.Predicates = append(q.Predicates, shared.Eq("operation_type", *filter.OperationType))
	}
	if filter.PropertyID != nil {
		q.Predicates = append(q.Predicates, shared.Eq("property_id", *filter.PropertyID))
	}
	if filter.ClientCI != nil {
		q.Predicates = append(q.Predicates, shared.Eq("client_ci", *filter.ClientCI))
	}
	if filter.PlacedBy != nil {
		q.Predicates = append(q.Predicates, shared.Eq("placed_by", *filter.PlacedBy))
	}

	rows, err := r.gateway.Filter(ctx, collectionContracts, q)
	if err != nil {
		return nil, err
	}

	contracts := make([]deal.Contract, 0, len(rows))
	for _, row := range rows {
		c, err := decodeContract(row)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, *c)
	}
	return contracts, nil
}

// Insert writes a new contract row
func (r *ContractRepository) Insert(ctx context.Context, contract *deal.Contract) error {
	_, err := r.gateway.Insert(ctx, collectionContracts, encodeContract(contract))
	return err
}

// Save writes the full contract state back to its row
func (r *ContractRepository) Save(ctx context.Context, contract *deal.Contract) error {
	row := encodeContract(contract)
	delete(row, "id")

	updated, err := r.gateway.Update(ctx, collectionContracts, "id", contract.ID, row)
	if err != nil {
		return err
	}
	if updated == nil {
		return shared.NewNotFound("contract", contract.ID)
	}
	return nil
}

// Update patches the editable fields of a contract and returns its new
// state, or nil when the contract does not exist
func (r *ContractRepository) Update(ctx context.Context, id string, patch deal.ContractPatch) (*deal.Contract, error) {
	fields := shared.Row{}
	if patch.StartDate != nil {
		fields["start_date"] = shared.EncodeDate(*patch.StartDate)
	}
	if patch.EndDate != nil {
		fields["end_date"] = shared.EncodeDate(*patch.EndDate)
	}
	if patch.PaymentMode != nil {
		fields["payment_mode"] = *patch.PaymentMode
	}
	if patch.ClosingPrice != nil {
		fields["closing_price"] = shared.EncodeDecimal(*patch.ClosingPrice)
	}
	if patch.Notes != nil {
		fields["notes"] = *patch.Notes
	}

	row, err := r.gateway.Update(ctx, collectionContracts, "id", id, fields)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodeContract(row)
}

// Delete removes the contract row
func (r *ContractRepository) Delete(ctx context.Context, id string) error {
	row, err := r.gateway.Delete(ctx, collectionContracts, "id", id)
	if err != nil {
		return err
	}
	if row == nil {
		return shared.NewNotFound("contract", id)
	}
	return nil
}

// CountByProperty returns how many contracts reference the property
func (r *ContractRepository) CountByProperty(ctx context.Context, propertyID string) (int64, error) {
	return r.gateway.Count(ctx, collectionContracts, []shared.Predicate{shared.Eq("property_id", propertyID)})
}

// CountByClient returns how many contracts reference the client
func (r *ContractRepository) CountByClient(ctx context.Context, clientCI string) (int64, error) {
	return r.gateway.Count(ctx, collectionContracts, []shared.Predicate{shared.Eq("client_ci", clientCI)})
}
