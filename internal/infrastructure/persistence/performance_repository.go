package persistence

import (
	"context"

	"github.com/brokerage/backend/internal/domain/performance"
	"github.com/brokerage/backend/internal/domain/shared"
)

// PerformanceRepository persists advisor performance records through the
// store gateway
type PerformanceRepository struct {
	gateway shared.Gateway
}

// NewPerformanceRepository creates a gateway-backed performance repository
func NewPerformanceRepository(gateway shared.Gateway) *PerformanceRepository {
	return &PerformanceRepository{gateway: gateway}
}

func decodePerformance(row shared.Row) (*performance.AdvisorPerformance, error) {
	p := &performance.AdvisorPerformance{}
	var err error

	if p.ID, err = row.String("id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.AdvisorID, err = row.String("advisor_id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.Period, err = row.String("period"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.PropertiesTaken, err = row.Int("properties_taken"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.DealsClosed, err = row.Int("deals_closed"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.SalesTotal, err = row.Decimal("sales_total"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.CommissionTotal, err = row.Decimal("commission_total"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if row.Has("notes") {
		if p.Notes, err = row.String("notes"); err != nil {
			return nil, shared.NewUpstreamFailure(err)
		}
	}
	return p, nil
}

func encodePerformance(p *performance.AdvisorPerformance) shared.Row {
	return shared.Row{
		"id":               p.ID,
		"advisor_id":       p.AdvisorID,
		"period":           p.Period,
		"properties_taken": p.PropertiesTaken,
		"deals_closed":     p.DealsClosed,
		"sales_total":      shared.EncodeDecimal(p.SalesTotal),
		"commission_total": shared.EncodeDecimal(p.CommissionTotal),
		"notes":            p.Notes,
	}
}

// FindByID returns the performance record, or nil when it does not exist
func (r *PerformanceRepository) FindByID(ctx context.Context, id string) (*performance.AdvisorPerformance, error) {
	row, err := r.gateway.GetByKey(ctx, collectionPerformance, "id", id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodePerformance(row)
}

// FindByAdvisorPeriod returns the record for an advisor and period, or nil
func (r *PerformanceRepository) FindByAdvisorPeriod(ctx context.Context, advisorID, period string) (*performance.AdvisorPerformance, error) {
	rows, err := r.gateway.Filter(ctx, collectionPerformance, shared.Query{
		Predicates: []shared.Predicate{
			shared.Eq("advisor_id", advisorID),
			shared.Eq("period", period),
		},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return decodePerformance(rows[0])
}

// ListByAdvisor returns all records of an advisor, newest period first
func (r *PerformanceRepository) ListByAdvisor(ctx context.Context, advisorID string) ([]performance.AdvisorPerformance, error) {
	rows, err := r.gateway.Filter(ctx, collectionPerformance, shared.Query{
		Predicates: []shared.Predicate{shared.Eq("advisor_id", advisorID)},
		Order:      []shared.Order{{Field: "period", Desc: true}},
	})
	if err != nil {
		return nil, err
	}

	records := make([]performance.AdvisorPerformance, 0, len(rows))
	for _, row := range rows {
		p, err := decodePerformance(row)
		if err != nil {
			return nil, err
		}
		records = append(records, *p)
	}
	return records, nil
}

// Insert writes a new performance row
func (r *PerformanceRepository) Insert(ctx context.Context, record *performance.AdvisorPerformance) error {
	_, err := r.gateway.Insert(ctx, collectionPerformance, encodePerformance(record))
	return err
}

// Update patches the editable fields of a record and returns its new state,
// or nil when the record does not exist
func (r *PerformanceRepository) Update(ctx context.Context, id string, patch performance.RecordPatch) (*performance.AdvisorPerformance, error) {
	fields := shared.Row{}
	if patch.PropertiesTaken != nil {
		fields["properties_taken"] = *patch.PropertiesTaken
	}
	if patch.DealsClosed != nil {
		fields["deals_closed"] = *patch.DealsClosed
	}
	if patch.SalesTotal != nil {
		fields["sales_total"] = shared.EncodeDecimal(*patch.SalesTotal)
	}
	if patch.CommissionTotal != nil {
		fields["commission_total"] = shared.EncodeDecimal(*patch.CommissionTotal)
	}
	if patch.Notes != nil {
		fields["notes"] = *patch.Notes
	}

	row, err := r.gateway.Update(ctx, collectionPerformance, "id", id, fields)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodePerformance(row)
}

// Delete removes the performance row
func (r *PerformanceRepository) Delete(ctx context.Context, id string) error {
	row, err := r.gateway.Delete(ctx, collectionPerformance, "id", id)
	if err != nil {
		return err
	}
	if row == nil {
		return shared.NewNotFound("performance record", id)
	}
	return nil
}
