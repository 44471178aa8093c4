package performance

import (
	"context"

	"github.com/shopspring/decimal"
)

// RecordPatch carries editable performance fields; nil fields are left
// untouched
type RecordPatch struct {
	PropertiesTaken *int
	DealsClosed     *int
	SalesTotal      *decimal.Decimal
	CommissionTotal *decimal.Decimal
	Notes           *string
}

// IsEmpty reports whether the patch carries no fields
func (p RecordPatch) IsEmpty() bool {
	return p.PropertiesTaken == nil && p.DealsClosed == nil && p.SalesTotal == nil &&
		p.CommissionTotal == nil && p.Notes == nil
}

// Repository provides access to advisor performance rows
type Repository interface {
	FindByID(ctx context.Context, id string) (*AdvisorPerformance, error)
	FindByAdvisorPeriod(ctx context.Context, advisorID, period string) (*AdvisorPerformance, error)
	ListByAdvisor(ctx context.Context, advisorID string) ([]AdvisorPerformance, error)
	Insert(ctx context.Context, record *AdvisorPerformance) error
	Update(ctx context.Context, id string, patch RecordPatch) (*AdvisorPerformance, error)
	Delete(ctx context.Context, id string) error
}
