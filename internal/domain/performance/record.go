package performance

import (
	"regexp"

	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// AdvisorPerformance aggregates an advisor's results for one calendar month.
// At most one record exists per (advisor, period) pair.
type AdvisorPerformance struct {
	ID              string
	AdvisorID       string
	Period          string // YYYY-MM
	PropertiesTaken int
	DealsClosed     int
	SalesTotal      decimal.Decimal
	CommissionTotal decimal.Decimal
	Notes           string
}

// NewAdvisorPerformance creates a performance record for an advisor and
// period
func NewAdvisorPerformance(advisorID, period string) (*AdvisorPerformance, error) {
	if advisorID == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Advisor ID cannot be empty")
	}
	if !periodPattern.MatchString(period) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Performance period must be formatted YYYY-MM")
	}

	return &AdvisorPerformance{
		ID:        uuid.NewString(),
		AdvisorID: advisorID,
		Period:    period,
	}, nil
}
