package partner

import (
	"time"

	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Client represents a prospective buyer or tenant, keyed by national
// identity card (CI, unique)
type Client struct {
	CI            string
	FirstNames    string
	LastNames     string
	Phone         string
	Email         string
	PreferredZone string
	MaxBudget     *decimal.Decimal
	Origin        string // how the client reached the brokerage
	RegisteredBy  string // advisor who registered the client
	RegisteredAt  time.Time
}

// NewClient creates a new client registered by the given advisor
func NewClient(ci, firstNames, lastNames, registeredBy string) (*Client, error) {
	if ci == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Client CI cannot be empty")
	}
	if firstNames == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Client first names cannot be empty")
	}
	if lastNames == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Client last names cannot be empty")
	}
	if registeredBy == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Registering advisor cannot be empty")
	}

	return &Client{
		CI:           ci,
		FirstNames:   firstNames,
		LastNames:    lastNames,
		RegisteredBy: registeredBy,
		RegisteredAt: time.Now().UTC(),
	}, nil
}

// SetBudget sets the client's maximum budget
func (c *Client) SetBudget(budget decimal.Decimal) error {
	if budget.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Client budget cannot be negative")
	}
	c.MaxBudget = &budget
	return nil
}
