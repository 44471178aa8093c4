package listing

import (
	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Address is the denormalized location record a property may reference
type Address struct {
	ID        string
	Street    string
	City      string
	Zone      string
	Latitude  *decimal.Decimal
	Longitude *decimal.Decimal
}

// NewAddress creates a new address
func NewAddress(street, city, zone string, lat, lng *decimal.Decimal) (*Address, error) {
	if street == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Address street cannot be empty")
	}
	if city == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Address city cannot be empty")
	}

	return &Address{
		ID:        uuid.NewString(),
		Street:    street,
		City:      city,
		Zone:      zone,
		Latitude:  lat,
		Longitude: lng,
	}, nil
}
