package listing

import "github.com/brokerage/backend/internal/domain/shared"

// PropertyDetail holds the publication metadata of a property. At most one
// detail record exists per property; writes use upsert semantics.
type PropertyDetail struct {
	PropertyID    string
	Bedrooms      int
	Bathrooms     int
	ParkingSpaces int
	Furnished     bool
	Description   string
}

// NewPropertyDetail creates publication details for a property
func NewPropertyDetail(propertyID string, bedrooms, bathrooms, parking int, furnished bool, description string) (*PropertyDetail, error) {
	if propertyID == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Property ID cannot be empty")
	}
	if bedrooms < 0 || bathrooms < 0 || parking < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Room and parking counts cannot be negative")
	}

	return &PropertyDetail{
		PropertyID:    propertyID,
		Bedrooms:      bedrooms,
		Bathrooms:     bathrooms,
		ParkingSpaces: parking,
		Furnished:     furnished,
		Description:   description,
	}, nil
}
