package listing

import (
	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PropertyImage is the metadata record of an image attached to a property.
// The binary itself lives in external storage; only the URL is kept here.
// At most one image per property carries the cover flag.
type PropertyImage struct {
	ID         string
	PropertyID string
	URL        string
	Caption    string
	IsCover    bool
	Position   int
}

// NewPropertyImage creates a new image record for a property
func NewPropertyImage(propertyID, url, caption string, isCover bool, position int) (*PropertyImage, error) {
	if propertyID == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Property ID cannot be empty")
	}
	if url == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Image URL cannot be empty")
	}
	if position < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Image position cannot be negative")
	}

	return &PropertyImage{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		URL:        url,
		Caption:    caption,
		IsCover:    isCover,
		Position:   position,
	}, nil
}
