package listing

import (
	"time"

	"github.com/brokerage/backend/internal/domain/listing"
	"github.com/shopspring/decimal"
)

// AddressInput carries a nested address on property creation
type AddressInput struct {
	Street    string           `json:"street" binding:"required"`
	City      string           `json:"city" binding:"required"`
	Zone      string           `json:"zone"`
	Latitude  *decimal.Decimal `json:"latitude"`
	Longitude *decimal.Decimal `json:"longitude"`
}

// CreatePropertyRequest carries the fields for capturing a property. The
// location is given either as a reference to an existing address or as a
// nested address to create, never both.
type CreatePropertyRequest struct {
	Title         string           `json:"title" binding:"required"`
	OperationType string           `json:"operation_type" binding:"required"`
	OwnerCI       string           `json:"owner_ci" binding:"required"`
	ListPrice     *decimal.Decimal `json:"list_price"`
	Area          *decimal.Decimal `json:"area"`
	PublicCode    *string          `json:"public_code"`
	AddressID     *string          `json:"address_id"`
	Address       *AddressInput    `json:"address"`
}

// UpdatePropertyRequest carries the patchable property fields
type UpdatePropertyRequest struct {
	Title      *string          `json:"title"`
	ListPrice  *decimal.Decimal `json:"list_price"`
	Area       *decimal.Decimal `json:"area"`
	PublicCode *string          `json:"public_code"`
	AddressID  *string          `json:"address_id"`
}

// ListPropertiesRequest narrows the property listing
type ListPropertiesRequest struct {
	OperationType *string          `form:"operation_type"`
	State         *string          `form:"state"`
	PriceMin      *decimal.Decimal `form:"price_min"`
	PriceMax      *decimal.Decimal `form:"price_max"`
	CapturedBy    *string          `form:"captured_by"`
	Offset        int              `form:"offset"`
	Limit         int              `form:"limit"`
}

// DetailInput carries publication details
type DetailInput struct {
	Bedrooms      int    `json:"bedrooms"`
	Bathrooms     int    `json:"bathrooms"`
	ParkingSpaces int    `json:"parking_spaces"`
	Furnished     bool   `json:"furnished"`
	Description   string `json:"description"`
}

// AddressResponse is the outward shape of an address
type AddressResponse struct {
	ID        string           `json:"id"`
	Street    string           `json:"street"`
	City      string           `json:"city"`
	Zone      string           `json:"zone,omitempty"`
	Latitude  *decimal.Decimal `json:"latitude,omitempty"`
	Longitude *decimal.Decimal `json:"longitude,omitempty"`
}

// PropertyResponse is the outward shape of a property
type PropertyResponse struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	OperationType   string           `json:"operation_type"`
	State           string           `json:"state"`
	OwnerCI         string           `json:"owner_ci"`
	CapturedBy      string           `json:"captured_by"`
	ClosedBy        *string          `json:"closed_by,omitempty"`
	ListPrice       *decimal.Decimal `json:"list_price,omitempty"`
	Area            *decimal.Decimal `json:"area,omitempty"`
	PublicCode      *string          `json:"public_code,omitempty"`
	CaptureDate     *string          `json:"capture_date,omitempty"`
	PublicationDate *string          `json:"publication_date,omitempty"`
	ClosingDate     *string          `json:"closing_date,omitempty"`
	Address         *AddressResponse `json:"address,omitempty"`
}

// DetailResponse is the outward shape of publication details
type DetailResponse struct {
	PropertyID    string `json:"property_id"`
	Bedrooms      int    `json:"bedrooms"`
	Bathrooms     int    `json:"bathrooms"`
	ParkingSpaces int    `json:"parking_spaces"`
	Furnished     bool   `json:"furnished"`
	Description   string `json:"description,omitempty"`
}

// ImageResponse is the outward shape of a property image record
type ImageResponse struct {
	ID         string `json:"id"`
	PropertyID string `json:"property_id"`
	URL        string `json:"url"`
	Caption    string `json:"caption,omitempty"`
	IsCover    bool   `json:"is_cover"`
	Position   int    `json:"position"`
}

// DocumentResponse is the outward shape of a property document record
type DocumentResponse struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	Kind       string    `json:"kind"`
	FilePath   string    `json:"file_path"`
	Notes      string    `json:"notes,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// PublishedPropertyResponse is the composite published view
type PublishedPropertyResponse struct {
	PropertyResponse
	Detail *DetailResponse `json:"detail,omitempty"`
	Images []ImageResponse `json:"images"`
}

// CreateImageRequest registers an image record against a property
type CreateImageRequest struct {
	PropertyID string `json:"property_id" binding:"required"`
	URL        string `json:"url" binding:"required"`
	Caption    string `json:"caption"`
	IsCover    bool   `json:"is_cover"`
	Position   int    `json:"position"`
}

// UpdateImageRequest carries the patchable image fields
type UpdateImageRequest struct {
	Caption  *string `json:"caption"`
	IsCover  *bool   `json:"is_cover"`
	Position *int    `json:"position"`
}

// CreateDocumentRequest registers a document record against a property
type CreateDocumentRequest struct {
	PropertyID string `json:"property_id" binding:"required"`
	Kind       string `json:"kind" binding:"required"`
	FilePath   string `json:"file_path" binding:"required"`
	Notes      string `json:"notes"`
}

// UpdateDocumentRequest carries the patchable document fields
type UpdateDocumentRequest struct {
	Kind     *string `json:"kind"`
	FilePath *string `json:"file_path"`
	Notes    *string `json:"notes"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func toAddressResponse(a *listing.Address) *AddressResponse {
	if a == nil {
		return nil
	}
	return &AddressResponse{
		ID:        a.ID,
		Street:    a.Street,
		City:      a.City,
		Zone:      a.Zone,
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
	}
}

func toPropertyResponse(p *listing.Property, address *listing.Address) *PropertyResponse {
	return &PropertyResponse{
		ID:              p.ID,
		Title:           p.Title,
		OperationType:   p.OperationType.String(),
		State:           p.State.String(),
		OwnerCI:         p.OwnerCI,
		CapturedBy:      p.CapturedBy,
		ClosedBy:        p.ClosedBy,
		ListPrice:       p.ListPrice,
		Area:            p.Area,
		PublicCode:      p.PublicCode,
		CaptureDate:     formatDate(p.CaptureDate),
		PublicationDate: formatDate(p.PublicationDate),
		ClosingDate:     formatDate(p.ClosingDate),
		Address:         toAddressResponse(address),
	}
}

func toDetailResponse(d *listing.PropertyDetail) *DetailResponse {
	if d == nil {
		return nil
	}
	return &DetailResponse{
		PropertyID:    d.PropertyID,
		Bedrooms:      d.Bedrooms,
		Bathrooms:     d.Bathrooms,
		ParkingSpaces: d.ParkingSpaces,
		Furnished:     d.Furnished,
		Description:   d.Description,
	}
}

func toImageResponse(img *listing.PropertyImage) *ImageResponse {
	return &ImageResponse{
		ID:         img.ID,
		PropertyID: img.PropertyID,
		URL:        img.URL,
		Caption:    img.Caption,
		IsCover:    img.IsCover,
		Position:   img.Position,
	}
}

func toDocumentResponse(doc *listing.PropertyDocument) *DocumentResponse {
	return &DocumentResponse{
		ID:         doc.ID,
		PropertyID: doc.PropertyID,
		Kind:       doc.Kind,
		FilePath:   doc.FilePath,
		Notes:      doc.Notes,
		UploadedAt: doc.UploadedAt,
	}
}
