package listing

import (
	"context"

	"github.com/shopspring/decimal"
)

// PropertyFilter narrows property listings
type PropertyFilter struct {
	OperationType *OperationType
	State         *PropertyState
	PriceMin      *decimal.Decimal
	PriceMax      *decimal.Decimal
	CapturedBy    *string
	Offset        int
	Limit         int
}

// PropertyPatch carries the client-editable property fields; nil fields are
// left untouched. Lifecycle state is never patched directly — it moves only
// through publish/unpublish and contract activation.
type PropertyPatch struct {
	Title      *string
	ListPrice  *decimal.Decimal
	Area       *decimal.Decimal
	PublicCode *string
	AddressID  *string
}

// IsEmpty reports whether the patch carries no fields
func (p PropertyPatch) IsEmpty() bool {
	return p.Title == nil && p.ListPrice == nil && p.Area == nil &&
		p.PublicCode == nil && p.AddressID == nil
}

// PropertyRepository provides access to property rows
type PropertyRepository interface {
	FindByID(ctx context.Context, id string) (*Property, error)
	FindByPublicCode(ctx context.Context, code string) (*Property, error)
	List(ctx context.Context, filter PropertyFilter) ([]Property, error)
	Insert(ctx context.Context, property *Property) error
	Update(ctx context.Context, id string, patch PropertyPatch) (*Property, error)
	Save(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id string) error
	CountByOwner(ctx context.Context, ownerCI string) (int64, error)
}

// AddressRepository provides access to address rows
type AddressRepository interface {
	FindByID(ctx context.Context, id string) (*Address, error)
	Insert(ctx context.Context, address *Address) error
	Delete(ctx context.Context, id string) error
}

// DetailRepository provides access to the 0-or-1 publication detail row per property
type DetailRepository interface {
	FindByProperty(ctx context.Context, propertyID string) (*PropertyDetail, error)
	Upsert(ctx context.Context, detail *PropertyDetail) error
	DeleteByProperty(ctx context.Context, propertyID string) error
}

// ImagePatch carries editable image fields; nil fields are left untouched
type ImagePatch struct {
	Caption  *string
	IsCover  *bool
	Position *int
}

// IsEmpty reports whether the patch carries no fields
func (p ImagePatch) IsEmpty() bool {
	return p.Caption == nil && p.IsCover == nil && p.Position == nil
}

// ImageRepository provides access to property image rows
type ImageRepository interface {
	FindByID(ctx context.Context, id string) (*PropertyImage, error)
	ListByProperty(ctx context.Context, propertyID string) ([]PropertyImage, error)
	List(ctx context.Context, propertyID *string, offset, limit int) ([]PropertyImage, error)
	Insert(ctx context.Context, image *PropertyImage) error
	Update(ctx context.Context, id string, patch ImagePatch) (*PropertyImage, error)
	ClearCovers(ctx context.Context, propertyID string) error
	Delete(ctx context.Context, id string) error
	DeleteByProperty(ctx context.Context, propertyID string) error
}

// DocumentPatch carries editable document fields; nil fields are left untouched
type DocumentPatch struct {
	Kind     *string
	FilePath *string
	Notes    *string
}

// IsEmpty reports whether the patch carries no fields
func (p DocumentPatch) IsEmpty() bool {
	return p.Kind == nil && p.FilePath == nil && p.Notes == nil
}

// DocumentRepository provides access to property document rows
type DocumentRepository interface {
	FindByID(ctx context.Context, id string) (*PropertyDocument, error)
	List(ctx context.Context, propertyID, kind *string, offset, limit int) ([]PropertyDocument, error)
	Insert(ctx context.Context, document *PropertyDocument) error
	Update(ctx context.Context, id string, patch DocumentPatch) (*PropertyDocument, error)
	Delete(ctx context.Context, id string) error
	DeleteByProperty(ctx context.Context, propertyID string) error
}

// PropertyWithAddress is a property enriched with its denormalized address
type PropertyWithAddress struct {
	Property
	Address *Address
}

// PublishedProperty is the composite returned for the published listing:
// property, publication details, address and ordered images together.
type PublishedProperty struct {
	Property
	Detail  *PropertyDetail
	Address *Address
	Images  []PropertyImage
}

// ListingCache caches exactly one logical key: the default property listing
// (no filters, first page, default page size), each entry enriched with its
// address. Get returns nil on a miss. Implementations must be safe for
// concurrent use.
type ListingCache interface {
	Get(ctx context.Context) ([]PropertyWithAddress, error)
	Set(ctx context.Context, items []PropertyWithAddress) error
	Clear(ctx context.Context) error
}
