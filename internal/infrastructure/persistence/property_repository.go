package persistence

import (
	"context"

	"github.com/brokerage/backend/internal/domain/listing"
	"github.com/brokerage/backend/internal/domain/shared"
)

// PropertyRepository persists properties through the store gateway
type PropertyRepository struct {
	gateway shared.Gateway
}

// NewPropertyRepository creates a gateway-backed property repository
func NewPropertyRepository(gateway shared.Gateway) *PropertyRepository {
	return &PropertyRepository{gateway: gateway}
}

func decodeProperty(row shared.Row) (*listing.Property, error) {
	p := &listing.Property{}
	var err error

	if p.ID, err = row.String("id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.Title, err = row.String("title"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	operation, err := row.String("operation_type")
	if err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	p.OperationType = listing.OperationType(operation)

	state, err := row.String("state")
	if err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	p.State = listing.PropertyState(state)

	if p.OwnerCI, err = row.String("owner_ci"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.CapturedBy, err = row.String("captured_by"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.AddressID, err = row.OptString("address_id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.ClosedBy, err = row.OptString("closed_by"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.ListPrice, err = row.OptDecimal("list_price"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.Area, err = row.OptDecimal("area"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.PublicCode, err = row.OptString("public_code"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.CaptureDate, err = row.OptDate("capture_date"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.PublicationDate, err = row.OptDate("publication_date"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if p.ClosingDate, err = row.OptDate("closing_date"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}

	return p, nil
}

func encodeProperty(p *listing.Property) shared.Row {
	row := shared.Row{
		"id":             p.ID,
		"title":          p.Title,
		"operation_type": p.OperationType.String(),
		"state":          p.State.String(),
		"owner_ci":       p.OwnerCI,
		"captured_by":    p.CapturedBy,
	}
	if p.AddressID != nil {
		row["address_id"] = *p.AddressID
	}
	if p.ClosedBy != nil {
		row["closed_by"] = *p.ClosedBy
	}
	if p.ListPrice != nil {
		row["list_price"] = shared.EncodeDecimal(*p.ListPrice)
	}
	if p.Area != nil {
		row["area"] = shared.EncodeDecimal(*p.Area)
	}
	if p.PublicCode != nil {
		row["public_code"] = *p.PublicCode
	}
	if p.CaptureDate != nil {
		row["capture_date"] = shared.EncodeDate(*p.CaptureDate)
	}
	if p.PublicationDate != nil {
		row["publication_date"] = shared.EncodeDate(*p.PublicationDate)
	}
	if p.ClosingDate != nil {
		row["closing_date"] = shared.EncodeDate(*p.ClosingDate)
	}
	return row
}

// FindByID returns the property, or nil when it does not exist
func (r *PropertyRepository) FindByID(ctx context.Context, id string) (*listing.Property, error) {
	row, err := r.gateway.GetByKey(ctx, collectionProperties, "id", id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodeProperty(row)
}

// FindByPublicCode returns the property carrying the public code, or nil
func (r *PropertyRepository) FindByPublicCode(ctx context.Context, code string) (*listing.Property, error) {
	rows, err := r.gateway.Filter(ctx, collectionProperties, shared.Query{
		Predicates: []shared.Predicate{shared.Eq("public_code", code)},
		Limit:      1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return decodeProperty(rows[0])
}

// List returns properties matching the filter, newest captures first
func (r *PropertyRepository) List(ctx context.Context, filter listing.PropertyFilter) ([]listing.Property, error) {
	q := shared.Query{
		Order:  []shared.Order{{Field: "capture_date", Desc: true}},
		Offset: filter.Offset,
		Limit:  filter.Limit,
	}
	if filter.OperationType != nil {
		q.Predicates = append(q.Predicates, shared.Eq("operation_type", filter.OperationType.String()))
	}
	if filter.State != nil {
		q.Predicates = append(q.Predicates, shared.Eq("state", filter.State.String()))
	}
	if filter.PriceMin != nil {
		q.Predicates = append(q.Predicates, shared.Gte("list_price", shared.EncodeDecimal(*filter.PriceMin)))
	}
	if filter.PriceMax != nil {
		q.Predicates = append(q.Predicates, shared.Lte("list_price", shared.EncodeDecimal(*filter.PriceMax)))
	}
	if filter.CapturedBy != nil {
		q.Predicates = append(q.Predicates, shared.Eq("captured_by", *filter.CapturedBy))
	}

	rows, err := r.gateway.Filter(ctx, collectionProperties, q)
	if err != nil {
		return nil, err
	}

	properties := make([]listing.Property, 0, len(rows))
	for _, row := range rows {
		p, err := decodeProperty(row)
		if err != nil {
			return nil, err
		}
		properties = append(properties, *p)
	}
	return properties, nil
}

// Insert writes a new property row
func (r *PropertyRepository) Insert(ctx context.Context, property *listing.Property) error {
	_, err := r.gateway.Insert(ctx, collectionProperties, encodeProperty(property))
	return err
}

// Update patches the editable fields of a property and returns its new state,
// or nil when the property does not exist
func (r *PropertyRepository) Update(ctx context.Context, id string, patch listing.PropertyPatch) (*listing.Property, error) {
	fields := shared.Row{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.ListPrice != nil {
		fields["list_price"] = shared.EncodeDecimal(*patch.ListPrice)
	}
	if patch.Area != nil {
		fields["area"] = shared.EncodeDecimal(*patch.Area)
	}
	if patch.PublicCode != nil {
		fields["public_code"] = *patch.PublicCode
	}
	if patch.AddressID != nil {
		fields["address_id"] = *patch.AddressID
	}

	row, err := r.gateway.Update(ctx, collectionProperties, "id", id, fields)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodeProperty(row)
}

// Save writes the full property state back to its row
func (r *PropertyRepository) Save(ctx context.Context, property *listing.Property) error {
	row := encodeProperty(property)
	delete(row, "id")

	updated, err := r.gateway.Update(ctx, collectionProperties, "id", property.ID, row)
	if err != nil {
		return err
	}
	if updated == nil {
		return shared.NewNotFound("property", property.ID)
	}
	return nil
}

// Delete removes the property row
func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	row, err := r.gateway.Delete(ctx, collectionProperties, "id", id)
	if err != nil {
		return err
	}
	if row == nil {
		return shared.NewNotFound("property", id)
	}
	return nil
}

// CountByOwner returns how many properties reference the owner
func (r *PropertyRepository) CountByOwner(ctx context.Context, ownerCI string) (int64, error) {
	return r.gateway.Count(ctx, collectionProperties, []shared.Predicate{shared.Eq("owner_ci", ownerCI)})
}
