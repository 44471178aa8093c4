package persistence

import (
	"context"

	"github.com/brokerage/backend/internal/domain/listing"
	"github.com/brokerage/backend/internal/domain/shared"
)

// AddressRepository persists addresses through the store gateway
type AddressRepository struct {
	gateway shared.Gateway
}

// NewAddressRepository creates a gateway-backed address repository
func NewAddressRepository(gateway shared.Gateway) *AddressRepository {
	return &AddressRepository{gateway: gateway}
}

func decodeAddress(row shared.Row) (*listing.Address, error) {
	a := &listing.Address{}
	var err error

	if a.ID, err = row.String("id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if a.Street, err = row.String("street"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if a.City, err = row.String("city"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if row.Has("zone") {
		if a.Zone, err = row.String("zone"); err != nil {
			return nil, shared.NewUpstreamFailure(err)
		}
	}
	if a.Latitude, err = row.OptDecimal("latitude"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if a.Longitude, err = row.OptDecimal("longitude"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	return a, nil
}

func encodeAddress(a *listing.Address) shared.Row {
	row := shared.Row{
		"id":     a.ID,
		"street": a.Street,
		"city":   a.City,
		"zone":   a.Zone,
	}
	if a.Latitude != nil {
		row["latitude"] = shared.EncodeDecimal(*a.Latitude)
	}
	if a.Longitude != nil {
		row["longitude"] = shared.EncodeDecimal(*a.Longitude)
	}
	return row
}

// FindByID returns the address, or nil when it does not exist
func (r *AddressRepository) FindByID(ctx context.Context, id string) (*listing.Address, error) {
	row, err := r.gateway.GetByKey(ctx, collectionAddresses, "id", id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodeAddress(row)
}

// Insert writes a new address row
func (r *AddressRepository) Insert(ctx context.Context, address *listing.Address) error {
	_, err := r.gateway.Insert(ctx, collectionAddresses, encodeAddress(address))
	return err
}

// Delete removes the address row; absent rows are ignored
func (r *AddressRepository) Delete(ctx context.Context, id string) error {
	_, err := r.gateway.Delete(ctx, collectionAddresses, "id", id)
	return err
}

// DetailRepository persists publication details through the store gateway
type DetailRepository struct {
	gateway shared.Gateway
}

// NewDetailRepository creates a gateway-backed detail repository
func NewDetailRepository(gateway shared.Gateway) *DetailRepository {
	return &DetailRepository{gateway: gateway}
}

func decodeDetail(row shared.Row) (*listing.PropertyDetail, error) {
	d := &listing.PropertyDetail{}
	var err error

	if d.PropertyID, err = row.String("property_id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if d.Bedrooms, err = row.Int("bedrooms"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if d.Bathrooms, err = row.Int("bathrooms"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if d.ParkingSpaces, err = row.Int("parking_spaces"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if d.Furnished, err = row.Bool("furnished"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if row.Has("description") {
		if d.Description, err = row.String("description"); err != nil {
			return nil, shared.NewUpstreamFailure(err)
		}
	}
	return d, nil
}

func encodeDetail(d *listing.PropertyDetail) shared.Row {
	return shared.Row{
		"property_id":    d.PropertyID,
		"bedrooms":       d.Bedrooms,
		"bathrooms":      d.Bathrooms,
		"parking_spaces": d.ParkingSpaces,
		"furnished":      d.Furnished,
		"description":    d.Description,
	}
}

// FindByProperty returns the detail row for a property, or nil
func (r *DetailRepository) FindByProperty(ctx context.Context, propertyID string) (*listing.PropertyDetail, error) {
	row, err := r.gateway.GetByKey(ctx, collectionDetails, "property_id", propertyID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodeDetail(row)
}

// Upsert writes the detail row, updating in place when one already exists
func (r *DetailRepository) Upsert(ctx context.Context, detail *listing.PropertyDetail) error {
	row := encodeDetail(detail)
	updated, err := r.gateway.Update(ctx, collectionDetails, "property_id", detail.PropertyID, row)
	if err != nil {
		return err
	}
	if updated != nil {
		return nil
	}
	_, err = r.gateway.Insert(ctx, collectionDetails, row)
	return err
}

// DeleteByProperty removes the detail row of a property; absent rows are ignored
func (r *DetailRepository) DeleteByProperty(ctx context.Context, propertyID string) error {
	_, err := r.gateway.Delete(ctx, collectionDetails, "property_id", propertyID)
	return err
}
