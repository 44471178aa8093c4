package persistence

import (
	"context"

	"github.com/brokerage/backend/internal/domain/listing"
	"github.com/brokerage/backend/internal/domain/shared"
)

// ImageRepository persists property image records through the store gateway
type ImageRepository struct {
	gateway shared.Gateway
}

// NewImageRepository creates a gateway-backed image repository
func NewImageRepository(gateway shared.Gateway) *ImageRepository {
	return &ImageRepository{gateway: gateway}
}

func decodeImage(row shared.Row) (*listing.PropertyImage, error) {
	img := &listing.PropertyImage{}
	var err error

	if img.ID, err = row.String("id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if img.PropertyID, err = row.String("property_id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if img.URL, err = row.String("url"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if row.Has("caption") {
		if img.Caption, err = row.String("caption"); err != nil {
			return nil, shared.NewUpstreamFailure(err)
		}
	}
	if img.IsCover, err = row.Bool("is_cover"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if img.Position, err = row.Int("position"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	return img, nil
}

func encodeImage(img *listing.PropertyImage) shared.Row {
	return shared.Row{
		"id":          img.ID,
		"property_id": img.PropertyID,
		"url":         img.URL,
		"caption":     img.Caption,
		"is_cover":    img.IsCover,
		"position":    img.Position,
	}
}

// FindByID returns the image record, or nil when it does not exist
func (r *ImageRepository) FindByID(ctx context.Context, id string) (*listing.PropertyImage, error) {
	row, err := r.gateway.GetByKey(ctx, collectionImages, "id", id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodeImage(row)
}

// ListByProperty returns all images of a property ordered by position
func (r *ImageRepository) ListByProperty(ctx context.Context, propertyID string) ([]listing.PropertyImage, error) {
	return r.list(ctx, shared.Query{
		Predicates: []shared.Predicate{shared.Eq("property_id", propertyID)},
		Order:      []shared.Order{{Field: "position"}},
	})
}

// List returns image records, optionally narrowed to one property
func (r *ImageRepository) List(ctx context.Context, propertyID *string, offset, limit int) ([]listing.PropertyImage, error) {
	q := shared.Query{
		Order:  []shared.Order{{Field: "position"}},
		Offset: offset,
		Limit:  limit,
	}
	if propertyID != nil {
		q.Predicates = append(q.Predicates, shared.Eq("property_id", *propertyID))
	}
	return r.list(ctx, q)
}

func (r *ImageRepository) list(ctx context.Context, q shared.Query) ([]listing.PropertyImage, error) {
	rows, err := r.gateway.Filter(ctx, collectionImages, q)
	if err != nil {
		return nil, err
	}

	images := make([]listing.PropertyImage, 0, len(rows))
	for _, row := range rows {
		img, err := decodeImage(row)
		if err != nil {
			return nil, err
		}
		images = append(images, *img)
	}
	return images, nil
}

// Insert writes a new image row
func (r *ImageRepository) Insert(ctx context.Context, image *listing.PropertyImage) error {
	_, err := r.gateway.Insert(ctx, collectionImages, encodeImage(image))
	return err
}

// Update patches the editable fields of an image and returns its new state,
// or nil when the image does not exist
func (r *ImageRepository) Update(ctx context.Context, id string, patch listing.ImagePatch) (*listing.PropertyImage, error) {
	fields := shared.Row{}
	if patch.Caption != nil {
		fields["caption"] = *patch.Caption
	}
	if patch.IsCover != nil {
		fields["is_cover"] = *patch.IsCover
	}
	if patch.Position != nil {
		fields["position"] = *patch.Position
	}

	row, err := r.gateway.Update(ctx, collectionImages, "id", id, fields)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodeImage(row)
}

// ClearCovers drops the cover flag from every image of the property. The
// store only offers single-row writes, so this walks the current covers one
// by one.
func (r *ImageRepository) ClearCovers(ctx context.Context, propertyID string) error {
	rows, err := r.gateway.Filter(ctx, collectionImages, shared.Query{
		Predicates: []shared.Predicate{
			shared.Eq("property_id", propertyID),
			shared.Eq("is_cover", true),
		},
	})
	if err != nil {
		return err
	}

	for _, row := range rows {
		id, err := row.String("id")
		if err != nil {
			return shared.NewUpstreamFailure(err)
		}
		if _, err := r.gateway.Update(ctx, collectionImages, "id", id, shared.Row{"is_cover": false}); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the image row
func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	row, err := r.gateway.Delete(ctx, collectionImages, "id", id)
	if err != nil {
		return err
	}
	if row == nil {
		return shared.NewNotFound("image", id)
	}
	return nil
}

// DeleteByProperty removes every image of a property, one row at a time
func (r *ImageRepository) DeleteByProperty(ctx context.Context, propertyID string) error {
	rows, err := r.gateway.Filter(ctx, collectionImages, shared.Query{
		Predicates: []shared.Predicate{shared.Eq("property_id", propertyID)},
	})
	if err != nil {
		return err
	}

	for _, row := range rows {
		id, err := row.String("id")
		if err != nil {
			return shared.NewUpstreamFailure(err)
		}
		if _, err := r.gateway.Delete(ctx, collectionImages, "id", id); err != nil {
			return err
		}
	}
	return nil
}
