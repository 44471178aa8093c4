package listing

import (
	"context"

	"github.com/brokerage/backend/internal/application/resolver"
	"github.com/brokerage/backend/internal/domain/listing"
	"github.com/brokerage/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ImageService handles property image records. At most one image per
// property carries the cover flag; setting a new cover clears the others
// first.
type ImageService struct {
	images   listing.ImageRepository
	resolver *resolver.Resolver
	locks    shared.KeyLocker
	logger   *zap.Logger
}

// NewImageService creates a new ImageService
func NewImageService(images listing.ImageRepository, res *resolver.Resolver, locks shared.KeyLocker, logger *zap.Logger) *ImageService {
	return &ImageService{images: images, resolver: res, locks: locks, logger: logger}
}

// Create registers an image against a property
func (s *ImageService) Create(ctx context.Context, req CreateImageRequest) (*ImageResponse, error) {
	if _, err := s.resolver.Property(ctx, req.PropertyID); err != nil {
		return nil, err
	}

	image, err := listing.NewPropertyImage(req.PropertyID, req.URL, req.Caption, req.IsCover, req.Position)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(propertyImagesKey(req.PropertyID))
	defer unlock()

	if image.IsCover {
		if err := s.images.ClearCovers(ctx, req.PropertyID); err != nil {
			return nil, err
		}
	}
	if err := s.images.Insert(ctx, image); err != nil {
		return nil, err
	}
	return toImageResponse(image), nil
}

// Get returns one image record
func (s *ImageService) Get(ctx context.Context, id string) (*ImageResponse, error) {
	image, err := s.images.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, shared.NewNotFound("image", id)
	}
	return toImageResponse(image), nil
}

// List returns image records, optionally narrowed to one property
func (s *ImageService) List(ctx context.Context, propertyID *string, offset, limit int) ([]ImageResponse, error) {
	if propertyID != nil {
		if _, err := s.resolver.Property(ctx, *propertyID); err != nil {
			return nil, err
		}
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}

	images, err := s.images.List(ctx, propertyID, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]ImageResponse, 0, len(images))
	for i := range images {
		responses = append(responses, *toImageResponse(&images[i]))
	}
	return responses, nil
}

// Update patches an image record, keeping cover exclusivity
func (s *ImageService) Update(ctx context.Context, id string, req UpdateImageRequest) (*ImageResponse, error) {
	patch := listing.ImagePatch{Caption: req.Caption, IsCover: req.IsCover, Position: req.Position}
	if patch.IsEmpty() {
		return nil, shared.ErrEmptyPatch
	}

	image, err := s.images.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, shared.NewNotFound("image", id)
	}

	unlock := s.locks.Lock(propertyImagesKey(image.PropertyID))
	defer unlock()

	if req.IsCover != nil && *req.IsCover {
		if err := s.images.ClearCovers(ctx, image.PropertyID); err != nil {
			return nil, err
		}
	}

	updated, err := s.images.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, shared.NewNotFound("image", id)
	}
	return toImageResponse(updated), nil
}

// Delete removes an image record
func (s *ImageService) Delete(ctx context.Context, id string) error {
	return s.images.Delete(ctx, id)
}

func propertyImagesKey(propertyID string) string {
	return "property-images:" + propertyID
}
