package listing

import (
	"context"

	"github.com/brokerage/backend/internal/application/resolver"
	"github.com/brokerage/backend/internal/domain/deal"
	"github.com/brokerage/backend/internal/domain/listing"
	"github.com/brokerage/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultPageSize is the page size of the default listing, the only listing
// variant served from the cache
const DefaultPageSize = 20

// PropertyService handles property capture, publication and teardown
type PropertyService struct {
	properties   listing.PropertyRepository
	addresses    listing.AddressRepository
	details      listing.DetailRepository
	images       listing.ImageRepository
	documents    listing.DocumentRepository
	contracts    deal.ContractRepository
	appointments deal.AppointmentRepository
	resolver     *resolver.Resolver
	cache        listing.ListingCache
	locks        shared.KeyLocker
	logger       *zap.Logger
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(
	properties listing.PropertyRepository,
	addresses listing.AddressRepository,
	details listing.DetailRepository,
	images listing.ImageRepository,
	documents listing.DocumentRepository,
	contracts deal.ContractRepository,
	appointments deal.AppointmentRepository,
	res *resolver.Resolver,
	cache listing.ListingCache,
	locks shared.KeyLocker,
	logger *zap.Logger,
) *PropertyService {
	return &PropertyService{
		properties:   properties,
		addresses:    addresses,
		details:      details,
		images:       images,
		documents:    documents,
		contracts:    contracts,
		appointments: appointments,
		resolver:     res,
		cache:        cache,
		locks:        locks,
		logger:       logger,
	}
}

// Create captures a new property for the acting advisor. The location comes
// either as an existing address reference or a nested address; the public
// code, when given, must be unique.
func (s *PropertyService) Create(ctx context.Context, actorID string, req CreatePropertyRequest) (*PropertyResponse, error) {
	if _, err := s.resolver.Owner(ctx, req.OwnerCI); err != nil {
		return nil, err
	}
	if req.AddressID != nil && req.Address != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Provide either an address reference or a nested address, not both")
	}

	if req.PublicCode != nil {
		existing, err := s.properties.FindByPublicCode(ctx, *req.PublicCode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewAlreadyExists("property", *req.PublicCode)
		}
	}

	var address *listing.Address
	if req.AddressID != nil {
		resolved, err := s.resolver.Address(ctx, *req.AddressID)
		if err != nil {
			return nil, err
		}
		address = resolved
	} else if req.Address != nil {
		created, err := listing.NewAddress(req.Address.Street, req.Address.City, req.Address.Zone,
			req.Address.Latitude, req.Address.Longitude)
		if err != nil {
			return nil, err
		}
		if err := s.addresses.Insert(ctx, created); err != nil {
			return nil, err
		}
		address = created
	}

	property, err := listing.NewProperty(req.Title, listing.OperationType(req.OperationType), req.OwnerCI, actorID)
	if err != nil {
		return nil, err
	}
	property.ListPrice = req.ListPrice
	property.Area = req.Area
	property.PublicCode = req.PublicCode
	if address != nil {
		property.AddressID = &address.ID
	}

	if err := s.properties.Insert(ctx, property); err != nil {
		return nil, err
	}
	s.invalidateListing(ctx)

	s.logger.Info("property captured",
		zap.String("property_id", property.ID),
		zap.String("captured_by", actorID))

	return toPropertyResponse(property, address), nil
}

// Get returns one property enriched with its address
func (s *PropertyService) Get(ctx context.Context, id string) (*PropertyResponse, error) {
	property, err := s.resolver.Property(ctx, id)
	if err != nil {
		return nil, err
	}
	address, err := s.loadAddress(ctx, property)
	if err != nil {
		return nil, err
	}
	return toPropertyResponse(property, address), nil
}

// List returns properties matching the filter, each enriched with its
// address. The default listing (no filters, first page, default size) is
// served through the cache.
func (s *PropertyService) List(ctx context.Context, req ListPropertiesRequest) ([]PropertyResponse, error) {
	if isDefaultListing(req) {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("listing cache read failed", zap.Error(err))
		} else if cached != nil {
			return enrichedToResponses(cached), nil
		}

		items, err := s.loadDefaultListing(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, items); err != nil {
			s.logger.Warn("listing cache write failed", zap.Error(err))
		}
		return enrichedToResponses(items), nil
	}

	filter, err := toPropertyFilter(req)
	if err != nil {
		return nil, err
	}
	properties, err := s.properties.List(ctx, *filter)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, properties)
}

func isDefaultListing(req ListPropertiesRequest) bool {
	return req.OperationType == nil && req.State == nil && req.PriceMin == nil &&
		req.PriceMax == nil && req.CapturedBy == nil && req.Offset == 0 &&
		(req.Limit == 0 || req.Limit == DefaultPageSize)
}

func toPropertyFilter(req ListPropertiesRequest) (*listing.PropertyFilter, error) {
	filter := &listing.PropertyFilter{
		PriceMin: req.PriceMin,
		PriceMax: req.PriceMax,
		Offset:   req.Offset,
		Limit:    req.Limit,
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultPageSize
	}
	if req.OperationType != nil {
		operation := listing.OperationType(*req.OperationType)
		if !operation.IsValid() {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown operation type "+*req.OperationType)
		}
		filter.OperationType = &operation
	}
	if req.State != nil {
		state := listing.PropertyState(*req.State)
		if !state.IsValid() {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown property state "+*req.State)
		}
		filter.State = &state
	}
	filter.CapturedBy = req.CapturedBy
	return filter, nil
}

func (s *PropertyService) loadDefaultListing(ctx context.Context) ([]listing.PropertyWithAddress, error) {
	properties, err := s.properties.List(ctx, listing.PropertyFilter{Limit: DefaultPageSize})
	if err != nil {
		return nil, err
	}

	items := make([]listing.PropertyWithAddress, 0, len(properties))
	for i := range properties {
		address, err := s.loadAddress(ctx, &properties[i])
		if err != nil {
			return nil, err
		}
		items = append(items, listing.PropertyWithAddress{Property: properties[i], Address: address})
	}
	return items, nil
}

func (s *PropertyService) enrich(ctx context.Context, properties []listing.Property) ([]PropertyResponse, error) {
	responses := make([]PropertyResponse, 0, len(properties))
	for i := range properties {
		address, err := s.loadAddress(ctx, &properties[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *toPropertyResponse(&properties[i], address))
	}
	return responses, nil
}

func enrichedToResponses(items []listing.PropertyWithAddress) []PropertyResponse {
	responses := make([]PropertyResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *toPropertyResponse(&items[i].Property, items[i].Address))
	}
	return responses
}

func (s *PropertyService) loadAddress(ctx context.Context, property *listing.Property) (*listing.Address, error) {
	if property.AddressID == nil {
		return nil, nil
	}
	return s.addresses.FindByID(ctx, *property.AddressID)
}

// Update patches the editable fields of a property. Lifecycle state is not
// patchable here.
func (s *PropertyService) Update(ctx context.Context, id string, req UpdatePropertyRequest) (*PropertyResponse, error) {
	patch := listing.PropertyPatch{
		Title:      req.Title,
		ListPrice:  req.ListPrice,
		Area:       req.Area,
		PublicCode: req.PublicCode,
		AddressID:  req.AddressID,
	}
	if patch.IsEmpty() {
		return nil, shared.ErrEmptyPatch
	}

	unlock := s.locks.Lock(propertyKey(id))
	defer unlock()

	if _, err := s.resolver.Property(ctx, id); err != nil {
		return nil, err
	}

	if req.PublicCode != nil {
		existing, err := s.properties.FindByPublicCode(ctx, *req.PublicCode)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, shared.NewAlreadyExists("property", *req.PublicCode)
		}
	}
	if req.AddressID != nil {
		if _, err := s.resolver.Address(ctx, *req.AddressID); err != nil {
			return nil, err
		}
	}

	updated, err := s.properties.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, shared.NewNotFound("property", id)
	}
	s.invalidateListing(ctx)

	address, err := s.loadAddress(ctx, updated)
	if err != nil {
		return nil, err
	}
	return toPropertyResponse(updated, address), nil
}

// Delete removes a property together with its dependent records. Properties
// referenced by appointments or contracts cannot be deleted.
func (s *PropertyService) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(propertyKey(id))
	defer unlock()

	if _, err := s.resolver.Property(ctx, id); err != nil {
		return err
	}

	appointments, err := s.appointments.CountByProperty(ctx, id)
	if err != nil {
		return err
	}
	if appointments > 0 {
		return shared.NewDependencyConflict("property", appointments, "appointments")
	}
	contracts, err := s.contracts.CountByProperty(ctx, id)
	if err != nil {
		return err
	}
	if contracts > 0 {
		return shared.NewDependencyConflict("property", contracts, "contracts")
	}

	// Dependent records go first so a failed teardown never leaves orphans
	// pointing at a missing property
	if err := s.images.DeleteByProperty(ctx, id); err != nil {
		return err
	}
	if err := s.documents.DeleteByProperty(ctx, id); err != nil {
		return err
	}
	if err := s.details.DeleteByProperty(ctx, id); err != nil {
		return err
	}
	if err := s.properties.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateListing(ctx)

	s.logger.Info("property deleted", zap.String("property_id", id))
	return nil
}

// Publish moves a property to Published, writing its publication details in
// the same operation
func (s *PropertyService) Publish(ctx context.Context, id string, details DetailInput) (*PropertyResponse, error) {
	unlock := s.locks.Lock(propertyKey(id))
	defer unlock()

	property, err := s.resolver.Property(ctx, id)
	if err != nil {
		return nil, err
	}

	detail, err := listing.NewPropertyDetail(id, details.Bedrooms, details.Bathrooms,
		details.ParkingSpaces, details.Furnished, details.Description)
	if err != nil {
		return nil, err
	}

	if err := property.Publish(); err != nil {
		return nil, err
	}
	if err := s.details.Upsert(ctx, detail); err != nil {
		return nil, err
	}
	if err := s.properties.Save(ctx, property); err != nil {
		return nil, err
	}
	s.invalidateListing(ctx)

	s.logger.Info("property published", zap.String("property_id", id))

	address, err := s.loadAddress(ctx, property)
	if err != nil {
		return nil, err
	}
	return toPropertyResponse(property, address), nil
}

// Unpublish returns a published property to Captured. Publication details
// are kept for the next publish.
func (s *PropertyService) Unpublish(ctx context.Context, id string) (*PropertyResponse, error) {
	unlock := s.locks.Lock(propertyKey(id))
	defer unlock()

	property, err := s.resolver.Property(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := property.Unpublish(); err != nil {
		return nil, err
	}
	if err := s.properties.Save(ctx, property); err != nil {
		return nil, err
	}
	s.invalidateListing(ctx)

	address, err := s.loadAddress(ctx, property)
	if err != nil {
		return nil, err
	}
	return toPropertyResponse(property, address), nil
}

// ListPublished returns the published composite view: property, publication
// details, address and ordered images
func (s *PropertyService) ListPublished(ctx context.Context, offset, limit int) ([]PublishedPropertyResponse, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	published := listing.PropertyStatePublished
	properties, err := s.properties.List(ctx, listing.PropertyFilter{
		State:  &published,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]PublishedPropertyResponse, 0, len(properties))
	for i := range properties {
		property := &properties[i]

		address, err := s.loadAddress(ctx, property)
		if err != nil {
			return nil, err
		}
		detail, err := s.details.FindByProperty(ctx, property.ID)
		if err != nil {
			return nil, err
		}
		images, err := s.images.ListByProperty(ctx, property.ID)
		if err != nil {
			return nil, err
		}

		imageResponses := make([]ImageResponse, 0, len(images))
		for j := range images {
			imageResponses = append(imageResponses, *toImageResponse(&images[j]))
		}
		responses = append(responses, PublishedPropertyResponse{
			PropertyResponse: *toPropertyResponse(property, address),
			Detail:           toDetailResponse(detail),
			Images:           imageResponses,
		})
	}
	return responses, nil
}

// GetDetail returns the publication details of a property
func (s *PropertyService) GetDetail(ctx context.Context, propertyID string) (*DetailResponse, error) {
	if _, err := s.resolver.Property(ctx, propertyID); err != nil {
		return nil, err
	}
	detail, err := s.details.FindByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, shared.NewNotFound("property detail", propertyID)
	}
	return toDetailResponse(detail), nil
}

// UpsertDetail writes the publication details of a property without touching
// its lifecycle state
func (s *PropertyService) UpsertDetail(ctx context.Context, propertyID string, details DetailInput) (*DetailResponse, error) {
	if _, err := s.resolver.Property(ctx, propertyID); err != nil {
		return nil, err
	}
	detail, err := listing.NewPropertyDetail(propertyID, details.Bedrooms, details.Bathrooms,
		details.ParkingSpaces, details.Furnished, details.Description)
	if err != nil {
		return nil, err
	}
	if err := s.details.Upsert(ctx, detail); err != nil {
		return nil, err
	}
	s.invalidateListing(ctx)
	return toDetailResponse(detail), nil
}

// invalidateListing drops the cached default listing after any property
// mutation. Clearing is deliberately coarse: one logical key, no partial
// invalidation.
func (s *PropertyService) invalidateListing(ctx context.Context) {
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("listing cache clear failed", zap.Error(err))
	}
}

func propertyKey(id string) string {
	return "property:" + id
}
