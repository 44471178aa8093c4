package partner

import (
	"context"

	"github.com/brokerage/backend/internal/application/resolver"
	"github.com/brokerage/backend/internal/domain/listing"
	"github.com/brokerage/backend/internal/domain/partner"
	"github.com/brokerage/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OwnerService handles property owner records. An owner with captured
// properties cannot be removed.
type OwnerService struct {
	owners     partner.OwnerRepository
	properties listing.PropertyRepository
	resolver   *resolver.Resolver
	logger     *zap.Logger
}

// NewOwnerService creates a new OwnerService
func NewOwnerService(owners partner.OwnerRepository, properties listing.PropertyRepository, res *resolver.Resolver, logger *zap.Logger) *OwnerService {
	return &OwnerService{owners: owners, properties: properties, resolver: res, logger: logger}
}

// Create registers a new owner. The CI must not already be registered.
func (s *OwnerService) Create(ctx context.Context, req CreateOwnerRequest) (*OwnerResponse, error) {
	existing, err := s.owners.FindByCI(ctx, req.CI)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewAlreadyExists("owner", req.CI)
	}

	owner, err := partner.NewOwner(req.CI, req.FirstNames, req.LastNames, req.Phone, req.Email)
	if err != nil {
		return nil, err
	}

	if err := s.owners.Insert(ctx, owner); err != nil {
		return nil, err
	}

	s.logger.Info("owner registered", zap.String("ci", owner.CI))
	return toOwnerResponse(owner), nil
}

// Get returns one owner by CI
func (s *OwnerService) Get(ctx context.Context, ci string) (*OwnerResponse, error) {
	owner, err := s.resolver.Owner(ctx, ci)
	if err != nil {
		return nil, err
	}
	return toOwnerResponse(owner), nil
}

// List returns owner records
func (s *OwnerService) List(ctx context.Context, offset, limit int) ([]OwnerResponse, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	owners, err := s.owners.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]OwnerResponse, 0, len(owners))
	for i := range owners {
		responses = append(responses, *toOwnerResponse(&owners[i]))
	}
	return responses, nil
}

// Update patches an owner record
func (s *OwnerService) Update(ctx context.Context, ci string, req UpdateOwnerRequest) (*OwnerResponse, error) {
	patch := partner.OwnerPatch{
		FirstNames: req.FirstNames,
		LastNames:  req.LastNames,
		Phone:      req.Phone,
		Email:      req.Email,
	}
	if patch.IsEmpty() {
		return nil, shared.ErrEmptyPatch
	}

	updated, err := s.owners.Update(ctx, ci, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, shared.NewNotFound("owner", ci)
	}
	return toOwnerResponse(updated), nil
}

// Delete removes an owner. Owners still holding properties are rejected.
func (s *OwnerService) Delete(ctx context.Context, ci string) error {
	if _, err := s.resolver.Owner(ctx, ci); err != nil {
		return err
	}

	count, err := s.properties.CountByOwner(ctx, ci)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDependencyConflict("owner", count, "properties")
	}

	return s.owners.Delete(ctx, ci)
}
