package resolver

import (
	"context"

	"github.com/brokerage/backend/internal/domain/deal"
	"github.com/brokerage/backend/internal/domain/listing"
	"github.com/brokerage/backend/internal/domain/partner"
	"github.com/brokerage/backend/internal/domain/shared"
)

// Resolver turns entity references carried by incoming requests into loaded
// entities, failing with NotFound before any state or invariant check runs.
// Existence errors therefore always win over semantic errors.
type Resolver struct {
	properties listing.PropertyRepository
	addresses  listing.AddressRepository
	clients    partner.ClientRepository
	owners     partner.OwnerRepository
	advisors   partner.AdvisorRepository
	contracts  deal.ContractRepository
}

// New creates a resolver over the given repositories
func New(
	properties listing.PropertyRepository,
	addresses listing.AddressRepository,
	clients partner.ClientRepository,
	owners partner.OwnerRepository,
	advisors partner.AdvisorRepository,
	contracts deal.ContractRepository,
) *Resolver {
	return &Resolver{
		properties: properties,
		addresses:  addresses,
		clients:    clients,
		owners:     owners,
		advisors:   advisors,
		contracts:  contracts,
	}
}

// Property resolves a property by ID
func (r *Resolver) Property(ctx context.Context, id string) (*listing.Property, error) {
	property, err := r.properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, shared.NewNotFound("property", id)
	}
	return property, nil
}

// Address resolves an address by ID
func (r *Resolver) Address(ctx context.Context, id string) (*listing.Address, error) {
	address, err := r.addresses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, shared.NewNotFound("address", id)
	}
	return address, nil
}

// Client resolves a client by CI
func (r *Resolver) Client(ctx context.Context, ci string) (*partner.Client, error) {
	client, err := r.clients.FindByCI(ctx, ci)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, shared.NewNotFound("client", ci)
	}
	return client, nil
}

// Owner resolves an owner by CI
func (r *Resolver) Owner(ctx context.Context, ci string) (*partner.Owner, error) {
	owner, err := r.owners.FindByCI(ctx, ci)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, shared.NewNotFound("owner", ci)
	}
	return owner, nil
}

// Advisor resolves an advisor by ID
func (r *Resolver) Advisor(ctx context.Context, id string) (*partner.Advisor, error) {
	advisor, err := r.advisors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if advisor == nil {
		return nil, shared.NewNotFound("advisor", id)
	}
	return advisor, nil
}

// ActiveAdvisor resolves an advisor and requires it to be active. Inactive
// advisors cannot act as the current actor of a request.
func (r *Resolver) ActiveAdvisor(ctx context.Context, id string) (*partner.Advisor, error) {
	advisor, err := r.Advisor(ctx, id)
	if err != nil {
		return nil, err
	}
	if !advisor.Active {
		return nil, shared.ErrForbidden
	}
	return advisor, nil
}

// Contract resolves a contract by ID
func (r *Resolver) Contract(ctx context.Context, id string) (*deal.Contract, error) {
	contract, err := r.contracts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, shared.NewNotFound("contract", id)
	}
	return contract, nil
}
