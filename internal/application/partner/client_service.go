package partner

import (
	"context"

	"github.com/brokerage/backend/internal/application/resolver"
	"github.com/brokerage/backend/internal/domain/deal"
	"github.com/brokerage/backend/internal/domain/partner"
	"github.com/brokerage/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultPageSize caps listings when the caller gives no limit
const DefaultPageSize = 20

// ClientService handles client registration and lifecycle
type ClientService struct {
	clients      partner.ClientRepository
	appointments deal.AppointmentRepository
	contracts    deal.ContractRepository
	resolver     *resolver.Resolver
	logger       *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(
	clients partner.ClientRepository,
	appointments deal.AppointmentRepository,
	contracts deal.ContractRepository,
	res *resolver.Resolver,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clients:      clients,
		appointments: appointments,
		contracts:    contracts,
		resolver:     res,
		logger:       logger,
	}
}

// Create registers a new client under the acting advisor. The CI must not
// already be registered.
func (s *ClientService) Create(ctx context.Context, actorID string, req CreateClientRequest) (*ClientResponse, error) {
	if _, err := s.resolver.ActiveAdvisor(ctx, actorID); err != nil {
		return nil, err
	}

	existing, err := s.clients.FindByCI(ctx, req.CI)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewAlreadyExists("client", req.CI)
	}

	client, err := partner.NewClient(req.CI, req.FirstNames, req.LastNames, actorID)
	if err != nil {
		return nil, err
	}
	client.Phone = req.Phone
	client.Email = req.Email
	client.PreferredZone = req.PreferredZone
	client.Origin = req.Origin
	if req.MaxBudget != nil {
		if err := client.SetBudget(*req.MaxBudget); err != nil {
			return nil, err
		}
	}

	if err := s.clients.Insert(ctx, client); err != nil {
		return nil, err
	}

	s.logger.Info("client registered",
		zap.String("ci", client.CI),
		zap.String("registered_by", actorID))
	return toClientResponse(client), nil
}

// Get returns one client by CI
func (s *ClientService) Get(ctx context.Context, ci string) (*ClientResponse, error) {
	client, err := s.resolver.Client(ctx, ci)
	if err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List returns clients matching the filter, newest first
func (s *ClientService) List(ctx context.Context, req ListClientsRequest) ([]ClientResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	clients, err := s.clients.List(ctx, partner.ClientFilter{
		Origin:        req.Origin,
		PreferredZone: req.PreferredZone,
		RegisteredBy:  req.RegisteredBy,
		Offset:        req.Offset,
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, *toClientResponse(&clients[i]))
	}
	return responses, nil
}

// Update patches a client record
func (s *ClientService) Update(ctx context.Context, ci string, req UpdateClientRequest) (*ClientResponse, error) {
	patch := partner.ClientPatch{
		FirstNames:    req.FirstNames,
		LastNames:     req.LastNames,
		Phone:         req.Phone,
		Email:         req.Email,
		PreferredZone: req.PreferredZone,
		MaxBudget:     req.MaxBudget,
		Origin:        req.Origin,
	}
	if patch.IsEmpty() {
		return nil, shared.ErrEmptyPatch
	}
	if req.MaxBudget != nil && req.MaxBudget.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Client budget cannot be negative")
	}

	updated, err := s.clients.Update(ctx, ci, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, shared.NewNotFound("client", ci)
	}
	return toClientResponse(updated), nil
}

// Delete removes a client. Clients still referenced by appointments or
// contracts are rejected.
func (s *ClientService) Delete(ctx context.Context, ci string) error {
	if _, err := s.resolver.Client(ctx, ci); err != nil {
		return err
	}

	appointments, err := s.appointments.CountByClient(ctx, ci)
	if err != nil {
		return err
	}
	if appointments > 0 {
		return shared.NewDependencyConflict("client", appointments, "appointments")
	}

	contracts, err := s.contracts.CountByClient(ctx, ci)
	if err != nil {
		return err
	}
	if contracts > 0 {
		return shared.NewDependencyConflict("client", contracts, "contracts")
	}

	return s.clients.Delete(ctx, ci)
}

// Stats aggregates the client base, optionally narrowed to one advisor
func (s *ClientService) Stats(ctx context.Context, registeredBy *string) (*ClientStatsResponse, error) {
	total, err := s.clients.Count(ctx, nil)
	if err != nil {
		return nil, err
	}
	byOrigin, err := s.clients.Origins(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ClientStatsResponse{Total: total, ByOrigin: byOrigin}
	if registeredBy != nil {
		byAdvisor, err := s.clients.Count(ctx, registeredBy)
		if err != nil {
			return nil, err
		}
		stats.ByAdvisor = byAdvisor
	}
	return stats, nil
}
