package deal

import (
	"context"
	"strings"
	"time"

	"github.com/brokerage/backend/internal/application/resolver"
	"github.com/brokerage/backend/internal/domain/deal"
	"github.com/brokerage/backend/internal/domain/listing"
	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultPageSize caps listings when the caller gives no limit
const DefaultPageSize = 20

// ContractService handles operation contracts. Activation closes the backing
// property in a second single-row write; when that write fails the committed
// contract state is surfaced as a partial apply, never rolled back silently.
type ContractService struct {
	contracts  deal.ContractRepository
	payments   deal.PaymentRepository
	properties listing.PropertyRepository
	resolver   *resolver.Resolver
	cache      listing.ListingCache
	locks      shared.KeyLocker
	logger     *zap.Logger
	now        func() time.Time
}

// NewContractService creates a new ContractService
func NewContractService(
	contracts deal.ContractRepository,
	payments deal.PaymentRepository,
	properties listing.PropertyRepository,
	res *resolver.Resolver,
	cache listing.ListingCache,
	locks shared.KeyLocker,
	logger *zap.Logger,
) *ContractService {
	return &ContractService{
		contracts:  contracts,
		payments:   payments,
		properties: properties,
		resolver:   res,
		cache:      cache,
		locks:      locks,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create opens a draft contract placed by the acting advisor. The property
// must still accept engagements and its operation type must match.
func (s *ContractService) Create(ctx context.Context, actorID string, req CreateContractRequest) (*ContractResponse, error) {
	if _, err := s.resolver.ActiveAdvisor(ctx, actorID); err != nil {
		return nil, err
	}
	if _, err := s.resolver.Client(ctx, req.ClientCI); err != nil {
		return nil, err
	}
	property, err := s.resolver.Property(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	contract, err := deal.NewContract(req.PropertyID, req.ClientCI, actorID,
		property.OperationType, startDate, endDate, req.PaymentMode, req.ClosingPrice)
	if err != nil {
		return nil, err
	}
	contract.Notes = req.Notes
	if err := contract.ValidateAgainstProperty(property); err != nil {
		return nil, err
	}

	if err := s.contracts.Insert(ctx, contract); err != nil {
		return nil, err
	}

	s.logger.Info("contract created",
		zap.String("contract_id", contract.ID),
		zap.String("property_id", contract.PropertyID),
		zap.String("placed_by", actorID))
	return toContractResponse(contract), nil
}

// Get returns one contract
func (s *ContractService) Get(ctx context.Context, id string) (*ContractResponse, error) {
	contract, err := s.resolver.Contract(ctx, id)
	if err != nil {
		return nil, err
	}
	return toContractResponse(contract), nil
}

// List returns contracts matching the filter, most recent start date first
func (s *ContractService) List(ctx context.Context, req ListContractsRequest) ([]ContractResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	filter := deal.ContractFilter{
		OperationType: req.OperationType,
		PropertyID:    req.PropertyID,
		ClientCI:      req.ClientCI,
		PlacedBy:      req.PlacedBy,
		Offset:        req.Offset,
		Limit:         limit,
	}
	if req.State != nil {
		state := deal.ContractState(*req.State)
		if !state.IsValid() {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown contract state "+*req.State)
		}
		filter.State = &state
	}

	contracts, err := s.contracts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ContractResponse, 0, len(contracts))
	for i := range contracts {
		responses = append(responses, *toContractResponse(&contracts[i]))
	}
	return responses, nil
}

// Activate moves a draft contract to Active and closes the backing property.
// The two writes are separate single-row operations: the contract commits
// first, and a failure closing the property comes back as a partial apply so
// the operator can retry the propagation.
func (s *ContractService) Activate(ctx context.Context, id string) (*ContractResponse, error) {
	unlockContract := s.locks.Lock(contractKey(id))
	defer unlockContract()

	contract, err := s.resolver.Contract(ctx, id)
	if err != nil {
		return nil, err
	}

	unlockProperty := s.locks.Lock(propertyKey(contract.PropertyID))
	defer unlockProperty()

	property, err := s.resolver.Property(ctx, contract.PropertyID)
	if err != nil {
		return nil, err
	}
	if err := contract.ValidateAgainstProperty(property); err != nil {
		return nil, err
	}

	closingDate := s.now()
	if err := contract.Activate(closingDate); err != nil {
		return nil, err
	}
	if err := s.contracts.Save(ctx, contract); err != nil {
		return nil, err
	}

	if err := property.Close(contract.PlacedBy, closingDate); err != nil {
		return nil, shared.NewPartialApplyFailure("contract activation", "property close", err)
	}
	if err := s.properties.Save(ctx, property); err != nil {
		s.logger.Error("property close failed after contract activation",
			zap.String("contract_id", contract.ID),
			zap.String("property_id", property.ID),
			zap.Error(err))
		return nil, shared.NewPartialApplyFailure("contract activation", "property close", err)
	}
	s.invalidateListing(ctx)

	s.logger.Info("contract activated",
		zap.String("contract_id", contract.ID),
		zap.String("property_id", property.ID))
	return toContractResponse(contract), nil
}

// Finish closes out an active contract
func (s *ContractService) Finish(ctx context.Context, id string) (*ContractResponse, error) {
	unlock := s.locks.Lock(contractKey(id))
	defer unlock()

	contract, err := s.resolver.Contract(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := contract.Finish(); err != nil {
		return nil, err
	}
	if err := s.contracts.Save(ctx, contract); err != nil {
		return nil, err
	}
	return toContractResponse(contract), nil
}

// Cancel cancels a draft or active contract
func (s *ContractService) Cancel(ctx context.Context, id string) (*ContractResponse, error) {
	unlock := s.locks.Lock(contractKey(id))
	defer unlock()

	contract, err := s.resolver.Contract(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := contract.Cancel(); err != nil {
		return nil, err
	}
	if err := s.contracts.Save(ctx, contract); err != nil {
		return nil, err
	}

	s.logger.Info("contract cancelled", zap.String("contract_id", id))
	return toContractResponse(contract), nil
}

// Update patches contract fields. Finished and cancelled contracts are
// immutable.
func (s *ContractService) Update(ctx context.Context, id string, req UpdateContractRequest) (*ContractResponse, error) {
	unlock := s.locks.Lock(contractKey(id))
	defer unlock()

	contract, err := s.resolver.Contract(ctx, id)
	if err != nil {
		return nil, err
	}
	if !contract.CanModify() {
		return nil, shared.NewStateViolation("contract", contract.State.String(), "update")
	}

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	patch := deal.ContractPatch{
		StartDate:    startDate,
		EndDate:      endDate,
		PaymentMode:  req.PaymentMode,
		ClosingPrice: req.ClosingPrice,
		Notes:        req.Notes,
	}
	if patch.IsEmpty() {
		return nil, shared.ErrEmptyPatch
	}
	if req.ClosingPrice != nil && req.ClosingPrice.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Closing price must be positive")
	}

	updated, err := s.contracts.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, shared.NewNotFound("contract", id)
	}
	return toContractResponse(updated), nil
}

// Delete removes a draft or cancelled contract, cascading its payments first
func (s *ContractService) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(contractKey(id))
	defer unlock()

	contract, err := s.resolver.Contract(ctx, id)
	if err != nil {
		return err
	}
	if !contract.CanDelete() {
		return shared.NewStateViolation("contract", contract.State.String(), "delete")
	}

	if err := s.payments.DeleteByContract(ctx, id); err != nil {
		return err
	}
	if err := s.contracts.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("contract deleted", zap.String("contract_id", id))
	return nil
}

// Summary returns a contract with its payment ledger and running totals
func (s *ContractService) Summary(ctx context.Context, id string) (*ContractSummaryResponse, error) {
	contract, err := s.resolver.Contract(ctx, id)
	if err != nil {
		return nil, err
	}

	property, err := s.resolver.Property(ctx, contract.PropertyID)
	if err != nil {
		return nil, err
	}
	client, err := s.resolver.Client(ctx, contract.ClientCI)
	if err != nil {
		return nil, err
	}

	payments, err := s.payments.ListByContract(ctx, id)
	if err != nil {
		return nil, err
	}

	asOf := s.now()
	summary := &ContractSummaryResponse{
		Contract:      *toContractResponse(contract),
		PropertyTitle: property.Title,
		ClientName:    strings.TrimSpace(client.FirstNames + " " + client.LastNames),
		Payments:      make([]PaymentResponse, 0, len(payments)),
		TotalDue:      decimal.Zero,
		TotalPaid:     decimal.Zero,
		TotalPending:  decimal.Zero,
	}
	for i := range payments {
		p := &payments[i]
		summary.Payments = append(summary.Payments, *toPaymentResponse(p, asOf))
		if !p.CountsTowardLedger() {
			continue
		}
		summary.TotalDue = summary.TotalDue.Add(p.Amount)
		if p.State == deal.PaymentStatePaid {
			summary.TotalPaid = summary.TotalPaid.Add(p.Amount)
		} else {
			summary.TotalPending = summary.TotalPending.Add(p.Amount)
		}
	}
	summary.Balance = contract.ClosingPrice.Sub(summary.TotalDue)
	if contract.ClosingPrice.IsPositive() {
		summary.PercentPaid = summary.TotalPaid.
			Div(contract.ClosingPrice).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return summary, nil
}

func (s *ContractService) invalidateListing(ctx context.Context) {
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("listing cache clear failed", zap.Error(err))
	}
}

func contractKey(id string) string {
	return "contract:" + id
}

func propertyKey(id string) string {
	return "property:" + id
}
