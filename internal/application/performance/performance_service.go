package performance

import (
	"context"

	"github.com/brokerage/backend/internal/application/resolver"
	"github.com/brokerage/backend/internal/domain/performance"
	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateRecordRequest opens a performance record for an advisor and month
type CreateRecordRequest struct {
	AdvisorID string `json:"advisor_id" binding:"required"`
	Period    string `json:"period" binding:"required"` // YYYY-MM
	Notes     string `json:"notes"`
}

// UpdateRecordRequest carries the patchable performance fields
type UpdateRecordRequest struct {
	PropertiesTaken *int             `json:"properties_taken"`
	DealsClosed     *int             `json:"deals_closed"`
	SalesTotal      *decimal.Decimal `json:"sales_total"`
	CommissionTotal *decimal.Decimal `json:"commission_total"`
	Notes           *string          `json:"notes"`
}

// RecordResponse is the outward shape of a performance record
type RecordResponse struct {
	ID              string          `json:"id"`
	AdvisorID       string          `json:"advisor_id"`
	Period          string          `json:"period"`
	PropertiesTaken int             `json:"properties_taken"`
	DealsClosed     int             `json:"deals_closed"`
	SalesTotal      decimal.Decimal `json:"sales_total"`
	CommissionTotal decimal.Decimal `json:"commission_total"`
	Notes           string          `json:"notes,omitempty"`
}

// Service handles monthly advisor performance records
type Service struct {
	records  performance.Repository
	resolver *resolver.Resolver
	logger   *zap.Logger
}

// NewService creates a new performance Service
func NewService(records performance.Repository, res *resolver.Resolver, logger *zap.Logger) *Service {
	return &Service{records: records, resolver: res, logger: logger}
}

// Create opens a record for an advisor and period. At most one record exists
// per pair.
func (s *Service) Create(ctx context.Context, req CreateRecordRequest) (*RecordResponse, error) {
	if _, err := s.resolver.Advisor(ctx, req.AdvisorID); err != nil {
		return nil, err
	}

	existing, err := s.records.FindByAdvisorPeriod(ctx, req.AdvisorID, req.Period)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewAlreadyExists("performance record", req.AdvisorID+"/"+req.Period)
	}

	record, err := performance.NewAdvisorPerformance(req.AdvisorID, req.Period)
	if err != nil {
		return nil, err
	}
	record.Notes = req.Notes

	if err := s.records.Insert(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("performance record created",
		zap.String("advisor_id", record.AdvisorID),
		zap.String("period", record.Period))
	return toRecordResponse(record), nil
}

// Get returns one performance record
func (s *Service) Get(ctx context.Context, id string) (*RecordResponse, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, shared.NewNotFound("performance record", id)
	}
	return toRecordResponse(record), nil
}

// ListByAdvisor returns an advisor's records, most recent period first
func (s *Service) ListByAdvisor(ctx context.Context, advisorID string) ([]RecordResponse, error) {
	if _, err := s.resolver.Advisor(ctx, advisorID); err != nil {
		return nil, err
	}

	records, err := s.records.ListByAdvisor(ctx, advisorID)
	if err != nil {
		return nil, err
	}

	responses := make([]RecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, *toRecordResponse(&records[i]))
	}
	return responses, nil
}

// Update patches a performance record
func (s *Service) Update(ctx context.Context, id string, req UpdateRecordRequest) (*RecordResponse, error) {
	patch := performance.RecordPatch{
		PropertiesTaken: req.PropertiesTaken,
		DealsClosed:     req.DealsClosed,
		SalesTotal:      req.SalesTotal,
		CommissionTotal: req.CommissionTotal,
		Notes:           req.Notes,
	}
	if patch.IsEmpty() {
		return nil, shared.ErrEmptyPatch
	}
	if req.PropertiesTaken != nil && *req.PropertiesTaken < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Properties taken cannot be negative")
	}
	if req.DealsClosed != nil && *req.DealsClosed < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Deals closed cannot be negative")
	}
	if req.SalesTotal != nil && req.SalesTotal.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Sales total cannot be negative")
	}
	if req.CommissionTotal != nil && req.CommissionTotal.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Commission total cannot be negative")
	}

	updated, err := s.records.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, shared.NewNotFound("performance record", id)
	}
	return toRecordResponse(updated), nil
}

// Delete removes a performance record
func (s *Service) Delete(ctx context.Context, id string) error {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return shared.NewNotFound("performance record", id)
	}
	return s.records.Delete(ctx, id)
}

func toRecordResponse(r *performance.AdvisorPerformance) *RecordResponse {
	return &RecordResponse{
		ID:              r.ID,
		AdvisorID:       r.AdvisorID,
		Period:          r.Period,
		PropertiesTaken: r.PropertiesTaken,
		DealsClosed:     r.DealsClosed,
		SalesTotal:      r.SalesTotal,
		CommissionTotal: r.CommissionTotal,
		Notes:           r.Notes,
	}
}
