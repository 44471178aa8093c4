package deal

import (
	"context"
	"time"

	"github.com/brokerage/backend/internal/application/resolver"
	"github.com/brokerage/backend/internal/domain/deal"
	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService handles the payment ledger under contracts. Every write that
// changes ledger totals runs under the contract's ledger lock so the sum check
// and the row write cannot interleave with another writer.
type PaymentService struct {
	payments deal.PaymentRepository
	resolver *resolver.Resolver
	locks    shared.KeyLocker
	logger   *zap.Logger
	now      func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(payments deal.PaymentRepository, res *resolver.Resolver, locks shared.KeyLocker, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		payments: payments,
		resolver: res,
		locks:    locks,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register schedules a payment under an active contract. The ledger total of
// non-cancelled payments, including the new one, must not exceed the
// contract's closing price.
func (s *PaymentService) Register(ctx context.Context, req RegisterPaymentRequest) (*PaymentResponse, error) {
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return nil, err
	}
	payment, err := deal.NewPayment(req.ContractID, req.Amount, dueDate, req.Installment)
	if err != nil {
		return nil, err
	}
	payment.Notes = req.Notes

	unlock := s.locks.Lock(contractLedgerKey(req.ContractID))
	defer unlock()

	// The contract is read under the ledger lock so the closing price the sum
	// is checked against cannot change between the check and the write
	contract, err := s.resolver.Contract(ctx, req.ContractID)
	if err != nil {
		return nil, err
	}
	if !contract.IsActive() {
		return nil, shared.NewStateViolation("contract", contract.State.String(), "payment registration")
	}

	if err := s.checkLedger(ctx, contract.ID, contract.ClosingPrice, req.Amount, ""); err != nil {
		return nil, err
	}
	if err := s.payments.Insert(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("payment registered",
		zap.String("payment_id", payment.ID),
		zap.String("contract_id", payment.ContractID),
		zap.String("amount", payment.Amount.String()))
	return toPaymentResponse(payment, s.now()), nil
}

// Get returns one payment
func (s *PaymentService) Get(ctx context.Context, id string) (*PaymentResponse, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.NewNotFound("payment", id)
	}
	return toPaymentResponse(payment, s.now()), nil
}

// ListByContract returns the payment ledger of a contract, earliest due first
func (s *PaymentService) ListByContract(ctx context.Context, contractID string) ([]PaymentResponse, error) {
	if _, err := s.resolver.Contract(ctx, contractID); err != nil {
		return nil, err
	}

	payments, err := s.payments.ListByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	asOf := s.now()
	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, *toPaymentResponse(&payments[i], asOf))
	}
	return responses, nil
}

// ListLate returns pending payments across all contracts whose due date has
// passed. Lateness is computed at read time; nothing is written back.
func (s *PaymentService) ListLate(ctx context.Context) ([]PaymentResponse, error) {
	asOf := s.now()
	payments, err := s.payments.ListLate(ctx, asOf)
	if err != nil {
		return nil, err
	}

	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, *toPaymentResponse(&payments[i], asOf))
	}
	return responses, nil
}

// Update patches a payment, re-checking the ledger when the amount changes
func (s *PaymentService) Update(ctx context.Context, id string, req UpdatePaymentRequest) (*PaymentResponse, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.NewNotFound("payment", id)
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		return nil, err
	}
	patch := deal.PaymentPatch{
		Amount:      req.Amount,
		DueDate:     dueDate,
		Installment: req.Installment,
		Notes:       req.Notes,
	}
	if patch.IsEmpty() {
		return nil, shared.ErrEmptyPatch
	}
	if req.Amount != nil && req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Payment amount must be positive")
	}
	if req.Installment != nil && *req.Installment <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Payment installment must be positive")
	}

	unlock := s.locks.Lock(contractLedgerKey(payment.ContractID))
	defer unlock()

	if req.Amount != nil {
		contract, err := s.resolver.Contract(ctx, payment.ContractID)
		if err != nil {
			return nil, err
		}
		if err := s.checkLedger(ctx, contract.ID, contract.ClosingPrice, *req.Amount, id); err != nil {
			return nil, err
		}
	}

	updated, err := s.payments.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, shared.NewNotFound("payment", id)
	}
	return toPaymentResponse(updated, s.now()), nil
}

// Transition moves a payment to the target state, stamping the settlement
// time on Paid
func (s *PaymentService) Transition(ctx context.Context, id string, target deal.PaymentState) (*PaymentResponse, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.NewNotFound("payment", id)
	}

	unlock := s.locks.Lock(contractLedgerKey(payment.ContractID))
	defer unlock()

	if err := payment.TransitionTo(target, s.now()); err != nil {
		return nil, err
	}
	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("payment transitioned",
		zap.String("payment_id", id),
		zap.String("state", target.String()))
	return toPaymentResponse(payment, s.now()), nil
}

// Delete removes a payment. Settled payments are part of the financial record
// and cannot be removed.
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if payment == nil {
		return shared.NewNotFound("payment", id)
	}
	if !payment.CanDelete() {
		return shared.NewStateViolation("payment", payment.State.String(), "delete")
	}

	unlock := s.locks.Lock(contractLedgerKey(payment.ContractID))
	defer unlock()

	return s.payments.Delete(ctx, id)
}

// checkLedger verifies that the non-cancelled ledger total, with extra added
// and the payment identified by excludeID taken out, stays within the closing
// price
func (s *PaymentService) checkLedger(ctx context.Context, contractID string, closingPrice, extra decimal.Decimal, excludeID string) error {
	payments, err := s.payments.ListByContract(ctx, contractID)
	if err != nil {
		return err
	}

	total := extra
	for i := range payments {
		p := &payments[i]
		if p.ID == excludeID || !p.CountsTowardLedger() {
			continue
		}
		total = total.Add(p.Amount)
	}
	if total.GreaterThan(closingPrice) {
		return shared.NewInvariantViolation("ledger_overflow",
			"Payments would total "+total.String()+" against a closing price of "+closingPrice.String())
	}
	return nil
}

func contractLedgerKey(contractID string) string {
	return "contract-ledger:" + contractID
}
