package deal

import (
	"fmt"
	"time"

	"github.com/brokerage/backend/internal/domain/listing"
	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractState represents the lifecycle state of an operation contract
type ContractState string

const (
	ContractStateDraft     ContractState = "DRAFT"
	ContractStateActive    ContractState = "ACTIVE"
	ContractStateFinished  ContractState = "FINISHED"
	ContractStateCancelled ContractState = "CANCELLED"
)

// IsValid checks if the state is a valid ContractState
func (s ContractState) IsValid() bool {
	switch s {
	case ContractStateDraft, ContractStateActive, ContractStateFinished, ContractStateCancelled:
		return true
	}
	return false
}

// String returns the string representation of ContractState
func (s ContractState) String() string {
	return string(s)
}

// CanTransitionTo checks if the state can transition to the target state
func (s ContractState) CanTransitionTo(target ContractState) bool {
	switch s {
	case ContractStateDraft:
		return target == ContractStateActive || target == ContractStateCancelled
	case ContractStateActive:
		return target == ContractStateFinished || target == ContractStateCancelled
	case ContractStateFinished, ContractStateCancelled:
		return false // Terminal states
	}
	return false
}

// Contract represents an operation contract binding a property, a client and
// the advisor who placed the deal
type Contract struct {
	ID            string
	PropertyID    string
	ClientCI      string
	PlacedBy      string // advisor who closed the operation
	OperationType listing.OperationType
	State         ContractState
	StartDate     time.Time
	EndDate       *time.Time
	PaymentMode   string
	ClosingPrice  decimal.Decimal
	ClosingDate   *time.Time
	Notes         string
}

// NewContract creates a new draft contract. Rent contracts must carry an end
// date; the closing price must be positive.
func NewContract(propertyID, clientCI, placedBy string, operation listing.OperationType, startDate time.Time, endDate *time.Time, paymentMode string, closingPrice decimal.Decimal) (*Contract, error) {
	if propertyID == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Property ID cannot be empty")
	}
	if clientCI == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Client CI cannot be empty")
	}
	if placedBy == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Placing advisor cannot be empty")
	}
	if !operation.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown operation type "+operation.String())
	}
	if closingPrice.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Closing price must be positive")
	}
	if operation == listing.OperationRent && endDate == nil {
		return nil, shared.NewInvariantViolation("rent_end_date", "Rent contracts require an end date")
	}

	return &Contract{
		ID:            uuid.NewString(),
		PropertyID:    propertyID,
		ClientCI:      clientCI,
		PlacedBy:      placedBy,
		OperationType: operation,
		State:         ContractStateDraft,
		StartDate:     startDate,
		EndDate:       endDate,
		PaymentMode:   paymentMode,
		ClosingPrice:  closingPrice,
	}, nil
}

// ValidateAgainstProperty checks the cross-entity rules between a contract
// and the property it references: the property must still accept engagements
// and the operation types must match.
func (c *Contract) ValidateAgainstProperty(p *listing.Property) error {
	if !p.AcceptsEngagements() {
		return shared.NewStateViolation("property", p.State.String(), "contract creation")
	}
	if p.OperationType != c.OperationType {
		return shared.NewInvariantViolation("operation_type_mismatch",
			fmt.Sprintf("Contract operation type must match the property's (%s)", p.OperationType))
	}
	return nil
}

// Activate transitions the contract from Draft to Active and stamps the
// closing date. The caller is responsible for propagating the property close.
func (c *Contract) Activate(closingDate time.Time) error {
	if !c.State.CanTransitionTo(ContractStateActive) {
		return shared.NewStateViolation("contract", c.State.String(), ContractStateActive.String())
	}

	c.State = ContractStateActive
	c.ClosingDate = &closingDate
	return nil
}

// Finish transitions the contract from Active to Finished
func (c *Contract) Finish() error {
	if !c.State.CanTransitionTo(ContractStateFinished) {
		return shared.NewStateViolation("contract", c.State.String(), ContractStateFinished.String())
	}

	c.State = ContractStateFinished
	return nil
}

// Cancel cancels the contract
func (c *Contract) Cancel() error {
	if !c.State.CanTransitionTo(ContractStateCancelled) {
		return shared.NewStateViolation("contract", c.State.String(), ContractStateCancelled.String())
	}

	c.State = ContractStateCancelled
	return nil
}

// IsActive returns true if the contract is active
func (c *Contract) IsActive() bool {
	return c.State == ContractStateActive
}

// CanModify returns true if the contract fields may still be edited.
// Finished and Cancelled contracts are immutable.
func (c *Contract) CanModify() bool {
	return c.State == ContractStateDraft || c.State == ContractStateActive
}

// CanDelete returns true if the contract may be deleted (cascading its
// payments). Only drafts and cancelled contracts qualify.
func (c *Contract) CanDelete() bool {
	return c.State == ContractStateDraft || c.State == ContractStateCancelled
}
