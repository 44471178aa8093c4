package listing

import (
	"time"

	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationType represents the commercial operation a property is offered under
type OperationType string

const (
	OperationSale        OperationType = "SALE"
	OperationRent        OperationType = "RENT"
	OperationAntichresis OperationType = "ANTICHRESIS"
	OperationTransfer    OperationType = "TRANSFER"
)

// IsValid checks if the operation type is known
func (o OperationType) IsValid() bool {
	switch o {
	case OperationSale, OperationRent, OperationAntichresis, OperationTransfer:
		return true
	}
	return false
}

// String returns the string representation of OperationType
func (o OperationType) String() string {
	return string(o)
}

// PropertyState represents the lifecycle state of a property
type PropertyState string

const (
	PropertyStateCaptured  PropertyState = "CAPTURED"
	PropertyStatePublished PropertyState = "PUBLISHED"
	PropertyStateClosed    PropertyState = "CLOSED"
)

// IsValid checks if the state is a valid PropertyState
func (s PropertyState) IsValid() bool {
	switch s {
	case PropertyStateCaptured, PropertyStatePublished, PropertyStateClosed:
		return true
	}
	return false
}

// String returns the string representation of PropertyState
func (s PropertyState) String() string {
	return string(s)
}

// CanTransitionTo checks if the state can transition to the target state.
// Captured and Published flip back and forth via publish/unpublish; both can
// close. Closed is terminal.
func (s PropertyState) CanTransitionTo(target PropertyState) bool {
	switch s {
	case PropertyStateCaptured:
		return target == PropertyStatePublished || target == PropertyStateClosed
	case PropertyStatePublished:
		return target == PropertyStateCaptured || target == PropertyStateClosed
	case PropertyStateClosed:
		return false
	}
	return false
}

// Property represents a captured real-estate listing
type Property struct {
	ID              string
	Title           string
	OperationType   OperationType
	State           PropertyState
	AddressID       *string
	OwnerCI         string
	CapturedBy      string  // advisor who captured the property
	ClosedBy        *string // advisor who placed the closing contract
	ListPrice       *decimal.Decimal
	Area            *decimal.Decimal
	PublicCode      *string
	CaptureDate     *time.Time
	PublicationDate *time.Time
	ClosingDate     *time.Time
}

// NewProperty creates a new captured property
func NewProperty(title string, operation OperationType, ownerCI, capturedBy string) (*Property, error) {
	if title == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Property title cannot be empty")
	}
	if !operation.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown operation type "+operation.String())
	}
	if ownerCI == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Owner CI cannot be empty")
	}
	if capturedBy == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Capturing advisor cannot be empty")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	return &Property{
		ID:            uuid.NewString(),
		Title:         title,
		OperationType: operation,
		State:         PropertyStateCaptured,
		OwnerCI:       ownerCI,
		CapturedBy:    capturedBy,
		CaptureDate:   &today,
	}, nil
}

// Publish transitions the property to Published and stamps the publication date
func (p *Property) Publish() error {
	if !p.State.CanTransitionTo(PropertyStatePublished) {
		return shared.NewStateViolation("property", p.State.String(), PropertyStatePublished.String())
	}

	now := time.Now().UTC().Truncate(24 * time.Hour)
	p.State = PropertyStatePublished
	p.PublicationDate = &now
	return nil
}

// Unpublish returns the property to Captured, keeping its publication details
func (p *Property) Unpublish() error {
	if !p.State.CanTransitionTo(PropertyStateCaptured) {
		return shared.NewStateViolation("property", p.State.String(), PropertyStateCaptured.String())
	}

	p.State = PropertyStateCaptured
	return nil
}

// Close marks the property as closed by the given advisor. Closing happens
// only as a side effect of activating a contract, never from a direct request.
func (p *Property) Close(closedBy string, closingDate time.Time) error {
	if !p.State.CanTransitionTo(PropertyStateClosed) {
		return shared.NewStateViolation("property", p.State.String(), PropertyStateClosed.String())
	}

	p.State = PropertyStateClosed
	p.ClosedBy = &closedBy
	p.ClosingDate = &closingDate
	return nil
}

// IsClosed returns true if the property is closed
func (p *Property) IsClosed() bool {
	return p.State == PropertyStateClosed
}

// AcceptsEngagements reports whether new appointments or contracts may
// reference this property
func (p *Property) AcceptsEngagements() bool {
	return !p.IsClosed()
}
