package partner

import "github.com/brokerage/backend/internal/domain/shared"

// Owner represents a property owner, keyed by national identity card (CI)
type Owner struct {
	CI         string
	FirstNames string
	LastNames  string
	Phone      string
	Email      string
}

// NewOwner creates a new owner
func NewOwner(ci, firstNames, lastNames, phone, email string) (*Owner, error) {
	if ci == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Owner CI cannot be empty")
	}
	if firstNames == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Owner first names cannot be empty")
	}
	if lastNames == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Owner last names cannot be empty")
	}

	return &Owner{
		CI:         ci,
		FirstNames: firstNames,
		LastNames:  lastNames,
		Phone:      phone,
		Email:      email,
	}, nil
}
