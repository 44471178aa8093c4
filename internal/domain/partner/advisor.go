package partner

import (
	"time"

	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Advisor represents a brokerage user. Only active advisors may act as the
// current actor of a request.
type Advisor struct {
	ID           string
	Username     string
	FullName     string
	Email        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}

// NewAdvisor creates a new active advisor with a bcrypt password hash
func NewAdvisor(username, fullName, email, password string) (*Advisor, error) {
	if username == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Advisor username cannot be empty")
	}
	if fullName == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Advisor full name cannot be empty")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Advisor password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Advisor{
		ID:           uuid.NewString(),
		Username:     username,
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (a *Advisor) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// Deactivate marks the advisor as inactive
func (a *Advisor) Deactivate() {
	a.Active = false
}

// Activate marks the advisor as active
func (a *Advisor) Activate() {
	a.Active = true
}
