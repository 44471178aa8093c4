package partner

import (
	"time"

	"github.com/brokerage/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CreateClientRequest registers a new client
type CreateClientRequest struct {
	CI            string           `json:"ci" binding:"required"`
	FirstNames    string           `json:"first_names" binding:"required"`
	LastNames     string           `json:"last_names" binding:"required"`
	Phone         string           `json:"phone"`
	Email         string           `json:"email"`
	PreferredZone string           `json:"preferred_zone"`
	MaxBudget     *decimal.Decimal `json:"max_budget"`
	Origin        string           `json:"origin"`
}

// UpdateClientRequest carries the patchable client fields
type UpdateClientRequest struct {
	FirstNames    *string          `json:"first_names"`
	LastNames     *string          `json:"last_names"`
	Phone         *string          `json:"phone"`
	Email         *string          `json:"email"`
	PreferredZone *string          `json:"preferred_zone"`
	MaxBudget     *decimal.Decimal `json:"max_budget"`
	Origin        *string          `json:"origin"`
}

// ListClientsRequest narrows the client listing
type ListClientsRequest struct {
	Origin        *string `form:"origin"`
	PreferredZone *string `form:"preferred_zone"`
	RegisteredBy  *string `form:"registered_by"`
	Offset        int     `form:"offset"`
	Limit         int     `form:"limit"`
}

// ClientResponse is the outward shape of a client
type ClientResponse struct {
	CI            string           `json:"ci"`
	FirstNames    string           `json:"first_names"`
	LastNames     string           `json:"last_names"`
	Phone         string           `json:"phone,omitempty"`
	Email         string           `json:"email,omitempty"`
	PreferredZone string           `json:"preferred_zone,omitempty"`
	MaxBudget     *decimal.Decimal `json:"max_budget,omitempty"`
	Origin        string           `json:"origin,omitempty"`
	RegisteredBy  string           `json:"registered_by"`
	RegisteredAt  time.Time        `json:"registered_at"`
}

// ClientStatsResponse aggregates the client base
type ClientStatsResponse struct {
	Total     int64            `json:"total"`
	ByOrigin  map[string]int64 `json:"by_origin"`
	ByAdvisor int64            `json:"by_advisor,omitempty"`
}

// CreateOwnerRequest registers a new property owner
type CreateOwnerRequest struct {
	CI         string `json:"ci" binding:"required"`
	FirstNames string `json:"first_names" binding:"required"`
	LastNames  string `json:"last_names" binding:"required"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// UpdateOwnerRequest carries the patchable owner fields
type UpdateOwnerRequest struct {
	FirstNames *string `json:"first_names"`
	LastNames  *string `json:"last_names"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
}

// OwnerResponse is the outward shape of an owner
type OwnerResponse struct {
	CI         string `json:"ci"`
	FirstNames string `json:"first_names"`
	LastNames  string `json:"last_names"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
}

// RegisterAdvisorRequest creates a new advisor account
type RegisterAdvisorRequest struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest authenticates an advisor
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdvisorResponse is the outward shape of an advisor
type AdvisorResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse carries the issued token and the authenticated advisor
type LoginResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	ExpiresAt time.Time       `json:"expires_at"`
	Advisor   AdvisorResponse `json:"advisor"`
}

func toClientResponse(c *partner.Client) *ClientResponse {
	return &ClientResponse{
		CI:            c.CI,
		FirstNames:    c.FirstNames,
		LastNames:     c.LastNames,
		Phone:         c.Phone,
		Email:         c.Email,
		PreferredZone: c.PreferredZone,
		MaxBudget:     c.MaxBudget,
		Origin:        c.Origin,
		RegisteredBy:  c.RegisteredBy,
		RegisteredAt:  c.RegisteredAt,
	}
}

func toOwnerResponse(o *partner.Owner) *OwnerResponse {
	return &OwnerResponse{
		CI:         o.CI,
		FirstNames: o.FirstNames,
		LastNames:  o.LastNames,
		Phone:      o.Phone,
		Email:      o.Email,
	}
}

func toAdvisorResponse(a *partner.Advisor) *AdvisorResponse {
	return &AdvisorResponse{
		ID:        a.ID,
		Username:  a.Username,
		FullName:  a.FullName,
		Email:     a.Email,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
	}
}
