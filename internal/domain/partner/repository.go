package partner

import (
	"context"

	"github.com/shopspring/decimal"
)

// ClientFilter narrows client listings
type ClientFilter struct {
	Origin        *string
	PreferredZone *string // substring match
	RegisteredBy  *string
	Offset        int
	Limit         int
}

// ClientPatch carries editable client fields; nil fields are left untouched
type ClientPatch struct {
	FirstNames    *string
	LastNames     *string
	Phone         *string
	Email         *string
	PreferredZone *string
	MaxBudget     *decimal.Decimal
	Origin        *string
}

// IsEmpty reports whether the patch carries no fields
func (p ClientPatch) IsEmpty() bool {
	return p.FirstNames == nil && p.LastNames == nil && p.Phone == nil &&
		p.Email == nil && p.PreferredZone == nil && p.MaxBudget == nil && p.Origin == nil
}

// ClientRepository provides access to client rows
type ClientRepository interface {
	FindByCI(ctx context.Context, ci string) (*Client, error)
	List(ctx context.Context, filter ClientFilter) ([]Client, error)
	Insert(ctx context.Context, client *Client) error
	Update(ctx context.Context, ci string, patch ClientPatch) (*Client, error)
	Delete(ctx context.Context, ci string) error
	Count(ctx context.Context, registeredBy *string) (int64, error)
	Origins(ctx context.Context) (map[string]int64, error)
}

// OwnerPatch carries editable owner fields; nil fields are left untouched
type OwnerPatch struct {
	FirstNames *string
	LastNames  *string
	Phone      *string
	Email      *string
}

// IsEmpty reports whether the patch carries no fields
func (p OwnerPatch) IsEmpty() bool {
	return p.FirstNames == nil && p.LastNames == nil && p.Phone == nil && p.Email == nil
}

// OwnerRepository provides access to owner rows
type OwnerRepository interface {
	FindByCI(ctx context.Context, ci string) (*Owner, error)
	List(ctx context.Context, offset, limit int) ([]Owner, error)
	Insert(ctx context.Context, owner *Owner) error
	Update(ctx context.Context, ci string, patch OwnerPatch) (*Owner, error)
	Delete(ctx context.Context, ci string) error
}

// AdvisorRepository provides access to advisor (user) rows
type AdvisorRepository interface {
	FindByID(ctx context.Context, id string) (*Advisor, error)
	FindByUsername(ctx context.Context, username string) (*Advisor, error)
	List(ctx context.Context, offset, limit int) ([]Advisor, error)
	Insert(ctx context.Context, advisor *Advisor) error
	Save(ctx context.Context, advisor *Advisor) error
	Delete(ctx context.Context, id string) error
}
