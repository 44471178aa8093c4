package persistence

import (
	"context"

	"github.com/brokerage/backend/internal/domain/partner"
	"github.com/brokerage/backend/internal/domain/shared"
)

// ClientRepository persists clients through the store gateway
type ClientRepository struct {
	gateway shared.Gateway
}

// NewClientRepository creates a gateway-backed client repository
func NewClientRepository(gateway shared.Gateway) *ClientRepository {
	return &ClientRepository{gateway: gateway}
}

func decodeClient(row shared.Row) (*partner.Client, error) {
	c := &partner.Client{}
	var err error

	if c.CI, err = row.String("ci"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if c.FirstNames, err = row.String("first_names"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if c.LastNames, err = row.String("last_names"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	for field, dst := range map[string]*string{
		"phone":          &c.Phone,
		"email":          &c.Email,
		"preferred_zone": &c.PreferredZone,
		"origin":         &c.Origin,
	} {
		if row.Has(field) {
			if *dst, err = row.String(field); err != nil {
				return nil, shared.NewUpstreamFailure(err)
			}
		}
	}
	if c.MaxBudget, err = row.OptDecimal("max_budget"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if c.RegisteredBy, err = row.String("registered_by"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if c.RegisteredAt, err = row.Time("registered_at"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	return c, nil
}

func encodeClient(c *partner.Client) shared.Row {
	row := shared.Row{
		"ci":             c.CI,
		"first_names":    c.FirstNames,
		"last_names":     c.LastNames,
		"phone":          c.Phone,
		"email":          c.Email,
		"preferred_zone": c.PreferredZone,
		"origin":         c.Origin,
		"registered_by":  c.RegisteredBy,
		"registered_at":  shared.EncodeTime(c.RegisteredAt),
	}
	if c.MaxBudget != nil {
		row["max_budget"] = shared.EncodeDecimal(*c.MaxBudget)
	}
	return row
}

// FindByCI returns the client, or nil when it does not exist
func (r *ClientRepository) FindByCI(ctx context.Context, ci string) (*partner.Client, error) {
	row, err := r.gateway.GetByKey(ctx, collectionClients, "ci", ci)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodeClient(row)
}

// List returns clients matching the filter, newest registrations first
func (r *ClientRepository) List(ctx context.Context, filter partner.ClientFilter) ([]partner.Client, error) {
	q := shared.Query{
		Order:  []shared.Order{{Field: "registered_at", Desc: true}},
		Offset: filter.Offset,
		Limit:  filter.Limit,
	}
	if filter.Origin != nil {
		q.Predicates = append(q.Predicates, shared.Eq("origin", *filter.Origin))
	}
	if filter.PreferredZone != nil {
		q.Predicates = append(q.Predicates, shared.ILike("preferred_zone", *filter.PreferredZone))
	}
	if filter.RegisteredBy != nil {
		q.Predicates = append(q.Predicates, shared.Eq("registered_by", *filter.RegisteredBy))
	}

	rows, err := r.gateway.Filter(ctx, collectionClients, q)
	if err != nil {
		return nil, err
	}

	clients := make([]partner.Client, 0, len(rows))
	for _, row := range rows {
		c, err := decodeClient(row)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	return clients, nil
}

// Insert writes a new client row
func (r *ClientRepository) Insert(ctx context.Context, client *partner.Client) error {
	_, err := r.gateway.Insert(ctx, collectionClients, encodeClient(client))
	return err
}

// Update patches the editable fields of a client and returns its new state,
// or nil when the client does not exist
func (r *ClientRepository) Update(ctx context.Context, ci string, patch partner.ClientPatch) (*partner.Client, error) {
	fields := shared.Row{}
	if patch.FirstNames != nil {
		fields["first_names"] = *patch.FirstNames
	}
	if patch.LastNames != nil {
		fields["last_names"] = *patch.LastNames
	}
	if patch.Phone != nil {
		fields["phone"] = *patch.Phone
	}
	if patch.Email != nil {
		fields["email"] = *patch.Email
	}
	if patch.PreferredZone != nil {
		fields["preferred_zone"] = *patch.PreferredZone
	}
	if patch.MaxBudget != nil {
		fields["max_budget"] = shared.EncodeDecimal(*patch.MaxBudget)
	}
	if patch.Origin != nil {
		fields["origin"] = *patch.Origin
	}

	row, err := r.gateway.Update(ctx, collectionClients, "ci", ci, fields)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodeClient(row)
}

// Delete removes the client row
func (r *ClientRepository) Delete(ctx context.Context, ci string) error {
	row, err := r.gateway.Delete(ctx, collectionClients, "ci", ci)
	if err != nil {
		return err
	}
	if row == nil {
		return shared.NewNotFound("client", ci)
	}
	return nil
}

// Count returns the number of clients, optionally narrowed to one advisor
func (r *ClientRepository) Count(ctx context.Context, registeredBy *string) (int64, error) {
	var predicates []shared.Predicate
	if registeredBy != nil {
		predicates = append(predicates, shared.Eq("registered_by", *registeredBy))
	}
	return r.gateway.Count(ctx, collectionClients, predicates)
}

// Origins returns client counts grouped by origin. The store offers no
// aggregation, so grouping happens here.
func (r *ClientRepository) Origins(ctx context.Context) (map[string]int64, error) {
	rows, err := r.gateway.Filter(ctx, collectionClients, shared.Query{})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, row := range rows {
		origin := ""
		if row.Has("origin") {
			if origin, err = row.String("origin"); err != nil {
				return nil, shared.NewUpstreamFailure(err)
			}
		}
		counts[origin]++
	}
	return counts, nil
}

// OwnerRepository persists owners through the store gateway
type OwnerRepository struct {
	gateway shared.Gateway
}

// NewOwnerRepository creates a gateway-backed owner repository
func NewOwnerRepository(gateway shared.Gateway) *OwnerRepository {
	return &OwnerRepository{gateway: gateway}
}

func decodeOwner(row shared.Row) (*partner.Owner, error) {
	o := &partner.Owner{}
	var err error

	if o.CI, err = row.String("ci"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if o.FirstNames, err = row.String("first_names"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if o.LastNames, err = row.String("last_names"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if row.Has("phone") {
		if o.Phone, err = row.String("phone"); err != nil {
			return nil, shared.NewUpstreamFailure(err)
		}
	}
	if row.Has("email") {
		if o.Email, err = row.String("email"); err != nil {
			return nil, shared.NewUpstreamFailure(err)
		}
	}
	return o, nil
}

func encodeOwner(o *partner.Owner) shared.Row {
	return shared.Row{
		"ci":          o.CI,
		"first_names": o.FirstNames,
		"last_names":  o.LastNames,
		"phone":       o.Phone,
		"email":       o.Email,
	}
}

// FindByCI returns the owner, or nil when it does not exist
func (r *OwnerRepository) FindByCI(ctx context.Context, ci string) (*partner.Owner, error) {
	row, err := r.gateway.GetByKey(ctx, collectionOwners, "ci", ci)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodeOwner(row)
}

// List returns owners ordered by last names
func (r *OwnerRepository) List(ctx context.Context, offset, limit int) ([]partner.Owner, error) {
	rows, err := r.gateway.Filter(ctx, collectionOwners, shared.Query{
		Order:  []shared.Order{{Field: "last_names"}},
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	owners := make([]partner.Owner, 0, len(rows))
	for _, row := range rows {
		o, err := decodeOwner(row)
		if err != nil {
			return nil, err
		}
		owners = append(owners, *o)
	}
	return owners, nil
}

// Insert writes a new owner row
func (r *OwnerRepository) Insert(ctx context.Context, owner *partner.Owner) error {
	_, err := r.gateway.Insert(ctx, collectionOwners, encodeOwner(owner))
	return err
}

// Update patches the editable fields of an owner and returns its new state,
// or nil when the owner does not exist
func (r *OwnerRepository) Update(ctx context.Context, ci string, patch partner.OwnerPatch) (*partner.Owner, error) {
	fields := shared.Row{}
	if patch.FirstNames != nil {
		fields["first_names"] = *patch.FirstNames
	}
	if patch.LastNames != nil {
		fields["last_names"] = *patch.LastNames
	}
	if patch.Phone != nil {
		fields["phone"] = *patch.Phone
	}
	if patch.Email != nil {
		fields["email"] = *patch.Email
	}

	row, err := r.gateway.Update(ctx, collectionOwners, "ci", ci, fields)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodeOwner(row)
}

// Delete removes the owner row
func (r *OwnerRepository) Delete(ctx context.Context, ci string) error {
	row, err := r.gateway.Delete(ctx, collectionOwners, "ci", ci)
	if err != nil {
		return err
	}
	if row == nil {
		return shared.NewNotFound("owner", ci)
	}
	return nil
}

// AdvisorRepository persists advisors through the store gateway
type AdvisorRepository struct {
	gateway shared.Gateway
}

// NewAdvisorRepository creates a gateway-backed advisor repository
func NewAdvisorRepository(gateway shared.Gateway) *AdvisorRepository {
	return &AdvisorRepository{gateway: gateway}
}

func decodeAdvisor(row shared.Row) (*partner.Advisor, error) {
	a := &partner.Advisor{}
	var err error

	if a.ID, err = row.String("id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if a.Username, err = row.String("username"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if a.FullName, err = row.String("full_name"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if row.Has("email") {
		if a.Email, err = row.String("email"); err != nil {
			return nil, shared.NewUpstreamFailure(err)
		}
	}
	if a.PasswordHash, err = row.String("password_hash"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if a.Active, err = row.Bool("active"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if a.CreatedAt, err = row.Time("created_at"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	return a, nil
}

func encodeAdvisor(a *partner.Advisor) shared.Row {
	return shared.Row{
		"id":            a.ID,
		"username":      a.Username,
		"full_name":     a.FullName,
		"email":         a.Email,
		"password_hash": a.PasswordHash,
		"active":        a.Active,
		"created_at":    shared.EncodeTime(a.CreatedAt),
	}
}

// FindByID returns the advisor, or nil when it does not exist
func (r *AdvisorRepository) FindByID(ctx context.Context, id string) (*partner.Advisor, error) {
	row, err := r.gateway.GetByKey(ctx, collectionAdvisors, "id", id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodeAdvisor(row)
}

// FindByUsername returns the advisor with the username, or nil
func (r *AdvisorRepository) FindByUsername(ctx context.Context, username string) (*partner.Advisor, error) {
	rows, err := r.gateway.Filter(ctx, collectionAdvisors, shared.Query{
		Predicates: []shared.Predicate{shared.Eq("username", username)},
		Limit:      1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return decodeAdvisor(rows[0])
}

// List returns advisors ordered by username
func (r *AdvisorRepository) List(ctx context.Context, offset, limit int) ([]partner.Advisor, error) {
	rows, err := r.gateway.Filter(ctx, collectionAdvisors, shared.Query{
		Order:  []shared.Order{{Field: "username"}},
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	advisors := make([]partner.Advisor, 0, len(rows))
	for _, row := range rows {
		a, err := decodeAdvisor(row)
		if err != nil {
			return nil, err
		}
		advisors = append(advisors, *a)
	}
	return advisors, nil
}

// Insert writes a new advisor row
func (r *AdvisorRepository) Insert(ctx context.Context, advisor *partner.Advisor) error {
	_, err := r.gateway.Insert(ctx, collectionAdvisors, encodeAdvisor(advisor))
	return err
}

// Save writes the full advisor state back to its row
func (r *AdvisorRepository) Save(ctx context.Context, advisor *partner.Advisor) error {
	row := encodeAdvisor(advisor)
	delete(row, "id")

	updated, err := r.gateway.Update(ctx, collectionAdvisors, "id", advisor.ID, row)
	if err != nil {
		return err
	}
	if updated == nil {
		return shared.NewNotFound("advisor", advisor.ID)
	}
	return nil
}

// Delete removes the advisor row
func (r *AdvisorRepository) Delete(ctx context.Context, id string) error {
	row, err := r.gateway.Delete(ctx, collectionAdvisors, "id", id)
	if err != nil {
		return err
	}
	if row == nil {
		return shared.NewNotFound("advisor", id)
	}
	return nil
}
