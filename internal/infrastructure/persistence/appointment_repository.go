package persistence

import (
	"context"

	"github.com/brokerage/backend/internal/domain/deal"
	"github.com/brokerage/backend/internal/domain/shared"
)

// AppointmentRepository persists appointments through the store gateway
type AppointmentRepository struct {
	gateway shared.Gateway
}

// NewAppointmentRepository creates a gateway-backed appointment repository
func NewAppointmentRepository(gateway shared.Gateway) *AppointmentRepository {
	return &AppointmentRepository{gateway: gateway}
}

func decodeAppointment(row shared.Row) (*deal.Appointment, error) {
	a := &deal.Appointment{}
	var err error

	if a.ID, err = row.String("id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if a.PropertyID, err = row.String("property_id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if a.ClientCI, err = row.String("client_ci"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if a.AdvisorID, err = row.String("advisor_id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if a.VisitAt, err = row.Time("visit_at"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if row.Has("place") {
		if a.Place, err = row.String("place"); err != nil {
			return nil, shared.NewUpstreamFailure(err)
		}
	}
	if row.Has("note") {
		if a.Note, err = row.String("note"); err != nil {
			return nil, shared.NewUpstreamFailure(err)
		}
	}
	if row.Has("reminder") {
		if a.Reminder, err = row.Bool("reminder"); err != nil {
			return nil, shared.NewUpstreamFailure(err)
		}
	}
	state, err := row.String("state")
	if err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	a.State = deal.AppointmentState(state)

	if a.CreatedAt, err = row.Time("created_at"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	return a, nil
}

func encodeAppointment(a *deal.Appointment) shared.Row {
	return shared.Row{
		"id":          a.ID,
		"property_id": a.PropertyID,
		"client_ci":   a.ClientCI,
		"advisor_id":  a.AdvisorID,
		"visit_at":    shared.EncodeTime(a.VisitAt),
		"place":       a.Place,
		"note":        a.Note,
		"reminder":    a.Reminder,
		"state":       a.State.String(),
		"created_at":  shared.EncodeTime(a.CreatedAt),
	}
}

// FindByID returns the appointment, or nil when it does not exist
func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*deal.Appointment, error) {
	row, err := r.gateway.GetByKey(ctx, collectionAppointment, "id", id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodeAppointment(row)
}

// List returns appointments matching the filter ordered by visit time
func (r *AppointmentRepository) List(ctx context.Context, filter deal.AppointmentFilter) ([]deal.Appointment, error) {
	q := shared.Query{
		Order:  []shared.Order{{Field: "visit_at"}},
		Offset: filter.Offset,
		Limit:  filter.Limit,
	}
	if filter.State != nil {
		q.Predicates = append(q.Predicates, shared.Eq("state", filter.State.String()))
	}
	if filter.PropertyID != nil {
		q.Predicates = append(q.Predicates, shared.Eq("property_id", *filter.PropertyID))
	}
	if filter.ClientCI != nil {
		q.Predicates = append(q.Predicates, shared.Eq("client_ci", *filter.ClientCI))
	}
	if filter.AdvisorID != nil {
		q.Predicates = append(q.Predicates, shared.Eq("advisor_id", *filter.AdvisorID))
	}
	if filter.From != nil {
		q.Predicates = append(q.Predicates, shared.Gte("visit_at", shared.EncodeTime(*filter.From)))
	}
	if filter.To != nil {
		q.Predicates = append(q.Predicates, shared.Lt("visit_at", shared.EncodeTime(*filter.To)))
	}

	rows, err := r.gateway.Filter(ctx, collectionAppointment, q)
	if err != nil {
		return nil, err
	}

	appointments := make([]deal.Appointment, 0, len(rows))
	for _, row := range rows {
		a, err := decodeAppointment(row)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, *a)
	}
	return appointments, nil
}

// Insert writes a new appointment row
func (r *AppointmentRepository) Insert(ctx context.Context, appointment *deal.Appointment) error {
	_, err := r.gateway.Insert(ctx, collectionAppointment, encodeAppointment(appointment))
	return err
}

// Save writes the full appointment state back to its row
func (r *AppointmentRepository) Save(ctx context.Context, appointment *deal.Appointment) error {
	row := encodeAppointment(appointment)
	delete(row, "id")

	updated, err := r.gateway.Update(ctx, collectionAppointment, "id", appointment.ID, row)
	if err != nil {
		return err
	}
	if updated == nil {
		return shared.NewNotFound("appointment", appointment.ID)
	}
	return nil
}

// Update patches the visit fields of an appointment and returns its new
// state, or nil when the appointment does not exist
func (r *AppointmentRepository) Update(ctx context.Context, id string, patch deal.AppointmentPatch) (*deal.Appointment, error) {
	fields := shared.Row{}
	if patch.VisitAt != nil {
		fields["visit_at"] = shared.EncodeTime(*patch.VisitAt)
	}
	if patch.Place != nil {
		fields["place"] = *patch.Place
	}
	if patch.Note != nil {
		fields["note"] = *patch.Note
	}
	if patch.Reminder != nil {
		fields["reminder"] = *patch.Reminder
	}

	row, err := r.gateway.Update(ctx, collectionAppointment, "id", id, fields)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodeAppointment(row)
}

// Delete removes the appointment row
func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	row, err := r.gateway.Delete(ctx, collectionAppointment, "id", id)
	if err != nil {
		return err
	}
	if row == nil {
		return shared.NewNotFound("appointment", id)
	}
	return nil
}

// CountByProperty returns how many appointments reference the property
func (r *AppointmentRepository) CountByProperty(ctx context.Context, propertyID string) (int64, error) {
	return r.gateway.Count(ctx, collectionAppointment, []shared.Predicate{shared.Eq("property_id", propertyID)})
}

// CountByClient returns how many appointments reference the client
func (r *AppointmentRepository) CountByClient(ctx context.Context, clientCI string) (int64, error) {
	return r.gateway.Count(ctx, collectionAppointment, []shared.Predicate{shared.Eq("client_ci", clientCI)})
}
