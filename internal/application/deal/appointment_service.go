package deal

import (
	"context"
	"time"

	"github.com/brokerage/backend/internal/application/resolver"
	"github.com/brokerage/backend/internal/domain/deal"
	"github.com/brokerage/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AppointmentService handles property visit scheduling
type AppointmentService struct {
	appointments deal.AppointmentRepository
	resolver     *resolver.Resolver
	logger       *zap.Logger
	now          func() time.Time
}

// NewAppointmentService creates a new AppointmentService
func NewAppointmentService(appointments deal.AppointmentRepository, res *resolver.Resolver, logger *zap.Logger) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		resolver:     res,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Create schedules a visit for the acting advisor. The property and client
// must exist, the property must still accept engagements and the visit time
// must lie in the future.
func (s *AppointmentService) Create(ctx context.Context, actorID string, req CreateAppointmentRequest) (*AppointmentResponse, error) {
	if _, err := s.resolver.ActiveAdvisor(ctx, actorID); err != nil {
		return nil, err
	}
	property, err := s.resolver.Property(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if !property.AcceptsEngagements() {
		return nil, shared.NewStateViolation("property", property.State.String(), "appointment creation")
	}
	if _, err := s.resolver.Client(ctx, req.ClientCI); err != nil {
		return nil, err
	}

	appointment, err := deal.NewAppointment(req.PropertyID, req.ClientCI, actorID,
		req.VisitAt.UTC(), req.Place, s.now())
	if err != nil {
		return nil, err
	}
	appointment.Note = req.Note
	appointment.Reminder = req.Reminder

	if err := s.appointments.Insert(ctx, appointment); err != nil {
		return nil, err
	}

	s.logger.Info("appointment scheduled",
		zap.String("appointment_id", appointment.ID),
		zap.String("property_id", appointment.PropertyID),
		zap.Time("visit_at", appointment.VisitAt))
	return toAppointmentResponse(appointment), nil
}

// Get returns one appointment
func (s *AppointmentService) Get(ctx context.Context, id string) (*AppointmentResponse, error) {
	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, shared.NewNotFound("appointment", id)
	}
	return toAppointmentResponse(appointment), nil
}

// List returns appointments matching the filter, ordered by visit time
func (s *AppointmentService) List(ctx context.Context, req ListAppointmentsRequest) ([]AppointmentResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	filter := deal.AppointmentFilter{
		PropertyID: req.PropertyID,
		ClientCI:   req.ClientCI,
		AdvisorID:  req.AdvisorID,
		From:       req.From,
		To:         req.To,
		Offset:     req.Offset,
		Limit:      limit,
	}
	if req.State != nil {
		state := deal.AppointmentState(*req.State)
		if !state.IsValid() {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown appointment state "+*req.State)
		}
		filter.State = &state
	}

	appointments, err := s.appointments.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		responses = append(responses, *toAppointmentResponse(&appointments[i]))
	}
	return responses, nil
}

// TodayDigest returns an advisor's visits falling on the current UTC day,
// with a count per state
func (s *AppointmentService) TodayDigest(ctx context.Context, advisorID string) (*TodayDigestResponse, error) {
	if _, err := s.resolver.Advisor(ctx, advisorID); err != nil {
		return nil, err
	}

	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	appointments, err := s.appointments.List(ctx, deal.AppointmentFilter{
		AdvisorID: &advisorID,
		From:      &from,
		To:        &to,
	})
	if err != nil {
		return nil, err
	}

	digest := &TodayDigestResponse{
		Total:        len(appointments),
		ByState:      make(map[string]int),
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}
	for i := range appointments {
		digest.ByState[appointments[i].State.String()]++
		digest.Appointments = append(digest.Appointments, *toAppointmentResponse(&appointments[i]))
	}
	return digest, nil
}

// Update patches the visit details of a still-open appointment
func (s *AppointmentService) Update(ctx context.Context, id string, req UpdateAppointmentRequest) (*AppointmentResponse, error) {
	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, shared.NewNotFound("appointment", id)
	}
	if !appointment.CanModify() {
		return nil, shared.NewStateViolation("appointment", appointment.State.String(), "update")
	}

	patch := deal.AppointmentPatch{
		VisitAt:  req.VisitAt,
		Place:    req.Place,
		Note:     req.Note,
		Reminder: req.Reminder,
	}
	if patch.IsEmpty() {
		return nil, shared.ErrEmptyPatch
	}
	if req.VisitAt != nil && req.VisitAt.Before(s.now()) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Appointments cannot be scheduled in the past")
	}

	updated, err := s.appointments.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, shared.NewNotFound("appointment", id)
	}
	return toAppointmentResponse(updated), nil
}

// Transition moves an appointment to the target state
func (s *AppointmentService) Transition(ctx context.Context, id string, target deal.AppointmentState) (*AppointmentResponse, error) {
	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, shared.NewNotFound("appointment", id)
	}

	if err := appointment.TransitionTo(target); err != nil {
		return nil, err
	}
	if err := s.appointments.Save(ctx, appointment); err != nil {
		return nil, err
	}

	s.logger.Info("appointment transitioned",
		zap.String("appointment_id", id),
		zap.String("state", target.String()))
	return toAppointmentResponse(appointment), nil
}

// Delete removes an appointment record
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if appointment == nil {
		return shared.NewNotFound("appointment", id)
	}
	return s.appointments.Delete(ctx, id)
}
