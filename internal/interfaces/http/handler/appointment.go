package handler

import (
	dealapp "github.com/brokerage/backend/internal/application/deal"
	"github.com/brokerage/backend/internal/domain/deal"
	"github.com/brokerage/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AppointmentHandler handles property visit endpoints
type AppointmentHandler struct {
	BaseHandler
	appointments *dealapp.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler
func NewAppointmentHandler(appointments *dealapp.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

// RegisterRoutes wires the appointment endpoints onto the group
func (h *AppointmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	appointments := rg.Group("/appointments")
	{
		appointments.POST("", h.Create)
		appointments.GET("", h.List)
		appointments.GET("/today", h.TodayDigest)
		appointments.GET("/:id", h.Get)
		appointments.PUT("/:id", h.Update)
		appointments.DELETE("/:id", h.Delete)
		appointments.POST("/:id/transition", h.Transition)
	}
}

// Create schedules a visit for the acting advisor
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req dealapp.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appointment, err := h.appointments.Create(c.Request.Context(), middleware.GetActorID(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, appointment)
}

// Get returns one appointment
func (h *AppointmentHandler) Get(c *gin.Context) {
	appointment, err := h.appointments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, appointment)
}

// List returns appointments matching the query filters
func (h *AppointmentHandler) List(c *gin.Context) {
	var req dealapp.ListAppointmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appointments, err := h.appointments.List(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, appointments)
}

// TodayDigest returns the acting advisor's visits for the current day
func (h *AppointmentHandler) TodayDigest(c *gin.Context) {
	digest, err := h.appointments.TodayDigest(c.Request.Context(), middleware.GetActorID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, digest)
}

// Update patches the visit details of a still-open appointment
func (h *AppointmentHandler) Update(c *gin.Context) {
	var req dealapp.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appointment, err := h.appointments.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, appointment)
}

// Transition moves an appointment to a new state
func (h *AppointmentHandler) Transition(c *gin.Context) {
	var req dealapp.TransitionAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appointment, err := h.appointments.Transition(c.Request.Context(), c.Param("id"), deal.AppointmentState(req.State))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, appointment)
}

// Delete removes an appointment record
func (h *AppointmentHandler) Delete(c *gin.Context) {
	if err := h.appointments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
