package handler

import (
	dealapp "github.com/brokerage/backend/internal/application/deal"
	"github.com/brokerage/backend/internal/domain/deal"
	"github.com/gin-gonic/gin"
)

// PaymentHandler handles contract payment endpoints
type PaymentHandler struct {
	BaseHandler
	payments *dealapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments *dealapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// RegisterRoutes wires the payment endpoints onto the group
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", h.Register)
		payments.GET("/late", h.ListLate)
		payments.GET("/:id", h.Get)
		payments.PUT("/:id", h.Update)
		payments.DELETE("/:id", h.Delete)
		payments.POST("/:id/transition", h.Transition)
	}
	rg.GET("/contracts/:id/payments", h.ListByContract)
}

// Register schedules a payment under an active contract
func (h *PaymentHandler) Register(c *gin.Context) {
	var req dealapp.RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.payments.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, payment)
}

// Get returns one payment
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.payments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payment)
}

// ListByContract returns the payment ledger of a contract
func (h *PaymentHandler) ListByContract(c *gin.Context) {
	payments, err := h.payments.ListByContract(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payments)
}

// ListLate returns overdue pending payments across all contracts
func (h *PaymentHandler) ListLate(c *gin.Context) {
	payments, err := h.payments.ListLate(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payments)
}

// Update patches a payment
func (h *PaymentHandler) Update(c *gin.Context) {
	var req dealapp.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.payments.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payment)
}

// Transition moves a payment to a new state
func (h *PaymentHandler) Transition(c *gin.Context) {
	var req dealapp.TransitionPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.payments.Transition(c.Request.Context(), c.Param("id"), deal.PaymentState(req.State))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payment)
}

// Delete removes an unsettled payment
func (h *PaymentHandler) Delete(c *gin.Context) {
	if err := h.payments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
