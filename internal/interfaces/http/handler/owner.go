package handler

import (
	partnerapp "github.com/brokerage/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// OwnerHandler handles property owner endpoints
type OwnerHandler struct {
	BaseHandler
	owners *partnerapp.OwnerService
}

// NewOwnerHandler creates a new OwnerHandler
func NewOwnerHandler(owners *partnerapp.OwnerService) *OwnerHandler {
	return &OwnerHandler{owners: owners}
}

// RegisterRoutes wires the owner endpoints onto the group
func (h *OwnerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	owners := rg.Group("/owners")
	{
		owners.POST("", h.Create)
		owners.GET("", h.List)
		owners.GET("/:ci", h.Get)
		owners.PUT("/:ci", h.Update)
		owners.DELETE("/:ci", h.Delete)
	}
}

// Create registers a new owner
func (h *OwnerHandler) Create(c *gin.Context) {
	var req partnerapp.CreateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	owner, err := h.owners.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, owner)
}

// Get returns one owner by CI
func (h *OwnerHandler) Get(c *gin.Context) {
	owner, err := h.owners.Get(c.Request.Context(), c.Param("ci"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, owner)
}

// List returns owner records
func (h *OwnerHandler) List(c *gin.Context) {
	var req struct {
		Offset int `form:"offset"`
		Limit  int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	owners, err := h.owners.List(c.Request.Context(), req.Offset, req.Limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, owners)
}

// Update patches an owner record
func (h *OwnerHandler) Update(c *gin.Context) {
	var req partnerapp.UpdateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	owner, err := h.owners.Update(c.Request.Context(), c.Param("ci"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, owner)
}

// Delete removes an owner with no remaining properties
func (h *OwnerHandler) Delete(c *gin.Context) {
	if err := h.owners.Delete(c.Request.Context(), c.Param("ci")); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
