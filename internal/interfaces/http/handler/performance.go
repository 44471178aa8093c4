package handler

import (
	performanceapp "github.com/brokerage/backend/internal/application/performance"
	"github.com/gin-gonic/gin"
)

// PerformanceHandler handles advisor performance endpoints
type PerformanceHandler struct {
	BaseHandler
	records *performanceapp.Service
}

// NewPerformanceHandler creates a new PerformanceHandler
func NewPerformanceHandler(records *performanceapp.Service) *PerformanceHandler {
	return &PerformanceHandler{records: records}
}

// RegisterRoutes wires the performance endpoints onto the group
func (h *PerformanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	records := rg.Group("/performance")
	{
		records.POST("", h.Create)
		records.GET("/:id", h.Get)
		records.PUT("/:id", h.Update)
		records.DELETE("/:id", h.Delete)
	}
	rg.GET("/advisors/:id/performance", h.ListByAdvisor)
}

// Create opens a performance record for an advisor and month
func (h *PerformanceHandler) Create(c *gin.Context) {
	var req performanceapp.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.records.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, record)
}

// Get returns one performance record
func (h *PerformanceHandler) Get(c *gin.Context) {
	record, err := h.records.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, record)
}

// ListByAdvisor returns an advisor's performance records
func (h *PerformanceHandler) ListByAdvisor(c *gin.Context) {
	records, err := h.records.ListByAdvisor(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, records)
}

// Update patches a performance record
func (h *PerformanceHandler) Update(c *gin.Context) {
	var req performanceapp.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.records.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, record)
}

// Delete removes a performance record
func (h *PerformanceHandler) Delete(c *gin.Context) {
	if err := h.records.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
