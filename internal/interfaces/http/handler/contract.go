package handler

import (
	dealapp "github.com/brokerage/backend/internal/application/deal"
	"github.com/brokerage/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ContractHandler handles operation contract endpoints
type ContractHandler struct {
	BaseHandler
	contracts *dealapp.ContractService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(contracts *dealapp.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// RegisterRoutes wires the contract endpoints onto the group
func (h *ContractHandler) RegisterRoutes(rg *gin.RouterGroup) {
	contracts := rg.Group("/contracts")
	{
		contracts.POST("", h.Create)
		contracts.GET("", h.List)
		contracts.GET("/:id", h.Get)
		contracts.GET("/:id/summary", h.Summary)
		contracts.PUT("/:id", h.Update)
		contracts.DELETE("/:id", h.Delete)
		contracts.POST("/:id/activate", h.Activate)
		contracts.POST("/:id/finish", h.Finish)
		contracts.POST("/:id/cancel", h.Cancel)
	}
}

// Create opens a draft contract placed by the acting advisor
func (h *ContractHandler) Create(c *gin.Context) {
	var req dealapp.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contract, err := h.contracts.Create(c.Request.Context(), middleware.GetActorID(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, contract)
}

// Get returns one contract
func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.contracts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, contract)
}

// List returns contracts matching the query filters
func (h *ContractHandler) List(c *gin.Context) {
	var req dealapp.ListContractsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contracts, err := h.contracts.List(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, contracts)
}

// Summary returns a contract with its payment ledger totals
func (h *ContractHandler) Summary(c *gin.Context) {
	summary, err := h.contracts.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, summary)
}

// Update patches contract fields
func (h *ContractHandler) Update(c *gin.Context) {
	var req dealapp.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contract, err := h.contracts.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, contract)
}

// Delete removes a draft or cancelled contract
func (h *ContractHandler) Delete(c *gin.Context) {
	if err := h.contracts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate moves a draft contract to Active, closing the backing property
func (h *ContractHandler) Activate(c *gin.Context) {
	contract, err := h.contracts.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, contract)
}

// Finish closes out an active contract
func (h *ContractHandler) Finish(c *gin.Context) {
	contract, err := h.contracts.Finish(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, contract)
}

// Cancel cancels a draft or active contract
func (h *ContractHandler) Cancel(c *gin.Context) {
	contract, err := h.contracts.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, contract)
}
