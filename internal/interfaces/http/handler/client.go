package handler

import (
	partnerapp "github.com/brokerage/backend/internal/application/partner"
	"github.com/brokerage/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	BaseHandler
	clients *partnerapp.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clients *partnerapp.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// RegisterRoutes wires the client endpoints onto the group
func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	{
		clients.POST("", h.Create)
		clients.GET("", h.List)
		clients.GET("/stats", h.Stats)
		clients.GET("/:ci", h.Get)
		clients.PUT("/:ci", h.Update)
		clients.DELETE("/:ci", h.Delete)
	}
}

// Create registers a client under the acting advisor
func (h *ClientHandler) Create(c *gin.Context) {
	var req partnerapp.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	client, err := h.clients.Create(c.Request.Context(), middleware.GetActorID(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, client)
}

// Get returns one client by CI
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.clients.Get(c.Request.Context(), c.Param("ci"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, client)
}

// List returns clients matching the query filters
func (h *ClientHandler) List(c *gin.Context) {
	var req partnerapp.ListClientsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	clients, err := h.clients.List(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, clients)
}

// Stats returns client base aggregates, including the acting advisor's share
func (h *ClientHandler) Stats(c *gin.Context) {
	actorID := middleware.GetActorID(c)
	stats, err := h.clients.Stats(c.Request.Context(), &actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, stats)
}

// Update patches a client record
func (h *ClientHandler) Update(c *gin.Context) {
	var req partnerapp.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	client, err := h.clients.Update(c.Request.Context(), c.Param("ci"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, client)
}

// Delete removes a client record
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.clients.Delete(c.Request.Context(), c.Param("ci")); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
