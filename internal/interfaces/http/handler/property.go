package handler

import (
	listingapp "github.com/brokerage/backend/internal/application/listing"
	"github.com/brokerage/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// PropertyHandler handles property capture, publication and listing endpoints
type PropertyHandler struct {
	BaseHandler
	properties *listingapp.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(properties *listingapp.PropertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

// RegisterRoutes wires the property endpoints onto the group
func (h *PropertyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	properties := rg.Group("/properties")
	{
		properties.POST("", h.Create)
		properties.GET("", h.List)
		properties.GET("/published", h.ListPublished)
		properties.GET("/:id", h.Get)
		properties.PUT("/:id", h.Update)
		properties.DELETE("/:id", h.Delete)
		properties.POST("/:id/publish", h.Publish)
		properties.POST("/:id/unpublish", h.Unpublish)
		properties.GET("/:id/detail", h.GetDetail)
		properties.PUT("/:id/detail", h.UpsertDetail)
	}
}

// Create captures a new property for the acting advisor
func (h *PropertyHandler) Create(c *gin.Context) {
	var req listingapp.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	property, err := h.properties.Create(c.Request.Context(), middleware.GetActorID(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, property)
}

// Get returns one property with its address
func (h *PropertyHandler) Get(c *gin.Context) {
	property, err := h.properties.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, property)
}

// List returns properties matching the query filters
func (h *PropertyHandler) List(c *gin.Context) {
	var req listingapp.ListPropertiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	properties, err := h.properties.List(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, properties)
}

// ListPublished returns the published composite view
func (h *PropertyHandler) ListPublished(c *gin.Context) {
	var req struct {
		Offset int `form:"offset"`
		Limit  int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	published, err := h.properties.ListPublished(c.Request.Context(), req.Offset, req.Limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, published)
}

// Update patches the editable fields of a property
func (h *PropertyHandler) Update(c *gin.Context) {
	var req listingapp.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	property, err := h.properties.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, property)
}

// Delete removes a property and its dependent records
func (h *PropertyHandler) Delete(c *gin.Context) {
	if err := h.properties.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Publish moves a property to Published with its publication details
func (h *PropertyHandler) Publish(c *gin.Context) {
	var req listingapp.DetailInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	property, err := h.properties.Publish(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, property)
}

// Unpublish returns a published property to Captured
func (h *PropertyHandler) Unpublish(c *gin.Context) {
	property, err := h.properties.Unpublish(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, property)
}

// GetDetail returns the publication details of a property
func (h *PropertyHandler) GetDetail(c *gin.Context) {
	detail, err := h.properties.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, detail)
}

// UpsertDetail writes the publication details of a property
func (h *PropertyHandler) UpsertDetail(c *gin.Context) {
	var req listingapp.DetailInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	detail, err := h.properties.UpsertDetail(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, detail)
}
