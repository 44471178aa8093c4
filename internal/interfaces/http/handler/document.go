package handler

import (
	listingapp "github.com/brokerage/backend/internal/application/listing"
	"github.com/gin-gonic/gin"
)

// DocumentHandler handles property document endpoints
type DocumentHandler struct {
	BaseHandler
	documents *listingapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documents *listingapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// RegisterRoutes wires the document endpoints onto the group
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	documents := rg.Group("/documents")
	{
		documents.POST("", h.Create)
		documents.GET("", h.List)
		documents.GET("/:id", h.Get)
		documents.PUT("/:id", h.Update)
		documents.DELETE("/:id", h.Delete)
	}
}

// Create registers a document against a property
func (h *DocumentHandler) Create(c *gin.Context) {
	var req listingapp.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	document, err := h.documents.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, document)
}

// Get returns one document record
func (h *DocumentHandler) Get(c *gin.Context) {
	document, err := h.documents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, document)
}

// List returns document records, optionally narrowed by property and kind
func (h *DocumentHandler) List(c *gin.Context) {
	var req struct {
		PropertyID *string `form:"property_id"`
		Kind       *string `form:"kind"`
		Offset     int     `form:"offset"`
		Limit      int     `form:"limit"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	documents, err := h.documents.List(c.Request.Context(), req.PropertyID, req.Kind, req.Offset, req.Limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, documents)
}

// Update patches a document record
func (h *DocumentHandler) Update(c *gin.Context) {
	var req listingapp.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	document, err := h.documents.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, document)
}

// Delete removes a document record
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
