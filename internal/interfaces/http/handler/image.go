package handler

import (
	listingapp "github.com/brokerage/backend/internal/application/listing"
	"github.com/gin-gonic/gin"
)

// ImageHandler handles property image endpoints
type ImageHandler struct {
	BaseHandler
	images *listingapp.ImageService
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(images *listingapp.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// RegisterRoutes wires the image endpoints onto the group
func (h *ImageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	images := rg.Group("/images")
	{
		images.POST("", h.Create)
		images.GET("", h.List)
		images.GET("/:id", h.Get)
		images.PUT("/:id", h.Update)
		images.DELETE("/:id", h.Delete)
	}
}

// Create registers an image against a property
func (h *ImageHandler) Create(c *gin.Context) {
	var req listingapp.CreateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	image, err := h.images.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, image)
}

// Get returns one image record
func (h *ImageHandler) Get(c *gin.Context) {
	image, err := h.images.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, image)
}

// List returns image records, optionally narrowed to one property
func (h *ImageHandler) List(c *gin.Context) {
	var req struct {
		PropertyID *string `form:"property_id"`
		Offset     int     `form:"offset"`
		Limit      int     `form:"limit"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	images, err := h.images.List(c.Request.Context(), req.PropertyID, req.Offset, req.Limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, images)
}

// Update patches an image record
func (h *ImageHandler) Update(c *gin.Context) {
	var req listingapp.UpdateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	image, err := h.images.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, image)
}

// Delete removes an image record
func (h *ImageHandler) Delete(c *gin.Context) {
	if err := h.images.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
