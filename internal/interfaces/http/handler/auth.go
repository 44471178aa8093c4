package handler

import (
	partnerapp "github.com/brokerage/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles advisor accounts and authentication endpoints
type AuthHandler struct {
	BaseHandler
	advisors *partnerapp.AdvisorService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(advisors *partnerapp.AdvisorService) *AuthHandler {
	return &AuthHandler{advisors: advisors}
}

// RegisterPublicRoutes wires the endpoints reachable without a token
func (h *AuthHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Login)
	}
}

// RegisterRoutes wires the authenticated advisor management endpoints
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	advisors := rg.Group("/advisors")
	{
		advisors.POST("", h.Register)
		advisors.GET("", h.List)
		advisors.GET("/:id", h.Get)
		advisors.POST("/:id/activate", h.Activate)
		advisors.POST("/:id/deactivate", h.Deactivate)
	}
}

// Login authenticates an advisor and issues a bearer token
func (h *AuthHandler) Login(c *gin.Context) {
	var req partnerapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	login, err := h.advisors.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, login)
}

// Register creates a new advisor account
func (h *AuthHandler) Register(c *gin.Context) {
	var req partnerapp.RegisterAdvisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	advisor, err := h.advisors.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, advisor)
}

// Get returns one advisor account
func (h *AuthHandler) Get(c *gin.Context) {
	advisor, err := h.advisors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, advisor)
}

// List returns advisor accounts
func (h *AuthHandler) List(c *gin.Context) {
	var req struct {
		Offset int `form:"offset"`
		Limit  int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	advisors, err := h.advisors.List(c.Request.Context(), req.Offset, req.Limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, advisors)
}

// Activate re-enables a deactivated advisor account
func (h *AuthHandler) Activate(c *gin.Context) {
	advisor, err := h.advisors.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, advisor)
}

// Deactivate disables an advisor account
func (h *AuthHandler) Deactivate(c *gin.Context) {
	advisor, err := h.advisors.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, advisor)
}
