package router

import (
	"net/http"

	"github.com/brokerage/backend/internal/application/resolver"
	"github.com/brokerage/backend/internal/infrastructure/auth"
	"github.com/brokerage/backend/internal/interfaces/http/handler"
	"github.com/brokerage/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router wires all API routes onto a gin engine. Everything except login and
// the health probe sits behind bearer authentication.
type Router struct {
	engine     *gin.Engine
	jwtService *auth.JWTService
	resolver   *resolver.Resolver
	authPublic *handler.AuthHandler
	registrars []RouteRegistrar
}

// New creates a Router over the given engine
func New(engine *gin.Engine, jwtService *auth.JWTService, res *resolver.Resolver, authHandler *handler.AuthHandler) *Router {
	return &Router{
		engine:     engine,
		jwtService: jwtService,
		resolver:   res,
		authPublic: authHandler,
	}
}

// Register adds a RouteRegistrar to the authenticated API group
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api/v1")
	r.authPublic.RegisterPublicRoutes(api)

	authed := api.Group("")
	authed.Use(middleware.Auth(r.jwtService, r.resolver))
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(authed)
	}
}
