// Package router assembles the gin engine and API route groups.
package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by handlers that attach their own routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router owns the gin engine and the versioned API group
type Router struct {
	engine     *gin.Engine
	apiVersion string
}

// New creates a Router around the given engine
func New(engine *gin.Engine) *Router {
	return &Router{
		engine:     engine,
		apiVersion: "v1",
	}
}

// Engine returns the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Root returns the unversioned root group for probes and docs
func (r *Router) Root() *gin.RouterGroup {
	return &r.engine.RouterGroup
}

// API returns the versioned API group, creating it on first use
func (r *Router) API() *gin.RouterGroup {
	return r.engine.Group("/api/" + r.apiVersion)
}

// Register attaches the given registrars to the versioned API group
func (r *Router) Register(registrars ...RouteRegistrar) {
	api := r.API()
	for _, registrar := range registrars {
		registrar.RegisterRoutes(api)
	}
}

// RegisterWith attaches registrars to the versioned API group behind
// the given middleware chain.
func (r *Router) RegisterWith(middleware []gin.HandlerFunc, registrars ...RouteRegistrar) {
	api := r.API()
	api.Use(middleware...)
	for _, registrar := range registrars {
		registrar.RegisterRoutes(api)
	}
}
