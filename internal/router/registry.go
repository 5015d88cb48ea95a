package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pratsy91/todo-backend/pkg/response"
)

// Registry collects route modules and the middleware scoped to /api.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	api := engine.Group("/api")
	return &Registry{Engine: engine, API: api}
}

// Use queues middleware for every /api route. It also runs ahead of the
// not-found handler so unmatched requests are logged and counted.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// RegisterAll mounts queued middleware and modules. Call it once, after
// every Use and Add.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
	noRoute := make([]gin.HandlerFunc, 0, len(r.middlewares)+1)
	noRoute = append(noRoute, r.middlewares...)
	r.Engine.NoRoute(append(noRoute, notFound)...)
}

func notFound(c *gin.Context) {
	response.Error(c, http.StatusNotFound, "route not found", nil)
}
