package router

import (
	"github.com/gin-gonic/gin"
	"github.com/invoicegen/backend/internal/interfaces/http/handler"
	"github.com/invoicegen/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// SystemRoutes registers health and liveness endpoints
type SystemRoutes struct {
	handler *handler.SystemHandler
}

// NewSystemRoutes creates the system route registrar
func NewSystemRoutes(h *handler.SystemHandler) *SystemRoutes {
	return &SystemRoutes{handler: h}
}

// RegisterRoutes implements RouteRegistrar
func (sr *SystemRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	system.GET("/health", sr.handler.Health)
	system.GET("/ping", sr.handler.Ping)
}

// InvoiceRoutes registers the invoice endpoints
type InvoiceRoutes struct {
	handler *handler.InvoiceHandler
}

// NewInvoiceRoutes creates the invoice route registrar
func NewInvoiceRoutes(h *handler.InvoiceHandler) *InvoiceRoutes {
	return &InvoiceRoutes{handler: h}
}

// RegisterRoutes implements RouteRegistrar
func (ir *InvoiceRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	invoices.Use(middleware.UserContext())

	invoices.POST("", ir.handler.Create)
	invoices.GET("", ir.handler.List)
	invoices.GET("/stats", ir.handler.Stats)
	invoices.GET("/:id", ir.handler.Get)
	invoices.PUT("/:id", ir.handler.Update)
	invoices.PATCH("/:id/status", ir.handler.UpdateStatus)
	invoices.DELETE("/:id", ir.handler.Delete)
	invoices.GET("/:id/pdf", ir.handler.DownloadPDF)
}
