package router

import (
	"github.com/gin-gonic/gin"
	"github.com/invoicedash/backend/internal/interfaces/http/handler"
)

// Handlers are the dashboard endpoints and the middleware guarding them
type Handlers struct {
	Invoices *handler.InvoiceHandler
	Auth     *handler.AuthHandler
	Health   *handler.HealthHandler

	// RequireSession guards every /dashboard route
	RequireSession gin.HandlerFunc
	// LoginRateLimit guards POST /login; nil disables it
	LoginRateLimit gin.HandlerFunc
	// ListingCache serves GET /dashboard/invoices from the view cache; nil disables it
	ListingCache gin.HandlerFunc
}

// Register mounts the dashboard routes on engine
func Register(engine *gin.Engine, h Handlers) {
	r := NewRouter(engine)

	public := NewDomainGroup("public", "")
	public.GET("/health", h.Health.Check)
	public.POST("/login", chain(h.LoginRateLimit, h.Auth.Login)...)
	public.POST("/logout", h.Auth.Logout)

	dashboard := NewDomainGroup("dashboard", "/dashboard").Use(h.RequireSession)
	dashboard.GET("/invoices", chain(h.ListingCache, h.Invoices.List)...)
	dashboard.POST("/invoices", h.Invoices.Create)
	dashboard.GET("/invoices/:id", h.Invoices.Get)
	dashboard.POST("/invoices/:id/edit", h.Invoices.Update)
	dashboard.POST("/invoices/:id/delete", h.Invoices.Delete)
	dashboard.GET("/customers", h.Invoices.Customers)

	r.Register(public).Register(dashboard).Setup()
}

// chain drops nil middleware in front of a handler
func chain(mw gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	if mw == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{mw, h}
}
