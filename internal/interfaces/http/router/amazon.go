package router

import (
	"github.com/erp/mws-connector/internal/infrastructure/auth"
	"github.com/erp/mws-connector/internal/interfaces/http/handler"
	"github.com/erp/mws-connector/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AmazonHandlers groups the handlers served under /amazon
type AmazonHandlers struct {
	Accounts    *handler.AccountHandler
	Identifiers *handler.IdentifierHandler
	Exports     *handler.ExportHandler
	Wizards     *handler.WizardHandler
}

// NewAmazonRoutes builds the /amazon route group. Group middleware such as
// authentication runs before the per-route scope checks.
func NewAmazonRoutes(h AmazonHandlers, groupMiddleware ...gin.HandlerFunc) *Group {
	read := middleware.RequireScope(auth.ScopeRead)
	export := middleware.RequireScope(auth.ScopeExport)
	admin := middleware.RequireScope(auth.ScopeAdmin)

	g := NewGroup("amazon", "/amazon", groupMiddleware...)

	accounts := g.Group("accounts", "/accounts")
	accounts.POST("", admin, h.Accounts.Create)
	accounts.GET("", read, h.Accounts.List)
	accounts.GET("/:id", read, h.Accounts.GetByID)
	accounts.POST("/:id/resolve", export, h.Exports.Resolve)
	accounts.POST("/:id/exports/:kind", export, h.Exports.Export)
	accounts.POST("/:id/wizards/:kind", export, h.Wizards.Begin)

	g.GET("/products/:id/identifiers", read, h.Identifiers.List)
	g.POST("/products/:id/identifiers", admin, h.Identifiers.Add)
	g.DELETE("/identifiers/:id", admin, h.Identifiers.Remove)

	wizards := g.Group("wizards", "/wizards")
	wizards.GET("/:session", read, h.Wizards.Get)
	wizards.POST("/:session/continue", export, h.Wizards.Continue)
	wizards.POST("/:session/cancel", export, h.Wizards.Cancel)
	wizards.POST("/:session/finish", export, h.Wizards.Finish)

	return g
}

// NewSystemRoutes builds the unauthenticated health route
func NewSystemRoutes(health *handler.HealthHandler) *Group {
	return NewGroup("system", "").GET("/health", health.Check)
}
