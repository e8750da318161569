// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"tradecore/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
// All catalog handlers must implement these methods.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetDeletionMark(c *gin.Context)
	GetTree(c *gin.Context)
}

// DocumentRouteHandler defines the interface for document handlers.
// All document handlers must implement these methods.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// DocumentPostingHandler is an optional interface for documents that write
// registers through the posting engine under the standard post/unpost routes.
// Documents whose register writes go through domain transitions (approve,
// receive) register those routes themselves.
type DocumentPostingHandler interface {
	Post(c *gin.Context)
	Unpost(c *gin.Context)
	HasPosting() bool
}

// DocumentCopyHandler is an optional interface for documents that support copying.
type DocumentCopyHandler interface {
	Copy(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// This eliminates the need to manually wire up routes for each catalog.
//
// Usage:
//
//	repo := catalog_repo.NewWarehouseRepo()
//	service := warehouse.NewService(repo, cfg.Numerator)
//	handler := handlers.NewWarehouseHandler(baseHandler, service)
//	RegisterCatalogRoutes(catalogs.Group("/warehouses"), handler, "catalog:warehouse")
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, permission string) {
	group.GET("", middleware.RequirePermission(permission+":read"), handler.List)
	group.POST("", middleware.RequirePermission(permission+":create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(permission+":read"), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(permission+":update"), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(permission+":delete"), handler.Delete)
	group.POST("/:id/deletion-mark", middleware.RequirePermission(permission+":delete"), handler.SetDeletionMark)
	group.GET("/tree", middleware.RequirePermission(permission+":read"), handler.GetTree)
}

// RegisterDocumentRoutes registers standard CRUD routes for a document, plus
// post/unpost and copy routes for handlers that support them.
//
// Usage:
//
//	repo := document_repo.NewSalesInvoiceRepo()
//	service := sales_invoice.NewService(repo, postingEngine, cfg.Numerator, normalizer)
//	handler := handlers.NewSalesInvoiceHandler(baseHandler, service)
//	RegisterDocumentRoutes(documents.Group("/sales-invoices"), handler, "document:sales_invoice")
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler, permission string) {
	group.GET("", middleware.RequirePermission(permission+":read"), handler.List)
	group.POST("", middleware.RequirePermission(permission+":create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(permission+":read"), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(permission+":update"), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(permission+":delete"), handler.Delete)

	// Register posting routes if handler supports them (optional)
	if postingHandler, ok := handler.(DocumentPostingHandler); ok && postingHandler.HasPosting() {
		group.POST("/:id/post", middleware.RequirePermission(permission+":post"), postingHandler.Post)
		group.POST("/:id/unpost", middleware.RequirePermission(permission+":unpost"), postingHandler.Unpost)
	}

	// Register Copy route if handler supports it (optional)
	if copyHandler, ok := handler.(DocumentCopyHandler); ok {
		group.POST("/:id/copy", middleware.RequirePermission(permission+":create"), copyHandler.Copy)
	}
}
