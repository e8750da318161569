package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradecore/internal/core/id"
	"tradecore/internal/core/security"
	"tradecore/internal/core/tenant"
	"tradecore/internal/domain"
	"tradecore/internal/domain/audit"
	"tradecore/internal/domain/auth"
	"tradecore/internal/domain/catalogs/counterparty"
	"tradecore/internal/domain/catalogs/item"
	"tradecore/internal/domain/catalogs/salesperson"
	"tradecore/internal/domain/catalogs/warehouse"
	"tradecore/internal/domain/documents/delivery_note"
	"tradecore/internal/domain/documents/goods_receipt"
	"tradecore/internal/domain/documents/sales_invoice"
	"tradecore/internal/domain/documents/sales_order"
	"tradecore/internal/domain/documents/stock_adjustment"
	"tradecore/internal/domain/posting"
	"tradecore/internal/domain/registers/commission"
	"tradecore/internal/domain/registers/journal"
	"tradecore/internal/domain/registers/stock"
	"tradecore/internal/domain/uom"
	"tradecore/internal/infrastructure/http/v1/handlers"
	"tradecore/internal/infrastructure/http/v1/middleware"
	"tradecore/internal/infrastructure/storage/postgres"
	"tradecore/internal/infrastructure/storage/postgres/catalog_repo"
	"tradecore/internal/infrastructure/storage/postgres/document_repo"
	"tradecore/internal/infrastructure/storage/postgres/register_repo"
	"tradecore/pkg/logger"
	"tradecore/pkg/numerator"
)

// RouterConfig holds router configuration for multi-tenant architecture.
type RouterConfig struct {
	// TenantManager manages database connections for all tenants
	TenantManager *tenant.Manager

	// MetaPool is connection to meta-database (for health checks)
	MetaPool *pgxpool.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Numerator for document number generation
	Numerator *numerator.Service

	// PostingPolicy controls period-close restrictions on post/unpost.
	// Nil means no restrictions.
	PostingPolicy security.PostingPolicy

	// IdempotencyEnabled enables idempotency middleware
	IdempotencyEnabled bool
}

// NewRouter creates and configures the Gin router for multi-tenant architecture.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth, no tenant required)
	healthHandler := handlers.NewHealthHandler(cfg.MetaPool, cfg.TenantManager)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
		health.GET("/tenants", healthHandler.TenantsStats)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes - need TenantDB middleware BEFORE auth
		registerAuthRoutes(v1, cfg)

		// Protected endpoints - TenantDB runs first, then Auth
		protected := v1.Group("")
		protected.Use(middleware.TenantDB(cfg.TenantManager)) // 1. Resolve tenant, get DB pool
		protected.Use(middleware.Auth(cfg.JWTValidator))      // 2. Validate JWT
		protected.Use(middleware.UserContext())               // 3. Add UserID to context for domain layer

		// Apply idempotency middleware for mutating operations
		if cfg.IdempotencyEnabled {
			protected.Use(idempotencyMiddleware(10 * time.Minute))
		}

		registerCatalogRoutes(protected, cfg)
		registerDocumentRoutes(protected, cfg)
		registerRegisterRoutes(protected, cfg)
		registerAuditRoutes(protected, cfg)
	}

	return router
}

// idempotencyMiddleware creates idempotency middleware that uses tenant pool + TxManager from context.
func idempotencyMiddleware(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		pool := tenant.MustGetPool(ctx)
		txm := postgres.MustGetTxManager(ctx)
		store := postgres.NewIdempotencyStoreFromRawPool(pool, txm, ttl)
		middleware.Idempotency(store)(c)
	}
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required, but need tenant for DB access)
	publicAuth := rg.Group("/auth")
	publicAuth.Use(middleware.TenantDB(cfg.TenantManager))

	// Protected auth endpoints (JWT required)
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.TenantDB(cfg.TenantManager))
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// Note: Repos and services are created once but TxManager is obtained from context per-request

	// --- ITEMS ---
	{
		repo := catalog_repo.NewItemRepo()
		service := item.NewService(repo, cfg.Numerator)
		handler := handlers.NewItemHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/items"), handler, "catalog:item")
	}

	// --- WAREHOUSES ---
	{
		repo := catalog_repo.NewWarehouseRepo()
		service := warehouse.NewService(repo, cfg.Numerator)
		handler := handlers.NewWarehouseHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/warehouses"), handler, "catalog:warehouse")
	}

	// --- COUNTERPARTIES ---
	{
		repo := catalog_repo.NewCounterpartyRepo()
		service := counterparty.NewService(repo, cfg.Numerator)
		handler := handlers.NewCounterpartyHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/counterparties"), handler, "catalog:counterparty")
	}

	// --- SALESPERSONS ---
	{
		repo := catalog_repo.NewSalespersonRepo()
		service := salesperson.NewService(repo, cfg.Numerator)
		handler := handlers.NewSalespersonHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/salespersons"), handler, "catalog:salesperson")
	}
}

// auditChangeLog registers change-log hooks for a document service. Entries
// ride the service's transaction, so a rolled back create leaves no trace.
func auditChangeLog[T interface{ GetID() id.ID }](hooks *domain.HookRegistry[T], auditSvc *postgres.AuditService, entityType string) {
	hooks.OnAfterCreate(func(ctx context.Context, doc T) error {
		return auditSvc.LogChange(ctx, entityType, doc.GetID(), postgres.AuditActionCreate, nil)
	})
	hooks.OnAfterUpdate(func(ctx context.Context, doc T) error {
		return auditSvc.LogChange(ctx, entityType, doc.GetID(), postgres.AuditActionUpdate, nil)
	})
}

// registerDocumentRoutes registers document endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	docsGroup := rg.Group("/document")
	baseHandler := handlers.NewBaseHandler()

	auditSvc, err := postgres.NewAuditServiceFromContext()
	if err != nil {
		panic(fmt.Sprintf("audit service init: %v", err))
	}

	// Shared register services. All documents post through one engine so
	// downstream posters fire consistently regardless of document type.
	stockService := stock.NewService(register_repo.NewStockRepo())
	journalService := journal.NewService(register_repo.NewJournalRepo())
	commissionService := commission.NewService(register_repo.NewCommissionRepo())

	postingEngine := posting.NewEngine(posting.EngineConfig{
		Stock:  stockService,
		Policy: cfg.PostingPolicy,
	})
	postingEngine.RegisterDownstream(posting.NewReceivablePoster(journalService))
	postingEngine.RegisterDownstream(posting.NewCOGSPoster(journalService))
	postingEngine.RegisterDownstream(posting.NewCommissionPoster(commissionService))

	// Shared item source for quantity normalization and cost lookups.
	itemRepo := catalog_repo.NewItemRepo()
	normalizer := uom.NewNormalizer(itemRepo)
	salespersonRepo := catalog_repo.NewSalespersonRepo()

	// --- SALES INVOICES ---
	var invoiceService *sales_invoice.Service
	{
		repo := document_repo.NewSalesInvoiceRepo()
		service := sales_invoice.NewService(repo, postingEngine, normalizer, itemRepo, salespersonRepo, cfg.Numerator, nil)
		invoiceService = service

		service.Hooks().OnBeforeCreate(func(ctx context.Context, doc *sales_invoice.SalesInvoice) error {
			audit.EnrichCreatedBy(ctx, &doc.CreatedBy, &doc.UpdatedBy)
			return nil
		})
		service.Hooks().OnBeforeUpdate(func(ctx context.Context, doc *sales_invoice.SalesInvoice) error {
			audit.EnrichUpdatedBy(ctx, &doc.UpdatedBy)
			return nil
		})
		auditChangeLog(service.Hooks(), auditSvc, "SalesInvoice")

		handler := handlers.NewSalesInvoiceHandler(baseHandler, service)
		group := docsGroup.Group("/sales-invoices")
		RegisterDocumentRoutes(group, handler, "document:sales_invoice")
		group.POST("/:id/mark-paid", middleware.RequirePermission("document:sales_invoice:update"), handler.MarkPaid)
	}

	// --- SALES ORDERS ---
	{
		repo := document_repo.NewSalesOrderRepo()
		service := sales_order.NewService(repo, invoiceService, normalizer, cfg.Numerator, nil)

		service.Hooks().OnBeforeCreate(func(ctx context.Context, doc *sales_order.SalesOrder) error {
			audit.EnrichCreatedBy(ctx, &doc.CreatedBy, &doc.UpdatedBy)
			return nil
		})
		service.Hooks().OnBeforeUpdate(func(ctx context.Context, doc *sales_order.SalesOrder) error {
			audit.EnrichUpdatedBy(ctx, &doc.UpdatedBy)
			return nil
		})
		auditChangeLog(service.Hooks(), auditSvc, "SalesOrder")

		handler := handlers.NewSalesOrderHandler(baseHandler, service)
		group := docsGroup.Group("/sales-orders")
		RegisterDocumentRoutes(group, handler, "document:sales_order")
		group.POST("/:id/confirm", middleware.RequirePermission("document:sales_order:update"), handler.Confirm)
		group.POST("/:id/start-processing", middleware.RequirePermission("document:sales_order:update"), handler.StartProcessing)
		group.POST("/:id/convert-to-invoice", middleware.RequirePermission("document:sales_invoice:create"), handler.ConvertToInvoice)
	}

	// --- GOODS RECEIPTS ---
	{
		repo := document_repo.NewGoodsReceiptRepo()
		service := goods_receipt.NewService(repo, postingEngine, normalizer, cfg.Numerator, nil)

		service.Hooks().OnBeforeCreate(func(ctx context.Context, doc *goods_receipt.GoodsReceipt) error {
			audit.EnrichCreatedBy(ctx, &doc.CreatedBy, &doc.UpdatedBy)
			return nil
		})
		service.Hooks().OnBeforeUpdate(func(ctx context.Context, doc *goods_receipt.GoodsReceipt) error {
			audit.EnrichUpdatedBy(ctx, &doc.UpdatedBy)
			return nil
		})
		auditChangeLog(service.Hooks(), auditSvc, "GoodsReceipt")

		handler := handlers.NewGoodsReceiptHandler(baseHandler, service)
		group := docsGroup.Group("/goods-receipts")
		RegisterDocumentRoutes(group, handler, "document:goods_receipt")
		group.POST("/:id/submit", middleware.RequirePermission("document:goods_receipt:update"), handler.SubmitForApproval)
		group.POST("/:id/approve", middleware.RequirePermission("document:goods_receipt:post"), handler.Approve)
		group.POST("/:id/unapprove", middleware.RequirePermission("document:goods_receipt:unpost"), handler.Unapprove)
	}

	// --- DELIVERY NOTES ---
	{
		repo := document_repo.NewDeliveryNoteRepo()
		service := delivery_note.NewService(repo, postingEngine, normalizer, itemRepo, cfg.Numerator, nil)

		service.Hooks().OnBeforeCreate(func(ctx context.Context, doc *delivery_note.DeliveryNote) error {
			audit.EnrichCreatedBy(ctx, &doc.CreatedBy, &doc.UpdatedBy)
			return nil
		})
		service.Hooks().OnBeforeUpdate(func(ctx context.Context, doc *delivery_note.DeliveryNote) error {
			audit.EnrichUpdatedBy(ctx, &doc.UpdatedBy)
			return nil
		})
		auditChangeLog(service.Hooks(), auditSvc, "DeliveryNote")

		handler := handlers.NewDeliveryNoteHandler(baseHandler, service)
		group := docsGroup.Group("/delivery-notes")
		RegisterDocumentRoutes(group, handler, "document:delivery_note")
		group.POST("/:id/dispatch", middleware.RequirePermission("document:delivery_note:update"), handler.Dispatch)
		group.POST("/:id/receive", middleware.RequirePermission("document:delivery_note:post"), handler.Receive)
		group.POST("/:id/unreceive", middleware.RequirePermission("document:delivery_note:unpost"), handler.Unreceive)
	}

	// --- STOCK ADJUSTMENTS ---
	{
		repo := document_repo.NewStockAdjustmentRepo()
		service := stock_adjustment.NewService(repo, postingEngine, normalizer, itemRepo, cfg.Numerator, nil)

		service.Hooks().OnBeforeCreate(func(ctx context.Context, doc *stock_adjustment.StockAdjustment) error {
			audit.EnrichCreatedBy(ctx, &doc.CreatedBy, &doc.UpdatedBy)
			return nil
		})
		service.Hooks().OnBeforeUpdate(func(ctx context.Context, doc *stock_adjustment.StockAdjustment) error {
			audit.EnrichUpdatedBy(ctx, &doc.UpdatedBy)
			return nil
		})
		auditChangeLog(service.Hooks(), auditSvc, "StockAdjustment")

		handler := handlers.NewStockAdjustmentHandler(baseHandler, service)
		RegisterDocumentRoutes(docsGroup.Group("/stock-adjustments"), handler, "document:stock_adjustment")
	}
}

// registerRegisterRoutes registers accumulation register endpoints.
func registerRegisterRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	registers := rg.Group("/registers")
	baseHandler := handlers.NewBaseHandler()

	// Stock register
	{
		stockRepo := register_repo.NewStockRepo()
		stockService := stock.NewService(stockRepo)
		stockHandler := handlers.NewStockHandler(baseHandler, stockService, stockRepo)

		stockGroup := registers.Group("/stock")
		stockGroup.Use(middleware.RequirePermission("register:stock:read"))
		stockHandler.RegisterRoutes(stockGroup)
	}

	// Counterparty journal register
	{
		journalService := journal.NewService(register_repo.NewJournalRepo())
		journalHandler := handlers.NewJournalHandler(baseHandler, journalService)

		journalGroup := registers.Group("/journal")
		journalGroup.Use(middleware.RequirePermission("register:journal:read"))
		journalHandler.RegisterRoutes(journalGroup)
	}

	// Commission register
	{
		commissionService := commission.NewService(register_repo.NewCommissionRepo())
		commissionHandler := handlers.NewCommissionHandler(baseHandler, commissionService)

		commissionGroup := registers.Group("/commission")
		commissionGroup.Use(middleware.RequirePermission("register:commission:read"))
		commissionHandler.RegisterRoutes(commissionGroup)
	}
}

// registerAuditRoutes registers change-log read endpoints.
func registerAuditRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	auditSvc, err := postgres.NewAuditServiceFromContext()
	if err != nil {
		panic(fmt.Sprintf("audit service init: %v", err))
	}

	auditHandler := handlers.NewAuditHandler(handlers.NewBaseHandler(), auditSvc)

	auditGroup := rg.Group("/audit")
	auditGroup.Use(middleware.RequirePermission("audit:read"))
	auditHandler.RegisterRoutes(auditGroup)
}

