// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"wareflow/internal/domain/auth"
	"wareflow/internal/domain/catalogs/category"
	"wareflow/internal/domain/catalogs/product"
	"wareflow/internal/domain/catalogs/warehouse"
	"wareflow/internal/domain/documents/adjustment"
	"wareflow/internal/domain/documents/delivery"
	"wareflow/internal/domain/documents/receipt"
	"wareflow/internal/domain/documents/transfer"
	"wareflow/internal/domain/ledger"
	"wareflow/internal/infrastructure/http/v1/handlers"
	"wareflow/internal/infrastructure/http/v1/middleware"
	"wareflow/internal/infrastructure/storage/postgres"
	"wareflow/pkg/logger"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	JWTValidator middleware.JWTValidator
	AuthService  *auth.Service

	ProductService   *product.Service
	CategoryService  *category.Service
	WarehouseService *warehouse.Service

	ReceiptService    *receipt.Service
	DeliveryService   *delivery.Service
	TransferService   *transfer.Service
	AdjustmentService *adjustment.Service

	LedgerService *ledger.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Order matters: recovery first, error handler closest to handlers.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	apiV1 := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", middleware.Auth(cfg.JWTValidator), authHandler.Me)
		}

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerCatalogRoutes(protected, base, cfg)
		registerDocumentRoutes(protected, base, cfg)
		registerStockRoutes(protected, base, cfg)
	}

	return router
}

func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	productHandler := handlers.NewProductHandler(base, cfg.ProductService)
	products := rg.Group("/products")
	{
		products.POST("", productHandler.Create)
		products.GET("", productHandler.List)
		products.GET("/:id", productHandler.Get)
		products.GET("/by-code/:code", productHandler.GetByCode)
		products.GET("/by-sku/:sku", productHandler.GetBySKU)
		products.PUT("/:id", productHandler.Update)
		products.DELETE("/:id", productHandler.Deactivate)
		products.POST("/:id/activate", productHandler.Activate)
	}

	categoryHandler := handlers.NewCategoryHandler(base, cfg.CategoryService)
	categories := rg.Group("/categories")
	{
		categories.POST("", categoryHandler.Create)
		categories.GET("", categoryHandler.List)
		categories.GET("/:id", categoryHandler.Get)
		categories.GET("/by-code/:code", categoryHandler.GetByCode)
		categories.PUT("/:id", categoryHandler.Update)
		categories.DELETE("/:id", categoryHandler.Deactivate)
		categories.POST("/:id/activate", categoryHandler.Activate)
	}

	warehouseHandler := handlers.NewWarehouseHandler(base, cfg.WarehouseService)
	warehouses := rg.Group("/warehouses")
	{
		warehouses.POST("", warehouseHandler.Create)
		warehouses.GET("", warehouseHandler.List)
		warehouses.GET("/:id", warehouseHandler.Get)
		warehouses.GET("/by-code/:code", warehouseHandler.GetByCode)
		warehouses.PUT("/:id", warehouseHandler.Update)
		warehouses.DELETE("/:id", warehouseHandler.Deactivate)
		warehouses.POST("/:id/activate", warehouseHandler.Activate)
	}
}

func registerDocumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	receiptHandler := handlers.NewReceiptHandler(base, cfg.ReceiptService)
	receipts := rg.Group("/receipts")
	{
		receipts.POST("", receiptHandler.Create)
		receipts.GET("", receiptHandler.List)
		receipts.GET("/:id", receiptHandler.Get)
		receipts.PUT("/:id", receiptHandler.Update)
		receipts.DELETE("/:id", receiptHandler.Delete)
		receipts.POST("/:id/transition", receiptHandler.Transition)
		receipts.POST("/:id/complete", receiptHandler.Complete)
	}

	deliveryHandler := handlers.NewDeliveryHandler(base, cfg.DeliveryService)
	deliveries := rg.Group("/deliveries")
	{
		deliveries.POST("", deliveryHandler.Create)
		deliveries.GET("", deliveryHandler.List)
		deliveries.GET("/:id", deliveryHandler.Get)
		deliveries.PUT("/:id", deliveryHandler.Update)
		deliveries.DELETE("/:id", deliveryHandler.Delete)
		deliveries.POST("/:id/transition", deliveryHandler.Transition)
		deliveries.POST("/:id/complete", deliveryHandler.Complete)
	}

	transferHandler := handlers.NewTransferHandler(base, cfg.TransferService)
	transfers := rg.Group("/transfers")
	{
		transfers.POST("", transferHandler.Create)
		transfers.GET("", transferHandler.List)
		transfers.GET("/:id", transferHandler.Get)
		transfers.PUT("/:id", transferHandler.Update)
		transfers.DELETE("/:id", transferHandler.Delete)
		transfers.POST("/:id/transition", transferHandler.Transition)
		transfers.POST("/:id/complete", transferHandler.Complete)
	}

	adjustmentHandler := handlers.NewAdjustmentHandler(base, cfg.AdjustmentService)
	adjustments := rg.Group("/adjustments")
	{
		adjustments.POST("", adjustmentHandler.Create)
		adjustments.GET("", adjustmentHandler.List)
		adjustments.GET("/:id", adjustmentHandler.Get)
		adjustments.PUT("/:id", adjustmentHandler.Update)
		adjustments.DELETE("/:id", adjustmentHandler.Delete)
		adjustments.POST("/:id/transition", adjustmentHandler.Transition)
		adjustments.POST("/:id/complete", adjustmentHandler.Complete)
	}
}

func registerStockRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	stockHandler := handlers.NewStockHandler(base, cfg.LedgerService)
	stock := rg.Group("/stock")
	{
		stock.GET("/levels", stockHandler.Levels)
		stock.GET("/movements", stockHandler.Movements)
		stock.GET("/low", stockHandler.LowStock)
		stock.GET("/verify", stockHandler.Verify)
		stock.POST("/rebuild", middleware.RequireRole(auth.RoleAdmin), stockHandler.Rebuild)
	}
}
