// Package main is the entry point for the wareflow API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"wareflow/internal/domain/auth"
	"wareflow/internal/domain/catalogs/category"
	"wareflow/internal/domain/catalogs/product"
	"wareflow/internal/domain/catalogs/warehouse"
	"wareflow/internal/domain/documents/adjustment"
	"wareflow/internal/domain/documents/delivery"
	"wareflow/internal/domain/documents/receipt"
	"wareflow/internal/domain/documents/transfer"
	"wareflow/internal/domain/ledger"
	"wareflow/internal/domain/workflow"
	v1 "wareflow/internal/infrastructure/http/v1"
	"wareflow/internal/infrastructure/storage/postgres"
	"wareflow/internal/infrastructure/storage/postgres/auth_repo"
	"wareflow/internal/infrastructure/storage/postgres/catalog_repo"
	"wareflow/internal/infrastructure/storage/postgres/document_repo"
	"wareflow/internal/infrastructure/storage/postgres/ledger_repo"
	"wareflow/pkg/logger"
	"wareflow/pkg/numerator"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting wareflow server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Numerator ---
	numeratorService := numerator.New(pool)

	// --- Audit ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Ledger ---
	stockRepo := ledger_repo.NewStockRepo(txManager)
	ledgerService := ledger.NewService(stockRepo, txManager)

	// --- Workflow engine ---
	engine := workflow.NewEngine(workflow.EngineConfig{
		TxManager: txManager,
		Ledger:    ledgerService,
		Refs:      catalog_repo.NewRefChecker(txManager),
		Audit:     auditService,
	})

	// --- Catalogs ---
	productService := product.NewService(catalog_repo.NewProductRepo(txManager), txManager, numeratorService)
	categoryService := category.NewService(catalog_repo.NewCategoryRepo(txManager), txManager, numeratorService)
	warehouseService := warehouse.NewService(catalog_repo.NewWarehouseRepo(txManager), txManager, numeratorService)

	// --- Documents ---
	receiptService := receipt.NewService(document_repo.NewReceiptRepo(txManager), engine, numeratorService, txManager)
	deliveryService := delivery.NewService(document_repo.NewDeliveryRepo(txManager), engine, numeratorService, txManager)
	transferService := transfer.NewService(document_repo.NewTransferRepo(txManager), engine, numeratorService, txManager)
	adjustmentService := adjustment.NewService(document_repo.NewAdjustmentRepo(txManager), engine, ledgerService, numeratorService, txManager)

	// --- Auth ---
	jwtSecret := mustEnv("JWT_SECRET")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))
	authService := auth.NewService(auth_repo.NewUserRepo(txManager), txManager, jwtService, auth.DefaultServiceConfig())

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:              pool,
		Logger:            log,
		JWTValidator:      jwtService,
		AuthService:       authService,
		ProductService:    productService,
		CategoryService:   categoryService,
		WarehouseService:  warehouseService,
		ReceiptService:    receiptService,
		DeliveryService:   deliveryService,
		TransferService:   transferService,
		AdjustmentService: adjustmentService,
		LedgerService:     ledgerService,
	})

	// --- HTTP server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
