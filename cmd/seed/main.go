// Package main provides a CLI tool for seeding the database with
// initial data: an admin user and, on request, demo catalogs.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"wareflow/internal/core/apperror"
	"wareflow/internal/core/id"
	"wareflow/internal/core/types"
	"wareflow/internal/domain/auth"
	"wareflow/internal/domain/catalogs/category"
	"wareflow/internal/domain/catalogs/product"
	"wareflow/internal/domain/catalogs/warehouse"
	"wareflow/internal/infrastructure/storage/postgres"
	"wareflow/internal/infrastructure/storage/postgres/auth_repo"
	"wareflow/internal/infrastructure/storage/postgres/catalog_repo"
	"wareflow/pkg/logger"
	"wareflow/pkg/numerator"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	if err := seedAdminUser(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, txManager, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	adminEmail := getEnv("ADMIN_EMAIL", "admin@wareflow.local")
	adminPassword := getEnv("ADMIN_PASSWORD", "Admin123!")

	userRepo := auth_repo.NewUserRepo(txManager)

	exists, err := userRepo.Exists(ctx, adminEmail)
	if err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if exists {
		log.Infow("admin user already exists", "email", adminEmail)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := auth.NewUser(adminEmail, string(hash), auth.RoleAdmin)
	admin.FullName = "Administrator"
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail, "id", admin.ID)
	return nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, txManager *postgres.TxManager, log *logger.Logger) error {
	gen := numerator.New(pool)

	warehouseService := warehouse.NewService(catalog_repo.NewWarehouseRepo(txManager), txManager, gen)
	categoryService := category.NewService(catalog_repo.NewCategoryRepo(txManager), txManager, gen)
	productService := product.NewService(catalog_repo.NewProductRepo(txManager), txManager, gen)

	main := warehouse.New("", "Main Warehouse")
	main.IsDefault = true
	if err := createIgnoringDuplicate(func() error { return warehouseService.Create(ctx, main) }); err != nil {
		return fmt.Errorf("seed warehouse: %w", err)
	}

	backup := warehouse.New("", "Backup Warehouse")
	if err := createIgnoringDuplicate(func() error { return warehouseService.Create(ctx, backup) }); err != nil {
		return fmt.Errorf("seed warehouse: %w", err)
	}

	electronics := category.New("", "Electronics")
	if err := createIgnoringDuplicate(func() error { return categoryService.Create(ctx, electronics) }); err != nil {
		return fmt.Errorf("seed category: %w", err)
	}

	demoProducts := []struct {
		name         string
		sku          string
		unit         string
		reorderLevel types.Quantity
		categoryID   *id.ID
	}{
		{"USB-C Cable 1m", "CBL-USBC-1M", "pcs", types.NewQuantityFromFloat64(20), &electronics.ID},
		{"Wireless Mouse", "MSE-WRL-01", "pcs", types.NewQuantityFromFloat64(10), &electronics.ID},
		{"Packing Tape", "TPE-PCK-50", "roll", types.NewQuantityFromFloat64(5), nil},
	}

	for _, dp := range demoProducts {
		p := product.New("", dp.name, dp.sku)
		p.UnitOfMeasure = dp.unit
		p.ReorderLevel = dp.reorderLevel
		p.CategoryID = dp.categoryID
		if err := createIgnoringDuplicate(func() error { return productService.Create(ctx, p) }); err != nil {
			return fmt.Errorf("seed product %s: %w", dp.sku, err)
		}
	}

	log.Info("demo data seeded")
	return nil
}

// createIgnoringDuplicate lets the seeder run repeatedly.
func createIgnoringDuplicate(create func() error) error {
	err := create()
	if err != nil && apperror.IsCode(err, apperror.CodeDuplicate) {
		return nil
	}
	return err
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
