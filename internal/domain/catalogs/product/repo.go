package product

import (
	"context"

	"wareflow/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetBySKU retrieves product by SKU.
	GetBySKU(ctx context.Context, sku string) (*Product, error)

	// ExistsBySKU checks SKU uniqueness before insert.
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}
