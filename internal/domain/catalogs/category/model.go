// Package category provides the product Category catalog.
package category

import (
	"context"

	"wareflow/internal/core/entity"
)

// Category groups products for filtering and reporting.
type Category struct {
	entity.Catalog

	// Description
	Description *string `db:"description" json:"description,omitempty"`
}

// New creates a new Category.
func New(code, name string) *Category {
	return &Category{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (c *Category) Validate(ctx context.Context) error {
	return c.Catalog.Validate(ctx)
}
