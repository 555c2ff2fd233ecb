// Package warehouse provides the Warehouse catalog.
// Warehouses are the physical locations stock levels are tracked against.
package warehouse

import (
	"context"

	"wareflow/internal/core/entity"
)

// Warehouse represents a storage location for goods.
type Warehouse struct {
	entity.Catalog

	// Address is the physical address
	Address *string `db:"address" json:"address,omitempty"`

	// IsDefault marks the warehouse preselected in document forms
	IsDefault bool `db:"is_default" json:"isDefault"`
}

// New creates a new Warehouse with required fields.
func New(code, name string) *Warehouse {
	return &Warehouse{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (w *Warehouse) Validate(ctx context.Context) error {
	return w.Catalog.Validate(ctx)
}

// CanAcceptStock returns true if warehouse can take part in new documents.
func (w *Warehouse) CanAcceptStock() bool {
	return w.IsActive
}
