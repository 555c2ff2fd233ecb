// Package product provides the Product catalog.
// Products are the goods tracked by the stock ledger; each carries a unit
// of measure and a reorder level used for low stock reporting.
package product

import (
	"context"

	"wareflow/internal/core/apperror"
	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
	"wareflow/internal/core/types"
)

// Product represents a stock keeping unit.
type Product struct {
	entity.Catalog

	// SKU is the external article identifier, unique alongside Code
	SKU string `db:"sku" json:"sku"`

	// Description
	Description *string `db:"description" json:"description,omitempty"`

	// CategoryID is an optional reference to the category tree
	CategoryID *id.ID `db:"category_id" json:"categoryId,omitempty"`

	// UnitOfMeasure is the display unit (pcs, kg, l)
	UnitOfMeasure string `db:"unit_of_measure" json:"unitOfMeasure"`

	// ReorderLevel triggers low stock reporting when the total on-hand
	// quantity drops to or below it
	ReorderLevel types.Quantity `db:"reorder_level" json:"reorderLevel"`
}

// New creates a new Product with required fields.
func New(code, name, sku string) *Product {
	return &Product{
		Catalog:       entity.NewCatalog(code, name),
		SKU:           sku,
		UnitOfMeasure: "pcs",
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.SKU == "" {
		return apperror.NewValidation("sku is required").
			WithDetail("field", "sku")
	}

	if p.UnitOfMeasure == "" {
		return apperror.NewValidation("unit of measure is required").
			WithDetail("field", "unitOfMeasure")
	}

	if p.ReorderLevel.IsNegative() {
		return apperror.NewValidation("reorder level cannot be negative").
			WithDetail("field", "reorderLevel")
	}

	return nil
}
