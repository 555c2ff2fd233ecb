// Package receipt provides the Receipt document: incoming goods from a
// supplier into a warehouse.
package receipt

import (
	"context"
	"fmt"

	"wareflow/internal/core/apperror"
	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
	"wareflow/internal/core/types"
)

// Receipt records goods arriving at a warehouse.
type Receipt struct {
	entity.Document

	// WarehouseID is the receiving warehouse
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// SupplierName is free-form; suppliers are not a managed catalog
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`

	// Table part: received goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one received product.
type Line struct {
	LineID    id.ID          `db:"line_id" json:"lineId"`
	LineNo    int            `db:"line_no" json:"lineNo"`
	ProductID id.ID          `db:"product_id" json:"productId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
}

// New creates a new receipt in draft.
func New(createdBy, warehouseID id.ID) *Receipt {
	return &Receipt{
		Document:    entity.NewDocument(createdBy),
		WarehouseID: warehouseID,
		Lines:       make([]Line, 0),
	}
}

// AddLine appends a received product.
func (r *Receipt) AddLine(productID id.ID, quantity types.Quantity) {
	r.Lines = append(r.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(r.Lines) + 1,
		ProductID: productID,
		Quantity:  quantity,
	})
}

// Validate implements entity.Validatable.
func (r *Receipt) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(r.WarehouseID) {
		return apperror.NewValidationFailed("warehouse_required", "warehouse is required")
	}

	if len(r.Lines) == 0 {
		return apperror.NewValidationFailed("lines_required", "at least one line is required")
	}

	for i, line := range r.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidationFailed("product_required",
				fmt.Sprintf("line %d: product is required", i+1))
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidationFailed("quantity_positive",
				fmt.Sprintf("line %d: quantity must be positive", i+1))
		}
	}

	return nil
}

// DocumentType implements workflow.Document.
func (r *Receipt) DocumentType() entity.MovementType {
	return entity.MovementReceipt
}

// StockDeltas implements workflow.Document: each line increases the
// receiving warehouse.
func (r *Receipt) StockDeltas() []entity.StockDelta {
	deltas := make([]entity.StockDelta, len(r.Lines))
	for i, line := range r.Lines {
		deltas[i] = entity.StockDelta{
			ProductID:   line.ProductID,
			WarehouseID: r.WarehouseID,
			Quantity:    line.Quantity,
		}
	}
	return deltas
}
