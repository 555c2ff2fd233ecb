// Package delivery provides the Delivery document: outgoing goods from a
// warehouse to a customer.
package delivery

import (
	"context"
	"fmt"

	"wareflow/internal/core/apperror"
	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
	"wareflow/internal/core/types"
)

// Delivery records goods leaving a warehouse. Completion fails when any
// line would drive the stock level negative.
type Delivery struct {
	entity.Document

	// WarehouseID is the issuing warehouse
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// CustomerName is free-form; customers are not a managed catalog
	CustomerName string `db:"customer_name" json:"customerName,omitempty"`

	// Table part: issued goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one issued product.
type Line struct {
	LineID    id.ID          `db:"line_id" json:"lineId"`
	LineNo    int            `db:"line_no" json:"lineNo"`
	ProductID id.ID          `db:"product_id" json:"productId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
}

// New creates a new delivery in draft.
func New(createdBy, warehouseID id.ID) *Delivery {
	return &Delivery{
		Document:    entity.NewDocument(createdBy),
		WarehouseID: warehouseID,
		Lines:       make([]Line, 0),
	}
}

// AddLine appends an issued product.
func (d *Delivery) AddLine(productID id.ID, quantity types.Quantity) {
	d.Lines = append(d.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(d.Lines) + 1,
		ProductID: productID,
		Quantity:  quantity,
	})
}

// Validate implements entity.Validatable.
func (d *Delivery) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(d.WarehouseID) {
		return apperror.NewValidationFailed("warehouse_required", "warehouse is required")
	}

	if len(d.Lines) == 0 {
		return apperror.NewValidationFailed("lines_required", "at least one line is required")
	}

	for i, line := range d.Lines {
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
func (d *Delivery) DocumentType() entity.MovementType {
	return entity.MovementDelivery
}

// StockDeltas implements workflow.Document: each line decreases the
// issuing warehouse.
func (d *Delivery) StockDeltas() []entity.StockDelta {
	deltas := make([]entity.StockDelta, len(d.Lines))
	for i, line := range d.Lines {
		deltas[i] = entity.StockDelta{
			ProductID:   line.ProductID,
			WarehouseID: d.WarehouseID,
			Quantity:    line.Quantity.Neg(),
		}
	}
	return deltas
}
