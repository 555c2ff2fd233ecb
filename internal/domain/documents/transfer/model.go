// Package transfer provides the InternalTransfer document: goods moved
// between two warehouses in one atomic step.
package transfer

import (
	"context"
	"fmt"

	"wareflow/internal/core/apperror"
	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
	"wareflow/internal/core/types"
)

// Transfer records goods moving from a source to a destination warehouse.
// Completion writes a paired ledger entry per line: negative at the
// source, positive at the destination.
type Transfer struct {
	entity.Document

	// SourceWarehouseID is the issuing warehouse
	SourceWarehouseID id.ID `db:"source_warehouse_id" json:"sourceWarehouseId"`

	// DestWarehouseID is the receiving warehouse
	DestWarehouseID id.ID `db:"dest_warehouse_id" json:"destWarehouseId"`

	// Table part: transferred goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one transferred product.
type Line struct {
	LineID    id.ID          `db:"line_id" json:"lineId"`
	LineNo    int            `db:"line_no" json:"lineNo"`
	ProductID id.ID          `db:"product_id" json:"productId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
}

// New creates a new transfer in draft.
func New(createdBy, sourceWarehouseID, destWarehouseID id.ID) *Transfer {
	return &Transfer{
		Document:          entity.NewDocument(createdBy),
		SourceWarehouseID: sourceWarehouseID,
		DestWarehouseID:   destWarehouseID,
		Lines:             make([]Line, 0),
	}
}

// AddLine appends a transferred product.
func (t *Transfer) AddLine(productID id.ID, quantity types.Quantity) {
	t.Lines = append(t.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(t.Lines) + 1,
		ProductID: productID,
		Quantity:  quantity,
	})
}

// Validate implements entity.Validatable.
func (t *Transfer) Validate(ctx context.Context) error {
	if err := t.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(t.SourceWarehouseID) {
		return apperror.NewValidationFailed("source_required", "source warehouse is required")
	}
	if id.IsNil(t.DestWarehouseID) {
		return apperror.NewValidationFailed("destination_required", "destination warehouse is required")
	}
	if t.SourceWarehouseID == t.DestWarehouseID {
		return apperror.NewValidationFailed("warehouses_distinct",
			"source and destination warehouses must differ")
	}

	if len(t.Lines) == 0 {
		return apperror.NewValidationFailed("lines_required", "at least one line is required")
	}

	for i, line := range t.Lines {
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
func (t *Transfer) DocumentType() entity.MovementType {
	return entity.MovementTransfer
}

// StockDeltas implements workflow.Document: each line produces a matched
// pair of deltas, so a completed transfer never changes total stock.
func (t *Transfer) StockDeltas() []entity.StockDelta {
	deltas := make([]entity.StockDelta, 0, len(t.Lines)*2)
	for _, line := range t.Lines {
		deltas = append(deltas,
			entity.StockDelta{
				ProductID:   line.ProductID,
				WarehouseID: t.SourceWarehouseID,
				Quantity:    line.Quantity.Neg(),
			},
			entity.StockDelta{
				ProductID:   line.ProductID,
				WarehouseID: t.DestWarehouseID,
				Quantity:    line.Quantity,
			},
		)
	}
	return deltas
}
