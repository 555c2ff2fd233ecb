// Package adjustment provides the Adjustment document: reconciling
// recorded stock with a physical count.
package adjustment

import (
	"context"
	"fmt"

	"wareflow/internal/core/apperror"
	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
	"wareflow/internal/core/types"
	"wareflow/internal/domain/workflow"
)

// Adjustment corrects stock levels to match a physical count. Each line
// holds the counted quantity and a snapshot of the system quantity taken
// when the line was entered; the ledger entry is the difference.
type Adjustment struct {
	entity.Document

	// WarehouseID is the counted warehouse
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Reason documents why the correction was made
	Reason string `db:"reason" json:"reason"`

	// Table part: counted products
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one counted product.
type Line struct {
	LineID    id.ID `db:"line_id" json:"lineId"`
	LineNo    int   `db:"line_no" json:"lineNo"`
	ProductID id.ID `db:"product_id" json:"productId"`

	// CountedQuantity is the physically counted amount, never negative
	CountedQuantity types.Quantity `db:"counted_quantity" json:"countedQuantity"`

	// SystemQuantity is the projected amount at snapshot time. Completion
	// re-checks it against the live level under locks; a mismatch means
	// the count is stale and the document is rejected.
	SystemQuantity types.Quantity `db:"system_quantity" json:"systemQuantity"`
}

// Delta is the signed correction the line applies.
func (l Line) Delta() types.Quantity {
	return l.CountedQuantity - l.SystemQuantity
}

// New creates a new adjustment in draft.
func New(createdBy, warehouseID id.ID, reason string) *Adjustment {
	return &Adjustment{
		Document:    entity.NewDocument(createdBy),
		WarehouseID: warehouseID,
		Reason:      reason,
		Lines:       make([]Line, 0),
	}
}

// AddLine appends a counted product with its system snapshot.
func (a *Adjustment) AddLine(productID id.ID, counted, system types.Quantity) {
	a.Lines = append(a.Lines, Line{
		LineID:          id.New(),
		LineNo:          len(a.Lines) + 1,
		ProductID:       productID,
		CountedQuantity: counted,
		SystemQuantity:  system,
	})
}

// Validate implements entity.Validatable.
func (a *Adjustment) Validate(ctx context.Context) error {
	if err := a.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(a.WarehouseID) {
		return apperror.NewValidationFailed("warehouse_required", "warehouse is required")
	}
	if a.Reason == "" {
		return apperror.NewValidationFailed("reason_required", "reason is required")
	}

	if len(a.Lines) == 0 {
		return apperror.NewValidationFailed("lines_required", "at least one line is required")
	}

	seen := make(map[id.ID]struct{}, len(a.Lines))
	for i, line := range a.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidationFailed("product_required",
				fmt.Sprintf("line %d: product is required", i+1))
		}
		if line.CountedQuantity.IsNegative() {
			return apperror.NewValidationFailed("counted_non_negative",
				fmt.Sprintf("line %d: counted quantity cannot be negative", i+1))
		}
		if _, dup := seen[line.ProductID]; dup {
			return apperror.NewValidationFailed("product_unique",
				fmt.Sprintf("line %d: product appears more than once", i+1))
		}
		seen[line.ProductID] = struct{}{}
	}

	return nil
}

// DocumentType implements workflow.Document.
func (a *Adjustment) DocumentType() entity.MovementType {
	return entity.MovementAdjustment
}

// StockDeltas implements workflow.Document: each line contributes the
// difference between counted and snapshot. Lines where the count matched
// the system produce no delta and no ledger entry.
func (a *Adjustment) StockDeltas() []entity.StockDelta {
	deltas := make([]entity.StockDelta, 0, len(a.Lines))
	for _, line := range a.Lines {
		delta := line.Delta()
		if delta.IsZero() {
			continue
		}
		deltas = append(deltas, entity.StockDelta{
			ProductID:   line.ProductID,
			WarehouseID: a.WarehouseID,
			Quantity:    delta,
		})
	}
	return deltas
}

// ValidateCompletion implements workflow.CompletionValidator: if the live
// level has moved since the snapshot was taken, the counted difference no
// longer means what the user saw, so the completion is rejected.
func (a *Adjustment) ValidateCompletion(ctx context.Context, levels map[entity.Pair]types.Quantity) error {
	for _, line := range a.Lines {
		if line.Delta().IsZero() {
			continue
		}
		pair := entity.Pair{ProductID: line.ProductID, WarehouseID: a.WarehouseID}
		if live, ok := levels[pair]; ok && live != line.SystemQuantity {
			return apperror.NewStaleSnapshot(line.ProductID.String(), a.WarehouseID.String()).
				WithDetail("snapshot", line.SystemQuantity.String()).
				WithDetail("current", live.String())
		}
	}
	return nil
}

var _ workflow.CompletionValidator = (*Adjustment)(nil)
