// Package ledger provides the append-only movement ledger and the stock
// level projection derived from it.
package ledger

import (
	"context"
	"time"

	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
	"wareflow/internal/core/types"
)

// LevelFilter narrows stock level queries.
type LevelFilter struct {
	ProductID   *id.ID
	WarehouseID *id.ID

	// ExcludeZero drops rows with zero on-hand quantity
	ExcludeZero bool

	Limit  int
	Offset int
}

// MovementFilter narrows ledger history queries.
type MovementFilter struct {
	ProductID   *id.ID
	WarehouseID *id.ID
	ReferenceID *id.ID
	Type        *entity.MovementType
	From        *time.Time
	To          *time.Time

	Limit  int
	Offset int
}

// LowStockRow reports a product whose total on-hand quantity is at or
// below its reorder level.
type LowStockRow struct {
	ProductID    id.ID          `db:"product_id" json:"productId"`
	ProductName  string         `db:"product_name" json:"productName"`
	SKU          string         `db:"sku" json:"sku"`
	OnHand       types.Quantity `db:"on_hand" json:"onHand"`
	ReorderLevel types.Quantity `db:"reorder_level" json:"reorderLevel"`
}

// Mismatch reports a projection row that disagrees with the ledger.
type Mismatch struct {
	ProductID   id.ID          `json:"productId"`
	WarehouseID id.ID          `json:"warehouseId"`
	LedgerSum   types.Quantity `json:"ledgerSum"`
	Projected   types.Quantity `json:"projected"`
}

// Repository defines persistence for the ledger and its projection.
type Repository interface {
	// InsertEntries appends entries to the ledger. Entries are immutable
	// once written; there is no update or delete.
	InsertEntries(ctx context.Context, entries []entity.MovementEntry) error

	// LockLevels upserts missing projection rows at zero, then locks the
	// rows for the given pairs in the given order and returns current
	// quantities. A lock wait beyond the configured timeout surfaces as a
	// retryable contention error.
	LockLevels(ctx context.Context, pairs []entity.Pair) (map[entity.Pair]types.Quantity, error)

	// ApplyDelta adds the delta to the projection row, which must already
	// be locked by the current transaction.
	ApplyDelta(ctx context.Context, delta entity.StockDelta) error

	// GetLevel returns the projected quantity for a pair, zero if the row
	// does not exist.
	GetLevel(ctx context.Context, productID, warehouseID id.ID) (types.Quantity, error)

	// ListLevels returns projection rows with filtering and pagination.
	ListLevels(ctx context.Context, filter LevelFilter) ([]entity.StockLevel, int64, error)

	// ListMovements returns ledger history, most recent first.
	ListMovements(ctx context.Context, filter MovementFilter) ([]entity.MovementEntry, int64, error)

	// SumByPair folds the whole ledger into per-pair sums.
	SumByPair(ctx context.Context) (map[entity.Pair]types.Quantity, error)

	// ProjectedByPair returns all projection rows as per-pair quantities.
	ProjectedByPair(ctx context.Context) (map[entity.Pair]types.Quantity, error)

	// LowStock returns products at or below their reorder level.
	LowStock(ctx context.Context) ([]LowStockRow, error)

	// ReplaceLevels rebuilds the projection table from the given sums.
	// Caller wraps this in a transaction.
	ReplaceLevels(ctx context.Context, sums map[entity.Pair]types.Quantity) error
}
