package entity

import (
	"time"

	"wareflow/internal/core/id"
	"wareflow/internal/core/types"
)

// MovementType classifies a ledger entry by the document that produced it.
type MovementType string

const (
	MovementReceipt    MovementType = "receipt"
	MovementDelivery   MovementType = "delivery"
	MovementTransfer   MovementType = "transfer"
	MovementAdjustment MovementType = "adjustment"
)

// MovementEntry is one append-only row of the stock ledger. Quantity is
// signed: positive increases the (product, warehouse) level, negative
// decreases it. Entries are written only by the workflow engine when a
// document completes, in the same transaction as the level update.
type MovementEntry struct {
	ID              id.ID          `json:"id" db:"id"`
	Type            MovementType   `json:"type" db:"movement_type"`
	ProductID       id.ID          `json:"productId" db:"product_id"`
	WarehouseID     id.ID          `json:"warehouseId" db:"warehouse_id"`
	Quantity        types.Quantity `json:"quantity" db:"quantity"`
	ReferenceID     id.ID          `json:"referenceId" db:"reference_id"`
	ReferenceNumber string         `json:"referenceNumber" db:"reference_number"`
	CreatedBy       id.ID          `json:"createdBy" db:"created_by"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
}

// StockDelta is a net change for one (product, warehouse) pair, derived
// from a document's lines before entries are written.
type StockDelta struct {
	ProductID   id.ID
	WarehouseID id.ID
	Quantity    types.Quantity
}

// Pair identifies a stock level row.
type Pair struct {
	ProductID   id.ID
	WarehouseID id.ID
}

func (d StockDelta) Pair() Pair {
	return Pair{ProductID: d.ProductID, WarehouseID: d.WarehouseID}
}

// StockLevel is the cached projection of the ledger for one pair. The
// invariant is quantity == sum of all ledger entries for the pair; the
// workflow engine maintains it transactionally and VerifyConsistency
// checks it on demand.
type StockLevel struct {
	ProductID   id.ID          `json:"productId" db:"product_id"`
	WarehouseID id.ID          `json:"warehouseId" db:"warehouse_id"`
	Quantity    types.Quantity `json:"quantity" db:"quantity"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`
}
