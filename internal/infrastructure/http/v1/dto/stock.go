package dto

import (
	"time"

	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
	"wareflow/internal/domain/ledger"
)

// LevelFilterRequest contains stock level query parameters.
type LevelFilterRequest struct {
	ProductID   string `form:"productId"`
	WarehouseID string `form:"warehouseId"`
	ExcludeZero bool   `form:"excludeZero"`
	Limit       int    `form:"limit"`
	Offset      int    `form:"offset"`
}

// ToFilter converts request parameters to a ledger filter.
func (r LevelFilterRequest) ToFilter() (ledger.LevelFilter, error) {
	filter := ledger.LevelFilter{
		ExcludeZero: r.ExcludeZero,
		Limit:       r.Limit,
		Offset:      r.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	if r.ProductID != "" {
		productID, err := id.Parse(r.ProductID)
		if err != nil {
			return filter, err
		}
		filter.ProductID = &productID
	}
	if r.WarehouseID != "" {
		whID, err := id.Parse(r.WarehouseID)
		if err != nil {
			return filter, err
		}
		filter.WarehouseID = &whID
	}

	return filter, nil
}

// MovementFilterRequest contains movement history query parameters.
type MovementFilterRequest struct {
	ProductID   string     `form:"productId"`
	WarehouseID string     `form:"warehouseId"`
	ReferenceID string     `form:"referenceId"`
	Type        string     `form:"type"`
	From        *time.Time `form:"from"`
	To          *time.Time `form:"to"`
	Limit       int        `form:"limit"`
	Offset      int        `form:"offset"`
}

// ToFilter converts request parameters to a ledger filter.
func (r MovementFilterRequest) ToFilter() (ledger.MovementFilter, error) {
	filter := ledger.MovementFilter{
		From:   r.From,
		To:     r.To,
		Limit:  r.Limit,
		Offset: r.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	if r.ProductID != "" {
		productID, err := id.Parse(r.ProductID)
		if err != nil {
			return filter, err
		}
		filter.ProductID = &productID
	}
	if r.WarehouseID != "" {
		whID, err := id.Parse(r.WarehouseID)
		if err != nil {
			return filter, err
		}
		filter.WarehouseID = &whID
	}
	if r.ReferenceID != "" {
		refID, err := id.Parse(r.ReferenceID)
		if err != nil {
			return filter, err
		}
		filter.ReferenceID = &refID
	}
	if r.Type != "" {
		mt := entity.MovementType(r.Type)
		filter.Type = &mt
	}

	return filter, nil
}

// ConsistencyResponse reports an on-demand ledger verification.
type ConsistencyResponse struct {
	Consistent bool              `json:"consistent"`
	Mismatches []ledger.Mismatch `json:"mismatches"`
}
