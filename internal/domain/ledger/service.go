package ledger

import (
	"context"
	"fmt"

	"wareflow/internal/core/apperror"
	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
	"wareflow/internal/core/tx"
	"wareflow/internal/core/types"
	"wareflow/pkg/logger"
)

// Service provides ledger operations. The mutating methods (LockLevels,
// Record, ApplyDeltas) are called by the workflow engine inside its
// completion transaction; the read methods serve the stock API.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new ledger service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// LockLevels locks projection rows for the pairs and returns quantities.
func (s *Service) LockLevels(ctx context.Context, pairs []entity.Pair) (map[entity.Pair]types.Quantity, error) {
	return s.repo.LockLevels(ctx, pairs)
}

// Record appends movement entries to the ledger.
func (s *Service) Record(ctx context.Context, entries []entity.MovementEntry) error {
	if len(entries) == 0 {
		return nil
	}

	for i, e := range entries {
		if e.Quantity.IsZero() {
			return apperror.NewValidation(fmt.Sprintf("entry %d: quantity must be non-zero", i))
		}
		if id.IsNil(e.ReferenceID) {
			return apperror.NewValidation(fmt.Sprintf("entry %d: reference is required", i))
		}
	}

	if err := s.repo.InsertEntries(ctx, entries); err != nil {
		return fmt.Errorf("insert entries: %w", err)
	}

	logger.Info(ctx, "recorded stock movements",
		"count", len(entries),
		"reference_id", entries[0].ReferenceID,
	)
	return nil
}

// ApplyDeltas folds aggregated deltas into the projection.
func (s *Service) ApplyDeltas(ctx context.Context, deltas []entity.StockDelta) error {
	for _, d := range deltas {
		if err := s.repo.ApplyDelta(ctx, d); err != nil {
			return fmt.Errorf("apply delta for %s/%s: %w", d.ProductID, d.WarehouseID, err)
		}
	}
	return nil
}

// CurrentQuantity returns the projected on-hand quantity for a pair.
// Pairs never touched by any document project to zero.
func (s *Service) CurrentQuantity(ctx context.Context, productID, warehouseID id.ID) (types.Quantity, error) {
	return s.repo.GetLevel(ctx, productID, warehouseID)
}

// Levels returns projection rows with filtering.
func (s *Service) Levels(ctx context.Context, filter LevelFilter) ([]entity.StockLevel, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.ListLevels(ctx, filter)
}

// Movements returns ledger history, most recent first.
func (s *Service) Movements(ctx context.Context, filter MovementFilter) ([]entity.MovementEntry, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.ListMovements(ctx, filter)
}

// LowStock returns products at or below their reorder level.
func (s *Service) LowStock(ctx context.Context) ([]LowStockRow, error) {
	return s.repo.LowStock(ctx)
}

// VerifyConsistency compares the projection against the summed ledger and
// returns every pair where they disagree. An empty result means the core
// invariant holds.
func (s *Service) VerifyConsistency(ctx context.Context) ([]Mismatch, error) {
	var mismatches []Mismatch

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sums, err := s.repo.SumByPair(ctx)
		if err != nil {
			return fmt.Errorf("sum ledger: %w", err)
		}
		projected, err := s.repo.ProjectedByPair(ctx)
		if err != nil {
			return fmt.Errorf("read projection: %w", err)
		}

		for pair, sum := range sums {
			if projected[pair] != sum {
				mismatches = append(mismatches, Mismatch{
					ProductID:   pair.ProductID,
					WarehouseID: pair.WarehouseID,
					LedgerSum:   sum,
					Projected:   projected[pair],
				})
			}
		}
		// Projection rows with no ledger entries must be zero.
		for pair, qty := range projected {
			if _, ok := sums[pair]; !ok && !qty.IsZero() {
				mismatches = append(mismatches, Mismatch{
					ProductID:   pair.ProductID,
					WarehouseID: pair.WarehouseID,
					LedgerSum:   0,
					Projected:   qty,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(mismatches) > 0 {
		logger.Warn(ctx, "stock projection out of sync", "mismatches", len(mismatches))
	}
	return mismatches, nil
}

// Rebuild recomputes the whole projection from the ledger in one
// transaction. Intended for recovery after a verified inconsistency.
func (s *Service) Rebuild(ctx context.Context) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sums, err := s.repo.SumByPair(ctx)
		if err != nil {
			return fmt.Errorf("sum ledger: %w", err)
		}
		if err := s.repo.ReplaceLevels(ctx, sums); err != nil {
			return fmt.Errorf("replace levels: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "stock projection rebuilt")
	return nil
}
