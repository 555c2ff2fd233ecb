package workflow

import (
	"context"
	"fmt"
	"sort"
	"time"

	"wareflow/internal/core/apperror"
	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
	"wareflow/internal/core/tx"
	"wareflow/internal/core/types"
	"wareflow/pkg/logger"
)

// Document is implemented by every stock document type the engine can
// drive. StockDeltas derives the net effect of the document on stock
// levels; it is consulted only when the document completes.
type Document interface {
	entity.Validatable

	GetID() id.ID
	GetNumber() string
	GetStatus() entity.Status
	SetStatus(entity.Status)
	GetCreatedBy() id.ID
	GetVersion() int
	SetVersion(int)
	MarkValidated(now time.Time)
	ClearValidated()

	// DocumentType classifies the ledger entries the document produces.
	DocumentType() entity.MovementType

	// StockDeltas returns the signed per-line effects on stock levels.
	// The engine aggregates them per (product, warehouse) pair.
	StockDeltas() []entity.StockDelta
}

// CompletionValidator is implemented by documents that need an extra check
// against live stock levels at completion time, after locks are held.
// Adjustments use it to detect stale counted snapshots.
type CompletionValidator interface {
	ValidateCompletion(ctx context.Context, levels map[entity.Pair]types.Quantity) error
}

// Ledger is the engine's view of the movement ledger and its projection.
// All three methods run inside the completion transaction.
type Ledger interface {
	// LockLevels acquires row locks on the stock levels for the given
	// pairs and returns their current quantities. Pairs must already be
	// sorted; rows missing from the projection are created at zero.
	LockLevels(ctx context.Context, pairs []entity.Pair) (map[entity.Pair]types.Quantity, error)

	// Record appends movement entries to the ledger.
	Record(ctx context.Context, entries []entity.MovementEntry) error

	// ApplyDeltas folds the aggregated deltas into the stock projection.
	ApplyDeltas(ctx context.Context, deltas []entity.StockDelta) error
}

// ReferenceChecker verifies that the catalog records a document refers to
// are still active at completion time.
type ReferenceChecker interface {
	EnsureProductsActive(ctx context.Context, ids []id.ID) error
	EnsureWarehousesActive(ctx context.Context, ids []id.ID) error
}

// AuditRecorder captures workflow transitions for the audit trail.
// Failures are logged, never surfaced: audit must not block documents.
type AuditRecorder interface {
	RecordTransition(ctx context.Context, doc Document, from, to entity.Status) error
}

// Engine executes workflow transitions. It is shared by all document
// services; per-type behavior comes in through the Document interface.
type Engine struct {
	txManager tx.Manager
	ledger    Ledger
	refs      ReferenceChecker
	audit     AuditRecorder
	now       func() time.Time
}

// EngineConfig configures the workflow engine.
type EngineConfig struct {
	TxManager tx.Manager
	Ledger    Ledger
	Refs      ReferenceChecker
	Audit     AuditRecorder // optional
	Now       func() time.Time
}

// NewEngine creates a workflow engine.
func NewEngine(cfg EngineConfig) *Engine {
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{
		txManager: cfg.TxManager,
		ledger:    cfg.Ledger,
		refs:      cfg.Refs,
		audit:     cfg.Audit,
		now:       now,
	}
}

// Transition moves a document to the target status. The persist callback
// saves the document inside the engine's transaction; it must enforce
// optimistic locking so that two concurrent completions of the same
// document cannot both succeed.
//
// Every transition except the one into done only flips the status. The
// move into done additionally writes ledger entries and updates the stock
// projection, all in one transaction: either the document is done and the
// ledger reflects it, or nothing happened.
func (e *Engine) Transition(ctx context.Context, doc Document, target entity.Status, persist func(ctx context.Context) error) error {
	from := doc.GetStatus()
	if err := CheckTransition(from, target); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	var err error
	if target == entity.StatusDone {
		err = e.complete(ctx, doc, persist)
	} else {
		fromVersion := doc.GetVersion()
		doc.SetStatus(target)
		err = e.txManager.RunInTransaction(ctx, persist)
		if err != nil {
			doc.SetStatus(from)
			doc.SetVersion(fromVersion)
		}
	}
	if err != nil {
		return err
	}

	logger.Info(ctx, "document transitioned",
		"document_id", doc.GetID(),
		"number", doc.GetNumber(),
		"from", from,
		"to", target,
	)

	if e.audit != nil {
		if auditErr := e.audit.RecordTransition(ctx, doc, from, target); auditErr != nil {
			logger.Warn(ctx, "audit record failed", "document_id", doc.GetID(), "error", auditErr)
		}
	}

	return nil
}

// complete runs the completion transaction: lock, check, record, project.
func (e *Engine) complete(ctx context.Context, doc Document, persist func(ctx context.Context) error) error {
	deltas := aggregateDeltas(doc.StockDeltas())
	if len(deltas) == 0 {
		return apperror.NewValidationFailed("lines_required",
			"document has no stock effect and cannot be completed")
	}

	from := doc.GetStatus()
	fromVersion := doc.GetVersion()
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		pairs := make([]entity.Pair, len(deltas))
		for i, d := range deltas {
			pairs[i] = d.Pair()
		}

		// Locks are taken in sorted pair order so concurrent completions
		// touching overlapping pairs cannot deadlock.
		levels, err := e.ledger.LockLevels(ctx, pairs)
		if err != nil {
			return err
		}

		if err := e.checkReferences(ctx, deltas); err != nil {
			return err
		}

		// The document's own completion check runs before the generic
		// sufficiency check: a stale adjustment snapshot explains why
		// its delta would underflow and the operator needs that reason,
		// not a shortfall figure.
		if cv, ok := doc.(CompletionValidator); ok {
			if err := cv.ValidateCompletion(ctx, levels); err != nil {
				return err
			}
		}

		for _, d := range deltas {
			if !d.Quantity.IsNegative() {
				continue
			}
			available := levels[d.Pair()]
			if available+d.Quantity < 0 {
				requested := d.Quantity.Abs()
				return apperror.NewInsufficientStock(
					d.ProductID.String(),
					d.WarehouseID.String(),
					requested.String(),
					available.String(),
				).WithDetail("shortfall", (requested - available).String())
			}
		}

		now := e.now()
		entries := buildEntries(doc, deltas, now)
		if err := e.ledger.Record(ctx, entries); err != nil {
			return fmt.Errorf("record movements: %w", err)
		}
		if err := e.ledger.ApplyDeltas(ctx, deltas); err != nil {
			return fmt.Errorf("apply deltas: %w", err)
		}

		doc.MarkValidated(now)
		if err := persist(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		// The transaction rolled back; the in-memory document must follow,
		// including the validation stamp and any version sync persist did.
		doc.SetStatus(from)
		doc.SetVersion(fromVersion)
		doc.ClearValidated()
		return err
	}
	return nil
}

func (e *Engine) checkReferences(ctx context.Context, deltas []entity.StockDelta) error {
	productIDs := make([]id.ID, 0, len(deltas))
	warehouseIDs := make([]id.ID, 0, len(deltas))
	seenP := make(map[id.ID]struct{})
	seenW := make(map[id.ID]struct{})
	for _, d := range deltas {
		if _, ok := seenP[d.ProductID]; !ok {
			seenP[d.ProductID] = struct{}{}
			productIDs = append(productIDs, d.ProductID)
		}
		if _, ok := seenW[d.WarehouseID]; !ok {
			seenW[d.WarehouseID] = struct{}{}
			warehouseIDs = append(warehouseIDs, d.WarehouseID)
		}
	}

	if err := e.refs.EnsureProductsActive(ctx, productIDs); err != nil {
		return err
	}
	return e.refs.EnsureWarehousesActive(ctx, warehouseIDs)
}

// aggregateDeltas sums line deltas per pair and drops zero nets, returning
// the result in deterministic pair order.
func aggregateDeltas(lines []entity.StockDelta) []entity.StockDelta {
	sums := make(map[entity.Pair]types.Quantity, len(lines))
	for _, d := range lines {
		sums[d.Pair()] += d.Quantity
	}

	out := make([]entity.StockDelta, 0, len(sums))
	for pair, qty := range sums {
		if qty.IsZero() {
			continue
		}
		out = append(out, entity.StockDelta{
			ProductID:   pair.ProductID,
			WarehouseID: pair.WarehouseID,
			Quantity:    qty,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ProductID != b.ProductID {
			return a.ProductID.String() < b.ProductID.String()
		}
		return a.WarehouseID.String() < b.WarehouseID.String()
	})
	return out
}

func buildEntries(doc Document, deltas []entity.StockDelta, now time.Time) []entity.MovementEntry {
	entries := make([]entity.MovementEntry, len(deltas))
	for i, d := range deltas {
		entries[i] = entity.MovementEntry{
			ID:              id.New(),
			Type:            doc.DocumentType(),
			ProductID:       d.ProductID,
			WarehouseID:     d.WarehouseID,
			Quantity:        d.Quantity,
			ReferenceID:     doc.GetID(),
			ReferenceNumber: doc.GetNumber(),
			CreatedBy:       doc.GetCreatedBy(),
			CreatedAt:       now,
		}
	}
	return entries
}
