package adjustment

import (
	"context"
	"fmt"
	"time"

	"wareflow/internal/core/apperror"
	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
	"wareflow/internal/core/tx"
	"wareflow/internal/core/types"
	"wareflow/internal/domain"
	"wareflow/internal/domain/workflow"
	"wareflow/pkg/logger"
	"wareflow/pkg/numerator"
)

// NumberPrefix for generated adjustment numbers.
const NumberPrefix = "ADJ"

// LevelReader supplies current projected quantities for snapshotting.
type LevelReader interface {
	CurrentQuantity(ctx context.Context, productID, warehouseID id.ID) (types.Quantity, error)
}

// Service provides business operations for adjustment documents.
type Service struct {
	repo      Repository
	engine    *workflow.Engine
	levels    LevelReader
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates a new adjustment service.
func NewService(repo Repository, engine *workflow.Engine, levels LevelReader, gen numerator.Generator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		engine:    engine,
		levels:    levels,
		numerator: gen,
		txManager: txManager,
	}
}

// Create creates a new adjustment in draft. Lines missing a system
// snapshot get one from the live projection; lines that already carry a
// snapshot (entered from a count sheet) keep it.
func (s *Service) Create(ctx context.Context, doc *Adjustment) error {
	if err := s.snapshotLines(ctx, doc); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(NumberPrefix), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "adjustment created", "id", doc.ID, "number", doc.Number)
	return nil
}

// snapshotLines fills SystemQuantity from the projection for lines that
// were entered without one.
func (s *Service) snapshotLines(ctx context.Context, doc *Adjustment) error {
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if !line.SystemQuantity.IsZero() {
			continue
		}
		qty, err := s.levels.CurrentQuantity(ctx, line.ProductID, doc.WarehouseID)
		if err != nil {
			return fmt.Errorf("snapshot level for %s: %w", line.ProductID, err)
		}
		line.SystemQuantity = qty
	}
	return nil
}

// GetByID retrieves an adjustment with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Adjustment, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Update updates a draft adjustment.
func (s *Service) Update(ctx context.Context, doc *Adjustment) error {
	if err := doc.CanModify(); err != nil {
		return err
	}
	if err := s.snapshotLines(ctx, doc); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
}

// Delete removes a draft adjustment. Documents past draft keep their history
// and can only be canceled.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if err := doc.CanModify(); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, docID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "adjustment deleted", "id", docID, "number", doc.Number)
	return nil
}

// List returns adjustments matching the filter.
func (s *Service) List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*Adjustment], error) {
	return s.repo.List(ctx, filter)
}

// Transition moves the adjustment to the target status. The move into
// done re-checks every snapshot against the live level under locks and
// rejects stale counts.
func (s *Service) Transition(ctx context.Context, docID id.ID, target entity.Status) (*Adjustment, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	err = s.engine.Transition(ctx, doc, target, func(ctx context.Context) error {
		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Complete walks the adjustment through the remaining stages to done.
func (s *Service) Complete(ctx context.Context, docID id.ID) (*Adjustment, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	path := workflow.PathToDone(doc.Status)
	if path == nil && doc.Status != entity.StatusDone {
		return nil, apperror.NewInvalidTransition(string(doc.Status), string(entity.StatusDone))
	}

	for _, target := range path {
		err = s.engine.Transition(ctx, doc, target, func(ctx context.Context) error {
			return s.repo.Update(ctx, doc)
		})
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// CreateAndComplete creates the adjustment and immediately walks it to
// done. Used by count sheets entered directly from the warehouse floor.
func (s *Service) CreateAndComplete(ctx context.Context, doc *Adjustment) (*Adjustment, error) {
	if err := s.Create(ctx, doc); err != nil {
		return nil, err
	}
	return s.Complete(ctx, doc.ID)
}
