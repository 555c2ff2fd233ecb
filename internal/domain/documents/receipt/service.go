package receipt

import (
	"context"
	"fmt"
	"time"

	"wareflow/internal/core/apperror"
	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
	"wareflow/internal/core/tx"
	"wareflow/internal/domain"
	"wareflow/internal/domain/workflow"
	"wareflow/pkg/logger"
	"wareflow/pkg/numerator"
)

// NumberPrefix for generated receipt numbers.
const NumberPrefix = "RCP"

// Service provides business operations for receipt documents.
type Service struct {
	repo      Repository
	engine    *workflow.Engine
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates a new receipt service.
func NewService(repo Repository, engine *workflow.Engine, gen numerator.Generator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		engine:    engine,
		numerator: gen,
		txManager: txManager,
	}
}

// Create creates a new receipt in draft.
func (s *Service) Create(ctx context.Context, doc *Receipt) error {
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

	logger.Info(ctx, "receipt created", "id", doc.ID, "number", doc.Number)
	return nil
}

// GetByID retrieves a receipt with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Receipt, error) {
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

// Update updates a draft receipt.
func (s *Service) Update(ctx context.Context, doc *Receipt) error {
	if err := doc.CanModify(); err != nil {
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

// Delete removes a draft receipt. Documents past draft keep their history
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

	logger.Info(ctx, "receipt deleted", "id", docID, "number", doc.Number)
	return nil
}

// List returns receipts matching the filter.
func (s *Service) List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*Receipt], error) {
	return s.repo.List(ctx, filter)
}

// Transition moves the receipt to the target status. The move into done
// posts the receipt's lines to the stock ledger.
func (s *Service) Transition(ctx context.Context, docID id.ID, target entity.Status) (*Receipt, error) {
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

// Complete walks the receipt through the remaining workflow stages to done.
func (s *Service) Complete(ctx context.Context, docID id.ID) (*Receipt, error) {
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
