package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"wareflow/internal/core/id"
	"wareflow/internal/domain/documents/adjustment"
	"wareflow/internal/infrastructure/storage/postgres"
)

const (
	adjustmentsTable     = "doc_adjustments"
	adjustmentLinesTable = "doc_adjustment_lines"
)

// AdjustmentRepo implements adjustment.Repository.
type AdjustmentRepo struct {
	*BaseDocumentRepo[*adjustment.Adjustment]
}

var _ adjustment.Repository = (*AdjustmentRepo)(nil)

// NewAdjustmentRepo creates a new adjustment repository.
func NewAdjustmentRepo(txManager *postgres.TxManager) *AdjustmentRepo {
	return &AdjustmentRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*adjustment.Adjustment](
			txManager,
			adjustmentsTable,
			"adjustment",
			postgres.ExtractDBColumns[adjustment.Adjustment](),
			[]string{"warehouse_id"},
			func() *adjustment.Adjustment { return &adjustment.Adjustment{} },
		),
	}
}

// Delete removes an adjustment and its lines.
func (r *AdjustmentRepo) Delete(ctx context.Context, docID id.ID) error {
	return r.deleteDocument(ctx, adjustmentLinesTable, docID)
}

// GetLines retrieves lines for an adjustment ordered by line number.
func (r *AdjustmentRepo) GetLines(ctx context.Context, docID id.ID) ([]adjustment.Line, error) {
	q := r.Builder().
		Select("line_id", "line_no", "product_id", "counted_quantity", "system_quantity").
		From(adjustmentLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []adjustment.Line
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines replaces the table part of an adjustment.
func (r *AdjustmentRepo) SaveLines(ctx context.Context, docID id.ID, lines []adjustment.Line) error {
	if err := r.deleteLines(ctx, adjustmentLinesTable, docID); err != nil {
		return err
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(adjustmentLinesTable).
		Columns("line_id", "document_id", "line_no", "product_id", "counted_quantity", "system_quantity")

	for _, line := range lines {
		q = q.Values(line.LineID, docID, line.LineNo, line.ProductID, line.CountedQuantity, line.SystemQuantity)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}
