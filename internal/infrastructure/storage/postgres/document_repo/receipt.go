package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"wareflow/internal/core/id"
	"wareflow/internal/domain/documents/receipt"
	"wareflow/internal/infrastructure/storage/postgres"
)

const (
	receiptsTable     = "doc_receipts"
	receiptLinesTable = "doc_receipt_lines"
)

// ReceiptRepo implements receipt.Repository.
type ReceiptRepo struct {
	*BaseDocumentRepo[*receipt.Receipt]
}

var _ receipt.Repository = (*ReceiptRepo)(nil)

// NewReceiptRepo creates a new receipt repository.
func NewReceiptRepo(txManager *postgres.TxManager) *ReceiptRepo {
	return &ReceiptRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*receipt.Receipt](
			txManager,
			receiptsTable,
			"receipt",
			postgres.ExtractDBColumns[receipt.Receipt](),
			[]string{"warehouse_id"},
			func() *receipt.Receipt { return &receipt.Receipt{} },
		),
	}
}

// Delete removes a receipt and its lines.
func (r *ReceiptRepo) Delete(ctx context.Context, docID id.ID) error {
	return r.deleteDocument(ctx, receiptLinesTable, docID)
}

// GetLines retrieves lines for a receipt ordered by line number.
func (r *ReceiptRepo) GetLines(ctx context.Context, docID id.ID) ([]receipt.Line, error) {
	q := r.Builder().
		Select("line_id", "line_no", "product_id", "quantity").
		From(receiptLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []receipt.Line
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines replaces the table part of a receipt.
func (r *ReceiptRepo) SaveLines(ctx context.Context, docID id.ID, lines []receipt.Line) error {
	if err := r.deleteLines(ctx, receiptLinesTable, docID); err != nil {
		return err
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(receiptLinesTable).
		Columns("line_id", "document_id", "line_no", "product_id", "quantity")

	for _, line := range lines {
		q = q.Values(line.LineID, docID, line.LineNo, line.ProductID, line.Quantity)
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
