package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"wareflow/internal/core/id"
	"wareflow/internal/domain/documents/transfer"
	"wareflow/internal/infrastructure/storage/postgres"
)

const (
	transfersTable     = "doc_transfers"
	transferLinesTable = "doc_transfer_lines"
)

// TransferRepo implements transfer.Repository.
type TransferRepo struct {
	*BaseDocumentRepo[*transfer.Transfer]
}

var _ transfer.Repository = (*TransferRepo)(nil)

// NewTransferRepo creates a new transfer repository.
func NewTransferRepo(txManager *postgres.TxManager) *TransferRepo {
	return &TransferRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*transfer.Transfer](
			txManager,
			transfersTable,
			"transfer",
			postgres.ExtractDBColumns[transfer.Transfer](),
			[]string{"source_warehouse_id", "dest_warehouse_id"},
			func() *transfer.Transfer { return &transfer.Transfer{} },
		),
	}
}

// Delete removes a transfer and its lines.
func (r *TransferRepo) Delete(ctx context.Context, docID id.ID) error {
	return r.deleteDocument(ctx, transferLinesTable, docID)
}

// GetLines retrieves lines for a transfer ordered by line number.
func (r *TransferRepo) GetLines(ctx context.Context, docID id.ID) ([]transfer.Line, error) {
	q := r.Builder().
		Select("line_id", "line_no", "product_id", "quantity").
		From(transferLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []transfer.Line
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines replaces the table part of a transfer.
func (r *TransferRepo) SaveLines(ctx context.Context, docID id.ID, lines []transfer.Line) error {
	if err := r.deleteLines(ctx, transferLinesTable, docID); err != nil {
		return err
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(transferLinesTable).
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
