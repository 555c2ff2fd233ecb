package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"wareflow/internal/core/id"
	"wareflow/internal/domain/documents/delivery"
	"wareflow/internal/infrastructure/storage/postgres"
)

const (
	deliveriesTable    = "doc_deliveries"
	deliveryLinesTable = "doc_delivery_lines"
)

// DeliveryRepo implements delivery.Repository.
type DeliveryRepo struct {
	*BaseDocumentRepo[*delivery.Delivery]
}

var _ delivery.Repository = (*DeliveryRepo)(nil)

// NewDeliveryRepo creates a new delivery repository.
func NewDeliveryRepo(txManager *postgres.TxManager) *DeliveryRepo {
	return &DeliveryRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*delivery.Delivery](
			txManager,
			deliveriesTable,
			"delivery",
			postgres.ExtractDBColumns[delivery.Delivery](),
			[]string{"warehouse_id"},
			func() *delivery.Delivery { return &delivery.Delivery{} },
		),
	}
}

// Delete removes a delivery and its lines.
func (r *DeliveryRepo) Delete(ctx context.Context, docID id.ID) error {
	return r.deleteDocument(ctx, deliveryLinesTable, docID)
}

// GetLines retrieves lines for a delivery ordered by line number.
func (r *DeliveryRepo) GetLines(ctx context.Context, docID id.ID) ([]delivery.Line, error) {
	q := r.Builder().
		Select("line_id", "line_no", "product_id", "quantity").
		From(deliveryLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []delivery.Line
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines replaces the table part of a delivery.
func (r *DeliveryRepo) SaveLines(ctx context.Context, docID id.ID, lines []delivery.Line) error {
	if err := r.deleteLines(ctx, deliveryLinesTable, docID); err != nil {
		return err
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(deliveryLinesTable).
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
