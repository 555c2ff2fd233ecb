package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"wareflow/internal/core/apperror"
	"wareflow/internal/core/id"
	"wareflow/internal/domain/workflow"
	"wareflow/internal/infrastructure/storage/postgres"
)

// RefChecker verifies catalog references during document completion.
// It reads inside the completion transaction, so a product deactivated
// concurrently is either seen here or blocked by the catalog update.
type RefChecker struct {
	txManager *postgres.TxManager
}

var _ workflow.ReferenceChecker = (*RefChecker)(nil)

// NewRefChecker creates a new reference checker.
func NewRefChecker(txManager *postgres.TxManager) *RefChecker {
	return &RefChecker{txManager: txManager}
}

// EnsureProductsActive fails when any of the given products is missing
// or inactive.
func (c *RefChecker) EnsureProductsActive(ctx context.Context, ids []id.ID) error {
	return c.ensureActive(ctx, productTable, "product", "product_inactive", ids)
}

// EnsureWarehousesActive fails when any of the given warehouses is
// missing or inactive.
func (c *RefChecker) EnsureWarehousesActive(ctx context.Context, ids []id.ID) error {
	return c.ensureActive(ctx, warehouseTable, "warehouse", "warehouse_inactive", ids)
}

func (c *RefChecker) ensureActive(ctx context.Context, table, entityName, rule string, ids []id.ID) error {
	if len(ids) == 0 {
		return nil
	}

	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("id", "is_active").
		From(table).
		Where(squirrel.Eq{"id": ids})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	rows, err := c.txManager.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("check %s refs: %w", entityName, err)
	}
	defer rows.Close()

	active := make(map[id.ID]bool, len(ids))
	for rows.Next() {
		var rowID id.ID
		var isActive bool
		if err := rows.Scan(&rowID, &isActive); err != nil {
			return fmt.Errorf("scan %s ref: %w", entityName, err)
		}
		active[rowID] = isActive
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%s ref rows: %w", entityName, err)
	}

	for _, refID := range ids {
		isActive, found := active[refID]
		if !found {
			return apperror.NewNotFound(entityName, refID.String())
		}
		if !isActive {
			return apperror.NewValidationFailed(rule,
				fmt.Sprintf("%s %s is inactive", entityName, refID)).
				WithDetail(entityName+"_id", refID.String())
		}
	}

	return nil
}
