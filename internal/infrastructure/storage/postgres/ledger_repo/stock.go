// Package ledger_repo provides the PostgreSQL implementation of the
// movement ledger and the stock level projection.
package ledger_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"wareflow/internal/core/apperror"
	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
	"wareflow/internal/core/types"
	"wareflow/internal/domain/ledger"
	"wareflow/internal/infrastructure/storage/postgres"
)

const (
	movementsTable = "stock_movements"
	levelsTable    = "stock_levels"

	// lockNotAvailable is the SQLSTATE raised when lock_timeout expires.
	lockNotAvailable = "55P03"
)

var movementColumns = []string{
	"id", "movement_type", "product_id", "warehouse_id",
	"quantity", "reference_id", "reference_number", "created_by", "created_at",
}

// StockRepo implements ledger.Repository on PostgreSQL. Ledger rows are
// append-only; the projection is mutated only under row locks taken by
// LockLevels.
type StockRepo struct {
	txManager *postgres.TxManager
	batch     *postgres.BatchInserter

	// lockTimeout bounds the wait for projection row locks before the
	// attempt fails as retryable contention.
	lockTimeout time.Duration
}

var _ ledger.Repository = (*StockRepo)(nil)

// NewStockRepo creates a new stock ledger repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager:   txManager,
		batch:       postgres.NewBatchInserter(txManager),
		lockTimeout: 5 * time.Second,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *StockRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *StockRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// InsertEntries appends ledger rows via COPY. Must run inside the
// completion transaction.
func (r *StockRepo) InsertEntries(ctx context.Context, entries []entity.MovementEntry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{
			e.ID, e.Type, e.ProductID, e.WarehouseID,
			e.Quantity, e.ReferenceID, e.ReferenceNumber, e.CreatedBy, e.CreatedAt,
		})
	}

	if _, err := r.batch.CopyFromSlice(ctx, movementsTable, movementColumns, rows); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}

	return nil
}

// LockLevels ensures a projection row exists for every pair, then locks
// the rows one by one in the order given by the caller. Callers sort
// pairs consistently, which keeps concurrent completions from
// deadlocking against each other.
func (r *StockRepo) LockLevels(ctx context.Context, pairs []entity.Pair) (map[entity.Pair]types.Quantity, error) {
	if len(pairs) == 0 {
		return map[entity.Pair]types.Quantity{}, nil
	}

	querier := r.querier(ctx)

	// SET LOCAL requires the surrounding transaction and resets with it.
	timeoutMs := r.lockTimeout.Milliseconds()
	if _, err := querier.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeoutMs)); err != nil {
		return nil, fmt.Errorf("set lock_timeout: %w", err)
	}

	upsert := r.Builder().
		Insert(levelsTable).
		Columns("product_id", "warehouse_id", "quantity", "updated_at")
	for _, p := range pairs {
		upsert = upsert.Values(p.ProductID, p.WarehouseID, 0, squirrel.Expr("NOW()"))
	}
	upsert = upsert.Suffix("ON CONFLICT (product_id, warehouse_id) DO NOTHING")

	sql, args, err := upsert.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return nil, fmt.Errorf("upsert levels: %w", err)
	}

	levels := make(map[entity.Pair]types.Quantity, len(pairs))
	lockSQL := "SELECT quantity FROM " + levelsTable +
		" WHERE product_id = $1 AND warehouse_id = $2 FOR UPDATE"

	for _, p := range pairs {
		var qty types.Quantity
		if err := querier.QueryRow(ctx, lockSQL, p.ProductID, p.WarehouseID).Scan(&qty); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == lockNotAvailable {
				return nil, apperror.NewContention(
					fmt.Sprintf("stock level for product %s in warehouse %s is locked by another operation",
						p.ProductID, p.WarehouseID))
			}
			return nil, fmt.Errorf("lock level: %w", err)
		}
		levels[p] = qty
	}

	return levels, nil
}

// ApplyDelta adds the delta to a projection row locked earlier in the
// same transaction.
func (r *StockRepo) ApplyDelta(ctx context.Context, delta entity.StockDelta) error {
	q := r.Builder().
		Update(levelsTable).
		Set("quantity", squirrel.Expr("quantity + ?", delta.Quantity)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"product_id":   delta.ProductID,
			"warehouse_id": delta.WarehouseID,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("apply delta: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewInternal("stock level row missing during delta apply", nil)
	}

	return nil
}

// GetLevel returns the projected quantity for a pair, zero when no row
// exists yet.
func (r *StockRepo) GetLevel(ctx context.Context, productID, warehouseID id.ID) (types.Quantity, error) {
	q := r.Builder().
		Select("quantity").
		From(levelsTable).
		Where(squirrel.Eq{
			"product_id":   productID,
			"warehouse_id": warehouseID,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var qty types.Quantity
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&qty); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get level: %w", err)
	}

	return qty, nil
}

// ListLevels returns projection rows with pagination.
func (r *StockRepo) ListLevels(ctx context.Context, filter ledger.LevelFilter) ([]entity.StockLevel, int64, error) {
	q := r.Builder().
		Select("product_id", "warehouse_id", "quantity", "updated_at").
		From(levelsTable)

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"quantity": 0})
	}

	querier := r.querier(ctx)

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("product_id", "warehouse_id")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var levels []entity.StockLevel
	if err := pgxscan.Select(ctx, querier, &levels, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list levels: %w", err)
	}

	return levels, total, nil
}

// ListMovements returns ledger history, most recent first.
func (r *StockRepo) ListMovements(ctx context.Context, filter ledger.MovementFilter) ([]entity.MovementEntry, int64, error) {
	q := r.Builder().
		Select(movementColumns...).
		From(movementsTable)

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.ReferenceID != nil {
		q = q.Where(squirrel.Eq{"reference_id": *filter.ReferenceID})
	}
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"movement_type": *filter.Type})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.To})
	}

	querier := r.querier(ctx)

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var entries []entity.MovementEntry
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}

	return entries, total, nil
}

// SumByPair folds the whole ledger into per-pair sums. SUM over BIGINT
// yields NUMERIC, so the cast keeps the scaled integer representation.
func (r *StockRepo) SumByPair(ctx context.Context) (map[entity.Pair]types.Quantity, error) {
	sql := "SELECT product_id, warehouse_id, COALESCE(SUM(quantity), 0)::BIGINT AS total FROM " +
		movementsTable + " GROUP BY product_id, warehouse_id"

	rows, err := r.querier(ctx).Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("sum movements: %w", err)
	}
	defer rows.Close()

	sums := make(map[entity.Pair]types.Quantity)
	for rows.Next() {
		var pair entity.Pair
		var total int64
		if err := rows.Scan(&pair.ProductID, &pair.WarehouseID, &total); err != nil {
			return nil, fmt.Errorf("scan sum row: %w", err)
		}
		sums[pair] = types.NewQuantityFromInt64Scaled(total)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sum rows: %w", err)
	}

	return sums, nil
}

// ProjectedByPair returns the whole projection as per-pair quantities.
func (r *StockRepo) ProjectedByPair(ctx context.Context) (map[entity.Pair]types.Quantity, error) {
	sql := "SELECT product_id, warehouse_id, quantity FROM " + levelsTable

	rows, err := r.querier(ctx).Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("select levels: %w", err)
	}
	defer rows.Close()

	levels := make(map[entity.Pair]types.Quantity)
	for rows.Next() {
		var pair entity.Pair
		var qty types.Quantity
		if err := rows.Scan(&pair.ProductID, &pair.WarehouseID, &qty); err != nil {
			return nil, fmt.Errorf("scan level row: %w", err)
		}
		levels[pair] = qty
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("level rows: %w", err)
	}

	return levels, nil
}

// LowStock returns active products whose total on-hand quantity across
// all warehouses is at or below their reorder level. Products with a
// zero reorder level are never reported.
func (r *StockRepo) LowStock(ctx context.Context) ([]ledger.LowStockRow, error) {
	sql := `SELECT p.id AS product_id,
       p.name AS product_name,
       p.sku AS sku,
       COALESCE(SUM(l.quantity), 0)::BIGINT AS on_hand,
       p.reorder_level AS reorder_level
FROM cat_products p
LEFT JOIN ` + levelsTable + ` l ON l.product_id = p.id
WHERE p.is_active AND p.reorder_level > 0
GROUP BY p.id, p.name, p.sku, p.reorder_level
HAVING COALESCE(SUM(l.quantity), 0) <= p.reorder_level
ORDER BY p.name`

	var out []ledger.LowStockRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &out, sql); err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}

	return out, nil
}

// ReplaceLevels rebuilds the projection from ledger sums. Caller wraps
// this in a transaction so readers never see a half-empty table.
func (r *StockRepo) ReplaceLevels(ctx context.Context, sums map[entity.Pair]types.Quantity) error {
	querier := r.querier(ctx)

	if _, err := querier.Exec(ctx, "DELETE FROM "+levelsTable); err != nil {
		return fmt.Errorf("clear levels: %w", err)
	}

	if len(sums) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(sums))
	for pair, qty := range sums {
		rows = append(rows, []any{pair.ProductID, pair.WarehouseID, qty, now})
	}

	cols := []string{"product_id", "warehouse_id", "quantity", "updated_at"}
	if _, err := r.batch.CopyFromSlice(ctx, levelsTable, cols, rows); err != nil {
		return fmt.Errorf("insert levels: %w", err)
	}

	return nil
}
