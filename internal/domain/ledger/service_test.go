package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareflow/internal/core/apperror"
	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
	"wareflow/internal/core/types"
)

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memRepo keeps the ledger and projection in maps. The projection is
// deliberately independent of the ledger so tests can desync them.
type memRepo struct {
	Repository

	entries   []entity.MovementEntry
	projected map[entity.Pair]types.Quantity
	replaced  bool
}

func newMemRepo() *memRepo {
	return &memRepo{projected: make(map[entity.Pair]types.Quantity)}
}

func (r *memRepo) InsertEntries(_ context.Context, entries []entity.MovementEntry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *memRepo) SumByPair(context.Context) (map[entity.Pair]types.Quantity, error) {
	sums := make(map[entity.Pair]types.Quantity)
	for _, e := range r.entries {
		sums[entity.Pair{ProductID: e.ProductID, WarehouseID: e.WarehouseID}] += e.Quantity
	}
	return sums, nil
}

func (r *memRepo) ProjectedByPair(context.Context) (map[entity.Pair]types.Quantity, error) {
	out := make(map[entity.Pair]types.Quantity, len(r.projected))
	for k, v := range r.projected {
		out[k] = v
	}
	return out, nil
}

func (r *memRepo) ReplaceLevels(_ context.Context, sums map[entity.Pair]types.Quantity) error {
	r.projected = make(map[entity.Pair]types.Quantity, len(sums))
	for k, v := range sums {
		r.projected[k] = v
	}
	r.replaced = true
	return nil
}

func entry(productID, warehouseID id.ID, q types.Quantity) entity.MovementEntry {
	return entity.MovementEntry{
		ID:          id.New(),
		Type:        entity.MovementReceipt,
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    q,
		ReferenceID: id.New(),
	}
}

func TestServiceRecordRejectsInvalidEntries(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, passthroughTxManager{})
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, nil))
	assert.Empty(t, repo.entries)

	err := svc.Record(ctx, []entity.MovementEntry{
		entry(id.New(), id.New(), 0),
	})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	bad := entry(id.New(), id.New(), types.NewQuantityFromFloat64(1))
	bad.ReferenceID = id.Nil()
	err = svc.Record(ctx, []entity.MovementEntry{bad})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	assert.Empty(t, repo.entries)
}

func TestServiceVerifyConsistency(t *testing.T) {
	ctx := context.Background()
	productID := id.New()
	warehouseID := id.New()
	pair := entity.Pair{ProductID: productID, WarehouseID: warehouseID}

	t.Run("in sync", func(t *testing.T) {
		repo := newMemRepo()
		repo.entries = append(repo.entries,
			entry(productID, warehouseID, types.NewQuantityFromFloat64(10)),
			entry(productID, warehouseID, types.NewQuantityFromFloat64(-4)),
		)
		repo.projected[pair] = types.NewQuantityFromFloat64(6)

		svc := NewService(repo, passthroughTxManager{})
		mismatches, err := svc.VerifyConsistency(ctx)
		require.NoError(t, err)
		assert.Empty(t, mismatches)
	})

	t.Run("projection drifted", func(t *testing.T) {
		repo := newMemRepo()
		repo.entries = append(repo.entries,
			entry(productID, warehouseID, types.NewQuantityFromFloat64(10)),
		)
		repo.projected[pair] = types.NewQuantityFromFloat64(7)

		svc := NewService(repo, passthroughTxManager{})
		mismatches, err := svc.VerifyConsistency(ctx)
		require.NoError(t, err)
		require.Len(t, mismatches, 1)
		assert.Equal(t, productID, mismatches[0].ProductID)
		assert.Equal(t, types.NewQuantityFromFloat64(10), mismatches[0].LedgerSum)
		assert.Equal(t, types.NewQuantityFromFloat64(7), mismatches[0].Projected)
	})

	t.Run("orphan projection row", func(t *testing.T) {
		repo := newMemRepo()
		repo.projected[pair] = types.NewQuantityFromFloat64(3)

		svc := NewService(repo, passthroughTxManager{})
		mismatches, err := svc.VerifyConsistency(ctx)
		require.NoError(t, err)
		require.Len(t, mismatches, 1)
		assert.True(t, mismatches[0].LedgerSum.IsZero())
		assert.Equal(t, types.NewQuantityFromFloat64(3), mismatches[0].Projected)
	})

	t.Run("zero orphan row is fine", func(t *testing.T) {
		repo := newMemRepo()
		repo.projected[pair] = 0

		svc := NewService(repo, passthroughTxManager{})
		mismatches, err := svc.VerifyConsistency(ctx)
		require.NoError(t, err)
		assert.Empty(t, mismatches)
	})
}

func TestServiceRebuild(t *testing.T) {
	ctx := context.Background()
	productID := id.New()
	warehouseID := id.New()
	pair := entity.Pair{ProductID: productID, WarehouseID: warehouseID}

	repo := newMemRepo()
	repo.entries = append(repo.entries,
		entry(productID, warehouseID, types.NewQuantityFromFloat64(10)),
		entry(productID, warehouseID, types.NewQuantityFromFloat64(-4)),
	)
	repo.projected[pair] = types.NewQuantityFromFloat64(99)

	svc := NewService(repo, passthroughTxManager{})
	require.NoError(t, svc.Rebuild(ctx))

	assert.True(t, repo.replaced)
	assert.Equal(t, types.NewQuantityFromFloat64(6), repo.projected[pair])

	mismatches, err := svc.VerifyConsistency(ctx)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}
