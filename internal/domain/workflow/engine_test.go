package workflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareflow/internal/core/apperror"
	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
	"wareflow/internal/core/types"
	"wareflow/internal/domain/documents/adjustment"
	"wareflow/internal/domain/documents/delivery"
	"wareflow/internal/domain/documents/receipt"
	"wareflow/internal/domain/documents/transfer"
	"wareflow/internal/domain/workflow"
)

// fakeTxManager runs the function directly. Rollback is simulated by the
// fake ledger snapshotting its state before each transaction.
type fakeTxManager struct {
	ledger *fakeLedger
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	var snapshot map[entity.Pair]types.Quantity
	var entriesLen int
	if m.ledger != nil {
		snapshot = make(map[entity.Pair]types.Quantity, len(m.ledger.levels))
		for k, v := range m.ledger.levels {
			snapshot[k] = v
		}
		entriesLen = len(m.ledger.entries)
	}

	if err := fn(ctx); err != nil {
		if m.ledger != nil {
			m.ledger.levels = snapshot
			m.ledger.entries = m.ledger.entries[:entriesLen]
		}
		return err
	}
	return nil
}

type fakeLedger struct {
	levels  map[entity.Pair]types.Quantity
	entries []entity.MovementEntry
	lockErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{levels: make(map[entity.Pair]types.Quantity)}
}

func (l *fakeLedger) LockLevels(_ context.Context, pairs []entity.Pair) (map[entity.Pair]types.Quantity, error) {
	if l.lockErr != nil {
		return nil, l.lockErr
	}
	out := make(map[entity.Pair]types.Quantity, len(pairs))
	for _, p := range pairs {
		out[p] = l.levels[p]
	}
	return out, nil
}

func (l *fakeLedger) Record(_ context.Context, entries []entity.MovementEntry) error {
	l.entries = append(l.entries, entries...)
	return nil
}

func (l *fakeLedger) ApplyDeltas(_ context.Context, deltas []entity.StockDelta) error {
	for _, d := range deltas {
		l.levels[d.Pair()] += d.Quantity
	}
	return nil
}

type fakeRefs struct {
	productErr   error
	warehouseErr error
}

func (r *fakeRefs) EnsureProductsActive(context.Context, []id.ID) error   { return r.productErr }
func (r *fakeRefs) EnsureWarehousesActive(context.Context, []id.ID) error { return r.warehouseErr }

func newEngine(ledger *fakeLedger, refs *fakeRefs) *workflow.Engine {
	return workflow.NewEngine(workflow.EngineConfig{
		TxManager: &fakeTxManager{ledger: ledger},
		Ledger:    ledger,
		Refs:      refs,
	})
}

func noopPersist(context.Context) error { return nil }

// storedDoc mimics the repository's optimistic update contract: the write
// succeeds only when the in-memory version matches the stored one, then
// increments the row and syncs the entity, as BaseDocumentRepo.Update does.
type storedDoc struct {
	version int
}

func (s *storedDoc) persist(doc workflow.Document) func(context.Context) error {
	return func(context.Context) error {
		if doc.GetVersion() != s.version {
			return apperror.NewConcurrentModification("document", doc.GetID().String())
		}
		s.version++
		doc.SetVersion(s.version)
		return nil
	}
}

// driveToDone walks a document through waiting and ready into done.
func driveToDone(t *testing.T, engine *workflow.Engine, doc workflow.Document) error {
	t.Helper()
	ctx := context.Background()

	for _, target := range workflow.PathToDone(doc.GetStatus()) {
		if err := engine.Transition(ctx, doc, target, noopPersist); err != nil {
			return err
		}
	}
	return nil
}

func qty(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

func TestEngine_ReceiptCompletionIncreasesStock(t *testing.T) {
	ledger := newFakeLedger()
	engine := newEngine(ledger, &fakeRefs{})

	userID := id.New()
	warehouseID := id.New()
	productID := id.New()

	doc := receipt.New(userID, warehouseID)
	doc.Number = "RCP-2026-00001"
	doc.AddLine(productID, qty(10))

	require.NoError(t, driveToDone(t, engine, doc))

	assert.Equal(t, entity.StatusDone, doc.Status)
	assert.NotNil(t, doc.ValidatedAt)

	pair := entity.Pair{ProductID: productID, WarehouseID: warehouseID}
	assert.Equal(t, qty(10), ledger.levels[pair])

	require.Len(t, ledger.entries, 1)
	entry := ledger.entries[0]
	assert.Equal(t, entity.MovementReceipt, entry.Type)
	assert.Equal(t, doc.ID, entry.ReferenceID)
	assert.Equal(t, "RCP-2026-00001", entry.ReferenceNumber)
	assert.Equal(t, userID, entry.CreatedBy)
}

func TestEngine_DeliveryInsufficientStock(t *testing.T) {
	ledger := newFakeLedger()
	engine := newEngine(ledger, &fakeRefs{})

	warehouseID := id.New()
	productID := id.New()
	pair := entity.Pair{ProductID: productID, WarehouseID: warehouseID}
	ledger.levels[pair] = qty(10)

	doc := delivery.New(id.New(), warehouseID)
	doc.AddLine(productID, qty(15))

	err := driveToDone(t, engine, doc)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, "15.0000", appErr.Details["requested"])
	assert.Equal(t, "10.0000", appErr.Details["available"])
	assert.Equal(t, "5.0000", appErr.Details["shortfall"])

	// Document stays in its pre-completion state, stock untouched.
	assert.Equal(t, entity.StatusReady, doc.Status)
	assert.Equal(t, qty(10), ledger.levels[pair])
	assert.Empty(t, ledger.entries)
}

func TestEngine_DeliveryDrainsToZero(t *testing.T) {
	ledger := newFakeLedger()
	engine := newEngine(ledger, &fakeRefs{})

	warehouseID := id.New()
	productID := id.New()
	pair := entity.Pair{ProductID: productID, WarehouseID: warehouseID}
	ledger.levels[pair] = qty(10)

	doc := delivery.New(id.New(), warehouseID)
	doc.AddLine(productID, qty(10))

	require.NoError(t, driveToDone(t, engine, doc))
	assert.True(t, ledger.levels[pair].IsZero())
}

func TestEngine_TransferMovesStockBetweenWarehouses(t *testing.T) {
	ledger := newFakeLedger()
	engine := newEngine(ledger, &fakeRefs{})

	srcID := id.New()
	dstID := id.New()
	productID := id.New()
	srcPair := entity.Pair{ProductID: productID, WarehouseID: srcID}
	dstPair := entity.Pair{ProductID: productID, WarehouseID: dstID}
	ledger.levels[srcPair] = qty(8)

	doc := transfer.New(id.New(), srcID, dstID)
	doc.AddLine(productID, qty(3))

	require.NoError(t, driveToDone(t, engine, doc))

	assert.Equal(t, qty(5), ledger.levels[srcPair])
	assert.Equal(t, qty(3), ledger.levels[dstPair])
	assert.Len(t, ledger.entries, 2)
}

func TestEngine_TransferInsufficientSource(t *testing.T) {
	ledger := newFakeLedger()
	engine := newEngine(ledger, &fakeRefs{})

	srcID := id.New()
	dstID := id.New()
	productID := id.New()

	doc := transfer.New(id.New(), srcID, dstID)
	doc.AddLine(productID, qty(1))

	err := driveToDone(t, engine, doc)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
	assert.Empty(t, ledger.entries)
}

func TestEngine_DirectCompletionRejected(t *testing.T) {
	engine := newEngine(newFakeLedger(), &fakeRefs{})

	doc := receipt.New(id.New(), id.New())
	doc.AddLine(id.New(), qty(1))

	err := engine.Transition(context.Background(), doc, entity.StatusDone, noopPersist)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition))
	assert.Equal(t, entity.StatusDraft, doc.Status)
}

func TestEngine_ZeroEffectCompletionRejected(t *testing.T) {
	ledger := newFakeLedger()
	engine := newEngine(ledger, &fakeRefs{})

	warehouseID := id.New()
	productID := id.New()
	ledger.levels[entity.Pair{ProductID: productID, WarehouseID: warehouseID}] = qty(4)

	// Counted equals system on every line: no stock effect.
	doc := adjustment.New(id.New(), warehouseID, "cycle count")
	doc.AddLine(productID, qty(4), qty(4))

	err := driveToDone(t, engine, doc)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidationFailed, appErr.Code)
	assert.Equal(t, "lines_required", appErr.Details["rule"])
}

func TestEngine_AdjustmentStaleSnapshot(t *testing.T) {
	t.Run("count above live level", func(t *testing.T) {
		ledger := newFakeLedger()
		engine := newEngine(ledger, &fakeRefs{})

		warehouseID := id.New()
		productID := id.New()
		pair := entity.Pair{ProductID: productID, WarehouseID: warehouseID}

		// Counted against a snapshot of 4, but stock moved to 5 since.
		ledger.levels[pair] = qty(5)

		doc := adjustment.New(id.New(), warehouseID, "cycle count")
		doc.AddLine(productID, qty(7), qty(4))

		err := driveToDone(t, engine, doc)
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeStaleSnapshot))
		assert.Equal(t, qty(5), ledger.levels[pair])
	})

	t.Run("write-off whose delta would underflow", func(t *testing.T) {
		ledger := newFakeLedger()
		engine := newEngine(ledger, &fakeRefs{})

		warehouseID := id.New()
		productID := id.New()
		pair := entity.Pair{ProductID: productID, WarehouseID: warehouseID}

		// Snapshot said 10, live level is 5, counted 0. The delta of -10
		// would underflow, but the real problem is the stale snapshot and
		// that is what the operator must be told.
		ledger.levels[pair] = qty(5)

		doc := adjustment.New(id.New(), warehouseID, "write-off")
		doc.AddLine(productID, 0, qty(10))

		err := driveToDone(t, engine, doc)
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeStaleSnapshot))
		assert.False(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
		assert.Equal(t, qty(5), ledger.levels[pair])
	})
}

func TestEngine_AdjustmentAppliesCountedDifference(t *testing.T) {
	ledger := newFakeLedger()
	engine := newEngine(ledger, &fakeRefs{})

	warehouseID := id.New()
	productID := id.New()
	pair := entity.Pair{ProductID: productID, WarehouseID: warehouseID}
	ledger.levels[pair] = qty(4)

	doc := adjustment.New(id.New(), warehouseID, "cycle count")
	doc.AddLine(productID, qty(7), qty(4))

	require.NoError(t, driveToDone(t, engine, doc))

	// Level lands exactly on the counted quantity.
	assert.Equal(t, qty(7), ledger.levels[pair])
	require.Len(t, ledger.entries, 1)
	assert.Equal(t, entity.MovementAdjustment, ledger.entries[0].Type)
	assert.Equal(t, qty(3), ledger.entries[0].Quantity)
}

func TestEngine_InactiveProductBlocksCompletion(t *testing.T) {
	ledger := newFakeLedger()
	refs := &fakeRefs{
		productErr: apperror.NewValidationFailed("product_inactive", "product is inactive"),
	}
	engine := newEngine(ledger, refs)

	doc := receipt.New(id.New(), id.New())
	doc.AddLine(id.New(), qty(2))

	err := driveToDone(t, engine, doc)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidationFailed))
	assert.Empty(t, ledger.entries)
	assert.Equal(t, entity.StatusReady, doc.Status)
}

func TestEngine_PersistFailureRollsBackStatus(t *testing.T) {
	ledger := newFakeLedger()
	engine := newEngine(ledger, &fakeRefs{})

	doc := receipt.New(id.New(), id.New())
	doc.AddLine(id.New(), qty(2))

	persistErr := errors.New("version conflict")
	failingPersist := func(context.Context) error { return persistErr }

	// Plain status move fails and rolls back.
	err := engine.Transition(context.Background(), doc, entity.StatusWaiting, failingPersist)
	require.ErrorIs(t, err, persistErr)
	assert.Equal(t, entity.StatusDraft, doc.Status)

	// Completion fails and rolls back document and ledger.
	require.NoError(t, engine.Transition(context.Background(), doc, entity.StatusWaiting, noopPersist))
	require.NoError(t, engine.Transition(context.Background(), doc, entity.StatusReady, noopPersist))

	err = engine.Transition(context.Background(), doc, entity.StatusDone, failingPersist)
	require.ErrorIs(t, err, persistErr)
	assert.Equal(t, entity.StatusReady, doc.Status)
	assert.Nil(t, doc.ValidatedAt)
	assert.Empty(t, ledger.entries)
	assert.Empty(t, ledger.levels)
}

// The repository increments the stored version on every update and syncs
// it back; a full draft-to-done walk of one in-memory document must pass
// the optimistic check on every hop, including the completion itself.
func TestEngine_CompletionHonorsOptimisticVersioning(t *testing.T) {
	ledger := newFakeLedger()
	engine := newEngine(ledger, &fakeRefs{})

	warehouseID := id.New()
	productID := id.New()

	doc := receipt.New(id.New(), warehouseID)
	doc.AddLine(productID, qty(10))

	row := &storedDoc{version: doc.Version}
	persist := row.persist(doc)

	ctx := context.Background()
	require.NoError(t, engine.Transition(ctx, doc, entity.StatusWaiting, persist))
	require.NoError(t, engine.Transition(ctx, doc, entity.StatusReady, persist))
	require.NoError(t, engine.Transition(ctx, doc, entity.StatusDone, persist))

	assert.Equal(t, entity.StatusDone, doc.Status)
	assert.Equal(t, row.version, doc.Version)

	pair := entity.Pair{ProductID: productID, WarehouseID: warehouseID}
	assert.Equal(t, qty(10), ledger.levels[pair])
}

func TestEngine_RolledBackCompletionRestoresVersion(t *testing.T) {
	ledger := newFakeLedger()
	engine := newEngine(ledger, &fakeRefs{})

	doc := receipt.New(id.New(), id.New())
	doc.AddLine(id.New(), qty(1))

	ctx := context.Background()
	row := &storedDoc{version: doc.Version}
	require.NoError(t, engine.Transition(ctx, doc, entity.StatusWaiting, row.persist(doc)))
	require.NoError(t, engine.Transition(ctx, doc, entity.StatusReady, row.persist(doc)))
	versionBefore := doc.Version

	// Persist succeeds inside the transaction but the commit fails, so
	// the document must not keep the synced version or the done stamp.
	commitErr := errors.New("commit failed")
	syncThenFail := func(ctx context.Context) error {
		if err := row.persist(doc)(ctx); err != nil {
			return err
		}
		return commitErr
	}

	err := engine.Transition(ctx, doc, entity.StatusDone, syncThenFail)
	require.ErrorIs(t, err, commitErr)
	assert.Equal(t, entity.StatusReady, doc.Status)
	assert.Equal(t, versionBefore, doc.Version)
	assert.Nil(t, doc.ValidatedAt)
}

func TestEngine_ContentionLeavesDocumentUntouched(t *testing.T) {
	ledger := newFakeLedger()
	ledger.lockErr = apperror.NewContention("stock rows are locked by another completion")
	engine := newEngine(ledger, &fakeRefs{})

	doc := delivery.New(id.New(), id.New())
	doc.AddLine(id.New(), qty(2))

	err := driveToDone(t, engine, doc)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeContention, appErr.Code)
	assert.True(t, appErr.Retryable)

	// Nothing happened: the caller can retry the same transition as-is.
	assert.Equal(t, entity.StatusReady, doc.Status)
	assert.Nil(t, doc.ValidatedAt)
	assert.Empty(t, ledger.entries)
}

func TestEngine_CancellationHasNoStockEffect(t *testing.T) {
	ledger := newFakeLedger()
	engine := newEngine(ledger, &fakeRefs{})

	doc := delivery.New(id.New(), id.New())
	doc.AddLine(id.New(), qty(5))

	ctx := context.Background()
	require.NoError(t, engine.Transition(ctx, doc, entity.StatusWaiting, noopPersist))
	require.NoError(t, engine.Transition(ctx, doc, entity.StatusCanceled, noopPersist))

	assert.Equal(t, entity.StatusCanceled, doc.Status)
	assert.Empty(t, ledger.entries)

	// Terminal: nothing moves out of canceled.
	err := engine.Transition(ctx, doc, entity.StatusWaiting, noopPersist)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition))
}
