package adjustment

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

func qty(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

func failedRule(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected an AppError, got %v", err)
	require.Equal(t, apperror.CodeValidationFailed, appErr.Code)
	rule, _ := appErr.Details["rule"].(string)
	return rule
}

func TestAdjustmentValidate(t *testing.T) {
	ctx := context.Background()
	warehouseID := id.New()

	t.Run("valid", func(t *testing.T) {
		a := New(id.New(), warehouseID, "cycle count")
		a.AddLine(id.New(), qty(3), qty(2))
		assert.NoError(t, a.Validate(ctx))
	})

	t.Run("missing warehouse", func(t *testing.T) {
		a := New(id.New(), id.Nil(), "cycle count")
		a.AddLine(id.New(), qty(3), qty(2))
		assert.Equal(t, "warehouse_required", failedRule(t, a.Validate(ctx)))
	})

	t.Run("missing reason", func(t *testing.T) {
		a := New(id.New(), warehouseID, "")
		a.AddLine(id.New(), qty(3), qty(2))
		assert.Equal(t, "reason_required", failedRule(t, a.Validate(ctx)))
	})

	t.Run("no lines", func(t *testing.T) {
		a := New(id.New(), warehouseID, "cycle count")
		assert.Equal(t, "lines_required", failedRule(t, a.Validate(ctx)))
	})

	t.Run("negative counted", func(t *testing.T) {
		a := New(id.New(), warehouseID, "cycle count")
		a.AddLine(id.New(), qty(-1), qty(2))
		assert.Equal(t, "counted_non_negative", failedRule(t, a.Validate(ctx)))
	})

	t.Run("counted zero is allowed", func(t *testing.T) {
		a := New(id.New(), warehouseID, "write-off")
		a.AddLine(id.New(), 0, qty(2))
		assert.NoError(t, a.Validate(ctx))
	})

	t.Run("duplicate product", func(t *testing.T) {
		a := New(id.New(), warehouseID, "cycle count")
		productID := id.New()
		a.AddLine(productID, qty(3), qty(2))
		a.AddLine(productID, qty(1), qty(2))
		assert.Equal(t, "product_unique", failedRule(t, a.Validate(ctx)))
	})
}

func TestAdjustmentLineDelta(t *testing.T) {
	line := Line{CountedQuantity: qty(7), SystemQuantity: qty(4)}
	assert.Equal(t, qty(3), line.Delta())

	line = Line{CountedQuantity: qty(2), SystemQuantity: qty(5)}
	assert.Equal(t, qty(-3), line.Delta())
}

// Lines counted equal to the snapshot produce no delta at all.
func TestAdjustmentStockDeltas(t *testing.T) {
	warehouseID := id.New()
	surplus := id.New()
	matching := id.New()
	shortage := id.New()

	a := New(id.New(), warehouseID, "cycle count")
	a.AddLine(surplus, qty(10), qty(8))
	a.AddLine(matching, qty(5), qty(5))
	a.AddLine(shortage, qty(1), qty(4))

	deltas := a.StockDeltas()
	require.Len(t, deltas, 2)

	assert.Equal(t, surplus, deltas[0].ProductID)
	assert.Equal(t, qty(2), deltas[0].Quantity)
	assert.Equal(t, shortage, deltas[1].ProductID)
	assert.Equal(t, qty(-3), deltas[1].Quantity)
}

func TestAdjustmentValidateCompletion(t *testing.T) {
	ctx := context.Background()
	warehouseID := id.New()
	productID := id.New()
	pair := entity.Pair{ProductID: productID, WarehouseID: warehouseID}

	a := New(id.New(), warehouseID, "cycle count")
	a.AddLine(productID, qty(7), qty(4))

	t.Run("snapshot matches live level", func(t *testing.T) {
		levels := map[entity.Pair]types.Quantity{pair: qty(4)}
		assert.NoError(t, a.ValidateCompletion(ctx, levels))
	})

	t.Run("level moved since snapshot", func(t *testing.T) {
		levels := map[entity.Pair]types.Quantity{pair: qty(5)}
		err := a.ValidateCompletion(ctx, levels)
		require.Error(t, err)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeStaleSnapshot, appErr.Code)
		assert.Equal(t, "4.0000", appErr.Details["snapshot"])
		assert.Equal(t, "5.0000", appErr.Details["current"])
	})

	t.Run("zero-delta lines are not checked", func(t *testing.T) {
		b := New(id.New(), warehouseID, "cycle count")
		b.AddLine(productID, qty(4), qty(4))
		levels := map[entity.Pair]types.Quantity{pair: qty(9)}
		assert.NoError(t, b.ValidateCompletion(ctx, levels))
	})
}

func TestAdjustmentDocumentType(t *testing.T) {
	a := New(id.New(), id.New(), "cycle count")
	assert.Equal(t, entity.MovementAdjustment, a.DocumentType())
}
