package receipt

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

func failedRule(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected an AppError, got %v", err)
	require.Equal(t, apperror.CodeValidationFailed, appErr.Code)
	rule, _ := appErr.Details["rule"].(string)
	return rule
}

func TestReceiptValidate(t *testing.T) {
	ctx := context.Background()
	userID := id.New()
	warehouseID := id.New()

	t.Run("valid", func(t *testing.T) {
		r := New(userID, warehouseID)
		r.AddLine(id.New(), types.NewQuantityFromFloat64(5))
		assert.NoError(t, r.Validate(ctx))
	})

	t.Run("missing warehouse", func(t *testing.T) {
		r := New(userID, id.Nil())
		r.AddLine(id.New(), types.NewQuantityFromFloat64(5))
		assert.Equal(t, "warehouse_required", failedRule(t, r.Validate(ctx)))
	})

	t.Run("no lines", func(t *testing.T) {
		r := New(userID, warehouseID)
		assert.Equal(t, "lines_required", failedRule(t, r.Validate(ctx)))
	})

	t.Run("missing product", func(t *testing.T) {
		r := New(userID, warehouseID)
		r.AddLine(id.Nil(), types.NewQuantityFromFloat64(5))
		assert.Equal(t, "product_required", failedRule(t, r.Validate(ctx)))
	})

	t.Run("zero quantity", func(t *testing.T) {
		r := New(userID, warehouseID)
		r.AddLine(id.New(), 0)
		assert.Equal(t, "quantity_positive", failedRule(t, r.Validate(ctx)))
	})

	t.Run("negative quantity", func(t *testing.T) {
		r := New(userID, warehouseID)
		r.AddLine(id.New(), types.NewQuantityFromFloat64(-1))
		assert.Equal(t, "quantity_positive", failedRule(t, r.Validate(ctx)))
	})
}

func TestReceiptStockDeltas(t *testing.T) {
	warehouseID := id.New()
	productA := id.New()
	productB := id.New()

	r := New(id.New(), warehouseID)
	r.AddLine(productA, types.NewQuantityFromFloat64(5))
	r.AddLine(productB, types.NewQuantityFromFloat64(2.5))

	deltas := r.StockDeltas()
	require.Len(t, deltas, 2)

	assert.Equal(t, productA, deltas[0].ProductID)
	assert.Equal(t, warehouseID, deltas[0].WarehouseID)
	assert.Equal(t, types.NewQuantityFromFloat64(5), deltas[0].Quantity)
	assert.Equal(t, types.NewQuantityFromFloat64(2.5), deltas[1].Quantity)
}

func TestReceiptLineNumbering(t *testing.T) {
	r := New(id.New(), id.New())
	r.AddLine(id.New(), types.NewQuantityFromFloat64(1))
	r.AddLine(id.New(), types.NewQuantityFromFloat64(2))

	assert.Equal(t, 1, r.Lines[0].LineNo)
	assert.Equal(t, 2, r.Lines[1].LineNo)
	assert.NotEqual(t, r.Lines[0].LineID, r.Lines[1].LineID)
}

func TestReceiptDocumentType(t *testing.T) {
	r := New(id.New(), id.New())
	assert.Equal(t, entity.MovementReceipt, r.DocumentType())
	assert.Equal(t, entity.StatusDraft, r.Status)
}
