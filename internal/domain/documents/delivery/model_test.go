package delivery

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

func TestDeliveryValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		d := New(id.New(), id.New())
		d.AddLine(id.New(), types.NewQuantityFromFloat64(3))
		assert.NoError(t, d.Validate(ctx))
	})

	t.Run("missing warehouse", func(t *testing.T) {
		d := New(id.New(), id.Nil())
		d.AddLine(id.New(), types.NewQuantityFromFloat64(3))
		assert.Equal(t, "warehouse_required", failedRule(t, d.Validate(ctx)))
	})

	t.Run("no lines", func(t *testing.T) {
		d := New(id.New(), id.New())
		assert.Equal(t, "lines_required", failedRule(t, d.Validate(ctx)))
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		d := New(id.New(), id.New())
		d.AddLine(id.New(), 0)
		assert.Equal(t, "quantity_positive", failedRule(t, d.Validate(ctx)))
	})
}

// A delivery issues goods, so every delta is negative.
func TestDeliveryStockDeltas(t *testing.T) {
	warehouseID := id.New()
	productID := id.New()

	d := New(id.New(), warehouseID)
	d.AddLine(productID, types.NewQuantityFromFloat64(4))

	deltas := d.StockDeltas()
	require.Len(t, deltas, 1)
	assert.Equal(t, productID, deltas[0].ProductID)
	assert.Equal(t, warehouseID, deltas[0].WarehouseID)
	assert.Equal(t, types.NewQuantityFromFloat64(-4), deltas[0].Quantity)
	assert.True(t, deltas[0].Quantity.IsNegative())
}

func TestDeliveryDocumentType(t *testing.T) {
	d := New(id.New(), id.New())
	assert.Equal(t, entity.MovementDelivery, d.DocumentType())
}
