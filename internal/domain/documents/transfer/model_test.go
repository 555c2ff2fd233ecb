package transfer

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

func TestTransferValidate(t *testing.T) {
	ctx := context.Background()
	src := id.New()
	dst := id.New()

	t.Run("valid", func(t *testing.T) {
		tr := New(id.New(), src, dst)
		tr.AddLine(id.New(), types.NewQuantityFromFloat64(2))
		assert.NoError(t, tr.Validate(ctx))
	})

	t.Run("missing source", func(t *testing.T) {
		tr := New(id.New(), id.Nil(), dst)
		tr.AddLine(id.New(), types.NewQuantityFromFloat64(2))
		assert.Equal(t, "source_required", failedRule(t, tr.Validate(ctx)))
	})

	t.Run("missing destination", func(t *testing.T) {
		tr := New(id.New(), src, id.Nil())
		tr.AddLine(id.New(), types.NewQuantityFromFloat64(2))
		assert.Equal(t, "destination_required", failedRule(t, tr.Validate(ctx)))
	})

	t.Run("same warehouse both sides", func(t *testing.T) {
		tr := New(id.New(), src, src)
		tr.AddLine(id.New(), types.NewQuantityFromFloat64(2))
		assert.Equal(t, "warehouses_distinct", failedRule(t, tr.Validate(ctx)))
	})

	t.Run("no lines", func(t *testing.T) {
		tr := New(id.New(), src, dst)
		assert.Equal(t, "lines_required", failedRule(t, tr.Validate(ctx)))
	})
}

// Each line yields a matched pair of deltas, so the net over both
// warehouses is always zero.
func TestTransferStockDeltas(t *testing.T) {
	src := id.New()
	dst := id.New()
	productID := id.New()
	q := types.NewQuantityFromFloat64(6)

	tr := New(id.New(), src, dst)
	tr.AddLine(productID, q)

	deltas := tr.StockDeltas()
	require.Len(t, deltas, 2)

	assert.Equal(t, src, deltas[0].WarehouseID)
	assert.Equal(t, q.Neg(), deltas[0].Quantity)
	assert.Equal(t, dst, deltas[1].WarehouseID)
	assert.Equal(t, q, deltas[1].Quantity)

	var net types.Quantity
	for _, d := range deltas {
		net += d.Quantity
	}
	assert.True(t, net.IsZero())
}

func TestTransferDocumentType(t *testing.T) {
	tr := New(id.New(), id.New(), id.New())
	assert.Equal(t, entity.MovementTransfer, tr.DocumentType())
}
