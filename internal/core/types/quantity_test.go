package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_String(t *testing.T) {
	assert.Equal(t, "1.5000", NewQuantityFromFloat64(1.5).String())
	assert.Equal(t, "0.0000", Quantity(0).String())
	assert.Equal(t, "-3.2500", NewQuantityFromFloat64(-3.25).String())
	assert.Equal(t, "10.0001", Quantity(100001).String())
}

func TestQuantity_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Quantity
	}{
		{"number", `12.5`, Quantity(125000)},
		{"string", `"12.5"`, Quantity(125000)},
		{"negative", `-0.25`, Quantity(-2500)},
		{"integer", `7`, Quantity(70000)},
		{"truncates extra digits", `1.00009`, Quantity(10000)},
		{"null", `null`, Quantity(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Quantity
			require.NoError(t, json.Unmarshal([]byte(tt.in), &q))
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestQuantity_RoundTrip(t *testing.T) {
	q := NewQuantityFromFloat64(42.75)
	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Equal(t, "42.7500", string(data))

	var back Quantity
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, q, back)
}

func TestQuantity_SignHelpers(t *testing.T) {
	assert.True(t, Quantity(1).IsPositive())
	assert.True(t, Quantity(-1).IsNegative())
	assert.True(t, Quantity(0).IsZero())
	assert.Equal(t, Quantity(5), Quantity(-5).Abs())
	assert.Equal(t, Quantity(-5), Quantity(5).Neg())
}
