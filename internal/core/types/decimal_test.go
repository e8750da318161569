package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_Mul(t *testing.T) {
	// 3 packs with factor 12 → 36 base units
	qty := NewQuantityFromInt(3)
	factor := NewQuantityFromInt(12)
	assert.Equal(t, NewQuantityFromInt(36), qty.Mul(factor))

	// fractional factor: 2.5 × 0.5 = 1.25
	assert.Equal(t,
		NewQuantityFromFloat64(1.25),
		NewQuantityFromFloat64(2.5).Mul(NewQuantityFromFloat64(0.5)),
	)

	// identity factor leaves the value untouched
	assert.Equal(t, NewQuantityFromFloat64(7.125), NewQuantityFromFloat64(7.125).Mul(NewQuantityFromInt(1)))
}

func TestQuantity_String(t *testing.T) {
	assert.Equal(t, "36.0000", NewQuantityFromInt(36).String())
	assert.Equal(t, "-2.5000", NewQuantityFromFloat64(-2.5).String())
	assert.Equal(t, "0.0001", NewQuantityFromInt64Scaled(1).String())
}

func TestQuantity_JSONRoundTrip(t *testing.T) {
	type payload struct {
		Qty Quantity `json:"qty"`
	}

	data, err := json.Marshal(payload{Qty: NewQuantityFromFloat64(12.5)})
	require.NoError(t, err)
	assert.Equal(t, `{"qty":12.5000}`, string(data))

	var out payload
	require.NoError(t, json.Unmarshal([]byte(`{"qty":"3.25"}`), &out))
	assert.Equal(t, NewQuantityFromFloat64(3.25), out.Qty)

	// extra fractional digits are truncated to the fixed scale
	require.NoError(t, json.Unmarshal([]byte(`{"qty":1.23456}`), &out))
	assert.Equal(t, NewQuantityFromInt64Scaled(12345), out.Qty)
}

func TestQuantity_UnmarshalRejectsGarbage(t *testing.T) {
	var q Quantity
	assert.Error(t, q.UnmarshalJSON([]byte(`"abc"`)))
	assert.Error(t, q.UnmarshalJSON([]byte(`"1.2.3"`)))
}

func TestQuantity_UnmarshalRejectsExponentForm(t *testing.T) {
	var q Quantity
	for _, in := range []string{`1e2`, `1E2`, `"1.5e3"`, `-2.5E-1`} {
		assert.Error(t, q.UnmarshalJSON([]byte(in)), "input %s", in)
	}
}
