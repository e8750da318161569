package postgres

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_ReportsChangedFields(t *testing.T) {
	oldState := map[string]any{
		"name":   "Widget",
		"price":  100,
		"active": true,
	}
	newState := map[string]any{
		"name":   "Widget",
		"price":  120,
		"active": true,
	}

	changes := Diff(oldState, newState)

	require.Len(t, changes, 1)
	pair, ok := changes["price"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 100, pair["old"])
	assert.Equal(t, 120, pair["new"])
}

func TestDiff_ReportsAddedAndRemovedFields(t *testing.T) {
	oldState := map[string]any{"sku": "A-1", "legacy": "x"}
	newState := map[string]any{"sku": "A-1", "barcode": "123"}

	changes := Diff(oldState, newState)

	require.Len(t, changes, 2)

	added, ok := changes["barcode"].(map[string]any)
	require.True(t, ok)
	assert.Nil(t, added["old"])
	assert.Equal(t, "123", added["new"])

	removed, ok := changes["legacy"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "x", removed["old"])
	assert.Nil(t, removed["new"])
}

func TestDiff_EqualStates(t *testing.T) {
	state := map[string]any{"qty": 5, "tags": []string{"a", "b"}}

	changes := Diff(state, map[string]any{"qty": 5, "tags": []string{"a", "b"}})

	assert.Empty(t, changes)
}

func TestAuditService_CompressionRoundTrip(t *testing.T) {
	svc, err := NewAuditServiceFromContext()
	require.NoError(t, err)

	payload := bytes.Repeat([]byte(`{"field":"value"}`), 2048)
	require.Greater(t, len(payload), svc.compressThreshold)

	compressed := svc.encoder.EncodeAll(payload, nil)
	assert.Less(t, len(compressed), len(payload))

	restored, err := svc.decoder.DecodeAll(compressed, nil)
	require.NoError(t, err)
	assert.Equal(t, payload, restored)
}
