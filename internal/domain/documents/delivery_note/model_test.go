package delivery_note

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
)

func TestDeliveryNote_GenerateMovements(t *testing.T) {
	dn := NewDeliveryNote(id.New(), id.New())
	dn.Date = time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)

	itemID := id.New()
	dn.AddLine(itemID, types.NewQuantityFromInt(6), nil)

	// Simulate normalization and cost enrichment.
	dn.Lines[0].ConversionFactor = types.NewQuantityFromInt(1)
	dn.Lines[0].Quantity = dn.Lines[0].EnteredQty
	dn.Lines[0].CostRate = types.NewMoney(15)
	dn.RecalculateTotals()

	assert.Equal(t, "6.0000", dn.TotalQuantity.String())
	assert.True(t, dn.TotalCost.Equal(types.NewMoney(90)))

	set, err := dn.GenerateMovements(context.Background())
	require.NoError(t, err)
	require.Len(t, set.Stock, 1)

	mv := set.Stock[0]
	assert.Equal(t, entity.RecordTypeReceipt, mv.RecordType)
	assert.Equal(t, dn.WarehouseID, mv.WarehouseID)
	assert.Equal(t, itemID, mv.ItemID)
	assert.True(t, mv.ValuationRate.Equal(types.NewMoney(15)))
}

func TestDeliveryNote_Validate_RequiresLines(t *testing.T) {
	dn := NewDeliveryNote(id.New(), id.New())
	dn.Date = time.Now()

	assert.Error(t, dn.Validate(context.Background()))

	dn.AddLine(id.New(), types.NewQuantityFromInt(1), nil)
	assert.NoError(t, dn.Validate(context.Background()))
}

func TestDeliveryNote_Workflow(t *testing.T) {
	dn := NewDeliveryNote(id.New(), id.New())

	assert.Equal(t, StatusDraft, dn.Status)
	assert.Equal(t, StatusReceived, dn.PostTarget())
	assert.Equal(t, StatusInTransit, dn.UnpostTarget())

	m := dn.Workflow()
	assert.True(t, m.CanTransition(StatusDraft, StatusInTransit))
	assert.True(t, m.CanTransition(StatusInTransit, StatusDraft), "transit can return to draft before receipt")
	assert.False(t, m.CanTransition(StatusDraft, StatusReceived))
}
