package goods_receipt

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

func TestGoodsReceipt_RecalculateTotals(t *testing.T) {
	gr := NewGoodsReceipt(id.New(), id.New())
	gr.Date = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	gr.AddLine(id.New(), types.NewQuantityFromInt(2), nil, types.NewMoney(100))
	gr.AddLine(id.New(), types.NewQuantityFromInt(3), nil, types.NewMoney(40))

	// Simulate normalization: base unit, factor 1.
	for i := range gr.Lines {
		gr.Lines[i].ConversionFactor = types.NewQuantityFromInt(1)
		gr.Lines[i].Quantity = gr.Lines[i].EnteredQty
	}
	gr.RecalculateTotals()

	assert.Equal(t, "5.0000", gr.TotalQuantity.String())
	assert.True(t, gr.TotalAmount.Equal(types.NewMoney(320)))
}

func TestGoodsReceipt_GenerateMovements_UsesUnitCostAsValuation(t *testing.T) {
	gr := NewGoodsReceipt(id.New(), id.New())
	gr.Date = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	itemID := id.New()
	gr.AddLine(itemID, types.NewQuantityFromInt(4), nil, types.NewMoney(25))
	gr.Lines[0].ConversionFactor = types.NewQuantityFromInt(1)
	gr.Lines[0].Quantity = gr.Lines[0].EnteredQty
	gr.RecalculateTotals()

	set, err := gr.GenerateMovements(context.Background())
	require.NoError(t, err)
	require.Len(t, set.Stock, 1)

	mv := set.Stock[0]
	assert.Equal(t, entity.RecordTypeReceipt, mv.RecordType)
	assert.Equal(t, gr.WarehouseID, mv.WarehouseID)
	assert.Equal(t, itemID, mv.ItemID)
	assert.True(t, mv.ValuationRate.Equal(types.NewMoney(25)))
	assert.Equal(t, gr.PostedVersion+1, mv.RecorderVersion)
}

func TestGoodsReceipt_GenerateMovements_RejectsUnnormalizedLine(t *testing.T) {
	gr := NewGoodsReceipt(id.New(), id.New())
	gr.Date = time.Now()
	gr.AddLine(id.New(), types.NewQuantityFromInt(1), nil, types.NewMoney(10))

	_, err := gr.GenerateMovements(context.Background())
	assert.Error(t, err)
}

func TestGoodsReceipt_Validate(t *testing.T) {
	gr := NewGoodsReceipt(id.New(), id.New())
	gr.Date = time.Now()

	// No lines.
	assert.Error(t, gr.Validate(context.Background()))

	gr.AddLine(id.New(), types.NewQuantityFromInt(1), nil, types.NewMoney(-5))
	assert.Error(t, gr.Validate(context.Background()), "negative unit cost must be rejected")

	gr.Lines[0].UnitCost = types.NewMoney(5)
	assert.NoError(t, gr.Validate(context.Background()))
}

func TestGoodsReceipt_Workflow(t *testing.T) {
	gr := NewGoodsReceipt(id.New(), id.New())

	assert.Equal(t, StatusDraft, gr.Status)
	assert.Equal(t, StatusApproved, gr.PostTarget())
	assert.Equal(t, StatusPendingApproval, gr.UnpostTarget())

	m := gr.Workflow()
	assert.True(t, m.CanTransition(StatusDraft, StatusPendingApproval))
	assert.False(t, m.CanTransition(StatusDraft, StatusApproved), "draft cannot jump straight to approved")
}
