package stock_adjustment

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

func TestStockAdjustment_GenerateMovements_Directions(t *testing.T) {
	sa := NewStockAdjustment(id.New(), "stocktake")
	sa.Date = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	sa.AddLine(id.New(), DirectionIn, types.NewQuantityFromInt(5), nil)
	sa.AddLine(id.New(), DirectionOut, types.NewQuantityFromInt(2), nil)

	for i := range sa.Lines {
		sa.Lines[i].ConversionFactor = types.NewQuantityFromInt(1)
		sa.Lines[i].Quantity = sa.Lines[i].EnteredQty
		sa.Lines[i].CostRate = types.NewMoney(7)
	}
	sa.RecalculateTotals()

	assert.Equal(t, "5.0000", sa.TotalInQuantity.String())
	assert.Equal(t, "2.0000", sa.TotalOutQuantity.String())

	set, err := sa.GenerateMovements(context.Background())
	require.NoError(t, err)
	require.Len(t, set.Stock, 2)

	assert.Equal(t, entity.RecordTypeReceipt, set.Stock[0].RecordType)
	assert.Equal(t, entity.RecordTypeExpense, set.Stock[1].RecordType)
	assert.Equal(t, sa.WarehouseID, set.Stock[0].WarehouseID)
}

func TestStockAdjustment_Validate_Direction(t *testing.T) {
	sa := NewStockAdjustment(id.New(), "damage")
	sa.Date = time.Now()
	sa.AddLine(id.New(), Direction("sideways"), types.NewQuantityFromInt(1), nil)

	assert.Error(t, sa.Validate(context.Background()))
}
