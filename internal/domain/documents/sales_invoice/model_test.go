package sales_invoice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
)

func normalizedInvoice(t *testing.T) *SalesInvoice {
	t.Helper()

	inv := NewSalesInvoice(id.New(), id.New())
	inv.Date = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	inv.AddLine(id.New(), types.NewQuantityFromInt(3), nil, types.NewMoney(50))
	inv.AddLine(id.New(), types.NewQuantityFromFloat64(1.5), nil, types.NewMoney(20))

	// enrichment normally fills these
	for i := range inv.Lines {
		inv.Lines[i].ConversionFactor = types.NewQuantityFromInt(1)
		inv.Lines[i].Quantity = inv.Lines[i].EnteredQty
		inv.Lines[i].CostRate = types.NewMoney(10)
	}
	inv.RecalculateTotals()

	return inv
}

func TestSalesInvoice_RecalculateTotals(t *testing.T) {
	inv := normalizedInvoice(t)

	// 3×50 + 1.5×20 = 180; cost 3×10 + 1.5×10 = 45
	assert.Equal(t, "4.5000", inv.TotalQuantity.String())
	assert.True(t, inv.TotalAmount.Equal(types.NewMoney(180)), "amount = %s", inv.TotalAmount)
	assert.True(t, inv.TotalCost.Equal(types.NewMoney(45)), "cost = %s", inv.TotalCost)
}

func TestSalesInvoice_Validate(t *testing.T) {
	ctx := context.Background()

	inv := normalizedInvoice(t)
	require.NoError(t, inv.Validate(ctx))

	noCustomer := normalizedInvoice(t)
	noCustomer.CustomerID = id.Nil()
	err := noCustomer.Validate(ctx)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	noLines := NewSalesInvoice(id.New(), id.New())
	noLines.Date = time.Now()
	assert.Error(t, noLines.Validate(ctx))
}

func TestSalesInvoice_GenerateMovements(t *testing.T) {
	ctx := context.Background()
	inv := normalizedInvoice(t)

	set, err := inv.GenerateMovements(ctx)
	require.NoError(t, err)
	require.Len(t, set.Stock, 2)

	for i, m := range set.Stock {
		assert.Equal(t, entity.RecordTypeExpense, m.RecordType)
		assert.Equal(t, inv.WarehouseID, m.WarehouseID)
		assert.Equal(t, inv.Lines[i].ItemID, m.ItemID)
		assert.Equal(t, inv.Lines[i].Quantity, m.Quantity)
		assert.Equal(t, inv.PostedVersion+1, m.RecorderVersion)
	}
}

func TestSalesInvoice_GenerateMovements_RequiresNormalizedLines(t *testing.T) {
	inv := NewSalesInvoice(id.New(), id.New())
	inv.AddLine(id.New(), types.NewQuantityFromInt(2), nil, types.NewMoney(10))

	_, err := inv.GenerateMovements(context.Background())
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSalesInvoice_ReceivableEntries_Balance(t *testing.T) {
	inv := normalizedInvoice(t)

	entries, err := inv.GenerateReceivableEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	debit := types.Zero()
	credit := types.Zero()
	for _, e := range entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	assert.True(t, debit.Equal(credit), "debit %s != credit %s", debit, credit)
	assert.True(t, debit.Equal(inv.TotalAmount))
}

func TestSalesInvoice_COGSEntries_Balance(t *testing.T) {
	inv := normalizedInvoice(t)

	entries, err := inv.GenerateCOGSEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	debit := types.Zero()
	credit := types.Zero()
	for _, e := range entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	assert.True(t, debit.Equal(credit))
	assert.True(t, debit.Equal(inv.TotalCost))
}

func TestSalesInvoice_CommissionAccruals(t *testing.T) {
	ctx := context.Background()

	inv := normalizedInvoice(t)
	accruals, err := inv.GenerateCommissionAccruals(ctx)
	require.NoError(t, err)
	assert.Empty(t, accruals, "no salesperson, no accrual")

	inv.SalespersonID = id.Ptr(id.New())
	inv.CommissionRate = types.NewMoney(5)
	accruals, err = inv.GenerateCommissionAccruals(ctx)
	require.NoError(t, err)
	require.Len(t, accruals, 1)

	// 5% of 180 = 9
	assert.True(t, accruals[0].Amount.Equal(types.NewMoney(9)), "amount = %s", accruals[0].Amount)
	assert.Equal(t, *inv.SalespersonID, accruals[0].SalespersonID)
}

func TestSalesInvoice_Workflow(t *testing.T) {
	inv := normalizedInvoice(t)

	assert.Equal(t, StatusDraft, inv.GetStatus())
	require.NoError(t, inv.ChangeStatus(machine, StatusSent))
	require.NoError(t, inv.ChangeStatus(machine, StatusPaid))

	err := inv.ChangeStatus(machine, StatusDraft)
	require.Error(t, err, "paid is terminal")
}
