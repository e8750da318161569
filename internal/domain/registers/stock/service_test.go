package stock

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

type balanceKey struct {
	warehouseID id.ID
	itemID      id.ID
}

// fakeRepo keeps movements and balances in memory. Lock semantics are not
// simulated; the service's bookkeeping is what is under test.
type fakeRepo struct {
	Repository

	balances  map[balanceKey]entity.StockBalance
	movements []entity.StockMovement
	locks     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{balances: make(map[balanceKey]entity.StockBalance)}
}

func (f *fakeRepo) setBalance(warehouseID, itemID id.ID, qty types.Quantity) {
	f.balances[balanceKey{warehouseID, itemID}] = entity.StockBalance{
		WarehouseID: warehouseID,
		ItemID:      itemID,
		Quantity:    qty,
	}
}

func (f *fakeRepo) EnsureBalanceRow(ctx context.Context, warehouseID, itemID id.ID) error {
	key := balanceKey{warehouseID, itemID}
	if _, ok := f.balances[key]; !ok {
		f.balances[key] = entity.StockBalance{WarehouseID: warehouseID, ItemID: itemID}
	}
	return nil
}

func (f *fakeRepo) GetBalanceForUpdate(ctx context.Context, warehouseID, itemID id.ID) (entity.StockBalance, error) {
	f.locks++
	return f.balances[balanceKey{warehouseID, itemID}], nil
}

func (f *fakeRepo) UpdateBalance(ctx context.Context, warehouseID, itemID id.ID, qty types.Quantity, movementAt time.Time) error {
	key := balanceKey{warehouseID, itemID}
	b := f.balances[key]
	b.Quantity = qty
	b.LastMovementAt = movementAt
	f.balances[key] = b
	return nil
}

func (f *fakeRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	f.movements = append(f.movements, movements...)
	return nil
}

func (f *fakeRepo) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range f.movements {
		if m.RecorderID == recorderID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID, beforeVersion int) error {
	kept := f.movements[:0]
	for _, m := range f.movements {
		if m.RecorderID != recorderID {
			kept = append(kept, m)
		}
	}
	f.movements = kept
	return nil
}

func receipt(recorder, warehouse, item id.ID, qty float64) entity.StockMovement {
	return entity.NewStockMovement(
		recorder, "GoodsReceipt", 1, time.Now().UTC(),
		entity.RecordTypeReceipt, warehouse, item,
		types.NewQuantityFromFloat64(qty), types.NewMoney(10),
	)
}

func expense(recorder, warehouse, item id.ID, qty float64) entity.StockMovement {
	return entity.NewStockMovement(
		recorder, "SalesInvoice", 1, time.Now().UTC(),
		entity.RecordTypeExpense, warehouse, item,
		types.NewQuantityFromFloat64(qty), types.NewMoney(10),
	)
}

func TestApplyMovements_SnapshotsBeforeAfter(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	warehouse := id.New()
	item := id.New()
	doc := id.New()
	repo.setBalance(warehouse, item, types.NewQuantityFromInt(50))

	movements := []entity.StockMovement{
		receipt(doc, warehouse, item, 10),
		expense(doc, warehouse, item, 25),
	}

	require.NoError(t, svc.ApplyMovements(context.Background(), movements))

	assert.Equal(t, types.NewQuantityFromInt(50), movements[0].QtyBefore)
	assert.Equal(t, types.NewQuantityFromInt(60), movements[0].QtyAfter)
	assert.Equal(t, types.NewQuantityFromInt(60), movements[1].QtyBefore)
	assert.Equal(t, types.NewQuantityFromInt(35), movements[1].QtyAfter)

	// one lock per (warehouse, item) pair, not per movement
	assert.Equal(t, 1, repo.locks)

	balance := repo.balances[balanceKey{warehouse, item}]
	assert.Equal(t, types.NewQuantityFromInt(35), balance.Quantity)
	assert.Len(t, repo.movements, 2)
}

func TestApplyMovements_InsufficientStockFailsWholeBatch(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	warehouse := id.New()
	item := id.New()
	doc := id.New()
	repo.setBalance(warehouse, item, types.NewQuantityFromInt(5))

	err := svc.ApplyMovements(context.Background(), []entity.StockMovement{
		expense(doc, warehouse, item, 8),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, "8.0000", appErr.Details["requested"])
	assert.Equal(t, "5.0000", appErr.Details["available"])

	// nothing recorded
	assert.Empty(t, repo.movements)
}

func TestApplyMovements_ExactBalanceToZero(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	warehouse := id.New()
	item := id.New()
	doc := id.New()
	repo.setBalance(warehouse, item, types.NewQuantityFromInt(8))

	movements := []entity.StockMovement{expense(doc, warehouse, item, 8)}
	require.NoError(t, svc.ApplyMovements(context.Background(), movements))

	assert.True(t, movements[0].QtyAfter.IsZero())
	assert.True(t, repo.balances[balanceKey{warehouse, item}].Quantity.IsZero())
}

func TestApplyMovements_MissingBalanceRowTreatedAsZero(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	warehouse := id.New()
	item := id.New()
	doc := id.New()

	// no receipt ever recorded for this pair
	err := svc.ApplyMovements(context.Background(), []entity.StockMovement{
		expense(doc, warehouse, item, 1),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// receipts into a fresh pair create the row
	require.NoError(t, svc.ApplyMovements(context.Background(), []entity.StockMovement{
		receipt(doc, warehouse, item, 3),
	}))
	assert.Equal(t, types.NewQuantityFromInt(3), repo.balances[balanceKey{warehouse, item}].Quantity)
}

func TestApplyMovements_RejectsNonPositiveQuantity(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	m := receipt(id.New(), id.New(), id.New(), 0)
	err := svc.ApplyMovements(context.Background(), []entity.StockMovement{m})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReverseMovements_RestoresBalances(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	warehouse := id.New()
	item := id.New()
	doc := id.New()
	repo.setBalance(warehouse, item, types.NewQuantityFromInt(20))

	require.NoError(t, svc.ApplyMovements(context.Background(), []entity.StockMovement{
		expense(doc, warehouse, item, 12),
	}))
	assert.Equal(t, types.NewQuantityFromInt(8), repo.balances[balanceKey{warehouse, item}].Quantity)

	require.NoError(t, svc.ReverseMovements(context.Background(), doc))
	assert.Equal(t, types.NewQuantityFromInt(20), repo.balances[balanceKey{warehouse, item}].Quantity)
	assert.Empty(t, repo.movements)
}

func TestReverseMovements_ReceiptReversalCanFail(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	warehouse := id.New()
	item := id.New()
	receiptDoc := id.New()
	issueDoc := id.New()

	// receive 10, issue 7; reversing the receipt would need 10 but only 3 remain
	require.NoError(t, svc.ApplyMovements(context.Background(), []entity.StockMovement{
		receipt(receiptDoc, warehouse, item, 10),
	}))
	require.NoError(t, svc.ApplyMovements(context.Background(), []entity.StockMovement{
		expense(issueDoc, warehouse, item, 7),
	}))

	err := svc.ReverseMovements(context.Background(), receiptDoc)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
}
