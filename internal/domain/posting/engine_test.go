package posting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/security"
	"tradecore/internal/core/status"
	"tradecore/internal/core/types"
)

// fakeTxManager runs the function directly; serialization is emulated by the
// ledger applying movements sequentially.
type fakeTxManager struct {
	transactions int
}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.transactions++
	return fn(ctx)
}

// fakeLedger keeps balances per (warehouse, item) and enforces the
// no-negative-balance rule like the real register service.
type fakeLedger struct {
	balances  map[string]types.Quantity
	movements map[id.ID][]entity.StockMovement
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		balances:  make(map[string]types.Quantity),
		movements: make(map[id.ID][]entity.StockMovement),
	}
}

func key(warehouseID, itemID id.ID) string {
	return warehouseID.String() + "/" + itemID.String()
}

func (f *fakeLedger) ApplyMovements(ctx context.Context, movements []entity.StockMovement) error {
	for _, m := range movements {
		k := key(m.WarehouseID, m.ItemID)
		next := f.balances[k].Add(m.SignedQuantity())
		if next.IsNegative() {
			return apperror.NewInsufficientStock(
				m.ItemID.String(), m.WarehouseID.String(),
				m.Quantity.String(), f.balances[k].String())
		}
		f.balances[k] = next
		f.movements[m.RecorderID] = append(f.movements[m.RecorderID], m)
	}
	return nil
}

func (f *fakeLedger) ReverseMovements(ctx context.Context, recorderID id.ID) error {
	for _, m := range f.movements[recorderID] {
		k := key(m.WarehouseID, m.ItemID)
		f.balances[k] = f.balances[k].Sub(m.SignedQuantity())
	}
	delete(f.movements, recorderID)
	return nil
}

// shipment is a minimal expense document for engine tests.
type shipment struct {
	entity.Document

	warehouseID id.ID
	itemID      id.ID
	qty         types.Quantity
}

var shipmentMachine = status.NewMachine("shipment", "draft", map[status.Status][]status.Status{
	"draft": {"sent"},
	"sent":  {"draft", "paid"},
})

func newShipment(warehouseID, itemID id.ID, qty types.Quantity) *shipment {
	return &shipment{
		Document:    entity.NewDocument("draft"),
		warehouseID: warehouseID,
		itemID:      itemID,
		qty:         qty,
	}
}

func (s *shipment) GetDocumentType() string     { return "Shipment" }
func (s *shipment) Workflow() *status.Machine   { return shipmentMachine }
func (s *shipment) PostTarget() status.Status   { return "sent" }
func (s *shipment) UnpostTarget() status.Status { return "draft" }

func (s *shipment) GenerateMovements(ctx context.Context) (*MovementSet, error) {
	set := NewMovementSet()
	set.AddStock(entity.NewStockMovement(
		s.ID, s.GetDocumentType(), s.PostedVersion+1, s.Date,
		entity.RecordTypeExpense, s.warehouseID, s.itemID, s.qty, types.Zero()))
	return set, nil
}

var _ Postable = (*shipment)(nil)

func noopSave(ctx context.Context) error { return nil }

func newTestEngine(ledger StockLedger) (*Engine, *fakeTxManager) {
	txm := &fakeTxManager{}
	eng := NewEngine(EngineConfig{TxManager: txm, Stock: ledger})
	return eng, txm
}

func TestPost_MovesStatusAndAppliesMovements(t *testing.T) {
	warehouseID, itemID := id.New(), id.New()
	ledger := newFakeLedger()
	ledger.balances[key(warehouseID, itemID)] = types.NewQuantityFromInt(10)
	eng, _ := newTestEngine(ledger)

	doc := newShipment(warehouseID, itemID, types.NewQuantityFromInt(4))
	result, err := eng.Post(context.Background(), doc, noopSave)
	require.NoError(t, err)

	assert.True(t, doc.Posted)
	assert.Equal(t, status.Status("sent"), doc.Status)
	assert.Equal(t, 1, doc.PostedVersion)
	assert.Equal(t, 1, result.Movements)
	assert.Equal(t, types.NewQuantityFromInt(6), ledger.balances[key(warehouseID, itemID)])
}

func TestPost_SecondExpenseSeesDecrementedBalance(t *testing.T) {
	warehouseID, itemID := id.New(), id.New()
	ledger := newFakeLedger()
	ledger.balances[key(warehouseID, itemID)] = types.NewQuantityFromInt(10)
	eng, _ := newTestEngine(ledger)

	first := newShipment(warehouseID, itemID, types.NewQuantityFromInt(7))
	_, err := eng.Post(context.Background(), first, noopSave)
	require.NoError(t, err)

	// The second posting runs after the first; it must observe balance 3
	// and fail rather than oversell.
	second := newShipment(warehouseID, itemID, types.NewQuantityFromInt(7))
	_, err = eng.Post(context.Background(), second, noopSave)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "7.0000", appErr.Details["requested"])
	assert.Equal(t, "3.0000", appErr.Details["available"])
	assert.Equal(t, types.NewQuantityFromInt(3), ledger.balances[key(warehouseID, itemID)])
}

func TestPost_RejectsIllegalTransition(t *testing.T) {
	warehouseID, itemID := id.New(), id.New()
	eng, txm := newTestEngine(newFakeLedger())

	doc := newShipment(warehouseID, itemID, types.NewQuantityFromInt(1))
	doc.Status = "paid"

	_, err := eng.Post(context.Background(), doc, noopSave)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
	assert.False(t, doc.Posted)
	assert.Equal(t, 0, txm.transactions, "no transaction should start on a failed guard")
}

func TestPost_PolicyRejectsClosedPeriod(t *testing.T) {
	warehouseID, itemID := id.New(), id.New()
	txm := &fakeTxManager{}
	eng := NewEngine(EngineConfig{
		TxManager: txm,
		Stock:     newFakeLedger(),
		Policy:    security.NewStrictPolicy(time.Now().Add(24 * time.Hour)),
	})

	doc := newShipment(warehouseID, itemID, types.NewQuantityFromInt(1))
	_, err := eng.Post(context.Background(), doc, noopSave)
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, apperror.CodePeriodClosed, appErr.Code)
}

func TestUnpost_RestoresBalanceAndStatus(t *testing.T) {
	warehouseID, itemID := id.New(), id.New()
	ledger := newFakeLedger()
	ledger.balances[key(warehouseID, itemID)] = types.NewQuantityFromInt(10)
	eng, _ := newTestEngine(ledger)

	doc := newShipment(warehouseID, itemID, types.NewQuantityFromInt(4))
	_, err := eng.Post(context.Background(), doc, noopSave)
	require.NoError(t, err)

	_, err = eng.Unpost(context.Background(), doc, noopSave)
	require.NoError(t, err)

	assert.False(t, doc.Posted)
	assert.Equal(t, status.Status("draft"), doc.Status)
	assert.Equal(t, types.NewQuantityFromInt(10), ledger.balances[key(warehouseID, itemID)])
}

func TestUnpost_RequiresPostedDocument(t *testing.T) {
	warehouseID, itemID := id.New(), id.New()
	eng, _ := newTestEngine(newFakeLedger())

	doc := newShipment(warehouseID, itemID, types.NewQuantityFromInt(1))
	_, err := eng.Unpost(context.Background(), doc, noopSave)
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, apperror.CodeDocumentNotPosted, appErr.Code)
}

func TestRepost_ReplacesPriorMovements(t *testing.T) {
	warehouseID, itemID := id.New(), id.New()
	ledger := newFakeLedger()
	ledger.balances[key(warehouseID, itemID)] = types.NewQuantityFromInt(10)
	eng, _ := newTestEngine(ledger)

	doc := newShipment(warehouseID, itemID, types.NewQuantityFromInt(4))
	_, err := eng.Post(context.Background(), doc, noopSave)
	require.NoError(t, err)

	// Change the quantity and post again: old movements must be replaced,
	// not stacked.
	doc.qty = types.NewQuantityFromInt(2)
	doc.Status = "sent"
	result, err := eng.Post(context.Background(), doc, noopSave)
	require.NoError(t, err)

	assert.Equal(t, 2, doc.PostedVersion)
	assert.Equal(t, 1, result.Movements)
	assert.Equal(t, types.NewQuantityFromInt(8), ledger.balances[key(warehouseID, itemID)])
}

// --- downstream ---

// commissionedShipment adds a commission source to the shipment.
type commissionedShipment struct {
	*shipment

	accrual entity.CommissionMovement
	fail    bool
}

func (c *commissionedShipment) GenerateCommissionAccruals(ctx context.Context) ([]entity.CommissionMovement, error) {
	if c.fail {
		return nil, errors.New("commission rate lookup failed")
	}
	return []entity.CommissionMovement{c.accrual}, nil
}

type fakeCommissionRecorder struct {
	recorded []entity.CommissionMovement
	reversed []id.ID
	err      error
}

func (f *fakeCommissionRecorder) RecordAccruals(ctx context.Context, accruals []entity.CommissionMovement) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, accruals...)
	return nil
}

func (f *fakeCommissionRecorder) ReverseAccruals(ctx context.Context, recorderID id.ID) error {
	f.reversed = append(f.reversed, recorderID)
	kept := f.recorded[:0]
	for _, a := range f.recorded {
		if a.RecorderID != recorderID {
			kept = append(kept, a)
		}
	}
	f.recorded = kept
	return nil
}

func TestPost_DownstreamFailureDoesNotRollBackPrimary(t *testing.T) {
	warehouseID, itemID := id.New(), id.New()
	ledger := newFakeLedger()
	ledger.balances[key(warehouseID, itemID)] = types.NewQuantityFromInt(10)
	eng, _ := newTestEngine(ledger)

	recorder := &fakeCommissionRecorder{err: errors.New("commission register unavailable")}
	eng.RegisterDownstream(NewCommissionPoster(recorder))

	doc := &commissionedShipment{
		shipment: newShipment(warehouseID, itemID, types.NewQuantityFromInt(4)),
	}
	doc.accrual = entity.NewCommissionMovement(
		doc.ID, "Shipment", 1, doc.Date, id.New(),
		types.NewMoney(200), types.NewMoney(5))

	result, err := eng.Post(context.Background(), doc, noopSave)
	require.NoError(t, err, "primary posting must succeed")

	// Stock committed, invoice posted, downstream failure reported.
	assert.True(t, doc.Posted)
	assert.Equal(t, types.NewQuantityFromInt(6), ledger.balances[key(warehouseID, itemID)])
	require.Len(t, result.Downstream, 1)
	assert.Equal(t, "commission", result.Downstream[0].Name)
	assert.False(t, result.Downstream[0].Success)
	assert.Contains(t, result.Downstream[0].Error, "commission register unavailable")
}

func TestPost_DownstreamSuccessRecorded(t *testing.T) {
	warehouseID, itemID := id.New(), id.New()
	ledger := newFakeLedger()
	ledger.balances[key(warehouseID, itemID)] = types.NewQuantityFromInt(10)
	eng, _ := newTestEngine(ledger)

	recorder := &fakeCommissionRecorder{}
	eng.RegisterDownstream(NewCommissionPoster(recorder))

	doc := &commissionedShipment{
		shipment: newShipment(warehouseID, itemID, types.NewQuantityFromInt(4)),
	}
	doc.accrual = entity.NewCommissionMovement(
		doc.ID, "Shipment", 1, doc.Date, id.New(),
		types.NewMoney(200), types.NewMoney(5))

	result, err := eng.Post(context.Background(), doc, noopSave)
	require.NoError(t, err)

	require.Len(t, result.Downstream, 1)
	assert.True(t, result.Downstream[0].Success)
	require.Len(t, recorder.recorded, 1)
	assert.True(t, recorder.recorded[0].Amount.Equal(types.NewMoney(10)))

	// Posters without a matching capability are skipped entirely.
	plain := newShipment(warehouseID, itemID, types.NewQuantityFromInt(1))
	result, err = eng.Post(context.Background(), plain, noopSave)
	require.NoError(t, err)
	assert.Empty(t, result.Downstream)
}

func TestRepost_ReplacesDownstreamAccruals(t *testing.T) {
	warehouseID, itemID := id.New(), id.New()
	ledger := newFakeLedger()
	ledger.balances[key(warehouseID, itemID)] = types.NewQuantityFromInt(10)
	eng, _ := newTestEngine(ledger)

	recorder := &fakeCommissionRecorder{}
	eng.RegisterDownstream(NewCommissionPoster(recorder))

	doc := &commissionedShipment{
		shipment: newShipment(warehouseID, itemID, types.NewQuantityFromInt(4)),
	}
	doc.accrual = entity.NewCommissionMovement(
		doc.ID, "Shipment", 1, doc.Date, id.New(),
		types.NewMoney(200), types.NewMoney(5))

	_, err := eng.Post(context.Background(), doc, noopSave)
	require.NoError(t, err)
	require.Len(t, recorder.recorded, 1)

	// Re-post with a changed quantity: the recorder's prior accruals must be
	// replaced, not stacked on top of.
	doc.qty = types.NewQuantityFromInt(2)
	doc.accrual = entity.NewCommissionMovement(
		doc.ID, "Shipment", 2, doc.Date, id.New(),
		types.NewMoney(100), types.NewMoney(5))

	result, err := eng.Post(context.Background(), doc, noopSave)
	require.NoError(t, err)

	require.Len(t, recorder.recorded, 1)
	assert.True(t, recorder.recorded[0].Amount.Equal(types.NewMoney(5)))
	require.Len(t, result.Downstream, 1)
	assert.True(t, result.Downstream[0].Success)

	// First posting must not have reversed anything.
	require.Len(t, recorder.reversed, 1)
	assert.Equal(t, doc.ID, recorder.reversed[0])
}

func TestUnpost_ReversesDownstream(t *testing.T) {
	warehouseID, itemID := id.New(), id.New()
	ledger := newFakeLedger()
	ledger.balances[key(warehouseID, itemID)] = types.NewQuantityFromInt(10)
	eng, _ := newTestEngine(ledger)

	recorder := &fakeCommissionRecorder{}
	eng.RegisterDownstream(NewCommissionPoster(recorder))

	doc := &commissionedShipment{
		shipment: newShipment(warehouseID, itemID, types.NewQuantityFromInt(4)),
	}
	doc.accrual = entity.NewCommissionMovement(
		doc.ID, "Shipment", 1, doc.Date, id.New(),
		types.NewMoney(200), types.NewMoney(5))

	_, err := eng.Post(context.Background(), doc, noopSave)
	require.NoError(t, err)

	_, err = eng.Unpost(context.Background(), doc, noopSave)
	require.NoError(t, err)

	require.Len(t, recorder.reversed, 1)
	assert.Equal(t, doc.ID, recorder.reversed[0])
}
