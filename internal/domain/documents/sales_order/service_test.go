package sales_order

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
	"tradecore/internal/domain"
	"tradecore/internal/domain/catalogs/item"
	"tradecore/internal/domain/documents/sales_invoice"
	"tradecore/internal/domain/uom"
	"tradecore/pkg/numerator"
)

// fakeTxManager tracks transaction nesting the way the real manager does:
// the outermost call owns the transaction, nested calls join it.
type fakeTxManager struct {
	depth        int
	transactions int // outermost transactions started
	failed       int // outermost transactions that ended in error
}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.depth == 0 {
		f.transactions++
	}
	f.depth++
	err := fn(ctx)
	f.depth--
	if f.depth == 0 && err != nil {
		f.failed++
	}
	return err
}

type fakeOrderRepo struct {
	txm *fakeTxManager

	orders map[id.ID]*SalesOrder
	lines  map[id.ID][]Line

	updateErr   error
	updateDepth int // tx depth at the last Update call
}

func newFakeOrderRepo(txm *fakeTxManager) *fakeOrderRepo {
	return &fakeOrderRepo{
		txm:    txm,
		orders: make(map[id.ID]*SalesOrder),
		lines:  make(map[id.ID][]Line),
	}
}

func (f *fakeOrderRepo) put(doc *SalesOrder) {
	f.orders[doc.ID] = doc
	f.lines[doc.ID] = doc.Lines
}

func (f *fakeOrderRepo) Create(ctx context.Context, doc *SalesOrder) error {
	f.orders[doc.ID] = doc
	return nil
}

// GetByID returns a copy so callers mutating the result do not leak changes
// into the stored state, matching a repo that rehydrates rows per query.
func (f *fakeOrderRepo) GetByID(ctx context.Context, docID id.ID) (*SalesOrder, error) {
	doc, ok := f.orders[docID]
	if !ok {
		return nil, apperror.NewNotFound("sales_order", docID.String())
	}
	cp := *doc
	return &cp, nil
}

func (f *fakeOrderRepo) GetByNumber(ctx context.Context, number string) (*SalesOrder, error) {
	return nil, apperror.NewNotFound("sales_order", number)
}

func (f *fakeOrderRepo) Update(ctx context.Context, doc *SalesOrder) error {
	f.updateDepth = f.txm.depth
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *doc
	f.orders[doc.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(f.orders, docID)
	return nil
}

func (f *fakeOrderRepo) GetLines(ctx context.Context, docID id.ID) ([]Line, error) {
	return f.lines[docID], nil
}

func (f *fakeOrderRepo) SaveLines(ctx context.Context, docID id.ID, lines []Line) error {
	f.lines[docID] = lines
	return nil
}

func (f *fakeOrderRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*SalesOrder], error) {
	return domain.ListResult[*SalesOrder]{}, nil
}

func (f *fakeOrderRepo) GetForUpdate(ctx context.Context, docID id.ID) (*SalesOrder, error) {
	return f.GetByID(ctx, docID)
}

type fakeInvoiceRepo struct {
	txm *fakeTxManager

	invoices    []*sales_invoice.SalesInvoice
	createDepth int // tx depth at the last Create call
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, doc *sales_invoice.SalesInvoice) error {
	f.createDepth = f.txm.depth
	f.invoices = append(f.invoices, doc)
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, docID id.ID) (*sales_invoice.SalesInvoice, error) {
	for _, inv := range f.invoices {
		if inv.ID == docID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("sales_invoice", docID.String())
}

func (f *fakeInvoiceRepo) GetByNumber(ctx context.Context, number string) (*sales_invoice.SalesInvoice, error) {
	return nil, apperror.NewNotFound("sales_invoice", number)
}

func (f *fakeInvoiceRepo) Update(ctx context.Context, doc *sales_invoice.SalesInvoice) error {
	return nil
}

func (f *fakeInvoiceRepo) Delete(ctx context.Context, docID id.ID) error { return nil }

func (f *fakeInvoiceRepo) GetLines(ctx context.Context, docID id.ID) ([]sales_invoice.Line, error) {
	return nil, nil
}

func (f *fakeInvoiceRepo) SaveLines(ctx context.Context, docID id.ID, lines []sales_invoice.Line) error {
	return nil
}

func (f *fakeInvoiceRepo) List(ctx context.Context, filter sales_invoice.ListFilter) (domain.ListResult[*sales_invoice.SalesInvoice], error) {
	return domain.ListResult[*sales_invoice.SalesInvoice]{}, nil
}

func (f *fakeInvoiceRepo) GetForUpdate(ctx context.Context, docID id.ID) (*sales_invoice.SalesInvoice, error) {
	return f.GetByID(ctx, docID)
}

type fakeItemSource struct {
	items map[id.ID]*item.Item
}

func (f *fakeItemSource) GetWithPackagings(ctx context.Context, itemID id.ID) (*item.Item, error) {
	it, ok := f.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	return it, nil
}

// seqRow and seqQuerier emulate the sys_sequences upsert for the numerator.
type seqRow struct{ val int64 }

func (r *seqRow) Scan(dest ...any) error {
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = r.val
		}
	}
	return nil
}

type seqQuerier struct{ current int64 }

func (q *seqQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	var increment int64 = 1
	if len(args) == 2 {
		if v, ok := args[1].(int64); ok {
			increment = v
		}
	}
	q.current += increment
	return &seqRow{val: q.current}
}

type convertFixture struct {
	svc     *Service
	orders  *fakeOrderRepo
	invRepo *fakeInvoiceRepo
	txm     *fakeTxManager
	order   *SalesOrder
}

// newConvertFixture wires order and invoice services over in-memory fakes and
// seeds one confirmed order with a single base-unit line.
func newConvertFixture(t *testing.T) *convertFixture {
	t.Helper()

	txm := &fakeTxManager{}
	orders := newFakeOrderRepo(txm)
	invRepo := &fakeInvoiceRepo{txm: txm}

	it := item.NewItem("ITM-001", "Widget", item.TypeGoods)
	it.SalesPrice = types.NewMoney(10)
	it.CostRate = types.NewMoney(6)
	items := &fakeItemSource{items: map[id.ID]*item.Item{it.ID: it}}

	normalizer := uom.NewNormalizer(items)
	num := numerator.New(&seqQuerier{})

	invSvc := sales_invoice.NewService(invRepo, nil, normalizer, items, nil, num, txm)
	svc := NewService(orders, invSvc, normalizer, num, txm)

	so := NewSalesOrder(id.New(), id.New())
	so.Number = "SO-2026-00001"
	so.AddLine(it.ID, types.NewQuantityFromInt(5), nil, types.NewMoney(10))
	require.NoError(t, so.ChangeStatus(machine, StatusConfirmed))
	orders.put(so)

	return &convertFixture{svc: svc, orders: orders, invRepo: invRepo, txm: txm, order: so}
}

func TestConvertToInvoice_LinksOrderInOneTransaction(t *testing.T) {
	f := newConvertFixture(t)

	inv, result, err := f.svc.ConvertToInvoice(context.Background(), f.order.ID, false)
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Nil(t, result)

	stored := f.orders.orders[f.order.ID]
	require.NotNil(t, stored.InvoiceID)
	assert.Equal(t, inv.ID, *stored.InvoiceID)
	assert.Equal(t, StatusInvoiced, stored.Status)

	// Invoice creation and the order update share one transaction.
	assert.Equal(t, 1, f.txm.transactions)
	assert.Greater(t, f.invRepo.createDepth, 0, "invoice created inside the conversion transaction")
	assert.Greater(t, f.orders.updateDepth, 0, "order updated inside the conversion transaction")
}

func TestConvertToInvoice_OrderUpdateFailureAbortsInvoice(t *testing.T) {
	f := newConvertFixture(t)
	f.orders.updateErr = errors.New("connection reset")

	_, _, err := f.svc.ConvertToInvoice(context.Background(), f.order.ID, false)
	require.Error(t, err)

	// The invoice was created inside the transaction that failed, so the
	// real manager rolls it back and the order keeps no invoice link.
	assert.Equal(t, 1, f.txm.failed)
	assert.Greater(t, f.invRepo.createDepth, 0)
	assert.Nil(t, f.orders.orders[f.order.ID].InvoiceID)
	assert.Equal(t, StatusConfirmed, f.orders.orders[f.order.ID].Status)
}

func TestConvertToInvoice_RejectsAlreadyConverted(t *testing.T) {
	f := newConvertFixture(t)

	existing := id.New()
	f.orders.orders[f.order.ID].InvoiceID = id.Ptr(existing)

	_, _, err := f.svc.ConvertToInvoice(context.Background(), f.order.ID, false)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "ORDER_ALREADY_INVOICED", appErr.Code)
	assert.Equal(t, existing.String(), appErr.Details["invoice_id"])

	// No second invoice, no transaction started.
	assert.Empty(t, f.invRepo.invoices)
	assert.Equal(t, 0, f.txm.transactions)
}
