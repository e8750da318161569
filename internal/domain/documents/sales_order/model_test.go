package sales_order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/id"
)

func TestSalesOrder_CanConvert(t *testing.T) {
	so := NewSalesOrder(id.New(), id.New())

	err := so.CanConvert()
	require.Error(t, err, "draft order cannot be converted")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)

	require.NoError(t, so.ChangeStatus(machine, StatusConfirmed))
	assert.NoError(t, so.CanConvert())

	require.NoError(t, so.ChangeStatus(machine, StatusProcessing))
	assert.NoError(t, so.CanConvert())

	require.NoError(t, so.ChangeStatus(machine, StatusInvoiced))
	assert.Error(t, so.CanConvert(), "already invoiced")
}

func TestSalesOrder_CanConvert_RejectsLinkedInvoice(t *testing.T) {
	so := NewSalesOrder(id.New(), id.New())
	require.NoError(t, so.ChangeStatus(machine, StatusConfirmed))

	invoiceID := id.New()
	so.InvoiceID = id.Ptr(invoiceID)

	err := so.CanConvert()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "ORDER_ALREADY_INVOICED", appErr.Code)
	assert.Equal(t, invoiceID.String(), appErr.Details["invoice_id"])
}

func TestSalesOrder_Workflow(t *testing.T) {
	so := NewSalesOrder(id.New(), id.New())

	assert.Equal(t, StatusDraft, so.GetStatus())

	err := so.ChangeStatus(machine, StatusProcessing)
	require.Error(t, err, "must be confirmed first")

	require.NoError(t, so.ChangeStatus(machine, StatusConfirmed))
	require.NoError(t, so.ChangeStatus(machine, StatusDraft))
}
