// Package sales_order provides the SalesOrder document.
// Orders do not move stock; stock is expensed when the order is converted
// into a sales invoice and the invoice is posted.
package sales_order

import (
	"context"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/status"
	"tradecore/internal/core/types"
)

// Workflow states.
const (
	StatusDraft      status.Status = "draft"
	StatusConfirmed  status.Status = "confirmed"
	StatusProcessing status.Status = "processing"
	StatusInvoiced   status.Status = "invoiced"
)

var machine = status.NewMachine("sales_order", StatusDraft, map[status.Status][]status.Status{
	StatusDraft:      {StatusConfirmed},
	StatusConfirmed:  {StatusDraft, StatusProcessing, StatusInvoiced},
	StatusProcessing: {StatusInvoiced},
})

// SalesOrder represents a customer order awaiting fulfillment.
type SalesOrder struct {
	entity.Document

	// Customer reference
	CustomerID id.ID `db:"customer_id" json:"customerId"`

	// Warehouse the order will ship from
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// SalespersonID carried over to the invoice on conversion (optional)
	SalespersonID *id.ID `db:"salesperson_id" json:"salespersonId,omitempty"`

	// InvoiceID references the invoice created by conversion
	InvoiceID *id.ID `db:"invoice_id" json:"invoiceId,omitempty"`

	// Totals (calculated from lines)
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`
	TotalAmount   types.Money    `db:"total_amount" json:"totalAmount"`

	// Table part: ordered goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents an order line with the user-entered quantity and its
// normalized base-unit equivalent.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID id.ID `db:"item_id" json:"itemId"`

	EnteredQty  types.Quantity `db:"entered_qty" json:"enteredQty"`
	PackagingID *id.ID         `db:"packaging_id" json:"packagingId,omitempty"`

	ConversionFactor types.Quantity `db:"conversion_factor" json:"conversionFactor"`
	Quantity         types.Quantity `db:"quantity" json:"quantity"`

	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	Amount    types.Money `db:"amount" json:"amount"`
}

// NewSalesOrder creates a new order in draft.
func NewSalesOrder(customerID, warehouseID id.ID) *SalesOrder {
	return &SalesOrder{
		Document:    entity.NewDocument(machine.Initial()),
		CustomerID:  customerID,
		WarehouseID: warehouseID,
		TotalAmount: types.Zero(),
		Lines:       make([]Line, 0),
	}
}

// AddLine adds a line with user-entered quantity and packaging.
func (o *SalesOrder) AddLine(itemID id.ID, enteredQty types.Quantity, packagingID *id.ID, unitPrice types.Money) {
	o.Lines = append(o.Lines, Line{
		LineID:      id.New(),
		LineNo:      len(o.Lines) + 1,
		ItemID:      itemID,
		EnteredQty:  enteredQty,
		PackagingID: packagingID,
		UnitPrice:   unitPrice,
	})
}

// RecalculateTotals updates document totals from normalized lines.
func (o *SalesOrder) RecalculateTotals() {
	o.TotalQuantity = 0
	o.TotalAmount = types.Zero()

	for i := range o.Lines {
		line := &o.Lines[i]
		line.Amount = line.Quantity.Decimal().Mul(line.UnitPrice)
		o.TotalQuantity = o.TotalQuantity.Add(line.Quantity)
		o.TotalAmount = o.TotalAmount.Add(line.Amount)
	}
}

// Validate implements entity.Validatable.
func (o *SalesOrder) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(o.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}
	if id.IsNil(o.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}
	if len(o.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i := range o.Lines {
		line := &o.Lines[i]
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.EnteredQty.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// CanConvert reports whether the order is in a state that allows conversion
// into an invoice. An order already linked to an invoice is never convertible
// again, regardless of status.
func (o *SalesOrder) CanConvert() error {
	if o.InvoiceID != nil {
		return apperror.NewBusinessRule("ORDER_ALREADY_INVOICED", "order is already converted to an invoice").
			WithDetail("document_id", o.ID.String()).
			WithDetail("invoice_id", o.InvoiceID.String())
	}
	if o.Status != StatusConfirmed && o.Status != StatusProcessing {
		return apperror.NewInvalidTransition(
			"sales_order", string(o.Status), string(StatusInvoiced),
			[]string{string(StatusConfirmed), string(StatusProcessing)},
		)
	}
	return nil
}

// Workflow returns the order's status machine.
func Workflow() *status.Machine { return machine }
