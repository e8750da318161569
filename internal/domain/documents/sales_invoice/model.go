// Package sales_invoice provides the SalesInvoice document.
// Posting an invoice expenses stock from the warehouse and feeds the AR
// journal, COGS journal, and commission registers downstream.
package sales_invoice

import (
	"context"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/status"
	"tradecore/internal/core/types"
	"tradecore/internal/domain/posting"
	"tradecore/internal/domain/registers/journal"
)

// Workflow states.
const (
	StatusDraft status.Status = "draft"
	StatusSent  status.Status = "sent"
	StatusPaid  status.Status = "paid"
)

var machine = status.NewMachine("sales_invoice", StatusDraft, map[status.Status][]status.Status{
	StatusDraft: {StatusSent},
	StatusSent:  {StatusDraft, StatusPaid},
})

// SalesInvoice represents a customer invoice.
type SalesInvoice struct {
	entity.Document

	// Customer reference
	CustomerID id.ID `db:"customer_id" json:"customerId"`

	// Warehouse the goods ship from
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// SalespersonID earns commission on this invoice (optional)
	SalespersonID *id.ID `db:"salesperson_id" json:"salespersonId,omitempty"`

	// CommissionRate is the salesperson's rate snapshotted at posting time,
	// so later rate changes don't alter past accruals
	CommissionRate types.Money `db:"commission_rate" json:"commissionRate"`

	// Totals (calculated from lines)
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`
	TotalAmount   types.Money    `db:"total_amount" json:"totalAmount"`
	TotalCost     types.Money    `db:"total_cost" json:"totalCost"`

	// Table part: invoiced goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents an invoice line. The user enters a quantity in an arbitrary
// packaging; normalization fills the conversion fields so the line records
// both the input and its base-unit equivalent.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID id.ID `db:"item_id" json:"itemId"`

	// EnteredQty is what the user typed, in packs of PackagingID
	EnteredQty  types.Quantity `db:"entered_qty" json:"enteredQty"`
	PackagingID *id.ID         `db:"packaging_id" json:"packagingId,omitempty"`

	// ConversionFactor and Quantity are filled by normalization:
	// Quantity = EnteredQty × ConversionFactor, in base units
	ConversionFactor types.Quantity `db:"conversion_factor" json:"conversionFactor"`
	Quantity         types.Quantity `db:"quantity" json:"quantity"`

	// UnitPrice is the sale price per base unit
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// CostRate is the valuation cost per base unit at posting time
	CostRate types.Money `db:"cost_rate" json:"costRate"`

	// Amount = Quantity × UnitPrice
	Amount types.Money `db:"amount" json:"amount"`
}

// NewSalesInvoice creates a new invoice in draft.
func NewSalesInvoice(customerID, warehouseID id.ID) *SalesInvoice {
	return &SalesInvoice{
		Document:       entity.NewDocument(machine.Initial()),
		CustomerID:     customerID,
		WarehouseID:    warehouseID,
		CommissionRate: types.Zero(),
		TotalAmount:    types.Zero(),
		TotalCost:      types.Zero(),
		Lines:          make([]Line, 0),
	}
}

// AddLine adds a line with user-entered quantity and packaging.
// Normalization and totals happen when the document is saved or posted.
func (inv *SalesInvoice) AddLine(itemID id.ID, enteredQty types.Quantity, packagingID *id.ID, unitPrice types.Money) {
	inv.Lines = append(inv.Lines, Line{
		LineID:      id.New(),
		LineNo:      len(inv.Lines) + 1,
		ItemID:      itemID,
		EnteredQty:  enteredQty,
		PackagingID: packagingID,
		UnitPrice:   unitPrice,
	})
}

// RecalculateTotals updates document totals from normalized lines.
func (inv *SalesInvoice) RecalculateTotals() {
	inv.TotalQuantity = 0
	inv.TotalAmount = types.Zero()
	inv.TotalCost = types.Zero()

	for i := range inv.Lines {
		line := &inv.Lines[i]
		line.Amount = line.Quantity.Decimal().Mul(line.UnitPrice)
		inv.TotalQuantity = inv.TotalQuantity.Add(line.Quantity)
		inv.TotalAmount = inv.TotalAmount.Add(line.Amount)
		inv.TotalCost = inv.TotalCost.Add(line.Quantity.Decimal().Mul(line.CostRate))
	}
}

// Validate implements entity.Validatable.
func (inv *SalesInvoice) Validate(ctx context.Context) error {
	if err := inv.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(inv.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}
	if id.IsNil(inv.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}
	if len(inv.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i := range inv.Lines {
		line := &inv.Lines[i]
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
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// --- posting.Postable implementation ---
// Accessor and flag methods are inherited from entity.Document.

func (inv *SalesInvoice) GetDocumentType() string { return "SalesInvoice" }

func (inv *SalesInvoice) Workflow() *status.Machine { return machine }

func (inv *SalesInvoice) PostTarget() status.Status { return StatusSent }

func (inv *SalesInvoice) UnpostTarget() status.Status { return StatusDraft }

// GenerateMovements expenses every line's normalized quantity from the
// warehouse. Lines must be normalized before posting.
func (inv *SalesInvoice) GenerateMovements(ctx context.Context) (*posting.MovementSet, error) {
	set := posting.NewMovementSet()
	newVersion := inv.PostedVersion + 1

	for i := range inv.Lines {
		line := &inv.Lines[i]
		if line.Quantity.IsZero() {
			return nil, apperror.NewValidation("line is not normalized").
				WithDetail("lineNo", line.LineNo)
		}

		set.AddStock(entity.NewStockMovement(
			inv.ID,
			inv.GetDocumentType(),
			newVersion,
			inv.Date,
			entity.RecordTypeExpense,
			inv.WarehouseID,
			line.ItemID,
			line.Quantity,
			line.CostRate,
		))
	}

	return set, nil
}

// --- downstream capability implementations ---

// GenerateReceivableEntries debits accounts receivable and credits sales
// revenue for the invoice total.
func (inv *SalesInvoice) GenerateReceivableEntries(ctx context.Context) ([]entity.JournalMovement, error) {
	if !inv.TotalAmount.IsPositive() {
		return nil, nil
	}
	version := inv.PostedVersion
	return []entity.JournalMovement{
		entity.NewJournalMovement(inv.ID, inv.GetDocumentType(), version, inv.Date,
			journal.AccountReceivable, inv.TotalAmount, types.Zero()),
		entity.NewJournalMovement(inv.ID, inv.GetDocumentType(), version, inv.Date,
			journal.AccountSales, types.Zero(), inv.TotalAmount),
	}, nil
}

// GenerateCOGSEntries debits cost of goods sold and credits inventory for the
// valuation amount relieved by the stock movements.
func (inv *SalesInvoice) GenerateCOGSEntries(ctx context.Context) ([]entity.JournalMovement, error) {
	if !inv.TotalCost.IsPositive() {
		return nil, nil
	}
	version := inv.PostedVersion
	return []entity.JournalMovement{
		entity.NewJournalMovement(inv.ID, inv.GetDocumentType(), version, inv.Date,
			journal.AccountCOGS, inv.TotalCost, types.Zero()),
		entity.NewJournalMovement(inv.ID, inv.GetDocumentType(), version, inv.Date,
			journal.AccountInventory, types.Zero(), inv.TotalCost),
	}, nil
}

// GenerateCommissionAccruals accrues commission on the invoice net total at
// the snapshotted salesperson rate.
func (inv *SalesInvoice) GenerateCommissionAccruals(ctx context.Context) ([]entity.CommissionMovement, error) {
	if inv.SalespersonID == nil || !inv.CommissionRate.IsPositive() || !inv.TotalAmount.IsPositive() {
		return nil, nil
	}
	return []entity.CommissionMovement{
		entity.NewCommissionMovement(inv.ID, inv.GetDocumentType(), inv.PostedVersion,
			inv.Date, *inv.SalespersonID, inv.TotalAmount, inv.CommissionRate),
	}, nil
}

// Ensure interface compliance at compile time.
var (
	_ posting.Postable         = (*SalesInvoice)(nil)
	_ posting.ReceivableSource = (*SalesInvoice)(nil)
	_ posting.COGSSource       = (*SalesInvoice)(nil)
	_ posting.CommissionSource = (*SalesInvoice)(nil)
)
