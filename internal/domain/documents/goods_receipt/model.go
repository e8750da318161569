// Package goods_receipt provides the GoodsReceipt (GRN) document.
// Approving a receipt posts incoming stock into the warehouse at the
// supplier's unit cost.
package goods_receipt

import (
	"context"
	"time"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/status"
	"tradecore/internal/core/types"
	"tradecore/internal/domain/posting"
)

// Workflow states.
const (
	StatusDraft           status.Status = "draft"
	StatusPendingApproval status.Status = "pending_approval"
	StatusApproved        status.Status = "approved"
)

var machine = status.NewMachine("goods_receipt", StatusDraft, map[status.Status][]status.Status{
	StatusDraft:           {StatusPendingApproval},
	StatusPendingApproval: {StatusDraft, StatusApproved},
	StatusApproved:        {StatusPendingApproval},
})

// GoodsReceipt records incoming goods from a supplier.
type GoodsReceipt struct {
	entity.Document

	// Supplier reference
	SupplierID id.ID `db:"supplier_id" json:"supplierId"`

	// Warehouse where goods are received
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Supplier's document reference
	SupplierDocNumber string     `db:"supplier_doc_number" json:"supplierDocNumber,omitempty"`
	SupplierDocDate   *time.Time `db:"supplier_doc_date" json:"supplierDocDate,omitempty"`

	// Totals (calculated from lines)
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`
	TotalAmount   types.Money    `db:"total_amount" json:"totalAmount"`

	// Table part: received goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents a received line. The quantity is entered in an arbitrary
// packaging and normalized to base units; UnitCost is the acquisition cost
// per base unit and becomes the valuation rate of the stock movement.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID id.ID `db:"item_id" json:"itemId"`

	EnteredQty  types.Quantity `db:"entered_qty" json:"enteredQty"`
	PackagingID *id.ID         `db:"packaging_id" json:"packagingId,omitempty"`

	ConversionFactor types.Quantity `db:"conversion_factor" json:"conversionFactor"`
	Quantity         types.Quantity `db:"quantity" json:"quantity"`

	// UnitCost is the acquisition cost per base unit
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	// Amount = Quantity × UnitCost
	Amount types.Money `db:"amount" json:"amount"`
}

// NewGoodsReceipt creates a new receipt in draft.
func NewGoodsReceipt(supplierID, warehouseID id.ID) *GoodsReceipt {
	return &GoodsReceipt{
		Document:    entity.NewDocument(machine.Initial()),
		SupplierID:  supplierID,
		WarehouseID: warehouseID,
		TotalAmount: types.Zero(),
		Lines:       make([]Line, 0),
	}
}

// AddLine adds a line with user-entered quantity and packaging.
func (g *GoodsReceipt) AddLine(itemID id.ID, enteredQty types.Quantity, packagingID *id.ID, unitCost types.Money) {
	g.Lines = append(g.Lines, Line{
		LineID:      id.New(),
		LineNo:      len(g.Lines) + 1,
		ItemID:      itemID,
		EnteredQty:  enteredQty,
		PackagingID: packagingID,
		UnitCost:    unitCost,
	})
}

// RecalculateTotals updates document totals from normalized lines.
func (g *GoodsReceipt) RecalculateTotals() {
	g.TotalQuantity = 0
	g.TotalAmount = types.Zero()

	for i := range g.Lines {
		line := &g.Lines[i]
		line.Amount = line.Quantity.Decimal().Mul(line.UnitCost)
		g.TotalQuantity = g.TotalQuantity.Add(line.Quantity)
		g.TotalAmount = g.TotalAmount.Add(line.Amount)
	}
}

// Validate implements entity.Validatable.
func (g *GoodsReceipt) Validate(ctx context.Context) error {
	if err := g.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(g.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}
	if id.IsNil(g.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}
	if len(g.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i := range g.Lines {
		line := &g.Lines[i]
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
		if line.UnitCost.IsNegative() {
			return apperror.NewValidation("unit cost cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// --- posting.Postable implementation ---

func (g *GoodsReceipt) GetDocumentType() string { return "GoodsReceipt" }

func (g *GoodsReceipt) Workflow() *status.Machine { return machine }

func (g *GoodsReceipt) PostTarget() status.Status { return StatusApproved }

func (g *GoodsReceipt) UnpostTarget() status.Status { return StatusPendingApproval }

// GenerateMovements receives every line's normalized quantity into the
// warehouse at the line's unit cost.
func (g *GoodsReceipt) GenerateMovements(ctx context.Context) (*posting.MovementSet, error) {
	set := posting.NewMovementSet()
	newVersion := g.PostedVersion + 1

	for i := range g.Lines {
		line := &g.Lines[i]
		if line.Quantity.IsZero() {
			return nil, apperror.NewValidation("line is not normalized").
				WithDetail("lineNo", line.LineNo)
		}

		set.AddStock(entity.NewStockMovement(
			g.ID,
			g.GetDocumentType(),
			newVersion,
			g.Date,
			entity.RecordTypeReceipt,
			g.WarehouseID,
			line.ItemID,
			line.Quantity,
			line.UnitCost,
		))
	}

	return set, nil
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*GoodsReceipt)(nil)
