// Package delivery_note provides the DeliveryNote document: goods in transit
// toward one of our warehouses. Receiving posts the stock in at the receiving
// warehouse.
package delivery_note

import (
	"context"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/status"
	"tradecore/internal/core/types"
	"tradecore/internal/domain/posting"
)

// Workflow states.
const (
	StatusDraft     status.Status = "draft"
	StatusInTransit status.Status = "in_transit"
	StatusReceived  status.Status = "received"
)

var machine = status.NewMachine("delivery_note", StatusDraft, map[status.Status][]status.Status{
	StatusDraft:     {StatusInTransit},
	StatusInTransit: {StatusDraft, StatusReceived},
	StatusReceived:  {StatusInTransit},
})

// DeliveryNote represents an inbound delivery.
type DeliveryNote struct {
	entity.Document

	// SupplierID ships the goods
	SupplierID id.ID `db:"supplier_id" json:"supplierId"`

	// WarehouseID receives the goods
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Carrier details
	CarrierName    string `db:"carrier_name" json:"carrierName"`
	TrackingNumber string `db:"tracking_number" json:"trackingNumber"`

	// Totals (calculated from lines)
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`
	TotalCost     types.Money    `db:"total_cost" json:"totalCost"`

	// Table part: delivered goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents a delivery note line.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID id.ID `db:"item_id" json:"itemId"`

	// EnteredQty is what the user typed, in packs of PackagingID
	EnteredQty  types.Quantity `db:"entered_qty" json:"enteredQty"`
	PackagingID *id.ID         `db:"packaging_id" json:"packagingId,omitempty"`

	// ConversionFactor and Quantity are filled by normalization
	ConversionFactor types.Quantity `db:"conversion_factor" json:"conversionFactor"`
	Quantity         types.Quantity `db:"quantity" json:"quantity"`

	// CostRate is the valuation cost per base unit, taken from the item
	// card during enrichment
	CostRate types.Money `db:"cost_rate" json:"costRate"`

	// Amount = Quantity × CostRate
	Amount types.Money `db:"amount" json:"amount"`
}

// NewDeliveryNote creates a new delivery note in draft.
func NewDeliveryNote(supplierID, warehouseID id.ID) *DeliveryNote {
	return &DeliveryNote{
		Document:    entity.NewDocument(machine.Initial()),
		SupplierID:  supplierID,
		WarehouseID: warehouseID,
		TotalCost:   types.Zero(),
		Lines:       make([]Line, 0),
	}
}

// AddLine adds a line with user-entered quantity and packaging.
func (dn *DeliveryNote) AddLine(itemID id.ID, enteredQty types.Quantity, packagingID *id.ID) {
	dn.Lines = append(dn.Lines, Line{
		LineID:      id.New(),
		LineNo:      len(dn.Lines) + 1,
		ItemID:      itemID,
		EnteredQty:  enteredQty,
		PackagingID: packagingID,
	})
}

// RecalculateTotals updates document totals from normalized lines.
func (dn *DeliveryNote) RecalculateTotals() {
	dn.TotalQuantity = 0
	dn.TotalCost = types.Zero()

	for i := range dn.Lines {
		line := &dn.Lines[i]
		line.Amount = line.Quantity.Decimal().Mul(line.CostRate)
		dn.TotalQuantity = dn.TotalQuantity.Add(line.Quantity)
		dn.TotalCost = dn.TotalCost.Add(line.Amount)
	}
}

// Validate implements entity.Validatable.
func (dn *DeliveryNote) Validate(ctx context.Context) error {
	if err := dn.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(dn.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}
	if id.IsNil(dn.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}
	if len(dn.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i := range dn.Lines {
		line := &dn.Lines[i]
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

// --- posting.Postable implementation ---

func (dn *DeliveryNote) GetDocumentType() string { return "DeliveryNote" }

func (dn *DeliveryNote) Workflow() *status.Machine { return machine }

func (dn *DeliveryNote) PostTarget() status.Status { return StatusReceived }

func (dn *DeliveryNote) UnpostTarget() status.Status { return StatusInTransit }

// GenerateMovements receipts every line's normalized quantity into the
// receiving warehouse.
func (dn *DeliveryNote) GenerateMovements(ctx context.Context) (*posting.MovementSet, error) {
	set := posting.NewMovementSet()
	newVersion := dn.PostedVersion + 1

	for i := range dn.Lines {
		line := &dn.Lines[i]
		if line.Quantity.IsZero() {
			return nil, apperror.NewValidation("line is not normalized").
				WithDetail("lineNo", line.LineNo)
		}

		set.AddStock(entity.NewStockMovement(
			dn.ID,
			dn.GetDocumentType(),
			newVersion,
			dn.Date,
			entity.RecordTypeReceipt,
			dn.WarehouseID,
			line.ItemID,
			line.Quantity,
			line.CostRate,
		))
	}

	return set, nil
}

var _ posting.Postable = (*DeliveryNote)(nil)
