// Package stock_adjustment provides the StockAdjustment document for manual
// in/out corrections of warehouse balances: stocktake surpluses, write-offs,
// damage, opening balances.
package stock_adjustment

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
	StatusDraft  status.Status = "draft"
	StatusPosted status.Status = "posted"
)

var machine = status.NewMachine("stock_adjustment", StatusDraft, map[status.Status][]status.Status{
	StatusDraft:  {StatusPosted},
	StatusPosted: {StatusDraft},
})

// Direction of an adjustment line.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// StockAdjustment represents a manual stock correction.
type StockAdjustment struct {
	entity.Document

	// WarehouseID the adjustment applies to
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Reason for the adjustment (stocktake, damage, opening balance)
	Reason string `db:"reason" json:"reason"`

	// Totals (calculated from lines)
	TotalInQuantity  types.Quantity `db:"total_in_quantity" json:"totalInQuantity"`
	TotalOutQuantity types.Quantity `db:"total_out_quantity" json:"totalOutQuantity"`

	// Table part: adjusted goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents an adjustment line. Each line carries its own direction, so
// one document can both add surplus and write off shortage.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID    id.ID     `db:"item_id" json:"itemId"`
	Direction Direction `db:"direction" json:"direction"`

	// EnteredQty is what the user typed, in packs of PackagingID
	EnteredQty  types.Quantity `db:"entered_qty" json:"enteredQty"`
	PackagingID *id.ID         `db:"packaging_id" json:"packagingId,omitempty"`

	// ConversionFactor and Quantity are filled by normalization
	ConversionFactor types.Quantity `db:"conversion_factor" json:"conversionFactor"`
	Quantity         types.Quantity `db:"quantity" json:"quantity"`

	// CostRate is the valuation cost per base unit, taken from the item
	// card during enrichment
	CostRate types.Money `db:"cost_rate" json:"costRate"`
}

// NewStockAdjustment creates a new adjustment in draft.
func NewStockAdjustment(warehouseID id.ID, reason string) *StockAdjustment {
	return &StockAdjustment{
		Document:    entity.NewDocument(machine.Initial()),
		WarehouseID: warehouseID,
		Reason:      reason,
		Lines:       make([]Line, 0),
	}
}

// AddLine adds an adjustment line.
func (sa *StockAdjustment) AddLine(itemID id.ID, direction Direction, enteredQty types.Quantity, packagingID *id.ID) {
	sa.Lines = append(sa.Lines, Line{
		LineID:      id.New(),
		LineNo:      len(sa.Lines) + 1,
		ItemID:      itemID,
		Direction:   direction,
		EnteredQty:  enteredQty,
		PackagingID: packagingID,
	})
}

// RecalculateTotals updates document totals from normalized lines.
func (sa *StockAdjustment) RecalculateTotals() {
	sa.TotalInQuantity = 0
	sa.TotalOutQuantity = 0

	for i := range sa.Lines {
		line := &sa.Lines[i]
		switch line.Direction {
		case DirectionIn:
			sa.TotalInQuantity = sa.TotalInQuantity.Add(line.Quantity)
		case DirectionOut:
			sa.TotalOutQuantity = sa.TotalOutQuantity.Add(line.Quantity)
		}
	}
}

// Validate implements entity.Validatable.
func (sa *StockAdjustment) Validate(ctx context.Context) error {
	if err := sa.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(sa.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}
	if len(sa.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i := range sa.Lines {
		line := &sa.Lines[i]
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Direction != DirectionIn && line.Direction != DirectionOut {
			return apperror.NewValidation("direction must be in or out").
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

func (sa *StockAdjustment) GetDocumentType() string { return "StockAdjustment" }

func (sa *StockAdjustment) Workflow() *status.Machine { return machine }

func (sa *StockAdjustment) PostTarget() status.Status { return StatusPosted }

func (sa *StockAdjustment) UnpostTarget() status.Status { return StatusDraft }

// GenerateMovements maps each line's direction onto a receipt or expense
// movement in the adjustment warehouse.
func (sa *StockAdjustment) GenerateMovements(ctx context.Context) (*posting.MovementSet, error) {
	set := posting.NewMovementSet()
	newVersion := sa.PostedVersion + 1

	for i := range sa.Lines {
		line := &sa.Lines[i]
		if line.Quantity.IsZero() {
			return nil, apperror.NewValidation("line is not normalized").
				WithDetail("lineNo", line.LineNo)
		}

		recordType := entity.RecordTypeReceipt
		if line.Direction == DirectionOut {
			recordType = entity.RecordTypeExpense
		}

		set.AddStock(entity.NewStockMovement(
			sa.ID,
			sa.GetDocumentType(),
			newVersion,
			sa.Date,
			recordType,
			sa.WarehouseID,
			line.ItemID,
			line.Quantity,
			line.CostRate,
		))
	}

	return set, nil
}

var _ posting.Postable = (*StockAdjustment)(nil)
