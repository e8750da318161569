package dto

import (
	"time"

	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
	"tradecore/internal/domain/documents/stock_adjustment"
)

// --- Request DTOs ---

// CreateStockAdjustmentRequest represents a request to create a stock adjustment.
type CreateStockAdjustmentRequest struct {
	Number      string                       `json:"number,omitempty"`
	Date        time.Time                    `json:"date" binding:"required"`
	WarehouseID string                       `json:"warehouseId" binding:"required"`
	Reason      string                       `json:"reason" binding:"required"`
	Comment     string                       `json:"comment,omitempty"`
	Lines       []StockAdjustmentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// StockAdjustmentLineRequest represents a line in create/update request.
type StockAdjustmentLineRequest struct {
	ItemID      string                     `json:"itemId" binding:"required"`
	Direction   stock_adjustment.Direction `json:"direction" binding:"required"`
	Quantity    types.Quantity             `json:"quantity" binding:"required"`
	PackagingID *string                    `json:"packagingId,omitempty"`
}

func (l *StockAdjustmentLineRequest) packagingID() *id.ID {
	if l.PackagingID == nil {
		return nil
	}
	parsed, err := id.Parse(*l.PackagingID)
	if err != nil {
		return nil
	}
	return &parsed
}

// ToEntity converts request to domain entity.
func (r *CreateStockAdjustmentRequest) ToEntity() *stock_adjustment.StockAdjustment {
	warehouseID, _ := id.Parse(r.WarehouseID)

	doc := stock_adjustment.NewStockAdjustment(warehouseID, r.Reason)
	doc.Number = r.Number
	doc.Date = r.Date
	doc.Comment = r.Comment

	for _, line := range r.Lines {
		itemID, _ := id.Parse(line.ItemID)
		doc.AddLine(itemID, line.Direction, line.Quantity, line.packagingID())
	}

	return doc
}

// UpdateStockAdjustmentRequest represents a request to update a stock adjustment.
type UpdateStockAdjustmentRequest struct {
	Number      *string                      `json:"number,omitempty"`
	Date        *time.Time                   `json:"date,omitempty"`
	WarehouseID *string                      `json:"warehouseId,omitempty"`
	Reason      *string                      `json:"reason,omitempty"`
	Comment     *string                      `json:"comment,omitempty"`
	Lines       []StockAdjustmentLineRequest `json:"lines,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateStockAdjustmentRequest) ApplyTo(doc *stock_adjustment.StockAdjustment) {
	if r.Number != nil {
		doc.Number = *r.Number
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.WarehouseID != nil {
		warehouseID, _ := id.Parse(*r.WarehouseID)
		doc.WarehouseID = warehouseID
	}
	if r.Reason != nil {
		doc.Reason = *r.Reason
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}

	if r.Lines != nil {
		doc.Lines = make([]stock_adjustment.Line, 0, len(r.Lines))
		for _, line := range r.Lines {
			itemID, _ := id.Parse(line.ItemID)
			doc.AddLine(itemID, line.Direction, line.Quantity, line.packagingID())
		}
	}
}

// --- Response DTOs ---

// StockAdjustmentResponse represents a stock adjustment in API responses.
type StockAdjustmentResponse struct {
	ID               string                        `json:"id"`
	Number           string                        `json:"number"`
	Date             time.Time                     `json:"date"`
	Status           string                        `json:"status"`
	Posted           bool                          `json:"posted"`
	PostedVersion    int                           `json:"postedVersion,omitempty"`
	WarehouseID      string                        `json:"warehouseId"`
	Reason           string                        `json:"reason"`
	TotalInQuantity  types.Quantity                `json:"totalInQuantity"`
	TotalOutQuantity types.Quantity                `json:"totalOutQuantity"`
	Comment          string                        `json:"comment,omitempty"`
	Lines            []StockAdjustmentLineResponse `json:"lines,omitempty"`
	DeletionMark     bool                          `json:"deletionMark,omitempty"`
	Version          int                           `json:"version"`
	CreatedAt        time.Time                     `json:"createdAt"`
	UpdatedAt        time.Time                     `json:"updatedAt"`
}

// StockAdjustmentLineResponse represents a line in API responses.
type StockAdjustmentLineResponse struct {
	LineID           string                     `json:"lineId"`
	LineNo           int                        `json:"lineNo"`
	ItemID           string                     `json:"itemId"`
	Direction        stock_adjustment.Direction `json:"direction"`
	EnteredQty       types.Quantity             `json:"enteredQty"`
	PackagingID      *string                    `json:"packagingId,omitempty"`
	ConversionFactor types.Quantity             `json:"conversionFactor"`
	Quantity         types.Quantity             `json:"quantity"`
	CostRate         types.Money                `json:"costRate"`
}

// FromStockAdjustment converts domain entity to response DTO.
func FromStockAdjustment(doc *stock_adjustment.StockAdjustment) *StockAdjustmentResponse {
	resp := &StockAdjustmentResponse{
		ID:               doc.ID.String(),
		Number:           doc.Number,
		Date:             doc.Date,
		Status:           string(doc.Status),
		Posted:           doc.Posted,
		PostedVersion:    doc.PostedVersion,
		WarehouseID:      doc.WarehouseID.String(),
		Reason:           doc.Reason,
		TotalInQuantity:  doc.TotalInQuantity,
		TotalOutQuantity: doc.TotalOutQuantity,
		Comment:          doc.Comment,
		DeletionMark:     doc.DeletionMark,
		Version:          doc.Version,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}

	resp.Lines = make([]StockAdjustmentLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		lr := StockAdjustmentLineResponse{
			LineID:           line.LineID.String(),
			LineNo:           line.LineNo,
			ItemID:           line.ItemID.String(),
			Direction:        line.Direction,
			EnteredQty:       line.EnteredQty,
			ConversionFactor: line.ConversionFactor,
			Quantity:         line.Quantity,
			CostRate:         line.CostRate,
		}
		if line.PackagingID != nil {
			s := line.PackagingID.String()
			lr.PackagingID = &s
		}
		resp.Lines[i] = lr
	}

	return resp
}
