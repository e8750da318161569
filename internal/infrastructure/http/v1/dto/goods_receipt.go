package dto

import (
	"time"

	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
	"tradecore/internal/domain/documents/goods_receipt"
)

// --- Request DTOs ---

// CreateGoodsReceiptRequest represents a request to create a goods receipt.
type CreateGoodsReceiptRequest struct {
	Number            string                    `json:"number,omitempty"`
	Date              time.Time                 `json:"date" binding:"required"`
	SupplierID        string                    `json:"supplierId" binding:"required"`
	WarehouseID       string                    `json:"warehouseId" binding:"required"`
	SupplierDocNumber string                    `json:"supplierDocNumber,omitempty"`
	SupplierDocDate   *time.Time                `json:"supplierDocDate,omitempty"`
	Comment           string                    `json:"comment,omitempty"`
	Lines             []GoodsReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// GoodsReceiptLineRequest represents a line in create/update request.
type GoodsReceiptLineRequest struct {
	ItemID      string         `json:"itemId" binding:"required"`
	Quantity    types.Quantity `json:"quantity" binding:"required"`
	PackagingID *string        `json:"packagingId,omitempty"`
	UnitCost    types.Money    `json:"unitCost"`
}

func (l *GoodsReceiptLineRequest) packagingID() *id.ID {
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
func (r *CreateGoodsReceiptRequest) ToEntity() *goods_receipt.GoodsReceipt {
	supplierID, _ := id.Parse(r.SupplierID)
	warehouseID, _ := id.Parse(r.WarehouseID)

	doc := goods_receipt.NewGoodsReceipt(supplierID, warehouseID)
	doc.Number = r.Number
	doc.Date = r.Date
	doc.SupplierDocNumber = r.SupplierDocNumber
	doc.SupplierDocDate = r.SupplierDocDate
	doc.Comment = r.Comment

	for _, line := range r.Lines {
		itemID, _ := id.Parse(line.ItemID)
		doc.AddLine(itemID, line.Quantity, line.packagingID(), line.UnitCost)
	}

	return doc
}

// UpdateGoodsReceiptRequest represents a request to update a goods receipt.
type UpdateGoodsReceiptRequest struct {
	Number            *string                   `json:"number,omitempty"`
	Date              *time.Time                `json:"date,omitempty"`
	SupplierID        *string                   `json:"supplierId,omitempty"`
	WarehouseID       *string                   `json:"warehouseId,omitempty"`
	SupplierDocNumber *string                   `json:"supplierDocNumber,omitempty"`
	SupplierDocDate   *time.Time                `json:"supplierDocDate,omitempty"`
	Comment           *string                   `json:"comment,omitempty"`
	Lines             []GoodsReceiptLineRequest `json:"lines,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateGoodsReceiptRequest) ApplyTo(doc *goods_receipt.GoodsReceipt) {
	if r.Number != nil {
		doc.Number = *r.Number
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.SupplierID != nil {
		supplierID, _ := id.Parse(*r.SupplierID)
		doc.SupplierID = supplierID
	}
	if r.WarehouseID != nil {
		warehouseID, _ := id.Parse(*r.WarehouseID)
		doc.WarehouseID = warehouseID
	}
	if r.SupplierDocNumber != nil {
		doc.SupplierDocNumber = *r.SupplierDocNumber
	}
	if r.SupplierDocDate != nil {
		doc.SupplierDocDate = r.SupplierDocDate
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}

	// If lines are provided, rebuild them
	if r.Lines != nil {
		doc.Lines = make([]goods_receipt.Line, 0, len(r.Lines))
		for _, line := range r.Lines {
			itemID, _ := id.Parse(line.ItemID)
			doc.AddLine(itemID, line.Quantity, line.packagingID(), line.UnitCost)
		}
	}
}

// --- Response DTOs ---

// GoodsReceiptResponse represents a goods receipt in API responses.
type GoodsReceiptResponse struct {
	ID                string                     `json:"id"`
	Number            string                     `json:"number"`
	Date              time.Time                  `json:"date"`
	Status            string                     `json:"status"`
	Posted            bool                       `json:"posted"`
	PostedVersion     int                        `json:"postedVersion,omitempty"`
	SupplierID        string                     `json:"supplierId"`
	WarehouseID       string                     `json:"warehouseId"`
	SupplierDocNumber string                     `json:"supplierDocNumber,omitempty"`
	SupplierDocDate   *time.Time                 `json:"supplierDocDate,omitempty"`
	TotalQuantity     types.Quantity             `json:"totalQuantity"`
	TotalAmount       types.Money                `json:"totalAmount"`
	Comment           string                     `json:"comment,omitempty"`
	Lines             []GoodsReceiptLineResponse `json:"lines,omitempty"`
	DeletionMark      bool                       `json:"deletionMark,omitempty"`
	Version           int                        `json:"version"`
	CreatedAt         time.Time                  `json:"createdAt"`
	UpdatedAt         time.Time                  `json:"updatedAt"`
}

// GoodsReceiptLineResponse represents a line in API responses.
type GoodsReceiptLineResponse struct {
	LineID           string         `json:"lineId"`
	LineNo           int            `json:"lineNo"`
	ItemID           string         `json:"itemId"`
	EnteredQty       types.Quantity `json:"enteredQty"`
	PackagingID      *string        `json:"packagingId,omitempty"`
	ConversionFactor types.Quantity `json:"conversionFactor"`
	Quantity         types.Quantity `json:"quantity"`
	UnitCost         types.Money    `json:"unitCost"`
	Amount           types.Money    `json:"amount"`
}

// FromGoodsReceipt converts domain entity to response DTO.
func FromGoodsReceipt(doc *goods_receipt.GoodsReceipt) *GoodsReceiptResponse {
	resp := &GoodsReceiptResponse{
		ID:                doc.ID.String(),
		Number:            doc.Number,
		Date:              doc.Date,
		Status:            string(doc.Status),
		Posted:            doc.Posted,
		PostedVersion:     doc.PostedVersion,
		SupplierID:        doc.SupplierID.String(),
		WarehouseID:       doc.WarehouseID.String(),
		SupplierDocNumber: doc.SupplierDocNumber,
		SupplierDocDate:   doc.SupplierDocDate,
		TotalQuantity:     doc.TotalQuantity,
		TotalAmount:       doc.TotalAmount,
		Comment:           doc.Comment,
		DeletionMark:      doc.DeletionMark,
		Version:           doc.Version,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}

	resp.Lines = make([]GoodsReceiptLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		lr := GoodsReceiptLineResponse{
			LineID:           line.LineID.String(),
			LineNo:           line.LineNo,
			ItemID:           line.ItemID.String(),
			EnteredQty:       line.EnteredQty,
			ConversionFactor: line.ConversionFactor,
			Quantity:         line.Quantity,
			UnitCost:         line.UnitCost,
			Amount:           line.Amount,
		}
		if line.PackagingID != nil {
			s := line.PackagingID.String()
			lr.PackagingID = &s
		}
		resp.Lines[i] = lr
	}

	return resp
}
