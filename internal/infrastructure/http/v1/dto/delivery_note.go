package dto

import (
	"time"

	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
	"tradecore/internal/domain/documents/delivery_note"
)

// --- Request DTOs ---

// CreateDeliveryNoteRequest represents a request to create a delivery note.
type CreateDeliveryNoteRequest struct {
	Number         string                    `json:"number,omitempty"`
	Date           time.Time                 `json:"date" binding:"required"`
	SupplierID     string                    `json:"supplierId" binding:"required"`
	WarehouseID    string                    `json:"warehouseId" binding:"required"`
	CarrierName    string                    `json:"carrierName,omitempty"`
	TrackingNumber string                    `json:"trackingNumber,omitempty"`
	Comment        string                    `json:"comment,omitempty"`
	Lines          []DeliveryNoteLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// DeliveryNoteLineRequest represents a line in create/update request.
type DeliveryNoteLineRequest struct {
	ItemID      string         `json:"itemId" binding:"required"`
	Quantity    types.Quantity `json:"quantity" binding:"required"`
	PackagingID *string        `json:"packagingId,omitempty"`
}

func (l *DeliveryNoteLineRequest) packagingID() *id.ID {
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
func (r *CreateDeliveryNoteRequest) ToEntity() *delivery_note.DeliveryNote {
	supplierID, _ := id.Parse(r.SupplierID)
	warehouseID, _ := id.Parse(r.WarehouseID)

	doc := delivery_note.NewDeliveryNote(supplierID, warehouseID)
	doc.Number = r.Number
	doc.Date = r.Date
	doc.CarrierName = r.CarrierName
	doc.TrackingNumber = r.TrackingNumber
	doc.Comment = r.Comment

	for _, line := range r.Lines {
		itemID, _ := id.Parse(line.ItemID)
		doc.AddLine(itemID, line.Quantity, line.packagingID())
	}

	return doc
}

// UpdateDeliveryNoteRequest represents a request to update a delivery note.
type UpdateDeliveryNoteRequest struct {
	Number         *string                   `json:"number,omitempty"`
	Date           *time.Time                `json:"date,omitempty"`
	SupplierID     *string                   `json:"supplierId,omitempty"`
	WarehouseID    *string                   `json:"warehouseId,omitempty"`
	CarrierName    *string                   `json:"carrierName,omitempty"`
	TrackingNumber *string                   `json:"trackingNumber,omitempty"`
	Comment        *string                   `json:"comment,omitempty"`
	Lines          []DeliveryNoteLineRequest `json:"lines,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateDeliveryNoteRequest) ApplyTo(doc *delivery_note.DeliveryNote) {
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
	if r.CarrierName != nil {
		doc.CarrierName = *r.CarrierName
	}
	if r.TrackingNumber != nil {
		doc.TrackingNumber = *r.TrackingNumber
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}

	if r.Lines != nil {
		doc.Lines = make([]delivery_note.Line, 0, len(r.Lines))
		for _, line := range r.Lines {
			itemID, _ := id.Parse(line.ItemID)
			doc.AddLine(itemID, line.Quantity, line.packagingID())
		}
	}
}

// --- Response DTOs ---

// DeliveryNoteResponse represents a delivery note in API responses.
type DeliveryNoteResponse struct {
	ID             string                     `json:"id"`
	Number         string                     `json:"number"`
	Date           time.Time                  `json:"date"`
	Status         string                     `json:"status"`
	Posted         bool                       `json:"posted"`
	PostedVersion  int                        `json:"postedVersion,omitempty"`
	SupplierID     string                     `json:"supplierId"`
	WarehouseID    string                     `json:"warehouseId"`
	CarrierName    string                     `json:"carrierName,omitempty"`
	TrackingNumber string                     `json:"trackingNumber,omitempty"`
	TotalQuantity  types.Quantity             `json:"totalQuantity"`
	TotalCost      types.Money                `json:"totalCost"`
	Comment        string                     `json:"comment,omitempty"`
	Lines          []DeliveryNoteLineResponse `json:"lines,omitempty"`
	DeletionMark   bool                       `json:"deletionMark,omitempty"`
	Version        int                        `json:"version"`
	CreatedAt      time.Time                  `json:"createdAt"`
	UpdatedAt      time.Time                  `json:"updatedAt"`
}

// DeliveryNoteLineResponse represents a line in API responses.
type DeliveryNoteLineResponse struct {
	LineID           string         `json:"lineId"`
	LineNo           int            `json:"lineNo"`
	ItemID           string         `json:"itemId"`
	EnteredQty       types.Quantity `json:"enteredQty"`
	PackagingID      *string        `json:"packagingId,omitempty"`
	ConversionFactor types.Quantity `json:"conversionFactor"`
	Quantity         types.Quantity `json:"quantity"`
	CostRate         types.Money    `json:"costRate"`
	Amount           types.Money    `json:"amount"`
}

// FromDeliveryNote converts domain entity to response DTO.
func FromDeliveryNote(doc *delivery_note.DeliveryNote) *DeliveryNoteResponse {
	resp := &DeliveryNoteResponse{
		ID:             doc.ID.String(),
		Number:         doc.Number,
		Date:           doc.Date,
		Status:         string(doc.Status),
		Posted:         doc.Posted,
		PostedVersion:  doc.PostedVersion,
		SupplierID:     doc.SupplierID.String(),
		WarehouseID:    doc.WarehouseID.String(),
		CarrierName:    doc.CarrierName,
		TrackingNumber: doc.TrackingNumber,
		TotalQuantity:  doc.TotalQuantity,
		TotalCost:      doc.TotalCost,
		Comment:        doc.Comment,
		DeletionMark:   doc.DeletionMark,
		Version:        doc.Version,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}

	resp.Lines = make([]DeliveryNoteLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		lr := DeliveryNoteLineResponse{
			LineID:           line.LineID.String(),
			LineNo:           line.LineNo,
			ItemID:           line.ItemID.String(),
			EnteredQty:       line.EnteredQty,
			ConversionFactor: line.ConversionFactor,
			Quantity:         line.Quantity,
			CostRate:         line.CostRate,
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
