package dto

import (
	"time"

	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
	"tradecore/internal/domain/documents/sales_invoice"
)

// --- Request DTOs ---

// CreateSalesInvoiceRequest represents a request to create a sales invoice.
type CreateSalesInvoiceRequest struct {
	Number          string                    `json:"number,omitempty"`
	Date            time.Time                 `json:"date" binding:"required"`
	CustomerID      string                    `json:"customerId" binding:"required"`
	WarehouseID     string                    `json:"warehouseId" binding:"required"`
	SalespersonID   *string                   `json:"salespersonId,omitempty"`
	Comment         string                    `json:"comment,omitempty"`
	Lines           []SalesInvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
	PostImmediately bool                      `json:"postImmediately,omitempty"`
}

// SalesInvoiceLineRequest represents a line in create/update request.
// Quantity is entered in packs of packagingId; with no packagingId it is
// taken as base units.
type SalesInvoiceLineRequest struct {
	ItemID      string         `json:"itemId" binding:"required"`
	Quantity    types.Quantity `json:"quantity" binding:"required"`
	PackagingID *string        `json:"packagingId,omitempty"`
	UnitPrice   types.Money    `json:"unitPrice"`
}

func (l *SalesInvoiceLineRequest) packagingID() *id.ID {
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
func (r *CreateSalesInvoiceRequest) ToEntity() *sales_invoice.SalesInvoice {
	customerID, _ := id.Parse(r.CustomerID)
	warehouseID, _ := id.Parse(r.WarehouseID)

	doc := sales_invoice.NewSalesInvoice(customerID, warehouseID)
	doc.Number = r.Number
	doc.Date = r.Date
	doc.Comment = r.Comment

	if r.SalespersonID != nil {
		if parsed, err := id.Parse(*r.SalespersonID); err == nil {
			doc.SalespersonID = &parsed
		}
	}

	for _, line := range r.Lines {
		itemID, _ := id.Parse(line.ItemID)
		doc.AddLine(itemID, line.Quantity, line.packagingID(), line.UnitPrice)
	}

	return doc
}

// UpdateSalesInvoiceRequest represents a request to update a sales invoice.
type UpdateSalesInvoiceRequest struct {
	Number        *string                   `json:"number,omitempty"`
	Date          *time.Time                `json:"date,omitempty"`
	CustomerID    *string                   `json:"customerId,omitempty"`
	WarehouseID   *string                   `json:"warehouseId,omitempty"`
	SalespersonID *string                   `json:"salespersonId,omitempty"`
	Comment       *string                   `json:"comment,omitempty"`
	Lines         []SalesInvoiceLineRequest `json:"lines,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateSalesInvoiceRequest) ApplyTo(doc *sales_invoice.SalesInvoice) {
	if r.Number != nil {
		doc.Number = *r.Number
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.CustomerID != nil {
		customerID, _ := id.Parse(*r.CustomerID)
		doc.CustomerID = customerID
	}
	if r.WarehouseID != nil {
		warehouseID, _ := id.Parse(*r.WarehouseID)
		doc.WarehouseID = warehouseID
	}
	if r.SalespersonID != nil {
		if parsed, err := id.Parse(*r.SalespersonID); err == nil {
			doc.SalespersonID = &parsed
		}
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}

	// If lines are provided, rebuild them
	if r.Lines != nil {
		doc.Lines = make([]sales_invoice.Line, 0, len(r.Lines))
		for _, line := range r.Lines {
			itemID, _ := id.Parse(line.ItemID)
			doc.AddLine(itemID, line.Quantity, line.packagingID(), line.UnitPrice)
		}
	}
}

// --- Response DTOs ---

// SalesInvoiceResponse represents a sales invoice in API responses.
type SalesInvoiceResponse struct {
	ID             string                     `json:"id"`
	Number         string                     `json:"number"`
	Date           time.Time                  `json:"date"`
	Status         string                     `json:"status"`
	Posted         bool                       `json:"posted"`
	PostedVersion  int                        `json:"postedVersion,omitempty"`
	CustomerID     string                     `json:"customerId"`
	WarehouseID    string                     `json:"warehouseId"`
	SalespersonID  *string                    `json:"salespersonId,omitempty"`
	CommissionRate types.Money                `json:"commissionRate"`
	TotalQuantity  types.Quantity             `json:"totalQuantity"`
	TotalAmount    types.Money                `json:"totalAmount"`
	TotalCost      types.Money                `json:"totalCost"`
	Comment        string                     `json:"comment,omitempty"`
	Lines          []SalesInvoiceLineResponse `json:"lines,omitempty"`
	DeletionMark   bool                       `json:"deletionMark,omitempty"`
	Version        int                        `json:"version"`
	CreatedAt      time.Time                  `json:"createdAt"`
	UpdatedAt      time.Time                  `json:"updatedAt"`
}

// SalesInvoiceLineResponse represents a line in API responses.
type SalesInvoiceLineResponse struct {
	LineID           string         `json:"lineId"`
	LineNo           int            `json:"lineNo"`
	ItemID           string         `json:"itemId"`
	EnteredQty       types.Quantity `json:"enteredQty"`
	PackagingID      *string        `json:"packagingId,omitempty"`
	ConversionFactor types.Quantity `json:"conversionFactor"`
	Quantity         types.Quantity `json:"quantity"`
	UnitPrice        types.Money    `json:"unitPrice"`
	CostRate         types.Money    `json:"costRate"`
	Amount           types.Money    `json:"amount"`
}

// FromSalesInvoice converts domain entity to response DTO.
func FromSalesInvoice(doc *sales_invoice.SalesInvoice) *SalesInvoiceResponse {
	resp := &SalesInvoiceResponse{
		ID:             doc.ID.String(),
		Number:         doc.Number,
		Date:           doc.Date,
		Status:         string(doc.Status),
		Posted:         doc.Posted,
		PostedVersion:  doc.PostedVersion,
		CustomerID:     doc.CustomerID.String(),
		WarehouseID:    doc.WarehouseID.String(),
		CommissionRate: doc.CommissionRate,
		TotalQuantity:  doc.TotalQuantity,
		TotalAmount:    doc.TotalAmount,
		TotalCost:      doc.TotalCost,
		Comment:        doc.Comment,
		DeletionMark:   doc.DeletionMark,
		Version:        doc.Version,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}

	if doc.SalespersonID != nil {
		s := doc.SalespersonID.String()
		resp.SalespersonID = &s
	}

	resp.Lines = make([]SalesInvoiceLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		lr := SalesInvoiceLineResponse{
			LineID:           line.LineID.String(),
			LineNo:           line.LineNo,
			ItemID:           line.ItemID.String(),
			EnteredQty:       line.EnteredQty,
			ConversionFactor: line.ConversionFactor,
			Quantity:         line.Quantity,
			UnitPrice:        line.UnitPrice,
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
