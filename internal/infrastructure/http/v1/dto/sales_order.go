package dto

import (
	"time"

	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
	"tradecore/internal/domain/documents/sales_order"
)

// --- Request DTOs ---

// CreateSalesOrderRequest represents a request to create a sales order.
type CreateSalesOrderRequest struct {
	Number        string                  `json:"number,omitempty"`
	Date          time.Time               `json:"date" binding:"required"`
	CustomerID    string                  `json:"customerId" binding:"required"`
	WarehouseID   string                  `json:"warehouseId" binding:"required"`
	SalespersonID *string                 `json:"salespersonId,omitempty"`
	Comment       string                  `json:"comment,omitempty"`
	Lines         []SalesOrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// SalesOrderLineRequest represents a line in create/update request.
type SalesOrderLineRequest struct {
	ItemID      string         `json:"itemId" binding:"required"`
	Quantity    types.Quantity `json:"quantity" binding:"required"`
	PackagingID *string        `json:"packagingId,omitempty"`
	UnitPrice   types.Money    `json:"unitPrice"`
}

func (l *SalesOrderLineRequest) packagingID() *id.ID {
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
func (r *CreateSalesOrderRequest) ToEntity() *sales_order.SalesOrder {
	customerID, _ := id.Parse(r.CustomerID)
	warehouseID, _ := id.Parse(r.WarehouseID)

	doc := sales_order.NewSalesOrder(customerID, warehouseID)
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

// UpdateSalesOrderRequest represents a request to update a sales order.
type UpdateSalesOrderRequest struct {
	Number        *string                 `json:"number,omitempty"`
	Date          *time.Time              `json:"date,omitempty"`
	CustomerID    *string                 `json:"customerId,omitempty"`
	WarehouseID   *string                 `json:"warehouseId,omitempty"`
	SalespersonID *string                 `json:"salespersonId,omitempty"`
	Comment       *string                 `json:"comment,omitempty"`
	Lines         []SalesOrderLineRequest `json:"lines,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateSalesOrderRequest) ApplyTo(doc *sales_order.SalesOrder) {
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

	if r.Lines != nil {
		doc.Lines = make([]sales_order.Line, 0, len(r.Lines))
		for _, line := range r.Lines {
			itemID, _ := id.Parse(line.ItemID)
			doc.AddLine(itemID, line.Quantity, line.packagingID(), line.UnitPrice)
		}
	}
}

// ConvertToInvoiceRequest controls order-to-invoice conversion.
type ConvertToInvoiceRequest struct {
	PostImmediately bool `json:"postImmediately,omitempty"`
}

// --- Response DTOs ---

// SalesOrderResponse represents a sales order in API responses.
type SalesOrderResponse struct {
	ID            string                   `json:"id"`
	Number        string                   `json:"number"`
	Date          time.Time                `json:"date"`
	Status        string                   `json:"status"`
	CustomerID    string                   `json:"customerId"`
	WarehouseID   string                   `json:"warehouseId"`
	SalespersonID *string                  `json:"salespersonId,omitempty"`
	InvoiceID     *string                  `json:"invoiceId,omitempty"`
	TotalQuantity types.Quantity           `json:"totalQuantity"`
	TotalAmount   types.Money              `json:"totalAmount"`
	Comment       string                   `json:"comment,omitempty"`
	Lines         []SalesOrderLineResponse `json:"lines,omitempty"`
	DeletionMark  bool                     `json:"deletionMark,omitempty"`
	Version       int                      `json:"version"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

// SalesOrderLineResponse represents a line in API responses.
type SalesOrderLineResponse struct {
	LineID           string         `json:"lineId"`
	LineNo           int            `json:"lineNo"`
	ItemID           string         `json:"itemId"`
	EnteredQty       types.Quantity `json:"enteredQty"`
	PackagingID      *string        `json:"packagingId,omitempty"`
	ConversionFactor types.Quantity `json:"conversionFactor"`
	Quantity         types.Quantity `json:"quantity"`
	UnitPrice        types.Money    `json:"unitPrice"`
	Amount           types.Money    `json:"amount"`
}

// FromSalesOrder converts domain entity to response DTO.
func FromSalesOrder(doc *sales_order.SalesOrder) *SalesOrderResponse {
	resp := &SalesOrderResponse{
		ID:            doc.ID.String(),
		Number:        doc.Number,
		Date:          doc.Date,
		Status:        string(doc.Status),
		CustomerID:    doc.CustomerID.String(),
		WarehouseID:   doc.WarehouseID.String(),
		TotalQuantity: doc.TotalQuantity,
		TotalAmount:   doc.TotalAmount,
		Comment:       doc.Comment,
		DeletionMark:  doc.DeletionMark,
		Version:       doc.Version,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}

	if doc.SalespersonID != nil {
		s := doc.SalespersonID.String()
		resp.SalespersonID = &s
	}
	if doc.InvoiceID != nil {
		s := doc.InvoiceID.String()
		resp.InvoiceID = &s
	}

	resp.Lines = make([]SalesOrderLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		lr := SalesOrderLineResponse{
			LineID:           line.LineID.String(),
			LineNo:           line.LineNo,
			ItemID:           line.ItemID.String(),
			EnteredQty:       line.EnteredQty,
			ConversionFactor: line.ConversionFactor,
			Quantity:         line.Quantity,
			UnitPrice:        line.UnitPrice,
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

// ConvertToInvoiceResponse returns both sides of an order conversion.
type ConvertToInvoiceResponse struct {
	Order   *SalesOrderResponse   `json:"order"`
	Invoice *SalesInvoiceResponse `json:"invoice"`
	Posting any                   `json:"posting,omitempty"`
}
