package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/id"
	"tradecore/internal/domain"
	"tradecore/internal/domain/documents/sales_invoice"
	"tradecore/internal/infrastructure/http/v1/dto"
)

// SalesInvoiceHandler handles HTTP requests for SalesInvoice documents.
type SalesInvoiceHandler struct {
	*BaseDocumentHandler[*sales_invoice.SalesInvoice, dto.CreateSalesInvoiceRequest, dto.UpdateSalesInvoiceRequest]
	service *sales_invoice.Service
}

// NewSalesInvoiceHandler creates a new sales invoice handler.
func NewSalesInvoiceHandler(base *BaseHandler, service *sales_invoice.Service) *SalesInvoiceHandler {
	cfg := BaseDocumentHandlerConfig[*sales_invoice.SalesInvoice, dto.CreateSalesInvoiceRequest, dto.UpdateSalesInvoiceRequest]{
		Service:    service,
		EntityName: "sales-invoice",
		MapCreateDTO: func(req dto.CreateSalesInvoiceRequest) *sales_invoice.SalesInvoice {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateSalesInvoiceRequest, existing *sales_invoice.SalesInvoice) *sales_invoice.SalesInvoice {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *sales_invoice.SalesInvoice) any {
			return dto.FromSalesInvoice(entity)
		},
		IsPostImmediately: func(req dto.CreateSalesInvoiceRequest) bool {
			return req.PostImmediately
		},
		Post:        service.Post,
		Unpost:      service.Unpost,
		PostAndSave: service.PostAndSave,
	}

	return &SalesInvoiceHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, cfg),
		service:             service,
	}
}

// List handles GET /document/sales-invoices - list with filtering.
func (h *SalesInvoiceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := sales_invoice.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "date DESC")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	// Parse optional filters
	if customerID := c.Query("customerId"); customerID != "" {
		if parsed, err := id.Parse(customerID); err == nil {
			filter.CustomerID = &parsed
		}
	}

	if warehouseID := c.Query("warehouseId"); warehouseID != "" {
		if parsed, err := id.Parse(warehouseID); err == nil {
			filter.WarehouseID = &parsed
		}
	}

	if salespersonID := c.Query("salespersonId"); salespersonID != "" {
		if parsed, err := id.Parse(salespersonID); err == nil {
			filter.SalespersonID = &parsed
		}
	}

	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}

	if posted := c.Query("posted"); posted != "" {
		val := posted == "true"
		filter.Posted = &val
	}

	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.DateFrom = &parsed
		}
	}

	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.DateTo = &parsed
		}
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.SalesInvoiceResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromSalesInvoice(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// MarkPaid handles POST /document/sales-invoices/:id/mark-paid
func (h *SalesInvoiceHandler) MarkPaid(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.MarkPaid(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromSalesInvoice(doc)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// Copy handles POST /document/sales-invoices/:id/copy
func (h *SalesInvoiceHandler) Copy(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	source, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	copy := sales_invoice.NewSalesInvoice(source.CustomerID, source.WarehouseID)
	copy.Date = time.Now()
	copy.SalespersonID = source.SalespersonID
	copy.Comment = source.Comment

	for _, line := range source.Lines {
		copy.AddLine(line.ItemID, line.EnteredQty, line.PackagingID, line.UnitPrice)
	}

	if err := h.service.Create(ctx, copy); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromSalesInvoice(copy)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}
