package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/id"
	"tradecore/internal/domain"
	"tradecore/internal/domain/documents/sales_order"
	"tradecore/internal/infrastructure/http/v1/dto"
)

// SalesOrderHandler handles HTTP requests for SalesOrder documents.
// Orders never post to registers; their lifecycle is pure status transitions
// until conversion produces an invoice.
type SalesOrderHandler struct {
	*BaseDocumentHandler[*sales_order.SalesOrder, dto.CreateSalesOrderRequest, dto.UpdateSalesOrderRequest]
	service *sales_order.Service
}

// NewSalesOrderHandler creates a new sales order handler.
func NewSalesOrderHandler(base *BaseHandler, service *sales_order.Service) *SalesOrderHandler {
	cfg := BaseDocumentHandlerConfig[*sales_order.SalesOrder, dto.CreateSalesOrderRequest, dto.UpdateSalesOrderRequest]{
		Service:    service,
		EntityName: "sales-order",
		MapCreateDTO: func(req dto.CreateSalesOrderRequest) *sales_order.SalesOrder {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateSalesOrderRequest, existing *sales_order.SalesOrder) *sales_order.SalesOrder {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *sales_order.SalesOrder) any {
			return dto.FromSalesOrder(entity)
		},
	}

	return &SalesOrderHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, cfg),
		service:             service,
	}
}

// List handles GET /document/sales-orders - list with filtering.
func (h *SalesOrderHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := sales_order.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "date DESC")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

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

	if status := c.Query("status"); status != "" {
		filter.Status = &status
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

	items := make([]*dto.SalesOrderResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromSalesOrder(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Confirm handles POST /document/sales-orders/:id/confirm
func (h *SalesOrderHandler) Confirm(c *gin.Context) {
	h.StatusAction(c, h.service.Confirm)
}

// StartProcessing handles POST /document/sales-orders/:id/start-processing
func (h *SalesOrderHandler) StartProcessing(c *gin.Context) {
	h.StatusAction(c, h.service.StartProcessing)
}

// ConvertToInvoice handles POST /document/sales-orders/:id/convert-to-invoice
func (h *SalesOrderHandler) ConvertToInvoice(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	// Body is optional; an empty body means convert without posting.
	var req dto.ConvertToInvoiceRequest
	if c.Request.ContentLength > 0 {
		if !h.BindJSON(c, &req) {
			return
		}
	}

	invoice, postingResult, err := h.service.ConvertToInvoice(ctx, docID, req.PostImmediately)
	if err != nil {
		h.Error(c, err)
		return
	}

	order, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.ConvertToInvoiceResponse{
		Order:   dto.FromSalesOrder(order),
		Invoice: dto.FromSalesInvoice(invoice),
	}
	if postingResult != nil {
		response.Posting = postingResult
	}

	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}
