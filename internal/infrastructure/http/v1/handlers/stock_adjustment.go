package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradecore/internal/core/id"
	"tradecore/internal/domain"
	"tradecore/internal/domain/documents/stock_adjustment"
	"tradecore/internal/infrastructure/http/v1/dto"
)

// StockAdjustmentHandler handles HTTP requests for StockAdjustment documents.
type StockAdjustmentHandler struct {
	*BaseDocumentHandler[*stock_adjustment.StockAdjustment, dto.CreateStockAdjustmentRequest, dto.UpdateStockAdjustmentRequest]
	service *stock_adjustment.Service
}

// NewStockAdjustmentHandler creates a new stock adjustment handler.
func NewStockAdjustmentHandler(base *BaseHandler, service *stock_adjustment.Service) *StockAdjustmentHandler {
	cfg := BaseDocumentHandlerConfig[*stock_adjustment.StockAdjustment, dto.CreateStockAdjustmentRequest, dto.UpdateStockAdjustmentRequest]{
		Service:    service,
		EntityName: "stock-adjustment",
		MapCreateDTO: func(req dto.CreateStockAdjustmentRequest) *stock_adjustment.StockAdjustment {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateStockAdjustmentRequest, existing *stock_adjustment.StockAdjustment) *stock_adjustment.StockAdjustment {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *stock_adjustment.StockAdjustment) any {
			return dto.FromStockAdjustment(entity)
		},
		Post:   service.Post,
		Unpost: service.Unpost,
	}

	return &StockAdjustmentHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, cfg),
		service:             service,
	}
}

// List handles GET /document/stock-adjustments - list with filtering.
func (h *StockAdjustmentHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := stock_adjustment.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "date DESC")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if warehouseID := c.Query("warehouseId"); warehouseID != "" {
		if parsed, err := id.Parse(warehouseID); err == nil {
			filter.WarehouseID = &parsed
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

	items := make([]*dto.StockAdjustmentResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromStockAdjustment(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
