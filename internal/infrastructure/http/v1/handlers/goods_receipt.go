package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradecore/internal/core/id"
	"tradecore/internal/domain"
	"tradecore/internal/domain/documents/goods_receipt"
	"tradecore/internal/infrastructure/http/v1/dto"
)

// GoodsReceiptHandler handles HTTP requests for GoodsReceipt documents.
// Receipts reach the stock ledger through the approval workflow: approve
// posts, unapprove reverses.
type GoodsReceiptHandler struct {
	*BaseDocumentHandler[*goods_receipt.GoodsReceipt, dto.CreateGoodsReceiptRequest, dto.UpdateGoodsReceiptRequest]
	service *goods_receipt.Service
}

// NewGoodsReceiptHandler creates a new goods receipt handler.
func NewGoodsReceiptHandler(base *BaseHandler, service *goods_receipt.Service) *GoodsReceiptHandler {
	cfg := BaseDocumentHandlerConfig[*goods_receipt.GoodsReceipt, dto.CreateGoodsReceiptRequest, dto.UpdateGoodsReceiptRequest]{
		Service:    service,
		EntityName: "goods-receipt",
		MapCreateDTO: func(req dto.CreateGoodsReceiptRequest) *goods_receipt.GoodsReceipt {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateGoodsReceiptRequest, existing *goods_receipt.GoodsReceipt) *goods_receipt.GoodsReceipt {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *goods_receipt.GoodsReceipt) any {
			return dto.FromGoodsReceipt(entity)
		},
	}

	return &GoodsReceiptHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, cfg),
		service:             service,
	}
}

// List handles GET /document/goods-receipts - list with filtering.
func (h *GoodsReceiptHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := goods_receipt.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "date DESC")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if supplierID := c.Query("supplierId"); supplierID != "" {
		if parsed, err := id.Parse(supplierID); err == nil {
			filter.SupplierID = &parsed
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

	items := make([]*dto.GoodsReceiptResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromGoodsReceipt(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// SubmitForApproval handles POST /document/goods-receipts/:id/submit-for-approval
func (h *GoodsReceiptHandler) SubmitForApproval(c *gin.Context) {
	h.StatusAction(c, h.service.SubmitForApproval)
}

// Approve handles POST /document/goods-receipts/:id/approve
func (h *GoodsReceiptHandler) Approve(c *gin.Context) {
	h.PostingAction(c, h.service.Approve)
}

// Unapprove handles POST /document/goods-receipts/:id/unapprove
func (h *GoodsReceiptHandler) Unapprove(c *gin.Context) {
	h.PostingAction(c, h.service.Unapprove)
}
