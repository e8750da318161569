package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradecore/internal/core/id"
	"tradecore/internal/domain"
	"tradecore/internal/domain/documents/delivery_note"
	"tradecore/internal/infrastructure/http/v1/dto"
)

// DeliveryNoteHandler handles HTTP requests for DeliveryNote documents.
// Stock is credited on receive, not on dispatch; unreceive reverses.
type DeliveryNoteHandler struct {
	*BaseDocumentHandler[*delivery_note.DeliveryNote, dto.CreateDeliveryNoteRequest, dto.UpdateDeliveryNoteRequest]
	service *delivery_note.Service
}

// NewDeliveryNoteHandler creates a new delivery note handler.
func NewDeliveryNoteHandler(base *BaseHandler, service *delivery_note.Service) *DeliveryNoteHandler {
	cfg := BaseDocumentHandlerConfig[*delivery_note.DeliveryNote, dto.CreateDeliveryNoteRequest, dto.UpdateDeliveryNoteRequest]{
		Service:    service,
		EntityName: "delivery-note",
		MapCreateDTO: func(req dto.CreateDeliveryNoteRequest) *delivery_note.DeliveryNote {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateDeliveryNoteRequest, existing *delivery_note.DeliveryNote) *delivery_note.DeliveryNote {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *delivery_note.DeliveryNote) any {
			return dto.FromDeliveryNote(entity)
		},
	}

	return &DeliveryNoteHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, cfg),
		service:             service,
	}
}

// List handles GET /document/delivery-notes - list with filtering.
func (h *DeliveryNoteHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := delivery_note.ListFilter{
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

	items := make([]*dto.DeliveryNoteResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromDeliveryNote(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Dispatch handles POST /document/delivery-notes/:id/dispatch
func (h *DeliveryNoteHandler) Dispatch(c *gin.Context) {
	h.StatusAction(c, h.service.Dispatch)
}

// Receive handles POST /document/delivery-notes/:id/receive
func (h *DeliveryNoteHandler) Receive(c *gin.Context) {
	h.PostingAction(c, h.service.Receive)
}

// Unreceive handles POST /document/delivery-notes/:id/unreceive
func (h *DeliveryNoteHandler) Unreceive(c *gin.Context) {
	h.PostingAction(c, h.service.Unreceive)
}
