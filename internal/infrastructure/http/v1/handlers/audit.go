package handlers

import (
	"github.com/gin-gonic/gin"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/id"
	"tradecore/internal/infrastructure/http/v1/dto"
	"tradecore/internal/infrastructure/storage/postgres"
)

// AuditHandler exposes the change log for documents and catalogs.
type AuditHandler struct {
	*BaseHandler
	service *postgres.AuditService
}

// NewAuditHandler creates an audit handler.
func NewAuditHandler(base *BaseHandler, service *postgres.AuditService) *AuditHandler {
	return &AuditHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetEntityHistory handles GET /audit/:entityType/:entityId?limit=50
func (h *AuditHandler) GetEntityHistory(c *gin.Context) {
	entityType := c.Param("entityType")
	if entityType == "" {
		h.HandleError(c, apperror.NewValidation("entityType is required"))
		return
	}

	entityID, err := id.Parse(c.Param("entityId"))
	if err != nil {
		h.HandleError(c, apperror.NewValidation("invalid entityId format"))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	entries, err := h.service.GetEntityHistory(c.Request.Context(), entityType, entityID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.FromAuditEntry(e))
	}

	h.OK(c, dto.AuditEntryListResponse{Items: items})
}

// RegisterRoutes registers audit routes on the given group.
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:entityType/:entityId", h.GetEntityHistory)
}
