package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/domain/registers/stock"
	"tradecore/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the stock register.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
	repo    stock.Repository
}

// NewStockHandler creates a new stock register handler.
func NewStockHandler(base *BaseHandler, service *stock.Service, repo stock.Repository) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
		repo:        repo,
	}
}

// GetBalances handles GET /registers/stock/balances
func (h *StockHandler) GetBalances(c *gin.Context) {
	ctx := c.Request.Context()

	// Parse optional warehouse filter
	var warehouseID *id.ID
	if whStr := c.Query("warehouseId"); whStr != "" {
		parsed, err := id.Parse(whStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid warehouseId format"))
			return
		}
		warehouseID = &parsed
	}

	// Parse optional item filter
	var itemID *id.ID
	if iStr := c.Query("itemId"); iStr != "" {
		parsed, err := id.Parse(iStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid itemId format"))
			return
		}
		itemID = &parsed
	}

	var balances []dto.StockBalanceResponse

	if warehouseID != nil {
		filter := stock.BalanceFilter{
			ExcludeZero: c.Query("excludeZero") != "false",
		}
		if itemID != nil {
			filter.ItemIDs = []id.ID{*itemID}
		}

		entityBalances, err := h.repo.GetBalancesByWarehouse(ctx, *warehouseID, filter)
		if err != nil {
			h.Error(c, err)
			return
		}

		balances = make([]dto.StockBalanceResponse, len(entityBalances))
		for i, b := range entityBalances {
			balances[i] = dto.FromStockBalance(b)
		}
	} else if itemID != nil {
		entityBalances, err := h.repo.GetBalancesByItem(ctx, *itemID)
		if err != nil {
			h.Error(c, err)
			return
		}

		balances = make([]dto.StockBalanceResponse, len(entityBalances))
		for i, b := range entityBalances {
			balances[i] = dto.FromStockBalance(b)
		}
	} else {
		h.Error(c, apperror.NewValidation("warehouseId or itemId is required"))
		return
	}

	c.JSON(http.StatusOK, dto.StockBalanceListResponse{Items: balances})
}

// GetMovements handles GET /registers/stock/movements
func (h *StockHandler) GetMovements(c *gin.Context) {
	ctx := c.Request.Context()

	// Item is required for movement history
	itemIDStr := c.Query("itemId")
	if itemIDStr == "" {
		h.Error(c, apperror.NewValidation("itemId is required"))
		return
	}

	itemID, err := id.Parse(itemIDStr)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid itemId format"))
		return
	}

	filter := stock.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	// Parse optional warehouse filter
	if whStr := c.Query("warehouseId"); whStr != "" {
		parsed, err := id.Parse(whStr)
		if err == nil {
			filter.WarehouseID = &parsed
		}
	}

	// Parse optional record type filter
	if rtStr := c.Query("recordType"); rtStr != "" {
		rt := entity.RecordType(rtStr)
		filter.RecordType = &rt
	}

	// Parse optional date range
	if fromStr := c.Query("fromDate"); fromStr != "" {
		if parsed, err := time.Parse(time.RFC3339, fromStr); err == nil {
			filter.FromDate = &parsed
		}
	}

	if toStr := c.Query("toDate"); toStr != "" {
		if parsed, err := time.Parse(time.RFC3339, toStr); err == nil {
			filter.ToDate = &parsed
		}
	}

	movements, err := h.repo.GetMovementHistory(ctx, itemID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := make([]dto.StockMovementResponse, len(movements))
	for i, m := range movements {
		response[i] = dto.FromStockMovement(m)
	}

	c.JSON(http.StatusOK, dto.StockMovementListResponse{
		Items:      response,
		TotalCount: len(response),
	})
}

// GetTurnovers handles GET /registers/stock/turnovers
func (h *StockHandler) GetTurnovers(c *gin.Context) {
	ctx := c.Request.Context()

	// Date range is required
	fromStr := c.Query("fromDate")
	toStr := c.Query("toDate")

	if fromStr == "" || toStr == "" {
		h.Error(c, apperror.NewValidation("fromDate and toDate are required"))
		return
	}

	fromDate, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid fromDate format, expected RFC3339"))
		return
	}

	toDate, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid toDate format, expected RFC3339"))
		return
	}

	filter := stock.TurnoverFilter{
		FromDate: fromDate,
		ToDate:   toDate,
	}

	// Parse optional warehouse filter
	if whStr := c.Query("warehouseId"); whStr != "" {
		parsed, err := id.Parse(whStr)
		if err == nil {
			filter.WarehouseID = &parsed
		}
	}

	// Parse optional item filter
	if iStr := c.Query("itemId"); iStr != "" {
		parsed, err := id.Parse(iStr)
		if err == nil {
			filter.ItemID = &parsed
		}
	}

	turnover, err := h.service.GetStockReport(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockTurnover(turnover))
}

// GetItemAvailability handles GET /registers/stock/availability/:itemId
func (h *StockHandler) GetItemAvailability(c *gin.Context) {
	ctx := c.Request.Context()

	itemID, err := id.Parse(c.Param("itemId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid itemId format"))
		return
	}

	quantity, err := h.service.GetItemAvailability(ctx, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"itemId":   itemID.String(),
		"quantity": quantity,
	})
}

// RegisterRoutes registers stock register routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/balances", h.GetBalances)
	rg.GET("/movements", h.GetMovements)
	rg.GET("/turnovers", h.GetTurnovers)
	rg.GET("/availability/:itemId", h.GetItemAvailability)
}
