package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/id"
	"tradecore/internal/domain/registers/commission"
	"tradecore/internal/infrastructure/http/v1/dto"
)

// CommissionHandler exposes read endpoints over the commission accrual register.
type CommissionHandler struct {
	*BaseHandler
	service *commission.Service
}

// NewCommissionHandler creates a commission register handler.
func NewCommissionHandler(base *BaseHandler, service *commission.Service) *CommissionHandler {
	return &CommissionHandler{
		BaseHandler: base,
		service:     service,
	}
}

func (h *CommissionHandler) accrualFilter(c *gin.Context) (commission.AccrualFilter, error) {
	f := commission.AccrualFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if v := c.Query("fromDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, apperror.NewValidation("invalid fromDate format, expected RFC3339")
		}
		f.FromDate = &t
	}
	if v := c.Query("toDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, apperror.NewValidation("invalid toDate format, expected RFC3339")
		}
		f.ToDate = &t
	}

	return f, nil
}

// GetAccruals handles GET /registers/commission/accruals/:salespersonId
func (h *CommissionHandler) GetAccruals(c *gin.Context) {
	salespersonID, err := id.Parse(c.Param("salespersonId"))
	if err != nil {
		h.HandleError(c, apperror.NewValidation("invalid salesperson ID format"))
		return
	}

	f, err := h.accrualFilter(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	accruals, err := h.service.GetAccrualsBySalesperson(c.Request.Context(), salespersonID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]dto.CommissionAccrualResponse, 0, len(accruals))
	for _, a := range accruals {
		items = append(items, dto.FromCommissionAccrual(a))
	}

	h.OK(c, dto.CommissionAccrualListResponse{Items: items})
}

// GetAccruedTotal handles GET /registers/commission/total/:salespersonId
func (h *CommissionHandler) GetAccruedTotal(c *gin.Context) {
	salespersonID, err := id.Parse(c.Param("salespersonId"))
	if err != nil {
		h.HandleError(c, apperror.NewValidation("invalid salesperson ID format"))
		return
	}

	f, err := h.accrualFilter(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	total, err := h.service.GetAccruedTotal(c.Request.Context(), salespersonID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, dto.CommissionTotalResponse{
		SalespersonID: salespersonID.String(),
		Total:         total,
	})
}

// RegisterRoutes registers commission register routes on the given group.
func (h *CommissionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/accruals/:salespersonId", h.GetAccruals)
	rg.GET("/total/:salespersonId", h.GetAccruedTotal)
}
