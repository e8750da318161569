package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/id"
	"tradecore/internal/domain/registers/journal"
	"tradecore/internal/infrastructure/http/v1/dto"
)

// JournalHandler exposes read endpoints over the counterparty journal register.
type JournalHandler struct {
	*BaseHandler
	service *journal.Service
}

// NewJournalHandler creates a journal register handler.
func NewJournalHandler(base *BaseHandler, service *journal.Service) *JournalHandler {
	return &JournalHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetAccountBalance handles GET /registers/journal/balance?account=AR&until=...
// Without `until` the balance is taken as of now.
func (h *JournalHandler) GetAccountBalance(c *gin.Context) {
	account := c.Query("account")
	if account == "" {
		h.HandleError(c, apperror.NewValidation("account is required"))
		return
	}

	until := time.Now().UTC()
	if v := c.Query("until"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.HandleError(c, apperror.NewValidation("invalid until date format, expected RFC3339"))
			return
		}
		until = parsed
	}

	balance, err := h.service.GetAccountBalance(c.Request.Context(), account, until)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, dto.AccountBalanceResponse{
		Account: account,
		Until:   until,
		Balance: balance,
	})
}

// GetEntries handles GET /registers/journal/entries?account=AR&counterpartyId=...&fromDate=...&toDate=...
func (h *JournalHandler) GetEntries(c *gin.Context) {
	account := c.Query("account")
	if account == "" {
		h.HandleError(c, apperror.NewValidation("account is required"))
		return
	}

	f := journal.EntryFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if v := c.Query("counterpartyId"); v != "" {
		counterpartyID, err := id.Parse(v)
		if err != nil {
			h.HandleError(c, apperror.NewValidation("invalid counterpartyId format"))
			return
		}
		f.CounterpartyID = &counterpartyID
	}
	if v := c.Query("fromDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.HandleError(c, apperror.NewValidation("invalid fromDate format, expected RFC3339"))
			return
		}
		f.FromDate = &t
	}
	if v := c.Query("toDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.HandleError(c, apperror.NewValidation("invalid toDate format, expected RFC3339"))
			return
		}
		f.ToDate = &t
	}

	entries, err := h.service.GetEntriesByAccount(c.Request.Context(), account, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]dto.JournalEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.FromJournalEntry(e))
	}

	h.OK(c, dto.JournalEntryListResponse{Items: items})
}

// RegisterRoutes registers journal register routes on the given group.
func (h *JournalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/balance", h.GetAccountBalance)
	rg.GET("/entries", h.GetEntries)
}
