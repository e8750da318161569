package dto

import (
	"time"

	"tradecore/internal/core/entity"
	"tradecore/internal/core/types"
)

// --- Response DTOs for Journal Register ---

// JournalEntryResponse represents a journal entry in API responses.
type JournalEntryResponse struct {
	LineID         string      `json:"lineId"`
	RecorderID     string      `json:"recorderId"`
	RecorderType   string      `json:"recorderType"`
	Period         time.Time   `json:"period"`
	Account        string      `json:"account"`
	CounterpartyID *string     `json:"counterpartyId,omitempty"`
	Debit          types.Money `json:"debit"`
	Credit         types.Money `json:"credit"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// FromJournalEntry converts entity to response DTO.
func FromJournalEntry(e entity.JournalMovement) JournalEntryResponse {
	resp := JournalEntryResponse{
		LineID:       e.LineID.String(),
		RecorderID:   e.RecorderID.String(),
		RecorderType: e.RecorderType,
		Period:       e.Period,
		Account:      e.Account,
		Debit:        e.Debit,
		Credit:       e.Credit,
		CreatedAt:    e.CreatedAt,
	}
	if e.CounterpartyID != nil {
		s := e.CounterpartyID.String()
		resp.CounterpartyID = &s
	}
	return resp
}

// AccountBalanceResponse represents an account balance.
type AccountBalanceResponse struct {
	Account string      `json:"account"`
	Until   time.Time   `json:"until"`
	Balance types.Money `json:"balance"`
}

// JournalEntryListResponse represents a list of journal entries.
type JournalEntryListResponse struct {
	Items      []JournalEntryResponse `json:"items"`
	TotalCount int                    `json:"totalCount,omitempty"`
}

// --- Response DTOs for Commission Register ---

// CommissionAccrualResponse represents a commission accrual in API responses.
type CommissionAccrualResponse struct {
	LineID        string      `json:"lineId"`
	RecorderID    string      `json:"recorderId"`
	RecorderType  string      `json:"recorderType"`
	Period        time.Time   `json:"period"`
	RecordType    string      `json:"recordType"`
	SalespersonID string      `json:"salespersonId"`
	BaseAmount    types.Money `json:"baseAmount"`
	Rate          types.Money `json:"rate"`
	Amount        types.Money `json:"amount"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// FromCommissionAccrual converts entity to response DTO.
func FromCommissionAccrual(a entity.CommissionMovement) CommissionAccrualResponse {
	return CommissionAccrualResponse{
		LineID:        a.LineID.String(),
		RecorderID:    a.RecorderID.String(),
		RecorderType:  a.RecorderType,
		Period:        a.Period,
		RecordType:    string(a.RecordType),
		SalespersonID: a.SalespersonID.String(),
		BaseAmount:    a.BaseAmount,
		Rate:          a.Rate,
		Amount:        a.Amount,
		CreatedAt:     a.CreatedAt,
	}
}

// CommissionTotalResponse represents an accrued commission total for a period.
type CommissionTotalResponse struct {
	SalespersonID string      `json:"salespersonId"`
	Total         types.Money `json:"total"`
}

// CommissionAccrualListResponse represents a list of commission accruals.
type CommissionAccrualListResponse struct {
	Items      []CommissionAccrualResponse `json:"items"`
	TotalCount int                         `json:"totalCount,omitempty"`
}
