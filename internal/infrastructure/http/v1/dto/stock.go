package dto

import (
	"time"

	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
	"tradecore/internal/domain/registers/stock"
)

// --- Response DTOs for Stock Register ---

// StockBalanceResponse represents stock balance in API responses.
type StockBalanceResponse struct {
	WarehouseID    string         `json:"warehouseId"`
	ItemID         string         `json:"itemId"`
	Quantity       types.Quantity `json:"quantity"`
	LastMovementAt *time.Time     `json:"lastMovementAt,omitempty"`
}

// FromStockBalance converts entity to response DTO.
func FromStockBalance(b entity.StockBalance) StockBalanceResponse {
	// The zero-value timestamp means "no movements yet"; render it as null
	// instead of "0001-01-01".
	var lastMovement *time.Time
	if !b.LastMovementAt.IsZero() {
		val := b.LastMovementAt
		lastMovement = &val
	}

	return StockBalanceResponse{
		WarehouseID:    b.WarehouseID.String(),
		ItemID:         b.ItemID.String(),
		Quantity:       b.Quantity,
		LastMovementAt: lastMovement,
	}
}

// StockMovementResponse represents stock movement in API responses.
type StockMovementResponse struct {
	LineID          string         `json:"lineId"`
	RecorderID      string         `json:"recorderId"`
	RecorderType    string         `json:"recorderType"`
	RecorderVersion int            `json:"recorderVersion"`
	Period          time.Time      `json:"period"`
	RecordType      string         `json:"recordType"`
	WarehouseID     string         `json:"warehouseId"`
	ItemID          string         `json:"itemId"`
	Quantity        types.Quantity `json:"quantity"`
	QtyBefore       types.Quantity `json:"qtyBefore"`
	QtyAfter        types.Quantity `json:"qtyAfter"`
	ValuationRate   types.Money    `json:"valuationRate"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// FromStockMovement converts entity to response DTO.
func FromStockMovement(m entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		LineID:          m.LineID.String(),
		RecorderID:      m.RecorderID.String(),
		RecorderType:    m.RecorderType,
		RecorderVersion: m.RecorderVersion,
		Period:          m.Period,
		RecordType:      string(m.RecordType),
		WarehouseID:     m.WarehouseID.String(),
		ItemID:          m.ItemID.String(),
		Quantity:        m.Quantity,
		QtyBefore:       m.QtyBefore,
		QtyAfter:        m.QtyAfter,
		ValuationRate:   m.ValuationRate,
		CreatedAt:       m.CreatedAt,
	}
}

// StockTurnoverResponse represents stock turnover report.
type StockTurnoverResponse struct {
	WarehouseID    string         `json:"warehouseId,omitempty"`
	ItemID         string         `json:"itemId,omitempty"`
	OpeningBalance types.Quantity `json:"openingBalance"`
	Receipt        types.Quantity `json:"receipt"`
	Expense        types.Quantity `json:"expense"`
	ClosingBalance types.Quantity `json:"closingBalance"`
}

// FromStockTurnover converts domain turnover to response DTO.
func FromStockTurnover(t stock.Turnover) StockTurnoverResponse {
	resp := StockTurnoverResponse{
		OpeningBalance: t.OpeningBalance,
		Receipt:        t.Receipt,
		Expense:        t.Expense,
		ClosingBalance: t.ClosingBalance,
	}
	if !id.IsNil(t.WarehouseID) {
		resp.WarehouseID = t.WarehouseID.String()
	}
	if !id.IsNil(t.ItemID) {
		resp.ItemID = t.ItemID.String()
	}
	return resp
}

// StockBalanceListResponse represents a list of stock balances.
type StockBalanceListResponse struct {
	Items []StockBalanceResponse `json:"items"`
}

// StockMovementListResponse represents a list of stock movements.
type StockMovementListResponse struct {
	Items      []StockMovementResponse `json:"items"`
	TotalCount int                     `json:"totalCount,omitempty"`
}
