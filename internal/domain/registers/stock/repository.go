// Package stock provides the stock accumulation register.
package stock

import (
	"context"
	"time"

	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
)

// Repository defines operations for the stock register.
// Movement writes and balance updates run inside the caller's transaction.
type Repository interface {
	// Movement operations

	// CreateMovements batch inserts movements (used during posting)
	CreateMovements(ctx context.Context, movements []entity.StockMovement) error

	// DeleteMovementsByRecorder removes all movements for a document version
	// Used during unposting or re-posting
	DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID, beforeVersion int) error

	// GetMovementsByRecorder retrieves all movements for a document
	GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error)

	// Balance operations

	// GetBalance returns current balance for warehouse+item
	GetBalance(ctx context.Context, warehouseID, itemID id.ID) (entity.StockBalance, error)

	// EnsureBalanceRow inserts a zero balance row if absent, so a
	// subsequent FOR UPDATE always has a row to lock
	EnsureBalanceRow(ctx context.Context, warehouseID, itemID id.ID) error

	// GetBalanceForUpdate returns balance with row lock for stock control
	GetBalanceForUpdate(ctx context.Context, warehouseID, itemID id.ID) (entity.StockBalance, error)

	// UpdateBalance writes the new quantity for a locked balance row
	UpdateBalance(ctx context.Context, warehouseID, itemID id.ID, quantity types.Quantity, movementAt time.Time) error

	// GetBalancesByWarehouse returns balances for a warehouse
	GetBalancesByWarehouse(ctx context.Context, warehouseID id.ID, filter BalanceFilter) ([]entity.StockBalance, error)

	// GetBalancesByItem returns balances across all warehouses for an item
	GetBalancesByItem(ctx context.Context, itemID id.ID) ([]entity.StockBalance, error)

	// Reporting

	// GetMovementHistory returns movement history for an item
	GetMovementHistory(ctx context.Context, itemID id.ID, filter MovementFilter) ([]entity.StockMovement, error)

	// GetTurnover calculates receipt and expense totals for period
	GetTurnover(ctx context.Context, filter TurnoverFilter) (Turnover, error)
}

// BalanceFilter for filtering balance queries.
type BalanceFilter struct {
	ItemIDs     []id.ID
	ExcludeZero bool
	MinQuantity *types.Quantity
	MaxQuantity *types.Quantity
}

// MovementFilter for filtering movement history.
type MovementFilter struct {
	WarehouseID *id.ID
	RecordType  *entity.RecordType
	FromDate    *time.Time
	ToDate      *time.Time
	Limit       int
	Offset      int
}

// TurnoverFilter for turnover reports.
type TurnoverFilter struct {
	WarehouseID *id.ID
	ItemID      *id.ID
	FromDate    time.Time
	ToDate      time.Time
}

// Turnover represents receipt/expense totals.
type Turnover struct {
	WarehouseID    id.ID          `json:"warehouseId,omitempty"`
	ItemID         id.ID          `json:"itemId,omitempty"`
	OpeningBalance types.Quantity `json:"openingBalance"`
	Receipt        types.Quantity `json:"receipt"`
	Expense        types.Quantity `json:"expense"`
	ClosingBalance types.Quantity `json:"closingBalance"`
}
