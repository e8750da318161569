// Package journal provides the double-entry financial journal register.
package journal

import (
	"context"
	"time"

	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
)

// Well-known ledger accounts used by downstream posters.
const (
	AccountReceivable = "accounts_receivable"
	AccountSales      = "sales_revenue"
	AccountCOGS       = "cost_of_goods_sold"
	AccountInventory  = "inventory"
)

// Repository defines operations for the journal register.
type Repository interface {
	// CreateEntries batch inserts journal lines (used during posting)
	CreateEntries(ctx context.Context, entries []entity.JournalMovement) error

	// DeleteEntriesByRecorder removes all lines for a document
	DeleteEntriesByRecorder(ctx context.Context, recorderID id.ID) error

	// GetEntriesByRecorder retrieves all lines for a document
	GetEntriesByRecorder(ctx context.Context, recorderID id.ID) ([]entity.JournalMovement, error)

	// GetAccountBalance returns debit minus credit for an account up to a date
	GetAccountBalance(ctx context.Context, account string, until time.Time) (types.Money, error)

	// GetEntriesByAccount lists lines for an account in a period
	GetEntriesByAccount(ctx context.Context, account string, filter EntryFilter) ([]entity.JournalMovement, error)
}

// EntryFilter for listing journal lines.
type EntryFilter struct {
	CounterpartyID *id.ID
	FromDate       *time.Time
	ToDate         *time.Time
	Limit          int
	Offset         int
}
