// Package commission provides the salesperson commission accrual register.
package commission

import (
	"context"
	"time"

	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
)

// Repository defines operations for the commission register.
type Repository interface {
	// CreateAccruals batch inserts accruals (used during posting)
	CreateAccruals(ctx context.Context, accruals []entity.CommissionMovement) error

	// DeleteAccrualsByRecorder removes accruals for a document
	DeleteAccrualsByRecorder(ctx context.Context, recorderID id.ID) error

	// GetAccrualsByRecorder retrieves accruals for a document
	GetAccrualsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.CommissionMovement, error)

	// GetAccruedTotal sums accrued commission for a salesperson in a period
	GetAccruedTotal(ctx context.Context, salespersonID id.ID, from, to time.Time) (types.Money, error)

	// GetAccrualsBySalesperson lists accruals for a salesperson
	GetAccrualsBySalesperson(ctx context.Context, salespersonID id.ID, filter AccrualFilter) ([]entity.CommissionMovement, error)
}

// AccrualFilter for listing accruals.
type AccrualFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}
