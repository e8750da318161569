package stock_adjustment

import (
	"context"
	"time"

	"tradecore/internal/core/id"
	"tradecore/internal/domain"
)

// Repository defines operations for stock adjustment documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *StockAdjustment) error
	GetByID(ctx context.Context, docID id.ID) (*StockAdjustment, error)
	GetByNumber(ctx context.Context, number string) (*StockAdjustment, error)
	Update(ctx context.Context, doc *StockAdjustment) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockAdjustment], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*StockAdjustment, error)
}

// ListFilter for filtering stock adjustments.
type ListFilter struct {
	domain.ListFilter

	WarehouseID *id.ID
	Status      *string
	Posted      *bool
	DateFrom    *time.Time
	DateTo      *time.Time
}
