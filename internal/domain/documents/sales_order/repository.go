package sales_order

import (
	"context"
	"time"

	"tradecore/internal/core/id"
	"tradecore/internal/domain"
)

// Repository defines operations for sales order documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *SalesOrder) error
	GetByID(ctx context.Context, docID id.ID) (*SalesOrder, error)
	GetByNumber(ctx context.Context, number string) (*SalesOrder, error)
	Update(ctx context.Context, doc *SalesOrder) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*SalesOrder], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*SalesOrder, error)
}

// ListFilter for filtering sales orders.
type ListFilter struct {
	domain.ListFilter

	CustomerID  *id.ID
	WarehouseID *id.ID
	Status      *string
	DateFrom    *time.Time
	DateTo      *time.Time
}
