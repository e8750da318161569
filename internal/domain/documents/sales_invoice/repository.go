package sales_invoice

import (
	"context"
	"time"

	"tradecore/internal/core/id"
	"tradecore/internal/domain"
)

// Repository defines operations for sales invoice documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *SalesInvoice) error
	GetByID(ctx context.Context, docID id.ID) (*SalesInvoice, error)
	GetByNumber(ctx context.Context, number string) (*SalesInvoice, error)
	Update(ctx context.Context, doc *SalesInvoice) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*SalesInvoice], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*SalesInvoice, error)
}

// ListFilter for filtering sales invoices.
type ListFilter struct {
	domain.ListFilter

	CustomerID    *id.ID
	WarehouseID   *id.ID
	SalespersonID *id.ID
	Status        *string
	Posted        *bool
	DateFrom      *time.Time
	DateTo        *time.Time
}
