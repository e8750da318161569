package delivery_note

import (
	"context"
	"time"

	"tradecore/internal/core/id"
	"tradecore/internal/domain"
)

// Repository defines operations for delivery note documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *DeliveryNote) error
	GetByID(ctx context.Context, docID id.ID) (*DeliveryNote, error)
	GetByNumber(ctx context.Context, number string) (*DeliveryNote, error)
	Update(ctx context.Context, doc *DeliveryNote) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*DeliveryNote], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*DeliveryNote, error)
}

// ListFilter for filtering delivery notes.
type ListFilter struct {
	domain.ListFilter

	SupplierID  *id.ID
	WarehouseID *id.ID
	Status      *string
	Posted      *bool
	DateFrom    *time.Time
	DateTo      *time.Time
}
