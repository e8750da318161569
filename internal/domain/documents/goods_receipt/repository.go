package goods_receipt

import (
	"context"
	"time"

	"tradecore/internal/core/id"
	"tradecore/internal/domain"
)

// Repository defines operations for goods receipt documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *GoodsReceipt) error
	GetByID(ctx context.Context, docID id.ID) (*GoodsReceipt, error)
	GetByNumber(ctx context.Context, number string) (*GoodsReceipt, error)
	Update(ctx context.Context, doc *GoodsReceipt) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*GoodsReceipt], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*GoodsReceipt, error)
}

// ListFilter for filtering goods receipts.
type ListFilter struct {
	domain.ListFilter

	SupplierID  *id.ID
	WarehouseID *id.ID
	Status      *string
	Posted      *bool
	DateFrom    *time.Time
	DateTo      *time.Time
}
