package item

import (
	"context"

	"tradecore/internal/core/id"
	"tradecore/internal/domain"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	domain.CatalogRepository[*Item]

	// FindBySKU retrieves an item by SKU.
	FindBySKU(ctx context.Context, sku string) (*Item, error)

	// FindByBarcode retrieves an item by barcode.
	FindByBarcode(ctx context.Context, barcode string) (*Item, error)

	// GetWithPackagings retrieves an item with its packaging rows loaded.
	GetWithPackagings(ctx context.Context, id id.ID) (*Item, error)

	// ReplacePackagings rewrites the packaging rows of an item.
	ReplacePackagings(ctx context.Context, itemID id.ID, packagings []Packaging) error
}
