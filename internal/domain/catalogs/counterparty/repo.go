package counterparty

import (
	"context"

	"tradecore/internal/domain"
)

// Repository defines the interface for Counterparty persistence.
type Repository interface {
	domain.CatalogRepository[*Counterparty]

	// FindByTaxID retrieves counterparty by tax id (unique within tenant).
	FindByTaxID(ctx context.Context, taxID string) (*Counterparty, error)
}
