package salesperson

import (
	"tradecore/internal/domain"
)

// Repository defines the interface for Salesperson persistence.
type Repository interface {
	domain.CatalogRepository[*Salesperson]
}
