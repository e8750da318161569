package catalog_repo

import (
	"tradecore/internal/domain/catalogs/salesperson"
	"tradecore/internal/infrastructure/storage/postgres"
)

const salespersonTable = "cat_salespersons"

// SalespersonRepo implements salesperson.Repository.
type SalespersonRepo struct {
	*BaseCatalogRepo[*salesperson.Salesperson]
}

// NewSalespersonRepo creates a new salesperson repository.
func NewSalespersonRepo() *SalespersonRepo {
	return &SalespersonRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*salesperson.Salesperson](
			salespersonTable,
			postgres.ExtractDBColumns[salesperson.Salesperson](),
			func() *salesperson.Salesperson { return &salesperson.Salesperson{} },
		),
	}
}
