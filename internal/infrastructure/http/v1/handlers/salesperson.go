package handlers

import (
	"tradecore/internal/domain/catalogs/salesperson"
	"tradecore/internal/infrastructure/http/v1/dto"
)

// SalespersonHTTPHandler is an alias to keep wiring code short.
type SalespersonHTTPHandler = CatalogHandler[
	*salesperson.Salesperson,
	dto.CreateSalespersonRequest,
	dto.UpdateSalespersonRequest,
]

// NewSalespersonHandler is a factory hiding the generic configuration.
func NewSalespersonHandler(
	base *BaseHandler,
	service *salesperson.Service,
) *SalespersonHTTPHandler {

	config := CatalogHandlerConfig[
		*salesperson.Salesperson,
		dto.CreateSalespersonRequest,
		dto.UpdateSalespersonRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "salesperson",

		MapCreateDTO: func(req dto.CreateSalespersonRequest) *salesperson.Salesperson {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateSalespersonRequest, existing *salesperson.Salesperson) *salesperson.Salesperson {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *salesperson.Salesperson) any {
			return dto.FromSalesperson(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
