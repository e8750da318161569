package handlers

import (
	"tradecore/internal/domain/catalogs/counterparty"
	"tradecore/internal/infrastructure/http/v1/dto"
)

// CounterpartyHTTPHandler is an alias to keep wiring code short.
type CounterpartyHTTPHandler = CatalogHandler[
	*counterparty.Counterparty,
	dto.CreateCounterpartyRequest,
	dto.UpdateCounterpartyRequest,
]

// NewCounterpartyHandler is a factory hiding the generic configuration.
func NewCounterpartyHandler(
	base *BaseHandler,
	service *counterparty.Service,
) *CounterpartyHTTPHandler {

	config := CatalogHandlerConfig[
		*counterparty.Counterparty,
		dto.CreateCounterpartyRequest,
		dto.UpdateCounterpartyRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "counterparty",

		MapCreateDTO: func(req dto.CreateCounterpartyRequest) *counterparty.Counterparty {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateCounterpartyRequest, existing *counterparty.Counterparty) *counterparty.Counterparty {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *counterparty.Counterparty) any {
			return dto.FromCounterparty(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
