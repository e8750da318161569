package handlers

import (
	"tradecore/internal/domain/catalogs/item"
	"tradecore/internal/infrastructure/http/v1/dto"
)

// ItemHTTPHandler is an alias to keep wiring code short.
type ItemHTTPHandler = CatalogHandler[
	*item.Item,
	dto.CreateItemRequest,
	dto.UpdateItemRequest,
]

// NewItemHandler is a factory hiding the generic configuration.
func NewItemHandler(
	base *BaseHandler,
	service *item.Service,
) *ItemHTTPHandler {

	config := CatalogHandlerConfig[
		*item.Item,
		dto.CreateItemRequest,
		dto.UpdateItemRequest,
	]{
		// Use the generic service embedded in the item service
		Service:    service.CatalogService,
		EntityName: "item",

		MapCreateDTO: func(req dto.CreateItemRequest) *item.Item {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateItemRequest, existing *item.Item) *item.Item {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *item.Item) any {
			return dto.FromItem(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
