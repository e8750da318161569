package handlers

import (
	"tradecore/internal/domain/catalogs/warehouse"
	"tradecore/internal/infrastructure/http/v1/dto"
)

// WarehouseHTTPHandler is an alias to keep wiring code short.
type WarehouseHTTPHandler = CatalogHandler[
	*warehouse.Warehouse,
	dto.CreateWarehouseRequest,
	dto.UpdateWarehouseRequest,
]

// NewWarehouseHandler is a factory hiding the generic configuration.
func NewWarehouseHandler(
	base *BaseHandler,
	service *warehouse.Service,
) *WarehouseHTTPHandler {

	config := CatalogHandlerConfig[
		*warehouse.Warehouse,
		dto.CreateWarehouseRequest,
		dto.UpdateWarehouseRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "warehouse",

		MapCreateDTO: func(req dto.CreateWarehouseRequest) *warehouse.Warehouse {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateWarehouseRequest, existing *warehouse.Warehouse) *warehouse.Warehouse {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *warehouse.Warehouse) any {
			return dto.FromWarehouse(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
