package handlers

import (
	"wareflow/internal/domain/catalogs/warehouse"
	"wareflow/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler handles HTTP requests for warehouses.
type WarehouseHandler struct {
	*BaseCatalogHandler[*warehouse.Warehouse, dto.CreateWarehouseRequest, dto.UpdateWarehouseRequest]
}

// NewWarehouseHandler creates a new warehouse handler.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHandler {
	cfg := BaseCatalogHandlerConfig[*warehouse.Warehouse, dto.CreateWarehouseRequest, dto.UpdateWarehouseRequest]{
		Service: service,
		MapCreateDTO: func(req dto.CreateWarehouseRequest) (*warehouse.Warehouse, error) {
			return req.ToEntity(), nil
		},
		ApplyUpdate: func(req dto.UpdateWarehouseRequest, existing *warehouse.Warehouse) error {
			req.ApplyTo(existing)
			return nil
		},
	}

	return &WarehouseHandler{
		BaseCatalogHandler: NewBaseCatalogHandler(base, cfg),
	}
}
