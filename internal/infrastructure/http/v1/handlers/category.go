package handlers

import (
	"wareflow/internal/domain/catalogs/category"
	"wareflow/internal/infrastructure/http/v1/dto"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	*BaseCatalogHandler[*category.Category, dto.CreateCategoryRequest, dto.UpdateCategoryRequest]
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(base *BaseHandler, service *category.Service) *CategoryHandler {
	cfg := BaseCatalogHandlerConfig[*category.Category, dto.CreateCategoryRequest, dto.UpdateCategoryRequest]{
		Service: service,
		MapCreateDTO: func(req dto.CreateCategoryRequest) (*category.Category, error) {
			return req.ToEntity(), nil
		},
		ApplyUpdate: func(req dto.UpdateCategoryRequest, existing *category.Category) error {
			req.ApplyTo(existing)
			return nil
		},
	}

	return &CategoryHandler{
		BaseCatalogHandler: NewBaseCatalogHandler(base, cfg),
	}
}
