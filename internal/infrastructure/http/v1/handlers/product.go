package handlers

import (
	"github.com/gin-gonic/gin"

	"wareflow/internal/domain/catalogs/product"
	"wareflow/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	*BaseCatalogHandler[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]
	service *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	cfg := BaseCatalogHandlerConfig[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]{
		Service: service,
		MapCreateDTO: func(req dto.CreateProductRequest) (*product.Product, error) {
			return req.ToEntity()
		},
		ApplyUpdate: func(req dto.UpdateProductRequest, existing *product.Product) error {
			return req.ApplyTo(existing)
		},
	}

	return &ProductHandler{
		BaseCatalogHandler: NewBaseCatalogHandler(base, cfg),
		service:            service,
	}
}

// GetBySKU handles GET /products/by-sku/:sku.
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	p, err := h.service.GetBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}
