package dto

import (
	"wareflow/internal/core/id"
	"wareflow/internal/core/types"
	"wareflow/internal/domain/catalogs/category"
	"wareflow/internal/domain/catalogs/product"
	"wareflow/internal/domain/catalogs/warehouse"
)

// --- Product ---

// CreateProductRequest for creating products. Code is optional; a
// sequential one is assigned when empty.
type CreateProductRequest struct {
	Code          string         `json:"code"`
	Name          string         `json:"name" binding:"required"`
	SKU           string         `json:"sku" binding:"required"`
	Description   *string        `json:"description"`
	CategoryID    *string        `json:"categoryId"`
	UnitOfMeasure string         `json:"unitOfMeasure"`
	ReorderLevel  types.Quantity `json:"reorderLevel"`
}

// ToEntity converts the request to a domain product.
func (r CreateProductRequest) ToEntity() (*product.Product, error) {
	p := product.New(r.Code, r.Name, r.SKU)
	p.Description = r.Description
	p.UnitOfMeasure = r.UnitOfMeasure
	p.ReorderLevel = r.ReorderLevel

	if r.CategoryID != nil && *r.CategoryID != "" {
		catID, err := id.Parse(*r.CategoryID)
		if err != nil {
			return nil, err
		}
		p.CategoryID = &catID
	}

	return p, nil
}

// UpdateProductRequest for updating products. Version carries the
// optimistic lock token.
type UpdateProductRequest struct {
	Name          *string         `json:"name"`
	SKU           *string         `json:"sku"`
	Description   *string         `json:"description"`
	CategoryID    *string         `json:"categoryId"`
	UnitOfMeasure *string         `json:"unitOfMeasure"`
	ReorderLevel  *types.Quantity `json:"reorderLevel"`
	Version       int             `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request into an existing product.
func (r UpdateProductRequest) ApplyTo(p *product.Product) error {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.SKU != nil {
		p.SKU = *r.SKU
	}
	if r.Description != nil {
		p.Description = r.Description
	}
	if r.CategoryID != nil {
		if *r.CategoryID == "" {
			p.CategoryID = nil
		} else {
			catID, err := id.Parse(*r.CategoryID)
			if err != nil {
				return err
			}
			p.CategoryID = &catID
		}
	}
	if r.UnitOfMeasure != nil {
		p.UnitOfMeasure = *r.UnitOfMeasure
	}
	if r.ReorderLevel != nil {
		p.ReorderLevel = *r.ReorderLevel
	}
	p.Version = r.Version
	return nil
}

// --- Category ---

// CreateCategoryRequest for creating categories.
type CreateCategoryRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// ToEntity converts the request to a domain category.
func (r CreateCategoryRequest) ToEntity() *category.Category {
	c := category.New(r.Code, r.Name)
	c.Description = r.Description
	return c
}

// UpdateCategoryRequest for updating categories.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Version     int     `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request into an existing category.
func (r UpdateCategoryRequest) ApplyTo(c *category.Category) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Description != nil {
		c.Description = r.Description
	}
	c.Version = r.Version
}

// --- Warehouse ---

// CreateWarehouseRequest for creating warehouses.
type CreateWarehouseRequest struct {
	Code      string  `json:"code"`
	Name      string  `json:"name" binding:"required"`
	Address   *string `json:"address"`
	IsDefault bool    `json:"isDefault"`
}

// ToEntity converts the request to a domain warehouse.
func (r CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	wh := warehouse.New(r.Code, r.Name)
	wh.Address = r.Address
	wh.IsDefault = r.IsDefault
	return wh
}

// UpdateWarehouseRequest for updating warehouses.
type UpdateWarehouseRequest struct {
	Name      *string `json:"name"`
	Address   *string `json:"address"`
	IsDefault *bool   `json:"isDefault"`
	Version   int     `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request into an existing warehouse.
func (r UpdateWarehouseRequest) ApplyTo(wh *warehouse.Warehouse) {
	if r.Name != nil {
		wh.Name = *r.Name
	}
	if r.Address != nil {
		wh.Address = r.Address
	}
	if r.IsDefault != nil {
		wh.IsDefault = *r.IsDefault
	}
	wh.Version = r.Version
}
