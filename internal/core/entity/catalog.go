package entity

import (
	"context"

	"wareflow/internal/core/apperror"
)

// Catalog is the base type for reference data.
// Examples: Product, Warehouse, Category.
type Catalog struct {
	BaseEntity
	Timestamps

	// Code is a human-readable identifier, unique within the catalog.
	// Assigned by the user or generated by the numerator.
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`

	// IsActive marks the record usable in new documents. Inactive records
	// stay referenced by history but are rejected on document completion.
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Code:       code,
		Name:       name,
		IsActive:   true,
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	// Code can be auto-generated, so it's optional at creation
	// but required at save time

	return nil
}

func (c *Catalog) GetCode() string  { return c.Code }
func (c *Catalog) SetCode(v string) { c.Code = v }
func (c *Catalog) GetName() string  { return c.Name }
