package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
)

type mockCatalog struct {
	entity.Catalog
	SKU    string `db:"sku" json:"sku"`
	Hidden string `db:"-" json:"-"`
	NoTag  string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	for _, expected := range []string{
		"id", "version", "created_at", "updated_at",
		"code", "name", "is_active", "sku",
	} {
		assert.Contains(t, cols, expected)
	}

	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "Hidden")
	assert.NotContains(t, cols, "NoTag")
}

func TestStructToMap(t *testing.T) {
	cat := mockCatalog{
		Catalog: entity.Catalog{
			BaseEntity: entity.BaseEntity{
				ID:      id.New(),
				Version: 5,
			},
			Code:     "WH-001",
			Name:     "Main warehouse",
			IsActive: true,
		},
		SKU:    "CBL-USBC-1M",
		Hidden: "not stored",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "WH-001", m["code"])
	assert.Equal(t, "Main warehouse", m["name"])
	assert.Equal(t, true, m["is_active"])
	assert.Equal(t, "CBL-USBC-1M", m["sku"])

	_, ok := m["-"]
	assert.False(t, ok)
	assert.NotContains(t, m, "Hidden")
}

func TestStructToMap_PointerAndNonStruct(t *testing.T) {
	cat := &mockCatalog{SKU: "MSE-WRL-01"}
	m := StructToMap(cat)
	assert.Equal(t, "MSE-WRL-01", m["sku"])

	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap("nope"))
}
