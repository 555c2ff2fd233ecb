package domain

import (
	"time"

	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
)

// DocumentFilter contains common filtering options for document lists.
type DocumentFilter struct {
	// Status filters by workflow state
	Status *entity.Status

	// WarehouseID matches any warehouse reference on the document
	WarehouseID *id.ID

	// From and To bound the business date
	From *time.Time
	To   *time.Time

	// Search matches the document number
	Search string

	// OrderBy specifies sorting (default "-date")
	OrderBy string

	Limit  int
	Offset int
}

// DefaultDocumentFilter returns sensible defaults.
func DefaultDocumentFilter() DocumentFilter {
	return DocumentFilter{
		Limit:   50,
		OrderBy: "-date",
	}
}
