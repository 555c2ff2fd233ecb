package delivery

import (
	"context"

	"wareflow/internal/core/id"
	"wareflow/internal/domain"
)

// Repository defines persistence for delivery documents.
type Repository interface {
	Create(ctx context.Context, doc *Delivery) error

	// Update saves the document header with an optimistic version check.
	Update(ctx context.Context, doc *Delivery) error

	// Delete removes the document and its lines. Only services call
	// this, after checking the document is still a draft.
	Delete(ctx context.Context, docID id.ID) error

	GetByID(ctx context.Context, docID id.ID) (*Delivery, error)

	SaveLines(ctx context.Context, docID id.ID, lines []Line) error
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)

	List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*Delivery], error)
}
