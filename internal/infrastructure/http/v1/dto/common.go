// Package dto provides request and response shapes for the HTTP API.
// Domain entities carry JSON tags and serialize directly; this package
// holds the request side plus shared wrappers.
package dto

import (
	"time"

	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
	"wareflow/internal/domain"
)

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// NewListResponse builds a ListResponse from a domain list result.
func NewListResponse[T any](r domain.ListResult[T]) ListResponse {
	items := r.Items
	if items == nil {
		items = []T{}
	}
	return ListResponse{
		Items:      items,
		TotalCount: r.TotalCount,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}
}

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates an ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// TransitionRequest asks for a workflow state change.
type TransitionRequest struct {
	Target string `json:"target" binding:"required"`
}

// DocumentFilterRequest contains common document list parameters.
type DocumentFilterRequest struct {
	Status      string     `form:"status"`
	WarehouseID string     `form:"warehouseId"`
	From        *time.Time `form:"from"`
	To          *time.Time `form:"to"`
	Search      string     `form:"search"`
	OrderBy     string     `form:"orderBy"`
	Limit       int        `form:"limit"`
	Offset      int        `form:"offset"`
}

// ToFilter converts request parameters to a domain filter.
func (r DocumentFilterRequest) ToFilter() (domain.DocumentFilter, error) {
	filter := domain.DefaultDocumentFilter()

	if r.Status != "" {
		status := entity.Status(r.Status)
		filter.Status = &status
	}
	if r.WarehouseID != "" {
		whID, err := id.Parse(r.WarehouseID)
		if err != nil {
			return filter, err
		}
		filter.WarehouseID = &whID
	}
	filter.From = r.From
	filter.To = r.To
	filter.Search = r.Search
	if r.OrderBy != "" {
		filter.OrderBy = r.OrderBy
	}
	if r.Limit > 0 {
		filter.Limit = r.Limit
	}
	if r.Offset > 0 {
		filter.Offset = r.Offset
	}

	return filter, nil
}
