package handlers

import (
	"github.com/gin-gonic/gin"

	"wareflow/internal/core/apperror"
	"wareflow/internal/domain/ledger"
	"wareflow/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for stock levels and the
// movement ledger.
type StockHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *ledger.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Levels handles GET /stock/levels.
func (h *StockHandler) Levels(c *gin.Context) {
	var req dto.LevelFilterRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid filter").WithDetail("error", err.Error()))
		return
	}

	levels, total, err := h.service.Levels(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      levels,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// Movements handles GET /stock/movements.
func (h *StockHandler) Movements(c *gin.Context) {
	var req dto.MovementFilterRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid filter").WithDetail("error", err.Error()))
		return
	}

	entries, total, err := h.service.Movements(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      entries,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// LowStock handles GET /stock/low.
func (h *StockHandler) LowStock(c *gin.Context) {
	rows, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if rows == nil {
		rows = []ledger.LowStockRow{}
	}

	h.OK(c, gin.H{"items": rows})
}

// Verify handles GET /stock/verify, comparing the projection against
// the ledger.
func (h *StockHandler) Verify(c *gin.Context) {
	mismatches, err := h.service.VerifyConsistency(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if mismatches == nil {
		mismatches = []ledger.Mismatch{}
	}

	h.OK(c, dto.ConsistencyResponse{
		Consistent: len(mismatches) == 0,
		Mismatches: mismatches,
	})
}

// Rebuild handles POST /stock/rebuild, recomputing the projection
// from the ledger.
func (h *StockHandler) Rebuild(c *gin.Context) {
	if err := h.service.Rebuild(c.Request.Context()); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "stock levels rebuilt")
}
