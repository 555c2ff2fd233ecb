package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"wareflow/internal/core/id"
	"wareflow/internal/domain"
	"wareflow/internal/infrastructure/http/v1/dto"
)

// CatalogService is the service surface BaseCatalogHandler needs.
type CatalogService[T any] interface {
	Create(ctx context.Context, entity T) error
	GetByID(ctx context.Context, entityID id.ID) (T, error)
	GetByCode(ctx context.Context, code string) (T, error)
	Update(ctx context.Context, entity T) error
	Deactivate(ctx context.Context, entityID id.ID) error
	SetActive(ctx context.Context, entityID id.ID, active bool) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error)
}

// Identifiable is anything with a stable ID.
type Identifiable interface {
	GetID() id.ID
}

// BaseCatalogHandler provides generic HTTP handlers for catalog entities.
type BaseCatalogHandler[T Identifiable, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service CatalogService[T]

	mapCreateDTO func(req CreateDTO) (T, error)
	applyUpdate  func(req UpdateDTO, existing T) error
}

// BaseCatalogHandlerConfig configures the catalog handler.
type BaseCatalogHandlerConfig[T Identifiable, CreateDTO any, UpdateDTO any] struct {
	Service      CatalogService[T]
	MapCreateDTO func(req CreateDTO) (T, error)
	ApplyUpdate  func(req UpdateDTO, existing T) error
}

// NewBaseCatalogHandler creates a new base catalog handler.
func NewBaseCatalogHandler[T Identifiable, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg BaseCatalogHandlerConfig[T, CreateDTO, UpdateDTO],
) *BaseCatalogHandler[T, CreateDTO, UpdateDTO] {
	return &BaseCatalogHandler[T, CreateDTO, UpdateDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		mapCreateDTO: cfg.MapCreateDTO,
		applyUpdate:  cfg.ApplyUpdate,
	}
}

// Create handles POST /{catalog}.
func (h *BaseCatalogHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	entity, err := h.mapCreateDTO(req)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, entity); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, entity)
}

// Get handles GET /{catalog}/:id.
func (h *BaseCatalogHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	entity, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, entity)
}

// GetByCode handles GET /{catalog}/by-code/:code.
func (h *BaseCatalogHandler[T, CreateDTO, UpdateDTO]) GetByCode(c *gin.Context) {
	entity, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, entity)
}

// Update handles PUT /{catalog}/:id.
func (h *BaseCatalogHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	entity, err := h.service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.applyUpdate(req, entity); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, entity); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, entity)
}

// Deactivate handles DELETE /{catalog}/:id. Catalogs are never
// physically removed; ledger history keeps referring to them.
func (h *BaseCatalogHandler[T, CreateDTO, UpdateDTO]) Deactivate(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "deactivated")
}

// Activate handles POST /{catalog}/:id/activate.
func (h *BaseCatalogHandler[T, CreateDTO, UpdateDTO]) Activate(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.SetActive(c.Request.Context(), entityID, true); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "activated")
}

// List handles GET /{catalog}.
func (h *BaseCatalogHandler[T, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.IncludeInactive = c.Query("includeInactive") == "true"
	filter.OrderBy = c.Query("orderBy")
	filter.Limit = h.ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result))
}
