package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"wareflow/internal/core/apperror"
	"wareflow/internal/core/entity"
	"wareflow/internal/core/id"
	"wareflow/internal/domain"
	"wareflow/internal/infrastructure/http/v1/dto"
)

// DocumentService is the service surface BaseDocumentHandler needs.
type DocumentService[T any] interface {
	Create(ctx context.Context, doc T) error
	GetByID(ctx context.Context, docID id.ID) (T, error)
	Update(ctx context.Context, doc T) error
	List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[T], error)
	Delete(ctx context.Context, docID id.ID) error
	Transition(ctx context.Context, docID id.ID, target entity.Status) (T, error)
	Complete(ctx context.Context, docID id.ID) (T, error)
}

// BaseDocumentHandler provides generic HTTP handlers for documents.
type BaseDocumentHandler[T Identifiable, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service DocumentService[T]

	mapCreateDTO func(req CreateDTO, createdBy id.ID) (T, error)
	applyUpdate  func(req UpdateDTO, existing T) error
}

// BaseDocumentHandlerConfig configures the document handler.
type BaseDocumentHandlerConfig[T Identifiable, CreateDTO any, UpdateDTO any] struct {
	Service      DocumentService[T]
	MapCreateDTO func(req CreateDTO, createdBy id.ID) (T, error)
	ApplyUpdate  func(req UpdateDTO, existing T) error
}

// NewBaseDocumentHandler creates a new base document handler.
func NewBaseDocumentHandler[T Identifiable, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg BaseDocumentHandlerConfig[T, CreateDTO, UpdateDTO],
) *BaseDocumentHandler[T, CreateDTO, UpdateDTO] {
	return &BaseDocumentHandler[T, CreateDTO, UpdateDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		mapCreateDTO: cfg.MapCreateDTO,
		applyUpdate:  cfg.ApplyUpdate,
	}
}

// Create handles POST /{documents}.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	createdBy, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	doc, err := h.mapCreateDTO(req, createdBy)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// Get handles GET /{documents}/:id.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// Update handles PUT /{documents}/:id. Only drafts are editable.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.applyUpdate(req, doc); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// Delete handles DELETE /{documents}/:id. Only drafts can be removed.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "document deleted")
}

// List handles GET /{documents}.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	var req dto.DocumentFilterRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid filter").WithDetail("error", err.Error()))
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result))
}

// Transition handles POST /{documents}/:id/transition.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Transition(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.TransitionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	target := entity.Status(req.Target)
	if !target.Valid() {
		h.Error(c, apperror.NewValidation("unknown target status").WithDetail("target", req.Target))
		return
	}

	doc, err := h.service.Transition(c.Request.Context(), docID, target)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// Complete handles POST /{documents}/:id/complete, walking the document
// through the remaining states to done.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Complete(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.Complete(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}
