package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wareflow/internal/core/id"
	"wareflow/internal/domain/documents/adjustment"
	"wareflow/internal/infrastructure/http/v1/dto"
)

// AdjustmentHandler handles HTTP requests for stock adjustment documents.
type AdjustmentHandler struct {
	*BaseDocumentHandler[*adjustment.Adjustment, dto.CreateAdjustmentRequest, dto.UpdateAdjustmentRequest]
	service *adjustment.Service
}

// NewAdjustmentHandler creates a new adjustment handler.
func NewAdjustmentHandler(base *BaseHandler, service *adjustment.Service) *AdjustmentHandler {
	cfg := BaseDocumentHandlerConfig[*adjustment.Adjustment, dto.CreateAdjustmentRequest, dto.UpdateAdjustmentRequest]{
		Service: service,
		MapCreateDTO: func(req dto.CreateAdjustmentRequest, createdBy id.ID) (*adjustment.Adjustment, error) {
			return req.ToEntity(createdBy)
		},
		ApplyUpdate: func(req dto.UpdateAdjustmentRequest, existing *adjustment.Adjustment) error {
			return req.ApplyTo(existing)
		},
	}

	return &AdjustmentHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, cfg),
		service:             service,
	}
}

// Create overrides the base create to support completeImmediately,
// which applies the count in the same request.
func (h *AdjustmentHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateAdjustmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	createdBy, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	doc, err := req.ToEntity(createdBy)
	if err != nil {
		h.Error(c, err)
		return
	}

	if req.CompleteImmediately {
		doc, err = h.service.CreateAndComplete(ctx, doc)
	} else {
		err = h.service.Create(ctx, doc)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}
