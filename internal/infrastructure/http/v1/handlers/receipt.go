package handlers

import (
	"wareflow/internal/core/id"
	"wareflow/internal/domain/documents/receipt"
	"wareflow/internal/infrastructure/http/v1/dto"
)

// ReceiptHandler handles HTTP requests for receipt documents.
type ReceiptHandler struct {
	*BaseDocumentHandler[*receipt.Receipt, dto.CreateReceiptRequest, dto.UpdateReceiptRequest]
}

// NewReceiptHandler creates a new receipt handler.
func NewReceiptHandler(base *BaseHandler, service *receipt.Service) *ReceiptHandler {
	cfg := BaseDocumentHandlerConfig[*receipt.Receipt, dto.CreateReceiptRequest, dto.UpdateReceiptRequest]{
		Service: service,
		MapCreateDTO: func(req dto.CreateReceiptRequest, createdBy id.ID) (*receipt.Receipt, error) {
			return req.ToEntity(createdBy)
		},
		ApplyUpdate: func(req dto.UpdateReceiptRequest, existing *receipt.Receipt) error {
			return req.ApplyTo(existing)
		},
	}

	return &ReceiptHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, cfg),
	}
}
