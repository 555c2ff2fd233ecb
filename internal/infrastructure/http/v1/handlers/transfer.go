package handlers

import (
	"wareflow/internal/core/id"
	"wareflow/internal/domain/documents/transfer"
	"wareflow/internal/infrastructure/http/v1/dto"
)

// TransferHandler handles HTTP requests for internal transfer documents.
type TransferHandler struct {
	*BaseDocumentHandler[*transfer.Transfer, dto.CreateTransferRequest, dto.UpdateTransferRequest]
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(base *BaseHandler, service *transfer.Service) *TransferHandler {
	cfg := BaseDocumentHandlerConfig[*transfer.Transfer, dto.CreateTransferRequest, dto.UpdateTransferRequest]{
		Service: service,
		MapCreateDTO: func(req dto.CreateTransferRequest, createdBy id.ID) (*transfer.Transfer, error) {
			return req.ToEntity(createdBy)
		},
		ApplyUpdate: func(req dto.UpdateTransferRequest, existing *transfer.Transfer) error {
			return req.ApplyTo(existing)
		},
	}

	return &TransferHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, cfg),
	}
}
