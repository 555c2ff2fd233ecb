package handlers

import (
	"wareflow/internal/core/id"
	"wareflow/internal/domain/documents/delivery"
	"wareflow/internal/infrastructure/http/v1/dto"
)

// DeliveryHandler handles HTTP requests for delivery documents.
type DeliveryHandler struct {
	*BaseDocumentHandler[*delivery.Delivery, dto.CreateDeliveryRequest, dto.UpdateDeliveryRequest]
}

// NewDeliveryHandler creates a new delivery handler.
func NewDeliveryHandler(base *BaseHandler, service *delivery.Service) *DeliveryHandler {
	cfg := BaseDocumentHandlerConfig[*delivery.Delivery, dto.CreateDeliveryRequest, dto.UpdateDeliveryRequest]{
		Service: service,
		MapCreateDTO: func(req dto.CreateDeliveryRequest, createdBy id.ID) (*delivery.Delivery, error) {
			return req.ToEntity(createdBy)
		},
		ApplyUpdate: func(req dto.UpdateDeliveryRequest, existing *delivery.Delivery) error {
			return req.ApplyTo(existing)
		},
	}

	return &DeliveryHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, cfg),
	}
}
