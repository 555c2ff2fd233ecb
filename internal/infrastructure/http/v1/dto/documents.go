package dto

import (
	"time"

	"wareflow/internal/core/id"
	"wareflow/internal/core/types"
	"wareflow/internal/domain/documents/adjustment"
	"wareflow/internal/domain/documents/delivery"
	"wareflow/internal/domain/documents/receipt"
	"wareflow/internal/domain/documents/transfer"
)

// LineRequest is one goods line on a receipt, delivery or transfer.
type LineRequest struct {
	ProductID string         `json:"productId" binding:"required"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
}

// AdjustmentLineRequest is one counted line on an adjustment. The
// system quantity is optional; when omitted it is snapshotted from the
// current stock level.
type AdjustmentLineRequest struct {
	ProductID       string         `json:"productId" binding:"required"`
	CountedQuantity types.Quantity `json:"countedQuantity"`
	SystemQuantity  types.Quantity `json:"systemQuantity"`
}

// --- Receipt ---

// CreateReceiptRequest for creating receipts.
type CreateReceiptRequest struct {
	WarehouseID  string        `json:"warehouseId" binding:"required"`
	SupplierName string        `json:"supplierName"`
	Date         *time.Time    `json:"date"`
	Comment      string        `json:"comment"`
	Lines        []LineRequest `json:"lines"`
}

// ToEntity converts the request to a domain receipt.
func (r CreateReceiptRequest) ToEntity(createdBy id.ID) (*receipt.Receipt, error) {
	whID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return nil, err
	}

	doc := receipt.New(createdBy, whID)
	doc.SupplierName = r.SupplierName
	doc.Comment = r.Comment
	if r.Date != nil {
		doc.Date = *r.Date
	}

	for _, line := range r.Lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return nil, err
		}
		doc.AddLine(productID, line.Quantity)
	}

	return doc, nil
}

// UpdateReceiptRequest for updating draft receipts. Lines replace the
// existing table part when present.
type UpdateReceiptRequest struct {
	SupplierName *string        `json:"supplierName"`
	Date         *time.Time     `json:"date"`
	Comment      *string        `json:"comment"`
	Lines        *[]LineRequest `json:"lines"`
	Version      int            `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request into an existing receipt.
func (r UpdateReceiptRequest) ApplyTo(doc *receipt.Receipt) error {
	if r.SupplierName != nil {
		doc.SupplierName = *r.SupplierName
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}
	if r.Lines != nil {
		doc.Lines = doc.Lines[:0]
		for _, line := range *r.Lines {
			productID, err := id.Parse(line.ProductID)
			if err != nil {
				return err
			}
			doc.AddLine(productID, line.Quantity)
		}
	}
	doc.Version = r.Version
	return nil
}

// --- Delivery ---

// CreateDeliveryRequest for creating deliveries.
type CreateDeliveryRequest struct {
	WarehouseID  string        `json:"warehouseId" binding:"required"`
	CustomerName string        `json:"customerName"`
	Date         *time.Time    `json:"date"`
	Comment      string        `json:"comment"`
	Lines        []LineRequest `json:"lines"`
}

// ToEntity converts the request to a domain delivery.
func (r CreateDeliveryRequest) ToEntity(createdBy id.ID) (*delivery.Delivery, error) {
	whID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return nil, err
	}

	doc := delivery.New(createdBy, whID)
	doc.CustomerName = r.CustomerName
	doc.Comment = r.Comment
	if r.Date != nil {
		doc.Date = *r.Date
	}

	for _, line := range r.Lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return nil, err
		}
		doc.AddLine(productID, line.Quantity)
	}

	return doc, nil
}

// UpdateDeliveryRequest for updating draft deliveries.
type UpdateDeliveryRequest struct {
	CustomerName *string        `json:"customerName"`
	Date         *time.Time     `json:"date"`
	Comment      *string        `json:"comment"`
	Lines        *[]LineRequest `json:"lines"`
	Version      int            `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request into an existing delivery.
func (r UpdateDeliveryRequest) ApplyTo(doc *delivery.Delivery) error {
	if r.CustomerName != nil {
		doc.CustomerName = *r.CustomerName
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}
	if r.Lines != nil {
		doc.Lines = doc.Lines[:0]
		for _, line := range *r.Lines {
			productID, err := id.Parse(line.ProductID)
			if err != nil {
				return err
			}
			doc.AddLine(productID, line.Quantity)
		}
	}
	doc.Version = r.Version
	return nil
}

// --- Transfer ---

// CreateTransferRequest for creating internal transfers.
type CreateTransferRequest struct {
	SourceWarehouseID string        `json:"sourceWarehouseId" binding:"required"`
	DestWarehouseID   string        `json:"destWarehouseId" binding:"required"`
	Date              *time.Time    `json:"date"`
	Comment           string        `json:"comment"`
	Lines             []LineRequest `json:"lines"`
}

// ToEntity converts the request to a domain transfer.
func (r CreateTransferRequest) ToEntity(createdBy id.ID) (*transfer.Transfer, error) {
	srcID, err := id.Parse(r.SourceWarehouseID)
	if err != nil {
		return nil, err
	}
	dstID, err := id.Parse(r.DestWarehouseID)
	if err != nil {
		return nil, err
	}

	doc := transfer.New(createdBy, srcID, dstID)
	doc.Comment = r.Comment
	if r.Date != nil {
		doc.Date = *r.Date
	}

	for _, line := range r.Lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return nil, err
		}
		doc.AddLine(productID, line.Quantity)
	}

	return doc, nil
}

// UpdateTransferRequest for updating draft transfers.
type UpdateTransferRequest struct {
	SourceWarehouseID *string        `json:"sourceWarehouseId"`
	DestWarehouseID   *string        `json:"destWarehouseId"`
	Date              *time.Time     `json:"date"`
	Comment           *string        `json:"comment"`
	Lines             *[]LineRequest `json:"lines"`
	Version           int            `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request into an existing transfer.
func (r UpdateTransferRequest) ApplyTo(doc *transfer.Transfer) error {
	if r.SourceWarehouseID != nil {
		srcID, err := id.Parse(*r.SourceWarehouseID)
		if err != nil {
			return err
		}
		doc.SourceWarehouseID = srcID
	}
	if r.DestWarehouseID != nil {
		dstID, err := id.Parse(*r.DestWarehouseID)
		if err != nil {
			return err
		}
		doc.DestWarehouseID = dstID
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}
	if r.Lines != nil {
		doc.Lines = doc.Lines[:0]
		for _, line := range *r.Lines {
			productID, err := id.Parse(line.ProductID)
			if err != nil {
				return err
			}
			doc.AddLine(productID, line.Quantity)
		}
	}
	doc.Version = r.Version
	return nil
}

// --- Adjustment ---

// CreateAdjustmentRequest for creating stock adjustments. With
// CompleteImmediately the document is created and completed in one
// request, applying the count in a single transaction.
type CreateAdjustmentRequest struct {
	WarehouseID         string                  `json:"warehouseId" binding:"required"`
	Reason              string                  `json:"reason" binding:"required"`
	Date                *time.Time              `json:"date"`
	Comment             string                  `json:"comment"`
	Lines               []AdjustmentLineRequest `json:"lines"`
	CompleteImmediately bool                    `json:"completeImmediately"`
}

// ToEntity converts the request to a domain adjustment.
func (r CreateAdjustmentRequest) ToEntity(createdBy id.ID) (*adjustment.Adjustment, error) {
	whID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return nil, err
	}

	doc := adjustment.New(createdBy, whID, r.Reason)
	doc.Comment = r.Comment
	if r.Date != nil {
		doc.Date = *r.Date
	}

	for _, line := range r.Lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return nil, err
		}
		doc.AddLine(productID, line.CountedQuantity, line.SystemQuantity)
	}

	return doc, nil
}

// UpdateAdjustmentRequest for updating draft adjustments.
type UpdateAdjustmentRequest struct {
	Reason  *string                  `json:"reason"`
	Date    *time.Time               `json:"date"`
	Comment *string                  `json:"comment"`
	Lines   *[]AdjustmentLineRequest `json:"lines"`
	Version int                      `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request into an existing adjustment.
func (r UpdateAdjustmentRequest) ApplyTo(doc *adjustment.Adjustment) error {
	if r.Reason != nil {
		doc.Reason = *r.Reason
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}
	if r.Lines != nil {
		doc.Lines = doc.Lines[:0]
		for _, line := range *r.Lines {
			productID, err := id.Parse(line.ProductID)
			if err != nil {
				return err
			}
			doc.AddLine(productID, line.CountedQuantity, line.SystemQuantity)
		}
	}
	doc.Version = r.Version
	return nil
}
