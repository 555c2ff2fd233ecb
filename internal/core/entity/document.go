package entity

import (
	"context"
	"time"

	"wareflow/internal/core/apperror"
	"wareflow/internal/core/id"
)

// Status is the workflow state of a document.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusWaiting  Status = "waiting"
	StatusReady    Status = "ready"
	StatusDone     Status = "done"
	StatusCanceled Status = "canceled"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusWaiting, StatusReady, StatusDone, StatusCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// Document is the base type for stock documents.
// Examples: Receipt, Delivery, Transfer, Adjustment.
//
// A document is the unit of work in the system: it is drafted, moved
// through the workflow and, on completion, produces ledger movements
// exactly once.
type Document struct {
	BaseEntity
	Timestamps

	// Number is the document number (auto-generated, unique within type+period)
	Number string `db:"number" json:"number"`

	// Status is the current workflow state
	Status Status `db:"status" json:"status"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// CreatedBy is the authoring user, stamped onto ledger entries at completion
	CreatedBy id.ID `db:"created_by" json:"createdBy"`

	// ValidatedAt is set exactly once, when the document reaches done
	ValidatedAt *time.Time `db:"validated_at" json:"validatedAt,omitempty"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document in draft with generated ID.
func NewDocument(createdBy id.ID) Document {
	return Document{
		BaseEntity: NewBaseEntity(),
		Status:     StatusDraft,
		Date:       time.Now().UTC(),
		CreatedBy:  createdBy,
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if !d.Status.Valid() {
		return apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", string(d.Status))
	}
	return nil
}

// CanModify checks if document content can be edited.
// Only drafts are editable; later stages allow workflow transitions only.
func (d *Document) CanModify() error {
	if d.Status != StatusDraft {
		return apperror.NewValidationFailed("document_editable",
			"only draft documents can be modified").
			WithDetail("document_id", d.ID.String()).
			WithDetail("status", string(d.Status))
	}
	return nil
}

// MarkValidated stamps the completion state. Called by the workflow engine
// inside the completion transaction, never by handlers. The version is not
// bumped here: the repository increments it when the document is persisted.
func (d *Document) MarkValidated(now time.Time) {
	t := now
	d.ValidatedAt = &t
	d.Status = StatusDone
}

// ClearValidated undoes MarkValidated when the completion transaction
// fails after the stamp was applied.
func (d *Document) ClearValidated() {
	d.ValidatedAt = nil
}

func (d *Document) GetNumber() string  { return d.Number }
func (d *Document) SetNumber(v string) { d.Number = v }
func (d *Document) GetStatus() Status  { return d.Status }
func (d *Document) SetStatus(v Status) { d.Status = v }
func (d *Document) GetDate() time.Time { return d.Date }
func (d *Document) GetCreatedBy() id.ID { return d.CreatedBy }
func (d *Document) IsDone() bool       { return d.Status == StatusDone }
