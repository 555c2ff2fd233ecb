// Package entity holds the shared building blocks of persisted domain
// objects: identity, optimistic versioning, audit timestamps and the
// document lifecycle.
package entity

import (
	"context"
	"time"

	"wareflow/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// BaseEntity contains common fields for all persisted aggregates.
type BaseEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`
}

// NewBaseEntity creates a new BaseEntity with generated ID.
func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:      id.New(),
		Version: 1,
	}
}

func (b *BaseEntity) GetID() id.ID { return b.ID }

func (b *BaseEntity) SetID(v id.ID) { b.ID = v }

func (b *BaseEntity) GetVersion() int { return b.Version }

// SetVersion updates the version number. The repositories own version
// increments; they call this after a successful update so the in-memory
// entity matches the stored row.
func (b *BaseEntity) SetVersion(v int) { b.Version = v }

// Timestamps carries creation and modification audit fields.
type Timestamps struct {
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

func (t *Timestamps) TouchCreated(now time.Time) {
	t.CreatedAt = now
	t.UpdatedAt = now
}

func (t *Timestamps) TouchUpdated(now time.Time) {
	t.UpdatedAt = now
}
