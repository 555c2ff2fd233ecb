// Package workflow drives stock documents through their lifecycle and owns
// the only code path that writes ledger movements.
package workflow

import (
	"wareflow/internal/core/apperror"
	"wareflow/internal/core/entity"
)

// transitions is the full status graph. Completion and cancellation are the
// only terminal moves; there is no way out of done or canceled.
var transitions = map[entity.Status][]entity.Status{
	entity.StatusDraft:   {entity.StatusWaiting, entity.StatusCanceled},
	entity.StatusWaiting: {entity.StatusReady, entity.StatusCanceled},
	entity.StatusReady:   {entity.StatusDone, entity.StatusCanceled},
}

// CanTransition reports whether the move from one status to another is
// allowed by the status graph.
func CanTransition(from, to entity.Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// AllowedTargets returns the statuses reachable from the given one.
func AllowedTargets(from entity.Status) []entity.Status {
	targets := transitions[from]
	out := make([]entity.Status, len(targets))
	copy(out, targets)
	return out
}

// PathToDone returns the chain of statuses between the given one and done,
// in transition order. An empty slice means the document is already done or
// cannot reach done (canceled).
func PathToDone(from entity.Status) []entity.Status {
	switch from {
	case entity.StatusDraft:
		return []entity.Status{entity.StatusWaiting, entity.StatusReady, entity.StatusDone}
	case entity.StatusWaiting:
		return []entity.Status{entity.StatusReady, entity.StatusDone}
	case entity.StatusReady:
		return []entity.Status{entity.StatusDone}
	}
	return nil
}

// CheckTransition validates the move and returns a structured error when it
// is not in the graph.
func CheckTransition(from, to entity.Status) error {
	if !to.Valid() {
		return apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", string(to))
	}
	if !CanTransition(from, to) {
		return apperror.NewInvalidTransition(string(from), string(to))
	}
	return nil
}
