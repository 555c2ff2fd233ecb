package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wareflow/internal/core/apperror"
	"wareflow/internal/core/entity"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from entity.Status
		to   entity.Status
		want bool
	}{
		{"draft to waiting", entity.StatusDraft, entity.StatusWaiting, true},
		{"draft to canceled", entity.StatusDraft, entity.StatusCanceled, true},
		{"draft to ready skips waiting", entity.StatusDraft, entity.StatusReady, false},
		{"draft to done skips chain", entity.StatusDraft, entity.StatusDone, false},
		{"waiting to ready", entity.StatusWaiting, entity.StatusReady, true},
		{"waiting to canceled", entity.StatusWaiting, entity.StatusCanceled, true},
		{"waiting back to draft", entity.StatusWaiting, entity.StatusDraft, false},
		{"ready to done", entity.StatusReady, entity.StatusDone, true},
		{"ready to canceled", entity.StatusReady, entity.StatusCanceled, true},
		{"ready back to waiting", entity.StatusReady, entity.StatusWaiting, false},
		{"done is terminal", entity.StatusDone, entity.StatusCanceled, false},
		{"canceled is terminal", entity.StatusCanceled, entity.StatusDraft, false},
		{"canceled cannot complete", entity.StatusCanceled, entity.StatusDone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCheckTransition(t *testing.T) {
	t.Run("valid move", func(t *testing.T) {
		assert.NoError(t, CheckTransition(entity.StatusDraft, entity.StatusWaiting))
	})

	t.Run("invalid move returns structured error", func(t *testing.T) {
		err := CheckTransition(entity.StatusDone, entity.StatusDraft)
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition))
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		err := CheckTransition(entity.StatusDraft, entity.Status("archived"))
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})
}

func TestAllowedTargets(t *testing.T) {
	assert.ElementsMatch(t,
		[]entity.Status{entity.StatusWaiting, entity.StatusCanceled},
		AllowedTargets(entity.StatusDraft))
	assert.Empty(t, AllowedTargets(entity.StatusDone))
	assert.Empty(t, AllowedTargets(entity.StatusCanceled))
}

func TestPathToDone(t *testing.T) {
	assert.Equal(t,
		[]entity.Status{entity.StatusWaiting, entity.StatusReady, entity.StatusDone},
		PathToDone(entity.StatusDraft))
	assert.Equal(t,
		[]entity.Status{entity.StatusReady, entity.StatusDone},
		PathToDone(entity.StatusWaiting))
	assert.Equal(t,
		[]entity.Status{entity.StatusDone},
		PathToDone(entity.StatusReady))
	assert.Nil(t, PathToDone(entity.StatusDone))
	assert.Nil(t, PathToDone(entity.StatusCanceled))
}
