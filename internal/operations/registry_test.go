package operations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStep is a configurable step for framework tests
type stubStep struct {
	BaseStep
	execute  func(ctx context.Context, state *RunState) error
	validate func(state *RunState) error
}

func newStubStep(id string) *stubStep {
	return &stubStep{BaseStep: NewBaseStep(id, id)}
}

func (s *stubStep) Execute(ctx context.Context, state *RunState) error {
	if s.execute == nil {
		return nil
	}
	return s.execute(ctx, state)
}

func (s *stubStep) Validate(state *RunState) error {
	if s.validate == nil {
		return nil
	}
	return s.validate(state)
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	step := newStubStep(StepIDLoad)
	require.NoError(t, registry.Register(step))

	got, err := registry.Get(StepIDLoad)
	require.NoError(t, err)
	assert.Equal(t, StepIDLoad, got.ID())
	assert.True(t, registry.Has(StepIDLoad))
	assert.Equal(t, 1, registry.Count())
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(newStubStep(StepIDRender)))
	err := registry.Register(newStubStep(StepIDRender))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	assert.Equal(t, 1, registry.Count())
}

func TestRegistryRejectsNilAndEmptyID(t *testing.T) {
	registry := NewRegistry()

	assert.Error(t, registry.Register(nil))
	assert.Error(t, registry.Register(newStubStep("")))
}

func TestRegistryPreservesOrder(t *testing.T) {
	registry := NewRegistry()

	ids := []string{StepIDLoad, StepIDRender, StepIDConvert, StepIDSend}
	for _, id := range ids {
		require.NoError(t, registry.Register(newStubStep(id)))
	}

	assert.Equal(t, ids, registry.ListIDs())

	steps := registry.List()
	require.Len(t, steps, len(ids))
	for i, step := range steps {
		assert.Equal(t, ids[i], step.ID())
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Get("nope")
	require.Error(t, err)
	assert.False(t, registry.Has("nope"))
}
