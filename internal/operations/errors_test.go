package operations

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineErrorFormat(t *testing.T) {
	err := NewError(KindParse, StepIDLoad, "malformed row", nil)
	assert.Equal(t, "[parse] load: malformed row", err.Error())

	noStep := NewError(KindExecution, "", "something broke", nil)
	assert.Equal(t, "[execution] something broke", noStep.Error())
}

func TestPipelineErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewError(KindConversion, StepIDConvert, "write failed", cause)

	assert.True(t, errors.Is(err, cause))
}

func TestWrapErrorPreservesKind(t *testing.T) {
	inner := NewError(KindSend, StepIDSend, "connection refused", nil)
	wrapped := WrapError(fmt.Errorf("step execution: %w", inner), StepIDSend, "step execution failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, KindSend, wrapped.Kind)
	assert.Equal(t, StepIDSend, wrapped.Step)
}

func TestWrapErrorUntyped(t *testing.T) {
	wrapped := WrapError(errors.New("boom"), StepIDRender, "step execution failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, KindExecution, wrapped.Kind)
	assert.Equal(t, StepIDRender, wrapped.Step)
	assert.Contains(t, wrapped.Error(), "step execution failed")
}

func TestWrapErrorNil(t *testing.T) {
	assert.Nil(t, WrapError(nil, StepIDLoad, "ignored"))
}

func TestWrapErrorFillsMissingStep(t *testing.T) {
	inner := NewError(KindParse, "", "bad header", nil)
	wrapped := WrapError(inner, StepIDLoad, "unused")

	assert.Equal(t, StepIDLoad, wrapped.Step)
	assert.Equal(t, KindParse, wrapped.Kind)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(nil))
	assert.Equal(t, KindExecution, KindOf(errors.New("plain")))

	err := NewTimeoutError(StepIDConvert, "5m0s")
	assert.Equal(t, KindTimeout, KindOf(err))
	assert.Equal(t, KindTimeout, KindOf(fmt.Errorf("outer: %w", err)))
}

func TestIsKind(t *testing.T) {
	err := NewCancellationError(StepIDSend)

	assert.True(t, IsKind(err, KindCancelled))
	assert.False(t, IsKind(err, KindSend))
	assert.False(t, IsKind(nil, KindCancelled))
}
