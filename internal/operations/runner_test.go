package operations

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerExecutesStepsInOrder(t *testing.T) {
	runner := NewRunner(nil, nil)

	var executed []string
	for _, id := range []string{StepIDLoad, StepIDRender, StepIDSend} {
		step := newStubStep(id)
		stepID := id
		step.execute = func(ctx context.Context, state *RunState) error {
			executed = append(executed, stepID)
			return nil
		}
		require.NoError(t, runner.RegisterStep(step))
	}

	resp, err := runner.Execute(context.Background(), RunRequest{ID: "run-1"})

	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, resp.Status)
	assert.Equal(t, []string{StepIDLoad, StepIDRender, StepIDSend}, executed)
	for _, id := range executed {
		assert.Equal(t, StepStatusCompleted, resp.Steps[id].GetStatus())
	}
}

func TestRunnerSeedsRequestContext(t *testing.T) {
	runner := NewRunner(nil, nil)

	step := newStubStep(StepIDLoad)
	var gotFile, gotDir string
	step.execute = func(ctx context.Context, state *RunState) error {
		gotFile = state.GetString(ContextKeyDataFile)
		gotDir = state.GetString(ContextKeyOutputDir)
		return nil
	}
	require.NoError(t, runner.RegisterStep(step))

	_, err := runner.Execute(context.Background(), RunRequest{
		ID:        "run-2",
		DataFile:  "data/sales.csv",
		OutputDir: "reports/run-2",
	})

	require.NoError(t, err)
	assert.Equal(t, "data/sales.csv", gotFile)
	assert.Equal(t, "reports/run-2", gotDir)
}

func TestRunnerSkipsStepsAfterFailure(t *testing.T) {
	runner := NewRunner(nil, nil)

	load := newStubStep(StepIDLoad)
	load.execute = func(ctx context.Context, state *RunState) error {
		return NewError(KindParse, StepIDLoad, "row 3: expected 3 fields", nil)
	}
	require.NoError(t, runner.RegisterStep(load))

	renderRan := false
	render := newStubStep(StepIDRender)
	render.execute = func(ctx context.Context, state *RunState) error {
		renderRan = true
		return nil
	}
	require.NoError(t, runner.RegisterStep(render))

	send := newStubStep(StepIDSend)
	require.NoError(t, runner.RegisterStep(send))

	resp, err := runner.Execute(context.Background(), RunRequest{ID: "run-3"})

	require.Error(t, err)
	assert.True(t, IsKind(err, KindParse))
	assert.Equal(t, RunStatusFailed, resp.Status)
	assert.False(t, renderRan)
	assert.Equal(t, StepStatusFailed, resp.Steps[StepIDLoad].GetStatus())
	assert.Equal(t, StepStatusSkipped, resp.Steps[StepIDRender].GetStatus())
	assert.Equal(t, StepStatusSkipped, resp.Steps[StepIDSend].GetStatus())
}

func TestRunnerValidationFailureSkipsStep(t *testing.T) {
	runner := NewRunner(nil, nil)

	step := newStubStep(StepIDRender)
	step.validate = func(state *RunState) error {
		return fmt.Errorf("no parsed rows in run state")
	}
	executed := false
	step.execute = func(ctx context.Context, state *RunState) error {
		executed = true
		return nil
	}
	require.NoError(t, runner.RegisterStep(step))

	resp, err := runner.Execute(context.Background(), RunRequest{ID: "run-4"})

	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.False(t, executed)
	assert.Equal(t, StepStatusSkipped, resp.Steps[StepIDRender].GetStatus())
}

func TestRunnerStepTimeout(t *testing.T) {
	config := NewConfig()
	config.SetStepTimeout(StepIDConvert, 20*time.Millisecond)
	runner := NewRunner(nil, config)

	step := newStubStep(StepIDConvert)
	step.execute = func(ctx context.Context, state *RunState) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	}
	require.NoError(t, runner.RegisterStep(step))

	resp, err := runner.Execute(context.Background(), RunRequest{ID: "run-5"})

	require.Error(t, err)
	assert.True(t, IsKind(err, KindTimeout))
	assert.Equal(t, RunStatusFailed, resp.Status)
}

func TestRunnerCancellation(t *testing.T) {
	runner := NewRunner(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())

	load := newStubStep(StepIDLoad)
	load.execute = func(ctx context.Context, state *RunState) error {
		cancel()
		return nil
	}
	require.NoError(t, runner.RegisterStep(load))

	send := newStubStep(StepIDSend)
	sendRan := false
	send.execute = func(ctx context.Context, state *RunState) error {
		sendRan = true
		return nil
	}
	require.NoError(t, runner.RegisterStep(send))

	resp, err := runner.Execute(ctx, RunRequest{ID: "run-6"})

	require.Error(t, err)
	assert.True(t, IsKind(err, KindCancelled))
	assert.False(t, sendRan)
	assert.Equal(t, StepStatusSkipped, resp.Steps[StepIDSend].GetStatus())
}

func TestRunnerNoStepsRegistered(t *testing.T) {
	runner := NewRunner(nil, nil)

	resp, err := runner.Execute(context.Background(), RunRequest{ID: "run-7"})

	require.Error(t, err)
	assert.Equal(t, RunStatusFailed, resp.Status)
}

func TestRunnerGeneratesRunID(t *testing.T) {
	runner := NewRunner(nil, nil)
	require.NoError(t, runner.RegisterStep(newStubStep(StepIDLoad)))

	resp, err := runner.Execute(context.Background(), RunRequest{})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
}

func TestRunnerTracksActiveRuns(t *testing.T) {
	runner := NewRunner(nil, nil)

	step := newStubStep(StepIDLoad)
	step.execute = func(ctx context.Context, state *RunState) error {
		assert.Equal(t, 1, runner.ActiveRuns())
		active, err := runner.GetRun(state.ID)
		require.NoError(t, err)
		assert.Equal(t, RunStatusRunning, active.GetStatus())
		return nil
	}
	require.NoError(t, runner.RegisterStep(step))

	_, err := runner.Execute(context.Background(), RunRequest{ID: "run-8"})

	require.NoError(t, err)
	assert.Equal(t, 0, runner.ActiveRuns())
	_, err = runner.GetRun("run-8")
	assert.Error(t, err)
}

func TestRunnerWrapsUntypedStepErrors(t *testing.T) {
	runner := NewRunner(nil, nil)

	step := newStubStep(StepIDLoad)
	step.execute = func(ctx context.Context, state *RunState) error {
		return errors.New("plain failure")
	}
	require.NoError(t, runner.RegisterStep(step))

	_, err := runner.Execute(context.Background(), RunRequest{ID: "run-9"})

	require.Error(t, err)
	assert.True(t, IsKind(err, KindExecution))
}
