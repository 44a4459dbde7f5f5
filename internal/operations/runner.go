package operations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Runner orchestrates report run execution. Steps run strictly sequentially;
// a step failure fails the run and skips everything after it.
type Runner struct {
	registry *Registry
	config   *Config

	// Active runs
	mu   sync.RWMutex
	runs map[string]*RunState
}

// NewRunner creates a new pipeline runner
func NewRunner(registry *Registry, config *Config) *Runner {
	if registry == nil {
		registry = NewRegistry()
	}
	if config == nil {
		config = NewConfig()
	}

	return &Runner{
		registry: registry,
		config:   config,
		runs:     make(map[string]*RunState),
	}
}

// RegisterStep registers a step with the pipeline
func (r *Runner) RegisterStep(step Step) error {
	return r.registry.Register(step)
}

// GetRegistry returns the registry for accessing registered steps
func (r *Runner) GetRegistry() *Registry {
	return r.registry
}

// GetConfig returns the current configuration
func (r *Runner) GetConfig() *Config {
	return r.config
}

// Execute runs the full pipeline for the given request
func (r *Runner) Execute(ctx context.Context, req RunRequest) (*RunResponse, error) {
	if req.ID == "" {
		req.ID = fmt.Sprintf("run-%d", time.Now().Unix())
	}

	state := NewRunState(req.ID)
	if req.DataFile != "" {
		state.SetContext(ContextKeyDataFile, req.DataFile)
	}
	if req.OutputDir != "" {
		state.SetContext(ContextKeyOutputDir, req.OutputDir)
	}

	r.storeRun(state)
	defer r.removeRun(req.ID)

	steps := r.registry.List()
	if len(steps) == 0 {
		err := fmt.Errorf("no steps registered")
		state.Fail(err)
		return r.createResponse(state), err
	}

	for _, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	slog.InfoContext(ctx, "run_started",
		slog.String("run_id", req.ID),
		slog.Int("step_count", len(steps)))

	state.Start()
	err := r.executeSequential(ctx, state, steps)

	if err != nil {
		state.Fail(err)
		slog.ErrorContext(ctx, "run_failed",
			slog.String("run_id", req.ID),
			slog.String("error", err.Error()),
			slog.Duration("duration", state.Duration()))
	} else {
		state.Complete()
		slog.InfoContext(ctx, "run_completed",
			slog.String("run_id", req.ID),
			slog.Duration("duration", state.Duration()))
	}

	return r.createResponse(state), err
}

// executeSequential executes steps one by one, skipping the remainder after a failure
func (r *Runner) executeSequential(ctx context.Context, state *RunState, steps []Step) error {
	var failed error

	for i, step := range steps {
		stepState := state.GetStep(step.ID())

		if failed != nil {
			stepState.Skip(fmt.Sprintf("previous step failed: %v", failed))
			slog.InfoContext(ctx, "step_skipped",
				slog.String("run_id", state.ID),
				slog.String("step", step.ID()))
			continue
		}

		select {
		case <-ctx.Done():
			stepState.Skip("run cancelled")
			return NewCancellationError(step.ID())
		default:
		}

		slog.InfoContext(ctx, "executing_step",
			slog.String("run_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		if err := r.executeStep(ctx, state, step); err != nil {
			failed = err
		}
	}

	return failed
}

// executeStep executes a single step with validation and timeout
func (r *Runner) executeStep(ctx context.Context, state *RunState, step Step) error {
	stepState := state.GetStep(step.ID())

	if err := step.Validate(state); err != nil {
		stepState.Skip(fmt.Sprintf("validation failed: %v", err))
		slog.WarnContext(ctx, "step_validation_failed",
			slog.String("run_id", state.ID),
			slog.String("step", step.ID()),
			slog.String("error", err.Error()))
		return NewValidationError(step.ID(), err.Error())
	}

	timeout := r.config.GetStepTimeout(step.ID())
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stepState.Start()
	start := time.Now()
	err := step.Execute(stepCtx, state)
	duration := time.Since(start)

	if err != nil {
		if stepCtx.Err() == context.DeadlineExceeded {
			err = NewTimeoutError(step.ID(), timeout.String())
		}
		stepState.Fail(err)
		slog.ErrorContext(ctx, "step_failed",
			slog.String("run_id", state.ID),
			slog.String("step", step.ID()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return WrapError(err, step.ID(), "step execution failed")
	}

	stepState.Complete()
	slog.InfoContext(ctx, "step_completed",
		slog.String("run_id", state.ID),
		slog.String("step", step.ID()),
		slog.Duration("duration", duration))
	return nil
}

// createResponse creates a run response from state
func (r *Runner) createResponse(state *RunState) *RunResponse {
	resp := &RunResponse{
		ID:       state.ID,
		Status:   state.GetStatus(),
		Duration: state.Duration(),
		Steps:    state.Steps,
	}

	if state.Error != nil {
		resp.Error = state.Error.Error()
	}

	return resp
}

// GetRun retrieves the state of an active run
func (r *Runner) GetRun(id string) (*RunState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.runs[id]
	if !exists {
		return nil, fmt.Errorf("run %s not found", id)
	}
	return state, nil
}

// ActiveRuns returns the number of currently executing runs
func (r *Runner) ActiveRuns() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.runs)
}

func (r *Runner) storeRun(state *RunState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[state.ID] = state
}

func (r *Runner) removeRun(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.runs, id)
}
