package operations

import (
	"sync"
	"time"
)

// RunStatus represents the overall status of a report run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// RunState represents the complete state of one report run
type RunState struct {
	mu sync.RWMutex

	// Basic run information
	ID        string     `json:"id"`
	Status    RunStatus  `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// Step states
	Steps map[string]*StepState `json:"steps"`

	// Run context for passing artifacts between steps
	Context map[string]interface{} `json:"context"`

	// Error if the run failed
	Error error `json:"-"`
}

// NewRunState creates a new run state
func NewRunState(id string) *RunState {
	return &RunState{
		ID:        id,
		Status:    RunStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		Context:   make(map[string]interface{}),
	}
}

// Start marks the run as running
func (r *RunState) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

// Complete marks the run as completed
func (r *RunState) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCompleted
}

// Fail marks the run as failed
func (r *RunState) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusFailed
	r.Error = err
}

// Cancel marks the run as cancelled
func (r *RunState) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCancelled
}

// GetStatus returns the current run status
func (r *RunState) GetStatus() RunStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Status
}

// GetStep returns the state of a specific step
func (r *RunState) GetStep(stepID string) *StepState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Steps[stepID]
}

// SetStep updates the state of a specific step
func (r *RunState) SetStep(stepID string, state *StepState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Steps[stepID] = state
}

// GetContext retrieves a value from the run context
func (r *RunState) GetContext(key string) (interface{}, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	val, ok := r.Context[key]
	return val, ok
}

// SetContext sets a value in the run context
func (r *RunState) SetContext(key string, value interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Context[key] = value
}

// GetString retrieves a string value from the run context
func (r *RunState) GetString(key string) string {
	if val, ok := r.GetContext(key); ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

// Duration returns the total duration of the run
func (r *RunState) Duration() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.EndTime != nil {
		return r.EndTime.Sub(r.StartTime)
	}
	return time.Since(r.StartTime)
}
