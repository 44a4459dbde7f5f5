package operations

import (
	"time"
)

// Pipeline step identifiers
const (
	StepIDLoad    = "load"
	StepIDRender  = "render"
	StepIDConvert = "convert"
	StepIDSend    = "send"
)

// Pipeline step names
const (
	StepNameLoad    = "Data Loading"
	StepNameRender  = "Report Rendering"
	StepNameConvert = "PDF Conversion"
	StepNameSend    = "Email Dispatch"
)

// Context keys for run state
const (
	ContextKeyDataFile   = "data_file"
	ContextKeyOutputDir  = "output_dir"
	ContextKeyRows       = "rows"
	ContextKeySummary    = "summary"
	ContextKeyHTMLPath   = "html_path"
	ContextKeyChartPath  = "chart_path"
	ContextKeyPDFPath    = "pdf_path"
	ContextKeySummaryCSV = "summary_csv_path"
)

// Default step timeouts
const (
	DefaultStepTimeout    = 2 * time.Minute
	DefaultConvertTimeout = 5 * time.Minute
	DefaultSendTimeout    = 3 * time.Minute
)

// RunRequest represents a request to execute a report run
type RunRequest struct {
	ID        string `json:"id"`
	DataFile  string `json:"data_file,omitempty"`
	OutputDir string `json:"output_dir,omitempty"`
}

// RunResponse represents the result of a report run
type RunResponse struct {
	ID       string                `json:"id"`
	Status   RunStatus             `json:"status"`
	Duration time.Duration         `json:"duration"`
	Steps    map[string]*StepState `json:"steps"`
	Error    string                `json:"error,omitempty"`
}

// Config represents pipeline execution configuration
type Config struct {
	// Step-specific timeouts
	StepTimeouts map[string]time.Duration `json:"step_timeouts"`
}

// NewConfig returns the default pipeline configuration
func NewConfig() *Config {
	return &Config{
		StepTimeouts: map[string]time.Duration{
			StepIDLoad:    DefaultStepTimeout,
			StepIDRender:  DefaultStepTimeout,
			StepIDConvert: DefaultConvertTimeout,
			StepIDSend:    DefaultSendTimeout,
		},
	}
}

// GetStepTimeout returns the timeout for a specific step
func (c *Config) GetStepTimeout(stepID string) time.Duration {
	if timeout, ok := c.StepTimeouts[stepID]; ok {
		return timeout
	}
	return DefaultStepTimeout
}

// SetStepTimeout sets the timeout for a specific step
func (c *Config) SetStepTimeout(stepID string, timeout time.Duration) {
	if c.StepTimeouts == nil {
		c.StepTimeouts = make(map[string]time.Duration)
	}
	c.StepTimeouts[stepID] = timeout
}
