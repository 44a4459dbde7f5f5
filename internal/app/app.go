package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"reportcli/internal/config"
	"reportcli/internal/exporter"
	"reportcli/internal/infrastructure"
	"reportcli/internal/mailer"
	"reportcli/internal/operations"
	"reportcli/internal/pdf"
	"reportcli/internal/report"
)

const (
	VERSION = "1.0.0"
	AppName = "Sales Report Automation"
)

// ErrRunInProgress is returned when a trigger arrives while a run is executing
var ErrRunInProgress = fmt.Errorf("a report run is already in progress")

// Application is the composition root: it wires the pipeline steps,
// run history, and metrics together from configuration.
type Application struct {
	Config  *config.Config
	Logger  *slog.Logger
	Runner  *operations.Runner
	RunLog  *exporter.RunLog
	Metrics *Metrics

	running atomic.Bool

	resultsMu sync.RWMutex
	results   map[string]*RunResult
}

// RunResult holds the outcome of a finished report run
type RunResult struct {
	Response *operations.RunResponse
	Err      error
}

// Option customizes application construction
type Option func(*options)

type options struct {
	engine pdf.Engine
	sender operations.Sender
}

// WithEngine overrides the PDF rendering engine
func WithEngine(engine pdf.Engine) Option {
	return func(o *options) { o.engine = engine }
}

// WithSender overrides the outbound mailer
func WithSender(sender operations.Sender) Option {
	return func(o *options) { o.sender = sender }
}

// NewApplication creates a new application instance from configuration
func NewApplication(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil configuration")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	renderer, err := report.NewRenderer(cfg.Report.Title, report.ChartOptions{
		Width:  cfg.Report.ChartWidth,
		Height: cfg.Report.ChartHeight,
	}, cfg.Paths.TemplatesDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	csvWriter := exporter.NewCSVWriter(logger)

	sender := o.sender
	if sender == nil {
		sender = mailer.New(cfg.SMTP, logger)
	}

	runner := operations.NewRunner(nil, operations.NewConfig())
	if err := runner.RegisterStep(operations.NewLoadStep(cfg.Paths.DataFile)); err != nil {
		return nil, err
	}
	if err := runner.RegisterStep(operations.NewRenderStep(renderer, csvWriter)); err != nil {
		return nil, err
	}
	if cfg.Report.EnablePDF {
		converter := pdf.NewConverter(o.engine, logger)
		if err := runner.RegisterStep(operations.NewConvertStep(converter)); err != nil {
			return nil, err
		}
	}
	if err := runner.RegisterStep(operations.NewSendStep(sender, cfg.Report.Subject)); err != nil {
		return nil, err
	}

	return &Application{
		Config:  cfg,
		Logger:  logger,
		Runner:  runner,
		RunLog:  exporter.NewRunLog(filepath.Join(cfg.Paths.ReportsDir, "runs.csv"), csvWriter),
		Metrics: NewMetrics(),
		results: make(map[string]*RunResult),
	}, nil
}

// RunResult returns the outcome of a finished run, if this process ran it
func (a *Application) RunResult(id string) (*RunResult, bool) {
	a.resultsMu.RLock()
	defer a.resultsMu.RUnlock()
	result, ok := a.results[id]
	return result, ok
}

func (a *Application) storeResult(id string, resp *operations.RunResponse, err error) {
	a.resultsMu.Lock()
	defer a.resultsMu.Unlock()
	a.results[id] = &RunResult{Response: resp, Err: err}
}

// RunOnce executes a full report run and blocks until it finishes.
// Only one run may execute at a time.
func (a *Application) RunOnce(ctx context.Context) (*operations.RunResponse, error) {
	if !a.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer a.running.Store(false)

	return a.execute(ctx, a.newRunID())
}

// TriggerAsync starts a report run in the background and returns its ID.
// Returns ErrRunInProgress when a run is already executing.
func (a *Application) TriggerAsync(ctx context.Context) (string, error) {
	if !a.running.CompareAndSwap(false, true) {
		return "", ErrRunInProgress
	}

	runID := a.newRunID()
	go func() {
		defer a.running.Store(false)

		// Detach from the request context so the run survives the response
		runCtx := context.WithoutCancel(ctx)
		if _, err := a.execute(runCtx, runID); err != nil {
			a.Logger.Error("triggered run failed",
				slog.String("run_id", runID),
				slog.String("error", err.Error()))
		}
	}()

	return runID, nil
}

// RunInProgress reports whether a report run is currently executing
func (a *Application) RunInProgress() bool {
	return a.running.Load()
}

func (a *Application) newRunID() string {
	return "run-" + uuid.NewString()[:8]
}

func (a *Application) execute(ctx context.Context, runID string) (*operations.RunResponse, error) {
	ctx = infrastructure.WithTraceID(ctx, runID)

	outDir := filepath.Join(a.Config.Paths.ReportsDir, runID)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run output directory: %w", err)
	}

	start := time.Now()
	resp, err := a.Runner.Execute(ctx, operations.RunRequest{
		ID:        runID,
		DataFile:  a.Config.Paths.DataFile,
		OutputDir: outDir,
	})
	end := time.Now()

	a.Metrics.ObserveRun(string(resp.Status), resp.Duration)

	record := exporter.RunRecord{
		ID:        runID,
		StartTime: start,
		EndTime:   end,
		Status:    string(resp.Status),
		Error:     resp.Error,
	}
	if step, ok := resp.Steps[operations.StepIDRender]; ok && step.GetStatus() == operations.StepStatusCompleted {
		record.HTMLPath = filepath.Join(outDir, report.HTMLFileName)
	}
	if step, ok := resp.Steps[operations.StepIDConvert]; ok && step.GetStatus() == operations.StepStatusCompleted {
		record.PDFPath = filepath.Join(outDir, report.PDFFileName)
	}
	if logErr := a.RunLog.Append(record); logErr != nil {
		a.Logger.Warn("failed to record run history",
			slog.String("run_id", runID),
			slog.String("error", logErr.Error()))
	}

	a.storeResult(runID, resp, err)
	return resp, err
}
