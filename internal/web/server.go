// Package web exposes the serve-mode HTTP surface: health, run history,
// manual run triggers, prometheus metrics, and the generated report files.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"reportcli/internal/app"
	apierrors "reportcli/internal/errors"
	"reportcli/internal/operations"
)

// Server wraps the HTTP server for serve mode
type Server struct {
	app     *app.Application
	logger  *slog.Logger
	router  *chi.Mux
	limiter *rate.Limiter
	httpSrv *http.Server
}

// NewServer creates the serve-mode HTTP server from the application
func NewServer(application *app.Application, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	serverCfg := application.Config.Server
	s := &Server{
		app:     application,
		logger:  logger.With(slog.String("component", "web")),
		limiter: rate.NewLimiter(rate.Limit(serverCfg.TriggerRPS), serverCfg.TriggerBurst),
	}

	s.router = s.buildRouter()
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", serverCfg.Port),
		Handler:      s.router,
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
	}

	return s
}

// Router returns the HTTP handler, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", slog.String("addr", s.httpSrv.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownTimeout := s.app.Config.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	return s.httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) buildRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.With(s.rateLimitTrigger).Post("/runs", s.handleTriggerRun)
	})

	r.Handle("/metrics", promhttp.HandlerFor(s.app.Metrics.Registry(), promhttp.HandlerOpts{}))

	reportsDir := http.Dir(s.app.Config.Paths.ReportsDir)
	r.Handle("/reports/*", http.StripPrefix("/reports/", http.FileServer(reportsDir)))

	return r
}

// logRequests emits one structured log line per request
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.InfoContext(r.Context(), "http_request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)))
	})
}

// rateLimitTrigger throttles manual run triggers
func (s *Server) rateLimitTrigger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			render.Render(w, r, apierrors.ErrRateLimitExceeded)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// healthResponse is the GET /api/health payload
type healthResponse struct {
	Status    string    `json:"status"`
	App       string    `json:"app"`
	Version   string    `json:"version"`
	Running   bool      `json:"run_in_progress"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, healthResponse{
		Status:    "healthy",
		App:       app.AppName,
		Version:   app.VERSION,
		Running:   s.app.RunInProgress(),
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	records, err := s.app.RunLog.List()
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to list runs",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ErrInternalServer)
		return
	}

	// Newest first
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	render.JSON(w, r, map[string]interface{}{
		"runs":  records,
		"count": len(records),
	})
}

// runStatusResponse is the GET /api/runs/{id} payload. Error carries the
// HTTP-mapped run failure for finished runs that did not complete.
type runStatusResponse struct {
	ID       string                           `json:"id"`
	Status   operations.RunStatus             `json:"status"`
	Duration time.Duration                    `json:"duration,omitempty"`
	Steps    map[string]*operations.StepState `json:"steps,omitempty"`
	Error    *apierrors.APIError              `json:"error,omitempty"`
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Still executing
	if state, err := s.app.Runner.GetRun(id); err == nil {
		render.JSON(w, r, runStatusResponse{
			ID:     id,
			Status: state.GetStatus(),
			Steps:  state.Steps,
		})
		return
	}

	// Finished in this process
	if result, ok := s.app.RunResult(id); ok {
		render.JSON(w, r, runStatusResponse{
			ID:       id,
			Status:   result.Response.Status,
			Duration: result.Response.Duration,
			Steps:    result.Response.Steps,
			Error:    apierrors.FromPipelineError(result.Err),
		})
		return
	}

	// Earlier process lifetime, known only from the history index
	records, err := s.app.RunLog.List()
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to list runs",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ErrInternalServer)
		return
	}
	for _, record := range records {
		if record.ID == id {
			render.JSON(w, r, record)
			return
		}
	}

	render.Render(w, r, apierrors.NotFoundError("run "+id))
}

// triggerResponse is the POST /api/runs payload
type triggerResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

func (s *Server) handleTriggerRun(w http.ResponseWriter, r *http.Request) {
	runID, err := s.app.TriggerAsync(r.Context())
	if err != nil {
		if err == app.ErrRunInProgress {
			render.Render(w, r, apierrors.ErrRunInProgress)
			return
		}
		s.logger.ErrorContext(r.Context(), "failed to trigger run",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ErrInternalServer)
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, triggerResponse{RunID: runID, Status: "accepted"})
}
