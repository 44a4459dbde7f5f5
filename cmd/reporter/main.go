package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"golang.org/x/sync/errgroup"

	"reportcli/internal/app"
	"reportcli/internal/config"
	"reportcli/internal/infrastructure"
	"reportcli/internal/scheduler"
	"reportcli/internal/web"
)

func main() {
	var logger *slog.Logger
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC RECOVERED: %v\n", r)
			fmt.Printf("Stack trace:\n%s\n", debug.Stack())
			if logger != nil {
				logger.Error("reporter panicked",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())))
			}
			os.Exit(1)
		}
	}()

	configPath := flag.String("config", "", "path to config file (JSON or YAML); searches common locations when empty")
	dataFile := flag.String("data", "", "sales data file (CSV or Excel); overrides the configured path")
	outDir := flag.String("out", "", "directory for generated reports; overrides the configured path")
	sendNow := flag.Bool("send-now", false, "run the report pipeline once and exit")
	schedule := flag.Bool("schedule", false, "run the report pipeline on the configured daily schedule")
	serve := flag.Bool("serve", false, "expose the HTTP API alongside the scheduler")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("%s %s\n", app.AppName, app.VERSION)
		return
	}

	if !*sendNow && !*schedule && !*serve {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -send-now, -schedule, or -serve")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Error: failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *dataFile != "" {
		cfg.Paths.DataFile = *dataFile
	}
	if *outDir != "" {
		cfg.Paths.ReportsDir = *outDir
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err = infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	logger.Info("starting",
		slog.String("app", app.AppName),
		slog.String("version", app.VERSION),
		slog.String("data_file", cfg.Paths.DataFile),
		slog.String("reports_dir", cfg.Paths.ReportsDir))

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *sendNow {
		resp, err := application.RunOnce(ctx)
		if err != nil {
			logger.Error("report run failed", slog.String("error", err.Error()))
			if !*schedule && !*serve {
				os.Exit(1)
			}
		} else {
			logger.Info("report run completed",
				slog.String("run_id", resp.ID),
				slog.Duration("duration", resp.Duration))
		}
	}

	if !*schedule && !*serve {
		return
	}

	g, gctx := errgroup.WithContext(ctx)

	if *schedule || *serve {
		sched := scheduler.New(logger)
		spec, err := cfg.Schedule.CronSpec()
		if err != nil {
			logger.Error("invalid schedule", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := sched.Schedule(gctx, spec, func(jobCtx context.Context) {
			if _, err := application.RunOnce(jobCtx); err != nil {
				logger.Error("scheduled run failed", slog.String("error", err.Error()))
			}
		}); err != nil {
			logger.Error("invalid schedule", slog.String("spec", spec), slog.String("error", err.Error()))
			os.Exit(1)
		}
		g.Go(func() error {
			return sched.Run(gctx)
		})
	}

	if *serve {
		server := web.NewServer(application, logger)
		g.Go(func() error {
			return server.Start(gctx)
		})
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("shutdown with error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
