package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fightsync/fightsync/internal/app"
	"github.com/fightsync/fightsync/internal/config"
	"github.com/fightsync/fightsync/internal/observability"
	"github.com/fightsync/fightsync/internal/platform/logging"
	"github.com/fightsync/fightsync/internal/usecase"
)

func main() {
	mode := flag.String("mode", "recent", "sync mode: recent, live, event, fighters or all")
	eventURL := flag.String("url", "", "event page url, required for -mode event")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	db, err := app.OpenDatabase(cfg)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	services := app.BuildServices(cfg, db, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exitCode := 0
	if err := run(ctx, services, *mode, *eventURL, logger); err != nil {
		logger.Error("sync failed", "mode", *mode, "error", err)
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := stopProfiler(); err != nil {
		logger.Error("stop pyroscope", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("shutdown tracing", "error", err)
	}

	os.Exit(exitCode)
}

func run(ctx context.Context, services *app.Services, mode, eventURL string, logger *logging.Logger) error {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "recent":
		report, err := services.Reconciler.ReconcileRecent(ctx)
		if err != nil {
			return err
		}
		logReconcileReport(ctx, logger, report)
	case "live":
		// Sweeps every upcoming event so in-progress cards pick up
		// results as they land.
		report, err := services.Reconciler.ReconcileUpcoming(ctx)
		if err != nil {
			return err
		}
		logReconcileReport(ctx, logger, report)
	case "event":
		if strings.TrimSpace(eventURL) == "" {
			return fmt.Errorf("-url is required for -mode event")
		}
		result, err := services.Reconciler.ReconcileEvent(ctx, eventURL)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "event reconciled",
			"event_url", result.EventURL,
			"outcome", string(result.Outcome),
			"fights_created", result.Card.Created,
			"fights_updated", result.Card.Updated,
			"fights_removed", result.Card.Removed,
		)
	case "fighters":
		report, err := services.FighterUpdater.UpdateFlagged(ctx)
		if err != nil {
			return err
		}
		logFighterReport(ctx, logger, report)
	case "all":
		reconcile, err := services.Reconciler.ReconcileRecent(ctx)
		if err != nil {
			return err
		}
		logReconcileReport(ctx, logger, reconcile)

		fighters, err := services.FighterUpdater.UpdateFlagged(ctx)
		if err != nil {
			return err
		}
		logFighterReport(ctx, logger, fighters)
	default:
		return fmt.Errorf("unknown mode %q: valid modes are recent, live, event, fighters, all", mode)
	}

	return nil
}

func logReconcileReport(ctx context.Context, logger *logging.Logger, report usecase.ReconcileReport) {
	logger.InfoContext(ctx, "event sync finished",
		"discovered", report.Discovered,
		"created", report.Created,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"fetch_failed", report.FetchFailed,
		"fights_created", report.Fights.Created,
		"fights_updated", report.Fights.Updated,
		"fights_removed", report.Fights.Removed,
		"duration_ms", report.DurationMs,
	)
}

func logFighterReport(ctx context.Context, logger *logging.Logger, report usecase.FighterUpdateReport) {
	logger.InfoContext(ctx, "fighter sync finished",
		"candidates", report.Candidates,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"failed", report.Failed,
		"duration_ms", report.DurationMs,
	)
}
