package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"github.com/valyala/fasthttp"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/fightsync/fightsync/internal/config"
	"github.com/fightsync/fightsync/internal/external/tapology"
	"github.com/fightsync/fightsync/internal/infrastructure/repository/postgres"
	"github.com/fightsync/fightsync/internal/interfaces/httpapi"
	"github.com/fightsync/fightsync/internal/platform/dateparse"
	"github.com/fightsync/fightsync/internal/platform/logging"
	"github.com/fightsync/fightsync/internal/platform/resilience"
	"github.com/fightsync/fightsync/internal/usecase"
)

// Services bundles the wired use cases shared by the sync and api
// binaries.
type Services struct {
	Reconciler     *usecase.EventReconcilerService
	FighterUpdater *usecase.FighterUpdaterService
	Catalog        *usecase.CatalogService
}

// OpenDatabase connects to postgres with otel instrumentation on every
// query.
func OpenDatabase(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return db, nil
}

func BuildServices(cfg config.Config, db *sqlx.DB, logger *logging.Logger) *Services {
	if logger == nil {
		logger = logging.Default()
	}

	eventRepo := postgres.NewEventRepository(db)
	fighterRepo := postgres.NewFighterRepository(db)
	fightRepo := postgres.NewFightRepository(db)

	extractor := tapology.NewClient(tapology.ClientConfig{
		HTTPClient:   &http.Client{Timeout: cfg.ExtractorTimeout},
		ExtractorURL: cfg.ExtractorURL,
		SiteBaseURL:  cfg.SiteBaseURL,
		ListingPath:  cfg.ListingPath,
		Timeout:      cfg.ExtractorTimeout,
		MaxRetries:   cfg.ExtractorMaxRetries,
		Logger:       logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ExtractorCircuitEnabled,
			FailureThreshold: cfg.ExtractorCircuitFailureCount,
			OpenTimeout:      cfg.ExtractorCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ExtractorCircuitHalfOpenMaxReq,
		},
	})

	dates := dateparse.New(logger)
	resolver := usecase.NewFighterResolverService(fighterRepo, extractor, dates, logger)
	cards := usecase.NewFightCardService(fightRepo, fighterRepo, resolver, logger)

	reconciler := usecase.NewEventReconcilerService(
		eventRepo,
		extractor,
		cards,
		resolver,
		dates,
		usecase.EventReconcilerConfig{
			DaysOffset:      cfg.DaysOffset,
			Workers:         cfg.EventWorkers,
			MaxListingPages: cfg.MaxListingPages,
		},
		logger,
	)

	updater := usecase.NewFighterUpdaterService(
		fighterRepo,
		extractor,
		dates,
		usecase.FighterUpdaterConfig{
			Workers:     cfg.FighterWorkers,
			RecencyDays: cfg.FighterRecencyDays,
		},
		logger,
	)

	catalog := usecase.NewCatalogService(eventRepo, fightRepo, fighterRepo, logger)

	return &Services{
		Reconciler:     reconciler,
		FighterUpdater: updater,
		Catalog:        catalog,
	}
}

func NewAPIServer(cfg config.Config, services *Services, logger *logging.Logger) (*fasthttp.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(services.Catalog, logger)
	srv := httpapi.NewServer(handler, logger)
	srv.ReadTimeout = cfg.ReadTimeout
	srv.WriteTimeout = cfg.WriteTimeout

	return srv, nil
}
