package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/auction-draft/external/bbref"
	"github.com/riskibarqy/auction-draft/internal/config"
	"github.com/riskibarqy/auction-draft/internal/domain/draft"
	"github.com/riskibarqy/auction-draft/internal/infrastructure/events"
	"github.com/riskibarqy/auction-draft/internal/infrastructure/repository/file"
	"github.com/riskibarqy/auction-draft/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/auction-draft/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/auction-draft/internal/interfaces/httpapi"
	"github.com/riskibarqy/auction-draft/internal/platform/logging"
	"github.com/riskibarqy/auction-draft/internal/platform/resilience"
	"github.com/riskibarqy/auction-draft/internal/usecase"
)

// App holds the wired service and the resources that must be released on shutdown.
type App struct {
	Server    *http.Server
	Draft     *usecase.DraftService
	Refresher *usecase.PoolRefresher

	closers []func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{}
	settings, err := cfg.League.DefaultSettings()
	if err != nil {
		return nil, err
	}
	canonical := cfg.League.CanonicalTeamNames()

	store, err := a.openStore(ctx, cfg, canonical, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	publisher, err := a.openPublisher(cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Draft = usecase.NewDraftService(store, publisher, usecase.DraftConfig{
		CanonicalTeamNames: canonical,
		ExportDir:          cfg.ExportDir,
		Defaults:           &settings,
	}, logger)
	if err := a.Draft.Load(ctx); err != nil {
		if !usecase.IsWarning(err) {
			a.Close()
			return nil, fmt.Errorf("load draft: %w", err)
		}
		logger.WarnContext(ctx, "draft loaded without persisting", "error", err)
	}

	pages := bbref.NewClient(bbref.ClientConfig{
		BaseURL:    cfg.BBRefBaseURL,
		Timeout:    cfg.BBRefTimeout,
		MaxRetries: cfg.BBRefMaxRetries,
		CacheTTL:   cfg.BBRefCacheTTL,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.BBRefCircuitEnabled,
			FailureThreshold: cfg.BBRefCircuitFailureCount,
			OpenTimeout:      cfg.BBRefCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.BBRefCircuitHalfOpenMaxReq,
		},
	})
	collector := bbref.NewCollector(pages, bbref.CollectorConfig{
		Season:          cfg.BBRefSeason,
		FallbackSeason:  cfg.BBRefFallbackSeason,
		RosterOverrides: cfg.League.RosterOverrides,
		Logger:          logger,
	})

	a.Refresher, err = usecase.NewPoolRefresher(collector, a.Draft, usecase.RefreshConfig{
		Workers: cfg.RefreshWorkers,
		Timeout: cfg.RefreshTimeout,
	}, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, func() error {
		a.Refresher.Close()
		return nil
	})

	handler := httpapi.NewHandler(a.Draft, a.Refresher, logger)
	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.InfoContext(ctx, "app wired",
		"store", cfg.StoreDriver,
		"events", cfg.NATSURL != "",
		"season", cfg.BBRefSeason,
	)
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg config.Config, canonical []string, logger *logging.Logger) (draft.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return memory.NewDraftStore(nil), nil
	case config.StorePostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		return postgres.NewDraftStore(db), nil
	default:
		store, err := file.NewDraftStore(cfg.DataDir, canonical, logger)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return store, nil
	}
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres %s: %w", redactDBURL(cfg.DBURL), err)
	}
	return db, nil
}

func (a *App) openPublisher(cfg config.Config, logger *logging.Logger) (draft.Publisher, error) {
	if cfg.NATSURL == "" {
		return draft.NopPublisher{}, nil
	}

	publisher, err := events.NewNATSPublisher(events.NATSConfig{
		URL:           cfg.NATSURL,
		SubjectPrefix: cfg.NATSSubjectPrefix,
		Name:          cfg.ServiceName,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	a.closers = append(a.closers, publisher.Close)
	return publisher, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
