package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"records-search/internal/common/config"
	"records-search/internal/common/database"
	"records-search/internal/common/engine"
	"records-search/internal/common/logger"
	"records-search/internal/common/observability"
	"records-search/internal/models"
	jurisdictionfilter "records-search/internal/search/jurisdiction-filter"
	resolutionbridge "records-search/internal/search/resolution-bridge"
	submissionaudit "records-search/internal/search/submission-audit"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	startupRetries = 5
	startupDelay   = time.Second
)

// app is the wiring shared by every subcommand.
type app struct {
	cfg    *config.Config
	zapLog *zap.Logger
	log    logger.Logger
	obs    *observability.Observability

	invoker  engine.Invoker
	bridge   *resolutionbridge.Bridge
	catalog  []models.JurisdictionOption
	recorder submissionaudit.Recorder

	metricsSrv *http.Server
	closers    []func() error
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// newApp loads configuration and builds the engine bridge, the jurisdiction
// catalog and the audit recorder. The engine connection itself is deferred
// to the first command sent.
func newApp(ctx context.Context, opts *cliOptions) (*app, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	zapLog := logger.NewWithOptions(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
	})

	a := &app{
		cfg:      cfg,
		zapLog:   zapLog,
		log:      log,
		obs:      observability.New(cfg.App.Name),
		recorder: submissionaudit.NopRecorder{},
	}

	a.invoker = engine.NewLazyInvoker(func() (engine.Invoker, error) {
		return engine.New(cfg, log)
	})
	a.closers = append(a.closers, a.invoker.Close)
	a.bridge = resolutionbridge.NewBridge(a.invoker, cfg.Engine.Command, log, a.obs)

	if err := a.loadCatalog(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.initAudit(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if cfg.Metrics.Enabled {
		a.startMetricsServer()
	}
	return a, nil
}

func (a *app) loadCatalog(ctx context.Context) error {
	var catalog jurisdictionfilter.Catalog

	switch a.cfg.Jurisdictions.Source {
	case config.CatalogPostgres:
		var pg *database.PostgresClient
		err := retryWithBackoff(ctx, func() error {
			var err error
			pg, err = database.NewPostgres(a.cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				pg.Close()
				return err
			}
			return nil
		}, startupRetries, startupDelay, a.zapLog, "PostgreSQL connection")
		if err != nil {
			return err
		}
		a.closers = append(a.closers, pg.Close)
		catalog = jurisdictionfilter.NewPostgresCatalog(pg.GetDB(), a.cfg.Jurisdictions.Table, a.log)
	default:
		catalog = jurisdictionfilter.NewStaticCatalog(a.cfg.Jurisdictions.Catalog)
	}

	options, err := catalog.Load(ctx)
	if err != nil {
		return err
	}
	a.catalog = options
	a.log.Debug("Jurisdiction catalog loaded", map[string]interface{}{
		"source": a.cfg.Jurisdictions.Source,
		"count":  len(options),
	})
	return nil
}

func (a *app) initAudit(ctx context.Context) error {
	if !a.cfg.Audit.Enabled {
		return nil
	}

	var es *database.ElasticsearchClient
	err := retryWithBackoff(ctx, func() error {
		var err error
		es, err = database.NewElasticsearch(a.cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping(ctx)
	}, startupRetries, startupDelay, a.zapLog, "Elasticsearch connection")
	if err != nil {
		return err
	}

	a.recorder = submissionaudit.NewElasticsearchRecorder(es.Client, a.cfg.Audit.Index, a.log)
	a.log.Info("Submission audit enabled", map[string]interface{}{"index": a.cfg.Audit.Index})
	return nil
}

func (a *app) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status, code := "ready", http.StatusOK
		if len(a.catalog) == 0 {
			status, code = "no jurisdictions loaded", http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (a *app) startMetricsServer() {
	a.metricsSrv = &http.Server{
		Addr:              a.cfg.Metrics.Address,
		Handler:           a.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.zapLog.Info("Health/Metrics server listening", zap.String("address", a.cfg.Metrics.Address))
		if err := a.metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()
}

// Close stops the metrics server and releases every connection, newest first.
func (a *app) Close() {
	if a.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.metricsSrv.Shutdown(ctx)
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.zapLog.Warn("Error during shutdown", zap.Error(err))
		}
	}
	a.obs.Shutdown()
	_ = a.zapLog.Sync()
}
