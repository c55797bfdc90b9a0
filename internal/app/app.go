// Package app wires configuration into the repositories and services shared
// by the HTTP server and the mailbox poller.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"hausmeister/internal/config"
	"hausmeister/internal/database"
	"hausmeister/internal/database/migration"
	"hausmeister/internal/extraction"
	"hausmeister/internal/metrics"
	"hausmeister/internal/repository/postgres"
	"hausmeister/internal/service"
	"hausmeister/internal/storage"
)

// Core holds the long-lived dependencies of a process.
type Core struct {
	DB        *sql.DB
	Registry  *prometheus.Registry
	Ingester  service.Ingester
	Documents service.DocumentService
	Questions service.QuestionService
	Referrals service.ReferralService
}

// Close releases the database pool.
func (c *Core) Close() error {
	return c.DB.Close()
}

// Build connects to Postgres, migrates it, connects object storage and
// assembles the services.
func Build(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) (*Core, error) {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := migration.EnsureMigrated(ctx, db, log); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	core, err := assemble(cfg, db, store, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	return core, nil
}

func assemble(cfg *config.AppConfig, db *sql.DB, store storage.Storage, log *slog.Logger) (*Core, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ingestMetrics, err := metrics.NewIngest(reg)
	if err != nil {
		return nil, fmt.Errorf("register ingest metrics: %w", err)
	}

	extractor, err := newExtractor(cfg.AI, log)
	if err != nil {
		return nil, err
	}

	docRepo := postgres.NewDocumentPostgres(db)
	questionRepo := postgres.NewQuestionPostgres(db)

	return &Core{
		DB:       db,
		Registry: reg,
		Ingester: service.NewIngestService(service.IngestDeps{
			Tenants:      postgres.NewTenantPostgres(db),
			Documents:    docRepo,
			Questions:    questionRepo,
			Store:        store,
			Extractor:    extractor,
			Metrics:      ingestMetrics,
			Logger:       log,
			PDFTextLimit: cfg.AI.PDFTextLimit,
		}),
		Documents: service.NewDocumentService(store, docRepo),
		Questions: service.NewQuestionService(questionRepo),
		Referrals: service.NewReferralService(postgres.NewReferralPostgres(db), service.ReferralDefaults{
			AppID:           cfg.Referral.DefaultAppID,
			DiscountPercent: cfg.Referral.DiscountPercent,
		}, log),
	}, nil
}

// newExtractor returns a nil interface when no API key is configured, which
// routes every document to manual review.
func newExtractor(cfg config.AIConfig, log *slog.Logger) (extraction.Extractor, error) {
	if !cfg.Enabled() {
		log.Warn("AI extraction disabled, documents go to manual review")
		return nil, nil
	}
	c, err := extraction.NewClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init extraction client: %w", err)
	}
	return c, nil
}
