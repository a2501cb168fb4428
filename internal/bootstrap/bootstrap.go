package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kdworks/dataclerk/internal/config"
	"github.com/kdworks/dataclerk/internal/core/domain"
	"github.com/kdworks/dataclerk/internal/core/ports"
	"github.com/kdworks/dataclerk/internal/core/usecase"
	"github.com/kdworks/dataclerk/internal/infrastructure/enricher/ollama"
	"github.com/kdworks/dataclerk/internal/infrastructure/queue/nats"
	"github.com/kdworks/dataclerk/internal/infrastructure/registry/jsonfile"
	"github.com/kdworks/dataclerk/internal/infrastructure/repository/postgres"
	"github.com/kdworks/dataclerk/internal/infrastructure/resilience"
	"github.com/kdworks/dataclerk/internal/infrastructure/rules"
	"github.com/kdworks/dataclerk/internal/infrastructure/storage/localfs"
	"github.com/kdworks/dataclerk/internal/infrastructure/store/excel"
	"github.com/kdworks/dataclerk/internal/infrastructure/textsource"
)

// Core wires the synchronous extraction pipeline: rules, schema, table
// store and ledger, plus the optional enricher. It has no postgres or NATS
// dependency, so the stdio MCP binary can run it standalone.
type Core struct {
	Config config.Config
	Schema *domain.Schema

	AnalyzeUC *usecase.AnalyzeTextUseCase
	SaveUC    *usecase.SaveRecordUseCase
}

func NewCore(cfg config.Config) (*Core, error) {
	labels := rules.DefaultLabelConfig()
	if cfg.LabelsConfigPath != "" {
		loaded, err := rules.LoadLabelConfig(cfg.LabelsConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load labels config: %w", err)
		}
		labels = loaded
	}

	store, err := excel.New(cfg.ExportDir, cfg.ExportFilePrefix)
	if err != nil {
		return nil, fmt.Errorf("init export store: %w", err)
	}

	ledger, err := jsonfile.New(cfg.LearningDBPath)
	if err != nil {
		return nil, fmt.Errorf("init field ledger: %w", err)
	}

	schema := domain.NewSchema(domain.CoreFields()...)
	known, err := ledger.Known()
	if err != nil {
		slog.Warn("field_ledger_read_failed", "error", err)
	}
	schema.Add(known...)

	var enricher ports.EntityEnricher
	if cfg.EnrichmentEnabled {
		executor := resilience.NewExecutor(resilience.DefaultConfig())
		enricher = ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, labels.EntityTags, executor)
	}

	return &Core{
		Config:    cfg,
		Schema:    schema,
		AnalyzeUC: usecase.NewAnalyzeTextUseCase(rules.NewLineParser(labels), rules.NewLibrary(), enricher, schema, nil),
		SaveUC:    usecase.NewSaveRecordUseCase(store, ledger, schema, nil),
	}, nil
}

// App is the full service wiring for the api and worker binaries: Core
// plus capture persistence, object storage, and the message queue.
type App struct {
	Config config.Config
	Core   *Core

	Queue     ports.MessageQueue
	Repo      ports.CaptureRepository
	IngestUC  ports.CaptureIngestor
	ProcessUC ports.CaptureProcessor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	core, err := NewCore(cfg)
	if err != nil {
		return nil, err
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewCaptureRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	source := textsource.NewResolver(storage)

	return &App{
		Config: cfg,
		Core:   core,

		Queue:     queue,
		Repo:      repo,
		IngestUC:  usecase.NewIngestCaptureUseCase(repo, storage, queue),
		ProcessUC: usecase.NewProcessCaptureUseCase(repo, source, core.AnalyzeUC, core.SaveUC),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
