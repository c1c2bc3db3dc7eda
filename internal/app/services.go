package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/importer/report"
	"github.com/yungbote/netinv-backend/internal/importer/resolver"
	"github.com/yungbote/netinv-backend/internal/importer/upsert"
	"github.com/yungbote/netinv-backend/internal/jobs/orchestrator"
	"github.com/yungbote/netinv-backend/internal/jobs/pipeline/network_import"
	jobruntime "github.com/yungbote/netinv-backend/internal/jobs/runtime"
	"github.com/yungbote/netinv-backend/internal/jobs/worker"
	"github.com/yungbote/netinv-backend/internal/observability"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
	"github.com/yungbote/netinv-backend/internal/platform/elevation"
	"github.com/yungbote/netinv-backend/internal/platform/storage"
	"github.com/yungbote/netinv-backend/internal/realtime/bus"
	"github.com/yungbote/netinv-backend/internal/services"
)

type Services struct {
	Engine       *upsert.Engine
	Uploads      storage.ArtifactStore
	Artifacts    storage.ArtifactStore
	Reports      *report.Writer
	Bus          bus.Bus
	Notifier     services.JobNotifier
	Audit        services.AuditLog
	Registry     *jobruntime.Registry
	Worker       *worker.Worker
	Orchestrator *orchestrator.Orchestrator
}

func wireServices(ctx context.Context, db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	res := resolver.New(log, reposet.Network.Mappings, reposet.Network.Sectors, resolver.Options{
		StrictSiteCode: cfg.Import.StrictSiteCode,
	})
	deps := upsert.Deps{Log: log, Repos: reposet.Network, Resolver: res}
	if elev := elevation.New(log, cfg.Elevation.URL, cfg.Elevation.Timeout); elev != nil {
		deps.Elevation = elev
	}
	engine := upsert.NewEngine(db, log, upsert.Config{BatchSize: cfg.Import.BatchSize}, upsert.DefaultRules(deps)...)
	engine.SetObserver(func(entity imports.Entity, outcome string) {
		metrics.ObserveRow(string(entity), outcome)
	})

	uploads, err := storage.NewLocal(log, cfg.Import.UploadDir)
	if err != nil {
		return Services{}, fmt.Errorf("init upload store: %w", err)
	}
	artifacts, err := storage.New(ctx, log, cfg.Artifacts.StorageConfig())
	if err != nil {
		return Services{}, fmt.Errorf("init artifact store: %w", err)
	}
	writer := report.NewWriter(log, artifacts, reposet.Reports)

	var events bus.Bus = bus.NewNopBus()
	if cfg.Redis.Addr != "" {
		rb, err := bus.NewRedisBus(log, cfg.Redis.Addr, cfg.Redis.Channel)
		if err != nil {
			log.Warn("Redis unavailable; job events will not be published", "addr", cfg.Redis.Addr, "error", err)
		} else {
			events = rb
		}
	}
	notifier := services.NewJobNotifier(log, events)
	audit := services.NewAuditLog(log, reposet.Audit)

	registry := jobruntime.NewRegistry()
	if err := registry.Register(network_import.New(log, engine, writer, uploads, metrics)); err != nil {
		return Services{}, fmt.Errorf("register %s: %w", network_import.JobType, err)
	}
	w := worker.NewWorker(log, registry)

	orch := orchestrator.New(orchestrator.Deps{
		Log:       log,
		Jobs:      reposet.Jobs,
		Reports:   reposet.Reports,
		Uploads:   uploads,
		Artifacts: artifacts,
		Table:     jobruntime.NewJobTable(cfg.Import.JobTableSize),
		Worker:    w,
		Notify:    notifier,
		Audit:     audit,
		Metrics:   metrics,
	}, orchestrator.Config{
		JobType:       network_import.JobType,
		MaxConcurrent: cfg.Import.MaxConcurrent,
		MaxQueued:     cfg.Import.MaxQueued,
		ProgressEvery: cfg.Import.ProgressEvery,
	})

	return Services{
		Engine:       engine,
		Uploads:      uploads,
		Artifacts:    artifacts,
		Reports:      writer,
		Bus:          events,
		Notifier:     notifier,
		Audit:        audit,
		Registry:     registry,
		Worker:       w,
		Orchestrator: orch,
	}, nil
}
