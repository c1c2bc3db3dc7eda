package app

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/netinv-backend/internal/data/db"
	httpx "github.com/yungbote/netinv-backend/internal/http"
	httpH "github.com/yungbote/netinv-backend/internal/http/handlers"
	"github.com/yungbote/netinv-backend/internal/observability"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *gorm.DB
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics
	Server   *httpx.Server

	pg           *db.PostgresService
	otelShutdown func(context.Context) error
}

// OpenDB connects and migrates the schema.
func OpenDB(log *logger.Logger, cfg Config) (*db.PostgresService, error) {
	pg, err := db.NewPostgresService(log, cfg.Database.Options())
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return pg, nil
}

func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel.OtelConfig(cfg.Version))
	metrics := observability.Init(log, cfg.MetricsEnabled)

	pg, err := OpenDB(log, cfg)
	if err != nil {
		_ = otelShutdown(ctx)
		return nil, err
	}
	theDB := pg.DB()

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(ctx, theDB, log, cfg, reposet, metrics)
	if err != nil {
		_ = pg.Close()
		_ = otelShutdown(ctx)
		return nil, err
	}

	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	server := httpx.NewServer(httpx.RouterConfig{
		Log:           log,
		ServiceName:   serviceName,
		CORSOrigins:   cfg.CORSOrigins,
		Metrics:       metrics,
		ImportHandler: httpH.NewImportHandler(serviceset.Orchestrator, cfg.Import.MaxUploadBytes),
		AuditHandler:  httpH.NewAuditHandler(serviceset.Audit),
		HealthHandler: httpH.NewHealthHandler(theDB),
	})

	return &App{
		Log:          log,
		Cfg:          cfg,
		DB:           theDB,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		Server:       server,
		pg:           pg,
		otelShutdown: otelShutdown,
	}, nil
}

// RecoverInterrupted fails jobs a previous server process left unfinished.
// Only the long-running server calls it; one-shot CLI imports share the
// database with a live server.
func (a *App) RecoverInterrupted(ctx context.Context) {
	n, err := a.Services.Orchestrator.RecoverInterrupted(ctx)
	if err != nil {
		a.Log.Warn("Failed to mark interrupted imports", "error", err)
		return
	}
	if n > 0 {
		a.Log.Warn("Marked interrupted imports as failed", "count", n)
	}
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Listening", "addr", a.Cfg.Addr())
	return a.Server.Run(a.Cfg.Addr())
}

// Shutdown stops the listener first, then lets admitted imports finish
// before tearing down tracing, the event bus and the database.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if a.Services.Orchestrator != nil {
		if err := a.Services.Orchestrator.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain imports: %w", err))
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("otel shutdown: %w", err))
		}
	}
	if a.Services.Bus != nil {
		if err := a.Services.Bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("bus close: %w", err))
		}
	}
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			errs = append(errs, fmt.Errorf("db close: %w", err))
		}
	}
	a.Log.Sync()
	return errors.Join(errs...)
}
