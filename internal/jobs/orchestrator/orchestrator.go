package orchestrator

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/yungbote/netinv-backend/internal/data/repos"
	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/importer/tabular"
	"github.com/yungbote/netinv-backend/internal/jobs/runtime"
	"github.com/yungbote/netinv-backend/internal/jobs/worker"
	"github.com/yungbote/netinv-backend/internal/observability"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/netinv-backend/internal/pkg/errors"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
	"github.com/yungbote/netinv-backend/internal/platform/storage"
	"github.com/yungbote/netinv-backend/internal/services"
)

const (
	DefaultMaxConcurrent = 2
	DefaultMaxQueued     = 16

	interruptedMessage = "interrupted by restart"
)

type Config struct {
	JobType       string
	MaxConcurrent int
	MaxQueued     int
	ProgressEvery int
}

type Deps struct {
	Log       *logger.Logger
	Jobs      repos.ImportJobRepo
	Reports   repos.ImportReportRepo
	Uploads   storage.ArtifactStore
	Artifacts storage.ArtifactStore
	Table     *runtime.JobTable
	Worker    *worker.Worker
	Notify    services.JobNotifier
	Audit     services.AuditLog
	Metrics   *observability.Metrics
}

// Submission is one uploaded workbook.
type Submission struct {
	Entity   types.Entity
	Filename string
	Body     io.Reader
	Actor    string
}

/*
Orchestrator admits uploads and runs each one as a background job.
At most MaxConcurrent jobs hold a worker slot; up to MaxQueued more wait
as "queued". Anything beyond that is refused with ErrAtCapacity. Jobs are
never cancelled mid-flight: Shutdown stops admission and waits.
*/
type Orchestrator struct {
	log       *logger.Logger
	cfg       Config
	jobs      repos.ImportJobRepo
	reports   repos.ImportReportRepo
	uploads   storage.ArtifactStore
	artifacts storage.ArtifactStore
	table     *runtime.JobTable
	worker    *worker.Worker
	notify    services.JobNotifier
	audit     services.AuditLog
	metrics   *observability.Metrics

	sem      *semaphore.Weighted
	admitted atomic.Int64
	closed   atomic.Bool
	wg       sync.WaitGroup
}

func New(d Deps, cfg Config) *Orchestrator {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}
	if cfg.MaxQueued < 0 {
		cfg.MaxQueued = 0
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = runtime.DefaultProgressEvery
	}
	table := d.Table
	if table == nil {
		table = runtime.NewJobTable(runtime.DefaultTableSize)
	}
	notify := d.Notify
	if notify == nil {
		notify = services.NewJobNotifier(d.Log, nil)
	}
	return &Orchestrator{
		log:       d.Log.With("service", "ImportOrchestrator"),
		cfg:       cfg,
		jobs:      d.Jobs,
		reports:   d.Reports,
		uploads:   d.Uploads,
		artifacts: d.Artifacts,
		table:     table,
		worker:    d.Worker,
		notify:    notify,
		audit:     d.Audit,
		metrics:   d.Metrics,
		sem:       semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
	}
}

func (o *Orchestrator) Table() *runtime.JobTable { return o.table }

// RecoverInterrupted fails jobs a previous process left queued or processing.
func (o *Orchestrator) RecoverInterrupted(ctx context.Context) (int64, error) {
	return o.jobs.MarkInterrupted(dbctx.Context{Ctx: ctx}, interruptedMessage)
}

// Start buffers the upload, records a queued job and returns its id without
// waiting for the import.
func (o *Orchestrator) Start(ctx context.Context, sub Submission) (uuid.UUID, error) {
	if o.closed.Load() {
		return uuid.Nil, fmt.Errorf("%w: orchestrator is shutting down", apperr.ErrAtCapacity)
	}
	if _, ok := imports.ParseEntity(string(sub.Entity)); !ok {
		return uuid.Nil, fmt.Errorf("%w: unknown entity %q", apperr.ErrInvalidArgument, sub.Entity)
	}
	filename := filepath.Base(strings.TrimSpace(sub.Filename))
	if _, err := tabular.DetectFormat(filename); err != nil {
		return uuid.Nil, err
	}
	if sub.Body == nil {
		return uuid.Nil, fmt.Errorf("%w: empty upload", apperr.ErrInvalidArgument)
	}

	limit := int64(o.cfg.MaxConcurrent + o.cfg.MaxQueued)
	if n := o.admitted.Add(1); n > limit {
		o.admitted.Add(-1)
		o.metrics.ImportRejected()
		o.log.Warn("Import rejected, queue full", "entity", sub.Entity, "limit", limit)
		return uuid.Nil, fmt.Errorf("%w: %d imports already running or queued", apperr.ErrAtCapacity, limit)
	}
	admitted := false
	defer func() {
		if !admitted {
			o.admitted.Add(-1)
		}
	}()

	id := uuid.New()
	key := fmt.Sprintf("uploads/%s/%s", id, filename)
	if err := o.uploads.Put(ctx, key, sub.Body); err != nil {
		return uuid.Nil, fmt.Errorf("buffer upload: %w", err)
	}

	job := &types.ImportJob{
		ID:             id,
		Entity:         sub.Entity,
		Status:         imports.JobQueued,
		Stage:          "queued",
		SourceFilename: filename,
		SourcePath:     key,
		Actor:          strings.TrimSpace(sub.Actor),
	}
	if err := o.jobs.Create(dbctx.Context{Ctx: ctx}, job); err != nil {
		_ = o.uploads.Delete(context.Background(), key)
		return uuid.Nil, fmt.Errorf("create import job: %w", err)
	}
	admitted = true

	o.table.Put(job)
	o.notify.JobCreated(job)
	o.metrics.ImportQueued(string(job.Entity))
	o.recordAudit(job, imports.AuditImportStarted, "queued", "import queued", map[string]any{
		"source_filename": filename,
	})
	o.log.Info("Import queued", "job_id", id, "entity", job.Entity, "file", filename, "actor", job.Actor)

	o.wg.Add(1)
	go o.run(job)
	return id, nil
}

func (o *Orchestrator) run(job *types.ImportJob) {
	defer o.wg.Done()
	defer o.admitted.Add(-1)

	// Jobs outlive the request that created them.
	ctx := context.Background()
	start := time.Now()
	running := false
	if err := o.sem.Acquire(ctx, 1); err == nil {
		running = true
		o.metrics.ImportRunning()
		jc := runtime.NewContext(ctx, job, o.jobs, o.table, o.notify, o.log.With("job_id", job.ID))
		jc.ProgressEvery = o.cfg.ProgressEvery
		o.worker.Run(o.cfg.JobType, jc)
		o.sem.Release(1)
	}

	snap, ok := o.table.Get(job.ID)
	if !ok {
		// Evicted under load; the stored row carries the terminal state.
		if stored, err := o.jobs.GetByID(dbctx.Context{Ctx: ctx}, job.ID); err == nil && stored != nil {
			snap.Job = *stored
		} else {
			snap.Job = *job
		}
	}
	final := snap.Job
	o.metrics.ImportFinished(string(final.Entity), string(final.Status), time.Since(start), running)
	action := imports.AuditImportCompleted
	if final.Status != imports.JobCompleted {
		action = imports.AuditImportFailed
	}
	msg := final.Message
	if final.Error != "" {
		msg = final.Error
	}
	var data any
	if snap.Summary != nil {
		data = snap.Summary
	}
	o.recordAudit(&final, action, string(final.Status), msg, data)

	if err := o.uploads.Delete(ctx, job.SourcePath); err != nil {
		o.log.Warn("Delete buffered upload failed", "job_id", job.ID, "key", job.SourcePath, "error", err)
	}
	o.log.Info("Import finished",
		"job_id", job.ID,
		"entity", final.Entity,
		"status", final.Status,
		"processed", final.Processed,
		"total", final.Total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func (o *Orchestrator) recordAudit(job *types.ImportJob, action types.AuditAction, status, msg string, data any) {
	if o.audit == nil {
		return
	}
	id := job.ID
	err := o.audit.Record(context.Background(), services.AuditRecord{
		JobID:   &id,
		Actor:   job.Actor,
		Entity:  job.Entity,
		Action:  action,
		Status:  status,
		Message: msg,
		Data:    data,
	})
	if err != nil {
		o.log.Warn("Audit record failed", "job_id", job.ID, "action", action, "error", err)
	}
}

// Status serves live state from the JobTable and falls back to the stored
// job row for jobs this process did not run.
func (o *Orchestrator) Status(ctx context.Context, id uuid.UUID) (StatusView, error) {
	if snap, ok := o.table.Get(id); ok {
		return viewOfSnapshot(snap), nil
	}
	job, err := o.jobs.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return StatusView{}, err
	}
	if job == nil {
		return StatusView{}, fmt.Errorf("%w: import job %s", apperr.ErrNotFound, id)
	}
	return viewOf(job, nil), nil
}

// Report opens the artifact of a finished job. ErrNotReady until the job is
// terminal.
func (o *Orchestrator) Report(ctx context.Context, id uuid.UUID) (io.ReadCloser, *types.ImportReport, error) {
	view, err := o.Status(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !view.Terminal() {
		return nil, nil, fmt.Errorf("%w: import job %s is %s", apperr.ErrNotReady, id, view.Status)
	}
	rep, err := o.reports.GetByJobID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, nil, err
	}
	return o.openReport(ctx, rep, fmt.Sprintf("report for job %s", id))
}

// LatestReport opens the most recent report written for entity.
func (o *Orchestrator) LatestReport(ctx context.Context, entity types.Entity) (io.ReadCloser, *types.ImportReport, error) {
	rep, err := o.reports.GetLatestByEntity(dbctx.Context{Ctx: ctx}, entity)
	if err != nil {
		return nil, nil, err
	}
	return o.openReport(ctx, rep, fmt.Sprintf("report for entity %s", entity))
}

func (o *Orchestrator) openReport(ctx context.Context, rep *types.ImportReport, what string) (io.ReadCloser, *types.ImportReport, error) {
	if rep == nil {
		return nil, nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, what)
	}
	rc, err := o.artifacts.Open(ctx, rep.ArtifactKey)
	if err != nil {
		return nil, nil, err
	}
	return rc, rep, nil
}

// Wait polls until the job is terminal or ctx is done.
func (o *Orchestrator) Wait(ctx context.Context, id uuid.UUID, every time.Duration) (StatusView, error) {
	if every <= 0 {
		every = 200 * time.Millisecond
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		view, err := o.Status(ctx, id)
		if err != nil {
			return view, err
		}
		if view.Terminal() {
			return view, nil
		}
		select {
		case <-ctx.Done():
			return view, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Shutdown stops admission and waits for running and queued jobs.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.closed.Store(true)
	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
