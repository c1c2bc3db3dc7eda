package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/yungbote/netinv-backend/internal/data/repos"
	"github.com/yungbote/netinv-backend/internal/data/repos/testutil"
	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/importer/report"
	"github.com/yungbote/netinv-backend/internal/importer/resolver"
	"github.com/yungbote/netinv-backend/internal/importer/upsert"
	"github.com/yungbote/netinv-backend/internal/jobs/pipeline/network_import"
	"github.com/yungbote/netinv-backend/internal/jobs/runtime"
	"github.com/yungbote/netinv-backend/internal/jobs/worker"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/netinv-backend/internal/pkg/errors"
	"github.com/yungbote/netinv-backend/internal/platform/storage"
	"github.com/yungbote/netinv-backend/internal/realtime"
	"github.com/yungbote/netinv-backend/internal/realtime/bus"
	"github.com/yungbote/netinv-backend/internal/services"
)

type harness struct {
	db    *gorm.DB
	orch  *Orchestrator
	audit services.AuditLog
	bus   *bus.MemoryBus
}

type blockingHandler struct{ release chan struct{} }

func (h *blockingHandler) Type() string { return "blocking" }

func (h *blockingHandler) Run(jc *runtime.Context) error {
	jc.Begin("waiting", "")
	<-h.release
	jc.Succeed("completed", "released")
	return nil
}

func newHarness(t *testing.T, cfg Config, extra ...runtime.Handler) *harness {
	t.Helper()
	log := testutil.Logger(t)
	db := testutil.DB(t)

	uploads, err := storage.NewLocal(log, t.TempDir())
	require.NoError(t, err)
	artifacts, err := storage.NewLocal(log, t.TempDir())
	require.NoError(t, err)

	net := repos.NewNetwork(db, log)
	res := resolver.New(log, net.Mappings, net.Sectors, resolver.Options{})
	engine := upsert.NewEngine(db, log, upsert.Config{BatchSize: 50}, upsert.DefaultRules(upsert.Deps{Log: log, Repos: net, Resolver: res})...)
	reports := repos.NewImportReportRepo(db, log)
	writer := report.NewWriter(log, artifacts, reports)

	registry := runtime.NewRegistry()
	require.NoError(t, registry.Register(network_import.New(log, engine, writer, uploads, nil)))
	for _, h := range extra {
		require.NoError(t, registry.Register(h))
	}

	mem := bus.NewMemoryBus()
	audit := services.NewAuditLog(log, repos.NewAuditEntryRepo(db, log))
	if cfg.JobType == "" {
		cfg.JobType = network_import.JobType
	}
	orch := New(Deps{
		Log:       log,
		Jobs:      repos.NewImportJobRepo(db, log),
		Reports:   reports,
		Uploads:   uploads,
		Artifacts: artifacts,
		Table:     runtime.NewJobTable(100),
		Worker:    worker.NewWorker(log, registry),
		Notify:    services.NewJobNotifier(log, mem),
		Audit:     audit,
	}, cfg)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = orch.Shutdown(ctx)
	})
	return &harness{db: db, orch: orch, audit: audit, bus: mem}
}

func (h *harness) seedSiteDeps(t *testing.T) {
	t.Helper()
	testutil.SeedGeography(t, context.Background(), h.db)
	require.NoError(t, h.db.Create(&types.Supplier{Name: "Huawei"}).Error)
}

func waitDone(t *testing.T, o *Orchestrator, id uuid.UUID) StatusView {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	view, err := o.Wait(ctx, id, 10*time.Millisecond)
	require.NoError(t, err)
	return view
}

const sitesCSV = "site_code;site_name;commune_id;supplier_name;latitude;longitude;altitude\n" +
	"C28X100;Bab Ezzouar;1601;Huawei;36,72;3,18;15\n" +
	"C28X101;El Harrach;1601;Huawei;36,71;3,13;20\n" +
	"C28X102;Hydra;9999;Huawei;36,74;3,03;210\n"

func TestOrchestratorImportsSitesEndToEnd(t *testing.T) {
	h := newHarness(t, Config{MaxConcurrent: 1, MaxQueued: 2, ProgressEvery: 1})
	h.seedSiteDeps(t)
	ctx := context.Background()

	id, err := h.orch.Start(ctx, Submission{
		Entity:   imports.EntitySites,
		Filename: "sites.csv",
		Body:     strings.NewReader(sitesCSV),
		Actor:    "noc-team",
	})
	require.NoError(t, err)

	view := waitDone(t, h.orch, id)
	assert.Equal(t, imports.JobCompleted, view.Status)
	assert.Equal(t, 100, view.Progress)
	assert.Equal(t, 3, view.Processed)
	assert.Equal(t, 3, view.Total)
	require.NotNil(t, view.Summary)
	assert.Equal(t, 2, view.Summary.Added)
	assert.Equal(t, 1, view.Summary.Failed)
	require.NotNil(t, view.ReportID)

	rc, rep, err := h.orch.Report(ctx, id)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	_ = rc.Close()
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Failed)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	rows, err := f.GetRows(report.FailedRowsSheet)
	require.NoError(t, err)
	_ = f.Close()
	require.Len(t, rows, 2)
	assert.Equal(t, "C28X102", rows[1][3])

	latestRC, latest, err := h.orch.LatestReport(ctx, imports.EntitySites)
	require.NoError(t, err)
	_ = latestRC.Close()
	assert.Equal(t, id, latest.JobID)

	page, err := h.audit.List(ctx, repos.AuditFindParams{JobID: &id})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)
	assert.Equal(t, imports.AuditImportCompleted, page.Entries[0].Action)
	assert.Equal(t, "noc-team", page.Entries[0].Actor)

	var last realtime.Message
	progress := -1
	for _, m := range h.bus.Messages() {
		if m.Event == realtime.EventJobProgress {
			p := m.Data["progress"].(int)
			if p < progress {
				t.Fatalf("progress went backwards: %d after %d", p, progress)
			}
			progress = p
		}
		last = m
	}
	assert.Equal(t, realtime.EventJobDone, last.Event)
}

func TestOrchestratorStructuralFailure(t *testing.T) {
	h := newHarness(t, Config{MaxConcurrent: 1})
	ctx := context.Background()

	id, err := h.orch.Start(ctx, Submission{
		Entity:   imports.EntitySectors,
		Filename: "sectors.csv",
		Body:     strings.NewReader("sector_code,site_code\nC28X100_1,C28X100\n"),
	})
	require.NoError(t, err)

	view := waitDone(t, h.orch, id)
	assert.Equal(t, imports.JobFailed, view.Status)
	assert.Equal(t, 100, view.Progress)
	assert.Contains(t, view.Error, "AZIMUTH")
	require.NotNil(t, view.ReportID, "failed jobs still get a report")

	stored, err := repos.NewImportJobRepo(h.db, testutil.Logger(t)).GetByID(dbctx.Context{Ctx: ctx}, id)
	require.NoError(t, err)
	assert.Equal(t, imports.JobFailed, stored.Status)
	assert.NotNil(t, stored.FinishedAt)
}

func TestOrchestratorBackpressure(t *testing.T) {
	blocker := &blockingHandler{release: make(chan struct{})}
	h := newHarness(t, Config{JobType: "blocking", MaxConcurrent: 1, MaxQueued: 1}, blocker)
	ctx := context.Background()
	submit := func() (uuid.UUID, error) {
		return h.orch.Start(ctx, Submission{Entity: imports.EntityRegions, Filename: "r.csv", Body: strings.NewReader("name\nCentre\n")})
	}

	first, err := submit()
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		v, err := h.orch.Status(ctx, first)
		return err == nil && v.Status == imports.JobProcessing
	}, 5*time.Second, 5*time.Millisecond)
	second, err := submit()
	require.NoError(t, err)
	_, err = submit()
	if !errors.Is(err, apperr.ErrAtCapacity) {
		t.Fatalf("third submit: want ErrAtCapacity got=%v", err)
	}

	_, _, err = h.orch.Report(ctx, first)
	if !errors.Is(err, apperr.ErrNotReady) {
		t.Fatalf("report before terminal: want ErrNotReady got=%v", err)
	}
	view, err := h.orch.Status(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, imports.JobQueued, view.Status)
	assert.Nil(t, view.EtaSeconds)

	close(blocker.release)
	assert.Equal(t, imports.JobCompleted, waitDone(t, h.orch, first).Status)
	assert.Equal(t, imports.JobCompleted, waitDone(t, h.orch, second).Status)

	var third uuid.UUID
	require.Eventually(t, func() bool {
		third, err = submit()
		return err == nil
	}, 5*time.Second, 10*time.Millisecond, "slots are released once jobs finish")
	assert.Equal(t, imports.JobCompleted, waitDone(t, h.orch, third).Status)
}

func TestOrchestratorRejectsBadInput(t *testing.T) {
	h := newHarness(t, Config{})
	ctx := context.Background()

	_, err := h.orch.Start(ctx, Submission{Entity: imports.EntitySites, Filename: "sites.pdf", Body: strings.NewReader("x")})
	assert.True(t, errors.Is(err, apperr.ErrUnsupportedFormat), "got %v", err)

	_, err = h.orch.Start(ctx, Submission{Entity: "towers", Filename: "t.csv", Body: strings.NewReader("x")})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument), "got %v", err)

	_, err = h.orch.Status(ctx, uuid.New())
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "got %v", err)

	_, _, err = h.orch.LatestReport(ctx, imports.EntityCells)
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "got %v", err)
}

func TestRecoverInterruptedFailsStaleJobs(t *testing.T) {
	h := newHarness(t, Config{})
	ctx := context.Background()
	jobs := repos.NewImportJobRepo(h.db, testutil.Logger(t))

	stale := &types.ImportJob{Entity: imports.EntityCells, Status: imports.JobProcessing, Stage: "upserting", Progress: 40}
	require.NoError(t, jobs.Create(dbctx.Context{Ctx: ctx}, stale))

	n, err := h.orch.RecoverInterrupted(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	view, err := h.orch.Status(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, imports.JobFailed, view.Status)
	assert.Equal(t, 100, view.Progress)
	assert.Equal(t, interruptedMessage, view.Error)
}
