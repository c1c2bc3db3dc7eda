package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/netinv-backend/internal/data/repos"
	"github.com/yungbote/netinv-backend/internal/data/repos/testutil"
	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/http/middleware"
	"github.com/yungbote/netinv-backend/internal/jobs/orchestrator"
	"github.com/yungbote/netinv-backend/internal/pkg/ctxutil"
	apperr "github.com/yungbote/netinv-backend/internal/pkg/errors"
	"github.com/yungbote/netinv-backend/internal/services"
)

type fakeImporter struct {
	startErr error
	got      orchestrator.Submission
	body     string
	views    map[uuid.UUID]orchestrator.StatusView
	report   []byte
}

func (f *fakeImporter) Start(ctx context.Context, sub orchestrator.Submission) (uuid.UUID, error) {
	if f.startErr != nil {
		return uuid.Nil, f.startErr
	}
	b, _ := io.ReadAll(sub.Body)
	f.got = sub
	f.body = string(b)
	return uuid.MustParse("11111111-2222-3333-4444-555555555555"), nil
}

func (f *fakeImporter) Status(ctx context.Context, id uuid.UUID) (orchestrator.StatusView, error) {
	v, ok := f.views[id]
	if !ok {
		return v, fmt.Errorf("%w: job %s", apperr.ErrNotFound, id)
	}
	return v, nil
}

func (f *fakeImporter) Report(ctx context.Context, id uuid.UUID) (io.ReadCloser, *types.ImportReport, error) {
	v, err := f.Status(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !v.Terminal() {
		return nil, nil, apperr.ErrNotReady
	}
	return io.NopCloser(bytes.NewReader(f.report)), &types.ImportReport{JobID: id, Entity: v.Entity, ArtifactKey: "reports/x.xlsx"}, nil
}

func (f *fakeImporter) LatestReport(ctx context.Context, entity types.Entity) (io.ReadCloser, *types.ImportReport, error) {
	return nil, nil, apperr.ErrNotFound
}

func newTestRouter(imp Importer, audit services.AuditLog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AttachActor())
	h := NewImportHandler(imp, 1<<20)
	r.POST("/api/imports/:entity", h.StartImport)
	r.GET("/api/imports/:id", h.GetStatus)
	r.GET("/api/imports/:id/report", h.GetReport)
	r.GET("/api/reports/latest/:entity", h.GetLatestReport)
	if audit != nil {
		r.GET("/api/audit", NewAuditHandler(audit).ListAudit)
	}
	return r
}

func uploadRequest(t *testing.T, path, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, _ = fw.Write([]byte(content))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestStartImportAcceptsAliasEntity(t *testing.T) {
	imp := &fakeImporter{}
	r := newTestRouter(imp, nil)

	req := uploadRequest(t, "/api/imports/cellules_reseau", "cells.csv", "CELLNAME\nX_1\n")
	req.Header.Set("X-Actor", "rf-eng")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", out["job_id"])
	assert.Equal(t, "queued", out["status"])
	assert.Equal(t, imports.EntityCells, imp.got.Entity)
	assert.Equal(t, "rf-eng", imp.got.Actor)
	assert.Equal(t, "cells.csv", imp.got.Filename)
	assert.Equal(t, "CELLNAME\nX_1\n", imp.body)
}

func TestStartImportErrors(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		err    error
		status int
		code   string
	}{
		{"unknown entity", "/api/imports/towers", nil, http.StatusBadRequest, "invalid_entity"},
		{"capacity", "/api/imports/sites", fmt.Errorf("%w: busy", apperr.ErrAtCapacity), http.StatusTooManyRequests, "at_capacity"},
		{"format", "/api/imports/sites", fmt.Errorf("%w: .pdf", apperr.ErrUnsupportedFormat), http.StatusUnsupportedMediaType, "unsupported_format"},
		{"internal", "/api/imports/sites", errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		r := newTestRouter(&fakeImporter{startErr: tc.err}, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, uploadRequest(t, tc.path, "sites.csv", "SITE_CODE\nA\n"))
		if rec.Code != tc.status {
			t.Fatalf("%s: status want=%d got=%d", tc.name, tc.status, rec.Code)
		}
		var env struct {
			Error struct{ Message, Code string }
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		if env.Error.Code != tc.code {
			t.Fatalf("%s: code want=%s got=%s", tc.name, tc.code, env.Error.Code)
		}
		assert.NotContains(t, env.Error.Message, "disk on fire")
	}

	r := newTestRouter(&fakeImporter{}, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/imports/sites", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusAndReport(t *testing.T) {
	running := uuid.New()
	done := uuid.New()
	eta := 12.5
	imp := &fakeImporter{
		views: map[uuid.UUID]orchestrator.StatusView{
			running: {JobID: running, Entity: imports.EntitySites, Status: imports.JobProcessing, Progress: 40, Processed: 40, Total: 100, EtaSeconds: &eta},
			done:    {JobID: done, Entity: imports.EntitySites, Status: imports.JobCompleted, Progress: 100},
		},
		report: []byte("PK-xlsx-bytes"),
	}
	r := newTestRouter(imp, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/imports/"+running.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var view map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "processing", view["status"])
	assert.EqualValues(t, 40, view["progress"])
	assert.EqualValues(t, 12.5, view["eta_seconds"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/imports/"+running.String()+"/report", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/imports/"+done.String()+"/report", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PK-xlsx-bytes", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "import_report_sites_")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/imports/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/latest/vendors", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAudit(t *testing.T) {
	log := testutil.Logger(t)
	db := testutil.DB(t)
	audit := services.NewAuditLog(log, repos.NewAuditEntryRepo(db, log))
	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{Actor: "noc"})
	for _, e := range []types.Entity{imports.EntitySites, imports.EntitySites, imports.EntityCells} {
		require.NoError(t, audit.Record(ctx, services.AuditRecord{Actor: ctxutil.Actor(ctx), Entity: e, Action: imports.AuditImportStarted, Status: "queued"}))
	}
	r := newTestRouter(&fakeImporter{}, audit)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/audit?entity=site&limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page services.AuditPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.Entries, 1)
	assert.Equal(t, 1, page.Limit)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/audit?job_id=nope", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
