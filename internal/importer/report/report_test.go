package report

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yungbote/netinv-backend/internal/data/repos"
	"github.com/yungbote/netinv-backend/internal/data/repos/testutil"
	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/importer/failures"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
	"github.com/yungbote/netinv-backend/internal/platform/storage"
)

func sampleSummary() imports.Summary {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return imports.Summary{
		JobID:           uuid.New(),
		Entity:          imports.EntitySites,
		SourceFilename:  "sites.xlsx",
		Status:          imports.JobCompleted,
		Added:           3,
		Updated:         1,
		Failed:          1,
		Warnings:        1,
		Processed:       5,
		Total:           5,
		StartedAt:       start,
		FinishedAt:      start.Add(2 * time.Second),
		DurationSeconds: 2,
	}
}

func sampleRecords() []failures.Record {
	return []failures.Record{
		{Row: 4, Entity: imports.EntitySites, Key: "ALG001", Cause: failures.DependencyNotFound, Detail: "commune 9999", Blocking: true},
		{Row: 6, Entity: imports.EntitySites, Key: "ALG003", Cause: failures.InvalidValue, Detail: "altitude"},
	}
}

func TestWorkbookSheets(t *testing.T) {
	buf, err := Workbook(sampleSummary(), sampleRecords())
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, FailedRowsSheet}, f.GetSheetList())

	status, err := f.GetCellValue(SummarySheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "completed", status)

	rows, err := f.GetRows(FailedRowsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Natural key", rows[0][3])
	assert.Equal(t, []string{"4", "", "sites", "ALG001", "dependency not found", "commune 9999", "yes"}, rows[1])
	assert.Equal(t, "no", rows[2][6])
}

func TestWriterStoresAndIndexes(t *testing.T) {
	ctx := context.Background()
	log := testutil.Logger(t)
	db := testutil.DB(t)
	store, err := storage.NewLocal(log, t.TempDir())
	require.NoError(t, err)
	reports := repos.NewImportReportRepo(db, log)

	summary := sampleSummary()
	w := NewWriter(log, store, reports)
	rep, err := w.Write(ctx, summary, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, ArtifactKey(imports.EntitySites, summary.JobID), rep.ArtifactKey)

	got, err := reports.GetByJobID(dbctx.Context{Ctx: ctx}, summary.JobID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Added)

	var stored []failures.Record
	require.NoError(t, json.Unmarshal(got.FailedRows, &stored))
	assert.Len(t, stored, 2)

	rc, err := store.Open(ctx, rep.ArtifactKey)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.NotEmpty(t, body)
}
