package report

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/yungbote/netinv-backend/internal/data/repos"
	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/importer/failures"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
	"github.com/yungbote/netinv-backend/internal/platform/storage"
)

// Writer renders a job's report, stores the artifact and indexes it.
type Writer struct {
	log     *logger.Logger
	store   storage.ArtifactStore
	reports repos.ImportReportRepo
}

func NewWriter(baseLog *logger.Logger, store storage.ArtifactStore, reports repos.ImportReportRepo) *Writer {
	return &Writer{log: baseLog.With("service", "ReportWriter"), store: store, reports: reports}
}

// ArtifactKey is the storage key of a job's report, grouped by entity.
func ArtifactKey(entity types.Entity, jobID fmt.Stringer) string {
	return fmt.Sprintf("reports/%s/%s.xlsx", entity, jobID.String())
}

// Write stores the workbook before indexing it, so an import_report row
// always points at an artifact that exists.
func (w *Writer) Write(ctx context.Context, summary types.Summary, records []failures.Record) (*types.ImportReport, error) {
	buf, err := Workbook(summary, records)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	key := ArtifactKey(summary.Entity, summary.JobID)
	if err := w.store.Put(ctx, key, buf); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}

	if records == nil {
		records = []failures.Record{}
	}
	failedRows, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode failed rows: %w", err)
	}
	rep := &types.ImportReport{
		JobID:           summary.JobID,
		Entity:          summary.Entity,
		Status:          summary.Status,
		SourceFilename:  summary.SourceFilename,
		Added:           summary.Added,
		Updated:         summary.Updated,
		Failed:          summary.Failed,
		Warnings:        summary.Warnings,
		Processed:       summary.Processed,
		Total:           summary.Total,
		DurationSeconds: summary.DurationSeconds,
		FailedRows:      datatypes.JSON(failedRows),
		ArtifactKey:     key,
	}
	if err := w.reports.Create(dbctx.Context{Ctx: ctx}, rep); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	w.log.Info("Report written", "job_id", summary.JobID, "entity", summary.Entity, "key", key, "records", len(records))
	return rep, nil
}
