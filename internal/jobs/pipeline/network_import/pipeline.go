package network_import

import (
	"fmt"
	"time"

	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/importer/failures"
	"github.com/yungbote/netinv-backend/internal/importer/tabular"
	"github.com/yungbote/netinv-backend/internal/importer/upsert"
	jobrt "github.com/yungbote/netinv-backend/internal/jobs/runtime"
)

func (p *Pipeline) Run(jc *jobrt.Context) error {
	if jc == nil || jc.Job == nil {
		return nil
	}
	job := jc.Job
	started := time.Now()
	collector := failures.NewCollector()

	jc.Begin("reading", "Reading "+job.SourceFilename)
	sheets, err := p.read(jc)
	if err != nil {
		p.finish(jc, collector, upsert.Result{}, started, "reading", err)
		return nil
	}

	plan, err := upsert.BuildPlan(job.Entity, sheets)
	if err != nil {
		p.finish(jc, collector, upsert.Result{}, started, "planning", err)
		return nil
	}
	if len(plan.Skipped) > 0 {
		p.log.Warn("Inventory sheets skipped", "job_id", job.ID, "sheets", plan.Skipped)
	}

	total := plan.Total()
	jc.SetTotal(total)
	jc.Stage("upserting", fmt.Sprintf("Importing %d rows", total))
	res, runErr := p.engine.Run(jc.Ctx, plan.Frames, collector, jc.Rows)
	p.finish(jc, collector, res, started, "upserting", runErr)
	return nil
}

func (p *Pipeline) read(jc *jobrt.Context) ([]tabular.Sheet, error) {
	rc, err := p.uploads.Open(jc.Ctx, jc.Job.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()
	sheets, err := tabular.ReadWorkbook(jc.Job.SourceFilename, rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", jc.Job.SourceFilename, err)
	}
	return sheets, nil
}

// finish writes the report for both outcomes, then moves the job to its
// terminal status so a completed job always has a downloadable report.
func (p *Pipeline) finish(jc *jobrt.Context, collector *failures.Collector, res upsert.Result, started time.Time, stage string, runErr error) {
	job := jc.Job
	finished := time.Now()
	status := imports.JobCompleted
	if runErr != nil {
		status = imports.JobFailed
	}

	summary := &types.Summary{
		JobID:           job.ID,
		Entity:          job.Entity,
		SourceFilename:  job.SourceFilename,
		Status:          status,
		Added:           res.Added,
		Updated:         res.Updated,
		Failed:          res.Failed,
		Warnings:        res.Warnings,
		Processed:       res.Processed,
		Total:           res.Total,
		StartedAt:       started,
		FinishedAt:      finished,
		DurationSeconds: finished.Sub(started).Seconds(),
	}
	if runErr != nil {
		summary.Message = runErr.Error()
	} else {
		summary.Message = fmt.Sprintf("%d added, %d updated, %d failed, %d warnings",
			res.Added, res.Updated, res.Failed, res.Warnings)
	}
	if job.Total == 0 && res.Total > 0 {
		job.Total = res.Total
	}
	if res.Processed > job.Processed {
		job.Processed = res.Processed
	}

	records := collector.Records()
	for cause, n := range collector.ByCause() {
		p.metrics.AddRowFailures(string(job.Entity), string(cause), n)
	}

	jc.Stage("reporting", "Writing report")
	rep, err := p.reports.Write(jc.Ctx, *summary, records)
	if err != nil {
		p.log.Error("Report write failed", "job_id", job.ID, "error", err)
		if runErr == nil {
			runErr = fmt.Errorf("write report: %w", err)
			stage = "reporting"
			summary.Status = imports.JobFailed
			summary.Message = runErr.Error()
		}
	} else {
		jc.AttachReport(rep.ID)
	}
	jc.SetSummary(summary)
	job.Message = summary.Message

	if runErr != nil {
		p.log.Warn("Import failed", "job_id", job.ID, "stage", stage, "error", runErr)
		jc.Fail(stage, runErr)
		return
	}
	jc.Succeed("completed", summary.Message)
}
