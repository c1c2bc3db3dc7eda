package runtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/netinv-backend/internal/data/repos"
	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/pkg/ctxutil"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
	"github.com/yungbote/netinv-backend/internal/services"
)

const DefaultProgressEvery = 25

/*
Context is the execution handle for one import job run.
It owns the job value for the lifetime of the run and is the only sanctioned
way to move the job through its lifecycle:
	- Begin: queued -> processing (durable)
	- Stage / Rows: live progress, mirrored to the JobTable and the notifier
	- Fail / Succeed: terminal transitions (durable), progress forced to 100
Pipelines never touch import_job or the JobTable directly.
*/
type Context struct {
	Ctx    context.Context
	Job    *types.ImportJob
	Repo   repos.ImportJobRepo
	Table  *JobTable
	Notify services.JobNotifier
	Log    *logger.Logger

	ProgressEvery int
	Now           func() time.Time

	summary     *types.Summary
	rowsStarted time.Time
	lastEmitted int
}

var terminalStatuses = []types.JobStatus{imports.JobCompleted, imports.JobFailed}

func NewContext(ctx context.Context, job *types.ImportJob, repo repos.ImportJobRepo, table *JobTable, notify services.JobNotifier, log *logger.Logger) *Context {
	return &Context{
		Ctx:           ctx,
		Job:           job,
		Repo:          repo,
		Table:         table,
		Notify:        notify,
		Log:           log,
		ProgressEvery: DefaultProgressEvery,
		Now:           time.Now,
		lastEmitted:   -1,
	}
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Context) ctx() context.Context { return ctxutil.Default(c.Ctx) }

func (c *Context) persist(updates map[string]interface{}) bool {
	if c.Repo == nil || c.Job == nil || c.Job.ID == uuid.Nil {
		return true
	}
	ok, err := c.Repo.UpdateFieldsUnlessStatus(dbctx.Context{Ctx: c.ctx()}, c.Job.ID, terminalStatuses, updates)
	if err != nil && c.Log != nil {
		c.Log.Warn("Persist job transition failed", "job_id", c.Job.ID, "error", err)
	}
	return ok || err != nil
}

// Begin moves a queued job to processing.
func (c *Context) Begin(stage, msg string) {
	if c == nil || c.Job == nil || c.Job.Status.Terminal() {
		return
	}
	now := c.now()
	if !c.persist(map[string]interface{}{
		"status":     imports.JobProcessing,
		"stage":      stage,
		"message":    msg,
		"started_at": now,
		"updated_at": now,
	}) {
		return
	}
	c.Job.Status = imports.JobProcessing
	c.Job.Stage = stage
	c.Job.Message = msg
	c.Job.StartedAt = &now
	c.Job.UpdatedAt = now
	c.Table.Sync(c.Job, nil)
	if c.Notify != nil {
		c.Notify.JobProgress(c.Job, stage, c.Job.Progress, msg)
	}
}

// Stage changes the visible stage without a durable write.
func (c *Context) Stage(stage, msg string) {
	if c == nil || c.Job == nil || c.Job.Status.Terminal() {
		return
	}
	c.Job.Stage = stage
	c.Job.Message = msg
	c.Job.UpdatedAt = c.now()
	c.Table.Sync(c.Job, nil)
	if c.Notify != nil {
		c.Notify.JobProgress(c.Job, stage, c.Job.Progress, msg)
	}
}

// SetTotal records the pre-counted row total and starts the ETA clock.
func (c *Context) SetTotal(total int) {
	if c == nil || c.Job == nil {
		return
	}
	c.Job.Total = total
	c.rowsStarted = c.now()
	c.lastEmitted = -1
	c.Table.Sync(c.Job, nil)
}

// Rows reports cumulative row progress. Emissions are throttled to the first
// row, the last row and every ProgressEvery rows in between.
func (c *Context) Rows(processed, total int) {
	if c == nil || c.Job == nil || c.Job.Status.Terminal() {
		return
	}
	every := c.ProgressEvery
	if every <= 0 {
		every = DefaultProgressEvery
	}
	if total > 0 {
		c.Job.Total = total
	}
	c.Job.Processed = processed
	first := c.lastEmitted < 0
	last := processed >= c.Job.Total
	if !first && !last && processed-c.lastEmitted < every {
		return
	}
	c.lastEmitted = processed

	if pct := PercentOf(processed, c.Job.Total); pct > c.Job.Progress {
		c.Job.Progress = pct
	}
	if c.rowsStarted.IsZero() {
		c.rowsStarted = c.now()
	}
	c.Job.EtaSeconds = ETA(processed, c.Job.Total, c.now().Sub(c.rowsStarted))
	c.Job.UpdatedAt = c.now()
	c.Table.Sync(c.Job, nil)
	if c.Notify != nil {
		c.Notify.JobProgress(c.Job, c.Job.Stage, c.Job.Progress, c.Job.Message)
	}
}

// PercentOf is capped at 99; only a terminal transition reports 100.
func PercentOf(processed, total int) int {
	if total <= 0 || processed <= 0 {
		return 0
	}
	pct := processed * 100 / total
	if pct > 99 {
		pct = 99
	}
	return pct
}

// ETA is remaining / (processed / elapsed) in seconds, nil until a row has
// been processed.
func ETA(processed, total int, elapsed time.Duration) *float64 {
	if processed <= 0 || total <= 0 {
		return nil
	}
	remaining := total - processed
	if remaining <= 0 {
		zero := 0.0
		return &zero
	}
	secs := elapsed.Seconds()
	if secs <= 0 {
		return nil
	}
	rate := float64(processed) / secs
	eta := float64(remaining) / rate
	return &eta
}

func (c *Context) SetSummary(s *types.Summary) { c.summary = s }
func (c *Context) Summary() *types.Summary     { return c.summary }

func (c *Context) AttachReport(reportID uint) {
	if c == nil || c.Job == nil {
		return
	}
	id := reportID
	c.Job.ReportID = &id
}

func (c *Context) resultJSON() datatypes.JSON {
	if c.summary == nil {
		return nil
	}
	b, err := json.Marshal(c.summary)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

// Fail marks the job failed. A job that already reached a terminal status is
// left untouched.
func (c *Context) Fail(stage string, err error) {
	if c == nil || c.Job == nil || c.Job.Status.Terminal() {
		return
	}
	now := c.now()
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	res := c.resultJSON()
	if !c.persist(map[string]interface{}{
		"status":      imports.JobFailed,
		"stage":       stage,
		"progress":    100,
		"processed":   c.Job.Processed,
		"total":       c.Job.Total,
		"eta_seconds": nil,
		"error":       msg,
		"message":     c.Job.Message,
		"report_id":   c.Job.ReportID,
		"result":      res,
		"finished_at": now,
		"updated_at":  now,
	}) {
		return
	}
	c.Job.Status = imports.JobFailed
	c.Job.Stage = stage
	c.Job.Progress = 100
	c.Job.EtaSeconds = nil
	c.Job.Error = msg
	c.Job.Result = res
	c.Job.FinishedAt = &now
	c.Job.UpdatedAt = now
	c.Table.Sync(c.Job, c.summary)
	if c.Notify != nil {
		c.Notify.JobFailed(c.Job, stage, msg)
	}
}

// Succeed marks the job completed with the summary set through SetSummary.
func (c *Context) Succeed(finalStage string, msg string) {
	if c == nil || c.Job == nil || c.Job.Status.Terminal() {
		return
	}
	now := c.now()
	res := c.resultJSON()
	if !c.persist(map[string]interface{}{
		"status":      imports.JobCompleted,
		"stage":       finalStage,
		"progress":    100,
		"processed":   c.Job.Processed,
		"total":       c.Job.Total,
		"eta_seconds": 0,
		"message":     msg,
		"error":       "",
		"report_id":   c.Job.ReportID,
		"result":      res,
		"finished_at": now,
		"updated_at":  now,
	}) {
		return
	}
	zero := 0.0
	c.Job.Status = imports.JobCompleted
	c.Job.Stage = finalStage
	c.Job.Progress = 100
	c.Job.EtaSeconds = &zero
	c.Job.Message = msg
	c.Job.Error = ""
	c.Job.Result = res
	c.Job.FinishedAt = &now
	c.Job.UpdatedAt = now
	c.Table.Sync(c.Job, c.summary)
	if c.Notify != nil {
		c.Notify.JobDone(c.Job, c.summary)
	}
}
