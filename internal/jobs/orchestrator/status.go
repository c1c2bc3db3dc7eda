package orchestrator

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/jobs/runtime"
)

// StatusView is what status polling returns.
type StatusView struct {
	JobID          uuid.UUID       `json:"job_id"`
	Entity         types.Entity    `json:"entity"`
	Status         types.JobStatus `json:"status"`
	Stage          string          `json:"stage"`
	Progress       int             `json:"progress"`
	Processed      int             `json:"processed"`
	Total          int             `json:"total"`
	EtaSeconds     *float64        `json:"eta_seconds"`
	Message        string          `json:"message,omitempty"`
	Error          string          `json:"error,omitempty"`
	SourceFilename string          `json:"source_filename"`
	Actor          string          `json:"actor,omitempty"`
	ReportID       *uint           `json:"report_id,omitempty"`
	Summary        *types.Summary  `json:"summary,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	FinishedAt     *time.Time      `json:"finished_at,omitempty"`
}

func (v StatusView) Terminal() bool { return v.Status.Terminal() }

func viewOf(job *types.ImportJob, summary *types.Summary) StatusView {
	v := StatusView{
		JobID:          job.ID,
		Entity:         job.Entity,
		Status:         job.Status,
		Stage:          job.Stage,
		Progress:       job.Progress,
		Processed:      job.Processed,
		Total:          job.Total,
		EtaSeconds:     job.EtaSeconds,
		Message:        job.Message,
		Error:          job.Error,
		SourceFilename: job.SourceFilename,
		Actor:          job.Actor,
		ReportID:       job.ReportID,
		Summary:        summary,
		CreatedAt:      job.CreatedAt,
		StartedAt:      job.StartedAt,
		FinishedAt:     job.FinishedAt,
	}
	if v.Summary == nil && len(job.Result) > 0 {
		var s types.Summary
		if err := json.Unmarshal(job.Result, &s); err == nil {
			v.Summary = &s
		}
	}
	return v
}

func viewOfSnapshot(s runtime.Snapshot) StatusView {
	return viewOf(&s.Job, s.Summary)
}
