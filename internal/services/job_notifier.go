package services

import (
	"context"
	"time"

	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
	"github.com/yungbote/netinv-backend/internal/realtime"
	"github.com/yungbote/netinv-backend/internal/realtime/bus"
)

type JobNotifier interface {
	JobCreated(job *types.ImportJob)
	JobProgress(job *types.ImportJob, stage string, progress int, message string)
	JobFailed(job *types.ImportJob, stage string, errorMessage string)
	JobDone(job *types.ImportJob, summary *types.Summary)
}

type jobNotifier struct {
	log *logger.Logger
	bus bus.Bus
}

// NewJobNotifier publishes job lifecycle events. Publish errors are logged and
// never reach the import.
func NewJobNotifier(baseLog *logger.Logger, b bus.Bus) JobNotifier {
	if b == nil {
		b = bus.NewNopBus()
	}
	return &jobNotifier{log: baseLog.With("service", "JobNotifier"), bus: b}
}

func (n *jobNotifier) publish(job *types.ImportJob, event realtime.EventType, data map[string]any) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := n.bus.Publish(ctx, realtime.Message{
		Channel: job.ID.String(),
		Event:   event,
		Data:    data,
	})
	if err != nil {
		n.log.Warn("Publish job event failed", "job_id", job.ID, "event", event, "error", err)
	}
}

func (n *jobNotifier) JobCreated(job *types.ImportJob) {
	n.publish(job, realtime.EventJobCreated, map[string]any{"job": job})
}

func (n *jobNotifier) JobProgress(job *types.ImportJob, stage string, progress int, message string) {
	n.publish(job, realtime.EventJobProgress, map[string]any{
		"job_id":      job.ID,
		"entity":      job.Entity,
		"stage":       stage,
		"progress":    progress,
		"processed":   job.Processed,
		"total":       job.Total,
		"eta_seconds": job.EtaSeconds,
		"message":     message,
	})
}

func (n *jobNotifier) JobFailed(job *types.ImportJob, stage string, errorMessage string) {
	n.publish(job, realtime.EventJobFailed, map[string]any{
		"job_id": job.ID,
		"entity": job.Entity,
		"stage":  stage,
		"error":  errorMessage,
	})
}

func (n *jobNotifier) JobDone(job *types.ImportJob, summary *types.Summary) {
	n.publish(job, realtime.EventJobDone, map[string]any{
		"job_id":  job.ID,
		"entity":  job.Entity,
		"summary": summary,
	})
}
