package worker

import (
	"fmt"
	"runtime/debug"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/netinv-backend/internal/jobs/runtime"
	"github.com/yungbote/netinv-backend/internal/observability"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

// Worker executes one claimed job through its registered handler.
type Worker struct {
	log      *logger.Logger
	registry *runtime.Registry
}

func NewWorker(baseLog *logger.Logger, registry *runtime.Registry) *Worker {
	return &Worker{
		log:      baseLog.With("component", "JobWorker"),
		registry: registry,
	}
}

// Run blocks until the handler returns. The job always ends terminal: a
// handler error or panic that was not already reported fails the job.
func (w *Worker) Run(jobType string, jc *runtime.Context) {
	ctx, span := observability.Tracer().Start(jc.Ctx, "import.job",
		trace.WithAttributes(
			attribute.String("job.id", jc.Job.ID.String()),
			attribute.String("job.type", jobType),
			attribute.String("import.entity", string(jc.Job.Entity)),
		),
	)
	defer span.End()
	jc.Ctx = ctx

	h, ok := w.registry.Get(jobType)
	if !ok {
		w.log.Warn("No pipeline registered for job_type",
			"job_type", jobType,
			"job_id", jc.Job.ID,
			"registered", w.registry.Types(),
		)
		err := &missingHandlerError{JobType: jobType}
		span.SetStatus(codes.Error, err.Error())
		jc.Fail("dispatch", err)
		return
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				w.log.Error("Job handler panic",
					"job_id", jc.Job.ID,
					"job_type", jobType,
					"panic", r,
					"stack", string(debug.Stack()),
				)
				err := errFromRecover(r)
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				jc.Fail("panic", err)
			}
		}()

		if runErr := h.Run(jc); runErr != nil {
			span.RecordError(runErr)
			span.SetStatus(codes.Error, runErr.Error())
			// Pipelines normally call jc.Fail themselves; this is a safety net.
			jc.Fail("run", runErr)
		}
	}()

	if !jc.Job.Status.Terminal() {
		jc.Fail("run", fmt.Errorf("handler returned without finishing the job"))
	}
	span.SetAttributes(
		attribute.String("job.status", string(jc.Job.Status)),
		attribute.Int("job.processed", jc.Job.Processed),
	)
}

type missingHandlerError struct{ JobType string }

func (e *missingHandlerError) Error() string { return "no handler registered for job_type=" + e.JobType }

func errFromRecover(v any) error { return &panicError{Val: v} }

type panicError struct{ Val any }

func (e *panicError) Error() string { return "import aborted by an internal error" }
