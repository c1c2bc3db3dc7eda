package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/netinv-backend/internal/data/repos"
	"github.com/yungbote/netinv-backend/internal/data/repos/testutil"
	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/realtime"
	"github.com/yungbote/netinv-backend/internal/realtime/bus"
)

func TestAuditLogRecordAndList(t *testing.T) {
	ctx := context.Background()
	log := testutil.Logger(t)
	db := testutil.DB(t)
	svc := NewAuditLog(log, repos.NewAuditEntryRepo(db, log))

	jobID := uuid.New()
	require.NoError(t, svc.Record(ctx, AuditRecord{JobID: &jobID, Entity: imports.EntitySites, Action: imports.AuditImportStarted, Status: "queued"}))
	require.NoError(t, svc.Record(ctx, AuditRecord{JobID: &jobID, Actor: "noc", Entity: imports.EntitySites, Action: imports.AuditImportCompleted, Status: "completed", Data: map[string]int{"added": 3}}))
	require.NoError(t, svc.Record(ctx, AuditRecord{Actor: "noc", Entity: imports.EntityCells, Action: imports.AuditImportFailed, Status: "failed"}))

	page, err := svc.List(ctx, repos.AuditFindParams{Entity: imports.EntitySites})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, 100, page.Limit)

	page, err = svc.List(ctx, repos.AuditFindParams{Actor: "anonymous"})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, imports.AuditImportStarted, page.Entries[0].Action)

	page, err = svc.List(ctx, repos.AuditFindParams{JobID: &jobID, Action: imports.AuditImportCompleted})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	assert.JSONEq(t, `{"added":3}`, string(page.Entries[0].Data))
}

func TestJobNotifierPublishesOnJobChannel(t *testing.T) {
	mem := bus.NewMemoryBus()
	n := NewJobNotifier(testutil.Logger(t), mem)
	job := &types.ImportJob{ID: uuid.New(), Entity: imports.EntityCells, Processed: 5, Total: 10}

	n.JobCreated(job)
	n.JobProgress(job, "upserting", 50, "5/10 rows")
	n.JobDone(job, &types.Summary{JobID: job.ID})

	msgs := mem.Messages()
	require.Len(t, msgs, 3)
	for _, m := range msgs {
		assert.Equal(t, job.ID.String(), m.Channel)
	}
	assert.Equal(t, realtime.EventJobProgress, msgs[1].Event)
	assert.Equal(t, 50, msgs[1].Data["progress"])
	assert.Equal(t, realtime.EventJobDone, msgs[2].Event)
}
