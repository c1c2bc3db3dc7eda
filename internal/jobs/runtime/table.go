package runtime

import (
	"sync"

	"github.com/google/uuid"

	types "github.com/yungbote/netinv-backend/internal/domain"
)

const DefaultTableSize = 1000

// Snapshot is a copy of a job's live state. It never aliases the worker's
// own job value.
type Snapshot struct {
	Job     types.ImportJob
	Summary *types.Summary
}

// JobTable holds live state for jobs started by this process. Every read and
// write goes through one lock; writers are throttled upstream.
type JobTable struct {
	mu    sync.RWMutex
	jobs  map[uuid.UUID]*Snapshot
	order []uuid.UUID
	max   int
}

func NewJobTable(max int) *JobTable {
	if max <= 0 {
		max = DefaultTableSize
	}
	return &JobTable{jobs: make(map[uuid.UUID]*Snapshot), max: max}
}

func (t *JobTable) Put(job *types.ImportJob) {
	if t == nil || job == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.jobs[job.ID]; !ok {
		t.order = append(t.order, job.ID)
	}
	t.jobs[job.ID] = &Snapshot{Job: *job}
	t.evictLocked()
}

// Sync copies job (and summary when non-nil) into the table.
func (t *JobTable) Sync(job *types.ImportJob, summary *types.Summary) {
	if t == nil || job == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.jobs[job.ID]
	if !ok {
		s = &Snapshot{}
		t.jobs[job.ID] = s
		t.order = append(t.order, job.ID)
	}
	s.Job = *job
	if summary != nil {
		cp := *summary
		s.Summary = &cp
	}
	t.evictLocked()
}

func (t *JobTable) Get(id uuid.UUID) (Snapshot, bool) {
	if t == nil {
		return Snapshot{}, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.jobs[id]
	if !ok {
		return Snapshot{}, false
	}
	out := Snapshot{Job: s.Job}
	if s.Summary != nil {
		cp := *s.Summary
		out.Summary = &cp
	}
	return out, true
}

func (t *JobTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.jobs)
}

// evictLocked drops the oldest terminal jobs once the table is over capacity.
// Live jobs are never evicted.
func (t *JobTable) evictLocked() {
	if len(t.jobs) <= t.max {
		return
	}
	kept := t.order[:0]
	for _, id := range t.order {
		s := t.jobs[id]
		if len(t.jobs) > t.max && s != nil && s.Job.Status.Terminal() {
			delete(t.jobs, id)
			continue
		}
		kept = append(kept, id)
	}
	t.order = kept
}
