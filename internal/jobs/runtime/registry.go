package runtime

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrNilPipeline       = errors.New("import pipeline is nil")
	ErrUnnamedPipeline   = errors.New("import pipeline has no job type")
	ErrDuplicatePipeline = errors.New("import pipeline already registered")
)

// Handler runs one kind of import job. Type is the job_type stored on the
// import_job row and used to dispatch queued jobs.
type Handler interface {
	Type() string
	Run(ctx *Context) error
}

type Registry struct {
	mu        sync.RWMutex
	pipelines map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{pipelines: make(map[string]Handler)}
}

func (r *Registry) Register(h Handler) error {
	if h == nil {
		return ErrNilPipeline
	}
	jobType := h.Type()
	if jobType == "" {
		return fmt.Errorf("%w: %T", ErrUnnamedPipeline, h)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.pipelines[jobType]; taken {
		return fmt.Errorf("%w: job_type=%s", ErrDuplicatePipeline, jobType)
	}
	r.pipelines[jobType] = h
	return nil
}

func (r *Registry) Get(jobType string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.pipelines[jobType]
	return h, ok
}

// Types lists registered job types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.pipelines))
	for t := range r.pipelines {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
