package failures

import (
	"fmt"
	"sort"
	"sync"

	"github.com/yungbote/netinv-backend/internal/domain/imports"
)

type Cause string

const (
	MissingRequiredField   Cause = "missing_required_field"
	DependencyNotFound     Cause = "dependency_not_found"
	DuplicateNaturalKey    Cause = "duplicate_natural_key"
	SectorResolutionFailed Cause = "sector_resolution_failed"
	InvalidValue           Cause = "invalid_value"
	RowException           Cause = "row_exception"
)

func (c Cause) Label() string {
	switch c {
	case MissingRequiredField:
		return "missing required field"
	case DependencyNotFound:
		return "dependency not found"
	case DuplicateNaturalKey:
		return "duplicate natural key in file"
	case SectorResolutionFailed:
		return "sector resolution failed"
	case InvalidValue:
		return "invalid value"
	case RowException:
		return "row processing exception"
	default:
		return string(c)
	}
}

// Record describes one row that was rejected (Blocking) or committed with a
// warning.
type Record struct {
	Row      int            `json:"row"`
	Sheet    string         `json:"sheet,omitempty"`
	Entity   imports.Entity `json:"entity"`
	Key      string         `json:"key"`
	Cause    Cause          `json:"cause"`
	Detail   string         `json:"detail,omitempty"`
	Blocking bool           `json:"blocking"`
}

func (r Record) String() string {
	where := fmt.Sprintf("row %d", r.Row)
	if r.Sheet != "" {
		where = fmt.Sprintf("%s row %d", r.Sheet, r.Row)
	}
	if r.Detail == "" {
		return fmt.Sprintf("%s [%s] %s: %s", where, r.Entity, r.Key, r.Cause.Label())
	}
	return fmt.Sprintf("%s [%s] %s: %s (%s)", where, r.Entity, r.Key, r.Cause.Label(), r.Detail)
}

// Collector is append-only and safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	records []Record
}

func NewCollector() *Collector { return &Collector{} }

func (c *Collector) Add(r Record) {
	c.mu.Lock()
	c.records = append(c.records, r)
	c.mu.Unlock()
}

// Records returns a copy ordered by entity load order, then sheet and row.
func (c *Collector) Records() []Record {
	c.mu.Lock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	c.mu.Unlock()

	rank := map[imports.Entity]int{}
	for i, e := range imports.DependencyOrder {
		rank[e] = i
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Entity != b.Entity {
			return rank[a.Entity] < rank[b.Entity]
		}
		if a.Sheet != b.Sheet {
			return a.Sheet < b.Sheet
		}
		return a.Row < b.Row
	})
	return out
}

// Counts returns (blocking failures, warnings).
func (c *Collector) Counts() (failed int, warnings int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.records {
		if r.Blocking {
			failed++
		} else {
			warnings++
		}
	}
	return failed, warnings
}

func (c *Collector) ByCause() map[Cause]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[Cause]int{}
	for _, r := range c.records {
		out[r.Cause]++
	}
	return out
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}
