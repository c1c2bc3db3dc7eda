package upsert

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/importer/failures"
	"github.com/yungbote/netinv-backend/internal/importer/tabular"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/netinv-backend/internal/pkg/errors"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

const DefaultBatchSize = 200

type Config struct {
	BatchSize int
}

// Counts summarises a run. Processed includes rejected rows.
type Counts struct {
	Added     int `json:"added"`
	Updated   int `json:"updated"`
	Failed    int `json:"failed"`
	Warnings  int `json:"warnings"`
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

func (c *Counts) merge(o Counts) {
	c.Added += o.Added
	c.Updated += o.Updated
	c.Failed += o.Failed
	c.Warnings += o.Warnings
	c.Processed += o.Processed
}

type Result struct {
	Counts
	ByEntity map[imports.Entity]Counts `json:"by_entity"`
}

// ProgressFunc is called after every row with cumulative counts.
type ProgressFunc func(processed, total int)

// RowObserver sees the outcome of every row ("added", "updated", "failed").
type RowObserver func(entity imports.Entity, outcome string)

type Engine struct {
	db       *gorm.DB
	log      *logger.Logger
	cfg      Config
	rules    map[imports.Entity]Rule
	observer RowObserver
}

// NewEngine indexes rules by entity. Rows are committed in batches of
// cfg.BatchSize, DefaultBatchSize when unset.
func NewEngine(db *gorm.DB, baseLog *logger.Logger, cfg Config, rules ...Rule) *Engine {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	byEntity := make(map[imports.Entity]Rule, len(rules))
	for _, r := range rules {
		byEntity[r.Entity()] = r
	}
	return &Engine{
		db:    db,
		log:   baseLog.With("service", "UpsertEngine"),
		cfg:   cfg,
		rules: byEntity,
	}
}

// SetObserver must be called before the first Run.
func (e *Engine) SetObserver(fn RowObserver) { e.observer = fn }

func (e *Engine) Rule(entity imports.Entity) (Rule, bool) {
	r, ok := e.rules[entity]
	return r, ok
}

// Validate checks that every frame has a rule and carries its required
// columns. A failure here fails the whole job before any row is written.
func (e *Engine) Validate(frames []*tabular.Frame) error {
	for _, f := range frames {
		rule, ok := e.rules[f.Entity]
		if !ok {
			return fmt.Errorf("%w: no import rule for %q", apperr.ErrInvalidArgument, f.Entity)
		}
		if missing := f.MissingColumns(rule.RequiredColumns()); len(missing) > 0 {
			return fmt.Errorf("%w: %s file is missing required column(s) %s",
				apperr.ErrInvalidArgument, f.Entity, strings.Join(missing, ", "))
		}
	}
	return nil
}

// Run loads frames in the order given, which callers keep in dependency
// order. Row failures go to collector; the returned error is structural.
// After a structural error the result counts only committed batches.
func (e *Engine) Run(ctx context.Context, frames []*tabular.Frame, collector *failures.Collector, progress ProgressFunc) (Result, error) {
	res := Result{ByEntity: map[imports.Entity]Counts{}}
	for _, f := range frames {
		res.Total += f.Len()
	}
	if err := e.Validate(frames); err != nil {
		return res, err
	}

	for _, f := range frames {
		offset := res.Processed
		counts, err := e.runFrame(ctx, f, collector, func(processed, _ int) {
			if progress != nil {
				progress(offset+processed, res.Total)
			}
		})
		counts.Total = f.Len()
		res.merge(counts)
		prev := res.ByEntity[f.Entity]
		prev.merge(counts)
		prev.Total += counts.Total
		res.ByEntity[f.Entity] = prev
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

// batch buffers what the rows of the open transaction produced. Nothing in it
// reaches the totals, the collector or the observer until the commit lands.
type batch struct {
	counts   Counts
	records  []failures.Record
	outcomes []string
}

func (b *batch) reject(rec failures.Record) {
	rec.Blocking = true
	b.records = append(b.records, rec)
	b.counts.Failed++
	b.outcomes = append(b.outcomes, "failed")
}

type requirement struct {
	col     string
	numeric bool
}

func requirementsOf(rule Rule) []requirement {
	numeric := map[string]bool{}
	if nr, ok := rule.(numericRule); ok {
		for _, col := range nr.NumericColumns() {
			numeric[col] = true
		}
	}
	cols := rule.RequiredColumns()
	out := make([]requirement, 0, len(cols))
	for _, col := range cols {
		out = append(out, requirement{col: col, numeric: numeric[col]})
	}
	return out
}

func (e *Engine) runFrame(ctx context.Context, frame *tabular.Frame, collector *failures.Collector, progress ProgressFunc) (Counts, error) {
	var counts Counts
	rule := e.rules[frame.Entity]
	total := frame.Len()
	if total == 0 {
		return counts, nil
	}

	start := time.Now()
	reqs := requirementsOf(rule)
	seen := make(map[string]int, total)
	var pending batch

	flush := func() {
		counts.merge(pending.counts)
		for _, rec := range pending.records {
			collector.Add(rec)
		}
		for _, outcome := range pending.outcomes {
			e.observe(frame.Entity, outcome)
		}
		pending = batch{}
	}
	discard := func(tx *gorm.DB, cause error) {
		if tx != nil {
			_ = tx.Rollback().Error
		}
		if pending.counts.Processed > 0 {
			e.log.Warn("Batch discarded",
				"entity", frame.Entity,
				"rows", pending.counts.Processed,
				"committed", counts.Processed,
				"error", cause,
			)
		}
	}

	tx := e.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return counts, fmt.Errorf("begin batch: %w", tx.Error)
	}
	for _, row := range frame.Rows {
		if err := ctx.Err(); err != nil {
			discard(tx, err)
			return counts, err
		}

		e.processRow(ctx, tx, rule, reqs, frame, row, seen, &pending)
		pending.counts.Processed++

		if pending.counts.Processed >= e.cfg.BatchSize {
			if err := tx.Commit().Error; err != nil {
				discard(nil, err)
				return counts, fmt.Errorf("commit batch: %w", err)
			}
			flush()
			tx = e.db.WithContext(ctx).Begin()
			if tx.Error != nil {
				return counts, fmt.Errorf("begin batch: %w", tx.Error)
			}
		}
		if progress != nil {
			progress(counts.Processed+pending.counts.Processed, total)
		}
	}
	if err := tx.Commit().Error; err != nil {
		discard(nil, err)
		return counts, fmt.Errorf("commit batch: %w", err)
	}
	flush()

	e.log.Info("Entity loaded",
		"entity", frame.Entity,
		"rows", total,
		"added", counts.Added,
		"updated", counts.Updated,
		"failed", counts.Failed,
		"warnings", counts.Warnings,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return counts, nil
}

func (e *Engine) processRow(
	ctx context.Context,
	tx *gorm.DB,
	rule Rule,
	reqs []requirement,
	frame *tabular.Frame,
	row tabular.Row,
	seen map[string]int,
	pending *batch,
) {
	key := rule.NaturalKey(row)
	reject := func(cause failures.Cause, detail string) {
		pending.reject(failures.Record{
			Row:    row.Number,
			Sheet:  row.Sheet,
			Entity: frame.Entity,
			Key:    key,
			Cause:  cause,
			Detail: detail,
		})
	}

	// A value that does not coerce is null, so it is missing too.
	var missing []string
	for _, req := range reqs {
		switch {
		case !row.Has(req.col):
			missing = append(missing, req.col)
		case req.numeric && row.OptFloat(req.col) == nil:
			missing = append(missing, fmt.Sprintf("%s (%q is not a number)", req.col, row.Text(req.col)))
		}
	}
	if len(missing) > 0 {
		reject(failures.MissingRequiredField, strings.Join(missing, ", "))
		return
	}

	if first, dup := seen[key]; dup {
		reject(failures.DuplicateNaturalKey, fmt.Sprintf("first seen on row %d", first))
		return
	}
	seen[key] = row.Number

	rc := &RowContext{Row: row, Frame: frame}
	var outcome Outcome
	err := tx.Transaction(func(sp *gorm.DB) (err error) {
		defer func() {
			if r := recover(); r != nil {
				e.log.Error("Row panic recovered", "entity", frame.Entity, "row", row.Number, "panic", r, "stack", string(debug.Stack()))
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		rc.Context = dbctx.Context{Ctx: ctx, Tx: sp}
		outcome, err = rule.Upsert(rc)
		return err
	})
	if err != nil {
		var re *RowError
		if errors.As(err, &re) {
			reject(re.Cause, re.Detail)
		} else {
			e.log.Warn("Row exception", "entity", frame.Entity, "row", row.Number, "key", key, "error", err)
			reject(failures.RowException, err.Error())
		}
		return
	}

	switch outcome {
	case Updated:
		pending.counts.Updated++
	default:
		pending.counts.Added++
	}
	pending.outcomes = append(pending.outcomes, outcome.String())

	for _, w := range rc.warnings {
		pending.records = append(pending.records, failures.Record{
			Row:    row.Number,
			Sheet:  row.Sheet,
			Entity: frame.Entity,
			Key:    key,
			Cause:  w.cause,
			Detail: w.detail,
		})
		pending.counts.Warnings++
	}
}

func (e *Engine) observe(entity imports.Entity, outcome string) {
	if e.observer != nil {
		e.observer(entity, outcome)
	}
}
