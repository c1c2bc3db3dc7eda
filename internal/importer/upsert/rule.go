package upsert

import (
	"fmt"

	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/importer/failures"
	"github.com/yungbote/netinv-backend/internal/importer/tabular"
	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
)

type Outcome int

const (
	Added Outcome = iota + 1
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

func outcomeOf(exists bool) Outcome {
	if exists {
		return Updated
	}
	return Added
}

// Rule loads one entity type. Upsert runs inside a savepoint; returning an
// error rolls back everything the row wrote.
type Rule interface {
	Entity() imports.Entity
	// RequiredColumns must be in the header and non-blank on every row.
	RequiredColumns() []string
	NaturalKey(row tabular.Row) string
	Upsert(rc *RowContext) (Outcome, error)
}

// numericRule is implemented by rules with numeric required columns. A value
// in one of them that does not coerce to a number is treated as missing.
type numericRule interface {
	NumericColumns() []string
}

// RowError is a classified row rejection. Any other error returned by a rule
// is reported as a row exception.
type RowError struct {
	Cause  failures.Cause
	Detail string
}

func (e *RowError) Error() string {
	if e.Detail == "" {
		return e.Cause.Label()
	}
	return e.Cause.Label() + ": " + e.Detail
}

func rowErr(cause failures.Cause, format string, args ...any) *RowError {
	return &RowError{Cause: cause, Detail: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) *RowError {
	return rowErr(failures.DependencyNotFound, format, args...)
}

func invalid(format string, args ...any) *RowError {
	return rowErr(failures.InvalidValue, format, args...)
}

type warning struct {
	cause  failures.Cause
	detail string
}

// RowContext carries one row through a rule.
type RowContext struct {
	dbctx.Context
	Row   tabular.Row
	Frame *tabular.Frame

	warnings []warning
}

// Warn attaches a non-blocking record, kept only if the row commits.
func (rc *RowContext) Warn(cause failures.Cause, format string, args ...any) {
	rc.warnings = append(rc.warnings, warning{cause: cause, detail: fmt.Sprintf(format, args...)})
}

// Present reports whether the upload carried the column at all. Optional
// fields are only overwritten when their column is present.
func (rc *RowContext) Present(col string) bool {
	return rc.Frame != nil && rc.Frame.HasColumn(col)
}
