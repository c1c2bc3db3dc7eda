package tabular

import (
	"github.com/yungbote/netinv-backend/internal/domain/imports"
)

// Row is one data line. Number is the spreadsheet line number, so the first
// row under the header is 2.
type Row struct {
	Sheet  string
	Number int
	values map[string]string
}

func NewRow(sheet string, number int, values map[string]string) Row {
	if values == nil {
		values = map[string]string{}
	}
	return Row{Sheet: sheet, Number: number, values: values}
}

// Get returns the raw cell under a canonical column, "" when absent.
func (r Row) Get(col string) string { return r.values[col] }

// Has reports whether the column is present and non-blank after coercion.
func (r Row) Has(col string) bool { return String(r.values[col]) != nil }

func (r Row) Set(col, value string) { r.values[col] = value }

type Frame struct {
	Entity  imports.Entity
	Columns []string
	Rows    []Row

	seen map[string]bool
}

func (f *Frame) HasColumn(col string) bool { return f.seen[col] }

func (f *Frame) addColumn(col string) {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[col] {
		return
	}
	f.seen[col] = true
	f.Columns = append(f.Columns, col)
}

// MissingColumns lists required columns absent from every header.
func (f *Frame) MissingColumns(required []string) []string {
	var missing []string
	for _, col := range required {
		if !f.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

func (f *Frame) Len() int { return len(f.Rows) }
