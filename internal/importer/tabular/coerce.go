package tabular

import (
	"math"
	"strconv"
	"strings"
)

var nullTokens = map[string]bool{
	"":     true,
	"nan":  true,
	"none": true,
	"null": true,
}

// String trims raw and returns nil for blanks and the null spellings that
// spreadsheet exports leave behind.
func String(raw string) *string {
	s := strings.TrimSpace(raw)
	if nullTokens[strings.ToLower(s)] {
		return nil
	}
	return &s
}

// Float parses a decimal, accepting a comma decimal separator. NaN and
// infinities are rejected.
func Float(raw string) *float64 {
	s := String(raw)
	if s == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(*s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Int accepts integers and float spellings such as "28.0"; fractional values
// are truncated toward zero.
func Int(raw string) *int {
	s := String(raw)
	if s == nil {
		return nil
	}
	if v, err := strconv.Atoi(*s); err == nil {
		return &v
	}
	f := Float(*s)
	if f == nil || math.Abs(*f) >= 9.2e18 {
		return nil
	}
	v := int(math.Trunc(*f))
	return &v
}

// Text returns the coerced string of a column, or "" when it is blank.
func (r Row) Text(col string) string {
	if s := String(r.values[col]); s != nil {
		return *s
	}
	return ""
}

func (r Row) OptString(col string) *string { return String(r.values[col]) }
func (r Row) OptInt(col string) *int       { return Int(r.values[col]) }
func (r Row) OptFloat(col string) *float64 { return Float(r.values[col]) }
