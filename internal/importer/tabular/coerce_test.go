package tabular

import (
	"math"
	"testing"
)

func TestString(t *testing.T) {
	cases := map[string]*string{
		"":         nil,
		"   ":      nil,
		"nan":      nil,
		"NaN":      nil,
		"None":     nil,
		"NULL":     nil,
		" Alger ":  strp("Alger"),
		"0":        strp("0"),
		"nan-cell": strp("nan-cell"),
	}
	for in, want := range cases {
		got := String(in)
		if (got == nil) != (want == nil) || (got != nil && *got != *want) {
			t.Fatalf("String(%q): want=%v got=%v", in, show(want), show(got))
		}
	}
}

func TestInt(t *testing.T) {
	cases := []struct {
		in   string
		want *int
	}{
		{"28", intp(28)},
		{"28.0", intp(28)},
		{" 62 ", intp(62)},
		{"7.9", intp(7)},
		{"-7.9", intp(-7)},
		{"abc", nil},
		{"", nil},
		{"nan", nil},
		{"inf", nil},
	}
	for _, tc := range cases {
		got := Int(tc.in)
		if (got == nil) != (tc.want == nil) || (got != nil && *got != *tc.want) {
			t.Fatalf("Int(%q): want=%v got=%v", tc.in, showInt(tc.want), showInt(got))
		}
	}
}

func TestFloat(t *testing.T) {
	if got := Float("36,75"); got == nil || *got != 36.75 {
		t.Fatalf("Float(comma): want=36.75 got=%v", got)
	}
	if got := Float("1800"); got == nil || *got != 1800 {
		t.Fatalf("Float(int): want=1800 got=%v", got)
	}
	for _, in := range []string{"NaN", "Inf", "-Infinity", "x1", "none"} {
		if got := Float(in); got != nil {
			t.Fatalf("Float(%q): want=nil got=%v", in, *got)
		}
	}
	if got := Float("1e3"); got == nil || math.Abs(*got-1000) > 1e-9 {
		t.Fatalf("Float(exp): want=1000 got=%v", got)
	}
}

func strp(s string) *string { return &s }
func intp(v int) *int       { return &v }

func show(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func showInt(p *int) any {
	if p == nil {
		return "<nil>"
	}
	return *p
}
