package compare

import (
	"fmt"
	"testing"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"no_trailing_newline", "abc", 1},
		{"trailing_newline", "abc\n", 1},
		{"two_lines", "a\nb\n", 2},
		{"lone_newline", "\n", 1},
		{"crlf", "a\r\nb\r\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitLines(tt.in); len(got) != tt.want {
				t.Errorf("SplitLines(%q) = %d lines, want %d", tt.in, len(got), tt.want)
			}
		})
	}
}

func TestAlignLinesIdentical(t *testing.T) {
	lines := []string{"def f(x):", "    return x + 1"}
	a := AlignLines(lines, lines)
	if a.Rate != 100.0 || a.Matches != 2 || a.Total != 2 {
		t.Errorf("identical alignment = %+v, want 2/2 at 100%%", a)
	}
}

func TestAlignLinesWhitespaceStripped(t *testing.T) {
	a := AlignLines([]string{"  x = 1  "}, []string{"x = 1"})
	if a.Matches != 1 {
		t.Errorf("stripped lines should match, got %+v", a)
	}
}

func TestAlignLinesAllDifferent(t *testing.T) {
	a := AlignLines([]string{"a", "b"}, []string{"c", "d"})
	if a.Rate != 0.0 || a.Matches != 0 {
		t.Errorf("disjoint alignment = %+v, want 0 matches", a)
	}
}

func TestAlignLinesBothEmpty(t *testing.T) {
	a := AlignLines(nil, nil)
	if a.Rate != 100.0 || a.Total != 0 {
		t.Errorf("empty alignment = %+v, want rate 100 over 0 lines", a)
	}
}

func TestAlignLinesTrailingExtra(t *testing.T) {
	ref := make([]string, 10)
	hyp := make([]string, 12)
	for i := range ref {
		ref[i] = fmt.Sprintf("line %d", i)
		hyp[i] = ref[i]
	}
	hyp[10] = "spurious one"
	hyp[11] = "spurious two"

	a := AlignLines(ref, hyp)
	if a.Total != 12 {
		t.Errorf("Total = %d, want 12", a.Total)
	}
	if a.Extra != 2 || a.Missing != 0 {
		t.Errorf("Extra = %d, Missing = %d, want 2 and 0", a.Extra, a.Missing)
	}
	if a.Matches != 10 {
		t.Errorf("Matches = %d, want 10", a.Matches)
	}
	wantRate := 10.0 / 12.0 * 100.0
	if diff := a.Rate - wantRate; diff > 0.001 || diff < -0.001 {
		t.Errorf("Rate = %f, want %f", a.Rate, wantRate)
	}
}

func TestAlignLinesTrailingMissing(t *testing.T) {
	a := AlignLines([]string{"a", "b", "c"}, []string{"a"})
	if a.Missing != 2 || a.Extra != 0 {
		t.Errorf("Missing = %d, Extra = %d, want 2 and 0", a.Missing, a.Extra)
	}
	if a.Total != 3 || a.Matches != 1 {
		t.Errorf("Total = %d, Matches = %d, want 3 and 1", a.Total, a.Matches)
	}
}

func TestAlignLinesDiffBounded(t *testing.T) {
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	a := AlignLines(lines, lines)
	if len(a.Diff) != maxDiffRows {
		t.Errorf("len(Diff) = %d, want %d", len(a.Diff), maxDiffRows)
	}
	// The cap must not affect the counted totals.
	if a.Matches != 50 || a.Total != 50 {
		t.Errorf("Matches/Total = %d/%d, want 50/50", a.Matches, a.Total)
	}
}

func TestAlignLinesDiffRecords(t *testing.T) {
	a := AlignLines([]string{"same", "old"}, []string{"same", "new"})
	if len(a.Diff) != 2 {
		t.Fatalf("len(Diff) = %d, want 2", len(a.Diff))
	}
	if !a.Diff[0].Matched || a.Diff[1].Matched {
		t.Errorf("Diff matched flags = %v/%v, want true/false", a.Diff[0].Matched, a.Diff[1].Matched)
	}
	if a.Diff[1].Reference != "old" || a.Diff[1].Hypothesis != "new" {
		t.Errorf("Diff[1] = %+v, want old/new", a.Diff[1])
	}
}
