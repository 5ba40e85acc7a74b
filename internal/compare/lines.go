package compare

import "strings"

// maxDiffRows bounds the positional diff kept in an Alignment. The count
// and rate always cover every line position regardless of this cap.
const maxDiffRows = 30

// LineDiff is one row of the positional line diff.
type LineDiff struct {
	Index      int    `json:"index"`
	Reference  string `json:"reference_line"`
	Hypothesis string `json:"hypothesis_line"`
	Matched    bool   `json:"matched"`
}

// Alignment is the result of a positional line-by-line comparison.
type Alignment struct {
	Matches int     // positions where the stripped lines are equal
	Total   int     // max(len(ref), len(hyp)); 0 only when both are empty
	Rate    float64 // Matches/Total as a percentage; 100 when both empty
	Missing int     // trailing reference lines with no hypothesis counterpart
	Extra   int     // trailing hypothesis lines past the end of the reference
	Diff    []LineDiff
}

// AlignLines compares two line sequences by index position. A missing index
// on either side counts as an empty line; lines are compared with
// surrounding whitespace stripped.
func AlignLines(refLines, hypLines []string) Alignment {
	total := max(len(refLines), len(hypLines))
	if total == 0 {
		// Two empty texts match trivially.
		return Alignment{Rate: 100.0}
	}

	a := Alignment{Total: total}
	for i := 0; i < total; i++ {
		var ref, hyp string
		if i < len(refLines) {
			ref = refLines[i]
		}
		if i < len(hypLines) {
			hyp = hypLines[i]
		}
		matched := strings.TrimSpace(ref) == strings.TrimSpace(hyp)
		if matched {
			a.Matches++
		}
		if i < maxDiffRows {
			a.Diff = append(a.Diff, LineDiff{Index: i, Reference: ref, Hypothesis: hyp, Matched: matched})
		}
	}

	if len(refLines) > len(hypLines) {
		a.Missing = len(refLines) - len(hypLines)
	} else {
		a.Extra = len(hypLines) - len(refLines)
	}

	a.Rate = float64(a.Matches) / float64(total) * 100.0
	return a
}

// SplitLines splits text into lines without a trailing empty element for a
// final newline, matching how line counts are reported elsewhere: "" has no
// lines, "a\n" has one, "\n" has one empty line.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
