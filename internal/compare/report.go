// Package compare scores an OCR transcript against the original source text
// using character/word error rates, BLEU, and positional line matching.
package compare

import (
	"errors"
	"strings"
)

// ErrEmptyReference is returned when the reference text is empty (or all
// whitespace): error rates are normalized by reference length, so an empty
// reference makes them meaningless.
var ErrEmptyReference = errors.New("compare: empty reference")

// Report aggregates all similarity metrics for one (reference, hypothesis)
// pair. Rate fields are percentages; BLEU is scaled to 0-100 to match.
// Reports are constructed once by Compare and never mutated.
type Report struct {
	CER             float64 `json:"cer"`
	CEREditDistance int     `json:"cer_edit_distance"`
	WER             float64 `json:"wer"`
	WEREditDistance int     `json:"wer_edit_distance"`
	BLEU            float64 `json:"bleu"`

	ExactMatchRate     float64 `json:"exact_match_rate"`
	ExactMatchCount    int     `json:"exact_match_count"`
	TotalComparedLines int     `json:"total_compared_lines"`
	MissingLineCount   int     `json:"missing_line_count"`
	ExtraLineCount     int     `json:"extra_line_count"`

	ReferenceCharCount  int `json:"reference_char_count"`
	HypothesisCharCount int `json:"hypothesis_char_count"`
	ReferenceLineCount  int `json:"reference_line_count"`
	HypothesisLineCount int `json:"hypothesis_line_count"`

	LineDiff []LineDiff `json:"line_diff,omitempty"`
}

// Compare scores hypothesis against reference: rune-level edit distance for
// CER, whitespace-tokenized words for WER and BLEU, and positional line
// matching for the exact-match rate. Pure function, no I/O.
//
// The reference must contain at least one non-whitespace character;
// otherwise ErrEmptyReference is returned. An empty hypothesis is a valid,
// meaningful input (maximal error rates, BLEU 0).
func Compare(reference, hypothesis string) (*Report, error) {
	refChars := []rune(reference)
	hypChars := []rune(hypothesis)
	refWords := strings.Fields(reference)
	hypWords := strings.Fields(hypothesis)

	if len(refChars) == 0 || len(refWords) == 0 {
		return nil, ErrEmptyReference
	}

	cerDist := Levenshtein(refChars, hypChars)
	werDist := Levenshtein(refWords, hypWords)

	refLines := SplitLines(reference)
	hypLines := SplitLines(hypothesis)
	align := AlignLines(refLines, hypLines)

	return &Report{
		CER:             float64(cerDist) / float64(len(refChars)) * 100.0,
		CEREditDistance: cerDist,
		WER:             float64(werDist) / float64(len(refWords)) * 100.0,
		WEREditDistance: werDist,
		BLEU:            BLEU(refWords, hypWords) * 100.0,

		ExactMatchRate:     align.Rate,
		ExactMatchCount:    align.Matches,
		TotalComparedLines: align.Total,
		MissingLineCount:   align.Missing,
		ExtraLineCount:     align.Extra,

		ReferenceCharCount:  len(refChars),
		HypothesisCharCount: len(hypChars),
		ReferenceLineCount:  len(refLines),
		HypothesisLineCount: len(hypLines),

		LineDiff: align.Diff,
	}, nil
}
