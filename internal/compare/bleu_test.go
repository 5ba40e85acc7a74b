package compare

import (
	"math"
	"strings"
	"testing"
)

func TestBLEUIdentical(t *testing.T) {
	words := strings.Fields("def add ( a , b ) : return a + b")
	if got := BLEU(words, words); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("BLEU(identical) = %f, want 1.0", got)
	}
}

func TestBLEUEmptyHypothesis(t *testing.T) {
	ref := strings.Fields("some reference words here")
	if got := BLEU(ref, nil); got != 0.0 {
		t.Errorf("BLEU(ref, empty) = %f, want 0.0", got)
	}
}

func TestBLEUHypothesisShorterThanOrder(t *testing.T) {
	// Fewer than 4 hypothesis words: the 4-gram precision is 0 and the
	// unsmoothed geometric mean collapses to 0.
	ref := strings.Fields("one two three four five")
	hyp := strings.Fields("one two three")
	if got := BLEU(ref, hyp); got != 0.0 {
		t.Errorf("BLEU(short hyp) = %f, want 0.0", got)
	}
}

func TestBLEUNoOverlap(t *testing.T) {
	ref := strings.Fields("alpha beta gamma delta epsilon")
	hyp := strings.Fields("one two three four five")
	if got := BLEU(ref, hyp); got != 0.0 {
		t.Errorf("BLEU(disjoint) = %f, want 0.0", got)
	}
}

func TestBLEUBrevityPenalty(t *testing.T) {
	ref := strings.Fields("a b c d e f g h")
	hyp := strings.Fields("a b c d e f")
	got := BLEU(ref, hyp)
	if got <= 0 || got >= 1 {
		t.Fatalf("BLEU(truncated hyp) = %f, want in (0, 1)", got)
	}
	// All n-gram precisions are 1 (every hyp n-gram occurs in ref), so the
	// score is exactly the brevity penalty exp(1 - 8/6).
	want := math.Exp(1.0 - 8.0/6.0)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("BLEU(truncated hyp) = %f, want %f", got, want)
	}
}

func TestBLEULongerHypothesisNoPenalty(t *testing.T) {
	ref := strings.Fields("a b c d e")
	hyp := strings.Fields("a b c d e x")
	got := BLEU(ref, hyp)
	// Unigram precision 5/6, bigram 4/5, trigram 3/4, 4-gram 2/3; bp = 1.
	want := math.Exp((math.Log(5.0/6.0) + math.Log(4.0/5.0) + math.Log(3.0/4.0) + math.Log(2.0/3.0)) / 4.0)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("BLEU = %f, want %f", got, want)
	}
}

func TestCountNgramsRepeats(t *testing.T) {
	counts := countNgrams([]string{"a", "a", "a"}, 1)
	if counts["a"] != 3 {
		t.Errorf(`counts["a"] = %d, want 3`, counts["a"])
	}
	bigrams := countNgrams([]string{"a", "a", "a"}, 2)
	if bigrams["a a"] != 2 {
		t.Errorf(`bigrams["a a"] = %d, want 2`, bigrams["a a"])
	}
}
