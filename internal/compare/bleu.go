package compare

import (
	"math"
	"strings"
)

const bleuMaxOrder = 4

// BLEU computes a sentence-level BLEU score over 1..4-gram modified
// precisions with brevity penalty. No smoothing: any zero precision makes
// the geometric mean zero. The result is in [0,1].
func BLEU(refWords, hypWords []string) float64 {
	if len(hypWords) == 0 {
		return 0.0
	}

	logSum := 0.0
	for n := 1; n <= bleuMaxOrder; n++ {
		p := modifiedPrecision(refWords, hypWords, n)
		if p == 0 {
			return 0.0
		}
		logSum += math.Log(p)
	}
	geoMean := math.Exp(logSum / bleuMaxOrder)

	// Brevity penalty. len(hypWords) > 0 is guaranteed above.
	bp := 1.0
	if len(hypWords) < len(refWords) {
		bp = math.Exp(1.0 - float64(len(refWords))/float64(len(hypWords)))
	}

	return bp * geoMean
}

// modifiedPrecision clips each hypothesis n-gram count by its reference
// count and divides by the total hypothesis n-gram count. A hypothesis
// shorter than n words has no n-grams and yields precision 0.
func modifiedPrecision(refWords, hypWords []string, n int) float64 {
	hypNgrams := countNgrams(hypWords, n)
	if len(hypNgrams) == 0 {
		return 0.0
	}
	refNgrams := countNgrams(refWords, n)

	matches := 0
	total := 0
	for ngram, count := range hypNgrams {
		total += count
		if refCount := refNgrams[ngram]; refCount > 0 {
			matches += min(count, refCount)
		}
	}
	return float64(matches) / float64(total)
}

// countNgrams counts sliding-window n-grams. Words come from strings.Fields
// so joining with a space cannot collide across different windows.
func countNgrams(words []string, n int) map[string]int {
	if n > len(words) {
		return nil
	}
	ngrams := make(map[string]int, len(words)-n+1)
	for i := 0; i <= len(words)-n; i++ {
		ngrams[strings.Join(words[i:i+n], " ")]++
	}
	return ngrams
}
