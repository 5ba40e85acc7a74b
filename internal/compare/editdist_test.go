package compare

import "testing"

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"both_empty", "", "", 0},
		{"empty_to_abc", "", "abc", 3},
		{"abc_to_empty", "abc", "", 3},
		{"identical", "kitten", "kitten", 0},
		{"kitten_sitting", "kitten", "sitting", 3},
		{"single_substitution", "cat", "cut", 1},
		{"single_insertion", "cat", "cart", 1},
		{"single_deletion", "cart", "cat", 1},
		{"completely_different", "abc", "xyz", 3},
		{"removed_space", "x + 1", "x+1", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Levenshtein([]rune(tt.a), []rune(tt.b))
			if got != tt.want {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLevenshteinSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"", "hello"},
		{"def f(x):", "def f(x) :"},
		{"short", "a much longer string entirely"},
	}
	for _, p := range pairs {
		ab := Levenshtein([]rune(p[0]), []rune(p[1]))
		ba := Levenshtein([]rune(p[1]), []rune(p[0]))
		if ab != ba {
			t.Errorf("Levenshtein(%q, %q) = %d but reversed = %d", p[0], p[1], ab, ba)
		}
	}
}

func TestLevenshteinBounds(t *testing.T) {
	// abs(len(a)-len(b)) <= d <= max(len(a), len(b))
	pairs := [][2]string{
		{"abcdef", "abc"},
		{"hello world", "goodbye"},
		{"", "xyz"},
		{"same", "same"},
	}
	for _, p := range pairs {
		a, b := []rune(p[0]), []rune(p[1])
		d := Levenshtein(a, b)
		lower := len(a) - len(b)
		if lower < 0 {
			lower = -lower
		}
		upper := max(len(a), len(b))
		if d < lower || d > upper {
			t.Errorf("Levenshtein(%q, %q) = %d outside bounds [%d, %d]", p[0], p[1], d, lower, upper)
		}
	}
}

func TestLevenshteinWords(t *testing.T) {
	ref := []string{"def", "f(x):", "return", "x", "+", "1"}
	hyp := []string{"def", "f(x):", "return", "x+1"}
	// x+1 substitutes one of {x, +, 1}; the other two are deletions.
	if got := Levenshtein(ref, hyp); got != 3 {
		t.Errorf("word-level distance = %d, want 3", got)
	}
}
