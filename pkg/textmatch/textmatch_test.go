package textmatch

import "testing"

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Baga Beach", "baga"},
		{"descriptive suffix", "Baga beach - Blue Flag Beach", "baga"},
		{"sunset suffix", "Palolem Sunset", "palolem"},
		{"punctuation", "St. Xavier's Church", "stxavierschurch"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeKey(tt.in); got != tt.want {
				t.Errorf("NormalizeKey(%q): got %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"baga", "baga", 0},
		{"anjuna", "anjunaa", 1},
	}
	for _, tt := range tests {
		if got := Levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("Levenshtein(%q, %q): got %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("baga", "baga"); got != 1.0 {
		t.Errorf("identical: got %f, want 1.0", got)
	}
	if got := Similarity("", ""); got != 1.0 {
		t.Errorf("both empty: got %f, want 1.0", got)
	}
	if got := Similarity("abcd", "wxyz"); got != 0.0 {
		t.Errorf("disjoint: got %f, want 0.0", got)
	}
}

func TestSimilarityDedupThreshold(t *testing.T) {
	// The canonical duplicate pair must clear the 0.85 dedup bar once
	// normalized.
	a := NormalizeKey("Baga Beach")
	b := NormalizeKey("Baga beach - Blue Flag Beach")
	if got := Similarity(a, b); got < 0.85 {
		t.Errorf("normalized duplicate pair: got %f, want >= 0.85", got)
	}
}
