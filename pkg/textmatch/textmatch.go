// Package textmatch holds the fuzzy name matching used for place
// deduplication and hallucination filtering.
package textmatch

import "strings"

// descriptive suffixes stripped before comparing place names, so that
// "Baga Beach" and "Baga Beach - Blue Flag Beach" collapse to the same key.
var keySuffixes = []string{
	" - blue flag beach",
	" blue flag beach",
	" blue flag",
	" beach",
	" sunrise beach",
	" sunset beach",
	" sunrise",
	" sunset",
}

// NormalizeKey lowercases a place name, strips one known descriptive
// suffix and removes every non-alphanumeric rune.
func NormalizeKey(name string) string {
	key := strings.ToLower(name)

	for _, suffix := range keySuffixes {
		if strings.HasSuffix(key, suffix) {
			key = key[:len(key)-len(suffix)]
			break
		}
	}

	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Levenshtein returns the character edit distance between two strings.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	m, n := len(ra), len(rb)
	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = 1 + min3(prev[j-1], prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return prev[n]
}

// Similarity is the Levenshtein ratio: 1.0 for identical strings, 0.0 for
// completely different ones.
func Similarity(a, b string) float64 {
	longer := len([]rune(a))
	if lb := len([]rune(b)); lb > longer {
		longer = lb
	}
	if longer == 0 {
		return 1.0
	}
	return float64(longer-Levenshtein(a, b)) / float64(longer)
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
