// Package normalize provides canonicalization and string matching for
// order attributes and catalog labels. Catalog data is hand-entered in
// spreadsheets, so service type names and question labels arrive with
// inconsistent casing, whitespace, and punctuation. All comparisons in the
// routing engine go through the canonical forms defined here.
package normalize

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// CanonicalKey reduces a label to its comparable form: lowercase with all
// characters except letters and digits removed. Letters from any script are
// kept so that non-Latin labels stay distinct.
//
//	"English Account?"  -> "englishaccount"
//	"  ALIPAY transfer" -> "alipaytransfer"
func CanonicalKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// CanonicalValue normalizes an attribute value for comparison: lowercase,
// trimmed, with interior whitespace runs collapsed to single spaces.
// Unlike CanonicalKey, punctuation is preserved ("7.05" must survive).
func CanonicalValue(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Matcher decides whether two labels refer to the same thing.
type Matcher interface {
	// Match reports whether a and b are equivalent labels.
	Match(a, b string) bool

	// Similarity returns a score in [0, 1] where 1 is identical.
	Similarity(a, b string) float64
}

// ExactMatcher matches labels whose canonical keys are identical.
type ExactMatcher struct{}

// NewExactMatcher creates a matcher requiring canonical equality
func NewExactMatcher() *ExactMatcher {
	return &ExactMatcher{}
}

func (m *ExactMatcher) Match(a, b string) bool {
	return CanonicalKey(a) == CanonicalKey(b)
}

func (m *ExactMatcher) Similarity(a, b string) float64 {
	if m.Match(a, b) {
		return 1.0
	}
	return 0.0
}

// FuzzyMatcher matches labels whose similarity meets a threshold. Similarity
// combines edit distance over the canonical keys with token-set overlap, so
// both "ali pay" vs "alipay" and "bank transfer usd" vs "usd bank transfer"
// score high.
type FuzzyMatcher struct {
	// Threshold is the minimum similarity for a match, in (0, 1].
	Threshold float64
}

// DefaultFuzzyThreshold balances typo tolerance against false positives on
// short labels.
const DefaultFuzzyThreshold = 0.8

// NewFuzzyMatcher creates a fuzzy matcher with the given threshold.
// A non-positive threshold falls back to DefaultFuzzyThreshold.
func NewFuzzyMatcher(threshold float64) *FuzzyMatcher {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &FuzzyMatcher{Threshold: threshold}
}

func (m *FuzzyMatcher) Match(a, b string) bool {
	return m.Similarity(a, b) >= m.Threshold
}

func (m *FuzzyMatcher) Similarity(a, b string) float64 {
	ca, cb := CanonicalKey(a), CanonicalKey(b)
	if ca == cb {
		return 1.0
	}
	if ca == "" || cb == "" {
		return 0.0
	}

	editScore := levenshteinSimilarity(ca, cb)
	tokenScore := tokenSetSimilarity(a, b)

	if tokenScore > editScore {
		return tokenScore
	}
	return editScore
}

// levenshteinSimilarity converts edit distance to a [0, 1] score relative to
// the longer string.
func levenshteinSimilarity(a, b string) float64 {
	distance := levenshtein.ComputeDistance(a, b)

	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// tokenSetSimilarity computes Jaccard overlap of canonicalized word tokens,
// making word order irrelevant.
func tokenSetSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range setA {
		if setB[token] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, field := range strings.Fields(s) {
		if token := CanonicalKey(field); token != "" {
			set[token] = true
		}
	}
	return set
}
