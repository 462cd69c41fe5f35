// Package keyword wraps an Aho-Corasick automaton for single-pass matching
// of pattern tables against listing text. Both the product-type classifier
// and the print-on-demand detector run their tables through it.
package keyword

import (
	"strings"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// Set matches a fixed list of keyword phrases against text in a single
// O(n+m) pass. Immutable after construction, safe for concurrent use.
type Set struct {
	matcher  *ahocorasick.Matcher
	keywords []string
}

// NewSet builds the automaton from a keyword list. Keywords are normalized
// the same way input text is, so "Hand-Painted" matches "hand painted".
func NewSet(keywords []string) *Set {
	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if n := Normalize(kw); strings.TrimSpace(n) != "" {
			normalized = append(normalized, n)
		}
	}

	s := &Set{keywords: normalized}
	if len(normalized) > 0 {
		s.matcher = ahocorasick.NewStringMatcher(normalized)
	}
	return s
}

// Matches returns the keywords present in the text, in declaration order,
// each at most once. The text must already be normalized via Normalize.
func (s *Set) Matches(normalized string) []string {
	if s.matcher == nil || normalized == "" {
		return nil
	}

	hits := s.matcher.Match([]byte(normalized))
	if len(hits) == 0 {
		return nil
	}

	seen := make(map[int]bool, len(hits))
	for _, idx := range hits {
		if idx >= 0 && idx < len(s.keywords) {
			seen[idx] = true
		}
	}

	matched := make([]string, 0, len(seen))
	for i, kw := range s.keywords {
		if seen[i] {
			matched = append(matched, kw)
		}
	}
	return matched
}

// Count returns how many distinct keywords match the text.
func (s *Set) Count(normalized string) int {
	return len(s.Matches(normalized))
}

// Size returns the number of keywords in the set.
func (s *Set) Size() int {
	return len(s.keywords)
}

// Normalize lowercases and replaces every non-alphanumeric rune with a
// space, preserving word boundaries for the automaton.
func Normalize(text string) string {
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
