// Package matching scores how confident the engine is that a candidate
// listing is the same product as the reference.
package matching

import (
	"regexp"
	"strings"

	"github.com/shopsleuth/engine/internal/domain"
	"github.com/shopsleuth/engine/internal/platform"
)

// Scoring weights. Title similarity dominates; platform trust biases the
// result; implausibly cheap candidates are penalized.
const (
	titleWeight = 70.0 // max contribution of token overlap
	trustWeight = 0.3  // trust (0-100) contributes up to 30

	cheapPenaltyHeavy = 25.0 // price below half the reference
	cheapPenaltyLight = 10.0 // price below 70% of the reference

	cheapHeavyRatio = 0.5
	cheapLightRatio = 0.7

	// DefaultMinConfidence is the floor below which a candidate is retained
	// in the result set but excluded from best-value selection.
	DefaultMinConfidence = 40.0
)

var punctuationPattern = regexp.MustCompile(`[^\w\s]`)

// stopWords are low-signal tokens excluded from title comparison.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "for": true, "with": true,
	"to": true, "by": true, "from": true, "is": true, "as": true,
}

// Scorer computes match confidence for candidates against a reference.
type Scorer struct {
	registry      *platform.Registry
	minConfidence float64
}

// NewScorer creates a scorer bound to a platform registry.
func NewScorer(registry *platform.Registry) *Scorer {
	return &Scorer{registry: registry, minConfidence: DefaultMinConfidence}
}

// MinConfidence returns the floor used for best-value eligibility.
func (s *Scorer) MinConfidence() float64 {
	return s.minConfidence
}

// ScoreAll returns a new slice of candidates enriched with MatchConfidence,
// leaving the inputs untouched. Candidates below the floor are retained:
// filtering is the caller's decision.
func (s *Scorer) ScoreAll(ref domain.ReferenceProduct, candidates []domain.CandidateMatch) []domain.CandidateMatch {
	scored := make([]domain.CandidateMatch, len(candidates))
	refTokens := Tokenize(ref.Title)

	for i, cand := range candidates {
		cand.MatchConfidence = s.score(refTokens, ref.Price, cand)
		scored[i] = cand
	}
	return scored
}

func (s *Scorer) score(refTokens []string, refPrice *float64, cand domain.CandidateMatch) float64 {
	overlap := overlapRatio(refTokens, Tokenize(cand.Title))
	confidence := overlap*titleWeight + s.registry.TrustWeight(cand.Platform)*trustWeight

	if refPrice != nil && *refPrice > 0 {
		ratio := cand.Price / *refPrice
		switch {
		case ratio < cheapHeavyRatio:
			confidence -= cheapPenaltyHeavy
		case ratio < cheapLightRatio:
			confidence -= cheapPenaltyLight
		}
	}

	return domain.ClampScore(confidence)
}

// TitleSimilarity returns the token-overlap ratio between two titles:
// shared-token count divided by the larger token-set size.
func TitleSimilarity(a, b string) float64 {
	return overlapRatio(Tokenize(a), Tokenize(b))
}

// Tokenize splits a title into normalized lowercase tokens, dropping
// punctuation, stop words, and single characters.
func Tokenize(s string) []string {
	cleaned := punctuationPattern.ReplaceAllString(strings.ToLower(s), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 1 || stopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func overlapRatio(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	setB := make(map[string]bool, len(b))
	shared := 0
	for _, t := range b {
		if setB[t] {
			continue
		}
		setB[t] = true
		if set[t] {
			shared++
		}
	}

	larger := len(set)
	if len(setB) > larger {
		larger = len(setB)
	}
	return float64(shared) / float64(larger)
}
