// Package recommend selects purchase recommendations from a scored,
// price-ranked candidate set and attaches advisory warnings derived from
// the authenticity flags.
package recommend

import (
	"fmt"

	"github.com/shopsleuth/engine/internal/domain"
	"github.com/shopsleuth/engine/internal/matching"
	"github.com/shopsleuth/engine/internal/platform"
)

// Weights control the best-value composite. They must sum to 1.0 for the
// score to stay on the 0-100 scale.
type Weights struct {
	Confidence float64
	Trust      float64
	PriceRisk  float64
}

// DefaultWeights is the shipped best-value blend.
var DefaultWeights = Weights{
	Confidence: 0.4,
	Trust:      0.3,
	PriceRisk:  0.3,
}

// rankSeverity converts a price rank into a risk figure for the best-value
// composite. Higher means riskier.
var rankSeverity = map[domain.PriceRank]float64{
	domain.PriceRankSuspicious:  90,
	domain.PriceRankHigh:        80,
	domain.PriceRankAverage:     50,
	domain.PriceRankCompetitive: 20,
	domain.PriceRankLowest:      10,
}

const (
	sellerRatingBonus    = 10.0
	lowConfidenceCutoff  = 70.0
	dropshipWarningCount = 2
)

// Engine picks the best-value, most-trusted and fastest candidates.
type Engine struct {
	registry      *platform.Registry
	weights       Weights
	minConfidence float64
}

// NewEngine builds an engine with the default weights.
func NewEngine(registry *platform.Registry) *Engine {
	return NewEngineWith(registry, DefaultWeights)
}

// NewEngineWith builds an engine with a custom best-value blend.
func NewEngineWith(registry *platform.Registry, w Weights) *Engine {
	return &Engine{
		registry:      registry,
		weights:       w,
		minConfidence: matching.DefaultMinConfidence,
	}
}

// Build selects recommendations from the enriched candidates. Candidates
// must already carry MatchConfidence and PriceRank. With no candidates the
// selections stay nil and only warnings are produced.
func (e *Engine) Build(candidates []domain.CandidateMatch, flags domain.AuthenticityFlagSet) domain.RecommendationSet {
	set := domain.RecommendationSet{Warnings: []string{}}

	if len(candidates) > 0 {
		set.BestValue = e.pickBestValue(candidates)
		set.MostTrusted = e.pickMostTrusted(candidates)
		set.Fastest = e.pickFastest(candidates)
	}

	set.Warnings = e.buildWarnings(candidates, flags)
	return set
}

func (e *Engine) pickBestValue(candidates []domain.CandidateMatch) *domain.CandidateMatch {
	var best *domain.CandidateMatch
	bestScore := -1.0

	for i := range candidates {
		c := &candidates[i]
		// Below-floor candidates stay in the result set but are never
		// recommended as the best value.
		if c.MatchConfidence < e.minConfidence {
			continue
		}

		severity, ok := rankSeverity[c.PriceRank]
		if !ok {
			severity = 50
		}

		score := e.weights.Confidence*c.MatchConfidence +
			e.weights.Trust*e.registry.TrustWeight(c.Platform) +
			e.weights.PriceRisk*(100-severity)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return copyCandidate(best)
}

func (e *Engine) pickMostTrusted(candidates []domain.CandidateMatch) *domain.CandidateMatch {
	var best *domain.CandidateMatch
	bestScore := -1.0

	for i := range candidates {
		c := &candidates[i]
		score := e.registry.TrustWeight(c.Platform)
		if c.SellerRating != nil {
			score += sellerRatingBonus * *c.SellerRating
		}
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return copyCandidate(best)
}

func (e *Engine) pickFastest(candidates []domain.CandidateMatch) *domain.CandidateMatch {
	var best *domain.CandidateMatch
	bestPriority := int(^uint(0) >> 1)

	for i := range candidates {
		c := &candidates[i]
		if p := e.registry.FulfillmentPriority(c.Platform); p < bestPriority {
			bestPriority = p
			best = c
		}
	}
	return copyCandidate(best)
}

func (e *Engine) buildWarnings(candidates []domain.CandidateMatch, flags domain.AuthenticityFlagSet) []string {
	warnings := []string{}

	suspicious := 0
	lowConfidence := 0
	for _, c := range candidates {
		if c.PriceRank == domain.PriceRankSuspicious {
			suspicious++
		}
		if c.MatchConfidence < lowConfidenceCutoff {
			lowConfidence++
		}
	}

	if suspicious > 0 {
		warnings = append(warnings, fmt.Sprintf("%d listing(s) priced suspiciously low; counterfeits often undercut the market", suspicious))
	}
	if len(flags.DropshipIndicators) > dropshipWarningCount {
		warnings = append(warnings, "multiple listings show dropshipping patterns; expect long shipping times and inconsistent quality")
	}
	if len(flags.IdenticalImages) > 1 {
		warnings = append(warnings, "several listings reuse the same product image; they may resell the same source item")
	}
	if len(candidates) > 0 && lowConfidence*2 > len(candidates) {
		warnings = append(warnings, "most matches have low confidence; verify the listings are actually the same product")
	}

	return warnings
}

// copyCandidate returns a detached copy so recommendation consumers cannot
// mutate the shared matches slice.
func copyCandidate(c *domain.CandidateMatch) *domain.CandidateMatch {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}
