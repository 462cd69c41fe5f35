// Package pricing derives price-distribution statistics and per-candidate
// price-rank labels from a scored candidate set.
package pricing

import (
	"github.com/shopsleuth/engine/internal/domain"
)

// Rank band boundaries, as ratios of candidate price to the base price.
// Bands are half-open and non-overlapping: a candidate at exactly 70% of the
// base price is "lowest", never "suspicious".
const (
	suspiciousBelow  = 0.70
	lowestBelow      = 0.85
	competitiveBelow = 1.15
	averageBelow     = 1.30
)

// Analyzer computes price statistics and ranks. Pure and deterministic:
// re-running it on an unchanged candidate set yields identical output.
type Analyzer struct{}

// NewAnalyzer creates a price distribution analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze returns candidates enriched with PriceRank plus the distribution
// summary. Statistics cover the union of candidate prices and the reference
// price when one is known. Ranks are computed against the reference price,
// falling back to the average candidate price when no reference exists.
func (a *Analyzer) Analyze(candidates []domain.CandidateMatch, refPrice *float64) ([]domain.CandidateMatch, domain.PriceDistributionSummary) {
	var summary domain.PriceDistributionSummary
	if len(candidates) == 0 {
		return nil, summary
	}

	prices := make([]float64, 0, len(candidates)+1)
	for _, c := range candidates {
		prices = append(prices, c.Price)
	}

	candidateSum := 0.0
	for _, p := range prices {
		candidateSum += p
	}
	candidateAvg := candidateSum / float64(len(prices))

	if refPrice != nil && *refPrice > 0 {
		prices = append(prices, *refPrice)
	}

	lowest, highest, sum := prices[0], prices[0], 0.0
	for _, p := range prices {
		if p < lowest {
			lowest = p
		}
		if p > highest {
			highest = p
		}
		sum += p
	}

	summary.LowestPrice = lowest
	summary.HighestPrice = highest
	summary.AveragePrice = sum / float64(len(prices))
	summary.PriceSpread = highest - lowest

	base := candidateAvg
	if refPrice != nil && *refPrice > 0 {
		base = *refPrice
	}

	enriched := make([]domain.CandidateMatch, len(candidates))
	for i, c := range candidates {
		c.PriceRank = Rank(c.Price, base)
		switch c.PriceRank {
		case domain.PriceRankSuspicious:
			summary.SuspiciouslyLowCount++
		case domain.PriceRankHigh:
			summary.SuspiciouslyHighCount++
		}
		enriched[i] = c
	}

	return enriched, summary
}

// Rank classifies a price against a base price using the fixed bands.
// Rank is a pure function of (price, base): it must be recomputed whenever
// either input changes.
func Rank(price, base float64) domain.PriceRank {
	if base <= 0 {
		return domain.PriceRankCompetitive
	}

	ratio := price / base
	switch {
	case ratio < suspiciousBelow:
		return domain.PriceRankSuspicious
	case ratio < lowestBelow:
		return domain.PriceRankLowest
	case ratio < competitiveBelow:
		return domain.PriceRankCompetitive
	case ratio < averageBelow:
		return domain.PriceRankAverage
	default:
		return domain.PriceRankHigh
	}
}
