package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsleuth/engine/internal/domain"
)

func cand(url string, price float64) domain.CandidateMatch {
	return domain.CandidateMatch{URL: url, Price: price, Currency: "USD"}
}

func TestRank_BandBoundaries(t *testing.T) {
	base := 100.0
	tests := []struct {
		price float64
		want  domain.PriceRank
	}{
		{69.99, domain.PriceRankSuspicious},
		{70.00, domain.PriceRankLowest}, // boundary is half-open
		{84.99, domain.PriceRankLowest},
		{85.00, domain.PriceRankCompetitive},
		{100.00, domain.PriceRankCompetitive},
		{114.99, domain.PriceRankCompetitive},
		{115.00, domain.PriceRankAverage},
		{129.99, domain.PriceRankAverage},
		{130.00, domain.PriceRankHigh},
		{500.00, domain.PriceRankHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rank(tt.price, base), "price %.2f", tt.price)
	}
}

func TestAnalyze_ScenarioReferencePrice30(t *testing.T) {
	a := NewAnalyzer()
	ref := 30.0

	enriched, summary := a.Analyze([]domain.CandidateMatch{
		cand("https://x.example/1", 29),
		cand("https://y.example/1", 10),
		cand("https://z.example/1", 35),
	}, &ref)

	require.Len(t, enriched, 3)
	assert.Equal(t, domain.PriceRankCompetitive, enriched[0].PriceRank)
	assert.Equal(t, domain.PriceRankSuspicious, enriched[1].PriceRank)
	assert.Equal(t, domain.PriceRankAverage, enriched[2].PriceRank)
	assert.Equal(t, 1, summary.SuspiciouslyLowCount)

	// Statistics cover candidates plus the reference price.
	assert.InDelta(t, 10, summary.LowestPrice, 0.001)
	assert.InDelta(t, 35, summary.HighestPrice, 0.001)
	assert.InDelta(t, 26, summary.AveragePrice, 0.001)
	assert.InDelta(t, 25, summary.PriceSpread, 0.001)
}

func TestAnalyze_FallsBackToAverageWithoutReference(t *testing.T) {
	a := NewAnalyzer()

	enriched, summary := a.Analyze([]domain.CandidateMatch{
		cand("https://a.example/1", 10),
		cand("https://b.example/1", 10),
		cand("https://c.example/1", 40),
	}, nil)

	// Average is 20; the 40 candidate is at 200% of it.
	assert.InDelta(t, 20, summary.AveragePrice, 0.001)
	assert.Equal(t, domain.PriceRankHigh, enriched[2].PriceRank)
	assert.Equal(t, 1, summary.SuspiciouslyHighCount)
}

func TestAnalyze_Idempotent(t *testing.T) {
	a := NewAnalyzer()
	ref := 50.0
	input := []domain.CandidateMatch{
		cand("https://a.example/1", 20),
		cand("https://b.example/1", 55),
		cand("https://c.example/1", 80),
	}

	first, firstSummary := a.Analyze(input, &ref)
	second, secondSummary := a.Analyze(input, &ref)

	assert.Equal(t, first, second)
	assert.Equal(t, firstSummary, secondSummary)
}

func TestAnalyze_EmptySet(t *testing.T) {
	a := NewAnalyzer()

	enriched, summary := a.Analyze(nil, nil)
	assert.Nil(t, enriched)
	assert.Zero(t, summary)
}
