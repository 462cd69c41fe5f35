package orchestrator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsleuth/engine/internal/authenticity"
	"github.com/shopsleuth/engine/internal/domain"
	"github.com/shopsleuth/engine/internal/logger"
	"github.com/shopsleuth/engine/internal/matching"
	"github.com/shopsleuth/engine/internal/platform"
	"github.com/shopsleuth/engine/internal/pricing"
	"github.com/shopsleuth/engine/internal/query"
	"github.com/shopsleuth/engine/internal/recommend"
	"github.com/shopsleuth/engine/internal/search"
	"github.com/shopsleuth/engine/internal/telemetry"
	"github.com/shopsleuth/engine/internal/usage"
)

type fakeAdapter struct {
	name       string
	candidates []domain.CandidateMatch
	err        error
	lag        time.Duration
	calls      atomic.Int32
}

func (f *fakeAdapter) Platform() string { return f.name }

func (f *fakeAdapter) Search(_ context.Context, _ domain.NormalizedQuery) ([]domain.CandidateMatch, error) {
	f.calls.Add(1)
	if f.lag > 0 {
		time.Sleep(f.lag)
	}
	return f.candidates, f.err
}

func newOrchestrator(quota usage.Tracker, adapters ...search.Adapter) *Orchestrator {
	registry := platform.NewRegistry()
	return New(Config{
		Normalizer:  query.NewNormalizer(),
		Collector:   search.NewCollector(adapters, 2*time.Second, nil, logger.NewNop()),
		Scorer:      matching.NewScorer(registry),
		Pricer:      pricing.NewAnalyzer(),
		Flagger:     authenticity.NewDetector(registry),
		Recommender: recommend.NewEngine(registry),
		Quota:       quota,
		Logger:      logger.NewNop(),
	})
}

func pricePtr(v float64) *float64 { return &v }

func testRequest() Request {
	return Request{
		Product: domain.ReferenceProduct{
			Title:          "Lego Star Wars X-Wing Starfighter 75355",
			Price:          pricePtr(100),
			Currency:       "USD",
			SourcePlatform: "amazon",
			SourceURL:      "https://amazon.example/dp/B0TEST",
		},
		UserID: "alice",
	}
}

func TestAnalyze_HappyPath(t *testing.T) {
	ebay := &fakeAdapter{name: "ebay", candidates: []domain.CandidateMatch{
		{URL: "https://ebay.example/1", Title: "Lego Star Wars X-Wing Starfighter 75355", Price: 95, Currency: "USD"},
	}}
	walmart := &fakeAdapter{name: "walmart", candidates: []domain.CandidateMatch{
		{URL: "https://walmart.example/2", Title: "Lego X-Wing 75355", Price: 40, Currency: "USD"},
	}}

	o := newOrchestrator(usage.NewMemoryTracker(usage.Unlimited), ebay, walmart)

	analysis, err := o.Analyze(context.Background(), testRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, analysis.ID)
	assert.Equal(t, 2, analysis.TotalMatches)
	assert.Empty(t, analysis.DegradedSources)
	assert.False(t, analysis.AnalyzedAt.IsZero())

	// Sorted by descending confidence; every match is enriched.
	require.Len(t, analysis.Matches, 2)
	assert.GreaterOrEqual(t, analysis.Matches[0].MatchConfidence, analysis.Matches[1].MatchConfidence)
	for _, m := range analysis.Matches {
		assert.NotEmpty(t, m.PriceRank)
		assert.False(t, m.ObservedAt.IsZero())
	}

	assert.Greater(t, analysis.SearchConfidence, 20.0)
	assert.NotNil(t, analysis.Recommendations.BestValue)
}

func TestAnalyze_AllSourcesFail(t *testing.T) {
	down := &fakeAdapter{name: "ebay", err: errors.New("connection refused")}
	slow := &fakeAdapter{name: "walmart", err: errors.New("deadline exceeded")}

	o := newOrchestrator(nil, down, slow)

	analysis, err := o.Analyze(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, 0, analysis.TotalMatches)
	assert.Empty(t, analysis.Matches)
	assert.Zero(t, analysis.SearchConfidence)
	assert.Len(t, analysis.DegradedSources, 2)
	assert.NotEmpty(t, analysis.ID)
	assert.Contains(t, analysis.Recommendations.Warnings,
		"no marketplace sources returned results; analysis is unreliable")
}

func TestAnalyze_PartialFailure(t *testing.T) {
	ok := &fakeAdapter{name: "ebay", candidates: []domain.CandidateMatch{
		{URL: "https://ebay.example/1", Title: "Lego Star Wars X-Wing Starfighter 75355", Price: 95, Currency: "USD"},
	}}
	down := &fakeAdapter{name: "walmart", err: errors.New("http 502")}

	o := newOrchestrator(nil, ok, down)

	analysis, err := o.Analyze(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, analysis.TotalMatches)
	require.Len(t, analysis.DegradedSources, 1)
	assert.Equal(t, "walmart", analysis.DegradedSources[0].Platform)
	assert.Equal(t, "http 502", analysis.DegradedSources[0].Reason)
}

func TestAnalyze_InvalidURL(t *testing.T) {
	o := newOrchestrator(nil)

	req := testRequest()
	req.Product.SourceURL = "not a url"

	_, err := o.Analyze(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidURL)
}

func TestAnalyze_QuotaRejectedBeforeAnyWork(t *testing.T) {
	adapter := &fakeAdapter{name: "ebay"}
	o := newOrchestrator(usage.NewMemoryTracker(0), adapter)

	_, err := o.Analyze(context.Background(), testRequest())
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Zero(t, adapter.calls.Load())
}

func TestAnalyze_SkipsReferencePlatform(t *testing.T) {
	amazon := &fakeAdapter{name: "amazon", candidates: []domain.CandidateMatch{
		{URL: "https://amazon.example/other", Title: "Lego X-Wing", Price: 90, Currency: "USD"},
	}}
	ebay := &fakeAdapter{name: "ebay"}

	o := newOrchestrator(nil, amazon, ebay)

	_, err := o.Analyze(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Zero(t, amazon.calls.Load())
	assert.Equal(t, int32(1), ebay.calls.Load())
}

func TestAnalyze_InvalidProductKeepsQuota(t *testing.T) {
	tracker := usage.NewMemoryTracker(1)
	o := newOrchestrator(tracker, &fakeAdapter{name: "ebay"})

	req := testRequest()
	req.Product.Title = ""

	_, err := o.Analyze(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrEmptyProductName)

	remaining, err := tracker.Remaining(context.Background(), req.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining, "a rejected request must not consume quota")
}

func TestAnalyze_CancellationReturnsError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	adapter := &fakeAdapter{name: "ebay", lag: 100 * time.Millisecond}
	o := newOrchestrator(nil, adapter)

	_, err := o.Analyze(ctx, testRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_CancellationRecordsFailure(t *testing.T) {
	provider := telemetry.NewProvider()
	registry := platform.NewRegistry()
	o := New(Config{
		Normalizer:  query.NewNormalizer(),
		Collector:   search.NewCollector([]search.Adapter{&fakeAdapter{name: "ebay", lag: 100 * time.Millisecond}}, 2*time.Second, nil, logger.NewNop()),
		Scorer:      matching.NewScorer(registry),
		Pricer:      pricing.NewAnalyzer(),
		Flagger:     authenticity.NewDetector(registry),
		Recommender: recommend.NewEngine(registry),
		Telemetry:   provider,
		Logger:      logger.NewNop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Analyze(ctx, testRequest())
	require.ErrorIs(t, err, context.Canceled)

	started := testutil.ToFloat64(provider.Metrics.AnalysesStarted.WithLabelValues(telemetry.KindCrossPlatform))
	failed := testutil.ToFloat64(provider.Metrics.AnalysesFailed.WithLabelValues(telemetry.KindCrossPlatform, "cancelled"))
	assert.Equal(t, 1.0, started)
	assert.Equal(t, 1.0, failed)
}

func TestSearchConfidence(t *testing.T) {
	matches := []domain.CandidateMatch{
		{Platform: "ebay", MatchConfidence: 90},
		{Platform: "walmart", MatchConfidence: 60},
	}

	// 0.6*75 + 5*2 + 15 = 70.
	assert.InDelta(t, 70, searchConfidence(matches), 0.001)
	assert.Zero(t, searchConfidence(nil))
}

func TestSearchConfidence_ClampedTo100(t *testing.T) {
	matches := make([]domain.CandidateMatch, 0, 10)
	for _, p := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		matches = append(matches, domain.CandidateMatch{Platform: p, MatchConfidence: 100})
	}

	assert.InDelta(t, 100, searchConfidence(matches), 0.001)
}
