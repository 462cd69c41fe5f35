package telemetry

import (
	"time"

	"github.com/shopsleuth/engine/internal/domain"
)

// Analysis kinds used as metric labels.
const (
	KindCrossPlatform = "cross_platform"
	KindListing       = "listing"
)

// RecordAnalysisStart counts an analysis run beginning.
func (p *Provider) RecordAnalysisStart(kind string) {
	p.Metrics.AnalysesStarted.WithLabelValues(kind).Inc()
}

// RecordAnalysisComplete counts a successful run and its duration.
func (p *Provider) RecordAnalysisComplete(kind string, duration time.Duration) {
	p.Metrics.AnalysesCompleted.WithLabelValues(kind).Inc()
	p.Metrics.AnalysisDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordAnalysisFailure counts a failed run with its reason label.
func (p *Provider) RecordAnalysisFailure(kind, reason string) {
	p.Metrics.AnalysesFailed.WithLabelValues(kind, reason).Inc()
}

// RecordAdapterSearch counts one adapter invocation.
func (p *Provider) RecordAdapterSearch(platform string, failed bool, duration time.Duration) {
	p.Metrics.AdapterSearches.WithLabelValues(platform).Inc()
	p.Metrics.AdapterSearchDuration.WithLabelValues(platform).Observe(duration.Seconds())
	if failed {
		p.Metrics.AdapterFailures.WithLabelValues(platform).Inc()
	}
}

// RecordRunOutcome observes the aggregate shape of a completed
// cross-platform run.
func (p *Provider) RecordRunOutcome(searchConfidence float64, candidateCount int) {
	p.Metrics.SearchConfidence.Observe(searchConfidence)
	p.Metrics.CandidatesReturned.Observe(float64(candidateCount))
}

// RecordFlags counts flagged listings per flag kind.
func (p *Provider) RecordFlags(flags domain.AuthenticityFlagSet) {
	p.Metrics.FlaggedListings.WithLabelValues("identical_images").Add(float64(len(flags.IdenticalImages)))
	p.Metrics.FlaggedListings.WithLabelValues("similar_titles").Add(float64(len(flags.SimilarTitles)))
	p.Metrics.FlaggedListings.WithLabelValues("price_outliers").Add(float64(len(flags.PriceOutliers)))
	p.Metrics.FlaggedListings.WithLabelValues("dropship_indicators").Add(float64(len(flags.DropshipIndicators)))
}

// RecordPODDetection counts a print-on-demand verdict.
func (p *Provider) RecordPODDetection() {
	p.Metrics.PODDetections.Inc()
}

// RecordQuotaRejection counts a request refused by the daily quota.
func (p *Provider) RecordQuotaRejection() {
	p.Metrics.QuotaRejections.Inc()
}

// RecordHistoryWrite counts a history persistence attempt.
func (p *Provider) RecordHistoryWrite(failed bool) {
	if failed {
		p.Metrics.HistoryWriteFailures.Inc()
		return
	}
	p.Metrics.HistoryWrites.Inc()
}
