// Package telemetry provides OpenTelemetry instrumentation for the analysis
// engine. It exports Prometheus metrics and provides tracing capabilities.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "shopsleuth-engine"

// Metrics holds all engine Prometheus metrics
type Metrics struct {
	// Analysis run metrics
	AnalysesStarted   *prometheus.CounterVec
	AnalysesCompleted *prometheus.CounterVec
	AnalysesFailed    *prometheus.CounterVec
	AnalysisDuration  *prometheus.HistogramVec
	SearchConfidence  prometheus.Histogram

	// Search adapter metrics
	AdapterSearches       *prometheus.CounterVec
	AdapterFailures       *prometheus.CounterVec
	AdapterSearchDuration *prometheus.HistogramVec
	CandidatesReturned    prometheus.Histogram

	// Authenticity metrics
	FlaggedListings *prometheus.CounterVec
	PODDetections   prometheus.Counter

	// Quota metrics
	QuotaRejections prometheus.Counter

	// History metrics
	HistoryWrites        prometheus.Counter
	HistoryWriteFailures prometheus.Counter
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initAnalysisMetrics(m)
	initAdapterMetrics(m)
	initAuthenticityMetrics(m)
	initQuotaMetrics(m)
	initHistoryMetrics(m)
	return m
}

func initAnalysisMetrics(m *Metrics) {
	m.AnalysesStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_analyses_started_total",
		Help: "Total analysis runs started, by kind (cross_platform, listing)",
	}, []string{"kind"})

	m.AnalysesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_analyses_completed_total",
		Help: "Total analysis runs completed successfully",
	}, []string{"kind"})

	m.AnalysesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_analyses_failed_total",
		Help: "Total analysis runs that failed",
	}, []string{"kind", "reason"})

	m.AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engine_analysis_duration_seconds",
		Help:    "End-to-end duration of an analysis run",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 20.0},
	}, []string{"kind"})

	m.SearchConfidence = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_search_confidence",
		Help:    "Overall search confidence per completed cross-platform run",
		Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})
}

func initAdapterMetrics(m *Metrics) {
	m.AdapterSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_adapter_searches_total",
		Help: "Total search adapter invocations",
	}, []string{"platform"})

	m.AdapterFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_adapter_failures_total",
		Help: "Total search adapter invocations that failed",
	}, []string{"platform"})

	m.AdapterSearchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engine_adapter_search_duration_seconds",
		Help:    "Time spent in a single adapter search",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
	}, []string{"platform"})

	m.CandidatesReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_candidates_returned",
		Help:    "Number of candidate matches per completed run",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})
}

func initAuthenticityMetrics(m *Metrics) {
	m.FlaggedListings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_flagged_listings_total",
		Help: "Total candidate listings flagged, by flag kind",
	}, []string{"flag"})

	m.PODDetections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_pod_detections_total",
		Help: "Total listings detected as print-on-demand",
	})
}

func initQuotaMetrics(m *Metrics) {
	m.QuotaRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_quota_rejections_total",
		Help: "Total analysis requests rejected by the daily quota",
	})
}

func initHistoryMetrics(m *Metrics) {
	m.HistoryWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_history_writes_total",
		Help: "Total analysis results persisted to history",
	})

	m.HistoryWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_history_write_failures_total",
		Help: "Total failed history writes",
	})
}
