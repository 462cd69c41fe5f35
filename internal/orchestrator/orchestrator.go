// Package orchestrator coordinates a full cross-platform analysis run:
// quota, query normalization, adapter fan-out, scoring, price analysis,
// authenticity flags and recommendations, assembled into one result.
package orchestrator

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/shopsleuth/engine/internal/authenticity"
	"github.com/shopsleuth/engine/internal/domain"
	"github.com/shopsleuth/engine/internal/logger"
	"github.com/shopsleuth/engine/internal/matching"
	"github.com/shopsleuth/engine/internal/ocr"
	"github.com/shopsleuth/engine/internal/pricing"
	"github.com/shopsleuth/engine/internal/query"
	"github.com/shopsleuth/engine/internal/recommend"
	"github.com/shopsleuth/engine/internal/search"
	"github.com/shopsleuth/engine/internal/telemetry"
	"github.com/shopsleuth/engine/internal/usage"
)

// Search confidence blend. Mean candidate confidence dominates; platform
// spread and a single standout match add smaller boosts.
const (
	meanConfidenceWeight = 0.6
	platformSpreadWeight = 5.0
	standoutBonus        = 15.0
	standoutThreshold    = 85.0

	// degradedConfidenceCeiling marks a fallback result. A genuine finding
	// always scores at or above it or carries candidates.
	degradedConfidenceCeiling = 20.0
)

// Request is one cross-platform analysis request.
type Request struct {
	Product domain.ReferenceProduct
	UserID  string
	OCR     *RequestSignals
}

// RequestSignals carries optional extraction hints merged into the query.
type RequestSignals struct {
	Barcode string
	Brand   string
	Model   string
}

// Orchestrator wires the analysis pipeline together. All collaborators are
// set at construction and the orchestrator is safe for concurrent runs.
type Orchestrator struct {
	normalizer  *query.Normalizer
	collector   *search.Collector
	scorer      *matching.Scorer
	pricer      *pricing.Analyzer
	flagger     *authenticity.Detector
	recommender *recommend.Engine
	quota       usage.Tracker
	telemetry   *telemetry.Provider
	log         logger.Logger

	newID func() string
	now   func() time.Time
}

// Config bundles the orchestrator's collaborators.
type Config struct {
	Normalizer  *query.Normalizer
	Collector   *search.Collector
	Scorer      *matching.Scorer
	Pricer      *pricing.Analyzer
	Flagger     *authenticity.Detector
	Recommender *recommend.Engine
	Quota       usage.Tracker // nil disables quota enforcement
	Telemetry   *telemetry.Provider
	Logger      logger.Logger
}

// New builds an orchestrator from its collaborators.
func New(cfg Config) *Orchestrator {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Orchestrator{
		normalizer:  cfg.Normalizer,
		collector:   cfg.Collector,
		scorer:      cfg.Scorer,
		pricer:      cfg.Pricer,
		flagger:     cfg.Flagger,
		recommender: cfg.Recommender,
		quota:       cfg.Quota,
		telemetry:   cfg.Telemetry,
		log:         log,
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// Analyze runs the full pipeline. Input and quota errors surface before any
// adapter is called. Adapter failures degrade the run without failing it;
// only cancellation aborts with an error once the fan-out has started.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (*domain.CrossPlatformAnalysis, error) {
	started := o.now()

	if err := validateSourceURL(req.Product.SourceURL); err != nil {
		return nil, err
	}

	// Normalization happens before the quota check so a malformed request
	// does not consume a quota unit.
	q, err := o.normalizer.Normalize(req.Product)
	if err != nil {
		return nil, err
	}
	if req.OCR != nil {
		query.MergeSignals(&q, req.OCR.signals())
	}

	if o.quota != nil && req.UserID != "" {
		if _, err := o.quota.CheckAndIncrement(ctx, req.UserID); err != nil {
			if o.telemetry != nil {
				o.telemetry.RecordQuotaRejection()
			}
			return nil, err
		}
	}

	if o.telemetry != nil {
		o.telemetry.RecordAnalysisStart(telemetry.KindCrossPlatform)
	}

	outcomes, err := o.collector.Search(ctx, q, req.Product.SourcePlatform)
	if err != nil {
		// Cancellation discards completed adapter results rather than
		// presenting a partial analysis.
		if o.telemetry != nil {
			o.telemetry.RecordAnalysisFailure(telemetry.KindCrossPlatform, "cancelled")
		}
		return nil, err
	}

	candidates, degraded := splitOutcomes(outcomes)

	analysis := o.assemble(req.Product, candidates, degraded)
	analysis.ID = o.newID()
	analysis.AnalyzedAt = o.now()
	analysis.ProcessingTimeMs = o.now().Sub(started).Milliseconds()

	if o.telemetry != nil {
		o.telemetry.RecordAnalysisComplete(telemetry.KindCrossPlatform, o.now().Sub(started))
		o.telemetry.RecordRunOutcome(analysis.SearchConfidence, analysis.TotalMatches)
		o.telemetry.RecordFlags(analysis.AuthenticityFlags)
	}

	o.log.Info("analysis run complete",
		logger.String("analysis_id", analysis.ID),
		logger.Int("total_matches", analysis.TotalMatches),
		logger.Int("degraded_sources", len(degraded)),
		logger.Float64("search_confidence", analysis.SearchConfidence))

	return analysis, nil
}

func (o *Orchestrator) assemble(ref domain.ReferenceProduct, candidates []domain.CandidateMatch, degraded []domain.SourceFailure) *domain.CrossPlatformAnalysis {
	analysis := &domain.CrossPlatformAnalysis{
		OriginalProduct: ref,
		Matches:         []domain.CandidateMatch{},
		DegradedSources: degraded,
	}

	if len(candidates) == 0 {
		// Catastrophic degradation: every source failed or returned
		// nothing. The result stays well-formed with zero confidence.
		analysis.AuthenticityFlags = domain.AuthenticityFlagSet{
			IdenticalImages:    []string{},
			SimilarTitles:      []string{},
			PriceOutliers:      []string{},
			DropshipIndicators: []string{},
		}
		analysis.Recommendations = o.recommender.Build(nil, analysis.AuthenticityFlags)
		analysis.Recommendations.Warnings = append(analysis.Recommendations.Warnings,
			"no marketplace sources returned results; analysis is unreliable")
		return analysis
	}

	scored := o.scorer.ScoreAll(ref, candidates)
	enriched, priceSummary := o.pricer.Analyze(scored, ref.Price)
	flags := o.flagger.Detect(ref, enriched, priceSummary.AveragePrice)

	sortByConfidence(enriched)

	analysis.Matches = enriched
	analysis.TotalMatches = len(enriched)
	analysis.PriceAnalysis = priceSummary
	analysis.AuthenticityFlags = flags
	analysis.Recommendations = o.recommender.Build(enriched, flags)
	analysis.SearchConfidence = searchConfidence(enriched)

	if analysis.SearchConfidence < degradedConfidenceCeiling {
		analysis.Recommendations.Warnings = append(analysis.Recommendations.Warnings,
			"search confidence is very low; matches may not be the same product")
	}

	return analysis
}

// searchConfidence blends mean match confidence, platform spread and a
// standout-match bonus, clamped to [0,100].
func searchConfidence(matches []domain.CandidateMatch) float64 {
	if len(matches) == 0 {
		return 0
	}

	sum := 0.0
	standout := false
	platforms := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		sum += m.MatchConfidence
		platforms[m.Platform] = struct{}{}
		if m.MatchConfidence > standoutThreshold {
			standout = true
		}
	}

	confidence := meanConfidenceWeight*(sum/float64(len(matches))) +
		platformSpreadWeight*float64(len(platforms))
	if standout {
		confidence += standoutBonus
	}
	return domain.ClampScore(confidence)
}

// sortByConfidence orders matches by descending confidence, breaking ties
// by URL so the order is deterministic across runs.
func sortByConfidence(matches []domain.CandidateMatch) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].MatchConfidence != matches[j].MatchConfidence {
			return matches[i].MatchConfidence > matches[j].MatchConfidence
		}
		return matches[i].URL < matches[j].URL
	})
}

func splitOutcomes(outcomes []search.Outcome) ([]domain.CandidateMatch, []domain.SourceFailure) {
	var candidates []domain.CandidateMatch
	var degraded []domain.SourceFailure

	for _, out := range outcomes {
		if out.Failed() {
			degraded = append(degraded, domain.SourceFailure{
				Platform: out.Platform,
				Reason:   out.Err.Error(),
			})
			continue
		}
		candidates = append(candidates, out.Candidates...)
	}
	return candidates, degraded
}

func validateSourceURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", domain.ErrInvalidURL, raw)
	}
	return nil
}

func (s *RequestSignals) signals() ocr.Signals {
	return ocr.Signals{
		Barcode: s.Barcode,
		Brand:   s.Brand,
		Model:   s.Model,
	}
}
