package domain

import "time"

// PriceDistributionSummary holds summary statistics derived from the matched
// candidate set plus the reference price when one is known. Recomputed per run.
type PriceDistributionSummary struct {
	LowestPrice           float64 `json:"lowest_price"`
	HighestPrice          float64 `json:"highest_price"`
	AveragePrice          float64 `json:"average_price"`
	PriceSpread           float64 `json:"price_spread"`
	SuspiciouslyLowCount  int     `json:"suspiciously_low_count"`
	SuspiciouslyHighCount int     `json:"suspiciously_high_count"`
}

// AuthenticityFlagSet groups candidate URLs by structural anomaly. An empty
// list means "no signal", not "verified authentic".
type AuthenticityFlagSet struct {
	IdenticalImages    []string `json:"identical_images"`
	SimilarTitles      []string `json:"similar_titles"`
	PriceOutliers      []string `json:"price_outliers"`
	DropshipIndicators []string `json:"dropship_indicators"`
}

// RecommendationSet carries the selected candidates and advisory warnings.
// Selections are optional: a run with no usable candidates has none.
type RecommendationSet struct {
	BestValue   *CandidateMatch `json:"best_value,omitempty"`
	MostTrusted *CandidateMatch `json:"most_trusted,omitempty"`
	Fastest     *CandidateMatch `json:"fastest,omitempty"`
	Warnings    []string        `json:"warnings"`
}

// SourceFailure records a degraded search source. A failed adapter contributes
// zero candidates but never fails the run.
type SourceFailure struct {
	Platform string `json:"platform"`
	Reason   string `json:"reason"`
}

// CrossPlatformAnalysis is the aggregate result of one analysis run. It is
// immutable once returned; callers wanting fresh data trigger a new run.
// Matches are always sorted by descending MatchConfidence.
type CrossPlatformAnalysis struct {
	ID                string                   `json:"id"`
	OriginalProduct   ReferenceProduct         `json:"original_product"`
	Matches           []CandidateMatch         `json:"matches"`
	PriceAnalysis     PriceDistributionSummary `json:"price_analysis"`
	AuthenticityFlags AuthenticityFlagSet      `json:"authenticity_flags"`
	Recommendations   RecommendationSet        `json:"recommendations"`
	TotalMatches      int                      `json:"total_matches"`
	SearchConfidence  float64                  `json:"search_confidence"`
	DegradedSources   []SourceFailure          `json:"degraded_sources,omitempty"`
	AnalyzedAt        time.Time                `json:"analyzed_at"`
	ProcessingTimeMs  int64                    `json:"processing_time_ms"`
}
