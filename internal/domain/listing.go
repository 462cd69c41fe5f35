package domain

import "time"

// ProductType classifies how a listing's product is produced and fulfilled.
type ProductType string

const (
	ProductTypeHandmade      ProductType = "handmade"
	ProductTypeMassProduced  ProductType = "mass_produced"
	ProductTypeDropshipped   ProductType = "dropshipped"
	ProductTypePrintOnDemand ProductType = "print_on_demand"
)

// RiskLevel is derived from the final authenticity score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// StoreMetadata describes the store or seller behind a single listing.
type StoreMetadata struct {
	Platform   string   `json:"platform"`
	StoreName  string   `json:"store_name,omitempty"`
	AgeYears   *float64 `json:"age_years,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	SalesCount *int     `json:"sales_count,omitempty"`
	Location   string   `json:"location,omitempty"`
}

// ProductTypeClassification is the product-type decision plus the keyword
// indicators that produced it.
type ProductTypeClassification struct {
	Type       ProductType `json:"type"`
	Indicators []string    `json:"indicators"`
}

// PODAnalysisResult is the output of the print-on-demand detector.
type PODAnalysisResult struct {
	IsPOD              bool     `json:"is_pod"`
	Confidence         float64  `json:"confidence"`
	Provider           string   `json:"provider,omitempty"`
	PositiveIndicators []string `json:"positive_indicators"`
	NegativeIndicators []string `json:"negative_indicators"`
	RecommendedAction  string   `json:"recommended_action"`
}

// RiskAssessment summarizes listing risk with its contributing factors.
type RiskAssessment struct {
	Level   RiskLevel `json:"level"`
	Factors []string  `json:"factors"`
}

// IndicatorSet buckets human-readable evidence by polarity.
type IndicatorSet struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
	Neutral  []string `json:"neutral"`
}

// SingleListingAuthenticity is the result of analyzing one listing's page
// content and store metadata, independent of any cross-platform run.
type SingleListingAuthenticity struct {
	AuthenticityScore    float64                   `json:"authenticity_score"`
	Confidence           float64                   `json:"confidence"`
	ProductType          ProductTypeClassification `json:"product_type"`
	Indicators           IndicatorSet              `json:"indicators"`
	PriceCompetitiveness string                    `json:"price_competitiveness,omitempty"`
	StoreMetadata        *StoreMetadata            `json:"store_metadata,omitempty"`
	Risk                 RiskAssessment            `json:"risk_factors"`
	POD                  *PODAnalysisResult        `json:"pod,omitempty"`
	AnalyzedAt           time.Time                 `json:"analyzed_at"`
}
