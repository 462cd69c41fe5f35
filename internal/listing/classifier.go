package listing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopsleuth/engine/internal/domain"
	"github.com/shopsleuth/engine/internal/keyword"
	"github.com/shopsleuth/engine/internal/logger"
	"github.com/shopsleuth/engine/internal/platform"
	"github.com/shopsleuth/engine/internal/pricing"
)

// Authenticity scoring constants. The score starts at the baseline and moves
// per matched keyword, then gets the product-type and platform adjustments.
const (
	scoreBaseline = 50.0

	trustFactorBonus  = 8.0
	riskFactorPenalty = 12.0

	handmadeBonus      = 15.0
	massProducedBonus  = 10.0
	dropshippedPenalty = 20.0
	podBonus           = 5.0

	// Risk level bands over the final score.
	lowRiskAbove   = 70.0
	mediumRiskFrom = 40.0

	// Classification confidence: weak floor when nothing matched, otherwise
	// grows with distinct indicator hits.
	confidenceNoSignal = 25.0
	confidenceBase     = 40.0
	confidencePerHit   = 12.0
)

// Input is one listing's analyzable content, supplied by the content-fetch
// collaborator plus whatever store metadata the caller has.
type Input struct {
	URL           string
	Platform      string
	Title         string
	Description   string
	Price         *float64
	MarketAverage *float64
	Store         *domain.StoreMetadata
}

type compiledTable map[domain.ProductType]*keyword.Set

// Classifier classifies production type and scores authenticity for a single
// listing. All pattern tables are compiled once at construction.
type Classifier struct {
	registry       *platform.Registry
	log            logger.Logger
	platformTables map[string]compiledTable
	genericTable   compiledTable
	trustSet       *keyword.Set
	riskSet        *keyword.Set
}

// NewClassifier compiles the pattern tables into keyword automatons.
func NewClassifier(registry *platform.Registry, log logger.Logger) *Classifier {
	if log == nil {
		log = logger.NewNop()
	}

	c := &Classifier{
		registry:       registry,
		log:            log,
		platformTables: make(map[string]compiledTable, len(platformTypePatterns)),
		genericTable:   compileTable(genericTypePatterns),
		trustSet:       keyword.NewSet(trustFactorKeywords),
		riskSet:        keyword.NewSet(riskFactorKeywords),
	}
	for name, table := range platformTypePatterns {
		c.platformTables[name] = compileTable(table)
	}
	return c
}

func compileTable(t typePatterns) compiledTable {
	compiled := make(compiledTable, len(t))
	for productType, keywords := range t {
		compiled[productType] = keyword.NewSet(keywords)
	}
	return compiled
}

// Classify runs the product-type classification and authenticity scoring
// over one listing's text. It fails only when there is nothing to analyze.
func (c *Classifier) Classify(ctx context.Context, in Input) (*domain.SingleListingAuthenticity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := keyword.Normalize(in.Title + " " + in.Description)
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrNoContent
	}

	classification, topHits := c.classifyType(in.Platform, text)
	trustMatches := c.trustSet.Matches(text)
	riskMatches := c.riskSet.Matches(text)

	score := scoreBaseline
	score += float64(len(trustMatches)) * trustFactorBonus
	score -= float64(len(riskMatches)) * riskFactorPenalty
	score += typeAdjustment(classification.Type)
	score += c.registry.ScoreAdjustment(in.Platform)
	score = domain.ClampScore(score)

	confidence := confidenceNoSignal
	if topHits > 0 {
		confidence = domain.ClampScore(confidenceBase + confidencePerHit*float64(topHits))
	}

	result := &domain.SingleListingAuthenticity{
		AuthenticityScore: score,
		Confidence:        confidence,
		ProductType:       classification,
		Indicators: domain.IndicatorSet{
			Positive: append([]string{}, trustMatches...),
			Negative: append([]string{}, riskMatches...),
			Neutral:  append([]string{}, classification.Indicators...),
		},
		StoreMetadata: in.Store,
		Risk:          assessRisk(score, classification.Type, riskMatches, in.Store),
		AnalyzedAt:    time.Now().UTC(),
	}

	if in.Price != nil && in.MarketAverage != nil && *in.MarketAverage > 0 {
		result.PriceCompetitiveness = priceCompetitiveness(*in.Price, *in.MarketAverage)
	}

	c.log.Debug("listing classified",
		logger.String("url", in.URL),
		logger.String("platform", in.Platform),
		logger.String("product_type", string(classification.Type)),
		logger.Float64("authenticity_score", score))

	return result, nil
}

// classifyType counts indicator hits per category against the platform's
// table (generic fallback for unknown platforms). Highest count wins; ties
// go to the first-declared category.
func (c *Classifier) classifyType(platformName, text string) (domain.ProductTypeClassification, int) {
	table := c.genericTable
	if t, ok := c.platformTables[strings.ToLower(strings.TrimSpace(platformName))]; ok {
		table = t
	}

	best := domain.ProductTypeClassification{Type: productTypeOrder[0], Indicators: []string{}}
	bestCount := -1
	for _, productType := range productTypeOrder {
		matches := table[productType].Matches(text)
		if len(matches) > bestCount {
			bestCount = len(matches)
			best = domain.ProductTypeClassification{
				Type:       productType,
				Indicators: append([]string{}, matches...),
			}
		}
	}
	return best, bestCount
}

func typeAdjustment(t domain.ProductType) float64 {
	switch t {
	case domain.ProductTypeHandmade:
		return handmadeBonus
	case domain.ProductTypeMassProduced:
		return massProducedBonus
	case domain.ProductTypeDropshipped:
		return -dropshippedPenalty
	case domain.ProductTypePrintOnDemand:
		return podBonus
	default:
		return 0
	}
}

func assessRisk(score float64, t domain.ProductType, riskMatches []string, store *domain.StoreMetadata) domain.RiskAssessment {
	factors := []string{}
	for _, m := range riskMatches {
		factors = append(factors, fmt.Sprintf("listing mentions %q", m))
	}
	if t == domain.ProductTypeDropshipped {
		factors = append(factors, "listing matches dropshipping patterns")
	}
	if store != nil && store.Rating != nil && *store.Rating < 3.0 {
		factors = append(factors, fmt.Sprintf("seller rating is low (%.1f)", *store.Rating))
	}

	level := domain.RiskHigh
	switch {
	case score > lowRiskAbove:
		level = domain.RiskLow
	case score >= mediumRiskFrom:
		level = domain.RiskMedium
	}
	return domain.RiskAssessment{Level: level, Factors: factors}
}

func priceCompetitiveness(price, marketAverage float64) string {
	switch pricing.Rank(price, marketAverage) {
	case domain.PriceRankSuspicious:
		return "suspiciously below market average"
	case domain.PriceRankLowest:
		return "below market average"
	case domain.PriceRankCompetitive:
		return "competitive with market average"
	case domain.PriceRankAverage:
		return "slightly above market average"
	default:
		return "well above market average"
	}
}
