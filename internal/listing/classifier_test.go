package listing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsleuth/engine/internal/domain"
	"github.com/shopsleuth/engine/internal/logger"
	"github.com/shopsleuth/engine/internal/platform"
)

func newClassifier() *Classifier {
	return NewClassifier(platform.NewRegistry(), logger.NewNop())
}

func TestClassify_HandmadeListing(t *testing.T) {
	c := newClassifier()

	result, err := c.Classify(context.Background(), Input{
		URL:         "https://etsy.example/listing/1",
		Platform:    "etsy",
		Title:       "Handmade Leather Tote",
		Description: "Each bag is hand sewn in my studio. Made to order, one of a kind.",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ProductTypeHandmade, result.ProductType.Type)
	assert.Contains(t, result.ProductType.Indicators, "handmade")
	assert.Contains(t, result.ProductType.Indicators, "hand sewn")
	// Baseline 50 + handmade 15 + etsy 15, no trust/risk keywords.
	assert.InDelta(t, 80, result.AuthenticityScore, 0.001)
	assert.Equal(t, domain.RiskLow, result.Risk.Level)
}

func TestClassify_DropshippedListing(t *testing.T) {
	c := newClassifier()

	result, err := c.Classify(context.Background(), Input{
		URL:         "https://shop.example/p/9",
		Platform:    "unknown-shop",
		Title:       "Unbranded Phone Holder",
		Description: "Ships from overseas warehouse. Please allow 2-4 weeks. Color may vary, no returns accepted.",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ProductTypeDropshipped, result.ProductType.Type)
	// Baseline 50 - dropship 20 - two risk keywords (24), no platform bonus.
	assert.InDelta(t, 6, result.AuthenticityScore, 0.001)
	assert.Equal(t, domain.RiskHigh, result.Risk.Level)
	assert.Contains(t, result.Risk.Factors, "listing matches dropshipping patterns")
}

func TestClassify_TrustFactorsRaiseScore(t *testing.T) {
	c := newClassifier()

	result, err := c.Classify(context.Background(), Input{
		Platform:    "ebay",
		Title:       "Factory Sealed Mechanical Keyboard",
		Description: "Brand new in box with manufacturer warranty. Money back guarantee, free returns.",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ProductTypeMassProduced, result.ProductType.Type)
	// Baseline 50 + mass 10 + ebay 10 + 2 trust keywords (16).
	assert.InDelta(t, 86, result.AuthenticityScore, 0.001)
	assert.ElementsMatch(t, []string{"money back guarantee", "free returns"}, result.Indicators.Positive)
}

func TestClassify_TieBreaksToFirstDeclared(t *testing.T) {
	c := newClassifier()

	// No indicators at all: four-way tie resolves to the first category.
	result, err := c.Classify(context.Background(), Input{
		Platform:    "mercari",
		Title:       "Blue Widget",
		Description: "A widget that is blue.",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ProductTypeHandmade, result.ProductType.Type)
	assert.Empty(t, result.ProductType.Indicators)
	assert.InDelta(t, confidenceNoSignal, result.Confidence, 0.001)
}

func TestClassify_ScoreClampedToRange(t *testing.T) {
	c := newClassifier()

	result, err := c.Classify(context.Background(), Input{
		Platform: "wish",
		Title:    "Replica watch aaa quality same as original",
		Description: "Stock photo for reference only. Color may vary. Style may vary." +
			" No returns accepted. All sales final. Sold as is. Ships from China, unbranded, generic.",
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.AuthenticityScore, 0.0)
	assert.Equal(t, domain.RiskHigh, result.Risk.Level)
}

func TestClassify_PriceCompetitiveness(t *testing.T) {
	c := newClassifier()
	price, avg := 19.0, 20.0

	result, err := c.Classify(context.Background(), Input{
		Platform:      "etsy",
		Title:         "Handmade Mug",
		Description:   "handmade",
		Price:         &price,
		MarketAverage: &avg,
	})
	require.NoError(t, err)
	assert.Equal(t, "competitive with market average", result.PriceCompetitiveness)
}

func TestClassify_LowSellerRatingIsRiskFactor(t *testing.T) {
	c := newClassifier()
	rating := 2.1

	result, err := c.Classify(context.Background(), Input{
		Platform:    "ebay",
		Title:       "Factory sealed gadget",
		Description: "brand new in box",
		Store:       &domain.StoreMetadata{Platform: "ebay", StoreName: "gadgets4u", Rating: &rating},
	})
	require.NoError(t, err)
	assert.Contains(t, result.Risk.Factors, "seller rating is low (2.1)")
}

func TestClassify_NoContent(t *testing.T) {
	c := newClassifier()

	_, err := c.Classify(context.Background(), Input{Platform: "etsy"})
	require.ErrorIs(t, err, domain.ErrNoContent)
}
