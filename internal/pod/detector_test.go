package pod

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect_PrintfulListing(t *testing.T) {
	d := NewDetector()

	result := d.Detect(Input{
		URL:         "https://shop.example/p/42",
		Title:       "Galaxy Cat T-Shirt",
		Description: "Printed on demand just for you. Please allow 5-7 business days processing. Fulfilled by Printful.",
	})

	assert.True(t, result.IsPOD)
	assert.Equal(t, "Printful", result.Provider)
	assert.Greater(t, result.Confidence, 70.0)
	assert.Contains(t, result.PositiveIndicators, `provider brand mention "printful" (Printful)`)
	assert.Contains(t, result.PositiveIndicators, `on-demand description phrase "printed on demand"`)
	assert.Empty(t, result.NegativeIndicators)
}

func TestDetect_HandmadeListingIsNotPOD(t *testing.T) {
	d := NewDetector()

	result := d.Detect(Input{
		Title:       "Hand Carved Wooden Bowl",
		Description: "Each bowl is one of a kind, carved in my studio from local walnut.",
	})

	assert.False(t, result.IsPOD)
	assert.Zero(t, result.Confidence)
	assert.Empty(t, result.Provider)
	assert.Len(t, result.NegativeIndicators, 3)
	assert.Equal(t, "Signals point to genuine handmade production.", result.RecommendedAction)
}

func TestDetect_MidConfidenceWithoutProvider(t *testing.T) {
	d := NewDetector()

	result := d.Detect(Input{
		Title:       "Custom Name Mug",
		Description: "Made to order. Processing time may apply. Ships from our fulfillment center.",
	})

	// made to order 15 + processing time 20 + fulfillment center 10.
	assert.InDelta(t, 45, result.Confidence, 0.001)
	assert.True(t, result.IsPOD)
	assert.Empty(t, result.Provider)
	assert.Equal(t, "Possibly print-on-demand; ask the seller about production and fulfillment.", result.RecommendedAction)
}

func TestDetect_ProviderURLAloneIsBelowThreshold(t *testing.T) {
	d := NewDetector()

	result := d.Detect(Input{
		URL:   "https://files.cdn.printful.com/items/123/mockup.png",
		Title: "Mountain Poster",
	})

	assert.Equal(t, "Printful", result.Provider)
	assert.InDelta(t, 30, result.Confidence, 0.001)
	assert.False(t, result.IsPOD)
}

func TestDetect_TwoProvidersScoreOnce(t *testing.T) {
	d := NewDetector()

	result := d.Detect(Input{
		URL:         "https://images.printify.com/mockup/55",
		Title:       "Retro Sunset Tee",
		Description: "Previously listed with Printful, now printed through Printify.",
	})

	// Printify: URL + brand hits. Printful: brand hit only. The provider
	// weight counts once, for the strongest match.
	assert.Equal(t, "Printify", result.Provider)
	assert.InDelta(t, 30, result.Confidence, 0.001)
	assert.False(t, result.IsPOD)
	assert.Contains(t, result.PositiveIndicators, `provider brand mention "printful" (Printful)`)
	assert.Contains(t, result.PositiveIndicators, `provider brand mention "printify" (Printify)`)
}

func TestDetect_NoSignals(t *testing.T) {
	d := NewDetector()

	result := d.Detect(Input{
		Title:       "Sony WH-1000XM5 Headphones",
		Description: "Factory sealed, ships same day.",
	})

	assert.False(t, result.IsPOD)
	assert.Zero(t, result.Confidence)
	assert.NotNil(t, result.PositiveIndicators)
	assert.NotNil(t, result.NegativeIndicators)
	assert.Equal(t, "No print-on-demand signals detected.", result.RecommendedAction)
}
