// Package pod detects print-on-demand fulfillment from listing text and
// URLs. Provider attribution works off a curated table of fulfillment
// companies; the remaining signal comes from production-delay and
// description phrasing, offset by genuine-artisan language.
package pod

import (
	"fmt"

	"github.com/shopsleuth/engine/internal/domain"
	"github.com/shopsleuth/engine/internal/keyword"
)

// Category weights. A provider hit is the strongest possible signal, a
// vague shipping phrase the weakest.
const (
	providerWeight    = 30.0
	fulfillmentWeight = 20.0
	descriptionWeight = 15.0
	shippingWeight    = 10.0
	handmadePenalty   = 20.0

	// isPODThreshold is the confidence above which a listing is called POD.
	isPODThreshold = 40.0
)

// Input is the listing material the detector inspects.
type Input struct {
	URL         string
	Title       string
	Description string
}

// Detector scores listings for print-on-demand fulfillment.
type Detector struct {
	providers      []compiledProvider
	fulfillmentSet *keyword.Set
	descriptionSet *keyword.Set
	shippingSet    *keyword.Set
	contradictions *keyword.Set
}

type compiledProvider struct {
	name     string
	urlSet   *keyword.Set
	brandSet *keyword.Set
}

// NewDetector compiles the provider and phrase tables into matchers.
func NewDetector() *Detector {
	d := &Detector{
		fulfillmentSet: keyword.NewSet(fulfillmentKeywords),
		descriptionSet: keyword.NewSet(descriptionKeywords),
		shippingSet:    keyword.NewSet(shippingKeywords),
		contradictions: keyword.NewSet(handmadeContradictions),
	}

	d.providers = make([]compiledProvider, 0, len(knownProviders))
	for _, p := range knownProviders {
		d.providers = append(d.providers, compiledProvider{
			name:     p.Name,
			urlSet:   keyword.NewSet(p.URLPatterns),
			brandSet: keyword.NewSet(p.BrandPatterns),
		})
	}
	return d
}

// Detect scores the listing and returns the POD verdict with the evidence
// behind it. It never fails; a listing with no signal either way comes back
// with zero confidence.
func (d *Detector) Detect(in Input) domain.PODAnalysisResult {
	normalizedURL := keyword.Normalize(in.URL)
	text := keyword.Normalize(in.Title + " " + in.Description)

	positive := []string{}
	negative := []string{}
	score := 0.0

	// Providers compete: the one with the most pattern hits is the detected
	// provider, and the provider weight is scored once for it. A listing
	// naming two providers is no more print-on-demand than one naming the
	// winner.
	provider := ""
	bestHits := 0
	for _, p := range d.providers {
		urlHits := p.urlSet.Matches(normalizedURL)
		brandHits := p.brandSet.Matches(text)
		hits := len(urlHits) + len(brandHits)
		if hits == 0 {
			continue
		}

		if hits > bestHits {
			bestHits = hits
			provider = p.name
		}
		for _, h := range urlHits {
			positive = append(positive, fmt.Sprintf("provider URL pattern %q (%s)", h, p.name))
		}
		for _, h := range brandHits {
			positive = append(positive, fmt.Sprintf("provider brand mention %q (%s)", h, p.name))
		}
	}
	if bestHits > 0 {
		score += providerWeight
	}

	for _, h := range d.fulfillmentSet.Matches(text) {
		score += fulfillmentWeight
		positive = append(positive, fmt.Sprintf("fulfillment delay phrase %q", h))
	}
	for _, h := range d.descriptionSet.Matches(text) {
		score += descriptionWeight
		positive = append(positive, fmt.Sprintf("on-demand description phrase %q", h))
	}
	for _, h := range d.shippingSet.Matches(text) {
		score += shippingWeight
		positive = append(positive, fmt.Sprintf("fulfillment-network shipping phrase %q", h))
	}

	for _, h := range d.contradictions.Matches(text) {
		score -= handmadePenalty
		negative = append(negative, fmt.Sprintf("artisan signal %q", h))
	}

	confidence := domain.ClampScore(score)
	isPOD := confidence > isPODThreshold

	return domain.PODAnalysisResult{
		IsPOD:              isPOD,
		Confidence:         confidence,
		Provider:           provider,
		PositiveIndicators: positive,
		NegativeIndicators: negative,
		RecommendedAction:  recommendedAction(confidence, len(negative)),
	}
}

func recommendedAction(confidence float64, negatives int) string {
	switch {
	case confidence > 70:
		return "Very likely print-on-demand; verify the design is original before buying as handmade."
	case confidence > isPODThreshold:
		return "Possibly print-on-demand; ask the seller about production and fulfillment."
	case negatives > 0:
		return "Signals point to genuine handmade production."
	default:
		return "No print-on-demand signals detected."
	}
}
