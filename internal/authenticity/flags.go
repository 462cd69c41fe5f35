// Package authenticity surfaces structural anomalies in a matched candidate
// set. Each detector is advisory: an empty list means "no signal", never
// "verified authentic".
package authenticity

import (
	"github.com/shopsleuth/engine/internal/domain"
	"github.com/shopsleuth/engine/internal/matching"
	"github.com/shopsleuth/engine/internal/platform"
)

const (
	// similarTitleThreshold flags candidates whose title overlap with the
	// reference exceeds this ratio.
	similarTitleThreshold = 0.8

	// dropshipPriceRatio flags candidates priced below this fraction of the
	// average price.
	dropshipPriceRatio = 0.6
)

// Detector runs the four independent anomaly detectors.
type Detector struct {
	registry *platform.Registry
}

// NewDetector creates a flag detector bound to a platform registry.
func NewDetector(registry *platform.Registry) *Detector {
	return &Detector{registry: registry}
}

// Detect runs all detectors over the candidate set. Candidates must already
// carry their PriceRank. averagePrice is the distribution average used for
// the dropship price check.
func (d *Detector) Detect(ref domain.ReferenceProduct, candidates []domain.CandidateMatch, averagePrice float64) domain.AuthenticityFlagSet {
	return domain.AuthenticityFlagSet{
		IdenticalImages:    d.detectIdenticalImages(candidates),
		SimilarTitles:      d.detectSimilarTitles(ref, candidates),
		PriceOutliers:      d.detectPriceOutliers(candidates),
		DropshipIndicators: d.detectDropshipIndicators(candidates, averagePrice),
	}
}

// detectIdenticalImages groups candidates sharing an image reference; every
// member of a group with more than one listing is flagged.
func (d *Detector) detectIdenticalImages(candidates []domain.CandidateMatch) []string {
	byImage := make(map[string][]string)
	for _, c := range candidates {
		if c.ImageURL == "" {
			continue
		}
		byImage[c.ImageURL] = append(byImage[c.ImageURL], c.URL)
	}

	flagged := []string{}
	for _, c := range candidates {
		if c.ImageURL == "" {
			continue
		}
		if len(byImage[c.ImageURL]) > 1 {
			flagged = append(flagged, c.URL)
		}
	}
	return flagged
}

func (d *Detector) detectSimilarTitles(ref domain.ReferenceProduct, candidates []domain.CandidateMatch) []string {
	flagged := []string{}
	for _, c := range candidates {
		if matching.TitleSimilarity(ref.Title, c.Title) > similarTitleThreshold {
			flagged = append(flagged, c.URL)
		}
	}
	return flagged
}

func (d *Detector) detectPriceOutliers(candidates []domain.CandidateMatch) []string {
	flagged := []string{}
	for _, c := range candidates {
		if c.PriceRank == domain.PriceRankSuspicious {
			flagged = append(flagged, c.URL)
		}
	}
	return flagged
}

func (d *Detector) detectDropshipIndicators(candidates []domain.CandidateMatch, averagePrice float64) []string {
	flagged := []string{}
	for _, c := range candidates {
		if d.registry.IsLowTrust(c.Platform) {
			flagged = append(flagged, c.URL)
			continue
		}
		if averagePrice > 0 && c.Price < averagePrice*dropshipPriceRatio {
			flagged = append(flagged, c.URL)
		}
	}
	return flagged
}
