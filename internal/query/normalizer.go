// Package query builds canonical search queries from partial reference
// products.
package query

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/shopsleuth/engine/internal/domain"
	"github.com/shopsleuth/engine/internal/ocr"
)

// Compiled patterns for title cleanup.
var (
	// Size/quantity noise like "12 oz", "1.5 liter", "2 pack", "6-pack".
	sizePattern = regexp.MustCompile(`\b\d+\.?\d*\s*(fl\s*)?(oz|ounces?|lbs?|pounds?|ml|liters?|kg|grams?|g)\b|\b\d+[-\s]*(pack|pk|count|ct)\b|\bpack\s*of\s*\d+\b`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// noiseWords are marketing and packaging terms stripped from queries. They
// add no identity signal and hurt marketplace search precision.
var noiseWords = map[string]bool{
	"value": true, "family": true, "bonus": true, "new": true,
	"improved": true, "premium": true, "select": true, "best": true,
	"great": true, "special": true, "official": true, "authentic": true,
	"size": true, "large": true, "medium": true, "small": true,
	"jumbo": true, "giant": true, "big": true,
	"package": true, "box": true, "bag": true, "item": true,
	"product": true, "listing": true,
}

// diacriticFolder strips combining marks so accented titles tokenize the
// same as their plain-ASCII forms.
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalizer builds normalized queries. Pure: it holds no mutable state.
type Normalizer struct{}

// NewNormalizer creates a query normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize builds the canonical query for a reference product. The only
// failure mode is an empty product name after cleanup.
func (n *Normalizer) Normalize(ref domain.ReferenceProduct) (domain.NormalizedQuery, error) {
	name := CleanTitle(ref.Title)
	if name == "" {
		return domain.NormalizedQuery{}, domain.ErrEmptyProductName
	}

	q := domain.NormalizedQuery{
		ProductName:    name,
		Barcode:        strings.TrimSpace(ref.Barcode),
		Brand:          strings.TrimSpace(ref.Brand),
		Category:       strings.TrimSpace(ref.Category),
		Model:          strings.TrimSpace(ref.Model),
		ImageURL:       ref.ImageURL,
		ReferencePrice: ref.Price,
	}

	if len(ref.Features) > 0 {
		features := make([]string, 0, len(ref.Features))
		for _, f := range ref.Features {
			if f = strings.TrimSpace(f); f != "" {
				features = append(features, f)
			}
		}
		q.Features = features
	}

	// Prepend the brand when it is not already part of the cleaned name.
	if q.Brand != "" && !strings.Contains(strings.ToLower(q.ProductName), strings.ToLower(q.Brand)) {
		q.ProductName = q.Brand + " " + q.ProductName
	}

	return q, nil
}

// MergeSignals fills missing query fields from OCR-derived evidence.
// Explicit reference attributes always win over extracted ones.
func MergeSignals(q *domain.NormalizedQuery, sig ocr.Signals) {
	if q.Barcode == "" {
		q.Barcode = strings.TrimSpace(sig.Barcode)
	}
	if q.Brand == "" {
		q.Brand = strings.TrimSpace(sig.Brand)
	}
	if q.Model == "" {
		q.Model = strings.TrimSpace(sig.Model)
	}
}

// CleanTitle folds diacritics, strips size and noise terms, and collapses
// whitespace. Returns "" when nothing useful survives.
func CleanTitle(title string) string {
	folded, _, err := transform.String(diacriticFolder, title)
	if err != nil {
		folded = title
	}

	cleaned := sizePattern.ReplaceAllString(folded, " ")
	cleaned = removeNoiseWords(cleaned)
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

func removeNoiseWords(s string) string {
	words := strings.Fields(s)
	kept := make([]string, 0, len(words))
	for _, word := range words {
		check := strings.ToLower(strings.Trim(word, ",.!?;:-'\""))
		if noiseWords[check] {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}
