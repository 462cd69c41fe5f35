package domain

import "time"

// StockStatus describes the availability of a marketplace listing.
type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockOutOfStock StockStatus = "out_of_stock"
	StockLimited    StockStatus = "limited"
	StockPreorder   StockStatus = "preorder"
)

// PriceRank is a categorical label describing a candidate's price relative
// to the reference (or average) price.
type PriceRank string

const (
	PriceRankLowest      PriceRank = "lowest"
	PriceRankCompetitive PriceRank = "competitive"
	PriceRankAverage     PriceRank = "average"
	PriceRankHigh        PriceRank = "high"
	PriceRankSuspicious  PriceRank = "suspicious"
)

// ReferenceProduct is the product identity under analysis. It is a snapshot:
// once an analysis run starts the reference is never mutated.
type ReferenceProduct struct {
	Title          string   `json:"title"`
	Barcode        string   `json:"barcode,omitempty"`
	Brand          string   `json:"brand,omitempty"`
	Category       string   `json:"category,omitempty"`
	Model          string   `json:"model,omitempty"`
	Features       []string `json:"features,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	Currency       string   `json:"currency,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	SourcePlatform string   `json:"source_platform,omitempty"`
	SourceURL      string   `json:"source_url"`
}

// ReviewSummary aggregates review data attached to a candidate listing.
type ReviewSummary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// CandidateMatch is one marketplace listing believed to possibly be the same
// product as the reference. A search adapter creates it with observation data;
// the scorer and price analyzer enrich MatchConfidence and PriceRank. After
// enrichment a candidate is never mutated — a new run produces new candidates.
type CandidateMatch struct {
	Platform        string         `json:"platform"`
	URL             string         `json:"url"`
	Title           string         `json:"title"`
	Price           float64        `json:"price"`
	Currency        string         `json:"currency"`
	Seller          string         `json:"seller,omitempty"`
	SellerRating    *float64       `json:"seller_rating,omitempty"`
	Reviews         *ReviewSummary `json:"reviews,omitempty"`
	Stock           StockStatus    `json:"stock_status,omitempty"`
	ImageURL        string         `json:"image_url,omitempty"`
	MatchConfidence float64        `json:"match_confidence"`
	PriceRank       PriceRank      `json:"price_rank,omitempty"`
	ObservedAt      time.Time      `json:"observed_at"`
}

// NormalizedQuery is the canonical search query built from a partial
// ReferenceProduct. Every search adapter consumes this shape.
type NormalizedQuery struct {
	ProductName    string   `json:"product_name"`
	Barcode        string   `json:"barcode,omitempty"`
	Brand          string   `json:"brand,omitempty"`
	Category       string   `json:"category,omitempty"`
	Model          string   `json:"model,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	ReferencePrice *float64 `json:"reference_price,omitempty"`
	Features       []string `json:"features,omitempty"`
}

// ClampScore clamps a confidence or score value to [0,100]. All score fields
// exposed by the engine hold to this invariant.
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
