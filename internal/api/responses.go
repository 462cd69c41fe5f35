package api

import (
	"github.com/shopsleuth/engine/internal/domain"
	"github.com/shopsleuth/engine/internal/platform"
)

// CrossPlatformRequest is the body of POST /api/v1/analyze/cross-platform.
type CrossPlatformRequest struct {
	Product domain.ReferenceProduct `json:"product" binding:"required"`
	UserID  string                  `json:"user_id"`
	OCR     *OCRSignals             `json:"ocr,omitempty"`
}

// OCRSignals carries optional extraction hints from a client-side scan.
type OCRSignals struct {
	Barcode string `json:"barcode,omitempty"`
	Brand   string `json:"brand,omitempty"`
	Model   string `json:"model,omitempty"`
}

// ListingRequest is the body of POST /api/v1/analyze/listing.
type ListingRequest struct {
	URL           string                `json:"url"`
	Platform      string                `json:"platform" binding:"required"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Price         *float64              `json:"price,omitempty"`
	MarketAverage *float64              `json:"market_average,omitempty"`
	Store         *domain.StoreMetadata `json:"store,omitempty"`
	UserID        string                `json:"user_id"`
}

// ListingResponse wraps a single-listing analysis.
type ListingResponse struct {
	Result *domain.SingleListingAuthenticity `json:"result"`
}

// AnalysisResponse wraps a cross-platform analysis.
type AnalysisResponse struct {
	Result *domain.CrossPlatformAnalysis `json:"result"`
}

// PlatformResponse is one registry entry in GET /api/v1/platforms.
type PlatformResponse struct {
	Name                string  `json:"name"`
	TrustWeight         float64 `json:"trust_weight"`
	LowTrust            bool    `json:"low_trust"`
	FulfillmentPriority int     `json:"fulfillment_priority"`
}

// PlatformsListResponse lists the registered platforms.
type PlatformsListResponse struct {
	Platforms []PlatformResponse `json:"platforms"`
	Total     int                `json:"total"`
}

// toPlatformResponse converts a registry entry to an API response.
func toPlatformResponse(info platform.Info) PlatformResponse {
	return PlatformResponse{
		Name:                info.Name,
		TrustWeight:         info.TrustWeight,
		LowTrust:            info.LowTrust,
		FulfillmentPriority: info.FulfillmentPriority,
	}
}
