package domain

import "errors"

// Input errors are rejected before any adapter call.
var (
	ErrEmptyProductName = errors.New("product name is required")
	ErrInvalidURL       = errors.New("invalid listing URL")
)

// ErrQuotaExceeded is surfaced to the caller before any work is performed.
var ErrQuotaExceeded = errors.New("usage quota exceeded")

// ErrAllSourcesFailed means every registered adapter failed or timed out.
// The orchestrator converts it into a well-formed fallback result.
var ErrAllSourcesFailed = errors.New("all search sources failed")

// ErrNoContent is returned when a listing page yields no analyzable text.
var ErrNoContent = errors.New("no page content to analyze")
