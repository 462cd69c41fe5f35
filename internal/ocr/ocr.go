// Package ocr defines the contract for the optical text-extraction
// collaborator. The engine consumes extracted signals as additional evidence;
// the extraction itself happens outside this module.
package ocr

import "context"

// Signals holds text extracted from a product image plus derived fields.
type Signals struct {
	Text    string `json:"text,omitempty"`
	Barcode string `json:"barcode,omitempty"`
	Brand   string `json:"brand,omitempty"`
	Model   string `json:"model,omitempty"`
}

// Extractor extracts signals from a product image reference.
type Extractor interface {
	Extract(ctx context.Context, imageRef string) (Signals, error)
}
