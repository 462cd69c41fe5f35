// Package search defines the marketplace search adapter contract and the
// fan-out collector that runs all adapters concurrently.
package search

import (
	"context"

	"github.com/shopsleuth/engine/internal/domain"
)

// Adapter searches one marketplace for candidate listings. Implementations
// live outside the engine; tests inject fakes. The contract:
//   - a failure is returned as an error, never a panic that escapes the run
//   - every returned candidate carries the adapter's platform name
//   - price and currency are present on every returned candidate
//   - the context deadline imposed by the collector is respected
type Adapter interface {
	// Platform returns the marketplace name this adapter searches.
	Platform() string
	// Search returns zero or more raw candidate listings for the query.
	Search(ctx context.Context, q domain.NormalizedQuery) ([]domain.CandidateMatch, error)
}

// Outcome is the settled result of a single adapter call. Exactly one of
// Candidates or Err is meaningful.
type Outcome struct {
	Platform   string
	Candidates []domain.CandidateMatch
	Err        error
}

// Failed reports whether the adapter call failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}
