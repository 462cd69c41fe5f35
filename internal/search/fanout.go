package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopsleuth/engine/internal/domain"
	"github.com/shopsleuth/engine/internal/logger"
	"github.com/shopsleuth/engine/internal/telemetry"
)

// DefaultAdapterTimeout bounds each adapter call when no timeout is
// configured.
const DefaultAdapterTimeout = 10 * time.Second

// Collector fans a normalized query out to all registered adapters and waits
// for every call to settle. A failing or timed-out adapter contributes an
// Outcome with Err set; it never aborts the other calls.
type Collector struct {
	adapters  []Adapter
	timeout   time.Duration
	telemetry *telemetry.Provider
	log       logger.Logger
}

// NewCollector creates a fan-out collector over the given adapters. A nil
// telemetry provider disables adapter metrics.
func NewCollector(adapters []Adapter, timeout time.Duration, tel *telemetry.Provider, log logger.Logger) *Collector {
	if timeout <= 0 {
		timeout = DefaultAdapterTimeout
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Collector{adapters: adapters, timeout: timeout, telemetry: tel, log: log}
}

// Search runs every adapter concurrently, skipping the one matching
// skipPlatform (the reference product's own marketplace). It waits for all
// calls to settle and returns their outcomes in adapter registration order.
//
// On cancellation of ctx the collected outcomes are discarded and the context
// error is returned: a partial analysis must not masquerade as a complete one.
func (c *Collector) Search(ctx context.Context, q domain.NormalizedQuery, skipPlatform string) ([]Outcome, error) {
	active := make([]Adapter, 0, len(c.adapters))
	for _, a := range c.adapters {
		if skipPlatform != "" && strings.EqualFold(a.Platform(), skipPlatform) {
			continue
		}
		active = append(active, a)
	}

	outcomes := make([]Outcome, len(active))
	done := make(chan int, len(active))

	for i, adapter := range active {
		go func(idx int, a Adapter) {
			outcomes[idx] = c.callAdapter(ctx, a, q)
			done <- idx
		}(i, adapter)
	}

	for remaining := len(active); remaining > 0; remaining-- {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-done:
		}
	}

	return outcomes, nil
}

// callAdapter runs one adapter with its own timeout and panic recovery, and
// enforces the candidate contract on whatever comes back.
func (c *Collector) callAdapter(ctx context.Context, a Adapter, q domain.NormalizedQuery) (out Outcome) {
	out.Platform = a.Platform()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			out.Candidates = nil
			out.Err = fmt.Errorf("adapter %s panicked: %v", out.Platform, r)
			c.log.Error("search adapter panic",
				logger.String("platform", out.Platform),
				logger.Any("panic", r))
		}
		if c.telemetry != nil {
			c.telemetry.RecordAdapterSearch(out.Platform, out.Err != nil, time.Since(start))
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	candidates, err := a.Search(callCtx, q)
	if err != nil {
		out.Err = fmt.Errorf("adapter %s: %w", out.Platform, err)
		c.log.Warn("search adapter failed",
			logger.String("platform", out.Platform),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err))
		return out
	}

	out.Candidates = c.sanitize(candidates, out.Platform)
	c.log.Debug("search adapter completed",
		logger.String("platform", out.Platform),
		logger.Int("candidates", len(out.Candidates)),
		logger.Duration("elapsed", time.Since(start)))
	return out
}

// sanitize enforces the adapter contract: platform tagging, mandatory price
// and currency, and an observation timestamp.
func (c *Collector) sanitize(candidates []domain.CandidateMatch, platform string) []domain.CandidateMatch {
	kept := make([]domain.CandidateMatch, 0, len(candidates))
	now := time.Now().UTC()

	for _, cand := range candidates {
		if cand.Price <= 0 || cand.Currency == "" {
			c.log.Warn("dropping candidate without price",
				logger.String("platform", platform),
				logger.String("url", cand.URL))
			continue
		}
		cand.Platform = platform
		if cand.ObservedAt.IsZero() {
			cand.ObservedAt = now
		}
		kept = append(kept, cand)
	}
	return kept
}
