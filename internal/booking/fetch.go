// internal/booking/fetch.go

// Package booking is the aggregation engine: it fans out per-property,
// per-window fetches, merges the outcomes into one deduplicated collection,
// and derives the list, calendar, and summary views from it.
package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hostfolio/hostfolio/internal/models"
	"github.com/hostfolio/hostfolio/internal/source"
)

const (
	defaultFetchTimeout  = 15 * time.Second
	defaultMaxConcurrent = 8
)

// Result is the tagged outcome of one (property, window) fetch. Either Feed
// or Err is meaningful, never both.
type Result struct {
	Property models.Property
	Window   source.Window
	Feed     source.Feed
	Err      error
}

// Fetcher fans fetches out over a source with bounded concurrency.
type Fetcher struct {
	src           source.Source
	timeout       time.Duration
	maxConcurrent int
}

// NewFetcher creates a fetcher. Non-positive timeout or concurrency values
// fall back to defaults.
func NewFetcher(src source.Source, timeout time.Duration, maxConcurrent int) *Fetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Fetcher{src: src, timeout: timeout, maxConcurrent: maxConcurrent}
}

// FetchAll issues one fetch per (property, window) pair and waits for every
// one to settle. A failed or timed-out pair is recorded in its Result and
// never aborts or delays the siblings; tasks return nil to the group so the
// pool runs to completion regardless of outcomes. The returned slice has one
// entry per pair; completion order is irrelevant to callers because each
// task writes to its own index.
func (f *Fetcher) FetchAll(ctx context.Context, props []models.Property, windows []source.Window) []Result {
	results := make([]Result, 0, len(props)*len(windows))
	for _, prop := range props {
		for _, w := range windows {
			results = append(results, Result{Property: prop, Window: w})
		}
	}

	g := new(errgroup.Group)
	g.SetLimit(f.maxConcurrent)
	for i := range results {
		g.Go(func() error {
			r := &results[i]
			fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
			defer cancel()

			feed, err := f.src.Bookings(fetchCtx, r.Property.ID, r.Window)
			if err != nil {
				r.Err = err
				log.Ctx(ctx).Warn().
					Err(err).
					Str("property_id", r.Property.ID).
					Str("window", r.Window.String()).
					Msg("Booking fetch failed")
				return nil
			}
			r.Feed = feed
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	log.Ctx(ctx).Info().
		Int("pairs", len(results)).
		Int("failed", failed).
		Msg("Booking fetch settled")

	return results
}
