// package tasks implements the sequential ISRC batch matching pipeline.
//
// The core abstraction is MatchEngine, which walks an ordered identifier
// list, performs one catalog lookup per item with a fixed inter-call
// delay, and collects results preserving input order. Operations emit
// progress updates via channels for non-blocking status reporting to
// CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/avidcyclist/spotify-isrc-matcher/internal/models"
	"github.com/avidcyclist/spotify-isrc-matcher/internal/services"
	"github.com/avidcyclist/spotify-isrc-matcher/internal/shared"
	"golang.org/x/time/rate"
)

// MatchRunResult contains all data from a completed batch run.
type MatchRunResult struct {
	RunID      string              // Unique identifier for this run
	Matches    []models.TrackMatch // One record per input ISRC, input order
	Total      int                 // Total identifiers processed
	Succeeded  int                 // Lookups that produced metadata
	Failed     int                 // Lookups that produced an error record
	SuccessPct float64             // Success rate as percentage
	Elapsed    time.Duration       // Wall-clock duration of the batch
}

// MatchEngine runs ISRC batches against a catalog provider.
//
// Processing is strictly sequential; the engine holds no state between
// runs beyond its injected dependencies.
type MatchEngine struct {
	catalog services.Catalog
}

// NewMatchEngine creates a new MatchEngine backed by the given catalog.
func NewMatchEngine(catalog services.Catalog) *MatchEngine {
	return &MatchEngine{catalog: catalog}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *MatchEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Process looks up every identifier in order, pacing calls with the
// given delay. The result slice is length- and order-preserving:
// result[i] always describes isrcs[i], duplicates included.
//
// Per-item failures are embedded in their records and never abort the
// batch; only context cancellation returns early, with the partial
// results collected so far.
func (e *MatchEngine) Process(ctx context.Context, progress chan<- ProgressUpdate, isrcs []string, delay time.Duration) ([]models.TrackMatch, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrAPIRequest)
	}

	matches := make([]models.TrackMatch, 0, len(isrcs))
	if len(isrcs) == 0 {
		return matches, nil
	}

	// One event per delay interval; the first Wait returns immediately,
	// so n items incur n-1 pauses.
	var limiter *rate.Limiter
	if delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}

	total := len(isrcs)
	for i, isrc := range isrcs {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return matches, err
			}
		} else if err := ctx.Err(); err != nil {
			return matches, err
		}

		e.sendProgress(progress, lookupUpdate(i+1, total, isrc))

		match := e.catalog.Lookup(ctx, isrc)
		matches = append(matches, match)

		if match.Succeeded() {
			e.sendProgress(progress, matchedUpdate(i+1, total, match))
		} else {
			e.sendProgress(progress, failedUpdate(i+1, total, match))
		}
	}

	return matches, nil
}

// Run authenticates, processes the batch, and computes summary counts.
// Authentication failure is fatal: no lookups are attempted without a
// usable token.
func (e *MatchEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, isrcs []string, delay time.Duration) (*MatchRunResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrAPIRequest)
	}

	e.sendProgress(progress, authenticateUpdate(e.catalog.Name()))
	if err := e.catalog.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	started := time.Now()
	matches, err := e.Process(ctx, progress, isrcs, delay)
	if err != nil {
		return nil, err
	}

	result := &MatchRunResult{
		RunID:   shared.GenerateID(),
		Matches: matches,
		Total:   len(matches),
		Elapsed: time.Since(started),
	}

	for _, m := range matches {
		if m.Succeeded() {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}
	if result.Total > 0 {
		result.SuccessPct = float64(result.Succeeded) / float64(result.Total) * 100
	}

	e.sendProgress(progress, completedUpdate(result))
	return result, nil
}
