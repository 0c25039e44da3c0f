// package services defines interface Catalog for music catalog lookups over HTTP APIs
package services

import (
	"context"

	"github.com/avidcyclist/spotify-isrc-matcher/internal/models"
)

// Catalog defines the interface for track metadata providers keyed by ISRC.
type Catalog interface {
	// Authenticate performs an eager credential exchange with the provider.
	// Returns an error if the credentials are rejected; a batch should not
	// start without a usable token.
	Authenticate(ctx context.Context) error

	// Lookup resolves a single ISRC to track metadata.
	//
	// Lookup never returns an error: every failure mode (auth refresh,
	// transport, no match, malformed response) is captured in the
	// returned record's Err field so one bad identifier cannot abort a
	// batch.
	Lookup(ctx context.Context, isrc string) models.TrackMatch

	// Name returns the name of the catalog provider (e.g., "Spotify")
	Name() string
}
