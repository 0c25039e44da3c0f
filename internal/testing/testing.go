// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/avidcyclist/spotify-isrc-matcher/internal/models"
)

// MockCatalog is a test double for [services.Catalog].
//
// LookupFunc controls per-ISRC behavior; when nil every lookup succeeds
// with canned metadata. Calls are recorded in input order.
type MockCatalog struct {
	AuthErr    error
	LookupFunc func(isrc string) models.TrackMatch
	AuthCalls  int
	LookedUp   []string
}

func (m *MockCatalog) Authenticate(ctx context.Context) error {
	m.AuthCalls++
	return m.AuthErr
}

func (m *MockCatalog) Lookup(ctx context.Context, isrc string) models.TrackMatch {
	m.LookedUp = append(m.LookedUp, isrc)
	if m.LookupFunc != nil {
		return m.LookupFunc(isrc)
	}
	return models.TrackMatch{
		ISRC:        isrc,
		ReleaseYear: "2020",
		TrackName:   "Mock Track",
		ArtistName:  "Mock Artist",
		AlbumName:   "Mock Album",
	}
}

func (m *MockCatalog) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
