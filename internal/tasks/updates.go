package tasks

import (
	"fmt"

	"github.com/avidcyclist/spotify-isrc-matcher/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Authenticate Phase = iota
	LookupTrack
	TrackMatched
	TrackFailed
	BatchComplete
)

func (p Phase) String() string {
	switch p {
	case Authenticate:
		return "authenticate"
	case LookupTrack:
		return "lookup_track"
	case TrackMatched:
		return "track_matched"
	case TrackFailed:
		return "track_failed"
	case BatchComplete:
		return "batch_complete"
	default:
		return ""
	}
}

func authenticateUpdate(provider string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Authenticate,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Authenticating with %s...", provider),
	}
}

func lookupUpdate(step, total int, isrc string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LookupTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Looking up %d/%d: %s", step, total, isrc),
		Data:    isrc,
	}
}

func matchedUpdate(step, total int, match models.TrackMatch) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TrackMatched,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Matched %s: %s - %s", match.ISRC, match.ArtistName, match.TrackName),
		Data:    match,
	}
}

func failedUpdate(step, total int, match models.TrackMatch) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TrackFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Failed %s: %s", match.ISRC, match.Err),
		Data:    match,
	}
}

func completedUpdate(result *MatchRunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BatchComplete,
		Step:    result.Total,
		Total:   result.Total,
		Message: fmt.Sprintf("Batch complete: %d/%d matched", result.Succeeded, result.Total),
		Data:    result,
	}
}
