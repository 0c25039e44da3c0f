// package formatter builds match reports and exports them to various formats (CSV, JSON, Markdown)
package formatter

import (
	"sort"
	"time"

	"github.com/avidcyclist/spotify-isrc-matcher/internal/models"
)

const topArtistLimit = 20

// ReportRow is one line of the results table, one per input ISRC.
type ReportRow struct {
	ISRC        string `json:"isrc"`
	ReleaseYear string `json:"release_year"`
	TrackName   string `json:"track_name"`
	ArtistName  string `json:"artist_name"`
	AlbumName   string `json:"album_name"`
	Status      string `json:"status"`
	Error       string `json:"error"`
}

// ErrorCount is an error message with its occurrence count.
//
// Counting keys on message text: distinct failure causes that stringify
// identically are merged.
type ErrorCount struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// YearCount is a release year with the number of matched tracks from that year.
type YearCount struct {
	Year  string `json:"year"`
	Count int    `json:"count"`
}

// ArtistCount is an artist with the number of matched tracks credited to them.
type ArtistCount struct {
	Artist string `json:"artist"`
	Count  int    `json:"count"`
}

// Summary aggregates batch-level statistics.
type Summary struct {
	Total        int          `json:"total"`
	Succeeded    int          `json:"succeeded"`
	Failed       int          `json:"failed"`
	SuccessRate  float64      `json:"success_rate"`
	CommonErrors []ErrorCount `json:"common_errors,omitempty"`
}

// Report is the full tabular artifact produced from a batch of matches.
type Report struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Rows        []ReportRow   `json:"rows"`
	Summary     Summary       `json:"summary"`
	Years       []YearCount   `json:"year_distribution,omitempty"`
	TopArtists  []ArtistCount `json:"top_artists,omitempty"`
}

// BuildReport converts a match collection into a Report. Pure
// transformation: the input slice is not mutated and row order follows
// input order.
func BuildReport(matches []models.TrackMatch) *Report {
	report := &Report{
		GeneratedAt: time.Now(),
		Rows:        make([]ReportRow, 0, len(matches)),
	}

	errorCounts := map[string]int{}
	var errorOrder []string

	yearCounts := map[string]int{}

	artistCounts := map[string]int{}
	artistFirstSeen := map[string]int{}

	for i, m := range matches {
		report.Rows = append(report.Rows, ReportRow{
			ISRC:        m.ISRC,
			ReleaseYear: m.ReleaseYear,
			TrackName:   m.TrackName,
			ArtistName:  m.ArtistName,
			AlbumName:   m.AlbumName,
			Status:      m.Status(),
			Error:       m.Err,
		})

		if m.Succeeded() {
			report.Summary.Succeeded++
		} else {
			report.Summary.Failed++
			if _, seen := errorCounts[m.Err]; !seen {
				errorOrder = append(errorOrder, m.Err)
			}
			errorCounts[m.Err]++
		}

		if m.ReleaseYear != "" {
			yearCounts[m.ReleaseYear]++
		}

		if m.ArtistName != "" {
			if _, seen := artistCounts[m.ArtistName]; !seen {
				artistFirstSeen[m.ArtistName] = i
			}
			artistCounts[m.ArtistName]++
		}
	}

	report.Summary.Total = len(matches)
	if report.Summary.Total > 0 {
		report.Summary.SuccessRate = float64(report.Summary.Succeeded) / float64(report.Summary.Total) * 100
	}

	for _, msg := range errorOrder {
		report.Summary.CommonErrors = append(report.Summary.CommonErrors, ErrorCount{Message: msg, Count: errorCounts[msg]})
	}

	for year, count := range yearCounts {
		report.Years = append(report.Years, YearCount{Year: year, Count: count})
	}
	sort.Slice(report.Years, func(i, j int) bool {
		return report.Years[i].Year < report.Years[j].Year
	})

	for artist, count := range artistCounts {
		report.TopArtists = append(report.TopArtists, ArtistCount{Artist: artist, Count: count})
	}
	sort.Slice(report.TopArtists, func(i, j int) bool {
		a, b := report.TopArtists[i], report.TopArtists[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		// Ties keep first-encountered order
		return artistFirstSeen[a.Artist] < artistFirstSeen[b.Artist]
	})
	if len(report.TopArtists) > topArtistLimit {
		report.TopArtists = report.TopArtists[:topArtistLimit]
	}

	return report
}
