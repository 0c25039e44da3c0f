package formatter

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avidcyclist/spotify-isrc-matcher/internal/models"
	tu "github.com/avidcyclist/spotify-isrc-matcher/internal/testing"
)

func sampleMatches() []models.TrackMatch {
	return []models.TrackMatch{
		{ISRC: "USUG11904257", ReleaseYear: "2019", TrackName: "Blinding Lights", ArtistName: "The Weeknd", AlbumName: "After Hours"},
		{ISRC: "GBUM71029604", ReleaseYear: "2011", TrackName: "Someone Like You", ArtistName: "Adele", AlbumName: "21"},
		{ISRC: "INVALID_ISRC", Err: "Track not found"},
	}
}

func TestBuildReport(t *testing.T) {
	t.Run("Rows Follow Input Order", func(t *testing.T) {
		report := BuildReport(sampleMatches())

		if len(report.Rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(report.Rows))
		}
		if report.Rows[0].ISRC != "USUG11904257" || report.Rows[2].ISRC != "INVALID_ISRC" {
			t.Error("rows do not follow input order")
		}
		if report.Rows[0].Status != "Success" {
			t.Errorf("expected Success status, got %s", report.Rows[0].Status)
		}
		if report.Rows[2].Status != "Failed" {
			t.Errorf("expected Failed status, got %s", report.Rows[2].Status)
		}
	})

	t.Run("Summary Counts", func(t *testing.T) {
		report := BuildReport(sampleMatches())

		s := report.Summary
		if s.Total != 3 || s.Succeeded != 2 || s.Failed != 1 {
			t.Errorf("unexpected counts: %+v", s)
		}
		if got := FormatSuccessRate(s.SuccessRate); got != "66.7%" {
			t.Errorf("expected success rate 66.7%%, got %s", got)
		}
	})

	t.Run("Common Errors Keyed On Message", func(t *testing.T) {
		matches := []models.TrackMatch{
			{ISRC: "A", Err: "Track not found"},
			{ISRC: "B", Err: "API Error: status 500"},
			{ISRC: "C", Err: "Track not found"},
		}
		report := BuildReport(matches)

		if len(report.Summary.CommonErrors) != 2 {
			t.Fatalf("expected 2 distinct errors, got %d", len(report.Summary.CommonErrors))
		}
		first := report.Summary.CommonErrors[0]
		if first.Message != "Track not found" || first.Count != 2 {
			t.Errorf("expected 'Track not found' x2 first, got %+v", first)
		}
	})

	t.Run("Year Distribution Sorted Ascending", func(t *testing.T) {
		matches := []models.TrackMatch{
			{ISRC: "A", ReleaseYear: "2019", TrackName: "x"},
			{ISRC: "B", ReleaseYear: "1999", TrackName: "x"},
			{ISRC: "C", ReleaseYear: "2019", TrackName: "x"},
			{ISRC: "D", Err: "Track not found"},
		}
		report := BuildReport(matches)

		if len(report.Years) != 2 {
			t.Fatalf("expected 2 year buckets, got %d", len(report.Years))
		}
		if report.Years[0].Year != "1999" || report.Years[1].Year != "2019" {
			t.Errorf("years not ascending: %+v", report.Years)
		}
		if report.Years[1].Count != 2 {
			t.Errorf("expected 2019 count 2, got %d", report.Years[1].Count)
		}
	})

	t.Run("Top Artists Ties Keep First-Encountered Order", func(t *testing.T) {
		var matches []models.TrackMatch
		add := func(artist string, n int) {
			for i := 0; i < n; i++ {
				matches = append(matches, models.TrackMatch{ISRC: "X", TrackName: "x", ArtistName: artist})
			}
		}
		add("Artist A", 5)
		add("Artist B", 5)
		add("Artist C", 1)

		report := BuildReport(matches)

		if len(report.TopArtists) != 3 {
			t.Fatalf("expected 3 artists, got %d", len(report.TopArtists))
		}
		order := []string{"Artist A", "Artist B", "Artist C"}
		for i, want := range order {
			if report.TopArtists[i].Artist != want {
				t.Errorf("position %d: expected %s, got %s", i, want, report.TopArtists[i].Artist)
			}
		}
	})

	t.Run("Top Artists Capped At Twenty", func(t *testing.T) {
		var matches []models.TrackMatch
		for i := 0; i < 25; i++ {
			matches = append(matches, models.TrackMatch{
				ISRC:       "X",
				TrackName:  "x",
				ArtistName: "Artist " + string(rune('A'+i)),
			})
		}
		report := BuildReport(matches)

		if len(report.TopArtists) != 20 {
			t.Errorf("expected top-artist list capped at 20, got %d", len(report.TopArtists))
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		report := BuildReport(nil)

		if report.Summary.Total != 0 || report.Summary.SuccessRate != 0 {
			t.Errorf("unexpected summary for empty input: %+v", report.Summary)
		}
		if len(report.Rows) != 0 {
			t.Errorf("expected no rows, got %d", len(report.Rows))
		}
	})
}

func TestExporters(t *testing.T) {
	report := BuildReport(sampleMatches())

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(report)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ISRC,Release Year,Track Name,Artist Name,Album Name,Status,Error") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "Blinding Lights") {
			t.Error("CSV missing track name")
		}
		if !strings.Contains(output, "Track not found") {
			t.Error("CSV missing error text")
		}

		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 4 {
			t.Errorf("expected header plus 3 rows, got %d lines", len(lines))
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(report, true)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded Report
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("exported JSON is invalid: %v", err)
		}
		if decoded.Summary.Total != 3 {
			t.Errorf("expected total 3 in decoded report, got %d", decoded.Summary.Total)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(report)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, section := range []string{"# ISRC Match Report", "## Summary", "## Results", "## Year Distribution", "## Top Artists", "### Common Errors"} {
			if !strings.Contains(output, section) {
				t.Errorf("markdown missing section %q", section)
			}
		}
		if !strings.Contains(output, "66.7%") {
			t.Error("markdown missing success rate")
		}
	})
}

func TestWriteReport(t *testing.T) {
	report := BuildReport(sampleMatches())

	t.Run("CSV Writes Results And Summary", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "run1")

		files, err := WriteReport(report, base, "csv")
		if err != nil {
			t.Fatalf("WriteReport failed: %v", err)
		}
		if len(files) != 2 {
			t.Fatalf("expected 2 files, got %d", len(files))
		}
		for _, f := range files {
			tu.AssertFileExists(t, f)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "run1")

		files, err := WriteReport(report, base, "json")
		if err != nil {
			t.Fatalf("WriteReport failed: %v", err)
		}
		if len(files) != 1 || !strings.HasSuffix(files[0], ".json") {
			t.Errorf("expected single .json file, got %v", files)
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "run1")

		files, err := WriteReport(report, base, "markdown")
		if err != nil {
			t.Fatalf("WriteReport failed: %v", err)
		}
		if len(files) != 1 || !strings.HasSuffix(files[0], ".md") {
			t.Errorf("expected single .md file, got %v", files)
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		if _, err := WriteReport(report, "x", "xlsx"); err == nil {
			t.Error("expected error for unknown format")
		}
	})

	t.Run("Unwritable Destination", func(t *testing.T) {
		if _, err := WriteReport(report, "/nonexistent/dir/run", "csv"); err == nil {
			t.Error("expected error for unwritable destination")
		}
	})
}
