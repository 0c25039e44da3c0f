package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/avidcyclist/spotify-isrc-matcher/internal/shared"
)

// ExportToCSV renders the results table as CSV with columns:
// ISRC, Release Year, Track Name, Artist Name, Album Name, Status, Error
func ExportToCSV(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ISRC", "Release Year", "Track Name", "Artist Name", "Album Name", "Status", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range report.Rows {
		record := []string{
			row.ISRC,
			row.ReleaseYear,
			row.TrackName,
			row.ArtistName,
			row.AlbumName,
			row.Status,
			row.Error,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the full report (rows plus aggregates) as JSON.
func ExportToJSON(report *Report, pretty bool) ([]byte, error) {
	return shared.MarshalJSON(report, pretty)
}

// ExportToMarkdown renders the full report as a Markdown document with
// results, summary, year-distribution, and top-artist tables.
func ExportToMarkdown(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# ISRC Match Report\n\n")
	buf.WriteString(fmt.Sprintf("Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05")))

	buf.WriteString("## Summary\n\n")
	buf.WriteString(fmt.Sprintf("- **Total**: %d\n", report.Summary.Total))
	buf.WriteString(fmt.Sprintf("- **Succeeded**: %d\n", report.Summary.Succeeded))
	buf.WriteString(fmt.Sprintf("- **Failed**: %d\n", report.Summary.Failed))
	buf.WriteString(fmt.Sprintf("- **Success rate**: %.1f%%\n\n", report.Summary.SuccessRate))

	if len(report.Summary.CommonErrors) > 0 {
		buf.WriteString("### Common Errors\n\n")
		buf.WriteString("| Error | Count |\n|---|---|\n")
		for _, ec := range report.Summary.CommonErrors {
			buf.WriteString(fmt.Sprintf("| %s | %d |\n", ec.Message, ec.Count))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## Results\n\n")
	buf.WriteString("| ISRC | Year | Track | Artist | Album | Status | Error |\n")
	buf.WriteString("|---|---|---|---|---|---|---|\n")
	for _, row := range report.Rows {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s |\n",
			row.ISRC, row.ReleaseYear, row.TrackName, row.ArtistName, row.AlbumName, row.Status, row.Error))
	}
	buf.WriteString("\n")

	if len(report.Years) > 0 {
		buf.WriteString("## Year Distribution\n\n")
		buf.WriteString("| Year | Count |\n|---|---|\n")
		for _, yc := range report.Years {
			buf.WriteString(fmt.Sprintf("| %s | %d |\n", yc.Year, yc.Count))
		}
		buf.WriteString("\n")
	}

	if len(report.TopArtists) > 0 {
		buf.WriteString("## Top Artists\n\n")
		buf.WriteString("| Artist | Track Count |\n|---|---|\n")
		for _, ac := range report.TopArtists {
			buf.WriteString(fmt.Sprintf("| %s | %d |\n", ac.Artist, ac.Count))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// summarySidecar carries the aggregates that don't fit the flat CSV table.
type summarySidecar struct {
	GeneratedAt string        `json:"generated_at"`
	Summary     Summary       `json:"summary"`
	Years       []YearCount   `json:"year_distribution,omitempty"`
	TopArtists  []ArtistCount `json:"top_artists,omitempty"`
}

// CSVReportResult contains the paths of files created by WriteCSVReport
type CSVReportResult struct {
	ResultsFile string
	SummaryFile string
}

// WriteCSVReport writes the results table to {base}_results.csv and the
// aggregates to {base}_summary.json.
func WriteCSVReport(report *Report, basePath string) (*CSVReportResult, error) {
	csvData, err := ExportToCSV(report)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	resultsFile := basePath + "_results.csv"
	if err := os.WriteFile(resultsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	sidecar := summarySidecar{
		GeneratedAt: report.GeneratedAt.Format("2006-01-02 15:04:05"),
		Summary:     report.Summary,
		Years:       report.Years,
		TopArtists:  report.TopArtists,
	}
	summaryJSON, err := shared.MarshalJSON(sidecar, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary JSON: %w", err)
	}

	summaryFile := basePath + "_summary.json"
	if err := os.WriteFile(summaryFile, summaryJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary file: %w", err)
	}

	return &CSVReportResult{ResultsFile: resultsFile, SummaryFile: summaryFile}, nil
}

// WriteJSONReport writes the full report to {base}.json.
func WriteJSONReport(report *Report, basePath string, pretty bool) (string, error) {
	data, err := ExportToJSON(report, pretty)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	path := basePath + ".json"
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return path, nil
}

// WriteMarkdownReport writes the full report to {base}.md.
func WriteMarkdownReport(report *Report, basePath string) (string, error) {
	data, err := ExportToMarkdown(report)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	path := basePath + ".md"
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return path, nil
}

// WriteReport dispatches on format (csv, json, markdown) and returns the
// created file paths.
func WriteReport(report *Report, basePath, format string) ([]string, error) {
	switch format {
	case "csv", "":
		res, err := WriteCSVReport(report, basePath)
		if err != nil {
			return nil, err
		}
		return []string{res.ResultsFile, res.SummaryFile}, nil
	case "json":
		path, err := WriteJSONReport(report, basePath, true)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	case "markdown", "md":
		path, err := WriteMarkdownReport(report, basePath)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	default:
		return nil, fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidFlag, format)
	}
}

// FormatSuccessRate renders a percentage with one decimal place, the
// precision used everywhere a rate is displayed.
func FormatSuccessRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 1, 64) + "%"
}
