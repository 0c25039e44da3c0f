// package loader resolves identifier lists from CSV and plain-text files
package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/avidcyclist/spotify-isrc-matcher/internal/shared"
)

// Column names tried when the requested ISRC column is absent.
var commonColumnNames = []string{"ISRC", "isrc", "ISRC_CODE", "isrc_code", "Code", "code"}

// ReadCSVColumn extracts identifiers from one column of a CSV file.
//
// The column is matched case-insensitively against the header row;
// when no header matches, common ISRC column names are tried before
// giving up. headerRow is zero-based and rows above it are ignored.
// Cells are trimmed and blanks skipped.
func ReadCSVColumn(path, column string, headerRow int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	if headerRow < 0 {
		headerRow = 0
	}
	if headerRow >= len(records) {
		return nil, fmt.Errorf("%w: header row %d beyond end of file (%d rows)", shared.ErrInvalidInput, headerRow+1, len(records))
	}

	header := records[headerRow]
	colIdx := findColumn(header, column)
	if colIdx < 0 {
		for _, name := range commonColumnNames {
			if colIdx = findColumn(header, name); colIdx >= 0 {
				break
			}
		}
	}
	if colIdx < 0 {
		return nil, fmt.Errorf("%w: could not find ISRC column, available columns: %s", shared.ErrInvalidInput, strings.Join(header, ", "))
	}

	var isrcs []string
	for _, row := range records[headerRow+1:] {
		if colIdx >= len(row) {
			continue
		}
		if isrc := strings.TrimSpace(row[colIdx]); isrc != "" {
			isrcs = append(isrcs, isrc)
		}
	}

	return isrcs, nil
}

// findColumn returns the index of the first header cell matching name
// case-insensitively, or -1.
func findColumn(header []string, name string) int {
	for i, cell := range header {
		if strings.EqualFold(strings.TrimSpace(cell), name) {
			return i
		}
	}
	return -1
}

// ReadLines reads one identifier per line, skipping blanks and
// #-prefixed comments.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	var isrcs []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		isrcs = append(isrcs, line)
	}

	return isrcs, nil
}

// Read resolves an input file to an identifier list, dispatching on
// extension: .csv files go through column lookup, anything else is
// treated as a plain list.
func Read(path, column string, headerRow int) ([]string, error) {
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		return ReadCSVColumn(path, column, headerRow)
	}
	return ReadLines(path)
}
