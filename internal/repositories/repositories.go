// package repositories provides the persistence layer for match run history.
//
// Runs and their per-track results are stored in SQLite so past batches
// can be listed and re-exported without hitting the API again.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/avidcyclist/spotify-isrc-matcher/internal/models"
)

// RunSummary describes one stored match run without its per-track rows.
type RunSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
}

// MatchRepository stores match runs and their results.
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new MatchRepository with the given database connection
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// SaveRun persists a run and all of its results in one transaction.
//
// Result rows keep their slice position so RunMatches can return them
// in the original input order.
func (r *MatchRepository) SaveRun(runID string, createdAt time.Time, matches []models.TrackMatch) error {
	if runID == "" {
		return fmt.Errorf("run id is required")
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	succeeded := 0
	for _, match := range matches {
		if match.Succeeded() {
			succeeded++
		}
	}

	_, err = tx.Exec(
		`INSERT INTO match_runs (id, created_at, total, succeeded, failed) VALUES (?, ?, ?, ?, ?)`,
		runID, createdAt, len(matches), succeeded, len(matches)-succeeded,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO match_results (run_id, position, isrc, release_year, track_name, artist_name, album_name, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer stmt.Close()

	for i, match := range matches {
		_, err = stmt.Exec(runID, i, match.ISRC, match.ReleaseYear, match.TrackName, match.ArtistName, match.AlbumName, match.Err)
		if err != nil {
			return fmt.Errorf("failed to insert result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// RecentRuns returns stored runs newest first, up to limit (all runs when limit <= 0).
func (r *MatchRepository) RecentRuns(limit int) ([]RunSummary, error) {
	query := `
		SELECT id, created_at, total, succeeded, failed
		FROM match_runs
		ORDER BY created_at DESC, id
	`

	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = r.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.Total, &run.Succeeded, &run.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRun retrieves a single run summary by ID.
func (r *MatchRepository) GetRun(runID string) (*RunSummary, error) {
	var run RunSummary
	err := r.db.QueryRow(
		`SELECT id, created_at, total, succeeded, failed FROM match_runs WHERE id = ?`,
		runID,
	).Scan(&run.ID, &run.CreatedAt, &run.Total, &run.Succeeded, &run.Failed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	return &run, nil
}

// RunMatches returns a run's results in their original input order.
func (r *MatchRepository) RunMatches(runID string) ([]models.TrackMatch, error) {
	rows, err := r.db.Query(`
		SELECT isrc, release_year, track_name, artist_name, album_name, error
		FROM match_results
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var matches []models.TrackMatch
	for rows.Next() {
		var match models.TrackMatch
		err := rows.Scan(&match.ISRC, &match.ReleaseYear, &match.TrackName, &match.ArtistName, &match.AlbumName, &match.Err)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		matches = append(matches, match)
	}

	return matches, rows.Err()
}

// DeleteRun removes a run and its results.
func (r *MatchRepository) DeleteRun(runID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM match_results WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to delete results: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM match_runs WHERE id = ?`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s not found", runID)
	}

	return tx.Commit()
}
