package main

import (
	"context"
	"fmt"
	"time"

	"github.com/avidcyclist/spotify-isrc-matcher/internal/formatter"
	"github.com/avidcyclist/spotify-isrc-matcher/internal/loader"
	"github.com/avidcyclist/spotify-isrc-matcher/internal/shared"
	"github.com/avidcyclist/spotify-isrc-matcher/internal/tasks"
	"github.com/urfave/cli/v3"
)

// resolveInput builds the identifier list from --isrc flags or the --input file.
func (r *Runner) resolveInput(cmd *cli.Command) ([]string, error) {
	if isrcs := cmd.StringSlice("isrc"); len(isrcs) > 0 {
		return isrcs, nil
	}

	path := cmd.String("input")
	if path == "" {
		return nil, fmt.Errorf("%w: provide --input or at least one --isrc", shared.ErrMissingArgument)
	}

	return loader.Read(path, cmd.String("column"), int(cmd.Int("header-row")))
}

// resolveDelay picks the inter-call delay from the flag, falling back to config.
func (r *Runner) resolveDelay(cmd *cli.Command) time.Duration {
	if ms := cmd.Int("delay"); ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return time.Duration(r.config.Batch.DelayMS) * time.Millisecond
}

// Match runs a batch of ISRC lookups and reports the results.
func (r *Runner) Match(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: set credentials.spotify in config.toml", shared.ErrMissingCredentials)
	}

	isrcs, err := r.resolveInput(cmd)
	if err != nil {
		return err
	}
	if len(isrcs) == 0 {
		return fmt.Errorf("%w: input contained no ISRC codes", shared.ErrInvalidInput)
	}

	delay := r.resolveDelay(cmd)
	r.logger.Info("starting batch", "isrcs", len(isrcs), "delay", delay)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			switch update.Phase {
			case tasks.Authenticate:
				r.writePlain("🔑 %s\n", update.Message)
			case tasks.LookupTrack:
				r.writePlain("🔍 [%d/%d] %s\n", update.Step, update.Total, update.Message)
			case tasks.TrackMatched:
				r.writePlain("   ✓ %s\n", update.Message)
			case tasks.TrackFailed:
				r.writePlain("   ✗ %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Run(ctx, progressCh, isrcs, delay)
	close(progressCh)
	<-drained

	if err != nil {
		return err
	}

	report := formatter.BuildReport(result.Matches)

	if cmd.Bool("save") {
		repo, closeDB, err := r.openRepository()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := repo.SaveRun(result.RunID, time.Now(), result.Matches); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		r.logger.Info("run saved", "id", result.RunID)
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, cmd.Bool("pretty"))
	}

	r.printReport(report, result.Elapsed)

	return r.exportReport(cmd, report)
}

// exportReport writes report files when --output is set.
func (r *Runner) exportReport(cmd *cli.Command, report *formatter.Report) error {
	basePath := cmd.String("output")
	if basePath == "" {
		basePath = r.config.Export.Output
	}
	if basePath == "" {
		return nil
	}

	format := cmd.String("format")
	if format == "" {
		format = r.config.Export.Format
	}

	paths, err := formatter.WriteReport(report, basePath, format)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	for _, path := range paths {
		r.writePlain("Report written to %s\n", path)
	}

	return nil
}

// printReport renders the result table and summary as plain text.
func (r *Runner) printReport(report *formatter.Report, elapsed time.Duration) {
	r.writePlainln("")
	r.writePlainHeader("Match Results")

	for _, row := range report.Rows {
		if row.Status == "Success" {
			r.writePlain("✓ %s  %s — %s (%s, %s)\n", row.ISRC, row.ArtistName, row.TrackName, row.AlbumName, row.ReleaseYear)
		} else {
			r.writePlain("✗ %s  %s\n", row.ISRC, row.Error)
		}
	}

	summary := report.Summary
	r.writePlainln("")
	r.writePlainHeader("Summary")
	r.writePlain("Total: %d\n", summary.Total)
	r.writePlain("Succeeded: %d\n", summary.Succeeded)
	r.writePlain("Failed: %d\n", summary.Failed)
	r.writePlain("Success rate: %s\n", formatter.FormatSuccessRate(summary.SuccessRate))
	if elapsed > 0 {
		r.writePlain("Elapsed: %s\n", elapsed.Round(time.Millisecond))
	}

	if len(summary.CommonErrors) > 0 {
		r.writePlain("\nErrors:\n")
		for _, ec := range summary.CommonErrors {
			r.writePlain("  %d× %s\n", ec.Count, ec.Message)
		}
	}

	if len(report.Years) > 0 {
		r.writePlain("\nRelease years:\n")
		for _, yc := range report.Years {
			r.writePlain("  %s: %d\n", yc.Year, yc.Count)
		}
	}

	if len(report.TopArtists) > 0 {
		r.writePlain("\nTop artists:\n")
		for i, ac := range report.TopArtists {
			r.writePlain("  %d. %s (%d)\n", i+1, ac.Artist, ac.Count)
		}
	}
}
