package main

import (
	"context"

	"github.com/avidcyclist/spotify-isrc-matcher/internal/formatter"
	"github.com/urfave/cli/v3"
)

// HistoryList prints saved runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.openRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	runs, err := repo.RecentRuns(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, cmd.Bool("pretty"))
	}

	if len(runs) == 0 {
		r.writePlain("No saved runs\n")
		return nil
	}

	r.writePlainHeader("Saved Runs")
	for _, run := range runs {
		r.writePlain("%s  %s  total=%d succeeded=%d failed=%d\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Total, run.Succeeded, run.Failed)
	}

	return nil
}

// HistoryShow prints one run's results and can re-export its report.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.openRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	runID := cmd.String("id")

	run, err := repo.GetRun(runID)
	if err != nil {
		return err
	}

	matches, err := repo.RunMatches(runID)
	if err != nil {
		return err
	}

	report := formatter.BuildReport(matches)

	if cmd.Bool("json") {
		return r.writeJSON(report, cmd.Bool("pretty"))
	}

	r.writePlain("Run %s from %s\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"))
	r.printReport(report, 0)

	return r.exportReport(cmd, report)
}
