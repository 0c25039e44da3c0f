package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avidcyclist/spotify-isrc-matcher/internal/models"
	"github.com/avidcyclist/spotify-isrc-matcher/internal/shared"
	tu "github.com/avidcyclist/spotify-isrc-matcher/internal/testing"
)

func testRunner(catalog *tu.MockCatalog) (*Runner, *bytes.Buffer) {
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Catalog: catalog,
		Output:  output,
	})
	return runner, output
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			catalog := &tu.MockCatalog{}

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Logger:  logger,
				Output:  output,
				Catalog: catalog,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be constructed")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			runner, output := testRunner(&tu.MockCatalog{})

			data := map[string]string{"key": "value"}
			if err := runner.writeJSON(data, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			runner, output := testRunner(&tu.MockCatalog{})

			data := map[string]string{"key": "value"}
			if err := runner.writeJSON(data, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if !strings.Contains(output.String(), `{"key":"value"}`) {
				t.Errorf("expected compact JSON, got %s", output.String())
			}
		})

		t.Run("with failing writer returns error", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		runner, output := testRunner(&tu.MockCatalog{})

		if err := runner.writePlain("count: %d\n", 3); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if output.String() != "count: 3\n" {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}

func TestMatchCommand(t *testing.T) {
	t.Run("With Inline ISRCs", func(t *testing.T) {
		catalog := &tu.MockCatalog{
			LookupFunc: func(isrc string) models.TrackMatch {
				if isrc == "BAD" {
					return models.Failure(isrc, "Track not found")
				}
				return models.TrackMatch{ISRC: isrc, ReleaseYear: "2019", TrackName: "bad guy", ArtistName: "Billie Eilish", AlbumName: "WHEN WE ALL FALL ASLEEP"}
			},
		}
		runner, output := testRunner(catalog)

		app := matchCommand(runner)
		err := app.Run(context.Background(), []string{"match", "--isrc", "USUG11904257", "--isrc", "BAD", "--delay", "0"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(catalog.LookedUp) != 2 {
			t.Fatalf("expected 2 lookups, got %d", len(catalog.LookedUp))
		}

		result := output.String()
		for _, want := range []string{"bad guy", "Track not found", "Success rate: 50.0%", "Billie Eilish"} {
			if !strings.Contains(result, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, result)
			}
		}
	})

	t.Run("With CSV Input And Report Export", func(t *testing.T) {
		dir := t.TempDir()
		inputPath := filepath.Join(dir, "tracks.csv")
		if err := os.WriteFile(inputPath, []byte("Title,ISRC\nSong,USUG11904257\n"), 0644); err != nil {
			t.Fatalf("failed to write input: %v", err)
		}

		runner, output := testRunner(&tu.MockCatalog{})
		basePath := filepath.Join(dir, "report")

		app := matchCommand(runner)
		err := app.Run(context.Background(), []string{
			"match", "--input", inputPath, "--delay", "0",
			"--format", "csv", "--output", basePath,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, basePath+"_results.csv")
		tu.AssertFileExists(t, basePath+"_summary.json")

		if !strings.Contains(output.String(), "Report written to") {
			t.Errorf("expected export notice, got:\n%s", output.String())
		}
	})

	t.Run("With JSON Output", func(t *testing.T) {
		runner, output := testRunner(&tu.MockCatalog{})

		app := matchCommand(runner)
		err := app.Run(context.Background(), []string{"match", "--isrc", "USUG11904257", "--delay", "0", "--json"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, `"success_rate": 100`) {
			t.Errorf("expected report JSON, got:\n%s", result)
		}
	})

	t.Run("With Save Flag", func(t *testing.T) {
		runner, _ := testRunner(&tu.MockCatalog{})
		runner.config.Database.Path = filepath.Join(t.TempDir(), "history.db")

		app := matchCommand(runner)
		err := app.Run(context.Background(), []string{"match", "--isrc", "USUG11904257", "--delay", "0", "--save"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		repo, closeDB, err := runner.openRepository()
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer closeDB()

		runs, err := repo.RecentRuns(0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 || runs[0].Total != 1 {
			t.Errorf("expected one saved run, got %+v", runs)
		}
	})

	t.Run("Without Catalog", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

		app := matchCommand(runner)
		err := app.Run(context.Background(), []string{"match", "--isrc", "USUG11904257"})
		if err == nil {
			t.Error("expected error without catalog credentials")
		}
	})

	t.Run("Without Input", func(t *testing.T) {
		runner, _ := testRunner(&tu.MockCatalog{})

		app := matchCommand(runner)
		err := app.Run(context.Background(), []string{"match"})
		if err == nil {
			t.Error("expected error for missing input")
		}
	})
}

func TestHistoryCommand(t *testing.T) {
	t.Run("List And Show", func(t *testing.T) {
		runner, output := testRunner(&tu.MockCatalog{})
		runner.config.Database.Path = filepath.Join(t.TempDir(), "history.db")

		match := matchCommand(runner)
		err := match.Run(context.Background(), []string{"match", "--isrc", "USUG11904257", "--delay", "0", "--save"})
		if err != nil {
			t.Fatalf("failed to run match: %v", err)
		}

		output.Reset()
		history := historyCommand(runner)
		if err := history.Run(context.Background(), []string{"history", "list"}); err != nil {
			t.Fatalf("failed to list history: %v", err)
		}

		listed := output.String()
		if !strings.Contains(listed, "total=1 succeeded=1 failed=0") {
			t.Errorf("expected run counts in listing, got:\n%s", listed)
		}

		repo, closeDB, err := runner.openRepository()
		if err != nil {
			t.Fatalf("failed to open repository: %v", err)
		}
		runs, err := repo.RecentRuns(1)
		closeDB()
		if err != nil || len(runs) != 1 {
			t.Fatalf("expected one run, got %v (%v)", runs, err)
		}

		output.Reset()
		if err := history.Run(context.Background(), []string{"history", "show", "--id", runs[0].ID}); err != nil {
			t.Fatalf("failed to show run: %v", err)
		}

		shown := output.String()
		for _, want := range []string{runs[0].ID, "Mock Track", "Success rate: 100.0%"} {
			if !strings.Contains(shown, want) {
				t.Errorf("expected %q in output, got:\n%s", want, shown)
			}
		}
	})

	t.Run("Show Unknown Run", func(t *testing.T) {
		runner, _ := testRunner(&tu.MockCatalog{})
		runner.config.Database.Path = filepath.Join(t.TempDir(), "history.db")

		history := historyCommand(runner)
		err := history.Run(context.Background(), []string{"history", "show", "--id", "nope"})
		if err == nil {
			t.Error("expected error for unknown run")
		}
	})
}

func TestSetupCommand(t *testing.T) {
	t.Run("Config Creates File", func(t *testing.T) {
		runner, output := testRunner(&tu.MockCatalog{})
		configPath := filepath.Join(t.TempDir(), "config.toml")

		setup := setupCommand(runner)
		err := setup.Run(context.Background(), []string{"setup", "config", "--config", configPath})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, configPath)
		if !strings.Contains(output.String(), "Config file created") {
			t.Errorf("expected creation notice, got:\n%s", output.String())
		}
	})

	t.Run("Config Preserves Existing File", func(t *testing.T) {
		runner, output := testRunner(&tu.MockCatalog{})
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("# custom\n"), 0644); err != nil {
			t.Fatalf("failed to seed config: %v", err)
		}

		setup := setupCommand(runner)
		err := setup.Run(context.Background(), []string{"setup", "config", "--config", configPath})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		data, err := os.ReadFile(configPath)
		if err != nil {
			t.Fatalf("failed to read config: %v", err)
		}
		if string(data) != "# custom\n" {
			t.Error("expected existing config to be left alone")
		}
		if !strings.Contains(output.String(), "already exists") {
			t.Errorf("expected existing-file notice, got:\n%s", output.String())
		}
	})

	t.Run("Database Runs Migrations", func(t *testing.T) {
		runner, _ := testRunner(&tu.MockCatalog{})
		dbPath := filepath.Join(t.TempDir(), "history.db")
		runner.config.Database.Path = dbPath

		setup := setupCommand(runner)
		err := setup.Run(context.Background(), []string{"setup", "database", "--config", filepath.Join(t.TempDir(), "missing.toml")})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, dbPath)
	})
}
