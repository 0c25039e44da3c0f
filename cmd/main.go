package main

import (
	"context"
	"os"
	"time"

	"github.com/avidcyclist/spotify-isrc-matcher/internal/services"
	"github.com/avidcyclist/spotify-isrc-matcher/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var catalog services.Catalog
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		timeout := time.Duration(config.Batch.TimeoutSeconds) * time.Second
		if svc, err := services.NewSpotifyService(map[string]string{
			"client_id":     config.Credentials.Spotify.ClientID,
			"client_secret": config.Credentials.Spotify.ClientSecret,
		}, timeout); err == nil {
			catalog = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "isrcmatch",
		Usage:    "Batch-match ISRC codes against the Spotify catalog",
		Version:  "0.2.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
