package main

import (
	"context"
	"fmt"

	"github.com/avidcyclist/spotify-isrc-matcher/internal/shared"
	"github.com/avidcyclist/spotify-isrc-matcher/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// TUI runs a batch interactively and opens the result browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
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

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/isrcmatch-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.engine, isrcs, r.resolveDelay(cmd))
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if _, err := model.Result(); err != nil {
		return err
	}

	return nil
}
