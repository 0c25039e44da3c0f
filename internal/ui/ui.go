package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/avidcyclist/spotify-isrc-matcher/internal/formatter"
	"github.com/avidcyclist/spotify-isrc-matcher/internal/tasks"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ProcessingView ViewState = iota
	ResultListView
	SummaryView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.MatchEngine
	isrcs        []string
	delay        time.Duration
	width        int
	height       int
	resultList   list.Model
	progressChan chan tasks.ProgressUpdate
	done         chan batchCompleteMsg
	progress     tasks.ProgressUpdate
	result       *tasks.MatchRunResult
	report       *formatter.Report
	err          error
	help         help.Model
	keys         keyMap
}

type progressUpdateMsg tasks.ProgressUpdate

type batchCompleteMsg struct {
	result *tasks.MatchRunResult
	err    error
}

// NewModel creates a new TUI model for one batch of identifiers.
func NewModel(ctx context.Context, engine *tasks.MatchEngine, isrcs []string, delay time.Duration) *Model {
	return &Model{
		ctx:    ctx,
		view:   ProcessingView,
		engine: engine,
		isrcs:  isrcs,
		delay:  delay,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Result returns the completed run, or nil when the user quit early.
func (m *Model) Result() (*tasks.MatchRunResult, error) {
	return m.result, m.err
}

// Init starts the batch immediately.
func (m *Model) Init() tea.Cmd {
	return m.startBatch()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.resultList.Width() == 0 {
			m.resultList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ProcessingView:
			return m.handleProcessingKeys(msg)
		case ResultListView:
			return m.handleResultListKeys(msg)
		case SummaryView:
			return m.handleSummaryKeys(msg)
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case batchCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.progressChan = nil

		if msg.err == nil && msg.result != nil {
			m.report = formatter.BuildReport(msg.result.Matches)
			items := make([]list.Item, len(msg.result.Matches))
			for i, match := range msg.result.Matches {
				items[i] = matchItem{match: match}
			}
			m.resultList = list.New(items, list.NewDefaultDelegate(), 0, 0)
			m.resultList.Title = fmt.Sprintf("Match Results (%d tracks)", msg.result.Total)
			m.resultList.SetSize(m.width-4, m.height-8)
		}

		m.view = ResultListView
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ProcessingView:
		return m.renderProcessing()
	case ResultListView:
		return m.renderResultList()
	case SummaryView:
		return m.renderSummary()
	default:
		return ""
	}
}

func (m *Model) handleProcessingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleResultListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s":
		m.view = SummaryView
		return m, nil
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) handleSummaryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "s":
		m.view = ResultListView
		return m, nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != ResultListView {
		return m, nil
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) startBatch() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	done := make(chan batchCompleteMsg, 1)

	go func(progress chan tasks.ProgressUpdate) {
		result, err := m.engine.Run(m.ctx, progress, m.isrcs, m.delay)
		done <- batchCompleteMsg{result: result, err: err}
		close(progress)
	}(m.progressChan)

	m.done = done
	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return nil
		}

		update, ok := <-m.progressChan
		if !ok {
			return <-m.done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderProcessing() string {
	title := styles.title.Render("Matching ISRCs")

	var phase string
	switch m.progress.Phase {
	case tasks.Authenticate:
		phase = "Authenticating with Spotify..."
	case tasks.LookupTrack, tasks.TrackMatched, tasks.TrackFailed:
		phase = fmt.Sprintf("Looking up tracks (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Starting..."
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title, phase, m.progress.Message, helpView)
}

func (m *Model) renderResultList() string {
	helpKeys := []key.Binding{m.keys.summary, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.resultList.View(), helpView)
}

func (m *Model) renderSummary() string {
	if m.report == nil {
		return styles.err.Render("No summary available\n\nPress q to quit")
	}

	title := styles.ok.Render("✓ Batch Complete")
	summary := m.report.Summary
	info := fmt.Sprintf(
		"\nTotal: %d\nSucceeded: %d\nFailed: %d\nSuccess rate: %s",
		summary.Total, summary.Succeeded, summary.Failed,
		formatter.FormatSuccessRate(summary.SuccessRate),
	)

	var errCounts string
	if len(summary.CommonErrors) > 0 {
		errCounts = "\n\n" + styles.warn.Render("Errors:")
		for _, ec := range summary.CommonErrors {
			errCounts += fmt.Sprintf("\n  %d× %s", ec.Count, ec.Message)
		}
	}

	var artists string
	if len(m.report.TopArtists) > 0 {
		artists = "\n\n" + styles.title.Render("Top Artists")
		limit := len(m.report.TopArtists)
		if limit > 5 {
			limit = 5
		}
		for _, ac := range m.report.TopArtists[:limit] {
			artists += fmt.Sprintf("\n  %d× %s", ac.Count, ac.Artist)
		}
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s%s%s\n\n%s", title, info, errCounts, artists, helpView)
}
