// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a three-view workflow for a batch match:
//  1. [ProcessingView] : Monitor real-time lookup progress
//  2. [ResultListView] : Browse per-track results after the batch
//  3. [SummaryView] : Display success metrics, error counts, and top artists
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Progress updates flow through a channel from the MatchEngine, providing
// non-blocking status reporting while lookups run.
//
// Keyboard navigation uses vim-style bindings (j/k, s, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
