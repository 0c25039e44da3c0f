package ui

import (
	"fmt"

	"github.com/avidcyclist/spotify-isrc-matcher/internal/models"
	"github.com/charmbracelet/bubbles/list"
)

var _ list.Item = matchItem{}

// matchItem wraps [models.TrackMatch] to implement [list.Item].
type matchItem struct {
	match models.TrackMatch
}

func (i matchItem) FilterValue() string { return i.match.ISRC }

func (i matchItem) Title() string {
	if !i.match.Succeeded() {
		return fmt.Sprintf("✗ %s", i.match.ISRC)
	}
	return fmt.Sprintf("✓ %s — %s", i.match.ISRC, i.match.TrackName)
}

func (i matchItem) Description() string {
	if !i.match.Succeeded() {
		return i.match.Err
	}

	desc := i.match.ArtistName
	if i.match.AlbumName != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.match.AlbumName)
	}
	if i.match.ReleaseYear != "" {
		desc = fmt.Sprintf("%s (%s)", desc, i.match.ReleaseYear)
	}
	return desc
}
