package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/tunegrid/tunegrid/internal/catalog"
	"github.com/tunegrid/tunegrid/internal/models"
)

var (
	_ list.Item = userItem{}
	_ list.Item = playlistItem{}
	_ list.Item = songItem{}
)

// userItem wraps [catalog.UserSummary] to implement [list.Item].
type userItem struct {
	summary catalog.UserSummary
}

func (i userItem) FilterValue() string { return i.summary.Username }
func (i userItem) Title() string       { return i.summary.Username }
func (i userItem) Description() string {
	return fmt.Sprintf("%s • %d playlists • %d liked", i.summary.Email, i.summary.Playlists, i.summary.LikedSongs)
}

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist *models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	return fmt.Sprintf("%d songs • %s", len(i.playlist.Songs), visibility(i.playlist.Shared))
}

func visibility(shared bool) string {
	if shared {
		return "shared"
	}
	return "private"
}

// songItem wraps a resolved playlist entry to implement [list.Item]. A
// dangling reference still shows up, flagged instead of hidden.
type songItem struct {
	id       int
	song     models.Song
	resolved bool
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string {
	if !i.resolved {
		return fmt.Sprintf("song %d", i.id)
	}
	return i.song.Title
}
func (i songItem) Description() string {
	if !i.resolved {
		return "missing from catalog"
	}
	desc := i.song.Artist
	if desc == "" {
		desc = "unknown artist"
	}
	if i.song.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.Album)
	}
	return desc
}
