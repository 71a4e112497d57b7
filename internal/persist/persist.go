// Package persist implements the durable snapshot store. The whole catalog
// state is read once at startup and rewritten wholesale after each mutating
// action; the write is synchronous but best effort, so a failed save is
// reported without rolling back the in-memory mutation.
package persist

import (
	"github.com/tunegrid/tunegrid/internal/models"
)

// Snapshot is the full durable state of the catalog: accounts with their
// playlists and likes, song metadata, and engagement counters.
type Snapshot struct {
	Users      []models.User       `json:"users"`
	Songs      []models.Song       `json:"songs"`
	Engagement []models.Engagement `json:"engagement"`
	NextSongID int                 `json:"nextSongId"`
}

// Snapshotter loads state at startup and persists it after mutations.
type Snapshotter interface {
	Load() (*Snapshot, error)
	Save(*Snapshot) error
	Close() error
}
