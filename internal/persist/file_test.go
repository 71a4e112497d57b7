package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tunegrid/tunegrid/internal/models"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Users: []models.User{
			{
				ID:       "u-1",
				Username: "alice",
				Password: "pw1",
				Email:    "alice@example.com",
				Theme:    "dark",
				Playlists: []*models.Playlist{
					{ID: "p-1", Name: "Chill", Shared: true, Songs: []int{1, 2}},
				},
				LikedSongs: []int{1},
			},
		},
		Songs: []models.Song{
			{ID: 1, Title: "First", Artist: "Band", Duration: 180},
			{ID: 2, Title: "Second", Genre: "Rock", Duration: 200},
		},
		Engagement: []models.Engagement{
			{SongID: 1, LikeCount: 1, ViewCount: 4, PlayedCount: 2, LikedBy: map[string]bool{"alice": true}},
		},
		NextSongID: 2,
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path)

	want := sampleSnapshot()
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if len(got.Users) != 1 || got.Users[0].Username != "alice" {
		t.Errorf("Users = %+v", got.Users)
	}
	if len(got.Users[0].Playlists) != 1 || got.Users[0].Playlists[0].Songs[1] != 2 {
		t.Errorf("Playlists = %+v", got.Users[0].Playlists)
	}
	if len(got.Songs) != 2 || got.Songs[1].Genre != "Rock" {
		t.Errorf("Songs = %+v", got.Songs)
	}
	if len(got.Engagement) != 1 || !got.Engagement[0].LikedBy["alice"] {
		t.Errorf("Engagement = %+v", got.Engagement)
	}
	if got.NextSongID != 2 {
		t.Errorf("NextSongID = %d, want 2", got.NextSongID)
	}
}

func TestFileStore_MissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if len(snap.Users) != 0 || len(snap.Songs) != 0 {
		t.Errorf("missing file produced state: %+v", snap)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}

	if _, err := NewFileStore(path).Load(); err == nil {
		t.Error("Load() of corrupt file = nil, want error")
	}
}

func TestFileStore_SaveReplacesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path)

	if err := store.Save(sampleSnapshot()); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	if err := store.Save(&Snapshot{NextSongID: 9}); err != nil {
		t.Fatalf("second Save() = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if len(got.Users) != 0 || got.NextSongID != 9 {
		t.Errorf("stale state survived rewrite: %+v", got)
	}

	// no temp file left behind
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file still present: %v", err)
	}
}
