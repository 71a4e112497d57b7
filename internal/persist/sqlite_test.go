package persist

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open() = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteStoreFromDB(db)
	if err != nil {
		t.Fatalf("NewSQLiteStoreFromDB() = %v", err)
	}
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := newSQLiteStore(t)

	want := sampleSnapshot()
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if len(got.Users) != 1 {
		t.Fatalf("len(Users) = %d, want 1", len(got.Users))
	}
	user := got.Users[0]
	if user.Username != "alice" || user.Email != "alice@example.com" || user.Theme != "dark" {
		t.Errorf("user = %+v", user)
	}
	if len(user.Playlists) != 1 {
		t.Fatalf("len(Playlists) = %d, want 1", len(user.Playlists))
	}
	playlist := user.Playlists[0]
	if playlist.Name != "Chill" || !playlist.Shared {
		t.Errorf("playlist = %+v", playlist)
	}
	if len(playlist.Songs) != 2 || playlist.Songs[0] != 1 || playlist.Songs[1] != 2 {
		t.Errorf("playlist songs = %v, want [1 2]", playlist.Songs)
	}
	if len(user.LikedSongs) != 1 || user.LikedSongs[0] != 1 {
		t.Errorf("liked songs = %v, want [1]", user.LikedSongs)
	}

	if len(got.Songs) != 2 {
		t.Fatalf("len(Songs) = %d, want 2", len(got.Songs))
	}
	if got.Songs[0].Artist != "Band" || got.Songs[1].Genre != "Rock" {
		t.Errorf("songs = %+v", got.Songs)
	}

	if len(got.Engagement) != 1 {
		t.Fatalf("len(Engagement) = %d, want 1", len(got.Engagement))
	}
	eng := got.Engagement[0]
	if eng.ViewCount != 4 || eng.PlayedCount != 2 || !eng.LikedBy["alice"] {
		t.Errorf("engagement = %+v", eng)
	}

	// the id floor is recomputed from the stored rows
	if got.NextSongID != 2 {
		t.Errorf("NextSongID = %d, want 2", got.NextSongID)
	}
}

func TestSQLiteStore_SaveReplaces(t *testing.T) {
	store := newSQLiteStore(t)

	if err := store.Save(sampleSnapshot()); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	if err := store.Save(&Snapshot{}); err != nil {
		t.Fatalf("second Save() = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if len(got.Users) != 0 || len(got.Songs) != 0 || len(got.Engagement) != 0 {
		t.Errorf("stale rows survived rewrite: %+v", got)
	}
}

func TestSQLiteStore_EmptyDatabase(t *testing.T) {
	store := newSQLiteStore(t)

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if len(got.Users) != 0 || got.NextSongID != 0 {
		t.Errorf("fresh database produced state: %+v", got)
	}
}
