package catalog

import (
	"strings"

	"github.com/tunegrid/tunegrid/internal/models"
	"github.com/tunegrid/tunegrid/internal/shared"
)

// findPlaylistLocked resolves a playlist reference for a user. The id is
// matched first, then the name case-insensitively; client and admin tooling
// disagree on which identifier they hold, so both must work.
func findPlaylistLocked(user *models.User, ref string) *models.Playlist {
	for _, p := range user.Playlists {
		if p.ID == ref {
			return p
		}
	}
	for _, p := range user.Playlists {
		if strings.EqualFold(p.Name, ref) {
			return p
		}
	}
	return nil
}

// CreatePlaylist adds a playlist for username. The name must be unique among
// the owner's playlists, compared case-insensitively.
func (s *Store) CreatePlaylist(username, name string, sharedFlag bool) (*models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return nil, shared.ErrUserNotFound
	}

	for _, p := range user.Playlists {
		if strings.EqualFold(p.Name, name) {
			return nil, shared.ErrDuplicateName
		}
	}

	playlist := &models.Playlist{
		ID:     shared.GenerateID(),
		Name:   name,
		Shared: sharedFlag,
		Songs:  []int{},
	}
	user.Playlists = append(user.Playlists, playlist)

	clone := *playlist
	clone.Songs = []int{}
	return &clone, nil
}

// RenamePlaylist changes a playlist's name. The check skips the playlist
// itself, so renaming to the current name (or a case variant of it) is
// allowed, but colliding with any other playlist of the same owner is not.
func (s *Store) RenamePlaylist(username, ref, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return shared.ErrUserNotFound
	}

	playlist := findPlaylistLocked(user, ref)
	if playlist == nil {
		return shared.ErrPlaylistNotFound
	}

	for _, p := range user.Playlists {
		if p != playlist && strings.EqualFold(p.Name, newName) {
			return shared.ErrDuplicateName
		}
	}

	playlist.Name = newName
	return nil
}

// DeletePlaylist removes the playlist; the referenced songs are untouched.
func (s *Store) DeletePlaylist(username, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return shared.ErrUserNotFound
	}

	playlist := findPlaylistLocked(user, ref)
	if playlist == nil {
		return shared.ErrPlaylistNotFound
	}

	for i, p := range user.Playlists {
		if p == playlist {
			user.Playlists = append(user.Playlists[:i], user.Playlists[i+1:]...)
			break
		}
	}
	return nil
}

// AddSongToPlaylist appends songID to the playlist. Duplicates are rejected.
// A song id with no catalog entry is accepted and reported as dangling;
// metadata and media delivery are decoupled, so the reference is advisory
// only, never a hard failure.
func (s *Store) AddSongToPlaylist(username, ref string, songID int) (dangling bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return false, shared.ErrUserNotFound
	}

	playlist := findPlaylistLocked(user, ref)
	if playlist == nil {
		return false, shared.ErrPlaylistNotFound
	}

	if playlist.Contains(songID) {
		return false, shared.ErrAlreadyPresent
	}

	playlist.Songs = append(playlist.Songs, songID)
	_, known := s.songs[songID]
	return !known, nil
}

// RemoveSongFromPlaylist removes songID from the playlist's sequence.
func (s *Store) RemoveSongFromPlaylist(username, ref string, songID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return shared.ErrUserNotFound
	}

	playlist := findPlaylistLocked(user, ref)
	if playlist == nil {
		return shared.ErrPlaylistNotFound
	}

	for i, id := range playlist.Songs {
		if id == songID {
			playlist.Songs = append(playlist.Songs[:i], playlist.Songs[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotPresent
}

// PlaylistsOf returns copies of username's playlists in creation order.
func (s *Store) PlaylistsOf(username string) ([]*models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return copyPlaylists(user.Playlists), nil
}

// Presence locates every playlist containing songID, as "owner:playlist".
type Presence struct {
	Owner    string
	Playlist string
}

// SongPresence scans all users' playlists for songID.
func (s *Store) SongPresence(songID int) []Presence {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found []Presence
	for _, name := range s.userOrder {
		for _, p := range s.users[name].Playlists {
			if p.Contains(songID) {
				found = append(found, Presence{Owner: name, Playlist: p.Name})
			}
		}
	}
	return found
}
