package catalog

import (
	"github.com/tunegrid/tunegrid/internal/models"
	"github.com/tunegrid/tunegrid/internal/persist"
)

// Export builds a snapshot of the full catalog state under the read lock.
func (s *Store) Export() *persist.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &persist.Snapshot{NextSongID: s.nextSong}

	for _, name := range s.userOrder {
		snap.Users = append(snap.Users, *copyUser(s.users[name]))
	}
	for _, id := range s.songOrder {
		snap.Songs = append(snap.Songs, *s.songs[id])
	}
	for _, id := range s.engagementOrder {
		snap.Engagement = append(snap.Engagement, copyEngagement(s.engagement[id]))
	}

	return snap
}

// Restore replaces the store's state with the snapshot contents. Called once
// at startup, before any connection is accepted.
func (s *Store) Restore(snap *persist.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[string]*models.User, len(snap.Users))
	s.userOrder = s.userOrder[:0]
	s.songs = make(map[int]*models.Song, len(snap.Songs))
	s.songOrder = s.songOrder[:0]
	s.engagement = make(map[int]*models.Engagement, len(snap.Engagement))
	s.engagementOrder = s.engagementOrder[:0]
	s.nextSong = snap.NextSongID

	for i := range snap.Users {
		user := copyUser(&snap.Users[i])
		if user.Playlists == nil {
			user.Playlists = []*models.Playlist{}
		}
		if user.LikedSongs == nil {
			user.LikedSongs = []int{}
		}
		s.users[user.Username] = user
		s.userOrder = append(s.userOrder, user.Username)
	}

	for i := range snap.Songs {
		song := snap.Songs[i]
		s.songs[song.ID] = &song
		s.songOrder = append(s.songOrder, song.ID)
		if song.ID > s.nextSong {
			s.nextSong = song.ID
		}
	}

	for i := range snap.Engagement {
		eng := copyEngagement(&snap.Engagement[i])
		if eng.LikedBy == nil {
			eng.LikedBy = make(map[string]bool)
		}
		s.engagement[eng.SongID] = &eng
		s.engagementOrder = append(s.engagementOrder, eng.SongID)
		if eng.SongID > s.nextSong {
			s.nextSong = eng.SongID
		}
	}
}
