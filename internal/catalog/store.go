package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tunegrid/tunegrid/internal/models"
	"github.com/tunegrid/tunegrid/internal/shared"
)

// Store is the process-wide catalog state. All collections are guarded by
// one mutex; mutating operations take the write lock for their whole
// read-modify-write sequence.
type Store struct {
	mu sync.RWMutex

	users     map[string]*models.User
	userOrder []string

	songs     map[int]*models.Song
	songOrder []int
	nextSong  int

	engagement      map[int]*models.Engagement
	engagementOrder []int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]*models.User),
		songs:      make(map[int]*models.Song),
		engagement: make(map[int]*models.Engagement),
	}
}

// CreateUser registers a new account. Field validation runs before the
// uniqueness checks; no two concurrent calls can both succeed for the same
// username.
func (s *Store) CreateUser(username, password, email string) (*models.User, error) {
	user := &models.User{
		ID:         shared.GenerateID(),
		Username:   strings.TrimSpace(username),
		Password:   password,
		Email:      strings.TrimSpace(email),
		Theme:      "light",
		Playlists:  []*models.Playlist{},
		LikedSongs: []int{},
	}

	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidField, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return nil, shared.ErrNameTaken
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, shared.ErrEmailTaken
		}
	}

	s.users[user.Username] = user
	s.userOrder = append(s.userOrder, user.Username)

	return copyUser(user), nil
}

// Authenticate checks the stored credential for username.
func (s *Store) Authenticate(username, password string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return shared.ErrUserNotFound
	}
	if user.Password != password {
		return shared.ErrWrongPassword
	}
	return nil
}

// HasUser reports whether username is registered.
func (s *Store) HasUser(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[username]
	return ok
}

// Profile assembles the client-facing profile document for username.
func (s *Store) Profile(username string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, shared.ErrUserNotFound
	}

	return &models.Profile{
		Username:     user.Username,
		Email:        user.Email,
		Theme:        user.Theme,
		ProfileImage: user.ProfileImage,
		Playlists:    copyPlaylists(user.Playlists),
		LikedSongs:   append([]int{}, user.LikedSongs...),
	}, nil
}

// ProfileUpdate carries the optional profile fields an update may set.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Email        *string
	Password     *string
	Theme        *string
	ProfileImage *string
}

// UpdateProfile applies the non-nil fields of update to username's account.
func (s *Store) UpdateProfile(username string, update ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return shared.ErrUserNotFound
	}

	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Password != nil {
		user.Password = *update.Password
	}
	if update.Theme != nil {
		user.Theme = *update.Theme
	}
	if update.ProfileImage != nil {
		user.ProfileImage = *update.ProfileImage
	}

	return nil
}

// UpdateTheme sets the account theme.
func (s *Store) UpdateTheme(username, theme string) error {
	return s.UpdateProfile(username, ProfileUpdate{Theme: &theme})
}

// DeleteUser removes the account and cascades: owned playlists go away and
// the user's likes are detached from every song's liked-by set. The caller
// is responsible for tearing down the playback session.
func (s *Store) DeleteUser(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return false
	}

	for _, songID := range user.LikedSongs {
		if eng, ok := s.engagement[songID]; ok && eng.LikedBy[username] {
			delete(eng.LikedBy, username)
			eng.LikeCount = len(eng.LikedBy)
		}
	}

	delete(s.users, username)
	for i, name := range s.userOrder {
		if name == username {
			s.userOrder = append(s.userOrder[:i], s.userOrder[i+1:]...)
			break
		}
	}

	return true
}

// UserSummary is the admin listing row for an account.
type UserSummary struct {
	Username   string
	Email      string
	Theme      string
	Playlists  int
	LikedSongs int
}

// UserSummaries lists accounts in registration order.
func (s *Store) UserSummaries() []UserSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]UserSummary, 0, len(s.userOrder))
	for _, name := range s.userOrder {
		user := s.users[name]
		summaries = append(summaries, UserSummary{
			Username:   user.Username,
			Email:      user.Email,
			Theme:      user.Theme,
			Playlists:  len(user.Playlists),
			LikedSongs: len(user.LikedSongs),
		})
	}
	return summaries
}

// CreateSong registers catalog metadata and returns the assigned id. A zero
// meta.ID gets the next monotonic id; ingestion may pass an explicit id,
// which also advances the sequence past it.
func (s *Store) CreateSong(meta models.Song) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createSongLocked(meta)
}

func (s *Store) createSongLocked(meta models.Song) int {
	if meta.ID == 0 {
		s.nextSong++
		meta.ID = s.nextSong
	} else if meta.ID > s.nextSong {
		s.nextSong = meta.ID
	}

	if _, ok := s.songs[meta.ID]; !ok {
		s.songOrder = append(s.songOrder, meta.ID)
	}
	song := meta
	s.songs[meta.ID] = &song
	s.ensureEngagementLocked(meta.ID)

	return meta.ID
}

// FindSong returns a copy of the song metadata for id.
func (s *Store) FindSong(id int) (models.Song, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	song, ok := s.songs[id]
	if !ok {
		return models.Song{}, false
	}
	return *song, true
}

// Songs lists catalog metadata in ingestion order.
func (s *Store) Songs() []models.Song {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Song, 0, len(s.songOrder))
	for _, id := range s.songOrder {
		out = append(out, *s.songs[id])
	}
	return out
}

// ExploreSongs lists catalog entries with derived download URLs and current
// counters. baseURL is the public file-server root, e.g. "http://10.0.2.2:8080".
func (s *Store) ExploreSongs(baseURL string) []models.ExploreSong {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ExploreSong, 0, len(s.songOrder))
	for _, id := range s.songOrder {
		song := s.songs[id]
		genre := song.Genre
		if genre == "" {
			genre = "Unknown"
		}
		entry := models.ExploreSong{
			ID:    song.ID,
			Title: song.Title,
			Genre: genre,
			URL:   fmt.Sprintf("%s/songs/%s", baseURL, song.Filename()),
		}
		if eng, ok := s.engagement[id]; ok {
			entry.Likes = eng.LikeCount
			entry.Views = eng.ViewCount
		}
		out = append(out, entry)
	}
	return out
}

func copyUser(u *models.User) *models.User {
	clone := *u
	clone.Playlists = copyPlaylists(u.Playlists)
	clone.LikedSongs = append([]int{}, u.LikedSongs...)
	return &clone
}

func copyPlaylists(playlists []*models.Playlist) []*models.Playlist {
	out := make([]*models.Playlist, 0, len(playlists))
	for _, p := range playlists {
		clone := *p
		clone.Songs = append([]int{}, p.Songs...)
		out = append(out, &clone)
	}
	return out
}
