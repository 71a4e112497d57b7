package models

import (
	"fmt"
	"strings"
)

// LikeKind and ViewKind name the engagement counters an administrator may
// override directly.
const (
	LikeKind = "likes"
	ViewKind = "views"
)

// User is a registered account. Playlists keeps insertion order; LikedSongs
// holds song ids in the order they were liked, no duplicates.
type User struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	Password     string      `json:"password"`
	Email        string      `json:"email"`
	Theme        string      `json:"theme"`
	ProfileImage string      `json:"profileImage,omitempty"`
	Playlists    []*Playlist `json:"playlists"`
	LikedSongs   []int       `json:"likedSongs"`
}

// Validate checks the signup fields. Empty-after-trim fields are rejected
// before any uniqueness check runs.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("invalid username")
	}
	if strings.TrimSpace(u.Password) == "" {
		return fmt.Errorf("invalid password")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("invalid email")
	}
	return nil
}

// HasLiked reports whether songID is in the user's liked set.
func (u *User) HasLiked(songID int) bool {
	for _, id := range u.LikedSongs {
		if id == songID {
			return true
		}
	}
	return false
}

// Playlist references songs by id; it never owns them. Name is unique per
// owner, case-insensitively.
type Playlist struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Shared bool   `json:"shared"`
	Songs  []int  `json:"songs"`
}

// Contains reports whether songID is in the playlist's sequence.
func (p *Playlist) Contains(songID int) bool {
	for _, id := range p.Songs {
		if id == songID {
			return true
		}
	}
	return false
}

// Song is catalog metadata. Ids are assigned monotonically; the media file
// for a song lives at <id>.mp3 under the configured songs folder.
type Song struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist,omitempty"`
	Album       string `json:"album,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Duration    int    `json:"duration"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	Path        string `json:"path,omitempty"`
}

// Filename returns the media file name for the song id convention.
func (s *Song) Filename() string {
	return fmt.Sprintf("%d.mp3", s.ID)
}

// Engagement holds the per-song counters and the liked-by back reference.
//
// LikeCount tracks len(LikedBy) through Like/Unlike; the administrative
// counter override writes LikeCount directly and may leave the two out of
// sync until the next like or unlike.
type Engagement struct {
	SongID      int             `json:"songId"`
	LikeCount   int             `json:"likes"`
	ViewCount   int             `json:"views"`
	PlayedCount int             `json:"played"`
	LikedBy     map[string]bool `json:"likedBy,omitempty"`
}

// Profile is the document returned for get_profile. Password is never
// echoed back to clients.
type Profile struct {
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	Theme        string      `json:"theme"`
	ProfileImage string      `json:"profileImage,omitempty"`
	Playlists    []*Playlist `json:"playlists"`
	LikedSongs   []int       `json:"likedSongs"`
}

// ExploreSong is a catalog entry with the derived download URL and current
// counters, as returned by get_explore_songs.
type ExploreSong struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Genre string `json:"genre"`
	URL   string `json:"url"`
	Likes int    `json:"likes"`
	Views int    `json:"views"`
}
