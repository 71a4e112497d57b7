package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/tunegrid/tunegrid/internal/models"
	"github.com/tunegrid/tunegrid/internal/shared"
)

func seedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	if _, err := s.CreateUser("alice", "pw1", "alice@example.com"); err != nil {
		t.Fatalf("CreateUser(alice) = %v", err)
	}
	return s
}

func TestCreateUser(t *testing.T) {
	tc := []struct {
		name     string
		username string
		password string
		email    string
		wantErr  error
	}{
		{
			name:     "valid registration",
			username: "bob",
			password: "secret",
			email:    "bob@example.com",
		},
		{
			name:     "duplicate username",
			username: "alice",
			password: "other",
			email:    "other@example.com",
			wantErr:  shared.ErrNameTaken,
		},
		{
			name:     "duplicate email",
			username: "carol",
			password: "other",
			email:    "alice@example.com",
			wantErr:  shared.ErrEmailTaken,
		},
		{
			name:     "blank username",
			username: "   ",
			password: "secret",
			email:    "blank@example.com",
			wantErr:  shared.ErrInvalidField,
		},
		{
			name:     "blank password",
			username: "dave",
			password: "",
			email:    "dave@example.com",
			wantErr:  shared.ErrInvalidField,
		},
		{
			name:     "blank email",
			username: "erin",
			password: "secret",
			email:    "",
			wantErr:  shared.ErrInvalidField,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			s := seedStore(t)
			user, err := s.CreateUser(tt.username, tt.password, tt.email)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateUser() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateUser() = %v", err)
			}
			if user.ID == "" {
				t.Error("CreateUser() assigned no id")
			}
			if user.Theme != "light" {
				t.Errorf("default theme = %q, want light", user.Theme)
			}
		})
	}
}

func TestCreateUser_ValidationBeforeConflict(t *testing.T) {
	s := seedStore(t)

	// a blank password must fail validation even when the username would
	// also collide
	_, err := s.CreateUser("alice", "", "alice@example.com")
	if !errors.Is(err, shared.ErrInvalidField) {
		t.Errorf("CreateUser() error = %v, want %v", err, shared.ErrInvalidField)
	}
	if !strings.Contains(err.Error(), "invalid password") {
		t.Errorf("CreateUser() error = %q, want it to name the password field", err)
	}
}

func TestAuthenticate(t *testing.T) {
	s := seedStore(t)

	tc := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "correct credentials", username: "alice", password: "pw1"},
		{name: "wrong password", username: "alice", password: "nope", wantErr: shared.ErrWrongPassword},
		{name: "unknown user", username: "ghost", password: "pw1", wantErr: shared.ErrUserNotFound},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Authenticate(tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Authenticate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	s := seedStore(t)

	email := "new@example.com"
	theme := "dark"
	if err := s.UpdateProfile("alice", ProfileUpdate{Email: &email, Theme: &theme}); err != nil {
		t.Fatalf("UpdateProfile() = %v", err)
	}

	profile, err := s.Profile("alice")
	if err != nil {
		t.Fatalf("Profile() = %v", err)
	}
	if profile.Email != email {
		t.Errorf("email = %q, want %q", profile.Email, email)
	}
	if profile.Theme != theme {
		t.Errorf("theme = %q, want %q", profile.Theme, theme)
	}

	// the password changed but other fields kept their values
	password := "pw2"
	if err := s.UpdateProfile("alice", ProfileUpdate{Password: &password}); err != nil {
		t.Fatalf("UpdateProfile() = %v", err)
	}
	if err := s.Authenticate("alice", "pw2"); err != nil {
		t.Errorf("Authenticate() after password update = %v", err)
	}
	profile, _ = s.Profile("alice")
	if profile.Email != email {
		t.Errorf("email after partial update = %q, want %q", profile.Email, email)
	}

	if err := s.UpdateProfile("ghost", ProfileUpdate{Theme: &theme}); !errors.Is(err, shared.ErrUserNotFound) {
		t.Errorf("UpdateProfile(ghost) = %v, want %v", err, shared.ErrUserNotFound)
	}
}

func TestDeleteUser_DetachesLikes(t *testing.T) {
	s := seedStore(t)
	if _, err := s.CreateUser("bob", "pw2", "bob@example.com"); err != nil {
		t.Fatalf("CreateUser(bob) = %v", err)
	}

	songID := s.CreateSong(models.Song{Title: "First"})
	for _, name := range []string{"alice", "bob"} {
		if _, err := s.Like(name, songID); err != nil {
			t.Fatalf("Like(%s) = %v", name, err)
		}
	}

	if !s.DeleteUser("alice") {
		t.Fatal("DeleteUser(alice) = false")
	}
	if s.HasUser("alice") {
		t.Error("alice still registered after delete")
	}

	counters := s.Counters(songID)
	if counters.LikeCount != 1 {
		t.Errorf("LikeCount after delete = %d, want 1", counters.LikeCount)
	}
	if counters.LikedBy["alice"] {
		t.Error("alice still in liked-by set after delete")
	}

	if s.DeleteUser("alice") {
		t.Error("DeleteUser(alice) twice = true, want false")
	}
}

func TestUserSummaries_RegistrationOrder(t *testing.T) {
	s := seedStore(t)
	for _, name := range []string{"bob", "carol"} {
		if _, err := s.CreateUser(name, "pw", name+"@example.com"); err != nil {
			t.Fatalf("CreateUser(%s) = %v", name, err)
		}
	}

	summaries := s.UserSummaries()
	want := []string{"alice", "bob", "carol"}
	if len(summaries) != len(want) {
		t.Fatalf("len(summaries) = %d, want %d", len(summaries), len(want))
	}
	for i, name := range want {
		if summaries[i].Username != name {
			t.Errorf("summaries[%d] = %s, want %s", i, summaries[i].Username, name)
		}
	}
}

func TestCreateSong_IDSequence(t *testing.T) {
	s := NewStore()

	first := s.CreateSong(models.Song{Title: "First"})
	if first != 1 {
		t.Errorf("first id = %d, want 1", first)
	}

	// an explicit id advances the sequence past it
	explicit := s.CreateSong(models.Song{ID: 7, Title: "Explicit"})
	if explicit != 7 {
		t.Errorf("explicit id = %d, want 7", explicit)
	}
	next := s.CreateSong(models.Song{Title: "Next"})
	if next != 8 {
		t.Errorf("next id after explicit = %d, want 8", next)
	}

	song, ok := s.FindSong(7)
	if !ok || song.Title != "Explicit" {
		t.Errorf("FindSong(7) = %+v, %v", song, ok)
	}
	if song.Filename() != "7.mp3" {
		t.Errorf("Filename() = %q, want 7.mp3", song.Filename())
	}
}

func TestExploreSongs(t *testing.T) {
	s := seedStore(t)
	id := s.CreateSong(models.Song{Title: "First", Genre: ""})
	if _, err := s.Like("alice", id); err != nil {
		t.Fatalf("Like() = %v", err)
	}
	s.RecordView(id)
	s.RecordView(id)

	entries := s.ExploreSongs("http://10.0.2.2:8080")
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	entry := entries[0]
	if entry.URL != "http://10.0.2.2:8080/songs/1.mp3" {
		t.Errorf("URL = %q", entry.URL)
	}
	if entry.Genre != "Unknown" {
		t.Errorf("empty genre rendered as %q, want Unknown", entry.Genre)
	}
	if entry.Likes != 1 || entry.Views != 2 {
		t.Errorf("counters = likes=%d views=%d, want 1/2", entry.Likes, entry.Views)
	}
}

func TestProfile_ReturnsCopies(t *testing.T) {
	s := seedStore(t)
	if _, err := s.CreatePlaylist("alice", "Chill", false); err != nil {
		t.Fatalf("CreatePlaylist() = %v", err)
	}

	profile, err := s.Profile("alice")
	if err != nil {
		t.Fatalf("Profile() = %v", err)
	}
	profile.Playlists[0].Name = "Mutated"

	fresh, _ := s.Profile("alice")
	if fresh.Playlists[0].Name != "Chill" {
		t.Error("mutating a returned profile leaked into the store")
	}
}
