package dispatch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Request is the wire envelope: one JSON object per line, whose payloadJson
// field is itself a serialized JSON object specific to the action.
type Request struct {
	Action      string `json:"action"`
	PayloadJSON string `json:"payloadJson"`
}

// Each action decodes its payload into a tagged struct exactly once at this
// boundary; handlers never touch raw JSON maps.

type signupPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type songPayload struct {
	Username string `json:"username"`
	SongID   int    `json:"songId"`
}

type userPayload struct {
	Username string `json:"username"`
}

type themePayload struct {
	Username string `json:"username"`
	Theme    string `json:"theme"`
}

type updateProfilePayload struct {
	Username     string  `json:"username"`
	Email        *string `json:"email"`
	Password     *string `json:"password"`
	Theme        *string `json:"theme"`
	ProfileImage *string `json:"profileImage"`
}

type createPlaylistPayload struct {
	Username     string `json:"username"`
	PlaylistName string `json:"playlistName"`
	Shared       bool   `json:"shared"`
}

// playlistRefPayload addresses a playlist by id or by name; the id wins when
// both are present.
type playlistRefPayload struct {
	Username     string `json:"username"`
	PlaylistID   string `json:"playlistId"`
	PlaylistName string `json:"playlistName"`
	NewName      string `json:"newName"`
	SongID       int    `json:"songId"`
}

// Ref returns the playlist reference to resolve.
func (p *playlistRefPayload) Ref() string {
	if p.PlaylistID != "" {
		return p.PlaylistID
	}
	return p.PlaylistName
}

type playbackPayload struct {
	Username string `json:"username"`
	SongID   int    `json:"songId"`
	Seconds  int    `json:"seconds"`
}

func decodePayload(raw string, v any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}
