// Package dispatch routes decoded requests to the catalog, playlist,
// engagement and playback components, and renders responses.
//
// Every domain failure is recovered here and turned into a response string;
// nothing a client sends can terminate its connection apart from transport
// faults. A response that reports failure never rolls back a mutation that
// already committed, and the durable snapshot is written after a successful
// mutation, before the response is returned.
package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tunegrid/tunegrid/internal/catalog"
	"github.com/tunegrid/tunegrid/internal/persist"
	"github.com/tunegrid/tunegrid/internal/player"
	"github.com/tunegrid/tunegrid/internal/shared"
)

// Dispatcher owns the shared state handed to it at construction; there are
// no package-level singletons, so tests get a fresh world each.
type Dispatcher struct {
	store     *catalog.Store
	sessions  *player.Table
	snapshots persist.Snapshotter
	logger    *log.Logger
	baseURL   string
}

// Opts configures a Dispatcher.
type Opts struct {
	Store     *catalog.Store
	Sessions  *player.Table
	Snapshots persist.Snapshotter
	Logger    *log.Logger
	BaseURL   string // public file-server root for derived download URLs
}

// New creates a Dispatcher.
func New(opts Opts) *Dispatcher {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Sessions == nil {
		opts.Sessions = player.NewTable()
	}
	return &Dispatcher{
		store:     opts.Store,
		sessions:  opts.Sessions,
		snapshots: opts.Snapshots,
		logger:    opts.Logger,
		baseURL:   opts.BaseURL,
	}
}

// Handle processes one request line and returns the response body, without
// the trailing newline.
func (d *Dispatcher) Handle(line string) string {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "{") {
		return "Invalid JSON format"
	}

	var req Request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		return "Invalid JSON format"
	}

	response, mutated := d.route(req)
	if mutated {
		d.sync()
	}
	return response
}

func (d *Dispatcher) route(req Request) (response string, mutated bool) {
	switch req.Action {
	case "signup":
		return d.signup(req.PayloadJSON)
	case "login":
		return d.login(req.PayloadJSON)
	case "like_song":
		return d.likeSong(req.PayloadJSON)
	case "unlike_song":
		return d.unlikeSong(req.PayloadJSON)
	case "increment_view":
		return d.incrementView(req.PayloadJSON)
	case "get_profile":
		return d.getProfile(req.PayloadJSON)
	case "update_theme":
		return d.updateTheme(req.PayloadJSON)
	case "update_profile":
		return d.updateProfile(req.PayloadJSON)
	case "delete_account":
		return d.deleteAccount(req.PayloadJSON)
	case "create_playlist":
		return d.createPlaylist(req.PayloadJSON)
	case "rename_playlist":
		return d.renamePlaylist(req.PayloadJSON)
	case "delete_playlist":
		return d.deletePlaylist(req.PayloadJSON)
	case "add_song_to_playlist":
		return d.addSongToPlaylist(req.PayloadJSON)
	case "remove_song_from_playlist":
		return d.removeSongFromPlaylist(req.PayloadJSON)
	case "get_explore_songs":
		return d.exploreSongs()
	case "queue_song":
		return d.queueSong(req.PayloadJSON)
	case "play":
		return d.play(req.PayloadJSON)
	case "pause":
		return d.playback(req.PayloadJSON, (*player.Session).Pause)
	case "stop":
		return d.playback(req.PayloadJSON, (*player.Session).Stop)
	case "next":
		return d.playback(req.PayloadJSON, (*player.Session).Next)
	case "previous":
		return d.playback(req.PayloadJSON, (*player.Session).Previous)
	case "rewind":
		return d.seek(req.PayloadJSON, (*player.Session).Rewind)
	case "fast_forward":
		return d.fastForward(req.PayloadJSON)
	default:
		return "Invalid action", false
	}
}

// sync writes the durable snapshot. Durability failure is reported but does
// not roll back the in-memory mutation the client already got an answer for.
func (d *Dispatcher) sync() {
	if d.snapshots == nil {
		return
	}
	if err := d.snapshots.Save(d.store.Export()); err != nil {
		d.logger.Warn("durability failure, in-memory state stands", "error", err)
	}
}

func (d *Dispatcher) signup(payload string) (string, bool) {
	var p signupPayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}

	_, err := d.store.CreateUser(p.Username, p.Password, p.Email)
	switch {
	case err == nil:
		return "user registered successfully", true
	case errors.Is(err, shared.ErrNameTaken):
		return "username already taken", false
	case errors.Is(err, shared.ErrEmailTaken):
		return "email already taken", false
	case errors.Is(err, shared.ErrInvalidField):
		// the wrapped message names the field, e.g. "invalid email"
		return strings.TrimPrefix(err.Error(), shared.ErrInvalidField.Error()+": "), false
	default:
		return "signup failed", false
	}
}

func (d *Dispatcher) login(payload string) (string, bool) {
	var p loginPayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}

	switch err := d.store.Authenticate(p.Username, p.Password); {
	case err == nil:
		return fmt.Sprintf("Welcome, %s", p.Username), false
	case errors.Is(err, shared.ErrWrongPassword):
		return "wrong password", false
	default:
		return "user not found", false
	}
}

func (d *Dispatcher) likeSong(payload string) (string, bool) {
	var p songPayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}

	applied, err := d.store.Like(p.Username, p.SongID)
	if err != nil {
		return "user not found", false
	}
	if !applied {
		return "already liked", false
	}
	return "success", true
}

func (d *Dispatcher) unlikeSong(payload string) (string, bool) {
	var p songPayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}

	applied, err := d.store.Unlike(p.Username, p.SongID)
	if err != nil {
		return "user not found", false
	}
	if !applied {
		return "not liked", false
	}
	return "success", true
}

func (d *Dispatcher) incrementView(payload string) (string, bool) {
	var p songPayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}

	d.store.RecordView(p.SongID)
	return "success", true
}

func (d *Dispatcher) getProfile(payload string) (string, bool) {
	var p userPayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}

	profile, err := d.store.Profile(p.Username)
	if err != nil {
		return "user not found", false
	}
	return d.marshal(profile), false
}

func (d *Dispatcher) updateTheme(payload string) (string, bool) {
	var p themePayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}

	if err := d.store.UpdateTheme(p.Username, p.Theme); err != nil {
		return "user not found", false
	}
	return "theme updated", true
}

func (d *Dispatcher) updateProfile(payload string) (string, bool) {
	var p updateProfilePayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}

	update := catalog.ProfileUpdate{
		Email:        p.Email,
		Password:     p.Password,
		Theme:        p.Theme,
		ProfileImage: p.ProfileImage,
	}
	if err := d.store.UpdateProfile(p.Username, update); err != nil {
		return "user not found", false
	}
	return "profile updated", true
}

func (d *Dispatcher) deleteAccount(payload string) (string, bool) {
	var p userPayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}

	if !d.store.DeleteUser(p.Username) {
		return "user not found", false
	}
	d.sessions.Drop(p.Username)
	return "success", true
}

func (d *Dispatcher) createPlaylist(payload string) (string, bool) {
	var p createPlaylistPayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}

	playlist, err := d.store.CreatePlaylist(p.Username, p.PlaylistName, p.Shared)
	switch {
	case err == nil:
		return d.marshal(map[string]string{"id": playlist.ID, "name": playlist.Name}), true
	case errors.Is(err, shared.ErrDuplicateName):
		return "playlist already exists", false
	default:
		return "User not found", false
	}
}

func (d *Dispatcher) renamePlaylist(payload string) (string, bool) {
	var p playlistRefPayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}

	switch err := d.store.RenamePlaylist(p.Username, p.Ref(), p.NewName); {
	case err == nil:
		return "Playlist renamed", true
	case errors.Is(err, shared.ErrDuplicateName):
		return "playlist already exists", false
	case errors.Is(err, shared.ErrUserNotFound):
		return "User not found", false
	default:
		return "Playlist not found", false
	}
}

func (d *Dispatcher) deletePlaylist(payload string) (string, bool) {
	var p playlistRefPayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}

	if err := d.store.DeletePlaylist(p.Username, p.Ref()); err != nil {
		return d.marshal(map[string]string{"status": "error"}), false
	}
	return d.marshal(map[string]string{"status": "success"}), true
}

func (d *Dispatcher) addSongToPlaylist(payload string) (string, bool) {
	var p playlistRefPayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}

	dangling, err := d.store.AddSongToPlaylist(p.Username, p.Ref(), p.SongID)
	switch {
	case err == nil:
		if dangling {
			// advisory only: metadata and media delivery are decoupled
			d.logger.Warn("playlist entry references unknown song", "songId", p.SongID, "user", p.Username)
		}
		return "Song added to playlist successfully", true
	case errors.Is(err, shared.ErrAlreadyPresent):
		return "Song already in playlist", false
	case errors.Is(err, shared.ErrUserNotFound):
		return "User not found", false
	default:
		return "Playlist not found", false
	}
}

func (d *Dispatcher) removeSongFromPlaylist(payload string) (string, bool) {
	var p playlistRefPayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}

	switch err := d.store.RemoveSongFromPlaylist(p.Username, p.Ref(), p.SongID); {
	case err == nil:
		return "Song removed from playlist successfully", true
	case errors.Is(err, shared.ErrNotPresent):
		return "Song not found in playlist", false
	case errors.Is(err, shared.ErrUserNotFound):
		return "User not found", false
	default:
		return "Playlist not found", false
	}
}

func (d *Dispatcher) exploreSongs() (string, bool) {
	return d.marshal(d.store.ExploreSongs(d.baseURL)), false
}

func (d *Dispatcher) queueSong(payload string) (string, bool) {
	var p playbackPayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}
	if !d.store.HasUser(p.Username) {
		return "user not found", false
	}

	song, ok := d.store.FindSong(p.SongID)
	if !ok {
		return "song not found", false
	}

	d.sessions.Session(p.Username).Enqueue(song)
	return fmt.Sprintf("queued %s", song.Title), false
}

func (d *Dispatcher) play(payload string) (string, bool) {
	var p playbackPayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}
	if !d.store.HasUser(p.Username) {
		return "user not found", false
	}

	session := d.sessions.Session(p.Username)

	var res player.Result
	if p.SongID != 0 {
		song, ok := d.store.FindSong(p.SongID)
		if !ok {
			return "song not found", false
		}
		res = session.PlaySong(song)
	} else {
		res = session.Play()
	}

	return d.finishPlayback(res)
}

// playback runs a no-argument transition for the user's session.
func (d *Dispatcher) playback(payload string, transition func(*player.Session) player.Result) (string, bool) {
	var p playbackPayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}
	if !d.store.HasUser(p.Username) {
		return "user not found", false
	}

	return d.finishPlayback(transition(d.sessions.Session(p.Username)))
}

// seek runs a seconds-argument transition for the user's session.
func (d *Dispatcher) seek(payload string, transition func(*player.Session, int) player.Result) (string, bool) {
	var p playbackPayload
	if err := decodePayload(payload, &p); err != nil {
		return "Invalid JSON format", false
	}
	if !d.store.HasUser(p.Username) {
		return "user not found", false
	}

	return d.finishPlayback(transition(d.sessions.Session(p.Username), p.Seconds))
}

func (d *Dispatcher) fastForward(payload string) (string, bool) {
	return d.seek(payload, (*player.Session).FastForward)
}

// finishPlayback records a started play against the catalog counters.
func (d *Dispatcher) finishPlayback(res player.Result) (string, bool) {
	if res.Started != nil {
		d.store.RecordPlay(res.Started.ID)
		return res.Outcome, true
	}
	return res.Outcome, false
}

func (d *Dispatcher) marshal(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		d.logger.Error("failed to marshal response", "error", err)
		return "internal error"
	}
	return string(data)
}
