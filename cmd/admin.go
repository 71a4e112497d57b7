package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tunegrid/tunegrid/internal/catalog"
	"github.com/tunegrid/tunegrid/internal/models"
	"github.com/tunegrid/tunegrid/internal/shared"
	"github.com/urfave/cli/v3"
)

// AdminUserList prints all registered accounts.
func (r *Runner) AdminUserList(ctx context.Context, cmd *cli.Command) error {
	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	summaries := store.UserSummaries()
	if cmd.Bool("json") {
		return r.writeJSON(summaries, true)
	}

	r.writePlainHeader(fmt.Sprintf("Accounts (%d)", len(summaries)))
	for _, summary := range summaries {
		r.writePlain("%-20s %-30s playlists=%d liked=%d theme=%s\n",
			summary.Username, summary.Email, summary.Playlists, summary.LikedSongs, summary.Theme)
	}
	return nil
}

// AdminUserShow prints one account's profile with its playlists.
func (r *Runner) AdminUserShow(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	if username == "" {
		return fmt.Errorf("%w: username argument is required", shared.ErrMissingArgument)
	}

	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	profile, err := store.Profile(username)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	return r.writeJSON(profile, true)
}

// AdminUserCreate registers an account directly against the snapshot.
func (r *Runner) AdminUserCreate(ctx context.Context, cmd *cli.Command) error {
	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	user, err := store.CreateUser(cmd.String("username"), cmd.String("password"), cmd.String("email"))
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	if err := r.persistStore(store, snapshots); err != nil {
		return err
	}

	r.logger.Info("account created", "username", user.Username, "id", user.ID)
	return r.writePlain("✓ account %s created\n", user.Username)
}

// AdminUserDelete removes an account and everything it owns.
func (r *Runner) AdminUserDelete(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	if username == "" {
		return fmt.Errorf("%w: username argument is required", shared.ErrMissingArgument)
	}

	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	if !store.DeleteUser(username) {
		return fmt.Errorf("failed to delete account: %w", shared.ErrUserNotFound)
	}

	if err := r.persistStore(store, snapshots); err != nil {
		return err
	}

	r.logger.Info("account deleted", "username", username)
	return r.writePlain("✓ account %s deleted\n", username)
}

// AdminUserUpdate applies the provided field flags to an account.
func (r *Runner) AdminUserUpdate(ctx context.Context, cmd *cli.Command) error {
	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	update := catalog.ProfileUpdate{}
	set := 0
	for flag, field := range map[string]**string{
		"email":         &update.Email,
		"password":      &update.Password,
		"theme":         &update.Theme,
		"profile-image": &update.ProfileImage,
	} {
		if cmd.IsSet(flag) {
			value := cmd.String(flag)
			*field = &value
			set++
		}
	}
	if set == 0 {
		return fmt.Errorf("%w: provide at least one of --email, --password, --theme, --profile-image", shared.ErrMissingArgument)
	}

	username := cmd.String("username")
	if err := store.UpdateProfile(username, update); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	if err := r.persistStore(store, snapshots); err != nil {
		return err
	}

	r.logger.Info("account updated", "username", username, "fields", set)
	return r.writePlain("✓ account %s updated\n", username)
}

// AdminPlaylistList prints a user's playlists with their song ids.
func (r *Runner) AdminPlaylistList(ctx context.Context, cmd *cli.Command) error {
	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	username := cmd.String("user")
	playlists, err := store.PlaylistsOf(username)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	r.writePlainHeader(fmt.Sprintf("Playlists of %s (%d)", username, len(playlists)))
	for _, playlist := range playlists {
		r.writePlain("%s  %s  %s  songs=%v\n",
			playlist.ID, playlist.Name, shared.VisibilityString(playlist.Shared), playlist.Songs)
	}
	return nil
}

// AdminPlaylistCreate creates a playlist for a user.
func (r *Runner) AdminPlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	playlist, err := store.CreatePlaylist(cmd.String("user"), cmd.String("name"), cmd.Bool("shared"))
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	if err := r.persistStore(store, snapshots); err != nil {
		return err
	}

	r.logger.Info("playlist created", "user", cmd.String("user"), "id", playlist.ID, "name", playlist.Name)
	return r.writePlain("✓ playlist %s created (%s)\n", playlist.Name, playlist.ID)
}

// AdminPlaylistRename renames a playlist addressed by id or name.
func (r *Runner) AdminPlaylistRename(ctx context.Context, cmd *cli.Command) error {
	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	username, ref, name := cmd.String("user"), cmd.String("playlist"), cmd.String("name")
	if err := store.RenamePlaylist(username, ref, name); err != nil {
		return fmt.Errorf("failed to rename playlist: %w", err)
	}

	if err := r.persistStore(store, snapshots); err != nil {
		return err
	}
	return r.writePlain("✓ playlist %s renamed to %s\n", ref, name)
}

// AdminPlaylistDelete deletes a playlist addressed by id or name.
func (r *Runner) AdminPlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	username, ref := cmd.String("user"), cmd.String("playlist")
	if err := store.DeletePlaylist(username, ref); err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	if err := r.persistStore(store, snapshots); err != nil {
		return err
	}
	return r.writePlain("✓ playlist %s deleted\n", ref)
}

// AdminPlaylistAddSong appends a song id to a playlist. The song does not
// have to exist in the catalog or on disk; both checks are advisory and
// only produce warnings.
func (r *Runner) AdminPlaylistAddSong(ctx context.Context, cmd *cli.Command) error {
	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	username, ref := cmd.String("user"), cmd.String("playlist")
	songID := int(cmd.Int("song"))

	dangling, err := store.AddSongToPlaylist(username, ref, songID)
	if err != nil {
		return fmt.Errorf("failed to add song: %w", err)
	}
	if dangling {
		r.writePlain("⚠ song %d is not in the catalog, added anyway\n", songID)
	}
	if dir := r.config.Catalog.SongsDir; dir != "" {
		if _, err := os.Stat(filepath.Join(dir, fmt.Sprintf("%d.mp3", songID))); err != nil {
			r.writePlain("⚠ no media file %d.mp3 in %s\n", songID, dir)
		}
	}

	if err := r.persistStore(store, snapshots); err != nil {
		return err
	}
	return r.writePlain("✓ song %d added to playlist %s\n", songID, ref)
}

// AdminPlaylistRemoveSong removes a song id from a playlist.
func (r *Runner) AdminPlaylistRemoveSong(ctx context.Context, cmd *cli.Command) error {
	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	username, ref := cmd.String("user"), cmd.String("playlist")
	songID := int(cmd.Int("song"))

	if err := store.RemoveSongFromPlaylist(username, ref, songID); err != nil {
		return fmt.Errorf("failed to remove song: %w", err)
	}

	if err := r.persistStore(store, snapshots); err != nil {
		return err
	}
	return r.writePlain("✓ song %d removed from playlist %s\n", songID, ref)
}

// AdminSongList prints the song catalog.
func (r *Runner) AdminSongList(ctx context.Context, cmd *cli.Command) error {
	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	songs := store.Songs()
	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}

	r.writePlainHeader(fmt.Sprintf("Songs (%d)", len(songs)))
	for _, song := range songs {
		counters := store.Counters(song.ID)
		r.writePlain("%4d  %-30s %-20s likes=%d views=%d\n",
			song.ID, song.Title, song.Artist, counters.LikeCount, counters.ViewCount)
	}
	return nil
}

// AdminSongTop prints the most liked or most viewed songs.
func (r *Runner) AdminSongTop(ctx context.Context, cmd *cli.Command) error {
	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	limit := int(cmd.Int("limit"))
	by := cmd.String("by")

	var entries []models.Engagement
	switch by {
	case "likes":
		entries = store.TopByLikes(limit)
	case "views":
		entries = store.TopByViews(limit)
	default:
		return fmt.Errorf("%w: --by must be likes or views", shared.ErrInvalidFlag)
	}

	r.writePlainHeader(fmt.Sprintf("Top %d by %s", limit, by))
	for rank, entry := range entries {
		title := fmt.Sprintf("song %d", entry.SongID)
		if song, ok := store.FindSong(entry.SongID); ok {
			title = song.Title
		}
		r.writePlain("%2d. %-30s likes=%d views=%d played=%d\n",
			rank+1, title, entry.LikeCount, entry.ViewCount, entry.PlayedCount)
	}
	return nil
}

// AdminSongSetCounter overrides a like or view counter for reconciliation.
func (r *Runner) AdminSongSetCounter(ctx context.Context, cmd *cli.Command) error {
	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	songID := int(cmd.Int("song"))
	value := int(cmd.Int("value"))

	var kind string
	switch cmd.String("kind") {
	case models.LikeKind:
		kind = models.LikeKind
	case models.ViewKind:
		kind = models.ViewKind
	default:
		return fmt.Errorf("%w: --kind must be likes or views", shared.ErrInvalidFlag)
	}

	if err := store.SetCounter(songID, kind, value); err != nil {
		return fmt.Errorf("failed to set counter: %w", err)
	}

	if err := r.persistStore(store, snapshots); err != nil {
		return err
	}

	r.logger.Info("counter overridden", "song", songID, "kind", kind, "value", value)
	return r.writePlain("✓ song %d %s set to %d\n", songID, kind, value)
}

// AdminSongPresence reports which playlists reference a song.
func (r *Runner) AdminSongPresence(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.StringArg("song")
	if raw == "" {
		return fmt.Errorf("%w: song id argument is required", shared.ErrMissingArgument)
	}
	songID, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: song id must be numeric", shared.ErrInvalidInput)
	}

	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	presence := store.SongPresence(songID)
	if len(presence) == 0 {
		return r.writePlain("song %d is not in any playlist\n", songID)
	}

	r.writePlainHeader(fmt.Sprintf("Playlists containing song %d (%d)", songID, len(presence)))
	for _, p := range presence {
		r.writePlain("%-20s %s\n", p.Owner, p.Playlist)
	}
	return nil
}
