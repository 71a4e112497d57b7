// package formatter renders catalog reports to CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/tunegrid/tunegrid/internal/catalog"
	"github.com/tunegrid/tunegrid/internal/models"
	"github.com/tunegrid/tunegrid/internal/shared"
)

// UsersSummaryCSV renders the admin users report with columns:
// username, email, playlists_count, liked_songs_count
func UsersSummaryCSV(summaries []catalog.UserSummary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"username", "email", "playlists_count", "liked_songs_count"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, summary := range summaries {
		record := []string{
			summary.Username,
			summary.Email,
			strconv.Itoa(summary.Playlists),
			strconv.Itoa(summary.LikedSongs),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// TopSongsCSV renders an engagement ranking with columns:
// rank, songId, likes, views, file_exists. fileExists may be nil when media
// presence is not being checked.
func TopSongsCSV(entries []models.Engagement, fileExists func(songID int) bool) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"rank", "songId", "likes", "views", "file_exists"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, entry := range entries {
		exists := "unknown"
		if fileExists != nil {
			exists = "no"
			if fileExists(entry.SongID) {
				exists = "yes"
			}
		}
		record := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(entry.SongID),
			strconv.Itoa(entry.LikeCount),
			strconv.Itoa(entry.ViewCount),
			exists,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// PlaylistToMarkdown renders a playlist with resolved song metadata.
// Unresolvable ids are dangling references and rendered as such.
func PlaylistToMarkdown(owner string, playlist *models.Playlist, resolve func(songID int) (models.Song, bool)) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", playlist.Name))
	buf.WriteString(fmt.Sprintf("**Owner**: %s\n", owner))
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n", len(playlist.Songs)))
	buf.WriteString(fmt.Sprintf("**Visibility**: %s\n\n", shared.VisibilityString(playlist.Shared)))

	buf.WriteString("## Songs\n\n")
	for i, songID := range playlist.Songs {
		song, ok := resolve(songID)
		if !ok {
			buf.WriteString(fmt.Sprintf("%d. (missing song %d)\n", i+1, songID))
			continue
		}
		line := fmt.Sprintf("%d. %s", i+1, song.Title)
		if song.Artist != "" {
			line = fmt.Sprintf("%s - %s", line, song.Artist)
		}
		buf.WriteString(fmt.Sprintf("%s [%s]\n", line, shared.FormatDuration(song.Duration)))
	}

	return buf.Bytes()
}

// PlaylistToText renders a plain-text playlist listing.
func PlaylistToText(owner string, playlist *models.Playlist, resolve func(songID int) (models.Song, bool)) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s (%s)\n", playlist.Name, owner))
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(playlist.Songs)))

	for i, songID := range playlist.Songs {
		song, ok := resolve(songID)
		if !ok {
			buf.WriteString(fmt.Sprintf("%d. (missing song %d)\n", i+1, songID))
			continue
		}
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, song.Title))
	}

	return buf.Bytes()
}
