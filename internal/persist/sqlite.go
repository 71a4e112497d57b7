package persist

import (
	"database/sql"
	"fmt"

	"github.com/tunegrid/tunegrid/internal/models"
	"github.com/tunegrid/tunegrid/internal/shared"
)

// SQLiteStore persists the snapshot in an embedded SQLite database. Each
// save replaces the previous snapshot inside a single transaction, keeping
// the wholesale-rewrite contract of the file backend.
type SQLiteStore struct {
	db *sql.DB
}

var _ Snapshotter = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at path and applies the
// schema migrations.
func NewSQLiteStore(path string, maxOpenConns, maxIdleConns int) (*SQLiteStore, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, maxOpenConns, maxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate snapshot database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStoreFromDB wraps an already-open database. Used by tests with
// an in-memory connection.
func NewSQLiteStoreFromDB(db *sql.DB) (*SQLiteStore, error) {
	if err := shared.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshot database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save replaces the stored snapshot.
func (s *SQLiteStore) Save(snap *Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{
		"engagement_likes", "engagement", "songs", "liked_songs", "playlist_songs", "playlists", "users",
	} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for pos, user := range snap.Users {
		_, err := tx.Exec(
			`INSERT INTO users (username, id, password, email, theme, profile_image, position) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			user.Username, user.ID, user.Password, user.Email, user.Theme, user.ProfileImage, pos,
		)
		if err != nil {
			return fmt.Errorf("failed to insert user %s: %w", user.Username, err)
		}

		for ppos, playlist := range user.Playlists {
			_, err := tx.Exec(
				`INSERT INTO playlists (id, owner, name, shared, position) VALUES (?, ?, ?, ?, ?)`,
				playlist.ID, user.Username, playlist.Name, playlist.Shared, ppos,
			)
			if err != nil {
				return fmt.Errorf("failed to insert playlist %s: %w", playlist.Name, err)
			}
			for spos, songID := range playlist.Songs {
				_, err := tx.Exec(
					`INSERT INTO playlist_songs (playlist_id, song_id, position) VALUES (?, ?, ?)`,
					playlist.ID, songID, spos,
				)
				if err != nil {
					return fmt.Errorf("failed to insert playlist entry: %w", err)
				}
			}
		}

		for lpos, songID := range user.LikedSongs {
			_, err := tx.Exec(
				`INSERT INTO liked_songs (username, song_id, position) VALUES (?, ?, ?)`,
				user.Username, songID, lpos,
			)
			if err != nil {
				return fmt.Errorf("failed to insert liked song: %w", err)
			}
		}
	}

	for _, song := range snap.Songs {
		_, err := tx.Exec(
			`INSERT INTO songs (id, title, artist, album, genre, duration, release_date, path) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			song.ID, song.Title, song.Artist, song.Album, song.Genre, song.Duration, song.ReleaseDate, song.Path,
		)
		if err != nil {
			return fmt.Errorf("failed to insert song %d: %w", song.ID, err)
		}
	}

	for pos, eng := range snap.Engagement {
		_, err := tx.Exec(
			`INSERT INTO engagement (song_id, like_count, view_count, played_count, position) VALUES (?, ?, ?, ?, ?)`,
			eng.SongID, eng.LikeCount, eng.ViewCount, eng.PlayedCount, pos,
		)
		if err != nil {
			return fmt.Errorf("failed to insert engagement for song %d: %w", eng.SongID, err)
		}
		for username := range eng.LikedBy {
			_, err := tx.Exec(
				`INSERT INTO engagement_likes (song_id, username) VALUES (?, ?)`,
				eng.SongID, username,
			)
			if err != nil {
				return fmt.Errorf("failed to insert liked-by entry: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Load reads the stored snapshot.
func (s *SQLiteStore) Load() (*Snapshot, error) {
	snap := &Snapshot{}

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	snap.Users = users

	songs, err := s.loadSongs()
	if err != nil {
		return nil, err
	}
	snap.Songs = songs
	for _, song := range songs {
		if song.ID > snap.NextSongID {
			snap.NextSongID = song.ID
		}
	}

	engagement, err := s.loadEngagement()
	if err != nil {
		return nil, err
	}
	snap.Engagement = engagement
	for _, eng := range engagement {
		if eng.SongID > snap.NextSongID {
			snap.NextSongID = eng.SongID
		}
	}

	return snap, nil
}

func (s *SQLiteStore) loadUsers() ([]models.User, error) {
	rows, err := s.db.Query(`SELECT username, id, password, email, theme, profile_image FROM users ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		var image sql.NullString
		if err := rows.Scan(&user.Username, &user.ID, &user.Password, &user.Email, &user.Theme, &image); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if image.Valid {
			user.ProfileImage = image.String
		}
		user.Playlists = []*models.Playlist{}
		user.LikedSongs = []int{}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for i := range users {
		if err := s.loadPlaylists(&users[i]); err != nil {
			return nil, err
		}
		if err := s.loadLikedSongs(&users[i]); err != nil {
			return nil, err
		}
	}

	return users, nil
}

func (s *SQLiteStore) loadPlaylists(user *models.User) error {
	rows, err := s.db.Query(`SELECT id, name, shared FROM playlists WHERE owner = ? ORDER BY position ASC`, user.Username)
	if err != nil {
		return fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		playlist := &models.Playlist{Songs: []int{}}
		if err := rows.Scan(&playlist.ID, &playlist.Name, &playlist.Shared); err != nil {
			return fmt.Errorf("failed to scan playlist: %w", err)
		}
		user.Playlists = append(user.Playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	for _, playlist := range user.Playlists {
		songRows, err := s.db.Query(`SELECT song_id FROM playlist_songs WHERE playlist_id = ? ORDER BY position ASC`, playlist.ID)
		if err != nil {
			return fmt.Errorf("failed to query playlist entries: %w", err)
		}
		for songRows.Next() {
			var songID int
			if err := songRows.Scan(&songID); err != nil {
				songRows.Close()
				return fmt.Errorf("failed to scan playlist entry: %w", err)
			}
			playlist.Songs = append(playlist.Songs, songID)
		}
		if err := songRows.Err(); err != nil {
			songRows.Close()
			return fmt.Errorf("row iteration error: %w", err)
		}
		songRows.Close()
	}

	return nil
}

func (s *SQLiteStore) loadLikedSongs(user *models.User) error {
	rows, err := s.db.Query(`SELECT song_id FROM liked_songs WHERE username = ? ORDER BY position ASC`, user.Username)
	if err != nil {
		return fmt.Errorf("failed to query liked songs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var songID int
		if err := rows.Scan(&songID); err != nil {
			return fmt.Errorf("failed to scan liked song: %w", err)
		}
		user.LikedSongs = append(user.LikedSongs, songID)
	}
	return rows.Err()
}

func (s *SQLiteStore) loadSongs() ([]models.Song, error) {
	rows, err := s.db.Query(`SELECT id, title, artist, album, genre, duration, release_date, path FROM songs ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []models.Song
	for rows.Next() {
		var song models.Song
		var artist, album, genre, release, path sql.NullString
		if err := rows.Scan(&song.ID, &song.Title, &artist, &album, &genre, &song.Duration, &release, &path); err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		song.Artist = artist.String
		song.Album = album.String
		song.Genre = genre.String
		song.ReleaseDate = release.String
		song.Path = path.String
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

func (s *SQLiteStore) loadEngagement() ([]models.Engagement, error) {
	rows, err := s.db.Query(`SELECT song_id, like_count, view_count, played_count FROM engagement ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query engagement: %w", err)
	}
	defer rows.Close()

	var entries []models.Engagement
	for rows.Next() {
		eng := models.Engagement{LikedBy: make(map[string]bool)}
		if err := rows.Scan(&eng.SongID, &eng.LikeCount, &eng.ViewCount, &eng.PlayedCount); err != nil {
			return nil, fmt.Errorf("failed to scan engagement: %w", err)
		}
		entries = append(entries, eng)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for i := range entries {
		likeRows, err := s.db.Query(`SELECT username FROM engagement_likes WHERE song_id = ?`, entries[i].SongID)
		if err != nil {
			return nil, fmt.Errorf("failed to query liked-by entries: %w", err)
		}
		for likeRows.Next() {
			var username string
			if err := likeRows.Scan(&username); err != nil {
				likeRows.Close()
				return nil, fmt.Errorf("failed to scan liked-by entry: %w", err)
			}
			entries[i].LikedBy[username] = true
		}
		if err := likeRows.Err(); err != nil {
			likeRows.Close()
			return nil, fmt.Errorf("row iteration error: %w", err)
		}
		likeRows.Close()
	}

	return entries, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
