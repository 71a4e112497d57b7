package catalog

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tunegrid/tunegrid/internal/models"
)

// IngestDir registers a catalog entry for every media file in dir following
// the <id>.mp3 naming convention. Files already known to the catalog are
// left alone; files whose stem is not a numeric id are skipped and reported.
func (s *Store) IngestDir(dir string) (added int, skipped []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read songs directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".mp3") {
			continue
		}

		stem := name[:len(name)-len(".mp3")]
		id, convErr := strconv.Atoi(stem)
		if convErr != nil || id <= 0 {
			skipped = append(skipped, name)
			continue
		}

		if _, ok := s.songs[id]; ok {
			continue
		}

		s.createSongLocked(Metadata(id))
		added++
	}

	return added, skipped, nil
}

// Metadata builds placeholder song metadata for an ingested media file that
// arrived without any.
func Metadata(id int) models.Song {
	return models.Song{ID: id, Title: fmt.Sprintf("Track %d", id)}
}
