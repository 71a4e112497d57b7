package catalog

import (
	"sort"

	"github.com/tunegrid/tunegrid/internal/models"
	"github.com/tunegrid/tunegrid/internal/shared"
)

func (s *Store) ensureEngagementLocked(songID int) *models.Engagement {
	eng, ok := s.engagement[songID]
	if !ok {
		eng = &models.Engagement{SongID: songID, LikedBy: make(map[string]bool)}
		s.engagement[songID] = eng
		s.engagementOrder = append(s.engagementOrder, songID)
	}
	return eng
}

// Like records username liking songID. A repeat like is a no-op reported
// through applied=false, never an error, and never double counts. After the
// call LikeCount equals the size of the liked-by set.
func (s *Store) Like(username string, songID int) (applied bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return false, shared.ErrUserNotFound
	}

	eng := s.ensureEngagementLocked(songID)
	if eng.LikedBy[username] {
		return false, nil
	}

	eng.LikedBy[username] = true
	eng.LikeCount = len(eng.LikedBy)
	if !user.HasLiked(songID) {
		user.LikedSongs = append(user.LikedSongs, songID)
	}

	return true, nil
}

// Unlike is the inverse of Like with symmetric idempotence.
func (s *Store) Unlike(username string, songID int) (applied bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return false, shared.ErrUserNotFound
	}

	eng := s.ensureEngagementLocked(songID)
	if !eng.LikedBy[username] {
		return false, nil
	}

	delete(eng.LikedBy, username)
	eng.LikeCount = len(eng.LikedBy)
	for i, id := range user.LikedSongs {
		if id == songID {
			user.LikedSongs = append(user.LikedSongs[:i], user.LikedSongs[i+1:]...)
			break
		}
	}

	return true, nil
}

// RecordView bumps the view counter. Views are not deduplicated per user;
// every open counts.
func (s *Store) RecordView(songID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureEngagementLocked(songID).ViewCount++
}

// RecordPlay bumps the played counter.
func (s *Store) RecordPlay(songID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureEngagementLocked(songID).PlayedCount++
}

// SetCounter is the administrative override for a counter. Writing the like
// counter this way bypasses the liked-by set, so LikeCount may disagree with
// the set size until the next Like or Unlike recomputes it. That window is
// part of the override's contract and is not repaired here.
func (s *Store) SetCounter(songID int, kind string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	eng := s.ensureEngagementLocked(songID)
	switch kind {
	case models.LikeKind:
		eng.LikeCount = value
	case models.ViewKind:
		eng.ViewCount = value
	default:
		return shared.ErrInvalidInput
	}
	return nil
}

// Counters returns a copy of the engagement entry for songID, zero-valued
// if the song has never been touched.
func (s *Store) Counters(songID int) models.Engagement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	eng, ok := s.engagement[songID]
	if !ok {
		return models.Engagement{SongID: songID}
	}
	return copyEngagement(eng)
}

// TopByLikes returns the n entries with the highest like counts. The sort is
// stable, so ties keep first-touch order.
func (s *Store) TopByLikes(n int) []models.Engagement {
	return s.top(n, func(e *models.Engagement) int { return e.LikeCount })
}

// TopByViews returns the n entries with the highest view counts.
func (s *Store) TopByViews(n int) []models.Engagement {
	return s.top(n, func(e *models.Engagement) int { return e.ViewCount })
}

func (s *Store) top(n int, counter func(*models.Engagement) int) []models.Engagement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 {
		return nil
	}

	entries := make([]models.Engagement, 0, len(s.engagementOrder))
	for _, id := range s.engagementOrder {
		entries = append(entries, copyEngagement(s.engagement[id]))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return counter(&entries[i]) > counter(&entries[j])
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func copyEngagement(eng *models.Engagement) models.Engagement {
	clone := *eng
	clone.LikedBy = make(map[string]bool, len(eng.LikedBy))
	for name := range eng.LikedBy {
		clone.LikedBy[name] = true
	}
	return clone
}
