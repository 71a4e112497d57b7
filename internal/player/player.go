// Package player implements the per-user playback session: a state machine
// over a FIFO song queue and a LIFO history stack. Sessions live only for
// the process lifetime and are never persisted.
package player

import (
	"fmt"
	"sync"

	"github.com/tunegrid/tunegrid/internal/models"
)

// State is the playback state of a session.
type State int

const (
	Idle State = iota
	Playing
	Paused
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// Result is the outcome of a transition. Normal edge cases (empty queue,
// nothing playing) are reported here, never as errors. Started is non-nil
// when the transition began playback of a song, so the caller can record
// the play against the catalog.
type Result struct {
	Outcome string
	State   State
	Started *models.Song
}

// Session is one user's playback state. A user may be connected more than
// once, so every transition runs under the session mutex.
type Session struct {
	mu       sync.Mutex
	queue    []models.Song
	history  []models.Song
	current  *models.Song
	playing  bool
	position int
}

// NewSession creates an idle session with an empty queue and history.
func NewSession() *Session {
	return &Session{}
}

// Enqueue appends a song to the pending queue.
func (s *Session) Enqueue(song models.Song) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, song)
}

// QueueLen returns the number of pending songs.
func (s *Session) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Current returns the currently playing song, if any.
func (s *Session) Current() (models.Song, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.Song{}, false
	}
	return *s.current, true
}

// Position returns the elapsed position in seconds.
func (s *Session) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// State reports the session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	switch {
	case s.current == nil:
		return Idle
	case s.playing:
		return Playing
	default:
		return Paused
	}
}

// PlaySong makes song current immediately, bypassing the queue, and starts
// playing from the beginning.
func (s *Session) PlaySong(song models.Song) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playSongLocked(song)
}

func (s *Session) playSongLocked(song models.Song) Result {
	s.current = &song
	s.playing = true
	s.position = 0
	return Result{
		Outcome: fmt.Sprintf("playing %s", song.Title),
		State:   Playing,
		Started: &song,
	}
}

// Play resumes the current song, or dequeues the head of the queue when
// idle. An empty queue with no current song is a "choose song" signal, not
// an error.
func (s *Session) Play() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		if len(s.queue) == 0 {
			return Result{Outcome: "choose song", State: Idle}
		}
		head := s.queue[0]
		s.queue = s.queue[1:]
		return s.playSongLocked(head)
	}

	s.playing = true
	return Result{
		Outcome: fmt.Sprintf("playing %s", s.current.Title),
		State:   Playing,
	}
}

// Pause transitions Playing to Paused; from any other state it reports that
// nothing is playing.
func (s *Session) Pause() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stateLocked() != Playing {
		return Result{Outcome: "No music playing.", State: s.stateLocked()}
	}
	s.playing = false
	return Result{
		Outcome: fmt.Sprintf("Paused at playing %s", s.current.Title),
		State:   Paused,
	}
}

// Stop clears the current song and resets the position.
func (s *Session) Stop() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Result{Outcome: "No music playing.", State: Idle}
	}
	title := s.current.Title
	s.current = nil
	s.playing = false
	s.position = 0
	return Result{Outcome: fmt.Sprintf("Stopped: %s", title), State: Idle}
}

// Next pushes the current song onto history and promotes the queue head.
// With an empty queue the session goes idle and reports it.
func (s *Session) Next() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextLocked()
}

func (s *Session) nextLocked() Result {
	if s.current != nil {
		s.history = append(s.history, *s.current)
	}

	if len(s.queue) == 0 {
		s.current = nil
		s.playing = false
		s.position = 0
		return Result{Outcome: "No more songs in playlist.", State: Idle}
	}

	head := s.queue[0]
	s.queue = s.queue[1:]
	s.current = &head
	s.playing = true
	s.position = 0
	return Result{
		Outcome: fmt.Sprintf("Next song: %s", head.Title),
		State:   Playing,
	}
}

// Previous pops history into current. The song that was playing goes back
// to the front of the queue, so a following Next resumes the old order.
func (s *Session) Previous() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return Result{Outcome: "No previous song available.", State: s.stateLocked()}
	}

	if s.current != nil {
		s.queue = append([]models.Song{*s.current}, s.queue...)
	}

	top := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.current = &top
	s.playing = true
	s.position = 0
	return Result{
		Outcome: fmt.Sprintf("Playing previous song: %s", top.Title),
		State:   Playing,
	}
}

// Rewind moves the position back, clamped at zero.
func (s *Session) Rewind(seconds int) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Result{Outcome: "No music playing.", State: Idle}
	}
	s.position -= seconds
	if s.position < 0 {
		s.position = 0
	}
	return Result{
		Outcome: fmt.Sprintf("Rewound to %ds", s.position),
		State:   s.stateLocked(),
	}
}

// FastForward advances the position. Reaching or passing the current song's
// duration auto-advances to the next queued song and reports both outcomes.
func (s *Session) FastForward(seconds int) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Result{Outcome: "No music playing.", State: Idle}
	}

	s.position += seconds
	if s.position >= s.current.Duration {
		res := s.nextLocked()
		res.Outcome = "Reached end of song. " + res.Outcome
		return res
	}

	return Result{
		Outcome: fmt.Sprintf("Fast-forwarded to %ds", s.position),
		State:   s.stateLocked(),
	}
}
