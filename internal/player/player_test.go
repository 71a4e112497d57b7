package player

import (
	"testing"

	"github.com/tunegrid/tunegrid/internal/models"
)

func song(id int, title string, duration int) models.Song {
	return models.Song{ID: id, Title: title, Duration: duration}
}

func TestPlay_EmptyQueue(t *testing.T) {
	s := NewSession()

	res := s.Play()
	if res.Outcome != "choose song" {
		t.Errorf("Outcome = %q, want choose song", res.Outcome)
	}
	if res.State != Idle {
		t.Errorf("State = %v, want Idle", res.State)
	}
}

func TestPlay_DequeuesHead(t *testing.T) {
	s := NewSession()
	s.Enqueue(song(1, "First", 180))
	s.Enqueue(song(2, "Second", 200))

	res := s.Play()
	if res.Outcome != "playing First" {
		t.Errorf("Outcome = %q", res.Outcome)
	}
	if res.Started == nil || res.Started.ID != 1 {
		t.Errorf("Started = %+v, want song 1", res.Started)
	}
	if s.QueueLen() != 1 {
		t.Errorf("QueueLen() = %d, want 1", s.QueueLen())
	}

	// resume does not touch the queue and does not start a new play
	s.Pause()
	res = s.Play()
	if res.Outcome != "playing First" {
		t.Errorf("resume Outcome = %q", res.Outcome)
	}
	if res.Started != nil {
		t.Error("resume reported a started play")
	}
	if s.QueueLen() != 1 {
		t.Errorf("QueueLen() after resume = %d, want 1", s.QueueLen())
	}
}

func TestPlaySong_BypassesQueue(t *testing.T) {
	s := NewSession()
	s.Enqueue(song(1, "First", 180))

	res := s.PlaySong(song(9, "Direct", 120))
	if res.Outcome != "playing Direct" {
		t.Errorf("Outcome = %q", res.Outcome)
	}
	if s.QueueLen() != 1 {
		t.Errorf("QueueLen() = %d, want 1", s.QueueLen())
	}
	if current, ok := s.Current(); !ok || current.ID != 9 {
		t.Errorf("Current() = %+v, %v", current, ok)
	}
}

func TestPauseStop(t *testing.T) {
	s := NewSession()

	if res := s.Pause(); res.Outcome != "No music playing." {
		t.Errorf("Pause() idle = %q", res.Outcome)
	}
	if res := s.Stop(); res.Outcome != "No music playing." {
		t.Errorf("Stop() idle = %q", res.Outcome)
	}

	s.PlaySong(song(1, "First", 180))
	res := s.Pause()
	if res.Outcome != "Paused at playing First" {
		t.Errorf("Pause() = %q", res.Outcome)
	}
	if res.State != Paused {
		t.Errorf("State = %v, want Paused", res.State)
	}

	// pausing twice reports nothing playing
	if res := s.Pause(); res.Outcome != "No music playing." {
		t.Errorf("double Pause() = %q", res.Outcome)
	}

	res = s.Stop()
	if res.Outcome != "Stopped: First" {
		t.Errorf("Stop() = %q", res.Outcome)
	}
	if _, ok := s.Current(); ok {
		t.Error("Current() set after Stop")
	}
}

func TestNextPrevious_RoundTrip(t *testing.T) {
	s := NewSession()
	s.Enqueue(song(1, "First", 180))
	s.Enqueue(song(2, "Second", 200))

	s.Play()
	res := s.Next()
	if res.Outcome != "Next song: Second" {
		t.Errorf("Next() = %q", res.Outcome)
	}

	// previous pops history; the interrupted song returns to the queue
	// head so the old order survives
	res = s.Previous()
	if res.Outcome != "Playing previous song: First" {
		t.Errorf("Previous() = %q", res.Outcome)
	}
	if current, _ := s.Current(); current.ID != 1 {
		t.Errorf("Current() = song %d, want 1", current.ID)
	}
	if s.QueueLen() != 1 {
		t.Errorf("QueueLen() = %d, want 1", s.QueueLen())
	}

	res = s.Next()
	if res.Outcome != "Next song: Second" {
		t.Errorf("Next() after Previous() = %q", res.Outcome)
	}
}

func TestNext_EmptyQueue(t *testing.T) {
	s := NewSession()
	s.PlaySong(song(1, "First", 180))

	res := s.Next()
	if res.Outcome != "No more songs in playlist." {
		t.Errorf("Next() = %q", res.Outcome)
	}
	if res.State != Idle {
		t.Errorf("State = %v, want Idle", res.State)
	}

	// the last played song is reachable via previous
	res = s.Previous()
	if res.Outcome != "Playing previous song: First" {
		t.Errorf("Previous() = %q", res.Outcome)
	}
}

func TestPrevious_EmptyHistory(t *testing.T) {
	s := NewSession()

	res := s.Previous()
	if res.Outcome != "No previous song available." {
		t.Errorf("Previous() = %q", res.Outcome)
	}
}

func TestRewind(t *testing.T) {
	s := NewSession()

	if res := s.Rewind(10); res.Outcome != "No music playing." {
		t.Errorf("Rewind() idle = %q", res.Outcome)
	}

	s.PlaySong(song(1, "First", 180))
	s.FastForward(30)

	res := s.Rewind(10)
	if res.Outcome != "Rewound to 20s" {
		t.Errorf("Rewind() = %q", res.Outcome)
	}

	// rewinding past the start clamps at zero
	res = s.Rewind(100)
	if res.Outcome != "Rewound to 0s" {
		t.Errorf("Rewind() past start = %q", res.Outcome)
	}
	if s.Position() != 0 {
		t.Errorf("Position() = %d, want 0", s.Position())
	}
}

func TestFastForward(t *testing.T) {
	s := NewSession()

	if res := s.FastForward(10); res.Outcome != "No music playing." {
		t.Errorf("FastForward() idle = %q", res.Outcome)
	}

	s.Enqueue(song(2, "Second", 200))
	s.PlaySong(song(1, "First", 60))

	res := s.FastForward(30)
	if res.Outcome != "Fast-forwarded to 30s" {
		t.Errorf("FastForward() = %q", res.Outcome)
	}

	// reaching the end auto-advances to the queued song
	res = s.FastForward(30)
	if res.Outcome != "Reached end of song. Next song: Second" {
		t.Errorf("FastForward() to end = %q", res.Outcome)
	}
	if current, _ := s.Current(); current.ID != 2 {
		t.Errorf("Current() = song %d, want 2", current.ID)
	}
	if s.Position() != 0 {
		t.Errorf("Position() after advance = %d, want 0", s.Position())
	}
}

func TestFastForward_EndOfQueue(t *testing.T) {
	s := NewSession()
	s.PlaySong(song(1, "First", 60))

	res := s.FastForward(60)
	if res.Outcome != "Reached end of song. No more songs in playlist." {
		t.Errorf("FastForward() = %q", res.Outcome)
	}
	if res.State != Idle {
		t.Errorf("State = %v, want Idle", res.State)
	}
}

func TestTable(t *testing.T) {
	table := NewTable()

	first := table.Session("alice")
	if table.Session("alice") != first {
		t.Error("Session() did not return the same session")
	}
	if table.Session("bob") == first {
		t.Error("sessions shared across users")
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}

	table.Drop("alice")
	if table.Len() != 1 {
		t.Errorf("Len() after Drop = %d, want 1", table.Len())
	}
	if table.Session("alice") == first {
		t.Error("Drop() kept the old session")
	}
}
