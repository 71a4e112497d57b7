package player

import "sync"

// Table maps usernames to their playback sessions. A session is created
// lazily on the first playback request and torn down on logout or account
// deletion; nothing here is durable.
type Table struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewTable creates an empty session table.
func NewTable() *Table {
	return &Table{sessions: make(map[string]*Session)}
}

// Session returns the session for username, creating it if needed.
func (t *Table) Session(username string) *Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	session, ok := t.sessions[username]
	if !ok {
		session = NewSession()
		t.sessions[username] = session
	}
	return session
}

// Drop tears down username's session.
func (t *Table) Drop(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, username)
}

// Len reports the number of live sessions.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}
