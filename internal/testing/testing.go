// package testing contains shared testing utilities
package testing

import (
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/tunegrid/tunegrid/internal/persist"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MemorySnapshotter keeps the last saved snapshot in memory and counts saves.
type MemorySnapshotter struct {
	mu    sync.Mutex
	last  *persist.Snapshot
	saves int
}

func (m *MemorySnapshotter) Load() (*persist.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return &persist.Snapshot{}, nil
	}
	return m.last, nil
}

func (m *MemorySnapshotter) Save(snap *persist.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = snap
	m.saves++
	return nil
}

func (m *MemorySnapshotter) Close() error { return nil }

// Saves reports how many times Save has been called.
func (m *MemorySnapshotter) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Last returns the most recently saved snapshot, or nil.
func (m *MemorySnapshotter) Last() *persist.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// FailingSnapshotter fails every Save, for durability-failure paths.
type FailingSnapshotter struct{}

func (FailingSnapshotter) Load() (*persist.Snapshot, error) { return &persist.Snapshot{}, nil }
func (FailingSnapshotter) Save(*persist.Snapshot) error     { return errors.New("save failed") }
func (FailingSnapshotter) Close() error                     { return nil }

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
