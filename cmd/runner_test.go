package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tunegrid/tunegrid/internal/catalog"
	"github.com/tunegrid/tunegrid/internal/persist"
	"github.com/tunegrid/tunegrid/internal/shared"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output == nil {
				t.Error("expected default output to be set")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Fatal("expected commands to be registered")
		}

		names := make(map[string]bool)
		for _, cmd := range commands {
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "serve", "admin", "report", "browse"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writeJSON(map[string]int{"count": 3}, false); err != nil {
			t.Fatalf("writeJSON() = %v", err)
		}

		var decoded map[string]int
		if err := json.Unmarshal(output.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if decoded["count"] != 3 {
			t.Errorf("decoded = %v", decoded)
		}
		if !strings.HasSuffix(output.String(), "\n") {
			t.Error("expected trailing newline")
		}
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("hello %s\n", "world"); err != nil {
			t.Fatalf("writePlain() = %v", err)
		}
		if output.String() != "hello world\n" {
			t.Errorf("output = %q", output.String())
		}
	})
}

func TestOpenSnapshotter(t *testing.T) {
	tc := []struct {
		name    string
		backend string
		wantErr bool
	}{
		{name: "file backend", backend: "file"},
		{name: "empty backend defaults to file", backend: ""},
		{name: "sqlite backend", backend: "sqlite"},
		{name: "unknown backend", backend: "redis", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Snapshot.Backend = tt.backend
			config.Snapshot.Path = filepath.Join(t.TempDir(), "state")
			runner := NewRunner(RunnerOpts{Config: config})

			snapshots, err := runner.openSnapshotter()
			if tt.wantErr {
				if err == nil {
					t.Error("expected error for unknown backend")
				}
				return
			}
			if err != nil {
				t.Fatalf("openSnapshotter() = %v", err)
			}
			defer snapshots.Close()

			// a fresh store loads an empty snapshot either way
			snap, err := snapshots.Load()
			if err != nil {
				t.Fatalf("Load() = %v", err)
			}
			if len(snap.Users) != 0 {
				t.Errorf("fresh snapshot has users: %+v", snap.Users)
			}
		})
	}
}

func TestPersistStore_RoundTrip(t *testing.T) {
	config := shared.DefaultConfig()
	config.Snapshot.Path = filepath.Join(t.TempDir(), "state.json")
	runner := NewRunner(RunnerOpts{Config: config})

	snapshots := persist.NewFileStore(config.Snapshot.Path)
	defer snapshots.Close()

	store := catalog.NewStore()
	if _, err := store.CreateUser("alice", "pw1", "alice@example.com"); err != nil {
		t.Fatalf("CreateUser() = %v", err)
	}

	if err := runner.persistStore(store, snapshots); err != nil {
		t.Fatalf("persistStore() = %v", err)
	}

	snap, err := snapshots.Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	reloaded := catalog.NewStore()
	reloaded.Restore(snap)

	if !reloaded.HasUser("alice") {
		t.Error("persisted state lost the account")
	}
}
