package server

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/tunegrid/tunegrid/internal/catalog"
	"github.com/tunegrid/tunegrid/internal/dispatch"
	"github.com/tunegrid/tunegrid/internal/models"
	"github.com/tunegrid/tunegrid/internal/shared"
	tu "github.com/tunegrid/tunegrid/internal/testing"
)

func startServer(t *testing.T) (net.Addr, *catalog.Store) {
	t.Helper()

	store := catalog.NewStore()
	store.CreateSong(models.Song{Title: "First", Duration: 60})

	d := dispatch.New(dispatch.Opts{
		Store:     store,
		Snapshots: &tu.MemorySnapshotter{},
		Logger:    shared.NewLogger(nil),
		BaseURL:   "http://127.0.0.1:8080",
	})

	srv := NewTCPServer(d, shared.NewLogger(nil))
	addr, err := srv.Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Serve() = %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})

	return addr, store
}

func roundTrip(t *testing.T, conn net.Conn, reader *bufio.Reader, line string) string {
	t.Helper()
	if _, err := fmt.Fprintf(conn, "%s\n", line); err != nil {
		t.Fatalf("write: %v", err)
	}
	response, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return response[:len(response)-1]
}

func TestTCPServer_SessionFlow(t *testing.T) {
	addr, store := startServer(t)

	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("Dial() = %v", err)
	}
	defer conn.Close()
	reader := bufio.NewReader(conn)

	signup := `{"action":"signup","payloadJson":"{\"username\":\"alice\",\"password\":\"pw1\",\"email\":\"alice@example.com\"}"}`
	if got := roundTrip(t, conn, reader, signup); got != "user registered successfully" {
		t.Errorf("signup = %q", got)
	}

	login := `{"action":"login","payloadJson":"{\"username\":\"alice\",\"password\":\"pw1\"}"}`
	if got := roundTrip(t, conn, reader, login); got != "Welcome, alice" {
		t.Errorf("login = %q", got)
	}

	// a malformed line answers on the same connection instead of closing it
	if got := roundTrip(t, conn, reader, "garbage"); got != "Invalid JSON format" {
		t.Errorf("garbage = %q", got)
	}
	if got := roundTrip(t, conn, reader, login); got != "Welcome, alice" {
		t.Errorf("login after garbage = %q", got)
	}

	if !store.HasUser("alice") {
		t.Error("signup over the wire did not reach the store")
	}
}

func TestTCPServer_ConcurrentConnections(t *testing.T) {
	addr, _ := startServer(t)

	first, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("Dial() = %v", err)
	}
	defer first.Close()

	second, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("Dial() = %v", err)
	}
	defer second.Close()

	firstReader := bufio.NewReader(first)
	secondReader := bufio.NewReader(second)

	signup := `{"action":"signup","payloadJson":"{\"username\":\"alice\",\"password\":\"pw1\",\"email\":\"alice@example.com\"}"}`
	if got := roundTrip(t, first, firstReader, signup); got != "user registered successfully" {
		t.Errorf("signup on first = %q", got)
	}

	// both connections observe the same shared state
	if got := roundTrip(t, second, secondReader, signup); got != "username already taken" {
		t.Errorf("signup on second = %q", got)
	}
}

func TestTCPServer_ServeBeforeListen(t *testing.T) {
	srv := NewTCPServer(nil, shared.NewLogger(nil))
	if err := srv.Serve(context.Background()); err == nil {
		t.Error("Serve() before Listen() = nil, want error")
	}
}
