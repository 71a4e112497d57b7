package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tunegrid/tunegrid/internal/dispatch"
	"github.com/tunegrid/tunegrid/internal/shared"
)

// TCPServer accepts line-oriented client connections and hands each decoded
// line to the dispatcher. One goroutine per connection; all connections
// share the dispatcher's state, which serializes mutations itself.
type TCPServer struct {
	dispatcher *dispatch.Dispatcher
	logger     *log.Logger

	mu       sync.Mutex
	listener net.Listener
}

// NewTCPServer creates a TCPServer routing into dispatcher.
func NewTCPServer(dispatcher *dispatch.Dispatcher, logger *log.Logger) *TCPServer {
	return &TCPServer{dispatcher: dispatcher, logger: logger}
}

// Listen binds addr and returns the bound address, useful when the port was
// chosen by the kernel.
func (s *TCPServer) Listen(addr string) (net.Addr, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	return listener.Addr(), nil
}

// Serve runs the accept loop until the context is canceled or the listener
// closes. Listen must have been called first.
func (s *TCPServer) Serve(ctx context.Context) error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()

	if listener == nil {
		return fmt.Errorf("serve called before listen")
	}

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}

		logger := shared.WithLogger(s.logger, "remote", conn.RemoteAddr().String())
		logger.Info("client connected")
		go s.handleConn(conn, logger)
	}
}

// Close shuts the listener down.
func (s *TCPServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

// handleConn reads request lines until the client goes away. Only transport
// faults end the loop; every decoded line gets a newline-terminated
// response. A client that disconnects mid-request simply stops receiving
// responses; an admitted mutation always completes.
func (s *TCPServer) handleConn(conn net.Conn, logger *log.Logger) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		response := s.dispatcher.Handle(scanner.Text())
		if _, err := conn.Write([]byte(response + "\n")); err != nil {
			logger.Warn("client write failed", "error", err)
			return
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Warn("client read failed", "error", err)
		return
	}
	logger.Info("client disconnected")
}
