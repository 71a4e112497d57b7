package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tunegrid/tunegrid/internal/dispatch"
	"github.com/tunegrid/tunegrid/internal/player"
	"github.com/tunegrid/tunegrid/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve loads the snapshot, ingests the songs directory, and runs the TCP
// session server alongside the HTTP media server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	store, snapshots, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	tcpPort := r.config.Server.TCPPort
	if p := int(cmd.Int("tcp-port")); p != 0 {
		tcpPort = p
	}
	httpPort := r.config.Server.HTTPPort
	if p := int(cmd.Int("http-port")); p != 0 {
		httpPort = p
	}

	if dir := r.config.Catalog.SongsDir; dir != "" {
		added, skipped, err := store.IngestDir(dir)
		if err != nil {
			r.logger.Warn("songs directory scan failed", "dir", dir, "error", err)
		} else {
			r.logger.Info("songs directory scanned", "dir", dir, "added", added, "skipped", len(skipped))
			for _, name := range skipped {
				r.logger.Debug("skipped media file", "name", name)
			}
		}
	}

	baseURL := fmt.Sprintf("http://%s:%d", r.config.Server.PublicHost, httpPort)
	sessions := player.NewTable()

	dispatcher := dispatch.New(dispatch.Opts{
		Store:     store,
		Sessions:  sessions,
		Snapshots: snapshots,
		Logger:    r.logger,
		BaseURL:   baseURL,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tcpServer := server.NewTCPServer(dispatcher, r.logger)
	addr, err := tcpServer.Listen(fmt.Sprintf("%s:%d", r.config.Server.Host, tcpPort))
	if err != nil {
		return fmt.Errorf("failed to start session listener: %w", err)
	}
	r.logger.Info("session server listening", "addr", addr.String())

	fileServer := server.NewFileServer(
		r.config.Catalog.SongsDir,
		r.logger,
		server.Logging(r.logger),
		server.RateLimit(r.config.Server.RequestsPerSec, r.config.Server.RequestBurst),
	)
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", r.config.Server.Host, httpPort),
		Handler: fileServer,
	}

	httpErr := make(chan error, 1)
	go func() {
		r.logger.Info("media server listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErr <- err
		}
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- tcpServer.Serve(ctx)
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutting down")
	case err := <-httpErr:
		r.logger.Error("media server failed", "error", err)
	case err := <-serveErr:
		if err != nil {
			r.logger.Error("session server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("media server shutdown", "error", err)
	}
	if err := tcpServer.Close(); err != nil {
		r.logger.Warn("session server close", "error", err)
	}

	if err := r.persistStore(store, snapshots); err != nil {
		return err
	}
	r.logger.Info("state saved", "path", r.config.Snapshot.Path)
	return nil
}
