// Package server runs the HTTP API until its context is canceled.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
)

// Tuning knobs for the HTTP server.
const (
	maxHeaderBytes    = 1 << 20 // 1 MB
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 10 * time.Second // upgraded /ws connections clear their deadlines
	idleTimeout       = 60 * time.Second

	// ShutdownTimeout bounds how long in-flight requests may take to drain.
	ShutdownTimeout = 10 * time.Second
)

// Server owns one *http.Server and its listener.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
}

// New binds port ("8080" or ":8080") so that a busy port fails at startup,
// before any background work is started.
func New(port string, handler http.Handler) (*Server, error) {
	ln, err := net.Listen("tcp", normalizeAddr(port))
	if err != nil {
		return nil, err
	}
	return &Server{
		httpServer: &http.Server{
			Handler:           handler,
			MaxHeaderBytes:    maxHeaderBytes,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
		},
		listener: ln,
	}, nil
}

// normalizeAddr accepts "8080", ":8080" or "host:port"; an empty port means ":8080".
func normalizeAddr(port string) string {
	switch {
	case port == "":
		return ":8080"
	case strings.Contains(port, ":"):
		return port
	default:
		return ":" + port
	}
}

// Addr is the bound listener address.
func (s *Server) Addr() string { return s.listener.Addr().String() }

// Run serves until ctx is canceled, then drains in-flight requests for at
// most ShutdownTimeout. A clean shutdown returns nil.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
