package utils

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	defaultReadTimeout     = 60 * time.Second
	defaultWriteTimeout    = defaultReadTimeout
	defaultShutdownTimeout = 30 * time.Second
)

// Server wraps http.Server with signal-driven graceful shutdown and
// shutdown hooks for background components (reclaimer, websocket hub).
type Server struct {
	*http.Server

	hooks      []func()
	signalChan chan os.Signal
}

// NewServer creates a Server with default timeouts.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
		signalChan: make(chan os.Signal, 1),
	}
}

// OnShutdown registers a hook run after the HTTP server has drained.
// Hooks run in registration order.
func (srv *Server) OnShutdown(fn func()) {
	srv.hooks = append(srv.hooks, fn)
}

// ListenAndServe serves until SIGINT or SIGTERM, then shuts down gracefully
// and runs the registered hooks. Returns nil on clean shutdown.
func (srv *Server) ListenAndServe() error {
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	signal.Notify(srv.signalChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-srv.signalChan:
		Sugar.Infof("received %s, graceful shutting down HTTP server", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
	} else {
		Sugar.Info("HTTP server shutdown success")
	}

	for _, fn := range srv.hooks {
		fn()
	}
	return nil
}

// GraceServer starts an HTTP server with graceful shutdown and optional
// shutdown hooks.
func GraceServer(addr string, handler http.Handler, hooks ...func()) error {
	srv := NewServer(addr, handler)
	for _, fn := range hooks {
		srv.OnShutdown(fn)
	}
	return srv.ListenAndServe()
}
