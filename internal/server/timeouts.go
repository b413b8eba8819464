// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts and graceful shutdown.
//
// Production hardening recommends:
//
//   • ReadHeaderTimeout – abort slow-loris headers (5 s)
//   • ReadTimeout       – cap request body reads (10 s)
//   • WriteTimeout      – cap total response time (WriteTimeout below)
//   • IdleTimeout       – close keep-alives on idle clients (60 s)
//
// WriteTimeout is set by the caller because POST /api/sync waits for a
// full upstream fetch.  This helper centralises the rest so cmd/web doesn't
// repeat boilerplate.
//

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Defaults applied by New.
const (
	ReadHeaderTimeout = 5 * time.Second
	ReadTimeout       = 10 * time.Second
	IdleTimeout       = 60 * time.Second
	ShutdownGrace     = 15 * time.Second
)

// New constructs an *http.Server with sensible defaults.  writeTimeout
// should exceed the upstream fetch timeout so a synchronous sync request
// can finish.
func New(addr string, handler http.Handler, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       IdleTimeout,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to ShutdownGrace.  It returns nil on a clean shutdown.
func Run(ctx context.Context, srv *http.Server, log *zap.SugaredLogger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infow("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down", "grace", ShutdownGrace)
	sctx, cancel := context.WithTimeout(context.Background(), ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	return <-errCh
}
