package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Run serves handler on cfg.Addr until ctx is cancelled, then shuts down
// gracefully within cfg.ShutdownTimeout. ready, when non-nil, receives the
// bound address once the listener is open.
func Run(ctx context.Context, cfg Config, handler http.Handler, ready func(addr net.Addr)) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}
	if ready != nil {
		ready(ln.Addr())
	}

	timeout := time.Duration(cfg.ShutdownTimeout)
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	srv := &http.Server{Handler: handler}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Mount builds a mux with the roster service registered.
func Mount(c Committer) *http.ServeMux {
	mux := http.NewServeMux()
	path, handler := NewHandler(c)
	mux.Handle(path, handler)
	return mux
}
