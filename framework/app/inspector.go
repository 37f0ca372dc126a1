package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/km-arc/go-entry/framework/container"
	"github.com/km-arc/go-entry/framework/inspect"
)

const inspectShutdownTimeout = 5 * time.Second

// startInspector listens on Inspect.Addr and serves the Publisher's
// snapshots. It returns a nil server when the inspector is disabled.
func (a *Application) startInspector() (*http.Server, error) {
	if !a.Config.Inspect.Enabled {
		a.log.Debug().Msg("inspector disabled")
		return nil, nil
	}
	c, err := a.Entry.Container()
	if err != nil {
		return nil, err
	}
	pub, ok := container.Resolve[*inspect.Publisher](c)
	if !ok {
		return nil, errors.New("inspector enabled but no publisher is bound")
	}

	ln, err := net.Listen("tcp", a.Config.Inspect.Addr)
	if err != nil {
		return nil, fmt.Errorf("inspector listen %s: %w", a.Config.Inspect.Addr, err)
	}
	a.inspectAddr.Store(ln.Addr().String())

	srv := &http.Server{
		Handler:           inspect.NewHandler(pub, a.log, inspect.WithBuildInfo(a.Version(), a.Environment())),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.log.Info().Str("addr", ln.Addr().String()).Msg("inspector listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error().Err(err).Msg("inspector failed")
		}
	}()
	return srv, nil
}

func (a *Application) stopInspector(srv *http.Server) error {
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), inspectShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		a.log.Error().Err(err).Msg("inspector shutdown failed")
		return fmt.Errorf("inspector shutdown: %w", err)
	}
	a.log.Debug().Msg("inspector stopped")
	return nil
}
