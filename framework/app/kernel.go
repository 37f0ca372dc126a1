package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-entry/framework/clock"
	"github.com/km-arc/go-entry/framework/config"
	"github.com/km-arc/go-entry/framework/container"
	"github.com/km-arc/go-entry/framework/entry"
	"github.com/km-arc/go-entry/framework/providers"
)

// Application wires one Entry to its providers, a frame clock and the
// optional inspector server.
//
//	application, err := app.New(cfg, log)
//	application.Register(&SceneProvider{})
//	err = application.Run(ctx)
type Application struct {
	Config    *config.Config
	Entry     *entry.Entry
	Providers *container.ProviderRegistry
	Clock     *clock.Clock

	log          zerolog.Logger
	inspectAddr  atomic.Value // string, set once the server listens
	statsLogTime float64
	tp           clock.TimeProvider
}

// Option configures an Application.
type Option func(*Application)

// WithTimeProvider drives the clock from tp instead of the wall clock.
func WithTimeProvider(tp clock.TimeProvider) Option {
	return func(a *Application) { a.tp = tp }
}

// WithStatsInterval logs frame stats every seconds of scaled time.
func WithStatsInterval(seconds float64) Option {
	return func(a *Application) { a.statsLogTime = seconds }
}

// New initializes the Entry and registers the framework providers.
func New(cfg *config.Config, log zerolog.Logger, opts ...Option) (*Application, error) {
	a := &Application{
		Config: cfg,
		log:    log.With().Str("component", "app").Logger(),
		tp:     clock.RealTime{},
	}
	for _, opt := range opts {
		opt(a)
	}

	a.Entry = entry.New(log, container.WithStrict(cfg.App.Strict))
	if err := a.Entry.Init(); err != nil {
		return nil, err
	}
	c, err := a.Entry.Container()
	if err != nil {
		return nil, err
	}
	a.Providers = container.NewProviderRegistry(c)

	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.FrameStatsProvider{Log: log, LogEvery: a.statsLogTime},
	}
	if cfg.Inspect.Enabled {
		core = append(core, &providers.InspectServiceProvider{Log: log})
	}
	for _, p := range core {
		if err := a.Providers.Register(p); err != nil {
			_ = a.Entry.Release()
			return nil, fmt.Errorf("app: %w", err)
		}
	}

	settings := clock.FromRates(cfg.Clock.FrameRate, cfg.Clock.FixedRate, cfg.Clock.MaxDelta, cfg.Clock.TimeScale)
	a.Clock = clock.New(a.Entry, settings, clock.WithLogger(log), clock.WithTimeProvider(a.tp))
	a.Clock.OnShutdown(a.release)
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Container returns the live container, or nil after shutdown.
func (a *Application) Container() *container.Container {
	c, _ := a.Entry.Container()
	return c
}

// Run boots the providers if needed, starts the inspector when enabled and
// drives the clock until ctx ends or RunFor elapses. The Entry is released
// before Run returns.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			a.Clock.Shutdown()
			return fmt.Errorf("app: %w", err)
		}
	}

	if d := a.Config.Clock.RunFor; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(d*float64(time.Second)))
		defer cancel()
	}

	srv, err := a.startInspector()
	if err != nil {
		a.Clock.Shutdown()
		return fmt.Errorf("app: %w", err)
	}

	a.log.Info().
		Str("name", a.Config.App.Name).
		Str("version", a.Version()).
		Str("env", a.Environment()).
		Bool("debug", a.IsDebug()).
		Float64("run_for", a.Config.Clock.RunFor).
		Msg("running")

	runErr := a.Clock.Run(ctx)

	if err := a.stopInspector(srv); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// InspectAddr is the inspector's listen address once Run has started it.
func (a *Application) InspectAddr() string {
	s, _ := a.inspectAddr.Load().(string)
	return s
}

func (a *Application) release() {
	if !a.Entry.IsInitialized() {
		return
	}
	if err := a.Entry.Release(); err != nil {
		a.log.Warn().Err(err).Msg("release failed")
		return
	}
	a.log.Info().Msg("entry released")
}

// ── Environment ───────────────────────────────────────────────────────────────

func (a *Application) Environment() string { return a.Config.App.Env }
func (a *Application) IsDebug() bool       { return a.Config.App.Debug }
func (a *Application) Version() string     { return "0.1.0" }
