package providers

import (
	"reflect"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-entry/framework/config"
	"github.com/km-arc/go-entry/framework/container"
	"github.com/km-arc/go-entry/framework/inspect"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider makes the loaded configuration resolvable.
//
// Bound keys:
//   - *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(c *container.Container) error {
	return c.BindSelf(p.Config)
}

// ── FrameStatsProvider ────────────────────────────────────────────────────────

// FrameStatsProvider binds a FrameStats counter.
//
// Bound keys:
//   - *providers.FrameStats
type FrameStatsProvider struct {
	container.BaseProvider
	Log      zerolog.Logger
	LogEvery float64 // seconds between summaries, 0 disables them
}

func (p *FrameStatsProvider) Register(c *container.Container) error {
	return c.BindSelf(NewFrameStats(p.Log, p.LogEvery))
}

// ── InspectServiceProvider ────────────────────────────────────────────────────

// InspectServiceProvider binds a snapshot Publisher into the container it
// watches. It is deferred: nothing is bound until the Publisher is first
// resolved, which the inspector server does when it starts.
//
// Bound keys:
//   - *inspect.Publisher
type InspectServiceProvider struct {
	container.BaseProvider
	Log zerolog.Logger
}

func (p *InspectServiceProvider) Provides() []reflect.Type {
	return []reflect.Type{container.KeyOf[*inspect.Publisher]()}
}

func (p *InspectServiceProvider) Register(c *container.Container) error {
	return c.BindSelf(inspect.NewPublisher(c, p.Log))
}
