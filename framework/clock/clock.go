// Package clock drives a registry's frame broadcasts.
//
// Every Step measures the time since the previous one, runs as many fixed
// steps as the accumulated time allows, then the variable tick, then the
// late tick. Run steps on a ticker until its context ends and then fires the
// shutdown hooks once.
package clock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Target receives the frame broadcasts.
type Target interface {
	Tick(dt float64)
	FixedTick(dt float64)
	LateTick(dt float64)
}

// DefaultMaxDelta caps a single frame's delta.
const DefaultMaxDelta = time.Second / 3

// Settings configures a Clock.
type Settings struct {
	FrameInterval time.Duration
	FixedStep     time.Duration // 0 disables fixed ticks
	MaxDelta      time.Duration // 0 means DefaultMaxDelta
	TimeScale     float64       // negative is treated as 0
}

// FromRates builds Settings from per-second rates and a max delta in seconds.
func FromRates(frameRate, fixedRate, maxDelta, timeScale float64) Settings {
	s := Settings{TimeScale: timeScale}
	if frameRate > 0 {
		s.FrameInterval = time.Duration(float64(time.Second) / frameRate)
	}
	if fixedRate > 0 {
		s.FixedStep = time.Duration(float64(time.Second) / fixedRate)
	}
	if maxDelta > 0 {
		s.MaxDelta = time.Duration(maxDelta * float64(time.Second))
	}
	return s
}

// Frame describes one completed Step.
type Frame struct {
	Index      uint64
	Delta      float64 // scaled seconds passed to Tick and LateTick
	FixedSteps int
}

// Option configures a Clock.
type Option func(*Clock)

func WithTimeProvider(tp TimeProvider) Option {
	return func(c *Clock) { c.time = tp }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Clock) { c.log = log.With().Str("component", "clock").Logger() }
}

// Clock is not safe for concurrent Step calls.
type Clock struct {
	settings Settings
	target   Target
	time     TimeProvider
	log      zerolog.Logger

	started bool
	last    time.Time
	acc     time.Duration
	index   uint64

	afterFrame []func(Frame)
	onShutdown []func()
	stopOnce   sync.Once
}

func New(target Target, s Settings, opts ...Option) *Clock {
	if s.MaxDelta <= 0 {
		s.MaxDelta = DefaultMaxDelta
	}
	if s.TimeScale < 0 {
		s.TimeScale = 0
	}
	if s.FrameInterval <= 0 {
		s.FrameInterval = time.Second / 60
	}
	c := &Clock{
		settings: s,
		target:   target,
		time:     RealTime{},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Clock) Settings() Settings { return c.settings }

// AfterFrame registers fn to run at the end of every Step.
func (c *Clock) AfterFrame(fn func(Frame)) {
	c.afterFrame = append(c.afterFrame, fn)
}

// OnShutdown registers fn to run once when Run ends or Shutdown is called.
func (c *Clock) OnShutdown(fn func()) {
	c.onShutdown = append(c.onShutdown, fn)
}

// Step advances one frame. The first Step has a zero delta.
func (c *Clock) Step() Frame {
	now := c.time.Now()
	var d time.Duration
	if c.started {
		d = now.Sub(c.last)
	}
	c.started = true
	c.last = now

	if d < 0 {
		d = 0
	}
	if d > c.settings.MaxDelta {
		c.log.Debug().Dur("delta", d).Dur("max", c.settings.MaxDelta).Msg("delta clamped")
		d = c.settings.MaxDelta
	}
	d = time.Duration(float64(d) * c.settings.TimeScale)

	c.index++
	f := Frame{Index: c.index, Delta: d.Seconds()}

	if step := c.settings.FixedStep; step > 0 {
		c.acc += d
		for c.acc >= step {
			c.target.FixedTick(step.Seconds())
			c.acc -= step
			f.FixedSteps++
		}
	}

	c.target.Tick(f.Delta)
	c.target.LateTick(f.Delta)

	for _, fn := range c.afterFrame {
		fn(f)
	}
	return f
}

// Run steps once per FrameInterval until ctx ends. Cancellation and deadline
// expiry are a normal stop and return nil.
func (c *Clock) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.settings.FrameInterval)
	defer ticker.Stop()

	c.log.Info().
		Dur("frame", c.settings.FrameInterval).
		Dur("fixed", c.settings.FixedStep).
		Float64("scale", c.settings.TimeScale).
		Msg("clock running")

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Uint64("frames", c.index).Msg("clock stopped")
			c.Shutdown()
			err := ctx.Err()
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		case <-ticker.C:
			c.Step()
		}
	}
}

// Shutdown fires the shutdown hooks. Later calls do nothing.
func (c *Clock) Shutdown() {
	c.stopOnce.Do(func() {
		for _, fn := range c.onShutdown {
			fn()
		}
	})
}
