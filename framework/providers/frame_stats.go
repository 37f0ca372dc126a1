package providers

import (
	"github.com/rs/zerolog"
)

// Stats is a copy of the counters.
type Stats struct {
	Frames     uint64
	FixedSteps uint64
	Elapsed    float64 // scaled seconds
	FixedTime  float64
	LastDelta  float64
	MaxDelta   float64
}

// FrameStats counts frames and fixed steps. It is tickable, fixed-tickable
// and disposable; Dispose logs the final totals.
type FrameStats struct {
	log      zerolog.Logger
	logEvery float64
	nextLog  float64
	stats    Stats
}

func NewFrameStats(log zerolog.Logger, logEvery float64) *FrameStats {
	return &FrameStats{
		log:      log.With().Str("component", "frame-stats").Logger(),
		logEvery: logEvery,
		nextLog:  logEvery,
	}
}

func (s *FrameStats) Tick(dt float64) {
	s.stats.Frames++
	s.stats.Elapsed += dt
	s.stats.LastDelta = dt
	if dt > s.stats.MaxDelta {
		s.stats.MaxDelta = dt
	}

	if s.logEvery > 0 && s.stats.Elapsed >= s.nextLog {
		s.nextLog += s.logEvery
		s.summary(s.log.Info()).Msg("frame stats")
	}
}

func (s *FrameStats) FixedTick(dt float64) {
	s.stats.FixedSteps++
	s.stats.FixedTime += dt
}

func (s *FrameStats) Dispose() {
	s.summary(s.log.Info()).Msg("frame stats final")
}

// Stats returns the current counters. Call from the frame goroutine.
func (s *FrameStats) Stats() Stats { return s.stats }

// FPS is frames per scaled second, 0 before any time has passed.
func (s *FrameStats) FPS() float64 {
	if s.stats.Elapsed <= 0 {
		return 0
	}
	return float64(s.stats.Frames) / s.stats.Elapsed
}

func (s *FrameStats) summary(ev *zerolog.Event) *zerolog.Event {
	return ev.
		Uint64("frames", s.stats.Frames).
		Uint64("fixed_steps", s.stats.FixedSteps).
		Float64("elapsed", s.stats.Elapsed).
		Float64("fps", s.FPS()).
		Float64("max_delta", s.stats.MaxDelta)
}
