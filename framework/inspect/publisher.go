package inspect

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-entry/framework/container"
)

// Publisher captures a Snapshot after every LateTick. Bind it into the
// container it watches; it is late-tickable and disposable.
//
//	p := inspect.NewPublisher(c, log)
//	err := c.BindSelf(p)
type Publisher struct {
	c       *container.Container
	log     zerolog.Logger
	frames  uint64
	current atomic.Pointer[Snapshot]
}

func NewPublisher(c *container.Container, log zerolog.Logger) *Publisher {
	return &Publisher{
		c:   c,
		log: log.With().Str("component", "inspect").Logger(),
	}
}

// LateTick captures and publishes a snapshot. Runs on the frame goroutine.
func (p *Publisher) LateTick(float64) {
	p.frames++
	p.current.Store(Capture(p.c, p.frames))
}

// Dispose withdraws the published snapshot.
func (p *Publisher) Dispose() {
	p.current.Store(nil)
	p.log.Debug().Uint64("frames", p.frames).Msg("publisher disposed")
}

// Snapshot returns the latest snapshot. Safe from any goroutine.
func (p *Publisher) Snapshot() (*Snapshot, bool) {
	s := p.current.Load()
	return s, s != nil
}
