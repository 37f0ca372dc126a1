package container_test

import "github.com/km-arc/go-entry/framework/container"

// ── fixtures ──────────────────────────────────────────────────────────────────

type Named interface{ Name() string }

type Scored interface{ Score() int }

type Unused interface{ Unused() }

type Actor struct{ ID int }

// Player: Named, Scored, tickable and disposable, embeds Actor.
type Player struct {
	Actor
	name     string
	ticks    []float64
	disposed int
}

func (p *Player) Name() string    { return p.name }
func (p *Player) Score() int      { return 42 }
func (p *Player) Tick(dt float64) { p.ticks = append(p.ticks, dt) }
func (p *Player) Dispose()        { p.disposed++ }

// Enemy: Named only, no capabilities, no base.
type Enemy struct{ name string }

func (e *Enemy) Name() string { return e.name }

// Rig carries every capability.
type Rig struct {
	log      *[]string
	tag      string
	disposed int
}

func (r *Rig) Tick(dt float64)      { *r.log = append(*r.log, r.tag+":tick") }
func (r *Rig) FixedTick(dt float64) { *r.log = append(*r.log, r.tag+":fixed") }
func (r *Rig) LateTick(dt float64)  { *r.log = append(*r.log, r.tag+":late") }
func (r *Rig) Dispose()             { r.disposed++ }

// Ticker records deltas and runs an optional hook on every tick.
type Ticker struct {
	got  []float64
	hook func()
}

func (t *Ticker) Tick(dt float64) {
	t.got = append(t.got, dt)
	if t.hook != nil {
		t.hook()
	}
}

// SecondTicker is a distinct concrete type for multi-instance dispatch.
type SecondTicker struct{ Ticker }

// SelfRemover tears itself down from inside Dispose.
type SelfRemover struct {
	c        *container.Container
	disposed int
	err      error
}

func (s *SelfRemover) Dispose() {
	s.disposed++
	s.err = s.c.RemoveInstance(container.KeyOf[*SelfRemover]())
}

// Spawner binds a fresh Orphan from inside its own Dispose.
type Spawner struct {
	c        *container.Container
	child    *Orphan
	disposed int
}

func (s *Spawner) Dispose() {
	s.disposed++
	s.child = &Orphan{}
	_ = s.c.BindSelf(s.child)
}

// Orphan is only ever bound by a Spawner.
type Orphan struct{ disposed int }

func (o *Orphan) Dispose() { o.disposed++ }

// Exploder panics on Dispose.
type Exploder struct{ disposed int }

func (e *Exploder) Name() string { return "boom" }
func (e *Exploder) Dispose() {
	e.disposed++
	panic("dispose failed")
}

var (
	keyNamed  = container.KeyOf[Named]()
	keyScored = container.KeyOf[Scored]()
	keyActor  = container.KeyOf[*Actor]()
	keyPlayer = container.KeyOf[*Player]()
	keyEnemy  = container.KeyOf[*Enemy]()
)
