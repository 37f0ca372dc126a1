// Package app is the demo scene: three modules that find each other
// through the registry and are driven by the frame clock.
package app

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"
)

// Combat fires attacks on a cooldown.
type Combat interface {
	Attacks() int
}

// Dungeon walks through rooms.
type Dungeon interface {
	Room() int
}

// Memory keeps a bounded log of scene events.
type Memory interface {
	Remember(event string)
	Recall() []string
}

// ── Unit ──────────────────────────────────────────────────────────────────────

// Unit is the embedded base of CombatModule, resolvable on its own.
type Unit struct {
	Name string
	HP   int
}

// ── CombatModule ──────────────────────────────────────────────────────────────

// CombatModule is tickable and fixed-tickable.
type CombatModule struct {
	Unit
	Cooldown float64 // seconds between attacks
	Regen    int     // HP per fixed step

	memory  Memory
	timer   float64
	attacks int
	maxHP   int
}

func NewCombatModule(name string, hp int, cooldown float64) *CombatModule {
	return &CombatModule{
		Unit:     Unit{Name: name, HP: hp},
		Cooldown: cooldown,
		Regen:    1,
		timer:    cooldown,
		maxHP:    hp,
	}
}

func (m *CombatModule) Tick(dt float64) {
	if m.Cooldown <= 0 {
		return
	}
	m.timer -= dt
	for m.timer <= 0 {
		m.timer += m.Cooldown
		m.attacks++
		m.HP -= 2
		if m.memory != nil {
			m.memory.Remember(fmt.Sprintf("%s attacks (#%d)", m.Name, m.attacks))
		}
	}
}

func (m *CombatModule) FixedTick(float64) {
	m.HP = min(m.HP+m.Regen, m.maxHP)
}

func (m *CombatModule) Attacks() int { return m.attacks }

// ── DungeonModule ─────────────────────────────────────────────────────────────

// DungeonModule is late-tickable and disposable.
type DungeonModule struct {
	RoomTime float64 // seconds per room

	log     zerolog.Logger
	memory  Memory
	room    int
	elapsed float64
}

func NewDungeonModule(log zerolog.Logger, roomTime float64) *DungeonModule {
	return &DungeonModule{
		RoomTime: roomTime,
		log:      log.With().Str("component", "dungeon").Logger(),
		room:     1,
	}
}

func (m *DungeonModule) LateTick(dt float64) {
	if m.RoomTime <= 0 {
		return
	}
	m.elapsed += dt
	for m.elapsed >= m.RoomTime {
		m.elapsed -= m.RoomTime
		m.room++
		m.log.Debug().Int("room", m.room).Msg("entered room")
		if m.memory != nil {
			m.memory.Remember(fmt.Sprintf("entered room %d", m.room))
		}
	}
}

func (m *DungeonModule) Dispose() {
	m.log.Info().Int("room", m.room).Msg("dungeon closed")
}

func (m *DungeonModule) Room() int { return m.room }

// ── MemoryModule ──────────────────────────────────────────────────────────────

// MemoryModule is disposable; Dispose forgets everything.
type MemoryModule struct {
	Capacity int

	events   []string
	disposed bool
}

func NewMemoryModule(capacity int) *MemoryModule {
	return &MemoryModule{Capacity: capacity}
}

func (m *MemoryModule) Remember(event string) {
	if m.disposed {
		return
	}
	m.events = append(m.events, event)
	if m.Capacity > 0 && len(m.events) > m.Capacity {
		m.events = slices.Delete(m.events, 0, len(m.events)-m.Capacity)
	}
}

func (m *MemoryModule) Recall() []string { return slices.Clone(m.events) }

func (m *MemoryModule) Dispose() {
	m.events = nil
	m.disposed = true
}
