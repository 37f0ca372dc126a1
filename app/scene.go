package app

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-entry/framework/container"
)

// SceneProvider binds the demo modules.
//
// Bound keys:
//   - Combat, *Unit, *CombatModule
//   - Dungeon, *DungeonModule
//   - Memory, *MemoryModule
type SceneProvider struct {
	Log zerolog.Logger
}

func (p *SceneProvider) Register(c *container.Container) error {
	in := c.Introspector()
	if err := errors.Join(
		container.Declare[Combat](in),
		container.Declare[Dungeon](in),
		container.Declare[Memory](in),
	); err != nil {
		return err
	}

	return errors.Join(
		c.BindInheritancesAndSelf(NewCombatModule("knight", 20, 0.5)),
		c.BindInheritancesAndSelf(NewDungeonModule(p.Log, 2)),
		c.BindInheritancesAndSelf(NewMemoryModule(32)),
	)
}

// Boot hands the shared Memory to the modules that write to it.
func (p *SceneProvider) Boot(c *container.Container) error {
	memory, ok := container.Resolve[Memory](c)
	if !ok {
		return fmt.Errorf("scene: %w", &container.KeyError{Op: "boot", Key: container.KeyOf[Memory](), Err: container.ErrUnknownKey})
	}
	if combat, ok := container.Resolve[*CombatModule](c); ok {
		combat.memory = memory
	}
	if dungeon, ok := container.Resolve[*DungeonModule](c); ok {
		dungeon.memory = memory
	}
	memory.Remember("scene booted")
	p.Log.Info().Int("instances", c.Len()).Int("keys", len(c.Keys())).Msg("scene ready")
	return nil
}
