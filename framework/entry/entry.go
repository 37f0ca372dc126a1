// Package entry owns the lifetime of one registry.
//
// An Entry is created once and handed to whoever needs the registry. Init
// gives it a fresh, empty Container; Release tears every instance down and
// drops the container. Calls made while released fail with
// ErrNotInitialized, except the broadcasts, which do nothing.
package entry

import (
	"errors"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-entry/framework/container"
)

var (
	ErrNotInitialized     = errors.New("entry: not initialized")
	ErrAlreadyInitialized = errors.New("entry: already initialized")
)

// Entry is an explicit, owned registry context.
type Entry struct {
	opts []container.Option
	log  zerolog.Logger
	c    *container.Container
}

// New returns a released Entry. opts are applied to every container Init
// creates.
func New(log zerolog.Logger, opts ...container.Option) *Entry {
	return &Entry{
		opts: append([]container.Option{container.WithLogger(log)}, opts...),
		log:  log.With().Str("component", "entry").Logger(),
	}
}

// Init creates a fresh, empty container.
func (e *Entry) Init() error {
	if e.IsInitialized() {
		e.log.Warn().Msg("already initialized")
		return ErrAlreadyInitialized
	}
	e.c = container.New(e.opts...)
	e.log.Debug().Msg("initialized")
	return nil
}

// Release tears down every instance and drops the container.
func (e *Entry) Release() error {
	if !e.IsInitialized() {
		e.log.Warn().Msg("already released")
		return ErrNotInitialized
	}
	c := e.c
	e.c = nil
	c.RemoveAll()
	e.log.Debug().Msg("released")
	return nil
}

func (e *Entry) IsInitialized() bool { return e.c != nil }

// Container returns the live container.
func (e *Entry) Container() (*container.Container, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	return e.c, nil
}

func (e *Entry) check() error {
	if e.c == nil {
		e.log.Warn().Msg("not initialized")
		return ErrNotInitialized
	}
	return nil
}

// ── Pass-throughs ─────────────────────────────────────────────────────────────

func (e *Entry) Bind(key reflect.Type, instance any) error {
	if err := e.check(); err != nil {
		return err
	}
	return e.c.Bind(key, instance)
}

func (e *Entry) BindSelf(instance any) error {
	if err := e.check(); err != nil {
		return err
	}
	return e.c.BindSelf(instance)
}

func (e *Entry) BindAndSelf(key reflect.Type, instance any) error {
	if err := e.check(); err != nil {
		return err
	}
	return e.c.BindAndSelf(key, instance)
}

func (e *Entry) BindInheritances(instance any) error {
	if err := e.check(); err != nil {
		return err
	}
	return e.c.BindInheritances(instance)
}

func (e *Entry) BindInheritancesAndSelf(instance any) error {
	if err := e.check(); err != nil {
		return err
	}
	return e.c.BindInheritancesAndSelf(instance)
}

func (e *Entry) TryResolve(key reflect.Type) (any, bool, error) {
	if err := e.check(); err != nil {
		return nil, false, err
	}
	return e.c.TryResolve(key)
}

func (e *Entry) Remove(key reflect.Type) error {
	if err := e.check(); err != nil {
		return err
	}
	return e.c.Remove(key)
}

func (e *Entry) RemoveInstance(key reflect.Type) error {
	if err := e.check(); err != nil {
		return err
	}
	return e.c.RemoveInstance(key)
}

func (e *Entry) RemoveAll() error {
	if err := e.check(); err != nil {
		return err
	}
	e.c.RemoveAll()
	return nil
}

// ── Frame clock target ────────────────────────────────────────────────────────

func (e *Entry) Tick(dt float64) {
	if e.c != nil {
		e.c.Tick(dt)
	}
}

func (e *Entry) FixedTick(dt float64) {
	if e.c != nil {
		e.c.FixedTick(dt)
	}
}

func (e *Entry) LateTick(dt float64) {
	if e.c != nil {
		e.c.LateTick(dt)
	}
}

// ── Introspection ─────────────────────────────────────────────────────────────

// InstanceTypes returns nil when released.
func (e *Entry) InstanceTypes() []reflect.Type {
	if e.c == nil {
		return nil
	}
	return e.c.InstanceTypes()
}

// Keys returns nil when released.
func (e *Entry) Keys() []reflect.Type {
	if e.c == nil {
		return nil
	}
	return e.c.Keys()
}

func (e *Entry) InstanceTypeOf(key reflect.Type) (reflect.Type, bool) {
	if e.c == nil {
		return nil, false
	}
	return e.c.InstanceTypeOf(key)
}

func (e *Entry) KeysOf(concrete reflect.Type) ([]reflect.Type, bool) {
	if e.c == nil {
		return nil, false
	}
	return e.c.KeysOf(concrete)
}

func (e *Entry) CapabilitiesOf(concrete reflect.Type) ([]container.Capability, bool) {
	if e.c == nil {
		return nil, false
	}
	return e.c.CapabilitiesOf(concrete)
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// BindAs binds instance under K.
func BindAs[K any](e *Entry, instance any) error {
	return e.Bind(container.KeyOf[K](), instance)
}

// Resolve returns the instance bound under K, or false when released.
func Resolve[K any](e *Entry) (K, bool) {
	if e.c == nil {
		var zero K
		return zero, false
	}
	return container.Resolve[K](e.c)
}
