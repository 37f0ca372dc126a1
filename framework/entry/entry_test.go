package entry_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-entry/framework/container"
	"github.com/km-arc/go-entry/framework/entry"
)

type Greeter interface{ Greet() string }

type service struct {
	ticks, fixed, late []float64
	disposed           int
}

func (s *service) Greet() string        { return "hi" }
func (s *service) Tick(dt float64)      { s.ticks = append(s.ticks, dt) }
func (s *service) FixedTick(dt float64) { s.fixed = append(s.fixed, dt) }
func (s *service) LateTick(dt float64)  { s.late = append(s.late, dt) }
func (s *service) Dispose()             { s.disposed++ }

var keyGreeter = container.KeyOf[Greeter]()

func live(t *testing.T) *entry.Entry {
	t.Helper()
	e := entry.New(zerolog.Nop())
	require.NoError(t, e.Init())
	return e
}

func TestEntry_InitRelease(t *testing.T) {
	e := entry.New(zerolog.Nop())
	assert.False(t, e.IsInitialized())

	require.NoError(t, e.Init())
	assert.True(t, e.IsInitialized())
	assert.ErrorIs(t, e.Init(), entry.ErrAlreadyInitialized)

	require.NoError(t, e.Release())
	assert.False(t, e.IsInitialized())
	assert.ErrorIs(t, e.Release(), entry.ErrNotInitialized)
}

func TestEntry_ReleaseDisposesEverything(t *testing.T) {
	e := live(t)
	s := &service{}
	require.NoError(t, e.BindInheritancesAndSelf(s))
	require.NoError(t, e.Bind(keyGreeter, s))

	require.NoError(t, e.Release())
	assert.Equal(t, 1, s.disposed)
}

// handoff binds its successor into the container while being disposed.
type handoff struct {
	c         *container.Container
	successor *service
}

func (h *handoff) Dispose() {
	h.successor = &service{}
	_ = h.c.BindSelf(h.successor)
}

func TestEntry_ReleaseDisposesInstancesBoundDuringDispose(t *testing.T) {
	e := live(t)
	c, err := e.Container()
	require.NoError(t, err)
	h := &handoff{c: c}
	require.NoError(t, e.BindSelf(h))

	require.NoError(t, e.Release())

	require.NotNil(t, h.successor)
	assert.Equal(t, 1, h.successor.disposed)
	assert.Equal(t, 0, c.Len())
}

func TestEntry_ReinitIsFreshAndEmpty(t *testing.T) {
	e := live(t)
	require.NoError(t, entry.BindAs[Greeter](e, &service{}))
	first, err := e.Container()
	require.NoError(t, err)

	require.NoError(t, e.Release())
	require.NoError(t, e.Init())

	second, err := e.Container()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Empty(t, e.Keys())
	assert.Empty(t, e.InstanceTypes())

	_, ok := entry.Resolve[Greeter](e)
	assert.False(t, ok)
}

func TestEntry_NotInitialized(t *testing.T) {
	e := entry.New(zerolog.Nop())
	s := &service{}

	assert.ErrorIs(t, e.Bind(keyGreeter, s), entry.ErrNotInitialized)
	assert.ErrorIs(t, e.BindSelf(s), entry.ErrNotInitialized)
	assert.ErrorIs(t, e.BindAndSelf(keyGreeter, s), entry.ErrNotInitialized)
	assert.ErrorIs(t, e.BindInheritances(s), entry.ErrNotInitialized)
	assert.ErrorIs(t, e.BindInheritancesAndSelf(s), entry.ErrNotInitialized)
	assert.ErrorIs(t, e.Remove(keyGreeter), entry.ErrNotInitialized)
	assert.ErrorIs(t, e.RemoveInstance(keyGreeter), entry.ErrNotInitialized)
	assert.ErrorIs(t, e.RemoveAll(), entry.ErrNotInitialized)

	_, _, err := e.TryResolve(keyGreeter)
	assert.ErrorIs(t, err, entry.ErrNotInitialized)
	_, err = e.Container()
	assert.ErrorIs(t, err, entry.ErrNotInitialized)

	assert.NotPanics(t, func() {
		e.Tick(1)
		e.FixedTick(1)
		e.LateTick(1)
	})
	assert.Nil(t, e.Keys())
	_, ok := e.KeysOf(keyGreeter)
	assert.False(t, ok)
}

func TestEntry_BroadcastsReachContainer(t *testing.T) {
	e := live(t)
	s := &service{}
	require.NoError(t, e.BindAndSelf(keyGreeter, s))

	e.FixedTick(0.02)
	e.Tick(0.016)
	e.LateTick(0.016)

	assert.Equal(t, []float64{0.02}, s.fixed)
	assert.Equal(t, []float64{0.016}, s.ticks)
	assert.Equal(t, []float64{0.016}, s.late)
}

func TestEntry_PassThroughs(t *testing.T) {
	e := live(t)
	s := &service{}
	require.NoError(t, e.BindAndSelf(keyGreeter, s))

	inst, ok, err := e.TryResolve(keyGreeter)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, s, inst)

	concrete, ok := e.InstanceTypeOf(keyGreeter)
	require.True(t, ok)
	assert.Equal(t, container.KeyOf[*service](), concrete)

	caps, ok := e.CapabilitiesOf(concrete)
	require.True(t, ok)
	assert.Len(t, caps, 4)

	require.NoError(t, e.Remove(keyGreeter))
	require.NoError(t, e.RemoveInstance(concrete))
	assert.Equal(t, 1, s.disposed)
	assert.NoError(t, e.RemoveAll())
}

func TestEntry_StrictOptionIsApplied(t *testing.T) {
	e := entry.New(zerolog.Nop(), container.WithStrict(true))
	require.NoError(t, e.Init())

	assert.Panics(t, func() { _ = e.Bind(container.KeyOf[container.Disposable](), &service{}) })
}
