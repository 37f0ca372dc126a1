package container

import (
	"errors"
	"reflect"
	"slices"
	"sort"

	"github.com/rs/zerolog"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container is a type-keyed registry of shared instances.
//
// Many keys (interfaces, the embedded base type, the concrete type itself)
// may resolve to one instance, but each concrete type is tracked at most
// once. On first bind the container records which capabilities the instance
// has and adds it to the matching broadcast lists. An instance is torn down
// when its last key is removed or when removal is forced.
//
// A Container is not safe for concurrent use. Drive it from one goroutine,
// typically the frame loop.
type Container struct {
	introspector *Introspector
	log          zerolog.Logger
	strict       bool

	// concrete type → record
	records map[reflect.Type]*record

	// concrete types in record creation order
	order []reflect.Type

	// key → concrete type
	index map[reflect.Type]reflect.Type

	// capability → records in bind order
	lists map[Capability]*dispatchList

	// loads a deferred provider for an unbound key; set by ProviderRegistry
	onMiss func(key reflect.Type) (bool, error)
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		introspector: NewIntrospector(),
		log:          zerolog.Nop(),
		records:      make(map[reflect.Type]*record),
		index:        make(map[reflect.Type]reflect.Type),
		lists:        make(map[Capability]*dispatchList, len(capabilityOrder)),
	}
	for _, cp := range capabilityOrder {
		c.lists[cp] = &dispatchList{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Introspector returns the introspector the container validates keys with.
func (c *Container) Introspector() *Introspector { return c.introspector }

// ── Binding ───────────────────────────────────────────────────────────────────

// Bind makes instance resolvable under key.
//
//	err := c.Bind(container.KeyOf[Renderer](), renderer)
//
// It fails with ErrReservedKey for capability interfaces, ErrInvalidKey when
// key is not a candidate key of the instance's type, and ErrDuplicateKey when
// key (or the instance's concrete type) is already held by something else.
// A rejected bind leaves the registry unchanged.
func (c *Container) Bind(key reflect.Type, instance any) error {
	return c.report(c.bind("bind", key, instance))
}

// BindSelf binds instance under its own concrete type.
func (c *Container) BindSelf(instance any) error {
	if isNilValue(reflect.ValueOf(instance)) {
		return c.report(&KeyError{Op: "bind", Err: ErrInvalidKey})
	}
	return c.Bind(reflect.TypeOf(instance), instance)
}

// BindAndSelf binds instance under key and under its concrete type.
func (c *Container) BindAndSelf(key reflect.Type, instance any) error {
	if isNilValue(reflect.ValueOf(instance)) {
		return c.report(&KeyError{Op: "bind", Key: key, Err: ErrInvalidKey})
	}
	return c.bindAll("bind", []reflect.Type{key, reflect.TypeOf(instance)}, instance)
}

// BindInheritances binds instance under every candidate key except its own
// type: each declared interface it implements and its embedded base.
func (c *Container) BindInheritances(instance any) error {
	return c.bindCandidates(instance, false)
}

// BindInheritancesAndSelf is BindInheritances plus the concrete type.
func (c *Container) BindInheritancesAndSelf(instance any) error {
	return c.bindCandidates(instance, true)
}

func (c *Container) bindCandidates(instance any, includeSelf bool) error {
	if isNilValue(reflect.ValueOf(instance)) {
		return c.report(&KeyError{Op: "bind", Err: ErrInvalidKey})
	}
	concrete := reflect.TypeOf(instance)
	keys := c.introspector.CandidateKeys(concrete, includeSelf)
	if len(keys) == 0 {
		c.log.Warn().Stringer("instance", concrete).Msg("bind: no candidate keys, declare its interfaces first")
		return nil
	}
	return c.bindAll("bind", keys, instance)
}

// bindAll tries every key; successful keys stay bound and the failures are
// joined.
func (c *Container) bindAll(op string, keys []reflect.Type, instance any) error {
	var errs []error
	for _, key := range keys {
		if err := c.report(c.bind(op, key, instance)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Container) bind(op string, key reflect.Type, instance any) error {
	if key == nil || isNilValue(reflect.ValueOf(instance)) {
		return &KeyError{Op: op, Key: key, Err: ErrInvalidKey}
	}
	concrete := reflect.TypeOf(instance)

	if IsReserved(key) {
		return &KeyError{Op: op, Key: key, Concrete: concrete, Err: ErrReservedKey}
	}
	if !c.introspector.IsCandidate(concrete, key) {
		return &KeyError{Op: op, Key: key, Concrete: concrete, Err: ErrInvalidKey}
	}
	if existing, ok := c.index[key]; ok && existing != concrete {
		return &KeyError{Op: op, Key: key, Concrete: concrete, Existing: existing, Err: ErrDuplicateKey}
	}

	r, tracked := c.records[concrete]
	if tracked {
		if r.torn {
			return &KeyError{Op: op, Key: key, Concrete: concrete, Err: ErrAlreadyRemoved}
		}
		if !sameInstance(r.instance, instance) {
			return &KeyError{Op: op, Key: key, Concrete: concrete, Existing: concrete, Err: ErrDuplicateKey}
		}
	}

	if key.Kind() == reflect.Interface {
		// Accepted interfaces join the universe so CandidateKeys agrees
		// with what Bind allows.
		_ = c.introspector.Declare(key)
	}

	if !tracked {
		r = c.track(instance, concrete)
	}
	r.addKey(key)
	c.index[key] = concrete

	c.log.Debug().Str("op", op).Stringer("key", key).Stringer("instance", concrete).Msg("bound")
	return nil
}

// track creates the record for a concrete type and enrolls it in the
// dispatch lists of its capabilities.
func (c *Container) track(instance any, concrete reflect.Type) *record {
	r := newRecord(instance, concrete, c.introspector.Capabilities(concrete))
	c.records[concrete] = r
	c.order = append(c.order, concrete)
	for _, cp := range r.caps {
		if l, ok := c.lists[cp]; ok {
			l.add(r)
		}
	}
	return r
}

// ── Resolution ────────────────────────────────────────────────────────────────

// TryResolve returns the instance bound under key. Capability interfaces are
// never resolvable and yield ErrReservedKey. An unbound key that a deferred
// provider provides registers that provider first.
func (c *Container) TryResolve(key reflect.Type) (any, bool, error) {
	if key != nil && IsReserved(key) {
		return nil, false, c.report(&KeyError{Op: "resolve", Key: key, Err: ErrReservedKey})
	}
	r, ok := c.recordFor(key)
	if !ok && c.onMiss != nil {
		loaded, err := c.onMiss(key)
		if err != nil {
			return nil, false, c.report(err)
		}
		if loaded {
			r, ok = c.recordFor(key)
		}
	}
	if !ok {
		c.log.Debug().Stringer("key", key).Msg("resolve: key not bound")
		return nil, false, nil
	}
	return r.instance, true, nil
}

// Bound reports whether key currently resolves to an instance.
func (c *Container) Bound(key reflect.Type) bool {
	_, ok := c.index[key]
	return ok
}

func (c *Container) recordFor(key reflect.Type) (*record, bool) {
	concrete, ok := c.index[key]
	if !ok {
		return nil, false
	}
	r, ok := c.records[concrete]
	return r, ok
}

// ── Removal ───────────────────────────────────────────────────────────────────

// Remove unbinds key. When it was the instance's last key the instance is
// torn down.
func (c *Container) Remove(key reflect.Type) error {
	r, ok := c.recordFor(key)
	if !ok {
		return c.report(&KeyError{Op: "remove", Key: key, Err: ErrUnknownKey})
	}

	delete(c.index, key)
	r.removeKey(key)
	c.log.Debug().Stringer("key", key).Stringer("instance", r.concrete).Msg("unbound")

	if r.keyCount() > 0 {
		return nil
	}
	// The key itself is gone either way; a cascade into a record that is
	// already being torn down is only logged.
	_ = c.report(c.teardown("remove", r))
	return nil
}

// RemoveInstance tears down the instance bound under key, whatever other
// keys it still has.
func (c *Container) RemoveInstance(key reflect.Type) error {
	r, ok := c.recordFor(key)
	if !ok {
		return c.report(&KeyError{Op: "remove instance", Key: key, Err: ErrUnknownKey})
	}
	return c.report(c.teardown("remove instance", r))
}

// RemoveAll tears down every tracked instance in creation order. Instances
// bound by a Dispose along the way are torn down by a later pass.
func (c *Container) RemoveAll() {
	for {
		live := c.liveRecords()
		if len(live) == 0 {
			return
		}
		for _, r := range live {
			if r.torn || c.records[r.concrete] != r {
				continue
			}
			_ = c.report(c.teardown("remove all", r))
		}
	}
}

// liveRecords returns the records not yet being torn down, in creation
// order.
func (c *Container) liveRecords() []*record {
	var live []*record
	for _, concrete := range c.order {
		if r := c.records[concrete]; r != nil && !r.torn {
			live = append(live, r)
		}
	}
	return live
}

// teardown leaves the dispatch lists, disposes once, drops every remaining
// key and erases the record. The erasure runs even if Dispose panics.
func (c *Container) teardown(op string, r *record) error {
	if r.torn || c.records[r.concrete] != r {
		return &KeyError{Op: op, Key: r.concrete, Concrete: r.concrete, Err: ErrAlreadyRemoved}
	}
	r.torn = true

	for _, cp := range r.caps {
		c.lists[cp].remove(r)
	}

	defer c.erase(op, r)
	if r.has(CapDispose) {
		r.instance.(Disposable).Dispose()
	}
	return nil
}

func (c *Container) erase(op string, r *record) {
	for _, key := range r.keysCopy() {
		if c.index[key] == r.concrete {
			delete(c.index, key)
		}
		r.removeKey(key)
	}

	delete(c.records, r.concrete)
	if i := slices.Index(c.order, r.concrete); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}

	c.log.Debug().Str("op", op).Stringer("instance", r.concrete).Msg("torn down")
}

// ── Broadcast ─────────────────────────────────────────────────────────────────

// Tick calls Tick(dt) on every tickable instance in bind order.
func (c *Container) Tick(dt float64) {
	c.broadcast(CapTick, func(inst any) { inst.(Tickable).Tick(dt) })
}

// FixedTick calls FixedTick(dt) on every fixed-tickable instance.
func (c *Container) FixedTick(dt float64) {
	c.broadcast(CapFixedTick, func(inst any) { inst.(FixedTickable).FixedTick(dt) })
}

// LateTick calls LateTick(dt) on every late-tickable instance.
func (c *Container) LateTick(dt float64) {
	c.broadcast(CapLateTick, func(inst any) { inst.(LateTickable).LateTick(dt) })
}

// broadcast iterates a snapshot of the list. Records torn down mid-broadcast
// are skipped; records added mid-broadcast wait for the next call.
func (c *Container) broadcast(cp Capability, call func(any)) {
	for _, r := range c.lists[cp].snapshot() {
		if r.torn {
			continue
		}
		call(r.instance)
	}
}

// ── Introspection ─────────────────────────────────────────────────────────────

// Len returns the number of tracked instances.
func (c *Container) Len() int { return len(c.records) }

// InstanceTypes returns the tracked concrete types in creation order.
func (c *Container) InstanceTypes() []reflect.Type { return slices.Clone(c.order) }

// Keys returns every bound key, sorted by type name.
func (c *Container) Keys() []reflect.Type {
	keys := make([]reflect.Type, 0, len(c.index))
	for k := range c.index {
		keys = append(keys, k)
	}
	sortTypes(keys)
	return keys
}

// InstanceTypeOf returns the concrete type bound under key.
func (c *Container) InstanceTypeOf(key reflect.Type) (reflect.Type, bool) {
	t, ok := c.index[key]
	return t, ok
}

// KeysOf returns the keys bound to a tracked concrete type, in bind order.
func (c *Container) KeysOf(concrete reflect.Type) ([]reflect.Type, bool) {
	r, ok := c.records[concrete]
	if !ok {
		return nil, false
	}
	return r.keysCopy(), true
}

// CapabilitiesOf returns the capabilities recorded for a tracked concrete
// type.
func (c *Container) CapabilitiesOf(concrete reflect.Type) ([]Capability, bool) {
	r, ok := c.records[concrete]
	if !ok {
		return nil, false
	}
	return r.capsCopy(), true
}

// Subscribers returns how many instances currently receive cp's broadcast.
func (c *Container) Subscribers(cp Capability) int {
	l, ok := c.lists[cp]
	if !ok {
		return 0
	}
	return l.len()
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// report logs a rejected operation and, in strict mode, panics on
// caller-bug errors. It returns err unchanged.
func (c *Container) report(err error) error {
	if err == nil {
		return nil
	}
	var ke *KeyError
	ev := c.log.Warn().Err(err)
	if errors.As(err, &ke) {
		ev = ev.Str("op", ke.Op).Str("key", typeName(ke.Key))
	}
	ev.Msg("container: operation rejected")

	if c.strict && callerBug(err) {
		panic(err)
	}
	return err
}

// sameInstance compares identities without panicking on uncomparable
// values.
func sameInstance(a, b any) (same bool) {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

func sortTypes(ts []reflect.Type) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].String() < ts[j].String() })
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// BindAs binds instance under K.
//
//	err := container.BindAs[Renderer](c, glRenderer)
func BindAs[K any](c *Container, instance any) error {
	return c.Bind(KeyOf[K](), instance)
}

// Resolve returns the instance bound under K, typed as K. When K is the
// embedded base of the bound instance, the result is the embedded field of
// that same instance.
//
//	r, ok := container.Resolve[Renderer](c)
func Resolve[K any](c *Container) (K, bool) {
	var zero K
	inst, ok, err := c.TryResolve(KeyOf[K]())
	if err != nil || !ok {
		return zero, false
	}
	if typed, ok := inst.(K); ok {
		return typed, true
	}
	if v, ok := c.introspector.embedded(inst); ok {
		if typed, ok := v.Interface().(K); ok {
			return typed, true
		}
	}
	return zero, false
}

// MustResolve is like Resolve but panics when K is not bound.
func MustResolve[K any](c *Container) K {
	v, ok := Resolve[K](c)
	if !ok {
		panic(&KeyError{Op: "resolve", Key: KeyOf[K](), Err: ErrUnknownKey})
	}
	return v
}
