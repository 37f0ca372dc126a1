package container

import "reflect"

// ── Capability interfaces ─────────────────────────────────────────────────────

// Tickable receives the variable-step frame broadcast.
type Tickable interface {
	Tick(dt float64)
}

// FixedTickable receives the fixed-step broadcast.
type FixedTickable interface {
	FixedTick(dt float64)
}

// LateTickable receives the broadcast that runs after every Tick.
type LateTickable interface {
	LateTick(dt float64)
}

// Disposable is called exactly once when the owning record is torn down.
type Disposable interface {
	Dispose()
}

// ── Capability tags ───────────────────────────────────────────────────────────

// Capability is one of the reserved lifecycle identities. A capability can
// never be used as a bind or resolve key.
type Capability uint8

const (
	CapTick Capability = iota
	CapFixedTick
	CapLateTick
	CapDispose
)

// capabilityOrder is the order Capabilities reports tags in.
var capabilityOrder = [...]Capability{CapTick, CapFixedTick, CapLateTick, CapDispose}

var capabilityTypes = map[Capability]reflect.Type{
	CapTick:      reflect.TypeFor[Tickable](),
	CapFixedTick: reflect.TypeFor[FixedTickable](),
	CapLateTick:  reflect.TypeFor[LateTickable](),
	CapDispose:   reflect.TypeFor[Disposable](),
}

func (c Capability) String() string {
	switch c {
	case CapTick:
		return "tickable"
	case CapFixedTick:
		return "fixed-tickable"
	case CapLateTick:
		return "late-tickable"
	case CapDispose:
		return "disposable"
	}
	return "unknown"
}

// Type returns the reserved interface type behind the tag.
func (c Capability) Type() reflect.Type { return capabilityTypes[c] }

// IsReserved reports whether key is one of the capability interfaces.
func IsReserved(key reflect.Type) bool {
	for _, t := range capabilityTypes {
		if key == t {
			return true
		}
	}
	return false
}

// KeyOf returns the registry key for T.
//
//	c.Bind(container.KeyOf[Renderer](), r)
func KeyOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
