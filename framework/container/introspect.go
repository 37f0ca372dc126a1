package container

import (
	"fmt"
	"reflect"
	"slices"
)

// typeInfo is computed once per concrete type. The interface list is
// refreshed only when the declared universe grows.
type typeInfo struct {
	caps      []Capability
	base      reflect.Type
	baseIndex []int
	ifaces    []reflect.Type
	version   int
}

// Introspector answers which keys a concrete type may be bound under and
// which capabilities it carries.
//
// Go types do not list the interfaces they satisfy, so the introspector
// keeps an explicit universe of declared interfaces. CandidateKeys only
// enumerates declared interfaces; Bind declares any interface key it accepts,
// so every key that was ever legally bound shows up in later candidate sets.
type Introspector struct {
	declared []reflect.Type
	version  int
	cache    map[reflect.Type]*typeInfo
}

// NewIntrospector returns an introspector with an empty interface universe.
func NewIntrospector() *Introspector {
	return &Introspector{cache: make(map[reflect.Type]*typeInfo)}
}

// Declare adds iface to the known-interface universe. Declaring the same
// interface twice is a no-op.
func (in *Introspector) Declare(iface reflect.Type) error {
	switch {
	case iface == nil || iface.Kind() != reflect.Interface:
		return fmt.Errorf("%w: %s is not an interface", ErrInvalidKey, typeName(iface))
	case IsReserved(iface):
		return fmt.Errorf("%w: %s is a capability", ErrReservedKey, iface)
	case iface.NumMethod() == 0:
		return fmt.Errorf("%w: %s is the universal root", ErrInvalidKey, iface)
	}
	if slices.Contains(in.declared, iface) {
		return nil
	}
	in.declared = append(in.declared, iface)
	in.version++
	return nil
}

// Declare is the generic form of Introspector.Declare.
//
//	container.Declare[Renderer](c.Introspector())
func Declare[I any](in *Introspector) error {
	return in.Declare(reflect.TypeFor[I]())
}

// Declared returns the declared interfaces in declaration order.
func (in *Introspector) Declared() []reflect.Type { return slices.Clone(in.declared) }

// CandidateKeys returns every key t may be bound under: declared interfaces
// t implements (capabilities excluded), then t's base type if it has one,
// then t itself when includeSelf is set.
func (in *Introspector) CandidateKeys(t reflect.Type, includeSelf bool) []reflect.Type {
	if t == nil {
		return nil
	}
	info := in.info(t)
	keys := slices.Clone(info.ifaces)
	if info.base != nil {
		keys = append(keys, info.base)
	}
	if includeSelf {
		keys = append(keys, t)
	}
	return keys
}

// Capabilities returns the capability tags t implements, in dispatch order
// tick, fixed-tick, late-tick, dispose.
func (in *Introspector) Capabilities(t reflect.Type) []Capability {
	if t == nil {
		return nil
	}
	return slices.Clone(in.info(t).caps)
}

// BaseType returns t's nearest user-level base: the first embedded struct
// field. For a pointer type the base is the pointer to that struct.
func (in *Introspector) BaseType(t reflect.Type) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}
	info := in.info(t)
	return info.base, info.base != nil
}

// IsCandidate reports whether key is a legal key for t. Unlike CandidateKeys
// it accepts undeclared interfaces.
func (in *Introspector) IsCandidate(t, key reflect.Type) bool {
	if t == nil || key == nil || IsReserved(key) {
		return false
	}
	if key == t {
		return true
	}
	if base, ok := in.BaseType(t); ok && key == base {
		return true
	}
	return key.Kind() == reflect.Interface && key.NumMethod() > 0 && t.Implements(key)
}

// embedded returns the base-typed view of instance: the address of its
// embedded base field for pointer types, the field value otherwise.
func (in *Introspector) embedded(instance any) (reflect.Value, bool) {
	v := reflect.ValueOf(instance)
	info := in.info(v.Type())
	if info.base == nil {
		return reflect.Value{}, false
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		return v.Elem().FieldByIndex(info.baseIndex).Addr(), true
	}
	return v.FieldByIndex(info.baseIndex), true
}

func (in *Introspector) info(t reflect.Type) *typeInfo {
	info, ok := in.cache[t]
	if !ok {
		info = &typeInfo{caps: capabilitiesOf(t), version: -1}
		info.base, info.baseIndex = baseOf(t)
		in.cache[t] = info
	}
	if info.version != in.version {
		info.ifaces = info.ifaces[:0]
		for _, iface := range in.declared {
			if t.Implements(iface) {
				info.ifaces = append(info.ifaces, iface)
			}
		}
		info.version = in.version
	}
	return info
}

func capabilitiesOf(t reflect.Type) []Capability {
	var caps []Capability
	for _, c := range capabilityOrder {
		if t.Implements(c.Type()) {
			caps = append(caps, c)
		}
	}
	return caps
}

func baseOf(t reflect.Type) (reflect.Type, []int) {
	s, ptr := t, false
	if s.Kind() == reflect.Pointer {
		s, ptr = s.Elem(), true
	}
	if s.Kind() != reflect.Struct {
		return nil, nil
	}
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if !f.Anonymous || f.Type.Kind() != reflect.Struct {
			continue
		}
		if ptr {
			return reflect.PointerTo(f.Type), f.Index
		}
		return f.Type, f.Index
	}
	return nil, nil
}
