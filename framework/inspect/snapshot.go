// Package inspect publishes read-only views of a registry.
//
// A Publisher lives inside the container it watches. After every LateTick
// it captures a Snapshot and swaps it into an atomic pointer, so the HTTP
// handler can serve it from another goroutine without touching the
// registry.
package inspect

import (
	"reflect"
	"slices"

	"github.com/km-arc/go-entry/framework/container"
)

// InstanceView describes one tracked instance.
type InstanceView struct {
	Type         string   `json:"type"`
	Keys         []string `json:"keys"`
	Capabilities []string `json:"capabilities"`
}

// KeyView maps one bound key to its instance's concrete type.
type KeyView struct {
	Key      string `json:"key"`
	Instance string `json:"instance"`
}

// Snapshot is immutable once captured.
type Snapshot struct {
	Frame     uint64         `json:"frame"`
	Instances []InstanceView `json:"instances"`
	Keys      []KeyView      `json:"keys"`
}

// Capture reads c's introspection surface. Instances are in creation order,
// keys sorted by name.
func Capture(c *container.Container, frame uint64) *Snapshot {
	s := &Snapshot{
		Frame:     frame,
		Instances: make([]InstanceView, 0, c.Len()),
		Keys:      []KeyView{},
	}

	for _, concrete := range c.InstanceTypes() {
		keys, _ := c.KeysOf(concrete)
		caps, _ := c.CapabilitiesOf(concrete)
		view := InstanceView{
			Type:         concrete.String(),
			Keys:         names(keys),
			Capabilities: make([]string, 0, len(caps)),
		}
		for _, cp := range caps {
			view.Capabilities = append(view.Capabilities, cp.String())
		}
		s.Instances = append(s.Instances, view)
	}

	for _, key := range c.Keys() {
		concrete, ok := c.InstanceTypeOf(key)
		if !ok {
			continue
		}
		s.Keys = append(s.Keys, KeyView{Key: key.String(), Instance: concrete.String()})
	}
	return s
}

// Instance looks up a tracked instance by its concrete type name.
func (s *Snapshot) Instance(typeName string) (InstanceView, bool) {
	for _, v := range s.Instances {
		if v.Type == typeName {
			return v, true
		}
	}
	return InstanceView{}, false
}

// WithCapability returns the instances carrying the capability tag, e.g.
// "tickable". Never nil.
func (s *Snapshot) WithCapability(tag string) []InstanceView {
	out := []InstanceView{}
	for _, v := range s.Instances {
		if slices.Contains(v.Capabilities, tag) {
			out = append(out, v)
		}
	}
	return out
}

// KeysFor returns the keys bound to the named concrete type. Never nil.
func (s *Snapshot) KeysFor(typeName string) []KeyView {
	out := []KeyView{}
	for _, k := range s.Keys {
		if k.Instance == typeName {
			out = append(out, k)
		}
	}
	return out
}

func names(ts []reflect.Type) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.String())
	}
	return out
}
