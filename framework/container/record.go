package container

import (
	"reflect"
	"slices"
)

// record is the bookkeeping for one tracked instance.
// Validation lives in the Container; the record only stores.
type record struct {
	instance any
	concrete reflect.Type
	caps     []Capability // fixed at creation
	keys     []reflect.Type
	torn     bool // set once teardown has started
}

func newRecord(instance any, concrete reflect.Type, caps []Capability) *record {
	return &record{
		instance: instance,
		concrete: concrete,
		caps:     caps,
	}
}

// addKey is a no-op if key is already present.
func (r *record) addKey(key reflect.Type) {
	if !slices.Contains(r.keys, key) {
		r.keys = append(r.keys, key)
	}
}

// removeKey is a no-op if key is absent.
func (r *record) removeKey(key reflect.Type) {
	if i := slices.Index(r.keys, key); i >= 0 {
		r.keys = slices.Delete(r.keys, i, i+1)
	}
}

func (r *record) keyCount() int { return len(r.keys) }

func (r *record) keysCopy() []reflect.Type { return slices.Clone(r.keys) }

func (r *record) capsCopy() []Capability { return slices.Clone(r.caps) }

func (r *record) has(c Capability) bool { return slices.Contains(r.caps, c) }
