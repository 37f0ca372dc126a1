package container

import (
	"reflect"
	"testing"
)

type recordStub struct{}

func TestRecord_KeysAreIdempotent(t *testing.T) {
	a, b := reflect.TypeFor[int](), reflect.TypeFor[string]()
	r := newRecord(&recordStub{}, reflect.TypeFor[*recordStub](), nil)

	r.addKey(a)
	r.addKey(a)
	r.addKey(b)
	if got := r.keyCount(); got != 2 {
		t.Fatalf("keyCount: got %d, want 2", got)
	}

	r.removeKey(a)
	r.removeKey(a)
	if got := r.keysCopy(); len(got) != 1 || got[0] != b {
		t.Errorf("keys after remove: got %v, want [%v]", got, b)
	}

	r.removeKey(reflect.TypeFor[bool]())
	if got := r.keyCount(); got != 1 {
		t.Errorf("removing an absent key changed count to %d", got)
	}
}

func TestRecord_CapsAreCopied(t *testing.T) {
	r := newRecord(&recordStub{}, reflect.TypeFor[*recordStub](), []Capability{CapTick})
	caps := r.capsCopy()
	caps[0] = CapDispose

	if !r.has(CapTick) || r.has(CapDispose) {
		t.Errorf("capsCopy leaked into the record: %v", r.caps)
	}
}

func TestDispatchList_NoDuplicates(t *testing.T) {
	var l dispatchList
	r := newRecord(&recordStub{}, reflect.TypeFor[*recordStub](), nil)

	l.add(r)
	l.add(r)
	if l.len() != 1 {
		t.Fatalf("len: got %d, want 1", l.len())
	}

	snap := l.snapshot()
	l.remove(r)
	if l.len() != 0 || len(snap) != 1 {
		t.Errorf("snapshot must survive removal: list %d, snapshot %d", l.len(), len(snap))
	}
}
