package container

import "slices"

// dispatchList holds the records of one capability in bind order.
type dispatchList struct {
	entries []*record
}

func (l *dispatchList) add(r *record) {
	if !slices.Contains(l.entries, r) {
		l.entries = append(l.entries, r)
	}
}

func (l *dispatchList) remove(r *record) {
	if i := slices.Index(l.entries, r); i >= 0 {
		l.entries = slices.Delete(l.entries, i, i+1)
	}
}

func (l *dispatchList) len() int { return len(l.entries) }

// snapshot is what a broadcast iterates, so callbacks may bind and remove
// freely; changes show up on the next broadcast.
func (l *dispatchList) snapshot() []*record {
	return slices.Clone(l.entries)
}
