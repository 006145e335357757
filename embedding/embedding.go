// Package embedding is the in-process embedding adapter spec.md §6
// describes: a handle table over [value.Value], for host languages
// (or interactive tooling) that want to hold an opaque reference to a
// tree node rather than a live pointer.
//
// Grounded on spec.md §6's ownership rule: an owning [Handle] keeps its
// [value.Value] alive until [Release]d; a non-owning handle returned by
// [Table.ArrayGet]/[Table.ObjectGet] aliases into its parent's storage
// and is invalidated the moment the parent is released or mutated, the
// same aliasing hazard [value.Value.Get]/[value.Value.Index] already
// carry for in-process Go callers.
package embedding

import (
	"sync"

	"go.jsontk.dev/jsontk/jsonerr"
	"go.jsontk.dev/jsontk/value"
)

// Handle is an opaque reference into a [Table]. The zero Handle is
// never valid; [Table.New] starts numbering at 1.
type Handle uint64

type entry struct {
	v      *value.Value
	owning bool
	parent Handle
}

// Table is a thread-safe handle table mapping [Handle] to [value.Value].
type Table struct {
	mu      sync.Mutex
	next    uint64
	entries map[Handle]*entry
}

// NewTable creates an empty handle table.
func NewTable() *Table {
	return &Table{entries: make(map[Handle]*entry)}
}

// New registers v as a new owning handle: the Value is kept alive until
// the returned Handle is [Table.Release]d.
func (t *Table) New(v *value.Value) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	h := Handle(t.next)
	t.entries[h] = &entry{v: v, owning: true}

	return h
}

// Get resolves h to its current [value.Value]. Returns
// [jsonerr.KeyNotFound] if h is unknown (already released, or never
// issued by this Table).
func (t *Table) Get(h Handle) (*value.Value, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[h]
	if !ok {
		return nil, jsonerr.NewNonPositional(jsonerr.KeyNotFound, "handle %d is not live", h)
	}

	return e.v, nil
}

// Release destroys h. Releasing an owning handle also releases every
// non-owning handle borrowed from it, since their backing storage is no
// longer guaranteed live. Releasing an unknown handle is a no-op.
func (t *Table) Release(h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[h]
	if !ok {
		return
	}

	delete(t.entries, h)

	if e.owning {
		for child, childEntry := range t.entries {
			if childEntry.parent == h {
				delete(t.entries, child)
			}
		}
	}
}

// ArrayGet returns a non-owning handle aliasing element i of the Array
// at h. The returned handle is only valid as long as h remains live.
func (t *Table) ArrayGet(h Handle, i int) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[h]
	if !ok {
		return 0, jsonerr.NewNonPositional(jsonerr.KeyNotFound, "handle %d is not live", h)
	}

	child, err := e.v.Index(i)
	if err != nil {
		return 0, err
	}

	return t.borrow(child, h), nil
}

// ObjectGet returns a non-owning handle aliasing field key of the
// Object at h. The returned handle is only valid as long as h remains
// live.
func (t *Table) ObjectGet(h Handle, key string) (Handle, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[h]
	if !ok {
		return 0, false, jsonerr.NewNonPositional(jsonerr.KeyNotFound, "handle %d is not live", h)
	}

	child, found, err := e.v.Get(key)
	if err != nil || !found {
		return 0, found, err
	}

	return t.borrow(child, h), true, nil
}

// borrow registers child as a non-owning handle rooted at parent. Callers
// must hold t.mu.
func (t *Table) borrow(child *value.Value, parent Handle) Handle {
	t.next++
	h := Handle(t.next)
	t.entries[h] = &entry{v: child, owning: false, parent: parent}

	return h
}

// Len reports how many handles (owning and borrowed) are currently live,
// for diagnostics and tests.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}
