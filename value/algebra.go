package value

import (
	"fmt"
	"sort"
	"unsafe"
)

// DeepCopy produces an independent tree equal to v. An identity map from
// original node pointer to its copy is built before recursing into
// containers (spec.md §4.6's "Identity map"), so a node reachable by more
// than one path is copied exactly once and shared within the copy. An
// edge leading back to a node that is still being copied (a cycle
// manually constructed by abusing Set, e.g. an object that contains
// itself) is left out of the copy, so the traversal terminates and the
// result is always acyclic: it is v restricted to the spanning tree of
// the first traversal.
func DeepCopy(v *Value) *Value {
	seen := make(map[*Value]*Value)
	active := make(map[*Value]bool)

	cp, _ := deepCopy(v, seen, active)

	return cp
}

// deepCopy reports ok=false when v is an ancestor still being copied, so
// the caller drops the edge that would close a cycle.
func deepCopy(v *Value, seen map[*Value]*Value, active map[*Value]bool) (*Value, bool) {
	if v == nil {
		return nil, true
	}

	if active[v] {
		return nil, false
	}

	if cp, ok := seen[v]; ok {
		return cp, true
	}

	cp := &Value{typ: v.typ, boolean: v.boolean, number: v.number, str: v.str}
	seen[v] = cp
	active[v] = true

	defer delete(active, v)

	switch v.typ {
	case Array:
		cp.arr = make([]*Value, 0, len(v.arr))
		for _, child := range v.arr {
			if c, ok := deepCopy(child, seen, active); ok {
				cp.arr = append(cp.arr, c)
			}
		}
	case Object:
		cp.obj = make([]member, 0, len(v.obj))
		for _, m := range v.obj {
			if c, ok := deepCopy(m.val, seen, active); ok {
				cp.obj = append(cp.obj, member{key: m.key, val: c})
			}
		}
	}

	return cp, true
}

// Equal reports structural equality: for Arrays, same length with
// pairwise-equal elements in order; for Objects, the same set of keys with
// per-key equal values, independent of iteration order (spec.md §4.6 looks
// up by key on the second operand rather than comparing order).
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.typ != b.typ {
		return false
	}

	switch a.typ {
	case Null:
		return true
	case Bool:
		return a.boolean == b.boolean
	case Number:
		return a.number == b.number
	case String:
		return a.str == b.str
	case Array:
		if len(a.arr) != len(b.arr) {
			return false
		}

		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}

		return true
	case Object:
		if len(a.obj) != len(b.obj) {
			return false
		}

		for _, m := range a.obj {
			bv, ok, _ := b.Get(m.key)
			if !ok || !Equal(m.val, bv) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// Merge performs the shallow, right-biased merge of spec.md §4.6: both
// inputs must be Objects; the output is a deep copy of left with each key
// from right (deep-copied) set over it, appending keys right introduces
// that left lacks, in right's order, after left's existing keys. Returns
// [jsonerr.InvalidType] if either input is not an Object.
func Merge(left, right *Value) (*Value, error) {
	if left.Type() != Object {
		return nil, typeErr(left, Object)
	}

	if right.Type() != Object {
		return nil, typeErr(right, Object)
	}

	result := DeepCopy(left)

	for _, m := range right.obj {
		err := result.Set(m.key, DeepCopy(m.val))
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// MemorySize returns a conservative byte count for v: the struct overhead
// plus, recursively, owned string bytes and array/object storage sized by
// current Go slice capacity (spec.md §4.6's memory accounting).
func MemorySize(v *Value) int {
	if v == nil {
		return 0
	}

	size := int(unsafe.Sizeof(*v)) + len(v.str)

	switch v.typ {
	case Array:
		size += cap(v.arr) * int(unsafe.Sizeof((*Value)(nil)))
		for _, child := range v.arr {
			size += MemorySize(child)
		}
	case Object:
		size += cap(v.obj) * int(unsafe.Sizeof(member{}))
		for _, m := range v.obj {
			size += len(m.key) + MemorySize(m.val)
		}
	}

	return size
}

// ShrinkToFit reduces the capacity of every array/object storage in the
// tree to its count, recursively (spec.md §4.6).
func ShrinkToFit(v *Value) {
	if v == nil {
		return
	}

	switch v.typ {
	case Array:
		if cap(v.arr) > len(v.arr) {
			shrunk := make([]*Value, len(v.arr))
			copy(shrunk, v.arr)
			v.arr = shrunk
		}

		for _, child := range v.arr {
			ShrinkToFit(child)
		}
	case Object:
		if cap(v.obj) > len(v.obj) {
			shrunk := make([]member, len(v.obj))
			copy(shrunk, v.obj)
			v.obj = shrunk
		}

		for _, m := range v.obj {
			ShrinkToFit(m.val)
		}
	}
}

// Diff returns an Object {changed: bool, old: a, new: b} -- "changed" is
// always present; "old"/"new" are present only when a and b differ
// (spec.md §4.6's trivial diff, deliberately not a general JSON-Patch).
func Diff(a, b *Value) *Value {
	result := NewObject()

	if Equal(a, b) {
		_ = result.Set("changed", NewBool(false))

		return result
	}

	_ = result.Set("changed", NewBool(true))
	_ = result.Set("old", DeepCopy(a))
	_ = result.Set("new", DeepCopy(b))

	return result
}

// Patch replaces target's value with diff's "new" field if present
// (returning a fresh deep copy), otherwise returns target unchanged.
// Returns [jsonerr.InvalidType] if diff is not an Object produced by Diff.
func Patch(target, diff *Value) (*Value, error) {
	if diff.Type() != Object {
		return nil, typeErr(diff, Object)
	}

	newVal, ok, err := diff.Get("new")
	if err != nil {
		return nil, err
	}

	if !ok {
		return target, nil
	}

	return DeepCopy(newVal), nil
}

// Flatten converts a nested tree into a single flat Object mapping
// dotted-path strings to scalar leaf values, e.g. {"a":{"b":1}} becomes
// {"a.b": 1}. Array elements use a bracketed numeric index, e.g. "a[0].b".
// Grounded on the original C implementation's path-flattening helper
// (json_advanced.c); used by convert/csvconv to discover column names.
func Flatten(v *Value) *Value {
	out := NewObject()
	flatten(v, "", out)

	return out
}

func flatten(v *Value, prefix string, out *Value) {
	switch v.Type() {
	case Object:
		for _, m := range v.obj {
			key := m.key
			if prefix != "" {
				key = prefix + "." + m.key
			}

			flatten(m.val, key, out)
		}
	case Array:
		for i, child := range v.arr {
			key := fmt.Sprintf("%s[%d]", prefix, i)
			flatten(child, key, out)
		}
	default:
		if prefix == "" {
			prefix = "$"
		}

		_ = out.Set(prefix, v)
	}
}

// TypeCounts is a recursive census of how many Values of each Type occur
// in the tree rooted at v (v itself included). Grounded on the original C
// implementation's statistics pass (json_utils.c); exposed for the
// "jsontk stats" CLI subcommand.
func TypeCounts(v *Value) map[Type]int {
	counts := make(map[Type]int)
	countTypes(v, counts)

	return counts
}

func countTypes(v *Value, counts map[Type]int) {
	if v == nil {
		return
	}

	counts[v.typ]++

	switch v.typ {
	case Array:
		for _, child := range v.arr {
			countTypes(child, counts)
		}
	case Object:
		for _, m := range v.obj {
			countTypes(m.val, counts)
		}
	}
}

// SortedTypeCounts returns TypeCounts' entries sorted by Type for
// deterministic display/logging.
func SortedTypeCounts(v *Value) []struct {
	Type  Type
	Count int
} {
	counts := TypeCounts(v)

	types := make([]Type, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	out := make([]struct {
		Type  Type
		Count int
	}, len(types))

	for i, t := range types {
		out[i] = struct {
			Type  Type
			Count int
		}{Type: t, Count: counts[t]}
	}

	return out
}
