package pmap

import "iter"

// Map is a persistent hash map with editor-scoped in-place updates. Keys are
// hashed with Hash. A nil *Map is a valid empty map, and every operation that
// leaves the map empty returns nil.
type Map[K comparable, V comparable] tree[K, V]

// KeyValue returns a single-entry map owned by ed.
func KeyValue[K comparable, V comparable](ed Editor, k K, v V) *Map[K, V] {
	var m *Map[K, V]
	return m.Set(ed, k, v)
}

func (m *Map[K, V]) t() *tree[K, V] {
	return (*tree[K, V])(m)
}

func (m *Map[K, V]) Len() int {
	return m.t().len()
}

func (m *Map[K, V]) IsEmpty() bool {
	return m.t().len() == 0
}

func (m *Map[K, V]) Get(k K) (V, bool) {
	return m.t().get(Hash(k), k)
}

func (m *Map[K, V]) Has(k K) bool {
	_, ok := m.Get(k)
	return ok
}

// Update replaces the entry for k with the result of f. See UpdateFunc.
//
// If f leaves the entry as it was (same presence, == value), m itself is
// returned and nothing is copied. Nodes owned by ed are edited in place;
// everything else is copied before modification, so maps obtained earlier
// through a different Editor never change.
func (m *Map[K, V]) Update(ed Editor, k K, f UpdateFunc[V]) *Map[K, V] {
	return (*Map[K, V])(m.t().update(ed, Hash(k), k, f))
}

func (m *Map[K, V]) Set(ed Editor, k K, v V) *Map[K, V] {
	return m.Update(ed, k, func(V, bool) (V, bool) { return v, true })
}

func (m *Map[K, V]) Delete(ed Editor, k K) *Map[K, V] {
	return m.Update(ed, k, func(old V, _ bool) (V, bool) { return old, false })
}

// All iterates over the entries in unspecified order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return m.t().seq()
}

// Each calls f for every entry until f returns false. It reports whether the
// iteration ran to completion.
func (m *Map[K, V]) Each(f func(K, V) bool) bool {
	return m.t().each(f)
}
