package pmap

import "iter"

// IntMap is a persistent integer-keyed trie. It behaves exactly like Map,
// but branches directly on the bits of the key instead of a hash, so it
// never needs collision nodes.
type IntMap[V comparable] tree[uint64, V]

// IntKeyValue returns a single-entry IntMap owned by ed.
func IntKeyValue[V comparable](ed Editor, k uint64, v V) *IntMap[V] {
	var m *IntMap[V]
	return m.Set(ed, k, v)
}

func (m *IntMap[V]) t() *tree[uint64, V] {
	return (*tree[uint64, V])(m)
}

func (m *IntMap[V]) Len() int {
	return m.t().len()
}

func (m *IntMap[V]) IsEmpty() bool {
	return m.t().len() == 0
}

func (m *IntMap[V]) Get(k uint64) (V, bool) {
	return m.t().get(k, k)
}

func (m *IntMap[V]) Has(k uint64) bool {
	_, ok := m.Get(k)
	return ok
}

func (m *IntMap[V]) Update(ed Editor, k uint64, f UpdateFunc[V]) *IntMap[V] {
	return (*IntMap[V])(m.t().update(ed, k, k, f))
}

func (m *IntMap[V]) Set(ed Editor, k uint64, v V) *IntMap[V] {
	return m.Update(ed, k, func(V, bool) (V, bool) { return v, true })
}

func (m *IntMap[V]) Delete(ed Editor, k uint64) *IntMap[V] {
	return m.Update(ed, k, func(old V, _ bool) (V, bool) { return old, false })
}

func (m *IntMap[V]) All() iter.Seq2[uint64, V] {
	return m.t().seq()
}

func (m *IntMap[V]) Each(f func(uint64, V) bool) bool {
	return m.t().each(f)
}
