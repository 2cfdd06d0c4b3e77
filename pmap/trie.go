package pmap

import (
	"iter"
	"math/bits"
	"slices"
)

const (
	bitsPerLevel = 5
	levelMask    = 1<<bitsPerLevel - 1

	// maxShift is the first shift at which the hash is exhausted. Nodes at
	// this depth are collision nodes: a flat list of entries sharing a hash.
	maxShift = 65
)

// UpdateFunc computes a new value for a key. old and found describe the
// current entry; the returned bool says whether the key stays present.
type UpdateFunc[V any] func(old V, found bool) (V, bool)

// tree is the header shared by Map and IntMap. A nil *tree is the empty map.
type tree[K comparable, V comparable] struct {
	owner Editor
	root  *node[K, V]
	count int
}

// node is a hash array mapped trie node. For shift < maxShift, bitmap says
// which of the 32 children are populated and slots holds them in bit order.
// Collision nodes ignore bitmap and keep an unordered list of leaves.
type node[K comparable, V comparable] struct {
	owner  Editor
	bitmap uint32
	slots  []slot[K, V]
}

// slot is either a subtree (sub != nil) or a leaf.
type slot[K comparable, V comparable] struct {
	sub  *node[K, V]
	hash uint64
	key  K
	val  V
}

func (t *tree[K, V]) len() int {
	if t == nil {
		return 0
	}
	return t.count
}

func (t *tree[K, V]) get(h uint64, k K) (V, bool) {
	if t == nil {
		var zero V
		return zero, false
	}
	return t.root.get(0, h, k)
}

func (t *tree[K, V]) update(ed Editor, h uint64, k K, f UpdateFunc[V]) *tree[K, V] {
	if t == nil {
		var zero V
		v, present := f(zero, false)
		if !present {
			return nil
		}
		return &tree[K, V]{ed, leafNode(ed, 0, slot[K, V]{hash: h, key: k, val: v}), 1}
	}

	root, delta := t.root.update(ed, 0, h, k, f)
	if root == t.root && delta == 0 {
		return t
	}
	if root == nil {
		return nil
	}
	if ed.Owns(t.owner) {
		t.root = root
		t.count += delta
		return t
	}
	return &tree[K, V]{ed, root, t.count + delta}
}

func (t *tree[K, V]) each(yield func(K, V) bool) bool {
	if t == nil {
		return true
	}
	return t.root.each(yield)
}

func (t *tree[K, V]) seq() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		t.each(yield)
	}
}

func leafNode[K comparable, V comparable](ed Editor, shift uint, s slot[K, V]) *node[K, V] {
	if shift >= maxShift {
		return &node[K, V]{owner: ed, slots: []slot[K, V]{s}}
	}
	return &node[K, V]{owner: ed, bitmap: 1 << chunk(s.hash, shift), slots: []slot[K, V]{s}}
}

// pairNode builds the smallest subtree at shift holding two distinct leaves.
func pairNode[K comparable, V comparable](ed Editor, shift uint, a, b slot[K, V]) *node[K, V] {
	if shift >= maxShift {
		return &node[K, V]{owner: ed, slots: []slot[K, V]{a, b}}
	}
	ia, ib := chunk(a.hash, shift), chunk(b.hash, shift)
	if ia == ib {
		sub := pairNode(ed, shift+bitsPerLevel, a, b)
		return &node[K, V]{owner: ed, bitmap: 1 << ia, slots: []slot[K, V]{{sub: sub}}}
	}
	if ia > ib {
		a, b = b, a
	}
	return &node[K, V]{owner: ed, bitmap: 1<<ia | 1<<ib, slots: []slot[K, V]{a, b}}
}

func chunk(h uint64, shift uint) uint32 {
	return uint32(h>>shift) & levelMask
}

func (n *node[K, V]) isCollision(shift uint) bool {
	return shift >= maxShift
}

func (n *node[K, V]) get(shift uint, h uint64, k K) (V, bool) {
	for {
		if n.isCollision(shift) {
			for i := range n.slots {
				if n.slots[i].key == k {
					return n.slots[i].val, true
				}
			}
			break
		}
		bit := uint32(1) << chunk(h, shift)
		if n.bitmap&bit == 0 {
			break
		}
		s := &n.slots[bits.OnesCount32(n.bitmap&(bit-1))]
		if s.sub == nil {
			if s.hash == h && s.key == k {
				return s.val, true
			}
			break
		}
		n, shift = s.sub, shift+bitsPerLevel
	}
	var zero V
	return zero, false
}

// update returns the replacement for n (nil if n became empty) and the change
// in the number of entries. Returning n itself with delta 0 means nothing
// observable changed, or that n was edited in place.
func (n *node[K, V]) update(ed Editor, shift uint, h uint64, k K, f UpdateFunc[V]) (*node[K, V], int) {
	if n.isCollision(shift) {
		return n.updateCollision(ed, h, k, f)
	}

	bit := uint32(1) << chunk(h, shift)
	pos := bits.OnesCount32(n.bitmap & (bit - 1))
	var zero V

	if n.bitmap&bit == 0 {
		v, present := f(zero, false)
		if !present {
			return n, 0
		}
		return n.insert(ed, bit, pos, slot[K, V]{hash: h, key: k, val: v}), 1
	}

	s := n.slots[pos]
	if s.sub != nil {
		sub, delta := s.sub.update(ed, shift+bitsPerLevel, h, k, f)
		switch {
		case sub == s.sub:
			return n, delta
		case sub == nil:
			return n.remove(ed, bit, pos), delta
		}
		e := n.editable(ed)
		if sub.isSingleLeaf() {
			e.slots[pos] = sub.slots[0]
		} else {
			e.slots[pos] = slot[K, V]{sub: sub}
		}
		return e, delta
	}

	if s.hash == h && s.key == k {
		v, present := f(s.val, true)
		if !present {
			return n.remove(ed, bit, pos), -1
		}
		if v == s.val {
			return n, 0
		}
		e := n.editable(ed)
		e.slots[pos].val = v
		return e, 0
	}

	v, present := f(zero, false)
	if !present {
		return n, 0
	}
	sub := pairNode(ed, shift+bitsPerLevel, s, slot[K, V]{hash: h, key: k, val: v})
	e := n.editable(ed)
	e.slots[pos] = slot[K, V]{sub: sub}
	return e, 1
}

func (n *node[K, V]) updateCollision(ed Editor, h uint64, k K, f UpdateFunc[V]) (*node[K, V], int) {
	for i := range n.slots {
		if n.slots[i].key != k {
			continue
		}
		old := n.slots[i].val
		v, present := f(old, true)
		if !present {
			if len(n.slots) == 1 {
				return nil, -1
			}
			e := n.editable(ed)
			e.slots = slices.Delete(e.slots, i, i+1)
			return e, -1
		}
		if v == old {
			return n, 0
		}
		e := n.editable(ed)
		e.slots[i].val = v
		return e, 0
	}

	var zero V
	v, present := f(zero, false)
	if !present {
		return n, 0
	}
	e := n.editable(ed)
	e.slots = append(e.slots, slot[K, V]{hash: h, key: k, val: v})
	return e, 1
}

func (n *node[K, V]) isSingleLeaf() bool {
	return len(n.slots) == 1 && n.slots[0].sub == nil
}

// editable returns n if ed owns it, or a copy of n owned by ed.
func (n *node[K, V]) editable(ed Editor) *node[K, V] {
	if ed.Owns(n.owner) {
		return n
	}
	return &node[K, V]{owner: ed, bitmap: n.bitmap, slots: slices.Clone(n.slots)}
}

func (n *node[K, V]) insert(ed Editor, bit uint32, pos int, s slot[K, V]) *node[K, V] {
	if ed.Owns(n.owner) {
		n.bitmap |= bit
		n.slots = slices.Insert(n.slots, pos, s)
		return n
	}
	slots := make([]slot[K, V], len(n.slots)+1)
	copy(slots, n.slots[:pos])
	slots[pos] = s
	copy(slots[pos+1:], n.slots[pos:])
	return &node[K, V]{owner: ed, bitmap: n.bitmap | bit, slots: slots}
}

func (n *node[K, V]) remove(ed Editor, bit uint32, pos int) *node[K, V] {
	if len(n.slots) == 1 {
		return nil
	}
	if ed.Owns(n.owner) {
		n.bitmap &^= bit
		n.slots = slices.Delete(n.slots, pos, pos+1)
		return n
	}
	slots := make([]slot[K, V], 0, len(n.slots)-1)
	slots = append(slots, n.slots[:pos]...)
	slots = append(slots, n.slots[pos+1:]...)
	return &node[K, V]{owner: ed, bitmap: n.bitmap &^ bit, slots: slots}
}

func (n *node[K, V]) each(yield func(K, V) bool) bool {
	for i := range n.slots {
		s := &n.slots[i]
		if s.sub != nil {
			if !s.sub.each(yield) {
				return false
			}
		} else if !yield(s.key, s.val) {
			return false
		}
	}
	return true
}
