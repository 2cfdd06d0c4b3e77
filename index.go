package eav

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/andreyvit/eav/pmap"
)

// Index is an immutable snapshot of all partitions. Every edit returns a new
// Index sharing all untouched structure with the old one, which stays valid
// for readers that hold it.
//
// Edits take the Editor of the current edit session. Within a session,
// structure created by the session is modified in place; once the result is
// handed to readers, the session's Editor must not be used again.
type Index struct {
	owner pmap.Editor
	cfg   *config
	parts []*Partition
}

// New returns an empty index without partitions.
func New(opt Options) *Index {
	cfg := newConfig(opt)
	return &Index{
		cfg:   cfg,
		parts: make([]*Partition, cfg.layout.MaxPartitions),
	}
}

func (idx *Index) Layout() Layout {
	return idx.cfg.layout
}

func (idx *Index) Registry() Registry {
	return idx.cfg.registry
}

func (idx *Index) editable(ed pmap.Editor) *Index {
	if ed.Owns(idx.owner) {
		return idx
	}
	return &Index{
		owner: ed,
		cfg:   idx.cfg,
		parts: slices.Clone(idx.parts),
	}
}

// WithPartitions returns an index in which the given partitions exist.
// Existing partitions are kept as they are.
func (idx *Index) WithPartitions(ed pmap.Editor, parts ...int) *Index {
	result := idx
	for _, n := range parts {
		idx.ensurePartitionNum(n)
		if result.parts[n] != nil {
			continue
		}
		result = result.editable(ed)
		result.parts[n] = newPartition(ed, n)
	}
	return result
}

// Partition returns partition n, or nil if it does not exist.
func (idx *Index) Partition(n int) *Partition {
	if n < 0 || n >= len(idx.parts) {
		return nil
	}
	return idx.parts[n]
}

// Partitions returns the numbers of existing partitions in ascending order.
func (idx *Index) Partitions() []int {
	var result []int
	for n, p := range idx.parts {
		if p != nil {
			result = append(result, n)
		}
	}
	return result
}

func (idx *Index) ensurePartitionNum(n int) {
	if n < 0 || n >= len(idx.parts) {
		panic(partErrf(n, "out of range, max partitions %d", len(idx.parts)))
	}
}

// partitionOf returns the partition owning e, which must exist.
func (idx *Index) partitionOf(e EID) (int, *Partition) {
	n := idx.cfg.layout.Partition(e)
	idx.ensurePartitionNum(n)
	p := idx.parts[n]
	if p == nil {
		panic(partErrf(n, "does not exist (entity %d)", uint64(e)))
	}
	return n, p
}

func (idx *Index) lookupPartition(e EID) *Partition {
	return idx.Partition(idx.cfg.layout.Partition(e))
}

// Add asserts that e has value v for attribute a as of tx. If the value is
// new, sink receives a retraction of the value it replaced (if any) and then
// an assertion of v. If the value was already present, nothing changes and
// idx itself is returned.
//
// The partition of e must exist.
func (idx *Index) Add(ed pmap.Editor, e EID, a Attribute, v Value, tx TX, sink DatomSink) *Index {
	n, p := idx.partitionOf(e)
	q, res := p.add(ed, e, a, v, tx)
	if !res.Added {
		if idx.cfg.verbose {
			idx.cfg.logf("eav: ADD.NOOP %d %v = %v @%d", uint64(e), a, v, uint64(tx))
		}
		return idx
	}
	if idx.cfg.verbose {
		if res.Replaced != nil {
			idx.cfg.logf("eav: ADD %d %v = %v @%d (was %v)", uint64(e), a, v, uint64(tx), *res.Replaced)
		} else {
			idx.cfg.logf("eav: ADD %d %v = %v @%d", uint64(e), a, v, uint64(tx))
		}
	}

	result := idx.withPartition(ed, n, q)
	if sink != nil {
		if res.Replaced != nil {
			sink(Datom{e, a.ID, res.Replaced.Value, tx, false})
		}
		sink(Datom{e, a.ID, v, tx, true})
	}
	return result
}

// Remove retracts value v of attribute a from e. If the value was present,
// sink receives exactly one retraction; otherwise idx itself is returned.
func (idx *Index) Remove(ed pmap.Editor, e EID, a Attribute, v Value, sink DatomSink) *Index {
	result, _, _ := idx.RemoveTX(ed, e, a, v, sink)
	return result
}

// RemoveTX is Remove that also returns the tx the removed value was written
// in; ok is false if nothing was removed.
func (idx *Index) RemoveTX(ed pmap.Editor, e EID, a Attribute, v Value, sink DatomSink) (_ *Index, _ TX, ok bool) {
	n, p := idx.partitionOf(e)
	q, tx, ok := p.remove(ed, e, a, v)
	if !ok {
		if idx.cfg.verbose {
			idx.cfg.logf("eav: RETRACT.NOOP %d %v = %v", uint64(e), a, v)
		}
		return idx, 0, false
	}
	if idx.cfg.verbose {
		idx.cfg.logf("eav: RETRACT %d %v = %v (was @%d)", uint64(e), a, v, uint64(tx))
	}
	result := idx.withPartition(ed, n, q)
	if sink != nil {
		sink(Datom{e, a.ID, v, tx, false})
	}
	return result, tx, true
}

func (idx *Index) withPartition(ed pmap.Editor, n int, p *Partition) *Index {
	if idx.parts[n] == p {
		return idx
	}
	result := idx.editable(ed)
	result.parts[n] = p
	return result
}

// EntityExists reports whether e has an entity type.
func (idx *Index) EntityExists(e EID) bool {
	p := idx.lookupPartition(e)
	return p != nil && p.aevt.EntityExists(e)
}

// GetOne returns the value of cardinality-one attribute a of e.
func (idx *Index) GetOne(e EID, a Attribute) (Versioned, bool) {
	p := idx.lookupPartition(e)
	if p == nil {
		return Versioned{}, false
	}
	return p.aevt.GetOne(e, a)
}

// GetMany returns the values of a for e as assertion datoms.
func (idx *Index) GetMany(e EID, a Attribute) []Datom {
	p := idx.lookupPartition(e)
	if p == nil {
		return nil
	}
	var result []Datom
	p.aevt.GetMany(e, a, func(v Versioned) bool {
		result = append(result, Datom{e, a.ID, v.Value, v.TX, true})
		return true
	})
	return result
}

// Contains returns the tx of v if e currently holds v for a.
func (idx *Index) Contains(e EID, a Attribute, v Value) (TX, bool) {
	p := idx.lookupPartition(e)
	if p == nil {
		return 0, false
	}
	return p.aevt.Contains(e, a, v)
}

// Select returns an index holding only the partitions in kept. A nil kept
// set keeps everything.
func (idx *Index) Select(ed pmap.Editor, kept *roaring.Bitmap) *Index {
	if kept == nil {
		return idx
	}
	result := idx
	for n, p := range idx.parts {
		if p != nil && !kept.Contains(uint32(n)) {
			result = result.editable(ed)
			result.parts[n] = nil
		}
	}
	return result
}

// MergePartitionsFrom returns an index in which every partition present in
// other replaces the corresponding partition of idx. Both indices must have
// the same partition count.
func (idx *Index) MergePartitionsFrom(ed pmap.Editor, other *Index) *Index {
	if len(idx.parts) != len(other.parts) {
		panic(partErrf(len(other.parts), "cannot merge indices with %d and %d partitions", len(idx.parts), len(other.parts)))
	}
	result := idx
	for n, p := range other.parts {
		if p != nil && result.parts[n] != p {
			result = result.editable(ed)
			result.parts[n] = p
		}
	}
	return result
}
