package eav

import "github.com/andreyvit/eav/pmap"

// VAET is the reference index: referenced entity → attribute → referring
// entity → tx. It mirrors the primary index for every reference attribute
// and answers "who points at X" without scanning.
type VAET struct {
	targets *pmap.IntMap[*pmap.IntMap[vaetSlot]]
}

// vaetSlot holds the referrers of one target through one attribute. Unique
// attributes keep a single referrer.
type vaetSlot struct {
	unique bool
	one    entityTx
	many   *pmap.IntMap[TX]
}

func (s vaetSlot) isEmpty() bool {
	return !s.unique && s.many == nil
}

func (x VAET) Add(ed pmap.Editor, e EID, a Attribute, target EID, tx TX) VAET {
	targets := x.targets.Update(ed, uint64(target), func(attrs *pmap.IntMap[vaetSlot], _ bool) (*pmap.IntMap[vaetSlot], bool) {
		attrs = attrs.Update(ed, uint64(a.ID), func(s vaetSlot, _ bool) (vaetSlot, bool) {
			if a.Schema.Unique {
				return vaetSlot{unique: true, one: entityTx{e, tx}}, true
			}
			s.many = s.many.Set(ed, uint64(e), tx)
			return s, true
		})
		return attrs, true
	})
	return VAET{targets}
}

// Remove deletes the e → target reference through a. For unique attributes
// the slot is only cleared if it still belongs to e.
func (x VAET) Remove(ed pmap.Editor, e EID, a Attribute, target EID) VAET {
	targets := x.targets.Update(ed, uint64(target), func(attrs *pmap.IntMap[vaetSlot], found bool) (*pmap.IntMap[vaetSlot], bool) {
		if !found {
			return attrs, false
		}
		attrs = attrs.Update(ed, uint64(a.ID), func(s vaetSlot, found bool) (vaetSlot, bool) {
			if !found {
				return s, false
			}
			if s.unique {
				return s, s.one.e != e
			}
			s.many = s.many.Delete(ed, uint64(e))
			return s, !s.isEmpty()
		})
		return attrs, attrs != nil
	})
	return VAET{targets}
}

// RefsTo calls yield for every (entity, attribute, tx) referencing target.
func (x VAET) RefsTo(target EID, yield func(e, a EID, tx TX) bool) bool {
	attrs, _ := x.targets.Get(uint64(target))
	return attrs.Each(func(a uint64, s vaetSlot) bool {
		return s.each(func(e EID, tx TX) bool {
			return yield(e, EID(a), tx)
		})
	})
}

// LookupUnique returns the entity referencing target through unique
// reference attribute a.
func (x VAET) LookupUnique(a Attribute, target EID) (EID, TX, bool) {
	if !a.Schema.Unique {
		panic(attrErrf(a, nil, "unique lookup on a non-unique attribute"))
	}
	s, ok := x.slot(a, target)
	if !ok {
		return 0, 0, false
	}
	return s.one.e, s.one.tx, true
}

// LookupMany calls yield for every entity referencing target through a.
func (x VAET) LookupMany(a Attribute, target EID, yield func(EID, TX) bool) bool {
	s, ok := x.slot(a, target)
	if !ok {
		return true
	}
	return s.each(yield)
}

func (x VAET) slot(a Attribute, target EID) (vaetSlot, bool) {
	attrs, _ := x.targets.Get(uint64(target))
	return attrs.Get(uint64(a.ID))
}

func (s vaetSlot) each(yield func(EID, TX) bool) bool {
	if s.unique {
		return yield(s.one.e, s.one.tx)
	}
	return s.many.Each(func(e uint64, tx TX) bool {
		return yield(EID(e), tx)
	})
}

// Len returns the number of references in the index.
func (x VAET) Len() int {
	var n int
	for _, attrs := range x.targets.All() {
		for _, s := range attrs.All() {
			if s.unique {
				n++
			} else {
				n += s.many.Len()
			}
		}
	}
	return n
}
