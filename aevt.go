package eav

import "github.com/andreyvit/eav/pmap"

// AEVT is the primary index: attribute → entity → value → tx. It is the
// source of truth that the secondary indices mirror.
//
// Each attribute gets a column whose representation depends on the
// attribute's cardinality and whether it is a reference.
type AEVT struct {
	columns *pmap.IntMap[aevtColumn]
}

type aevtColumn struct {
	attr    Attribute
	one     *pmap.IntMap[Versioned]
	oneRef  *pmap.IntMap[refVersioned]
	many    *pmap.IntMap[*pmap.Map[Value, TX]]
	manyRef *pmap.IntMap[*pmap.IntMap[TX]]
}

func (col aevtColumn) isEmpty() bool {
	return col.one == nil && col.oneRef == nil && col.many == nil && col.manyRef == nil
}

// AddResult describes the effect of AEVT.Add.
type AddResult struct {
	// Added is false when the value was already present and nothing was written.
	Added bool
	// Replaced is the previous value of a cardinality-one attribute, if any.
	Replaced *Versioned
}

// Add stores v for (e, a), versioned with tx.
func (x AEVT) Add(ed pmap.Editor, e EID, a Attribute, v Value, tx TX) (AEVT, AddResult) {
	ensureValue(a, v)
	var res AddResult
	cols := x.columns.Update(ed, uint64(a.ID), func(col aevtColumn, found bool) (aevtColumn, bool) {
		if found {
			col.ensureSchema(a)
		} else {
			col.attr = a
		}
		switch {
		case a.Schema.Cardinality == One && a.Schema.IsRef:
			ref := v.(EID)
			col.oneRef = col.oneRef.Update(ed, uint64(e), func(old refVersioned, found bool) (refVersioned, bool) {
				if found && old.ref == ref {
					return old, true
				}
				if found {
					res.Replaced = &Versioned{old.ref, old.tx}
				}
				res.Added = true
				return refVersioned{ref, tx}, true
			})
		case a.Schema.Cardinality == One:
			col.one = col.one.Update(ed, uint64(e), func(old Versioned, found bool) (Versioned, bool) {
				if found && old.Value == v {
					return old, true
				}
				if found {
					res.Replaced = &Versioned{old.Value, old.TX}
				}
				res.Added = true
				return Versioned{v, tx}, true
			})
		case a.Schema.IsRef:
			ref := v.(EID)
			col.manyRef = col.manyRef.Update(ed, uint64(e), func(set *pmap.IntMap[TX], _ bool) (*pmap.IntMap[TX], bool) {
				set = set.Update(ed, uint64(ref), func(old TX, found bool) (TX, bool) {
					if found {
						return old, true
					}
					res.Added = true
					return tx, true
				})
				return set, set != nil
			})
		default:
			col.many = col.many.Update(ed, uint64(e), func(set *pmap.Map[Value, TX], _ bool) (*pmap.Map[Value, TX], bool) {
				set = set.Update(ed, v, func(old TX, found bool) (TX, bool) {
					if found {
						return old, true
					}
					res.Added = true
					return tx, true
				})
				return set, set != nil
			})
		}
		return col, !col.isEmpty()
	})
	return AEVT{cols}, res
}

// Remove deletes v from (e, a). For cardinality-one attributes v must be the
// current value. It returns the tx the removed value had; ok is false if
// there was nothing to remove.
func (x AEVT) Remove(ed pmap.Editor, e EID, a Attribute, v Value) (_ AEVT, _ TX, ok bool) {
	var removedTx TX
	cols := x.columns.Update(ed, uint64(a.ID), func(col aevtColumn, found bool) (aevtColumn, bool) {
		if !found {
			return col, false
		}
		col.ensureSchema(a)
		switch {
		case a.Schema.Cardinality == One && a.Schema.IsRef:
			ref, isRef := v.(EID)
			col.oneRef = col.oneRef.Update(ed, uint64(e), func(old refVersioned, found bool) (refVersioned, bool) {
				if !found || !isRef || old.ref != ref {
					return old, found
				}
				removedTx, ok = old.tx, true
				return old, false
			})
		case a.Schema.Cardinality == One:
			col.one = col.one.Update(ed, uint64(e), func(old Versioned, found bool) (Versioned, bool) {
				if !found || old.Value != v {
					return old, found
				}
				removedTx, ok = old.TX, true
				return old, false
			})
		case a.Schema.IsRef:
			ref, isRef := v.(EID)
			if !isRef {
				break
			}
			col.manyRef = col.manyRef.Update(ed, uint64(e), func(set *pmap.IntMap[TX], found bool) (*pmap.IntMap[TX], bool) {
				if !found {
					return set, false
				}
				set = set.Update(ed, uint64(ref), func(old TX, found bool) (TX, bool) {
					if found {
						removedTx, ok = old, true
					}
					return old, false
				})
				return set, set != nil
			})
		default:
			col.many = col.many.Update(ed, uint64(e), func(set *pmap.Map[Value, TX], found bool) (*pmap.Map[Value, TX], bool) {
				if !found {
					return set, false
				}
				set = set.Update(ed, v, func(old TX, found bool) (TX, bool) {
					if found {
						removedTx, ok = old, true
					}
					return old, false
				})
				return set, set != nil
			})
		}
		return col, !col.isEmpty()
	})
	return AEVT{cols}, removedTx, ok
}

func (col aevtColumn) ensureSchema(a Attribute) {
	if col.attr.Schema != a.Schema {
		panic(attrErrf(a, nil, "schema changed from %v", col.attr.Schema))
	}
}

func (x AEVT) column(a EID) (aevtColumn, bool) {
	return x.columns.Get(uint64(a))
}

// GetOne returns the value of a cardinality-one attribute.
func (x AEVT) GetOne(e EID, a Attribute) (Versioned, bool) {
	if a.Schema.Cardinality != One {
		panic(attrErrf(a, nil, "GetOne on a cardinality-many attribute"))
	}
	col, ok := x.column(a.ID)
	if !ok {
		return Versioned{}, false
	}
	if a.Schema.IsRef {
		rv, ok := col.oneRef.Get(uint64(e))
		return rv.versioned(), ok
	}
	return col.one.Get(uint64(e))
}

// GetMany calls yield for every value of (e, a), so cardinality-one and
// cardinality-many attributes can be read the same way. It stops early and
// returns false if yield returns false.
func (x AEVT) GetMany(e EID, a Attribute, yield func(Versioned) bool) bool {
	col, ok := x.column(a.ID)
	if !ok {
		return true
	}
	return col.entity(e, yield)
}

func (col aevtColumn) entity(e EID, yield func(Versioned) bool) bool {
	switch {
	case col.oneRef != nil:
		if rv, ok := col.oneRef.Get(uint64(e)); ok {
			return yield(rv.versioned())
		}
	case col.one != nil:
		if v, ok := col.one.Get(uint64(e)); ok {
			return yield(v)
		}
	case col.manyRef != nil:
		set, _ := col.manyRef.Get(uint64(e))
		return set.Each(func(ref uint64, tx TX) bool {
			return yield(Versioned{EID(ref), tx})
		})
	case col.many != nil:
		set, _ := col.many.Get(uint64(e))
		return set.Each(func(v Value, tx TX) bool {
			return yield(Versioned{v, tx})
		})
	}
	return true
}

// Contains returns the tx of v if (e, a) currently holds v.
func (x AEVT) Contains(e EID, a Attribute, v Value) (TX, bool) {
	col, ok := x.column(a.ID)
	if !ok {
		return 0, false
	}
	switch {
	case col.oneRef != nil:
		ref, isRef := v.(EID)
		if rv, ok := col.oneRef.Get(uint64(e)); ok && isRef && rv.ref == ref {
			return rv.tx, true
		}
	case col.one != nil:
		if cur, ok := col.one.Get(uint64(e)); ok && cur.Value == v {
			return cur.TX, true
		}
	case col.manyRef != nil:
		if ref, isRef := v.(EID); isRef {
			set, _ := col.manyRef.Get(uint64(e))
			return set.Get(uint64(ref))
		}
	case col.many != nil:
		set, _ := col.many.Get(uint64(e))
		return set.Get(v)
	}
	return 0, false
}

// Column calls yield with an assertion datom for every value of a, in no
// particular order.
func (x AEVT) Column(a EID, yield func(Datom) bool) bool {
	col, ok := x.column(a)
	if !ok {
		return true
	}
	return col.scan(yield)
}

// All calls yield with an assertion datom for every value in the index, in
// no particular order.
func (x AEVT) All(yield func(Datom) bool) bool {
	return x.columns.Each(func(_ uint64, col aevtColumn) bool {
		return col.scan(yield)
	})
}

func (col aevtColumn) scan(yield func(Datom) bool) bool {
	a := col.attr.ID
	switch {
	case col.oneRef != nil:
		return col.oneRef.Each(func(e uint64, rv refVersioned) bool {
			return yield(Datom{EID(e), a, rv.ref, rv.tx, true})
		})
	case col.one != nil:
		return col.one.Each(func(e uint64, v Versioned) bool {
			return yield(Datom{EID(e), a, v.Value, v.TX, true})
		})
	case col.manyRef != nil:
		return col.manyRef.Each(func(e uint64, set *pmap.IntMap[TX]) bool {
			return set.Each(func(ref uint64, tx TX) bool {
				return yield(Datom{EID(e), a, EID(ref), tx, true})
			})
		})
	case col.many != nil:
		return col.many.Each(func(e uint64, set *pmap.Map[Value, TX]) bool {
			return set.Each(func(v Value, tx TX) bool {
				return yield(Datom{EID(e), a, v, tx, true})
			})
		})
	}
	return true
}

// EntityExists reports whether e has an EntityTypeAttr value.
func (x AEVT) EntityExists(e EID) bool {
	col, ok := x.column(EntityTypeAttr.ID)
	return ok && col.oneRef.Has(uint64(e))
}

// Attributes returns the attributes that have at least one value.
func (x AEVT) Attributes() []Attribute {
	attrs := make([]Attribute, 0, x.columns.Len())
	for _, col := range x.columns.All() {
		attrs = append(attrs, col.attr)
	}
	return attrs
}

// Len returns the number of datoms in the index.
func (x AEVT) Len() int {
	var n int
	for _, col := range x.columns.All() {
		n += col.len()
	}
	return n
}

func (col aevtColumn) len() int {
	switch {
	case col.oneRef != nil:
		return col.oneRef.Len()
	case col.one != nil:
		return col.one.Len()
	case col.manyRef != nil:
		var n int
		for _, set := range col.manyRef.All() {
			n += set.Len()
		}
		return n
	case col.many != nil:
		var n int
		for _, set := range col.many.All() {
			n += set.Len()
		}
		return n
	}
	return 0
}
