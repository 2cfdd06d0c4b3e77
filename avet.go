package eav

import "github.com/andreyvit/eav/pmap"

// AVET is the value index: attribute → value → entity → tx. It mirrors the
// primary index for non-reference attributes that are indexed or unique.
//
// Unique attributes map each value to a single (entity, tx); a second entity
// writing the same value takes the slot over. Uniqueness is not enforced
// here.
type AVET struct {
	columns *pmap.IntMap[avetColumn]
}

type avetColumn struct {
	attr   Attribute
	unique *pmap.Map[Value, entityTx]
	many   *pmap.Map[Value, *pmap.IntMap[TX]]
}

func (x AVET) Add(ed pmap.Editor, e EID, a Attribute, v Value, tx TX) AVET {
	cols := x.columns.Update(ed, uint64(a.ID), func(col avetColumn, found bool) (avetColumn, bool) {
		if !found {
			col.attr = a
		}
		if a.Schema.Unique {
			col.unique = col.unique.Set(ed, v, entityTx{e, tx})
		} else {
			col.many = col.many.Update(ed, v, func(ents *pmap.IntMap[TX], _ bool) (*pmap.IntMap[TX], bool) {
				ents = ents.Set(ed, uint64(e), tx)
				return ents, true
			})
		}
		return col, true
	})
	return AVET{cols}
}

// Remove deletes the (a, v) → e mapping. For unique attributes the slot is
// only cleared if it still belongs to e.
func (x AVET) Remove(ed pmap.Editor, e EID, a Attribute, v Value) AVET {
	cols := x.columns.Update(ed, uint64(a.ID), func(col avetColumn, found bool) (avetColumn, bool) {
		if !found {
			return col, false
		}
		if a.Schema.Unique {
			col.unique = col.unique.Update(ed, v, func(old entityTx, found bool) (entityTx, bool) {
				return old, found && old.e != e
			})
		} else {
			col.many = col.many.Update(ed, v, func(ents *pmap.IntMap[TX], found bool) (*pmap.IntMap[TX], bool) {
				if !found {
					return ents, false
				}
				ents = ents.Delete(ed, uint64(e))
				return ents, ents != nil
			})
		}
		return col, col.unique != nil || col.many != nil
	})
	return AVET{cols}
}

// LookupUnique returns the entity holding value v for unique attribute a.
func (x AVET) LookupUnique(a Attribute, v Value) (EID, TX, bool) {
	if !a.Schema.Unique {
		panic(attrErrf(a, nil, "unique lookup on a non-unique attribute"))
	}
	col, ok := x.columns.Get(uint64(a.ID))
	if !ok {
		return 0, 0, false
	}
	et, ok := col.unique.Get(v)
	return et.e, et.tx, ok
}

// LookupMany calls yield for every entity holding value v for attribute a.
func (x AVET) LookupMany(a Attribute, v Value, yield func(EID, TX) bool) bool {
	col, ok := x.columns.Get(uint64(a.ID))
	if !ok {
		return true
	}
	if col.unique != nil {
		if et, ok := col.unique.Get(v); ok {
			return yield(et.e, et.tx)
		}
		return true
	}
	ents, _ := col.many.Get(v)
	return ents.Each(func(e uint64, tx TX) bool {
		return yield(EID(e), tx)
	})
}

// Len returns the number of (attribute, value, entity) entries.
func (x AVET) Len() int {
	var n int
	for _, col := range x.columns.All() {
		n += col.unique.Len()
		for _, ents := range col.many.All() {
			n += ents.Len()
		}
	}
	return n
}
