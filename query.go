package eav

import (
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Query is one of the index lookups defined in this file; T is its result
// type. The set is closed: QueryIndex handles exactly these types.
type Query[T any] interface {
	queryResult() T
}

type (
	// GetOne reads a cardinality-one attribute. The result is nil if there is
	// no value. With ThrowIfNoEntity, a missing value of a missing entity is
	// an *EntityError wrapping ErrNoEntity.
	GetOne struct {
		Entity          EID
		Attr            Attribute
		ThrowIfNoEntity bool
	}

	// GetMany reads all values of an attribute of any cardinality.
	GetMany struct {
		Entity EID
		Attr   Attribute
	}

	// Contains returns the tx of Value if the entity holds it, or nil.
	Contains struct {
		Entity EID
		Attr   Attribute
		Value  Value
	}

	// Column returns every datom of one attribute.
	Column struct {
		Attr       Attribute
		Partitions *roaring.Bitmap
	}

	// All returns a sequence of every datom. The sequence is lazy and can be
	// iterated any number of times.
	All struct {
		Partitions *roaring.Bitmap
	}

	// LookupUnique returns the entity holding Value for a unique attribute,
	// or nil.
	LookupUnique struct {
		Attr       Attribute
		Value      Value
		Partitions *roaring.Bitmap
	}

	// LookupMany returns every entity holding Value for an indexed, unique or
	// reference attribute.
	LookupMany struct {
		Attr       Attribute
		Value      Value
		Partitions *roaring.Bitmap
	}

	// RefsTo returns a datom for every reference pointing at Entity.
	RefsTo struct {
		Entity     EID
		Partitions *roaring.Bitmap
	}

	// Entity reconstructs all attributes of an entity from its type's
	// possible attributes. The result is nil if the entity has no type.
	Entity struct {
		Entity EID
	}
)

func (GetOne) queryResult() *Versioned { return nil }
func (GetMany) queryResult() []Datom { return nil }
func (Contains) queryResult() *TX { return nil }
func (Column) queryResult() []Datom { return nil }
func (All) queryResult() iter.Seq[Datom] { return nil }
func (LookupUnique) queryResult() *EID { return nil }
func (LookupMany) queryResult() []EID { return nil }
func (RefsTo) queryResult() []Datom { return nil }
func (Entity) queryResult() *EntityView { return nil }

// EntityView is the result of an Entity query.
type EntityView struct {
	ID    EID
	Type  EID
	Attrs map[EID][]Datom
}

// Values returns the values of attribute a.
func (ev *EntityView) Values(a Attribute) []Value {
	var result []Value
	for _, d := range ev.Attrs[a.ID] {
		result = append(result, d.V)
	}
	return result
}

// QueryIndex runs q against idx.
//
// Lookups on attributes that are neither indexed, unique nor references
// panic with an *AttributeError.
func QueryIndex[T any](idx *Index, q Query[T]) (T, error) {
	result, err := idx.query(q)
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func (idx *Index) query(q any) (any, error) {
	switch q := q.(type) {
	case GetOne:
		return idx.queryGetOne(q)
	case GetMany:
		return idx.GetMany(q.Entity, q.Attr), nil
	case Contains:
		if tx, ok := idx.Contains(q.Entity, q.Attr, q.Value); ok {
			return &tx, nil
		}
		return (*TX)(nil), nil
	case Column:
		var result []Datom
		for _, p := range idx.partitionsIn(q.Partitions) {
			p.aevt.Column(q.Attr.ID, func(d Datom) bool {
				result = append(result, d)
				return true
			})
		}
		return result, nil
	case All:
		return idx.all(q.Partitions), nil
	case LookupUnique:
		return idx.lookupUnique(q), nil
	case LookupMany:
		return idx.lookupMany(q), nil
	case RefsTo:
		var result []Datom
		for _, p := range idx.partitionsIn(q.Partitions) {
			p.vaet.RefsTo(q.Entity, func(e, a EID, tx TX) bool {
				result = append(result, Datom{e, a, q.Entity, tx, true})
				return true
			})
		}
		return result, nil
	case Entity:
		return idx.entity(q.Entity), nil
	default:
		panic(fmt.Errorf("eav: unsupported query %T", q))
	}
}

func (idx *Index) queryGetOne(q GetOne) (*Versioned, error) {
	if v, ok := idx.GetOne(q.Entity, q.Attr); ok {
		return &v, nil
	}
	if q.ThrowIfNoEntity && !idx.EntityExists(q.Entity) {
		return nil, &EntityError{q.Entity, q.Attr, ErrNoEntity}
	}
	return nil, nil
}

func (idx *Index) all(set *roaring.Bitmap) iter.Seq[Datom] {
	return func(yield func(Datom) bool) {
		for _, p := range idx.partitionsIn(set) {
			if !p.aevt.All(yield) {
				return
			}
		}
	}
}

func (idx *Index) lookupUnique(q LookupUnique) *EID {
	var lookup func(*Partition) (EID, TX, bool)
	switch {
	case q.Attr.Schema.IsRef:
		target := refValue(q.Attr, q.Value)
		lookup = func(p *Partition) (EID, TX, bool) { return p.vaet.LookupUnique(q.Attr, target) }
	case q.Attr.Schema.InValueIndex():
		lookup = func(p *Partition) (EID, TX, bool) { return p.avet.LookupUnique(q.Attr, q.Value) }
	default:
		panic(attrErrf(q.Attr, nil, "attribute is not indexed"))
	}
	for _, p := range idx.partitionsIn(q.Partitions) {
		if e, _, ok := lookup(p); ok {
			return &e
		}
	}
	return nil
}

func (idx *Index) lookupMany(q LookupMany) []EID {
	var result []EID
	collect := func(e EID, _ TX) bool {
		result = append(result, e)
		return true
	}
	switch {
	case q.Attr.Schema.IsRef:
		target := refValue(q.Attr, q.Value)
		for _, p := range idx.partitionsIn(q.Partitions) {
			p.vaet.LookupMany(q.Attr, target, collect)
		}
	case q.Attr.Schema.InValueIndex():
		for _, p := range idx.partitionsIn(q.Partitions) {
			p.avet.LookupMany(q.Attr, q.Value, collect)
		}
	default:
		panic(attrErrf(q.Attr, nil, "attribute is not indexed"))
	}
	return result
}

func refValue(a Attribute, v Value) EID {
	ref, ok := v.(EID)
	if !ok {
		panic(attrErrf(a, nil, "reference lookup needs an EID value, got %T", v))
	}
	return ref
}

func (idx *Index) entity(e EID) *EntityView {
	typ, ok := idx.GetOne(e, EntityTypeAttr)
	if !ok {
		return nil
	}
	ev := &EntityView{
		ID:    e,
		Type:  typ.Value.(EID),
		Attrs: make(map[EID][]Datom),
	}
	ev.Attrs[EntityTypeAttr.ID] = []Datom{{e, EntityTypeAttr.ID, typ.Value, typ.TX, true}}
	for _, d := range idx.GetMany(ev.Type, PossibleAttrsAttr) {
		id := d.V.(EID)
		if id == EntityTypeAttr.ID {
			continue
		}
		a, ok := idx.cfg.registry.Attribute(id)
		if !ok {
			idx.cfg.logf("eav: entity %d: possible attribute %d is not registered", uint64(e), uint64(id))
			continue
		}
		if datoms := idx.GetMany(e, a); len(datoms) > 0 {
			ev.Attrs[id] = datoms
		}
	}
	return ev
}
