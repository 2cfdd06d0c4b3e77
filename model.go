package eav

import (
	"fmt"
	"reflect"
	"strings"
)

type (
	// EID identifies an entity. The high bits select a partition (see
	// Layout), the low bits are a per-partition sequence number.
	EID uint64

	// TX identifies the transaction that wrote a value. Transaction ids grow
	// monotonically; zero is a valid id.
	TX uint64

	// Value is an attribute value. Values must be comparable with ==;
	// reference attributes hold EID values.
	Value = any

	Cardinality int
)

const (
	One Cardinality = iota
	Many
)

func (c Cardinality) String() string {
	switch c {
	case One:
		return "one"
	case Many:
		return "many"
	default:
		return fmt.Sprintf("invalid cardinality %d", int(c))
	}
}

// Schema describes how an attribute is stored and indexed. Only Cardinality,
// IsRef, Indexed and Unique affect the index; the cascade and required flags
// are carried for the transaction layer.
type Schema struct {
	Cardinality     Cardinality
	IsRef           bool
	Indexed         bool
	Unique          bool
	CascadeDelete   bool
	CascadeDeleteBy bool
	Required        bool
}

// InValueIndex reports whether values of this attribute are mirrored into AVET.
func (s Schema) InValueIndex() bool {
	return !s.IsRef && (s.Indexed || s.Unique)
}

// InRefIndex reports whether values of this attribute are mirrored into VAET.
func (s Schema) InRefIndex() bool {
	return s.IsRef
}

func (s Schema) String() string {
	var buf strings.Builder
	buf.WriteString(s.Cardinality.String())
	flag := func(on bool, name string) {
		if on {
			buf.WriteByte(',')
			buf.WriteString(name)
		}
	}
	flag(s.IsRef, "ref")
	flag(s.Indexed, "indexed")
	flag(s.Unique, "unique")
	flag(s.CascadeDelete, "cascade-delete")
	flag(s.CascadeDeleteBy, "cascade-delete-by")
	flag(s.Required, "required")
	return buf.String()
}

// Attribute is an attribute id plus its schema. Attributes are entities
// themselves, so the id is an EID.
type Attribute struct {
	ID     EID
	Ident  string
	Schema Schema
}

func (a Attribute) String() string {
	if a.Ident != "" {
		return a.Ident
	}
	return fmt.Sprintf("attr#%d", uint64(a.ID))
}

// Versioned is a value together with the transaction that last wrote it.
type Versioned struct {
	Value Value
	TX    TX
}

func (v Versioned) String() string {
	return fmt.Sprintf("%v@%d", v.Value, uint64(v.TX))
}

// refVersioned is how cardinality-one reference columns store their values,
// avoiding an interface box per entity.
type refVersioned struct {
	ref EID
	tx  TX
}

func (rv refVersioned) versioned() Versioned {
	return Versioned{rv.ref, rv.tx}
}

type entityTx struct {
	e  EID
	tx TX
}

// ensureValue panics unless v can be stored for attribute a.
func ensureValue(a Attribute, v Value) {
	if v == nil {
		panic(attrErrf(a, nil, "nil value"))
	}
	if a.Schema.IsRef {
		if _, ok := v.(EID); !ok {
			panic(attrErrf(a, nil, "reference attribute needs an EID value, got %T", v))
		}
		return
	}
	if !reflect.TypeOf(v).Comparable() {
		panic(attrErrf(a, nil, "value of type %T is not comparable", v))
	}
}
