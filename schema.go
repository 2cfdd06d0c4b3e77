package eav

import "fmt"

// Well-known attributes that describe entities as data. Every entity carries
// an EntityTypeAttr value pointing at its type entity; a type entity lists
// the attributes its instances may have under PossibleAttrsAttr.
var (
	EntityTypeAttr = Attribute{
		ID:     1,
		Ident:  "entity/type",
		Schema: Schema{Cardinality: One, IsRef: true, Indexed: true, Required: true},
	}
	PossibleAttrsAttr = Attribute{
		ID:     2,
		Ident:  "entity-type/possible-attributes",
		Schema: Schema{Cardinality: Many, IsRef: true},
	}
)

// Registry resolves attribute ids to their schema. It is provided by the
// code that declares attributes; the index only reads from it.
type Registry interface {
	Attribute(id EID) (Attribute, bool)
}

// StaticRegistry is a Registry backed by a plain map.
type StaticRegistry map[EID]Attribute

// NewStaticRegistry returns a registry holding the well-known attributes and
// the given ones. Registering two attributes with the same id panics.
func NewStaticRegistry(attrs ...Attribute) StaticRegistry {
	reg := make(StaticRegistry, len(attrs)+2)
	reg.Register(EntityTypeAttr)
	reg.Register(PossibleAttrsAttr)
	for _, a := range attrs {
		reg.Register(a)
	}
	return reg
}

func (reg StaticRegistry) Register(a Attribute) {
	if prev, ok := reg[a.ID]; ok && prev != a {
		panic(fmt.Errorf("attribute %d registered twice: %v and %v", uint64(a.ID), prev, a))
	}
	reg[a.ID] = a
}

func (reg StaticRegistry) Attribute(id EID) (Attribute, bool) {
	a, ok := reg[id]
	return a, ok
}

// Layout describes how entity ids are split into partitions.
type Layout struct {
	// PartitionShift is the number of low-order bits holding the
	// per-partition sequence.
	PartitionShift uint
	// MaxPartitions bounds the partition number.
	MaxPartitions int
}

var DefaultLayout = Layout{
	PartitionShift: 40,
	MaxPartitions:  256,
}

// Partition returns the partition that owns e.
func (l Layout) Partition(e EID) int {
	return int(uint64(e) >> l.PartitionShift)
}

// MakeEID returns the seq-th entity id of partition part.
func (l Layout) MakeEID(part int, seq uint64) EID {
	if part < 0 || part >= l.MaxPartitions {
		panic(partErrf(part, "out of range, max partitions %d", l.MaxPartitions))
	}
	if seq >= 1<<l.PartitionShift {
		panic(partErrf(part, "sequence %d does not fit in %d bits", seq, l.PartitionShift))
	}
	return EID(uint64(part)<<l.PartitionShift | seq)
}
