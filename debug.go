package eav

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

type DumpFlags uint64

const (
	DumpPartitionHeaders = DumpFlags(1 << iota)
	DumpDatoms
	DumpStats
	DumpRefs

	DumpAll = DumpFlags(0xFFFFFFFFFFFFFFFF)
)

var (
	dumpSep1 = strings.Repeat("=", 80)
	dumpSep2 = strings.Repeat("-", 60)
)

func (f DumpFlags) Contains(v DumpFlags) bool {
	return (f & v) == v
}

// Dump renders the index for debugging and golden tests. Datoms are sorted
// by attribute, entity and value, so the output does not depend on the
// internal order.
func (idx *Index) Dump(f DumpFlags) string {
	var buf strings.Builder
	for _, p := range idx.parts {
		if p != nil {
			p.dump(&buf, f)
		}
	}
	return buf.String()
}

func (p *Partition) dump(w *strings.Builder, f DumpFlags) {
	prefix := fmt.Sprintf("p%d", p.num)
	s := p.Stats()

	if f.Contains(DumpPartitionHeaders) {
		fmt.Fprintln(w, dumpSep1)
		fmt.Fprintf(w, "%s (%d datoms)\n", prefix, s.Datoms)
	}
	if f.Contains(DumpStats) {
		fmt.Fprintf(w, "%s.stats: attributes = %d, datoms = %d, value_index = %d, ref_index = %d\n", prefix, s.Attributes, s.Datoms, s.ValueIndex, s.RefIndex)
	}

	if f.Contains(DumpDatoms) {
		if f.Contains(DumpStats) {
			fmt.Fprintln(w, dumpSep2)
		}
		var datoms []Datom
		p.aevt.All(func(d Datom) bool {
			datoms = append(datoms, d)
			return true
		})
		sortDatoms(datoms)
		for i, d := range datoms {
			fmt.Fprintf(w, "%s.%d = %d %d %s @%d\n", prefix, i+1, uint64(d.E), uint64(d.A), valueString(d.V), uint64(d.TX))
		}
	}

	if f.Contains(DumpRefs) {
		fmt.Fprintln(w, dumpSep2)
		var refs []Datom
		for target := range p.vaet.targets.All() {
			p.vaet.RefsTo(EID(target), func(e, a EID, tx TX) bool {
				refs = append(refs, Datom{e, a, EID(target), tx, true})
				return true
			})
		}
		sortDatoms(refs)
		for i, d := range refs {
			fmt.Fprintf(w, "%s.ref.%d: %d <= %d %d\n", prefix, i+1, uint64(d.V.(EID)), uint64(d.E), uint64(d.A))
		}
	}
}

func sortDatoms(datoms []Datom) {
	slices.SortFunc(datoms, func(a, b Datom) int {
		return cmp.Or(
			cmp.Compare(a.A, b.A),
			cmp.Compare(a.E, b.E),
			strings.Compare(valueString(a.V), valueString(b.V)),
		)
	})
}

func valueString(v Value) string {
	if e, ok := v.(EID); ok {
		return fmt.Sprintf("#%d", uint64(e))
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(data)
}
