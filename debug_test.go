package eav

import (
	"math"
	"strings"
	"testing"

	"github.com/andreyvit/eav/pmap"
)

func TestDump(t *testing.T) {
	ed := pmap.NewEditor()
	idx := newTestIndex(t, ed)
	idx = idx.Add(ed, 100, friendsAttr, EID(200), 2, nil)
	idx = idx.Add(ed, 100, nameAttr, "Alice", 1, nil)
	idx = idx.Add(ed, 100, ageAttr, 30, 1, nil)

	a := idx.Dump(DumpAll)
	e := strings.Join([]string{
		strings.Repeat("=", 80),
		"p0 (3 datoms)",
		"p0.stats: attributes = 3, datoms = 3, value_index = 1, ref_index = 1",
		strings.Repeat("-", 60),
		"p0.1 = 100 10 \"Alice\" @1",
		"p0.2 = 100 13 30 @1",
		"p0.3 = 100 14 #200 @2",
		strings.Repeat("-", 60),
		"p0.ref.1: 200 <= 100 14",
		"",
	}, "\n")
	if a != e {
		t.Errorf("** Dump(DumpAll) = %s, wanted:\n%s", a, e)
	}

	a = idx.Dump(DumpDatoms)
	e = "p0.1 = 100 10 \"Alice\" @1\np0.2 = 100 13 30 @1\np0.3 = 100 14 #200 @2\n"
	if a != e {
		t.Errorf("** Dump(DumpDatoms) = %s, wanted:\n%s", a, e)
	}
}

func TestDumpFlagsContains(t *testing.T) {
	f := DumpPartitionHeaders | DumpDatoms
	if !f.Contains(DumpDatoms) || f.Contains(DumpStats) || !DumpAll.Contains(f) {
		t.Errorf("Contains misbehaves for %b", f)
	}
}

func TestDumpUnencodableValues(t *testing.T) {
	ed := pmap.NewEditor()
	idx := newTestIndex(t, ed)
	idx = idx.Add(ed, 100, tagsAttr, complex(1, 2), 1, nil)
	idx = idx.Add(ed, 100, nameAttr, math.Inf(1), 2, nil)

	a := idx.Dump(DumpDatoms)
	e := "p0.1 = 100 10 +Inf @2\np0.2 = 100 11 (1+2i) @1\n"
	if a != e {
		t.Errorf("** Dump(DumpDatoms) = %s, wanted:\n%s", a, e)
	}
}
