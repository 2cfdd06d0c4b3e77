package pmap

import (
	"math/rand/v2"
	"testing"

	"github.com/benbjohnson/immutable"
)

// TestAgainstImmutableMap replays random edits against both an IntMap and a
// reference persistent map, checking that every retained version still
// matches its reference after later sessions have edited descendants of it.
func TestAgainstImmutableMap(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))

	type version struct {
		m   *IntMap[int]
		ref *immutable.Map[uint64, int]
	}
	versions := []version{{nil, immutable.NewMap[uint64, int](nil)}}

	for session := 0; session < 200; session++ {
		base := versions[rnd.IntN(len(versions))]
		ed := NewEditor()
		m, ref := base.m, base.ref
		for op := 0; op < 50; op++ {
			k := rnd.Uint64N(300)
			if rnd.IntN(3) == 0 {
				m = m.Delete(ed, k)
				ref = ref.Delete(k)
			} else {
				v := rnd.IntN(5)
				m = m.Set(ed, k, v)
				ref = ref.Set(k, v)
			}
		}
		versions = append(versions, version{m, ref})
	}

	for i, v := range versions {
		if v.m.Len() != v.ref.Len() {
			t.Fatalf("version %d: Len = %d, wanted %d", i, v.m.Len(), v.ref.Len())
		}
		for k := uint64(0); k < 300; k++ {
			a, aok := v.m.Get(k)
			e, eok := v.ref.Get(k)
			if aok != eok || a != e {
				t.Fatalf("version %d: Get(%d) = %d, %v, wanted %d, %v", i, k, a, aok, e, eok)
			}
		}
	}
}

func TestMapAgainstImmutableMap(t *testing.T) {
	rnd := rand.New(rand.NewPCG(3, 4))
	ed := NewEditor()
	var m *Map[string, int]
	ref := immutable.NewMap[string, int](nil)
	keys := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta"}
	for op := 0; op < 2000; op++ {
		k := keys[rnd.IntN(len(keys))]
		if rnd.IntN(4) == 0 {
			m = m.Delete(ed, k)
			ref = ref.Delete(k)
		} else {
			m = m.Set(ed, k, op)
			ref = ref.Set(k, op)
		}
	}
	if m.Len() != ref.Len() {
		t.Fatalf("Len = %d, wanted %d", m.Len(), ref.Len())
	}
	for _, k := range keys {
		a, aok := m.Get(k)
		e, eok := ref.Get(k)
		if aok != eok || a != e {
			t.Fatalf("Get(%q) = %d, %v, wanted %d, %v", k, a, aok, e, eok)
		}
	}
}
