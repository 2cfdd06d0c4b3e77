package eav

import (
	"fmt"
	"math/rand/v2"
	"maps"
	"testing"

	"github.com/andreyvit/eav/pmap"
	"github.com/stretchr/testify/require"
)

type modelKey struct {
	e EID
	a EID
}

// model is a plain-map rendition of the primary index.
type model map[modelKey]map[Value]TX

func (m model) clone() model {
	c := make(model, len(m))
	for k, vals := range m {
		c[k] = maps.Clone(vals)
	}
	return c
}

func (m model) add(e EID, a Attribute, v Value, tx TX) {
	k := modelKey{e, a.ID}
	vals := m[k]
	if _, ok := vals[v]; ok {
		return
	}
	if vals == nil || a.Schema.Cardinality == One {
		vals = make(map[Value]TX)
		m[k] = vals
	}
	vals[v] = tx
}

func (m model) remove(e EID, a Attribute, v Value) {
	k := modelKey{e, a.ID}
	delete(m[k], v)
	if len(m[k]) == 0 {
		delete(m, k)
	}
}

func TestIndexAgainstModel(t *testing.T) {
	attrs := []Attribute{nameAttr, tagsAttr, ageAttr, nicksAttr, friendsAttr, managerAttr}
	ents := []EID{100, 101, 102, 103, DefaultLayout.MakeEID(1, 1), DefaultLayout.MakeEID(1, 2)}
	randomValue := func(rnd *rand.Rand, a Attribute) Value {
		switch {
		case a.Schema.IsRef:
			return ents[rnd.IntN(len(ents))]
		case a.Schema.Indexed:
			return rnd.IntN(4)
		default:
			return fmt.Sprintf("v%d", rnd.IntN(4))
		}
	}

	type version struct {
		idx *Index
		m   model
	}
	var versions []version

	rnd := rand.New(rand.NewPCG(7, 11))
	ed := pmap.NewEditor()
	idx := newTestIndex(t, ed, 0, 1)
	m := make(model)
	var tx TX

	for session := 0; session < 60; session++ {
		ed = pmap.NewEditor()
		for range 40 {
			tx++
			e := ents[rnd.IntN(len(ents))]
			a := attrs[rnd.IntN(len(attrs))]
			v := randomValue(rnd, a)
			if rnd.IntN(3) == 0 {
				idx = idx.Remove(ed, e, a, v, nil)
				m.remove(e, a, v)
			} else {
				idx = idx.Add(ed, e, a, v, tx, nil)
				m.add(e, a, v, tx)
			}
		}
		checkAgainstModel(t, idx, m, ents, attrs)
		versions = append(versions, version{idx, m.clone()})
	}

	for _, ver := range versions {
		checkAgainstModel(t, ver.idx, ver.m, ents, attrs)
	}
}

func checkAgainstModel(t *testing.T, idx *Index, m model, ents []EID, attrs []Attribute) {
	t.Helper()
	var datoms, indexed int
	for _, e := range ents {
		for _, a := range attrs {
			var expected []Datom
			for v, tx := range m[modelKey{e, a.ID}] {
				expected = append(expected, Datom{e, a.ID, v, tx, true})
			}
			datoms += len(expected)
			if a.Schema.InValueIndex() {
				indexed += len(expected)
			}
			require.ElementsMatch(t, expected, idx.GetMany(e, a), "%d %v", e, a)
		}
	}
	require.Equal(t, datoms, idx.TotalStats().Datoms)
	require.Equal(t, indexed, idx.TotalStats().ValueIndex)

	// secondary indices hold exactly what the primary index holds
	for _, a := range attrs {
		if !a.Schema.IsRef && !a.Schema.Indexed {
			continue
		}
		byValue := make(map[Value][]EID)
		for k, vals := range m {
			if k.a != a.ID {
				continue
			}
			for v := range vals {
				byValue[v] = append(byValue[v], k.e)
			}
		}
		for v, expected := range byValue {
			actual, err := QueryIndex(idx, LookupMany{Attr: a, Value: v})
			require.NoError(t, err)
			require.ElementsMatch(t, expected, actual, "%v = %v", a, v)
		}
	}

	var refs int
	for _, target := range ents {
		var expected []Datom
		for k, vals := range m {
			for v, tx := range vals {
				if v == Value(target) {
					expected = append(expected, Datom{k.e, k.a, target, tx, true})
				}
			}
		}
		refs += len(expected)
		actual, _ := QueryIndex(idx, RefsTo{Entity: target})
		require.ElementsMatch(t, expected, actual, "refs to %d", target)
	}
	require.Equal(t, refs, idx.TotalStats().RefIndex)
}
