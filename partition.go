package eav

import "github.com/andreyvit/eav/pmap"

// Partition holds the three indices for the entities of one partition.
// Every datom lives in the partition of its entity; references to entities
// of other partitions are indexed on the referring side.
type Partition struct {
	owner pmap.Editor
	num   int
	aevt  AEVT
	avet  AVET
	vaet  VAET
}

func newPartition(ed pmap.Editor, num int) *Partition {
	return &Partition{owner: ed, num: num}
}

func (p *Partition) Num() int { return p.num }

func (p *Partition) AEVT() AEVT { return p.aevt }

func (p *Partition) AVET() AVET { return p.avet }

func (p *Partition) VAET() VAET { return p.vaet }

func (p *Partition) IsEmpty() bool { return p.aevt.columns == nil }

func (p *Partition) editable(ed pmap.Editor) *Partition {
	if ed.Owns(p.owner) {
		return p
	}
	q := *p
	q.owner = ed
	return &q
}

// add writes the datom into the primary index and mirrors the change into
// the secondary index of the attribute. It returns p unchanged if the value
// was already present.
func (p *Partition) add(ed pmap.Editor, e EID, a Attribute, v Value, tx TX) (*Partition, AddResult) {
	aevt, res := p.aevt.Add(ed, e, a, v, tx)
	if !res.Added {
		return p, res
	}
	q := p.editable(ed)
	q.aevt = aevt
	switch {
	case a.Schema.InRefIndex():
		if res.Replaced != nil {
			q.vaet = q.vaet.Remove(ed, e, a, res.Replaced.Value.(EID))
		}
		q.vaet = q.vaet.Add(ed, e, a, v.(EID), tx)
	case a.Schema.InValueIndex():
		if res.Replaced != nil {
			q.avet = q.avet.Remove(ed, e, a, res.Replaced.Value)
		}
		q.avet = q.avet.Add(ed, e, a, v, tx)
	}
	return q, res
}

func (p *Partition) remove(ed pmap.Editor, e EID, a Attribute, v Value) (*Partition, TX, bool) {
	aevt, tx, ok := p.aevt.Remove(ed, e, a, v)
	if !ok {
		return p, 0, false
	}
	q := p.editable(ed)
	q.aevt = aevt
	switch {
	case a.Schema.InRefIndex():
		q.vaet = q.vaet.Remove(ed, e, a, v.(EID))
	case a.Schema.InValueIndex():
		q.avet = q.avet.Remove(ed, e, a, v)
	}
	return q, tx, true
}
