package eav

import "fmt"

// Datom is a single fact: entity E has value V for attribute A as of
// transaction TX. Added is false for retractions.
type Datom struct {
	E     EID
	A     EID
	V     Value
	TX    TX
	Added bool
}

func (d Datom) String() string {
	op := '+'
	if !d.Added {
		op = '-'
	}
	return fmt.Sprintf("[%c %d %d %v %d]", op, uint64(d.E), uint64(d.A), d.V, uint64(d.TX))
}

// Retraction returns a copy of d with Added = false.
func (d Datom) Retraction() Datom {
	d.Added = false
	return d
}

// DatomSink receives the datoms produced by an edit.
type DatomSink func(d Datom)

// Novelty accumulates the datoms produced by one or more edits.
type Novelty struct {
	Datoms []Datom
}

// Add appends d; nov.Add can be passed wherever a DatomSink is expected.
func (nov *Novelty) Add(d Datom) {
	nov.Datoms = append(nov.Datoms, d)
}

func (nov *Novelty) Len() int {
	return len(nov.Datoms)
}

func (nov *Novelty) Reset() {
	nov.Datoms = nov.Datoms[:0]
}
