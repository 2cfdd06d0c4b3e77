package pmap

import (
	"strconv"
	"sync/atomic"
)

var lastGeneration atomic.Uint64

// Editor is a mutation session token. Nodes stamped with an Editor may be
// modified in place by updates made through that same Editor; all other nodes
// are copied first.
//
// The zero Editor owns nothing, so every update made through it copies.
type Editor struct {
	gen uint64
}

// NewEditor allocates an Editor that has never been handed out before.
func NewEditor() Editor {
	return Editor{lastGeneration.Add(1)}
}

// IsZero reports whether ed is the zero Editor.
func (ed Editor) IsZero() bool {
	return ed.gen == 0
}

// Owns reports whether ed may modify data stamped with owner in place.
func (ed Editor) Owns(owner Editor) bool {
	return ed.gen != 0 && ed.gen == owner.gen
}

func (ed Editor) String() string {
	if ed.gen == 0 {
		return "editor(none)"
	}
	return "editor(" + strconv.FormatUint(ed.gen, 10) + ")"
}
