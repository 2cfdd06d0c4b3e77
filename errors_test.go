package eav

import (
	"errors"
	"strings"
	"testing"
)

func TestEntityError_ErrorAndUnwrap(t *testing.T) {
	err := error(&EntityError{Entity: 42, Attr: nameAttr, Err: ErrNoEntity})
	if !errors.Is(err, ErrNoEntity) {
		t.Fatalf("errors.Is(err, ErrNoEntity) = false, wanted true")
	}
	if s := err.Error(); s != "entity 42, person/name: entity does not exist" {
		t.Fatalf("err.Error() = %q", s)
	}
}

func TestAttributeError_ErrorAndUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := attrErrf(emailAttr, inner, "oops %d", 7)
	var ae *AttributeError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %T, wanted *AttributeError", err)
	}
	if !errors.Is(err, inner) {
		t.Fatalf("errors.Is(err, inner) = false, wanted true")
	}
	if s := err.Error(); s != "person/email (one,unique): oops 7: inner" {
		t.Fatalf("err.Error() = %q", s)
	}

	err = attrErrf(Attribute{ID: 77, Schema: Schema{Cardinality: Many, IsRef: true}}, nil, "bad")
	if s := err.Error(); s != "attr#77 (many,ref): bad" {
		t.Fatalf("err.Error() = %q", s)
	}
}

func TestPartitionError_Error(t *testing.T) {
	err := partErrf(3, "does not exist (entity %d)", 5)
	if s := err.Error(); !strings.HasPrefix(s, "partition 3: ") || !strings.Contains(s, "entity 5") {
		t.Fatalf("err.Error() = %q", s)
	}
}
