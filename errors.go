package eav

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoEntity is wrapped by the error GetOne returns when asked to fail for
// an entity that does not exist.
var ErrNoEntity = errors.New("entity does not exist")

// EntityError reports a failed read of an entity's attribute.
type EntityError struct {
	Entity EID
	Attr   Attribute
	Err    error
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("entity %d, %v: %v", uint64(e.Entity), e.Attr, e.Err)
}

// AttributeError reports a caller contract violation involving an attribute,
// like a unique lookup on an attribute that is not unique. These are raised
// as panics.
type AttributeError struct {
	Attr Attribute
	Msg  string
	Err  error
}

func attrErrf(a Attribute, err error, format string, args ...any) error {
	return &AttributeError{a, fmt.Sprintf(format, args...), err}
}

func (e *AttributeError) Unwrap() error {
	return e.Err
}

func (e *AttributeError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Attr.String())
	buf.WriteString(" (")
	buf.WriteString(e.Attr.Schema.String())
	buf.WriteString(")")
	if e.Msg != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Msg)
	}
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}

// PartitionError reports a caller contract violation involving partitions,
// like writing to a partition that was never created. Raised as a panic.
type PartitionError struct {
	Partition int
	Msg       string
}

func partErrf(part int, format string, args ...any) error {
	return &PartitionError{part, fmt.Sprintf(format, args...)}
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("partition %d: %s", e.Partition, e.Msg)
}
