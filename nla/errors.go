package nla

import (
	"fmt"
)

// LengthError signals a buffer too short for a declared field or record.
type LengthError struct {
	Field string
	Want  int
	Have  int
}

func (e *LengthError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("buffer short read (%d); want %d (missing %d)", e.Have, e.Want, e.Want-e.Have)
	}
	return fmt.Sprintf("%s short read (%d); want %d (missing %d)", e.Field, e.Have, e.Want, e.Want-e.Have)
}

// MalformedError signals a record whose length is inconsistent with the
// bytes left in the buffer.
type MalformedError struct {
	Offset    int
	Length    uint16
	Remaining int
}

func (e *MalformedError) Error() string {
	if e.Length < HeaderLen {
		return fmt.Sprintf("malformed attribute at offset %d: length %d is shorter than the %d byte header", e.Offset, e.Length, HeaderLen)
	}
	return fmt.Sprintf("malformed attribute at offset %d: length %d exceeds the %d remaining bytes", e.Offset, e.Length, e.Remaining)
}

// ValueError signals raw bytes that can't map to a valid value, such as a
// wrong-sized address.
type ValueError struct {
	Field  string
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ContextError signals a selector attribute that is itself malformed, so
// the attributes depending on it can't be resolved.
type ContextError struct {
	Selector string
	Err      error
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("couldn't resolve selector %s: %v", e.Selector, e.Err)
}

func (e *ContextError) Unwrap() error { return e.Err }

// AttributeError annotates a failure with the attribute kind and offset.
type AttributeError struct {
	Kind   uint16
	Offset int
	Err    error
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("attribute %d at offset %d: %v", e.Kind, e.Offset, e.Err)
}

func (e *AttributeError) Unwrap() error { return e.Err }
