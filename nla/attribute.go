package nla

import (
	"bytes"
	"context"
	"log/slog"
)

// Attribute is implemented by every typed attribute. EmitValue writes exactly
// ValueLen bytes; the header and trailing padding are handled by Emit.
type Attribute interface {
	Kind() uint16
	ValueLen() int
	EmitValue(b []byte)
}

// Unknown carries an attribute whose kind isn't modelled, verbatim.
type Unknown struct {
	Type  uint16
	Value []byte
}

func (u Unknown) Kind() uint16       { return u.Type }
func (u Unknown) ValueLen() int      { return len(u.Value) }
func (u Unknown) EmitValue(b []byte) { copy(b, u.Value) }

// NewUnknown copies the record so the attribute doesn't alias the buffer.
func NewUnknown(r Record) Unknown {
	return Unknown{Type: r.Kind, Value: clone(r.Value)}
}

// Nested is a nested attribute list encoded as the value of a single
// attribute.
type Nested struct {
	Type       uint16
	Attributes []Attribute
}

func (n Nested) Kind() uint16       { return n.Type }
func (n Nested) ValueLen() int      { return ListLen(n.Attributes) }
func (n Nested) EmitValue(b []byte) { EmitList(b, n.Attributes) }

// Flagged keeps the FlagNested and FlagNetByteOrder bits a producer set on
// top of the kind of a modelled attribute.
type Flagged struct {
	Flags uint16
	Attribute
}

func (f Flagged) Kind() uint16 { return f.Attribute.Kind() | f.Flags }

// withFlags puts the flag bits masked off a record back on what it was
// parsed into.
func withFlags(a Attribute, flags uint16) Attribute {
	switch a := a.(type) {
	case Unknown:
		a.Type |= flags
		return a
	case Nested:
		a.Type |= flags
		return a
	}
	if a.Kind()&^TypeMask != 0 {
		return a
	}
	return Flagged{Flags: flags, Attribute: a}
}

// Size is the aligned footprint of a on the wire, header included.
func Size(a Attribute) int {
	return Align(HeaderLen + a.ValueLen())
}

func ListLen[A Attribute](attrs []A) int {
	n := 0
	for _, a := range attrs {
		n += Size(a)
	}
	return n
}

// Emit writes a's header, value and padding to b and returns the number of
// bytes written. b must hold at least Size(a) bytes.
func Emit(b []byte, a Attribute) int {
	l := HeaderLen + a.ValueLen()
	v := NewView(b, HeaderLen)
	v.SetUint16(0, uint16(l))
	v.SetUint16(2, a.Kind())
	a.EmitValue(b[HeaderLen:l])

	size := Align(l)
	clear(b[l:size])
	return size
}

func EmitList[A Attribute](b []byte, attrs []A) int {
	off := 0
	for _, a := range attrs {
		off += Emit(b[off:], a)
	}
	return off
}

// MarshalList allocates a buffer and emits attrs into it.
func MarshalList[A Attribute](attrs []A) []byte {
	b := make([]byte, ListLen(attrs))
	EmitList(b, attrs)
	return b
}

// Get returns the first attribute of type T in attrs, looking through
// Flagged.
func Get[T Attribute](attrs []Attribute) (T, bool) {
	for _, a := range attrs {
		if t, ok := a.(T); ok {
			return t, true
		}
		if f, ok := a.(Flagged); ok {
			if t, ok := f.Attribute.(T); ok {
				return t, true
			}
		}
	}
	var zero T
	return zero, false
}

// ParseFunc builds a typed attribute out of a raw record.
type ParseFunc func(r Record) (Attribute, error)

// ParseList runs fn over every record in b, annotating failures with the
// failing kind and offset.
func ParseList(b []byte, fn ParseFunc) ([]Attribute, error) {
	recs, err := Records(b)
	if err != nil {
		return nil, err
	}
	return ParseRecords(recs, fn)
}

// ParseRecords is the second pass of a two pass parse: the records were
// already split and whatever selectors they carry were looked up. fn sees
// the kind without its flag bits; they are put back on the result.
func ParseRecords(recs []Record, fn ParseFunc) ([]Attribute, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	attrs := make([]Attribute, 0, len(recs))
	for _, r := range recs {
		flags := r.Kind &^ TypeMask
		r.Kind &= TypeMask
		a, err := fn(r)
		if err != nil {
			return nil, &AttributeError{Kind: r.Kind | flags, Offset: r.Offset, Err: err}
		}
		if flags != 0 {
			a = withFlags(a, flags)
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

// ParseUnknown is a ParseFunc yielding Unknown for every record.
func ParseUnknown(r Record) (Attribute, error) {
	return NewUnknown(r), nil
}

// ParseOpaque is the fallback for a payload whose selector is missing or
// unrecognised. The payload becomes a Nested list of Unknown attributes when
// it's a well formed attribute stream that re-encodes to the very same bytes
// and a single Unknown otherwise. It never fails.
func ParseOpaque(r Record) Attribute {
	attrs, err := ParseList(r.Value, ParseUnknown)
	if err == nil {
		n := Nested{Type: r.Kind, Attributes: attrs}
		if bytes.Equal(MarshalList(attrs), r.Value) {
			return n
		}
	}
	slog.Log(context.Background(), LevelTrace, "keeping opaque payload as raw bytes", "kind", r.Kind, "len", len(r.Value))
	return NewUnknown(r)
}

// LevelTrace sits below slog.LevelDebug and is used for per-attribute
// dispatch notices.
const LevelTrace = slog.LevelDebug - 1

// Notice logs an attribute kind falling back to Unknown.
func Notice(family string, r Record) {
	slog.Log(context.Background(), LevelTrace, "unknown attribute kind", "family", family, "kind", r.Kind, "offset", r.Offset, "len", len(r.Value))
}

func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return append([]byte(nil), b...)
}
