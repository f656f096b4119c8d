// Package report renders decoded messages for people: every message
// becomes an Event with its header fields by name and its attributes in
// wire order.
package report

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"reflect"

	"github.com/fatih/structs"
	"github.com/goccy/go-yaml"

	"github.com/scitags/rtnl-go/nla"
	"github.com/scitags/rtnl-go/rtnl"
)

type Event struct {
	Type       string         `json:"type" yaml:"type"`
	Flags      string         `json:"flags" yaml:"flags"`
	Sequence   uint32         `json:"sequence" yaml:"sequence"`
	PID        uint32         `json:"pid" yaml:"pid"`
	Header     map[string]any `json:"header,omitempty" yaml:"header,omitempty"`
	Attributes []Attribute    `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Error      string         `json:"error,omitempty" yaml:"error,omitempty"`
}

type Attribute struct {
	Kind   uint16      `json:"kind" yaml:"kind"`
	Name   string      `json:"name" yaml:"name"`
	Value  any         `json:"value,omitempty" yaml:"value,omitempty"`
	Nested []Attribute `json:"nested,omitempty" yaml:"nested,omitempty"`
}

func New(r rtnl.Result) *Event {
	e := &Event{}
	if r.Err != nil {
		e.Error = r.Err.Error()
	}
	m := r.Message
	if m == nil {
		return e
	}

	e.Type = m.Type.String()
	e.Flags = fmt.Sprint(m.Flags)
	e.Sequence = m.Sequence
	e.PID = m.PID

	if m.Payload == nil || reflect.ValueOf(m.Payload).IsNil() {
		return e
	}

	e.Header = map[string]any{}
	for _, f := range structs.Fields(m.Payload) {
		switch f.Name() {
		case "Attributes":
			attrs, _ := f.Value().([]nla.Attribute)
			e.Attributes = Attributes(attrs)
		case "Header":
			if h, ok := plain(f.Value()).(map[string]any); ok {
				maps.Copy(e.Header, h)
			}
		default:
			e.Header[f.Name()] = plain(f.Value())
		}
	}

	return e
}

func Attributes(attrs []nla.Attribute) []Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, attribute(a))
	}
	return out
}

func attribute(a nla.Attribute) Attribute {
	if f, ok := a.(nla.Flagged); ok {
		out := attribute(f.Attribute)
		out.Kind = f.Kind()
		return out
	}
	out := Attribute{Kind: a.Kind(), Name: fmt.Sprintf("%T", a)}
	switch a := a.(type) {
	case nla.Nested:
		out.Nested = Attributes(a.Attributes)
	case nla.Unknown:
		out.Value = hex.EncodeToString(a.Value)
	default:
		out.Value = plain(a)
	}
	return out
}

// plain turns v into something both encoders print the same way: names
// for anything with a String method, hex for raw bytes and maps for
// structs.
func plain(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case []nla.Attribute:
		return Attributes(v)
	case fmt.Stringer:
		return v.String()
	case []byte:
		return hex.EncodeToString(v)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return plain(rv.Elem().Interface())
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return hex.EncodeToString(b)
		}
		fallthrough
	case reflect.Slice:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = plain(rv.Index(i).Interface())
		}
		return out
	case reflect.Struct:
		fields := structs.Fields(v)
		if len(fields) == 0 {
			return fmt.Sprint(v)
		}
		out := make(map[string]any, len(fields))
		for _, f := range fields {
			out[f.Name()] = plain(f.Value())
		}
		return out
	}
	return v
}

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case JSON, YAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q; want json or yaml", s)
}

// Writer prints events one after the other: a JSON object per line or a
// YAML document each.
type Writer struct {
	w      io.Writer
	format Format
	enc    *json.Encoder
}

func NewWriter(w io.Writer, f Format) *Writer {
	return &Writer{w: w, format: f, enc: json.NewEncoder(w)}
}

func (w *Writer) Write(r rtnl.Result) error {
	e := New(r)
	if w.format == JSON {
		return w.enc.Encode(e)
	}

	b, err := yaml.MarshalWithOptions(e, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return fmt.Errorf("error marshalling %s: %w", e.Type, err)
	}
	if _, err := io.WriteString(w.w, "---\n"); err != nil {
		return err
	}
	_, err = w.w.Write(b)
	return err
}
