// Package route implements the rtmsg family: RTM_NEWROUTE, RTM_DELROUTE and
// RTM_GETROUTE.
package route

import (
	"fmt"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
)

// HeaderLen is sizeof(struct rtmsg).
const HeaderLen = 12

type Header struct {
	Family   family.Family
	DstLen   uint8
	SrcLen   uint8
	TOS      uint8
	Table    Table
	Protocol Protocol
	Scope    Scope
	Type     Type
	Flags    Flags
}

func (h *Header) emit(b []byte) {
	v := nla.NewView(b, HeaderLen)
	v.SetUint8(0, uint8(h.Family))
	v.SetUint8(1, h.DstLen)
	v.SetUint8(2, h.SrcLen)
	v.SetUint8(3, h.TOS)
	v.SetUint8(4, uint8(h.Table))
	v.SetUint8(5, uint8(h.Protocol))
	v.SetUint8(6, uint8(h.Scope))
	v.SetUint8(7, uint8(h.Type))
	v.SetUint32(8, uint32(h.Flags))
}

func (h *Header) parse(v nla.View) {
	h.Family = family.Family(v.Uint8(0))
	h.DstLen = v.Uint8(1)
	h.SrcLen = v.Uint8(2)
	h.TOS = v.Uint8(3)
	h.Table = Table(v.Uint8(4))
	h.Protocol = Protocol(v.Uint8(5))
	h.Scope = Scope(v.Uint8(6))
	h.Type = Type(v.Uint8(7))
	h.Flags = Flags(v.Uint32(8))
}

// Message is a route message: a header followed by route attributes.
type Message struct {
	Header     Header
	Attributes []nla.Attribute
}

func (m *Message) Len() int {
	return HeaderLen + nla.ListLen(m.Attributes)
}

// Emit writes m into b, which must hold at least m.Len() bytes.
func (m *Message) Emit(b []byte) {
	m.Header.emit(b)
	nla.EmitList(b[HeaderLen:], m.Attributes)
}

func (m *Message) MarshalBinary() ([]byte, error) {
	b := make([]byte, m.Len())
	m.Emit(b)
	return b, nil
}

func (m *Message) UnmarshalBinary(b []byte) error {
	v, err := nla.NewViewChecked(b, HeaderLen)
	if err != nil {
		return fmt.Errorf("route header: %w", err)
	}
	m.Header.parse(v)

	recs, err := nla.Records(v.Payload())
	if err != nil {
		return fmt.Errorf("route attributes: %w", err)
	}

	ctx, err := newContext(m.Header, recs)
	if err != nil {
		return fmt.Errorf("route attributes: %w", err)
	}

	m.Attributes, err = nla.ParseRecords(recs, ctx.parse)
	if err != nil {
		return fmt.Errorf("route attributes: %w", err)
	}
	return nil
}

// parseContext carries the values route attributes can't be decoded without.
type parseContext struct {
	family family.Family
	typ    Type
	encap  EncapType
}

func newContext(h Header, recs []nla.Record) (parseContext, error) {
	ctx := parseContext{family: h.Family, typ: h.Type}
	if r, ok := nla.Find(recs, RTA_ENCAP_TYPE); ok {
		t, err := nla.Uint16(r.Value)
		if err != nil {
			return ctx, &nla.ContextError{Selector: "RTA_ENCAP_TYPE", Err: err}
		}
		ctx.encap = EncapType(t)
	}
	return ctx, nil
}
