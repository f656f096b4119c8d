// Package nexthop implements the nhmsg family: RTM_NEWNEXTHOP,
// RTM_DELNEXTHOP and RTM_GETNEXTHOP.
package nexthop

import (
	"fmt"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
	"github.com/scitags/rtnl-go/route"
)

// HeaderLen is sizeof(struct nhmsg).
const HeaderLen = 8

type Header struct {
	Family   family.Family
	Scope    route.Scope
	Protocol route.Protocol
	Flags    route.NextHopFlags
}

func (h *Header) emit(b []byte) {
	v := nla.NewView(b, HeaderLen)
	v.SetUint8(0, uint8(h.Family))
	v.SetUint8(1, uint8(h.Scope))
	v.SetUint8(2, uint8(h.Protocol))
	v.SetUint8(3, 0)
	v.SetUint32(4, uint32(h.Flags))
}

func (h *Header) parse(v nla.View) {
	h.Family = family.Family(v.Uint8(0))
	h.Scope = route.Scope(v.Uint8(1))
	h.Protocol = route.Protocol(v.Uint8(2))
	h.Flags = route.NextHopFlags(v.Uint32(4))
}

type Message struct {
	Header     Header
	Attributes []nla.Attribute
}

func (m *Message) Len() int {
	return HeaderLen + nla.ListLen(m.Attributes)
}

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
		return fmt.Errorf("nexthop header: %w", err)
	}
	m.Header.parse(v)

	recs, err := nla.Records(v.Payload())
	if err != nil {
		return fmt.Errorf("nexthop attributes: %w", err)
	}
	ctx := parser{family: m.Header.Family}
	if r, ok := nla.Find(recs, NHA_ENCAP_TYPE); ok {
		t, err := nla.Uint16(r.Value)
		if err != nil {
			return fmt.Errorf("nexthop attributes: %w", &nla.ContextError{Selector: "NHA_ENCAP_TYPE", Err: err})
		}
		ctx.encap = route.EncapType(t)
	}

	m.Attributes, err = nla.ParseRecords(recs, ctx.parseAttribute)
	if err != nil {
		return fmt.Errorf("nexthop attributes: %w", err)
	}
	return nil
}
