// Package address implements the ifaddrmsg family: RTM_NEWADDR, RTM_DELADDR
// and RTM_GETADDR.
package address

import (
	"fmt"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
	"github.com/scitags/rtnl-go/route"
)

// HeaderLen is sizeof(struct ifaddrmsg).
const HeaderLen = 8

type Header struct {
	Family    family.Family
	PrefixLen uint8
	Flags     HeaderFlags
	Scope     route.Scope
	Index     uint32
}

func (h *Header) emit(b []byte) {
	v := nla.NewView(b, HeaderLen)
	v.SetUint8(0, uint8(h.Family))
	v.SetUint8(1, h.PrefixLen)
	v.SetUint8(2, uint8(h.Flags))
	v.SetUint8(3, uint8(h.Scope))
	v.SetUint32(4, h.Index)
}

func (h *Header) parse(v nla.View) {
	h.Family = family.Family(v.Uint8(0))
	h.PrefixLen = v.Uint8(1)
	h.Flags = HeaderFlags(v.Uint8(2))
	h.Scope = route.Scope(v.Uint8(3))
	h.Index = v.Uint32(4)
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
		return fmt.Errorf("address header: %w", err)
	}
	m.Header.parse(v)

	m.Attributes, err = nla.ParseList(v.Payload(), parseAttribute)
	if err != nil {
		return fmt.Errorf("address attributes: %w", err)
	}
	return nil
}
