// Package link implements the ifinfomsg family: RTM_NEWLINK, RTM_DELLINK,
// RTM_GETLINK and RTM_SETLINK, including the kind specific link-info
// payloads.
package link

import (
	"fmt"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
)

// HeaderLen is sizeof(struct ifinfomsg).
const HeaderLen = 16

type Header struct {
	Family     family.Family
	Type       LayerType
	Index      uint32
	Flags      Flags
	ChangeMask Flags
}

func (h *Header) emit(b []byte) {
	v := nla.NewView(b, HeaderLen)
	v.SetUint8(0, uint8(h.Family))
	v.SetUint8(1, 0)
	v.SetUint16(2, uint16(h.Type))
	v.SetUint32(4, h.Index)
	v.SetUint32(8, uint32(h.Flags))
	v.SetUint32(12, uint32(h.ChangeMask))
}

func (h *Header) parse(v nla.View) {
	h.Family = family.Family(v.Uint8(0))
	h.Type = LayerType(v.Uint16(2))
	h.Index = v.Uint32(4)
	h.Flags = Flags(v.Uint32(8))
	h.ChangeMask = Flags(v.Uint32(12))
}

// Message is a link message. It's also the payload of a veth peer.
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
		return fmt.Errorf("link header: %w", err)
	}
	m.Header.parse(v)

	ctx := parseContext{family: m.Header.Family}
	m.Attributes, err = nla.ParseList(v.Payload(), ctx.parse)
	if err != nil {
		return fmt.Errorf("link attributes: %w", err)
	}
	return nil
}

// parseContext carries the header family, which selects how IFLA_PROTINFO
// and IFLA_AF_SPEC are laid out.
type parseContext struct {
	family family.Family
}
