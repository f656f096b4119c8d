// Package neighbour implements the ndmsg family: RTM_NEWNEIGH, RTM_DELNEIGH
// and RTM_GETNEIGH.
package neighbour

import (
	"fmt"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
	"github.com/scitags/rtnl-go/route"
)

// HeaderLen is sizeof(struct ndmsg).
const HeaderLen = 12

type Header struct {
	Family family.Family
	Index  uint32
	State  State
	Flags  Flags
	Type   route.Type
}

func (h *Header) emit(b []byte) {
	v := nla.NewView(b, HeaderLen)
	v.SetUint8(0, uint8(h.Family))
	v.SetUint8(1, 0)
	v.SetUint16(2, 0)
	v.SetUint32(4, h.Index)
	v.SetUint16(8, uint16(h.State))
	v.SetUint8(10, uint8(h.Flags))
	v.SetUint8(11, uint8(h.Type))
}

func (h *Header) parse(v nla.View) {
	h.Family = family.Family(v.Uint8(0))
	h.Index = v.Uint32(4)
	h.State = State(v.Uint16(8))
	h.Flags = Flags(v.Uint8(10))
	h.Type = route.Type(v.Uint8(11))
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
		return fmt.Errorf("neighbour header: %w", err)
	}
	m.Header.parse(v)

	fam := m.Header.Family
	m.Attributes, err = nla.ParseList(v.Payload(), func(r nla.Record) (nla.Attribute, error) {
		return parseAttribute(r, fam)
	})
	if err != nil {
		return fmt.Errorf("neighbour attributes: %w", err)
	}
	return nil
}
