// Package rule implements the FIB rule family: RTM_NEWRULE, RTM_DELRULE and
// RTM_GETRULE.
package rule

import (
	"fmt"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
	"github.com/scitags/rtnl-go/route"
)

// HeaderLen is sizeof(struct fib_rule_hdr).
const HeaderLen = 12

type Header struct {
	Family family.Family
	DstLen uint8
	SrcLen uint8
	TOS    uint8
	Table  route.Table
	Action Action
	Flags  Flags
}

func (h *Header) emit(b []byte) {
	v := nla.NewView(b, HeaderLen)
	v.SetUint8(0, uint8(h.Family))
	v.SetUint8(1, h.DstLen)
	v.SetUint8(2, h.SrcLen)
	v.SetUint8(3, h.TOS)
	v.SetUint8(4, uint8(h.Table))
	v.SetUint8(5, 0)
	v.SetUint8(6, 0)
	v.SetUint8(7, uint8(h.Action))
	v.SetUint32(8, uint32(h.Flags))
}

func (h *Header) parse(v nla.View) {
	h.Family = family.Family(v.Uint8(0))
	h.DstLen = v.Uint8(1)
	h.SrcLen = v.Uint8(2)
	h.TOS = v.Uint8(3)
	h.Table = route.Table(v.Uint8(4))
	h.Action = Action(v.Uint8(7))
	h.Flags = Flags(v.Uint32(8))
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
		return fmt.Errorf("rule header: %w", err)
	}
	m.Header.parse(v)

	fam := m.Header.Family
	m.Attributes, err = nla.ParseList(v.Payload(), func(r nla.Record) (nla.Attribute, error) {
		return parseAttribute(r, fam)
	})
	if err != nil {
		return fmt.Errorf("rule attributes: %w", err)
	}
	return nil
}
