// Package tc implements the tcmsg family shared by qdiscs, classes, filters
// and chains: RTM_{NEW,DEL,GET}{QDISC,TCLASS,TFILTER,CHAIN}.
package tc

import (
	"fmt"

	gotc "github.com/florianl/go-tc"
	"github.com/florianl/go-tc/core"
	"github.com/josharian/native"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
)

// HeaderLen is sizeof(struct tcmsg).
const HeaderLen = 20

// Handle is a major:minor pair packed the way TC_H_MAKE does it.
type Handle uint32

const (
	HandleUnspec  Handle = 0
	HandleRoot    Handle = Handle(gotc.HandleRoot)
	HandleIngress Handle = Handle(gotc.HandleIngress)
)

func NewHandle(major, minor uint16) Handle {
	return Handle(core.BuildHandle(uint32(major), uint32(minor)))
}

func (h Handle) Major() uint16 {
	maj, _ := core.SplitHandle(uint32(h))
	return uint16(maj)
}

func (h Handle) Minor() uint16 {
	_, lo := core.SplitHandle(uint32(h))
	return uint16(lo)
}

// String follows tc(8): "root", "ingress" or "maj:min" in hex.
func (h Handle) String() string {
	switch h {
	case HandleRoot:
		return "root"
	case HandleIngress:
		return "ingress"
	}
	return fmt.Sprintf("%x:%x", h.Major(), h.Minor())
}

type Header struct {
	Family family.Family
	Index  int32
	Handle Handle
	Parent Handle
	// Info is the reference count of a qdisc. Filters pack their priority
	// in the upper half and the big endian ethertype in the lower one.
	Info uint32
}

// Priority is the filter priority carried in Info.
func (h Header) Priority() uint16 {
	prio, _ := core.SplitHandle(h.Info)
	return uint16(prio)
}

// Protocol is the filter ethertype carried in Info, in host order.
func (h Header) Protocol() uint16 {
	_, proto := core.SplitHandle(h.Info)
	return swap16(uint16(proto))
}

// FilterInfo builds Info for a filter request.
func FilterInfo(prio, proto uint16) uint32 {
	return core.BuildHandle(uint32(prio), uint32(swap16(proto)))
}

// swap16 is both htons and ntohs.
func swap16(v uint16) uint16 {
	if native.IsBigEndian {
		return v
	}
	return v<<8 | v>>8
}

func (h *Header) emit(b []byte) {
	v := nla.NewView(b, HeaderLen)
	v.SetUint8(0, uint8(h.Family))
	v.SetUint8(1, 0)
	v.SetUint16(2, 0)
	v.SetInt32(4, h.Index)
	v.SetUint32(8, uint32(h.Handle))
	v.SetUint32(12, uint32(h.Parent))
	v.SetUint32(16, h.Info)
}

func (h *Header) parse(v nla.View) {
	h.Family = family.Family(v.Uint8(0))
	h.Index = v.Int32(4)
	h.Handle = Handle(v.Uint32(8))
	h.Parent = Handle(v.Uint32(12))
	h.Info = v.Uint32(16)
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
		return fmt.Errorf("tc header: %w", err)
	}
	m.Header.parse(v)

	m.Attributes, err = parseAttributes(v.Payload())
	if err != nil {
		return fmt.Errorf("tc attributes: %w", err)
	}
	return nil
}
