// Package prefix implements the prefixmsg family carried by RTM_NEWPREFIX
// notifications, sent when an IPv6 router advertisement installs a prefix.
package prefix

import (
	"fmt"
	"net/netip"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
)

// HeaderLen is sizeof(struct prefixmsg).
const HeaderLen = 12

// All of these constants' names make the linter complain, but we inherited
// these names from the kernel's uapi headers, so we will keep them.
const (
	PREFIX_UNSPEC    = 0
	PREFIX_ADDRESS   = 1
	PREFIX_CACHEINFO = 2
)

// Flags are the IF_PREFIX_* bits.
type Flags uint8

const (
	FlagOnLink   Flags = 0x01
	FlagAutoconf Flags = 0x02
)

var flagName = map[Flags]string{
	FlagOnLink:   "onlink",
	FlagAutoconf: "autoconf",
}

func (f Flags) Known() Flags     { return nla.KnownBits(f, flagName) }
func (f Flags) Remainder() Flags { return f &^ f.Known() }
func (f Flags) String() string   { return nla.FlagString(f, flagName) }

type Header struct {
	Family family.Family
	Index  int32
	// Type is the ND option type the prefix came from, 3 for prefix
	// information.
	Type  uint8
	Len   uint8
	Flags Flags
}

func (h *Header) emit(b []byte) {
	v := nla.NewView(b, HeaderLen)
	v.SetUint8(0, uint8(h.Family))
	v.SetBytes(1, []byte{0, 0, 0})
	v.SetInt32(4, h.Index)
	v.SetUint8(8, h.Type)
	v.SetUint8(9, h.Len)
	v.SetUint8(10, uint8(h.Flags))
	v.SetUint8(11, 0)
}

func (h *Header) parse(v nla.View) {
	h.Family = family.Family(v.Uint8(0))
	h.Index = v.Int32(4)
	h.Type = v.Uint8(8)
	h.Len = v.Uint8(9)
	h.Flags = Flags(v.Uint8(10))
}

// Address is the announced prefix, always IPv6.
type Address netip.Addr

func (Address) Kind() uint16  { return PREFIX_ADDRESS }
func (Address) ValueLen() int { return 16 }
func (a Address) EmitValue(b []byte) {
	ip := netip.Addr(a).As16()
	copy(b, ip[:])
}
func (a Address) String() string { return netip.Addr(a).String() }

const cacheInfoLen = 8

// CacheInfo is struct prefix_cacheinfo, lifetimes in seconds.
type CacheInfo struct {
	PreferredTime uint32
	ValidTime     uint32
}

func (CacheInfo) Kind() uint16  { return PREFIX_CACHEINFO }
func (CacheInfo) ValueLen() int { return cacheInfoLen }
func (c CacheInfo) EmitValue(b []byte) {
	v := nla.NewView(b, cacheInfoLen)
	v.SetUint32(0, c.PreferredTime)
	v.SetUint32(4, c.ValidTime)
}

func parseAttribute(r nla.Record) (nla.Attribute, error) {
	switch r.Kind {
	case PREFIX_ADDRESS:
		if len(r.Value) != 16 {
			return nil, &nla.ValueError{Field: "PREFIX_ADDRESS", Reason: fmt.Sprintf("got %d bytes; want 16", len(r.Value))}
		}
		return Address(netip.AddrFrom16([16]byte(r.Value))), nil
	case PREFIX_CACHEINFO:
		v, err := nla.Fixed(r.Value, cacheInfoLen, "prefix_cacheinfo")
		if err != nil {
			return nil, err
		}
		return CacheInfo{PreferredTime: v.Uint32(0), ValidTime: v.Uint32(4)}, nil
	}
	nla.Notice("prefix", r)
	return nla.NewUnknown(r), nil
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
		return fmt.Errorf("prefix header: %w", err)
	}
	m.Header.parse(v)

	m.Attributes, err = nla.ParseList(v.Payload(), parseAttribute)
	if err != nil {
		return fmt.Errorf("prefix attributes: %w", err)
	}
	return nil
}
