package link

import (
	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
)

const (
	IFLA_VXLAN_ID                = 1
	IFLA_VXLAN_GROUP             = 2
	IFLA_VXLAN_LINK              = 3
	IFLA_VXLAN_LOCAL             = 4
	IFLA_VXLAN_TTL               = 5
	IFLA_VXLAN_TOS               = 6
	IFLA_VXLAN_LEARNING          = 7
	IFLA_VXLAN_AGEING            = 8
	IFLA_VXLAN_LIMIT             = 9
	IFLA_VXLAN_PORT_RANGE        = 10
	IFLA_VXLAN_PROXY             = 11
	IFLA_VXLAN_RSC               = 12
	IFLA_VXLAN_L2MISS            = 13
	IFLA_VXLAN_L3MISS            = 14
	IFLA_VXLAN_PORT              = 15
	IFLA_VXLAN_GROUP6            = 16
	IFLA_VXLAN_LOCAL6            = 17
	IFLA_VXLAN_UDP_CSUM          = 18
	IFLA_VXLAN_UDP_ZERO_CSUM6_TX = 19
	IFLA_VXLAN_UDP_ZERO_CSUM6_RX = 20
	IFLA_VXLAN_REMCSUM_TX        = 21
	IFLA_VXLAN_REMCSUM_RX        = 22
	IFLA_VXLAN_GBP               = 23
	IFLA_VXLAN_REMCSUM_NOPARTIAL = 24
	IFLA_VXLAN_COLLECT_METADATA  = 25
	IFLA_VXLAN_LABEL             = 26
	IFLA_VXLAN_GPE               = 27
	IFLA_VXLAN_TTL_INHERIT       = 28
	IFLA_VXLAN_DF                = 29
	IFLA_VXLAN_VNIFILTER         = 30
	IFLA_VXLAN_LOCALBYPASS       = 31
)

type (
	VXLANID     uint32
	VXLANLink   uint32
	VXLANAgeing uint32
	VXLANLimit  uint32
	VXLANTTL    uint8
	VXLANTOS    uint8
)

func (VXLANID) Kind() uint16         { return IFLA_VXLAN_ID }
func (VXLANID) ValueLen() int        { return 4 }
func (v VXLANID) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (VXLANLink) Kind() uint16         { return IFLA_VXLAN_LINK }
func (VXLANLink) ValueLen() int        { return 4 }
func (v VXLANLink) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (VXLANAgeing) Kind() uint16         { return IFLA_VXLAN_AGEING }
func (VXLANAgeing) ValueLen() int        { return 4 }
func (v VXLANAgeing) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (VXLANLimit) Kind() uint16         { return IFLA_VXLAN_LIMIT }
func (VXLANLimit) ValueLen() int        { return 4 }
func (v VXLANLimit) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (VXLANTTL) Kind() uint16         { return IFLA_VXLAN_TTL }
func (VXLANTTL) ValueLen() int        { return 1 }
func (v VXLANTTL) EmitValue(b []byte) { b[0] = uint8(v) }

func (VXLANTOS) Kind() uint16         { return IFLA_VXLAN_TOS }
func (VXLANTOS) ValueLen() int        { return 1 }
func (v VXLANTOS) EmitValue(b []byte) { b[0] = uint8(v) }

// VXLANGroup is the multicast group or remote; IPv4 and IPv6 addresses
// travel in different kinds.
type VXLANGroup family.Addr

func (a VXLANGroup) Kind() uint16 {
	if a.IP.Is4() {
		return IFLA_VXLAN_GROUP
	}
	return IFLA_VXLAN_GROUP6
}

func (a VXLANGroup) ValueLen() int      { return family.Addr(a).Len() }
func (a VXLANGroup) EmitValue(b []byte) { family.Addr(a).Put(b) }

type VXLANLocal family.Addr

func (a VXLANLocal) Kind() uint16 {
	if a.IP.Is4() {
		return IFLA_VXLAN_LOCAL
	}
	return IFLA_VXLAN_LOCAL6
}

func (a VXLANLocal) ValueLen() int      { return family.Addr(a).Len() }
func (a VXLANLocal) EmitValue(b []byte) { family.Addr(a).Put(b) }

// VXLANPort is the destination UDP port, big endian on the wire.
type VXLANPort uint16

func (VXLANPort) Kind() uint16         { return IFLA_VXLAN_PORT }
func (VXLANPort) ValueLen() int        { return 2 }
func (v VXLANPort) EmitValue(b []byte) { nla.PutUint16BE(b, uint16(v)) }

// VXLANPortRange is the UDP source port range, big endian on the wire.
type VXLANPortRange struct {
	Low  uint16
	High uint16
}

func (VXLANPortRange) Kind() uint16  { return IFLA_VXLAN_PORT_RANGE }
func (VXLANPortRange) ValueLen() int { return 4 }
func (r VXLANPortRange) EmitValue(b []byte) {
	nla.PutUint16BE(b, r.Low)
	nla.PutUint16BE(b[2:], r.High)
}

// VXLANLabel is the IPv6 flow label, big endian on the wire.
type VXLANLabel uint32

func (VXLANLabel) Kind() uint16         { return IFLA_VXLAN_LABEL }
func (VXLANLabel) ValueLen() int        { return 4 }
func (v VXLANLabel) EmitValue(b []byte) { nla.PutUint32BE(b, uint32(v)) }

// VXLANOption is any of the one byte switches such as IFLA_VXLAN_LEARNING.
type VXLANOption struct {
	Type  uint16
	Value uint8
}

func (o VXLANOption) Kind() uint16       { return o.Type }
func (VXLANOption) ValueLen() int        { return 1 }
func (o VXLANOption) EmitValue(b []byte) { b[0] = o.Value }

// VXLANFlag is a value-less attribute whose presence turns a feature on,
// such as IFLA_VXLAN_GBP.
type VXLANFlag uint16

func (f VXLANFlag) Kind() uint16   { return uint16(f) }
func (VXLANFlag) ValueLen() int    { return 0 }
func (VXLANFlag) EmitValue([]byte) {}

func parseVXLAN(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case IFLA_VXLAN_ID, IFLA_VXLAN_LINK, IFLA_VXLAN_AGEING, IFLA_VXLAN_LIMIT:
		v, err := nla.Uint32(p)
		if err != nil {
			return nil, err
		}
		switch r.Kind {
		case IFLA_VXLAN_ID:
			return VXLANID(v), nil
		case IFLA_VXLAN_LINK:
			return VXLANLink(v), nil
		case IFLA_VXLAN_AGEING:
			return VXLANAgeing(v), nil
		}
		return VXLANLimit(v), nil
	case IFLA_VXLAN_GROUP, IFLA_VXLAN_LOCAL:
		a, err := family.ParseAddr(family.Inet, p)
		if err != nil {
			return nil, err
		}
		if r.Kind == IFLA_VXLAN_GROUP {
			return VXLANGroup(a), nil
		}
		return VXLANLocal(a), nil
	case IFLA_VXLAN_GROUP6, IFLA_VXLAN_LOCAL6:
		a, err := family.ParseAddr(family.Inet6, p)
		if err != nil {
			return nil, err
		}
		if r.Kind == IFLA_VXLAN_GROUP6 {
			return VXLANGroup(a), nil
		}
		return VXLANLocal(a), nil
	case IFLA_VXLAN_TTL:
		v, err := nla.Uint8(p)
		return VXLANTTL(v), err
	case IFLA_VXLAN_TOS:
		v, err := nla.Uint8(p)
		return VXLANTOS(v), err
	case IFLA_VXLAN_PORT:
		v, err := nla.Uint16BE(p)
		return VXLANPort(v), err
	case IFLA_VXLAN_PORT_RANGE:
		v, err := nla.Fixed(p, 4, "ifla_vxlan_port_range")
		if err != nil {
			return nil, err
		}
		return VXLANPortRange{Low: v.Uint16BE(0), High: v.Uint16BE(2)}, nil
	case IFLA_VXLAN_LABEL:
		v, err := nla.Uint32BE(p)
		return VXLANLabel(v), err
	case IFLA_VXLAN_LEARNING, IFLA_VXLAN_PROXY, IFLA_VXLAN_RSC, IFLA_VXLAN_L2MISS, IFLA_VXLAN_L3MISS,
		IFLA_VXLAN_UDP_CSUM, IFLA_VXLAN_UDP_ZERO_CSUM6_TX, IFLA_VXLAN_UDP_ZERO_CSUM6_RX,
		IFLA_VXLAN_REMCSUM_TX, IFLA_VXLAN_REMCSUM_RX, IFLA_VXLAN_COLLECT_METADATA, IFLA_VXLAN_DF,
		IFLA_VXLAN_VNIFILTER, IFLA_VXLAN_LOCALBYPASS:
		v, err := nla.Uint8(p)
		return VXLANOption{Type: r.Kind, Value: v}, err
	case IFLA_VXLAN_GBP, IFLA_VXLAN_REMCSUM_NOPARTIAL, IFLA_VXLAN_GPE, IFLA_VXLAN_TTL_INHERIT:
		if len(p) != 0 {
			return nla.NewUnknown(r), nil
		}
		return VXLANFlag(r.Kind), nil
	}
	nla.Notice("link/vxlan", r)
	return nla.NewUnknown(r), nil
}
