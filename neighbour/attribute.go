package neighbour

import (
	"net"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
	"github.com/scitags/rtnl-go/route"
)

// Destination is the protocol address. Its size follows the header family;
// families other than inet and inet6 keep the raw bytes.
type Destination family.Addr

func (Destination) Kind() uint16         { return NDA_DST }
func (d Destination) ValueLen() int      { return family.Addr(d).Len() }
func (d Destination) EmitValue(b []byte) { family.Addr(d).Put(b) }

type LinkLayerAddress net.HardwareAddr

func (LinkLayerAddress) Kind() uint16         { return NDA_LLADDR }
func (a LinkLayerAddress) ValueLen() int      { return len(a) }
func (a LinkLayerAddress) EmitValue(b []byte) { copy(b, a) }

// CacheInfo mirrors struct nda_cacheinfo. The ages are in clock ticks.
type CacheInfo struct {
	Confirmed uint32
	Used      uint32
	Updated   uint32
	RefCount  uint32
}

func (CacheInfo) Kind() uint16  { return NDA_CACHEINFO }
func (CacheInfo) ValueLen() int { return 16 }
func (c CacheInfo) EmitValue(b []byte) {
	v := nla.NewView(b, 16)
	v.SetUint32(0, c.Confirmed)
	v.SetUint32(4, c.Used)
	v.SetUint32(8, c.Updated)
	v.SetUint32(12, c.RefCount)
}

type (
	Probes         uint32
	VLAN           uint16
	VNI            uint32
	SourceVNI      uint32
	InterfaceIndex uint32
	Controller     uint32
	LinkNetNSID    uint32
	NextHopID      uint32
	StateMask      State
	FlagsMask      Flags
)

func (Probes) Kind() uint16         { return NDA_PROBES }
func (Probes) ValueLen() int        { return 4 }
func (p Probes) EmitValue(b []byte) { nla.PutUint32(b, uint32(p)) }

func (VLAN) Kind() uint16         { return NDA_VLAN }
func (VLAN) ValueLen() int        { return 2 }
func (v VLAN) EmitValue(b []byte) { nla.PutUint16(b, uint16(v)) }

func (VNI) Kind() uint16         { return NDA_VNI }
func (VNI) ValueLen() int        { return 4 }
func (v VNI) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (SourceVNI) Kind() uint16         { return NDA_SRC_VNI }
func (SourceVNI) ValueLen() int        { return 4 }
func (v SourceVNI) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (InterfaceIndex) Kind() uint16         { return NDA_IFINDEX }
func (InterfaceIndex) ValueLen() int        { return 4 }
func (v InterfaceIndex) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (Controller) Kind() uint16         { return NDA_MASTER }
func (Controller) ValueLen() int        { return 4 }
func (v Controller) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (LinkNetNSID) Kind() uint16         { return NDA_LINK_NETNSID }
func (LinkNetNSID) ValueLen() int        { return 4 }
func (v LinkNetNSID) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (NextHopID) Kind() uint16         { return NDA_NH_ID }
func (NextHopID) ValueLen() int        { return 4 }
func (v NextHopID) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (StateMask) Kind() uint16         { return NDA_NDM_STATE_MASK }
func (StateMask) ValueLen() int        { return 2 }
func (m StateMask) EmitValue(b []byte) { nla.PutUint16(b, uint16(m)) }

func (FlagsMask) Kind() uint16         { return NDA_NDM_FLAGS_MASK }
func (FlagsMask) ValueLen() int        { return 1 }
func (m FlagsMask) EmitValue(b []byte) { b[0] = uint8(m) }

func (ExtFlags) Kind() uint16         { return NDA_FLAGS_EXT }
func (ExtFlags) ValueLen() int        { return 4 }
func (f ExtFlags) EmitValue(b []byte) { nla.PutUint32(b, uint32(f)) }

// Port is the VXLAN destination port, big endian on the wire.
type Port uint16

func (Port) Kind() uint16         { return NDA_PORT }
func (Port) ValueLen() int        { return 2 }
func (p Port) EmitValue(b []byte) { nla.PutUint16BE(b, uint16(p)) }

type Protocol route.Protocol

func (p Protocol) String() string { return route.Protocol(p).String() }

func (Protocol) Kind() uint16         { return NDA_PROTOCOL }
func (Protocol) ValueLen() int        { return 1 }
func (p Protocol) EmitValue(b []byte) { b[0] = uint8(p) }

func parseAttribute(r nla.Record, fam family.Family) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case NDA_DST:
		a, err := family.ParseAddr(fam, p)
		return Destination(a), err
	case NDA_LLADDR:
		return LinkLayerAddress(nla.HardwareAddr(p)), nil
	case NDA_CACHEINFO:
		v, err := nla.Fixed(p, 16, "nda_cacheinfo")
		if err != nil {
			return nil, err
		}
		return CacheInfo{
			Confirmed: v.Uint32(0),
			Used:      v.Uint32(4),
			Updated:   v.Uint32(8),
			RefCount:  v.Uint32(12),
		}, nil
	case NDA_PROBES:
		v, err := nla.Uint32(p)
		return Probes(v), err
	case NDA_VLAN:
		v, err := nla.Uint16(p)
		return VLAN(v), err
	case NDA_PORT:
		v, err := nla.Uint16BE(p)
		return Port(v), err
	case NDA_VNI:
		v, err := nla.Uint32(p)
		return VNI(v), err
	case NDA_SRC_VNI:
		v, err := nla.Uint32(p)
		return SourceVNI(v), err
	case NDA_IFINDEX:
		v, err := nla.Uint32(p)
		return InterfaceIndex(v), err
	case NDA_MASTER:
		v, err := nla.Uint32(p)
		return Controller(v), err
	case NDA_LINK_NETNSID:
		v, err := nla.Uint32(p)
		return LinkNetNSID(v), err
	case NDA_PROTOCOL:
		v, err := nla.Uint8(p)
		return Protocol(v), err
	case NDA_NH_ID:
		v, err := nla.Uint32(p)
		return NextHopID(v), err
	case NDA_FLAGS_EXT:
		v, err := nla.Uint32(p)
		return ExtFlags(v), err
	case NDA_NDM_STATE_MASK:
		v, err := nla.Uint16(p)
		return StateMask(v), err
	case NDA_NDM_FLAGS_MASK:
		v, err := nla.Uint8(p)
		return FlagsMask(v), err
	case NDA_FDB_EXT_ATTRS:
		return nla.ParseOpaque(r), nil
	}

	if a, ok, err := parsePlatform(r); ok {
		return a, err
	}
	nla.Notice("neighbour", r)
	return nla.NewUnknown(r), nil
}
