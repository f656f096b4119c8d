package link

import (
	"fmt"

	"github.com/scitags/rtnl-go/nla"
)

const (
	IFLA_VLAN_ID          = 1
	IFLA_VLAN_FLAGS       = 2
	IFLA_VLAN_EGRESS_QOS  = 3
	IFLA_VLAN_INGRESS_QOS = 4
	IFLA_VLAN_PROTOCOL    = 5

	IFLA_VLAN_QOS_MAPPING = 1
)

type VLANID uint16

func (VLANID) Kind() uint16         { return IFLA_VLAN_ID }
func (VLANID) ValueLen() int        { return 2 }
func (v VLANID) EmitValue(b []byte) { nla.PutUint16(b, uint16(v)) }

// VLANFlag is a VLAN_FLAG_* bit.
type VLANFlag uint32

const (
	VLANReorderHeader VLANFlag = 0x1
	VLANGVRP          VLANFlag = 0x2
	VLANLooseBinding  VLANFlag = 0x4
	VLANMVRP          VLANFlag = 0x8
	VLANBridgeBinding VLANFlag = 0x10
)

var vlanFlagName = map[VLANFlag]string{
	VLANReorderHeader: "reorder_hdr",
	VLANGVRP:          "gvrp",
	VLANLooseBinding:  "loose_binding",
	VLANMVRP:          "mvrp",
	VLANBridgeBinding: "bridge_binding",
}

func (f VLANFlag) Known() VLANFlag     { return nla.KnownBits(f, vlanFlagName) }
func (f VLANFlag) Remainder() VLANFlag { return f &^ f.Known() }
func (f VLANFlag) String() string      { return nla.FlagString(f, vlanFlagName) }

// VLANFlags mirrors struct ifla_vlan_flags: only the bits set in Mask are
// meant to change.
type VLANFlags struct {
	Flags VLANFlag
	Mask  uint32
}

func (VLANFlags) Kind() uint16  { return IFLA_VLAN_FLAGS }
func (VLANFlags) ValueLen() int { return 8 }
func (f VLANFlags) EmitValue(b []byte) {
	nla.PutUint32(b, uint32(f.Flags))
	nla.PutUint32(b[4:], f.Mask)
}

// QoSMapping maps a skb priority to a VLAN priority or back.
type QoSMapping struct {
	From uint32
	To   uint32
}

func (QoSMapping) Kind() uint16  { return IFLA_VLAN_QOS_MAPPING }
func (QoSMapping) ValueLen() int { return 8 }
func (m QoSMapping) EmitValue(b []byte) {
	nla.PutUint32(b, m.From)
	nla.PutUint32(b[4:], m.To)
}

type (
	VLANEgressQoS  []nla.Attribute
	VLANIngressQoS []nla.Attribute
)

func (VLANEgressQoS) Kind() uint16         { return IFLA_VLAN_EGRESS_QOS }
func (l VLANEgressQoS) ValueLen() int      { return nla.ListLen(l) }
func (l VLANEgressQoS) EmitValue(b []byte) { nla.EmitList(b, l) }

func (VLANIngressQoS) Kind() uint16         { return IFLA_VLAN_INGRESS_QOS }
func (l VLANIngressQoS) ValueLen() int      { return nla.ListLen(l) }
func (l VLANIngressQoS) EmitValue(b []byte) { nla.EmitList(b, l) }

func parseQoSMapping(r nla.Record) (nla.Attribute, error) {
	if r.Kind != IFLA_VLAN_QOS_MAPPING {
		nla.Notice("link/vlan/qos", r)
		return nla.NewUnknown(r), nil
	}
	v, err := nla.Fixed(r.Value, 8, "ifla_vlan_qos_mapping")
	if err != nil {
		return nil, err
	}
	return QoSMapping{From: v.Uint32(0), To: v.Uint32(4)}, nil
}

// VLANProtocol is the ethertype of the tag, big endian on the wire.
type VLANProtocol uint16

const (
	VLANProtocol8021Q  VLANProtocol = 0x8100
	VLANProtocol8021AD VLANProtocol = 0x88a8
)

var vlanProtocolName = map[VLANProtocol]string{
	VLANProtocol8021Q:  "802.1Q",
	VLANProtocol8021AD: "802.1ad",
}

func (p VLANProtocol) String() string {
	if n, ok := vlanProtocolName[p]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_VLAN_PROTOCOL_%#04x", uint16(p))
}

func (VLANProtocol) Kind() uint16         { return IFLA_VLAN_PROTOCOL }
func (VLANProtocol) ValueLen() int        { return 2 }
func (p VLANProtocol) EmitValue(b []byte) { nla.PutUint16BE(b, uint16(p)) }

func parseVLAN(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case IFLA_VLAN_ID:
		v, err := nla.Uint16(p)
		return VLANID(v), err
	case IFLA_VLAN_FLAGS:
		v, err := nla.Fixed(p, 8, "ifla_vlan_flags")
		if err != nil {
			return nil, err
		}
		return VLANFlags{Flags: VLANFlag(v.Uint32(0)), Mask: v.Uint32(4)}, nil
	case IFLA_VLAN_EGRESS_QOS:
		l, err := nla.ParseList(p, parseQoSMapping)
		return VLANEgressQoS(l), err
	case IFLA_VLAN_INGRESS_QOS:
		l, err := nla.ParseList(p, parseQoSMapping)
		return VLANIngressQoS(l), err
	case IFLA_VLAN_PROTOCOL:
		v, err := nla.Uint16BE(p)
		return VLANProtocol(v), err
	}
	nla.Notice("link/vlan", r)
	return nla.NewUnknown(r), nil
}

const VETH_INFO_PEER = 1

// VethPeer describes the other end of a veth pair as a complete link
// message.
type VethPeer Message

func (VethPeer) Kind() uint16 { return VETH_INFO_PEER }

func (p VethPeer) ValueLen() int {
	m := Message(p)
	return m.Len()
}

func (p VethPeer) EmitValue(b []byte) {
	m := Message(p)
	m.Emit(b)
}

func parseVeth(r nla.Record) (nla.Attribute, error) {
	if r.Kind != VETH_INFO_PEER {
		nla.Notice("link/veth", r)
		return nla.NewUnknown(r), nil
	}
	var m Message
	if err := m.UnmarshalBinary(r.Value); err != nil {
		return nil, fmt.Errorf("veth peer: %w", err)
	}
	return VethPeer(m), nil
}
