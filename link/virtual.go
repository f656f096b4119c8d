package link

import (
	"fmt"
	"net"

	"github.com/scitags/rtnl-go/nla"
)

const (
	IFLA_XFRM_LINK  = 1
	IFLA_XFRM_IF_ID = 2
)

// XfrmValue is IFLA_XFRM_LINK, the underlying interface index, or
// IFLA_XFRM_IF_ID, the id matched against xfrm policies.
type XfrmValue struct {
	Type  uint16
	Value uint32
}

func (v XfrmValue) Kind() uint16       { return v.Type }
func (XfrmValue) ValueLen() int        { return 4 }
func (v XfrmValue) EmitValue(b []byte) { nla.PutUint32(b, v.Value) }

func parseXfrm(r nla.Record) (nla.Attribute, error) {
	switch r.Kind {
	case IFLA_XFRM_LINK, IFLA_XFRM_IF_ID:
		v, err := nla.Uint32(r.Value)
		return XfrmValue{Type: r.Kind, Value: v}, err
	}
	nla.Notice("link/xfrm", r)
	return nla.NewUnknown(r), nil
}

// The kernel calls the ports IFLA_HSR_SLAVE1 and IFLA_HSR_SLAVE2.
const (
	IFLA_HSR_PORT1            = 1
	IFLA_HSR_PORT2            = 2
	IFLA_HSR_MULTICAST_SPEC   = 3
	IFLA_HSR_SUPERVISION_ADDR = 4
	IFLA_HSR_SEQ_NR           = 5
	IFLA_HSR_VERSION          = 6
	IFLA_HSR_PROTOCOL         = 7
)

// HSRProtocol selects between High-availability Seamless Redundancy and
// the Parallel Redundancy Protocol.
type HSRProtocol uint8

const (
	HSRProtocolHSR HSRProtocol = 0
	HSRProtocolPRP HSRProtocol = 1
)

func (p HSRProtocol) String() string {
	switch p {
	case HSRProtocolHSR:
		return "hsr"
	case HSRProtocolPRP:
		return "prp"
	}
	return fmt.Sprintf("UNKNOWN_HSR_PROTOCOL_%d", uint8(p))
}

func (HSRProtocol) Kind() uint16         { return IFLA_HSR_PROTOCOL }
func (HSRProtocol) ValueLen() int        { return 1 }
func (p HSRProtocol) EmitValue(b []byte) { b[0] = uint8(p) }

// HSRPort is the interface index of one of the two redundant ports.
type HSRPort struct {
	Type  uint16
	Index uint32
}

func (p HSRPort) Kind() uint16       { return p.Type }
func (HSRPort) ValueLen() int        { return 4 }
func (p HSRPort) EmitValue(b []byte) { nla.PutUint32(b, p.Index) }

// HSRValue is the one byte IFLA_HSR_MULTICAST_SPEC or IFLA_HSR_VERSION.
type HSRValue struct {
	Type  uint16
	Value uint8
}

func (v HSRValue) Kind() uint16       { return v.Type }
func (HSRValue) ValueLen() int        { return 1 }
func (v HSRValue) EmitValue(b []byte) { b[0] = v.Value }

// HSRSupervisionAddr is the multicast address of supervision frames.
type HSRSupervisionAddr net.HardwareAddr

func (HSRSupervisionAddr) Kind() uint16         { return IFLA_HSR_SUPERVISION_ADDR }
func (a HSRSupervisionAddr) ValueLen() int      { return len(a) }
func (a HSRSupervisionAddr) EmitValue(b []byte) { copy(b, a) }

type HSRSequence uint16

func (HSRSequence) Kind() uint16         { return IFLA_HSR_SEQ_NR }
func (HSRSequence) ValueLen() int        { return 2 }
func (s HSRSequence) EmitValue(b []byte) { nla.PutUint16(b, uint16(s)) }

func parseHSR(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case IFLA_HSR_PORT1, IFLA_HSR_PORT2:
		v, err := nla.Uint32(p)
		return HSRPort{Type: r.Kind, Index: v}, err
	case IFLA_HSR_MULTICAST_SPEC, IFLA_HSR_VERSION:
		v, err := nla.Uint8(p)
		return HSRValue{Type: r.Kind, Value: v}, err
	case IFLA_HSR_SUPERVISION_ADDR:
		return HSRSupervisionAddr(nla.HardwareAddr(p)), nil
	case IFLA_HSR_SEQ_NR:
		v, err := nla.Uint16(p)
		return HSRSequence(v), err
	case IFLA_HSR_PROTOCOL:
		v, err := nla.Uint8(p)
		return HSRProtocol(v), err
	}
	nla.Notice("link/hsr", r)
	return nla.NewUnknown(r), nil
}

const (
	IFLA_IPOIB_PKEY   = 1
	IFLA_IPOIB_MODE   = 2
	IFLA_IPOIB_UMCAST = 3
)

// IPoIBMode is IPOIB_MODE_*.
type IPoIBMode uint16

const (
	IPoIBDatagram  IPoIBMode = 0
	IPoIBConnected IPoIBMode = 1
)

func (m IPoIBMode) String() string {
	switch m {
	case IPoIBDatagram:
		return "datagram"
	case IPoIBConnected:
		return "connected"
	}
	return fmt.Sprintf("UNKNOWN_IPOIB_MODE_%d", uint16(m))
}

func (IPoIBMode) Kind() uint16         { return IFLA_IPOIB_MODE }
func (IPoIBMode) ValueLen() int        { return 2 }
func (m IPoIBMode) EmitValue(b []byte) { nla.PutUint16(b, uint16(m)) }

// IPoIBValue is the partition key or the user multicast switch.
type IPoIBValue struct {
	Type  uint16
	Value uint16
}

func (v IPoIBValue) Kind() uint16       { return v.Type }
func (IPoIBValue) ValueLen() int        { return 2 }
func (v IPoIBValue) EmitValue(b []byte) { nla.PutUint16(b, v.Value) }

func parseIPoIB(r nla.Record) (nla.Attribute, error) {
	switch r.Kind {
	case IFLA_IPOIB_PKEY, IFLA_IPOIB_UMCAST:
		v, err := nla.Uint16(r.Value)
		return IPoIBValue{Type: r.Kind, Value: v}, err
	case IFLA_IPOIB_MODE:
		v, err := nla.Uint16(r.Value)
		return IPoIBMode(v), err
	}
	nla.Notice("link/ipoib", r)
	return nla.NewUnknown(r), nil
}

const (
	IFLA_NETKIT_PEER_INFO   = 1
	IFLA_NETKIT_PRIMARY     = 2
	IFLA_NETKIT_POLICY      = 3
	IFLA_NETKIT_PEER_POLICY = 4
	IFLA_NETKIT_MODE        = 5
	IFLA_NETKIT_SCRUB       = 6
	IFLA_NETKIT_PEER_SCRUB  = 7
	IFLA_NETKIT_HEADROOM    = 8
	IFLA_NETKIT_TAILROOM    = 9
)

// NetkitMode is NETKIT_L2 or NETKIT_L3.
type NetkitMode uint32

const (
	NetkitL2 NetkitMode = 0
	NetkitL3 NetkitMode = 1
)

func (m NetkitMode) String() string {
	switch m {
	case NetkitL2:
		return "l2"
	case NetkitL3:
		return "l3"
	}
	return fmt.Sprintf("UNKNOWN_NETKIT_MODE_%d", uint32(m))
}

func (NetkitMode) Kind() uint16         { return IFLA_NETKIT_MODE }
func (NetkitMode) ValueLen() int        { return 4 }
func (m NetkitMode) EmitValue(b []byte) { nla.PutUint32(b, uint32(m)) }

// NetkitVerdict is the default verdict applied when no program is
// attached: NETKIT_PASS, NETKIT_DROP or NETKIT_REDIRECT.
type NetkitVerdict uint32

const (
	NetkitPass     NetkitVerdict = 0
	NetkitDrop     NetkitVerdict = 2
	NetkitRedirect NetkitVerdict = 7
)

func (v NetkitVerdict) String() string {
	switch v {
	case NetkitPass:
		return "pass"
	case NetkitDrop:
		return "drop"
	case NetkitRedirect:
		return "redirect"
	}
	return fmt.Sprintf("UNKNOWN_NETKIT_POLICY_%d", uint32(v))
}

// NetkitPolicy is IFLA_NETKIT_POLICY or IFLA_NETKIT_PEER_POLICY.
type NetkitPolicy struct {
	Type    uint16
	Verdict NetkitVerdict
}

func (p NetkitPolicy) Kind() uint16       { return p.Type }
func (NetkitPolicy) ValueLen() int        { return 4 }
func (p NetkitPolicy) EmitValue(b []byte) { nla.PutUint32(b, uint32(p.Verdict)) }

// NetkitPrimary marks the device that owns the pair.
type NetkitPrimary bool

func (NetkitPrimary) Kind() uint16  { return IFLA_NETKIT_PRIMARY }
func (NetkitPrimary) ValueLen() int { return 1 }
func (p NetkitPrimary) EmitValue(b []byte) {
	b[0] = 0
	if p {
		b[0] = 1
	}
}

// NetkitValue holds the scrub settings (u32) and the head and tail room
// reservations (u16).
type NetkitValue struct {
	Type  uint16
	Value uint32
}

func (v NetkitValue) Kind() uint16 { return v.Type }

func (v NetkitValue) ValueLen() int {
	if v.Type == IFLA_NETKIT_HEADROOM || v.Type == IFLA_NETKIT_TAILROOM {
		return 2
	}
	return 4
}

func (v NetkitValue) EmitValue(b []byte) {
	if v.ValueLen() == 2 {
		nla.PutUint16(b, uint16(v.Value))
		return
	}
	nla.PutUint32(b, v.Value)
}

// NetkitPeer is the peer device as a complete link message.
type NetkitPeer Message

func (NetkitPeer) Kind() uint16 { return IFLA_NETKIT_PEER_INFO }

func (p NetkitPeer) ValueLen() int {
	m := Message(p)
	return m.Len()
}

func (p NetkitPeer) EmitValue(b []byte) {
	m := Message(p)
	m.Emit(b)
}

func parseNetkit(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case IFLA_NETKIT_PEER_INFO:
		var m Message
		if err := m.UnmarshalBinary(p); err != nil {
			return nil, fmt.Errorf("netkit peer: %w", err)
		}
		return NetkitPeer(m), nil
	case IFLA_NETKIT_PRIMARY:
		v, err := nla.Uint8(p)
		return NetkitPrimary(v != 0), err
	case IFLA_NETKIT_POLICY, IFLA_NETKIT_PEER_POLICY:
		v, err := nla.Uint32(p)
		return NetkitPolicy{Type: r.Kind, Verdict: NetkitVerdict(v)}, err
	case IFLA_NETKIT_MODE:
		v, err := nla.Uint32(p)
		return NetkitMode(v), err
	case IFLA_NETKIT_SCRUB, IFLA_NETKIT_PEER_SCRUB:
		v, err := nla.Uint32(p)
		return NetkitValue{Type: r.Kind, Value: v}, err
	case IFLA_NETKIT_HEADROOM, IFLA_NETKIT_TAILROOM:
		v, err := nla.Uint16(p)
		return NetkitValue{Type: r.Kind, Value: uint32(v)}, err
	}
	nla.Notice("link/netkit", r)
	return nla.NewUnknown(r), nil
}
