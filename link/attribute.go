package link

import (
	"net"

	"github.com/scitags/rtnl-go/nla"
)

type (
	Address     net.HardwareAddr
	Broadcast   net.HardwareAddr
	PermAddress net.HardwareAddr
)

func (Address) Kind() uint16         { return IFLA_ADDRESS }
func (a Address) ValueLen() int      { return len(a) }
func (a Address) EmitValue(b []byte) { copy(b, a) }

func (Broadcast) Kind() uint16         { return IFLA_BROADCAST }
func (a Broadcast) ValueLen() int      { return len(a) }
func (a Broadcast) EmitValue(b []byte) { copy(b, a) }

func (PermAddress) Kind() uint16         { return IFLA_PERM_ADDRESS }
func (a PermAddress) ValueLen() int      { return len(a) }
func (a PermAddress) EmitValue(b []byte) { copy(b, a) }

// Names are NUL terminated on the wire.
type (
	Name             string
	Qdisc            string
	Alias            string
	PhysPortName     string
	ParentDevName    string
	ParentDevBusName string
	AltName          string
)

func (Name) Kind() uint16         { return IFLA_IFNAME }
func (s Name) ValueLen() int      { return len(s) + 1 }
func (s Name) EmitValue(b []byte) { nla.PutString(b, string(s)) }

func (Qdisc) Kind() uint16         { return IFLA_QDISC }
func (s Qdisc) ValueLen() int      { return len(s) + 1 }
func (s Qdisc) EmitValue(b []byte) { nla.PutString(b, string(s)) }

func (Alias) Kind() uint16         { return IFLA_IFALIAS }
func (s Alias) ValueLen() int      { return len(s) + 1 }
func (s Alias) EmitValue(b []byte) { nla.PutString(b, string(s)) }

func (PhysPortName) Kind() uint16         { return IFLA_PHYS_PORT_NAME }
func (s PhysPortName) ValueLen() int      { return len(s) + 1 }
func (s PhysPortName) EmitValue(b []byte) { nla.PutString(b, string(s)) }

func (ParentDevName) Kind() uint16         { return IFLA_PARENT_DEV_NAME }
func (s ParentDevName) ValueLen() int      { return len(s) + 1 }
func (s ParentDevName) EmitValue(b []byte) { nla.PutString(b, string(s)) }

func (ParentDevBusName) Kind() uint16         { return IFLA_PARENT_DEV_BUS_NAME }
func (s ParentDevBusName) ValueLen() int      { return len(s) + 1 }
func (s ParentDevBusName) EmitValue(b []byte) { nla.PutString(b, string(s)) }

func (AltName) Kind() uint16         { return IFLA_ALT_IFNAME }
func (s AltName) ValueLen() int      { return len(s) + 1 }
func (s AltName) EmitValue(b []byte) { nla.PutString(b, string(s)) }

type (
	MTU              uint32
	Link             uint32
	Master           uint32
	TxQueueLen       uint32
	NumVF            uint32
	Group            uint32
	Promiscuity      uint32
	NumTxQueues      uint32
	NumRxQueues      uint32
	CarrierChanges   uint32
	GSOMaxSegs       uint32
	GSOMaxSize       uint32
	CarrierUpCount   uint32
	CarrierDownCount uint32
	MinMTU           uint32
	MaxMTU           uint32
	NetNSPid         uint32
	NetNSFd          uint32
	GROMaxSize       uint32
	TSOMaxSize       uint32
	TSOMaxSegs       uint32
	AllMulti         uint32
)

func (MTU) Kind() uint16         { return IFLA_MTU }
func (MTU) ValueLen() int        { return 4 }
func (v MTU) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (Link) Kind() uint16         { return IFLA_LINK }
func (Link) ValueLen() int        { return 4 }
func (v Link) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (Master) Kind() uint16         { return IFLA_MASTER }
func (Master) ValueLen() int        { return 4 }
func (v Master) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (TxQueueLen) Kind() uint16         { return IFLA_TXQLEN }
func (TxQueueLen) ValueLen() int        { return 4 }
func (v TxQueueLen) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (NumVF) Kind() uint16         { return IFLA_NUM_VF }
func (NumVF) ValueLen() int        { return 4 }
func (v NumVF) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (Group) Kind() uint16         { return IFLA_GROUP }
func (Group) ValueLen() int        { return 4 }
func (v Group) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (Promiscuity) Kind() uint16         { return IFLA_PROMISCUITY }
func (Promiscuity) ValueLen() int        { return 4 }
func (v Promiscuity) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (NumTxQueues) Kind() uint16         { return IFLA_NUM_TX_QUEUES }
func (NumTxQueues) ValueLen() int        { return 4 }
func (v NumTxQueues) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (NumRxQueues) Kind() uint16         { return IFLA_NUM_RX_QUEUES }
func (NumRxQueues) ValueLen() int        { return 4 }
func (v NumRxQueues) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (CarrierChanges) Kind() uint16         { return IFLA_CARRIER_CHANGES }
func (CarrierChanges) ValueLen() int        { return 4 }
func (v CarrierChanges) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (GSOMaxSegs) Kind() uint16         { return IFLA_GSO_MAX_SEGS }
func (GSOMaxSegs) ValueLen() int        { return 4 }
func (v GSOMaxSegs) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (GSOMaxSize) Kind() uint16         { return IFLA_GSO_MAX_SIZE }
func (GSOMaxSize) ValueLen() int        { return 4 }
func (v GSOMaxSize) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (CarrierUpCount) Kind() uint16         { return IFLA_CARRIER_UP_COUNT }
func (CarrierUpCount) ValueLen() int        { return 4 }
func (v CarrierUpCount) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (CarrierDownCount) Kind() uint16         { return IFLA_CARRIER_DOWN_COUNT }
func (CarrierDownCount) ValueLen() int        { return 4 }
func (v CarrierDownCount) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (MinMTU) Kind() uint16         { return IFLA_MIN_MTU }
func (MinMTU) ValueLen() int        { return 4 }
func (v MinMTU) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (MaxMTU) Kind() uint16         { return IFLA_MAX_MTU }
func (MaxMTU) ValueLen() int        { return 4 }
func (v MaxMTU) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (NetNSPid) Kind() uint16         { return IFLA_NET_NS_PID }
func (NetNSPid) ValueLen() int        { return 4 }
func (v NetNSPid) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (NetNSFd) Kind() uint16         { return IFLA_NET_NS_FD }
func (NetNSFd) ValueLen() int        { return 4 }
func (v NetNSFd) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (GROMaxSize) Kind() uint16         { return IFLA_GRO_MAX_SIZE }
func (GROMaxSize) ValueLen() int        { return 4 }
func (v GROMaxSize) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (TSOMaxSize) Kind() uint16         { return IFLA_TSO_MAX_SIZE }
func (TSOMaxSize) ValueLen() int        { return 4 }
func (v TSOMaxSize) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (TSOMaxSegs) Kind() uint16         { return IFLA_TSO_MAX_SEGS }
func (TSOMaxSegs) ValueLen() int        { return 4 }
func (v TSOMaxSegs) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (AllMulti) Kind() uint16         { return IFLA_ALLMULTI }
func (AllMulti) ValueLen() int        { return 4 }
func (v AllMulti) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

// Network namespace ids are signed; -1 means unassigned.
type (
	LinkNetNSID int32
	NewNetNSID  int32
	IfNetNSID   int32
	NewIndex    int32
)

func (LinkNetNSID) Kind() uint16         { return IFLA_LINK_NETNSID }
func (LinkNetNSID) ValueLen() int        { return 4 }
func (v LinkNetNSID) EmitValue(b []byte) { nla.PutInt32(b, int32(v)) }

func (NewNetNSID) Kind() uint16         { return IFLA_NEW_NETNSID }
func (NewNetNSID) ValueLen() int        { return 4 }
func (v NewNetNSID) EmitValue(b []byte) { nla.PutInt32(b, int32(v)) }

func (IfNetNSID) Kind() uint16         { return IFLA_IF_NETNSID }
func (IfNetNSID) ValueLen() int        { return 4 }
func (v IfNetNSID) EmitValue(b []byte) { nla.PutInt32(b, int32(v)) }

func (NewIndex) Kind() uint16         { return IFLA_NEW_IFINDEX }
func (NewIndex) ValueLen() int        { return 4 }
func (v NewIndex) EmitValue(b []byte) { nla.PutInt32(b, int32(v)) }

type (
	Carrier   uint8
	ProtoDown uint8
)

func (Carrier) Kind() uint16         { return IFLA_CARRIER }
func (Carrier) ValueLen() int        { return 1 }
func (v Carrier) EmitValue(b []byte) { b[0] = uint8(v) }

func (ProtoDown) Kind() uint16         { return IFLA_PROTO_DOWN }
func (ProtoDown) ValueLen() int        { return 1 }
func (v ProtoDown) EmitValue(b []byte) { b[0] = uint8(v) }

type (
	PhysPortID   []byte
	PhysSwitchID []byte
)

func (PhysPortID) Kind() uint16         { return IFLA_PHYS_PORT_ID }
func (v PhysPortID) ValueLen() int      { return len(v) }
func (v PhysPortID) EmitValue(b []byte) { copy(b, v) }

func (PhysSwitchID) Kind() uint16         { return IFLA_PHYS_SWITCH_ID }
func (v PhysSwitchID) ValueLen() int      { return len(v) }
func (v PhysSwitchID) EmitValue(b []byte) { copy(b, v) }

func (OperState) Kind() uint16         { return IFLA_OPERSTATE }
func (OperState) ValueLen() int        { return 1 }
func (s OperState) EmitValue(b []byte) { b[0] = uint8(s) }

func (Mode) Kind() uint16         { return IFLA_LINKMODE }
func (Mode) ValueLen() int        { return 1 }
func (m Mode) EmitValue(b []byte) { b[0] = uint8(m) }

func (Event) Kind() uint16         { return IFLA_EVENT }
func (Event) ValueLen() int        { return 4 }
func (e Event) EmitValue(b []byte) { nla.PutUint32(b, uint32(e)) }

// ExtMask selects the extra information a dump should carry (RTEXT_FILTER_*).
type ExtMask uint32

const (
	ExtVF                ExtMask = 1 << 0
	ExtBridgeVLAN        ExtMask = 1 << 1
	ExtBridgeVLANCompact ExtMask = 1 << 2
	ExtSkipStats         ExtMask = 1 << 3
	ExtMRP               ExtMask = 1 << 4
	ExtCFMConfig         ExtMask = 1 << 5
	ExtCFMStatus         ExtMask = 1 << 6
	ExtMST               ExtMask = 1 << 7
)

var extMaskName = map[ExtMask]string{
	ExtVF:                "vf",
	ExtBridgeVLAN:        "brvlan",
	ExtBridgeVLANCompact: "brvlan_compressed",
	ExtSkipStats:         "skip_stats",
	ExtMRP:               "mrp",
	ExtCFMConfig:         "cfm_config",
	ExtCFMStatus:         "cfm_status",
	ExtMST:               "mst",
}

func (m ExtMask) Known() ExtMask     { return nla.KnownBits(m, extMaskName) }
func (m ExtMask) Remainder() ExtMask { return m &^ m.Known() }
func (m ExtMask) String() string     { return nla.FlagString(m, extMaskName) }

func (ExtMask) Kind() uint16         { return IFLA_EXT_MASK }
func (ExtMask) ValueLen() int        { return 4 }
func (m ExtMask) EmitValue(b []byte) { nla.PutUint32(b, uint32(m)) }

// Map mirrors struct rtnl_link_ifmap, including its trailing padding.
type Map struct {
	MemStart uint64
	MemEnd   uint64
	BaseAddr uint64
	IRQ      uint16
	DMA      uint8
	Port     uint8
}

const mapLen = 32

func (Map) Kind() uint16  { return IFLA_MAP }
func (Map) ValueLen() int { return mapLen }
func (m Map) EmitValue(b []byte) {
	v := nla.NewView(b, mapLen)
	v.SetUint64(0, m.MemStart)
	v.SetUint64(8, m.MemEnd)
	v.SetUint64(16, m.BaseAddr)
	v.SetUint16(24, m.IRQ)
	v.SetUint8(26, m.DMA)
	v.SetUint8(27, m.Port)
	clear(b[28:mapLen])
}

func parseMap(b []byte) (Map, error) {
	v, err := nla.Fixed(b, mapLen, "rtnl_link_ifmap")
	if err != nil {
		return Map{}, err
	}
	return Map{
		MemStart: v.Uint64(0),
		MemEnd:   v.Uint64(8),
		BaseAddr: v.Uint64(16),
		IRQ:      v.Uint16(24),
		DMA:      v.Uint8(26),
		Port:     v.Uint8(27),
	}, nil
}

// PropList holds the alternative names of the link.
type PropList []nla.Attribute

func (PropList) Kind() uint16         { return IFLA_PROP_LIST }
func (l PropList) ValueLen() int      { return nla.ListLen(l) }
func (l PropList) EmitValue(b []byte) { nla.EmitList(b, l) }

func parsePropList(r nla.Record) (nla.Attribute, error) {
	if r.Kind == IFLA_ALT_IFNAME {
		s, err := nla.String(r.Value)
		return AltName(s), err
	}
	nla.Notice("link/prop", r)
	return nla.NewUnknown(r), nil
}

const (
	IFLA_PROTO_DOWN_REASON_MASK  = 1
	IFLA_PROTO_DOWN_REASON_VALUE = 2
)

// ProtoDownReason carries the reason bits of IFLA_PROTO_DOWN.
type ProtoDownReason []nla.Attribute

func (ProtoDownReason) Kind() uint16         { return IFLA_PROTO_DOWN_REASON }
func (l ProtoDownReason) ValueLen() int      { return nla.ListLen(l) }
func (l ProtoDownReason) EmitValue(b []byte) { nla.EmitList(b, l) }

type (
	ProtoDownReasonMask  uint32
	ProtoDownReasonValue uint32
)

func (ProtoDownReasonMask) Kind() uint16         { return IFLA_PROTO_DOWN_REASON_MASK }
func (ProtoDownReasonMask) ValueLen() int        { return 4 }
func (v ProtoDownReasonMask) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (ProtoDownReasonValue) Kind() uint16         { return IFLA_PROTO_DOWN_REASON_VALUE }
func (ProtoDownReasonValue) ValueLen() int        { return 4 }
func (v ProtoDownReasonValue) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func parseProtoDownReason(r nla.Record) (nla.Attribute, error) {
	switch r.Kind {
	case IFLA_PROTO_DOWN_REASON_MASK:
		v, err := nla.Uint32(r.Value)
		return ProtoDownReasonMask(v), err
	case IFLA_PROTO_DOWN_REASON_VALUE:
		v, err := nla.Uint32(r.Value)
		return ProtoDownReasonValue(v), err
	}
	nla.Notice("link/protodown", r)
	return nla.NewUnknown(r), nil
}

func (ctx parseContext) parse(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case IFLA_ADDRESS:
		return Address(nla.HardwareAddr(p)), nil
	case IFLA_BROADCAST:
		return Broadcast(nla.HardwareAddr(p)), nil
	case IFLA_PERM_ADDRESS:
		return PermAddress(nla.HardwareAddr(p)), nil
	case IFLA_IFNAME, IFLA_QDISC, IFLA_IFALIAS, IFLA_PHYS_PORT_NAME, IFLA_PARENT_DEV_NAME, IFLA_PARENT_DEV_BUS_NAME:
		s, err := nla.String(p)
		if err != nil {
			return nil, err
		}
		switch r.Kind {
		case IFLA_IFNAME:
			return Name(s), nil
		case IFLA_QDISC:
			return Qdisc(s), nil
		case IFLA_IFALIAS:
			return Alias(s), nil
		case IFLA_PHYS_PORT_NAME:
			return PhysPortName(s), nil
		case IFLA_PARENT_DEV_NAME:
			return ParentDevName(s), nil
		}
		return ParentDevBusName(s), nil
	case IFLA_MTU, IFLA_LINK, IFLA_MASTER, IFLA_TXQLEN, IFLA_NUM_VF, IFLA_GROUP, IFLA_PROMISCUITY,
		IFLA_NUM_TX_QUEUES, IFLA_NUM_RX_QUEUES, IFLA_CARRIER_CHANGES, IFLA_GSO_MAX_SEGS, IFLA_GSO_MAX_SIZE,
		IFLA_CARRIER_UP_COUNT, IFLA_CARRIER_DOWN_COUNT, IFLA_MIN_MTU, IFLA_MAX_MTU, IFLA_NET_NS_PID,
		IFLA_NET_NS_FD, IFLA_GRO_MAX_SIZE, IFLA_TSO_MAX_SIZE, IFLA_TSO_MAX_SEGS, IFLA_ALLMULTI:
		v, err := nla.Uint32(p)
		if err != nil {
			return nil, err
		}
		return u32Attribute(r, v), nil
	case IFLA_LINK_NETNSID, IFLA_NEW_NETNSID, IFLA_IF_NETNSID, IFLA_NEW_IFINDEX:
		v, err := nla.Int32(p)
		if err != nil {
			return nil, err
		}
		switch r.Kind {
		case IFLA_LINK_NETNSID:
			return LinkNetNSID(v), nil
		case IFLA_NEW_NETNSID:
			return NewNetNSID(v), nil
		case IFLA_IF_NETNSID:
			return IfNetNSID(v), nil
		}
		return NewIndex(v), nil
	case IFLA_CARRIER:
		v, err := nla.Uint8(p)
		return Carrier(v), err
	case IFLA_PROTO_DOWN:
		v, err := nla.Uint8(p)
		return ProtoDown(v), err
	case IFLA_OPERSTATE:
		v, err := nla.Uint8(p)
		return OperState(v), err
	case IFLA_LINKMODE:
		v, err := nla.Uint8(p)
		return Mode(v), err
	case IFLA_EVENT:
		v, err := nla.Uint32(p)
		return Event(v), err
	case IFLA_EXT_MASK:
		v, err := nla.Uint32(p)
		return ExtMask(v), err
	case IFLA_PHYS_PORT_ID:
		return PhysPortID(nla.Bytes(p)), nil
	case IFLA_PHYS_SWITCH_ID:
		return PhysSwitchID(nla.Bytes(p)), nil
	case IFLA_MAP:
		return parseMap(p)
	case IFLA_STATS:
		return parseStats(p)
	case IFLA_STATS64:
		return parseStats64(p)
	case IFLA_LINKINFO:
		return parseInfo(p)
	case IFLA_PROTINFO:
		return ctx.parseProtInfo(r)
	case IFLA_AF_SPEC:
		return ctx.parseAFSpec(r)
	case IFLA_XDP:
		l, err := nla.ParseList(p, parseXDP)
		return XDP(l), err
	case IFLA_PROP_LIST:
		l, err := nla.ParseList(p, parsePropList)
		return PropList(l), err
	case IFLA_PROTO_DOWN_REASON:
		l, err := nla.ParseList(p, parseProtoDownReason)
		return ProtoDownReason(l), err
	case IFLA_VFINFO_LIST, IFLA_VF_PORTS, IFLA_PORT_SELF:
		return nla.ParseOpaque(r), nil
	}

	nla.Notice("link", r)
	return nla.NewUnknown(r), nil
}

func u32Attribute(r nla.Record, v uint32) nla.Attribute {
	switch r.Kind {
	case IFLA_MTU:
		return MTU(v)
	case IFLA_LINK:
		return Link(v)
	case IFLA_MASTER:
		return Master(v)
	case IFLA_TXQLEN:
		return TxQueueLen(v)
	case IFLA_NUM_VF:
		return NumVF(v)
	case IFLA_GROUP:
		return Group(v)
	case IFLA_PROMISCUITY:
		return Promiscuity(v)
	case IFLA_NUM_TX_QUEUES:
		return NumTxQueues(v)
	case IFLA_NUM_RX_QUEUES:
		return NumRxQueues(v)
	case IFLA_CARRIER_CHANGES:
		return CarrierChanges(v)
	case IFLA_GSO_MAX_SEGS:
		return GSOMaxSegs(v)
	case IFLA_GSO_MAX_SIZE:
		return GSOMaxSize(v)
	case IFLA_CARRIER_UP_COUNT:
		return CarrierUpCount(v)
	case IFLA_CARRIER_DOWN_COUNT:
		return CarrierDownCount(v)
	case IFLA_MIN_MTU:
		return MinMTU(v)
	case IFLA_MAX_MTU:
		return MaxMTU(v)
	case IFLA_NET_NS_PID:
		return NetNSPid(v)
	case IFLA_NET_NS_FD:
		return NetNSFd(v)
	case IFLA_GRO_MAX_SIZE:
		return GROMaxSize(v)
	case IFLA_TSO_MAX_SIZE:
		return TSOMaxSize(v)
	case IFLA_TSO_MAX_SEGS:
		return TSOMaxSegs(v)
	case IFLA_ALLMULTI:
		return AllMulti(v)
	}
	return nla.NewUnknown(r)
}
