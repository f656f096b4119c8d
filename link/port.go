package link

import (
	"fmt"
	"net"

	"github.com/scitags/rtnl-go/nla"
)

const (
	IFLA_BRPORT_STATE                 = 1
	IFLA_BRPORT_PRIORITY              = 2
	IFLA_BRPORT_COST                  = 3
	IFLA_BRPORT_MODE                  = 4
	IFLA_BRPORT_GUARD                 = 5
	IFLA_BRPORT_PROTECT               = 6
	IFLA_BRPORT_FAST_LEAVE            = 7
	IFLA_BRPORT_LEARNING              = 8
	IFLA_BRPORT_UNICAST_FLOOD         = 9
	IFLA_BRPORT_PROXYARP              = 10
	IFLA_BRPORT_LEARNING_SYNC         = 11
	IFLA_BRPORT_PROXYARP_WIFI         = 12
	IFLA_BRPORT_ROOT_ID               = 13
	IFLA_BRPORT_BRIDGE_ID             = 14
	IFLA_BRPORT_DESIGNATED_PORT       = 15
	IFLA_BRPORT_DESIGNATED_COST       = 16
	IFLA_BRPORT_ID                    = 17
	IFLA_BRPORT_NO                    = 18
	IFLA_BRPORT_TOPOLOGY_CHANGE_ACK   = 19
	IFLA_BRPORT_CONFIG_PENDING        = 20
	IFLA_BRPORT_MESSAGE_AGE_TIMER     = 21
	IFLA_BRPORT_FORWARD_DELAY_TIMER   = 22
	IFLA_BRPORT_HOLD_TIMER            = 23
	IFLA_BRPORT_FLUSH                 = 24
	IFLA_BRPORT_MULTICAST_ROUTER      = 25
	IFLA_BRPORT_PAD                   = 26
	IFLA_BRPORT_MCAST_FLOOD           = 27
	IFLA_BRPORT_MCAST_TO_UCAST        = 28
	IFLA_BRPORT_VLAN_TUNNEL           = 29
	IFLA_BRPORT_BCAST_FLOOD           = 30
	IFLA_BRPORT_GROUP_FWD_MASK        = 31
	IFLA_BRPORT_NEIGH_SUPPRESS        = 32
	IFLA_BRPORT_ISOLATED              = 33
	IFLA_BRPORT_BACKUP_PORT           = 34
	IFLA_BRPORT_MRP_RING_OPEN         = 35
	IFLA_BRPORT_MRP_IN_OPEN           = 36
	IFLA_BRPORT_MCAST_EHT_HOSTS_LIMIT = 37
	IFLA_BRPORT_MCAST_EHT_HOSTS_CNT   = 38
	IFLA_BRPORT_LOCKED                = 39
	IFLA_BRPORT_MAB                   = 40
	IFLA_BRPORT_MCAST_N_GROUPS        = 41
	IFLA_BRPORT_MCAST_MAX_GROUPS      = 42
	IFLA_BRPORT_NEIGH_VLAN_SUPPRESS   = 43
	IFLA_BRPORT_BACKUP_NHID           = 44
)

// PortState is the STP state of a bridge port (BR_STATE_*).
type PortState uint8

const (
	PortDisabled   PortState = 0
	PortListening  PortState = 1
	PortLearning   PortState = 2
	PortForwarding PortState = 3
	PortBlocking   PortState = 4
)

var portStateName = map[PortState]string{
	PortDisabled:   "disabled",
	PortListening:  "listening",
	PortLearning:   "learning",
	PortForwarding: "forwarding",
	PortBlocking:   "blocking",
}

func (s PortState) String() string {
	if n, ok := portStateName[s]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_PORT_STATE_%d", uint8(s))
}

func (PortState) Kind() uint16         { return IFLA_BRPORT_STATE }
func (PortState) ValueLen() int        { return 1 }
func (s PortState) EmitValue(b []byte) { b[0] = uint8(s) }

// BridgePortOption is a one byte bridge port knob: a boolean such as
// IFLA_BRPORT_LEARNING or the IFLA_BRPORT_MULTICAST_ROUTER type.
type BridgePortOption struct {
	Type  uint16
	Value uint8
}

func (o BridgePortOption) Kind() uint16       { return o.Type }
func (BridgePortOption) ValueLen() int        { return 1 }
func (o BridgePortOption) EmitValue(b []byte) { b[0] = o.Value }

// BridgePortValue is a 16 or 32 bit bridge port number; the width is fixed
// by the kind.
type BridgePortValue struct {
	Type  uint16
	Value uint32
}

var bridgePortWidth = map[uint16]int{
	IFLA_BRPORT_PRIORITY:              2,
	IFLA_BRPORT_DESIGNATED_PORT:       2,
	IFLA_BRPORT_DESIGNATED_COST:       2,
	IFLA_BRPORT_ID:                    2,
	IFLA_BRPORT_NO:                    2,
	IFLA_BRPORT_GROUP_FWD_MASK:        2,
	IFLA_BRPORT_COST:                  4,
	IFLA_BRPORT_BACKUP_PORT:           4,
	IFLA_BRPORT_MCAST_EHT_HOSTS_LIMIT: 4,
	IFLA_BRPORT_MCAST_EHT_HOSTS_CNT:   4,
	IFLA_BRPORT_MCAST_N_GROUPS:        4,
	IFLA_BRPORT_MCAST_MAX_GROUPS:      4,
	IFLA_BRPORT_BACKUP_NHID:           4,
}

func (v BridgePortValue) Kind() uint16 { return v.Type }

func (v BridgePortValue) ValueLen() int {
	if w, ok := bridgePortWidth[v.Type]; ok {
		return w
	}
	return 4
}

func (v BridgePortValue) EmitValue(b []byte) {
	if v.ValueLen() == 2 {
		nla.PutUint16(b, uint16(v.Value))
		return
	}
	nla.PutUint32(b, v.Value)
}

// BridgePortTimer is one of the STP timers, in hundredths of a second.
type BridgePortTimer struct {
	Type  uint16
	Value uint64
}

func (t BridgePortTimer) Kind() uint16       { return t.Type }
func (BridgePortTimer) ValueLen() int        { return 8 }
func (t BridgePortTimer) EmitValue(b []byte) { nla.PutUint64(b, t.Value) }

// BridgeID mirrors struct ifla_bridge_id: a big endian priority followed by
// a MAC address.
type BridgeID struct {
	Type     uint16
	Priority uint16
	Address  net.HardwareAddr
}

func (id BridgeID) Kind() uint16 { return id.Type }
func (BridgeID) ValueLen() int   { return 8 }
func (id BridgeID) EmitValue(b []byte) {
	nla.PutUint16BE(b, id.Priority)
	copy(b[2:8], id.Address)
}

// BridgePortFlush is a value-less request to flush the port's FDB.
type BridgePortFlush struct{}

func (BridgePortFlush) Kind() uint16     { return IFLA_BRPORT_FLUSH }
func (BridgePortFlush) ValueLen() int    { return 0 }
func (BridgePortFlush) EmitValue([]byte) {}

func parseBridgePort(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case IFLA_BRPORT_STATE:
		v, err := nla.Uint8(p)
		return PortState(v), err
	case IFLA_BRPORT_MODE, IFLA_BRPORT_GUARD, IFLA_BRPORT_PROTECT, IFLA_BRPORT_FAST_LEAVE,
		IFLA_BRPORT_LEARNING, IFLA_BRPORT_UNICAST_FLOOD, IFLA_BRPORT_PROXYARP, IFLA_BRPORT_LEARNING_SYNC,
		IFLA_BRPORT_PROXYARP_WIFI, IFLA_BRPORT_TOPOLOGY_CHANGE_ACK, IFLA_BRPORT_CONFIG_PENDING,
		IFLA_BRPORT_MULTICAST_ROUTER, IFLA_BRPORT_MCAST_FLOOD, IFLA_BRPORT_MCAST_TO_UCAST,
		IFLA_BRPORT_VLAN_TUNNEL, IFLA_BRPORT_BCAST_FLOOD, IFLA_BRPORT_NEIGH_SUPPRESS,
		IFLA_BRPORT_ISOLATED, IFLA_BRPORT_MRP_RING_OPEN, IFLA_BRPORT_MRP_IN_OPEN, IFLA_BRPORT_LOCKED,
		IFLA_BRPORT_MAB, IFLA_BRPORT_NEIGH_VLAN_SUPPRESS:
		v, err := nla.Uint8(p)
		return BridgePortOption{Type: r.Kind, Value: v}, err
	case IFLA_BRPORT_ROOT_ID, IFLA_BRPORT_BRIDGE_ID:
		v, err := nla.Fixed(p, 8, "ifla_bridge_id")
		if err != nil {
			return nil, err
		}
		return BridgeID{Type: r.Kind, Priority: v.Uint16BE(0), Address: nla.HardwareAddr(v.Bytes(2, 6))}, nil
	case IFLA_BRPORT_MESSAGE_AGE_TIMER, IFLA_BRPORT_FORWARD_DELAY_TIMER, IFLA_BRPORT_HOLD_TIMER:
		v, err := nla.Uint64(p)
		return BridgePortTimer{Type: r.Kind, Value: v}, err
	case IFLA_BRPORT_FLUSH:
		return BridgePortFlush{}, nil
	}

	switch bridgePortWidth[r.Kind] {
	case 2:
		v, err := nla.Uint16(p)
		return BridgePortValue{Type: r.Kind, Value: uint32(v)}, err
	case 4:
		v, err := nla.Uint32(p)
		return BridgePortValue{Type: r.Kind, Value: v}, err
	}

	nla.Notice("link/brport", r)
	return nla.NewUnknown(r), nil
}

const (
	IFLA_BOND_SLAVE_STATE                      = 1
	IFLA_BOND_SLAVE_MII_STATUS                 = 2
	IFLA_BOND_SLAVE_LINK_FAILURE_COUNT         = 3
	IFLA_BOND_SLAVE_PERM_HWADDR                = 4
	IFLA_BOND_SLAVE_QUEUE_ID                   = 5
	IFLA_BOND_SLAVE_AD_AGGREGATOR_ID           = 6
	IFLA_BOND_SLAVE_AD_ACTOR_OPER_PORT_STATE   = 7
	IFLA_BOND_SLAVE_AD_PARTNER_OPER_PORT_STATE = 8
	IFLA_BOND_SLAVE_PRIO                       = 9
)

// BondPortState is BOND_STATE_*.
type BondPortState uint8

const (
	BondPortActive BondPortState = 0
	BondPortBackup BondPortState = 1
)

func (s BondPortState) String() string {
	switch s {
	case BondPortActive:
		return "active"
	case BondPortBackup:
		return "backup"
	}
	return fmt.Sprintf("UNKNOWN_BOND_PORT_STATE_%d", uint8(s))
}

func (BondPortState) Kind() uint16         { return IFLA_BOND_SLAVE_STATE }
func (BondPortState) ValueLen() int        { return 1 }
func (s BondPortState) EmitValue(b []byte) { b[0] = uint8(s) }

// MIIStatus is BOND_LINK_*.
type MIIStatus uint8

const (
	MIIUp   MIIStatus = 0
	MIIFail MIIStatus = 1
	MIIDown MIIStatus = 2
	MIIBack MIIStatus = 3
)

func (s MIIStatus) String() string {
	switch s {
	case MIIUp:
		return "up"
	case MIIFail:
		return "going_down"
	case MIIDown:
		return "down"
	case MIIBack:
		return "going_back"
	}
	return fmt.Sprintf("UNKNOWN_MII_STATUS_%d", uint8(s))
}

func (MIIStatus) Kind() uint16         { return IFLA_BOND_SLAVE_MII_STATUS }
func (MIIStatus) ValueLen() int        { return 1 }
func (s MIIStatus) EmitValue(b []byte) { b[0] = uint8(s) }

type (
	BondLinkFailureCount     uint32
	BondPermAddress          net.HardwareAddr
	BondQueueID              uint16
	BondAggregatorID         uint16
	BondActorOperPortState   uint8
	BondPartnerOperPortState uint16
	BondPrio                 int32
)

func (BondLinkFailureCount) Kind() uint16         { return IFLA_BOND_SLAVE_LINK_FAILURE_COUNT }
func (BondLinkFailureCount) ValueLen() int        { return 4 }
func (v BondLinkFailureCount) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (BondPermAddress) Kind() uint16         { return IFLA_BOND_SLAVE_PERM_HWADDR }
func (a BondPermAddress) ValueLen() int      { return len(a) }
func (a BondPermAddress) EmitValue(b []byte) { copy(b, a) }

func (BondQueueID) Kind() uint16         { return IFLA_BOND_SLAVE_QUEUE_ID }
func (BondQueueID) ValueLen() int        { return 2 }
func (v BondQueueID) EmitValue(b []byte) { nla.PutUint16(b, uint16(v)) }

func (BondAggregatorID) Kind() uint16         { return IFLA_BOND_SLAVE_AD_AGGREGATOR_ID }
func (BondAggregatorID) ValueLen() int        { return 2 }
func (v BondAggregatorID) EmitValue(b []byte) { nla.PutUint16(b, uint16(v)) }

func (BondActorOperPortState) Kind() uint16         { return IFLA_BOND_SLAVE_AD_ACTOR_OPER_PORT_STATE }
func (BondActorOperPortState) ValueLen() int        { return 1 }
func (v BondActorOperPortState) EmitValue(b []byte) { b[0] = uint8(v) }

func (BondPartnerOperPortState) Kind() uint16 {
	return IFLA_BOND_SLAVE_AD_PARTNER_OPER_PORT_STATE
}
func (BondPartnerOperPortState) ValueLen() int        { return 2 }
func (v BondPartnerOperPortState) EmitValue(b []byte) { nla.PutUint16(b, uint16(v)) }

func (BondPrio) Kind() uint16         { return IFLA_BOND_SLAVE_PRIO }
func (BondPrio) ValueLen() int        { return 4 }
func (v BondPrio) EmitValue(b []byte) { nla.PutInt32(b, int32(v)) }

func parseBondPort(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case IFLA_BOND_SLAVE_STATE:
		v, err := nla.Uint8(p)
		return BondPortState(v), err
	case IFLA_BOND_SLAVE_MII_STATUS:
		v, err := nla.Uint8(p)
		return MIIStatus(v), err
	case IFLA_BOND_SLAVE_LINK_FAILURE_COUNT:
		v, err := nla.Uint32(p)
		return BondLinkFailureCount(v), err
	case IFLA_BOND_SLAVE_PERM_HWADDR:
		return BondPermAddress(nla.HardwareAddr(p)), nil
	case IFLA_BOND_SLAVE_QUEUE_ID:
		v, err := nla.Uint16(p)
		return BondQueueID(v), err
	case IFLA_BOND_SLAVE_AD_AGGREGATOR_ID:
		v, err := nla.Uint16(p)
		return BondAggregatorID(v), err
	case IFLA_BOND_SLAVE_AD_ACTOR_OPER_PORT_STATE:
		v, err := nla.Uint8(p)
		return BondActorOperPortState(v), err
	case IFLA_BOND_SLAVE_AD_PARTNER_OPER_PORT_STATE:
		v, err := nla.Uint16(p)
		return BondPartnerOperPortState(v), err
	case IFLA_BOND_SLAVE_PRIO:
		v, err := nla.Int32(p)
		return BondPrio(v), err
	}
	nla.Notice("link/bond", r)
	return nla.NewUnknown(r), nil
}
