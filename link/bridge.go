package link

import (
	"net"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
)

const (
	IFLA_BR_FORWARD_DELAY              = 1
	IFLA_BR_HELLO_TIME                 = 2
	IFLA_BR_MAX_AGE                    = 3
	IFLA_BR_AGEING_TIME                = 4
	IFLA_BR_STP_STATE                  = 5
	IFLA_BR_PRIORITY                   = 6
	IFLA_BR_VLAN_FILTERING             = 7
	IFLA_BR_VLAN_PROTOCOL              = 8
	IFLA_BR_GROUP_FWD_MASK             = 9
	IFLA_BR_ROOT_ID                    = 10
	IFLA_BR_BRIDGE_ID                  = 11
	IFLA_BR_ROOT_PORT                  = 12
	IFLA_BR_ROOT_PATH_COST             = 13
	IFLA_BR_TOPOLOGY_CHANGE            = 14
	IFLA_BR_TOPOLOGY_CHANGE_DETECTED   = 15
	IFLA_BR_HELLO_TIMER                = 16
	IFLA_BR_TCN_TIMER                  = 17
	IFLA_BR_TOPOLOGY_CHANGE_TIMER      = 18
	IFLA_BR_GC_TIMER                   = 19
	IFLA_BR_GROUP_ADDR                 = 20
	IFLA_BR_FDB_FLUSH                  = 21
	IFLA_BR_MCAST_ROUTER               = 22
	IFLA_BR_MCAST_SNOOPING             = 23
	IFLA_BR_MCAST_QUERY_USE_IFADDR     = 24
	IFLA_BR_MCAST_QUERIER              = 25
	IFLA_BR_MCAST_HASH_ELASTICITY      = 26
	IFLA_BR_MCAST_HASH_MAX             = 27
	IFLA_BR_MCAST_LAST_MEMBER_CNT      = 28
	IFLA_BR_MCAST_STARTUP_QUERY_CNT    = 29
	IFLA_BR_MCAST_LAST_MEMBER_INTVL    = 30
	IFLA_BR_MCAST_MEMBERSHIP_INTVL     = 31
	IFLA_BR_MCAST_QUERIER_INTVL        = 32
	IFLA_BR_MCAST_QUERY_INTVL          = 33
	IFLA_BR_MCAST_QUERY_RESPONSE_INTVL = 34
	IFLA_BR_MCAST_STARTUP_QUERY_INTVL  = 35
	IFLA_BR_NF_CALL_IPTABLES           = 36
	IFLA_BR_NF_CALL_IP6TABLES          = 37
	IFLA_BR_NF_CALL_ARPTABLES          = 38
	IFLA_BR_VLAN_DEFAULT_PVID          = 39
	IFLA_BR_PAD                        = 40
	IFLA_BR_VLAN_STATS_ENABLED         = 41
	IFLA_BR_MCAST_STATS_ENABLED        = 42
	IFLA_BR_MCAST_IGMP_VERSION         = 43
	IFLA_BR_MCAST_MLD_VERSION          = 44
	IFLA_BR_VLAN_STATS_PER_PORT        = 45
	IFLA_BR_MULTI_BOOLOPT              = 46
	IFLA_BR_MCAST_QUERIER_STATE        = 47
)

// bridgeWidth fixes the size of every plain number the bridge reports.
var bridgeWidth = map[uint16]int{
	IFLA_BR_VLAN_FILTERING:             1,
	IFLA_BR_TOPOLOGY_CHANGE:            1,
	IFLA_BR_TOPOLOGY_CHANGE_DETECTED:   1,
	IFLA_BR_MCAST_ROUTER:               1,
	IFLA_BR_MCAST_SNOOPING:             1,
	IFLA_BR_MCAST_QUERY_USE_IFADDR:     1,
	IFLA_BR_MCAST_QUERIER:              1,
	IFLA_BR_NF_CALL_IPTABLES:           1,
	IFLA_BR_NF_CALL_IP6TABLES:          1,
	IFLA_BR_NF_CALL_ARPTABLES:          1,
	IFLA_BR_VLAN_STATS_ENABLED:         1,
	IFLA_BR_MCAST_STATS_ENABLED:        1,
	IFLA_BR_MCAST_IGMP_VERSION:         1,
	IFLA_BR_MCAST_MLD_VERSION:          1,
	IFLA_BR_VLAN_STATS_PER_PORT:        1,
	IFLA_BR_PRIORITY:                   2,
	IFLA_BR_GROUP_FWD_MASK:             2,
	IFLA_BR_ROOT_PORT:                  2,
	IFLA_BR_VLAN_DEFAULT_PVID:          2,
	IFLA_BR_FORWARD_DELAY:              4,
	IFLA_BR_HELLO_TIME:                 4,
	IFLA_BR_MAX_AGE:                    4,
	IFLA_BR_AGEING_TIME:                4,
	IFLA_BR_STP_STATE:                  4,
	IFLA_BR_ROOT_PATH_COST:             4,
	IFLA_BR_MCAST_HASH_ELASTICITY:      4,
	IFLA_BR_MCAST_HASH_MAX:             4,
	IFLA_BR_MCAST_LAST_MEMBER_CNT:      4,
	IFLA_BR_MCAST_STARTUP_QUERY_CNT:    4,
	IFLA_BR_HELLO_TIMER:                8,
	IFLA_BR_TCN_TIMER:                  8,
	IFLA_BR_TOPOLOGY_CHANGE_TIMER:      8,
	IFLA_BR_GC_TIMER:                   8,
	IFLA_BR_MCAST_LAST_MEMBER_INTVL:    8,
	IFLA_BR_MCAST_MEMBERSHIP_INTVL:     8,
	IFLA_BR_MCAST_QUERIER_INTVL:        8,
	IFLA_BR_MCAST_QUERY_INTVL:          8,
	IFLA_BR_MCAST_QUERY_RESPONSE_INTVL: 8,
	IFLA_BR_MCAST_STARTUP_QUERY_INTVL:  8,
}

// BridgeValue is a bridge knob, counter or timer. Times are in hundredths
// of a second; the width on the wire is fixed by the kind.
type BridgeValue struct {
	Type  uint16
	Value uint64
}

func (v BridgeValue) Kind() uint16 { return v.Type }

func (v BridgeValue) ValueLen() int {
	if w, ok := bridgeWidth[v.Type]; ok {
		return w
	}
	return 8
}

func (v BridgeValue) EmitValue(b []byte) {
	switch v.ValueLen() {
	case 1:
		b[0] = uint8(v.Value)
	case 2:
		nla.PutUint16(b, uint16(v.Value))
	case 4:
		nla.PutUint32(b, uint32(v.Value))
	default:
		nla.PutUint64(b, v.Value)
	}
}

// BridgeVLANProtocol is the 802.1Q or 802.1ad ethertype, big endian on the
// wire.
type BridgeVLANProtocol uint16

func (BridgeVLANProtocol) Kind() uint16         { return IFLA_BR_VLAN_PROTOCOL }
func (BridgeVLANProtocol) ValueLen() int        { return 2 }
func (p BridgeVLANProtocol) EmitValue(b []byte) { nla.PutUint16BE(b, uint16(p)) }

// BridgeGroupAddress is the STP destination MAC.
type BridgeGroupAddress net.HardwareAddr

func (BridgeGroupAddress) Kind() uint16         { return IFLA_BR_GROUP_ADDR }
func (a BridgeGroupAddress) ValueLen() int      { return len(a) }
func (a BridgeGroupAddress) EmitValue(b []byte) { copy(b, a) }

// BridgeFDBFlush asks the bridge to flush its forwarding database.
type BridgeFDBFlush struct{}

func (BridgeFDBFlush) Kind() uint16     { return IFLA_BR_FDB_FLUSH }
func (BridgeFDBFlush) ValueLen() int    { return 0 }
func (BridgeFDBFlush) EmitValue([]byte) {}

// BR_BOOLOPT_* bit numbers.
const (
	BridgeNoLinkLocalLearn  = 0
	BridgeMcastVLANSnooping = 1
	BridgeMSTEnabled        = 2
)

// BridgeBoolOptions mirrors struct br_boolopt_multi: Mask selects which
// bits of Value apply.
type BridgeBoolOptions struct {
	Value uint32
	Mask  uint32
}

func (BridgeBoolOptions) Kind() uint16  { return IFLA_BR_MULTI_BOOLOPT }
func (BridgeBoolOptions) ValueLen() int { return 8 }
func (o BridgeBoolOptions) EmitValue(b []byte) {
	nla.PutUint32(b, o.Value)
	nla.PutUint32(b[4:], o.Mask)
}

const (
	BRIDGE_QUERIER_IP_ADDRESS       = 1
	BRIDGE_QUERIER_IP_PORT          = 2
	BRIDGE_QUERIER_IP_OTHER_TIMER   = 3
	BRIDGE_QUERIER_PAD              = 4
	BRIDGE_QUERIER_IPV6_ADDRESS     = 5
	BRIDGE_QUERIER_IPV6_PORT        = 6
	BRIDGE_QUERIER_IPV6_OTHER_TIMER = 7
)

// BridgeQuerierState is IFLA_BR_MCAST_QUERIER_STATE: the multicast querier
// the bridge has elected, per address family.
type BridgeQuerierState []nla.Attribute

func (BridgeQuerierState) Kind() uint16         { return IFLA_BR_MCAST_QUERIER_STATE }
func (s BridgeQuerierState) ValueLen() int      { return nla.ListLen(s) }
func (s BridgeQuerierState) EmitValue(b []byte) { nla.EmitList(b, s) }

// QuerierAddress is the querier's IPv4 or IPv6 address.
type QuerierAddress family.Addr

func (a QuerierAddress) Kind() uint16 {
	if a.IP.Is4() {
		return BRIDGE_QUERIER_IP_ADDRESS
	}
	return BRIDGE_QUERIER_IPV6_ADDRESS
}

func (a QuerierAddress) ValueLen() int      { return family.Addr(a).Len() }
func (a QuerierAddress) EmitValue(b []byte) { family.Addr(a).Put(b) }

// QuerierValue is the port the querier was heard on or its other querier
// present timer.
type QuerierValue struct {
	Type  uint16
	Value uint64
}

func (v QuerierValue) Kind() uint16 { return v.Type }

func (v QuerierValue) ValueLen() int {
	if v.Type == BRIDGE_QUERIER_IP_PORT || v.Type == BRIDGE_QUERIER_IPV6_PORT {
		return 4
	}
	return 8
}

func (v QuerierValue) EmitValue(b []byte) {
	if v.ValueLen() == 4 {
		nla.PutUint32(b, uint32(v.Value))
		return
	}
	nla.PutUint64(b, v.Value)
}

func parseQuerierState(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case BRIDGE_QUERIER_IP_ADDRESS:
		a, err := family.ParseAddr(family.Inet, p)
		return QuerierAddress(a), err
	case BRIDGE_QUERIER_IPV6_ADDRESS:
		a, err := family.ParseAddr(family.Inet6, p)
		return QuerierAddress(a), err
	case BRIDGE_QUERIER_IP_PORT, BRIDGE_QUERIER_IPV6_PORT:
		v, err := nla.Uint32(p)
		return QuerierValue{Type: r.Kind, Value: uint64(v)}, err
	case BRIDGE_QUERIER_IP_OTHER_TIMER, BRIDGE_QUERIER_IPV6_OTHER_TIMER:
		v, err := nla.Uint64(p)
		return QuerierValue{Type: r.Kind, Value: v}, err
	}
	nla.Notice("link/bridge/querier", r)
	return nla.NewUnknown(r), nil
}

func parseBridge(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case IFLA_BR_VLAN_PROTOCOL:
		v, err := nla.Uint16BE(p)
		return BridgeVLANProtocol(v), err
	case IFLA_BR_ROOT_ID, IFLA_BR_BRIDGE_ID:
		v, err := nla.Fixed(p, 8, "ifla_bridge_id")
		if err != nil {
			return nil, err
		}
		return BridgeID{Type: r.Kind, Priority: v.Uint16BE(0), Address: nla.HardwareAddr(v.Bytes(2, 6))}, nil
	case IFLA_BR_GROUP_ADDR:
		return BridgeGroupAddress(nla.HardwareAddr(p)), nil
	case IFLA_BR_FDB_FLUSH:
		return BridgeFDBFlush{}, nil
	case IFLA_BR_MULTI_BOOLOPT:
		v, err := nla.Fixed(p, 8, "br_boolopt_multi")
		if err != nil {
			return nil, err
		}
		return BridgeBoolOptions{Value: v.Uint32(0), Mask: v.Uint32(4)}, nil
	case IFLA_BR_MCAST_QUERIER_STATE:
		l, err := nla.ParseList(p, parseQuerierState)
		return BridgeQuerierState(l), err
	case IFLA_BR_PAD:
		return nla.NewUnknown(r), nil
	}

	switch bridgeWidth[r.Kind] {
	case 1:
		v, err := nla.Uint8(p)
		return BridgeValue{Type: r.Kind, Value: uint64(v)}, err
	case 2:
		v, err := nla.Uint16(p)
		return BridgeValue{Type: r.Kind, Value: uint64(v)}, err
	case 4:
		v, err := nla.Uint32(p)
		return BridgeValue{Type: r.Kind, Value: uint64(v)}, err
	case 8:
		v, err := nla.Uint64(p)
		return BridgeValue{Type: r.Kind, Value: v}, err
	}

	nla.Notice("link/bridge", r)
	return nla.NewUnknown(r), nil
}
