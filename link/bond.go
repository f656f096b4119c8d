package link

import (
	"fmt"
	"net"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
)

const (
	IFLA_BOND_MODE              = 1
	IFLA_BOND_ACTIVE_SLAVE      = 2
	IFLA_BOND_MIIMON            = 3
	IFLA_BOND_UPDELAY           = 4
	IFLA_BOND_DOWNDELAY         = 5
	IFLA_BOND_USE_CARRIER       = 6
	IFLA_BOND_ARP_INTERVAL      = 7
	IFLA_BOND_ARP_IP_TARGET     = 8
	IFLA_BOND_ARP_VALIDATE      = 9
	IFLA_BOND_ARP_ALL_TARGETS   = 10
	IFLA_BOND_PRIMARY           = 11
	IFLA_BOND_PRIMARY_RESELECT  = 12
	IFLA_BOND_FAIL_OVER_MAC     = 13
	IFLA_BOND_XMIT_HASH_POLICY  = 14
	IFLA_BOND_RESEND_IGMP       = 15
	IFLA_BOND_NUM_PEER_NOTIF    = 16
	IFLA_BOND_ALL_SLAVES_ACTIVE = 17
	IFLA_BOND_MIN_LINKS         = 18
	IFLA_BOND_LP_INTERVAL       = 19
	IFLA_BOND_PACKETS_PER_SLAVE = 20
	IFLA_BOND_AD_LACP_RATE      = 21
	IFLA_BOND_AD_SELECT         = 22
	IFLA_BOND_AD_INFO           = 23
	IFLA_BOND_AD_ACTOR_SYS_PRIO = 24
	IFLA_BOND_AD_USER_PORT_KEY  = 25
	IFLA_BOND_AD_ACTOR_SYSTEM   = 26
	IFLA_BOND_TLB_DYNAMIC_LB    = 27
	IFLA_BOND_PEER_NOTIF_DELAY  = 28
	IFLA_BOND_AD_LACP_ACTIVE    = 29
	IFLA_BOND_MISSED_MAX        = 30
	IFLA_BOND_NS_IP6_TARGET     = 31
	IFLA_BOND_COUPLED_CONTROL   = 32
)

// BondMode is BOND_MODE_*.
type BondMode uint8

const (
	BondBalanceRR    BondMode = 0
	BondActiveBackup BondMode = 1
	BondBalanceXOR   BondMode = 2
	BondBroadcast    BondMode = 3
	Bond8023AD       BondMode = 4
	BondBalanceTLB   BondMode = 5
	BondBalanceALB   BondMode = 6
)

// Names as the kernel prints them in /proc/net/bonding.
var bondModeName = map[BondMode]string{
	BondBalanceRR:    "balance-rr",
	BondActiveBackup: "active-backup",
	BondBalanceXOR:   "balance-xor",
	BondBroadcast:    "broadcast",
	Bond8023AD:       "802.3ad",
	BondBalanceTLB:   "balance-tlb",
	BondBalanceALB:   "balance-alb",
}

func (m BondMode) String() string {
	if n, ok := bondModeName[m]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_BOND_MODE_%d", uint8(m))
}

func (BondMode) Kind() uint16         { return IFLA_BOND_MODE }
func (BondMode) ValueLen() int        { return 1 }
func (m BondMode) EmitValue(b []byte) { b[0] = uint8(m) }

var bondWidth = map[uint16]int{
	IFLA_BOND_USE_CARRIER:       1,
	IFLA_BOND_PRIMARY_RESELECT:  1,
	IFLA_BOND_FAIL_OVER_MAC:     1,
	IFLA_BOND_XMIT_HASH_POLICY:  1,
	IFLA_BOND_NUM_PEER_NOTIF:    1,
	IFLA_BOND_ALL_SLAVES_ACTIVE: 1,
	IFLA_BOND_AD_LACP_RATE:      1,
	IFLA_BOND_AD_SELECT:         1,
	IFLA_BOND_TLB_DYNAMIC_LB:    1,
	IFLA_BOND_AD_LACP_ACTIVE:    1,
	IFLA_BOND_MISSED_MAX:        1,
	IFLA_BOND_COUPLED_CONTROL:   1,
	IFLA_BOND_AD_ACTOR_SYS_PRIO: 2,
	IFLA_BOND_AD_USER_PORT_KEY:  2,
	IFLA_BOND_ACTIVE_SLAVE:      4,
	IFLA_BOND_MIIMON:            4,
	IFLA_BOND_UPDELAY:           4,
	IFLA_BOND_DOWNDELAY:         4,
	IFLA_BOND_ARP_INTERVAL:      4,
	IFLA_BOND_ARP_VALIDATE:      4,
	IFLA_BOND_ARP_ALL_TARGETS:   4,
	IFLA_BOND_PRIMARY:           4,
	IFLA_BOND_RESEND_IGMP:       4,
	IFLA_BOND_MIN_LINKS:         4,
	IFLA_BOND_LP_INTERVAL:       4,
	IFLA_BOND_PACKETS_PER_SLAVE: 4,
	IFLA_BOND_PEER_NOTIF_DELAY:  4,
}

// BondValue is a bond knob. Interface references such as
// IFLA_BOND_ACTIVE_SLAVE are indexes; delays are in milliseconds.
type BondValue struct {
	Type  uint16
	Value uint32
}

func (v BondValue) Kind() uint16 { return v.Type }

func (v BondValue) ValueLen() int {
	if w, ok := bondWidth[v.Type]; ok {
		return w
	}
	return 4
}

func (v BondValue) EmitValue(b []byte) {
	switch v.ValueLen() {
	case 1:
		b[0] = uint8(v.Value)
	case 2:
		nla.PutUint16(b, uint16(v.Value))
	default:
		nla.PutUint32(b, v.Value)
	}
}

// BondTargets is IFLA_BOND_ARP_IP_TARGET or IFLA_BOND_NS_IP6_TARGET: the
// addresses probed for link monitoring.
type BondTargets struct {
	Type    uint16
	Targets []BondTarget
}

func (t BondTargets) Kind() uint16       { return t.Type }
func (t BondTargets) ValueLen() int      { return nla.ListLen(t.Targets) }
func (t BondTargets) EmitValue(b []byte) { nla.EmitList(b, t.Targets) }

// BondTarget is one monitored address; its kind is the kernel's slot
// number.
type BondTarget struct {
	Index   uint16
	Address family.Addr
}

func (t BondTarget) Kind() uint16       { return t.Index }
func (t BondTarget) ValueLen() int      { return t.Address.Len() }
func (t BondTarget) EmitValue(b []byte) { t.Address.Put(b) }

func parseBondTargets(kind uint16, b []byte) (BondTargets, error) {
	f := family.Inet
	if kind == IFLA_BOND_NS_IP6_TARGET {
		f = family.Inet6
	}
	recs, err := nla.Records(b)
	if err != nil {
		return BondTargets{}, err
	}
	t := BondTargets{Type: kind, Targets: make([]BondTarget, 0, len(recs))}
	for _, r := range recs {
		a, err := family.ParseAddr(f, r.Value)
		if err != nil {
			return BondTargets{}, fmt.Errorf("bond target %d: %w", r.Kind, err)
		}
		t.Targets = append(t.Targets, BondTarget{Index: r.Kind, Address: a})
	}
	return t, nil
}

// BondActorSystem is the LACP system MAC.
type BondActorSystem net.HardwareAddr

func (BondActorSystem) Kind() uint16         { return IFLA_BOND_AD_ACTOR_SYSTEM }
func (a BondActorSystem) ValueLen() int      { return len(a) }
func (a BondActorSystem) EmitValue(b []byte) { copy(b, a) }

const (
	IFLA_BOND_AD_INFO_AGGREGATOR  = 1
	IFLA_BOND_AD_INFO_NUM_PORTS   = 2
	IFLA_BOND_AD_INFO_ACTOR_KEY   = 3
	IFLA_BOND_AD_INFO_PARTNER_KEY = 4
	IFLA_BOND_AD_INFO_PARTNER_MAC = 5
)

// BondADInfo is the 802.3ad state of the active aggregator.
type BondADInfo []nla.Attribute

func (BondADInfo) Kind() uint16         { return IFLA_BOND_AD_INFO }
func (l BondADInfo) ValueLen() int      { return nla.ListLen(l) }
func (l BondADInfo) EmitValue(b []byte) { nla.EmitList(b, l) }

// BondADValue is one of the u16 IFLA_BOND_AD_INFO_* numbers.
type BondADValue struct {
	Type  uint16
	Value uint16
}

func (v BondADValue) Kind() uint16       { return v.Type }
func (BondADValue) ValueLen() int        { return 2 }
func (v BondADValue) EmitValue(b []byte) { nla.PutUint16(b, v.Value) }

type BondADPartner net.HardwareAddr

func (BondADPartner) Kind() uint16         { return IFLA_BOND_AD_INFO_PARTNER_MAC }
func (a BondADPartner) ValueLen() int      { return len(a) }
func (a BondADPartner) EmitValue(b []byte) { copy(b, a) }

func parseBondADInfo(r nla.Record) (nla.Attribute, error) {
	switch r.Kind {
	case IFLA_BOND_AD_INFO_AGGREGATOR, IFLA_BOND_AD_INFO_NUM_PORTS,
		IFLA_BOND_AD_INFO_ACTOR_KEY, IFLA_BOND_AD_INFO_PARTNER_KEY:
		v, err := nla.Uint16(r.Value)
		return BondADValue{Type: r.Kind, Value: v}, err
	case IFLA_BOND_AD_INFO_PARTNER_MAC:
		return BondADPartner(nla.HardwareAddr(r.Value)), nil
	}
	nla.Notice("link/bond/ad", r)
	return nla.NewUnknown(r), nil
}

func parseBond(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case IFLA_BOND_MODE:
		v, err := nla.Uint8(p)
		return BondMode(v), err
	case IFLA_BOND_ARP_IP_TARGET, IFLA_BOND_NS_IP6_TARGET:
		return parseBondTargets(r.Kind, p)
	case IFLA_BOND_AD_ACTOR_SYSTEM:
		return BondActorSystem(nla.HardwareAddr(p)), nil
	case IFLA_BOND_AD_INFO:
		l, err := nla.ParseList(p, parseBondADInfo)
		return BondADInfo(l), err
	}

	switch bondWidth[r.Kind] {
	case 1:
		v, err := nla.Uint8(p)
		return BondValue{Type: r.Kind, Value: uint32(v)}, err
	case 2:
		v, err := nla.Uint16(p)
		return BondValue{Type: r.Kind, Value: uint32(v)}, err
	case 4:
		v, err := nla.Uint32(p)
		return BondValue{Type: r.Kind, Value: v}, err
	}

	nla.Notice("link/bond", r)
	return nla.NewUnknown(r), nil
}
