package link

import (
	"fmt"
	"net/netip"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
)

// ProtInfo is IFLA_PROTINFO. Its content depends on the header family:
// IFLA_INET6_* for AF_INET6 and IFLA_BRPORT_* for AF_BRIDGE.
type ProtInfo []nla.Attribute

func (ProtInfo) Kind() uint16         { return IFLA_PROTINFO }
func (l ProtInfo) ValueLen() int      { return nla.ListLen(l) }
func (l ProtInfo) EmitValue(b []byte) { nla.EmitList(b, l) }

func (ctx parseContext) parseProtInfo(r nla.Record) (nla.Attribute, error) {
	var fn nla.ParseFunc
	switch ctx.family {
	case family.Inet6:
		fn = parseInet6
	case family.Bridge:
		fn = parseBridgePort
	default:
		return nla.ParseOpaque(r), nil
	}
	l, err := nla.ParseList(r.Value, fn)
	return ProtInfo(l), err
}

// AFSpec is IFLA_AF_SPEC. On AF_UNSPEC messages it holds one nested entry
// per address family, keyed by the family number. On AF_BRIDGE messages it
// holds IFLA_BRIDGE_* attributes directly.
type AFSpec []nla.Attribute

func (AFSpec) Kind() uint16         { return IFLA_AF_SPEC }
func (l AFSpec) ValueLen() int      { return nla.ListLen(l) }
func (l AFSpec) EmitValue(b []byte) { nla.EmitList(b, l) }

func (ctx parseContext) parseAFSpec(r nla.Record) (nla.Attribute, error) {
	var fn nla.ParseFunc
	switch ctx.family {
	case family.Unspec:
		fn = parseAFEntry
	case family.Bridge:
		fn = parseBridgeAF
	default:
		return nla.ParseOpaque(r), nil
	}
	l, err := nla.ParseList(r.Value, fn)
	return AFSpec(l), err
}

type (
	// AFInet is the AF_INET entry of an AF_UNSPEC IFLA_AF_SPEC.
	AFInet []nla.Attribute
	// AFInet6 is the AF_INET6 entry of an AF_UNSPEC IFLA_AF_SPEC.
	AFInet6 []nla.Attribute
)

func (AFInet) Kind() uint16         { return uint16(family.Inet) }
func (l AFInet) ValueLen() int      { return nla.ListLen(l) }
func (l AFInet) EmitValue(b []byte) { nla.EmitList(b, l) }

func (AFInet6) Kind() uint16         { return uint16(family.Inet6) }
func (l AFInet6) ValueLen() int      { return nla.ListLen(l) }
func (l AFInet6) EmitValue(b []byte) { nla.EmitList(b, l) }

func parseAFEntry(r nla.Record) (nla.Attribute, error) {
	switch family.Family(r.Kind) {
	case family.Inet:
		l, err := nla.ParseList(r.Value, parseInet)
		return AFInet(l), err
	case family.Inet6:
		l, err := nla.ParseList(r.Value, parseInet6)
		return AFInet6(l), err
	}
	return nla.ParseOpaque(r), nil
}

const IFLA_INET_CONF = 1

// InetConf is the per device ipv4 devconf array, indexed by
// IPV4_DEVCONF_* - 1.
type InetConf []uint32

func (InetConf) Kind() uint16         { return IFLA_INET_CONF }
func (c InetConf) ValueLen() int      { return 4 * len(c) }
func (c InetConf) EmitValue(b []byte) { putUint32s(b, c) }

func parseInet(r nla.Record) (nla.Attribute, error) {
	if r.Kind == IFLA_INET_CONF {
		c, err := parseUint32s(r.Value, "ipv4_devconf")
		return InetConf(c), err
	}
	nla.Notice("link/inet", r)
	return nla.NewUnknown(r), nil
}

const (
	IFLA_INET6_FLAGS         = 1
	IFLA_INET6_CONF          = 2
	IFLA_INET6_STATS         = 3
	IFLA_INET6_MCAST         = 4
	IFLA_INET6_CACHEINFO     = 5
	IFLA_INET6_ICMP6STATS    = 6
	IFLA_INET6_TOKEN         = 7
	IFLA_INET6_ADDR_GEN_MODE = 8
	IFLA_INET6_RA_MTU        = 9
)

// Inet6Flags are the IF_RA_* and IF_READY bits of an ipv6 device.
type Inet6Flags uint32

const (
	Inet6RSSent    Inet6Flags = 0x10
	Inet6RCVD      Inet6Flags = 0x20
	Inet6Managed   Inet6Flags = 0x40
	Inet6OtherConf Inet6Flags = 0x80
	Inet6Ready     Inet6Flags = 0x80000000
)

var inet6FlagName = map[Inet6Flags]string{
	Inet6RSSent:    "rs_sent",
	Inet6RCVD:      "rcvd",
	Inet6Managed:   "managed",
	Inet6OtherConf: "otherconf",
	Inet6Ready:     "ready",
}

func (f Inet6Flags) Known() Inet6Flags     { return nla.KnownBits(f, inet6FlagName) }
func (f Inet6Flags) Remainder() Inet6Flags { return f &^ f.Known() }
func (f Inet6Flags) String() string        { return nla.FlagString(f, inet6FlagName) }

func (Inet6Flags) Kind() uint16         { return IFLA_INET6_FLAGS }
func (Inet6Flags) ValueLen() int        { return 4 }
func (f Inet6Flags) EmitValue(b []byte) { nla.PutUint32(b, uint32(f)) }

type (
	// Inet6Conf is indexed by DEVCONF_*.
	Inet6Conf []uint32
	// Inet6Stats is indexed by IPSTATS_MIB_*; the first entry is the count.
	Inet6Stats []uint64
	// Inet6ICMPStats is indexed by ICMP6_MIB_*; the first entry is the count.
	Inet6ICMPStats []uint64
)

func (Inet6Conf) Kind() uint16         { return IFLA_INET6_CONF }
func (c Inet6Conf) ValueLen() int      { return 4 * len(c) }
func (c Inet6Conf) EmitValue(b []byte) { putUint32s(b, c) }

func (Inet6Stats) Kind() uint16         { return IFLA_INET6_STATS }
func (s Inet6Stats) ValueLen() int      { return 8 * len(s) }
func (s Inet6Stats) EmitValue(b []byte) { putUint64s(b, s) }

func (Inet6ICMPStats) Kind() uint16         { return IFLA_INET6_ICMP6STATS }
func (s Inet6ICMPStats) ValueLen() int      { return 8 * len(s) }
func (s Inet6ICMPStats) EmitValue(b []byte) { putUint64s(b, s) }

// Inet6CacheInfo mirrors struct ifla_cacheinfo. Times are in milliseconds
// except Timestamp, which is in hundredths of a second.
type Inet6CacheInfo struct {
	MaxReasmLen   uint32
	Timestamp     uint32
	ReachableTime uint32
	RetransTime   uint32
}

func (Inet6CacheInfo) Kind() uint16  { return IFLA_INET6_CACHEINFO }
func (Inet6CacheInfo) ValueLen() int { return 16 }
func (c Inet6CacheInfo) EmitValue(b []byte) {
	v := nla.NewView(b, 16)
	v.SetUint32(0, c.MaxReasmLen)
	v.SetUint32(4, c.Timestamp)
	v.SetUint32(8, c.ReachableTime)
	v.SetUint32(12, c.RetransTime)
}

// Inet6Token is the interface identifier used for tokenized addresses.
type Inet6Token netip.Addr

func (Inet6Token) Kind() uint16  { return IFLA_INET6_TOKEN }
func (Inet6Token) ValueLen() int { return 16 }
func (t Inet6Token) EmitValue(b []byte) {
	a := netip.Addr(t).As16()
	copy(b, a[:])
}

// AddrGenMode is IN6_ADDR_GEN_MODE_*.
type AddrGenMode uint8

const (
	AddrGenEUI64         AddrGenMode = 0
	AddrGenNone          AddrGenMode = 1
	AddrGenStablePrivacy AddrGenMode = 2
	AddrGenRandom        AddrGenMode = 3
)

var addrGenModeName = map[AddrGenMode]string{
	AddrGenEUI64:         "eui64",
	AddrGenNone:          "none",
	AddrGenStablePrivacy: "stable_privacy",
	AddrGenRandom:        "random",
}

func (m AddrGenMode) String() string {
	if n, ok := addrGenModeName[m]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_ADDR_GEN_MODE_%d", uint8(m))
}

func (AddrGenMode) Kind() uint16         { return IFLA_INET6_ADDR_GEN_MODE }
func (AddrGenMode) ValueLen() int        { return 1 }
func (m AddrGenMode) EmitValue(b []byte) { b[0] = uint8(m) }

type RAMTU uint32

func (RAMTU) Kind() uint16         { return IFLA_INET6_RA_MTU }
func (RAMTU) ValueLen() int        { return 4 }
func (m RAMTU) EmitValue(b []byte) { nla.PutUint32(b, uint32(m)) }

func parseInet6(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case IFLA_INET6_FLAGS:
		v, err := nla.Uint32(p)
		return Inet6Flags(v), err
	case IFLA_INET6_CONF:
		c, err := parseUint32s(p, "ipv6_devconf")
		return Inet6Conf(c), err
	case IFLA_INET6_STATS:
		s, err := parseUint64s(p, "ipstats_mib")
		return Inet6Stats(s), err
	case IFLA_INET6_ICMP6STATS:
		s, err := parseUint64s(p, "icmpv6_mib")
		return Inet6ICMPStats(s), err
	case IFLA_INET6_CACHEINFO:
		v, err := nla.Fixed(p, 16, "ifla_cacheinfo")
		if err != nil {
			return nil, err
		}
		return Inet6CacheInfo{
			MaxReasmLen:   v.Uint32(0),
			Timestamp:     v.Uint32(4),
			ReachableTime: v.Uint32(8),
			RetransTime:   v.Uint32(12),
		}, nil
	case IFLA_INET6_TOKEN:
		if len(p) != 16 {
			return nil, &nla.ValueError{Field: "inet6 token", Reason: fmt.Sprintf("got %d bytes; want 16", len(p))}
		}
		return Inet6Token(netip.AddrFrom16([16]byte(p))), nil
	case IFLA_INET6_ADDR_GEN_MODE:
		v, err := nla.Uint8(p)
		return AddrGenMode(v), err
	case IFLA_INET6_RA_MTU:
		v, err := nla.Uint32(p)
		return RAMTU(v), err
	}
	nla.Notice("link/inet6", r)
	return nla.NewUnknown(r), nil
}

const (
	IFLA_BRIDGE_FLAGS            = 0
	IFLA_BRIDGE_MODE             = 1
	IFLA_BRIDGE_VLAN_INFO        = 2
	IFLA_BRIDGE_VLAN_TUNNEL_INFO = 3
)

// BridgeFlags is BRIDGE_FLAGS_*: whether a request targets the master
// device, the port itself or both.
type BridgeFlags uint16

const (
	BridgeFlagController BridgeFlags = 1
	BridgeFlagSelf       BridgeFlags = 2
)

var bridgeFlagName = map[BridgeFlags]string{
	BridgeFlagController: "controller",
	BridgeFlagSelf:       "self",
}

func (f BridgeFlags) Known() BridgeFlags     { return nla.KnownBits(f, bridgeFlagName) }
func (f BridgeFlags) Remainder() BridgeFlags { return f &^ f.Known() }
func (f BridgeFlags) String() string         { return nla.FlagString(f, bridgeFlagName) }

func (BridgeFlags) Kind() uint16         { return IFLA_BRIDGE_FLAGS }
func (BridgeFlags) ValueLen() int        { return 2 }
func (f BridgeFlags) EmitValue(b []byte) { nla.PutUint16(b, uint16(f)) }

// BridgeMode is BRIDGE_MODE_*.
type BridgeMode uint16

const (
	BridgeModeVEB  BridgeMode = 0
	BridgeModeVEPA BridgeMode = 1
)

func (m BridgeMode) String() string {
	switch m {
	case BridgeModeVEB:
		return "veb"
	case BridgeModeVEPA:
		return "vepa"
	}
	return fmt.Sprintf("UNKNOWN_BRIDGE_MODE_%d", uint16(m))
}

func (BridgeMode) Kind() uint16         { return IFLA_BRIDGE_MODE }
func (BridgeMode) ValueLen() int        { return 2 }
func (m BridgeMode) EmitValue(b []byte) { nla.PutUint16(b, uint16(m)) }

// VLANInfoFlags is BRIDGE_VLAN_INFO_*.
type VLANInfoFlags uint16

const (
	VLANInfoController VLANInfoFlags = 1 << 0
	VLANInfoPVID       VLANInfoFlags = 1 << 1
	VLANInfoUntagged   VLANInfoFlags = 1 << 2
	VLANInfoRangeBegin VLANInfoFlags = 1 << 3
	VLANInfoRangeEnd   VLANInfoFlags = 1 << 4
	VLANInfoBrEntry    VLANInfoFlags = 1 << 5
	VLANInfoOnlyOpts   VLANInfoFlags = 1 << 6
)

var vlanInfoFlagName = map[VLANInfoFlags]string{
	VLANInfoController: "controller",
	VLANInfoPVID:       "pvid",
	VLANInfoUntagged:   "untagged",
	VLANInfoRangeBegin: "range_begin",
	VLANInfoRangeEnd:   "range_end",
	VLANInfoBrEntry:    "brentry",
	VLANInfoOnlyOpts:   "only_opts",
}

func (f VLANInfoFlags) Known() VLANInfoFlags     { return nla.KnownBits(f, vlanInfoFlagName) }
func (f VLANInfoFlags) Remainder() VLANInfoFlags { return f &^ f.Known() }
func (f VLANInfoFlags) String() string           { return nla.FlagString(f, vlanInfoFlagName) }

// BridgeVLANInfo mirrors struct bridge_vlan_info.
type BridgeVLANInfo struct {
	Flags VLANInfoFlags
	VID   uint16
}

func (BridgeVLANInfo) Kind() uint16  { return IFLA_BRIDGE_VLAN_INFO }
func (BridgeVLANInfo) ValueLen() int { return 4 }
func (i BridgeVLANInfo) EmitValue(b []byte) {
	nla.PutUint16(b, uint16(i.Flags))
	nla.PutUint16(b[2:], i.VID)
}

const (
	IFLA_BRIDGE_VLAN_TUNNEL_ID    = 1
	IFLA_BRIDGE_VLAN_TUNNEL_VID   = 2
	IFLA_BRIDGE_VLAN_TUNNEL_FLAGS = 3
)

// BridgeVLANTunnel maps a vlan to a tunnel id.
type BridgeVLANTunnel []nla.Attribute

func (BridgeVLANTunnel) Kind() uint16         { return IFLA_BRIDGE_VLAN_TUNNEL_INFO }
func (l BridgeVLANTunnel) ValueLen() int      { return nla.ListLen(l) }
func (l BridgeVLANTunnel) EmitValue(b []byte) { nla.EmitList(b, l) }

type (
	TunnelID    uint32
	TunnelVID   uint16
	TunnelFlags VLANInfoFlags
)

func (TunnelID) Kind() uint16         { return IFLA_BRIDGE_VLAN_TUNNEL_ID }
func (TunnelID) ValueLen() int        { return 4 }
func (v TunnelID) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (TunnelVID) Kind() uint16         { return IFLA_BRIDGE_VLAN_TUNNEL_VID }
func (TunnelVID) ValueLen() int        { return 2 }
func (v TunnelVID) EmitValue(b []byte) { nla.PutUint16(b, uint16(v)) }

func (TunnelFlags) Kind() uint16         { return IFLA_BRIDGE_VLAN_TUNNEL_FLAGS }
func (TunnelFlags) ValueLen() int        { return 2 }
func (f TunnelFlags) EmitValue(b []byte) { nla.PutUint16(b, uint16(f)) }

func parseVLANTunnel(r nla.Record) (nla.Attribute, error) {
	switch r.Kind {
	case IFLA_BRIDGE_VLAN_TUNNEL_ID:
		v, err := nla.Uint32(r.Value)
		return TunnelID(v), err
	case IFLA_BRIDGE_VLAN_TUNNEL_VID:
		v, err := nla.Uint16(r.Value)
		return TunnelVID(v), err
	case IFLA_BRIDGE_VLAN_TUNNEL_FLAGS:
		v, err := nla.Uint16(r.Value)
		return TunnelFlags(v), err
	}
	nla.Notice("link/bridge/tunnel", r)
	return nla.NewUnknown(r), nil
}

func parseBridgeAF(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case IFLA_BRIDGE_FLAGS:
		v, err := nla.Uint16(p)
		return BridgeFlags(v), err
	case IFLA_BRIDGE_MODE:
		v, err := nla.Uint16(p)
		return BridgeMode(v), err
	case IFLA_BRIDGE_VLAN_INFO:
		v, err := nla.Fixed(p, 4, "bridge_vlan_info")
		if err != nil {
			return nil, err
		}
		return BridgeVLANInfo{Flags: VLANInfoFlags(v.Uint16(0)), VID: v.Uint16(2)}, nil
	case IFLA_BRIDGE_VLAN_TUNNEL_INFO:
		l, err := nla.ParseList(p, parseVLANTunnel)
		return BridgeVLANTunnel(l), err
	}
	nla.Notice("link/bridge", r)
	return nla.NewUnknown(r), nil
}
