package rule

import (
	"fmt"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
	"github.com/scitags/rtnl-go/route"
)

type (
	Destination family.Addr
	Source      family.Addr
)

func (Destination) Kind() uint16         { return FRA_DST }
func (a Destination) ValueLen() int      { return family.Addr(a).Len() }
func (a Destination) EmitValue(b []byte) { family.Addr(a).Put(b) }

func (Source) Kind() uint16         { return FRA_SRC }
func (a Source) ValueLen() int      { return family.Addr(a).Len() }
func (a Source) EmitValue(b []byte) { family.Addr(a).Put(b) }

type (
	InputInterface  string
	OutputInterface string
)

func (InputInterface) Kind() uint16         { return FRA_IIFNAME }
func (s InputInterface) ValueLen() int      { return len(s) + 1 }
func (s InputInterface) EmitValue(b []byte) { nla.PutString(b, string(s)) }

func (OutputInterface) Kind() uint16         { return FRA_OIFNAME }
func (s OutputInterface) ValueLen() int      { return len(s) + 1 }
func (s OutputInterface) EmitValue(b []byte) { nla.PutString(b, string(s)) }

type (
	Goto              uint32
	Priority          uint32
	FwMark            uint32
	FwMask            uint32
	SuppressIfGroup   uint32
	SuppressPrefixLen uint32
	Table             uint32
)

func (Goto) Kind() uint16         { return FRA_GOTO }
func (Goto) ValueLen() int        { return 4 }
func (v Goto) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (Priority) Kind() uint16         { return FRA_PRIORITY }
func (Priority) ValueLen() int        { return 4 }
func (v Priority) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (FwMark) Kind() uint16         { return FRA_FWMARK }
func (FwMark) ValueLen() int        { return 4 }
func (v FwMark) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (FwMask) Kind() uint16         { return FRA_FWMASK }
func (FwMask) ValueLen() int        { return 4 }
func (v FwMask) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (SuppressIfGroup) Kind() uint16         { return FRA_SUPPRESS_IFGROUP }
func (SuppressIfGroup) ValueLen() int        { return 4 }
func (v SuppressIfGroup) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (SuppressPrefixLen) Kind() uint16         { return FRA_SUPPRESS_PREFIXLEN }
func (SuppressPrefixLen) ValueLen() int        { return 4 }
func (v SuppressPrefixLen) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (Table) Kind() uint16         { return FRA_TABLE }
func (Table) ValueLen() int        { return 4 }
func (v Table) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

// TunnelID is FRA_TUN_ID, a big endian 64 bit key.
type TunnelID uint64

func (TunnelID) Kind() uint16         { return FRA_TUN_ID }
func (TunnelID) ValueLen() int        { return 8 }
func (v TunnelID) EmitValue(b []byte) { nla.PutUint64BE(b, uint64(v)) }

// Realm shares its layout and kind number with RTA_FLOW.
type Realm = route.Realm

// L3MDev tells the kernel to look up the table of the L3 master device.
type L3MDev bool

func (L3MDev) Kind() uint16         { return FRA_L3MDEV }
func (L3MDev) ValueLen() int        { return 1 }
func (v L3MDev) EmitValue(b []byte) { nla.PutBool(b, bool(v)) }

// Protocol is the originator of the rule, sharing route's RTPROT_* catalog.
type Protocol route.Protocol

func (p Protocol) String() string { return route.Protocol(p).String() }

func (Protocol) Kind() uint16         { return FRA_PROTOCOL }
func (Protocol) ValueLen() int        { return 1 }
func (p Protocol) EmitValue(b []byte) { b[0] = uint8(p) }

func (IPProto) Kind() uint16         { return FRA_IP_PROTO }
func (IPProto) ValueLen() int        { return 1 }
func (p IPProto) EmitValue(b []byte) { b[0] = uint8(p) }

// DSCP is the six bit DSCP value matched by FRA_DSCP.
type DSCP uint8

func (DSCP) Kind() uint16         { return FRA_DSCP }
func (DSCP) ValueLen() int        { return 1 }
func (v DSCP) EmitValue(b []byte) { b[0] = uint8(v) }

// UIDRange mirrors struct fib_rule_uid_range.
type UIDRange struct {
	Start uint32
	End   uint32
}

func (UIDRange) Kind() uint16  { return FRA_UID_RANGE }
func (UIDRange) ValueLen() int { return 8 }
func (r UIDRange) EmitValue(b []byte) {
	nla.PutUint32(b, r.Start)
	nla.PutUint32(b[4:], r.End)
}

// PortRange mirrors struct fib_rule_port_range. Ports are host order.
type PortRange struct {
	Start uint16
	End   uint16
}

func (r PortRange) emit(b []byte) {
	nla.PutUint16(b, r.Start)
	nla.PutUint16(b[2:], r.End)
}

func (r PortRange) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

type (
	SourcePortRange      PortRange
	DestinationPortRange PortRange
)

func (SourcePortRange) Kind() uint16         { return FRA_SPORT_RANGE }
func (SourcePortRange) ValueLen() int        { return 4 }
func (r SourcePortRange) EmitValue(b []byte) { PortRange(r).emit(b) }

func (DestinationPortRange) Kind() uint16         { return FRA_DPORT_RANGE }
func (DestinationPortRange) ValueLen() int        { return 4 }
func (r DestinationPortRange) EmitValue(b []byte) { PortRange(r).emit(b) }

func parsePortRange(b []byte) (PortRange, error) {
	v, err := nla.Fixed(b, 4, "fib_rule_port_range")
	if err != nil {
		return PortRange{}, err
	}
	return PortRange{Start: v.Uint16(0), End: v.Uint16(2)}, nil
}

func parseAttribute(r nla.Record, f family.Family) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case FRA_DST, FRA_SRC:
		a, err := family.ParseAddr(f, p)
		if err != nil {
			return nil, err
		}
		if r.Kind == FRA_DST {
			return Destination(a), nil
		}
		return Source(a), nil
	case FRA_IIFNAME, FRA_OIFNAME:
		s, err := nla.String(p)
		if err != nil {
			return nil, err
		}
		if r.Kind == FRA_IIFNAME {
			return InputInterface(s), nil
		}
		return OutputInterface(s), nil
	case FRA_GOTO, FRA_PRIORITY, FRA_FWMARK, FRA_FWMASK, FRA_SUPPRESS_IFGROUP, FRA_SUPPRESS_PREFIXLEN, FRA_TABLE:
		v, err := nla.Uint32(p)
		if err != nil {
			return nil, err
		}
		switch r.Kind {
		case FRA_GOTO:
			return Goto(v), nil
		case FRA_PRIORITY:
			return Priority(v), nil
		case FRA_FWMARK:
			return FwMark(v), nil
		case FRA_FWMASK:
			return FwMask(v), nil
		case FRA_SUPPRESS_IFGROUP:
			return SuppressIfGroup(v), nil
		case FRA_SUPPRESS_PREFIXLEN:
			return SuppressPrefixLen(v), nil
		}
		return Table(v), nil
	case FRA_FLOW:
		v, err := nla.Uint32(p)
		return Realm{Source: uint16(v >> 16), Destination: uint16(v)}, err
	case FRA_TUN_ID:
		v, err := nla.Uint64BE(p)
		return TunnelID(v), err
	case FRA_L3MDEV:
		v, err := nla.Bool(p)
		return L3MDev(v), err
	case FRA_PROTOCOL:
		v, err := nla.Uint8(p)
		return Protocol(v), err
	case FRA_IP_PROTO:
		v, err := nla.Uint8(p)
		return IPProto(v), err
	case FRA_DSCP:
		v, err := nla.Uint8(p)
		return DSCP(v), err
	case FRA_UID_RANGE:
		v, err := nla.Fixed(p, 8, "fib_rule_uid_range")
		if err != nil {
			return nil, err
		}
		return UIDRange{Start: v.Uint32(0), End: v.Uint32(4)}, nil
	case FRA_SPORT_RANGE, FRA_DPORT_RANGE:
		pr, err := parsePortRange(p)
		if err != nil {
			return nil, err
		}
		if r.Kind == FRA_SPORT_RANGE {
			return SourcePortRange(pr), nil
		}
		return DestinationPortRange(pr), nil
	}

	nla.Notice("rule", r)
	return nla.NewUnknown(r), nil
}
