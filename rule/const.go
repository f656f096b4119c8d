package rule

import (
	"fmt"

	"github.com/scitags/rtnl-go/nla"
)

// All of these constants' names make the linter complain, but we inherited
// these names from the kernel's uapi headers, so we will keep them.
const (
	FRA_DST                = 1
	FRA_SRC                = 2
	FRA_IIFNAME            = 3
	FRA_GOTO               = 4
	FRA_PRIORITY           = 6
	FRA_FWMARK             = 10
	FRA_FLOW               = 11
	FRA_TUN_ID             = 12
	FRA_SUPPRESS_IFGROUP   = 13
	FRA_SUPPRESS_PREFIXLEN = 14
	FRA_TABLE              = 15
	FRA_FWMASK             = 16
	FRA_OIFNAME            = 17
	FRA_PAD                = 18
	FRA_L3MDEV             = 19
	FRA_UID_RANGE          = 20
	FRA_PROTOCOL           = 21
	FRA_IP_PROTO           = 22
	FRA_SPORT_RANGE        = 23
	FRA_DPORT_RANGE        = 24
	FRA_DSCP               = 25
)

// Action is what happens to a packet matching the rule (FR_ACT_*).
type Action uint8

const (
	ActionUnspec      Action = 0
	ActionToTable     Action = 1
	ActionGoto        Action = 2
	ActionNop         Action = 3
	ActionBlackhole   Action = 6
	ActionUnreachable Action = 7
	ActionProhibit    Action = 8
)

var actionName = map[Action]string{
	ActionUnspec:      "unspec",
	ActionToTable:     "to_tbl",
	ActionGoto:        "goto",
	ActionNop:         "nop",
	ActionBlackhole:   "blackhole",
	ActionUnreachable: "unreachable",
	ActionProhibit:    "prohibit",
}

func (a Action) String() string {
	if n, ok := actionName[a]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_ACTION_%d", uint8(a))
}

// Flags are the FIB_RULE_* header flags.
type Flags uint32

const (
	FlagPermanent   Flags = 0x1
	FlagInvert      Flags = 0x2
	FlagUnresolved  Flags = 0x4
	FlagIifDetached Flags = 0x8
	FlagOifDetached Flags = 0x10
	FlagFindSaddr   Flags = 0x10000
)

// FlagDevDetached is the historical name of FlagIifDetached.
const FlagDevDetached = FlagIifDetached

var flagName = map[Flags]string{
	FlagPermanent:   "permanent",
	FlagInvert:      "invert",
	FlagUnresolved:  "unresolved",
	FlagIifDetached: "iif_detached",
	FlagOifDetached: "oif_detached",
	FlagFindSaddr:   "find_saddr",
}

func (f Flags) Known() Flags     { return nla.KnownBits(f, flagName) }
func (f Flags) Remainder() Flags { return f &^ f.Known() }
func (f Flags) String() string   { return nla.FlagString(f, flagName) }

// IPProto is an IANA protocol number as matched by FRA_IP_PROTO.
type IPProto uint8

const (
	IPProtoIP     IPProto = 0
	IPProtoICMP   IPProto = 1
	IPProtoIGMP   IPProto = 2
	IPProtoIPIP   IPProto = 4
	IPProtoTCP    IPProto = 6
	IPProtoUDP    IPProto = 17
	IPProtoIPv6   IPProto = 41
	IPProtoGRE    IPProto = 47
	IPProtoESP    IPProto = 50
	IPProtoAH     IPProto = 51
	IPProtoICMPv6 IPProto = 58
	IPProtoSCTP   IPProto = 132
	IPProtoMPLS   IPProto = 137
	IPProtoRaw    IPProto = 255
)

var ipProtoName = map[IPProto]string{
	IPProtoIP:     "ip",
	IPProtoICMP:   "icmp",
	IPProtoIGMP:   "igmp",
	IPProtoIPIP:   "ipip",
	IPProtoTCP:    "tcp",
	IPProtoUDP:    "udp",
	IPProtoIPv6:   "ipv6",
	IPProtoGRE:    "gre",
	IPProtoESP:    "esp",
	IPProtoAH:     "ah",
	IPProtoICMPv6: "ipv6-icmp",
	IPProtoSCTP:   "sctp",
	IPProtoMPLS:   "mpls",
	IPProtoRaw:    "raw",
}

func (p IPProto) String() string {
	if n, ok := ipProtoName[p]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_IPPROTO_%d", uint8(p))
}
