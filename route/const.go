package route

import (
	"fmt"

	"github.com/scitags/rtnl-go/nla"
)

// All of these constants' names make the linter complain, but we inherited
// these names from the kernel's uapi headers, so we will keep them.
const (
	RTA_DST           = 1
	RTA_SRC           = 2
	RTA_IIF           = 3
	RTA_OIF           = 4
	RTA_GATEWAY       = 5
	RTA_PRIORITY      = 6
	RTA_PREFSRC       = 7
	RTA_METRICS       = 8
	RTA_MULTIPATH     = 9
	RTA_FLOW          = 11
	RTA_CACHEINFO     = 12
	RTA_TABLE         = 15
	RTA_MARK          = 16
	RTA_MFC_STATS     = 17
	RTA_VIA           = 18
	RTA_NEWDST        = 19
	RTA_PREF          = 20
	RTA_ENCAP_TYPE    = 21
	RTA_ENCAP         = 22
	RTA_EXPIRES       = 23
	RTA_UID           = 25
	RTA_TTL_PROPAGATE = 26
)

// Protocol is the originator of a route (RTPROT_*).
type Protocol uint8

const (
	ProtocolUnspec     Protocol = 0
	ProtocolRedirect   Protocol = 1
	ProtocolKernel     Protocol = 2
	ProtocolBoot       Protocol = 3
	ProtocolStatic     Protocol = 4
	ProtocolGated      Protocol = 8
	ProtocolRa         Protocol = 9
	ProtocolMrt        Protocol = 10
	ProtocolZebra      Protocol = 11
	ProtocolBird       Protocol = 12
	ProtocolDnRouted   Protocol = 13
	ProtocolXorp       Protocol = 14
	ProtocolNtk        Protocol = 15
	ProtocolDhcp       Protocol = 16
	ProtocolMrouted    Protocol = 17
	ProtocolKeepalived Protocol = 18
	ProtocolBabel      Protocol = 42
	ProtocolBgp        Protocol = 186
	ProtocolIsis       Protocol = 187
	ProtocolOspf       Protocol = 188
	ProtocolRip        Protocol = 189
	ProtocolEigrp      Protocol = 192
)

var protocolName = map[Protocol]string{
	ProtocolUnspec:     "unspec",
	ProtocolRedirect:   "redirect",
	ProtocolKernel:     "kernel",
	ProtocolBoot:       "boot",
	ProtocolStatic:     "static",
	ProtocolGated:      "gated",
	ProtocolRa:         "ra",
	ProtocolMrt:        "mrt",
	ProtocolZebra:      "zebra",
	ProtocolBird:       "bird",
	ProtocolDnRouted:   "dnrouted",
	ProtocolXorp:       "xorp",
	ProtocolNtk:        "ntk",
	ProtocolDhcp:       "dhcp",
	ProtocolMrouted:    "mrouted",
	ProtocolKeepalived: "keepalived",
	ProtocolBabel:      "babel",
	ProtocolBgp:        "bgp",
	ProtocolIsis:       "isis",
	ProtocolOspf:       "ospf",
	ProtocolRip:        "rip",
	ProtocolEigrp:      "eigrp",
}

func (p Protocol) String() string {
	if n, ok := protocolName[p]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_PROTOCOL_%d", uint8(p))
}

// Scope is the distance to the destination (RT_SCOPE_*).
type Scope uint8

const (
	ScopeUniverse Scope = 0
	ScopeSite     Scope = 200
	ScopeLink     Scope = 253
	ScopeHost     Scope = 254
	ScopeNowhere  Scope = 255
)

var scopeName = map[Scope]string{
	ScopeUniverse: "universe",
	ScopeSite:     "site",
	ScopeLink:     "link",
	ScopeHost:     "host",
	ScopeNowhere:  "nowhere",
}

func (s Scope) String() string {
	if n, ok := scopeName[s]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_SCOPE_%d", uint8(s))
}

// Type is the route type (RTN_*).
type Type uint8

const (
	TypeUnspec Type = iota
	TypeUnicast
	TypeLocal
	TypeBroadcast
	TypeAnycast
	TypeMulticast
	TypeBlackHole
	TypeUnreachable
	TypeProhibit
	TypeThrow
	TypeNat
	TypeExternalResolve
)

var typeName = map[Type]string{
	TypeUnspec:          "unspec",
	TypeUnicast:         "unicast",
	TypeLocal:           "local",
	TypeBroadcast:       "broadcast",
	TypeAnycast:         "anycast",
	TypeMulticast:       "multicast",
	TypeBlackHole:       "blackhole",
	TypeUnreachable:     "unreachable",
	TypeProhibit:        "prohibit",
	TypeThrow:           "throw",
	TypeNat:             "nat",
	TypeExternalResolve: "xresolve",
}

func (t Type) String() string {
	if n, ok := typeName[t]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_TYPE_%d", uint8(t))
}

// Table is the one byte table id of the header. Ids above 255 only travel
// in RTA_TABLE.
type Table uint8

const (
	TableUnspec  Table = 0
	TableCompat  Table = 252
	TableDefault Table = 253
	TableMain    Table = 254
	TableLocal   Table = 255
)

var tableName = map[Table]string{
	TableUnspec:  "unspec",
	TableCompat:  "compat",
	TableDefault: "default",
	TableMain:    "main",
	TableLocal:   "local",
}

func (t Table) String() string {
	if n, ok := tableName[t]; ok {
		return n
	}
	return fmt.Sprintf("%d", uint8(t))
}

// Flags are the RTM_F_* header flags.
type Flags uint32

const (
	FlagNotify        Flags = 0x100
	FlagCloned        Flags = 0x200
	FlagEqualize      Flags = 0x400
	FlagPrefix        Flags = 0x800
	FlagLookupTable   Flags = 0x1000
	FlagFibMatch      Flags = 0x2000
	FlagOffload       Flags = 0x4000
	FlagTrap          Flags = 0x8000
	FlagOffloadFailed Flags = 0x20000000
)

var flagName = map[Flags]string{
	FlagNotify:        "notify",
	FlagCloned:        "cloned",
	FlagEqualize:      "equalize",
	FlagPrefix:        "prefix",
	FlagLookupTable:   "lookup_table",
	FlagFibMatch:      "fib_match",
	FlagOffload:       "offload",
	FlagTrap:          "trap",
	FlagOffloadFailed: "offload_failed",
}

func (f Flags) Known() Flags     { return nla.KnownBits(f, flagName) }
func (f Flags) Remainder() Flags { return f &^ f.Known() }
func (f Flags) String() string   { return nla.FlagString(f, flagName) }

// NextHopFlags are the RTNH_F_* flags of a multipath hop or a nexthop object.
type NextHopFlags uint32

const (
	NextHopDead       NextHopFlags = 1 << 0
	NextHopPervasive  NextHopFlags = 1 << 1
	NextHopOnLink     NextHopFlags = 1 << 2
	NextHopOffload    NextHopFlags = 1 << 3
	NextHopLinkDown   NextHopFlags = 1 << 4
	NextHopUnresolved NextHopFlags = 1 << 5
	NextHopTrap       NextHopFlags = 1 << 6
)

var nextHopFlagName = map[NextHopFlags]string{
	NextHopDead:       "dead",
	NextHopPervasive:  "pervasive",
	NextHopOnLink:     "onlink",
	NextHopOffload:    "offload",
	NextHopLinkDown:   "linkdown",
	NextHopUnresolved: "unresolved",
	NextHopTrap:       "trap",
}

func (f NextHopFlags) Known() NextHopFlags     { return nla.KnownBits(f, nextHopFlagName) }
func (f NextHopFlags) Remainder() NextHopFlags { return f &^ f.Known() }
func (f NextHopFlags) String() string          { return nla.FlagString(f, nextHopFlagName) }

// Preference is the IPv6 router preference carried in RTA_PREF.
type Preference uint8

const (
	PreferenceMedium  Preference = 0x0
	PreferenceHigh    Preference = 0x1
	PreferenceInvalid Preference = 0x2
	PreferenceLow     Preference = 0x3
)

var preferenceName = map[Preference]string{
	PreferenceMedium:  "medium",
	PreferenceHigh:    "high",
	PreferenceInvalid: "invalid",
	PreferenceLow:     "low",
}

func (p Preference) String() string {
	if n, ok := preferenceName[p]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_PREFERENCE_%d", uint8(p))
}

// TTLPropagation is the MPLS TTL propagation mode of RTA_TTL_PROPAGATE.
type TTLPropagation uint8

const (
	TTLPropagationDefault  TTLPropagation = 0
	TTLPropagationEnabled  TTLPropagation = 1
	TTLPropagationDisabled TTLPropagation = 2
)

var ttlPropagationName = map[TTLPropagation]string{
	TTLPropagationDefault:  "default",
	TTLPropagationEnabled:  "enabled",
	TTLPropagationDisabled: "disabled",
}

func (t TTLPropagation) String() string {
	if n, ok := ttlPropagationName[t]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_TTL_PROPAGATION_%d", uint8(t))
}
