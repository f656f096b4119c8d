package address

import "github.com/scitags/rtnl-go/nla"

// All of these constants' names make the linter complain, but we inherited
// these names from the kernel's uapi headers, so we will keep them.
const (
	IFA_UNSPEC         = 0
	IFA_ADDRESS        = 1
	IFA_LOCAL          = 2
	IFA_LABEL          = 3
	IFA_BROADCAST      = 4
	IFA_ANYCAST        = 5
	IFA_CACHEINFO      = 6
	IFA_MULTICAST      = 7
	IFA_FLAGS          = 8
	IFA_RT_PRIORITY    = 9
	IFA_TARGET_NETNSID = 10
)

// Flags are the IFA_F_* bits carried by IFA_FLAGS.
type Flags uint32

const (
	FlagSecondary      Flags = 0x01
	FlagNoDAD          Flags = 0x02
	FlagOptimistic     Flags = 0x04
	FlagDADFailed      Flags = 0x08
	FlagHomeAddress    Flags = 0x10
	FlagDeprecated     Flags = 0x20
	FlagTentative      Flags = 0x40
	FlagPermanent      Flags = 0x80
	FlagManageTempAddr Flags = 0x100
	FlagNoPrefixRoute  Flags = 0x200
	FlagMcAutoJoin     Flags = 0x400
	FlagStablePrivacy  Flags = 0x800
)

var flagName = map[Flags]string{
	FlagSecondary:      "secondary",
	FlagNoDAD:          "nodad",
	FlagOptimistic:     "optimistic",
	FlagDADFailed:      "dadfailed",
	FlagHomeAddress:    "homeaddress",
	FlagDeprecated:     "deprecated",
	FlagTentative:      "tentative",
	FlagPermanent:      "permanent",
	FlagManageTempAddr: "mngtmpaddr",
	FlagNoPrefixRoute:  "noprefixroute",
	FlagMcAutoJoin:     "autojoin",
	FlagStablePrivacy:  "stable-privacy",
}

func (f Flags) Known() Flags     { return nla.KnownBits(f, flagName) }
func (f Flags) Remainder() Flags { return f &^ f.Known() }
func (f Flags) String() string   { return nla.FlagString(f, flagName) }

// HeaderFlags is the 8 bit ifa_flags field of the header: the low byte of
// Flags.
type HeaderFlags uint8

var headerFlagName = map[HeaderFlags]string{
	HeaderFlags(FlagSecondary):   "secondary",
	HeaderFlags(FlagNoDAD):       "nodad",
	HeaderFlags(FlagOptimistic):  "optimistic",
	HeaderFlags(FlagDADFailed):   "dadfailed",
	HeaderFlags(FlagHomeAddress): "homeaddress",
	HeaderFlags(FlagDeprecated):  "deprecated",
	HeaderFlags(FlagTentative):   "tentative",
	HeaderFlags(FlagPermanent):   "permanent",
}

func (f HeaderFlags) Known() HeaderFlags     { return nla.KnownBits(f, headerFlagName) }
func (f HeaderFlags) Remainder() HeaderFlags { return f &^ f.Known() }
func (f HeaderFlags) String() string         { return nla.FlagString(f, headerFlagName) }
