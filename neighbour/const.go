package neighbour

import "github.com/scitags/rtnl-go/nla"

// All of these constants' names make the linter complain, but we inherited
// these names from the kernel's uapi headers, so we will keep them.
const (
	NDA_UNSPEC         = 0
	NDA_DST            = 1
	NDA_LLADDR         = 2
	NDA_CACHEINFO      = 3
	NDA_PROBES         = 4
	NDA_VLAN           = 5
	NDA_PORT           = 6
	NDA_VNI            = 7
	NDA_IFINDEX        = 8
	NDA_MASTER         = 9
	NDA_LINK_NETNSID   = 10
	NDA_SRC_VNI        = 11
	NDA_PROTOCOL       = 12
	NDA_NH_ID          = 13
	NDA_FDB_EXT_ATTRS  = 14
	NDA_FLAGS_EXT      = 15
	NDA_NDM_STATE_MASK = 16
	NDA_NDM_FLAGS_MASK = 17
)

// State is the NUD_* state. Dumps carry a single bit, requests may carry
// several.
type State uint16

const (
	StateNone       State = 0x00
	StateIncomplete State = 0x01
	StateReachable  State = 0x02
	StateStale      State = 0x04
	StateDelay      State = 0x08
	StateProbe      State = 0x10
	StateFailed     State = 0x20
	StateNoARP      State = 0x40
	StatePermanent  State = 0x80
)

var stateName = map[State]string{
	StateNone:       "none",
	StateIncomplete: "incomplete",
	StateReachable:  "reachable",
	StateStale:      "stale",
	StateDelay:      "delay",
	StateProbe:      "probe",
	StateFailed:     "failed",
	StateNoARP:      "noarp",
	StatePermanent:  "permanent",
}

func (s State) Known() State     { return nla.KnownBits(s, stateName) }
func (s State) Remainder() State { return s &^ s.Known() }
func (s State) String() string   { return nla.FlagString(s, stateName) }

// Flags are the NTF_* bits of the header.
type Flags uint8

const (
	FlagUse        Flags = 1 << 0
	FlagSelf       Flags = 1 << 1
	FlagController Flags = 1 << 2
	FlagProxy      Flags = 1 << 3
	FlagExtLearned Flags = 1 << 4
	FlagOffloaded  Flags = 1 << 5
	FlagSticky     Flags = 1 << 6
	FlagRouter     Flags = 1 << 7
)

var flagName = map[Flags]string{
	FlagUse:        "use",
	FlagSelf:       "self",
	FlagController: "master",
	FlagProxy:      "proxy",
	FlagExtLearned: "extern_learn",
	FlagOffloaded:  "offload",
	FlagSticky:     "sticky",
	FlagRouter:     "router",
}

func (f Flags) Known() Flags     { return nla.KnownBits(f, flagName) }
func (f Flags) Remainder() Flags { return f &^ f.Known() }
func (f Flags) String() string   { return nla.FlagString(f, flagName) }

// ExtFlags are the NTF_EXT_* bits of NDA_FLAGS_EXT.
type ExtFlags uint32

const (
	ExtManaged ExtFlags = 1 << 0
	ExtLocked  ExtFlags = 1 << 1
)

var extFlagName = map[ExtFlags]string{
	ExtManaged: "managed",
	ExtLocked:  "locked",
}

func (f ExtFlags) Known() ExtFlags     { return nla.KnownBits(f, extFlagName) }
func (f ExtFlags) Remainder() ExtFlags { return f &^ f.Known() }
func (f ExtFlags) String() string      { return nla.FlagString(f, extFlagName) }
