package link

import "github.com/scitags/rtnl-go/nla"

// Flags are the IFF_* device flags. The lower ten bits mean the same on every
// platform; the rest are assigned per platform.
type Flags uint32

const (
	FlagUp           Flags = 1 << 0
	FlagBroadcast    Flags = 1 << 1
	FlagDebug        Flags = 1 << 2
	FlagLoopback     Flags = 1 << 3
	FlagPointToPoint Flags = 1 << 4
	FlagNoTrailers   Flags = 1 << 5
	FlagRunning      Flags = 1 << 6
	FlagNoARP        Flags = 1 << 7
	FlagPromisc      Flags = 1 << 8
	FlagAllMulti     Flags = 1 << 9
)

func (f Flags) Known() Flags     { return nla.KnownBits(f, flagName) }
func (f Flags) Remainder() Flags { return f &^ f.Known() }
func (f Flags) String() string   { return nla.FlagString(f, flagName) }
