//go:build freebsd

package link

// FreeBSD reuses bits 10 and up for flags of its own; IFF_LOWER_UP is the
// first of the netlink specific bits.
const (
	FlagOActive    Flags = 1 << 10
	FlagSimplex    Flags = 1 << 11
	FlagLink0      Flags = 1 << 12
	FlagLink1      Flags = 1 << 13
	FlagLink2      Flags = 1 << 14
	FlagMulticast  Flags = 1 << 15
	FlagCantConfig Flags = 1 << 16
	FlagPPromisc   Flags = 1 << 17
	FlagMonitor    Flags = 1 << 18
	FlagStaticARP  Flags = 1 << 19
	FlagStickyARP  Flags = 1 << 20
	FlagDying      Flags = 1 << 21
	FlagRenaming   Flags = 1 << 22
	FlagPAllMulti  Flags = 1 << 23
	FlagLowerUp    Flags = 1 << 24
)

var flagName = map[Flags]string{
	FlagUp:           "up",
	FlagBroadcast:    "broadcast",
	FlagDebug:        "debug",
	FlagLoopback:     "loopback",
	FlagPointToPoint: "pointopoint",
	FlagNoTrailers:   "knowsepoch",
	FlagRunning:      "running",
	FlagNoARP:        "noarp",
	FlagPromisc:      "promisc",
	FlagAllMulti:     "allmulti",
	FlagOActive:      "oactive",
	FlagSimplex:      "simplex",
	FlagLink0:        "link0",
	FlagLink1:        "link1",
	FlagLink2:        "link2",
	FlagMulticast:    "multicast",
	FlagCantConfig:   "cantconfig",
	FlagPPromisc:     "ppromisc",
	FlagMonitor:      "monitor",
	FlagStaticARP:    "staticarp",
	FlagStickyARP:    "stickyarp",
	FlagDying:        "dying",
	FlagRenaming:     "renaming",
	FlagPAllMulti:    "pallmulti",
	FlagLowerUp:      "lower_up",
}
