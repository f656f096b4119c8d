//go:build !freebsd

package link

const (
	FlagController Flags = 1 << 10
	FlagPort       Flags = 1 << 11
	FlagMulticast  Flags = 1 << 12
	FlagPortSel    Flags = 1 << 13
	FlagAutoMedia  Flags = 1 << 14
	FlagDynamic    Flags = 1 << 15
	FlagLowerUp    Flags = 1 << 16
	FlagDormant    Flags = 1 << 17
	FlagEcho       Flags = 1 << 18
)

var flagName = map[Flags]string{
	FlagUp:           "up",
	FlagBroadcast:    "broadcast",
	FlagDebug:        "debug",
	FlagLoopback:     "loopback",
	FlagPointToPoint: "pointopoint",
	FlagNoTrailers:   "notrailers",
	FlagRunning:      "running",
	FlagNoARP:        "noarp",
	FlagPromisc:      "promisc",
	FlagAllMulti:     "allmulti",
	FlagController:   "master",
	FlagPort:         "slave",
	FlagMulticast:    "multicast",
	FlagPortSel:      "portsel",
	FlagAutoMedia:    "automedia",
	FlagDynamic:      "dynamic",
	FlagLowerUp:      "lower_up",
	FlagDormant:      "dormant",
	FlagEcho:         "echo",
}
