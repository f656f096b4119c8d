//go:build freebsd

package family

const (
	Route   Family = 17
	Link    Family = 18
	Inet6   Family = 28
	Netlink Family = 38

	// FreeBSD has no AF_BRIDGE. The Linux value is kept so bridge attribute
	// trees stay addressable.
	Bridge Family = 7
)

var familyName = map[Family]string{
	Unspec:  "AF_UNSPEC",
	Local:   "AF_LOCAL",
	Inet:    "AF_INET",
	Bridge:  "AF_BRIDGE",
	Route:   "AF_ROUTE",
	Link:    "AF_LINK",
	Inet6:   "AF_INET6",
	Netlink: "AF_NETLINK",
}
