//go:build !freebsd

package family

const (
	Bridge  Family = 7
	Inet6   Family = 10
	Netlink Family = 16
	Packet  Family = 17
	MPLS    Family = 28
	CAN     Family = 29
	MCTP    Family = 45
)

var familyName = map[Family]string{
	Unspec:  "AF_UNSPEC",
	Local:   "AF_LOCAL",
	Inet:    "AF_INET",
	Bridge:  "AF_BRIDGE",
	Inet6:   "AF_INET6",
	Netlink: "AF_NETLINK",
	Packet:  "AF_PACKET",
	MPLS:    "AF_MPLS",
	CAN:     "AF_CAN",
	MCTP:    "AF_MCTP",
}
