package link

import "fmt"

// All of these constants' names make the linter complain, but we inherited
// these names from the kernel's uapi headers, so we will keep them.
const (
	IFLA_ADDRESS             = 1
	IFLA_BROADCAST           = 2
	IFLA_IFNAME              = 3
	IFLA_MTU                 = 4
	IFLA_LINK                = 5
	IFLA_QDISC               = 6
	IFLA_STATS               = 7
	IFLA_MASTER              = 10
	IFLA_WIRELESS            = 11
	IFLA_PROTINFO            = 12
	IFLA_TXQLEN              = 13
	IFLA_MAP                 = 14
	IFLA_OPERSTATE           = 16
	IFLA_LINKMODE            = 17
	IFLA_LINKINFO            = 18
	IFLA_NET_NS_PID          = 19
	IFLA_IFALIAS             = 20
	IFLA_NUM_VF              = 21
	IFLA_VFINFO_LIST         = 22
	IFLA_STATS64             = 23
	IFLA_VF_PORTS            = 24
	IFLA_PORT_SELF           = 25
	IFLA_AF_SPEC             = 26
	IFLA_GROUP               = 27
	IFLA_NET_NS_FD           = 28
	IFLA_EXT_MASK            = 29
	IFLA_PROMISCUITY         = 30
	IFLA_NUM_TX_QUEUES       = 31
	IFLA_NUM_RX_QUEUES       = 32
	IFLA_CARRIER             = 33
	IFLA_PHYS_PORT_ID        = 34
	IFLA_CARRIER_CHANGES     = 35
	IFLA_PHYS_SWITCH_ID      = 36
	IFLA_LINK_NETNSID        = 37
	IFLA_PHYS_PORT_NAME      = 38
	IFLA_PROTO_DOWN          = 39
	IFLA_GSO_MAX_SEGS        = 40
	IFLA_GSO_MAX_SIZE        = 41
	IFLA_PAD                 = 42
	IFLA_XDP                 = 43
	IFLA_EVENT               = 44
	IFLA_NEW_NETNSID         = 45
	IFLA_IF_NETNSID          = 46
	IFLA_CARRIER_UP_COUNT    = 47
	IFLA_CARRIER_DOWN_COUNT  = 48
	IFLA_NEW_IFINDEX         = 49
	IFLA_MIN_MTU             = 50
	IFLA_MAX_MTU             = 51
	IFLA_PROP_LIST           = 52
	IFLA_ALT_IFNAME          = 53
	IFLA_PERM_ADDRESS        = 54
	IFLA_PROTO_DOWN_REASON   = 55
	IFLA_PARENT_DEV_NAME     = 56
	IFLA_PARENT_DEV_BUS_NAME = 57
	IFLA_GRO_MAX_SIZE        = 58
	IFLA_TSO_MAX_SIZE        = 59
	IFLA_TSO_MAX_SEGS        = 60
	IFLA_ALLMULTI            = 61
)

// OperState is RFC 2863 operational status (IF_OPER_*).
type OperState uint8

const (
	OperUnknown        OperState = 0
	OperNotPresent     OperState = 1
	OperDown           OperState = 2
	OperLowerLayerDown OperState = 3
	OperTesting        OperState = 4
	OperDormant        OperState = 5
	OperUp             OperState = 6
)

var operStateName = map[OperState]string{
	OperUnknown:        "unknown",
	OperNotPresent:     "notpresent",
	OperDown:           "down",
	OperLowerLayerDown: "lowerlayerdown",
	OperTesting:        "testing",
	OperDormant:        "dormant",
	OperUp:             "up",
}

func (s OperState) String() string {
	if n, ok := operStateName[s]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_OPERSTATE_%d", uint8(s))
}

// Mode is the link mode (IF_LINK_MODE_*).
type Mode uint8

const (
	ModeDefault Mode = 0
	ModeDormant Mode = 1
	ModeTesting Mode = 2
)

var modeName = map[Mode]string{
	ModeDefault: "default",
	ModeDormant: "dormant",
	ModeTesting: "testing",
}

func (m Mode) String() string {
	if n, ok := modeName[m]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_LINKMODE_%d", uint8(m))
}

// Event is the reason for a notification (IFLA_EVENT_*).
type Event uint32

const (
	EventNone            Event = 0
	EventReboot          Event = 1
	EventFeatures        Event = 2
	EventBondingFailover Event = 3
	EventNotifyPeers     Event = 4
	EventIGMPResend      Event = 5
	EventBondingOptions  Event = 6
)

var eventName = map[Event]string{
	EventNone:            "none",
	EventReboot:          "reboot",
	EventFeatures:        "features",
	EventBondingFailover: "bonding_failover",
	EventNotifyPeers:     "notify_peers",
	EventIGMPResend:      "igmp_resend",
	EventBondingOptions:  "bonding_options",
}

func (e Event) String() string {
	if n, ok := eventName[e]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_EVENT_%d", uint32(e))
}

// LayerType is the ARPHRD_* hardware type of the header.
type LayerType uint16

const (
	LayerNetrom     LayerType = 0
	LayerEther      LayerType = 1
	LayerEEther     LayerType = 2
	LayerAX25       LayerType = 3
	LayerIEEE802    LayerType = 6
	LayerATM        LayerType = 19
	LayerIEEE1394   LayerType = 24
	LayerEUI64      LayerType = 27
	LayerInfiniband LayerType = 32
	LayerSLIP       LayerType = 256
	LayerCAN        LayerType = 280
	LayerMCTP       LayerType = 290
	LayerPPP        LayerType = 512
	LayerHDLC       LayerType = 513
	LayerRawIP      LayerType = 519
	LayerTunnel     LayerType = 768
	LayerTunnel6    LayerType = 769
	LayerLoopback   LayerType = 772
	LayerFDDI       LayerType = 774
	LayerSIT        LayerType = 776
	LayerIPGRE      LayerType = 778
	LayerIEEE80211  LayerType = 801
	LayerRadiotap   LayerType = 803
	LayerIEEE802154 LayerType = 804
	LayerIP6GRE     LayerType = 823
	LayerNetlink    LayerType = 824
	Layer6LoWPAN    LayerType = 825
	LayerVsockMon   LayerType = 826
	LayerNone       LayerType = 0xfffe
	LayerVoid       LayerType = 0xffff
)

var layerTypeName = map[LayerType]string{
	LayerNetrom:     "netrom",
	LayerEther:      "ether",
	LayerEEther:     "eether",
	LayerAX25:       "ax25",
	LayerIEEE802:    "ieee802",
	LayerATM:        "atm",
	LayerIEEE1394:   "ieee1394",
	LayerEUI64:      "eui64",
	LayerInfiniband: "infiniband",
	LayerSLIP:       "slip",
	LayerCAN:        "can",
	LayerMCTP:       "mctp",
	LayerPPP:        "ppp",
	LayerHDLC:       "hdlc",
	LayerRawIP:      "rawip",
	LayerTunnel:     "ipip",
	LayerTunnel6:    "tunnel6",
	LayerLoopback:   "loopback",
	LayerFDDI:       "fddi",
	LayerSIT:        "sit",
	LayerIPGRE:      "gre",
	LayerIEEE80211:  "ieee802.11",
	LayerRadiotap:   "ieee802.11/radiotap",
	LayerIEEE802154: "ieee802.15.4",
	LayerIP6GRE:     "gre6",
	LayerNetlink:    "netlink",
	Layer6LoWPAN:    "6lowpan",
	LayerVsockMon:   "vsockmon",
	LayerNone:       "none",
	LayerVoid:       "void",
}

func (t LayerType) String() string {
	if n, ok := layerTypeName[t]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_LINKTYPE_%d", uint16(t))
}
