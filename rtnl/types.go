package rtnl

import (
	"fmt"

	"github.com/mdlayher/netlink"
)

// MessageType is the nlmsg_type of an rtnetlink message.
type MessageType uint16

// All of these constants' names make the linter complain, but we inherited
// these names from the kernel's uapi headers, so we will keep them.
const (
	NLMSG_NOOP    = MessageType(netlink.Noop)
	NLMSG_ERROR   = MessageType(netlink.Error)
	NLMSG_DONE    = MessageType(netlink.Done)
	NLMSG_OVERRUN = MessageType(netlink.Overrun)

	RTM_NEWLINK      MessageType = 16
	RTM_DELLINK      MessageType = 17
	RTM_GETLINK      MessageType = 18
	RTM_SETLINK      MessageType = 19
	RTM_NEWADDR      MessageType = 20
	RTM_DELADDR      MessageType = 21
	RTM_GETADDR      MessageType = 22
	RTM_NEWROUTE     MessageType = 24
	RTM_DELROUTE     MessageType = 25
	RTM_GETROUTE     MessageType = 26
	RTM_NEWNEIGH     MessageType = 28
	RTM_DELNEIGH     MessageType = 29
	RTM_GETNEIGH     MessageType = 30
	RTM_NEWRULE      MessageType = 32
	RTM_DELRULE      MessageType = 33
	RTM_GETRULE      MessageType = 34
	RTM_NEWQDISC     MessageType = 36
	RTM_DELQDISC     MessageType = 37
	RTM_GETQDISC     MessageType = 38
	RTM_NEWTCLASS    MessageType = 40
	RTM_DELTCLASS    MessageType = 41
	RTM_GETTCLASS    MessageType = 42
	RTM_NEWTFILTER   MessageType = 44
	RTM_DELTFILTER   MessageType = 45
	RTM_GETTFILTER   MessageType = 46
	RTM_NEWPREFIX    MessageType = 52
	RTM_GETMULTICAST MessageType = 58
	RTM_GETANYCAST   MessageType = 62
	RTM_NEWNEIGHTBL  MessageType = 64
	RTM_GETNEIGHTBL  MessageType = 66
	RTM_SETNEIGHTBL  MessageType = 67
	RTM_NEWNSID      MessageType = 88
	RTM_DELNSID      MessageType = 89
	RTM_GETNSID      MessageType = 90
	RTM_NEWCHAIN     MessageType = 100
	RTM_DELCHAIN     MessageType = 101
	RTM_GETCHAIN     MessageType = 102
	RTM_NEWNEXTHOP   MessageType = 104
	RTM_DELNEXTHOP   MessageType = 105
	RTM_GETNEXTHOP   MessageType = 106
	RTM_NEWLINKPROP  MessageType = 108
	RTM_DELLINKPROP  MessageType = 109
	RTM_GETLINKPROP  MessageType = 110
)

var messageTypeName = map[MessageType]string{
	NLMSG_NOOP:       "NLMSG_NOOP",
	NLMSG_ERROR:      "NLMSG_ERROR",
	NLMSG_DONE:       "NLMSG_DONE",
	NLMSG_OVERRUN:    "NLMSG_OVERRUN",
	RTM_NEWLINK:      "RTM_NEWLINK",
	RTM_DELLINK:      "RTM_DELLINK",
	RTM_GETLINK:      "RTM_GETLINK",
	RTM_SETLINK:      "RTM_SETLINK",
	RTM_NEWADDR:      "RTM_NEWADDR",
	RTM_DELADDR:      "RTM_DELADDR",
	RTM_GETADDR:      "RTM_GETADDR",
	RTM_NEWROUTE:     "RTM_NEWROUTE",
	RTM_DELROUTE:     "RTM_DELROUTE",
	RTM_GETROUTE:     "RTM_GETROUTE",
	RTM_NEWNEIGH:     "RTM_NEWNEIGH",
	RTM_DELNEIGH:     "RTM_DELNEIGH",
	RTM_GETNEIGH:     "RTM_GETNEIGH",
	RTM_NEWRULE:      "RTM_NEWRULE",
	RTM_DELRULE:      "RTM_DELRULE",
	RTM_GETRULE:      "RTM_GETRULE",
	RTM_NEWQDISC:     "RTM_NEWQDISC",
	RTM_DELQDISC:     "RTM_DELQDISC",
	RTM_GETQDISC:     "RTM_GETQDISC",
	RTM_NEWTCLASS:    "RTM_NEWTCLASS",
	RTM_DELTCLASS:    "RTM_DELTCLASS",
	RTM_GETTCLASS:    "RTM_GETTCLASS",
	RTM_NEWTFILTER:   "RTM_NEWTFILTER",
	RTM_DELTFILTER:   "RTM_DELTFILTER",
	RTM_GETTFILTER:   "RTM_GETTFILTER",
	RTM_NEWPREFIX:    "RTM_NEWPREFIX",
	RTM_GETMULTICAST: "RTM_GETMULTICAST",
	RTM_GETANYCAST:   "RTM_GETANYCAST",
	RTM_NEWNEIGHTBL:  "RTM_NEWNEIGHTBL",
	RTM_GETNEIGHTBL:  "RTM_GETNEIGHTBL",
	RTM_SETNEIGHTBL:  "RTM_SETNEIGHTBL",
	RTM_NEWNSID:      "RTM_NEWNSID",
	RTM_DELNSID:      "RTM_DELNSID",
	RTM_GETNSID:      "RTM_GETNSID",
	RTM_NEWCHAIN:     "RTM_NEWCHAIN",
	RTM_DELCHAIN:     "RTM_DELCHAIN",
	RTM_GETCHAIN:     "RTM_GETCHAIN",
	RTM_NEWNEXTHOP:   "RTM_NEWNEXTHOP",
	RTM_DELNEXTHOP:   "RTM_DELNEXTHOP",
	RTM_GETNEXTHOP:   "RTM_GETNEXTHOP",
	RTM_NEWLINKPROP:  "RTM_NEWLINKPROP",
	RTM_DELLINKPROP:  "RTM_DELLINKPROP",
	RTM_GETLINKPROP:  "RTM_GETLINKPROP",
}

func (t MessageType) String() string {
	if n, ok := messageTypeName[t]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_MESSAGE_TYPE_%d", uint16(t))
}

// Control reports whether t is one of the NLMSG_* types every netlink
// family shares.
func (t MessageType) Control() bool {
	return t < RTM_NEWLINK
}
