// Package rtnl frames the family messages of this module as NETLINK_ROUTE
// netlink messages. It picks the family codec from the message type, splits
// a socket read into its messages and turns NLMSG_ERROR and NLMSG_DONE into
// Go errors.
package rtnl

import (
	"encoding"
	"errors"
	"fmt"

	"github.com/mdlayher/netlink"

	"github.com/scitags/rtnl-go/address"
	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/link"
	"github.com/scitags/rtnl-go/neighbour"
	"github.com/scitags/rtnl-go/neightbl"
	"github.com/scitags/rtnl-go/nexthop"
	"github.com/scitags/rtnl-go/nla"
	"github.com/scitags/rtnl-go/nsid"
	"github.com/scitags/rtnl-go/prefix"
	"github.com/scitags/rtnl-go/route"
	"github.com/scitags/rtnl-go/rule"
	"github.com/scitags/rtnl-go/tc"
)

// HeaderLen is sizeof(struct nlmsghdr).
const HeaderLen = 16

// Payload is a family message: *link.Message, *route.Message and so on,
// or one of the control payloads of this package.
type Payload interface {
	Len() int
	Emit(b []byte)
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// Message is an rtnetlink message with its netlink header unpacked.
type Message struct {
	Type     MessageType
	Flags    netlink.HeaderFlags
	Sequence uint32
	PID      uint32
	Payload  Payload
}

// UnknownTypeError is returned for a message type with no codec.
type UnknownTypeError struct {
	Type MessageType
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("no codec for message type %d", uint16(e.Type))
}

var errNoPayload = errors.New("message has no payload")

// NewPayload returns an empty payload of the family t belongs to.
func NewPayload(t MessageType) (Payload, error) {
	switch t {
	case NLMSG_ERROR:
		return &ErrorMessage{}, nil
	case NLMSG_DONE:
		return &Done{}, nil
	case RTM_NEWLINK, RTM_DELLINK, RTM_GETLINK, RTM_SETLINK,
		RTM_NEWLINKPROP, RTM_DELLINKPROP, RTM_GETLINKPROP:
		return &link.Message{}, nil
	case RTM_NEWADDR, RTM_DELADDR, RTM_GETADDR, RTM_GETMULTICAST, RTM_GETANYCAST:
		return &address.Message{}, nil
	case RTM_NEWROUTE, RTM_DELROUTE, RTM_GETROUTE:
		return &route.Message{}, nil
	case RTM_NEWNEIGH, RTM_DELNEIGH, RTM_GETNEIGH:
		return &neighbour.Message{}, nil
	case RTM_NEWRULE, RTM_DELRULE, RTM_GETRULE:
		return &rule.Message{}, nil
	case RTM_NEWQDISC, RTM_DELQDISC, RTM_GETQDISC,
		RTM_NEWTCLASS, RTM_DELTCLASS, RTM_GETTCLASS,
		RTM_NEWTFILTER, RTM_DELTFILTER, RTM_GETTFILTER,
		RTM_NEWCHAIN, RTM_DELCHAIN, RTM_GETCHAIN:
		return &tc.Message{}, nil
	case RTM_NEWPREFIX:
		return &prefix.Message{}, nil
	case RTM_NEWNEIGHTBL, RTM_GETNEIGHTBL, RTM_SETNEIGHTBL:
		return &neightbl.Message{}, nil
	case RTM_NEWNSID, RTM_DELNSID, RTM_GETNSID:
		return &nsid.Message{}, nil
	case RTM_NEWNEXTHOP, RTM_DELNEXTHOP, RTM_GETNEXTHOP:
		return &nexthop.Message{}, nil
	}
	return nil, &UnknownTypeError{Type: t}
}

// familyOnly handles the dump requests iproute2 sends with a bare
// rtgenmsg: one family byte and three bytes of padding. The length of the
// GETROUTE flavour doesn't count the padding.
func familyOnly(t MessageType, data []byte) (Payload, bool) {
	switch {
	case t == RTM_GETLINK && len(data) == 4:
		return &link.Message{Header: link.Header{Family: family.Family(data[0])}}, true
	case t == RTM_GETADDR && len(data) == 4:
		return &address.Message{Header: address.Header{Family: family.Family(data[0])}}, true
	case t == RTM_GETROUTE && (len(data) == 4 || len(data) == 1):
		return &route.Message{Header: route.Header{Family: family.Family(data[0])}}, true
	}
	return nil, false
}

func parse(nm netlink.Message) (*Message, error) {
	m := &Message{
		Type:     MessageType(nm.Header.Type),
		Flags:    nm.Header.Flags,
		Sequence: nm.Header.Sequence,
		PID:      nm.Header.PID,
	}

	if m.Type == NLMSG_ERROR {
		e := &ErrorMessage{}
		if err := e.parse(nm.Data, nm.Header.Flags); err != nil {
			return m, fmt.Errorf("%s: %w", m.Type, err)
		}
		m.Payload = e
		return m, nil
	}

	p, err := NewPayload(m.Type)
	if err != nil {
		return m, err
	}
	if err := p.UnmarshalBinary(nm.Data); err != nil {
		if q, ok := familyOnly(m.Type, nm.Data); ok {
			m.Payload = q
			return m, nil
		}
		return m, fmt.Errorf("%s: %w", m.Type, err)
	}
	m.Payload = p
	return m, nil
}

// ParseMessage decodes the payload of one netlink message.
func ParseMessage(nm netlink.Message) (*Message, error) {
	m, err := parse(nm)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Netlink encodes m into a message ready for netlink.Conn.Send.
func (m *Message) Netlink() (netlink.Message, error) {
	if m.Payload == nil {
		return netlink.Message{}, errNoPayload
	}
	data, err := m.Payload.MarshalBinary()
	if err != nil {
		return netlink.Message{}, fmt.Errorf("%s: %w", m.Type, err)
	}
	return netlink.Message{
		Header: netlink.Header{
			Length:   uint32(nla.Align(HeaderLen + len(data))),
			Type:     netlink.HeaderType(m.Type),
			Flags:    m.Flags,
			Sequence: m.Sequence,
			PID:      m.PID,
		},
		Data: data,
	}, nil
}

func (m *Message) MarshalBinary() ([]byte, error) {
	nm, err := m.Netlink()
	if err != nil {
		return nil, err
	}
	return nm.MarshalBinary()
}
