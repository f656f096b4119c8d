// Package netlink carries rtnl messages over a NETLINK_ROUTE socket. It
// issues dump requests and listens on multicast groups, handing back
// decoded rtnl results. Sockets are only available on Linux; elsewhere
// Dial returns ErrUnsupported.
package netlink

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mdlayher/netlink"

	"github.com/scitags/rtnl-go/address"
	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/link"
	"github.com/scitags/rtnl-go/neighbour"
	"github.com/scitags/rtnl-go/nexthop"
	"github.com/scitags/rtnl-go/route"
	"github.com/scitags/rtnl-go/rtnl"
	"github.com/scitags/rtnl-go/rule"
	"github.com/scitags/rtnl-go/tc"
)

var ErrUnsupported = errors.New("rtnetlink sockets are only available on linux")

// Objects lists what DumpRequest knows how to ask for.
var Objects = []string{"link", "address", "route", "rule", "neighbour", "qdisc", "class", "filter", "nexthop"}

// DumpRequest builds the NLM_F_DUMP request listing every object of the
// given kind in family f.
func DumpRequest(object string, f family.Family) (*rtnl.Message, error) {
	m := &rtnl.Message{Flags: netlink.Request | netlink.Dump}
	switch object {
	case "link":
		m.Type, m.Payload = rtnl.RTM_GETLINK, &link.Message{Header: link.Header{Family: f}}
	case "address":
		m.Type, m.Payload = rtnl.RTM_GETADDR, &address.Message{Header: address.Header{Family: f}}
	case "route":
		m.Type, m.Payload = rtnl.RTM_GETROUTE, &route.Message{Header: route.Header{Family: f}}
	case "rule":
		m.Type, m.Payload = rtnl.RTM_GETRULE, &rule.Message{Header: rule.Header{Family: f}}
	case "neighbour":
		m.Type, m.Payload = rtnl.RTM_GETNEIGH, &neighbour.Message{Header: neighbour.Header{Family: f}}
	case "qdisc":
		m.Type, m.Payload = rtnl.RTM_GETQDISC, &tc.Message{Header: tc.Header{Family: f}}
	case "class":
		m.Type, m.Payload = rtnl.RTM_GETTCLASS, &tc.Message{Header: tc.Header{Family: f}}
	case "filter":
		m.Type, m.Payload = rtnl.RTM_GETTFILTER, &tc.Message{Header: tc.Header{Family: f}}
	case "nexthop":
		m.Type, m.Payload = rtnl.RTM_GETNEXTHOP, &nexthop.Message{Header: nexthop.Header{Family: f}}
	default:
		return nil, fmt.Errorf("unknown object %q; want one of %v", object, Objects)
	}
	return m, nil
}

// Decode turns what a netlink.Conn returned into results, one per message.
func Decode(msgs []netlink.Message) []rtnl.Result {
	out := make([]rtnl.Result, 0, len(msgs))
	for _, nm := range msgs {
		out = append(out, rtnl.NewResult(nm))
	}
	return out
}

// Messages drops the results that failed and returns the rest, along with
// the first error seen.
func Messages(results []rtnl.Result) ([]*rtnl.Message, error) {
	var firstErr error
	out := make([]*rtnl.Message, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		out = append(out, r.Message)
	}
	return slices.Clip(out), firstErr
}
