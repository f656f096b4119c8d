//go:build linux

package netlink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"syscall"
	"time"

	"github.com/mdlayher/netlink"
	"golang.org/x/sys/unix"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/rtnl"
)

// GroupNames maps the names accepted in Config.Groups to RTNLGRP_* ids.
var GroupNames = map[string]uint32{
	"link":        unix.RTNLGRP_LINK,
	"neighbour":   unix.RTNLGRP_NEIGH,
	"tc":          unix.RTNLGRP_TC,
	"ipv4-ifaddr": unix.RTNLGRP_IPV4_IFADDR,
	"ipv4-route":  unix.RTNLGRP_IPV4_ROUTE,
	"ipv4-rule":   unix.RTNLGRP_IPV4_RULE,
	"ipv6-ifaddr": unix.RTNLGRP_IPV6_IFADDR,
	"ipv6-route":  unix.RTNLGRP_IPV6_ROUTE,
	"ipv6-rule":   unix.RTNLGRP_IPV6_RULE,
	"ipv6-prefix": unix.RTNLGRP_IPV6_PREFIX,
	"nsid":        unix.RTNLGRP_NSID,
	"nexthop":     unix.RTNLGRP_NEXTHOP,
}

// Groups resolves names into multicast group ids.
func Groups(names []string) ([]uint32, error) {
	ids := make([]uint32, 0, len(names))
	for _, n := range names {
		id, ok := GroupNames[n]
		if !ok {
			return nil, fmt.Errorf("unknown multicast group %q", n)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type Client struct {
	Config

	conn   *netlink.Conn
	logger *slog.Logger
}

// Dial opens a NETLINK_ROUTE socket. The returned client must be closed to
// avoid leaking the descriptor.
func Dial(c *Config) (*Client, error) {
	if c == nil {
		c = &Config{ExtendedAck: true}
	}

	cl := &Client{Config: *c}
	if c.Log {
		cl.logger = slog.Default().With("t", "netlink")
	} else {
		cl.logger = slog.New(slog.DiscardHandler)
	}

	conn, err := netlink.Dial(unix.NETLINK_ROUTE, nil)
	if err != nil {
		return nil, fmt.Errorf("could not open rtnetlink socket: %w", err)
	}
	cl.conn = conn

	// NETLINK_EXT_ACK is supported since 4.12; older kernels answer with
	// ENOPROTOOPT.
	if c.ExtendedAck {
		if err := conn.SetOption(netlink.ExtendedAcknowledge, true); err != nil {
			cl.logger.Warn("could not set option ExtendedAcknowledge", "err", err)
		}
	}
	if c.StrictCheck {
		if err := conn.SetOption(netlink.GetStrictCheck, true); err != nil {
			cl.logger.Warn("could not set option GetStrictCheck", "err", err)
		}
	}
	if c.ReceiveBufferSize > 0 {
		if err := conn.SetReadBuffer(c.ReceiveBufferSize); err != nil {
			cl.logger.Warn("could not resize the receive buffer", "size", c.ReceiveBufferSize, "err", err)
		}
	}

	cl.logger.Debug("opened rtnetlink socket", "extAck", c.ExtendedAck, "strict", c.StrictCheck)

	return cl, nil
}

func (cl *Client) Close() error {
	// Abort any Receive in flight.
	cl.conn.SetDeadline(time.Unix(0, 0))
	return cl.conn.Close()
}

// Execute sends m with NLM_F_REQUEST set and waits for the whole answer.
// A kernel error comes back as a *rtnl.KernelError.
func (cl *Client) Execute(m *rtnl.Message) ([]rtnl.Result, error) {
	nm, err := m.Netlink()
	if err != nil {
		return nil, err
	}
	nm.Header.Flags |= netlink.Request

	cl.logger.Debug("sending request", "type", m.Type, "flags", nm.Header.Flags, "len", nm.Header.Length)

	msgs, err := cl.conn.Execute(nm)
	if err != nil {
		return nil, kernelError(m.Type, err)
	}

	cl.logger.Debug("got answer", "type", m.Type, "messages", len(msgs))

	return Decode(msgs), nil
}

// Dump asks for every object of the given kind.
func (cl *Client) Dump(object string, f family.Family) ([]*rtnl.Message, error) {
	req, err := DumpRequest(object, f)
	if err != nil {
		return nil, err
	}
	results, err := cl.Execute(req)
	if err != nil {
		return nil, err
	}
	return Messages(results)
}

// Monitor joins the configured multicast groups and pushes every
// notification onto out until ctx is done.
func (cl *Client) Monitor(ctx context.Context, out chan<- rtnl.Result) error {
	ids, err := Groups(cl.Groups)
	if err != nil {
		return err
	}
	for i, id := range ids {
		if err := cl.conn.JoinGroup(id); err != nil {
			return fmt.Errorf("couldn't join group %q: %w", cl.Groups[i], err)
		}
		cl.logger.Debug("joined multicast group", "group", cl.Groups[i], "id", id)
	}

	stop := context.AfterFunc(ctx, func() {
		cl.conn.SetDeadline(time.Unix(0, 0))
	})
	defer stop()

	for {
		msgs, err := cl.conn.Receive()
		if err != nil {
			if ctx.Err() != nil {
				cl.logger.Debug("cleanly exiting the monitor")
				return nil
			}
			return fmt.Errorf("couldn't receive notifications: %w", err)
		}

		for _, r := range Decode(msgs) {
			select {
			case out <- r:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func kernelError(t rtnl.MessageType, err error) error {
	var oErr *netlink.OpError
	if !errors.As(err, &oErr) {
		return fmt.Errorf("%s: %w", t, err)
	}
	var errno syscall.Errno
	if !errors.As(oErr.Err, &errno) {
		return fmt.Errorf("%s: %w", t, err)
	}
	return &rtnl.KernelError{Errno: errno, Request: t, Message: oErr.Message, Offset: oErr.Offset}
}
