//go:build !linux

package netlink

import (
	"context"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/rtnl"
)

var GroupNames = map[string]uint32{}

func Groups(names []string) ([]uint32, error) { return nil, ErrUnsupported }

type Client struct {
	Config
}

func Dial(c *Config) (*Client, error) { return nil, ErrUnsupported }

func (cl *Client) Close() error { return nil }

func (cl *Client) Execute(m *rtnl.Message) ([]rtnl.Result, error) { return nil, ErrUnsupported }

func (cl *Client) Dump(object string, f family.Family) ([]*rtnl.Message, error) {
	return nil, ErrUnsupported
}

func (cl *Client) Monitor(ctx context.Context, out chan<- rtnl.Result) error { return ErrUnsupported }
