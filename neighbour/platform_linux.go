//go:build !freebsd

package neighbour

import "github.com/scitags/rtnl-go/nla"

func parsePlatform(nla.Record) (nla.Attribute, bool, error) {
	return nil, false, nil
}
