//go:build !freebsd

package address

import (
	"github.com/scitags/rtnl-go/nla"
	"github.com/scitags/rtnl-go/route"
)

const IFA_PROTO = 11

// Proto is the originator of the address (IFAPROT_*). The values are shared
// with route protocols.
type Proto route.Protocol

func (p Proto) String() string { return route.Protocol(p).String() }

func (Proto) Kind() uint16         { return IFA_PROTO }
func (Proto) ValueLen() int        { return 1 }
func (p Proto) EmitValue(b []byte) { b[0] = uint8(p) }

func parsePlatform(r nla.Record) (nla.Attribute, bool, error) {
	if r.Kind == IFA_PROTO {
		v, err := nla.Uint8(r.Value)
		return Proto(v), true, err
	}
	return nil, false, nil
}
