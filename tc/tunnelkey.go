package tc

import (
	"fmt"
	"net/netip"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
)

const (
	TCA_TUNNEL_KEY_UNSPEC       = 0
	TCA_TUNNEL_KEY_TM           = 1
	TCA_TUNNEL_KEY_PARMS        = 2
	TCA_TUNNEL_KEY_ENC_IPV4_SRC = 3
	TCA_TUNNEL_KEY_ENC_IPV4_DST = 4
	TCA_TUNNEL_KEY_ENC_IPV6_SRC = 5
	TCA_TUNNEL_KEY_ENC_IPV6_DST = 6
	TCA_TUNNEL_KEY_ENC_KEY_ID   = 7
	TCA_TUNNEL_KEY_PAD          = 8
	TCA_TUNNEL_KEY_ENC_DST_PORT = 9
	TCA_TUNNEL_KEY_NO_CSUM      = 10
	TCA_TUNNEL_KEY_ENC_OPTS     = 11
	TCA_TUNNEL_KEY_ENC_TOS      = 12
	TCA_TUNNEL_KEY_ENC_TTL      = 13
	TCA_TUNNEL_KEY_NO_FRAG      = 14
)

// TunnelKeyAction is TCA_TUNNEL_KEY_ACT_*.
type TunnelKeyAction int32

const (
	TunnelKeySet     TunnelKeyAction = 1
	TunnelKeyRelease TunnelKeyAction = 2
)

func (a TunnelKeyAction) String() string {
	switch a {
	case TunnelKeySet:
		return "set"
	case TunnelKeyRelease:
		return "unset"
	}
	return fmt.Sprintf("UNKNOWN_TUNNEL_KEY_ACTION_%d", int32(a))
}

const tunnelKeyLen = actionGenericLen + 4

// TunnelKey is struct tc_tunnel_key.
type TunnelKey struct {
	Generic ActionGeneric
	Action  TunnelKeyAction
}

func (TunnelKey) Kind() uint16  { return TCA_TUNNEL_KEY_PARMS }
func (TunnelKey) ValueLen() int { return tunnelKeyLen }
func (k TunnelKey) EmitValue(b []byte) {
	v := nla.NewView(b, tunnelKeyLen)
	k.Generic.emit(v)
	v.SetInt32(actionGenericLen, int32(k.Action))
}

// TunnelEndpoint is the outer source or destination address; IPv4 and
// IPv6 addresses travel in different kinds.
type TunnelEndpoint struct {
	Destination bool
	Address     netip.Addr
}

func (e TunnelEndpoint) Kind() uint16 {
	switch {
	case e.Address.Is4() && e.Destination:
		return TCA_TUNNEL_KEY_ENC_IPV4_DST
	case e.Address.Is4():
		return TCA_TUNNEL_KEY_ENC_IPV4_SRC
	case e.Destination:
		return TCA_TUNNEL_KEY_ENC_IPV6_DST
	}
	return TCA_TUNNEL_KEY_ENC_IPV6_SRC
}

func (e TunnelEndpoint) ValueLen() int      { return family.IPLen(e.Address) }
func (e TunnelEndpoint) EmitValue(b []byte) { family.PutIP(b, e.Address) }

type (
	// TunnelKeyID is the VNI or GRE key, big endian on the wire.
	TunnelKeyID uint32
	// TunnelDestinationPort is the outer UDP port, big endian on the wire.
	TunnelDestinationPort uint16
)

func (TunnelKeyID) Kind() uint16         { return TCA_TUNNEL_KEY_ENC_KEY_ID }
func (TunnelKeyID) ValueLen() int        { return 4 }
func (v TunnelKeyID) EmitValue(b []byte) { nla.PutUint32BE(b, uint32(v)) }

func (TunnelDestinationPort) Kind() uint16         { return TCA_TUNNEL_KEY_ENC_DST_PORT }
func (TunnelDestinationPort) ValueLen() int        { return 2 }
func (v TunnelDestinationPort) EmitValue(b []byte) { nla.PutUint16BE(b, uint16(v)) }

// TunnelKeyOption is one of the one byte settings: TCA_TUNNEL_KEY_NO_CSUM,
// TCA_TUNNEL_KEY_ENC_TOS or TCA_TUNNEL_KEY_ENC_TTL.
type TunnelKeyOption struct {
	Type  uint16
	Value uint8
}

func (o TunnelKeyOption) Kind() uint16       { return o.Type }
func (TunnelKeyOption) ValueLen() int        { return 1 }
func (o TunnelKeyOption) EmitValue(b []byte) { b[0] = o.Value }

// TunnelNoFrag forbids fragmenting the encapsulated packet.
type TunnelNoFrag struct{}

func (TunnelNoFrag) Kind() uint16     { return TCA_TUNNEL_KEY_NO_FRAG }
func (TunnelNoFrag) ValueLen() int    { return 0 }
func (TunnelNoFrag) EmitValue([]byte) {}

func parseTunnelKey(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case TCA_TUNNEL_KEY_TM:
		return parseTcf(r)
	case TCA_TUNNEL_KEY_PARMS:
		v, err := nla.Fixed(p, tunnelKeyLen, "tc_tunnel_key")
		if err != nil {
			return nil, err
		}
		return TunnelKey{
			Generic: parseActionGeneric(v),
			Action:  TunnelKeyAction(v.Int32(actionGenericLen)),
		}, nil
	case TCA_TUNNEL_KEY_ENC_IPV4_SRC, TCA_TUNNEL_KEY_ENC_IPV4_DST:
		a, err := family.ParseAddr(family.Inet, p)
		return TunnelEndpoint{Destination: r.Kind == TCA_TUNNEL_KEY_ENC_IPV4_DST, Address: a.IP}, err
	case TCA_TUNNEL_KEY_ENC_IPV6_SRC, TCA_TUNNEL_KEY_ENC_IPV6_DST:
		a, err := family.ParseAddr(family.Inet6, p)
		return TunnelEndpoint{Destination: r.Kind == TCA_TUNNEL_KEY_ENC_IPV6_DST, Address: a.IP}, err
	case TCA_TUNNEL_KEY_ENC_KEY_ID:
		v, err := nla.Uint32BE(p)
		return TunnelKeyID(v), err
	case TCA_TUNNEL_KEY_ENC_DST_PORT:
		v, err := nla.Uint16BE(p)
		return TunnelDestinationPort(v), err
	case TCA_TUNNEL_KEY_NO_CSUM, TCA_TUNNEL_KEY_ENC_TOS, TCA_TUNNEL_KEY_ENC_TTL:
		v, err := nla.Uint8(p)
		return TunnelKeyOption{Type: r.Kind, Value: v}, err
	case TCA_TUNNEL_KEY_NO_FRAG:
		return TunnelNoFrag{}, nil
	case TCA_TUNNEL_KEY_ENC_OPTS:
		// Geneve, VXLAN GBP and ERSPAN metadata.
		return nla.ParseOpaque(r), nil
	}
	nla.Notice("tc/tunnel_key", r)
	return nla.NewUnknown(r), nil
}
