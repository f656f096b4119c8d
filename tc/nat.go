package tc

import (
	"net/netip"

	"github.com/scitags/rtnl-go/nla"
)

const (
	TCA_NAT_UNSPEC = 0
	TCA_NAT_PARMS  = 1
	TCA_NAT_TM     = 2
	TCA_NAT_PAD    = 3
)

// NATFlags holds TCA_NAT_FLAG_EGRESS and the TCA_ACT_FLAGS_* bits the
// kernel stores alongside it.
type NATFlags uint32

const (
	NATEgress    NATFlags = 1 << 0
	NATPolice    NATFlags = 1 << 16
	NATBind      NATFlags = 1 << 17
	NATReplace   NATFlags = 1 << 18
	NATNoRTNL    NATFlags = 1 << 19
	NATAtIngress NATFlags = 1 << 20
)

var natFlagName = map[NATFlags]string{
	0:            "ingress",
	NATEgress:    "egress",
	NATPolice:    "police",
	NATBind:      "bind",
	NATReplace:   "replace",
	NATNoRTNL:    "no_rtnl",
	NATAtIngress: "at_ingress",
}

func (f NATFlags) Known() NATFlags     { return nla.KnownBits(f, natFlagName) }
func (f NATFlags) Remainder() NATFlags { return f &^ f.Known() }
func (f NATFlags) String() string      { return nla.FlagString(f, natFlagName) }

const natLen = actionGenericLen + 16

// NAT is struct tc_nat. Addresses are IPv4 only.
type NAT struct {
	Generic ActionGeneric
	OldAddr netip.Addr
	NewAddr netip.Addr
	Mask    netip.Addr
	Flags   NATFlags
}

func (NAT) Kind() uint16  { return TCA_NAT_PARMS }
func (NAT) ValueLen() int { return natLen }
func (n NAT) EmitValue(b []byte) {
	v := nla.NewView(b, natLen)
	n.Generic.emit(v)
	for i, a := range []netip.Addr{n.OldAddr, n.NewAddr, n.Mask} {
		var ip [4]byte
		if a = a.Unmap(); a.Is4() {
			ip = a.As4()
		}
		v.SetBytes(actionGenericLen+4*i, ip[:])
	}
	v.SetUint32(actionGenericLen+12, uint32(n.Flags))
}

func parseNAT(r nla.Record) (nla.Attribute, error) {
	switch r.Kind {
	case TCA_NAT_PARMS:
		v, err := nla.Fixed(r.Value, natLen, "tc_nat")
		if err != nil {
			return nil, err
		}
		addr := func(off int) netip.Addr {
			return netip.AddrFrom4([4]byte(v.Bytes(off, 4)))
		}
		return NAT{
			Generic: parseActionGeneric(v),
			OldAddr: addr(actionGenericLen),
			NewAddr: addr(actionGenericLen + 4),
			Mask:    addr(actionGenericLen + 8),
			Flags:   NATFlags(v.Uint32(actionGenericLen + 12)),
		}, nil
	case TCA_NAT_TM:
		return parseTcf(r)
	}
	nla.Notice("tc/nat", r)
	return nla.NewUnknown(r), nil
}
