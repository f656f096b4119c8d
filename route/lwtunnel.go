package route

import (
	"fmt"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
)

// EncapType is the lightweight tunnel type of RTA_ENCAP_TYPE (LWTUNNEL_ENCAP_*).
type EncapType uint16

const (
	EncapNone      EncapType = 0
	EncapMPLS      EncapType = 1
	EncapIP        EncapType = 2
	EncapILA       EncapType = 3
	EncapIP6       EncapType = 4
	EncapSeg6      EncapType = 5
	EncapBPF       EncapType = 6
	EncapSeg6Local EncapType = 7
	EncapRPL       EncapType = 8
	EncapIOAM6     EncapType = 9
	EncapXFRM      EncapType = 10
)

var encapTypeName = map[EncapType]string{
	EncapNone:      "none",
	EncapMPLS:      "mpls",
	EncapIP:        "ip",
	EncapILA:       "ila",
	EncapIP6:       "ip6",
	EncapSeg6:      "seg6",
	EncapBPF:       "bpf",
	EncapSeg6Local: "seg6local",
	EncapRPL:       "rpl",
	EncapIOAM6:     "ioam6",
	EncapXFRM:      "xfrm",
}

func (t EncapType) String() string {
	if n, ok := encapTypeName[t]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_ENCAP_%d", uint16(t))
}

// MPLSLabel is one label stack entry. On the wire it's a big endian word
// laid out as label(20) tc(3) bottom-of-stack(1) ttl(8).
type MPLSLabel struct {
	Label         uint32
	TC            uint8
	BottomOfStack bool
	TTL           uint8
}

func (l MPLSLabel) word() uint32 {
	w := (l.Label&0xfffff)<<12 | uint32(l.TC&0x7)<<9 | uint32(l.TTL)
	if l.BottomOfStack {
		w |= 1 << 8
	}
	return w
}

func labelFromWord(w uint32) MPLSLabel {
	return MPLSLabel{
		Label:         w >> 12,
		TC:            uint8(w>>9) & 0x7,
		BottomOfStack: w&(1<<8) != 0,
		TTL:           uint8(w),
	}
}

func parseLabels(b []byte) ([]MPLSLabel, error) {
	if len(b)%4 != 0 {
		return nil, &nla.ValueError{Field: "mpls label stack", Reason: fmt.Sprintf("%d bytes isn't a multiple of 4", len(b))}
	}
	var ls []MPLSLabel
	for i := 0; i < len(b); i += 4 {
		w, _ := nla.Uint32BE(b[i : i+4])
		ls = append(ls, labelFromWord(w))
	}
	return ls, nil
}

func putLabels(b []byte, ls []MPLSLabel) {
	for i, l := range ls {
		nla.PutUint32BE(b[4*i:], l.word())
	}
}

// Encap is RTA_ENCAP decoded according to the sibling RTA_ENCAP_TYPE.
type Encap []nla.Attribute

func (Encap) Kind() uint16         { return RTA_ENCAP }
func (e Encap) ValueLen() int      { return nla.ListLen(e) }
func (e Encap) EmitValue(b []byte) { nla.EmitList(b, e) }

// EncapParser returns the decoder for the attributes of a t encapsulation,
// nil when t isn't modelled. Nexthop objects carry the same encapsulations.
func EncapParser(t EncapType) nla.ParseFunc {
	switch t {
	case EncapMPLS:
		return parseMPLSEncap
	case EncapIP6:
		return parseIP6Encap
	case EncapSeg6:
		return parseSeg6Encap
	case EncapSeg6Local:
		return parseSeg6LocalEncap
	}
	return nil
}

func parseEncap(r nla.Record, t EncapType) (nla.Attribute, error) {
	fn := EncapParser(t)
	if fn == nil {
		return nla.ParseOpaque(r), nil
	}

	attrs, err := nla.ParseList(r.Value, fn)
	if err != nil {
		return nil, fmt.Errorf("%s encap: %w", t, err)
	}
	return Encap(attrs), nil
}

const (
	MPLS_IPTUNNEL_DST = 1
	MPLS_IPTUNNEL_TTL = 2
)

type (
	MPLSTunnelDestination []MPLSLabel
	MPLSTunnelTTL         uint8
)

func (MPLSTunnelDestination) Kind() uint16         { return MPLS_IPTUNNEL_DST }
func (d MPLSTunnelDestination) ValueLen() int      { return 4 * len(d) }
func (d MPLSTunnelDestination) EmitValue(b []byte) { putLabels(b, d) }

func (MPLSTunnelTTL) Kind() uint16         { return MPLS_IPTUNNEL_TTL }
func (MPLSTunnelTTL) ValueLen() int        { return 1 }
func (t MPLSTunnelTTL) EmitValue(b []byte) { b[0] = uint8(t) }

func parseMPLSEncap(r nla.Record) (nla.Attribute, error) {
	switch r.Kind {
	case MPLS_IPTUNNEL_DST:
		ls, err := parseLabels(r.Value)
		return MPLSTunnelDestination(ls), err
	case MPLS_IPTUNNEL_TTL:
		v, err := nla.Uint8(r.Value)
		return MPLSTunnelTTL(v), err
	}
	nla.Notice("route/mpls", r)
	return nla.NewUnknown(r), nil
}

const (
	LWTUNNEL_IP6_ID       = 1
	LWTUNNEL_IP6_DST      = 2
	LWTUNNEL_IP6_SRC      = 3
	LWTUNNEL_IP6_HOPLIMIT = 4
	LWTUNNEL_IP6_TC       = 5
	LWTUNNEL_IP6_FLAGS    = 6
)

// IP6TunnelFlags are the TUNNEL_* bits of LWTUNNEL_IP6_FLAGS, big endian on
// the wire.
type IP6TunnelFlags uint16

const (
	IP6TunnelChecksum IP6TunnelFlags = 1
	IP6TunnelKey      IP6TunnelFlags = 4
	IP6TunnelSequence IP6TunnelFlags = 8
)

var ip6TunnelFlagName = map[IP6TunnelFlags]string{
	IP6TunnelChecksum: "csum",
	IP6TunnelKey:      "key",
	IP6TunnelSequence: "seq",
}

func (f IP6TunnelFlags) Known() IP6TunnelFlags     { return nla.KnownBits(f, ip6TunnelFlagName) }
func (f IP6TunnelFlags) Remainder() IP6TunnelFlags { return f &^ f.Known() }
func (f IP6TunnelFlags) String() string            { return nla.FlagString(f, ip6TunnelFlagName) }

func (IP6TunnelFlags) Kind() uint16         { return LWTUNNEL_IP6_FLAGS }
func (IP6TunnelFlags) ValueLen() int        { return 2 }
func (f IP6TunnelFlags) EmitValue(b []byte) { nla.PutUint16BE(b, uint16(f)) }

type (
	IP6TunnelID          uint64
	IP6TunnelDestination family.Addr
	IP6TunnelSource      family.Addr
	IP6TunnelHopLimit    uint8
	IP6TunnelTC          uint8
)

func (IP6TunnelID) Kind() uint16         { return LWTUNNEL_IP6_ID }
func (IP6TunnelID) ValueLen() int        { return 8 }
func (v IP6TunnelID) EmitValue(b []byte) { nla.PutUint64BE(b, uint64(v)) }

func (IP6TunnelDestination) Kind() uint16         { return LWTUNNEL_IP6_DST }
func (a IP6TunnelDestination) ValueLen() int      { return family.Addr(a).Len() }
func (a IP6TunnelDestination) EmitValue(b []byte) { family.Addr(a).Put(b) }

func (IP6TunnelSource) Kind() uint16         { return LWTUNNEL_IP6_SRC }
func (a IP6TunnelSource) ValueLen() int      { return family.Addr(a).Len() }
func (a IP6TunnelSource) EmitValue(b []byte) { family.Addr(a).Put(b) }

func (IP6TunnelHopLimit) Kind() uint16         { return LWTUNNEL_IP6_HOPLIMIT }
func (IP6TunnelHopLimit) ValueLen() int        { return 1 }
func (v IP6TunnelHopLimit) EmitValue(b []byte) { b[0] = uint8(v) }

func (IP6TunnelTC) Kind() uint16         { return LWTUNNEL_IP6_TC }
func (IP6TunnelTC) ValueLen() int        { return 1 }
func (v IP6TunnelTC) EmitValue(b []byte) { b[0] = uint8(v) }

func parseIP6Encap(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case LWTUNNEL_IP6_ID:
		v, err := nla.Uint64BE(p)
		return IP6TunnelID(v), err
	case LWTUNNEL_IP6_DST, LWTUNNEL_IP6_SRC:
		a, err := family.ParseAddr(family.Inet6, p)
		if err != nil {
			return nil, err
		}
		if r.Kind == LWTUNNEL_IP6_DST {
			return IP6TunnelDestination(a), nil
		}
		return IP6TunnelSource(a), nil
	case LWTUNNEL_IP6_HOPLIMIT:
		v, err := nla.Uint8(p)
		return IP6TunnelHopLimit(v), err
	case LWTUNNEL_IP6_TC:
		v, err := nla.Uint8(p)
		return IP6TunnelTC(v), err
	case LWTUNNEL_IP6_FLAGS:
		v, err := nla.Uint16BE(p)
		return IP6TunnelFlags(v), err
	}
	nla.Notice("route/ip6tnl", r)
	return nla.NewUnknown(r), nil
}
