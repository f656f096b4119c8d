package route

import (
	"fmt"
	"net/netip"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
)

// Seg6Mode is how a seg6 route applies its segment list.
type Seg6Mode uint32

const (
	Seg6Inline     Seg6Mode = 0
	Seg6Encap      Seg6Mode = 1
	Seg6L2Encap    Seg6Mode = 2
	Seg6EncapRed   Seg6Mode = 3
	Seg6L2EncapRed Seg6Mode = 4
)

var seg6ModeName = map[Seg6Mode]string{
	Seg6Inline:     "inline",
	Seg6Encap:      "encap",
	Seg6L2Encap:    "l2encap",
	Seg6EncapRed:   "encap.red",
	Seg6L2EncapRed: "l2encap.red",
}

func (m Seg6Mode) String() string {
	if n, ok := seg6ModeName[m]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_SEG6_MODE_%d", uint32(m))
}

const srhFixedLen = 8

// SRH is struct ipv6_sr_hdr. Segments are in wire order: the last segment
// of the path comes first, and inline mode adds a trailing :: slot for the
// original destination. TLVs holds whatever follows the segment list.
type SRH struct {
	NextHeader   uint8
	Type         uint8
	SegmentsLeft uint8
	Flags        uint8
	Tag          uint16
	Segments     []netip.Addr
	TLVs         []byte
}

func (h SRH) len() int {
	return srhFixedLen + 16*len(h.Segments) + len(h.TLVs)
}

func (h SRH) emit(b []byte) {
	v := nla.NewView(b, srhFixedLen)
	v.SetUint8(0, h.NextHeader)
	v.SetUint8(1, uint8(h.len()/8-1))
	v.SetUint8(2, h.Type)
	v.SetUint8(3, h.SegmentsLeft)
	v.SetUint8(4, uint8(len(h.Segments)-1))
	v.SetUint8(5, h.Flags)
	v.SetUint16BE(6, h.Tag)
	off := srhFixedLen
	for _, s := range h.Segments {
		a := s.As16()
		v.SetBytes(off, a[:])
		off += 16
	}
	v.SetBytes(off, h.TLVs)
}

func parseSRH(b []byte) (SRH, error) {
	v, err := nla.NewViewChecked(b, srhFixedLen)
	if err != nil {
		return SRH{}, fmt.Errorf("ipv6_sr_hdr: %w", err)
	}
	if want := (int(v.Uint8(1)) + 1) * 8; want != len(b) {
		return SRH{}, &nla.ValueError{Field: "ipv6_sr_hdr", Reason: fmt.Sprintf("hdrlen says %d bytes; got %d", want, len(b))}
	}
	n := int(v.Uint8(4)) + 1
	if srhFixedLen+16*n > len(b) {
		return SRH{}, &nla.ValueError{Field: "ipv6_sr_hdr", Reason: fmt.Sprintf("%d segments don't fit in %d bytes", n, len(b))}
	}

	h := SRH{
		NextHeader:   v.Uint8(0),
		Type:         v.Uint8(2),
		SegmentsLeft: v.Uint8(3),
		Flags:        v.Uint8(5),
		Tag:          v.Uint16BE(6),
		Segments:     make([]netip.Addr, 0, n),
	}
	off := srhFixedLen
	for range n {
		h.Segments = append(h.Segments, netip.AddrFrom16([16]byte(v.Bytes(off, 16))))
		off += 16
	}
	h.TLVs = nla.Bytes(b[off:])
	return h, nil
}

const SEG6_IPTUNNEL_SRH = 1

// Seg6Tunnel is struct seg6_iptunnel_encap.
type Seg6Tunnel struct {
	Mode Seg6Mode
	SRH  SRH
}

func (Seg6Tunnel) Kind() uint16    { return SEG6_IPTUNNEL_SRH }
func (t Seg6Tunnel) ValueLen() int { return 4 + t.SRH.len() }
func (t Seg6Tunnel) EmitValue(b []byte) {
	nla.PutUint32(b, uint32(t.Mode))
	t.SRH.emit(b[4:])
}

func parseSeg6Encap(r nla.Record) (nla.Attribute, error) {
	if r.Kind != SEG6_IPTUNNEL_SRH {
		nla.Notice("route/seg6", r)
		return nla.NewUnknown(r), nil
	}
	v, err := nla.NewViewChecked(r.Value, 4)
	if err != nil {
		return nil, fmt.Errorf("seg6_iptunnel_encap: %w", err)
	}
	srh, err := parseSRH(v.Payload())
	if err != nil {
		return nil, err
	}
	return Seg6Tunnel{Mode: Seg6Mode(v.Uint32(0)), SRH: srh}, nil
}

const (
	SEG6_LOCAL_ACTION   = 1
	SEG6_LOCAL_SRH      = 2
	SEG6_LOCAL_TABLE    = 3
	SEG6_LOCAL_NH4      = 4
	SEG6_LOCAL_NH6      = 5
	SEG6_LOCAL_IIF      = 6
	SEG6_LOCAL_OIF      = 7
	SEG6_LOCAL_BPF      = 8
	SEG6_LOCAL_VRFTABLE = 9
	SEG6_LOCAL_COUNTERS = 10
	SEG6_LOCAL_FLAVORS  = 11
)

// Seg6LocalAction is the SEG6_LOCAL_ACTION_* behaviour of a seg6local
// route.
type Seg6LocalAction uint32

const (
	Seg6LocalUnspec     Seg6LocalAction = 0
	Seg6LocalEnd        Seg6LocalAction = 1
	Seg6LocalEndX       Seg6LocalAction = 2
	Seg6LocalEndT       Seg6LocalAction = 3
	Seg6LocalEndDX2     Seg6LocalAction = 4
	Seg6LocalEndDX6     Seg6LocalAction = 5
	Seg6LocalEndDX4     Seg6LocalAction = 6
	Seg6LocalEndDT6     Seg6LocalAction = 7
	Seg6LocalEndDT4     Seg6LocalAction = 8
	Seg6LocalEndB6      Seg6LocalAction = 9
	Seg6LocalEndB6Encap Seg6LocalAction = 10
	Seg6LocalEndBM      Seg6LocalAction = 11
	Seg6LocalEndS       Seg6LocalAction = 12
	Seg6LocalEndAS      Seg6LocalAction = 13
	Seg6LocalEndAM      Seg6LocalAction = 14
	Seg6LocalEndBPF     Seg6LocalAction = 15
	Seg6LocalEndDT46    Seg6LocalAction = 16
)

// Names as iproute2 prints them.
var seg6LocalActionName = map[Seg6LocalAction]string{
	Seg6LocalUnspec:     "unspec",
	Seg6LocalEnd:        "End",
	Seg6LocalEndX:       "End.X",
	Seg6LocalEndT:       "End.T",
	Seg6LocalEndDX2:     "End.DX2",
	Seg6LocalEndDX6:     "End.DX6",
	Seg6LocalEndDX4:     "End.DX4",
	Seg6LocalEndDT6:     "End.DT6",
	Seg6LocalEndDT4:     "End.DT4",
	Seg6LocalEndB6:      "End.B6",
	Seg6LocalEndB6Encap: "End.B6.Encaps",
	Seg6LocalEndBM:      "End.BM",
	Seg6LocalEndS:       "End.S",
	Seg6LocalEndAS:      "End.AS",
	Seg6LocalEndAM:      "End.AM",
	Seg6LocalEndBPF:     "End.BPF",
	Seg6LocalEndDT46:    "End.DT46",
}

func (a Seg6LocalAction) String() string {
	if n, ok := seg6LocalActionName[a]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_SEG6_LOCAL_ACTION_%d", uint32(a))
}

func (Seg6LocalAction) Kind() uint16         { return SEG6_LOCAL_ACTION }
func (Seg6LocalAction) ValueLen() int        { return 4 }
func (a Seg6LocalAction) EmitValue(b []byte) { nla.PutUint32(b, uint32(a)) }

// Seg6LocalSRH is the header pushed by End.B6 and End.B6.Encaps.
type Seg6LocalSRH SRH

func (Seg6LocalSRH) Kind() uint16         { return SEG6_LOCAL_SRH }
func (h Seg6LocalSRH) ValueLen() int      { return SRH(h).len() }
func (h Seg6LocalSRH) EmitValue(b []byte) { SRH(h).emit(b) }

// Seg6LocalValue holds the u32 attributes: tables and interface indexes.
type Seg6LocalValue struct {
	Type  uint16
	Value uint32
}

func (v Seg6LocalValue) Kind() uint16       { return v.Type }
func (Seg6LocalValue) ValueLen() int        { return 4 }
func (v Seg6LocalValue) EmitValue(b []byte) { nla.PutUint32(b, v.Value) }

// Seg6LocalNextHop is SEG6_LOCAL_NH4 or SEG6_LOCAL_NH6.
type Seg6LocalNextHop netip.Addr

func (h Seg6LocalNextHop) Kind() uint16 {
	if netip.Addr(h).Is4() {
		return SEG6_LOCAL_NH4
	}
	return SEG6_LOCAL_NH6
}
func (h Seg6LocalNextHop) ValueLen() int      { return family.IPLen(netip.Addr(h)) }
func (h Seg6LocalNextHop) EmitValue(b []byte) { family.PutIP(b, netip.Addr(h)) }

func parseSeg6LocalEncap(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case SEG6_LOCAL_ACTION:
		v, err := nla.Uint32(p)
		return Seg6LocalAction(v), err
	case SEG6_LOCAL_SRH:
		h, err := parseSRH(p)
		return Seg6LocalSRH(h), err
	case SEG6_LOCAL_TABLE, SEG6_LOCAL_IIF, SEG6_LOCAL_OIF, SEG6_LOCAL_VRFTABLE:
		v, err := nla.Uint32(p)
		return Seg6LocalValue{Type: r.Kind, Value: v}, err
	case SEG6_LOCAL_NH4, SEG6_LOCAL_NH6:
		f := family.Inet
		if r.Kind == SEG6_LOCAL_NH6 {
			f = family.Inet6
		}
		a, err := family.ParseAddr(f, p)
		return Seg6LocalNextHop(a.IP), err
	case SEG6_LOCAL_BPF, SEG6_LOCAL_COUNTERS, SEG6_LOCAL_FLAVORS:
		return nla.ParseOpaque(r), nil
	}
	nla.Notice("route/seg6local", r)
	return nla.NewUnknown(r), nil
}
