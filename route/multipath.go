package route

import (
	"fmt"

	"github.com/scitags/rtnl-go/nla"
)

// rtnexthopLen is sizeof(struct rtnexthop).
const rtnexthopLen = 8

// NextHop is one hop of a multipath route. Its attributes are route
// attributes, typically a gateway and possibly an encapsulation.
type NextHop struct {
	Flags      NextHopFlags
	Hops       uint8
	Index      uint32
	Attributes []nla.Attribute
}

func (nh NextHop) len() int {
	return rtnexthopLen + nla.ListLen(nh.Attributes)
}

// Multipath is RTA_MULTIPATH.
type Multipath []NextHop

func (Multipath) Kind() uint16 { return RTA_MULTIPATH }

func (m Multipath) ValueLen() int {
	n := 0
	for _, nh := range m {
		n += nla.Align(nh.len())
	}
	return n
}

func (m Multipath) EmitValue(b []byte) {
	off := 0
	for _, nh := range m {
		l := nh.len()
		v := nla.NewView(b[off:], rtnexthopLen)
		v.SetUint16(0, uint16(l))
		v.SetUint8(2, uint8(nh.Flags))
		v.SetUint8(3, nh.Hops)
		v.SetUint32(4, nh.Index)
		nla.EmitList(b[off+rtnexthopLen:], nh.Attributes)
		off += nla.Align(l)
	}
}

func (ctx parseContext) parseMultipath(b []byte) (Multipath, error) {
	var m Multipath
	for off := 0; len(b)-off >= rtnexthopLen; {
		v := nla.NewView(b[off:], rtnexthopLen)
		l := int(v.Uint16(0))
		if l < rtnexthopLen || l > len(b)-off {
			return nil, fmt.Errorf("next hop %d: length %d out of bounds (%d left)", len(m), l, len(b)-off)
		}

		recs, err := nla.Records(b[off+rtnexthopLen : off+l])
		if err != nil {
			return nil, fmt.Errorf("next hop %d: %w", len(m), err)
		}

		// A hop may carry its own encapsulation.
		hctx := ctx
		if r, ok := nla.Find(recs, RTA_ENCAP_TYPE); ok {
			t, err := nla.Uint16(r.Value)
			if err != nil {
				return nil, &nla.ContextError{Selector: "RTA_ENCAP_TYPE", Err: err}
			}
			hctx.encap = EncapType(t)
		}

		attrs, err := nla.ParseRecords(recs, hctx.parse)
		if err != nil {
			return nil, fmt.Errorf("next hop %d: %w", len(m), err)
		}

		m = append(m, NextHop{
			Flags:      NextHopFlags(v.Uint8(2)),
			Hops:       v.Uint8(3),
			Index:      v.Uint32(4),
			Attributes: attrs,
		})

		off += nla.Align(l)
	}
	return m, nil
}
