package nexthop

import (
	"fmt"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
	"github.com/scitags/rtnl-go/route"
)

// All of these constants' names make the linter complain, but we inherited
// these names from the kernel's uapi headers, so we will keep them.
const (
	NHA_UNSPEC          = 0
	NHA_ID              = 1
	NHA_GROUP           = 2
	NHA_GROUP_TYPE      = 3
	NHA_BLACKHOLE       = 4
	NHA_OIF             = 5
	NHA_GATEWAY         = 6
	NHA_ENCAP_TYPE      = 7
	NHA_ENCAP           = 8
	NHA_GROUPS          = 9
	NHA_MASTER          = 10
	NHA_FDB             = 11
	NHA_RES_GROUP       = 12
	NHA_RES_BUCKET      = 13
	NHA_OP_FLAGS        = 14
	NHA_GROUP_STATS     = 15
	NHA_HW_STATS_ENABLE = 16
	NHA_HW_STATS_USED   = 17
)

type parser struct {
	family family.Family
	encap  route.EncapType
}

type (
	ID              uint32
	OutputInterface uint32
	// Controller is the index of the VRF or bridge the nexthop belongs to.
	// Only used as a dump filter.
	Controller uint32
)

func (ID) Kind() uint16         { return NHA_ID }
func (ID) ValueLen() int        { return 4 }
func (i ID) EmitValue(b []byte) { nla.PutUint32(b, uint32(i)) }

func (OutputInterface) Kind() uint16         { return NHA_OIF }
func (OutputInterface) ValueLen() int        { return 4 }
func (i OutputInterface) EmitValue(b []byte) { nla.PutUint32(b, uint32(i)) }

func (Controller) Kind() uint16         { return NHA_MASTER }
func (Controller) ValueLen() int        { return 4 }
func (i Controller) EmitValue(b []byte) { nla.PutUint32(b, uint32(i)) }

// Flag is one of the empty marker attributes: NHA_BLACKHOLE, NHA_GROUPS or
// NHA_FDB.
type Flag uint16

func (f Flag) Kind() uint16   { return uint16(f) }
func (Flag) ValueLen() int    { return 0 }
func (Flag) EmitValue([]byte) {}

var (
	Blackhole = Flag(NHA_BLACKHOLE)
	Groups    = Flag(NHA_GROUPS)
	FDB       = Flag(NHA_FDB)
)

// Gateway is sized after the header family.
type Gateway family.Addr

func (Gateway) Kind() uint16         { return NHA_GATEWAY }
func (g Gateway) ValueLen() int      { return family.Addr(g).Len() }
func (g Gateway) EmitValue(b []byte) { family.Addr(g).Put(b) }

// GroupType is the NEXTHOP_GRP_TYPE_* of a group.
type GroupType uint16

const (
	GroupMultipath GroupType = 0
	GroupResilient GroupType = 1
)

var groupTypeName = map[GroupType]string{
	GroupMultipath: "mpath",
	GroupResilient: "resilient",
}

func (t GroupType) String() string {
	if n, ok := groupTypeName[t]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_GROUP_TYPE_%d", uint16(t))
}

func (GroupType) Kind() uint16         { return NHA_GROUP_TYPE }
func (GroupType) ValueLen() int        { return 2 }
func (t GroupType) EmitValue(b []byte) { nla.PutUint16(b, uint16(t)) }

const groupEntryLen = 8

// GroupEntry is struct nexthop_grp. The kernel stores weight-1 in Weight
// and WeightHigh.
type GroupEntry struct {
	ID         uint32
	Weight     uint8
	WeightHigh uint8
	Reserved   uint16
}

// Group lists the members of a nexthop group.
type Group []GroupEntry

func (Group) Kind() uint16    { return NHA_GROUP }
func (g Group) ValueLen() int { return groupEntryLen * len(g) }
func (g Group) EmitValue(b []byte) {
	v := nla.NewView(b, g.ValueLen())
	for i, e := range g {
		off := groupEntryLen * i
		v.SetUint32(off, e.ID)
		v.SetUint8(off+4, e.Weight)
		v.SetUint8(off+5, e.WeightHigh)
		v.SetUint16(off+6, e.Reserved)
	}
}

func parseGroup(b []byte) (Group, error) {
	if len(b)%groupEntryLen != 0 {
		return nil, &nla.ValueError{Field: "nexthop_grp", Reason: fmt.Sprintf("%d bytes isn't a whole number of entries", len(b))}
	}
	v := nla.NewView(b, 0)
	g := make(Group, 0, len(b)/groupEntryLen)
	for off := 0; off < len(b); off += groupEntryLen {
		g = append(g, GroupEntry{
			ID:         v.Uint32(off),
			Weight:     v.Uint8(off + 4),
			WeightHigh: v.Uint8(off + 5),
			Reserved:   v.Uint16(off + 6),
		})
	}
	return g, nil
}

type EncapType route.EncapType

func (EncapType) Kind() uint16         { return NHA_ENCAP_TYPE }
func (EncapType) ValueLen() int        { return 2 }
func (t EncapType) EmitValue(b []byte) { nla.PutUint16(b, uint16(t)) }
func (t EncapType) String() string     { return route.EncapType(t).String() }

// Encap is decoded according to the sibling NHA_ENCAP_TYPE with the same
// decoders routes use for RTA_ENCAP.
type Encap []nla.Attribute

func (Encap) Kind() uint16         { return NHA_ENCAP }
func (e Encap) ValueLen() int      { return nla.ListLen(e) }
func (e Encap) EmitValue(b []byte) { nla.EmitList(b, e) }

func (ctx parser) parseAttribute(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case NHA_ID:
		v, err := nla.Uint32(p)
		return ID(v), err
	case NHA_GROUP:
		return parseGroup(p)
	case NHA_GROUP_TYPE:
		v, err := nla.Uint16(p)
		return GroupType(v), err
	case NHA_BLACKHOLE, NHA_GROUPS, NHA_FDB:
		if len(p) == 0 {
			return Flag(r.Kind), nil
		}
	case NHA_OIF:
		v, err := nla.Uint32(p)
		return OutputInterface(v), err
	case NHA_GATEWAY:
		a, err := family.ParseAddr(ctx.family, p)
		return Gateway(a), err
	case NHA_ENCAP_TYPE:
		return EncapType(ctx.encap), nil
	case NHA_ENCAP:
		fn := route.EncapParser(ctx.encap)
		if fn == nil {
			return nla.ParseOpaque(r), nil
		}
		l, err := nla.ParseList(p, fn)
		if err != nil {
			return nil, fmt.Errorf("%s encap: %w", ctx.encap, err)
		}
		return Encap(l), nil
	case NHA_MASTER:
		v, err := nla.Uint32(p)
		return Controller(v), err
	case NHA_RES_GROUP, NHA_RES_BUCKET, NHA_GROUP_STATS:
		return nla.ParseOpaque(r), nil
	}
	nla.Notice("nexthop", r)
	return nla.NewUnknown(r), nil
}
