package route

import (
	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
)

// Address valued attributes. Their encoding depends on the header family.
type (
	Destination family.Addr
	Source      family.Addr
	Gateway     family.Addr
	PrefSource  family.Addr
)

func (Destination) Kind() uint16         { return RTA_DST }
func (a Destination) ValueLen() int      { return family.Addr(a).Len() }
func (a Destination) EmitValue(b []byte) { family.Addr(a).Put(b) }

func (Source) Kind() uint16         { return RTA_SRC }
func (a Source) ValueLen() int      { return family.Addr(a).Len() }
func (a Source) EmitValue(b []byte) { family.Addr(a).Put(b) }

func (Gateway) Kind() uint16         { return RTA_GATEWAY }
func (a Gateway) ValueLen() int      { return family.Addr(a).Len() }
func (a Gateway) EmitValue(b []byte) { family.Addr(a).Put(b) }

func (PrefSource) Kind() uint16         { return RTA_PREFSRC }
func (a PrefSource) ValueLen() int      { return family.Addr(a).Len() }
func (a PrefSource) EmitValue(b []byte) { family.Addr(a).Put(b) }

// Four byte scalars.
type (
	InputInterface  uint32
	OutputInterface uint32
	Priority        uint32
	TableID         uint32
	Mark            uint32
	UID             uint32
	Expires         uint32
)

func (InputInterface) Kind() uint16         { return RTA_IIF }
func (InputInterface) ValueLen() int        { return 4 }
func (v InputInterface) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (OutputInterface) Kind() uint16         { return RTA_OIF }
func (OutputInterface) ValueLen() int        { return 4 }
func (v OutputInterface) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (Priority) Kind() uint16         { return RTA_PRIORITY }
func (Priority) ValueLen() int        { return 4 }
func (v Priority) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (TableID) Kind() uint16         { return RTA_TABLE }
func (TableID) ValueLen() int        { return 4 }
func (v TableID) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (Mark) Kind() uint16         { return RTA_MARK }
func (Mark) ValueLen() int        { return 4 }
func (v Mark) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (UID) Kind() uint16         { return RTA_UID }
func (UID) ValueLen() int        { return 4 }
func (v UID) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (Expires) Kind() uint16         { return RTA_EXPIRES }
func (Expires) ValueLen() int        { return 4 }
func (v Expires) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

// MulticastExpires is RTA_EXPIRES on multicast routes, where the kernel
// reports a 64 bit value.
type MulticastExpires uint64

func (MulticastExpires) Kind() uint16         { return RTA_EXPIRES }
func (MulticastExpires) ValueLen() int        { return 8 }
func (v MulticastExpires) EmitValue(b []byte) { nla.PutUint64(b, uint64(v)) }

func (Preference) Kind() uint16         { return RTA_PREF }
func (Preference) ValueLen() int        { return 1 }
func (p Preference) EmitValue(b []byte) { b[0] = uint8(p) }

func (TTLPropagation) Kind() uint16         { return RTA_TTL_PROPAGATE }
func (TTLPropagation) ValueLen() int        { return 1 }
func (t TTLPropagation) EmitValue(b []byte) { b[0] = uint8(t) }

func (EncapType) Kind() uint16         { return RTA_ENCAP_TYPE }
func (EncapType) ValueLen() int        { return 2 }
func (t EncapType) EmitValue(b []byte) { nla.PutUint16(b, uint16(t)) }

// Realm is RTA_FLOW: the source realm sits in the upper 16 bits.
type Realm struct {
	Source      uint16
	Destination uint16
}

func (Realm) Kind() uint16  { return RTA_FLOW }
func (Realm) ValueLen() int { return 4 }
func (r Realm) EmitValue(b []byte) {
	nla.PutUint32(b, uint32(r.Source)<<16|uint32(r.Destination))
}

const cacheInfoLen = 32

// CacheInfo mirrors struct rta_cacheinfo.
type CacheInfo struct {
	ClntRef uint32
	LastUse uint32
	Expires int32
	Error   uint32
	Used    uint32
	ID      uint32
	TS      uint32
	TSAge   uint32
}

func (CacheInfo) Kind() uint16  { return RTA_CACHEINFO }
func (CacheInfo) ValueLen() int { return cacheInfoLen }
func (c CacheInfo) EmitValue(b []byte) {
	v := nla.NewView(b, cacheInfoLen)
	v.SetUint32(0, c.ClntRef)
	v.SetUint32(4, c.LastUse)
	v.SetInt32(8, c.Expires)
	v.SetUint32(12, c.Error)
	v.SetUint32(16, c.Used)
	v.SetUint32(20, c.ID)
	v.SetUint32(24, c.TS)
	v.SetUint32(28, c.TSAge)
}

func parseCacheInfo(b []byte) (CacheInfo, error) {
	v, err := nla.Fixed(b, cacheInfoLen, "rta_cacheinfo")
	if err != nil {
		return CacheInfo{}, err
	}
	return CacheInfo{
		ClntRef: v.Uint32(0),
		LastUse: v.Uint32(4),
		Expires: v.Int32(8),
		Error:   v.Uint32(12),
		Used:    v.Uint32(16),
		ID:      v.Uint32(20),
		TS:      v.Uint32(24),
		TSAge:   v.Uint32(28),
	}, nil
}

const mfcStatsLen = 24

// MfcStats mirrors struct rta_mfc_stats.
type MfcStats struct {
	Packets uint64
	Bytes   uint64
	WrongIf uint64
}

func (MfcStats) Kind() uint16  { return RTA_MFC_STATS }
func (MfcStats) ValueLen() int { return mfcStatsLen }
func (s MfcStats) EmitValue(b []byte) {
	v := nla.NewView(b, mfcStatsLen)
	v.SetUint64(0, s.Packets)
	v.SetUint64(8, s.Bytes)
	v.SetUint64(16, s.WrongIf)
}

// Via is RTA_VIA: a gateway in a family other than the route's own.
type Via struct {
	Family  family.Family
	Address family.Addr
}

func (Via) Kind() uint16    { return RTA_VIA }
func (v Via) ValueLen() int { return 2 + v.Address.Len() }
func (v Via) EmitValue(b []byte) {
	// The kernel's rtvia carries a 16 bit family.
	nla.PutUint16(b, uint16(v.Family))
	v.Address.Put(b[2:])
}

func parseVia(b []byte) (Via, error) {
	if len(b) < 2 {
		return Via{}, &nla.LengthError{Field: "rtvia", Want: 2, Have: len(b)}
	}
	f := family.Family(nla.NewView(b, 2).Uint16(0))
	addr, err := family.ParseAddr(f, b[2:])
	if err != nil {
		return Via{}, err
	}
	return Via{Family: f, Address: addr}, nil
}

// NewDestination is RTA_NEWDST, an MPLS label stack.
type NewDestination []MPLSLabel

func (NewDestination) Kind() uint16         { return RTA_NEWDST }
func (d NewDestination) ValueLen() int      { return 4 * len(d) }
func (d NewDestination) EmitValue(b []byte) { putLabels(b, d) }

// parseContext.parse is the flat dispatch for route attributes.
func (ctx parseContext) parse(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case RTA_DST, RTA_SRC, RTA_GATEWAY, RTA_PREFSRC:
		addr, err := family.ParseAddr(ctx.family, p)
		if err != nil {
			return nil, err
		}
		switch r.Kind {
		case RTA_DST:
			return Destination(addr), nil
		case RTA_SRC:
			return Source(addr), nil
		case RTA_GATEWAY:
			return Gateway(addr), nil
		}
		return PrefSource(addr), nil
	case RTA_IIF, RTA_OIF, RTA_PRIORITY, RTA_TABLE, RTA_MARK, RTA_UID:
		v, err := nla.Uint32(p)
		if err != nil {
			return nil, err
		}
		switch r.Kind {
		case RTA_IIF:
			return InputInterface(v), nil
		case RTA_OIF:
			return OutputInterface(v), nil
		case RTA_PRIORITY:
			return Priority(v), nil
		case RTA_TABLE:
			return TableID(v), nil
		case RTA_MARK:
			return Mark(v), nil
		}
		return UID(v), nil
	case RTA_EXPIRES:
		if ctx.typ == TypeMulticast {
			v, err := nla.Uint64(p)
			return MulticastExpires(v), err
		}
		v, err := nla.Uint32(p)
		return Expires(v), err
	case RTA_FLOW:
		v, err := nla.Uint32(p)
		return Realm{Source: uint16(v >> 16), Destination: uint16(v)}, err
	case RTA_CACHEINFO:
		return parseCacheInfo(p)
	case RTA_MFC_STATS:
		v, err := nla.Fixed(p, mfcStatsLen, "rta_mfc_stats")
		if err != nil {
			return nil, err
		}
		return MfcStats{Packets: v.Uint64(0), Bytes: v.Uint64(8), WrongIf: v.Uint64(16)}, nil
	case RTA_VIA:
		return parseVia(p)
	case RTA_NEWDST:
		l, err := parseLabels(p)
		return NewDestination(l), err
	case RTA_PREF:
		v, err := nla.Uint8(p)
		return Preference(v), err
	case RTA_TTL_PROPAGATE:
		v, err := nla.Uint8(p)
		return TTLPropagation(v), err
	case RTA_ENCAP_TYPE:
		v, err := nla.Uint16(p)
		return EncapType(v), err
	case RTA_ENCAP:
		return parseEncap(r, ctx.encap)
	case RTA_METRICS:
		return parseMetrics(p)
	case RTA_MULTIPATH:
		return ctx.parseMultipath(p)
	}

	nla.Notice("route", r)
	return nla.NewUnknown(r), nil
}
