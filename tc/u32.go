package tc

import (
	"fmt"

	"github.com/scitags/rtnl-go/nla"
)

const (
	TCA_U32_UNSPEC  = 0
	TCA_U32_CLASSID = 1
	TCA_U32_HASH    = 2
	TCA_U32_LINK    = 3
	TCA_U32_DIVISOR = 4
	TCA_U32_SEL     = 5
	TCA_U32_POLICE  = 6
	TCA_U32_ACT     = 7
	TCA_U32_INDEV   = 8
	TCA_U32_PCNT    = 9
	TCA_U32_MARK    = 10
	TCA_U32_FLAGS   = 11
)

// ClassID is the class a classifier sends matching packets to.
type ClassID struct {
	Type  uint16
	Value Handle
}

func (c ClassID) Kind() uint16       { return c.Type }
func (ClassID) ValueLen() int        { return 4 }
func (c ClassID) EmitValue(b []byte) { nla.PutUint32(b, uint32(c.Value)) }

// FilterFlags are the TCA_CLS_FLAGS_* bits shared by classifiers.
type FilterFlags uint32

const (
	FilterSkipHW  FilterFlags = 1 << 0
	FilterSkipSW  FilterFlags = 1 << 1
	FilterInHW    FilterFlags = 1 << 2
	FilterNotInHW FilterFlags = 1 << 3
	FilterVerbose FilterFlags = 1 << 4
)

var filterFlagName = map[FilterFlags]string{
	FilterSkipHW:  "skip_hw",
	FilterSkipSW:  "skip_sw",
	FilterInHW:    "in_hw",
	FilterNotInHW: "not_in_hw",
	FilterVerbose: "verbose",
}

func (f FilterFlags) Known() FilterFlags     { return nla.KnownBits(f, filterFlagName) }
func (f FilterFlags) Remainder() FilterFlags { return f &^ f.Known() }
func (f FilterFlags) String() string         { return nla.FlagString(f, filterFlagName) }

// Flags carries FilterFlags under the classifier's own kind.
type Flags struct {
	Type  uint16
	Value FilterFlags
}

func (f Flags) Kind() uint16       { return f.Type }
func (Flags) ValueLen() int        { return 4 }
func (f Flags) EmitValue(b []byte) { nla.PutUint32(b, uint32(f.Value)) }

// U32Value is the hash table, link or divisor of a u32 filter.
type U32Value struct {
	Type  uint16
	Value uint32
}

func (u U32Value) Kind() uint16       { return u.Type }
func (U32Value) ValueLen() int        { return 4 }
func (u U32Value) EmitValue(b []byte) { nla.PutUint32(b, u.Value) }

// U32SelectorFlags are the TC_U32_* selector bits.
type U32SelectorFlags uint8

const (
	U32Terminal  U32SelectorFlags = 1 << 0
	U32Offset    U32SelectorFlags = 1 << 1
	U32VarOffset U32SelectorFlags = 1 << 2
	U32Eat       U32SelectorFlags = 1 << 3
)

var u32SelectorFlagName = map[U32SelectorFlags]string{
	U32Terminal:  "terminal",
	U32Offset:    "offset",
	U32VarOffset: "varoffset",
	U32Eat:       "eat",
}

func (f U32SelectorFlags) Known() U32SelectorFlags { return nla.KnownBits(f, u32SelectorFlagName) }
func (f U32SelectorFlags) Remainder() U32SelectorFlags {
	return f &^ f.Known()
}
func (f U32SelectorFlags) String() string { return nla.FlagString(f, u32SelectorFlagName) }

const (
	u32SelectorLen = 16
	u32KeyLen      = 16
)

// U32Key is struct tc_u32_key. Mask and Value are kept in network order
// as the kernel compares them against packet bytes.
type U32Key struct {
	Mask    uint32
	Value   uint32
	Off     int32
	OffMask int32
}

// U32Selector is struct tc_u32_sel followed by its keys. The key count on
// the wire is len(Keys).
type U32Selector struct {
	Flags    U32SelectorFlags
	OffShift uint8
	OffMask  uint16
	Off      uint16
	OffOff   int16
	HOff     int16
	HMask    uint32
	Keys     []U32Key
}

func (U32Selector) Kind() uint16    { return TCA_U32_SEL }
func (s U32Selector) ValueLen() int { return u32SelectorLen + u32KeyLen*len(s.Keys) }
func (s U32Selector) EmitValue(b []byte) {
	v := nla.NewView(b, s.ValueLen())
	v.SetUint8(0, uint8(s.Flags))
	v.SetUint8(1, s.OffShift)
	v.SetUint8(2, uint8(len(s.Keys)))
	v.SetUint8(3, 0)
	v.SetUint16BE(4, s.OffMask)
	v.SetUint16(6, s.Off)
	v.SetUint16(8, uint16(s.OffOff))
	v.SetUint16(10, uint16(s.HOff))
	v.SetUint32BE(12, s.HMask)
	for i, k := range s.Keys {
		off := u32SelectorLen + u32KeyLen*i
		v.SetUint32BE(off, k.Mask)
		v.SetUint32BE(off+4, k.Value)
		v.SetInt32(off+8, k.Off)
		v.SetInt32(off+12, k.OffMask)
	}
}

func parseU32Selector(b []byte) (U32Selector, error) {
	v, err := nla.NewViewChecked(b, u32SelectorLen)
	if err != nil {
		return U32Selector{}, err
	}
	n := int(v.Uint8(2))
	if want := u32SelectorLen + u32KeyLen*n; len(b) != want {
		return U32Selector{}, &nla.ValueError{Field: "tc_u32_sel", Reason: fmt.Sprintf("%d keys need %d bytes; got %d", n, want, len(b))}
	}
	s := U32Selector{
		Flags:    U32SelectorFlags(v.Uint8(0)),
		OffShift: v.Uint8(1),
		OffMask:  v.Uint16BE(4),
		Off:      v.Uint16(6),
		OffOff:   int16(v.Uint16(8)),
		HOff:     int16(v.Uint16(10)),
		HMask:    v.Uint32BE(12),
	}
	if n > 0 {
		s.Keys = make([]U32Key, n)
	}
	for i := range s.Keys {
		off := u32SelectorLen + u32KeyLen*i
		s.Keys[i] = U32Key{
			Mask:    v.Uint32BE(off),
			Value:   v.Uint32BE(off + 4),
			Off:     v.Int32(off + 8),
			OffMask: v.Int32(off + 12),
		}
	}
	return s, nil
}

// U32InDev restricts the filter to packets received on the named device.
type U32InDev string

func (U32InDev) Kind() uint16         { return TCA_U32_INDEV }
func (d U32InDev) ValueLen() int      { return len(d) + 1 }
func (d U32InDev) EmitValue(b []byte) { nla.PutString(b, string(d)) }

// U32Counters is struct tc_u32_pcnt: lookups and hits followed by one
// hit counter per key.
type U32Counters struct {
	Lookups uint64
	Hits    uint64
	KeyHits []uint64
}

func (U32Counters) Kind() uint16    { return TCA_U32_PCNT }
func (c U32Counters) ValueLen() int { return 16 + 8*len(c.KeyHits) }
func (c U32Counters) EmitValue(b []byte) {
	v := nla.NewView(b, c.ValueLen())
	v.SetUint64(0, c.Lookups)
	v.SetUint64(8, c.Hits)
	for i, h := range c.KeyHits {
		v.SetUint64(16+8*i, h)
	}
}

func parseU32Counters(b []byte) (U32Counters, error) {
	if len(b) < 16 || len(b)%8 != 0 {
		return U32Counters{}, &nla.ValueError{Field: "tc_u32_pcnt", Reason: fmt.Sprintf("%d bytes isn't a whole number of counters", len(b))}
	}
	v := nla.NewView(b, 16)
	c := U32Counters{Lookups: v.Uint64(0), Hits: v.Uint64(8)}
	for off := 16; off < len(b); off += 8 {
		c.KeyHits = append(c.KeyHits, v.Uint64(off))
	}
	return c, nil
}

const u32MarkLen = 12

// U32Mark is struct tc_u32_mark.
type U32Mark struct {
	Value   uint32
	Mask    uint32
	Success uint32
}

func (U32Mark) Kind() uint16  { return TCA_U32_MARK }
func (U32Mark) ValueLen() int { return u32MarkLen }
func (m U32Mark) EmitValue(b []byte) {
	v := nla.NewView(b, u32MarkLen)
	v.SetUint32(0, m.Value)
	v.SetUint32(4, m.Mask)
	v.SetUint32(8, m.Success)
}

func parseU32(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case TCA_U32_CLASSID:
		v, err := nla.Uint32(p)
		return ClassID{Type: r.Kind, Value: Handle(v)}, err
	case TCA_U32_HASH, TCA_U32_LINK, TCA_U32_DIVISOR:
		v, err := nla.Uint32(p)
		return U32Value{Type: r.Kind, Value: v}, err
	case TCA_U32_SEL:
		return parseU32Selector(p)
	case TCA_U32_POLICE:
		return nla.ParseOpaque(r), nil
	case TCA_U32_ACT:
		return parseActions(r)
	case TCA_U32_INDEV:
		s, err := nla.String(p)
		return U32InDev(s), err
	case TCA_U32_PCNT:
		return parseU32Counters(p)
	case TCA_U32_MARK:
		v, err := nla.Fixed(p, u32MarkLen, "tc_u32_mark")
		if err != nil {
			return nil, err
		}
		return U32Mark{Value: v.Uint32(0), Mask: v.Uint32(4), Success: v.Uint32(8)}, nil
	case TCA_U32_FLAGS:
		v, err := nla.Uint32(p)
		return Flags{Type: r.Kind, Value: FilterFlags(v)}, err
	}
	nla.Notice("tc/u32", r)
	return nla.NewUnknown(r), nil
}
