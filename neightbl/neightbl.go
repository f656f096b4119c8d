// Package neightbl implements the ndtmsg family: RTM_NEWNEIGHTBL,
// RTM_GETNEIGHTBL and RTM_SETNEIGHTBL.
package neightbl

import (
	"fmt"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
)

// All of these constants' names make the linter complain, but we inherited
// these names from the kernel's uapi headers, so we will keep them.
const (
	NDTA_UNSPEC      = 0
	NDTA_NAME        = 1
	NDTA_THRESH1     = 2
	NDTA_THRESH2     = 3
	NDTA_THRESH3     = 4
	NDTA_CONFIG      = 5
	NDTA_PARMS       = 6
	NDTA_STATS       = 7
	NDTA_GC_INTERVAL = 8
)

// HeaderLen is sizeof(struct ndtmsg).
const HeaderLen = 4

type Header struct {
	Family family.Family
}

type Message struct {
	Header     Header
	Attributes []nla.Attribute
}

func (m *Message) Len() int {
	return HeaderLen + nla.ListLen(m.Attributes)
}

func (m *Message) Emit(b []byte) {
	v := nla.NewView(b, HeaderLen)
	v.SetUint8(0, uint8(m.Header.Family))
	v.SetUint8(1, 0)
	v.SetUint16(2, 0)
	nla.EmitList(b[HeaderLen:], m.Attributes)
}

func (m *Message) MarshalBinary() ([]byte, error) {
	b := make([]byte, m.Len())
	m.Emit(b)
	return b, nil
}

func (m *Message) UnmarshalBinary(b []byte) error {
	v, err := nla.NewViewChecked(b, HeaderLen)
	if err != nil {
		return fmt.Errorf("neighbour table header: %w", err)
	}
	m.Header.Family = family.Family(v.Uint8(0))

	m.Attributes, err = nla.ParseList(v.Payload(), parseAttribute)
	if err != nil {
		return fmt.Errorf("neighbour table attributes: %w", err)
	}
	return nil
}

// Name is the table name, e.g. "arp_cache" or "ndisc_cache".
type Name string

func (Name) Kind() uint16         { return NDTA_NAME }
func (n Name) ValueLen() int      { return len(n) + 1 }
func (n Name) EmitValue(b []byte) { nla.PutString(b, string(n)) }

// Threshold is one of the three garbage collection thresholds.
type Threshold struct {
	Type  uint16
	Value uint32
}

func (t Threshold) Kind() uint16       { return t.Type }
func (Threshold) ValueLen() int        { return 4 }
func (t Threshold) EmitValue(b []byte) { nla.PutUint32(b, t.Value) }

// GCInterval is in milliseconds.
type GCInterval uint64

func (GCInterval) Kind() uint16         { return NDTA_GC_INTERVAL }
func (GCInterval) ValueLen() int        { return 8 }
func (i GCInterval) EmitValue(b []byte) { nla.PutUint64(b, uint64(i)) }

const configLen = 32

// Config mirrors struct ndt_config.
type Config struct {
	KeyLen      uint16
	EntrySize   uint16
	Entries     uint32
	LastFlush   uint32
	LastRand    uint32
	HashRnd     uint32
	HashMask    uint32
	HashChainGC uint32
	ProxyQLen   uint32
}

func (Config) Kind() uint16  { return NDTA_CONFIG }
func (Config) ValueLen() int { return configLen }
func (c Config) EmitValue(b []byte) {
	v := nla.NewView(b, configLen)
	v.SetUint16(0, c.KeyLen)
	v.SetUint16(2, c.EntrySize)
	v.SetUint32(4, c.Entries)
	v.SetUint32(8, c.LastFlush)
	v.SetUint32(12, c.LastRand)
	v.SetUint32(16, c.HashRnd)
	v.SetUint32(20, c.HashMask)
	v.SetUint32(24, c.HashChainGC)
	v.SetUint32(28, c.ProxyQLen)
}

func parseConfig(b []byte) (Config, error) {
	if len(b) != configLen {
		return Config{}, &nla.ValueError{Field: "ndt_config", Reason: fmt.Sprintf("got %d bytes; want %d", len(b), configLen)}
	}
	v := nla.NewView(b, configLen)
	return Config{
		KeyLen:      v.Uint16(0),
		EntrySize:   v.Uint16(2),
		Entries:     v.Uint32(4),
		LastFlush:   v.Uint32(8),
		LastRand:    v.Uint32(12),
		HashRnd:     v.Uint32(16),
		HashMask:    v.Uint32(20),
		HashChainGC: v.Uint32(24),
		ProxyQLen:   v.Uint32(28),
	}, nil
}

const statsLen = 88

// Stats mirrors struct ndt_stats.
type Stats struct {
	Allocs         uint64
	Destroys       uint64
	HashGrows      uint64
	ResFailed      uint64
	Lookups        uint64
	Hits           uint64
	RcvProbesMcast uint64
	RcvProbesUcast uint64
	PeriodicGCRuns uint64
	ForcedGCRuns   uint64
	TableFulls     uint64
}

func (s *Stats) fields() []*uint64 {
	return []*uint64{
		&s.Allocs, &s.Destroys, &s.HashGrows, &s.ResFailed, &s.Lookups, &s.Hits,
		&s.RcvProbesMcast, &s.RcvProbesUcast, &s.PeriodicGCRuns, &s.ForcedGCRuns, &s.TableFulls,
	}
}

func (Stats) Kind() uint16  { return NDTA_STATS }
func (Stats) ValueLen() int { return statsLen }
func (s Stats) EmitValue(b []byte) {
	v := nla.NewView(b, statsLen)
	for i, f := range s.fields() {
		v.SetUint64(8*i, *f)
	}
}

func parseStats(b []byte) (Stats, error) {
	var s Stats
	if len(b) != statsLen {
		return s, &nla.ValueError{Field: "ndt_stats", Reason: fmt.Sprintf("got %d bytes; want %d", len(b), statsLen)}
	}
	v := nla.NewView(b, statsLen)
	for i, f := range s.fields() {
		*f = v.Uint64(8 * i)
	}
	return s, nil
}

func parseAttribute(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case NDTA_NAME:
		s, err := nla.String(p)
		return Name(s), err
	case NDTA_THRESH1, NDTA_THRESH2, NDTA_THRESH3:
		v, err := nla.Uint32(p)
		return Threshold{Type: r.Kind, Value: v}, err
	case NDTA_GC_INTERVAL:
		v, err := nla.Uint64(p)
		return GCInterval(v), err
	case NDTA_CONFIG:
		return parseConfig(p)
	case NDTA_STATS:
		return parseStats(p)
	case NDTA_PARMS:
		l, err := nla.ParseList(p, parseParam)
		return Parms(l), err
	}
	nla.Notice("neightbl", r)
	return nla.NewUnknown(r), nil
}
