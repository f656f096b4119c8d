package tc

import (
	"fmt"

	"github.com/scitags/rtnl-go/nla"
)

const (
	TCA_FQ_CODEL_UNSPEC                = 0
	TCA_FQ_CODEL_TARGET                = 1
	TCA_FQ_CODEL_LIMIT                 = 2
	TCA_FQ_CODEL_INTERVAL              = 3
	TCA_FQ_CODEL_ECN                   = 4
	TCA_FQ_CODEL_FLOWS                 = 5
	TCA_FQ_CODEL_QUANTUM               = 6
	TCA_FQ_CODEL_CE_THRESHOLD          = 7
	TCA_FQ_CODEL_DROP_BATCH_SIZE       = 8
	TCA_FQ_CODEL_MEMORY_LIMIT          = 9
	TCA_FQ_CODEL_CE_THRESHOLD_SELECTOR = 10
	TCA_FQ_CODEL_CE_THRESHOLD_MASK     = 11
)

var fqCodelOptionName = map[uint16]string{
	TCA_FQ_CODEL_TARGET:                "target",
	TCA_FQ_CODEL_LIMIT:                 "limit",
	TCA_FQ_CODEL_INTERVAL:              "interval",
	TCA_FQ_CODEL_ECN:                   "ecn",
	TCA_FQ_CODEL_FLOWS:                 "flows",
	TCA_FQ_CODEL_QUANTUM:               "quantum",
	TCA_FQ_CODEL_CE_THRESHOLD:          "ce_threshold",
	TCA_FQ_CODEL_DROP_BATCH_SIZE:       "drop_batch",
	TCA_FQ_CODEL_MEMORY_LIMIT:          "memory_limit",
	TCA_FQ_CODEL_CE_THRESHOLD_SELECTOR: "ce_threshold_selector",
	TCA_FQ_CODEL_CE_THRESHOLD_MASK:     "ce_threshold_mask",
}

// FQCodelOption is one of the u32 fq_codel options. Times are in
// microseconds.
type FQCodelOption struct {
	Type  uint16
	Value uint32
}

func (o FQCodelOption) Kind() uint16       { return o.Type }
func (FQCodelOption) ValueLen() int        { return 4 }
func (o FQCodelOption) EmitValue(b []byte) { nla.PutUint32(b, o.Value) }

func (o FQCodelOption) String() string {
	return fmt.Sprintf("%s %d", fqCodelOptionName[o.Type], o.Value)
}

// FQCodelCEThreshold8 is the u8 selector or mask narrowing which packets
// the CE threshold applies to.
type FQCodelCEThreshold8 struct {
	Type  uint16
	Value uint8
}

func (o FQCodelCEThreshold8) Kind() uint16       { return o.Type }
func (FQCodelCEThreshold8) ValueLen() int        { return 1 }
func (o FQCodelCEThreshold8) EmitValue(b []byte) { b[0] = o.Value }

func parseFQCodel(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case TCA_FQ_CODEL_TARGET, TCA_FQ_CODEL_LIMIT, TCA_FQ_CODEL_INTERVAL, TCA_FQ_CODEL_ECN,
		TCA_FQ_CODEL_FLOWS, TCA_FQ_CODEL_QUANTUM, TCA_FQ_CODEL_CE_THRESHOLD,
		TCA_FQ_CODEL_DROP_BATCH_SIZE, TCA_FQ_CODEL_MEMORY_LIMIT:
		v, err := nla.Uint32(p)
		return FQCodelOption{Type: r.Kind, Value: v}, err
	case TCA_FQ_CODEL_CE_THRESHOLD_SELECTOR, TCA_FQ_CODEL_CE_THRESHOLD_MASK:
		v, err := nla.Uint8(p)
		return FQCodelCEThreshold8{Type: r.Kind, Value: v}, err
	}
	nla.Notice("tc/fq_codel", r)
	return nla.NewUnknown(r), nil
}

const (
	TCA_FQ_CODEL_XSTATS_QDISC = 0
	TCA_FQ_CODEL_XSTATS_CLASS = 1
)

// fqCodelXStatsLen is sizeof(struct tc_fq_codel_xstats): the type word
// followed by the larger of the two union members.
const fqCodelXStatsLen = 40

// FQCodelQdiscStats is struct tc_fq_codel_qd_stats.
type FQCodelQdiscStats struct {
	MaxPacket      uint32
	DropOverlimit  uint32
	ECNMark        uint32
	NewFlowCount   uint32
	NewFlowsLen    uint32
	OldFlowsLen    uint32
	CEMark         uint32
	MemoryUsage    uint32
	DropOvermemory uint32
}

func (s *FQCodelQdiscStats) fields() []*uint32 {
	return []*uint32{
		&s.MaxPacket, &s.DropOverlimit, &s.ECNMark, &s.NewFlowCount, &s.NewFlowsLen,
		&s.OldFlowsLen, &s.CEMark, &s.MemoryUsage, &s.DropOvermemory,
	}
}

// FQCodelClassStats is struct tc_fq_codel_cl_stats.
type FQCodelClassStats struct {
	Deficit   int32
	LDelay    uint32
	Count     uint32
	LastCount uint32
	Dropping  uint32
	DropNext  int32
}

// FQCodelXStats is struct tc_fq_codel_xstats. Exactly one of Qdisc and
// Class is set. It's found as TCA_XSTATS and as TCA_STATS_APP, which share
// their kind.
type FQCodelXStats struct {
	Qdisc *FQCodelQdiscStats
	Class *FQCodelClassStats
}

func (FQCodelXStats) Kind() uint16  { return TCA_XSTATS }
func (FQCodelXStats) ValueLen() int { return fqCodelXStatsLen }
func (x FQCodelXStats) EmitValue(b []byte) {
	v := nla.NewView(b, fqCodelXStatsLen)
	clear(b[:fqCodelXStatsLen])
	switch {
	case x.Qdisc != nil:
		v.SetUint32(0, TCA_FQ_CODEL_XSTATS_QDISC)
		for i, f := range x.Qdisc.fields() {
			v.SetUint32(4+4*i, *f)
		}
	case x.Class != nil:
		v.SetUint32(0, TCA_FQ_CODEL_XSTATS_CLASS)
		v.SetInt32(4, x.Class.Deficit)
		v.SetUint32(8, x.Class.LDelay)
		v.SetUint32(12, x.Class.Count)
		v.SetUint32(16, x.Class.LastCount)
		v.SetUint32(20, x.Class.Dropping)
		v.SetInt32(24, x.Class.DropNext)
	}
}

// parseFQCodelXStats reports false for a block it can't model so the
// caller keeps it verbatim.
func parseFQCodelXStats(r nla.Record) (nla.Attribute, bool) {
	if len(r.Value) != fqCodelXStatsLen {
		return nil, false
	}
	v := nla.NewView(r.Value, fqCodelXStatsLen)
	switch v.Uint32(0) {
	case TCA_FQ_CODEL_XSTATS_QDISC:
		var s FQCodelQdiscStats
		for i, f := range s.fields() {
			*f = v.Uint32(4 + 4*i)
		}
		return FQCodelXStats{Qdisc: &s}, true
	case TCA_FQ_CODEL_XSTATS_CLASS:
		if !allZero(r.Value[28:]) {
			return nil, false
		}
		return FQCodelXStats{Class: &FQCodelClassStats{
			Deficit:   v.Int32(4),
			LDelay:    v.Uint32(8),
			Count:     v.Uint32(12),
			LastCount: v.Uint32(16),
			Dropping:  v.Uint32(20),
			DropNext:  v.Int32(24),
		}}, true
	}
	return nil, false
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
