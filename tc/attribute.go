package tc

import (
	"context"
	"log/slog"

	"github.com/scitags/rtnl-go/nla"
)

// All of these constants' names make the linter complain, but we inherited
// these names from the kernel's uapi headers, so we will keep them.
const (
	TCA_UNSPEC         = 0
	TCA_KIND           = 1
	TCA_OPTIONS        = 2
	TCA_STATS          = 3
	TCA_XSTATS         = 4
	TCA_RATE           = 5
	TCA_FCNT           = 6
	TCA_STATS2         = 7
	TCA_STAB           = 8
	TCA_PAD            = 9
	TCA_DUMP_INVISIBLE = 10
	TCA_CHAIN          = 11
	TCA_HW_OFFLOAD     = 12
	TCA_INGRESS_BLOCK  = 13
	TCA_EGRESS_BLOCK   = 14
	TCA_DUMP_FLAGS     = 15
)

const (
	KindIngress  = "ingress"
	KindClsact   = "clsact"
	KindFQCodel  = "fq_codel"
	KindU32      = "u32"
	KindMatchAll = "matchall"
	KindBPF      = "bpf"
)

// Kind names the qdisc, class or classifier, e.g. "fq_codel" or "u32".
type Kind string

func (Kind) Kind() uint16         { return TCA_KIND }
func (k Kind) ValueLen() int      { return len(k) + 1 }
func (k Kind) EmitValue(b []byte) { nla.PutString(b, string(k)) }

// Options is TCA_OPTIONS, decoded according to the TCA_KIND sibling.
type Options []nla.Attribute

func (Options) Kind() uint16         { return TCA_OPTIONS }
func (l Options) ValueLen() int      { return nla.ListLen(l) }
func (l Options) EmitValue(b []byte) { nla.EmitList(b, l) }

// Estimator is struct tc_estimator.
type Estimator struct {
	Interval int8
	EWMALog  uint8
}

func (Estimator) Kind() uint16  { return TCA_RATE }
func (Estimator) ValueLen() int { return 2 }
func (e Estimator) EmitValue(b []byte) {
	b[0] = uint8(e.Interval)
	b[1] = e.EWMALog
}

type (
	FilterCount uint32
	Chain       uint32
	HWOffload   uint8
)

func (FilterCount) Kind() uint16         { return TCA_FCNT }
func (FilterCount) ValueLen() int        { return 4 }
func (c FilterCount) EmitValue(b []byte) { nla.PutUint32(b, uint32(c)) }

func (Chain) Kind() uint16         { return TCA_CHAIN }
func (Chain) ValueLen() int        { return 4 }
func (c Chain) EmitValue(b []byte) { nla.PutUint32(b, uint32(c)) }

func (HWOffload) Kind() uint16         { return TCA_HW_OFFLOAD }
func (HWOffload) ValueLen() int        { return 1 }
func (o HWOffload) EmitValue(b []byte) { b[0] = uint8(o) }

// Block is a shared filter block index, TCA_INGRESS_BLOCK or
// TCA_EGRESS_BLOCK.
type Block struct {
	Type  uint16
	Value uint32
}

func (k Block) Kind() uint16       { return k.Type }
func (Block) ValueLen() int        { return 4 }
func (k Block) EmitValue(b []byte) { nla.PutUint32(b, k.Value) }

// DumpInvisible asks for qdiscs hidden from regular dumps.
type DumpInvisible struct{}

func (DumpInvisible) Kind() uint16     { return TCA_DUMP_INVISIBLE }
func (DumpInvisible) ValueLen() int    { return 0 }
func (DumpInvisible) EmitValue([]byte) {}

// optionParsers decode TCA_OPTIONS per kind.
var optionParsers = map[string]nla.ParseFunc{
	KindIngress:  parseEmptyOptions,
	KindClsact:   parseEmptyOptions,
	KindFQCodel:  parseFQCodel,
	KindU32:      parseU32,
	KindMatchAll: parseMatchAll,
	KindBPF:      parseBPF,
}

// xstatsParsers decode TCA_XSTATS and TCA_STATS_APP per kind. Both carry
// a kind specific struct rather than attributes.
var xstatsParsers = map[string]func(r nla.Record) (nla.Attribute, bool){
	KindFQCodel: parseFQCodelXStats,
}

// ingress and clsact take no options at all.
func parseEmptyOptions(r nla.Record) (nla.Attribute, error) {
	nla.Notice("tc/ingress", r)
	return nla.NewUnknown(r), nil
}

func parseXStats(r nla.Record, kind string) nla.Attribute {
	if fn, ok := xstatsParsers[kind]; ok {
		if a, ok := fn(r); ok {
			return a
		}
	}
	slog.Log(context.Background(), nla.LevelTrace, "no decoder for tc xstats", "kind", kind, "len", len(r.Value))
	return nla.ParseOpaque(r)
}

func kindOf(recs []nla.Record, kind uint16, name string) (string, error) {
	r, ok := nla.Find(recs, kind)
	if !ok {
		return "", nil
	}
	s, err := nla.String(r.Value)
	if err != nil {
		return "", &nla.ContextError{Selector: name, Err: err}
	}
	return s, nil
}

func parseAttributes(b []byte) ([]nla.Attribute, error) {
	recs, err := nla.Records(b)
	if err != nil {
		return nil, err
	}
	kind, err := kindOf(recs, TCA_KIND, "TCA_KIND")
	if err != nil {
		return nil, err
	}
	return nla.ParseRecords(recs, func(r nla.Record) (nla.Attribute, error) {
		return parseAttribute(r, kind)
	})
}

func parseAttribute(r nla.Record, kind string) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case TCA_KIND:
		return Kind(kind), nil
	case TCA_OPTIONS:
		fn, ok := optionParsers[kind]
		if !ok {
			slog.Log(context.Background(), nla.LevelTrace, "no decoder for tc kind", "kind", kind)
			return nla.ParseOpaque(r), nil
		}
		l, err := nla.ParseList(p, fn)
		return Options(l), err
	case TCA_STATS:
		return parseStats(p)
	case TCA_XSTATS:
		return parseXStats(r, kind), nil
	case TCA_RATE:
		if len(p) != 2 {
			return nil, &nla.ValueError{Field: "tc_estimator", Reason: "want 2 bytes"}
		}
		return Estimator{Interval: int8(p[0]), EWMALog: p[1]}, nil
	case TCA_FCNT:
		v, err := nla.Uint32(p)
		return FilterCount(v), err
	case TCA_STATS2:
		l, err := nla.ParseList(p, func(r nla.Record) (nla.Attribute, error) {
			return parseStats2(r, kind)
		})
		return Stats2(l), err
	case TCA_STAB:
		return nla.ParseOpaque(r), nil
	case TCA_DUMP_INVISIBLE:
		if len(p) == 0 {
			return DumpInvisible{}, nil
		}
	case TCA_CHAIN:
		v, err := nla.Uint32(p)
		return Chain(v), err
	case TCA_HW_OFFLOAD:
		v, err := nla.Uint8(p)
		return HWOffload(v), err
	case TCA_INGRESS_BLOCK, TCA_EGRESS_BLOCK:
		v, err := nla.Uint32(p)
		return Block{Type: r.Kind, Value: v}, err
	}
	nla.Notice("tc", r)
	return nla.NewUnknown(r), nil
}
