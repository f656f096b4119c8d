package tc

import (
	"github.com/scitags/rtnl-go/nla"
)

const (
	TCA_STATS_UNSPEC     = 0
	TCA_STATS_BASIC      = 1
	TCA_STATS_RATE_EST   = 2
	TCA_STATS_QUEUE      = 3
	TCA_STATS_APP        = 4
	TCA_STATS_RATE_EST64 = 5
	TCA_STATS_PAD        = 6
	TCA_STATS_BASIC_HW   = 7
	TCA_STATS_PKT64      = 8
)

// statsLen is sizeof(struct tc_stats) including its tail padding.
const statsLen = 40

// Stats is the legacy struct tc_stats.
type Stats struct {
	Bytes      uint64
	Packets    uint32
	Drops      uint32
	Overlimits uint32
	BPS        uint32
	PPS        uint32
	QLen       uint32
	Backlog    uint32
}

func (Stats) Kind() uint16  { return TCA_STATS }
func (Stats) ValueLen() int { return statsLen }
func (s Stats) EmitValue(b []byte) {
	v := nla.NewView(b, statsLen)
	v.SetUint64(0, s.Bytes)
	v.SetUint32(8, s.Packets)
	v.SetUint32(12, s.Drops)
	v.SetUint32(16, s.Overlimits)
	v.SetUint32(20, s.BPS)
	v.SetUint32(24, s.PPS)
	v.SetUint32(28, s.QLen)
	v.SetUint32(32, s.Backlog)
	v.SetUint32(36, 0)
}

func parseStats(b []byte) (Stats, error) {
	v, err := nla.Fixed(b, statsLen, "tc_stats")
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Bytes:      v.Uint64(0),
		Packets:    v.Uint32(8),
		Drops:      v.Uint32(12),
		Overlimits: v.Uint32(16),
		BPS:        v.Uint32(20),
		PPS:        v.Uint32(24),
		QLen:       v.Uint32(28),
		Backlog:    v.Uint32(32),
	}, nil
}

// Stats2 is TCA_STATS2, also found as TCA_ACT_STATS within actions.
type Stats2 []nla.Attribute

func (Stats2) Kind() uint16         { return TCA_STATS2 }
func (l Stats2) ValueLen() int      { return nla.ListLen(l) }
func (l Stats2) EmitValue(b []byte) { nla.EmitList(b, l) }

const basicLen = 16

// StatsBasic is struct gnet_stats_basic, either TCA_STATS_BASIC or the
// offloaded TCA_STATS_BASIC_HW.
type StatsBasic struct {
	Type    uint16
	Bytes   uint64
	Packets uint32
}

func (s StatsBasic) Kind() uint16 { return s.Type }
func (StatsBasic) ValueLen() int  { return basicLen }
func (s StatsBasic) EmitValue(b []byte) {
	v := nla.NewView(b, basicLen)
	v.SetUint64(0, s.Bytes)
	v.SetUint32(8, s.Packets)
	v.SetUint32(12, 0)
}

// StatsRateEst is struct gnet_stats_rate_est.
type StatsRateEst struct {
	BPS uint32
	PPS uint32
}

func (StatsRateEst) Kind() uint16  { return TCA_STATS_RATE_EST }
func (StatsRateEst) ValueLen() int { return 8 }
func (s StatsRateEst) EmitValue(b []byte) {
	v := nla.NewView(b, 8)
	v.SetUint32(0, s.BPS)
	v.SetUint32(4, s.PPS)
}

// StatsRateEst64 is struct gnet_stats_rate_est64.
type StatsRateEst64 struct {
	BPS uint64
	PPS uint64
}

func (StatsRateEst64) Kind() uint16  { return TCA_STATS_RATE_EST64 }
func (StatsRateEst64) ValueLen() int { return 16 }
func (s StatsRateEst64) EmitValue(b []byte) {
	v := nla.NewView(b, 16)
	v.SetUint64(0, s.BPS)
	v.SetUint64(8, s.PPS)
}

const queueLen = 20

// StatsQueue is struct gnet_stats_queue.
type StatsQueue struct {
	QLen       uint32
	Backlog    uint32
	Drops      uint32
	Requeues   uint32
	Overlimits uint32
}

func (StatsQueue) Kind() uint16  { return TCA_STATS_QUEUE }
func (StatsQueue) ValueLen() int { return queueLen }
func (s StatsQueue) EmitValue(b []byte) {
	v := nla.NewView(b, queueLen)
	v.SetUint32(0, s.QLen)
	v.SetUint32(4, s.Backlog)
	v.SetUint32(8, s.Drops)
	v.SetUint32(12, s.Requeues)
	v.SetUint32(16, s.Overlimits)
}

// StatsPackets64 is the 64 bit packet counter of TCA_STATS_PKT64.
type StatsPackets64 uint64

func (StatsPackets64) Kind() uint16         { return TCA_STATS_PKT64 }
func (StatsPackets64) ValueLen() int        { return 8 }
func (p StatsPackets64) EmitValue(b []byte) { nla.PutUint64(b, uint64(p)) }

// parseStats2 decodes one TCA_STATS_* record. TCA_STATS_APP carries the
// same kind specific block as TCA_XSTATS.
func parseStats2(r nla.Record, kind string) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case TCA_STATS_BASIC, TCA_STATS_BASIC_HW:
		v, err := nla.Fixed(p, basicLen, "gnet_stats_basic")
		if err != nil {
			return nil, err
		}
		return StatsBasic{Type: r.Kind, Bytes: v.Uint64(0), Packets: v.Uint32(8)}, nil
	case TCA_STATS_RATE_EST:
		v, err := nla.Fixed(p, 8, "gnet_stats_rate_est")
		if err != nil {
			return nil, err
		}
		return StatsRateEst{BPS: v.Uint32(0), PPS: v.Uint32(4)}, nil
	case TCA_STATS_RATE_EST64:
		v, err := nla.Fixed(p, 16, "gnet_stats_rate_est64")
		if err != nil {
			return nil, err
		}
		return StatsRateEst64{BPS: v.Uint64(0), PPS: v.Uint64(8)}, nil
	case TCA_STATS_QUEUE:
		v, err := nla.Fixed(p, queueLen, "gnet_stats_queue")
		if err != nil {
			return nil, err
		}
		return StatsQueue{
			QLen:       v.Uint32(0),
			Backlog:    v.Uint32(4),
			Drops:      v.Uint32(8),
			Requeues:   v.Uint32(12),
			Overlimits: v.Uint32(16),
		}, nil
	case TCA_STATS_APP:
		return parseXStats(r, kind), nil
	case TCA_STATS_PKT64:
		v, err := nla.Uint64(p)
		return StatsPackets64(v), err
	}
	nla.Notice("tc/stats2", r)
	return nla.NewUnknown(r), nil
}
