package route

import (
	"fmt"

	"github.com/scitags/rtnl-go/nla"
)

// MetricType is an RTAX_* kind inside RTA_METRICS.
type MetricType uint16

const (
	RTAX_LOCK               MetricType = 1
	RTAX_MTU                MetricType = 2
	RTAX_WINDOW             MetricType = 3
	RTAX_RTT                MetricType = 4
	RTAX_RTTVAR             MetricType = 5
	RTAX_SSTHRESH           MetricType = 6
	RTAX_CWND               MetricType = 7
	RTAX_ADVMSS             MetricType = 8
	RTAX_REORDERING         MetricType = 9
	RTAX_HOPLIMIT           MetricType = 10
	RTAX_INITCWND           MetricType = 11
	RTAX_FEATURES           MetricType = 12
	RTAX_RTO_MIN            MetricType = 13
	RTAX_INITRWND           MetricType = 14
	RTAX_QUICKACK           MetricType = 15
	RTAX_CC_ALGO            MetricType = 16
	RTAX_FASTOPEN_NO_COOKIE MetricType = 17
)

var metricName = map[MetricType]string{
	RTAX_LOCK:               "lock",
	RTAX_MTU:                "mtu",
	RTAX_WINDOW:             "window",
	RTAX_RTT:                "rtt",
	RTAX_RTTVAR:             "rttvar",
	RTAX_SSTHRESH:           "ssthresh",
	RTAX_CWND:               "cwnd",
	RTAX_ADVMSS:             "advmss",
	RTAX_REORDERING:         "reordering",
	RTAX_HOPLIMIT:           "hoplimit",
	RTAX_INITCWND:           "initcwnd",
	RTAX_FEATURES:           "features",
	RTAX_RTO_MIN:            "rto_min",
	RTAX_INITRWND:           "initrwnd",
	RTAX_QUICKACK:           "quickack",
	RTAX_CC_ALGO:            "congctl",
	RTAX_FASTOPEN_NO_COOKIE: "fastopen_no_cookie",
}

func (t MetricType) String() string {
	if n, ok := metricName[t]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_METRIC_%d", uint16(t))
}

// Metric is any four byte RTAX_* value.
type Metric struct {
	Type  MetricType
	Value uint32
}

func (m Metric) Kind() uint16       { return uint16(m.Type) }
func (Metric) ValueLen() int        { return 4 }
func (m Metric) EmitValue(b []byte) { nla.PutUint32(b, m.Value) }

// CongestionControl is RTAX_CC_ALGO, the only string valued metric.
type CongestionControl string

func (CongestionControl) Kind() uint16         { return uint16(RTAX_CC_ALGO) }
func (c CongestionControl) ValueLen() int      { return len(c) + 1 }
func (c CongestionControl) EmitValue(b []byte) { nla.PutString(b, string(c)) }

// Metrics is the RTA_METRICS nested list.
type Metrics []nla.Attribute

func (Metrics) Kind() uint16         { return RTA_METRICS }
func (m Metrics) ValueLen() int      { return nla.ListLen(m) }
func (m Metrics) EmitValue(b []byte) { nla.EmitList(b, m) }

func parseMetrics(b []byte) (Metrics, error) {
	attrs, err := nla.ParseList(b, func(r nla.Record) (nla.Attribute, error) {
		if MetricType(r.Kind) == RTAX_CC_ALGO {
			s, err := nla.String(r.Value)
			return CongestionControl(s), err
		}
		if len(r.Value) != 4 {
			nla.Notice("route/metrics", r)
			return nla.NewUnknown(r), nil
		}
		v, _ := nla.Uint32(r.Value)
		return Metric{Type: MetricType(r.Kind), Value: v}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	return Metrics(attrs), nil
}
