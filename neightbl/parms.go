package neightbl

import (
	"fmt"

	"github.com/scitags/rtnl-go/nla"
)

const (
	NDTPA_UNSPEC                 = 0
	NDTPA_IFINDEX                = 1
	NDTPA_REFCNT                 = 2
	NDTPA_REACHABLE_TIME         = 3
	NDTPA_BASE_REACHABLE_TIME    = 4
	NDTPA_RETRANS_TIME           = 5
	NDTPA_GC_STALETIME           = 6
	NDTPA_DELAY_PROBE_TIME       = 7
	NDTPA_QUEUE_LEN              = 8
	NDTPA_APP_PROBES             = 9
	NDTPA_UCAST_PROBES           = 10
	NDTPA_MCAST_PROBES           = 11
	NDTPA_ANYCAST_DELAY          = 12
	NDTPA_PROXY_DELAY            = 13
	NDTPA_PROXY_QLEN             = 14
	NDTPA_LOCKTIME               = 15
	NDTPA_QUEUE_LENBYTES         = 16
	NDTPA_MCAST_REPROBES         = 17
	NDTPA_PAD                    = 18
	NDTPA_INTERVAL_PROBE_TIME_MS = 19
)

// Parms is NDTA_PARMS: the per device (or default, with no NDTPA_IFINDEX)
// neighbour parameters.
type Parms []nla.Attribute

func (Parms) Kind() uint16         { return NDTA_PARMS }
func (l Parms) ValueLen() int      { return nla.ListLen(l) }
func (l Parms) EmitValue(b []byte) { nla.EmitList(b, l) }

var paramName = map[uint16]string{
	NDTPA_IFINDEX:                "ifindex",
	NDTPA_REFCNT:                 "refcnt",
	NDTPA_REACHABLE_TIME:         "reachable_time",
	NDTPA_BASE_REACHABLE_TIME:    "base_reachable_time",
	NDTPA_RETRANS_TIME:           "retrans_time",
	NDTPA_GC_STALETIME:           "gc_staletime",
	NDTPA_DELAY_PROBE_TIME:       "delay_probe_time",
	NDTPA_QUEUE_LEN:              "queue_len",
	NDTPA_APP_PROBES:             "app_probes",
	NDTPA_UCAST_PROBES:           "ucast_probes",
	NDTPA_MCAST_PROBES:           "mcast_probes",
	NDTPA_ANYCAST_DELAY:          "anycast_delay",
	NDTPA_PROXY_DELAY:            "proxy_delay",
	NDTPA_PROXY_QLEN:             "proxy_qlen",
	NDTPA_LOCKTIME:               "locktime",
	NDTPA_QUEUE_LENBYTES:         "queue_lenbytes",
	NDTPA_MCAST_REPROBES:         "mcast_reprobes",
	NDTPA_INTERVAL_PROBE_TIME_MS: "interval_probe_time_ms",
}

func paramString(kind uint16) string {
	if n, ok := paramName[kind]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_NDTPA_%d", kind)
}

// Param is a 32 bit parameter: a counter, a length or an interface index.
type Param struct {
	Type  uint16
	Value uint32
}

func (p Param) Kind() uint16       { return p.Type }
func (Param) ValueLen() int        { return 4 }
func (p Param) EmitValue(b []byte) { nla.PutUint32(b, p.Value) }
func (p Param) String() string     { return fmt.Sprintf("%s=%d", paramString(p.Type), p.Value) }

// Duration is a 64 bit parameter holding milliseconds.
type Duration struct {
	Type  uint16
	Value uint64
}

func (d Duration) Kind() uint16       { return d.Type }
func (Duration) ValueLen() int        { return 8 }
func (d Duration) EmitValue(b []byte) { nla.PutUint64(b, d.Value) }
func (d Duration) String() string     { return fmt.Sprintf("%s=%dms", paramString(d.Type), d.Value) }

func parseParam(r nla.Record) (nla.Attribute, error) {
	switch r.Kind {
	case NDTPA_IFINDEX, NDTPA_REFCNT, NDTPA_QUEUE_LEN, NDTPA_APP_PROBES, NDTPA_UCAST_PROBES,
		NDTPA_MCAST_PROBES, NDTPA_PROXY_QLEN, NDTPA_QUEUE_LENBYTES, NDTPA_MCAST_REPROBES:
		v, err := nla.Uint32(r.Value)
		return Param{Type: r.Kind, Value: v}, err
	case NDTPA_REACHABLE_TIME, NDTPA_BASE_REACHABLE_TIME, NDTPA_RETRANS_TIME, NDTPA_GC_STALETIME,
		NDTPA_DELAY_PROBE_TIME, NDTPA_ANYCAST_DELAY, NDTPA_PROXY_DELAY, NDTPA_LOCKTIME,
		NDTPA_INTERVAL_PROBE_TIME_MS:
		v, err := nla.Uint64(r.Value)
		return Duration{Type: r.Kind, Value: v}, err
	}
	nla.Notice("neightbl/parms", r)
	return nla.NewUnknown(r), nil
}
