package link

import (
	"fmt"

	"github.com/scitags/rtnl-go/nla"
)

// Counter indexes into Stats and Stats64. Both structs grew over kernel
// releases, so the counters are kept as a slice of whatever length arrived.
type Counter int

const (
	RxPackets Counter = iota
	TxPackets
	RxBytes
	TxBytes
	RxErrors
	TxErrors
	RxDropped
	TxDropped
	Multicast
	Collisions
	RxLengthErrors
	RxOverErrors
	RxCRCErrors
	RxFrameErrors
	RxFIFOErrors
	RxMissedErrors
	TxAbortedErrors
	TxCarrierErrors
	TxFIFOErrors
	TxHeartbeatErrors
	TxWindowErrors
	RxCompressed
	TxCompressed
	RxNoHandler
	RxOtherhostDropped
)

var counterName = map[Counter]string{
	RxPackets:          "rx_packets",
	TxPackets:          "tx_packets",
	RxBytes:            "rx_bytes",
	TxBytes:            "tx_bytes",
	RxErrors:           "rx_errors",
	TxErrors:           "tx_errors",
	RxDropped:          "rx_dropped",
	TxDropped:          "tx_dropped",
	Multicast:          "multicast",
	Collisions:         "collisions",
	RxLengthErrors:     "rx_length_errors",
	RxOverErrors:       "rx_over_errors",
	RxCRCErrors:        "rx_crc_errors",
	RxFrameErrors:      "rx_frame_errors",
	RxFIFOErrors:       "rx_fifo_errors",
	RxMissedErrors:     "rx_missed_errors",
	TxAbortedErrors:    "tx_aborted_errors",
	TxCarrierErrors:    "tx_carrier_errors",
	TxFIFOErrors:       "tx_fifo_errors",
	TxHeartbeatErrors:  "tx_heartbeat_errors",
	TxWindowErrors:     "tx_window_errors",
	RxCompressed:       "rx_compressed",
	TxCompressed:       "tx_compressed",
	RxNoHandler:        "rx_nohandler",
	RxOtherhostDropped: "rx_otherhost_dropped",
}

func (c Counter) String() string {
	if n, ok := counterName[c]; ok {
		return n
	}
	return fmt.Sprintf("counter_%d", int(c))
}

// Stats is struct rtnl_link_stats.
type Stats []uint32

func (Stats) Kind() uint16         { return IFLA_STATS }
func (s Stats) ValueLen() int      { return 4 * len(s) }
func (s Stats) EmitValue(b []byte) { putUint32s(b, s) }

// Get returns the counter or zero when the kernel didn't send it.
func (s Stats) Get(c Counter) uint32 {
	if int(c) < len(s) {
		return s[c]
	}
	return 0
}

// Stats64 is struct rtnl_link_stats64.
type Stats64 []uint64

func (Stats64) Kind() uint16         { return IFLA_STATS64 }
func (s Stats64) ValueLen() int      { return 8 * len(s) }
func (s Stats64) EmitValue(b []byte) { putUint64s(b, s) }

func (s Stats64) Get(c Counter) uint64 {
	if int(c) < len(s) {
		return s[c]
	}
	return 0
}

func parseStats(b []byte) (Stats, error) {
	cs, err := parseUint32s(b, "rtnl_link_stats")
	return Stats(cs), err
}

func parseStats64(b []byte) (Stats64, error) {
	cs, err := parseUint64s(b, "rtnl_link_stats64")
	return Stats64(cs), err
}

func parseUint32s(b []byte, field string) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, &nla.ValueError{Field: field, Reason: fmt.Sprintf("%d bytes isn't a multiple of 4", len(b))}
	}
	v := nla.NewView(b, 0)
	cs := make([]uint32, len(b)/4)
	for i := range cs {
		cs[i] = v.Uint32(4 * i)
	}
	return cs, nil
}

func parseUint64s(b []byte, field string) ([]uint64, error) {
	if len(b)%8 != 0 {
		return nil, &nla.ValueError{Field: field, Reason: fmt.Sprintf("%d bytes isn't a multiple of 8", len(b))}
	}
	v := nla.NewView(b, 0)
	cs := make([]uint64, len(b)/8)
	for i := range cs {
		cs[i] = v.Uint64(8 * i)
	}
	return cs, nil
}

func putUint32s(b []byte, cs []uint32) {
	for i, c := range cs {
		nla.PutUint32(b[4*i:], c)
	}
}

func putUint64s(b []byte, cs []uint64) {
	for i, c := range cs {
		nla.PutUint64(b[8*i:], c)
	}
}
