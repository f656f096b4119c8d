package link

import (
	"fmt"
	"net"

	"github.com/scitags/rtnl-go/nla"
)

const (
	IFLA_MACVLAN_MODE              = 1
	IFLA_MACVLAN_FLAGS             = 2
	IFLA_MACVLAN_MACADDR_MODE      = 3
	IFLA_MACVLAN_MACADDR           = 4
	IFLA_MACVLAN_MACADDR_DATA      = 5
	IFLA_MACVLAN_MACADDR_COUNT     = 6
	IFLA_MACVLAN_BC_QUEUE_LEN      = 7
	IFLA_MACVLAN_BC_QUEUE_LEN_USED = 8
	IFLA_MACVLAN_BC_CUTOFF         = 9
)

// MACVLANMode is MACVLAN_MODE_*. The modes are bits but only one is set at
// a time.
type MACVLANMode uint32

const (
	MACVLANPrivate  MACVLANMode = 1
	MACVLANVEPA     MACVLANMode = 2
	MACVLANBridge   MACVLANMode = 4
	MACVLANPassthru MACVLANMode = 8
	MACVLANSource   MACVLANMode = 16
)

var macvlanModeName = map[MACVLANMode]string{
	MACVLANPrivate:  "private",
	MACVLANVEPA:     "vepa",
	MACVLANBridge:   "bridge",
	MACVLANPassthru: "passthru",
	MACVLANSource:   "source",
}

func (m MACVLANMode) String() string {
	if n, ok := macvlanModeName[m]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_MACVLAN_MODE_%d", uint32(m))
}

func (MACVLANMode) Kind() uint16         { return IFLA_MACVLAN_MODE }
func (MACVLANMode) ValueLen() int        { return 4 }
func (m MACVLANMode) EmitValue(b []byte) { nla.PutUint32(b, uint32(m)) }

// MACVLANFlags is MACVLAN_FLAG_*.
type MACVLANFlags uint16

const (
	MACVLANNoPromisc MACVLANFlags = 1
	MACVLANNoDst     MACVLANFlags = 2
)

var macvlanFlagName = map[MACVLANFlags]string{
	MACVLANNoPromisc: "nopromisc",
	MACVLANNoDst:     "nodst",
}

func (f MACVLANFlags) Known() MACVLANFlags     { return nla.KnownBits(f, macvlanFlagName) }
func (f MACVLANFlags) Remainder() MACVLANFlags { return f &^ f.Known() }
func (f MACVLANFlags) String() string          { return nla.FlagString(f, macvlanFlagName) }

func (MACVLANFlags) Kind() uint16         { return IFLA_MACVLAN_FLAGS }
func (MACVLANFlags) ValueLen() int        { return 2 }
func (f MACVLANFlags) EmitValue(b []byte) { nla.PutUint16(b, uint16(f)) }

type (
	// MACVLANAddrMode is the MACVLAN_MACADDR_* operation applied to the
	// source address list.
	MACVLANAddrMode    uint32
	MACVLANAddrCount   uint32
	MACVLANBcQueueLen  uint32
	MACVLANBcQueueUsed uint32
	MACVLANBcCutoff    int32
	MACVLANAddr        net.HardwareAddr
	MACVLANAddrData    []nla.Attribute
)

func (MACVLANAddrMode) Kind() uint16         { return IFLA_MACVLAN_MACADDR_MODE }
func (MACVLANAddrMode) ValueLen() int        { return 4 }
func (v MACVLANAddrMode) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (MACVLANAddrCount) Kind() uint16         { return IFLA_MACVLAN_MACADDR_COUNT }
func (MACVLANAddrCount) ValueLen() int        { return 4 }
func (v MACVLANAddrCount) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (MACVLANBcQueueLen) Kind() uint16         { return IFLA_MACVLAN_BC_QUEUE_LEN }
func (MACVLANBcQueueLen) ValueLen() int        { return 4 }
func (v MACVLANBcQueueLen) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (MACVLANBcQueueUsed) Kind() uint16         { return IFLA_MACVLAN_BC_QUEUE_LEN_USED }
func (MACVLANBcQueueUsed) ValueLen() int        { return 4 }
func (v MACVLANBcQueueUsed) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (MACVLANBcCutoff) Kind() uint16         { return IFLA_MACVLAN_BC_CUTOFF }
func (MACVLANBcCutoff) ValueLen() int        { return 4 }
func (v MACVLANBcCutoff) EmitValue(b []byte) { nla.PutInt32(b, int32(v)) }

func (MACVLANAddr) Kind() uint16         { return IFLA_MACVLAN_MACADDR }
func (a MACVLANAddr) ValueLen() int      { return len(a) }
func (a MACVLANAddr) EmitValue(b []byte) { copy(b, a) }

func (MACVLANAddrData) Kind() uint16         { return IFLA_MACVLAN_MACADDR_DATA }
func (l MACVLANAddrData) ValueLen() int      { return nla.ListLen(l) }
func (l MACVLANAddrData) EmitValue(b []byte) { nla.EmitList(b, l) }

func parseMACVLAN(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case IFLA_MACVLAN_MODE:
		v, err := nla.Uint32(p)
		return MACVLANMode(v), err
	case IFLA_MACVLAN_FLAGS:
		v, err := nla.Uint16(p)
		return MACVLANFlags(v), err
	case IFLA_MACVLAN_MACADDR_MODE:
		v, err := nla.Uint32(p)
		return MACVLANAddrMode(v), err
	case IFLA_MACVLAN_MACADDR_COUNT:
		v, err := nla.Uint32(p)
		return MACVLANAddrCount(v), err
	case IFLA_MACVLAN_BC_QUEUE_LEN:
		v, err := nla.Uint32(p)
		return MACVLANBcQueueLen(v), err
	case IFLA_MACVLAN_BC_QUEUE_LEN_USED:
		v, err := nla.Uint32(p)
		return MACVLANBcQueueUsed(v), err
	case IFLA_MACVLAN_BC_CUTOFF:
		v, err := nla.Int32(p)
		return MACVLANBcCutoff(v), err
	case IFLA_MACVLAN_MACADDR:
		return MACVLANAddr(nla.HardwareAddr(p)), nil
	case IFLA_MACVLAN_MACADDR_DATA:
		l, err := nla.ParseList(p, parseMACVLAN)
		return MACVLANAddrData(l), err
	}
	nla.Notice("link/macvlan", r)
	return nla.NewUnknown(r), nil
}

const (
	IFLA_IPVLAN_MODE  = 1
	IFLA_IPVLAN_FLAGS = 2
)

// IPVLANMode is IPVLAN_MODE_*.
type IPVLANMode uint16

const (
	IPVLANL2  IPVLANMode = 0
	IPVLANL3  IPVLANMode = 1
	IPVLANL3S IPVLANMode = 2
)

var ipvlanModeName = map[IPVLANMode]string{
	IPVLANL2:  "l2",
	IPVLANL3:  "l3",
	IPVLANL3S: "l3s",
}

func (m IPVLANMode) String() string {
	if n, ok := ipvlanModeName[m]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_IPVLAN_MODE_%d", uint16(m))
}

func (IPVLANMode) Kind() uint16         { return IFLA_IPVLAN_MODE }
func (IPVLANMode) ValueLen() int        { return 2 }
func (m IPVLANMode) EmitValue(b []byte) { nla.PutUint16(b, uint16(m)) }

// IPVLANFlags is IPVLAN_F_*. Zero means bridge.
type IPVLANFlags uint16

const (
	IPVLANPrivate IPVLANFlags = 1
	IPVLANVEPA    IPVLANFlags = 2
)

var ipvlanFlagName = map[IPVLANFlags]string{
	0:             "bridge",
	IPVLANPrivate: "private",
	IPVLANVEPA:    "vepa",
}

func (f IPVLANFlags) Known() IPVLANFlags     { return nla.KnownBits(f, ipvlanFlagName) }
func (f IPVLANFlags) Remainder() IPVLANFlags { return f &^ f.Known() }
func (f IPVLANFlags) String() string         { return nla.FlagString(f, ipvlanFlagName) }

func (IPVLANFlags) Kind() uint16         { return IFLA_IPVLAN_FLAGS }
func (IPVLANFlags) ValueLen() int        { return 2 }
func (f IPVLANFlags) EmitValue(b []byte) { nla.PutUint16(b, uint16(f)) }

func parseIPVLAN(r nla.Record) (nla.Attribute, error) {
	switch r.Kind {
	case IFLA_IPVLAN_MODE:
		v, err := nla.Uint16(r.Value)
		return IPVLANMode(v), err
	case IFLA_IPVLAN_FLAGS:
		v, err := nla.Uint16(r.Value)
		return IPVLANFlags(v), err
	}
	nla.Notice("link/ipvlan", r)
	return nla.NewUnknown(r), nil
}

const IFLA_VRF_TABLE = 1

type VRFTable uint32

func (VRFTable) Kind() uint16         { return IFLA_VRF_TABLE }
func (VRFTable) ValueLen() int        { return 4 }
func (v VRFTable) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func parseVRF(r nla.Record) (nla.Attribute, error) {
	if r.Kind == IFLA_VRF_TABLE {
		v, err := nla.Uint32(r.Value)
		return VRFTable(v), err
	}
	nla.Notice("link/vrf", r)
	return nla.NewUnknown(r), nil
}
