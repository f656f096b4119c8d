package link

import (
	"fmt"

	"github.com/scitags/rtnl-go/nla"
)

const (
	IFLA_XDP_FD          = 1
	IFLA_XDP_ATTACHED    = 2
	IFLA_XDP_FLAGS       = 3
	IFLA_XDP_PROG_ID     = 4
	IFLA_XDP_DRV_PROG_ID = 5
	IFLA_XDP_SKB_PROG_ID = 6
	IFLA_XDP_HW_PROG_ID  = 7
	IFLA_XDP_EXPECTED_FD = 8
)

// XDP is IFLA_XDP.
type XDP []nla.Attribute

func (XDP) Kind() uint16         { return IFLA_XDP }
func (l XDP) ValueLen() int      { return nla.ListLen(l) }
func (l XDP) EmitValue(b []byte) { nla.EmitList(b, l) }

// XDPAttached is XDP_ATTACHED_*.
type XDPAttached uint8

const (
	XDPAttachedNone  XDPAttached = 0
	XDPAttachedDrv   XDPAttached = 1
	XDPAttachedSKB   XDPAttached = 2
	XDPAttachedHW    XDPAttached = 3
	XDPAttachedMulti XDPAttached = 4
)

var xdpAttachedName = map[XDPAttached]string{
	XDPAttachedNone:  "none",
	XDPAttachedDrv:   "drv",
	XDPAttachedSKB:   "skb",
	XDPAttachedHW:    "hw",
	XDPAttachedMulti: "multi",
}

func (a XDPAttached) String() string {
	if n, ok := xdpAttachedName[a]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_XDP_ATTACHED_%d", uint8(a))
}

func (XDPAttached) Kind() uint16         { return IFLA_XDP_ATTACHED }
func (XDPAttached) ValueLen() int        { return 1 }
func (a XDPAttached) EmitValue(b []byte) { b[0] = uint8(a) }

// XDPFlags is XDP_FLAGS_*.
type XDPFlags uint32

const (
	XDPFlagUpdateIfNoExist XDPFlags = 1 << 0
	XDPFlagSKBMode         XDPFlags = 1 << 1
	XDPFlagDrvMode         XDPFlags = 1 << 2
	XDPFlagHWMode          XDPFlags = 1 << 3
	XDPFlagReplace         XDPFlags = 1 << 4
)

var xdpFlagName = map[XDPFlags]string{
	XDPFlagUpdateIfNoExist: "update_if_noexist",
	XDPFlagSKBMode:         "skb_mode",
	XDPFlagDrvMode:         "drv_mode",
	XDPFlagHWMode:          "hw_mode",
	XDPFlagReplace:         "replace",
}

func (f XDPFlags) Known() XDPFlags     { return nla.KnownBits(f, xdpFlagName) }
func (f XDPFlags) Remainder() XDPFlags { return f &^ f.Known() }
func (f XDPFlags) String() string      { return nla.FlagString(f, xdpFlagName) }

func (XDPFlags) Kind() uint16         { return IFLA_XDP_FLAGS }
func (XDPFlags) ValueLen() int        { return 4 }
func (f XDPFlags) EmitValue(b []byte) { nla.PutUint32(b, uint32(f)) }

// XDPFD is a program file descriptor; -1 detaches.
type XDPFD struct {
	Type  uint16
	Value int32
}

func (f XDPFD) Kind() uint16       { return f.Type }
func (XDPFD) ValueLen() int        { return 4 }
func (f XDPFD) EmitValue(b []byte) { nla.PutInt32(b, f.Value) }

// XDPProgID is one of the attached program ids.
type XDPProgID struct {
	Type  uint16
	Value uint32
}

func (p XDPProgID) Kind() uint16       { return p.Type }
func (XDPProgID) ValueLen() int        { return 4 }
func (p XDPProgID) EmitValue(b []byte) { nla.PutUint32(b, p.Value) }

func parseXDP(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case IFLA_XDP_FD, IFLA_XDP_EXPECTED_FD:
		v, err := nla.Int32(p)
		return XDPFD{Type: r.Kind, Value: v}, err
	case IFLA_XDP_ATTACHED:
		v, err := nla.Uint8(p)
		return XDPAttached(v), err
	case IFLA_XDP_FLAGS:
		v, err := nla.Uint32(p)
		return XDPFlags(v), err
	case IFLA_XDP_PROG_ID, IFLA_XDP_DRV_PROG_ID, IFLA_XDP_SKB_PROG_ID, IFLA_XDP_HW_PROG_ID:
		v, err := nla.Uint32(p)
		return XDPProgID{Type: r.Kind, Value: v}, err
	}
	nla.Notice("link/xdp", r)
	return nla.NewUnknown(r), nil
}
