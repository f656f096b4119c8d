package rtnl

import (
	"fmt"
	"syscall"

	"github.com/mdlayher/netlink"

	"github.com/scitags/rtnl-go/nla"
)

// All of these constants' names make the linter complain, but we inherited
// these names from the kernel's uapi headers, so we will keep them.
const (
	NLMSGERR_ATTR_UNUSED    = 0
	NLMSGERR_ATTR_MSG       = 1
	NLMSGERR_ATTR_OFFS      = 2
	NLMSGERR_ATTR_COOKIE    = 3
	NLMSGERR_ATTR_POLICY    = 4
	NLMSGERR_ATTR_MISS_TYPE = 5
	NLMSGERR_ATTR_MISS_NEST = 6
)

type (
	// ExtAckMessage is the human readable reason the kernel attaches to an
	// error when NETLINK_EXT_ACK is on.
	ExtAckMessage string
	// ExtAckOffset points at the offending attribute, counted from the start
	// of the echoed request.
	ExtAckOffset   uint32
	ExtAckCookie   []byte
	ExtAckMissType uint32
	ExtAckMissNest uint32
)

func (ExtAckMessage) Kind() uint16         { return NLMSGERR_ATTR_MSG }
func (m ExtAckMessage) ValueLen() int      { return len(m) + 1 }
func (m ExtAckMessage) EmitValue(b []byte) { nla.PutString(b, string(m)) }

func (ExtAckOffset) Kind() uint16         { return NLMSGERR_ATTR_OFFS }
func (ExtAckOffset) ValueLen() int        { return 4 }
func (o ExtAckOffset) EmitValue(b []byte) { nla.PutUint32(b, uint32(o)) }

func (ExtAckCookie) Kind() uint16         { return NLMSGERR_ATTR_COOKIE }
func (c ExtAckCookie) ValueLen() int      { return len(c) }
func (c ExtAckCookie) EmitValue(b []byte) { copy(b, c) }

func (ExtAckMissType) Kind() uint16         { return NLMSGERR_ATTR_MISS_TYPE }
func (ExtAckMissType) ValueLen() int        { return 4 }
func (t ExtAckMissType) EmitValue(b []byte) { nla.PutUint32(b, uint32(t)) }

func (ExtAckMissNest) Kind() uint16         { return NLMSGERR_ATTR_MISS_NEST }
func (ExtAckMissNest) ValueLen() int        { return 4 }
func (n ExtAckMissNest) EmitValue(b []byte) { nla.PutUint32(b, uint32(n)) }

func parseExtAck(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case NLMSGERR_ATTR_MSG:
		s, err := nla.String(p)
		return ExtAckMessage(s), err
	case NLMSGERR_ATTR_OFFS:
		v, err := nla.Uint32(p)
		return ExtAckOffset(v), err
	case NLMSGERR_ATTR_COOKIE:
		return ExtAckCookie(nla.Bytes(p)), nil
	case NLMSGERR_ATTR_POLICY:
		return nla.ParseOpaque(r), nil
	case NLMSGERR_ATTR_MISS_TYPE:
		v, err := nla.Uint32(p)
		return ExtAckMissType(v), err
	case NLMSGERR_ATTR_MISS_NEST:
		v, err := nla.Uint32(p)
		return ExtAckMissNest(v), err
	}
	nla.Notice("nlmsgerr", r)
	return nla.NewUnknown(r), nil
}

const errorHeaderLen = 4 + HeaderLen

// ErrorMessage is struct nlmsgerr. A zero Code is an acknowledgement.
type ErrorMessage struct {
	Code    int32
	Request netlink.Header
	// RequestData is the echoed request payload, empty when the kernel
	// capped the echo.
	RequestData []byte
	Attributes  []nla.Attribute
}

func (e *ErrorMessage) Len() int {
	return errorHeaderLen + nla.Align(len(e.RequestData)) + nla.ListLen(e.Attributes)
}

func (e *ErrorMessage) Emit(b []byte) {
	v := nla.NewView(b, errorHeaderLen)
	v.SetInt32(0, e.Code)
	v.SetUint32(4, e.Request.Length)
	v.SetUint16(8, uint16(e.Request.Type))
	v.SetUint16(10, uint16(e.Request.Flags))
	v.SetUint32(12, e.Request.Sequence)
	v.SetUint32(16, e.Request.PID)
	n := nla.Align(len(e.RequestData))
	clear(b[errorHeaderLen : errorHeaderLen+n])
	copy(b[errorHeaderLen:], e.RequestData)
	nla.EmitList(b[errorHeaderLen+n:], e.Attributes)
}

func (e *ErrorMessage) MarshalBinary() ([]byte, error) {
	b := make([]byte, e.Len())
	e.Emit(b)
	return b, nil
}

// UnmarshalBinary reads an uncapped error without extended ack attributes.
// Use ParseMessage when the flags of the enclosing header are known.
func (e *ErrorMessage) UnmarshalBinary(b []byte) error {
	return e.parse(b, 0)
}

func (e *ErrorMessage) parse(b []byte, flags netlink.HeaderFlags) error {
	v, err := nla.NewViewChecked(b, errorHeaderLen)
	if err != nil {
		return err
	}
	e.Code = v.Int32(0)
	e.Request = netlink.Header{
		Length:   v.Uint32(4),
		Type:     netlink.HeaderType(v.Uint16(8)),
		Flags:    netlink.HeaderFlags(v.Uint16(10)),
		Sequence: v.Uint32(12),
		PID:      v.Uint32(16),
	}

	rest := v.Payload()
	if flags&netlink.Capped == 0 {
		n := max(int(e.Request.Length)-HeaderLen, 0)
		if flags&netlink.AcknowledgeTLVs == 0 {
			n = len(rest)
		}
		if n > len(rest) {
			return &nla.LengthError{Field: "echoed request", Want: n, Have: len(rest)}
		}
		e.RequestData = nla.Bytes(rest[:n])
		rest = rest[min(nla.Align(n), len(rest)):]
	}
	if flags&netlink.AcknowledgeTLVs != 0 {
		e.Attributes, err = nla.ParseList(rest, parseExtAck)
		if err != nil {
			return fmt.Errorf("extended ack: %w", err)
		}
	}
	return nil
}

// Err is nil for an acknowledgement and a *KernelError otherwise.
func (e *ErrorMessage) Err() error {
	if e.Code == 0 {
		return nil
	}
	ke := &KernelError{Errno: syscall.Errno(-e.Code), Request: MessageType(e.Request.Type)}
	if msg, ok := nla.Get[ExtAckMessage](e.Attributes); ok {
		ke.Message = string(msg)
	}
	if off, ok := nla.Get[ExtAckOffset](e.Attributes); ok {
		ke.Offset = int(off)
	}
	return ke
}

// Done terminates a multi-part dump. A non-zero Code means the dump was
// cut short.
type Done struct {
	Code       int32
	Attributes []nla.Attribute
}

func (d *Done) Len() int { return 4 + nla.ListLen(d.Attributes) }

func (d *Done) Emit(b []byte) {
	nla.PutInt32(b, d.Code)
	nla.EmitList(b[4:], d.Attributes)
}

func (d *Done) MarshalBinary() ([]byte, error) {
	b := make([]byte, d.Len())
	d.Emit(b)
	return b, nil
}

// UnmarshalBinary accepts an empty payload, which some families send.
func (d *Done) UnmarshalBinary(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	v, err := nla.NewViewChecked(b, 4)
	if err != nil {
		return err
	}
	d.Code = v.Int32(0)
	d.Attributes, err = nla.ParseList(v.Payload(), parseExtAck)
	return err
}

func (d *Done) Err() error {
	if d.Code == 0 {
		return nil
	}
	ke := &KernelError{Errno: syscall.Errno(-d.Code), Request: NLMSG_DONE}
	if msg, ok := nla.Get[ExtAckMessage](d.Attributes); ok {
		ke.Message = string(msg)
	}
	return ke
}

// KernelError is a negative errno reported by the kernel, optionally with
// its extended ack.
type KernelError struct {
	Errno   syscall.Errno
	Request MessageType
	Message string
	Offset  int
}

func (e *KernelError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %v: %s", e.Request, e.Errno, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Request, e.Errno)
}

func (e *KernelError) Unwrap() error { return e.Errno }
