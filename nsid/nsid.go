// Package nsid implements the rtgenmsg based messages RTM_NEWNSID,
// RTM_DELNSID and RTM_GETNSID that map network namespaces to ids.
package nsid

import (
	"fmt"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
)

// HeaderLen is sizeof(struct rtgenmsg) rounded up to the attribute
// alignment.
const HeaderLen = 4

// All of these constants' names make the linter complain, but we inherited
// these names from the kernel's uapi headers, so we will keep them.
const (
	NETNSA_NONE         = 0
	NETNSA_NSID         = 1
	NETNSA_PID          = 2
	NETNSA_FD           = 3
	NETNSA_TARGET_NSID  = 4
	NETNSA_CURRENT_NSID = 5
)

// NotAssigned is the id of a peer namespace that has none yet.
const NotAssigned = -1

type Header struct {
	Family family.Family
}

type (
	ID        int32
	PID       uint32
	FD        uint32
	TargetID  int32
	CurrentID int32
)

func (ID) Kind() uint16         { return NETNSA_NSID }
func (ID) ValueLen() int        { return 4 }
func (i ID) EmitValue(b []byte) { nla.PutInt32(b, int32(i)) }

func (PID) Kind() uint16         { return NETNSA_PID }
func (PID) ValueLen() int        { return 4 }
func (p PID) EmitValue(b []byte) { nla.PutUint32(b, uint32(p)) }

func (FD) Kind() uint16         { return NETNSA_FD }
func (FD) ValueLen() int        { return 4 }
func (f FD) EmitValue(b []byte) { nla.PutUint32(b, uint32(f)) }

func (TargetID) Kind() uint16         { return NETNSA_TARGET_NSID }
func (TargetID) ValueLen() int        { return 4 }
func (i TargetID) EmitValue(b []byte) { nla.PutInt32(b, int32(i)) }

func (CurrentID) Kind() uint16         { return NETNSA_CURRENT_NSID }
func (CurrentID) ValueLen() int        { return 4 }
func (i CurrentID) EmitValue(b []byte) { nla.PutInt32(b, int32(i)) }

func parseAttribute(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case NETNSA_NSID:
		v, err := nla.Int32(p)
		return ID(v), err
	case NETNSA_PID:
		v, err := nla.Uint32(p)
		return PID(v), err
	case NETNSA_FD:
		v, err := nla.Uint32(p)
		return FD(v), err
	case NETNSA_TARGET_NSID:
		v, err := nla.Int32(p)
		return TargetID(v), err
	case NETNSA_CURRENT_NSID:
		v, err := nla.Int32(p)
		return CurrentID(v), err
	}
	nla.Notice("nsid", r)
	return nla.NewUnknown(r), nil
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
	v.SetBytes(0, []byte{uint8(m.Header.Family), 0, 0, 0})
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
		return fmt.Errorf("nsid header: %w", err)
	}
	m.Header.Family = family.Family(v.Uint8(0))

	m.Attributes, err = nla.ParseList(v.Payload(), parseAttribute)
	if err != nil {
		return fmt.Errorf("nsid attributes: %w", err)
	}
	return nil
}
