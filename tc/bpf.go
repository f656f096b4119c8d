package tc

import (
	"fmt"

	"github.com/scitags/rtnl-go/nla"
)

const (
	TCA_BPF_UNSPEC    = 0
	TCA_BPF_ACT       = 1
	TCA_BPF_POLICE    = 2
	TCA_BPF_CLASSID   = 3
	TCA_BPF_OPS_LEN   = 4
	TCA_BPF_OPS       = 5
	TCA_BPF_FD        = 6
	TCA_BPF_NAME      = 7
	TCA_BPF_FLAGS     = 8
	TCA_BPF_FLAGS_GEN = 9
	TCA_BPF_TAG       = 10
	TCA_BPF_ID        = 11
)

// BPFFlags are TCA_BPF_FLAG_*.
type BPFFlags uint32

const BPFDirectAction BPFFlags = 1 << 0

var bpfFlagName = map[BPFFlags]string{
	BPFDirectAction: "direct-action",
}

func (f BPFFlags) String() string { return nla.FlagString(f, bpfFlagName) }

func (BPFFlags) Kind() uint16         { return TCA_BPF_FLAGS }
func (BPFFlags) ValueLen() int        { return 4 }
func (f BPFFlags) EmitValue(b []byte) { nla.PutUint32(b, uint32(f)) }

type (
	// BPFProgramFD is the descriptor of the program to attach; the kernel
	// echoes it back in dumps.
	BPFProgramFD uint32
	// BPFProgramID is the kernel wide id of the attached program.
	BPFProgramID uint32
	// BPFProgramName is the ELF section or program name.
	BPFProgramName string
	// BPFProgramTag is the program's 8 byte digest.
	BPFProgramTag [8]byte
)

func (BPFProgramFD) Kind() uint16         { return TCA_BPF_FD }
func (BPFProgramFD) ValueLen() int        { return 4 }
func (v BPFProgramFD) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (BPFProgramID) Kind() uint16         { return TCA_BPF_ID }
func (BPFProgramID) ValueLen() int        { return 4 }
func (v BPFProgramID) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

func (BPFProgramName) Kind() uint16         { return TCA_BPF_NAME }
func (n BPFProgramName) ValueLen() int      { return len(n) + 1 }
func (n BPFProgramName) EmitValue(b []byte) { nla.PutString(b, string(n)) }

func (BPFProgramTag) Kind() uint16         { return TCA_BPF_TAG }
func (BPFProgramTag) ValueLen() int        { return 8 }
func (t BPFProgramTag) EmitValue(b []byte) { copy(b, t[:]) }

func (t BPFProgramTag) String() string { return fmt.Sprintf("%x", t[:]) }

// BPFOpsLen is the instruction count of a classic BPF program.
type BPFOpsLen uint16

func (BPFOpsLen) Kind() uint16         { return TCA_BPF_OPS_LEN }
func (BPFOpsLen) ValueLen() int        { return 2 }
func (v BPFOpsLen) EmitValue(b []byte) { nla.PutUint16(b, uint16(v)) }

// SockFilter is struct sock_filter, one classic BPF instruction.
type SockFilter struct {
	Code uint16
	Jt   uint8
	Jf   uint8
	K    uint32
}

const sockFilterLen = 8

// BPFOps is a classic BPF program.
type BPFOps []SockFilter

func (BPFOps) Kind() uint16    { return TCA_BPF_OPS }
func (o BPFOps) ValueLen() int { return sockFilterLen * len(o) }
func (o BPFOps) EmitValue(b []byte) {
	for i, f := range o {
		v := nla.NewView(b[i*sockFilterLen:], sockFilterLen)
		v.SetUint16(0, f.Code)
		v.SetUint8(2, f.Jt)
		v.SetUint8(3, f.Jf)
		v.SetUint32(4, f.K)
	}
}

func parseBPFOps(b []byte) (BPFOps, error) {
	if len(b)%sockFilterLen != 0 {
		return nil, &nla.ValueError{Field: "sock_filter", Reason: fmt.Sprintf("%d bytes isn't a whole number of instructions", len(b))}
	}
	ops := make(BPFOps, 0, len(b)/sockFilterLen)
	for off := 0; off < len(b); off += sockFilterLen {
		v := nla.NewView(b[off:], sockFilterLen)
		ops = append(ops, SockFilter{Code: v.Uint16(0), Jt: v.Uint8(2), Jf: v.Uint8(3), K: v.Uint32(4)})
	}
	return ops, nil
}

func parseBPF(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case TCA_BPF_ACT:
		return parseActions(r)
	case TCA_BPF_POLICE:
		return nla.ParseOpaque(r), nil
	case TCA_BPF_CLASSID:
		v, err := nla.Uint32(p)
		return ClassID{Type: r.Kind, Value: Handle(v)}, err
	case TCA_BPF_OPS_LEN:
		v, err := nla.Uint16(p)
		return BPFOpsLen(v), err
	case TCA_BPF_OPS:
		return parseBPFOps(p)
	case TCA_BPF_FD:
		v, err := nla.Uint32(p)
		return BPFProgramFD(v), err
	case TCA_BPF_NAME:
		s, err := nla.String(p)
		return BPFProgramName(s), err
	case TCA_BPF_FLAGS:
		v, err := nla.Uint32(p)
		return BPFFlags(v), err
	case TCA_BPF_FLAGS_GEN:
		v, err := nla.Uint32(p)
		return Flags{Type: r.Kind, Value: FilterFlags(v)}, err
	case TCA_BPF_TAG:
		v, err := nla.Fixed(p, 8, "bpf tag")
		if err != nil {
			return nil, err
		}
		return BPFProgramTag(v.Bytes(0, 8)), nil
	case TCA_BPF_ID:
		v, err := nla.Uint32(p)
		return BPFProgramID(v), err
	}
	nla.Notice("tc/bpf", r)
	return nla.NewUnknown(r), nil
}
