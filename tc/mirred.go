package tc

import (
	"fmt"

	"github.com/scitags/rtnl-go/nla"
)

const (
	TCA_MIRRED_UNSPEC  = 0
	TCA_MIRRED_TM      = 1
	TCA_MIRRED_PARMS   = 2
	TCA_MIRRED_PAD     = 3
	TCA_MIRRED_BLOCKID = 4
)

// MirredAction says where mirred sends the packet and whether it keeps
// the original.
type MirredAction int32

const (
	MirredEgressRedirect  MirredAction = 1
	MirredEgressMirror    MirredAction = 2
	MirredIngressRedirect MirredAction = 3
	MirredIngressMirror   MirredAction = 4
)

var mirredActionName = map[MirredAction]string{
	MirredEgressRedirect:  "egress redirect",
	MirredEgressMirror:    "egress mirror",
	MirredIngressRedirect: "ingress redirect",
	MirredIngressMirror:   "ingress mirror",
}

func (a MirredAction) String() string {
	if n, ok := mirredActionName[a]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_MIRRED_ACTION_%d", int32(a))
}

const mirredLen = actionGenericLen + 8

// Mirred is struct tc_mirred.
type Mirred struct {
	Generic ActionGeneric
	Action  MirredAction
	IfIndex uint32
}

func (Mirred) Kind() uint16  { return TCA_MIRRED_PARMS }
func (Mirred) ValueLen() int { return mirredLen }
func (m Mirred) EmitValue(b []byte) {
	v := nla.NewView(b, mirredLen)
	m.Generic.emit(v)
	v.SetInt32(actionGenericLen, int32(m.Action))
	v.SetUint32(actionGenericLen+4, m.IfIndex)
}

func parseMirred(r nla.Record) (nla.Attribute, error) {
	switch r.Kind {
	case TCA_MIRRED_TM:
		return parseTcf(r)
	case TCA_MIRRED_PARMS:
		v, err := nla.Fixed(r.Value, mirredLen, "tc_mirred")
		if err != nil {
			return nil, err
		}
		return Mirred{
			Generic: parseActionGeneric(v),
			Action:  MirredAction(v.Int32(actionGenericLen)),
			IfIndex: v.Uint32(actionGenericLen + 4),
		}, nil
	}
	nla.Notice("tc/mirred", r)
	return nla.NewUnknown(r), nil
}
