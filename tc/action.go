package tc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scitags/rtnl-go/nla"
)

const (
	TCA_ACT_UNSPEC        = 0
	TCA_ACT_KIND          = 1
	TCA_ACT_OPTIONS       = 2
	TCA_ACT_INDEX         = 3
	TCA_ACT_STATS         = 4
	TCA_ACT_PAD           = 5
	TCA_ACT_COOKIE        = 6
	TCA_ACT_FLAGS         = 7
	TCA_ACT_HW_STATS      = 8
	TCA_ACT_USED_HW_STATS = 9
	TCA_ACT_IN_HW_COUNT   = 10
)

const (
	ActionMirred    = "mirred"
	ActionNAT       = "nat"
	ActionTunnelKey = "tunnel_key"
)

var actionParsers = map[string]nla.ParseFunc{
	ActionMirred:    parseMirred,
	ActionNAT:       parseNAT,
	ActionTunnelKey: parseTunnelKey,
}

// Actions is the action table of a classifier. Every entry sits under its
// 1-based position in the table.
type Actions struct {
	Type    uint16
	Actions []Action
}

func (a Actions) Kind() uint16       { return a.Type }
func (a Actions) ValueLen() int      { return nla.ListLen(a.Actions) }
func (a Actions) EmitValue(b []byte) { nla.EmitList(b, a.Actions) }

type Action struct {
	Tab        uint16
	Attributes []nla.Attribute
}

func (a Action) Kind() uint16       { return a.Tab }
func (a Action) ValueLen() int      { return nla.ListLen(a.Attributes) }
func (a Action) EmitValue(b []byte) { nla.EmitList(b, a.Attributes) }

// ActionKind names the action, e.g. "mirred".
type ActionKind string

func (ActionKind) Kind() uint16         { return TCA_ACT_KIND }
func (k ActionKind) ValueLen() int      { return len(k) + 1 }
func (k ActionKind) EmitValue(b []byte) { nla.PutString(b, string(k)) }

// ActionOptions is decoded according to the ActionKind sibling. The kernel
// sets FlagNested on it, which parsing keeps by wrapping it in nla.Flagged.
type ActionOptions []nla.Attribute

func (ActionOptions) Kind() uint16         { return TCA_ACT_OPTIONS }
func (o ActionOptions) ValueLen() int      { return nla.ListLen(o) }
func (o ActionOptions) EmitValue(b []byte) { nla.EmitList(b, o) }

type (
	ActionIndex     uint32
	ActionInHWCount uint32
	// ActionCookie is opaque user data attached to the action.
	ActionCookie []byte
	// ActionStats holds the same TCA_STATS_* attributes as Stats2.
	ActionStats []nla.Attribute
)

func (ActionIndex) Kind() uint16         { return TCA_ACT_INDEX }
func (ActionIndex) ValueLen() int        { return 4 }
func (i ActionIndex) EmitValue(b []byte) { nla.PutUint32(b, uint32(i)) }

func (ActionInHWCount) Kind() uint16         { return TCA_ACT_IN_HW_COUNT }
func (ActionInHWCount) ValueLen() int        { return 4 }
func (c ActionInHWCount) EmitValue(b []byte) { nla.PutUint32(b, uint32(c)) }

func (ActionCookie) Kind() uint16         { return TCA_ACT_COOKIE }
func (c ActionCookie) ValueLen() int      { return len(c) }
func (c ActionCookie) EmitValue(b []byte) { copy(b, c) }

func (ActionStats) Kind() uint16         { return TCA_ACT_STATS }
func (l ActionStats) ValueLen() int      { return nla.ListLen(l) }
func (l ActionStats) EmitValue(b []byte) { nla.EmitList(b, l) }

// Verdict is the TC_ACT_* result of an action.
type Verdict int32

const (
	VerdictUnspec     Verdict = -1
	VerdictOK         Verdict = 0
	VerdictReclassify Verdict = 1
	VerdictShot       Verdict = 2
	VerdictPipe       Verdict = 3
	VerdictStolen     Verdict = 4
	VerdictQueued     Verdict = 5
	VerdictRepeat     Verdict = 6
	VerdictRedirect   Verdict = 7
	VerdictTrap       Verdict = 8

	// The extended verdicts carry an operand in their low bits.
	VerdictJump      Verdict = 1 << 28
	VerdictGotoChain Verdict = 2 << 28

	verdictOpcodeMask Verdict = -1 << 28
)

var verdictName = map[Verdict]string{
	VerdictUnspec:     "continue",
	VerdictOK:         "pass",
	VerdictReclassify: "reclassify",
	VerdictShot:       "drop",
	VerdictPipe:       "pipe",
	VerdictStolen:     "stolen",
	VerdictQueued:     "queued",
	VerdictRepeat:     "repeat",
	VerdictRedirect:   "redirect",
	VerdictTrap:       "trap",
}

func (v Verdict) String() string {
	switch v & verdictOpcodeMask {
	case VerdictJump:
		return fmt.Sprintf("jump %d", int32(v&^verdictOpcodeMask))
	case VerdictGotoChain:
		return fmt.Sprintf("goto chain %d", int32(v&^verdictOpcodeMask))
	}
	if n, ok := verdictName[v]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_VERDICT_%d", int32(v))
}

const actionGenericLen = 20

// ActionGeneric is tc_gen, the head of every action's parameter block.
type ActionGeneric struct {
	Index     uint32
	Capab     uint32
	Action    Verdict
	RefCount  int32
	BindCount int32
}

func (g ActionGeneric) emit(v nla.View) {
	v.SetUint32(0, g.Index)
	v.SetUint32(4, g.Capab)
	v.SetInt32(8, int32(g.Action))
	v.SetInt32(12, g.RefCount)
	v.SetInt32(16, g.BindCount)
}

func parseActionGeneric(v nla.View) ActionGeneric {
	return ActionGeneric{
		Index:     v.Uint32(0),
		Capab:     v.Uint32(4),
		Action:    Verdict(v.Int32(8)),
		RefCount:  v.Int32(12),
		BindCount: v.Int32(16),
	}
}

const tcfLen = 32

// Tcf is struct tcf_t, the action timestamps in jiffies.
type Tcf struct {
	Type     uint16
	Install  uint64
	LastUse  uint64
	Expires  uint64
	FirstUse uint64
}

func (t Tcf) Kind() uint16 { return t.Type }
func (Tcf) ValueLen() int  { return tcfLen }
func (t Tcf) EmitValue(b []byte) {
	v := nla.NewView(b, tcfLen)
	v.SetUint64(0, t.Install)
	v.SetUint64(8, t.LastUse)
	v.SetUint64(16, t.Expires)
	v.SetUint64(24, t.FirstUse)
}

func parseTcf(r nla.Record) (Tcf, error) {
	v, err := nla.Fixed(r.Value, tcfLen, "tcf_t")
	if err != nil {
		return Tcf{}, err
	}
	return Tcf{
		Type:     r.Kind,
		Install:  v.Uint64(0),
		LastUse:  v.Uint64(8),
		Expires:  v.Uint64(16),
		FirstUse: v.Uint64(24),
	}, nil
}

func parseActions(r nla.Record) (nla.Attribute, error) {
	recs, err := nla.Records(r.Value)
	if err != nil {
		return nil, err
	}
	a := Actions{Type: r.Kind}
	if len(recs) > 0 {
		a.Actions = make([]Action, 0, len(recs))
	}
	for _, rec := range recs {
		act, err := parseAction(rec)
		if err != nil {
			return nil, &nla.AttributeError{Kind: rec.Kind, Offset: rec.Offset, Err: err}
		}
		a.Actions = append(a.Actions, act)
	}
	return a, nil
}

func parseAction(r nla.Record) (Action, error) {
	recs, err := nla.Records(r.Value)
	if err != nil {
		return Action{}, err
	}
	kind, err := kindOf(recs, TCA_ACT_KIND, "TCA_ACT_KIND")
	if err != nil {
		return Action{}, err
	}
	attrs, err := nla.ParseRecords(recs, func(r nla.Record) (nla.Attribute, error) {
		return parseActionAttribute(r, kind)
	})
	return Action{Tab: r.Kind, Attributes: attrs}, err
}

func parseActionAttribute(r nla.Record, kind string) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case TCA_ACT_KIND:
		return ActionKind(kind), nil
	case TCA_ACT_OPTIONS:
		fn, ok := actionParsers[kind]
		if !ok {
			slog.Log(context.Background(), nla.LevelTrace, "no decoder for action kind", "kind", kind)
			return nla.ParseOpaque(r), nil
		}
		l, err := nla.ParseList(p, fn)
		return ActionOptions(l), err
	case TCA_ACT_INDEX:
		v, err := nla.Uint32(p)
		return ActionIndex(v), err
	case TCA_ACT_STATS:
		l, err := nla.ParseList(p, func(r nla.Record) (nla.Attribute, error) {
			return parseStats2(r, kind)
		})
		return ActionStats(l), err
	case TCA_ACT_COOKIE:
		return ActionCookie(nla.Bytes(p)), nil
	case TCA_ACT_IN_HW_COUNT:
		v, err := nla.Uint32(p)
		return ActionInHWCount(v), err
	}
	nla.Notice("tc/action", r)
	return nla.NewUnknown(r), nil
}
