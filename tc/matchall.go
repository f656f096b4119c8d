package tc

import "github.com/scitags/rtnl-go/nla"

const (
	TCA_MATCHALL_UNSPEC  = 0
	TCA_MATCHALL_CLASSID = 1
	TCA_MATCHALL_ACT     = 2
	TCA_MATCHALL_FLAGS   = 3
	TCA_MATCHALL_PCNT    = 4
	TCA_MATCHALL_PAD     = 5
)

// MatchAllHits is struct tc_matchall_pcnt.
type MatchAllHits uint64

func (MatchAllHits) Kind() uint16         { return TCA_MATCHALL_PCNT }
func (MatchAllHits) ValueLen() int        { return 8 }
func (h MatchAllHits) EmitValue(b []byte) { nla.PutUint64(b, uint64(h)) }

func parseMatchAll(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case TCA_MATCHALL_CLASSID:
		v, err := nla.Uint32(p)
		return ClassID{Type: r.Kind, Value: Handle(v)}, err
	case TCA_MATCHALL_ACT:
		return parseActions(r)
	case TCA_MATCHALL_FLAGS:
		v, err := nla.Uint32(p)
		return Flags{Type: r.Kind, Value: FilterFlags(v)}, err
	case TCA_MATCHALL_PCNT:
		v, err := nla.Uint64(p)
		return MatchAllHits(v), err
	}
	nla.Notice("tc/matchall", r)
	return nla.NewUnknown(r), nil
}
