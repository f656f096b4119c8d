package tc

import (
	"bytes"
	"errors"
	"log/slog"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/josharian/native"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
)

func init() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: true,
		Level:     nla.LevelTrace,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time.
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			// Remove the directory from the source's filename.
			if a.Key == slog.SourceKey {
				source := a.Value.Any().(*slog.Source)
				source.File = filepath.Base(source.File)
			}
			return a
		},
	}))
	slog.SetDefault(logger)
}

var cmpOpts = []cmp.Option{
	cmpopts.EquateComparable(netip.Addr{}),
	cmpopts.EquateEmpty(),
}

// Captured with nlmon while running `tc -s qdisc show` and `tc -s filter
// show`, netlink header removed.
func TestCapturedTC(t *testing.T) {
	if native.IsBigEndian {
		t.Skip("captured fixtures are little endian")
	}

	tests := map[string]struct {
		raw  []byte
		want Message
	}{
		"ingress qdisc": {
			raw: []byte{
				0x00, 0x00, 0x00, 0x00, 0x1f, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff, 0xff,
				0xf1, 0xff, 0xff, 0xff, 0x01, 0x00, 0x00, 0x00, 0x0c, 0x00, 0x01, 0x00,
				0x69, 0x6e, 0x67, 0x72, 0x65, 0x73, 0x73, 0x00, 0x04, 0x00, 0x02, 0x00,
				0x05, 0x00, 0x0c, 0x00, 0x00, 0x00, 0x00, 0x00, 0x30, 0x00, 0x07, 0x00,
				0x14, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x18, 0x00, 0x03, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x03, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00,
			},
			want: Message{
				Header: Header{
					Family: family.Unspec,
					Index:  31,
					Handle: NewHandle(0xffff, 0),
					Parent: HandleIngress,
					Info:   1,
				},
				Attributes: []nla.Attribute{
					Kind(KindIngress),
					Options(nil),
					HWOffload(0),
					Stats2{
						StatsBasic{Type: TCA_STATS_BASIC},
						StatsQueue{},
					},
					Stats{},
				},
			},
		},
		"fq_codel qdisc": {
			raw: []byte{
				0x00, 0x00, 0x00, 0x00, 0x1c, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0xff, 0xff, 0xff, 0xff, 0x02, 0x00, 0x00, 0x00,
				0x0d, 0x00, 0x01, 0x00, 0x66, 0x71, 0x5f, 0x63, 0x6f, 0x64, 0x65, 0x6c, 0x00, 0x00, 0x00, 0x00,
				0x44, 0x00, 0x02, 0x00,
				0x08, 0x00, 0x01, 0x00, 0x87, 0x13, 0x00, 0x00,
				0x08, 0x00, 0x02, 0x00, 0x00, 0x28, 0x00, 0x00,
				0x08, 0x00, 0x03, 0x00, 0x9f, 0x86, 0x01, 0x00,
				0x08, 0x00, 0x04, 0x00, 0x01, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x06, 0x00, 0x3c, 0x05, 0x00, 0x00,
				0x08, 0x00, 0x08, 0x00, 0x40, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x09, 0x00, 0x00, 0x00, 0x00, 0x02,
				0x08, 0x00, 0x05, 0x00, 0x00, 0x04, 0x00, 0x00,
				0x05, 0x00, 0x0c, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x5c, 0x00, 0x07, 0x00,
				0x2c, 0x00, 0x04, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x70, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x24, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00,
				0x14, 0x00, 0x01, 0x00,
				0xe2, 0x47, 0xe0, 0x00, 0x00, 0x00, 0x00, 0x00, 0xb9, 0x67, 0x01, 0x00,
				0x00, 0x00, 0x00, 0x00,
				0x18, 0x00, 0x03, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x2c, 0x00, 0x03, 0x00,
				0xe2, 0x47, 0xe0, 0x00, 0x00, 0x00, 0x00, 0x00, 0xb9, 0x67, 0x01, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00,
				0x2c, 0x00, 0x04, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x70, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x24, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00,
			},
			want: Message{
				Header: Header{
					Family: family.Unspec,
					Index:  28,
					Handle: HandleUnspec,
					Parent: HandleRoot,
					Info:   2,
				},
				Attributes: []nla.Attribute{
					Kind(KindFQCodel),
					Options{
						FQCodelOption{Type: TCA_FQ_CODEL_TARGET, Value: 4999},
						FQCodelOption{Type: TCA_FQ_CODEL_LIMIT, Value: 10240},
						FQCodelOption{Type: TCA_FQ_CODEL_INTERVAL, Value: 99999},
						FQCodelOption{Type: TCA_FQ_CODEL_ECN, Value: 1},
						FQCodelOption{Type: TCA_FQ_CODEL_QUANTUM, Value: 1340},
						FQCodelOption{Type: TCA_FQ_CODEL_DROP_BATCH_SIZE, Value: 64},
						FQCodelOption{Type: TCA_FQ_CODEL_MEMORY_LIMIT, Value: 33554432},
						FQCodelOption{Type: TCA_FQ_CODEL_FLOWS, Value: 1024},
					},
					HWOffload(0),
					Stats2{
						FQCodelXStats{Qdisc: &FQCodelQdiscStats{MaxPacket: 368, NewFlowCount: 36}},
						StatsBasic{Type: TCA_STATS_BASIC, Bytes: 14698466, Packets: 92089},
						StatsQueue{},
					},
					Stats{Bytes: 14698466, Packets: 92089},
					FQCodelXStats{Qdisc: &FQCodelQdiscStats{MaxPacket: 368, NewFlowCount: 36}},
				},
			},
		},
		"u32 filter": {
			raw: []byte{
				0x00, 0x00, 0x00, 0x00, 0x23, 0x00, 0x00, 0x00, 0x00, 0x08, 0x00, 0x80,
				0x00, 0x00, 0x01, 0x00, 0x08, 0x00, 0x04, 0x00, 0x08, 0x00, 0x01, 0x00,
				0x75, 0x33, 0x32, 0x00, 0x08, 0x00, 0x0b, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x74, 0x00, 0x02, 0x00, 0x34, 0x00, 0x05, 0x00, 0x01, 0x00, 0x02, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0xff, 0xff, 0xff, 0xff, 0xc0, 0xa8, 0xbe, 0x07, 0x10, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0x00, 0x00, 0x8c, 0xa0,
				0x14, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x08, 0x00, 0x02, 0x00,
				0x00, 0x00, 0x00, 0x80, 0x08, 0x00, 0x01, 0x00, 0x04, 0x00, 0x01, 0x00,
				0x08, 0x00, 0x0b, 0x00, 0x08, 0x00, 0x00, 0x00, 0x24, 0x00, 0x09, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			want: Message{
				Header: Header{
					Family: family.Unspec,
					Index:  35,
					Handle: NewHandle(0x8000, 0x800),
					Parent: NewHandle(1, 0),
					Info:   FilterInfo(4, 0x0800),
				},
				Attributes: []nla.Attribute{
					Kind(KindU32),
					Chain(0),
					Options{
						U32Selector{
							Flags: U32Terminal,
							Keys: []U32Key{
								{Mask: 0xffffffff, Value: 0xc0a8be07, Off: 16},
								{Mask: 0x0000ffff, Value: 36000, Off: 20},
							},
						},
						U32Value{Type: TCA_U32_HASH, Value: 0x80000000},
						ClassID{Type: TCA_U32_CLASSID, Value: NewHandle(1, 4)},
						Flags{Type: TCA_U32_FLAGS, Value: FilterNotInHW},
						U32Counters{KeyHits: []uint64{0, 0}},
					},
				},
			},
		},
		"matchall filter mirroring": {
			raw: []byte{
				0x00, 0x00, 0x00, 0x00, 0x32, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x01, 0x00, 0x00, 0x03, 0x00, 0xc0,
				0x0d, 0x00, 0x01, 0x00, 0x6d, 0x61, 0x74, 0x63, 0x68, 0x61, 0x6c, 0x6c, 0x00, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x0b, 0x00, 0x00, 0x00, 0x00, 0x00,
				0xc0, 0x00, 0x02, 0x00,
				0x08, 0x00, 0x03, 0x00, 0x08, 0x00, 0x00, 0x00,
				0x0c, 0x00, 0x04, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0xa8, 0x00, 0x02, 0x00,
				0xa4, 0x00, 0x01, 0x00,
				0x0b, 0x00, 0x01, 0x00, 0x6d, 0x69, 0x72, 0x72, 0x65, 0x64, 0x00, 0x00,
				0x44, 0x00, 0x04, 0x00,
				0x14, 0x00, 0x01, 0x00, 0x46, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x14, 0x00, 0x07, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x18, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x0a, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x48, 0x00, 0x02, 0x80,
				0x20, 0x00, 0x02, 0x00,
				0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00,
				0x01, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00,
				0x33, 0x00, 0x00, 0x00,
				0x24, 0x00, 0x01, 0x00,
				0x90, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0x02, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x02, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			want: Message{
				Header: Header{
					Family: family.Unspec,
					Index:  50,
					Handle: NewHandle(0, 1),
					Parent: NewHandle(1, 0),
					Info:   FilterInfo(0xc000, 0x0003),
				},
				Attributes: []nla.Attribute{
					Kind(KindMatchAll),
					Chain(0),
					Options{
						Flags{Type: TCA_MATCHALL_FLAGS, Value: FilterNotInHW},
						MatchAllHits(1),
						Actions{Type: TCA_MATCHALL_ACT, Actions: []Action{{
							Tab: 1,
							Attributes: []nla.Attribute{
								ActionKind(ActionMirred),
								ActionStats{
									StatsBasic{Type: TCA_STATS_BASIC, Bytes: 70, Packets: 1},
									StatsBasic{Type: TCA_STATS_BASIC_HW},
									StatsQueue{},
								},
								ActionInHWCount(0),
								nla.Flagged{Flags: nla.FlagNested, Attribute: ActionOptions{
									Mirred{
										Generic: ActionGeneric{Index: 1, Action: VerdictPipe, RefCount: 1, BindCount: 1},
										Action:  MirredEgressMirror,
										IfIndex: 51,
									},
									Tcf{Type: TCA_MIRRED_TM, Install: 912, LastUse: 514, FirstUse: 514},
								}},
							},
						}}},
					},
				},
			},
		},
		"bpf direct action": {
			raw: []byte{
				0x00, 0x00, 0x00, 0x00, 0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0xf3, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00, 0x08, 0x00, 0x01, 0x00,
				0x62, 0x70, 0x66, 0x00, 0x08, 0x00, 0x0b, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x48, 0x00, 0x02, 0x00, 0x08, 0x00, 0x03, 0x00, 0x06, 0x00, 0x07, 0x00,
				0x08, 0x00, 0x06, 0x00, 0x04, 0x00, 0x00, 0x00, 0x0e, 0x00, 0x07, 0x00,
				0x70, 0x61, 0x72, 0x73, 0x65, 0x5f, 0x73, 0x6b, 0x62, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x08, 0x00, 0x01, 0x00, 0x00, 0x00, 0x08, 0x00, 0x09, 0x00,
				0x08, 0x00, 0x00, 0x00, 0x0c, 0x00, 0x0a, 0x00, 0xa0, 0x4f, 0x5e, 0xef,
				0x06, 0xa7, 0xf5, 0x55, 0x08, 0x00, 0x0b, 0x00, 0x27, 0x00, 0x00, 0x00,
			},
			want: Message{
				Header: Header{
					Family: family.Unspec,
					Index:  5,
					Parent: NewHandle(0xffff, 0xfff3),
				},
				Attributes: []nla.Attribute{
					Kind(KindBPF),
					Chain(0),
					Options{
						ClassID{Type: TCA_BPF_CLASSID, Value: NewHandle(7, 6)},
						BPFProgramFD(4),
						BPFProgramName("parse_skb"),
						BPFDirectAction,
						Flags{Type: TCA_BPF_FLAGS_GEN, Value: FilterNotInHW},
						BPFProgramTag{0xa0, 0x4f, 0x5e, 0xef, 0x06, 0xa7, 0xf5, 0x55},
						BPFProgramID(39),
					},
				},
			},
		},
		"u32 filter with nat": {
			raw: []byte{
				0x00, 0x00, 0x00, 0x00, 0x35, 0x00, 0x00, 0x00, 0x00, 0x08, 0x00, 0x80,
				0x00, 0x00, 0x01, 0x00, 0x08, 0x00, 0x04, 0x00, 0x08, 0x00, 0x01, 0x00,
				0x75, 0x33, 0x32, 0x00, 0x08, 0x00, 0x0b, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x01, 0x02, 0x00, 0x24, 0x00, 0x05, 0x00, 0x01, 0x00, 0x01, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0xff, 0xff, 0xff, 0xff, 0xc0, 0x00, 0x02, 0x02, 0x10, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x08, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00, 0x80,
				0x08, 0x00, 0x0b, 0x00, 0x08, 0x00, 0x00, 0x00, 0xac, 0x00, 0x07, 0x00,
				0xa8, 0x00, 0x01, 0x00, 0x08, 0x00, 0x01, 0x00, 0x6e, 0x61, 0x74, 0x00,
				0x44, 0x00, 0x04, 0x00, 0x14, 0x00, 0x01, 0x00, 0x62, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x14, 0x00, 0x07, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x18, 0x00, 0x03, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x08, 0x00, 0x0a, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x50, 0x00, 0x02, 0x00, 0x28, 0x00, 0x01, 0x00,
				0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x01, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0xc0, 0x00, 0x02, 0x02,
				0xcb, 0x00, 0x71, 0x01, 0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00,
				0x24, 0x00, 0x02, 0x00, 0x87, 0x14, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x78, 0x07, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x78, 0x07, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x1c, 0x00, 0x09, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00,
			},
			want: Message{
				Header: Header{
					Family: family.Unspec,
					Index:  53,
					Handle: NewHandle(0x8000, 0x800),
					Parent: NewHandle(1, 0),
					Info:   FilterInfo(4, 0x0800),
				},
				Attributes: []nla.Attribute{
					Kind(KindU32),
					Chain(0),
					Options{
						U32Selector{
							Flags: U32Terminal,
							Keys:  []U32Key{{Mask: 0xffffffff, Value: 0xc0000202, Off: 16}},
						},
						U32Value{Type: TCA_U32_HASH, Value: 0x80000000},
						Flags{Type: TCA_U32_FLAGS, Value: FilterNotInHW},
						Actions{Type: TCA_U32_ACT, Actions: []Action{{
							Tab: 1,
							Attributes: []nla.Attribute{
								ActionKind(ActionNAT),
								ActionStats{
									StatsBasic{Type: TCA_STATS_BASIC, Bytes: 98, Packets: 1},
									StatsBasic{Type: TCA_STATS_BASIC_HW},
									StatsQueue{},
								},
								ActionInHWCount(0),
								ActionOptions{
									NAT{
										Generic: ActionGeneric{Index: 1, Action: VerdictOK, RefCount: 1, BindCount: 1},
										OldAddr: netip.MustParseAddr("192.0.2.2"),
										NewAddr: netip.MustParseAddr("203.0.113.1"),
										Mask:    netip.MustParseAddr("255.255.255.255"),
									},
									Tcf{Type: TCA_NAT_TM, Install: 5255, LastUse: 1912, FirstUse: 1912},
								},
							},
						}}},
						U32Counters{Lookups: 4, Hits: 1, KeyHits: []uint64{1}},
					},
				},
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var got Message
			if err := got.UnmarshalBinary(tc.raw); err != nil {
				t.Fatalf("error parsing message: %v", err)
			}

			if diff := cmp.Diff(tc.want, got, cmpOpts...); diff != "" {
				t.Errorf("parsed message mismatch (-want +got):\n%s", diff)
			}

			b, err := got.MarshalBinary()
			if err != nil {
				t.Fatalf("error emitting message: %v", err)
			}
			if !bytes.Equal(b, tc.raw) {
				t.Errorf("re-emitted message differs:\n got %x\nwant %x", b, tc.raw)
			}
		})
	}
}

// Single actions as dumped by RTM_GETACTION for `tc actions add action
// tunnel_key set id 33 ... dst_port 4789 tos 1 ttl 2`.
func TestCapturedActions(t *testing.T) {
	if native.IsBigEndian {
		t.Skip("captured fixtures are little endian")
	}

	stats := ActionStats{
		StatsBasic{Type: TCA_STATS_BASIC},
		StatsBasic{Type: TCA_STATS_BASIC_HW},
		StatsQueue{},
	}

	tests := map[string]struct {
		raw  []byte
		want Action
	}{
		"tunnel_key ipv4": {
			raw: []byte{
				0xd4, 0x00, 0x01, 0x00, 0x0f, 0x00, 0x01, 0x00, 0x74, 0x75, 0x6e, 0x6e,
				0x65, 0x6c, 0x5f, 0x6b, 0x65, 0x79, 0x00, 0x00, 0x44, 0x00, 0x04, 0x00,
				0x14, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x14, 0x00, 0x07, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x18, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x7c, 0x00, 0x02, 0x80, 0x1c, 0x00, 0x02, 0x00,
				0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00,
				0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x07, 0x00, 0x00, 0x00, 0x00, 0x21, 0x08, 0x00, 0x03, 0x00,
				0x01, 0x02, 0x03, 0x04, 0x08, 0x00, 0x04, 0x00, 0x02, 0x03, 0x04, 0x05,
				0x06, 0x00, 0x09, 0x00, 0x12, 0xb5, 0x00, 0x00, 0x05, 0x00, 0x0a, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x05, 0x00, 0x0c, 0x00, 0x01, 0x00, 0x00, 0x00,
				0x05, 0x00, 0x0d, 0x00, 0x02, 0x00, 0x00, 0x00, 0x24, 0x00, 0x01, 0x00,
				0xb0, 0x23, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xb0, 0x23, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			want: Action{
				Tab: 1,
				Attributes: []nla.Attribute{
					ActionKind(ActionTunnelKey),
					stats,
					nla.Flagged{Flags: nla.FlagNested, Attribute: ActionOptions{
						TunnelKey{
							Generic: ActionGeneric{Index: 2, Action: VerdictPipe, RefCount: 1},
							Action:  TunnelKeySet,
						},
						TunnelKeyID(33),
						TunnelEndpoint{Address: netip.MustParseAddr("1.2.3.4")},
						TunnelEndpoint{Destination: true, Address: netip.MustParseAddr("2.3.4.5")},
						TunnelDestinationPort(4789),
						TunnelKeyOption{Type: TCA_TUNNEL_KEY_NO_CSUM, Value: 0},
						TunnelKeyOption{Type: TCA_TUNNEL_KEY_ENC_TOS, Value: 1},
						TunnelKeyOption{Type: TCA_TUNNEL_KEY_ENC_TTL, Value: 2},
						Tcf{Type: TCA_TUNNEL_KEY_TM, Install: 9136, LastUse: 9136},
					}},
				},
			},
		},
		"tunnel_key ipv6": {
			raw: []byte{
				0xec, 0x00, 0x00, 0x00, 0x0f, 0x00, 0x01, 0x00, 0x74, 0x75, 0x6e, 0x6e,
				0x65, 0x6c, 0x5f, 0x6b, 0x65, 0x79, 0x00, 0x00, 0x44, 0x00, 0x04, 0x00,
				0x14, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x14, 0x00, 0x07, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x18, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x94, 0x00, 0x02, 0x80, 0x1c, 0x00, 0x02, 0x00,
				0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00,
				0x01, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x07, 0x00, 0x00, 0x00, 0x00, 0x21, 0x14, 0x00, 0x05, 0x00,
				0x2a, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x14, 0x00, 0x06, 0x00, 0x2a, 0x01, 0x00, 0x02,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x06, 0x00, 0x09, 0x00, 0x12, 0xb5, 0x00, 0x00, 0x05, 0x00, 0x0a, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x05, 0x00, 0x0c, 0x00, 0x01, 0x00, 0x00, 0x00,
				0x05, 0x00, 0x0d, 0x00, 0x02, 0x00, 0x00, 0x00, 0x24, 0x00, 0x01, 0x00,
				0xfb, 0x71, 0x3a, 0x00, 0x00, 0x00, 0x00, 0x00, 0xfb, 0x71, 0x3a, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			want: Action{
				Attributes: []nla.Attribute{
					ActionKind(ActionTunnelKey),
					stats,
					nla.Flagged{Flags: nla.FlagNested, Attribute: ActionOptions{
						TunnelKey{
							Generic: ActionGeneric{Index: 1, Action: VerdictPipe, RefCount: 1, BindCount: 1},
							Action:  TunnelKeySet,
						},
						TunnelKeyID(33),
						TunnelEndpoint{Address: netip.MustParseAddr("2a00:1::")},
						TunnelEndpoint{Destination: true, Address: netip.MustParseAddr("2a01:2::")},
						TunnelDestinationPort(4789),
						TunnelKeyOption{Type: TCA_TUNNEL_KEY_NO_CSUM, Value: 0},
						TunnelKeyOption{Type: TCA_TUNNEL_KEY_ENC_TOS, Value: 1},
						TunnelKeyOption{Type: TCA_TUNNEL_KEY_ENC_TTL, Value: 2},
						Tcf{Type: TCA_TUNNEL_KEY_TM, Install: 3830267, LastUse: 3830267},
					}},
				},
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			recs, err := nla.Records(tc.raw)
			if err != nil || len(recs) != 1 {
				t.Fatalf("expected one action record; got %d (%v)", len(recs), err)
			}
			got, err := parseAction(recs[0])
			if err != nil {
				t.Fatalf("error parsing action: %v", err)
			}
			if diff := cmp.Diff(tc.want, got, cmpOpts...); diff != "" {
				t.Errorf("parsed action mismatch (-want +got):\n%s", diff)
			}
			if b := nla.MarshalList([]Action{got}); !bytes.Equal(b, tc.raw) {
				t.Errorf("re-emitted bytes differ:\n got %x\nwant %x", b, tc.raw)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	tests := map[string]Message{
		"classic bpf with action": {
			Header: Header{Index: 6, Handle: NewHandle(0, 1), Parent: NewHandle(0xffff, 0xfff2), Info: FilterInfo(1, 0x0003)},
			Attributes: []nla.Attribute{
				Kind(KindBPF),
				Options{
					BPFOpsLen(2),
					BPFOps{{Code: 0x28, K: 12}, {Code: 0x06, Jt: 1, Jf: 2, K: 0xffff}},
					ClassID{Type: TCA_BPF_CLASSID, Value: NewHandle(1, 10)},
					Actions{Type: TCA_BPF_ACT, Actions: []Action{{
						Tab: 1,
						Attributes: []nla.Attribute{
							ActionKind(ActionTunnelKey),
							ActionOptions{
								TunnelKey{Generic: ActionGeneric{Index: 4, Action: VerdictPipe}, Action: TunnelKeyRelease},
								TunnelNoFrag{},
							},
						},
					}}},
				},
			},
		},
		"fq_codel class": {
			Header: Header{Index: 4, Handle: NewHandle(1, 0x2a), Parent: NewHandle(1, 0)},
			Attributes: []nla.Attribute{
				Kind(KindFQCodel),
				Options{
					FQCodelOption{Type: TCA_FQ_CODEL_CE_THRESHOLD, Value: 1000},
					FQCodelCEThreshold8{Type: TCA_FQ_CODEL_CE_THRESHOLD_SELECTOR, Value: 0x01},
					FQCodelCEThreshold8{Type: TCA_FQ_CODEL_CE_THRESHOLD_MASK, Value: 0xfc},
				},
				Estimator{Interval: -2, EWMALog: 3},
				Stats2{
					StatsRateEst{BPS: 1000, PPS: 10},
					StatsRateEst64{BPS: 1 << 40, PPS: 1 << 33},
					StatsPackets64(1 << 35),
					FQCodelXStats{Class: &FQCodelClassStats{Deficit: -12, LDelay: 30, Count: 2, Dropping: 1, DropNext: -5}},
				},
				FQCodelXStats{Class: &FQCodelClassStats{Deficit: 1514}},
			},
		},
		"clsact with blocks": {
			Header: Header{Index: 9, Handle: NewHandle(0xffff, 0), Parent: HandleIngress},
			Attributes: []nla.Attribute{
				Kind(KindClsact),
				Block{Type: TCA_INGRESS_BLOCK, Value: 22},
				Block{Type: TCA_EGRESS_BLOCK, Value: 23},
				FilterCount(3),
				DumpInvisible{},
				nla.Unknown{Type: TCA_DUMP_FLAGS, Value: []byte{0x01, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}},
			},
		},
		"u32 hash table link": {
			Header: Header{Index: 2, Handle: NewHandle(0x800, 0x801), Parent: NewHandle(1, 0), Info: FilterInfo(1, 0x0800)},
			Attributes: []nla.Attribute{
				Kind(KindU32),
				Options{
					U32Value{Type: TCA_U32_DIVISOR, Value: 256},
					U32Value{Type: TCA_U32_LINK, Value: 0x80000000},
					U32Selector{
						Flags:    U32Terminal | U32Offset | U32Eat,
						OffShift: 6,
						OffMask:  0x0f00,
						Off:      4,
						OffOff:   -2,
						HOff:     12,
						HMask:    0x000000ff,
						Keys:     []U32Key{{Mask: 0x00ff0000, Value: 0x00060000, Off: 8, OffMask: -1}},
					},
					U32InDev("eth0"),
					U32Mark{Value: 0x10, Mask: 0xff, Success: 7},
					Actions{Type: TCA_U32_ACT, Actions: []Action{
						{Tab: 1, Attributes: []nla.Attribute{
							ActionKind(ActionNAT),
							ActionIndex(3),
							ActionCookie{0xde, 0xad, 0xbe, 0xef},
							ActionOptions{
								NAT{
									Generic: ActionGeneric{Index: 3, Action: VerdictGotoChain | 4},
									OldAddr: netip.MustParseAddr("10.0.0.0"),
									NewAddr: netip.MustParseAddr("192.0.2.0"),
									Mask:    netip.MustParseAddr("255.255.255.0"),
									Flags:   NATEgress,
								},
							},
						}},
						{Tab: 2, Attributes: []nla.Attribute{
							ActionKind(ActionMirred),
							nla.Flagged{Flags: nla.FlagNested, Attribute: ActionOptions{
								Mirred{
									Generic: ActionGeneric{Action: VerdictStolen},
									Action:  MirredIngressRedirect,
									IfIndex: 7,
								},
							}},
						}},
					}},
				},
			},
		},
		"matchall classid": {
			Header: Header{Index: 5, Handle: NewHandle(0, 1), Parent: NewHandle(0xffff, 0xfff2)},
			Attributes: []nla.Attribute{
				Kind(KindMatchAll),
				Options{
					ClassID{Type: TCA_MATCHALL_CLASSID, Value: NewHandle(1, 1)},
					Flags{Type: TCA_MATCHALL_FLAGS, Value: FilterSkipHW},
				},
			},
		},
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			b, err := want.MarshalBinary()
			if err != nil {
				t.Fatalf("error emitting message: %v", err)
			}

			var got Message
			if err := got.UnmarshalBinary(b); err != nil {
				t.Fatalf("error parsing message: %v", err)
			}

			if diff := cmp.Diff(want, got, cmpOpts...); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnknownKind(t *testing.T) {
	m := Message{
		Header: Header{Index: 3, Parent: HandleRoot},
		Attributes: []nla.Attribute{
			Kind("cake"),
			Options{
				FQCodelOption{Type: 1, Value: 100},
			},
			nla.Unknown{Type: TCA_XSTATS, Value: []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}},
		},
	}
	b, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("error emitting message: %v", err)
	}

	var got Message
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("error parsing message: %v", err)
	}

	want := []nla.Attribute{
		Kind("cake"),
		nla.Nested{Type: TCA_OPTIONS, Attributes: []nla.Attribute{
			nla.Unknown{Type: 1, Value: []byte{0x64, 0x00, 0x00, 0x00}},
		}},
		nla.Unknown{Type: TCA_XSTATS, Value: []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}},
	}
	if diff := cmp.Diff(want, got.Attributes, cmpOpts...); diff != "" {
		t.Errorf("opaque attributes mismatch (-want +got):\n%s", diff)
	}

	out, err := got.MarshalBinary()
	if err != nil {
		t.Fatalf("error emitting message: %v", err)
	}
	if !bytes.Equal(out, b) {
		t.Errorf("re-emitted message differs:\n got %x\nwant %x", out, b)
	}
}

func TestBadSelector(t *testing.T) {
	m := Message{
		Attributes: []nla.Attribute{
			Kind(KindU32),
			Options{
				// 255 keys announced, none present.
				nla.Unknown{Type: TCA_U32_SEL, Value: []byte{
					0x00, 0x00, 0xff, 0x00, 0x00, 0x00, 0x00, 0x00,
					0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				}},
			},
		},
	}
	b, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("error emitting message: %v", err)
	}

	var got Message
	err = got.UnmarshalBinary(b)
	var vErr *nla.ValueError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected a value error; got %v", err)
	}
	var aErr *nla.AttributeError
	if !errors.As(err, &aErr) || aErr.Kind != TCA_OPTIONS {
		t.Errorf("expected the error to name TCA_OPTIONS; got %v", err)
	}
}

func TestMalformedKind(t *testing.T) {
	m := Message{
		Attributes: []nla.Attribute{
			nla.Unknown{Type: TCA_KIND, Value: []byte{0xff, 0xfe, 0x00}},
			Options{},
		},
	}
	b, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("error emitting message: %v", err)
	}

	var got Message
	err = got.UnmarshalBinary(b)
	var cErr *nla.ContextError
	if !errors.As(err, &cErr) || cErr.Selector != "TCA_KIND" {
		t.Fatalf("expected a context error on TCA_KIND; got %v", err)
	}
}

func TestShortStats(t *testing.T) {
	raw := []byte{
		0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x0c, 0x00, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}

	var got Message
	err := got.UnmarshalBinary(raw)
	var vErr *nla.ValueError
	if !errors.As(err, &vErr) || vErr.Field != "tc_stats" {
		t.Fatalf("expected a tc_stats value error; got %v", err)
	}
}

func TestMalformedOptions(t *testing.T) {
	tests := map[string]struct {
		fn   nla.ParseFunc
		attr nla.Attribute
	}{
		"partial bpf instruction": {parseBPF, nla.Unknown{Type: TCA_BPF_OPS, Value: make([]byte, 12)}},
		"short bpf tag":           {parseBPF, nla.Unknown{Type: TCA_BPF_TAG, Value: make([]byte, 4)}},
		"long tunnel_key parms":   {parseTunnelKey, nla.Unknown{Type: TCA_TUNNEL_KEY_PARMS, Value: make([]byte, tunnelKeyLen+4)}},
		"ipv6 in ipv4 endpoint":   {parseTunnelKey, nla.Unknown{Type: TCA_TUNNEL_KEY_ENC_IPV4_DST, Value: make([]byte, 16)}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := nla.ParseList(nla.MarshalList([]nla.Attribute{tt.attr}), tt.fn); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestHandles(t *testing.T) {
	tests := map[string]struct {
		h            Handle
		major, minor uint16
		str          string
	}{
		"root":    {h: HandleRoot, major: 0xffff, minor: 0xffff, str: "root"},
		"ingress": {h: HandleIngress, major: 0xffff, minor: 0xfff1, str: "ingress"},
		"class":   {h: NewHandle(1, 0x2a), major: 1, minor: 0x2a, str: "1:2a"},
		"qdisc":   {h: Handle(0x80000000), major: 0x8000, minor: 0, str: "8000:0"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if tc.h.Major() != tc.major || tc.h.Minor() != tc.minor {
				t.Errorf("got %x:%x; want %x:%x", tc.h.Major(), tc.h.Minor(), tc.major, tc.minor)
			}
			if s := tc.h.String(); s != tc.str {
				t.Errorf("got %q; want %q", s, tc.str)
			}
		})
	}

	h := Header{Info: FilterInfo(10, 0x86dd)}
	if h.Priority() != 10 || h.Protocol() != 0x86dd {
		t.Errorf("got priority %d protocol %#x; want 10 0x86dd", h.Priority(), h.Protocol())
	}

	// The ethertype sits in network order in the lower half of tcm_info,
	// whichever end of the word that is on this host.
	b, err := (&Message{Header: Header{Info: FilterInfo(1, 0x0800)}}).MarshalBinary()
	if err != nil {
		t.Fatalf("couldn't emit the header: %v", err)
	}
	lower := b[16:18]
	if native.IsBigEndian {
		lower = b[18:20]
	}
	if lower[0] != 0x08 || lower[1] != 0x00 {
		t.Errorf("ethertype bytes are %x; want 0800", lower)
	}
}

func TestStrings(t *testing.T) {
	tests := map[string]struct {
		got  string
		want string
	}{
		"pipe":           {VerdictPipe.String(), "pipe"},
		"goto chain":     {(VerdictGotoChain | 3).String(), "goto chain 3"},
		"jump":           {(VerdictJump | 2).String(), "jump 2"},
		"big goto chain": {(VerdictGotoChain | 0x0fffffff).String(), "goto chain 268435455"},
		"continue":       {VerdictUnspec.String(), "continue"},
		"unknown":        {Verdict(42).String(), "UNKNOWN_VERDICT_42"},
		"mirred":         {MirredEgressMirror.String(), "egress mirror"},
		"tunnel_key":     {TunnelKeyRelease.String(), "unset"},
		"bpf flags":      {(BPFDirectAction | 4).String(), "direct-action|0x4"},
		"bpf tag":        {BPFProgramTag{0xa0, 0x4f, 0x5e, 0xef, 0x06, 0xa7, 0xf5, 0x55}.String(), "a04f5eef06a7f555"},
		"filter flags":   {(FilterSkipHW | FilterInHW | 0x100).String(), "skip_hw|in_hw|0x100"},
		"nat ingress":    {NATFlags(0).String(), "ingress"},
		"selector flags": {(U32Terminal | U32Eat).String(), "terminal|eat"},
		"fq_codel":       {FQCodelOption{Type: TCA_FQ_CODEL_TARGET, Value: 4999}.String(), "target 4999"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %q; want %q", tc.got, tc.want)
			}
		})
	}
}
