package nexthop

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
	"github.com/scitags/rtnl-go/route"
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

func gw(s string) Gateway {
	return Gateway(family.AddrOf(netip.MustParseAddr(s)))
}

func TestCapturedNexthops(t *testing.T) {
	if native.IsBigEndian {
		t.Skip("captured fixtures are little endian")
	}

	tests := map[string]struct {
		raw  []byte
		want Message
	}{
		"gateway nexthop": {
			raw: []byte{
				0x02, 0x00, 0x03, 0x00, 0x04, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x05, 0x00, 0x02, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x06, 0x00, 0xc0, 0x00, 0x02, 0x01,
			},
			want: Message{
				Header: Header{Family: family.Inet, Protocol: route.ProtocolBoot, Flags: route.NextHopOnLink},
				Attributes: []nla.Attribute{
					ID(1),
					OutputInterface(2),
					gw("192.0.2.1"),
				},
			},
		},
		"multipath group": {
			raw: []byte{
				0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x01, 0x00, 0x0a, 0x00, 0x00, 0x00,
				0x14, 0x00, 0x02, 0x00,
				0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x02, 0x00, 0x00, 0x00, 0x09, 0x00, 0x00, 0x00,
				0x06, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			want: Message{
				Header: Header{Protocol: route.ProtocolBoot},
				Attributes: []nla.Attribute{
					ID(10),
					Group{{ID: 1}, {ID: 2, Weight: 9}},
					GroupMultipath,
				},
			},
		},
		"blackhole": {
			raw: []byte{
				0x0a, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x01, 0x00, 0x03, 0x00, 0x00, 0x00,
				0x04, 0x00, 0x04, 0x00,
			},
			want: Message{
				Header: Header{Family: family.Inet6, Protocol: route.ProtocolBoot},
				Attributes: []nla.Attribute{
					ID(3),
					Blackhole,
				},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var got Message
			if err := got.UnmarshalBinary(tt.raw); err != nil {
				t.Fatalf("couldn't parse the message: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmpOpts...); diff != "" {
				t.Errorf("unexpected message (-want +got):\n%s", diff)
			}

			b, err := got.MarshalBinary()
			if err != nil {
				t.Fatalf("couldn't emit the message: %v", err)
			}
			if !bytes.Equal(b, tt.raw) {
				t.Errorf("re-emitted bytes differ:\n got %x\nwant %x", b, tt.raw)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	tests := map[string]Message{
		"mpls encapsulation": {
			Header: Header{Family: family.Inet6, Scope: route.ScopeLink, Protocol: route.ProtocolStatic},
			Attributes: []nla.Attribute{
				ID(7),
				OutputInterface(4),
				gw("2001:db8::1"),
				EncapType(route.EncapMPLS),
				Encap{
					route.MPLSTunnelDestination{{Label: 100}, {Label: 200, BottomOfStack: true}},
					route.MPLSTunnelTTL(64),
				},
			},
		},
		"unmodelled encapsulation": {
			Header: Header{Family: family.Inet},
			Attributes: []nla.Attribute{
				EncapType(route.EncapSeg6),
				nla.Nested{Type: NHA_ENCAP, Attributes: []nla.Attribute{
					nla.Unknown{Type: 1, Value: []byte{1, 2, 3, 4}},
				}},
			},
		},
		"fdb resilient group": {
			Header: Header{Family: family.Unspec, Protocol: route.ProtocolZebra},
			Attributes: []nla.Attribute{
				ID(20),
				Group{{ID: 21, Weight: 255, WeightHigh: 1}, {ID: 22}},
				GroupResilient,
				FDB,
			},
		},
		"dump filter": {
			Header: Header{Family: family.Inet},
			Attributes: []nla.Attribute{
				Controller(9),
				Groups,
				nla.Unknown{Type: NHA_OP_FLAGS, Value: []byte{1, 0, 0, 0}},
			},
		},
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			b, err := want.MarshalBinary()
			if err != nil {
				t.Fatalf("couldn't emit the message: %v", err)
			}
			var got Message
			if err := got.UnmarshalBinary(b); err != nil {
				t.Fatalf("couldn't parse the message: %v", err)
			}
			if diff := cmp.Diff(want, got, cmpOpts...); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBadGroup(t *testing.T) {
	// A group holding six bytes, not a whole nexthop_grp.
	m := Message{Attributes: []nla.Attribute{
		nla.Unknown{Type: NHA_GROUP, Value: []byte{1, 0, 0, 0, 0, 0}},
	}}
	b, _ := m.MarshalBinary()

	var got Message
	err := got.UnmarshalBinary(b)
	var vErr *nla.ValueError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected an invalid value error; got %v", err)
	}
	if vErr.Field != "nexthop_grp" {
		t.Errorf("got field %q; want nexthop_grp", vErr.Field)
	}
}

func TestMalformedEncapType(t *testing.T) {
	m := Message{Attributes: []nla.Attribute{
		nla.Unknown{Type: NHA_ENCAP_TYPE, Value: []byte{1}},
		nla.Unknown{Type: NHA_ENCAP, Value: []byte{8, 0, 1, 0, 0, 0, 0x64, 0x01}},
	}}
	b, _ := m.MarshalBinary()

	var got Message
	err := got.UnmarshalBinary(b)
	var cErr *nla.ContextError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected a context error; got %v", err)
	}
	if cErr.Selector != "NHA_ENCAP_TYPE" {
		t.Errorf("got selector %q; want NHA_ENCAP_TYPE", cErr.Selector)
	}
}

func TestFlagWithPayload(t *testing.T) {
	want := Message{Attributes: []nla.Attribute{
		nla.Unknown{Type: NHA_BLACKHOLE, Value: []byte{1, 0, 0, 0}},
	}}
	b, _ := want.MarshalBinary()

	var got Message
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("couldn't parse the message: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpOpts...); diff != "" {
		t.Errorf("unexpected message (-want +got):\n%s", diff)
	}
}

func TestGroupTypeString(t *testing.T) {
	tests := map[GroupType]string{
		GroupMultipath: "mpath",
		GroupResilient: "resilient",
		GroupType(7):   "UNKNOWN_GROUP_TYPE_7",
	}
	for g, want := range tests {
		if got := g.String(); got != want {
			t.Errorf("%d: got %q; want %q", uint16(g), got, want)
		}
	}
}
