//go:build !freebsd

package neighbour

import (
	"bytes"
	"errors"
	"log/slog"
	"net"
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

func dst(s string) Destination {
	return Destination(family.AddrOf(netip.MustParseAddr(s)))
}

func lladdr(s string) LinkLayerAddress {
	hw, err := net.ParseMAC(s)
	if err != nil {
		panic(err)
	}
	return LinkLayerAddress(hw)
}

func TestCapturedNeighbours(t *testing.T) {
	if native.IsBigEndian {
		t.Skip("captured fixtures are little endian")
	}

	tests := map[string]struct {
		raw  []byte
		want Message
	}{
		"ip -4 neighbour show": {
			raw: []byte{
				0x02, 0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x01,
				0x08, 0x00, 0x01, 0x00, 0xac, 0x11, 0x02, 0x01,
				0x0a, 0x00, 0x02, 0x00, 0x1c, 0x69, 0x7a, 0x07, 0xc3, 0x36, 0x00, 0x00,
				0x08, 0x00, 0x04, 0x00, 0x01, 0x00, 0x00, 0x00,
				0x14, 0x00, 0x03, 0x00, 0x71, 0x01, 0x00, 0x00, 0xcb, 0x0d, 0x1f, 0x00,
				0xcb, 0x0d, 0x1f, 0x00, 0x01, 0x00, 0x00, 0x00,
			},
			want: Message{
				Header: Header{Family: family.Inet, Index: 3, State: StateReachable, Type: route.TypeUnicast},
				Attributes: []nla.Attribute{
					dst("172.17.2.1"),
					lladdr("1c:69:7a:07:c3:36"),
					Probes(1),
					CacheInfo{Confirmed: 369, Used: 2035147, Updated: 2035147, RefCount: 1},
				},
			},
		},
		"ip -6 neighbour show": {
			raw: []byte{
				0x0a, 0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 0x04, 0x00, 0x80, 0x01,
				0x14, 0x00, 0x01, 0x00, 0xfe, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x1e, 0x69, 0x7a, 0xff, 0xfe, 0x07, 0xc3, 0x36,
				0x0a, 0x00, 0x02, 0x00, 0x1c, 0x69, 0x7a, 0x07, 0xc3, 0x36, 0x00, 0x00,
				0x08, 0x00, 0x04, 0x00, 0x01, 0x00, 0x00, 0x00,
				0x14, 0x00, 0x03, 0x00, 0x61, 0x76, 0x00, 0x00, 0x61, 0x76, 0x00, 0x00,
				0x8c, 0x65, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			want: Message{
				Header: Header{Family: family.Inet6, Index: 3, State: StateStale, Flags: FlagRouter, Type: route.TypeUnicast},
				Attributes: []nla.Attribute{
					dst("fe80::1e69:7aff:fe07:c336"),
					lladdr("1c:69:7a:07:c3:36"),
					Probes(1),
					CacheInfo{Confirmed: 30305, Used: 30305, Updated: 25996},
				},
			},
		},
		"ip -f bridge neighbour show": {
			raw: []byte{
				0x07, 0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 0x80, 0x00, 0x02, 0x00,
				0x0a, 0x00, 0x02, 0x00, 0x01, 0x00, 0x5e, 0x00, 0x00, 0x01, 0x00, 0x00,
			},
			want: Message{
				Header: Header{Family: family.Bridge, Index: 3, State: StatePermanent, Flags: FlagSelf},
				Attributes: []nla.Attribute{
					lladdr("01:00:5e:00:00:01"),
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
		"vxlan fdb entry": {
			Header: Header{Family: family.Bridge, Index: 8, State: StateNoARP | StatePermanent, Flags: FlagSelf | FlagExtLearned},
			Attributes: []nla.Attribute{
				lladdr("00:11:22:33:44:55"),
				Destination{Raw: []byte{192, 0, 2, 7}},
				Port(4789),
				VNI(100),
				SourceVNI(200),
				VLAN(10),
				InterfaceIndex(4),
				Controller(5),
				Protocol(route.ProtocolStatic),
				ExtFlags(ExtLocked),
			},
		},
		"managed entry": {
			Header: Header{Family: family.Inet6, Index: 2, State: StateIncomplete},
			Attributes: []nla.Attribute{
				dst("2001:db8::1"),
				NextHopID(12),
				StateMask(StateReachable | StateStale),
				FlagsMask(FlagRouter),
				LinkNetNSID(1),
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

func TestBadDestination(t *testing.T) {
	// An inet neighbour with a 16 byte destination.
	raw := []byte{
		0x02, 0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x01,
		0x14, 0x00, 0x01, 0x00, 0xfe, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x1e, 0x69, 0x7a, 0xff, 0xfe, 0x07, 0xc3, 0x36,
	}

	var m Message
	err := m.UnmarshalBinary(raw)
	var vErr *nla.ValueError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected an invalid value error; got %v", err)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateNone:                   "none",
		StateReachable:              "reachable",
		StateNoARP | StatePermanent: "noarp|permanent",
		StateStale | State(0x100):   "stale|0x100",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("%#x: got %q; want %q", uint16(s), got, want)
		}
	}
}
