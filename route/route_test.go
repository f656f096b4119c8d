//go:build !freebsd

package route

import (
	"bytes"
	"errors"
	"log/slog"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
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
	cmpopts.EquateComparable(netip.Addr{}, Seg6LocalNextHop{}),
	cmpopts.EquateEmpty(),
}

func addr(s string) family.Addr {
	return family.AddrOf(netip.MustParseAddr(s))
}

func TestCapturedRoutes(t *testing.T) {
	if native.IsBigEndian {
		t.Skip("captured fixtures are little endian")
	}

	tests := map[string]struct {
		raw  []byte
		want Message
	}{
		"main table dump reply": {
			raw: []byte{
				0x02, 0x18, 0x00, 0x00, 0xfe, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x0f, 0x00, 0xfe, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x01, 0x00, 0xc0, 0xa8, 0x01, 0x00,
				0x08, 0x00, 0x04, 0x00, 0x03, 0x00, 0x00, 0x00,
			},
			want: Message{
				Header: Header{
					Family:   family.Inet,
					DstLen:   24,
					Table:    TableMain,
					Protocol: ProtocolBoot,
					Scope:    ScopeUniverse,
					Type:     TypeUnicast,
				},
				Attributes: []nla.Attribute{
					TableID(254),
					Destination(addr("192.168.1.0")),
					OutputInterface(3),
				},
			},
		},
		"seg6 encap mode": {
			raw: []byte{
				0x0a, 0x20, 0x00, 0x00, 0xfe, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
				0x14, 0x00, 0x01, 0x00, 0xfe, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x34, 0x00, 0x16, 0x80,
				0x30, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x04, 0x04, 0x01,
				0x01, 0x00, 0x00, 0x00, 0xfe, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0xfe, 0x80, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
				0x06, 0x00, 0x15, 0x00, 0x05, 0x00, 0x00, 0x00, 0x08, 0x00, 0x04, 0x00,
				0x02, 0x00, 0x00, 0x00,
			},
			want: Message{
				Header: Header{
					Family:   family.Inet6,
					DstLen:   32,
					Table:    TableMain,
					Protocol: ProtocolBoot,
					Scope:    ScopeUniverse,
					Type:     TypeUnicast,
				},
				Attributes: []nla.Attribute{
					Destination(addr("fe80::")),
					nla.Flagged{Flags: nla.FlagNested, Attribute: Encap{
						Seg6Tunnel{
							Mode: Seg6Encap,
							SRH: SRH{
								Type:         4,
								SegmentsLeft: 1,
								Segments:     []netip.Addr{netip.MustParseAddr("fe80::2"), netip.MustParseAddr("fe80::1")},
							},
						},
					}},
					EncapSeg6,
					OutputInterface(2),
				},
			},
		},
		"seg6 inline mode": {
			raw: []byte{
				0x0a, 0x20, 0x00, 0x00, 0xfe, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
				0x14, 0x00, 0x01, 0x00, 0xfe, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x44, 0x00, 0x16, 0x80,
				0x40, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x04, 0x02,
				0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xfe, 0x80, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02,
				0xfe, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x01, 0x06, 0x00, 0x15, 0x00, 0x05, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x04, 0x00, 0x02, 0x00, 0x00, 0x00,
			},
			want: Message{
				Header: Header{
					Family:   family.Inet6,
					DstLen:   32,
					Table:    TableMain,
					Protocol: ProtocolBoot,
					Scope:    ScopeUniverse,
					Type:     TypeUnicast,
				},
				Attributes: []nla.Attribute{
					Destination(addr("fe80::")),
					nla.Flagged{Flags: nla.FlagNested, Attribute: Encap{
						Seg6Tunnel{
							Mode: Seg6Inline,
							SRH: SRH{
								Type:         4,
								SegmentsLeft: 2,
								Segments: []netip.Addr{
									netip.IPv6Unspecified(),
									netip.MustParseAddr("fe80::2"),
									netip.MustParseAddr("fe80::1"),
								},
							},
						},
					}},
					EncapSeg6,
					OutputInterface(2),
				},
			},
		},
		"ipv4 loopback": {
			raw: []byte{
				0x02, 0x08, 0x00, 0x00, 0xff, 0x02, 0xfe, 0x02, 0x00, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x0f, 0x00, 0xff, 0x00, 0x00, 0x00, 0x08, 0x00, 0x01, 0x00,
				0x7f, 0x00, 0x00, 0x00, 0x08, 0x00, 0x07, 0x00, 0x7f, 0x00, 0x00, 0x01,
				0x08, 0x00, 0x04, 0x00, 0x01, 0x00, 0x00, 0x00,
			},
			want: Message{
				Header: Header{
					Family:   family.Inet,
					DstLen:   8,
					Table:    TableLocal,
					Protocol: ProtocolKernel,
					Scope:    ScopeHost,
					Type:     TypeLocal,
				},
				Attributes: []nla.Attribute{
					TableID(255),
					Destination(addr("127.0.0.0")),
					PrefSource(addr("127.0.0.1")),
					OutputInterface(1),
				},
			},
		},
		"ip6 lightweight tunnel with trailing encap type": {
			raw: []byte{
				0x02, 0x18, 0x00, 0x00, 0xfe, 0x03, 0xfd, 0x01, 0x00, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x0f, 0x00, 0xfe, 0x00, 0x00, 0x00, 0x08, 0x00, 0x01, 0x00,
				0xc0, 0x00, 0x02, 0x00, 0x08, 0x00, 0x04, 0x00, 0x08, 0x00, 0x00, 0x00,
				0x50, 0x00, 0x16, 0x00, 0x0c, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x64, 0x14, 0x00, 0x02, 0x00, 0x20, 0x01, 0x0d, 0xb8,
				0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
				0x14, 0x00, 0x03, 0x00, 0x20, 0x01, 0x0d, 0xb8, 0x00, 0x01, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0x05, 0x00, 0x05, 0x00,
				0x07, 0x00, 0x00, 0x00, 0x05, 0x00, 0x04, 0x00, 0xfd, 0x00, 0x00, 0x00,
				0x06, 0x00, 0x06, 0x00, 0x00, 0x01, 0x00, 0x00, 0x06, 0x00, 0x15, 0x00,
				0x04, 0x00, 0x00, 0x00,
			},
			want: Message{
				Header: Header{
					Family:   family.Inet,
					DstLen:   24,
					Table:    TableMain,
					Protocol: ProtocolBoot,
					Scope:    ScopeLink,
					Type:     TypeUnicast,
				},
				Attributes: []nla.Attribute{
					TableID(254),
					Destination(addr("192.0.2.0")),
					OutputInterface(8),
					Encap{
						IP6TunnelID(100),
						IP6TunnelDestination(addr("2001:db8:1::1")),
						IP6TunnelSource(addr("2001:db8:1::2")),
						IP6TunnelTC(7),
						IP6TunnelHopLimit(253),
						IP6TunnelChecksum,
					},
					EncapIP6,
				},
			},
		},
		"unknown kind keeps its bytes": {
			raw: []byte{
				0x0a, 0x00, 0x00, 0x00, 0xfe, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
				0x07, 0x00, 0x63, 0x00, 0xaa, 0xbb, 0xcc, 0x00,
			},
			want: Message{
				Header: Header{
					Family:   family.Inet6,
					Table:    TableMain,
					Protocol: ProtocolBoot,
					Type:     TypeUnicast,
				},
				Attributes: []nla.Attribute{
					nla.Unknown{Type: 0x63, Value: []byte{0xaa, 0xbb, 0xcc}},
				},
			},
		},
		"multicast expiry is 64 bits wide": {
			raw: []byte{
				0x80, 0x20, 0x20, 0x00, 0xfc, 0x11, 0x00, 0x05, 0x00, 0x00, 0x00, 0x00,
				0x0c, 0x00, 0x17, 0x00, 0x10, 0x27, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			want: Message{
				Header: Header{
					Family:   family.Family(0x80),
					DstLen:   32,
					SrcLen:   32,
					Table:    TableCompat,
					Protocol: ProtocolMrouted,
					Type:     TypeMulticast,
				},
				Attributes: []nla.Attribute{
					MulticastExpires(10000),
				},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var got Message
			if err := got.UnmarshalBinary(test.raw); err != nil {
				t.Fatalf("couldn't parse the message: %v", err)
			}

			if diff := cmp.Diff(test.want, got, cmpOpts...); diff != "" {
				t.Errorf("parsed message mismatch (-want +got):\n%s", diff)
			}

			b, err := test.want.MarshalBinary()
			if err != nil {
				t.Fatalf("couldn't emit the message: %v", err)
			}
			if !bytes.Equal(b, test.raw) {
				t.Errorf("emitted bytes differ:\n got %x\nwant %x", b, test.raw)
			}
		})
	}
}

func TestUnresolvedEncap(t *testing.T) {
	tests := map[string]struct {
		encap []byte
		want  nla.Attribute
	}{
		"nested list": {
			encap: []byte{0x08, 0x00, 0x01, 0x00, 0x01, 0x02, 0x03, 0x04},
			want: nla.Nested{Type: RTA_ENCAP, Attributes: []nla.Attribute{
				nla.Unknown{Type: 1, Value: []byte{0x01, 0x02, 0x03, 0x04}},
			}},
		},
		"not an attribute stream": {
			encap: []byte{0xff, 0xff, 0x01},
			want:  nla.Unknown{Type: RTA_ENCAP, Value: []byte{0xff, 0xff, 0x01}},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			m := Message{
				Header: Header{Family: family.Inet, Type: TypeUnicast},
				Attributes: []nla.Attribute{
					EncapType(99),
					nla.Unknown{Type: RTA_ENCAP, Value: test.encap},
				},
			}
			b, err := m.MarshalBinary()
			if err != nil {
				t.Fatalf("couldn't emit the message: %v", err)
			}

			var got Message
			if err := got.UnmarshalBinary(b); err != nil {
				t.Fatalf("couldn't parse the message: %v", err)
			}

			if diff := cmp.Diff(test.want, got.Attributes[1], cmpOpts...); diff != "" {
				t.Errorf("encap mismatch (-want +got):\n%s", diff)
			}

			again, _ := got.MarshalBinary()
			if !bytes.Equal(again, b) {
				t.Errorf("re-emitted bytes differ:\n got %x\nwant %x", again, b)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	tests := map[string]Message{
		"multipath with mpls encap": {
			Header: Header{Family: family.Inet, DstLen: 16, Table: TableMain, Protocol: ProtocolStatic, Type: TypeUnicast},
			Attributes: []nla.Attribute{
				Destination(addr("10.1.0.0")),
				Multipath{
					{
						Flags: NextHopOnLink,
						Index: 2,
						Attributes: []nla.Attribute{
							Gateway(addr("10.0.0.1")),
							EncapType(EncapMPLS),
							Encap{
								MPLSTunnelDestination{{Label: 100, BottomOfStack: true}},
								MPLSTunnelTTL(64),
							},
						},
					},
					{
						Hops:       1,
						Index:      3,
						Attributes: []nla.Attribute{Gateway(addr("10.0.1.1"))},
					},
				},
			},
		},
		"metrics and cache info": {
			Header: Header{Family: family.Inet6, DstLen: 64, Table: TableMain, Protocol: ProtocolRa, Type: TypeUnicast, Flags: FlagCloned},
			Attributes: []nla.Attribute{
				Destination(addr("2001:db8::")),
				Gateway(addr("fe80::1")),
				Metrics{
					Metric{Type: RTAX_MTU, Value: 1400},
					CongestionControl("bbr"),
				},
				CacheInfo{Expires: -1, Used: 3},
				PreferenceHigh,
				Realm{Source: 1, Destination: 2},
				Via{Family: family.Inet, Address: addr("192.0.2.1")},
			},
		},
		"seg6local end.b6.encaps": {
			Header: Header{Family: family.Inet6, DstLen: 128, Table: TableMain, Protocol: ProtocolBoot, Type: TypeUnicast},
			Attributes: []nla.Attribute{
				Destination(addr("fc00::1:100")),
				EncapType(EncapSeg6Local),
				Encap{
					Seg6LocalEndB6Encap,
					Seg6LocalSRH{
						Type:         4,
						SegmentsLeft: 1,
						Tag:          0x1234,
						Segments:     []netip.Addr{netip.MustParseAddr("fc00::3"), netip.MustParseAddr("fc00::2")},
					},
					Seg6LocalValue{Type: SEG6_LOCAL_OIF, Value: 4},
					Seg6LocalNextHop(netip.MustParseAddr("fe80::9")),
				},
				OutputInterface(4),
			},
		},
		"seg6local end.dx4": {
			Header: Header{Family: family.Inet6, DstLen: 128, Table: TableMain, Protocol: ProtocolBoot, Type: TypeUnicast},
			Attributes: []nla.Attribute{
				Destination(addr("fc00::1:200")),
				EncapType(EncapSeg6Local),
				Encap{
					Seg6LocalEndDX4,
					Seg6LocalNextHop(netip.MustParseAddr("192.0.2.7")),
				},
				OutputInterface(4),
			},
		},
		"mpls swap": {
			Header: Header{Family: family.MPLS, DstLen: 20, Table: TableMain, Type: TypeUnicast},
			Attributes: []nla.Attribute{
				Destination{Raw: []byte{0x00, 0x06, 0x41, 0x00}},
				NewDestination{{Label: 200, BottomOfStack: true}},
				TTLPropagationDisabled,
			},
		},
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			b, err := want.MarshalBinary()
			if err != nil {
				t.Fatalf("couldn't emit the message: %v", err)
			}
			if len(b) != want.Len() {
				t.Errorf("emitted %d bytes; Len() reports %d", len(b), want.Len())
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

func TestMalformed(t *testing.T) {
	if _, err := nla.NewViewChecked(make([]byte, 3), HeaderLen); err == nil {
		t.Fatal("expected a length error")
	}

	var m Message
	err := m.UnmarshalBinary(make([]byte, 5))
	var lErr *nla.LengthError
	if !errors.As(err, &lErr) {
		t.Fatalf("expected a length error; got %v", err)
	}
	if lErr.Want-lErr.Have != 7 {
		t.Errorf("expected 7 missing bytes; got %d", lErr.Want-lErr.Have)
	}

	// The attribute claims 16 bytes but only 8 follow the header.
	raw := []byte{
		0x02, 0x18, 0x00, 0x00, 0xfe, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
		0x10, 0x00, 0x0f, 0x00, 0xfe, 0x00, 0x00, 0x00,
	}
	err = m.UnmarshalBinary(raw)
	var mErr *nla.MalformedError
	if !errors.As(err, &mErr) {
		t.Fatalf("expected a malformed attribute error; got %v", err)
	}

	// An inet destination must be 4 bytes long.
	raw = []byte{
		0x02, 0x18, 0x00, 0x00, 0xfe, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
		0x07, 0x00, 0x01, 0x00, 0xc0, 0xa8, 0x01, 0x00,
	}
	err = m.UnmarshalBinary(raw)
	var vErr *nla.ValueError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected an invalid value error; got %v", err)
	}
	var aErr *nla.AttributeError
	if !errors.As(err, &aErr) || aErr.Kind != RTA_DST {
		t.Errorf("expected the error to name RTA_DST; got %v", err)
	}

	// A malformed selector can't be resolved.
	raw = []byte{
		0x02, 0x18, 0x00, 0x00, 0xfe, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
		0x05, 0x00, 0x15, 0x00, 0x04, 0x00, 0x00, 0x00,
	}
	err = m.UnmarshalBinary(raw)
	var cErr *nla.ContextError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected a context error; got %v", err)
	}
}

func TestFixedSizeStructs(t *testing.T) {
	header := []byte{0x02, 0x18, 0x00, 0x00, 0xfe, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}

	tests := map[string]nla.Unknown{
		"long cache info":  {Type: RTA_CACHEINFO, Value: make([]byte, cacheInfoLen+4)},
		"short cache info": {Type: RTA_CACHEINFO, Value: make([]byte, cacheInfoLen-4)},
		"long mfc stats":   {Type: RTA_MFC_STATS, Value: make([]byte, mfcStatsLen+8)},
	}
	for name, attr := range tests {
		t.Run(name, func(t *testing.T) {
			raw := append(append([]byte(nil), header...), nla.MarshalList([]nla.Attribute{attr})...)

			var m Message
			err := m.UnmarshalBinary(raw)
			var vErr *nla.ValueError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected an invalid value error; got %v (%+v)", err, m.Attributes)
			}
		})
	}
}

func TestSegmentRoutingHeader(t *testing.T) {
	tests := map[string]struct {
		raw  []byte
		want string
	}{
		"short":             {raw: []byte{0, 0, 4, 0}, want: "ipv6_sr_hdr"},
		"hdrlen mismatch":   {raw: append([]byte{0, 4, 4, 0, 0, 0, 0, 0}, make([]byte, 16)...), want: "hdrlen says 40 bytes; got 24"},
		"too many segments": {raw: append([]byte{0, 2, 4, 0, 2, 0, 0, 0}, make([]byte, 16)...), want: "3 segments don't fit in 24 bytes"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseSRH(test.raw)
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Errorf("got %v; want an error mentioning %q", err, test.want)
			}
		})
	}

	h := SRH{Type: 4, Segments: []netip.Addr{netip.MustParseAddr("fc00::2")}, TLVs: []byte{1, 6, 0, 0, 0, 0, 0, 0}}
	b := make([]byte, h.len())
	h.emit(b)
	if b[1] != 3 || b[4] != 0 {
		t.Errorf("got hdrlen %d, first segment %d; want 3, 0", b[1], b[4])
	}
	got, err := parseSRH(b)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(h, got, cmpOpts...); diff != "" {
		t.Errorf("SRH mismatch (-want +got):\n%s", diff)
	}
}

func TestSeg6Names(t *testing.T) {
	tests := map[string]struct{ got, want string }{
		"inline":       {Seg6Inline.String(), "inline"},
		"l2encap.red":  {Seg6L2EncapRed.String(), "l2encap.red"},
		"unknown mode": {Seg6Mode(9).String(), "UNKNOWN_SEG6_MODE_9"},
		"b6 encaps":    {Seg6LocalEndB6Encap.String(), "End.B6.Encaps"},
		"dt46":         {Seg6LocalEndDT46.String(), "End.DT46"},
	}
	for name, test := range tests {
		if test.got != test.want {
			t.Errorf("%s: got %q; want %q", name, test.got, test.want)
		}
	}
}

func TestFlagRemainder(t *testing.T) {
	for _, v := range []uint32{0, 0x100, 0x20000000, 0xffffffff, 0x12345678} {
		f := Flags(v)
		if uint32(f.Known())+uint32(f.Remainder()) != v {
			t.Errorf("%#x: known %#x + remainder %#x", v, f.Known(), f.Remainder())
		}
	}

	if got := (FlagCloned | FlagNotify | 1).String(); got != "notify|cloned|0x1" {
		t.Errorf("unexpected rendering %q", got)
	}
}
