//go:build !freebsd

package address

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
	cmpopts.EquateComparable(Address{}, Local{}, Broadcast{}, Anycast{}, Multicast{}),
	cmpopts.EquateEmpty(),
}

func ip(s string) netip.Addr { return netip.MustParseAddr(s) }

func TestCapturedAddresses(t *testing.T) {
	if native.IsBigEndian {
		t.Skip("captured fixtures are little endian")
	}

	tests := map[string]struct {
		raw  []byte
		want Message
	}{
		"ipv4 loopback": {
			raw: []byte{
				0x02, 0x08, 0x80, 0xfe, 0x01, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x01, 0x00, 0x7f, 0x00, 0x00, 0x01,
				0x08, 0x00, 0x02, 0x00, 0x7f, 0x00, 0x00, 0x01,
				0x07, 0x00, 0x03, 0x00, 0x6c, 0x6f, 0x00, 0x00,
				0x08, 0x00, 0x08, 0x00, 0x80, 0x00, 0x00, 0x00,
				0x14, 0x00, 0x06, 0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
				0x9c, 0x00, 0x00, 0x00, 0x9c, 0x00, 0x00, 0x00,
			},
			want: Message{
				Header: Header{
					Family:    family.Inet,
					PrefixLen: 8,
					Flags:     HeaderFlags(FlagPermanent),
					Scope:     route.ScopeHost,
					Index:     1,
				},
				Attributes: []nla.Attribute{
					Address(ip("127.0.0.1")),
					Local(ip("127.0.0.1")),
					Label("lo"),
					FlagPermanent,
					CacheInfo{Preferred: 0xffffffff, Valid: 0xffffffff, Created: 156, Updated: 156},
				},
			},
		},
		"ipv6 loopback": {
			raw: []byte{
				0x0a, 0x80, 0x80, 0xfe, 0x01, 0x00, 0x00, 0x00,
				0x14, 0x00, 0x01, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
				0x14, 0x00, 0x06, 0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
				0x8e, 0x00, 0x00, 0x00, 0x8e, 0x00, 0x00, 0x00,
				0x08, 0x00, 0x08, 0x00, 0x80, 0x02, 0x00, 0x00,
			},
			want: Message{
				Header: Header{
					Family:    family.Inet6,
					PrefixLen: 128,
					Flags:     HeaderFlags(FlagPermanent),
					Scope:     route.ScopeHost,
					Index:     1,
				},
				Attributes: []nla.Attribute{
					Address(ip("::1")),
					CacheInfo{Preferred: 0xffffffff, Valid: 0xffffffff, Created: 142, Updated: 142},
					FlagPermanent | FlagNoPrefixRoute,
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
	want := Message{
		Header: Header{Family: family.Inet6, PrefixLen: 64, Scope: route.ScopeLink, Index: 3},
		Attributes: []nla.Attribute{
			Address(ip("fe80::1")),
			Anycast(ip("2001:db8::")),
			Multicast(ip("ff02::1")),
			Broadcast(ip("192.0.2.255")),
			RoutePriority(256),
			TargetNetNSID(-1),
			Proto(route.ProtocolKernel),
			nla.Unknown{Type: 99, Value: []byte{0x01}},
		},
	}

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
}

func TestBadBroadcast(t *testing.T) {
	raw := []byte{
		0x0a, 0x40, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00,
		0x14, 0x00, 0x04, 0x00,
		0x20, 0x01, 0x0d, 0xb8, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
	}

	var m Message
	err := m.UnmarshalBinary(raw)
	var vErr *nla.ValueError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected an invalid value error; got %v", err)
	}
	var aErr *nla.AttributeError
	if !errors.As(err, &aErr) || aErr.Kind != IFA_BROADCAST {
		t.Errorf("expected the error to name IFA_BROADCAST; got %v", err)
	}
}

func TestFlags(t *testing.T) {
	f := FlagPermanent | FlagNoPrefixRoute | Flags(0x10000)
	if got, want := f.String(), "permanent|noprefixroute|0x10000"; got != want {
		t.Errorf("got %q; want %q", got, want)
	}
	if f.Known()|f.Remainder() != f {
		t.Errorf("known %#x and remainder %#x don't add up to %#x", f.Known(), f.Remainder(), f)
	}
	if got, want := HeaderFlags(0x81).String(), "secondary|permanent"; got != want {
		t.Errorf("got %q; want %q", got, want)
	}
}
