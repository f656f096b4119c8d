//go:build freebsd

package address

import (
	"bytes"
	"net/netip"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
	"github.com/scitags/rtnl-go/route"
)

func TestFreeBSDAddresses(t *testing.T) {
	tests := map[string]struct {
		raw  []byte
		want Message
	}{
		"carp vhid": {
			raw: []byte{
				2, 24, 0, 0, 2, 0, 0, 0,
				8, 0, 1, 0, 192, 168, 56, 120,
				8, 0, 2, 0, 192, 168, 56, 120,
				8, 0, 4, 0, 192, 168, 56, 255,
				8, 0, 3, 0, 104, 110, 48, 0,
				8, 0, 8, 0, 0, 0, 0, 0,
				12, 0, 11, 0, 8, 0, 1, 0, 10, 0, 0, 0,
			},
			want: Message{
				Header: Header{Family: family.Inet, PrefixLen: 24, Index: 2},
				Attributes: []nla.Attribute{
					Address(netip.MustParseAddr("192.168.56.120")),
					Local(netip.MustParseAddr("192.168.56.120")),
					Broadcast(netip.MustParseAddr("192.168.56.255")),
					Label("hn0"),
					Flags(0),
					FreeBSD{VHID(10)},
				},
			},
		},
		"empty freebsd list": {
			raw: []byte{
				2, 8, 0, 254, 1, 0, 0, 0,
				8, 0, 1, 0, 127, 0, 0, 1,
				8, 0, 2, 0, 127, 0, 0, 1,
				8, 0, 3, 0, 108, 111, 48, 0,
				8, 0, 8, 0, 0, 0, 0, 0,
				4, 0, 11, 0,
			},
			want: Message{
				Header: Header{Family: family.Inet, PrefixLen: 8, Scope: route.ScopeHost, Index: 1},
				Attributes: []nla.Attribute{
					Address(netip.MustParseAddr("127.0.0.1")),
					Local(netip.MustParseAddr("127.0.0.1")),
					Label("lo0"),
					Flags(0),
					FreeBSD{},
				},
			},
		},
	}

	opts := []cmp.Option{
		cmpopts.EquateComparable(Address{}, Local{}, Broadcast{}),
		cmpopts.EquateEmpty(),
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var got Message
			if err := got.UnmarshalBinary(tt.raw); err != nil {
				t.Fatalf("couldn't parse the message: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, opts...); diff != "" {
				t.Errorf("unexpected message (-want +got):\n%s", diff)
			}
			b, _ := got.MarshalBinary()
			if !bytes.Equal(b, tt.raw) {
				t.Errorf("re-emitted bytes differ:\n got %x\nwant %x", b, tt.raw)
			}
		})
	}
}
