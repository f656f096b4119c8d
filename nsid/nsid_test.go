package nsid

import (
	"bytes"
	"errors"
	"log/slog"
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

// Captured with nlmon while running ip netns list after
// ip netns add abc && ip netns set abc 99, netlink header removed.
func TestCapturedNSID(t *testing.T) {
	if native.IsBigEndian {
		t.Skip("captured fixtures are little endian")
	}

	tests := map[string]struct {
		raw  []byte
		want Message
	}{
		"query reply": {
			raw:  []byte{0x00, 0x00, 0x00, 0x00, 0x08, 0x00, 0x01, 0x00, 0x63, 0x00, 0x00, 0x00},
			want: Message{Attributes: []nla.Attribute{ID(99)}},
		},
		"query by fd": {
			raw:  []byte{0x00, 0x00, 0x00, 0x00, 0x08, 0x00, 0x03, 0x00, 0x06, 0x00, 0x00, 0x00},
			want: Message{Attributes: []nla.Attribute{FD(6)}},
		},
		"list-id target-nsid 99": {
			raw:  []byte{0x00, 0x00, 0x00, 0x00, 0x08, 0x00, 0x04, 0x00, 0x63, 0x00, 0x00, 0x00},
			want: Message{Attributes: []nla.Attribute{TargetID(99)}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var got Message
			if err := got.UnmarshalBinary(tt.raw); err != nil {
				t.Fatalf("couldn't parse the message: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
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
		Header: Header{Family: family.Unspec},
		Attributes: []nla.Attribute{
			ID(NotAssigned),
			PID(4242),
			CurrentID(3),
			nla.Unknown{Type: 9, Value: []byte{1, 2, 3}},
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
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestShortID(t *testing.T) {
	raw := []byte{0x00, 0x00, 0x00, 0x00, 0x06, 0x00, 0x01, 0x00, 0x63, 0x00, 0x00, 0x00}

	var m Message
	err := m.UnmarshalBinary(raw)
	var vErr *nla.ValueError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected an invalid value error; got %v", err)
	}
}
