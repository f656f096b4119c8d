package rtnl

import (
	"fmt"
	"log/slog"

	"github.com/mdlayher/netlink"

	"github.com/scitags/rtnl-go/nla"
)

// Result pairs a message with the error it carried or failed to decode
// with. On a decode failure Message holds the netlink header fields and a
// nil Payload.
type Result struct {
	Message *Message
	Err     error
}

// NewResult decodes nm and folds an NLMSG_ERROR or NLMSG_DONE error code
// into the result.
func NewResult(nm netlink.Message) Result {
	m, err := parse(nm)
	if err == nil {
		switch p := m.Payload.(type) {
		case *ErrorMessage:
			err = p.Err()
		case *Done:
			err = p.Err()
		}
	}
	return Result{Message: m, Err: err}
}

func header(b []byte) netlink.Header {
	v := nla.NewView(b, HeaderLen)
	return netlink.Header{
		Length:   v.Uint32(0),
		Type:     netlink.HeaderType(v.Uint16(4)),
		Flags:    netlink.HeaderFlags(v.Uint16(6)),
		Sequence: v.Uint32(8),
		PID:      v.Uint32(12),
	}
}

// ParseStream splits the bytes of one read into their messages. It stops
// after NLMSG_DONE. A payload that fails to decode or an NLMSG_ERROR shows
// up in its Result and the following messages are still parsed. The
// returned error is set only when the framing itself is broken, in which
// case the results gathered so far are returned alongside it.
func ParseStream(b []byte) ([]Result, error) {
	var (
		out []Result
		off int
	)
	for off < len(b) {
		rest := b[off:]
		if len(rest) < HeaderLen {
			return out, &nla.LengthError{Field: "nlmsghdr", Want: HeaderLen, Have: len(rest)}
		}
		h := header(rest)
		if int(h.Length) < HeaderLen {
			return out, &nla.ValueError{Field: "nlmsg_len", Reason: fmt.Sprintf("%d at offset %d is shorter than the header", h.Length, off)}
		}
		if int(h.Length) > len(rest) {
			return out, &nla.LengthError{Field: "netlink message", Want: int(h.Length), Have: len(rest)}
		}

		if h.Type == netlink.Noop {
			off += min(nla.Align(int(h.Length)), len(rest))
			continue
		}

		r := NewResult(netlink.Message{Header: h, Data: rest[HeaderLen:h.Length]})
		if r.Err != nil {
			slog.Debug("message carried an error", "type", r.Message.Type, "seq", r.Message.Sequence, "offset", off, "err", r.Err)
		}
		out = append(out, r)

		if r.Message.Type == NLMSG_DONE {
			break
		}
		off += min(nla.Align(int(h.Length)), len(rest))
	}
	return out, nil
}
