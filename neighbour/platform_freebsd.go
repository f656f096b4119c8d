//go:build freebsd

package neighbour

import "github.com/scitags/rtnl-go/nla"

// NDA_FREEBSD nests the FreeBSD specific NDAF_* attributes.
const NDA_FREEBSD = 18

const NDAF_NEXT_STATE_TS = 1

type FreeBSD []nla.Attribute

func (FreeBSD) Kind() uint16         { return NDA_FREEBSD }
func (l FreeBSD) ValueLen() int      { return nla.ListLen(l) }
func (l FreeBSD) EmitValue(b []byte) { nla.EmitList(b, l) }

// NextStateTime is the number of seconds until the entry changes state.
type NextStateTime uint32

func (NextStateTime) Kind() uint16         { return NDAF_NEXT_STATE_TS }
func (NextStateTime) ValueLen() int        { return 4 }
func (t NextStateTime) EmitValue(b []byte) { nla.PutUint32(b, uint32(t)) }

func parseFreeBSD(r nla.Record) (nla.Attribute, error) {
	if r.Kind == NDAF_NEXT_STATE_TS {
		v, err := nla.Uint32(r.Value)
		return NextStateTime(v), err
	}
	nla.Notice("neighbour/freebsd", r)
	return nla.NewUnknown(r), nil
}

func parsePlatform(r nla.Record) (nla.Attribute, bool, error) {
	if r.Kind == NDA_FREEBSD {
		l, err := nla.ParseList(r.Value, parseFreeBSD)
		return FreeBSD(l), true, err
	}
	return nil, false, nil
}
