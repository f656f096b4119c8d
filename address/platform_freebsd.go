//go:build freebsd

package address

import "github.com/scitags/rtnl-go/nla"

// IFA_FREEBSD nests the FreeBSD specific IFAF_* attributes.
const IFA_FREEBSD = 11

const (
	IFAF_VHID  = 1
	IFAF_FLAGS = 2
)

// FreeBSD is the IFA_FREEBSD list. It's emitted even when empty.
type FreeBSD []nla.Attribute

func (FreeBSD) Kind() uint16         { return IFA_FREEBSD }
func (l FreeBSD) ValueLen() int      { return nla.ListLen(l) }
func (l FreeBSD) EmitValue(b []byte) { nla.EmitList(b, l) }

// VHID is the CARP virtual host id owning the address.
type VHID uint32

func (VHID) Kind() uint16         { return IFAF_VHID }
func (VHID) ValueLen() int        { return 4 }
func (v VHID) EmitValue(b []byte) { nla.PutUint32(b, uint32(v)) }

// IN6Flags are the IN6_IFF_* address state bits.
type IN6Flags uint32

const (
	IN6Anycast      IN6Flags = 0x01
	IN6Tentative    IN6Flags = 0x02
	IN6Duplicated   IN6Flags = 0x04
	IN6Detached     IN6Flags = 0x08
	IN6Deprecated   IN6Flags = 0x10
	IN6NoDAD        IN6Flags = 0x20
	IN6Autoconf     IN6Flags = 0x40
	IN6Temporary    IN6Flags = 0x80
	IN6PreferSource IN6Flags = 0x100
)

var in6FlagName = map[IN6Flags]string{
	IN6Anycast:      "anycast",
	IN6Tentative:    "tentative",
	IN6Duplicated:   "duplicated",
	IN6Detached:     "detached",
	IN6Deprecated:   "deprecated",
	IN6NoDAD:        "nodad",
	IN6Autoconf:     "autoconf",
	IN6Temporary:    "temporary",
	IN6PreferSource: "prefer_source",
}

func (f IN6Flags) Known() IN6Flags     { return nla.KnownBits(f, in6FlagName) }
func (f IN6Flags) Remainder() IN6Flags { return f &^ f.Known() }
func (f IN6Flags) String() string      { return nla.FlagString(f, in6FlagName) }

func (IN6Flags) Kind() uint16         { return IFAF_FLAGS }
func (IN6Flags) ValueLen() int        { return 4 }
func (f IN6Flags) EmitValue(b []byte) { nla.PutUint32(b, uint32(f)) }

func parseFreeBSD(r nla.Record) (nla.Attribute, error) {
	switch r.Kind {
	case IFAF_VHID:
		v, err := nla.Uint32(r.Value)
		return VHID(v), err
	case IFAF_FLAGS:
		v, err := nla.Uint32(r.Value)
		return IN6Flags(v), err
	}
	nla.Notice("address/freebsd", r)
	return nla.NewUnknown(r), nil
}

func parsePlatform(r nla.Record) (nla.Attribute, bool, error) {
	if r.Kind == IFA_FREEBSD {
		l, err := nla.ParseList(r.Value, parseFreeBSD)
		return FreeBSD(l), true, err
	}
	return nil, false, nil
}
