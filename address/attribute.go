package address

import (
	"fmt"
	"net/netip"

	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/nla"
)

// Address and Local are 4 or 16 bytes; the size gives the version. On
// point-to-point links Address is the peer and Local the local end.
type (
	Address netip.Addr
	Local   netip.Addr
	// Broadcast is IPv4 only.
	Broadcast netip.Addr
	// Anycast is IPv6 only.
	Anycast netip.Addr
	// Multicast is IPv6 only.
	Multicast netip.Addr
)

func (Address) Kind() uint16         { return IFA_ADDRESS }
func (a Address) ValueLen() int      { return family.IPLen(netip.Addr(a)) }
func (a Address) EmitValue(b []byte) { copy(b, netip.Addr(a).AsSlice()) }

func (Local) Kind() uint16         { return IFA_LOCAL }
func (a Local) ValueLen() int      { return family.IPLen(netip.Addr(a)) }
func (a Local) EmitValue(b []byte) { copy(b, netip.Addr(a).AsSlice()) }

func (Broadcast) Kind() uint16         { return IFA_BROADCAST }
func (Broadcast) ValueLen() int        { return 4 }
func (a Broadcast) EmitValue(b []byte) { copy(b, netip.Addr(a).AsSlice()) }

func (Anycast) Kind() uint16         { return IFA_ANYCAST }
func (Anycast) ValueLen() int        { return 16 }
func (a Anycast) EmitValue(b []byte) { copy(b, netip.Addr(a).AsSlice()) }

func (Multicast) Kind() uint16         { return IFA_MULTICAST }
func (Multicast) ValueLen() int        { return 16 }
func (a Multicast) EmitValue(b []byte) { copy(b, netip.Addr(a).AsSlice()) }

type Label string

func (Label) Kind() uint16         { return IFA_LABEL }
func (l Label) ValueLen() int      { return len(l) + 1 }
func (l Label) EmitValue(b []byte) { nla.PutString(b, string(l)) }

func (Flags) Kind() uint16         { return IFA_FLAGS }
func (Flags) ValueLen() int        { return 4 }
func (f Flags) EmitValue(b []byte) { nla.PutUint32(b, uint32(f)) }

// CacheInfo mirrors struct ifa_cacheinfo. Lifetimes are in seconds, with
// 0xffffffff meaning forever; the stamps are in hundredths of a second since
// boot.
type CacheInfo struct {
	Preferred uint32
	Valid     uint32
	Created   uint32
	Updated   uint32
}

func (CacheInfo) Kind() uint16  { return IFA_CACHEINFO }
func (CacheInfo) ValueLen() int { return 16 }
func (c CacheInfo) EmitValue(b []byte) {
	v := nla.NewView(b, 16)
	v.SetUint32(0, c.Preferred)
	v.SetUint32(4, c.Valid)
	v.SetUint32(8, c.Created)
	v.SetUint32(12, c.Updated)
}

type RoutePriority uint32

func (RoutePriority) Kind() uint16         { return IFA_RT_PRIORITY }
func (RoutePriority) ValueLen() int        { return 4 }
func (p RoutePriority) EmitValue(b []byte) { nla.PutUint32(b, uint32(p)) }

type TargetNetNSID int32

func (TargetNetNSID) Kind() uint16         { return IFA_TARGET_NETNSID }
func (TargetNetNSID) ValueLen() int        { return 4 }
func (n TargetNetNSID) EmitValue(b []byte) { nla.PutInt32(b, int32(n)) }

func exactIP(b []byte, n int, field string) (netip.Addr, error) {
	if len(b) != n {
		return netip.Addr{}, &nla.ValueError{Field: field, Reason: fmt.Sprintf("got %d bytes; want %d", len(b), n)}
	}
	ip, _ := netip.AddrFromSlice(b)
	return ip, nil
}

func parseAttribute(r nla.Record) (nla.Attribute, error) {
	p := r.Value
	switch r.Kind {
	case IFA_ADDRESS:
		ip, err := family.ParseIP(p)
		return Address(ip), err
	case IFA_LOCAL:
		ip, err := family.ParseIP(p)
		return Local(ip), err
	case IFA_BROADCAST:
		ip, err := exactIP(p, 4, "IFA_BROADCAST")
		return Broadcast(ip), err
	case IFA_ANYCAST:
		ip, err := exactIP(p, 16, "IFA_ANYCAST")
		return Anycast(ip), err
	case IFA_MULTICAST:
		ip, err := exactIP(p, 16, "IFA_MULTICAST")
		return Multicast(ip), err
	case IFA_LABEL:
		s, err := nla.String(p)
		return Label(s), err
	case IFA_FLAGS:
		v, err := nla.Uint32(p)
		return Flags(v), err
	case IFA_CACHEINFO:
		v, err := nla.Fixed(p, 16, "ifa_cacheinfo")
		if err != nil {
			return nil, err
		}
		return CacheInfo{
			Preferred: v.Uint32(0),
			Valid:     v.Uint32(4),
			Created:   v.Uint32(8),
			Updated:   v.Uint32(12),
		}, nil
	case IFA_RT_PRIORITY:
		v, err := nla.Uint32(p)
		return RoutePriority(v), err
	case IFA_TARGET_NETNSID:
		v, err := nla.Int32(p)
		return TargetNetNSID(v), err
	}

	if a, ok, err := parsePlatform(r); ok {
		return a, err
	}
	nla.Notice("address", r)
	return nla.NewUnknown(r), nil
}
