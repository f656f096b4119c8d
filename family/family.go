// Package family holds the address family catalog shared by every rtnetlink
// message header and the family driven decoding of address payloads.
package family

import (
	"fmt"
	"net/netip"

	"github.com/scitags/rtnl-go/nla"
)

// Family is an AF_* value. Values outside the catalog are carried as is.
type Family uint8

const (
	Unspec Family = 0
	Local  Family = 1
	Unix          = Local
	Inet   Family = 2
)

func (f Family) String() string {
	if n, ok := familyName[f]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_FAMILY_%d", uint8(f))
}

// Of returns Inet or Inet6 for a valid ip and Unspec otherwise.
func Of(ip netip.Addr) Family {
	switch {
	case ip.Is4():
		return Inet
	case ip.Is6():
		return Inet6
	}
	return Unspec
}

// Addr is an address whose encoding is chosen by a family. IP is set for
// Inet and Inet6, Raw holds the bytes of any other family.
type Addr struct {
	IP  netip.Addr
	Raw []byte
}

// AddrOf is shorthand for an IP valued Addr.
func AddrOf(ip netip.Addr) Addr { return Addr{IP: ip} }

// ParseAddr decodes b according to f. Inet and Inet6 payloads must have the
// exact address size.
func ParseAddr(f Family, b []byte) (Addr, error) {
	switch f {
	case Inet:
		if len(b) != 4 {
			return Addr{}, &nla.ValueError{Field: "inet address", Reason: fmt.Sprintf("got %d bytes; want 4", len(b))}
		}
		return Addr{IP: netip.AddrFrom4([4]byte(b))}, nil
	case Inet6:
		if len(b) != 16 {
			return Addr{}, &nla.ValueError{Field: "inet6 address", Reason: fmt.Sprintf("got %d bytes; want 16", len(b))}
		}
		return Addr{IP: netip.AddrFrom16([16]byte(b))}, nil
	}
	return Addr{Raw: nla.Bytes(b)}, nil
}

// ParseIP infers the family from the payload size.
func ParseIP(b []byte) (netip.Addr, error) {
	switch len(b) {
	case 4:
		return netip.AddrFrom4([4]byte(b)), nil
	case 16:
		return netip.AddrFrom16([16]byte(b)), nil
	}
	return netip.Addr{}, &nla.ValueError{Field: "ip address", Reason: fmt.Sprintf("got %d bytes; want 4 or 16", len(b))}
}

// IPLen is the wire size of ip.
func IPLen(ip netip.Addr) int {
	if ip.Is4() {
		return 4
	}
	return 16
}

// PutIP writes ip in network order. 4in6 addresses are written as IPv6.
func PutIP(b []byte, ip netip.Addr) {
	if ip.Is4() {
		a := ip.As4()
		copy(b, a[:])
		return
	}
	a := ip.As16()
	copy(b, a[:])
}

func (a Addr) Len() int {
	if a.IP.IsValid() {
		return IPLen(a.IP)
	}
	return len(a.Raw)
}

func (a Addr) Put(b []byte) {
	if a.IP.IsValid() {
		PutIP(b, a.IP)
		return
	}
	copy(b, a.Raw)
}

func (a Addr) String() string {
	if a.IP.IsValid() {
		return a.IP.String()
	}
	return fmt.Sprintf("%x", a.Raw)
}
