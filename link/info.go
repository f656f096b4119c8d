package link

import (
	"context"
	"log/slog"

	"github.com/scitags/rtnl-go/nla"
)

const (
	IFLA_INFO_KIND      = 1
	IFLA_INFO_DATA      = 2
	IFLA_INFO_XSTATS    = 3
	IFLA_INFO_PORT_KIND = 4
	IFLA_INFO_PORT_DATA = 5
)

// Info is IFLA_LINKINFO. IFLA_INFO_DATA and IFLA_INFO_PORT_DATA are decoded
// according to the kind siblings wherever those sit in the list.
type Info []nla.Attribute

func (Info) Kind() uint16         { return IFLA_LINKINFO }
func (l Info) ValueLen() int      { return nla.ListLen(l) }
func (l Info) EmitValue(b []byte) { nla.EmitList(b, l) }

type (
	// InfoKind is the driver kind, e.g. "vlan" or "veth".
	InfoKind string
	// InfoPortKind is the kind of the master a port is enslaved to.
	InfoPortKind string
)

func (InfoKind) Kind() uint16         { return IFLA_INFO_KIND }
func (k InfoKind) ValueLen() int      { return len(k) + 1 }
func (k InfoKind) EmitValue(b []byte) { nla.PutString(b, string(k)) }

func (InfoPortKind) Kind() uint16         { return IFLA_INFO_PORT_KIND }
func (k InfoPortKind) ValueLen() int      { return len(k) + 1 }
func (k InfoPortKind) EmitValue(b []byte) { nla.PutString(b, string(k)) }

type (
	// InfoData is kind specific configuration.
	InfoData []nla.Attribute
	// InfoPortData is master specific port configuration.
	InfoPortData []nla.Attribute
)

func (InfoData) Kind() uint16         { return IFLA_INFO_DATA }
func (l InfoData) ValueLen() int      { return nla.ListLen(l) }
func (l InfoData) EmitValue(b []byte) { nla.EmitList(b, l) }

func (InfoPortData) Kind() uint16         { return IFLA_INFO_PORT_DATA }
func (l InfoPortData) ValueLen() int      { return nla.ListLen(l) }
func (l InfoPortData) EmitValue(b []byte) { nla.EmitList(b, l) }

const (
	KindVLAN    = "vlan"
	KindVeth    = "veth"
	KindVXLAN   = "vxlan"
	KindMACVLAN = "macvlan"
	KindMACVTAP = "macvtap"
	KindIPVLAN  = "ipvlan"
	KindIPVTAP  = "ipvtap"
	KindVRF     = "vrf"
	KindBridge  = "bridge"
	KindBond    = "bond"
	KindXfrm    = "xfrm"
	KindHSR     = "hsr"
	KindIPoIB   = "ipoib"
	KindNetkit  = "netkit"
)

// dataParsers is filled in init: a veth peer is a whole link message, whose
// parsing leads back here.
var dataParsers map[string]nla.ParseFunc

func init() {
	dataParsers = map[string]nla.ParseFunc{
		KindVLAN:    parseVLAN,
		KindVeth:    parseVeth,
		KindVXLAN:   parseVXLAN,
		KindMACVLAN: parseMACVLAN,
		KindMACVTAP: parseMACVLAN,
		KindIPVLAN:  parseIPVLAN,
		KindIPVTAP:  parseIPVLAN,
		KindVRF:     parseVRF,
		KindBridge:  parseBridge,
		KindBond:    parseBond,
		KindXfrm:    parseXfrm,
		KindHSR:     parseHSR,
		KindIPoIB:   parseIPoIB,
		KindNetkit:  parseNetkit,
	}
}

var portDataParsers = map[string]nla.ParseFunc{
	KindBridge: parseBridgePort,
	KindBond:   parseBondPort,
}

// kindOf looks a kind selector up. A selector that isn't a string makes the
// whole list undecodable.
func kindOf(recs []nla.Record, kind uint16, name string) (string, error) {
	r, ok := nla.Find(recs, kind)
	if !ok {
		return "", nil
	}
	s, err := nla.String(r.Value)
	if err != nil {
		return "", &nla.ContextError{Selector: name, Err: err}
	}
	return s, nil
}

func parseInfo(b []byte) (Info, error) {
	recs, err := nla.Records(b)
	if err != nil {
		return nil, err
	}
	kind, err := kindOf(recs, IFLA_INFO_KIND, "IFLA_INFO_KIND")
	if err != nil {
		return nil, err
	}
	portKind, err := kindOf(recs, IFLA_INFO_PORT_KIND, "IFLA_INFO_PORT_KIND")
	if err != nil {
		return nil, err
	}

	l, err := nla.ParseRecords(recs, func(r nla.Record) (nla.Attribute, error) {
		switch r.Kind {
		case IFLA_INFO_KIND:
			return InfoKind(kind), nil
		case IFLA_INFO_PORT_KIND:
			return InfoPortKind(portKind), nil
		case IFLA_INFO_DATA:
			fn, ok := dataParsers[kind]
			if !ok {
				slog.Log(context.Background(), nla.LevelTrace, "no decoder for link kind", "kind", kind)
				return nla.ParseOpaque(r), nil
			}
			l, err := nla.ParseList(r.Value, fn)
			return InfoData(l), err
		case IFLA_INFO_PORT_DATA:
			fn, ok := portDataParsers[portKind]
			if !ok {
				slog.Log(context.Background(), nla.LevelTrace, "no decoder for port kind", "kind", portKind)
				return nla.ParseOpaque(r), nil
			}
			l, err := nla.ParseList(r.Value, fn)
			return InfoPortData(l), err
		case IFLA_INFO_XSTATS:
			return nla.ParseOpaque(r), nil
		}
		nla.Notice("link/info", r)
		return nla.NewUnknown(r), nil
	})
	return Info(l), err
}
