package nla

import (
	"bytes"
	"fmt"
	"net"
	"unicode/utf8"
)

func want(b []byte, n int, field string) error {
	if len(b) != n {
		return &ValueError{Field: field, Reason: fmt.Sprintf("got %d bytes; want %d", len(b), n)}
	}
	return nil
}

// Fixed checks b holds exactly one n byte kernel struct and returns a view
// over it.
func Fixed(b []byte, n int, field string) (View, error) {
	if err := want(b, n, field); err != nil {
		return View{}, err
	}
	return NewView(b, n), nil
}

func Uint8(b []byte) (uint8, error) {
	if err := want(b, 1, "u8"); err != nil {
		return 0, err
	}
	return b[0], nil
}

func Uint16(b []byte) (uint16, error) {
	if err := want(b, 2, "u16"); err != nil {
		return 0, err
	}
	return nativeOrder.Uint16(b), nil
}

func Uint32(b []byte) (uint32, error) {
	if err := want(b, 4, "u32"); err != nil {
		return 0, err
	}
	return nativeOrder.Uint32(b), nil
}

func Uint64(b []byte) (uint64, error) {
	if err := want(b, 8, "u64"); err != nil {
		return 0, err
	}
	return nativeOrder.Uint64(b), nil
}

func Int32(b []byte) (int32, error) {
	v, err := Uint32(b)
	return int32(v), err
}

func Uint16BE(b []byte) (uint16, error) {
	if err := want(b, 2, "be16"); err != nil {
		return 0, err
	}
	return networkOrder.Uint16(b), nil
}

func Uint32BE(b []byte) (uint32, error) {
	if err := want(b, 4, "be32"); err != nil {
		return 0, err
	}
	return networkOrder.Uint32(b), nil
}

func Uint64BE(b []byte) (uint64, error) {
	if err := want(b, 8, "be64"); err != nil {
		return 0, err
	}
	return networkOrder.Uint64(b), nil
}

// String drops a single trailing NUL and checks the rest is valid UTF-8.
func String(b []byte) (string, error) {
	if n := len(b); n > 0 && b[n-1] == 0 {
		b = b[:n-1]
	}
	if !utf8.Valid(b) {
		return "", &ValueError{Field: "string", Reason: "not valid UTF-8"}
	}
	return string(b), nil
}

// CString stops at the first NUL. Interface names are padded to IFNAMSIZ by
// some producers.
func CString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func HardwareAddr(b []byte) net.HardwareAddr {
	return net.HardwareAddr(clone(b))
}

// Bytes copies b so the result outlives the parsed buffer.
func Bytes(b []byte) []byte { return clone(b) }

func PutUint16(b []byte, v uint16)   { nativeOrder.PutUint16(b, v) }
func PutUint32(b []byte, v uint32)   { nativeOrder.PutUint32(b, v) }
func PutUint64(b []byte, v uint64)   { nativeOrder.PutUint64(b, v) }
func PutInt32(b []byte, v int32)     { nativeOrder.PutUint32(b, uint32(v)) }
func PutUint16BE(b []byte, v uint16) { networkOrder.PutUint16(b, v) }
func PutUint32BE(b []byte, v uint32) { networkOrder.PutUint32(b, v) }
func PutUint64BE(b []byte, v uint64) { networkOrder.PutUint64(b, v) }

// PutString writes s followed by a NUL. b must hold len(s)+1 bytes.
func PutString(b []byte, s string) {
	copy(b, s)
	b[len(s)] = 0
}

// Bool reads the one byte booleans used by a few attributes.
func Bool(b []byte) (bool, error) {
	v, err := Uint8(b)
	return v != 0, err
}

func PutBool(b []byte, v bool) {
	if v {
		b[0] = 1
	} else {
		b[0] = 0
	}
}
