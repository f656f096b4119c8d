package nla

import (
	"encoding/binary"

	"github.com/josharian/native"
)

var (
	nativeOrder  = native.Endian
	networkOrder = binary.BigEndian
)

// View is a typed window over a byte slice exposing fixed-offset fields.
// Accessors read and write the backing slice directly. A View returned by
// NewViewChecked is guaranteed to hold at least its declared minimum length,
// so every field located below that minimum is safe to access.
type View struct {
	b   []byte
	min int
}

// NewView wraps b without validating its length. It's meant for write paths
// where the caller already sized the buffer.
func NewView(b []byte, min int) View {
	return View{b: b, min: min}
}

// NewViewChecked wraps b after checking it holds at least min bytes.
func NewViewChecked(b []byte, min int) (View, error) {
	if len(b) < min {
		return View{}, &LengthError{Want: min, Have: len(b)}
	}
	return View{b: b, min: min}, nil
}

func (v View) Len() int { return len(v.b) }

// Payload returns whatever follows the declared minimum.
func (v View) Payload() []byte {
	if len(v.b) <= v.min {
		return nil
	}
	return v.b[v.min:]
}

func (v View) Uint8(off int) uint8   { return v.b[off] }
func (v View) Uint16(off int) uint16 { return nativeOrder.Uint16(v.b[off:]) }
func (v View) Uint32(off int) uint32 { return nativeOrder.Uint32(v.b[off:]) }
func (v View) Uint64(off int) uint64 { return nativeOrder.Uint64(v.b[off:]) }
func (v View) Int32(off int) int32   { return int32(nativeOrder.Uint32(v.b[off:])) }

func (v View) Uint16BE(off int) uint16 { return networkOrder.Uint16(v.b[off:]) }
func (v View) Uint32BE(off int) uint32 { return networkOrder.Uint32(v.b[off:]) }
func (v View) Uint64BE(off int) uint64 { return networkOrder.Uint64(v.b[off:]) }

// Bytes returns the n bytes starting at off without copying them.
func (v View) Bytes(off, n int) []byte { return v.b[off : off+n] }

func (v View) SetUint8(off int, x uint8)   { v.b[off] = x }
func (v View) SetUint16(off int, x uint16) { nativeOrder.PutUint16(v.b[off:], x) }
func (v View) SetUint32(off int, x uint32) { nativeOrder.PutUint32(v.b[off:], x) }
func (v View) SetUint64(off int, x uint64) { nativeOrder.PutUint64(v.b[off:], x) }
func (v View) SetInt32(off int, x int32)   { nativeOrder.PutUint32(v.b[off:], uint32(x)) }

func (v View) SetUint16BE(off int, x uint16) { networkOrder.PutUint16(v.b[off:], x) }
func (v View) SetUint32BE(off int, x uint32) { networkOrder.PutUint32(v.b[off:], x) }
func (v View) SetUint64BE(off int, x uint64) { networkOrder.PutUint64(v.b[off:], x) }

func (v View) SetBytes(off int, p []byte) { copy(v.b[off:], p) }
