package nla

// HeaderLen is the size of the length/kind prefix of every attribute.
const HeaderLen = 4

const alignTo = 4

// Some producers set these on top of the attribute type, e.g. the kernel
// marks nested tc action options with FlagNested.
const (
	FlagNested       = 0x8000
	FlagNetByteOrder = 0x4000
	TypeMask         = 0x3fff
)

// Align rounds n up to the attribute alignment boundary.
func Align(n int) int {
	return (n + alignTo - 1) &^ (alignTo - 1)
}

// Record is a raw attribute as found on the wire. Length is the unpadded
// length including the header, Value aliases the iterated buffer.
type Record struct {
	Length uint16
	Kind   uint16
	Value  []byte
	Offset int
}

// Iterator walks the attribute records in a byte slice. It's used like a
// bufio.Scanner:
//
//	it := NewIterator(b)
//	for it.Next() {
//		r := it.Record()
//	}
//	if err := it.Err(); err != nil { ... }
//
// Iteration stops when fewer than HeaderLen bytes remain. A fresh Iterator
// over the same slice restarts the walk.
type Iterator struct {
	b   []byte
	off int
	rec Record
	err error
}

func NewIterator(b []byte) *Iterator {
	return &Iterator{b: b}
}

func (it *Iterator) Next() bool {
	if it.err != nil {
		return false
	}

	remaining := len(it.b) - it.off
	if remaining < HeaderLen {
		return false
	}

	v := NewView(it.b[it.off:], HeaderLen)
	length := v.Uint16(0)
	if int(length) < HeaderLen || int(length) > remaining {
		it.err = &MalformedError{Offset: it.off, Length: length, Remaining: remaining}
		return false
	}

	it.rec = Record{
		Length: length,
		Kind:   v.Uint16(2),
		Value:  it.b[it.off+HeaderLen : it.off+int(length)],
		Offset: it.off,
	}

	it.off += Align(int(length))
	if it.off > len(it.b) {
		it.off = len(it.b)
	}

	return true
}

func (it *Iterator) Record() Record { return it.rec }

func (it *Iterator) Err() error { return it.err }

// Records materialises every record in b.
func Records(b []byte) ([]Record, error) {
	var recs []Record
	it := NewIterator(b)
	for it.Next() {
		recs = append(recs, it.Record())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// Find returns the first record of the given kind, flag bits aside.
func Find(recs []Record, kind uint16) (Record, bool) {
	for _, r := range recs {
		if r.Kind&TypeMask == kind {
			return r, true
		}
	}
	return Record{}, false
}
