package nla

import (
	"fmt"
	"strings"
)

// Bits is any fixed-width flag set.
type Bits interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// KnownBits keeps the bits of v that have a name in names.
func KnownBits[T Bits](v T, names map[T]string) T {
	var k T
	for bit := range names {
		if bit != 0 && v&bit == bit {
			k |= bit
		}
	}
	return k
}

// FlagString renders v as NAME|NAME|0x... with the unnamed remainder last.
// Single bit names are listed in ascending bit order.
func FlagString[T Bits](v T, names map[T]string) string {
	if v == 0 {
		if n, ok := names[0]; ok {
			return n
		}
		return "0"
	}

	var parts []string
	known := KnownBits(v, names)
	for i := 0; i < 64; i++ {
		bit := T(1) << i
		if bit == 0 {
			break
		}
		if known&bit == 0 {
			continue
		}
		if n, ok := names[bit]; ok {
			parts = append(parts, n)
		}
	}
	if rest := v &^ known; rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint64(rest)))
	}
	return strings.Join(parts, "|")
}
