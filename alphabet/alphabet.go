// Package alphabet implements the order-preserving bijection between the
// distinct bytes observed in a reference sequence and a dense range of small
// integer codes, used throughout this module to pack k-mers tightly.
package alphabet

import (
	"sort"

	"github.com/pkg/errors"
)

const unassigned = 0xff

// Alphabet is a bijection between a set of byte symbols and the dense
// integer range [0, Size). Codes preserve byte order: encode(a) < encode(b)
// iff a < b.
type Alphabet struct {
	toCode [256]byte
	toByte []byte
}

// FromBytes scans seq, collects its distinct bytes, and assigns codes
// 0..σ-1 in ascending byte order.
func FromBytes(seq []byte) *Alphabet {
	var seen [256]bool
	for _, b := range seq {
		seen[b] = true
	}
	var bytes []byte
	for b := 0; b < 256; b++ {
		if seen[b] {
			bytes = append(bytes, byte(b))
		}
	}
	sort.Slice(bytes, func(i, j int) bool { return bytes[i] < bytes[j] })

	a := &Alphabet{toByte: bytes}
	for i := range a.toCode {
		a.toCode[i] = unassigned
	}
	for code, b := range bytes {
		a.toCode[b] = byte(code)
	}
	return a
}

// Size returns σ, the number of distinct symbols.
func (a *Alphabet) Size() int { return len(a.toByte) }

// BitWidth returns the number of bits needed to store a single code,
// ceil(log2(max(Size(),2))).
func (a *Alphabet) BitWidth() int {
	sigma := a.Size()
	if sigma < 2 {
		sigma = 2
	}
	width := 0
	for (1 << uint(width)) < sigma {
		width++
	}
	return width
}

// Encode returns the code for byte b, and whether b belongs to the alphabet.
func (a *Alphabet) Encode(b byte) (uint64, bool) {
	c := a.toCode[b]
	if c == unassigned {
		return 0, false
	}
	return uint64(c), true
}

// EncodeAll encodes every byte of s, returning an error naming the first
// out-of-alphabet byte encountered (used at query time per spec: any byte of
// Q not in the alphabet means the query yields no matches, which callers
// treat as a non-error empty result rather than propagating this error).
func (a *Alphabet) EncodeAll(s []byte) ([]uint64, error) {
	out := make([]uint64, len(s))
	for i, b := range s {
		c, ok := a.Encode(b)
		if !ok {
			return nil, errors.Errorf("alphabet: byte %q at offset %d is not in the alphabet", b, i)
		}
		out[i] = c
	}
	return out, nil
}

// Decode returns the original byte for code c.
func (a *Alphabet) Decode(c uint64) byte {
	return a.toByte[c]
}

// Bytes returns the alphabet's bytes in ascending (code) order, i.e.
// Bytes()[code] == Decode(code).
func (a *Alphabet) Bytes() []byte {
	out := make([]byte, len(a.toByte))
	copy(out, a.toByte)
	return out
}

// FromPairs reconstructs an Alphabet from serialized (byte, code) pairs,
// e.g. those read back by indexfile.
func FromPairs(pairs [][2]byte) *Alphabet {
	a := &Alphabet{toByte: make([]byte, len(pairs))}
	for i := range a.toCode {
		a.toCode[i] = unassigned
	}
	for _, p := range pairs {
		b, code := p[0], p[1]
		a.toByte[code] = b
		a.toCode[b] = code
	}
	return a
}

// Pairs returns (byte, code) pairs in code order, for serialization.
func (a *Alphabet) Pairs() [][2]byte {
	pairs := make([][2]byte, len(a.toByte))
	for code, b := range a.toByte {
		pairs[code] = [2]byte{b, byte(code)}
	}
	return pairs
}
