// Package kmer encodes a byte sequence as its sliding sequence of k-mers
// over a compressed alphabet, and defines k-mer ordering and integer
// encoding used by the minimizer transform, the suffix array, and the PLR
// learned index.
package kmer

import (
	"github.com/mssa-go/mssa/alphabet"
	"github.com/mssa-go/mssa/bitvec"
	"github.com/pkg/errors"

	"github.com/grailbio/base/log"
)

// Kmer is a tagged value: either a Data k-mer (a length-k window encoded
// over the alphabet) or the unique Sentinel, which compares greater than
// every Data k-mer. Sentinel exists solely to terminate the super-k-mer
// sequence so suffix comparison has a well-defined maximum.
type Kmer struct {
	Sentinel bool
	Data     bitvec.Vector
}

// MakeSentinel returns the Sentinel Kmer.
func MakeSentinel() Kmer { return Kmer{Sentinel: true} }

// Compare orders two Kmers: Sentinel is strictly greater than any Data
// k-mer; two Data k-mers compare by their packed integer sequences,
// lexicographically (bitvec.Compare).
func Compare(a, b Kmer) int {
	switch {
	case a.Sentinel && b.Sentinel:
		return 0
	case a.Sentinel:
		return 1
	case b.Sentinel:
		return -1
	default:
		return bitvec.Compare(&a.Data, &b.Data)
	}
}

// Equal reports whether a and b are the same Kmer value.
func Equal(a, b Kmer) bool { return Compare(a, b) == 0 }

// ToInteger treats a Data k-mer's symbols as digits in base 2^b, where b is
// the alphabet's bit width, most-significant-first, so integer order agrees
// with Compare order (testable property 3). The base equals the alphabet
// size only when that size is a power of two; otherwise it is larger.
// Panics if called on Sentinel, which
// has no integer encoding, or if k*bitwidth exceeds 64 bits.
func (k Kmer) ToInteger() uint64 {
	if k.Sentinel {
		log.Panicf("kmer: ToInteger called on Sentinel, which has no integer encoding")
	}
	return k.Data.ToInteger()
}

// Sequence owns the alphabet used to compress a byte sequence S, S's
// original bytes (retained for query-time verification, per spec.md
// "original string retained in index"), and the dense vector of Data-kmers,
// one per length-k window of S.
type Sequence struct {
	alphabet *alphabet.Alphabet
	k        int
	original []byte
	kmers    []Kmer
}

// New builds a Sequence for s, deriving a fresh Alphabet from s's own bytes.
// Used at build time for the reference sequence.
func New(s []byte, k int) (*Sequence, error) {
	return NewWithAlphabet(s, k, alphabet.FromBytes(s))
}

// NewWithAlphabet builds a Sequence for s using a pre-existing Alphabet.
// Used at query time so Q is interpreted under the index's alphabet rather
// than one derived from Q alone (spec.md: "Queries MUST use the index's
// alphabet"). Returns an error (not a panic) if a byte of s is outside a.
func NewWithAlphabet(s []byte, k int, a *alphabet.Alphabet) (*Sequence, error) {
	if k < 1 {
		return nil, errors.Errorf("kmer: k must be >= 1, got %d", k)
	}
	if len(s) < k {
		return nil, errors.Errorf("kmer: sequence length %d is shorter than k=%d", len(s), k)
	}
	codes, err := a.EncodeAll(s)
	if err != nil {
		return nil, err
	}

	bits := a.BitWidth()
	m := len(s) - k + 1
	kmers := make([]Kmer, m)
	for i := 0; i < m; i++ {
		v := bitvec.Zeros(bits, k)
		for j := 0; j < k; j++ {
			v.Set(j, codes[i+j])
		}
		kmers[i] = Kmer{Data: v}
	}

	return &Sequence{alphabet: a, k: k, original: s, kmers: kmers}, nil
}

// Alphabet returns the Sequence's alphabet.
func (s *Sequence) Alphabet() *alphabet.Alphabet { return s.alphabet }

// K returns the k-mer width.
func (s *Sequence) K() int { return s.k }

// Original returns S's original bytes, for verification scans.
func (s *Sequence) Original() []byte { return s.original }

// Kmers returns the dense array of Data-kmers, one per length-k window:
// len(Kmers()) == len(Original()) - K() + 1.
func (s *Sequence) Kmers() []Kmer { return s.kmers }

// At returns the i'th k-mer.
func (s *Sequence) At(i int) Kmer { return s.kmers[i] }

// Len returns the number of k-mer windows.
func (s *Sequence) Len() int { return len(s.kmers) }
