package kmer

import (
	"testing"

	"github.com/mssa-go/mssa/alphabet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelDominance(t *testing.T) {
	seq, err := New([]byte("ACTGACCCGTAGCGCTA"), 3)
	require.NoError(t, err)

	s1 := MakeSentinel()
	s2 := MakeSentinel()
	assert.Equal(t, 0, Compare(s1, s2))

	for _, d := range seq.Kmers() {
		assert.Equal(t, 1, Compare(s1, d))
		assert.Equal(t, -1, Compare(d, s1))
	}
}

func TestIntegerOrderAgreement(t *testing.T) {
	seq, err := New([]byte("ACTGACCCGTAGCGCTA"), 3)
	require.NoError(t, err)

	kmers := seq.Kmers()
	for i := range kmers {
		for j := range kmers {
			want := Compare(kmers[i], kmers[j])
			gi, gj := kmers[i].ToInteger(), kmers[j].ToInteger()
			var got int
			switch {
			case gi < gj:
				got = -1
			case gi > gj:
				got = 1
			default:
				got = 0
			}
			assert.Equal(t, want, got, "mismatch at i=%d j=%d", i, j)
		}
	}
}

func TestSequenceWindowCount(t *testing.T) {
	s := []byte("ACTGACCCGTAGCGCTA")
	k := 3
	seq, err := New(s, k)
	require.NoError(t, err)
	assert.Equal(t, len(s)-k+1, seq.Len())
}

func TestNewWithAlphabetRejectsUnknownByte(t *testing.T) {
	a := alphabet.FromBytes([]byte("ACGT"))
	_, err := NewWithAlphabet([]byte("ACGTN"), 3, a)
	assert.Error(t, err)
}

func TestToIntegerPanicsOnSentinel(t *testing.T) {
	assert.Panics(t, func() { MakeSentinel().ToInteger() })
}

func TestShortSequenceRejected(t *testing.T) {
	_, err := New([]byte("AC"), 3)
	assert.Error(t, err)
}
