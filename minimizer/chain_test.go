package minimizer

import (
	"testing"

	"github.com/mssa-go/mssa/kmer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSequence(t *testing.T, s string, k int) *kmer.Sequence {
	t.Helper()
	seq, err := kmer.New([]byte(s), k)
	require.NoError(t, err)
	return seq
}

func TestSuperKmerCoverage(t *testing.T) {
	s := "ACTGACCCGTAGCGCTA"
	k, w := 3, 3
	seq := buildSequence(t, s, k)
	superKmers := ComputeSuperKmers(seq, w, Lexicographic{})

	require.True(t, len(superKmers) >= 1)
	last := superKmers[len(superKmers)-1]
	assert.True(t, last.Minimizer.Sentinel)
	assert.Equal(t, uint64(len(s)), last.StartPos)
	assert.Equal(t, uint64(0), last.Length)

	m := seq.Len()
	var runCountSum int
	for _, sk := range superKmers[:len(superKmers)-1] {
		runCount := int(sk.Length) - w - k + 2
		assert.True(t, runCount >= 1)
		runCountSum += runCount
	}
	assert.Equal(t, m-w+1, runCountSum)
}

func TestSentinelAppendedExactlyOnce(t *testing.T) {
	seq := buildSequence(t, "ACTGACCCGTAGCGCTA", 3)
	superKmers := ComputeSuperKmers(seq, 3, Lexicographic{})

	count := 0
	for _, sk := range superKmers {
		if sk.Minimizer.Sentinel {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestOccurrenceOrderSharedAcrossBuildAndQuery(t *testing.T) {
	ref := buildSequence(t, "ACTGACCCGTAGCGCTA", 3)
	order := NewOccurrence(ref.Kmers())

	refSuperKmers := ComputeSuperKmers(ref, 3, order)
	require.True(t, len(refSuperKmers) > 1)

	query, err := kmer.NewWithAlphabet([]byte("CTGAC"), 3, ref.Alphabet())
	require.NoError(t, err)
	querySuperKmers := ComputeSuperKmers(query, 3, order)
	require.True(t, len(querySuperKmers) >= 1)
}

func TestCompareSuffixesOrdersBySentinelLast(t *testing.T) {
	seq := buildSequence(t, "ACTGACCCGTAGCGCTA", 3)
	superKmers := ComputeSuperKmers(seq, 3, Lexicographic{})

	// Comparing the first super-k-mer against a single-element Sentinel-only
	// slice: it should compare Less (it holds a Data minimizer).
	sentinelOnly := []SuperKmer{{Minimizer: kmer.MakeSentinel()}}
	assert.Equal(t, -1, CompareSuffixes(Lexicographic{}, superKmers[:1], sentinelOnly))
}
