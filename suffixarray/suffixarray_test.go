package suffixarray

import (
	"sort"
	"testing"

	"github.com/mssa-go/mssa/kmer"
	"github.com/mssa-go/mssa/minimizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeq = "ACTGACCCGTAGCGCTA"

func buildArray(t *testing.T, s string, k, w int, mode Mode) *Array {
	t.Helper()
	seq, err := kmer.New([]byte(s), k)
	require.NoError(t, err)
	arr, err := Build(seq, w, minimizer.Lexicographic{}, mode)
	require.NoError(t, err)
	return arr
}

func TestBuildProducesSortedSuffixArray(t *testing.T) {
	arr := buildArray(t, testSeq, 3, 3, NewStandard())
	order := arr.Order()
	for i := 1; i < len(arr.sa); i++ {
		prev := arr.superKmers[arr.sa[i-1]:]
		cur := arr.superKmers[arr.sa[i]:]
		assert.LessOrEqual(t, minimizer.CompareSuffixes(order, prev, cur), 0)
	}
}

func TestQueryFindsKnownSubstring(t *testing.T) {
	arr := buildArray(t, testSeq, 3, 3, NewStandard())
	q := []byte("CCCGTAG")
	positions, fp, err := arr.Query(q)
	require.NoError(t, err)
	assert.Equal(t, 0, fp)
	require.Len(t, positions, 1)
	assert.Equal(t, "CCCGTAG", testSeq[positions[0]:positions[0]+len(q)])
}

func TestQueryFindsAllOccurrencesOfRepeatedSubstring(t *testing.T) {
	s := "ACGTACGTACGTACGT"
	arr := buildArray(t, s, 3, 2, NewStandard())
	q := []byte("ACGT")
	positions, fp, err := arr.Query(q)
	require.NoError(t, err)
	assert.Equal(t, 0, fp)

	var expected []int
	for i := 0; i+len(q) <= len(s); i++ {
		if s[i:i+len(q)] == string(q) {
			expected = append(expected, i)
		}
	}
	sort.Ints(positions)
	assert.Equal(t, expected, positions)
}

func TestQueryAbsentSubstringReturnsNoPositions(t *testing.T) {
	arr := buildArray(t, testSeq, 3, 3, NewStandard())
	positions, _, err := arr.Query([]byte("TTTTTTT"))
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestQueryEntireSequenceMatchesItself(t *testing.T) {
	arr := buildArray(t, testSeq, 3, 3, NewStandard())
	positions, fp, err := arr.Query([]byte(testSeq))
	require.NoError(t, err)
	assert.Equal(t, 0, fp)
	assert.Equal(t, []int{0}, positions)
}

func TestQueryTooShortReturnsError(t *testing.T) {
	arr := buildArray(t, testSeq, 3, 3, NewStandard())
	_, _, err := arr.Query([]byte("AC"))
	assert.Error(t, err)
}

func TestQueryAlphabetMismatchIsEmptyNotError(t *testing.T) {
	arr := buildArray(t, testSeq, 3, 3, NewStandard())
	positions, fp, err := arr.Query([]byte("ACTNNNN"))
	require.NoError(t, err)
	assert.Equal(t, 0, fp)
	assert.Empty(t, positions)
}

func TestStandardModeAgreesWithGroundTruth(t *testing.T) {
	truth := buildArray(t, testSeq, 3, 3, NewGroundTruth())
	standard := buildArray(t, testSeq, 3, 3, NewStandard())

	queries := []string{"ACTGACC", "CGCTA", "GTAGCGC", "ACCCGTAGCG", "TTTTTTT", testSeq}
	for _, q := range queries {
		want, _, err := truth.Query([]byte(q))
		require.NoError(t, err)
		got, _, err := standard.Query([]byte(q))
		require.NoError(t, err)
		sort.Ints(want)
		sort.Ints(got)
		assert.Equal(t, want, got, "query %q", q)
	}
}

func TestPWLLearnedAgreesWithGroundTruth(t *testing.T) {
	truth := buildArray(t, testSeq, 3, 3, NewGroundTruth())
	mode, err := NewPWLLearned(1.0)
	require.NoError(t, err)
	learned := buildArray(t, testSeq, 3, 3, mode)

	queries := []string{"ACTGACC", "CGCTA", "GTAGCGC", "ACCCGTAGCG", "TTTTTTT", testSeq}
	for _, q := range queries {
		want, _, err := truth.Query([]byte(q))
		require.NoError(t, err)
		got, _, err := learned.Query([]byte(q))
		require.NoError(t, err)
		sort.Ints(want)
		sort.Ints(got)
		assert.Equal(t, want, got, "query %q", q)
	}
}

func TestBloomFilterPlaceholderFailsAtBuild(t *testing.T) {
	seq, err := kmer.New([]byte(testSeq), 3)
	require.NoError(t, err)
	mode, err := NewBloomFilterPlaceholder(0.01)
	require.NoError(t, err)
	_, err = Build(seq, 3, minimizer.Lexicographic{}, mode)
	assert.Error(t, err)
}

func TestOccurrenceOrderQueryAgreesWithGroundTruth(t *testing.T) {
	seq, err := kmer.New([]byte(testSeq), 3)
	require.NoError(t, err)
	order := minimizer.NewOccurrence(seq.Kmers())

	truth, err := Build(seq, 3, order, NewGroundTruth())
	require.NoError(t, err)
	standard, err := Build(seq, 3, order, NewStandard())
	require.NoError(t, err)

	queries := []string{"ACTGACC", "CGCTA", "GTAGCGC"}
	for _, q := range queries {
		want, _, err := truth.Query([]byte(q))
		require.NoError(t, err)
		got, _, err := standard.Query([]byte(q))
		require.NoError(t, err)
		sort.Ints(want)
		sort.Ints(got)
		assert.Equal(t, want, got, "query %q", q)
	}
}

func TestBuildRejectsSequenceShorterThanWindow(t *testing.T) {
	seq, err := kmer.New([]byte("ACTG"), 3)
	require.NoError(t, err)
	_, err = Build(seq, 10, minimizer.Lexicographic{}, NewStandard())
	assert.Error(t, err)
}
