package indexfile

import (
	"bytes"
	"testing"

	"github.com/mssa-go/mssa/kmer"
	"github.com/mssa-go/mssa/minimizer"
	"github.com/mssa-go/mssa/suffixarray"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeq = "ACTGACCCGTAGCGCTA"

func buildTestArray(t *testing.T, mode suffixarray.Mode) *suffixarray.Array {
	t.Helper()
	seq, err := kmer.New([]byte(testSeq), 3)
	require.NoError(t, err)
	arr, err := suffixarray.Build(seq, 3, minimizer.Lexicographic{}, mode)
	require.NoError(t, err)
	return arr
}

func TestSaveLoadRoundTripStandard(t *testing.T) {
	arr := buildTestArray(t, suffixarray.NewStandard())

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, arr, Options{}))

	loaded, err := Load(&buf)
	require.NoError(t, err)

	for _, q := range []string{"CCCGTAG", "TTTTTTT", testSeq} {
		want, _, err := arr.Query([]byte(q))
		require.NoError(t, err)
		got, _, err := loaded.Query([]byte(q))
		require.NoError(t, err)
		assert.Equal(t, want, got, "query %q", q)
	}
}

func TestSaveLoadRoundTripCompressed(t *testing.T) {
	arr := buildTestArray(t, suffixarray.NewStandard())

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, arr, Options{Compress: true}))

	loaded, err := Load(&buf)
	require.NoError(t, err)

	got, _, err := loaded.Query([]byte("CCCGTAG"))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSaveLoadRoundTripPWLLearned(t *testing.T) {
	mode, err := suffixarray.NewPWLLearned(1.0)
	require.NoError(t, err)
	arr := buildTestArray(t, mode)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, arr, Options{}))

	loaded, err := Load(&buf)
	require.NoError(t, err)

	want, _, err := arr.Query([]byte("GTAGCGC"))
	require.NoError(t, err)
	got, _, err := loaded.Query([]byte("GTAGCGC"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadRejectsBadMagic(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("not an index file at all")))
	assert.Error(t, err)
}

func TestLoadRejectsCorruptedChecksum(t *testing.T) {
	arr := buildTestArray(t, suffixarray.NewStandard())
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, arr, Options{}))

	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xFF

	_, err := Load(bytes.NewReader(corrupted))
	assert.Error(t, err)
}
