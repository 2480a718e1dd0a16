package plr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactLineFitsOneSegment(t *testing.T) {
	f, err := NewFitter(0)
	require.NoError(t, err)
	for x := uint64(0); x < 20; x++ {
		f.Add(x, int64(3*x+7))
	}
	model := f.Flush()
	assert.Len(t, model.Segments(), 1)
	for x := uint64(0); x < 20; x++ {
		assert.Equal(t, int64(3*x+7), model.Evaluate(x))
	}
}

func TestErrorToleranceBoundsEvaluation(t *testing.T) {
	gamma := 2.0
	f, err := NewFitter(gamma)
	require.NoError(t, err)

	ys := []int64{0, 1, 2, 2, 4, 5, 7, 8, 9, 10}
	for x, y := range ys {
		f.Add(uint64(x), y)
	}
	model := f.Flush()

	for x, y := range ys {
		got := model.Evaluate(uint64(x))
		assert.LessOrEqual(t, math.Abs(float64(got-y)), gamma+1e-9,
			"x=%d: got %d, want within %v of %d", x, got, gamma, y)
	}
}

func TestNegativeGammaRejected(t *testing.T) {
	_, err := NewFitter(-1)
	assert.Error(t, err)
}

func TestFromSegmentsRoundTrip(t *testing.T) {
	f, err := NewFitter(0.5)
	require.NoError(t, err)
	for x := uint64(0); x < 50; x++ {
		f.Add(x, int64(x*x%7))
	}
	model := f.Flush()
	restored := FromSegments(model.Segments())
	for x := uint64(0); x < 50; x++ {
		assert.Equal(t, model.Evaluate(x), restored.Evaluate(x))
	}
}

func TestEmptyModelEvaluatesToZero(t *testing.T) {
	model := FromSegments(nil)
	assert.Equal(t, int64(0), model.Evaluate(42))
}
