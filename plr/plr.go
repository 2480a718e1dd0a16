// Package plr implements a greedy piecewise-linear regression (PLR) with a
// bounded per-point error tolerance gamma, used by the PWLLearned query
// mode (spec.md §4.6.3) as a learned index from an integer-encoded k-mer
// key to a suffix-array position. This is the "shrinking cone" / greedy PLA
// algorithm used by learned-index literature (e.g. FITing-tree, PGM-index):
// for each segment we track the range of slopes consistent with every point
// seen so far lying within +/- gamma of a line anchored at the segment's
// first point, and start a new segment as soon as that range becomes empty.
package plr

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// Segment is one piece of a fitted piecewise-linear function, valid for x >=
// StartX (and < the next segment's StartX, or +inf for the last segment).
type Segment struct {
	StartX    uint64
	Slope     float64
	Intercept float64
}

// Model is a fitted piecewise-linear function over ascending x.
type Model struct {
	segments []Segment
}

// Evaluate returns round(slope*x + intercept) for the segment covering x.
// Segment lookup is a binary search on segment StartX (sorted ascending) —
// an optimization the spec's DESIGN NOTES call out as not required for
// correctness (a linear scan over segments also works) but does not
// prohibit, since a model can have many segments once k-mer space is large.
func (m *Model) Evaluate(x uint64) int64 {
	if len(m.segments) == 0 {
		return 0
	}
	idx := sort.Search(len(m.segments), func(i int) bool {
		return m.segments[i].StartX > x
	}) - 1
	if idx < 0 {
		idx = 0
	}
	seg := m.segments[idx]
	return int64(math.Round(seg.Slope*float64(x) + seg.Intercept))
}

// Segments returns the fitted segments, sorted ascending by StartX.
func (m *Model) Segments() []Segment { return m.segments }

// FromSegments reconstructs a Model from previously-fitted segments (e.g.
// read back by indexfile).
func FromSegments(segments []Segment) *Model {
	return &Model{segments: segments}
}

// Fitter incrementally fits a Model via the greedy PLA algorithm. Points
// must be added in non-decreasing x order. Call Flush once after the last
// Add to emit the final in-progress segment.
type Fitter struct {
	gamma float64

	open      bool
	anchorX   uint64
	anchorY   float64
	slopeLow  float64
	slopeHigh float64
	lastX     uint64

	segments []Segment
}

// NewFitter creates a Fitter with error tolerance gamma (must be >= 0).
func NewFitter(gamma float64) (*Fitter, error) {
	if gamma < 0 {
		return nil, errors.Errorf("plr: gamma must be >= 0, got %f", gamma)
	}
	return &Fitter{gamma: gamma}, nil
}

// Add incorporates point (x,y) into the model under construction.
func (f *Fitter) Add(x uint64, y int64) {
	yf := float64(y)
	if !f.open {
		f.startSegment(x, yf)
		return
	}

	dx := float64(x - f.anchorX)
	if dx == 0 {
		// Duplicate x within the same segment: widen tolerance is unnecessary,
		// the existing cone already must contain this y within gamma, or we
		// close and restart.
		if math.Abs(yf-f.anchorY) > f.gamma {
			f.closeSegment()
			f.startSegment(x, yf)
		}
		f.lastX = x
		return
	}

	sLow := (yf - f.gamma - f.anchorY) / dx
	sHigh := (yf + f.gamma - f.anchorY) / dx
	newLow := math.Max(f.slopeLow, sLow)
	newHigh := math.Min(f.slopeHigh, sHigh)

	if newLow > newHigh {
		f.closeSegment()
		f.startSegment(x, yf)
		return
	}

	f.slopeLow, f.slopeHigh = newLow, newHigh
	f.lastX = x
}

// Flush finalizes any in-progress segment and returns the complete Model.
// The Fitter must not be reused afterward.
func (f *Fitter) Flush() *Model {
	if f.open {
		f.closeSegment()
	}
	return &Model{segments: f.segments}
}

func (f *Fitter) startSegment(x uint64, y float64) {
	f.open = true
	f.anchorX = x
	f.anchorY = y
	f.lastX = x
	f.slopeLow = math.Inf(-1)
	f.slopeHigh = math.Inf(1)
}

func (f *Fitter) closeSegment() {
	slope := 0.0
	switch {
	case math.IsInf(f.slopeLow, -1) && math.IsInf(f.slopeHigh, 1):
		// Segment has a single distinct x value (or all duplicates): slope is
		// irrelevant, pin it at 0 so Evaluate just returns the anchor's y.
		slope = 0
	case math.IsInf(f.slopeLow, -1):
		slope = f.slopeHigh
	case math.IsInf(f.slopeHigh, 1):
		slope = f.slopeLow
	default:
		slope = (f.slopeLow + f.slopeHigh) / 2
	}
	intercept := f.anchorY - slope*float64(f.anchorX)
	f.segments = append(f.segments, Segment{
		StartX:    f.anchorX,
		Slope:     slope,
		Intercept: intercept,
	})
	f.open = false
}
