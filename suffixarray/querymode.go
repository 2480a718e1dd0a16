package suffixarray

import (
	"math"

	"github.com/mssa-go/mssa/kmer"
	"github.com/mssa-go/mssa/minimizer"
	"github.com/mssa-go/mssa/plr"
	"github.com/pkg/errors"
)

// Mode is the closed set of query-mode variants an Array can be built with
// (spec.md §4.6): a fixed, tagged set rather than an open interface
// hierarchy — every Array picks exactly one Mode at Build time and never
// switches, so dispatch is static per index instance even though Go
// expresses the variants as implementations of a common interface.
type Mode interface {
	// initAux computes any auxiliary data the mode needs, given the fully
	// sorted suffix array. sortedSuffixes[i] is the super-k-mer suffix
	// starting at SA[i] (spec.md §4.4 step 5).
	initAux(seq *kmer.Sequence, w int, order minimizer.Order, sortedSuffixes [][]minimizer.SuperKmer) error
	// interval returns the [lo,hi) range of SA indices that must be searched
	// for a query whose own super-k-mer chain is queryChain. Standard returns
	// the whole array; PWLLearned narrows it with its learned model.
	interval(n int, queryChain []minimizer.SuperKmer) (lo, hi int)
	// name identifies the mode for error messages and serialization tags.
	name() string
}

// GroundTruth is the oracle query mode: it has no auxiliary state and
// ignores the sparse suffix array entirely, instead scanning S directly for
// every exact occurrence of the query (spec.md §4.6.1). It is used
// exclusively as a reference in tests, never as a performance-sensitive
// path.
type GroundTruth struct{}

// NewGroundTruth creates a GroundTruth query mode.
func NewGroundTruth() *GroundTruth { return &GroundTruth{} }

func (*GroundTruth) initAux(*kmer.Sequence, int, minimizer.Order, [][]minimizer.SuperKmer) error {
	return nil
}

func (*GroundTruth) interval(n int, _ []minimizer.SuperKmer) (int, int) { return 0, n }

func (*GroundTruth) name() string { return "ground-truth" }

func (*GroundTruth) query(original, q []byte) ([]int, int) {
	var positions []int
	if len(q) > len(original) {
		return positions, 0
	}
	for i := 0; i+len(q) <= len(original); i++ {
		if bytesEqual(original[i:i+len(q)], q) {
			positions = append(positions, i)
		}
	}
	return positions, 0
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Standard is the plain binary-search query mode with no accelerant
// structures (spec.md §4.6.2): its interval is always the entire array.
type Standard struct{}

// NewStandard creates a Standard query mode.
func NewStandard() *Standard { return &Standard{} }

func (*Standard) initAux(*kmer.Sequence, int, minimizer.Order, [][]minimizer.SuperKmer) error {
	return nil
}

func (*Standard) interval(n int, _ []minimizer.SuperKmer) (int, int) { return 0, n }

func (*Standard) name() string { return "standard" }

// PWLLearned is the piecewise-linear-learned-index query mode (spec.md
// §4.6.3): two PLR models, plrBegin and plrEnd, regress from a suffix's
// first-minimizer integer encoding to the first and last SA index at which
// that minimizer occurs, narrowing the search interval to
// [begin-ceil(gamma), end+ceil(gamma)].
type PWLLearned struct {
	gamma    float64
	order    minimizer.Order
	plrBegin *plr.Model
	plrEnd   *plr.Model
}

// NewPWLLearned creates a PWLLearned query mode with error tolerance gamma.
func NewPWLLearned(gamma float64) (*PWLLearned, error) {
	if gamma < 0 {
		return nil, errors.Errorf("suffixarray: piecewise-linear gamma must be >= 0, got %f", gamma)
	}
	return &PWLLearned{gamma: gamma}, nil
}

func (p *PWLLearned) initAux(_ *kmer.Sequence, _ int, order minimizer.Order, sorted [][]minimizer.SuperKmer) error {
	p.order = order

	beginFitter, err := plr.NewFitter(p.gamma)
	if err != nil {
		return err
	}
	endFitter, err := plr.NewFitter(p.gamma)
	if err != nil {
		return err
	}

	n := len(sorted)
	i := 0
	for i < n {
		first := sorted[i][0].Minimizer
		if first.Sentinel {
			i++
			continue
		}
		groupStart := i
		j := i + 1
		for j < n && !sorted[j][0].Minimizer.Sentinel && kmer.Equal(sorted[j][0].Minimizer, first) {
			j++
		}
		groupEnd := j - 1
		key := minimizer.IntegerKey(order, first)
		beginFitter.Add(key, int64(groupStart))
		endFitter.Add(key, int64(groupEnd))
		i = j
	}

	p.plrBegin = beginFitter.Flush()
	p.plrEnd = endFitter.Flush()
	return nil
}

func (p *PWLLearned) interval(n int, queryChain []minimizer.SuperKmer) (int, int) {
	if len(queryChain) == 0 || queryChain[0].Minimizer.Sentinel {
		return 0, n
	}
	key := minimizer.IntegerKey(p.order, queryChain[0].Minimizer)
	begin := p.plrBegin.Evaluate(key)
	end := p.plrEnd.Evaluate(key)

	slack := int64(math.Ceil(p.gamma))
	lo := begin - slack
	hi := end + slack + 1 // interval() returns an exclusive upper bound

	if lo < 0 {
		lo = 0
	}
	if hi > int64(n) {
		hi = int64(n)
	}
	if lo > hi {
		lo = hi
	}
	return int(lo), int(hi)
}

func (*PWLLearned) name() string { return "pwl-learned" }

// Gamma returns the error tolerance the model was fitted with.
func (p *PWLLearned) Gamma() float64 { return p.gamma }

// BeginModel returns the fitted first-SA-index model (exposed for
// indexfile serialization).
func (p *PWLLearned) BeginModel() *plr.Model { return p.plrBegin }

// EndModel returns the fitted last-SA-index model (exposed for indexfile
// serialization).
func (p *PWLLearned) EndModel() *plr.Model { return p.plrEnd }

// NewPWLLearnedFromModels reconstructs a PWLLearned mode from models fitted
// in a previous build (used by indexfile.Load to avoid re-fitting PLR
// segments from scratch).
func NewPWLLearnedFromModels(gamma float64, order minimizer.Order, begin, end *plr.Model) *PWLLearned {
	return &PWLLearned{gamma: gamma, order: order, plrBegin: begin, plrEnd: end}
}

// BloomFilterPlaceholder reserves the init parameter fpr for a Bloom-filter
// query mode, per spec.md §4.6.4. The spec treats this mode as a named but
// unimplemented placeholder: Build with it returns an error from the mode's
// initialization step, which runs after the super-k-mer sequence has been
// computed and the suffix array sorted. DESIGN NOTES
// explicitly warns against inferring the source's unfinished todo!()
// verification logic, so this mode intentionally does no work beyond
// validating fpr.
type BloomFilterPlaceholder struct {
	fpr float64
}

// NewBloomFilterPlaceholder validates fpr and returns the placeholder mode.
// Building an Array with it always fails at initAux time.
func NewBloomFilterPlaceholder(fpr float64) (*BloomFilterPlaceholder, error) {
	if fpr <= 0 || fpr >= 1 {
		return nil, errors.Errorf("suffixarray: bloom filter fpr must be in (0,1), got %f", fpr)
	}
	return &BloomFilterPlaceholder{fpr: fpr}, nil
}

func (*BloomFilterPlaceholder) initAux(*kmer.Sequence, int, minimizer.Order, [][]minimizer.SuperKmer) error {
	return errors.New("suffixarray: BloomFilter query mode is a named placeholder and is not implemented")
}

func (*BloomFilterPlaceholder) interval(n int, _ []minimizer.SuperKmer) (int, int) { return 0, n }

func (*BloomFilterPlaceholder) name() string { return "bloom-filter" }
