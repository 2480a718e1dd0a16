// Package suffixarray implements the sparse suffix array over super-k-mers
// described by spec.md §4.4–§4.6: build (sort super-k-mer suffixes) and
// query (double partition-point binary search narrowed by a pluggable
// Mode, followed by exact verification against the retained original
// bytes of S).
package suffixarray

import (
	"sort"

	"github.com/mssa-go/mssa/kmer"
	"github.com/mssa-go/mssa/minimizer"
	"github.com/pkg/errors"
)

// Array is an immutable sparse suffix array built over a KmerSequence: it
// owns the underlying k-mer sequence (and, through it, S's original bytes
// and alphabet), the window size w, the minimizer order, the super-k-mer
// sequence P (including its trailing Sentinel), the suffix-array
// permutation SA, and the chosen query Mode's auxiliary data.
type Array struct {
	kmers      *kmer.Sequence
	w          int
	order      minimizer.Order
	superKmers []minimizer.SuperKmer
	sa         []int
	mode       Mode
}

// Build constructs an Array from seq (spec.md §4.4): it computes the
// super-k-mer sequence under w and order, sorts the suffix-array
// permutation by minimizer-lexicographic order, and finally asks mode to
// compute its auxiliary data from the sorted suffixes. Build is a pure
// function of its inputs; the result is immutable.
func Build(seq *kmer.Sequence, w int, order minimizer.Order, mode Mode) (*Array, error) {
	if w < 1 {
		return nil, errors.Errorf("suffixarray: w must be >= 1, got %d", w)
	}
	if seq.Len() < w {
		return nil, errors.Errorf("suffixarray: sequence has only %d k-mer windows, need at least w=%d", seq.Len(), w)
	}

	superKmers := minimizer.ComputeSuperKmers(seq, w, order)
	n := len(superKmers)

	sa := make([]int, n)
	for i := range sa {
		sa[i] = i
	}
	sort.Slice(sa, func(i, j int) bool {
		return minimizer.CompareSuffixes(order, superKmers[sa[i]:], superKmers[sa[j]:]) < 0
	})

	sorted := make([][]minimizer.SuperKmer, n)
	for i, idx := range sa {
		sorted[i] = superKmers[idx:]
	}

	if err := mode.initAux(seq, w, order, sorted); err != nil {
		return nil, errors.Wrapf(err, "suffixarray: initializing %s query mode", mode.name())
	}

	return &Array{
		kmers:      seq,
		w:          w,
		order:      order,
		superKmers: superKmers,
		sa:         sa,
		mode:       mode,
	}, nil
}

// FromParts reconstructs an Array from already-computed pieces, without
// recomputing the super-k-mer sequence, re-sorting the suffix array, or
// re-fitting any mode's auxiliary data. Used by indexfile.Load, which reads
// all of these back off disk verbatim.
func FromParts(seq *kmer.Sequence, w int, order minimizer.Order, superKmers []minimizer.SuperKmer, sa []int, mode Mode) *Array {
	return &Array{
		kmers:      seq,
		w:          w,
		order:      order,
		superKmers: superKmers,
		sa:         sa,
		mode:       mode,
	}
}

// W returns the window size the array was built with.
func (a *Array) W() int { return a.w }

// K returns the k-mer width of the array's underlying k-mer sequence.
func (a *Array) K() int { return a.kmers.K() }

// Len returns N, the number of super-k-mers (including the trailing
// Sentinel).
func (a *Array) Len() int { return len(a.superKmers) }

// SuperKmers returns the super-k-mer sequence P, in the order it was
// constructed (not SA order).
func (a *Array) SuperKmers() []minimizer.SuperKmer { return a.superKmers }

// SA returns the suffix-array permutation.
func (a *Array) SA() []int { return a.sa }

// KmerSequence returns the underlying k-mer sequence (exposed for
// indexfile, which needs to serialize S, the alphabet, and k).
func (a *Array) KmerSequence() *kmer.Sequence { return a.kmers }

// Order returns the minimizer order the array was built with.
func (a *Array) Order() minimizer.Order { return a.order }

// Mode returns the query mode the array was built with.
func (a *Array) Mode() Mode { return a.mode }

// Query implements spec.md §4.5: it locates every exact occurrence of q in
// S, returning the 0-based starting positions (in the order candidate spans
// were visited, per spec.md §5's ordering guarantee) and a count of
// candidate spans that matched the sparse search but contained no exact
// occurrence of q (false positives). A byte of q outside the array's
// alphabet yields an empty, non-error result (spec.md §7: alphabet mismatch
// is not an error). A query shorter than w+k-1 is a parameter violation and
// returns an error.
func (a *Array) Query(q []byte) ([]int, int, error) {
	k := a.kmers.K()
	minLen := a.w + k - 1
	if len(q) < minLen {
		return nil, 0, errors.Errorf("suffixarray: query length %d is shorter than w+k-1=%d", len(q), minLen)
	}

	if gt, ok := a.mode.(*GroundTruth); ok {
		positions, fp := gt.query(a.kmers.Original(), q)
		return positions, fp, nil
	}

	querySeq, err := kmer.NewWithAlphabet(q, k, a.kmers.Alphabet())
	if err != nil {
		// Alphabet mismatch: not an error, just no matches (spec.md §7).
		return nil, 0, nil
	}

	// The search key is the query's Data super-k-mers only: its trailing
	// Sentinel would match no reference suffix except the one that ends there.
	queryChain := minimizer.ComputeSuperKmers(querySeq, a.w, a.order)
	queryChain = queryChain[:len(queryChain)-1]
	if len(queryChain) == 0 {
		return nil, 0, nil
	}

	n := len(a.superKmers)
	lo, hi := a.mode.interval(n, queryChain)

	left := lo + sort.Search(hi-lo, func(i int) bool {
		idx := a.sa[lo+i]
		return minimizer.CompareQueryPrefix(a.order, a.superKmers[idx:], queryChain) >= 0
	})
	right := lo + sort.Search(hi-lo, func(i int) bool {
		idx := a.sa[lo+i]
		return minimizer.CompareQueryPrefix(a.order, a.superKmers[idx:], queryChain) > 0
	})

	original := a.kmers.Original()
	var positions []int
	falsePositives := 0

	for i := left; i < right; i++ {
		startIdx := a.sa[i]
		endIdx := startIdx + len(queryChain) - 1
		if endIdx >= n {
			endIdx = n - 1
		}
		span := a.superKmers[startIdx : endIdx+1]
		scanStart := span[0].StartPos
		last := span[len(span)-1]
		scanEnd := last.StartPos + last.Length
		if scanEnd > uint64(len(original)) {
			scanEnd = uint64(len(original))
		}

		found := false
		qlen := uint64(len(q))
		for p := scanStart; p+qlen <= scanEnd; p++ {
			if bytesEqual(original[p:p+qlen], q) {
				positions = append(positions, int(p))
				found = true
				break
			}
		}
		if !found {
			falsePositives++
		}
	}

	return positions, falsePositives, nil
}
