// Package minimizer computes the minimizer chain and super-k-mer transform
// of a k-mer sequence under a configurable order, and provides the
// lexicographic suffix comparator the suffix array sorts and searches by.
package minimizer

import (
	"math"

	"github.com/mssa-go/mssa/kmer"
)

// Order ranks k-mers for the purpose of choosing a window's minimizer and
// sorting super-k-mer suffixes. Sentinel must compare greater than every
// Data k-mer under any Order, matching kmer.Compare.
type Order interface {
	// Less reports whether a strictly precedes b under this order.
	Less(a, b kmer.Kmer) bool
}

// Lexicographic orders k-mers by their packed integer encoding, which by
// construction agrees with byte-lexicographic order (alphabet.Alphabet is
// order-preserving).
type Lexicographic struct{}

// Less implements Order.
func (Lexicographic) Less(a, b kmer.Kmer) bool {
	return kmer.Compare(a, b) < 0
}

// Occurrence orders k-mers by the index of their first occurrence in the
// reference k-mer sequence K used to build it (spec.md §4.6.5). It must be
// constructed once from the build-time sequence and then reused, unchanged,
// as the "external reference" when computing a query's super-k-mers
// (spec.md §4.5 step 2, DESIGN NOTES), so that the chosen minimizer in the
// query agrees with the order used at build time.
type Occurrence struct {
	rank map[uint64]int
}

// NewOccurrence builds the first-occurrence rank map in one left-to-right
// pass over kmers, assigning each newly-seen k-mer integer encoding the next
// unused rank.
func NewOccurrence(kmers []kmer.Kmer) *Occurrence {
	rank := make(map[uint64]int, len(kmers))
	next := 0
	for _, km := range kmers {
		key := km.ToInteger()
		if _, ok := rank[key]; !ok {
			rank[key] = next
			next++
		}
	}
	return &Occurrence{rank: rank}
}

// unseenRank is assigned to a Data k-mer that never occurred in the
// build-time reference — this can only happen for a query k-mer absent from
// S. The spec does not define a rank for such k-mers; we rank them below
// Sentinel but above every known k-mer, a safe choice since a query
// containing a never-seen k-mer as its chosen minimizer cannot exactly match
// any reference suffix, so its ultimate binary-search interval being
// slightly mispositioned can only produce extra verification scans, never a
// missed match (soundness and completeness are restored by the §4.5 step 7
// verification scan).
const unseenRank = math.MaxInt64 - 1

// Less implements Order.
func (o *Occurrence) Less(a, b kmer.Kmer) bool {
	switch {
	case a.Sentinel && b.Sentinel:
		return false
	case a.Sentinel:
		return false
	case b.Sentinel:
		return true
	default:
		return o.rankOf(a) < o.rankOf(b)
	}
}

// Rank exposes a Data k-mer's occurrence rank as a uint64 key, used by the
// PLR learned index as the integer encoding of a k-mer under this order.
func (o *Occurrence) Rank(km kmer.Kmer) uint64 {
	return uint64(o.rankOf(km))
}

func (o *Occurrence) rankOf(km kmer.Kmer) int {
	if r, ok := o.rank[km.ToInteger()]; ok {
		return r
	}
	return unseenRank
}

// IntegerKey returns the integer key Order uses to rank a Data k-mer: the
// k-mer's own packed integer under Lexicographic, or its occurrence rank
// under Occurrence. Used by the PLR learned index (§4.6.3), which needs a
// single uint64 x-coordinate per order.
func IntegerKey(order Order, km kmer.Kmer) uint64 {
	if occ, ok := order.(*Occurrence); ok {
		return occ.Rank(km)
	}
	return km.ToInteger()
}
