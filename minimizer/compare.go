package minimizer

// CompareSuffixes lexicographically compares two super-k-mer suffixes
// element-by-element, comparing only the Minimizer field of each element
// under order; the first non-equal element decides the result, and an
// exhausted-without-difference shorter sequence is Less. This is the
// suffix-array sort comparator (spec.md §4.4 step 4) and is the Go
// equivalent of the lockstep-iterator helper described in DESIGN NOTES
// ("ordering infrastructure") — directly grounded on
// original_source/src/iter_order_by.rs's MyIterOrderBy/iter_compare, walking
// two slices in lockstep instead of iterators with early-exit control flow.
//
// In this domain the "exhausted shorter" branch is in practice unreachable:
// the Sentinel super-k-mer occurs exactly once, as the globally last element
// of every suffix that reaches it, so two distinct suffixes always resolve
// by an explicit Sentinel-vs-Data difference before either one runs out.
// CompareSuffixes still implements the general rule for totality.
func CompareSuffixes(order Order, a, b []SuperKmer) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if order.Less(a[i].Minimizer, b[i].Minimizer) {
			return -1
		}
		if order.Less(b[i].Minimizer, a[i].Minimizer) {
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// CompareQueryPrefix implements spec.md §4.5 step 4's cmp_at(s): it compares
// only the first len(query) elements of suffix against query, in lockstep,
// by Minimizer under order. If suffix is shorter than query, the comparison
// is defined to resolve Greater — "running off the end ... compares as the
// greater side per the Sentinel rule" — rather than Less, the opposite of
// CompareSuffixes' generic exhaustion rule, because here the caller always
// wants exactly len(query) elements of context and a short suffix having
// fewer elements than asked for is, per the spec text, attributed to having
// already hit the (maximal) Sentinel.
func CompareQueryPrefix(order Order, suffix, query []SuperKmer) int {
	for i, q := range query {
		if i >= len(suffix) {
			return 1
		}
		s := suffix[i]
		if order.Less(s.Minimizer, q.Minimizer) {
			return -1
		}
		if order.Less(q.Minimizer, s.Minimizer) {
			return 1
		}
	}
	return 0
}
