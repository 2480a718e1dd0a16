package minimizer

import (
	"github.com/mssa-go/mssa/kmer"
)

// SuperKmer is a maximal run of consecutive length-w windows sharing the
// same minimizer: (start_pos, length, minimizer), per spec.md §3/§4.3.
type SuperKmer struct {
	StartPos  uint64
	Length    uint64
	Minimizer kmer.Kmer
}

// monotoneDeque is a classic sliding-window-minimum deque over chain
// indices: front-to-back, the corresponding order-values are
// non-decreasing, so the front always holds the leftmost minimal index
// currently in the window. This is the same structural idea the teacher
// reaches for with its circular ring buffers, specialized here to a simple
// growable slice since it never needs to wrap.
type monotoneDeque struct {
	items []int
	head  int
}

func (d *monotoneDeque) pushBack(i int)  { d.items = append(d.items, i) }
func (d *monotoneDeque) popBack()        { d.items = d.items[:len(d.items)-1] }
func (d *monotoneDeque) back() int       { return d.items[len(d.items)-1] }
func (d *monotoneDeque) empty() bool     { return d.head >= len(d.items) }
func (d *monotoneDeque) front() int      { return d.items[d.head] }
func (d *monotoneDeque) popFront()       { d.head++ }

// ComputeSuperKmers computes the super-k-mer sequence of seq under window
// size w and order, including the trailing Sentinel super-k-mer (spec.md
// §4.3, §4.4 step 2, and the "always append exactly one Sentinel" authority
// note in §9). When order is an *Occurrence built from a different k-mer
// sequence than seq (the usual case at query time: the *Occurrence is built
// once from the reference K and reused for the query's K_q), minimizer
// selection for seq is still governed by that shared rank map, satisfying
// the "external reference" requirement.
func ComputeSuperKmers(seq *kmer.Sequence, w int, order Order) []SuperKmer {
	k := seq.K()
	kmers := seq.Kmers()
	m := len(kmers)

	var chain []kmer.Kmer // chain[i] = chosen minimizer k-mer for window starting at i
	if m >= w {
		chain = slidingWindowMinimizers(kmers, w, order)
	}

	var runs []SuperKmer
	if len(chain) > 0 {
		runStart := 0
		runVal := chain[0]
		for i := 1; i < len(chain); i++ {
			if !kmer.Equal(chain[i], runVal) {
				runs = append(runs, buildSuperKmer(runStart, i-runStart, k, w, runVal))
				runStart = i
				runVal = chain[i]
			}
		}
		runs = append(runs, buildSuperKmer(runStart, len(chain)-runStart, k, w, runVal))
	}

	runs = append(runs, SuperKmer{
		StartPos:  uint64(len(seq.Original())),
		Length:    0,
		Minimizer: kmer.MakeSentinel(),
	})
	return runs
}

func buildSuperKmer(start, count, k, w int, minimizer kmer.Kmer) SuperKmer {
	return SuperKmer{
		StartPos:  uint64(start),
		Length:    uint64(count + w + k - 2),
		Minimizer: minimizer,
	}
}

// slidingWindowMinimizers computes, for each i in [0, m-w], the minimizer
// k-mer of kmers[i:i+w], breaking ties by smallest index (leftmost wins),
// in O(m) using a monotonic deque.
func slidingWindowMinimizers(kmers []kmer.Kmer, w int, order Order) []kmer.Kmer {
	m := len(kmers)
	n := m - w + 1
	result := make([]kmer.Kmer, n)

	var dq monotoneDeque
	for i := 0; i < m; i++ {
		for !dq.empty() && order.Less(kmers[i], kmers[dq.back()]) {
			dq.popBack()
		}
		dq.pushBack(i)

		windowStart := i - w + 1
		if windowStart >= 0 {
			for dq.front() < windowStart {
				dq.popFront()
			}
			result[windowStart] = kmers[dq.front()]
		}
	}
	return result
}
