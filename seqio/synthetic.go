package seqio

import (
	"math/rand"
	"strconv"

	"github.com/pkg/errors"
)

// GenerateQueries synthesizes num query Records against reference, for
// benchmarking and fuzz-style testing without a hand-curated query FASTA.
// Each generated query has a length drawn uniformly from [minLen, maxLen];
// with probability matchRate it is a genuine substring of reference (a true
// positive by construction), and otherwise it is built by sampling
// reference's own bytes independently and uniformly with replacement (a
// sequence over the right alphabet that is not, in general, a substring of
// reference — spec.md's "query not present in S" case). Grounded on
// original_source's generate_sequences (src/fasta.rs).
func GenerateQueries(reference []byte, num int, matchRate float64, minLen, maxLen int, rng *rand.Rand) ([]Record, error) {
	if minLen < 1 || maxLen < minLen {
		return nil, errors.Errorf("seqio: invalid length range [%d, %d]", minLen, maxLen)
	}
	if maxLen > len(reference) {
		return nil, errors.Errorf("seqio: max query length %d exceeds reference length %d", maxLen, len(reference))
	}
	if matchRate < 0 || matchRate > 1 {
		return nil, errors.Errorf("seqio: match rate must be in [0,1], got %f", matchRate)
	}

	records := make([]Record, num)
	for i := 0; i < num; i++ {
		length := minLen
		if maxLen > minLen {
			length = minLen + rng.Intn(maxLen-minLen+1)
		}

		var data []byte
		if rng.Float64() < matchRate {
			startPos := rng.Intn(len(reference) - length + 1)
			data = append([]byte(nil), reference[startPos:startPos+length]...)
		} else {
			data = make([]byte, length)
			for j := range data {
				data[j] = reference[rng.Intn(len(reference))]
			}
		}

		records[i] = Record{Name: strconv.Itoa(i), Data: data}
	}
	return records, nil
}
