package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/mssa-go/mssa/indexfile"
	"github.com/mssa-go/mssa/seqio"
)

func runBenchmark(args []string) error {
	fs := flag.NewFlagSet("benchmark", flag.ExitOnError)
	var (
		n           = fs.Int("n", 1000, "number of synthetic queries to generate")
		matchRate   = fs.Float64("match-rate", 0.5, "fraction of queries that are true substrings of the reference")
		maxLen      = fs.Int("max-len", 200, "maximum synthetic query length")
		parallelism = fs.Int("parallelism", 1, "number of queries to run concurrently (CLI-layer only, never inside the core)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.Errorf("usage: mssa benchmark [flags] <index>")
	}
	indexPath := fs.Arg(0)

	indexFile, err := os.Open(indexPath)
	if err != nil {
		return errors.Wrapf(err, "benchmark: opening %s", indexPath)
	}
	defer indexFile.Close()

	arr, err := indexfile.Load(indexFile)
	if err != nil {
		return errors.Wrapf(err, "benchmark: loading %s", indexPath)
	}

	minLen := arr.W() + arr.K() - 1
	if *maxLen < minLen {
		return errors.Errorf("benchmark: -max-len=%d is shorter than w+k-1=%d", *maxLen, minLen)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	reference := arr.KmerSequence().Original()
	queries, err := seqio.GenerateQueries(reference, *n, *matchRate, minLen, *maxLen, rng)
	if err != nil {
		return errors.Wrap(err, "benchmark: generating synthetic queries")
	}

	var totalPositions, totalFalsePositives int64
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, *parallelism)

	start := time.Now()
	for _, q := range queries {
		wg.Add(1)
		sem <- struct{}{}
		go func(data []byte) {
			defer wg.Done()
			defer func() { <-sem }()
			positions, falsePositives, err := arr.Query(data)
			if err != nil {
				log.Printf("benchmark: query error: %v", err)
				return
			}
			mu.Lock()
			totalPositions += int64(len(positions))
			totalFalsePositives += int64(falsePositives)
			mu.Unlock()
		}(q.Data)
	}
	wg.Wait()
	elapsed := time.Since(start)

	fmt.Printf("queries=%d elapsed=%s qps=%.1f positions=%d false_positives=%d\n",
		len(queries), elapsed, float64(len(queries))/elapsed.Seconds(), totalPositions, totalFalsePositives)
	return nil
}
