// Command mssa builds, queries, and benchmarks minimizer-sparsified suffix
// array indices over FASTA sequences.
package main

import (
	"fmt"
	"os"

	"github.com/grailbio/base/log"
)

func usage() {
	fmt.Fprintf(os.Stderr, `mssa is a minimizer-sparsified suffix array index builder and query tool.

Usage:

	mssa build   -k=K -w=W [-order=lexicographic|occurrence] [-mode=ground|standard|pwl|bloom]
	             [-bloom-fpr=F] [-plr-gamma=G] [-compress] <fasta> <out-index>
	mssa query   [-mode=ground|standard|pwl|bloom] <fasta-or-raw-query-file> <index>
	mssa benchmark -n=N -match-rate=R -max-len=L [-parallelism=P] <index>

`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(os.Args[2:])
	case "query":
		err = runQuery(os.Args[2:])
	case "benchmark":
		err = runBenchmark(os.Args[2:])
	case "-h", "-help", "--help":
		usage()
		return
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("mssa %s: %v", os.Args[1], err)
	}
}
