package main

import (
	"flag"
	"os"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/mssa-go/mssa/indexfile"
	"github.com/mssa-go/mssa/kmer"
	"github.com/mssa-go/mssa/minimizer"
	"github.com/mssa-go/mssa/seqio"
	"github.com/mssa-go/mssa/suffixarray"
)

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	var (
		k         = fs.Int("k", 21, "k-mer width")
		w         = fs.Int("w", 11, "minimizer window width")
		orderName = fs.String("order", "lexicographic", "minimizer order: lexicographic|occurrence")
		modeName  = fs.String("mode", "standard", "query mode: ground|standard|pwl|bloom")
		bloomFPR  = fs.Float64("bloom-fpr", 0.01, "false positive rate for the bloom query mode")
		plrGamma  = fs.Float64("plr-gamma", 4.0, "error tolerance for the pwl query mode")
		compress  = fs.Bool("compress", false, "snappy-compress the original sequence in the output index")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.Errorf("usage: mssa build [flags] <fasta> <out-index>")
	}
	fastaPath, outPath := fs.Arg(0), fs.Arg(1)

	records, err := readFasta(fastaPath)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.Errorf("build: %s contains no sequences", fastaPath)
	}
	if len(records) > 1 {
		log.Printf("build: %s contains %d sequences, using only the first (%s)", fastaPath, len(records), records[0].Name)
	}

	seq, err := kmer.New(records[0].Data, *k)
	if err != nil {
		return errors.Wrap(err, "build: encoding reference sequence")
	}

	order, err := newOrder(*orderName, seq)
	if err != nil {
		return err
	}

	mode, err := newMode(*modeName, *bloomFPR, *plrGamma)
	if err != nil {
		return err
	}

	log.Printf("build: indexing %d bytes, k=%d w=%d order=%s mode=%s", len(records[0].Data), *k, *w, *orderName, *modeName)
	arr, err := suffixarray.Build(seq, *w, order, mode)
	if err != nil {
		return errors.Wrap(err, "build: constructing suffix array")
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "build: creating %s", outPath)
	}
	defer out.Close()

	if err := indexfile.Save(out, arr, indexfile.Options{Compress: *compress}); err != nil {
		return errors.Wrapf(err, "build: writing %s", outPath)
	}
	log.Printf("build: wrote index to %s (%d super-k-mers)", outPath, arr.Len())
	return nil
}

func readFasta(path string) ([]seqio.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	return seqio.ReadAll(f)
}

func newOrder(name string, seq *kmer.Sequence) (minimizer.Order, error) {
	switch name {
	case "lexicographic":
		return minimizer.Lexicographic{}, nil
	case "occurrence":
		return minimizer.NewOccurrence(seq.Kmers()), nil
	default:
		return nil, errors.Errorf("unknown minimizer order %q", name)
	}
}

func newMode(name string, bloomFPR, plrGamma float64) (suffixarray.Mode, error) {
	switch name {
	case "ground":
		return suffixarray.NewGroundTruth(), nil
	case "standard":
		return suffixarray.NewStandard(), nil
	case "pwl":
		return suffixarray.NewPWLLearned(plrGamma)
	case "bloom":
		return suffixarray.NewBloomFilterPlaceholder(bloomFPR)
	default:
		return nil, errors.Errorf("unknown query mode %q", name)
	}
}
