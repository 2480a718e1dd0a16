package main

import (
	"bytes"
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/mssa-go/mssa/indexfile"
	"github.com/mssa-go/mssa/seqio"
	"github.com/mssa-go/mssa/suffixarray"
)

func runQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	modeName := fs.String("mode", "", "override the persisted query mode: ground|standard|pwl|bloom (default: use the index's own mode)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.Errorf("usage: mssa query [flags] <fasta-or-raw-query-file> <index>")
	}
	queryPath, indexPath := fs.Arg(0), fs.Arg(1)

	indexFile, err := os.Open(indexPath)
	if err != nil {
		return errors.Wrapf(err, "query: opening %s", indexPath)
	}
	defer indexFile.Close()

	arr, err := indexfile.Load(indexFile)
	if err != nil {
		return errors.Wrapf(err, "query: loading %s", indexPath)
	}

	if *modeName != "" {
		mode, err := newMode(*modeName, 0.01, 4.0)
		if err != nil {
			return err
		}
		// Rebuild rather than FromParts, so the override mode's auxiliary
		// data (the PWL models) is fitted.
		arr, err = suffixarray.Build(arr.KmerSequence(), arr.W(), arr.Order(), mode)
		if err != nil {
			return errors.Wrapf(err, "query: applying -mode=%s", *modeName)
		}
	}

	records, err := readQueries(queryPath)
	if err != nil {
		return err
	}

	for _, rec := range records {
		positions, falsePositives, err := arr.Query(rec.Data)
		if err != nil {
			return errors.Wrapf(err, "query: querying %s", rec.Name)
		}
		fmt.Printf("%s\tpositions=%v\tfalse_positives=%d\n", rec.Name, positions, falsePositives)
	}
	log.Printf("query: ran %d queries against %s", len(records), indexPath)
	return nil
}

// readQueries reads either a FASTA file of named queries, or a single raw
// query file whose entire content (minus trailing newline) is the query.
func readQueries(path string) ([]seqio.Record, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(">")) {
		return seqio.ReadAll(bytes.NewReader(data))
	}
	return []seqio.Record{{Name: path, Data: bytes.TrimRight(data, "\r\n")}}, nil
}
