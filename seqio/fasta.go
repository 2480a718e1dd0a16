// Package seqio reads FASTA-formatted sequence collections and generates
// synthetic query sequences against a reference, for use by cmd/mssa's
// build, query, and benchmark subcommands.
package seqio

import (
	"bufio"
	"strings"

	"io"

	"github.com/pkg/errors"
)

const bufferInitSize = 64 * 1024 * 1024

// Record is one named sequence from a FASTA file: the text immediately
// after '>' up to the first space is the Name, and Data is the
// concatenation of every non-header line that follows, with newlines
// removed (spec.md treats S, and each query, as a flat byte sequence; a
// FASTA file is just a convenient way to supply many of them at once).
type Record struct {
	Name string
	Data []byte
}

// ReadAll parses every record out of r. A record without a name (an empty
// line immediately after '>') is a malformed-file error; a FASTA file with
// no records at all yields an empty, non-error result.
func ReadAll(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, bufferInitSize)

	var records []Record
	var name string
	var data strings.Builder
	has := false

	flush := func() error {
		if !has {
			return nil
		}
		if name == "" {
			return errors.Errorf("seqio: malformed FASTA file: sequence with no name")
		}
		records = append(records, Record{Name: name, Data: []byte(data.String())})
		data.Reset()
		return nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return nil, err
			}
			name = strings.Split(line[1:], " ")[0]
			has = true
		} else {
			data.WriteString(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "seqio: reading FASTA data")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return records, nil
}
