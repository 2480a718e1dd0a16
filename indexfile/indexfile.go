// Package indexfile persists a suffixarray.Array to, and loads it back
// from, a compact binary framing: a magic/version header, a seahash
// checksum of the payload, the alphabet, k/w/order, a compression flag, the
// original bytes (optionally snappy-compressed), the super-k-mer sequence,
// the suffix-array permutation, and a query-mode specific auxiliary block.
// The k-mer vector itself is not stored: Load rebuilds it from the original
// bytes, the alphabet and k. Grounded on the teacher's checksum convention
// (cmd/bio-pamtool/checksum.go's seahash.New() usage) and its file-format
// bookkeeping style (encoding/fasta's index.go).
package indexfile

import (
	"bytes"
	"encoding/binary"
	"io"
	"io/ioutil"
	"os"

	"blainsmith.com/go/seahash"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/mssa-go/mssa/alphabet"
	"github.com/mssa-go/mssa/bitvec"
	"github.com/mssa-go/mssa/kmer"
	"github.com/mssa-go/mssa/minimizer"
	"github.com/mssa-go/mssa/plr"
	"github.com/mssa-go/mssa/suffixarray"
)

var fileMagic = [8]byte{'M', 'S', 'S', 'A', 'I', 'D', 'X', '1'}

const formatVersion uint32 = 1

// orderTag/modeTag identify, in the serialized file, which concrete Order
// and Mode implementation built the index, so Load can reconstruct the
// matching Go value and report which mode failed to parse.
type orderTag byte

const (
	orderLexicographic orderTag = 0
	orderOccurrence    orderTag = 1
)

type modeTag byte

const (
	modeGroundTruth modeTag = 0
	modeStandard    modeTag = 1
	modePWLLearned  modeTag = 2
	modeBloomFilter modeTag = 3
)

// Options controls how Save frames the payload.
type Options struct {
	// Compress snappy-compresses the original sequence bytes, which are a
	// long run over a small alphabet and typically compress well.
	Compress bool
}

// Save writes arr to w per the framing described in the package doc.
func Save(w io.Writer, arr *suffixarray.Array, opts Options) error {
	var payload bytes.Buffer
	if err := writePayload(&payload, arr, opts); err != nil {
		return errors.Wrap(err, "indexfile: encoding payload")
	}

	h := seahash.New()
	if _, err := h.Write(payload.Bytes()); err != nil {
		return errors.Wrap(err, "indexfile: checksumming payload")
	}

	if _, err := w.Write(fileMagic[:]); err != nil {
		return errors.Wrap(err, "indexfile: writing magic")
	}
	if err := binary.Write(w, binary.LittleEndian, formatVersion); err != nil {
		return errors.Wrap(err, "indexfile: writing format version")
	}
	if err := binary.Write(w, binary.LittleEndian, h.Sum64()); err != nil {
		return errors.Wrap(err, "indexfile: writing checksum")
	}
	if _, err := w.Write(payload.Bytes()); err != nil {
		return errors.Wrap(err, "indexfile: writing payload")
	}
	return nil
}

func writePayload(w *bytes.Buffer, arr *suffixarray.Array, opts Options) error {
	seq := arr.KmerSequence()
	a := seq.Alphabet()

	pairs := a.Pairs()
	if err := binary.Write(w, binary.LittleEndian, uint16(len(pairs))); err != nil {
		return err
	}
	for _, p := range pairs {
		if _, err := w.Write(p[:]); err != nil {
			return err
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(seq.K())); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(arr.W())); err != nil {
		return err
	}

	tag, err := encodeOrderTag(arr.Order())
	if err != nil {
		return err
	}
	if err := w.WriteByte(byte(tag)); err != nil {
		return err
	}

	compressByte := byte(0)
	if opts.Compress {
		compressByte = 1
	}
	if err := w.WriteByte(compressByte); err != nil {
		return err
	}

	if err := writeBlock(w, seq.Original(), opts.Compress); err != nil {
		return err
	}

	superKmers := arr.SuperKmers()
	if err := binary.Write(w, binary.LittleEndian, uint64(len(superKmers))); err != nil {
		return err
	}
	for _, sk := range superKmers {
		if err := binary.Write(w, binary.LittleEndian, sk.StartPos); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, sk.Length); err != nil {
			return err
		}
		if sk.Minimizer.Sentinel {
			if err := w.WriteByte(1); err != nil {
				return err
			}
			continue
		}
		if err := w.WriteByte(0); err != nil {
			return err
		}
		if err := writeMinimizer(w, sk.Minimizer); err != nil {
			return err
		}
	}

	sa := arr.SA()
	if err := binary.Write(w, binary.LittleEndian, uint64(len(sa))); err != nil {
		return err
	}
	for _, idx := range sa {
		if err := binary.Write(w, binary.LittleEndian, uint64(idx)); err != nil {
			return err
		}
	}

	return writeModeAux(w, arr.Mode())
}

func encodeOrderTag(order minimizer.Order) (orderTag, error) {
	switch order.(type) {
	case minimizer.Lexicographic:
		return orderLexicographic, nil
	case *minimizer.Occurrence:
		return orderOccurrence, nil
	default:
		return 0, errors.Errorf("indexfile: unknown minimizer order %T", order)
	}
}

func writeBlock(w *bytes.Buffer, data []byte, compress bool) error {
	encoded := data
	if compress {
		encoded = snappy.Encode(nil, data)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(data))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(encoded))); err != nil {
		return err
	}
	_, err := w.Write(encoded)
	return err
}

func readBlock(r *bytes.Reader, compress bool) ([]byte, error) {
	var rawLen, encLen uint64
	if err := binary.Read(r, binary.LittleEndian, &rawLen); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &encLen); err != nil {
		return nil, err
	}
	buf := make([]byte, encLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	if !compress {
		return buf, nil
	}
	out, err := snappy.Decode(nil, buf)
	if err != nil {
		return nil, errors.Wrap(err, "indexfile: snappy decode")
	}
	return out, nil
}

// writeMinimizer serializes a Data Kmer's packed bitvec buffer verbatim; its
// bit width and element count (the global alphabet bit width and k) are
// already known from the rest of the file, so only the raw bytes are
// stored, preceded by their uint32 byte length.
func writeMinimizer(w *bytes.Buffer, km kmer.Kmer) error {
	buf := km.Data.Bytes()
	if err := binary.Write(w, binary.LittleEndian, uint32(len(buf))); err != nil {
		return err
	}
	_, err := w.Write(buf)
	return err
}

func readMinimizer(r *bytes.Reader, bits, k int) (kmer.Kmer, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return kmer.Kmer{}, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return kmer.Kmer{}, err
	}
	v := bitvec.FromBytes(bits, k, buf)
	return kmer.Kmer{Data: v}, nil
}

func writeModeAux(w *bytes.Buffer, mode suffixarray.Mode) error {
	switch m := mode.(type) {
	case *suffixarray.GroundTruth:
		return w.WriteByte(byte(modeGroundTruth))
	case *suffixarray.Standard:
		return w.WriteByte(byte(modeStandard))
	case *suffixarray.PWLLearned:
		if err := w.WriteByte(byte(modePWLLearned)); err != nil {
			return err
		}
		return writePWLAux(w, m)
	case *suffixarray.BloomFilterPlaceholder:
		return w.WriteByte(byte(modeBloomFilter))
	default:
		return errors.Errorf("indexfile: unknown query mode %T", mode)
	}
}

func writePWLAux(w *bytes.Buffer, m *suffixarray.PWLLearned) error {
	if err := binary.Write(w, binary.LittleEndian, m.Gamma()); err != nil {
		return err
	}
	if err := writeSegments(w, m.BeginModel().Segments()); err != nil {
		return err
	}
	return writeSegments(w, m.EndModel().Segments())
}

func writeSegments(w *bytes.Buffer, segments []plr.Segment) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(segments))); err != nil {
		return err
	}
	for _, s := range segments {
		if err := binary.Write(w, binary.LittleEndian, s.StartX); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, s.Slope); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, s.Intercept); err != nil {
			return err
		}
	}
	return nil
}

func readSegments(r *bytes.Reader) ([]plr.Segment, error) {
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	segments := make([]plr.Segment, count)
	for i := range segments {
		if err := binary.Read(r, binary.LittleEndian, &segments[i].StartX); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &segments[i].Slope); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &segments[i].Intercept); err != nil {
			return nil, err
		}
	}
	return segments, nil
}

// Load decodes an Array previously written by Save, validating the magic,
// version, and checksum before trusting any of the payload.
func Load(r io.Reader) (*suffixarray.Array, error) {
	var gotMagic [8]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, errors.Wrap(err, "indexfile: reading magic")
	}
	if gotMagic != fileMagic {
		return nil, errors.Errorf("indexfile: bad magic %q", gotMagic)
	}
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, errors.Wrap(err, "indexfile: reading format version")
	}
	if version != formatVersion {
		return nil, errors.Errorf("indexfile: unsupported format version %d", version)
	}
	var checksum uint64
	if err := binary.Read(r, binary.LittleEndian, &checksum); err != nil {
		return nil, errors.Wrap(err, "indexfile: reading checksum")
	}

	payload, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "indexfile: reading payload")
	}

	h := seahash.New()
	if _, err := h.Write(payload); err != nil {
		return nil, errors.Wrap(err, "indexfile: checksumming payload")
	}
	if h.Sum64() != checksum {
		return nil, errors.Errorf("indexfile: checksum mismatch, file is corrupt")
	}

	return decodePayload(bytes.NewReader(payload))
}

func decodePayload(r *bytes.Reader) (*suffixarray.Array, error) {
	var sigma uint16
	if err := binary.Read(r, binary.LittleEndian, &sigma); err != nil {
		return nil, errors.Wrap(err, "indexfile: reading alphabet size")
	}
	pairs := make([][2]byte, sigma)
	for i := range pairs {
		if _, err := io.ReadFull(r, pairs[i][:]); err != nil {
			return nil, errors.Wrap(err, "indexfile: reading alphabet pairs")
		}
	}
	a := alphabet.FromPairs(pairs)

	var k32, w32 uint32
	if err := binary.Read(r, binary.LittleEndian, &k32); err != nil {
		return nil, errors.Wrap(err, "indexfile: reading k")
	}
	if err := binary.Read(r, binary.LittleEndian, &w32); err != nil {
		return nil, errors.Wrap(err, "indexfile: reading w")
	}
	k, w := int(k32), int(w32)

	orderByte, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "indexfile: reading order tag")
	}

	compressByte, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "indexfile: reading compression flag")
	}
	compress := compressByte != 0

	original, err := readBlock(r, compress)
	if err != nil {
		return nil, errors.Wrap(err, "indexfile: reading original sequence")
	}

	seq, err := kmer.NewWithAlphabet(original, k, a)
	if err != nil {
		return nil, errors.Wrap(err, "indexfile: reconstructing k-mer sequence")
	}

	order, err := decodeOrder(orderTag(orderByte), seq)
	if err != nil {
		return nil, err
	}

	var superCount uint64
	if err := binary.Read(r, binary.LittleEndian, &superCount); err != nil {
		return nil, errors.Wrap(err, "indexfile: reading super-k-mer count")
	}
	bits := a.BitWidth()
	superKmers := make([]minimizer.SuperKmer, superCount)
	for i := range superKmers {
		var startPos, length uint64
		if err := binary.Read(r, binary.LittleEndian, &startPos); err != nil {
			return nil, errors.Wrap(err, "indexfile: reading super-k-mer start_pos")
		}
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return nil, errors.Wrap(err, "indexfile: reading super-k-mer length")
		}
		tagByte, err := r.ReadByte()
		if err != nil {
			return nil, errors.Wrap(err, "indexfile: reading super-k-mer tag")
		}
		var km kmer.Kmer
		if tagByte == 1 {
			km = kmer.MakeSentinel()
		} else {
			km, err = readMinimizer(r, bits, k)
			if err != nil {
				return nil, errors.Wrap(err, "indexfile: reading super-k-mer minimizer")
			}
		}
		superKmers[i] = minimizer.SuperKmer{StartPos: startPos, Length: length, Minimizer: km}
	}

	var saCount uint64
	if err := binary.Read(r, binary.LittleEndian, &saCount); err != nil {
		return nil, errors.Wrap(err, "indexfile: reading suffix array count")
	}
	sa := make([]int, saCount)
	for i := range sa {
		var v uint64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, errors.Wrap(err, "indexfile: reading suffix array entry")
		}
		sa[i] = int(v)
	}

	mode, err := readModeAux(r, order)
	if err != nil {
		return nil, err
	}

	return suffixarray.FromParts(seq, w, order, superKmers, sa, mode), nil
}

func decodeOrder(tag orderTag, seq *kmer.Sequence) (minimizer.Order, error) {
	switch tag {
	case orderLexicographic:
		return minimizer.Lexicographic{}, nil
	case orderOccurrence:
		return minimizer.NewOccurrence(seq.Kmers()), nil
	default:
		return nil, errors.Errorf("indexfile: unknown minimizer order tag %d", tag)
	}
}

func readModeAux(r *bytes.Reader, order minimizer.Order) (suffixarray.Mode, error) {
	tagByte, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "indexfile: reading query mode tag")
	}
	switch modeTag(tagByte) {
	case modeGroundTruth:
		return suffixarray.NewGroundTruth(), nil
	case modeStandard:
		return suffixarray.NewStandard(), nil
	case modePWLLearned:
		var gamma float64
		if err := binary.Read(r, binary.LittleEndian, &gamma); err != nil {
			return nil, errors.Wrap(err, "indexfile: reading pwl-learned gamma")
		}
		beginSegs, err := readSegments(r)
		if err != nil {
			return nil, errors.Wrap(err, "indexfile: reading pwl-learned begin model")
		}
		endSegs, err := readSegments(r)
		if err != nil {
			return nil, errors.Wrap(err, "indexfile: reading pwl-learned end model")
		}
		begin := plr.FromSegments(beginSegs)
		end := plr.FromSegments(endSegs)
		return suffixarray.NewPWLLearnedFromModels(gamma, order, begin, end), nil
	case modeBloomFilter:
		return nil, errors.Errorf("indexfile: bloom-filter query mode is a named placeholder and was never buildable")
	default:
		return nil, errors.Errorf("indexfile: unknown query mode tag %d", tagByte)
	}
}

// LoadMmap mmaps path read-only and decodes it through Load, which copies
// the payload into the Go heap before decoding, so the returned Array holds
// no reference to the mapping (it is unmapped on return). Grounded on the teacher's fusion/kmer_index.go use
// of unix.Mmap/unix.Madvise, adapted here from an anonymous scratch mapping
// to a read-only file mapping.
func LoadMmap(path string) (*suffixarray.Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "indexfile: opening index file")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "indexfile: stat index file")
	}
	size := int(info.Size())
	if size == 0 {
		return nil, errors.Errorf("indexfile: empty index file %s", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrap(err, "indexfile: mmap index file")
	}
	defer func() { _ = unix.Munmap(data) }()
	if err := unix.Madvise(data, unix.MADV_SEQUENTIAL); err != nil {
		return nil, errors.Wrap(err, "indexfile: madvise index file")
	}

	return Load(bytes.NewReader(data))
}
