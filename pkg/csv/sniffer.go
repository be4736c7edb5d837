package csv

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shapestone/shape-csv-ingest/internal/textenc"
	"github.com/shapestone/shape-csv-ingest/internal/tokenizer"
)

const sniffChunkSize = 32 * 1024

// SniffResult describes the format of a source.
type SniffResult struct {
	// BOMLength is the length in bytes of the byte-order mark, 0 if none.
	BOMLength int
	// Encoding is the encoding implied by the BOM, else the one attempted.
	Encoding Encoding
	// Separator is the chosen field separator.
	Separator rune
	// FieldCount is the number of fields in the first row.
	FieldCount int
	// RowCount is the number of rows in the source.
	RowCount int
}

// Analyze determines the format of src in one pass.
//
// A byte-order mark at the start of the source overrides enc; a zero enc
// means UTF-8. The rest of the source is decoded strictly and a failure is
// returned as an *EncodingError, leaving any retry with another encoding to
// the caller. The separator is the first candidate occurring outside quotes
// in the first line, or separators[0] when none does. The rows are counted
// with the same rules the row reader uses.
//
// The read position of src is restored before Analyze returns.
//
// The first line is held in memory until its line break is read, so a
// source without line breaks is buffered whole. Rows are never held longer
// than that: memory use is bounded by the longest row.
func Analyze(src io.ReadSeeker, separators []rune, enc Encoding) (res SniffResult, err error) {
	if err := validateSeparators(separators); err != nil {
		return SniffResult{}, err
	}
	if enc.IsZero() {
		enc = UTF8
	}

	origin, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return SniffResult{}, fmt.Errorf("sniff: %w", err)
	}
	defer func() {
		if _, serr := src.Seek(origin, io.SeekStart); serr != nil && err == nil {
			res, err = SniffResult{}, fmt.Errorf("sniff: restore position: %w", serr)
		}
	}()
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return SniffResult{}, fmt.Errorf("sniff: %w", err)
	}

	var prefix [textenc.MaxBOMLength]byte
	n, err := io.ReadFull(src, prefix[:])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return SniffResult{}, fmt.Errorf("sniff: %w", err)
	}
	if bomEnc, bomLen, ok := textenc.DetectBOM(prefix[:n]); ok {
		enc = bomEnc
		res.BOMLength = bomLen
	}
	res.Encoding = enc

	s := newSniffer(separators, enc)
	s.dec.Skip(res.BOMLength)
	if err := s.write(prefix[res.BOMLength:n]); err != nil {
		return SniffResult{}, encodingError(enc, err)
	}

	buf := make([]byte, sniffChunkSize)
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if err := s.write(buf[:n]); err != nil {
				return SniffResult{}, encodingError(enc, err)
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return SniffResult{}, fmt.Errorf("sniff: %w", rerr)
		}
	}
	if err := s.finish(); err != nil {
		return SniffResult{}, encodingError(enc, err)
	}

	res.Separator = s.sep
	res.FieldCount = s.fields
	res.RowCount = s.rows
	return res, nil
}

// sniffer buffers decoded text until the first line is complete, picks the
// separator from it and then streams everything through a tokenizer.
type sniffer struct {
	candidates []rune
	enc        Encoding
	dec        *textenc.Decoder
	head       strings.Builder
	tok        *tokenizer.Tokenizer
	sep        rune
	rows       int
	fields     int
}

func newSniffer(candidates []rune, enc Encoding) *sniffer {
	return &sniffer{
		candidates: candidates,
		enc:        enc,
		dec:        enc.NewDecoder(),
	}
}

func (s *sniffer) write(p []byte) error {
	text, err := s.dec.Decode(p)
	if err != nil {
		return err
	}
	if s.tok != nil {
		s.tok.Feed(text, s.count)
		return nil
	}
	s.head.WriteString(text)
	if strings.ContainsAny(text, "\r\n") {
		s.start()
	}
	return nil
}

func (s *sniffer) start() {
	head := s.head.String()
	line := head
	if i := strings.IndexAny(head, "\r\n"); i >= 0 {
		line = head[:i]
	}
	s.sep = detectSeparator(line, s.candidates)
	s.tok = tokenizer.New(s.sep, s.enc)
	s.tok.Feed(head, s.count)
	s.head.Reset()
}

func (s *sniffer) finish() error {
	if err := s.dec.Close(); err != nil {
		return err
	}
	if s.tok == nil {
		s.start()
	}
	rows, err := s.tok.Flush()
	if err != nil {
		return err
	}
	for _, row := range rows {
		s.count(row)
	}
	return nil
}

func (s *sniffer) count(row []string) {
	if s.rows == 0 {
		s.fields = len(row)
	}
	s.rows++
}
