// Package csv reads delimited text of unknown encoding and unknown separator.
//
// Opening a source runs a one-pass sniffer that measures the byte-order mark,
// settles the character encoding, picks the separator from a candidate list
// and counts rows and the fields of the first row. Rows are then produced
// lazily by an incremental tokenizer that reads the source in fixed-size
// chunks. The chunk size only affects performance: the rows are identical for
// any chunk size.
//
// # Encodings
//
// A byte-order mark decides the encoding. Without one the source is decoded
// as strict UTF-8; if that fails, Open retries once with
// Options.FallbackEncoding. The same protocol is available step by step
// through Analyze:
//
//	res, err := csv.Analyze(src, seps, csv.UTF8)
//	var encErr *csv.EncodingError
//	if errors.As(err, &encErr) {
//	    res, err = csv.Analyze(src, seps, csv.Windows1252)
//	}
//
// Invalid bytes are never replaced. A failure while sniffing is an
// *EncodingError; a failure while reading rows is a *DecodeError and ends that
// pass over the source.
//
// # Dialect
//
// Fields are split on the separator outside double quotes. A field that
// starts with a quote may contain the separator, CR and LF; "" inside it is a
// literal quote. LF, CRLF and a bare CR end a row. Nothing is trimmed and no
// value is interpreted.
//
// # Example usage
//
//	f, err := os.Open("data.csv")
//	if err != nil {
//	    // handle error
//	}
//	defer f.Close()
//
//	ws, err := csv.Open(f, csv.DefaultOptions())
//	if err != nil {
//	    // handle error
//	}
//	for row, err := range ws.Rows() {
//	    if err != nil {
//	        // handle error
//	    }
//	    fmt.Println(row.Index, row.Values())
//	}
//
// # Thread Safety
//
// A Worksheet, a RowReader and the source behind them must be used from one
// goroutine at a time. Analyze and Open keep no shared state and may run
// concurrently on different sources.
package csv

import (
	"errors"
	"io"
	"iter"
)

// Worksheet is a sniffed source ready to be read row by row.
type Worksheet struct {
	src   io.ReadSeeker
	opts  Options
	sniff SniffResult
}

// Open sniffs src and returns a Worksheet for it.
//
// The source is first analysed as UTF-8. If that fails with an
// *EncodingError and opts.FallbackEncoding is set, it is analysed again with
// the fallback; a second failure is returned as is. The source position is
// left where it was.
func Open(src io.ReadSeeker, opts Options) (*Worksheet, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	logger := opts.logger()

	res, err := Analyze(src, opts.Separators, UTF8)
	var encErr *EncodingError
	if errors.As(err, &encErr) && !opts.FallbackEncoding.IsZero() {
		logger.Warn("strict decode failed, retrying with fallback encoding",
			"encoding", encErr.Encoding,
			"offset", encErr.Offset,
			"fallback", opts.FallbackEncoding.Name())
		res, err = Analyze(src, opts.Separators, opts.FallbackEncoding)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("sniffed source",
		"encoding", res.Encoding.Name(),
		"bom_length", res.BOMLength,
		"separator", string(res.Separator),
		"field_count", res.FieldCount,
		"row_count", res.RowCount)

	return &Worksheet{src: src, opts: opts, sniff: res}, nil
}

// Sniff returns the result computed by Open.
func (w *Worksheet) Sniff() SniffResult {
	return w.sniff
}

// FieldCount returns the number of fields in the first row.
func (w *Worksheet) FieldCount() int {
	return w.sniff.FieldCount
}

// RowCount returns the number of rows in the source.
func (w *Worksheet) RowCount() int {
	return w.sniff.RowCount
}

// Encoding returns the encoding the source is decoded with.
func (w *Worksheet) Encoding() Encoding {
	return w.sniff.Encoding
}

// Separator returns the detected field separator.
func (w *Worksheet) Separator() rune {
	return w.sniff.Separator
}

// BOMLength returns the length in bytes of the byte-order mark, 0 if none.
func (w *Worksheet) BOMLength() int {
	return w.sniff.BOMLength
}

// Rows returns the rows of the source as a sequence. Each iteration rewinds
// the source and starts a fresh pass. A read or decode error is yielded once
// with a zero Row and ends the sequence.
func (w *Worksheet) Rows() iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		r := w.NewRowReader()
		defer r.Close()
		for r.Scan() {
			if !yield(r.Row(), nil) {
				return
			}
		}
		if err := r.Err(); err != nil {
			yield(Row{}, err)
		}
	}
}
