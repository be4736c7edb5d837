// Package tokenizer splits a byte stream delivered in chunks into rows of
// fields.
//
// The dialect:
//   - fields are split on the separator outside quotes
//   - a field starting with a double quote is quoted; inside it the separator,
//     CR and LF are literal and "" is a single quote; a lone quote closes it
//   - LF, CRLF and a bare CR outside quotes end the row
//   - a quote anywhere else is literal, as is text after a closing quote
//   - nothing is trimmed
//
// Chunk boundaries never change the output: a character split across chunks
// is held back by the decoder, and every other piece of unfinished state
// (current field, completed fields of the current row, open quote, a CR whose
// LF may follow) is kept in the Tokenizer between calls.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shapestone/shape-csv-ingest/internal/textenc"
)

var (
	// ErrClosed is returned by calls made after Flush.
	ErrClosed = errors.New("tokenizer: flushed")

	// ErrChunkBounds is returned when skip/n fall outside the chunk.
	ErrChunkBounds = errors.New("tokenizer: chunk bounds out of range")
)

// Tokenizer is the incremental row splitter. It is not safe for concurrent use.
type Tokenizer struct {
	sep rune
	dec *textenc.Decoder

	state     state
	fields    []string
	field     strings.Builder
	pendingCR bool
	dirty     bool

	err    error
	closed bool
}

// New returns a Tokenizer for the given separator and encoding.
func New(sep rune, enc textenc.Encoding) *Tokenizer {
	return &Tokenizer{
		sep: sep,
		dec: enc.NewDecoder(),
	}
}

// ParseChunk decodes buf[skip:skip+n] and returns the rows completed by it.
// skip is the number of leading bytes to ignore (the BOM on the first
// chunk); it is counted in error offsets.
//
// A decode failure is returned as a *textenc.DecodeError and is sticky:
// every later call returns the same error.
func (t *Tokenizer) ParseChunk(buf []byte, skip, n int) ([][]string, error) {
	if t.err != nil {
		return nil, t.err
	}
	if t.closed {
		return nil, ErrClosed
	}
	if skip < 0 || n < 0 || skip+n > len(buf) {
		return nil, fmt.Errorf("%w: skip=%d n=%d len=%d", ErrChunkBounds, skip, n, len(buf))
	}

	t.dec.Skip(skip)
	text, err := t.dec.Decode(buf[skip : skip+n])
	if err != nil {
		t.err = err
		return nil, err
	}

	var rows [][]string
	t.Feed(text, func(row []string) {
		rows = append(rows, row)
	})
	return rows, nil
}

// Feed tokenizes already decoded text, calling emit for every completed row.
// The emitted slice is owned by the caller.
func (t *Tokenizer) Feed(text string, emit func([]string)) {
	for _, r := range text {
		t.step(r, emit)
	}
}

func (t *Tokenizer) step(r rune, emit func([]string)) {
	if t.pendingCR {
		t.pendingCR = false
		if r == '\n' {
			return
		}
	}

	switch t.state {
	case stateQuoted:
		if r == '"' {
			t.state = stateAfterQuote
		} else {
			t.field.WriteRune(r)
		}
		return
	case stateAfterQuote:
		if r == '"' {
			t.field.WriteRune('"')
			t.state = stateQuoted
			return
		}
	case stateIdle:
		if r == '"' {
			t.state = stateQuoted
			t.dirty = true
			return
		}
	}

	switch r {
	case t.sep:
		t.fields = append(t.fields, t.field.String())
		t.field.Reset()
		t.state = stateIdle
		t.dirty = true
	case '\n':
		t.endRow(emit)
	case '\r':
		t.endRow(emit)
		t.pendingCR = true
	default:
		t.field.WriteRune(r)
		t.state = stateUnquoted
		t.dirty = true
	}
}

func (t *Tokenizer) endRow(emit func([]string)) {
	row := append(t.fields, t.field.String())
	t.fields = nil
	t.field.Reset()
	t.state = stateIdle
	t.dirty = false
	emit(row)
}

// Flush ends the stream. It returns the in-progress row, if any character was
// consumed into it, as a single row. An unterminated quoted field is returned
// as read so far. The Tokenizer is closed afterwards.
func (t *Tokenizer) Flush() ([][]string, error) {
	if t.err != nil {
		return nil, t.err
	}
	if t.closed {
		return nil, ErrClosed
	}
	t.closed = true

	if err := t.dec.Close(); err != nil {
		t.err = err
		return nil, err
	}
	if !t.dirty {
		return nil, nil
	}
	row := append(t.fields, t.field.String())
	t.fields = nil
	t.field.Reset()
	t.dirty = false
	return [][]string{row}, nil
}

// Reset returns the Tokenizer to its freshly constructed state.
func (t *Tokenizer) Reset() {
	t.dec.Reset()
	t.state = stateIdle
	t.fields = nil
	t.field.Reset()
	t.pendingCR = false
	t.dirty = false
	t.err = nil
	t.closed = false
}
