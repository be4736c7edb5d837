package csv

import (
	"errors"
	"fmt"
	"io"

	"github.com/shapestone/shape-csv-ingest/internal/tokenizer"
)

// Cell is one field of a row.
type Cell struct {
	ColumnIndex int    `json:"columnIndex"`
	Value       string `json:"value"`
}

// Row is one row of the source. Index counts rows from 0.
type Row struct {
	Index int    `json:"rowIndex"`
	Cells []Cell `json:"cells"`
}

// Values returns the cell values in column order.
func (r Row) Values() []string {
	values := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		values[i] = c.Value
	}
	return values
}

func newRow(index int, fields []string) Row {
	cells := make([]Cell, len(fields))
	for i, f := range fields {
		cells[i] = Cell{ColumnIndex: i, Value: f}
	}
	return Row{Index: index, Cells: cells}
}

// RowReader produces the rows of a Worksheet one at a time, reading the
// source in chunks as needed. It rewinds the source on the first call to Scan.
//
// Example usage:
//
//	r := ws.NewRowReader()
//	defer r.Close()
//	for r.Scan() {
//	    row := r.Row()
//	    fmt.Println(row.Index, row.Values())
//	}
//	if err := r.Err(); err != nil {
//	    // handle error
//	}
//
// Abandoning a RowReader before the end leaves the source position
// undefined. A new pass needs a new RowReader.
type RowReader struct {
	src     io.ReadSeeker
	tok     *tokenizer.Tokenizer
	buf     []byte
	skip    int
	pending [][]string
	row     Row
	next    int
	started bool
	done    bool
	err     error
}

// NewRowReader returns a RowReader starting a fresh pass over the source.
func (w *Worksheet) NewRowReader() *RowReader {
	return &RowReader{
		src:  w.src,
		tok:  tokenizer.New(w.sniff.Separator, w.sniff.Encoding),
		buf:  getChunk(w.opts.ChunkSize),
		skip: w.sniff.BOMLength,
	}
}

// Scan advances to the next row. It returns false at the end of the source,
// after an error, or after Close. Err reports the error, if any.
func (r *RowReader) Scan() bool {
	for len(r.pending) == 0 {
		if r.done || r.err != nil || r.buf == nil {
			r.Close()
			return false
		}
		r.fill()
	}

	fields := r.pending[0]
	r.pending[0] = nil
	r.pending = r.pending[1:]
	r.row = newRow(r.next, fields)
	r.next++
	return true
}

// Row returns the row produced by the last successful Scan.
func (r *RowReader) Row() Row {
	return r.row
}

// Err returns the first read or decode error. A decode error is a
// *DecodeError.
func (r *RowReader) Err() error {
	return r.err
}

// Close releases the read buffer. Scan returns false afterwards.
// It does not close the source.
func (r *RowReader) Close() {
	if r.buf == nil {
		return
	}
	putChunk(r.buf)
	r.buf = nil
	r.pending = nil
}

// fill reads one chunk and queues the rows it completes. At the end of the
// source it also queues the flushed row.
func (r *RowReader) fill() {
	if !r.started {
		r.started = true
		if _, err := r.src.Seek(0, io.SeekStart); err != nil {
			r.err = fmt.Errorf("rewind: %w", err)
			return
		}
	}

	n, rerr := r.src.Read(r.buf)
	if n > 0 {
		// A BOM longer than the first read spills into the next ones.
		skip := min(r.skip, n)
		r.skip -= skip
		rows, err := r.tok.ParseChunk(r.buf[:n], skip, n-skip)
		if err != nil {
			r.err = err
			return
		}
		r.pending = rows
	}

	switch {
	case errors.Is(rerr, io.EOF):
		rows, err := r.tok.Flush()
		if err != nil {
			r.err = err
			return
		}
		r.pending = append(r.pending, rows...)
		r.done = true
	case rerr != nil:
		r.err = fmt.Errorf("read: %w", rerr)
	}
}
