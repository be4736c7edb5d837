package textenc

import (
	"errors"
	"fmt"

	"golang.org/x/text/transform"
)

// ErrTruncated reports input that ended inside a multi-byte character.
var ErrTruncated = errors.New("input ends inside a multi-byte character")

const initialDstSize = 4096

// DecodeError is a decode failure at a byte offset of the stream.
type DecodeError struct {
	// Encoding is the name of the encoding being decoded.
	Encoding string
	// Offset is the byte offset of the first byte that could not be decoded.
	Offset int64
	// Err is the underlying decoder error.
	Err error
}

// Error returns the failure with its position.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s at byte %d: %v", e.Encoding, e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder decodes a byte stream delivered in arbitrary pieces. Bytes of a
// character split across two pieces are held back and prefixed to the next
// piece, so the decoded text does not depend on where the stream was cut.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	name    string
	t       transform.Transformer
	dst     []byte
	out     []byte
	pending []byte
	offset  int64
}

func newDecoder(name string, t transform.Transformer) *Decoder {
	t.Reset()
	return &Decoder{
		name: name,
		t:    t,
		dst:  make([]byte, initialDstSize),
	}
}

// Skip advances the stream offset by n bytes that are not decoded (a BOM).
func (d *Decoder) Skip(n int) {
	d.offset += int64(n)
}

// Offset returns the number of bytes skipped or fully decoded so far.
func (d *Decoder) Offset() int64 {
	return d.offset
}

// Pending returns the number of undecoded bytes carried to the next call.
func (d *Decoder) Pending() int {
	return len(d.pending)
}

// Decode decodes p, prefixed by any bytes held back from the previous call.
// A trailing incomplete character is held back instead of returned.
func (d *Decoder) Decode(p []byte) (string, error) {
	src := p
	if len(d.pending) > 0 {
		src = make([]byte, 0, len(d.pending)+len(p))
		src = append(append(src, d.pending...), p...)
		d.pending = nil
	}

	d.out = d.out[:0]
	for len(src) > 0 {
		nDst, nSrc, err := d.t.Transform(d.dst, src, false)
		d.out = append(d.out, d.dst[:nDst]...)
		src = src[nSrc:]
		d.offset += int64(nSrc)

		switch {
		case err == nil:
		case errors.Is(err, transform.ErrShortDst):
			if nDst == 0 && nSrc == 0 {
				d.dst = make([]byte, 2*len(d.dst))
			}
		case errors.Is(err, transform.ErrShortSrc):
			d.pending = append([]byte(nil), src...)
			return string(d.out), nil
		default:
			return "", &DecodeError{Encoding: d.name, Offset: d.offset, Err: err}
		}
	}
	return string(d.out), nil
}

// Close ends the stream. Held-back bytes at this point are a truncated
// character and are reported as a DecodeError wrapping ErrTruncated.
func (d *Decoder) Close() error {
	if len(d.pending) == 0 {
		return nil
	}
	err := &DecodeError{Encoding: d.name, Offset: d.offset, Err: ErrTruncated}
	d.pending = nil
	return err
}

// Reset discards held-back bytes and the offset.
func (d *Decoder) Reset() {
	d.t.Reset()
	d.pending = nil
	d.offset = 0
	d.out = d.out[:0]
}
