package csv

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-csv-ingest/internal/textenc"
)

// EncodingError reports that the source could not be decoded while sniffing.
// The caller may rewind and sniff again with another encoding.
type EncodingError struct {
	// Encoding is the name of the encoding that was attempted.
	Encoding string
	// Offset is the byte offset in the source of the first undecodable byte.
	Offset int64
	// Err is the underlying decoder error.
	Err error
}

// Error returns a formatted error message with position information.
func (e *EncodingError) Error() string {
	return fmt.Sprintf("source is not valid %s at byte %d: %v", e.Encoding, e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *EncodingError) Unwrap() error {
	return e.Err
}

// DecodeError reports a decode failure while reading rows. It ends the
// current pass; reading has to restart from the beginning of the source.
type DecodeError = textenc.DecodeError

var (
	// ErrNoSeparators indicates an empty candidate separator list.
	ErrNoSeparators = errors.New("no candidate separators")

	// ErrInvalidSeparator indicates a separator that is a quote, CR, LF or
	// not a valid rune.
	ErrInvalidSeparator = errors.New("invalid separator")

	// ErrInvalidChunkSize indicates a negative chunk size.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")

	// ErrTruncated is wrapped by a DecodeError or EncodingError when the
	// source ends inside a multi-byte character.
	ErrTruncated = textenc.ErrTruncated

	// ErrUnpairedSurrogate is wrapped when UTF-16 input holds a surrogate
	// without its partner.
	ErrUnpairedSurrogate = textenc.ErrUnpairedSurrogate

	// ErrInvalidCodePoint is wrapped when UTF-32 input holds a surrogate or
	// a value above U+10FFFF.
	ErrInvalidCodePoint = textenc.ErrInvalidCodePoint

	// ErrUnmappedByte is wrapped when a single-byte encoding leaves a byte
	// of the input undefined.
	ErrUnmappedByte = textenc.ErrUnmappedByte

	// ErrSubstitution is wrapped when any other decoder could only
	// replace part of the input with U+FFFD.
	ErrSubstitution = textenc.ErrSubstitution

	// ErrUnknownEncoding is returned by LookupEncoding.
	ErrUnknownEncoding = textenc.ErrUnknownEncoding
)

// encodingError converts a decoder failure into an *EncodingError.
func encodingError(enc Encoding, err error) error {
	var decErr *textenc.DecodeError
	if errors.As(err, &decErr) {
		return &EncodingError{Encoding: enc.Name(), Offset: decErr.Offset, Err: decErr.Err}
	}
	return err
}
