package textenc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var (
	// ErrUnpairedSurrogate reports a UTF-16 surrogate without its partner.
	ErrUnpairedSurrogate = errors.New("unpaired surrogate")

	// ErrInvalidCodePoint reports a UTF-32 unit that is a surrogate or
	// above U+10FFFF.
	ErrInvalidCodePoint = errors.New("invalid code point")

	// ErrUnmappedByte reports a byte the single-byte encoding leaves
	// undefined.
	ErrUnmappedByte = errors.New("byte has no mapping")

	// ErrSubstitution reports input the decoder could only replace with
	// U+FFFD.
	ErrSubstitution = errors.New("input replaced with U+FFFD")
)

var replacementChar = []byte(string(utf8.RuneError))

// incomplete is the error for a code unit cut short by the end of src.
func incomplete(atEOF bool) error {
	if atEOF {
		return ErrTruncated
	}
	return transform.ErrShortSrc
}

// putRune writes r to dst[nDst:] and returns the new length, or false when
// dst has no room left for it.
func putRune(dst []byte, nDst int, r rune) (int, bool) {
	if nDst+utf8.RuneLen(r) > len(dst) {
		return nDst, false
	}
	return nDst + utf8.EncodeRune(dst[nDst:], r), true
}

// utf16Decoder decodes UTF-16 without a BOM and rejects unpaired
// surrogates. A high surrogate at the end of src waits for the next call.
type utf16Decoder struct {
	transform.NopResetter
	bigEndian bool
}

func (d *utf16Decoder) unit(b []byte) rune {
	if d.bigEndian {
		return rune(binary.BigEndian.Uint16(b))
	}
	return rune(binary.LittleEndian.Uint16(b))
}

func (d *utf16Decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if len(src)-nSrc < 2 {
			return nDst, nSrc, incomplete(atEOF)
		}
		r := d.unit(src[nSrc:])
		size := 2
		switch {
		case 0xD800 <= r && r < 0xDC00:
			if len(src)-nSrc < 4 {
				return nDst, nSrc, incomplete(atEOF)
			}
			r = utf16.DecodeRune(r, d.unit(src[nSrc+2:]))
			if r == utf8.RuneError {
				return nDst, nSrc, ErrUnpairedSurrogate
			}
			size = 4
		case 0xDC00 <= r && r < 0xE000:
			return nDst, nSrc, ErrUnpairedSurrogate
		}

		var ok bool
		if nDst, ok = putRune(dst, nDst, r); !ok {
			return nDst, nSrc, transform.ErrShortDst
		}
		nSrc += size
	}
	return nDst, nSrc, nil
}

// utf32Decoder decodes UTF-32 without a BOM and rejects surrogates and
// values beyond the Unicode range.
type utf32Decoder struct {
	transform.NopResetter
	bigEndian bool
}

func (d *utf32Decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if len(src)-nSrc < 4 {
			return nDst, nSrc, incomplete(atEOF)
		}
		var v uint32
		if d.bigEndian {
			v = binary.BigEndian.Uint32(src[nSrc:])
		} else {
			v = binary.LittleEndian.Uint32(src[nSrc:])
		}
		if v > unicode.MaxRune || (0xD800 <= v && v < 0xE000) {
			return nDst, nSrc, ErrInvalidCodePoint
		}

		var ok bool
		if nDst, ok = putRune(dst, nDst, rune(v)); !ok {
			return nDst, nSrc, transform.ErrShortDst
		}
		nSrc += 4
	}
	return nDst, nSrc, nil
}

// charmapDecoder decodes a single-byte encoding and rejects bytes the
// charmap maps to U+FFFD.
type charmapDecoder struct {
	transform.NopResetter
	cm *charmap.Charmap
}

func (d *charmapDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r := d.cm.DecodeByte(src[nSrc])
		if r == utf8.RuneError {
			return nDst, nSrc, ErrUnmappedByte
		}

		var ok bool
		if nDst, ok = putRune(dst, nDst, r); !ok {
			return nDst, nSrc, transform.ErrShortDst
		}
		nSrc++
	}
	return nDst, nSrc, nil
}

// substitutionGuard wraps a decoder that replaces invalid input with
// U+FFFD and turns the replacement into ErrSubstitution. The error is
// reported at the start of the src passed to the failing call, as the
// wrapped decoder does not say which bytes it replaced.
type substitutionGuard struct {
	t transform.Transformer
}

func (g *substitutionGuard) Reset() {
	g.t.Reset()
}

func (g *substitutionGuard) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	nDst, nSrc, err = g.t.Transform(dst, src, atEOF)
	if bytes.Contains(dst[:nDst], replacementChar) {
		return 0, 0, ErrSubstitution
	}
	return nDst, nSrc, err
}
