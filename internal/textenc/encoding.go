// Package textenc resolves character encodings, detects byte-order marks and
// builds strict incremental decoders on top of golang.org/x/text.
//
// Strict means an invalid byte sequence is reported as an error instead of
// being replaced with U+FFFD. UTF-8 uses the x/text validator; UTF-16,
// UTF-32 and the single-byte charmaps have decoders of their own that
// report the exact offending byte. Any other x/text codec is wrapped in a
// guard that rejects the replacement characters it produces.
package textenc

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned by Lookup for names it cannot resolve.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Encoding identifies a character encoding. The zero value means "unset".
type Encoding struct {
	name       string
	codec      encoding.Encoding
	strictUTF8 bool

	// width is the code unit size of the UTF-16 (2) and UTF-32 (4)
	// encodings, which are decoded by the strict decoders in strict.go.
	width     int
	bigEndian bool
}

var (
	UTF8        = Encoding{name: "UTF-8", codec: unicode.UTF8, strictUTF8: true}
	UTF16LE     = Encoding{name: "UTF-16LE", codec: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), width: 2}
	UTF16BE     = Encoding{name: "UTF-16BE", codec: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), width: 2, bigEndian: true}
	UTF32LE     = Encoding{name: "UTF-32LE", codec: utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), width: 4}
	UTF32BE     = Encoding{name: "UTF-32BE", codec: utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), width: 4, bigEndian: true}
	Windows1252 = Encoding{name: "windows-1252", codec: charmap.Windows1252}
	ISO8859_1   = Encoding{name: "ISO-8859-1", codec: charmap.ISO8859_1}
)

// aliases covers the names x/text's IANA index either lacks or maps to a
// BOM-sniffing codec. Keys are lower case.
var aliases = map[string]Encoding{
	"utf-8":        UTF8,
	"utf8":         UTF8,
	"utf-16le":     UTF16LE,
	"utf-16be":     UTF16BE,
	"utf-32le":     UTF32LE,
	"utf-32be":     UTF32BE,
	"windows-1252": Windows1252,
	"cp1252":       Windows1252,
	"latin1":       ISO8859_1,
	"iso-8859-1":   ISO8859_1,
}

// New wraps an x/text encoding under the given display name.
func New(name string, codec encoding.Encoding) Encoding {
	return Encoding{name: name, codec: codec}
}

// Lookup resolves an encoding by IANA name or common alias, case-insensitively.
func Lookup(name string) (Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if enc, ok := aliases[key]; ok {
		return enc, nil
	}

	codec, err := ianaindex.IANA.Encoding(key)
	if err != nil || codec == nil {
		return Encoding{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}

	canonical, err := ianaindex.IANA.Name(codec)
	if err != nil {
		canonical = name
	}
	if canonical == UTF8.name {
		return UTF8, nil
	}
	return Encoding{name: canonical, codec: codec}, nil
}

// Name returns the display name of the encoding.
func (e Encoding) Name() string {
	return e.name
}

// String implements fmt.Stringer.
func (e Encoding) String() string {
	if e.IsZero() {
		return "<unset>"
	}
	return e.name
}

// IsZero reports whether e is the unset encoding.
func (e Encoding) IsZero() bool {
	return e.codec == nil
}

// NewDecoder returns a fresh strict decoder for e.
func (e Encoding) NewDecoder() *Decoder {
	return newDecoder(e.name, e.transformer())
}

func (e Encoding) transformer() transform.Transformer {
	switch {
	case e.strictUTF8:
		return encoding.UTF8Validator
	case e.width == 2:
		return &utf16Decoder{bigEndian: e.bigEndian}
	case e.width == 4:
		return &utf32Decoder{bigEndian: e.bigEndian}
	}
	if cm, ok := e.codec.(*charmap.Charmap); ok {
		return &charmapDecoder{cm: cm}
	}
	return &substitutionGuard{t: e.codec.NewDecoder()}
}
