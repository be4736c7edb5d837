package csv

import "github.com/shapestone/shape-csv-ingest/internal/textenc"

// Encoding identifies a character encoding. The zero value is "unset".
type Encoding = textenc.Encoding

// Encodings recognised by byte-order mark, plus common fallbacks.
var (
	UTF8        = textenc.UTF8
	UTF16LE     = textenc.UTF16LE
	UTF16BE     = textenc.UTF16BE
	UTF32LE     = textenc.UTF32LE
	UTF32BE     = textenc.UTF32BE
	Windows1252 = textenc.Windows1252
	ISO8859_1   = textenc.ISO8859_1
)

// LookupEncoding resolves an IANA encoding name or a common alias such as
// "latin1" or "cp1252".
func LookupEncoding(name string) (Encoding, error) {
	return textenc.Lookup(name)
}
