package textenc

import "bytes"

// MaxBOMLength is the longest byte-order mark DetectBOM recognises.
const MaxBOMLength = 4

// Longer marks first: the UTF-32LE mark starts with the UTF-16LE one.
var boms = []struct {
	mark []byte
	enc  Encoding
}{
	{[]byte{0xFF, 0xFE, 0x00, 0x00}, UTF32LE},
	{[]byte{0x00, 0x00, 0xFE, 0xFF}, UTF32BE},
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

// DetectBOM inspects the first bytes of a stream. It returns the encoding the
// mark implies and the mark's length in bytes, or ok=false when prefix does
// not start with a known mark.
func DetectBOM(prefix []byte) (enc Encoding, length int, ok bool) {
	for _, b := range boms {
		if bytes.HasPrefix(prefix, b.mark) {
			return b.enc, len(b.mark), true
		}
	}
	return Encoding{}, 0, false
}
