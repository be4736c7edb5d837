package textenc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "utf-8", input: "UTF-8", want: "UTF-8"},
		{name: "utf8 alias", input: "utf8", want: "UTF-8"},
		{name: "cp1252 alias", input: "CP1252", want: "windows-1252"},
		{name: "latin1 alias", input: " latin1 ", want: "ISO-8859-1"},
		{name: "utf-16le", input: "utf-16le", want: "UTF-16LE"},
		{name: "iana name", input: "ISO-8859-15", want: "ISO-8859-15"},
		{name: "unknown", input: "no-such-charset", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownEncoding)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name())
		})
	}
}

func TestLookupUTF8IsStrict(t *testing.T) {
	enc, err := Lookup("utf-8")
	require.NoError(t, err)

	_, err = enc.NewDecoder().Decode([]byte{'a', 0xFF})
	assert.ErrorIs(t, err, encoding.ErrInvalidUTF8)
}

func TestDetectBOM(t *testing.T) {
	tests := []struct {
		name    string
		prefix  []byte
		wantEnc string
		wantLen int
		wantOK  bool
	}{
		{name: "utf-8", prefix: []byte{0xEF, 0xBB, 0xBF, 'a'}, wantEnc: "UTF-8", wantLen: 3, wantOK: true},
		{name: "utf-16le", prefix: []byte{0xFF, 0xFE, 'a', 0x00}, wantEnc: "UTF-16LE", wantLen: 2, wantOK: true},
		{name: "utf-16be", prefix: []byte{0xFE, 0xFF, 0x00, 'a'}, wantEnc: "UTF-16BE", wantLen: 2, wantOK: true},
		{name: "utf-32le", prefix: []byte{0xFF, 0xFE, 0x00, 0x00}, wantEnc: "UTF-32LE", wantLen: 4, wantOK: true},
		{name: "utf-32be", prefix: []byte{0x00, 0x00, 0xFE, 0xFF}, wantEnc: "UTF-32BE", wantLen: 4, wantOK: true},
		{name: "no bom", prefix: []byte("abc"), wantOK: false},
		{name: "short prefix", prefix: []byte{0xEF, 0xBB}, wantOK: false},
		{name: "empty", prefix: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, n, ok := DetectBOM(tt.prefix)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantLen, n)
			if ok {
				assert.Equal(t, tt.wantEnc, enc.Name())
			}
		})
	}
}

func decodeInPieces(t *testing.T, enc Encoding, data []byte, size int) string {
	t.Helper()
	dec := enc.NewDecoder()
	var out string
	for len(data) > 0 {
		n := min(size, len(data))
		s, err := dec.Decode(data[:n])
		require.NoError(t, err)
		out += s
		data = data[n:]
	}
	require.NoError(t, dec.Close())
	return out
}

func TestDecoderSplitCharacters(t *testing.T) {
	const text = "żółw,€,𝄞\n"

	utf16le, err := UTF16LE.codec.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)
	utf32be, err := UTF32BE.codec.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	tests := []struct {
		name string
		enc  Encoding
		data []byte
	}{
		{name: "utf-8", enc: UTF8, data: []byte(text)},
		{name: "utf-16le", enc: UTF16LE, data: utf16le},
		{name: "utf-32be", enc: UTF32BE, data: utf32be},
	}

	for _, tt := range tests {
		for _, size := range []int{1, 2, 3, 5, 7, len(tt.data)} {
			assert.Equal(t, text, decodeInPieces(t, tt.enc, tt.data, size), "%s in pieces of %d", tt.name, size)
		}
	}
}

func TestDecoderInvalidUTF8Offset(t *testing.T) {
	dec := UTF8.NewDecoder()
	dec.Skip(3)

	s, err := dec.Decode([]byte("ab"))
	require.NoError(t, err)
	assert.Equal(t, "ab", s)

	_, err = dec.Decode([]byte{'c', 0xC3, 0x28})
	var decErr *DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, int64(6), decErr.Offset)
	assert.Equal(t, "UTF-8", decErr.Encoding)
	assert.ErrorIs(t, err, encoding.ErrInvalidUTF8)
}

func TestDecoderTruncatedAtClose(t *testing.T) {
	dec := UTF8.NewDecoder()

	s, err := dec.Decode([]byte{'x', 0xE2, 0x82})
	require.NoError(t, err)
	assert.Equal(t, "x", s)
	assert.Equal(t, 2, dec.Pending())

	err = dec.Close()
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, 0, dec.Pending())
}

func TestDecoderSingleByteFallback(t *testing.T) {
	s, err := Windows1252.NewDecoder().Decode([]byte{'c', 'a', 'f', 0xE9})
	require.NoError(t, err)
	assert.Equal(t, "café", s)
}

func TestDecoderGrowsDestination(t *testing.T) {
	data := make([]byte, 3*initialDstSize)
	for i := range data {
		data[i] = 'a' + byte(i%26)
	}

	s, err := UTF8.NewDecoder().Decode(data)
	require.NoError(t, err)
	assert.Equal(t, string(data), s)
}

func TestEncodingString(t *testing.T) {
	assert.Equal(t, "<unset>", Encoding{}.String())
	assert.Equal(t, "UTF-8", UTF8.String())
	assert.True(t, Encoding{}.IsZero())
	assert.False(t, Windows1252.IsZero())
}
