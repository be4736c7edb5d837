package csv

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openString(t *testing.T, input string, opts Options) *Worksheet {
	t.Helper()
	ws, err := Open(strings.NewReader(input), opts)
	require.NoError(t, err)
	return ws
}

func readAll(t *testing.T, ws *Worksheet) []Row {
	t.Helper()
	rows := []Row{}
	r := ws.NewRowReader()
	defer r.Close()
	for r.Scan() {
		rows = append(rows, r.Row())
	}
	require.NoError(t, r.Err())
	return rows
}

func values(rows []Row) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Values()
	}
	return out
}

func TestRowReader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "simple unquoted",
			input: "a,b,c\n1,2,3\n",
			want:  [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
		{
			name:  "quoted separator and newline",
			input: "a,\"b,c\nd\",e\n",
			want:  [][]string{{"a", "b,c\nd", "e"}},
		},
		{
			name:  "doubled quote",
			input: "\"he said \"\"hi\"\"\"\n",
			want:  [][]string{{`he said "hi"`}},
		},
		{
			name:  "trailing row flushed",
			input: "x,y,z",
			want:  [][]string{{"x", "y", "z"}},
		},
		{
			name:  "empty source",
			input: "",
			want:  [][]string{},
		},
		{
			name:  "detected semicolon",
			input: "a;b;c\n1;2;3",
			want:  [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := openString(t, tt.input, DefaultOptions())
			rows := readAll(t, ws)
			assert.Equal(t, tt.want, values(rows))
			assert.Equal(t, ws.RowCount(), len(rows))
		})
	}
}

func TestRowReaderIndices(t *testing.T) {
	ws := openString(t, "a,b,c\n1,2,3\n", DefaultOptions())
	rows := readAll(t, ws)

	require.Len(t, rows, 2)
	for i, row := range rows {
		assert.Equal(t, i, row.Index)
		for j, cell := range row.Cells {
			assert.Equal(t, j, cell.ColumnIndex)
		}
	}
	assert.Equal(t, Row{Index: 1, Cells: []Cell{{0, "1"}, {1, "2"}, {2, "3"}}}, rows[1])
}

func TestRowReaderChunkSizeInvariance(t *testing.T) {
	inputs := [][]byte{
		[]byte("a,b,c\n1,2,3\n"),
		[]byte("a,\"b,c\nd\",e\r\nżółw,€,𝄞\r\n\"x\"\"y\""),
		append([]byte{0xEF, 0xBB, 0xBF}, "é;ü\n1;2"...),
		{0xFF, 0xFE, 'a', 0, ',', 0, 0xAC, 0x20, '\r', 0, '\n', 0, 'b', 0},
		[]byte("caf\xe9,cr\xe8me\n\"\xe0\nx\",y"),
	}

	for _, input := range inputs {
		ws, err := Open(bytes.NewReader(input), Options{ChunkSize: len(input) + 1, FallbackEncoding: Windows1252})
		require.NoError(t, err)
		want := readAll(t, ws)
		require.Equal(t, ws.RowCount(), len(want))

		for size := 1; size <= len(input); size++ {
			ws, err := Open(bytes.NewReader(input), Options{ChunkSize: size, FallbackEncoding: Windows1252})
			require.NoError(t, err)
			assert.Equal(t, want, readAll(t, ws), "input %q, chunk size %d", input, size)
		}
	}
}

func TestRowReaderSkipsBOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, "id,name\n1,x\n"...)
	for _, size := range []int{1, 2, 3, 4, 1024} {
		ws, err := Open(bytes.NewReader(input), Options{ChunkSize: size})
		require.NoError(t, err)
		rows := readAll(t, ws)
		require.Len(t, rows, 2)
		assert.Equal(t, "id", rows[0].Cells[0].Value, "chunk size %d", size)
	}
}

func TestRowReaderRewinds(t *testing.T) {
	src := strings.NewReader("a\nb\n")
	ws, err := Open(src, DefaultOptions())
	require.NoError(t, err)

	_, err = src.Seek(3, io.SeekStart)
	require.NoError(t, err)

	first := readAll(t, ws)
	second := readAll(t, ws)
	assert.Equal(t, [][]string{{"a"}, {"b"}}, values(first))
	assert.Equal(t, first, second)
}

func TestRowReaderStopEarly(t *testing.T) {
	ws := openString(t, "1\n2\n3\n4\n", Options{ChunkSize: 2})

	r := ws.NewRowReader()
	require.True(t, r.Scan())
	assert.Equal(t, "1", r.Row().Cells[0].Value)
	r.Close()

	assert.False(t, r.Scan())
	assert.NoError(t, r.Err())
}

func TestRowReaderDecodeError(t *testing.T) {
	// Sniffed under UTF-8, then the source changes underneath the worksheet.
	data := []byte("a,b\nc,d\n")
	src := bytes.NewReader(data)
	ws, err := Open(src, DefaultOptions())
	require.NoError(t, err)

	data[5] = 0xFF
	r := ws.NewRowReader()
	defer r.Close()

	var got [][]string
	for r.Scan() {
		got = append(got, r.Row().Values())
	}

	var decErr *DecodeError
	require.True(t, errors.As(r.Err(), &decErr), "got %v", r.Err())
	assert.Equal(t, int64(5), decErr.Offset)
	assert.Empty(t, got)
	assert.False(t, r.Scan())
}

func TestRowReaderUnpairedSurrogate(t *testing.T) {
	data := []byte{0xFF, 0xFE, 'a', 0, ',', 0, 'b', 0, '\n', 0, 'c', 0, ',', 0, 'd', 0, '\n', 0}
	opts := DefaultOptions()
	opts.ChunkSize = 2
	ws, err := Open(bytes.NewReader(data), opts)
	require.NoError(t, err)
	require.Equal(t, UTF16LE, ws.Encoding())

	// Replace "c" with a lone low surrogate.
	data[10], data[11] = 0x00, 0xDC
	r := ws.NewRowReader()
	defer r.Close()

	var got [][]string
	for r.Scan() {
		got = append(got, r.Row().Values())
	}

	var decErr *DecodeError
	require.True(t, errors.As(r.Err(), &decErr), "got %v", r.Err())
	assert.ErrorIs(t, r.Err(), ErrUnpairedSurrogate)
	assert.Equal(t, int64(10), decErr.Offset)
	assert.Equal(t, [][]string{{"a", "b"}}, got)
}

type flakySource struct {
	*strings.Reader
	failAfter int
	reads     int
}

func (f *flakySource) Read(p []byte) (int, error) {
	f.reads++
	if f.reads > f.failAfter {
		return 0, errors.New("connection reset")
	}
	return f.Reader.Read(p)
}

func TestRowReaderReadError(t *testing.T) {
	src := &flakySource{Reader: strings.NewReader("a\nb\nc\n"), failAfter: 1 << 30}
	ws, err := Open(src, Options{ChunkSize: 2})
	require.NoError(t, err)

	src.reads, src.failAfter = 0, 1
	r := ws.NewRowReader()
	var got [][]string
	for r.Scan() {
		got = append(got, r.Row().Values())
	}
	assert.Equal(t, [][]string{{"a"}}, got)
	assert.ErrorContains(t, r.Err(), "connection reset")
}

func TestRowsSequence(t *testing.T) {
	ws := openString(t, "a,b\nc,d\ne,f", DefaultOptions())

	var got [][]string
	for row, err := range ws.Rows() {
		require.NoError(t, err)
		got = append(got, row.Values())
		if row.Index == 1 {
			break
		}
	}
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, got)

	count := 0
	for _, err := range ws.Rows() {
		require.NoError(t, err)
		count++
	}
	assert.Equal(t, 3, count)
}

func TestRowsSequenceYieldsError(t *testing.T) {
	data := []byte("a\nb\n")
	ws, err := Open(bytes.NewReader(data), DefaultOptions())
	require.NoError(t, err)
	data[2] = 0xC3

	var errs []error
	var rows int
	for _, err := range ws.Rows() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rows++
	}
	require.Len(t, errs, 1)
	assert.Equal(t, 0, rows)
}

func TestRowValues(t *testing.T) {
	row := newRow(7, []string{"x", "", "z"})
	assert.Equal(t, 7, row.Index)
	assert.Equal(t, []string{"x", "", "z"}, row.Values())
	assert.Equal(t, 2, row.Cells[2].ColumnIndex)
}
