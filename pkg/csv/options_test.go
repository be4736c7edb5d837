package csv

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	opts, err := Options{}.normalize()
	if err != nil {
		t.Fatalf("normalize() error = %v", err)
	}
	if len(opts.Separators) != 4 || opts.Separators[0] != ',' {
		t.Errorf("normalize().Separators = %q, want defaults", opts.Separators)
	}
	if opts.ChunkSize != DefaultChunkSize {
		t.Errorf("normalize().ChunkSize = %d, want %d", opts.ChunkSize, DefaultChunkSize)
	}
	if !opts.FallbackEncoding.IsZero() {
		t.Errorf("normalize().FallbackEncoding = %v, want unset", opts.FallbackEncoding)
	}
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"empty separators", Options{Separators: []rune{}}, ErrNoSeparators},
		{"quote separator", Options{Separators: []rune{'"'}}, ErrInvalidSeparator},
		{"newline separator", Options{Separators: []rune{',', '\n'}}, ErrInvalidSeparator},
		{"invalid rune", Options{Separators: []rune{0xD800}}, ErrInvalidSeparator},
		{"negative chunk size", Options{ChunkSize: -1}, ErrInvalidChunkSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.normalize()
			if !errors.Is(err, tt.want) {
				t.Errorf("normalize() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestChunkPool(t *testing.T) {
	buf := getChunk(DefaultChunkSize)
	if len(buf) != DefaultChunkSize {
		t.Fatalf("getChunk() len = %d, want %d", len(buf), DefaultChunkSize)
	}
	putChunk(buf)

	odd := getChunk(7)
	if len(odd) != 7 {
		t.Errorf("getChunk(7) len = %d, want 7", len(odd))
	}
	putChunk(odd)
}
