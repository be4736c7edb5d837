package csv

import (
	"fmt"
	"log/slog"
	"unicode/utf8"
)

// DefaultChunkSize is the number of bytes read per tokenizer call.
const DefaultChunkSize = 1024

// Options configures Open.
// Zero values take the defaults of DefaultOptions, except FallbackEncoding:
// an unset fallback disables the retry.
type Options struct {
	// Separators are the candidate field separators, in order of preference.
	// A separator may not be a double quote, CR or LF.
	// Default: ',', ';', '\t', '|'
	Separators []rune

	// FallbackEncoding is tried when the source is not valid UTF-8.
	// Default: Windows-1252
	FallbackEncoding Encoding

	// ChunkSize is the number of bytes read from the source per step.
	// It does not change the rows produced.
	// Default: 1024
	ChunkSize int

	// Logger receives debug and warning records. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Separators:       []rune{',', ';', '\t', '|'},
		FallbackEncoding: Windows1252,
		ChunkSize:        DefaultChunkSize,
	}
}

func (o Options) normalize() (Options, error) {
	if o.Separators == nil {
		o.Separators = DefaultOptions().Separators
	}
	if err := validateSeparators(o.Separators); err != nil {
		return Options{}, err
	}
	switch {
	case o.ChunkSize == 0:
		o.ChunkSize = DefaultChunkSize
	case o.ChunkSize < 0:
		return Options{}, fmt.Errorf("%w: %d", ErrInvalidChunkSize, o.ChunkSize)
	}
	return o, nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func validateSeparators(seps []rune) error {
	if len(seps) == 0 {
		return ErrNoSeparators
	}
	for _, r := range seps {
		if r == '"' || r == '\r' || r == '\n' || !utf8.ValidRune(r) {
			return fmt.Errorf("%w: %q", ErrInvalidSeparator, r)
		}
	}
	return nil
}
