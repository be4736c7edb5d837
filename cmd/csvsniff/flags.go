package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csv-ingest/internal/config"
	"github.com/shapestone/shape-csv-ingest/internal/logging"
	"github.com/shapestone/shape-csv-ingest/internal/source"
	"github.com/shapestone/shape-csv-ingest/pkg/csv"
)

// ingestFlags are the flags shared by every command that reads a file.
// They start out with the configured values.
type ingestFlags struct {
	separators       string
	fallbackEncoding string
	chunkSize        int
	mmap             bool
	format           string
}

func addIngestFlags(cmd *cobra.Command, f *ingestFlags, cfg *config.Config) {
	cmd.Flags().StringVar(&f.separators, "separators", cfg.Ingest.Separators, `candidate separators in order of preference (\t for tab)`)
	cmd.Flags().StringVar(&f.fallbackEncoding, "fallback-encoding", cfg.Ingest.FallbackEncoding, "encoding to retry with when the file is not valid UTF-8 (empty disables)")
	cmd.Flags().IntVar(&f.chunkSize, "chunk-size", cfg.Ingest.ChunkSize, "bytes read per step")
	cmd.Flags().BoolVar(&f.mmap, "mmap", cfg.Ingest.Mmap, "memory-map the input file")
	cmd.Flags().StringVar(&f.format, "format", "text", "output format: text, json")
}

// options merges the flags over the configuration.
func (f *ingestFlags) options(cfg *config.Config, logger *slog.Logger) (csv.Options, error) {
	merged := *cfg
	merged.Ingest.Separators = f.separators
	merged.Ingest.FallbackEncoding = f.fallbackEncoding
	merged.Ingest.ChunkSize = f.chunkSize

	opts, err := merged.Options()
	if err != nil {
		return csv.Options{}, err
	}
	opts.Logger = logger
	return opts, nil
}

func (f *ingestFlags) checkFormat() error {
	switch f.format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or json)", f.format)
	}
}

// openWorksheet opens path and sniffs it. The returned release function
// must be called once the worksheet is no longer used.
func (f *ingestFlags) openWorksheet(path string, cfg *config.Config, logger *slog.Logger) (*csv.Worksheet, func() error, error) {
	if err := f.checkFormat(); err != nil {
		return nil, nil, err
	}

	logger = logging.WithSource(logger, path)
	opts, err := f.options(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	src, release, err := source.Open(path, f.mmap)
	if err != nil {
		return nil, nil, err
	}

	ws, err := csv.Open(src, opts)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("sniff %s: %w", path, err)
	}
	return ws, release, nil
}

func releaseSource(w io.Writer, release func() error) {
	if err := release(); err != nil {
		fmt.Fprintf(w, "warning: release source: %v\n", err)
	}
}
