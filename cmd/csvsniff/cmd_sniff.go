package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csv-ingest/internal/config"
	"github.com/shapestone/shape-csv-ingest/pkg/csv"
)

// sniffReport is the JSON form of a sniff result.
type sniffReport struct {
	File       string `json:"file"`
	Encoding   string `json:"encoding"`
	BOMLength  int    `json:"bomLength"`
	Separator  string `json:"separator"`
	FieldCount int    `json:"fieldCount"`
	RowCount   int    `json:"rowCount"`
}

func newSniffCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	var flags ingestFlags

	cmd := &cobra.Command{
		Use:   "sniff <file>",
		Short: "Detect the format of a delimited text file",
		Long: `Detect the byte order mark, encoding, separator, number of fields in
the first row and number of rows of a file.

If the file is not valid UTF-8 it is sniffed again with the fallback
encoding.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, release, err := flags.openWorksheet(args[0], cfg, logger)
			if err != nil {
				return err
			}
			defer releaseSource(cmd.ErrOrStderr(), release)

			return writeSniff(cmd.OutOrStdout(), args[0], ws.Sniff(), flags.format)
		},
	}

	addIngestFlags(cmd, &flags, cfg)

	return cmd
}

func writeSniff(w io.Writer, path string, res csv.SniffResult, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sniffReport{
			File:       path,
			Encoding:   res.Encoding.Name(),
			BOMLength:  res.BOMLength,
			Separator:  string(res.Separator),
			FieldCount: res.FieldCount,
			RowCount:   res.RowCount,
		})
	}

	_, err := fmt.Fprintf(w, "file:      %s\nencoding:  %s\nbom:       %d\nseparator: %q\nfields:    %d\nrows:      %d\n",
		path, res.Encoding, res.BOMLength, res.Separator, res.FieldCount, res.RowCount)
	return err
}
