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

func newRowsCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	var flags ingestFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "rows <file>",
		Short: "Stream the rows of a delimited text file",
		Long: `Sniff a file, then stream its rows to stdout.

Text output prints one row per line as its index followed by the quoted
field values. JSON output prints one object per line:

  {"rowIndex":0,"cells":[{"columnIndex":0,"value":"a"}]}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}

			ws, release, err := flags.openWorksheet(args[0], cfg, logger)
			if err != nil {
				return err
			}
			defer releaseSource(cmd.ErrOrStderr(), release)

			return writeRows(cmd.OutOrStdout(), ws, flags.format, limit)
		},
	}

	addIngestFlags(cmd, &flags, cfg)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after this many rows (0 for all)")

	return cmd
}

// writeRows streams rows from ws to w. A limit of zero writes every row.
func writeRows(w io.Writer, ws *csv.Worksheet, format string, limit int) error {
	enc := json.NewEncoder(w)

	written := 0
	for row, err := range ws.Rows() {
		if err != nil {
			return fmt.Errorf("read rows: %w", err)
		}

		if format == "json" {
			if err := enc.Encode(row); err != nil {
				return err
			}
		} else if _, err := fmt.Fprintf(w, "%d %q\n", row.Index, row.Values()); err != nil {
			return err
		}

		written++
		if limit > 0 && written == limit {
			break
		}
	}
	return nil
}
