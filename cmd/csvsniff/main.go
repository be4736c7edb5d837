package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csv-ingest/internal/config"
	"github.com/shapestone/shape-csv-ingest/internal/logging"
)

func main() {
	// A missing .env file is fine; the environment is used as is.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	if err := newRootCmd(cfg, logger).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "csvsniff",
		Short: "Sniff and stream delimited text files",
		Long: `csvsniff detects the byte order mark, encoding, separator, field count
and row count of a delimited text file, and streams its rows.

Defaults come from CSVSNIFF_* environment variables (or a .env file);
flags override them.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newSniffCmd(cfg, logger))
	rootCmd.AddCommand(newRowsCmd(cfg, logger))

	return rootCmd
}
