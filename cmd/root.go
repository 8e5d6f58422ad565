// Package cmd provides CLI commands for deposit.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Convert journal article metadata between publishing XML dialects",
	Long: `Deposit converts bilingual journal article metadata between the XML
dialects academic registries ingest.

A record pair (journal + article metadata) can be read from JATS 1.4
archiving XML or from a YAML file, and written as JATS, as a Crossref
4.4.2 deposit batch, as DOAJ article records, or back to YAML.

Examples:
  deposit convert jats crossref -i article.xml -o batch.xml --head head.yaml
  deposit convert yaml doaj -i records.yaml
  cat article.xml | deposit convert jats yaml
  deposit formats`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	setupLogger()
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(formatsCmd)
}
