// Package main is the entry point for the msds-batch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd runs the batch when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "msds-batch",
	Short: "Extract safety-data fields from MSDS PDFs",
	Long: `msds-batch scans the input directory for PDF safety data sheets, extracts
their text, classifies it into the fixed MSDS fields (English and Korean
headings) and writes, per document, <name>.xlsx and <name>_extracted.txt to
the output directory, followed by processing_summary.json.

Configuration is read from msds.yaml in the run root (or --config) and from
MSDS_* environment variables, e.g. MSDS_EXTRACT_BACKEND=pdftotext.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBatch,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: <root>/msds.yaml)")
	flags.String("root", "", "run root containing input/ and output/ (default: current directory)")

	flags.String("backend", "", "text extraction backend: native or pdftotext")
	flags.Bool("bilingual", false, "use English (Korean) field labels")
	flags.String("log-level", "", "log level: debug, info, warn, error")

	rootCmd.Flags().Bool("no-ledger", false, "do not record the run in the SQLite ledger")
}

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
}
