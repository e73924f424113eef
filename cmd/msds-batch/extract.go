package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/msds-extractor/internal/classify"
	"github.com/joseph-ayodele/msds-extractor/internal/common"
	"github.com/joseph-ayodele/msds-extractor/internal/pdftext"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Print the extracted text and fields of a single PDF",
	Long: `extract runs text extraction and classification on one PDF and prints the
page-delimited text (with --text) and the field table to stdout. Nothing is
written to the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().Bool("text", false, "also print the extracted text")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := common.NewLogger(cfg.Log, os.Stderr)

	rules := classify.DefaultRules()
	if path := cfg.RulesPath(); path != "" {
		if rules, err = classify.LoadRules(path); err != nil {
			return err
		}
	}

	ctx, cancel := common.WithTimeout(cmd.Context(), cfg.Extract.DocumentTimeout)
	defer cancel()

	extractor := pdftext.NewExtractor(pdftext.Config{
		Backend:   cfg.Extract.Backend,
		Pdftotext: cfg.Extract.Pdftotext,
		MaxPages:  cfg.Extract.MaxPages,
	}, logger)

	start := time.Now()
	res, err := extractor.Extract(ctx, args[0])
	if err != nil {
		logger.Error("text extraction failed", "path", args[0], "error", err)
		return err
	}
	logger.Info("text extraction OK",
		"method", res.Method,
		"pages", res.Pages,
		"pages_with_text", res.PagesWithText,
		"failed_pages", len(res.FailedPages),
		"bytes", len(res.Text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if res.Text == "" {
		return fmt.Errorf("no text extracted from %s", args[0])
	}

	out := cmd.OutOrStdout()
	if showText, _ := cmd.Flags().GetBool("text"); showText {
		fmt.Fprintln(out, res.Text)
		fmt.Fprintln(out)
	}
	for _, fv := range classify.New(rules).Classify(res.Text) {
		label := string(fv.Field)
		if cfg.Export.Bilingual {
			label = fv.Field.BilingualLabel()
		}
		fmt.Fprintf(out, "%-30s %s\n", label, fv.Value)
	}
	return nil
}
