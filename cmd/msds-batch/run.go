package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joseph-ayodele/msds-extractor/constants"
	"github.com/joseph-ayodele/msds-extractor/internal/classify"
	"github.com/joseph-ayodele/msds-extractor/internal/common"
	"github.com/joseph-ayodele/msds-extractor/internal/entity"
	"github.com/joseph-ayodele/msds-extractor/internal/export"
	"github.com/joseph-ayodele/msds-extractor/internal/ingest"
	"github.com/joseph-ayodele/msds-extractor/internal/pdftext"
	"github.com/joseph-ayodele/msds-extractor/internal/pipeline"
	"github.com/joseph-ayodele/msds-extractor/internal/repository"
	"github.com/joseph-ayodele/msds-extractor/internal/summary"
)

// loadConfig builds the viper instance from the persistent flags and binds the
// root command's override flags.
func loadConfig(cmd *cobra.Command) (*common.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	root, _ := cmd.Flags().GetString("root")

	searchDir := root
	if searchDir == "" {
		searchDir = "."
	}
	v := common.NewViper(cfgFile, searchDir)
	if root != "" {
		v.Set("paths.root", root)
	}
	bindFlag(v, cmd, "extract.backend", "backend")
	bindFlag(v, cmd, "export.bilingual", "bilingual")
	bindFlag(v, cmd, "log.level", "log-level")
	if noLedger, _ := cmd.Flags().GetBool("no-ledger"); noLedger {
		v.Set("ledger.enabled", false)
	}

	cfg, err := common.LoadConfig(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindFlag lets an explicitly set flag win over file and env values.
func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		_ = v.BindPFlag(key, f)
	}
}

func runBatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := common.NewLogger(cfg.Log, os.Stdout)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	// Classifier rules
	rules := classify.DefaultRules()
	if path := cfg.RulesPath(); path != "" {
		rules, err = classify.LoadRules(path)
		if err != nil {
			logger.Error("failed to load classifier rules", "path", path, "error", err)
			return err
		}
		logger.Info("using classifier rules file", "path", path, "rules", len(rules))
	}

	// Stages
	extractor := pdftext.NewExtractor(pdftext.Config{
		Backend:   cfg.Extract.Backend,
		Pdftotext: cfg.Extract.Pdftotext,
		MaxPages:  cfg.Extract.MaxPages,
	}, logger)
	classifier := classify.New(rules)
	exporter := export.NewService(export.Config{
		SheetName: cfg.Export.SheetName,
		Bilingual: cfg.Export.Bilingual,
	}, logger)
	processor := pipeline.NewProcessor(logger, extractor, classifier, exporter, cfg.OutputPath(), cfg.Extract.DocumentTimeout)

	summaries, err := summary.NewWriter(logger)
	if err != nil {
		logger.Error("failed to build summary writer", "error", err)
		return err
	}

	// Ledger (graceful if unavailable)
	var ledger pipeline.Ledger
	if cfg.Ledger.Enabled {
		db, err := repository.Open(ctx, repository.Config{Path: cfg.LedgerPath(constants.LedgerFileName)}, logger)
		if err != nil {
			logger.Warn("ledger disabled", "error", err)
		} else {
			defer repository.Close(db, logger)
			ledger = repository.NewLedgerRepository(db, logger)
		}
	}

	batch := pipeline.NewBatch(pipeline.BatchConfig{
		InputDir:  cfg.InputPath(),
		OutputDir: cfg.OutputPath(),
	}, ingest.NewScanner(logger), processor, summaries, ledger, logger)

	s, err := batch.Run(ctx)
	if err != nil {
		logger.Error("batch failed", "error", err)
		return err
	}

	printSummary(s, batch.SummaryPath())
	return nil
}

func printSummary(s entity.BatchSummary, path string) {
	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Run: %s\n", s.RunID)
	fmt.Printf("- Files processed: %d\n", s.ProcessedFilesCount)
	fmt.Printf("- Failures: %d\n", s.FailedFilesCount)
	fmt.Printf("- Skipped (no text): %d\n", len(s.SkippedFiles))
	fmt.Printf("- Summary: %s\n", path)
}
