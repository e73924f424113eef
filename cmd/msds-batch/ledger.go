package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/msds-extractor/constants"
	"github.com/joseph-ayodele/msds-extractor/internal/common"
	"github.com/joseph-ayodele/msds-extractor/internal/repository"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger [run-id]",
	Short: "Show a recorded run from the SQLite ledger",
	Long: `ledger prints the per-document results of a batch run recorded in the
ledger database. Without a run ID the most recent run is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLedger,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
}

func runLedger(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := common.NewLogger(cfg.Log, os.Stderr)
	ctx := cmd.Context()

	path := cfg.LedgerPath(constants.LedgerFileName)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no ledger at %s: %w", path, err)
	}
	db, err := repository.Open(ctx, repository.Config{Path: path}, logger)
	if err != nil {
		return err
	}
	defer repository.Close(db, logger)

	if err := repository.HealthCheck(ctx, db, time.Second); err != nil {
		return fmt.Errorf("ledger health: %w", err)
	}

	repo := repository.NewLedgerRepository(db, logger)
	var run repository.Run
	if len(args) == 1 {
		run, err = repo.GetRun(ctx, args[0])
	} else {
		run, err = repo.LatestRun(ctx)
	}
	if err != nil {
		return err
	}
	entries, err := repo.ListResults(ctx, run.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s)\n", run.ID, run.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "- Input: %s\n", run.InputDir)
	fmt.Fprintf(out, "- Output: %s\n", run.OutputDir)
	fmt.Fprintf(out, "- Processed: %d, failed: %d, skipped: %d\n", run.Processed, run.Failed, run.Skipped)
	for _, e := range entries {
		line := fmt.Sprintf("  [%s] %s", e.Status, e.File)
		switch {
		case e.Error != "":
			line += " - " + e.Error
		case e.Message != "":
			line += " - " + e.Message
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
