package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DieracDelta/toy-txs/domain/usecases"
	"github.com/DieracDelta/toy-txs/factory"
	"github.com/DieracDelta/toy-txs/internal"
)

// runLedger wires one run: input file, outcome sinks, engine, export and
// the ledger service writing to the command's stdout.
func runLedger(cmd *cobra.Command, path string, params *CmdParams) error {
	cfg, err := LoadConfig(cmd, params)
	if err != nil {
		return err
	}
	logger := params.Logger

	input, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer input.Close()

	runID := internal.GenerateRunID()
	logger.Debug(internal.ComponentCLI, "Processing %s as run %s", path, runID)

	sink, closeSink, err := factory.NewOutcomeSink(cfg, runID, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeSink(); cerr != nil {
			logger.Warn(internal.ComponentNATS, "Failed to close diagnostics: %v", cerr)
		}
	}()

	engine, err := factory.NewLedgerEngine(cfg, sink, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := engine.Close(); cerr != nil {
			logger.Warn(internal.ComponentEngine, "Failed to close engine: %v", cerr)
		}
	}()

	repo, err := factory.NewAccountRepository(cfg, logger)
	if err != nil {
		return err
	}
	if repo != nil {
		defer repo.Close()
	}

	svc := usecases.NewLedgerService(engine, usecases.LedgerServiceOptions{
		Repository: repo,
		RunID:      runID,
		Sorted:     cfg.Output.Sorted,
	})
	return svc.Process(cmd.Context(), input, cmd.OutOrStdout())
}
