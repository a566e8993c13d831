package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/DieracDelta/toy-txs/internal"
	"github.com/DieracDelta/toy-txs/internal/cli"
	"github.com/DieracDelta/toy-txs/internal/cli/cli_cmds"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Setup the Root Command
	rootParams := &cli.CmdParams{
		Palette: nil,
		Use:     internal.DefaultAppName,
		Alias:   "txs",
		Short:   "Toy payments engine",
		Long: `Toy payments engine - replays deposits, withdrawals, disputes, resolves and
chargebacks from a CSV file and prints the resulting client accounts as CSV.`,
	}

	// Generate command palette
	rootParams.Palette = cli_cmds.GeneratePalette(rootParams)

	// Create root command
	rootCmd := cli.NewRootCMD(rootParams)
	defer func() {
		if rootParams.Logger != nil {
			rootParams.Logger.Close()
		}
	}()

	return rootCmd.Root.ExecuteContext(ctx)
}
