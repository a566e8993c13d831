package cli

import (
	"github.com/spf13/cobra"
)

// RootCMD wraps the root cobra.Command
type RootCMD struct {
	Root *cobra.Command
}

// NewRootCMD creates a new RootCMD with the given parameters
func NewRootCMD(params *CmdParams) *RootCMD {
	return &RootCMD{
		Root: NewRoot(params),
	}
}

// NewRoot creates the root command. Run with one positional argument it
// processes that CSV file and prints the resulting ledger.
func NewRoot(params *CmdParams) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           params.Use + " [flags] <input.csv>",
		Aliases:       []string{params.Alias},
		Short:         params.Short,
		Long:          params.Long,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// argument errors print usage, processing errors do not
			cmd.SilenceUsage = true
			return runLedger(cmd, args[0], params)
		},
	}

	// Validate palette
	if params.Palette == nil {
		params.Palette = []*cobra.Command{}
	}

	// Add commands to the root
	rootCmd.AddCommand(params.Palette...)

	// Define persistent flags for the root command so subcommands see the
	// same configuration
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is ./config.yaml or ~/.config/toytxs/config.yaml)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-dir", "", "also write logs to a file in this directory")
	flags.Int("shards", 0, "apply transactions on this many actor shards (0 or 1 applies in-process)")
	flags.Bool("sorted", false, "order output rows by client id")
	flags.String("sqlite", "", "export the final ledger to this SQLite file")
	flags.String("nats-url", "", "publish rejected transactions to this NATS server")
	flags.String("nats-subject", "toytxs.rejections", "subject for rejected transaction events")
	flags.Bool("guard-redispute", false, "reject a dispute of a transaction that is already disputed")
	flags.String("duplicate-tx", "overwrite", "what a deposit or withdrawal tx id reused within a client's history does (overwrite or fatal)")

	return rootCmd
}
